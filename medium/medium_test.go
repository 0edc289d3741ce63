package medium

import (
	"math"
	"math/cmplx"
	"testing"

	"github.com/Fengkai-Wei/meep/geom"
	"github.com/Fengkai-Wei/meep/matgrid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func gridMaterial(t *testing.T, m1, m2 Medium, damping float64) *Material {
	t.Helper()
	g, err := matgrid.NewGrid(2, 2, 2, make([]float64, 8))
	require.NoError(t, err)
	g.Damping = damping
	return NewGridMaterial(g, m1, m2, false)
}

func TestComponentAddressing(t *testing.T) {
	assert.Equal(t, EStuff, Ex.Type())
	assert.Equal(t, EStuff, Dz.Type())
	assert.Equal(t, HStuff, Hy.Type())
	assert.Equal(t, HStuff, Bx.Type())
	assert.Equal(t, 2, Ez.Index())
	assert.Equal(t, 0, Bx.Index())
	assert.Equal(t, geom.Y, Dy.Direction())
	// cylindrical aliases share rows
	assert.Equal(t, Ex, Er)
	assert.Equal(t, 1, int(Hp.Index()))
}

func TestGridMediumEndpoints(t *testing.T) {
	m1 := Dielectric(2)
	m2 := Dielectric(12)
	mat := gridMaterial(t, m1, m2, 0)

	at0 := mat.GridMedium(0)
	assert.Equal(t, m1.EpsDiag, at0.EpsDiag)
	at1 := mat.GridMedium(1)
	assert.Equal(t, m2.EpsDiag, at1.EpsDiag)

	// linear blend in permittivity itself, not its inverse
	mid := mat.GridMedium(0.25)
	assert.InDelta(t, 4.5, mid.EpsDiag.X, 1e-15)
}

func TestGridMediumSusceptibilityScaling(t *testing.T) {
	s1 := Susceptibility{SigmaDiag: geom.Vector3{X: 2, Y: 2, Z: 2}, Frequency: 1.1, Gamma: 1e-5}
	s2 := Susceptibility{SigmaDiag: geom.Vector3{X: 4, Y: 4, Z: 4}, Frequency: 0.7, Drude: true}
	m1 := Dielectric(1)
	m1.ESusceptibilities = []Susceptibility{s1}
	m2 := Dielectric(4)
	m2.ESusceptibilities = []Susceptibility{s2}
	mat := gridMaterial(t, m1, m2, 0)

	out := mat.GridMedium(0.25)
	require.Len(t, out.ESusceptibilities, 2)
	// side 1 scales by 1-u, side 2 by u; poles are never merged
	assert.InDelta(t, 1.5, out.ESusceptibilities[0].SigmaDiag.X, 1e-15)
	assert.InDelta(t, 1.0, out.ESusceptibilities[1].SigmaDiag.X, 1e-15)
	assert.Equal(t, s1.Key(), out.ESusceptibilities[0].Key())
	assert.Equal(t, s2.Key(), out.ESusceptibilities[1].Key())
	// the source media keep their original strengths
	assert.Equal(t, 2.0, mat.Medium1.ESusceptibilities[0].SigmaDiag.X)
}

func TestGridMediumDamping(t *testing.T) {
	mat := gridMaterial(t, Dielectric(1), Dielectric(4), 8)
	assert.InDelta(t, 8*0.25*0.75, mat.GridMedium(0.25).DCondDiag.X, 1e-15)
	// damping vanishes at the endpoints
	assert.Equal(t, 0.0, mat.GridMedium(0).DCondDiag.X)
	assert.Equal(t, 0.0, mat.GridMedium(1).DCondDiag.X)
}

func TestChi1Oscillators(t *testing.T) {
	lorentz := Susceptibility{Frequency: 2, Gamma: 0}
	// at zero frequency a lossless Lorentzian contributes exactly sigma
	assert.Equal(t, complex(3, 0), lorentz.Chi1(0, 3))
	// far above resonance the response decays
	far := lorentz.Chi1(100, 3)
	assert.Less(t, cmplx.Abs(far), 0.01)

	drude := Susceptibility{Frequency: 2, Gamma: 0.1, Drude: true}
	got := drude.Chi1(1.5, 1)
	w := complex(1.5, 0)
	want := complex(2*2, 0) / (-w*w - complex(0, 1.5*0.1))
	assert.InDelta(t, real(want), real(got), 1e-15)
	assert.InDelta(t, imag(want), imag(got), 1e-15)
}

func TestSusceptibilityKeyIgnoresSigma(t *testing.T) {
	a := Susceptibility{SigmaDiag: geom.Vector3{X: 1}, Frequency: 1.1, Gamma: 0.01}
	b := Susceptibility{SigmaDiag: geom.Vector3{X: 5}, Frequency: 1.1, Gamma: 0.01}
	c := Susceptibility{SigmaDiag: geom.Vector3{X: 1}, Frequency: 1.1, Gamma: 0.01, Drude: true}
	assert.Equal(t, a.Key(), b.Key())
	assert.NotEqual(t, a.Key(), c.Key())
	assert.False(t, a.Equal(b))
}

func TestEpsMuPerfectMetal(t *testing.T) {
	med := Vacuum()
	em, inv := EpsMu(EStuff, KindPerfectMetal, &med)
	assert.True(t, math.IsInf(em.M00, -1))
	assert.Equal(t, 0.0, inv.M00)
	assert.True(t, math.Signbit(inv.M00))

	// magnetically a perfect metal is vacuum
	em, inv = EpsMu(HStuff, KindPerfectMetal, &med)
	assert.Equal(t, 1.0, em.M00)
	assert.Equal(t, 1.0, inv.M22)
}

func TestEpsMuAnisotropic(t *testing.T) {
	med := Vacuum()
	med.EpsDiag = geom.Vector3{X: 4, Y: 9, Z: 16}
	med.EpsOffdiag = CVector3{X: 1}
	em, inv := EpsMu(EStuff, KindMedium, &med)
	assert.Equal(t, 4.0, em.M00)
	assert.Equal(t, 1.0, em.M01)
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			r, c := em.Row(i), inv.Row(j)
			dot := r[0]*c[0] + r[1]*c[1] + r[2]*c[2]
			want := 0.0
			if i == j {
				want = 1
			}
			assert.InDelta(t, want, dot, 1e-12, "(%d,%d)", i, j)
		}
	}

	// the magnetic half reads the mu tensor
	em, _ = EpsMu(HStuff, KindMedium, &med)
	assert.Equal(t, 1.0, em.M00)
}

func TestMetal(t *testing.T) {
	med := Vacuum()
	assert.False(t, Metal(EStuff, KindMedium, &med))
	med.EpsDiag.Y = -2
	assert.True(t, Metal(EStuff, KindMedium, &med))
	assert.False(t, Metal(HStuff, KindMedium, &med))
	assert.True(t, Metal(EStuff, KindPerfectMetal, &med))
	assert.False(t, Metal(HStuff, KindPerfectMetal, &med))
}

func TestMaterialVariableAndDispersive(t *testing.T) {
	uni := NewDielectric(2)
	assert.False(t, uni.Variable(true))
	assert.False(t, uni.Dispersive())

	usr := NewUserMaterial(func(p geom.Vector3, m *Medium) {}, false)
	assert.True(t, usr.Variable(false))

	grid := gridMaterial(t, Dielectric(1), Dielectric(4), 0)
	assert.True(t, grid.Variable(true))
	assert.False(t, grid.Variable(false))
	assert.False(t, grid.Dispersive())
	grid.Grid.Damping = 1
	assert.True(t, grid.Dispersive())

	cond := Dielectric(2)
	cond.DCondDiag = geom.Vector3{X: 0.5}
	assert.True(t, NewMedium(cond).Dispersive())
}

func TestMaterialEqual(t *testing.T) {
	a := NewDielectric(2)
	b := NewDielectric(2)
	c := NewDielectric(3)
	assert.True(t, a.Equal(b))
	assert.False(t, a.Equal(c))
	assert.False(t, a.Equal(PerfectMetal()))

	// user materials compare only by pointer
	f := func(p geom.Vector3, m *Medium) {}
	u := NewUserMaterial(f, false)
	assert.True(t, u.Equal(u))
	assert.False(t, u.Equal(NewUserMaterial(f, false)))
}

func TestMaterialEqualGrid(t *testing.T) {
	a := gridMaterial(t, Dielectric(1), Dielectric(4), 0)
	assert.True(t, a.Equal(gridMaterial(t, Dielectric(1), Dielectric(4), 0)))

	// grid payloads participate in equality: differing weights, bounding
	// media or damping all separate the materials
	b := gridMaterial(t, Dielectric(1), Dielectric(4), 0)
	b.Grid.Weights[3] = 1
	assert.False(t, a.Equal(b))
	assert.False(t, a.Equal(gridMaterial(t, Dielectric(2), Dielectric(4), 0)))
	assert.False(t, a.Equal(gridMaterial(t, Dielectric(1), Dielectric(5), 0)))
	assert.False(t, a.Equal(gridMaterial(t, Dielectric(1), Dielectric(4), 0.1)))
}

func TestMaterialCopyIsDeep(t *testing.T) {
	m := Dielectric(2)
	m.ESusceptibilities = []Susceptibility{{Frequency: 1}}
	mat := gridMaterial(t, m, Dielectric(4), 0)
	cp := mat.Copy()
	cp.Medium1.ESusceptibilities[0].Frequency = 9
	cp.Grid.Weights[0] = 1
	assert.Equal(t, 1.0, mat.Medium1.ESusceptibilities[0].Frequency)
	assert.Equal(t, 0.0, mat.Grid.Weights[0])
}

func TestFileMedium(t *testing.T) {
	empty := NewFileMaterial(nil, 0, 0, 0)
	assert.Equal(t, Vacuum().EpsDiag, empty.FileMedium(0.5, 0.5, 0.5).EpsDiag)

	data := []float64{2, 2, 2, 2, 6, 6, 6, 6}
	mat := NewFileMaterial(data, 2, 2, 2)
	out := mat.FileMedium(0.5, 0.5, 0.5)
	assert.InDelta(t, 4, out.EpsDiag.X, 1e-14)
	assert.Equal(t, out.EpsDiag.X, out.EpsDiag.Z)
	assert.True(t, out.EpsOffdiag.IsZero())
}

func TestMediumConductivityByComponent(t *testing.T) {
	m := Vacuum()
	m.DCondDiag = geom.Vector3{X: 1, Y: 2, Z: 3}
	m.BCondDiag = geom.Vector3{X: 4, Y: 5, Z: 6}
	assert.Equal(t, 2.0, m.Conductivity(Dy))
	assert.Equal(t, 6.0, m.Conductivity(Bz))
	// E and H components do not address conductivity
	assert.Equal(t, 0.0, m.Conductivity(Ex))
}

func TestCheckOffdiagImZero(t *testing.T) {
	m := Vacuum()
	assert.NoError(t, m.CheckOffdiagImZero())
	m.EpsOffdiag.X = complex(0, 0.5)
	assert.Error(t, m.CheckOffdiagImZero())
}
