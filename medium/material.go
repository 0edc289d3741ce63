package medium

import (
	"math"

	"github.com/Fengkai-Wei/meep/geom"
	"github.com/Fengkai-Wei/meep/matgrid"
	"github.com/Fengkai-Wei/meep/tensor"
)

// Kind enumerates the closed set of material representations.
type Kind uint8

const (
	// KindMedium is a position-independent medium.
	KindMedium Kind = iota
	// KindPerfectMetal is a perfect electric conductor.
	KindPerfectMetal
	// KindUserFunc defers to a user callback for the medium at a point.
	KindUserFunc
	// KindGrid blends two media through a voxelized design field.
	KindGrid
	// KindFile reads an isotropic permittivity from a pre-loaded array.
	KindFile
)

// UserFunc fills in whatever differs from vacuum at the given point; the
// medium it receives is already reset to vacuum.
type UserFunc func(p geom.Vector3, m *Medium)

// Material is the tagged union over material kinds. The payload fields
// used depend on Kind; resolution produces a caller-owned Medium value
// rather than mutating the material, so distinct goroutines may evaluate
// the same material concurrently.
type Material struct {
	Kind Kind

	// Uniform payload; also the bounds check target for user materials.
	Medium Medium

	// Grid payload.
	Grid             *matgrid.Grid
	Medium1, Medium2 Medium
	// DoAveraging forces the numeric fallback integration for this
	// material instead of the closed-form interface blend.
	DoAveraging bool

	// User payload.
	User UserFunc

	// File payload: a raw permittivity array with its dimensions.
	EpsData []float64
	EpsDims [3]int
}

// NewMedium wraps a position-independent medium.
func NewMedium(m Medium) *Material { return &Material{Kind: KindMedium, Medium: m} }

// NewDielectric is a convenience for an isotropic uniform medium.
func NewDielectric(eps float64) *Material { return NewMedium(Dielectric(eps)) }

// PerfectMetal is a perfect electric conductor.
func PerfectMetal() *Material { return &Material{Kind: KindPerfectMetal} }

// NewUserMaterial wraps a user material function.
func NewUserMaterial(f UserFunc, doAveraging bool) *Material {
	return &Material{Kind: KindUserFunc, Medium: Vacuum(), User: f, DoAveraging: doAveraging}
}

// NewGridMaterial blends m1 (weight 0) and m2 (weight 1) through g.
func NewGridMaterial(g *matgrid.Grid, m1, m2 Medium, doAveraging bool) *Material {
	return &Material{
		Kind:        KindGrid,
		Grid:        g,
		Medium1:     m1,
		Medium2:     m2,
		DoAveraging: doAveraging,
	}
}

// NewFileMaterial wraps an externally loaded permittivity array.
func NewFileMaterial(data []float64, nx, ny, nz int) *Material {
	return &Material{Kind: KindFile, Medium: Vacuum(), EpsData: data, EpsDims: [3]int{nx, ny, nz}}
}

// Variable reports whether the material's properties depend on position.
// includeGrid excludes design grids from the test when false; the
// averaging engine treats grids separately from other variable materials.
func (m *Material) Variable(includeGrid bool) bool {
	switch m.Kind {
	case KindGrid:
		return includeGrid
	case KindUserFunc, KindFile:
		return true
	default:
		return false
	}
}

// Dispersive reports whether evaluating the material can produce
// frequency-dependent terms: susceptibilities or conductivities on the
// medium (on either bound, for grids), or a nonzero interpolation
// damping.
func (m *Material) Dispersive() bool {
	freqDep := func(med *Medium) bool {
		return len(med.ESusceptibilities)+len(med.HSusceptibilities) > 0 ||
			!med.DCondDiag.IsZero() || !med.BCondDiag.IsZero()
	}
	if m.Kind != KindGrid {
		return freqDep(&m.Medium)
	}
	return freqDep(&m.Medium1) || freqDep(&m.Medium2) || m.Grid.Damping != 0
}

// Equal implements material identity for the averaging engine: pointer
// identity, or structural equality within the same kind. User materials
// are equal only by pointer since the callback is opaque.
func (m *Material) Equal(o *Material) bool {
	if m == o {
		return true
	}
	if m == nil || o == nil || m.Kind != o.Kind {
		return false
	}
	switch m.Kind {
	case KindFile, KindPerfectMetal:
		return true
	case KindUserFunc:
		return false
	case KindGrid:
		return m.Grid.Equal(o.Grid) &&
			m.Medium1.Equal(&o.Medium1) && m.Medium2.Equal(&o.Medium2)
	default:
		return m.Medium.Equal(&o.Medium)
	}
}

// Copy deep-copies the material so scene construction owns its media.
func (m *Material) Copy() *Material {
	c := *m
	c.Medium = m.Medium.Copy()
	c.Medium1 = m.Medium1.Copy()
	c.Medium2 = m.Medium2.Copy()
	if m.Grid != nil {
		c.Grid = m.Grid.Copy()
	}
	c.EpsData = append([]float64(nil), m.EpsData...)
	return &c
}

// GridMedium blends the two bounding media at projected weight u and
// returns the resulting caller-owned medium.
//
// Permittivity and conductivity interpolate linearly. Susceptibility
// terms are not blended: both sides' terms are carried, side 1 scaled by
// (1-u) and side 2 by u, so the dispersion poles of each medium survive
// interpolation. A u(1-u)-shaped conductivity is added when the grid
// declares damping, which suppresses interpolation-induced instability.
func (m *Material) GridMedium(u float64) Medium {
	m1, m2 := &m.Medium1, &m.Medium2
	out := Vacuum()
	out.EpsDiag = lerpV(m1.EpsDiag, m2.EpsDiag, u)
	out.EpsOffdiag = lerpCV(m1.EpsOffdiag, m2.EpsOffdiag, u)
	out.MuDiag = lerpV(m1.MuDiag, m2.MuDiag, u)
	out.MuOffdiag = lerpCV(m1.MuOffdiag, m2.MuOffdiag, u)
	out.EChi2Diag = lerpV(m1.EChi2Diag, m2.EChi2Diag, u)
	out.EChi3Diag = lerpV(m1.EChi3Diag, m2.EChi3Diag, u)
	out.HChi2Diag = lerpV(m1.HChi2Diag, m2.HChi2Diag, u)
	out.HChi3Diag = lerpV(m1.HChi3Diag, m2.HChi3Diag, u)
	out.DCondDiag = lerpV(m1.DCondDiag, m2.DCondDiag, u)
	out.BCondDiag = lerpV(m1.BCondDiag, m2.BCondDiag, u)

	for _, s := range m1.ESusceptibilities {
		s.SigmaDiag = s.SigmaDiag.Scale(1 - u)
		s.SigmaOffdiag = s.SigmaOffdiag.Scale(1 - u)
		out.ESusceptibilities = append(out.ESusceptibilities, s)
	}
	for _, s := range m2.ESusceptibilities {
		s.SigmaDiag = s.SigmaDiag.Scale(u)
		s.SigmaOffdiag = s.SigmaOffdiag.Scale(u)
		out.ESusceptibilities = append(out.ESusceptibilities, s)
	}
	for _, s := range m1.HSusceptibilities {
		s.SigmaDiag = s.SigmaDiag.Scale(1 - u)
		s.SigmaOffdiag = s.SigmaOffdiag.Scale(1 - u)
		out.HSusceptibilities = append(out.HSusceptibilities, s)
	}
	for _, s := range m2.HSusceptibilities {
		s.SigmaDiag = s.SigmaDiag.Scale(u)
		s.SigmaOffdiag = s.SigmaOffdiag.Scale(u)
		out.HSusceptibilities = append(out.HSusceptibilities, s)
	}

	damping := u * (1 - u) * m.Grid.Damping
	out.DCondDiag.X += damping
	out.DCondDiag.Y += damping
	out.DCondDiag.Z += damping
	return out
}

// FileMedium interpolates the permittivity array at the normalized
// coordinate, producing an isotropic medium with zero off-diagonals.
func (m *Material) FileMedium(rx, ry, rz float64) Medium {
	out := Vacuum()
	if len(m.EpsData) == 0 {
		return out
	}
	eps := matgrid.Interpolate(rx, ry, rz, m.EpsData, m.EpsDims[0], m.EpsDims[1], m.EpsDims[2])
	out.EpsDiag = geom.Vector3{X: eps, Y: eps, Z: eps}
	return out
}

func lerpV(a, b geom.Vector3, u float64) geom.Vector3 {
	return geom.Vector3{
		X: a.X + u*(b.X-a.X),
		Y: a.Y + u*(b.Y-a.Y),
		Z: a.Z + u*(b.Z-a.Z),
	}
}

func lerpCV(a, b CVector3, u float64) CVector3 {
	cu := complex(u, 0)
	return CVector3{
		X: a.X + cu*(b.X-a.X),
		Y: a.Y + cu*(b.Y-a.Y),
		Z: a.Z + cu*(b.Z-a.Z),
	}
}

// EpsMu assembles the permittivity (or permeability) tensor and its
// inverse from an evaluated medium. A perfect metal is -inf on the
// electric diagonal with a signed-zero inverse, and the identity on the
// magnetic side: it conducts electrically, not magnetically.
func EpsMu(ft FieldType, kind Kind, med *Medium) (epsmu, epsmuInv tensor.SymMatrix) {
	if kind == KindPerfectMetal {
		if ft == EStuff {
			inf := math.Inf(1)
			epsmu = tensor.Diagonal(-inf, -inf, -inf)
			neg0 := math.Copysign(0, -1)
			epsmuInv = tensor.Diagonal(neg0, neg0, neg0)
			return
		}
		epsmu = tensor.Diagonal(1, 1, 1)
		epsmuInv = tensor.Diagonal(1, 1, 1)
		return
	}
	if ft == EStuff {
		epsmu = tensor.SymMatrix{
			M00: med.EpsDiag.X, M11: med.EpsDiag.Y, M22: med.EpsDiag.Z,
			M01: real(med.EpsOffdiag.X), M02: real(med.EpsOffdiag.Y), M12: real(med.EpsOffdiag.Z),
		}
	} else {
		epsmu = tensor.SymMatrix{
			M00: med.MuDiag.X, M11: med.MuDiag.Y, M22: med.MuDiag.Z,
			M01: real(med.MuOffdiag.X), M02: real(med.MuOffdiag.Y), M12: real(med.MuOffdiag.Z),
		}
	}
	epsmuInv = epsmu.Invert()
	return
}

// Metal reports whether the evaluated medium is metallic for the field
// type: any negative diagonal entry of the corresponding tensor. A
// perfect metal is always electric-metallic and never magnetic-metallic.
func Metal(ft FieldType, kind Kind, med *Medium) bool {
	if kind == KindPerfectMetal {
		return ft == EStuff
	}
	if ft == EStuff {
		return med.EpsDiag.X < 0 || med.EpsDiag.Y < 0 || med.EpsDiag.Z < 0
	}
	return med.MuDiag.X < 0 || med.MuDiag.Y < 0 || med.MuDiag.Z < 0
}
