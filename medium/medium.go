// Package medium models electromagnetic material descriptions: the medium
// record holding permittivity/permeability tensors, conductivities,
// nonlinear coefficients and dispersive susceptibilities, and the closed
// set of material kinds the point evaluator can resolve.
package medium

import (
	"fmt"

	"github.com/Fengkai-Wei/meep/geom"
)

// CVector3 holds the three independent off-diagonal entries of a complex
// rank-2 tensor: X = (0,1), Y = (0,2), Z = (1,2).
type CVector3 struct {
	X, Y, Z complex128
}

func (v CVector3) Equal(w CVector3) bool { return v.X == w.X && v.Y == w.Y && v.Z == w.Z }

func (v CVector3) IsZero() bool { return v.X == 0 && v.Y == 0 && v.Z == 0 }

// Susceptibility describes one dispersive polarization term. SigmaDiag
// and SigmaOffdiag are the coupling-strength tensor; the remaining fields
// select and parameterize the oscillator model.
type Susceptibility struct {
	SigmaDiag    geom.Vector3
	SigmaOffdiag geom.Vector3
	Bias         geom.Vector3
	Frequency    float64
	Gamma        float64
	Alpha        float64
	NoiseAmp     float64
	Drude        bool
	Gyrotropic   bool
}

// Chi1 evaluates the linear susceptibility of the oscillator at the given
// frequency for coupling strength sigma. Drude terms drop the resonance
// from the denominator.
func (s Susceptibility) Chi1(freq, sigma float64) complex128 {
	w := complex(freq, 0)
	w0 := complex(s.Frequency, 0)
	g := complex(0, freq*s.Gamma)
	if s.Drude {
		return complex(sigma, 0) * w0 * w0 / (-w*w - g)
	}
	return complex(sigma, 0) * w0 * w0 / (w0*w0 - w*w - g)
}

// Key is the structural identity of a susceptibility, ignoring the
// coupling strength. Scene setup deduplicates susceptibilities by this
// key instead of chasing an intrusive list.
type Key struct {
	Bias       geom.Vector3
	Frequency  float64
	Gamma      float64
	Alpha      float64
	NoiseAmp   float64
	Drude      bool
	Gyrotropic bool
}

func (s Susceptibility) Key() Key {
	return Key{
		Bias:       s.Bias,
		Frequency:  s.Frequency,
		Gamma:      s.Gamma,
		Alpha:      s.Alpha,
		NoiseAmp:   s.NoiseAmp,
		Drude:      s.Drude,
		Gyrotropic: s.Gyrotropic,
	}
}

func (s Susceptibility) Equal(o Susceptibility) bool {
	return s.SigmaDiag.Equal(o.SigmaDiag) && s.SigmaOffdiag.Equal(o.SigmaOffdiag) &&
		s.Key() == o.Key()
}

// Medium is the full material record at one point. Off-diagonal entries
// of the permittivity and permeability are complex but must have zero
// imaginary part (the Hermitian case is not carried through the solver).
type Medium struct {
	EpsDiag    geom.Vector3
	EpsOffdiag CVector3
	MuDiag     geom.Vector3
	MuOffdiag  CVector3

	EChi2Diag geom.Vector3
	EChi3Diag geom.Vector3
	HChi2Diag geom.Vector3
	HChi3Diag geom.Vector3

	DCondDiag geom.Vector3
	BCondDiag geom.Vector3

	ESusceptibilities []Susceptibility
	HSusceptibilities []Susceptibility
}

// Vacuum is the identity medium: unit permittivity and permeability,
// nothing else.
func Vacuum() Medium {
	return Medium{
		EpsDiag: geom.Vector3{X: 1, Y: 1, Z: 1},
		MuDiag:  geom.Vector3{X: 1, Y: 1, Z: 1},
	}
}

// Dielectric is an isotropic medium with the given permittivity.
func Dielectric(eps float64) Medium {
	m := Vacuum()
	m.EpsDiag = geom.Vector3{X: eps, Y: eps, Z: eps}
	return m
}

// CheckOffdiagImZero returns an error when any off-diagonal tensor entry
// has a nonzero imaginary part. The solver carries only real symmetric
// tensors, so a complex off-diagonal is an invalid setup.
func (m *Medium) CheckOffdiagImZero() error {
	if imag(m.EpsOffdiag.X) != 0 || imag(m.EpsOffdiag.Y) != 0 || imag(m.EpsOffdiag.Z) != 0 ||
		imag(m.MuOffdiag.X) != 0 || imag(m.MuOffdiag.Y) != 0 || imag(m.MuOffdiag.Z) != 0 {
		return fmt.Errorf("medium has a non-zero imaginary part in an off-diagonal tensor entry")
	}
	return nil
}

func susListEqual(a, b []Susceptibility) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !a[i].Equal(b[i]) {
			return false
		}
	}
	return true
}

// Equal compares every field exactly.
func (m *Medium) Equal(o *Medium) bool {
	return m.EpsDiag.Equal(o.EpsDiag) && m.EpsOffdiag.Equal(o.EpsOffdiag) &&
		m.MuDiag.Equal(o.MuDiag) && m.MuOffdiag.Equal(o.MuOffdiag) &&
		m.EChi2Diag.Equal(o.EChi2Diag) && m.EChi3Diag.Equal(o.EChi3Diag) &&
		m.HChi2Diag.Equal(o.HChi2Diag) && m.HChi3Diag.Equal(o.HChi3Diag) &&
		m.DCondDiag.Equal(o.DCondDiag) && m.BCondDiag.Equal(o.BCondDiag) &&
		susListEqual(m.ESusceptibilities, o.ESusceptibilities) &&
		susListEqual(m.HSusceptibilities, o.HSusceptibilities)
}

// Copy deep-copies the medium, including its susceptibility lists.
func (m *Medium) Copy() Medium {
	c := *m
	c.ESusceptibilities = append([]Susceptibility(nil), m.ESusceptibilities...)
	c.HSusceptibilities = append([]Susceptibility(nil), m.HSusceptibilities...)
	return c
}

// Chi2 returns the second-order nonlinear coefficient for component c.
func (m *Medium) Chi2(c Component) float64 {
	if c.Type() == EStuff {
		return m.EChi2Diag.Component(c.Direction())
	}
	return m.HChi2Diag.Component(c.Direction())
}

// Chi3 returns the third-order nonlinear coefficient for component c.
func (m *Medium) Chi3(c Component) float64 {
	if c.Type() == EStuff {
		return m.EChi3Diag.Component(c.Direction())
	}
	return m.HChi3Diag.Component(c.Direction())
}

// Chi returns the order-p nonlinear coefficient, p in {2, 3}.
func (m *Medium) Chi(c Component, p int) float64 {
	if p == 2 {
		return m.Chi2(c)
	}
	return m.Chi3(c)
}

// Conductivity returns the diagonal conductivity addressed by a D or B
// component.
func (m *Medium) Conductivity(c Component) float64 {
	if c >= Dx && c <= Dz {
		return m.DCondDiag.Component(c.Direction())
	}
	if c >= Bx && c <= Bz {
		return m.BCondDiag.Component(c.Direction())
	}
	return 0
}
