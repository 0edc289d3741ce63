package epsilon

import (
	"math"
	"math/cmplx"

	"github.com/Fengkai-Wei/meep/geom"
	"github.com/Fengkai-Wei/meep/medium"
	"github.com/Fengkai-Wei/meep/tensor"
)

// vecToValue addresses entry i of a real symmetric tensor stored as a
// diagonal plus the upper off-diagonal triple.
func vecToValue(diag, off geom.Vector3, i int) float64 {
	switch i {
	case 0:
		return diag.X
	case 1, 3:
		return off.X
	case 2, 6:
		return off.Y
	case 4:
		return diag.Y
	case 5, 7:
		return off.Z
	default:
		return diag.Z
	}
}

// cvecToValue is vecToValue for a Hermitian tensor with complex
// off-diagonal entries.
func cvecToValue(diag geom.Vector3, off medium.CVector3, i int) complex128 {
	switch i {
	case 0:
		return complex(diag.X, 0)
	case 1:
		return off.X
	case 2:
		return off.Y
	case 3:
		return cmplx.Conj(off.X)
	case 4:
		return complex(diag.Y, 0)
	case 5:
		return off.Z
	case 6:
		return cmplx.Conj(off.Y)
	case 7:
		return cmplx.Conj(off.Z)
	default:
		return complex(diag.Z, 0)
	}
}

// Chi1TensorDisp evaluates the full complex permittivity tensor at r for
// one frequency, folding the conductivity and every dispersive electric
// susceptibility into the instantaneous tensor.
func (ev *Evaluator) Chi1TensorDisp(r geom.Vector3, freq float64) tensor.CMatrix {
	res := ev.Resolve(r)
	mm := &res.Med

	var t tensor.CMatrix
	for i := 0; i < 9; i++ {
		// conductivity factor
		a := complex(1, vecToValue(mm.DCondDiag, geom.Vector3{}, i)/(2*math.Pi*freq))
		// lorentzian terms on top of the instantaneous permittivity
		b := cvecToValue(mm.EpsDiag, mm.EpsOffdiag, i)
		for _, s := range mm.ESusceptibilities {
			b += s.Chi1(freq, vecToValue(s.SigmaDiag, s.SigmaOffdiag, i))
		}
		t[i] = a * b
	}
	return t
}

// EffChi1invRowDisp is the dispersive counterpart of EffChi1invRow: one
// row of the inverse complex permittivity tensor at a point.
func (ev *Evaluator) EffChi1invRowDisp(c medium.Component, r geom.Vector3, freq float64) [3]complex128 {
	if c.Direction() == geom.NoDirection {
		return [3]complex128{}
	}
	return ev.Chi1TensorDisp(r, freq).Invert().Row(c.Index())
}

// CondCmp is the scalar conductivity factor 1 + iσ/(2πf) for the
// direction addressed by c.
func (ev *Evaluator) CondCmp(c medium.Component, r geom.Vector3, freq float64) complex128 {
	if c.Direction() == geom.NoDirection {
		panic("epsilon: component without a direction in dispersive conductivity")
	}
	res := ev.Resolve(r)
	sigma := res.Med.DCondDiag.Component(c.Direction())
	return complex(1, sigma/(2*math.Pi*freq))
}
