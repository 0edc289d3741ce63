// Package adjoint computes sensitivities of a discretized field solution
// with respect to design-grid weights. The system-matrix derivative is
// estimated by central finite differences through the full material
// evaluation chain, so subpixel averaging and threshold projection are
// differentiated exactly as the solver sees them.
package adjoint

import (
	"github.com/Fengkai-Wei/meep/epsilon"
	"github.com/Fengkai-Wei/meep/geom"
	"github.com/Fengkai-Wei/meep/matgrid"
	"github.com/Fengkai-Wei/meep/medium"
)

// Sensitivity accumulates design-weight gradients against one evaluated
// scene. Du is the finite-difference step on the raw weights; Inva is
// the spatial step of the discretization, which sets the cell size used
// when re-averaging perturbed weights.
type Sensitivity struct {
	Eval *epsilon.Evaluator
	Inva float64
	Du   float64
}

func NewSensitivity(ev *epsilon.Evaluator, inva, du float64) *Sensitivity {
	if du == 0 {
		du = 1e-3
	}
	return &Sensitivity{Eval: ev, Inva: inva, Du: du}
}

// MaterialGradient computes the (adjointC, forwardC) entry of the
// derivative of the system matrix with respect to weights[idx],
// multiplied by the forward field value. Non-dispersive materials go
// through the subpixel-averaged row on a cell of one spatial step around
// r; dispersive materials use the point-wise complex tensor, at the
// expense of subpixel smoothing.
func (s *Sensitivity) MaterialGradient(r geom.Vector3, adjointC, forwardC medium.Component, fwd complex128, freq float64, weights []float64, idx int) complex128 {
	ev := s.Eval
	if forwardC.Type() != medium.EStuff {
		panic("adjoint: invalid forward field component")
	}
	dirIdx := forwardC.Index()
	mat, _ := ev.MaterialAt(r)
	orig := weights[idx]

	if !mat.Dispersive() {
		cell := geom.Box{Low: r, High: r}
		for _, d := range ev.Dim.Directions() {
			x := r.Component(d)
			cell.Low = cell.Low.SetComponent(d, x-0.5*s.Inva)
			cell.High = cell.High.SetComponent(d, x+0.5*s.Inva)
		}
		weights[idx] = orig - s.Du
		row1 := ev.EffChi1invRow(adjointC, cell, ev.Tol, ev.MaxEval)
		weights[idx] = orig + s.Du
		row2 := ev.EffChi1invRow(adjointC, cell, ev.Tol, ev.MaxEval)
		weights[idx] = orig
		return complex((row1[dirIdx]-row2[dirIdx])/(2*s.Du), 0) * fwd
	}

	weights[idx] = orig - s.Du
	row1 := ev.EffChi1invRowDisp(adjointC, r, freq)
	weights[idx] = orig + s.Du
	row2 := ev.EffChi1invRowDisp(adjointC, r, freq)
	weights[idx] = orig
	dA := (row1[dirIdx] - row2[dirIdx]) / complex(2*s.Du, 0)
	return dA * fwd * ev.CondCmp(forwardC, r, freq)
}

// addInterpolateWeights back-propagates one point's contribution onto
// the grid corners its interpolation stencil touches. Perturbing a
// corner weight differentiates through the interpolation itself, so each
// corner receives the full finite-difference product unweighted.
func (s *Sensitivity) addInterpolateWeights(rx, ry, rz float64, deriv []float64, g *matgrid.Grid,
	scaleby float64, kind matgrid.Combine, uval float64, r geom.Vector3,
	adjointC, forwardC medium.Component, fwd, adj complex128, freq float64) {

	corners, n, u := matgrid.StencilCorners(rx, ry, rz, g.Weights, g.Nx, g.Ny, g.Nz)

	if kind == matgrid.UMin && u != uval {
		return
	}
	if kind == matgrid.UProd {
		scaleby *= uval / u
	}

	for _, idx := range corners[:n] {
		prod := adj * s.MaterialGradient(r, adjointC, forwardC, fwd, freq, g.Weights, idx)
		deriv[idx] += real(prod) * scaleby
	}
}

// AccumulatePoint adds the gradient contribution of one adjoint/forward
// field product at point p into deriv, which must match the design
// grid's weight layout. Points outside every design grid contribute
// nothing.
func (s *Sensitivity) AccumulatePoint(deriv []float64, p geom.Vector3, scalegrad float64,
	adjointC, forwardC medium.Component, fwd, adj complex128, freq float64) {

	ev := s.Eval
	grids := ev.DesignGrids(p)

	var mg *medium.Material
	switch {
	case len(grids) > 0:
		mg = grids[0].Object.Material.(*medium.Material)
	case ev.Default.Kind == medium.KindGrid:
		mg = ev.Default
	default:
		return // no design grids at this point
	}
	kind := mg.Grid.Kind

	if len(grids) > 0 {
		switch kind {
		case matgrid.UMean:
			scalegrad /= float64(len(grids))
		case matgrid.UMin, matgrid.UProd:
			panic("adjoint: gradient accumulation does not support overlapping grids combined with Min or Product")
		}
		uval := matgrid.Project(ev.MatgridVal(p, mg), mg.Grid.Beta, mg.Grid.Eta)
		for _, hit := range grids {
			obj := hit.Object
			g := obj.Material.(*medium.Material).Grid
			pb := obj.LocalCoords(p.Sub(hit.Shift))
			s.addInterpolateWeights(pb.X, pb.Y, pb.Z, deriv, g, scalegrad, kind, uval,
				p, adjointC, forwardC, fwd, adj, freq)
			if kind == matgrid.UDefault {
				break
			}
		}
		return
	}

	// the whole domain is the design grid
	rx, ry, rz := ev.LatticeCoords(p)
	uval := matgrid.Project(mg.Grid.Value(rx, ry, rz), mg.Grid.Beta, mg.Grid.Eta)
	s.addInterpolateWeights(rx, ry, rz, deriv, mg.Grid, scalegrad, kind, uval,
		p, adjointC, forwardC, fwd, adj, freq)
}
