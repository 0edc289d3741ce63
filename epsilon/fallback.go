package epsilon

import (
	"math"

	"github.com/Fengkai-Wei/meep/geom"
	"github.com/Fengkai-Wei/meep/matgrid"
	"github.com/Fengkai-Wei/meep/medium"
	"github.com/Fengkai-Wei/meep/quad"
)

// fallbackChi1invRow averages a cell by numeric integration of the
// permittivity and its inverse, then applies the standard anisotropic
// smoothing formula along the interface normal. Cells whose material is
// anisotropic, or where no interface direction can be found, skip the
// averaging and return the plain inverse at the center.
func (ev *Evaluator) fallbackChi1invRow(c medium.Component, cell geom.Box, tol float64, maxEval int) [3]float64 {
	ft := c.Type()
	p := cell.Center()
	mat, _ := ev.MaterialAt(p)

	var gradient geom.Vector3
	uval := 0.0
	if mat.Kind == medium.KindGrid {
		gradient = ev.MatgridGrad(p, mat)
		uval = ev.MatgridVal(p, mat) + ev.UOffset
	} else {
		gradient = ev.cellNormal(ft, cell)
	}

	med := ev.evalMedium(mat, p)
	chi1p1, chi1p1Inv := medium.EpsMu(ft, mat.Kind, &med)
	if !chi1p1.IsDiagonal() || chi1p1.M00 != chi1p1.M11 || chi1p1.M11 != chi1p1.M22 ||
		gradient.Norm() < 1e-8 {
		return chi1p1Inv.Row(c.Index())
	}

	var meps, minveps float64
	var converged bool
	if mat.Kind == medium.KindGrid {
		// one-dimensional profile along the interface normal, with the
		// design weights approximated linearly around the cell center
		rad := cell.Diameter() / 2
		ugradAbs := gradient.Norm()
		eps1 := (mat.Medium1.EpsDiag.X + mat.Medium1.EpsDiag.Y + mat.Medium1.EpsDiag.Z) / 3
		eps2 := (mat.Medium2.EpsDiag.X + mat.Medium2.EpsDiag.Y + mat.Medium2.EpsDiag.Z) / 3
		beta, eta := mat.Grid.Beta, mat.Grid.Eta
		dim := ev.Dim
		f := func(x []float64) complex128 {
			uproj := matgrid.Project(uval+ugradAbs*x[0], beta, eta)
			var w float64
			switch dim {
			case geom.D1:
				w = 1 / (2 * rad)
			case geom.D2, geom.Dcyl:
				w = 2 * math.Sqrt(rad*rad-x[0]*x[0]) / (math.Pi * rad * rad)
			default:
				w = math.Pi * (rad*rad - x[0]*x[0]) / (4.0 / 3.0 * math.Pi * rad * rad * rad)
			}
			return complex(w*((1-uproj)*eps1+uproj*eps2), w*((1-uproj)/eps1+uproj/eps2))
		}
		ret, _, conv := quad.IntegrateComplex(f, []float64{-rad}, []float64{rad}, 0, tol, maxEval)
		meps, minveps, converged = real(ret), imag(ret), conv
	} else {
		xmin := []float64{cell.Low.X, cell.Low.Y, cell.Low.Z}
		xmax := []float64{cell.High.X, cell.High.Y, cell.High.Z}
		if ev.Dim == geom.Dcyl {
			xmin[1], xmin[2] = cell.Low.Z, cell.Low.Y
			xmax[1], xmax[2] = cell.High.Z, cell.High.Y
		}
		n := 3
		if xmin[2] == xmax[2] {
			if xmin[1] == xmax[1] {
				n = 1
			} else {
				n = 2
			}
		}
		vol := 1.0
		for i := 0; i < n; i++ {
			vol *= xmax[i] - xmin[i]
		}
		if ev.Dim == geom.Dcyl {
			vol *= (xmin[0] + xmax[0]) * 0.5
		}
		epsNegative := false
		dim := ev.Dim
		f := func(x []float64) complex128 {
			q := geom.Vector3{X: x[0]}
			if n > 1 {
				q.Y = x[1]
			}
			if n > 2 {
				q.Z = x[2]
			}
			s := 1.0
			if dim == geom.Dcyl {
				q.Y, q.Z = q.Z, q.Y
				s = q.X
			}
			ep := ev.Chi1p1(ft, q)
			if ep < 0 {
				epsNegative = true
			}
			return complex(ep*s, s/ep)
		}
		ret, _, conv := quad.IntegrateComplex(f, xmin[:n], xmax[:n], 0, tol, maxEval)
		meps, minveps, converged = real(ret)/vol, imag(ret)/vol, conv
		if epsNegative {
			// averaging negative eps causes instability
			meps = ev.Chi1p1(ft, p)
			minveps = 1 / meps
		}
	}
	if !converged {
		ev.QuadFailures++
	}

	nabsinv := 1 / gradient.Norm()
	var nv [3]float64
	for _, d := range ev.Dim.Directions() {
		nv[d.Index()] = gradient.Component(d) * nabsinv
	}
	rownum := c.Index()
	var row [3]float64
	for i := 0; i < 3; i++ {
		row[i] = nv[rownum] * nv[i] * (minveps - 1/meps)
	}
	row[rownum] += 1 / meps
	return row
}

// cellNormal estimates the direction across which the scalar permittivity
// varies over a cell, from central differences of the tensor trace. Only
// the direction matters to the caller; the row assembly is quadratic in
// the normal, so the orientation cancels.
func (ev *Evaluator) cellNormal(ft medium.FieldType, cell geom.Box) geom.Vector3 {
	center := cell.Center()
	half := cell.Size().Scale(0.5)
	var n geom.Vector3
	for _, d := range ev.Dim.Directions() {
		h := half.Component(d)
		if h == 0 {
			continue
		}
		step := geom.Vector3{}.SetComponent(d, h)
		diff := ev.Chi1p1(ft, center.Add(step)) - ev.Chi1p1(ft, center.Sub(step))
		n = n.SetComponent(d, diff)
	}
	return n
}
