package epsilon

import (
	"math"

	"github.com/Fengkai-Wei/meep/geom"
	"github.com/Fengkai-Wei/meep/medium"
	"github.com/Fengkai-Wei/meep/tensor"
)

// frontInfo describes the frontmost object in a cell and the constant
// material behind it.
type frontInfo struct {
	object    *geom.Object
	shift     geom.Vector3
	center    geom.Vector3
	mat       *medium.Material
	matBehind *medium.Material
	pFront    geom.Vector3
	pBehind   geom.Vector3
}

// Stencil offsets for the front-object search, scaled by the cell's half
// sizes: 3 probes in 1D, 5 in 2D, 9 in 3D.
var frontNeighbors = [3][][3]int{
	{{0, 0, 0}, {0, 0, -1}, {0, 0, 1}},
	{{0, 0, 0}, {-1, -1, 0}, {1, 1, 0}, {-1, 1, 0}, {1, -1, 0}},
	{{0, 0, 0}, {1, 1, 1}, {1, 1, -1}, {1, -1, 1}, {1, -1, -1},
		{-1, 1, 1}, {-1, 1, -1}, {-1, -1, 1}, {-1, -1, -1}},
}

// frontObject probes a small stencil of points in the cell to find the
// frontmost (highest priority) object and the single material behind it.
// It reports false when more than two distinct materials intersect the
// cell, which the caller treats as inconclusive. The priority logic is
// inherited from MPB.
func (ev *Evaluator) frontObject(cell geom.Box) (frontInfo, bool) {
	p := cell.Center()
	half := cell.Size().Scale(0.5)
	di := ev.Dim.NumDirections() - 1

	var o1, o2 *geom.Object
	var shift1, shift2, p1, p2 geom.Vector3
	mat1, mat2 := ev.Default, ev.Default
	id1, id2 := -1, -1
	for _, n := range frontNeighbors[di] {
		q := geom.Vector3{
			X: p.X + float64(n[0])*half.X,
			Y: p.Y + float64(n[1])*half.Y,
			Z: p.Z + float64(n[2])*half.Z,
		}
		var o *geom.Object
		var shiftby geom.Vector3
		// id 0 is reserved for the default material outside every object
		id := 0
		if hit, found := ev.tree.At(q); found {
			o, shiftby, id = hit.Object, hit.Shift, hit.ID+1
		}
		if (id == id1 && shiftby.Equal(shift1)) || (id == id2 && shiftby.Equal(shift2)) {
			continue
		}
		mat := ev.Default
		if o != nil {
			if md := o.Material.(*medium.Material); md.Kind != medium.KindFile {
				mat = md
			}
		}
		switch {
		case id1 == -1:
			o1, shift1, id1, mat1, p1 = o, shiftby, id, mat, q
		case id2 == -1 || ((id >= id1 && id >= id2) && (id1 == id2 || mat1.Equal(mat2))):
			o2, shift2, id2, mat2, p2 = o, shiftby, id, mat, q
		default:
			if !(id1 < id2 && (id1 == id || mat1.Equal(mat))) &&
				!(id2 < id1 && (id2 == id || mat2.Equal(mat))) {
				return frontInfo{}, false
			}
		}
	}
	if id2 == -1 { // only one nearby object/material
		o2, shift2, id2, mat2, p2 = o1, shift1, id1, mat1, p1
	}
	fi := frontInfo{center: p}
	if id1 >= id2 {
		fi.object, fi.shift, fi.mat, fi.pFront = o1, shift1, mat1, p1
		fi.matBehind, fi.pBehind = mat2, p2
		if id1 == id2 {
			fi.matBehind, fi.pBehind = mat1, p1
		}
	} else {
		fi.object, fi.shift, fi.mat, fi.pFront = o2, shift2, mat2, p2
		fi.matBehind, fi.pBehind = mat1, p1
	}
	return fi, true
}

// MaterialGridFill converts the signed distance d from the cell center to
// a design-grid level set, and the cell's bounding radius r, into the
// fraction of the cell occupied by the u = 1 bound. The cap volume
// formulas assume a spherical cell. averaging is false when the interface
// misses the cell entirely, in which case fill is meaningless.
func MaterialGridFill(dim geom.Dimension, d, r, u, eta float64) (fill float64, averaging bool) {
	if math.Abs(d) > math.Abs(r) {
		return -1, false
	}
	var rel float64
	switch dim {
	case geom.D1:
		rel = (r - d) / (2 * r)
	case geom.D2, geom.Dcyl:
		rel = (1 / (r * r * math.Pi)) * (r*r*math.Acos(d/r) - d*math.Sqrt(r*r-d*d))
	default:
		rel = (r - d) * (r - d) * (2*r + d) / (4 * r * r * r)
	}
	// the cap formulas give the fill of the cap itself; whether the cap
	// is the solid side depends on which side of the threshold the
	// center sits
	if u <= eta {
		return rel, true
	}
	return 1 - rel, true
}

// EffChi1invRow returns one row of the effective inverse permittivity
// (or permeability) tensor for a cell, using subpixel averaging where a
// material interface crosses it and falling back to numeric integration
// when the closed form does not apply.
func (ev *Evaluator) EffChi1invRow(c medium.Component, cell geom.Box, tol float64, maxEval int) [3]float64 {
	m, fallback := ev.EffChi1invMatrix(c, cell, tol, maxEval)
	if fallback {
		return ev.fallbackChi1invRow(c, cell, tol, maxEval)
	}
	if c.Direction() == geom.NoDirection {
		return [3]float64{}
	}
	return m.Row(c.Index())
}

// EffChi1invMatrix computes the full effective inverse tensor for a cell
// via the Kottke interface-averaging scheme. fallback reports that the
// cell needs the numeric integration path instead: either the stencil
// was inconclusive or a variable material asked for full integration.
func (ev *Evaluator) EffChi1invMatrix(c medium.Component, cell geom.Box, tol float64, maxEval int) (inv tensor.SymMatrix, fallback bool) {
	ft := c.Type()
	center := cell.Center()
	noavg := func() (tensor.SymMatrix, bool) {
		r := ev.Resolve(center)
		_, m := medium.EpsMu(ft, r.Mat.Kind, &r.Med)
		return m, false
	}
	if maxEval == 0 {
		return noavg()
	}
	fo, ok := ev.frontObject(cell)
	if !ok {
		return tensor.SymMatrix{}, true
	}
	mat, matBehind := fo.mat, fo.matBehind

	// Variable materials that ask for full integration take the slow
	// path. Design grids are excluded here: they get the closed-form
	// level-set treatment below when possible.
	if (mat.Variable(false) && mat.DoAveraging) ||
		(matBehind.Variable(false) && matBehind.DoAveraging) {
		return tensor.SymMatrix{}, true
	}

	var normal geom.Vector3
	var fill float64
	mgAveraging := false
	if mat.Kind == medium.KindGrid {
		grad := ev.MatgridGrad(fo.center, mat)
		nabs := grad.Norm()
		uval := ev.MatgridVal(fo.center, mat) + ev.UOffset
		d := math.Inf(1)
		if nabs > 0 {
			normal = grad.Scale(1 / nabs)
			d = (mat.Grid.Eta - uval) / nabs
		}
		fill, mgAveraging = MaterialGridFill(ev.Dim, d, cell.Diameter()/2, uval, mat.Grid.Eta)
	}

	var medFront, medBehind medium.Medium
	if mat.Equal(matBehind) {
		switch {
		case mat.Variable(true) && !mgAveraging:
			med := ev.evalMedium(mat, center)
			_, m := medium.EpsMu(ft, mat.Kind, &med)
			return m, false
		case mat.Kind == medium.KindGrid && mgAveraging:
			// the level set crosses the cell inside a single design
			// grid; blend the grid's two bounding media by the cap fill
			medFront = mat.GridMedium(1)
			medBehind = mat.GridMedium(0)
		default:
			_, m := medium.EpsMu(ft, mat.Kind, &mat.Medium)
			return m, false
		}
	} else {
		// evaluating variable materials at their stencil points keeps
		// interface averaging fast while staying accurate to first
		// order over the boundary layer
		medFront = ev.evalMedium(mat, fo.pFront)
		medBehind = ev.evalMedium(matBehind, fo.pBehind)
		if mat.Kind == matBehind.Kind && medFront.Equal(&medBehind) {
			_, m := medium.EpsMu(ft, mat.Kind, &medFront)
			return m, false
		}
	}

	// averaging metals makes no sense
	if medium.Metal(ft, mat.Kind, &medFront) || medium.Metal(ft, matBehind.Kind, &medBehind) {
		return noavg()
	}

	if mat.Kind != medium.KindGrid || !mgAveraging {
		if fo.object == nil {
			return noavg()
		}
		normal = fo.object.Normal(fo.center.Sub(fo.shift)).Unit()
		if normal.IsZero() {
			// couldn't get a normal vector for this point, punt
			return noavg()
		}
		fill = geom.BoxOverlap(cell.Shift(fo.shift), fo.object, tol, maxEval)
	}

	eps1, _ := medium.EpsMu(ft, mat.Kind, &medFront)
	eps2, _ := medium.EpsMu(ft, matBehind.Kind, &medBehind)
	return kottkeBlend(eps1, eps2, normal, fill), false
}

// kottkeBlend mixes two material tensors across a planar interface with
// unit normal n, where fill is the volume fraction on the eps1 side. The
// continuous field components (parallel E, perpendicular D) are averaged
// in a rotated frame via the Schur complement with respect to the normal
// axis, then the mean tensor is rotated back and inverted.
func kottkeBlend(eps1, eps2 tensor.SymMatrix, n geom.Vector3, fill float64) tensor.SymMatrix {
	rot := tensor.RotationFromNormal(n.X, n.Y, n.Z)
	e1 := eps1.Rotate(rot)
	e2 := eps2.Rotate(rot)

	avg := func(f func(tensor.SymMatrix) float64) float64 {
		return fill*f(e1) + (1-fill)*f(e2)
	}
	var delta tensor.SymMatrix
	delta.M00 = avg(func(e tensor.SymMatrix) float64 { return -1 / e.M00 })
	delta.M11 = avg(func(e tensor.SymMatrix) float64 { return e.M11 - e.M01*e.M01/e.M00 })
	delta.M22 = avg(func(e tensor.SymMatrix) float64 { return e.M22 - e.M02*e.M02/e.M00 })
	delta.M01 = avg(func(e tensor.SymMatrix) float64 { return e.M01 / e.M00 })
	delta.M02 = avg(func(e tensor.SymMatrix) float64 { return e.M02 / e.M00 })
	delta.M12 = avg(func(e tensor.SymMatrix) float64 { return e.M12 - e.M02*e.M01/e.M00 })

	var meps tensor.SymMatrix
	meps.M00 = -1 / delta.M00
	meps.M11 = delta.M11 - delta.M01*delta.M01/delta.M00
	meps.M22 = delta.M22 - delta.M02*delta.M02/delta.M00
	meps.M01 = -delta.M01 / delta.M00
	meps.M02 = -delta.M02 / delta.M00
	meps.M12 = delta.M12 - delta.M02*delta.M01/delta.M00

	return meps.Rotate(rot.Transpose()).Invert()
}
