// Package epsilon turns a geometric scene into the numbers a discretized
// field solver asks for: point-wise material tensors, subpixel-averaged
// effective tensors for cells that straddle interfaces, conductivities
// with absorbing-layer profiles, and global material queries.
package epsilon

import (
	"fmt"

	"github.com/Fengkai-Wei/meep/geom"
	"github.com/Fengkai-Wei/meep/matgrid"
	"github.com/Fengkai-Wei/meep/medium"
)

// Lattice is the scene's computational cell: its size and center define
// the normalized coordinates used by file materials and by design grids
// acting as the default material.
type Lattice struct {
	Size   geom.Vector3
	Center geom.Vector3
}

// Evaluator resolves material properties at points and cells of a scene.
// It owns deep copies of all object materials, so callers may keep
// mutating their originals after construction. Evaluation itself never
// mutates the scene; every resolution returns a caller-owned medium.
type Evaluator struct {
	Dim     geom.Dimension
	Lattice Lattice

	// Geometry is the prioritized object list: later objects win on
	// overlap. Materials are *medium.Material.
	Geometry []*geom.Object
	// Default applies outside every object.
	Default *medium.Material
	// Extra lists materials referenced only through user callbacks; the
	// global queries consult them even though they are not placed.
	Extra []*medium.Material

	// Tol and MaxEval bound the numeric fallback integration and the
	// fill-fraction overlap computation.
	Tol     float64
	MaxEval int

	// UOffset is added to every raw design-grid value before projection;
	// sensitivity checks sweep it to probe the evaluation chain.
	UOffset float64

	// QuadFailures counts fallback cells whose integration exhausted its
	// evaluation budget before converging. Non-convergence degrades the
	// average for that cell but is not an error.
	QuadFailures int

	tree       geom.Tree
	restricted geom.Tree
	cond       [3][2]*condProfile
}

// Options configures scene construction.
type Options struct {
	Extra    []*medium.Material
	Default  *medium.Material
	Periodic bool
	Tol      float64
	MaxEval  int
}

// NewEvaluator deep-copies the scene's materials, validates uniform media
// and builds the spatial index over vol. objs keep their priority order.
func NewEvaluator(objs []*geom.Object, vol geom.Box, lattice Lattice, dim geom.Dimension, opt Options) (*Evaluator, error) {
	geometry := make([]*geom.Object, len(objs))
	for i, o := range objs {
		mat, ok := o.Material.(*medium.Material)
		if !ok {
			return nil, fmt.Errorf("object %d: material is %T, want *medium.Material", i, o.Material)
		}
		if mat.Kind == medium.KindMedium {
			if err := mat.Medium.CheckOffdiagImZero(); err != nil {
				return nil, fmt.Errorf("object %d: %w", i, err)
			}
		}
		cp := *o
		cp.Material = mat.Copy()
		geometry[i] = &cp
	}
	var shifts []geom.Vector3
	if opt.Periodic {
		shifts = geom.LatticeShifts(lattice.Size)
	}
	tree, err := geom.NewTree(geometry, vol, shifts)
	if err != nil {
		return nil, err
	}
	def := opt.Default
	if def == nil {
		def = medium.NewMedium(medium.Vacuum())
	}
	tol := opt.Tol
	if tol == 0 {
		tol = 1e-4
	}
	maxEval := opt.MaxEval
	if maxEval == 0 {
		maxEval = 1 << 14
	}
	return &Evaluator{
		Dim:        dim,
		Lattice:    lattice,
		Geometry:   geometry,
		Default:    def,
		Extra:      opt.Extra,
		Tol:        tol,
		MaxEval:    maxEval,
		tree:       tree,
		restricted: tree,
	}, nil
}

// SetVolume restricts evaluation to a sub-box of the scene, rebuilding
// the index view. UnsetVolume restores the full scene.
func (ev *Evaluator) SetVolume(vol geom.Box) error {
	t, err := geom.NewTree(ev.Geometry, vol, nil)
	if err != nil {
		return err
	}
	ev.restricted = t
	return nil
}

func (ev *Evaluator) UnsetVolume() { ev.restricted = ev.tree }

// Resolved is the caller-owned result of resolving a point: the material
// that claimed it and its evaluated medium.
type Resolved struct {
	Mat *medium.Material
	Med medium.Medium
}

// MaterialAt looks up the highest-priority material at p, defaulting when
// no object contains the point. The material is returned unevaluated.
func (ev *Evaluator) MaterialAt(p geom.Vector3) (*medium.Material, bool) {
	hit, ok := ev.restricted.At(p)
	if !ok {
		return ev.Default, false
	}
	return hit.Object.Material.(*medium.Material), true
}

// Resolve evaluates the material at p into a concrete medium.
func (ev *Evaluator) Resolve(p geom.Vector3) Resolved {
	mat, _ := ev.MaterialAt(p)
	return Resolved{Mat: mat, Med: ev.evalMedium(mat, p)}
}

// evalMedium dereferences a variable material at p. Uniform media and
// perfect metals pass through unchanged.
func (ev *Evaluator) evalMedium(mat *medium.Material, p geom.Vector3) medium.Medium {
	switch mat.Kind {
	case medium.KindGrid:
		u := matgrid.Project(ev.MatgridVal(p, mat)+ev.UOffset, mat.Grid.Beta, mat.Grid.Eta)
		return mat.GridMedium(u)
	case medium.KindFile:
		if len(mat.EpsData) == 0 {
			return ev.evalMedium(ev.Default, p)
		}
		rx, ry, rz := ev.LatticeCoords(p)
		return mat.FileMedium(rx, ry, rz)
	case medium.KindUserFunc:
		med := medium.Vacuum()
		mat.User(p, &med)
		if err := med.CheckOffdiagImZero(); err != nil {
			panic("epsilon: user material: " + err.Error())
		}
		return med
	default:
		return mat.Medium
	}
}

// LatticeCoords maps a scene point into the computational cell's
// normalized [0,1] coordinates; collapsed axes map to zero.
func (ev *Evaluator) LatticeCoords(p geom.Vector3) (rx, ry, rz float64) {
	mapc := func(x, center, size float64) float64 {
		if size == 0 {
			return 0
		}
		return 0.5 + (x-center)/size
	}
	return mapc(p.X, ev.Lattice.Center.X, ev.Lattice.Size.X),
		mapc(p.Y, ev.Lattice.Center.Y, ev.Lattice.Size.Y),
		mapc(p.Z, ev.Lattice.Center.Z, ev.Lattice.Size.Z)
}

// Chi1p1 is the trace of the permittivity (or permeability) tensor at p,
// divided by 3.
func (ev *Evaluator) Chi1p1(ft medium.FieldType, p geom.Vector3) float64 {
	r := ev.Resolve(p)
	epsmu, _ := medium.EpsMu(ft, r.Mat.Kind, &r.Med)
	return epsmu.Trace() / 3
}

// DesignGrids returns the design-grid objects stacked at p, innermost
// first, stopping at the first non-grid material.
func (ev *Evaluator) DesignGrids(p geom.Vector3) []geom.Hit {
	var grids []geom.Hit
	for _, hit := range ev.restricted.Stack(p) {
		mat, ok := hit.Object.Material.(*medium.Material)
		if !ok || mat.Kind != medium.KindGrid {
			break
		}
		grids = append(grids, hit)
	}
	return grids
}

// MatgridVal combines the raw (unprojected) values of every design grid
// stacked at p under the querying grid's combination policy.
func (ev *Evaluator) MatgridVal(p geom.Vector3, md *medium.Material) float64 {
	uprod, umin, usum, udefault := 1.0, 1.0, 0.0, 0.0
	count := 0
	for _, hit := range ev.DesignGrids(p) {
		mat := hit.Object.Material.(*medium.Material)
		lc := hit.Object.LocalCoords(p.Sub(hit.Shift))
		u := mat.Grid.Value(lc.X, lc.Y, lc.Z)
		if md.Grid.Kind == matgrid.UDefault {
			return u
		}
		if u < umin {
			umin = u
		}
		uprod *= u
		usum += u
		count++
	}
	if count == 0 && ev.Default.Kind == medium.KindGrid {
		rx, ry, rz := ev.LatticeCoords(p)
		u := ev.Default.Grid.Value(rx, ry, rz)
		udefault = u
		if u < umin {
			umin = u
		}
		uprod *= u
		usum += u
		count++
	}
	switch md.Grid.Kind {
	case matgrid.UMin:
		return umin
	case matgrid.UProd:
		return uprod
	case matgrid.UMean:
		if count == 0 {
			return 0
		}
		return usum / float64(count)
	default:
		return udefault
	}
}

// MatgridGrad combines the scene-space gradients of stacked design grids
// at p. Gradient combination under the Min and Product policies is
// undefined and treated as an invalid setup.
func (ev *Evaluator) MatgridGrad(p geom.Vector3, md *medium.Material) geom.Vector3 {
	if md.Grid.Kind == matgrid.UMin || md.Grid.Kind == matgrid.UProd {
		panic("epsilon: gradient does not support overlapping grids combined with Min or Product")
	}
	var grad geom.Vector3
	count := 0
	for _, hit := range ev.DesignGrids(p) {
		mat := hit.Object.Material.(*medium.Material)
		lc := hit.Object.LocalCoords(p.Sub(hit.Shift))
		grad = grad.Add(mat.Grid.Gradient(lc.X, lc.Y, lc.Z, hit.Object, ev.Lattice.Size))
		count++
		if md.Grid.Kind == matgrid.UDefault {
			break
		}
	}
	if count == 0 && ev.Default.Kind == medium.KindGrid {
		rx, ry, rz := ev.LatticeCoords(p)
		grad = ev.Default.Grid.Gradient(rx, ry, rz, nil, ev.Lattice.Size)
		count++
	}
	if md.Grid.Kind == matgrid.UMean && count > 0 {
		grad = grad.Scale(1 / float64(count))
	}
	return grad
}
