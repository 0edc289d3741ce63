package epsilon

import (
	"github.com/Fengkai-Wei/meep/geom"
	"github.com/Fengkai-Wei/meep/medium"
)

// uniformMedium returns the medium of a position-independent material.
func uniformMedium(mat *medium.Material) (*medium.Medium, bool) {
	if mat != nil && mat.Kind == medium.KindMedium {
		return &mat.Medium, true
	}
	return nil, false
}

// allMaterials visits every material the scene can produce: placed
// objects, extra materials and the default, in that order. Visiting
// stops when f returns false.
func (ev *Evaluator) allMaterials(f func(*medium.Material) bool) {
	for _, o := range ev.Geometry {
		if !f(o.Material.(*medium.Material)) {
			return
		}
	}
	for _, m := range ev.Extra {
		if !f(m) {
			return
		}
	}
	f(ev.Default)
}

// HasMu reports whether any material in the scene has a non-identity
// permeability.
func (ev *Evaluator) HasMu() bool {
	found := false
	ev.allMaterials(func(mat *medium.Material) bool {
		if mm, ok := uniformMedium(mat); ok {
			if mm.MuDiag.X != 1 || mm.MuDiag.Y != 1 || mm.MuDiag.Z != 1 ||
				real(mm.MuOffdiag.X) != 0 || real(mm.MuOffdiag.Y) != 0 ||
				real(mm.MuOffdiag.Z) != 0 {
				found = true
				return false
			}
		}
		return true
	})
	return found
}

// HasChi reports whether any uniform material has a nonzero order-p
// nonlinearity for component c, p in {2, 3}.
func (ev *Evaluator) HasChi(c medium.Component, p int) bool {
	found := false
	ev.allMaterials(func(mat *medium.Material) bool {
		if mm, ok := uniformMedium(mat); ok && mm.Chi(c, p) != 0 {
			found = true
			return false
		}
		return true
	})
	return found
}

func (ev *Evaluator) HasChi2(c medium.Component) bool { return ev.HasChi(c, 2) }

func (ev *Evaluator) HasChi3(c medium.Component) bool { return ev.HasChi(c, 3) }

// Chi returns the order-p nonlinear coefficient for component c at r,
// evaluating variable materials in place.
func (ev *Evaluator) Chi(c medium.Component, r geom.Vector3, p int) float64 {
	res := ev.Resolve(r)
	switch res.Mat.Kind {
	case medium.KindMedium, medium.KindGrid, medium.KindUserFunc:
		return res.Med.Chi(c, p)
	default:
		return 0
	}
}

func (ev *Evaluator) Chi2(c medium.Component, r geom.Vector3) float64 { return ev.Chi(c, r, 2) }

func (ev *Evaluator) Chi3(c medium.Component, r geom.Vector3) float64 { return ev.Chi(c, r, 3) }

func materialHasConductivity(mat *medium.Material, c medium.Component) bool {
	if mm, ok := uniformMedium(mat); ok && mm.Conductivity(c) != 0 {
		return true
	}
	if mat.Kind == medium.KindGrid &&
		(mat.Medium1.Conductivity(c) != 0 || mat.Medium2.Conductivity(c) != 0 ||
			mat.Grid.Damping != 0) {
		return true
	}
	return false
}

// HasConductivity reports whether component c sees any conductivity,
// from materials or from absorbing layers.
func (ev *Evaluator) HasConductivity(c medium.Component) bool {
	for d := range ev.cond {
		for s := range ev.cond[d] {
			if ev.cond[d][s] != nil {
				return true
			}
		}
	}
	found := false
	ev.allMaterials(func(mat *medium.Material) bool {
		if materialHasConductivity(mat, c) {
			found = true
			return false
		}
		return true
	})
	return found
}

// Conductivity returns the scalar conductivity for component c at r:
// the material's own value plus any absorbing-layer profile covering r.
func (ev *Evaluator) Conductivity(c medium.Component, r geom.Vector3) float64 {
	res := ev.Resolve(r)
	var cond float64
	switch res.Mat.Kind {
	case medium.KindMedium, medium.KindGrid, medium.KindUserFunc:
		cond = res.Med.Conductivity(c)
	}
	// scalar absorbing layers add their profiles isotropically, for both
	// electric and magnetic conductivity
	for _, d := range ev.Dim.Directions() {
		x := r.Component(d)
		halfSize := ev.Lattice.Size.Component(d) / 2
		if p := ev.cond[d.Index()][High]; p != nil && x >= halfSize-p.L {
			cond += p.at((x - (halfSize - p.L)) / p.L)
		}
		if p := ev.cond[d.Index()][Low]; p != nil && x <= p.L-halfSize {
			cond += p.at((p.L - halfSize - x) / p.L)
		}
	}
	return cond
}

// SigmaRow returns the row of the coupling tensor addressed by c, for
// the susceptibility structurally identical to target in the material at
// r. Rows of materials lacking the susceptibility are zero.
func (ev *Evaluator) SigmaRow(c medium.Component, r geom.Vector3, target medium.Key) [3]float64 {
	res := ev.Resolve(r)
	switch res.Mat.Kind {
	case medium.KindMedium, medium.KindGrid, medium.KindUserFunc:
	default:
		return [3]float64{}
	}
	slist := res.Med.ESusceptibilities
	if c.Type() == medium.HStuff {
		slist = res.Med.HSusceptibilities
	}
	for _, s := range slist {
		if s.Key() != target {
			continue
		}
		d, od := s.SigmaDiag, s.SigmaOffdiag
		switch c.Index() {
		case 0:
			return [3]float64{d.X, od.X, od.Y}
		case 1:
			return [3]float64{od.X, d.Y, od.Z}
		default:
			return [3]float64{od.Y, od.Z, d.Z}
		}
	}
	return [3]float64{}
}

// Polarizations enumerates the structurally distinct susceptibilities of
// the scene's uniform materials for one field type, in first-seen order.
// A solver registers one polarization per entry and queries SigmaRow for
// the per-point coupling.
func (ev *Evaluator) Polarizations(ft medium.FieldType) []medium.Susceptibility {
	seen := make(map[medium.Key]bool)
	var pols []medium.Susceptibility
	ev.allMaterials(func(mat *medium.Material) bool {
		mm, ok := uniformMedium(mat)
		if !ok {
			return true
		}
		slist := mm.ESusceptibilities
		if ft == medium.HStuff {
			slist = mm.HSusceptibilities
		}
		for _, s := range slist {
			if k := s.Key(); !seen[k] {
				seen[k] = true
				pols = append(pols, s)
			}
		}
		return true
	})
	return pols
}
