package adjoint

import (
	"github.com/Fengkai-Wei/meep/geom"
	"github.com/Fengkai-Wei/meep/medium"
)

// FieldSampler returns a complex field value of component c at frequency
// index fi and point p. The caller owns the interpolation from its field
// storage to arbitrary points.
type FieldSampler func(c medium.Component, fi int, p geom.Vector3) complex128

// PointLister enumerates the solver grid points carrying component c
// inside the accumulation region.
type PointLister func(c medium.Component) []geom.Vector3

// Accumulate back-propagates adjoint/forward field products onto the
// design weights for every frequency. deriv holds ng weights per
// frequency, laid out frequency-major. components lists the electric
// components present in the simulation; points supplies their Yee
// locations.
//
// Diagonal (same-component) products are accumulated directly at each
// point. Off-diagonal products, which arise from subpixel smoothing or
// anisotropic grid bounds, are restricted to the two permittivity nodes
// half a step along the adjoint direction, with the forward fields
// interpolated to those nodes; each restriction and interpolation
// carries a factor of one half.
func (s *Sensitivity) Accumulate(deriv []float64, ng int, freqs []float64, scalegrad float64,
	components []medium.Component, points PointLister, adjField, fwdField FieldSampler) {

	ev := s.Eval
	for fi, freq := range freqs {
		out := deriv[ng*fi : ng*(fi+1)]
		for _, adjointC := range components {
			for _, p := range points(adjointC) {
				adj := adjField(adjointC, fi, p)
				mat, _ := ev.MaterialAt(p)
				if mat.Dispersive() {
					adj *= ev.CondCmp(adjointC, p, freq)
				}
				for _, forwardC := range components {
					if forwardC == adjointC {
						fwd := fwdField(forwardC, fi, p)
						s.AccumulatePoint(out, p, scalegrad*s.cylScale(p), adjointC, forwardC, fwd, adj, freq)
						continue
					}
					if !needsCrossTerms(mat) {
						continue
					}
					s.crossTerm(out, p, scalegrad, adjointC, forwardC, fi, freq, adj, fwdField)
				}
			}
		}
	}
}

// needsCrossTerms reports whether off-diagonal tensor entries can appear
// for a design grid: either subpixel smoothing is on or a grid bound has
// off-diagonal permittivity.
func needsCrossTerms(mat *medium.Material) bool {
	if mat.Kind != medium.KindGrid {
		return false
	}
	return mat.DoAveraging ||
		real(mat.Medium1.EpsOffdiag.X) != 0 || real(mat.Medium1.EpsOffdiag.Y) != 0 ||
		real(mat.Medium1.EpsOffdiag.Z) != 0 ||
		real(mat.Medium2.EpsOffdiag.X) != 0 || real(mat.Medium2.EpsOffdiag.Y) != 0 ||
		real(mat.Medium2.EpsOffdiag.Z) != 0
}

// crossTerm handles one off-diagonal adjoint/forward pairing at p.
func (s *Sensitivity) crossTerm(out []float64, p geom.Vector3, scalegrad float64,
	adjointC, forwardC medium.Component, fi int, freq float64, adj complex128, fwdField FieldSampler) {

	half := s.Inva / 2
	unitA := geom.Vector3{}.SetComponent(adjointC.Direction(), half)
	unitF := geom.Vector3{}.SetComponent(forwardC.Direction(), half)

	for _, node := range [2]geom.Vector3{p.Sub(unitA), p.Add(unitA)} {
		fwd := 0.5*fwdField(forwardC, fi, node.Add(unitF)) +
			0.5*fwdField(forwardC, fi, node.Sub(unitF))
		s.AccumulatePoint(out, node, scalegrad*s.cylScaleNode(node), adjointC, forwardC,
			fwd, 0.5*adj, freq)
	}
}

// cylScale is the radial measure factor for same-component products in
// cylindrical coordinates.
func (s *Sensitivity) cylScale(p geom.Vector3) float64 {
	if s.Eval.Dim == geom.Dcyl {
		return 2 * p.Component(geom.R)
	}
	return 1
}

func (s *Sensitivity) cylScaleNode(p geom.Vector3) float64 {
	if s.Eval.Dim == geom.Dcyl {
		return p.Component(geom.R)
	}
	return 1
}
