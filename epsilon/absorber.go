package epsilon

import (
	"math"

	"github.com/Fengkai-Wei/meep/geom"
	"github.com/Fengkai-Wei/meep/quad"
)

// condProfile is a sampled scalar-conductivity ramp for one absorbing
// layer: N+1 samples of the shape function over the layer depth, already
// scaled for the requested round-trip reflectivity.
type condProfile struct {
	L    float64
	N    int
	prof []float64
}

// at interpolates the profile at normalized depth t in [0, 1].
func (p *condProfile) at(t float64) float64 {
	ui := float64(p.N) * t
	i := int(ui)
	if i >= p.N {
		return p.prof[p.N]
	}
	di := ui - float64(i)
	return p.prof[i]*(1-di) + p.prof[i+1]*di
}

// SetCondProfile installs a scalar absorbing layer of thickness L on one
// side of the cell along dir, sampled every dx. shape gives the ramp as
// a function of normalized depth; refl is the desired round-trip field
// reflectivity, which fixes the overall conductivity scale through the
// shape's mean. A nil shape removes the layer.
func (ev *Evaluator) SetCondProfile(dir geom.Direction, s Side, L, dx float64, shape func(u float64) float64, refl float64) {
	if shape == nil {
		ev.cond[dir.Index()][s] = nil
		return
	}
	n := int(L/dx + 0.5)
	profInt, _, _ := quad.Integrate(func(x []float64) float64 { return shape(x[0]) },
		[]float64{0}, []float64{1}, 1e-9, 1e-4, 50000)

	prefac := -math.Log(refl) / (4 * L * profInt)
	prof := make([]float64, n+1)
	for i := 0; i <= n; i++ {
		prof[i] = prefac * shape(float64(i)/float64(n))
	}
	ev.cond[dir.Index()][s] = &condProfile{L: L, N: n, prof: prof}
}

// Side selects which boundary of an axis an absorbing layer sits on.
type Side uint8

const (
	Low Side = iota
	High
)
