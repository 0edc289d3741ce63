package epsilon

import (
	"fmt"

	"github.com/Fengkai-Wei/meep/geom"
	"github.com/Fengkai-Wei/meep/medium"
)

// EpsilonGrid samples the scalar permittivity (the tensor trace over 3)
// on the cartesian product of the given coordinate arrays, in row-major
// order with z fastest. A nonzero frequency switches to the dispersive
// tensor, so the samples are complex in general.
func (ev *Evaluator) EpsilonGrid(xs, ys, zs []float64, freq float64) ([]complex128, error) {
	if len(xs) < 1 || len(ys) < 1 || len(zs) < 1 {
		return nil, fmt.Errorf("epsilon grid: empty coordinate axis")
	}
	nx, ny, nz := len(xs), len(ys), len(zs)
	vals := make([]complex128, nx*ny*nz)
	for i, x := range xs {
		for j, y := range ys {
			for k, z := range zs {
				p := geom.Vector3{X: x, Y: y, Z: z}
				if freq == 0 {
					vals[k+nz*(j+ny*i)] = complex(ev.Chi1p1(medium.EStuff, p), 0)
				} else {
					vals[k+nz*(j+ny*i)] = ev.Chi1TensorDisp(p, freq).Trace() / 3
				}
			}
		}
	}
	return vals, nil
}
