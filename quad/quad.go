// Package quad provides adaptive multidimensional quadrature over
// axis-aligned boxes in one to three dimensions. The averaging engine's
// numeric fallback integrates permittivity and inverse permittivity over
// a grid cell with it; absorbing-layer setup normalizes profile functions
// with the one-dimensional case.
//
// Integration is never fatal: the caller receives the best estimate, an
// error estimate and a convergence flag, and decides what is acceptable.
package quad

import (
	"container/heap"
	"math"
	"math/cmplx"
)

// Func is a real-valued integrand over points of the integration domain.
type Func func(x []float64) float64

// CFunc is a complex-valued integrand; it lets a caller integrate a
// function and a companion (such as a reciprocal) in a single pass.
type CFunc func(x []float64) complex128

// Integrate approximates the integral of f over [xmin, xmax], refining
// adaptively until the estimated error drops below max(absTol,
// relTol*|value|) or maxEval integrand evaluations are spent. converged
// is false when the budget ran out first.
func Integrate(f Func, xmin, xmax []float64, absTol, relTol float64, maxEval int) (value, errEst float64, converged bool) {
	cv, ce, ok := IntegrateComplex(func(x []float64) complex128 {
		return complex(f(x), 0)
	}, xmin, xmax, absTol, relTol, maxEval)
	return real(cv), ce, ok
}

// IntegrateComplex is Integrate for complex-valued integrands. The error
// estimate is on the complex modulus.
func IntegrateComplex(f CFunc, xmin, xmax []float64, absTol, relTol float64, maxEval int) (value complex128, errEst float64, converged bool) {
	n := len(xmin)
	if n == 0 || n != len(xmax) {
		return 0, math.Inf(1), false
	}
	if maxEval <= 0 {
		maxEval = 1 << 16
	}
	evals := 0
	root := newRegion(f, xmin, xmax, &evals)
	rs := regionHeap{root}
	heap.Init(&rs)

	total := root.value
	totalErr := root.errEst
	for totalErr > math.Max(absTol, relTol*cmplx.Abs(total)) && evals < maxEval {
		worst := heap.Pop(&rs).(*region)
		a, b := worst.bisect(f, &evals)
		total += a.value + b.value - worst.value
		totalErr += a.errEst + b.errEst - worst.errEst
		heap.Push(&rs, a)
		heap.Push(&rs, b)
	}
	return total, totalErr, totalErr <= math.Max(absTol, relTol*cmplx.Abs(total))
}

// region is one sub-box with its tensor-product Simpson estimate and a
// crude error estimate from the Simpson/trapezoid difference.
type region struct {
	lo, hi []float64
	value  complex128
	errEst float64
}

func newRegion(f CFunc, lo, hi []float64, evals *int) *region {
	r := &region{lo: append([]float64(nil), lo...), hi: append([]float64(nil), hi...)}
	r.value, r.errEst = rule(f, r.lo, r.hi, evals)
	return r
}

// rule evaluates the tensor-product Simpson rule (three points per axis)
// and estimates the error against the tensor-product trapezoid rule on
// the same points.
func rule(f CFunc, lo, hi []float64, evals *int) (complex128, float64) {
	n := len(lo)
	var simpson, trapezoid complex128
	x := make([]float64, n)
	idx := make([]int, n)
	// Simpson weights 1:4:1 over {lo, mid, hi}; trapezoid 1:0:1.
	sw := [3]float64{1.0 / 6, 4.0 / 6, 1.0 / 6}
	tw := [3]float64{0.5, 0, 0.5}
	vol := 1.0
	for d := 0; d < n; d++ {
		vol *= hi[d] - lo[d]
	}
	for {
		ws, wt := 1.0, 1.0
		for d := 0; d < n; d++ {
			switch idx[d] {
			case 0:
				x[d] = lo[d]
			case 1:
				x[d] = 0.5 * (lo[d] + hi[d])
			default:
				x[d] = hi[d]
			}
			ws *= sw[idx[d]]
			wt *= tw[idx[d]]
		}
		if ws != 0 || wt != 0 {
			v := f(x)
			*evals++
			simpson += complex(ws, 0) * v
			trapezoid += complex(wt, 0) * v
		}
		// odometer over the 3^n point lattice
		d := 0
		for ; d < n; d++ {
			idx[d]++
			if idx[d] < 3 {
				break
			}
			idx[d] = 0
		}
		if d == n {
			break
		}
	}
	simpson *= complex(vol, 0)
	trapezoid *= complex(vol, 0)
	return simpson, cmplx.Abs(simpson - trapezoid)
}

// bisect splits the region along its widest axis.
func (r *region) bisect(f CFunc, evals *int) (*region, *region) {
	d := 0
	for i := 1; i < len(r.lo); i++ {
		if r.hi[i]-r.lo[i] > r.hi[d]-r.lo[d] {
			d = i
		}
	}
	mid := 0.5 * (r.lo[d] + r.hi[d])
	aHi := append([]float64(nil), r.hi...)
	aHi[d] = mid
	bLo := append([]float64(nil), r.lo...)
	bLo[d] = mid
	return newRegion(f, r.lo, aHi, evals), newRegion(f, bLo, r.hi, evals)
}

type regionHeap []*region

func (h regionHeap) Len() int            { return len(h) }
func (h regionHeap) Less(i, j int) bool  { return h[i].errEst > h[j].errEst }
func (h regionHeap) Swap(i, j int)       { h[i], h[j] = h[j], h[i] }
func (h *regionHeap) Push(x any)         { *h = append(*h, x.(*region)) }
func (h *regionHeap) Pop() (r any)       { old := *h; n := len(old); r = old[n-1]; *h = old[:n-1]; return }
