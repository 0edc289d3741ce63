package quad

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIntegratePolynomial1D(t *testing.T) {
	// Simpson is exact on cubics, so the value is exact even while the
	// trapezoid-based error estimate still drives refinement
	v, _, ok := Integrate(func(x []float64) float64 {
		return x[0] * x[0] * x[0]
	}, []float64{0}, []float64{2}, 0, 1e-6, 1<<16)
	assert.True(t, ok)
	assert.InDelta(t, 4, v, 1e-9)
}

func TestIntegrateSmooth1D(t *testing.T) {
	v, errEst, ok := Integrate(func(x []float64) float64 {
		return math.Sin(x[0])
	}, []float64{0}, []float64{math.Pi}, 0, 1e-6, 1<<16)
	assert.True(t, ok)
	assert.InDelta(t, 2, v, 1e-5)
	assert.Less(t, errEst, 1e-4)
}

func TestIntegrateSeparable2D(t *testing.T) {
	// integral of x*y over the unit square is 1/4
	v, _, ok := Integrate(func(x []float64) float64 {
		return x[0] * x[1]
	}, []float64{0, 0}, []float64{1, 1}, 1e-10, 0, 1<<16)
	assert.True(t, ok)
	assert.InDelta(t, 0.25, v, 1e-9)
}

func TestIntegrate3DVolume(t *testing.T) {
	v, _, ok := Integrate(func(x []float64) float64 {
		return 1
	}, []float64{-1, 0, 2}, []float64{1, 3, 5}, 1e-12, 0, 1<<16)
	assert.True(t, ok)
	assert.InDelta(t, 2*3*3, v, 1e-12)
}

func TestIntegrateComplexPair(t *testing.T) {
	// integrate f and 1/f in one pass, the way the averaging fallback does
	f := func(x []float64) float64 { return 2 + x[0] }
	v, _, ok := IntegrateComplex(func(x []float64) complex128 {
		return complex(f(x), 1/f(x))
	}, []float64{0}, []float64{1}, 0, 1e-7, 1<<16)
	assert.True(t, ok)
	assert.InDelta(t, 2.5, real(v), 1e-6)
	assert.InDelta(t, math.Log(1.5), imag(v), 1e-6)
}

func TestIntegrateBudgetExhausted(t *testing.T) {
	// an oscillatory integrand on a tiny budget must report non-convergence
	v, _, ok := Integrate(func(x []float64) float64 {
		return math.Sin(50 * x[0])
	}, []float64{0}, []float64{1}, 0, 1e-14, 30)
	assert.False(t, ok)
	assert.False(t, math.IsNaN(v))
}

func TestIntegrateBadDomain(t *testing.T) {
	_, errEst, ok := Integrate(func(x []float64) float64 { return 1 }, nil, nil, 1e-6, 0, 100)
	assert.False(t, ok)
	assert.True(t, math.IsInf(errEst, 1))
}
