package matgrid

import (
	"math"
	"testing"

	"github.com/Fengkai-Wei/meep/geom"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func rampGrid(t *testing.T, nx, ny, nz int) *Grid {
	t.Helper()
	w := make([]float64, nx*ny*nz)
	for x := 0; x < nx; x++ {
		for y := 0; y < ny; y++ {
			for z := 0; z < nz; z++ {
				w[(x*ny+y)*nz+z] = float64(x+y+z) / float64(nx+ny+nz)
			}
		}
	}
	g, err := NewGrid(nx, ny, nz, w)
	require.NoError(t, err)
	return g
}

func TestNewGridValidates(t *testing.T) {
	_, err := NewGrid(0, 1, 1, nil)
	assert.Error(t, err)
	_, err = NewGrid(2, 2, 2, make([]float64, 7))
	assert.Error(t, err)
	g, err := NewGrid(2, 2, 2, make([]float64, 8))
	require.NoError(t, err)
	assert.Equal(t, 0.5, g.Eta)
}

func TestProjectAtEtaIsHalf(t *testing.T) {
	for _, beta := range []float64{0.5, 1, 8, 64, math.Inf(1)} {
		for _, eta := range []float64{0.25, 0.5, 0.75} {
			assert.Equal(t, 0.5, Project(eta, beta, eta), "beta=%g eta=%g", beta, eta)
		}
	}
}

func TestProjectBetaZeroIsIdentity(t *testing.T) {
	for _, u := range []float64{0, 0.1, 0.5, 0.9, 1} {
		assert.Equal(t, u, Project(u, 0, 0.5))
	}
}

func TestProjectEndpointsExact(t *testing.T) {
	// the normalization pins u=0 and u=1 regardless of beta
	for _, beta := range []float64{1, 10, 100} {
		assert.InDelta(t, 0, Project(0, beta, 0.5), 1e-15)
		assert.InDelta(t, 1, Project(1, beta, 0.5), 1e-15)
	}
}

func TestProjectInfiniteBetaIsStep(t *testing.T) {
	assert.Equal(t, 0.0, Project(0.3, math.Inf(1), 0.5))
	assert.Equal(t, 1.0, Project(0.7, math.Inf(1), 0.5))
	assert.Equal(t, 0.5, Project(0.5, math.Inf(1), 0.5))
}

func TestProjectDerivativeMatchesFiniteDifference(t *testing.T) {
	const h = 1e-6
	for _, beta := range []float64{0, 2, 16} {
		for _, u := range []float64{0.2, 0.5, 0.8} {
			fd := (Project(u+h, beta, 0.5) - Project(u-h, beta, 0.5)) / (2 * h)
			assert.InDelta(t, fd, ProjectDerivative(u, beta, 0.5), 1e-6)
		}
	}
}

func TestInterpolateConstantField(t *testing.T) {
	w := make([]float64, 3*4*5)
	for i := range w {
		w[i] = 0.7
	}
	for _, r := range []float64{0, 0.1, 0.5, 0.99, 1} {
		assert.InDelta(t, 0.7, Interpolate(r, r/2, 1-r, w, 3, 4, 5), 1e-14)
	}
}

func TestInterpolateSingleCell(t *testing.T) {
	// a 1x1x1 grid is constant everywhere
	w := []float64{0.42}
	assert.Equal(t, 0.42, Interpolate(0.1, 0.7, 0.95, w, 1, 1, 1))
}

func TestInterpolateHitsNodeValues(t *testing.T) {
	g := rampGrid(t, 4, 1, 1)
	// node centers sit at (i + 0.5) / nx
	for i := 0; i < 4; i++ {
		r := (float64(i) + 0.5) / 4
		assert.InDelta(t, g.Weights[i], g.Value(r, 0.5, 0.5), 1e-14)
	}
	// midway between nodes the value is the mean of the neighbors
	mid := (g.Weights[1] + g.Weights[2]) / 2
	assert.InDelta(t, mid, g.Value(0.5, 0.5, 0.5), 1e-14)
}

func TestInterpolateMirrorBoundary(t *testing.T) {
	g := rampGrid(t, 4, 1, 1)
	// outside the first node center the mirror boundary holds the value flat
	assert.InDelta(t, g.Weights[0], g.Value(0, 0.5, 0.5), 1e-14)
	assert.InDelta(t, g.Weights[3], g.Value(1, 0.5, 0.5), 1e-14)
}

func TestGradientMatchesFiniteDifference(t *testing.T) {
	g := rampGrid(t, 8, 8, 8)
	lattice := geom.Vector3{X: 1, Y: 1, Z: 1}
	const h = 1e-6
	pts := [][3]float64{{0.3, 0.4, 0.5}, {0.51, 0.52, 0.53}, {0.26, 0.74, 0.38}}
	for _, p := range pts {
		grad := g.Gradient(p[0], p[1], p[2], nil, lattice)
		fdx := (g.Value(p[0]+h, p[1], p[2]) - g.Value(p[0]-h, p[1], p[2])) / (2 * h)
		fdy := (g.Value(p[0], p[1]+h, p[2]) - g.Value(p[0], p[1]-h, p[2])) / (2 * h)
		fdz := (g.Value(p[0], p[1], p[2]+h) - g.Value(p[0], p[1], p[2]-h)) / (2 * h)
		assert.InDelta(t, fdx, grad.X, 1e-6, "x at %v", p)
		assert.InDelta(t, fdy, grad.Y, 1e-6, "y at %v", p)
		assert.InDelta(t, fdz, grad.Z, 1e-6, "z at %v", p)
	}
}

func TestGradientZeroForDegenerateLattice(t *testing.T) {
	g := rampGrid(t, 4, 4, 4)
	grad := g.Gradient(0.3, 0.4, 0.5, nil, geom.Vector3{X: 1, Y: 0, Z: 1})
	assert.Equal(t, 0.0, grad.Y)
}

func TestStencilCornersMatchesInterpolation(t *testing.T) {
	g := rampGrid(t, 5, 5, 5)
	idx, n, u := StencilCorners(0.37, 0.42, 0.66, g.Weights, 5, 5, 5)
	assert.Equal(t, 8, n)
	assert.InDelta(t, g.Value(0.37, 0.42, 0.66), u, 1e-14)
	seen := map[int]bool{}
	for _, i := range idx[:n] {
		assert.False(t, seen[i], "duplicate corner %d", i)
		seen[i] = true
		assert.Less(t, i, len(g.Weights))
	}
}

func TestStencilCornersDegenerateAxes(t *testing.T) {
	g := rampGrid(t, 5, 1, 1)
	_, n, _ := StencilCorners(0.37, 0.5, 0.5, g.Weights, 5, 1, 1)
	assert.Equal(t, 2, n)
}

func TestEqualComparesShape(t *testing.T) {
	w := []float64{0, 1, 2, 3, 4, 5}
	a, err := NewGrid(2, 3, 1, w)
	require.NoError(t, err)
	// same flat buffer arranged on a transposed lattice is a different grid
	b, err := NewGrid(3, 2, 1, append([]float64(nil), w...))
	require.NoError(t, err)
	assert.False(t, a.Equal(b))
	assert.True(t, a.Equal(a.Copy()))
}

func TestCopyIsDeep(t *testing.T) {
	g := rampGrid(t, 2, 2, 2)
	c := g.Copy()
	c.Weights[0] = 99
	assert.NotEqual(t, g.Weights[0], c.Weights[0])
	assert.True(t, g.Equal(g))
	assert.False(t, g.Equal(c))
}
