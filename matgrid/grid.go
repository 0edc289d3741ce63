package matgrid

import (
	"fmt"
	"math"
)

// Combine selects how overlapping design grids contribute at one point.
type Combine uint8

const (
	// UDefault uses only the innermost grid; others are ignored.
	UDefault Combine = iota
	// UMean averages the values of all grids covering the point.
	UMean
	// UMin takes the minimum value. Gradient combination is unsupported.
	UMin
	// UProd multiplies the values. Gradient combination is unsupported.
	UProd
)

// Grid is a dense design field over an Nx*Ny*Nz lattice. Weights are
// stored row-major and nominally lie in [0,1]. Beta and Eta parameterize
// the threshold projection; Damping adds an artificial conductivity term
// that suppresses instabilities when interpolating between dispersive
// media.
type Grid struct {
	Nx, Ny, Nz int
	Weights    []float64
	Beta       float64
	Eta        float64
	Damping    float64
	Kind       Combine
}

// NewGrid validates the lattice dimensions against the weight buffer.
func NewGrid(nx, ny, nz int, weights []float64) (*Grid, error) {
	if nx <= 0 || ny <= 0 || nz <= 0 {
		return nil, fmt.Errorf("invalid grid size %dx%dx%d", nx, ny, nz)
	}
	if len(weights) != nx*ny*nz {
		return nil, fmt.Errorf("weight buffer length %d does not match %dx%dx%d",
			len(weights), nx, ny, nz)
	}
	return &Grid{Nx: nx, Ny: ny, Nz: nz, Weights: weights, Eta: 0.5}, nil
}

// Value interpolates the raw (unprojected) weight field at the normalized
// coordinate p in [0,1]^3.
func (g *Grid) Value(rx, ry, rz float64) float64 {
	return Interpolate(rx, ry, rz, g.Weights, g.Nx, g.Ny, g.Nz)
}

// SetWeights replaces the design weights in place, keeping the buffer
// owned by the grid.
func (g *Grid) SetWeights(weights []float64) error {
	if len(weights) != len(g.Weights) {
		return fmt.Errorf("weight buffer length %d does not match %d", len(weights), len(g.Weights))
	}
	copy(g.Weights, weights)
	return nil
}

// Copy deep-copies the grid, including the weight buffer.
func (g *Grid) Copy() *Grid {
	c := *g
	c.Weights = append([]float64(nil), g.Weights...)
	return &c
}

// Equal compares dimensions and every weight exactly.
func (g *Grid) Equal(o *Grid) bool {
	if g.Nx != o.Nx || g.Ny != o.Ny || g.Nz != o.Nz {
		return false
	}
	for i, w := range g.Weights {
		if w != o.Weights[i] {
			return false
		}
	}
	return g.Beta == o.Beta && g.Eta == o.Eta && g.Damping == o.Damping && g.Kind == o.Kind
}

// Project applies the smooth threshold projection. Beta controls the
// sharpness and eta the threshold; beta = 0 is the identity and u = eta
// returns exactly 0.5, which also avoids a NaN when beta is infinite.
func Project(u, beta, eta float64) float64 {
	if beta == 0 {
		return u
	}
	if u == eta {
		return 0.5
	}
	tbe := math.Tanh(beta * eta)
	return (tbe + math.Tanh(beta*(u-eta))) / (tbe + math.Tanh(beta*(1-eta)))
}
