package matgrid

import (
	"math"

	"github.com/Fengkai-Wei/meep/geom"
)

// Gradient computes the analytic gradient of the trilinear interpolant at
// the normalized coordinate (rx, ry, rz), in scene coordinates.
//
// The raw partial derivatives are taken with respect to the grid's local
// axes; the mirror boundary handling in mapCoordinates can flip the sense
// of a local axis, which the sign flips below undo. The local gradient is
// then scaled by the lattice resolution and chain-ruled through the owning
// object's coordinate map (a vector-Jacobian product). When the grid is
// the scene default material there is no object and the scene lattice
// provides the scaling instead.
func (g *Grid) Gradient(rx, ry, rz float64, o *geom.Object, lattice geom.Vector3) geom.Vector3 {
	x1, y1, z1, x2, y2, z2, dx, dy, dz := mapCoordinates(rx, ry, rz, g.Nx, g.Ny, g.Nz)
	sx, sy, sz := 1.0, 1.0, 1.0
	if dx < 0 {
		dx, sx = -dx, -1
	}
	if dy < 0 {
		dy, sy = -dy, -1
	}
	if dz < 0 {
		dz, sz = -dz, -1
	}
	d := func(x, y, z int) float64 { return g.Weights[(x*g.Ny+y)*g.Nz+z] }

	duDx := sx * (((-d(x1, y1, z1)+d(x2, y1, z1))*(1-dy)+
		(-d(x1, y2, z1)+d(x2, y2, z1))*dy)*(1-dz) +
		((-d(x1, y1, z2)+d(x2, y1, z2))*(1-dy)+
			(-d(x1, y2, z2)+d(x2, y2, z2))*dy)*dz)
	duDy := sy * ((-(d(x1, y1, z1)*(1-dx)+d(x2, y1, z1)*dx)+
		(d(x1, y2, z1)*(1-dx)+d(x2, y2, z1)*dx))*(1-dz) +
		(-(d(x1, y1, z2)*(1-dx)+d(x2, y1, z2)*dx)+
			(d(x1, y2, z2)*(1-dx)+d(x2, y2, z2)*dx))*dz)
	duDz := sz * (-((d(x1, y1, z1)*(1-dx)+d(x2, y1, z1)*dx)*(1-dy)+
		(d(x1, y2, z1)*(1-dx)+d(x2, y2, z1)*dx)*dy) +
		((d(x1, y1, z2)*(1-dx)+d(x2, y1, z2)*dx)*(1-dy)+
			(d(x1, y2, z2)*(1-dx)+d(x2, y2, z2)*dx)*dy))

	grad := geom.Vector3{
		X: duDx * float64(g.Nx),
		Y: duDy * float64(g.Ny),
		Z: duDz * float64(g.Nz),
	}
	if o != nil {
		return o.CoordsVJP(grad)
	}
	div := func(g, size float64) float64 {
		if size == 0 {
			return 0
		}
		return g / size
	}
	return geom.Vector3{
		X: div(grad.X, lattice.X),
		Y: div(grad.Y, lattice.Y),
		Z: div(grad.Z, lattice.Z),
	}
}

// ProjectDerivative is d Project / d u at fixed beta, eta. The adjoint
// kernel differentiates through the projection numerically, but tests use
// the closed form to validate monotonicity.
func ProjectDerivative(u, beta, eta float64) float64 {
	if beta == 0 {
		return 1
	}
	den := math.Tanh(beta*eta) + math.Tanh(beta*(1-eta))
	sech := 1 / math.Cosh(beta*(u-eta))
	return beta * sech * sech / den
}
