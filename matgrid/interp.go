// Package matgrid implements the voxelized design field used for topology
// optimization: a dense lattice of weights in [0,1] sampled by trilinear
// interpolation, a smooth tanh threshold projection, policies for
// combining overlapping grids, and the analytic gradient of the
// interpolant.
package matgrid

import "math"

// mapCoordinates locates the eight lattice cells surrounding the
// normalized coordinate (rx, ry, rz) in [0,1]^3. Coordinates just outside
// the unit cube are mirrored back in. The fractional offsets d{x,y,z} are
// signed; interpolation takes their absolute value while the gradient
// needs the sign to orient its finite differences.
func mapCoordinates(rx, ry, rz float64, nx, ny, nz int) (x1, y1, z1, x2, y2, z2 int, dx, dy, dz float64) {
	mirror := func(r float64) float64 {
		if r < 0 {
			return -r
		}
		if r > 1 {
			return 1 - r
		}
		return r
	}
	rx, ry, rz = mirror(rx), mirror(ry), mirror(rz)

	x1 = clampIdx(int(rx*float64(nx)), nx)
	y1 = clampIdx(int(ry*float64(ny)), ny)
	z1 = clampIdx(int(rz*float64(nz)), nz)

	dx = rx*float64(nx) - float64(x1) - 0.5
	dy = ry*float64(ny) - float64(y1) - 0.5
	dz = rz*float64(nz) - float64(z1) - 0.5

	x2 = neighborIdx(x1, dx, nx)
	y2 = neighborIdx(y1, dy, ny)
	z2 = neighborIdx(z1, dz, nz)
	return
}

func clampIdx(i, n int) int {
	if i < 0 {
		return 0
	}
	if i >= n {
		return n - 1
	}
	return i
}

func neighborIdx(i int, d float64, n int) int {
	j := i - 1
	if d >= 0 {
		j = i + 1
	}
	if j < 0 {
		j++
	} else if j == n {
		j--
	}
	return j
}

// Interpolate samples a row-major nx*ny*nz array at the normalized
// coordinate (rx, ry, rz) with trilinear weights and mirror boundaries.
func Interpolate(rx, ry, rz float64, data []float64, nx, ny, nz int) float64 {
	x1, y1, z1, x2, y2, z2, dx, dy, dz := mapCoordinates(rx, ry, rz, nx, ny, nz)
	dx, dy, dz = math.Abs(dx), math.Abs(dy), math.Abs(dz)
	d := func(x, y, z int) float64 { return data[(x*ny+y)*nz+z] }
	return ((d(x1, y1, z1)*(1-dx)+d(x2, y1, z1)*dx)*(1-dy)+
		(d(x1, y2, z1)*(1-dx)+d(x2, y2, z1)*dx)*dy)*(1-dz) +
		((d(x1, y1, z2)*(1-dx)+d(x2, y1, z2)*dx)*(1-dy)+
			(d(x1, y2, z2)*(1-dx)+d(x2, y2, z2)*dx)*dy)*dz
}

// StencilCorners exposes the interpolation stencil for a normalized
// coordinate: the distinct lattice indices touched by trilinear
// interpolation there, plus the interpolated value. The adjoint kernel
// perturbs each corner weight in turn; differentiating through the
// interpolation picks up each corner's own coefficient automatically.
func StencilCorners(rx, ry, rz float64, data []float64, nx, ny, nz int) (idx [8]int, n int, u float64) {
	x1, y1, z1, x2, y2, z2, dx, dy, dz := mapCoordinates(rx, ry, rz, nx, ny, nz)
	dx, dy, dz = math.Abs(dx), math.Abs(dy), math.Abs(dz)
	xs := [2]int{x1, x2}
	ys := [2]int{y1, y2}
	zs := [2]int{z1, z2}
	lx, ly, lz := 2, 2, 2
	if x1 == x2 {
		lx = 1
	}
	if y1 == y2 {
		ly = 1
	}
	if z1 == z2 {
		lz = 1
	}
	for xi := 0; xi < lx; xi++ {
		for yi := 0; yi < ly; yi++ {
			for zi := 0; zi < lz; zi++ {
				idx[n] = (xs[xi]*ny+ys[yi])*nz + zs[zi]
				n++
			}
		}
	}
	u = Interpolate(rx, ry, rz, data, nx, ny, nz)
	return
}
