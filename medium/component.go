package medium

import "github.com/Fengkai-Wei/meep/geom"

// FieldType distinguishes the electric and magnetic halves of the
// material response.
type FieldType uint8

const (
	EStuff FieldType = iota
	HStuff
)

// Component is a field component on the solver grid. D and B components
// address the conductivity tensors; E and H address permittivity,
// permeability and the nonlinear coefficients. Cylindrical components
// share rows with their cartesian counterparts.
type Component uint8

const (
	Ex Component = iota
	Ey
	Ez
	Hx
	Hy
	Hz
	Dx
	Dy
	Dz
	Bx
	By
	Bz
)

const (
	Er = Ex
	Ep = Ey
	Hr = Hx
	Hp = Hy
	Dr = Dx
	Dp = Dy
	Br = Bx
	Bp = By
)

// Direction is the coordinate axis the component lies along.
func (c Component) Direction() geom.Direction {
	switch c % 3 {
	case 0:
		return geom.X
	case 1:
		return geom.Y
	default:
		return geom.Z
	}
}

// Index is the tensor row the component addresses.
func (c Component) Index() int { return int(c % 3) }

// Type reports which half of the material response c belongs to.
func (c Component) Type() FieldType {
	switch {
	case c <= Ez, c >= Dx && c <= Dz:
		return EStuff
	default:
		return HStuff
	}
}
