package geom

// Dimension identifies the dimensionality of a scene. Cylindrical scenes
// are two-dimensional in (r, z) but carry their own fill-fraction and
// Jacobian conventions.
type Dimension uint8

const (
	D1 Dimension = iota
	D2
	D3
	Dcyl
)

// NumDirections is the number of coordinate directions a field varies
// along in this dimensionality.
func (d Dimension) NumDirections() int {
	switch d {
	case D1:
		return 1
	case D2, Dcyl:
		return 2
	default:
		return 3
	}
}

// Directions lists the active coordinate directions, in loop order.
func (d Dimension) Directions() []Direction {
	switch d {
	case D1:
		return []Direction{Z}
	case D2:
		return []Direction{X, Y}
	case Dcyl:
		return []Direction{R, Z}
	default:
		return []Direction{X, Y, Z}
	}
}

// Direction is a coordinate axis. R and P are the radial and azimuthal
// axes of cylindrical scenes; they share tensor rows with X and Y.
type Direction uint8

const (
	X Direction = iota
	Y
	Z
	R
	P
	NoDirection
)

// Index is the tensor row/column this direction addresses.
func (d Direction) Index() int {
	switch d {
	case X, R:
		return 0
	case Y, P:
		return 1
	case Z:
		return 2
	}
	return -1
}
