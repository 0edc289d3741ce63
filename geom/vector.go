package geom

import "math"

// Vector3 is a point or direction in scene coordinates. In cylindrical
// scenes X holds the radial coordinate and Y the azimuthal one.
type Vector3 struct {
	X, Y, Z float64
}

func (v Vector3) Add(w Vector3) Vector3 { return Vector3{v.X + w.X, v.Y + w.Y, v.Z + w.Z} }

func (v Vector3) Sub(w Vector3) Vector3 { return Vector3{v.X - w.X, v.Y - w.Y, v.Z - w.Z} }

func (v Vector3) Scale(s float64) Vector3 { return Vector3{s * v.X, s * v.Y, s * v.Z} }

func (v Vector3) Dot(w Vector3) float64 { return v.X*w.X + v.Y*w.Y + v.Z*w.Z }

func (v Vector3) Cross(w Vector3) Vector3 {
	return Vector3{
		v.Y*w.Z - v.Z*w.Y,
		v.Z*w.X - v.X*w.Z,
		v.X*w.Y - v.Y*w.X,
	}
}

func (v Vector3) Norm() float64 { return math.Sqrt(v.Dot(v)) }

// Unit returns v normalized, or the zero vector when v has zero length.
func (v Vector3) Unit() Vector3 {
	n := v.Norm()
	if n == 0 {
		return Vector3{}
	}
	return v.Scale(1 / n)
}

// Equal is exact floating-point comparison; material identity tests
// depend on bitwise-identical tensors, not on an epsilon.
func (v Vector3) Equal(w Vector3) bool { return v.X == w.X && v.Y == w.Y && v.Z == w.Z }

func (v Vector3) IsZero() bool { return v.X == 0 && v.Y == 0 && v.Z == 0 }

// Component returns the coordinate of v along direction d.
func (v Vector3) Component(d Direction) float64 {
	switch d {
	case X, R:
		return v.X
	case Y, P:
		return v.Y
	case Z:
		return v.Z
	}
	return 0
}

// SetComponent returns v with the coordinate along d replaced.
func (v Vector3) SetComponent(d Direction, x float64) Vector3 {
	switch d {
	case X, R:
		v.X = x
	case Y, P:
		v.Y = x
	case Z:
		v.Z = x
	}
	return v
}
