package geom

import "math"

// Box is an axis-aligned region of the scene. Degenerate sides (Low == High
// along an axis) are how lower-dimensional cells are represented.
type Box struct {
	Low, High Vector3
}

func (b Box) Center() Vector3 {
	return Vector3{
		0.5 * (b.Low.X + b.High.X),
		0.5 * (b.Low.Y + b.High.Y),
		0.5 * (b.Low.Z + b.High.Z),
	}
}

func (b Box) Size() Vector3 { return b.High.Sub(b.Low) }

// Diameter is the length of the box diagonal; half of it is the radius of
// the circumscribed sphere used as the effective voxel radius.
func (b Box) Diameter() float64 {
	s := b.Size()
	return math.Sqrt(s.X*s.X + s.Y*s.Y + s.Z*s.Z)
}

func (b Box) Contains(p Vector3) bool {
	return p.X >= b.Low.X && p.X <= b.High.X &&
		p.Y >= b.Low.Y && p.Y <= b.High.Y &&
		p.Z >= b.Low.Z && p.Z <= b.High.Z
}

func (b Box) Shift(s Vector3) Box { return Box{b.Low.Sub(s), b.High.Sub(s)} }

// Union grows b to contain c.
func (b Box) Union(c Box) Box {
	return Box{
		Vector3{math.Min(b.Low.X, c.Low.X), math.Min(b.Low.Y, c.Low.Y), math.Min(b.Low.Z, c.Low.Z)},
		Vector3{math.Max(b.High.X, c.High.X), math.Max(b.High.Y, c.High.Y), math.Max(b.High.Z, c.High.Z)},
	}
}

func (b Box) Intersects(c Box) bool {
	return b.Low.X <= c.High.X && b.High.X >= c.Low.X &&
		b.Low.Y <= c.High.Y && b.High.Y >= c.Low.Y &&
		b.Low.Z <= c.High.Z && b.High.Z >= c.Low.Z
}
