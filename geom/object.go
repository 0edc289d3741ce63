package geom

import "math"

// Shape is the closed set of object geometries. Points handed to a shape
// are relative to the object center.
type Shape interface {
	// Contains reports whether the centered point r lies inside the shape.
	Contains(r Vector3) bool
	// Normal is the outward surface normal nearest to the centered point r.
	// A zero return means no well-defined normal could be recovered.
	Normal(r Vector3) Vector3
	// LocalCoords maps a centered point into the shape's normalized
	// coordinate frame so that the shape interior spans roughly [0,1]^3.
	LocalCoords(r Vector3) Vector3
	// CoordsVJP is the vector-Jacobian product of LocalCoords: it maps a
	// gradient with respect to local coordinates back to scene coordinates.
	// Shapes without an implemented Jacobian return the zero vector.
	CoordsVJP(g Vector3) Vector3
	// Extent is the shape's axis-aligned half-extent, for bounding boxes.
	Extent() Vector3
}

// Sphere is a ball of the given radius about the object center.
type Sphere struct {
	Radius float64
}

func (s Sphere) Contains(r Vector3) bool { return r.Dot(r) <= s.Radius*s.Radius }

func (s Sphere) Normal(r Vector3) Vector3 { return r.Unit() }

func (s Sphere) LocalCoords(r Vector3) Vector3 {
	return Vector3{0.5, 0.5, 0.5}.Add(r.Scale(0.5 / s.Radius))
}

func (s Sphere) CoordsVJP(g Vector3) Vector3 { return g.Scale(0.5 / s.Radius) }

func (s Sphere) Extent() Vector3 { return Vector3{s.Radius, s.Radius, s.Radius} }

// Block is a rectangular parallelepiped with orthonormal axes E1, E2, E3
// and side lengths Size along those axes. A zero side length makes the
// block infinite along that axis for containment purposes.
type Block struct {
	Size       Vector3
	E1, E2, E3 Vector3
}

// NewBlock returns an axis-aligned block.
func NewBlock(size Vector3) Block {
	return Block{
		Size: size,
		E1:   Vector3{1, 0, 0},
		E2:   Vector3{0, 1, 0},
		E3:   Vector3{0, 0, 1},
	}
}

// project expresses r in the block's axis frame. The axes are orthonormal,
// so the projection matrix is just the transposed basis.
func (b Block) project(r Vector3) Vector3 {
	return Vector3{b.E1.Dot(r), b.E2.Dot(r), b.E3.Dot(r)}
}

func (b Block) Contains(r Vector3) bool {
	q := b.project(r)
	return (b.Size.X == 0 || math.Abs(q.X) <= 0.5*b.Size.X) &&
		(b.Size.Y == 0 || math.Abs(q.Y) <= 0.5*b.Size.Y) &&
		(b.Size.Z == 0 || math.Abs(q.Z) <= 0.5*b.Size.Z)
}

// Normal picks the face whose plane is closest to r, in the block frame.
func (b Block) Normal(r Vector3) Vector3 {
	q := b.project(r)
	dx := 0.5*b.Size.X - math.Abs(q.X)
	dy := 0.5*b.Size.Y - math.Abs(q.Y)
	dz := 0.5*b.Size.Z - math.Abs(q.Z)
	if b.Size.X == 0 {
		dx = math.Inf(1)
	}
	if b.Size.Y == 0 {
		dy = math.Inf(1)
	}
	if b.Size.Z == 0 {
		dz = math.Inf(1)
	}
	switch {
	case dx <= dy && dx <= dz:
		return b.E1.Scale(math.Copysign(1, q.X))
	case dy <= dz:
		return b.E2.Scale(math.Copysign(1, q.Y))
	default:
		return b.E3.Scale(math.Copysign(1, q.Z))
	}
}

func (b Block) LocalCoords(r Vector3) Vector3 {
	q := b.project(r)
	if b.Size.X != 0 {
		q.X /= b.Size.X
	}
	if b.Size.Y != 0 {
		q.Y /= b.Size.Y
	}
	if b.Size.Z != 0 {
		q.Z /= b.Size.Z
	}
	return Vector3{0.5, 0.5, 0.5}.Add(q)
}

func (b Block) CoordsVJP(g Vector3) Vector3 {
	if b.Size.X != 0 {
		g.X /= b.Size.X
	}
	if b.Size.Y != 0 {
		g.Y /= b.Size.Y
	}
	if b.Size.Z != 0 {
		g.Z /= b.Size.Z
	}
	// transpose of the projection matrix is the basis itself
	return b.E1.Scale(g.X).Add(b.E2.Scale(g.Y)).Add(b.E3.Scale(g.Z))
}

func (b Block) Extent() Vector3 {
	h := Vector3{0.5 * b.Size.X, 0.5 * b.Size.Y, 0.5 * b.Size.Z}
	return Vector3{
		math.Abs(b.E1.X)*h.X + math.Abs(b.E2.X)*h.Y + math.Abs(b.E3.X)*h.Z,
		math.Abs(b.E1.Y)*h.X + math.Abs(b.E2.Y)*h.Y + math.Abs(b.E3.Y)*h.Z,
		math.Abs(b.E1.Z)*h.X + math.Abs(b.E2.Z)*h.Y + math.Abs(b.E3.Z)*h.Z,
	}
}

// Object places a shape in the scene and attaches a material description.
// Material is opaque at this level; the evaluation layer owns its concrete
// type, the way the spatial index owns only bounding boxes.
type Object struct {
	Shape    Shape
	Center   Vector3
	Material any
}

func (o *Object) Contains(p Vector3) bool { return o.Shape.Contains(p.Sub(o.Center)) }

func (o *Object) Normal(p Vector3) Vector3 { return o.Shape.Normal(p.Sub(o.Center)) }

// LocalCoords maps a scene point into the object's normalized frame.
func (o *Object) LocalCoords(p Vector3) Vector3 { return o.Shape.LocalCoords(p.Sub(o.Center)) }

func (o *Object) CoordsVJP(g Vector3) Vector3 { return o.Shape.CoordsVJP(g) }

func (o *Object) AABB() Box {
	e := o.Shape.Extent()
	return Box{o.Center.Sub(e), o.Center.Add(e)}
}
