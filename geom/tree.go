package geom

// Hit identifies one object found at a query point. ID is the object's
// position in the scene list: a larger ID takes priority on overlap.
// Shift is the lattice translation of the replica that contained the
// point; subtract it from the query point before asking the object about
// normals or local coordinates.
type Hit struct {
	Object *Object
	Shift  Vector3
	ID     int
}

// Tree is the spatial index the evaluation layer queries. Implementations
// must be safe for concurrent readers once built.
type Tree interface {
	// At returns the highest-priority object containing p, if any.
	At(p Vector3) (Hit, bool)
	// Stack returns every object containing p, highest priority first.
	// Grid-combination policies walk this list.
	Stack(p Vector3) []Hit
	// Bounds is the region the tree was built over.
	Bounds() Box
}
