package geom

import (
	"fmt"
	"sort"

	"github.com/dhconnelly/rtreego"
)

// minExtent pads degenerate bounding-box sides so every entry is a valid
// R-tree rectangle.
const minExtent = 1e-9

type treeEntry struct {
	obj   *Object
	id    int
	shift Vector3
	rect  rtreego.Rect
}

func (e *treeEntry) Bounds() rtreego.Rect { return e.rect }

// RTree indexes scene objects in an R-tree. Periodic scenes insert one
// entry per lattice replica whose bounding box still meets the scene
// bounds, so a point query sees shifted copies too.
type RTree struct {
	rt     *rtreego.Rtree
	bounds Box
}

// NewTree builds the index over objs, which are prioritized by slice
// position (later wins). shifts lists the lattice translations to
// replicate under; pass nil for a non-periodic scene.
func NewTree(objs []*Object, bounds Box, shifts []Vector3) (*RTree, error) {
	if len(shifts) == 0 {
		shifts = []Vector3{{}}
	}
	rt := rtreego.NewTree(3, 2, 8)
	for id, o := range objs {
		if o == nil || o.Shape == nil {
			return nil, fmt.Errorf("object %d has no shape", id)
		}
		for _, s := range shifts {
			bb := o.AABB()
			bb.Low = bb.Low.Add(s)
			bb.High = bb.High.Add(s)
			if !bb.Intersects(bounds) {
				continue
			}
			rect, err := rtreego.NewRect(
				rtreego.Point{bb.Low.X, bb.Low.Y, bb.Low.Z},
				[]float64{
					extent(bb.Low.X, bb.High.X),
					extent(bb.Low.Y, bb.High.Y),
					extent(bb.Low.Z, bb.High.Z),
				})
			if err != nil {
				return nil, fmt.Errorf("object %d: %w", id, err)
			}
			rt.Insert(&treeEntry{obj: o, id: id, shift: s, rect: rect})
		}
	}
	return &RTree{rt: rt, bounds: bounds}, nil
}

func extent(lo, hi float64) float64 {
	if d := hi - lo; d > minExtent {
		return d
	}
	return minExtent
}

func (t *RTree) Bounds() Box { return t.bounds }

func (t *RTree) At(p Vector3) (Hit, bool) {
	s := t.Stack(p)
	if len(s) == 0 {
		return Hit{}, false
	}
	return s[0], true
}

func (t *RTree) Stack(p Vector3) []Hit {
	pt := rtreego.Point{p.X, p.Y, p.Z}
	var hits []Hit
	for _, sp := range t.rt.SearchIntersect(pt.ToRect(minExtent)) {
		e := sp.(*treeEntry)
		if e.obj.Contains(p.Sub(e.shift)) {
			hits = append(hits, Hit{Object: e.obj, Shift: e.shift, ID: e.id})
		}
	}
	sort.Slice(hits, func(i, j int) bool { return hits[i].ID > hits[j].ID })
	return hits
}

// LatticeShifts enumerates the replica translations of a periodic lattice:
// every combination of {-L, 0, +L} over the axes with nonzero size.
func LatticeShifts(size Vector3) []Vector3 {
	steps := func(L float64) []float64 {
		if L == 0 {
			return []float64{0}
		}
		return []float64{-L, 0, L}
	}
	var shifts []Vector3
	for _, sx := range steps(size.X) {
		for _, sy := range steps(size.Y) {
			for _, sz := range steps(size.Z) {
				shifts = append(shifts, Vector3{sx, sy, sz})
			}
		}
	}
	return shifts
}
