// Package vertexindex is a best-effort spatial cache over the tile graph's
// vertex points, used by external collaborators (snapping, map-matching)
// that need approximate range queries without walking tiles directly.
//
// It is not a source of truth: the graph's tile index and vertex store
// remain authoritative, this index is never consulted by AddEdge, AddVertex
// or the enumerator, and it is not part of the persisted format. Losing it
// only degrades nearest-vertex lookups to a full scan; Rebuild recovers it
// from any iterator over the live vertices.
package vertexindex

import (
	"github.com/paulmach/orb"
	"github.com/tidwall/rtree"
)

// VertexID mirrors the tile graph's VertexId without importing it, to keep
// this package free of a dependency on the core graph package.
type VertexID struct {
	TileID  uint32
	LocalID uint32
}

// Index is an in-memory R-tree over point-shaped vertex bounding boxes.
type Index struct {
	tree rtree.RTreeG[VertexID]
}

// New creates an empty Index.
func New() *Index {
	return &Index{}
}

// Insert adds a vertex point to the index.
func (idx *Index) Insert(id VertexID, pt orb.Point) {
	min := [2]float64{pt[0], pt[1]}
	idx.tree.Insert(min, min, id)
}

// Search visits every indexed vertex whose point falls within bound,
// stopping early if fn returns false.
func (idx *Index) Search(bound orb.Bound, fn func(id VertexID, pt orb.Point) bool) {
	min := [2]float64{bound.Min[0], bound.Min[1]}
	max := [2]float64{bound.Max[0], bound.Max[1]}
	idx.tree.Search(min, max, func(mn, _ [2]float64, data VertexID) bool {
		return fn(data, orb.Point{mn[0], mn[1]})
	})
}

// Len returns the number of indexed vertices.
func (idx *Index) Len() int {
	return idx.tree.Len()
}

// Rebuild constructs a fresh Index from an iterator over live vertices.
// iterate must call yield once per vertex, stopping early if yield returns
// false. Callers reach for this after ReadFrom, since the index itself is
// never persisted.
func Rebuild(iterate func(yield func(id VertexID, pt orb.Point) bool)) *Index {
	idx := New()
	iterate(func(id VertexID, pt orb.Point) bool {
		idx.Insert(id, pt)
		return true
	})
	return idx
}
