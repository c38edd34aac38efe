// Package shapestore holds the optional per-edge polyline geometry for the
// tile graph, indexed densely by edge id.
package shapestore

import "github.com/paulmach/orb"

// growStep is the number of slots the backing array grows by at a time,
// matching the 1024-element growth increments used elsewhere in the store.
const growStep = 1024

// Store is a growable sparse sequence of shapes indexed by edge id.
// A nil entry means the edge has no shape.
type Store struct {
	shapes []orb.LineString
}

// New creates an empty Store.
func New() *Store {
	return &Store{}
}

func (s *Store) ensureCapacity(n uint32) {
	if uint32(len(s.shapes)) >= n {
		return
	}
	newLen := uint32(len(s.shapes))
	if newLen == 0 {
		newLen = growStep
	}
	for newLen < n {
		newLen += growStep
	}
	grown := make([]orb.LineString, newLen)
	copy(grown, s.shapes)
	s.shapes = grown
}

// Set stores a copy of ls as the shape for edgeID, growing the backing
// array in growStep increments if needed.
func (s *Store) Set(edgeID uint32, ls orb.LineString) {
	s.ensureCapacity(edgeID + 1)
	cp := make(orb.LineString, len(ls))
	copy(cp, ls)
	s.shapes[edgeID] = cp
}

// Get returns the shape for edgeID in forward order, or false if absent.
func (s *Store) Get(edgeID uint32) (orb.LineString, bool) {
	if edgeID >= uint32(len(s.shapes)) || s.shapes[edgeID] == nil {
		return nil, false
	}
	return s.shapes[edgeID], true
}

// Reversed returns the shape for edgeID with point order reversed, used
// when an enumerator walks the edge against its stored v1->v2 direction.
func (s *Store) Reversed(edgeID uint32) (orb.LineString, bool) {
	ls, ok := s.Get(edgeID)
	if !ok {
		return nil, false
	}
	rev := make(orb.LineString, len(ls))
	for i, p := range ls {
		rev[len(ls)-1-i] = p
	}
	return rev, true
}

// Len returns the size of the backing array, not the number of shapes
// actually set.
func (s *Store) Len() int {
	return len(s.shapes)
}

// Raw exposes the backing slice directly, for serialization. A nil entry
// means the edge has no shape.
func (s *Store) Raw() []orb.LineString {
	return s.shapes
}

// FromRaw wraps an already-decoded slice as a Store, for deserialization.
func FromRaw(shapes []orb.LineString) *Store {
	return &Store{shapes: shapes}
}
