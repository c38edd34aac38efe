package tilegraph

import "github.com/paulmach/orb"

// noRawPtr is the enumerator-internal sentinel meaning "no further edge",
// distinct from the vertex-slot-level NoEdges sentinel: it addresses a raw
// byte offset into the edge arena rather than an edge id.
const noRawPtr = ^uint32(0)

// EdgeEnumerator is a cursor that walks a vertex's incident edges,
// normalising direction at read time so callers always see From()==the
// vertex the cursor was positioned at, regardless of whether the edge was
// originally added as (v, to) or (to, v).
//
// A self-loop (an edge whose two endpoints are the same vertex) has a
// single list splice but two roles at that splice, so walking from that
// vertex yields it twice in a row: once with Forward()==true, once with
// Forward()==false, both with To() equal to the anchor, before the cursor
// advances past it.
//
// An enumerator must not be used across a mutation of the graph it was
// created from: growth of any of the graph's backing arrays invalidates
// the raw offsets the cursor holds.
type EdgeEnumerator struct {
	g *Graph

	anchor    VertexId
	firstEdge bool

	rawPtr     uint32
	nextRawPtr uint32

	// selfLoopPending is set after yielding the forward view of a
	// self-loop record, so the very next MoveNext call yields its
	// backward view instead of advancing to a different record.
	selfLoopPending    bool
	pendingNextEdgePtr uint32

	forward bool
	to      VertexId
}

// MoveTo positions the enumerator at the head of v's edge list. It returns
// false if v does not resolve to an existing vertex.
func (e *EdgeEnumerator) MoveTo(v VertexId) bool {
	slot, ok := e.g.resolveSlotStrict(v)
	if !ok {
		return false
	}

	e.anchor = v
	e.firstEdge = true
	e.selfLoopPending = false

	first := e.g.verts.edgePtrs[slot]
	if first == NoEdges {
		e.rawPtr = noRawPtr
	} else {
		e.rawPtr = first * e.g.edges.edgeSize
	}
	return true
}

// MoveToEdge positions the enumerator directly on edgeID, with forward
// selecting which endpoint becomes the anchor: forward=true anchors on the
// edge's stored v1, forward=false on v2. It returns false if edgeID does
// not exist.
func (e *EdgeEnumerator) MoveToEdge(edgeID EdgeId, forward bool) bool {
	if uint32(edgeID) >= e.g.edges.edgePointerHigh {
		return false
	}

	v1, v2, prevPtr1, prevPtr2 := e.g.edges.readEdge(edgeID)
	e.rawPtr = uint32(edgeID) * e.g.edges.edgeSize
	e.firstEdge = false
	e.selfLoopPending = false
	e.forward = forward

	var nextEdgePtr uint32
	if forward {
		e.anchor = v1
		e.to = v2
		nextEdgePtr = prevPtr1
	} else {
		e.anchor = v2
		e.to = v1
		nextEdgePtr = prevPtr2
	}
	e.setNextFromPtr(nextEdgePtr)
	return true
}

func (e *EdgeEnumerator) setNextFromPtr(nextEdgePtr uint32) {
	if nextEdgePtr == 0 {
		e.nextRawPtr = noRawPtr
	} else {
		e.nextRawPtr = (nextEdgePtr - 1) * e.g.edges.edgeSize
	}
}

// MoveNext advances the cursor to the next edge in the anchor's list,
// returning false once the list is exhausted (or was empty to begin with).
func (e *EdgeEnumerator) MoveNext() bool {
	if e.selfLoopPending {
		e.selfLoopPending = false
		e.forward = false
		e.to = e.anchor
		e.setNextFromPtr(e.pendingNextEdgePtr)
		return true
	}

	if e.firstEdge {
		if e.rawPtr == noRawPtr {
			return false
		}
		e.firstEdge = false
	} else {
		if e.nextRawPtr == noRawPtr {
			return false
		}
		e.rawPtr = e.nextRawPtr
	}

	id := EdgeId(e.rawPtr / e.g.edges.edgeSize)
	v1, v2, prevPtr1, prevPtr2 := e.g.edges.readEdge(id)

	if v1 == e.anchor && v2 == e.anchor {
		// Self-loop: yield the forward view now, remember to yield the
		// backward view on the very next call before advancing.
		e.forward = true
		e.to = v2
		e.selfLoopPending = true
		e.pendingNextEdgePtr = prevPtr2
		return true
	}

	if v1 == e.anchor {
		e.forward = true
		e.to = v2
		e.setNextFromPtr(prevPtr1)
	} else {
		e.forward = false
		e.to = v1
		e.setNextFromPtr(prevPtr2)
	}
	return true
}

// Reset repositions the cursor back to the head of the anchor's edge list.
func (e *EdgeEnumerator) Reset() bool {
	return e.MoveTo(e.anchor)
}

// From returns the vertex the cursor is anchored at.
func (e *EdgeEnumerator) From() VertexId { return e.anchor }

// To returns the current edge's other endpoint.
func (e *EdgeEnumerator) To() VertexId { return e.to }

// Forward reports whether the anchor is the edge's stored first endpoint.
func (e *EdgeEnumerator) Forward() bool { return e.forward }

// EdgeId returns the id of the edge the cursor currently sits on.
func (e *EdgeEnumerator) EdgeId() EdgeId { return EdgeId(e.rawPtr / e.g.edges.edgeSize) }

// CopyData copies the current edge's inline payload into dst, returning
// the number of bytes copied.
func (e *EdgeEnumerator) CopyData(dst []byte) int {
	return e.g.edges.copyData(e.EdgeId(), dst)
}

// GetShape returns the current edge's shape, reversed if the cursor is
// walking the edge backward relative to how it was added.
func (e *EdgeEnumerator) GetShape() (orb.LineString, bool) {
	if e.forward {
		return e.g.shapes.Get(uint32(e.EdgeId()))
	}
	return e.g.shapes.Reversed(uint32(e.EdgeId()))
}
