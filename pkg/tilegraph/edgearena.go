package tilegraph

import (
	"encoding/binary"
	"fmt"
)

// maxEdgePointerHigh is the largest edge count EdgeId and the edge arena's
// "prev" pointer encoding (edgeId+1, with 0 reserved for "none") can
// address.
const maxEdgePointerHigh = NoEdges

// edgeHeaderSize is the width in bytes of the fixed part of an edge record:
// two VertexId endpoints (4x uint32) and two prev-pointers (2x uint32).
const edgeHeaderSize = 24

// edgeArenaGrowRecords is the number of edge records the arena grows by at
// a time, matching the 1024-element growth increments used elsewhere in
// the store.
const edgeArenaGrowRecords = 1024

// edgeArena is an append-only byte arena of fixed-width edge records, each
// laid out as:
//
//	[v1.tileId(4)][v1.localId(4)][v2.tileId(4)][v2.localId(4)][prev1(4)][prev2(4)][payload(edgeDataSize)]
type edgeArena struct {
	edgeSize        uint32
	edgeDataSize    uint8
	data            []byte
	edgePointerHigh uint32
}

func newEdgeArena(edgeDataSize uint8) *edgeArena {
	return &edgeArena{
		edgeSize:     edgeHeaderSize + uint32(edgeDataSize),
		edgeDataSize: edgeDataSize,
	}
}

// ensureCapacity grows the arena in edgeArenaGrowRecords increments so that
// record n-1 is addressable. Returns ErrCapacityExceeded instead of
// growing if n would exceed the edge id space, since unlike AddVertex,
// AddEdge already has an error return for its caller to observe this on.
func (ea *edgeArena) ensureCapacity(n uint32) error {
	if n > maxEdgePointerHigh {
		return fmt.Errorf("tilegraph: edge count %d: %w", n, ErrCapacityExceeded)
	}
	needed := n * ea.edgeSize
	if uint32(len(ea.data)) >= needed {
		return nil
	}
	newRecords := uint32(len(ea.data)) / ea.edgeSize
	if newRecords == 0 {
		newRecords = edgeArenaGrowRecords
	}
	for newRecords*ea.edgeSize < needed {
		newRecords += edgeArenaGrowRecords
	}
	grown := make([]byte, newRecords*ea.edgeSize)
	copy(grown, ea.data)
	ea.data = grown
	return nil
}

func (ea *edgeArena) recordAt(id EdgeId) []byte {
	off := uint32(id) * ea.edgeSize
	return ea.data[off : off+ea.edgeSize]
}

// writeEdge appends v1, v2, the two prev-pointers (already offset by one,
// with 0 meaning "none") and the payload, padded with 0xFF, to slot id.
func (ea *edgeArena) writeEdge(id EdgeId, v1, v2 VertexId, prevPtr1, prevPtr2 uint32, payload []byte) {
	rec := ea.recordAt(id)
	binary.LittleEndian.PutUint32(rec[0:4], v1.TileID)
	binary.LittleEndian.PutUint32(rec[4:8], v1.LocalID)
	binary.LittleEndian.PutUint32(rec[8:12], v2.TileID)
	binary.LittleEndian.PutUint32(rec[12:16], v2.LocalID)
	binary.LittleEndian.PutUint32(rec[16:20], prevPtr1)
	binary.LittleEndian.PutUint32(rec[20:24], prevPtr2)

	payloadArea := rec[edgeHeaderSize:]
	for i := range payloadArea {
		payloadArea[i] = 0xFF
	}
	n := len(payload)
	if n > len(payloadArea) {
		n = len(payloadArea)
	}
	copy(payloadArea[:n], payload[:n])
}

// readEdge decodes the endpoints and prev-pointers of edge id.
func (ea *edgeArena) readEdge(id EdgeId) (v1, v2 VertexId, prevPtr1, prevPtr2 uint32) {
	rec := ea.recordAt(id)
	v1 = VertexId{
		TileID:  binary.LittleEndian.Uint32(rec[0:4]),
		LocalID: binary.LittleEndian.Uint32(rec[4:8]),
	}
	v2 = VertexId{
		TileID:  binary.LittleEndian.Uint32(rec[8:12]),
		LocalID: binary.LittleEndian.Uint32(rec[12:16]),
	}
	prevPtr1 = binary.LittleEndian.Uint32(rec[16:20])
	prevPtr2 = binary.LittleEndian.Uint32(rec[20:24])
	return v1, v2, prevPtr1, prevPtr2
}

// copyData copies edge id's payload bytes into dst, returning the number
// of bytes copied.
func (ea *edgeArena) copyData(id EdgeId, dst []byte) int {
	rec := ea.recordAt(id)
	return copy(dst, rec[edgeHeaderSize:])
}
