package tilegraph

import (
	"errors"
	"testing"
)

func TestEdgeArenaWriteReadRoundTrip(t *testing.T) {
	ea := newEdgeArena(4)
	ea.ensureCapacity(1)

	v1 := VertexId{TileID: 1, LocalID: 2}
	v2 := VertexId{TileID: 3, LocalID: 4}
	ea.writeEdge(0, v1, v2, 5, 6, []byte{1, 2, 3, 4})

	gotV1, gotV2, prev1, prev2 := ea.readEdge(0)
	if gotV1 != v1 || gotV2 != v2 || prev1 != 5 || prev2 != 6 {
		t.Errorf("readEdge = (%+v,%+v,%d,%d), want (%+v,%+v,5,6)", gotV1, gotV2, prev1, prev2, v1, v2)
	}

	dst := make([]byte, 4)
	if n := ea.copyData(0, dst); n != 4 {
		t.Errorf("copyData returned %d, want 4", n)
	}
	if string(dst) != string([]byte{1, 2, 3, 4}) {
		t.Errorf("payload = %v, want [1 2 3 4]", dst)
	}
}

func TestEdgeArenaPayloadPaddedWithFF(t *testing.T) {
	ea := newEdgeArena(4)
	ea.ensureCapacity(1)
	ea.writeEdge(0, VertexId{}, VertexId{}, 0, 0, []byte{9})

	dst := make([]byte, 4)
	ea.copyData(0, dst)
	if want := []byte{9, 0xFF, 0xFF, 0xFF}; string(dst) != string(want) {
		t.Errorf("payload = %v, want %v", dst, want)
	}
}

func TestEdgeArenaGrows(t *testing.T) {
	ea := newEdgeArena(0)
	ea.ensureCapacity(1)
	first := len(ea.data)

	ea.ensureCapacity(edgeArenaGrowRecords + 1)
	if len(ea.data) <= first {
		t.Errorf("ensureCapacity did not grow: len = %d, was %d", len(ea.data), first)
	}
}

func TestEdgeArenaEnsureCapacityRejectsOverflow(t *testing.T) {
	ea := newEdgeArena(0)
	if err := ea.ensureCapacity(maxEdgePointerHigh + 1); !errors.Is(err, ErrCapacityExceeded) {
		t.Errorf("ensureCapacity(%d) = %v, want ErrCapacityExceeded", maxEdgePointerHigh+1, err)
	}
}
