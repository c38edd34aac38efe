package tilegraph

import (
	"encoding/binary"
	"fmt"
)

// maxVertexPointerHigh is the largest vertex slot count the 32-bit pointer
// fields in VertexStore and EdgeArena can address: everything up to but
// excluding the NoEdges sentinel.
const maxVertexPointerHigh = NoEdges

// maxCapacityBitsExp is the widest capacity exponent a tile record's
// capacity (1 << exp, a uint32) can hold without overflowing.
const maxCapacityBitsExp = 31

// tileRecordSize is the width in bytes of one tile's {basePtr, capacityExp}
// record in the tile index.
const tileRecordSize = 5

// tileIndexGrowStep is the byte increment the tile index's backing store
// grows by.
const tileIndexGrowStep = 1024

// tileIndex is a byte array mapping tile-id to (vertex-slot base pointer,
// capacity exponent). An absent tile is five consecutive 0xFF bytes. The
// array is stored densely: it grows to cover every record up to the
// highest tile id in use, so its size follows that id, not the number of
// tiles holding vertices.
type tileIndex struct {
	data              []byte
	vertexPointerHigh uint32
}

func newTileIndex() *tileIndex {
	return &tileIndex{}
}

func isAllFF(b []byte) bool {
	for _, v := range b {
		if v != 0xFF {
			return false
		}
	}
	return true
}

func (ti *tileIndex) record(tileID uint32) []byte {
	off := int(tileID) * tileRecordSize
	return ti.data[off : off+tileRecordSize]
}

// find returns the base pointer and capacity of tileID, or ok=false if the
// tile has no record yet.
func (ti *tileIndex) find(tileID uint32) (base uint32, capacity uint32, ok bool) {
	off := int(tileID) * tileRecordSize
	if off+tileRecordSize > len(ti.data) {
		return 0, 0, false
	}
	rec := ti.data[off : off+tileRecordSize]
	if isAllFF(rec) {
		return 0, 0, false
	}
	base = binary.LittleEndian.Uint32(rec[0:4])
	capExp := rec[4]
	return base, uint32(1) << capExp, true
}

// ensureCapacity grows the backing store in tileIndexGrowStep increments so
// that tileID's record is addressable, filling new bytes with 0xFF.
func (ti *tileIndex) ensureCapacity(tileID uint32) {
	needed := (int(tileID) + 1) * tileRecordSize
	if needed <= len(ti.data) {
		return
	}
	newLen := len(ti.data)
	if newLen == 0 {
		newLen = tileIndexGrowStep
	}
	for newLen < needed {
		newLen += tileIndexGrowStep
	}
	grown := make([]byte, newLen)
	copy(grown, ti.data)
	for i := len(ti.data); i < newLen; i++ {
		grown[i] = 0xFF
	}
	ti.data = grown
}

func (ti *tileIndex) writeRecord(tileID uint32, base uint32, capExp uint8) {
	ti.ensureCapacity(tileID)
	rec := ti.record(tileID)
	binary.LittleEndian.PutUint32(rec[0:4], base)
	rec[4] = capExp
}

// add allocates a fresh single-slot range for tileID, which must not
// already have a record. Panics with ErrCapacityExceeded if the vertex
// address space is already exhausted; per §7 this is a fatal allocation
// failure, not something AddVertex's caller can retry around.
func (ti *tileIndex) add(tileID uint32) (base uint32, capacity uint32) {
	if ti.vertexPointerHigh >= maxVertexPointerHigh {
		panic(fmt.Errorf("tilegraph: vertexPointerHigh %d: %w", ti.vertexPointerHigh, ErrCapacityExceeded))
	}
	base = ti.vertexPointerHigh
	ti.vertexPointerHigh++
	ti.writeRecord(tileID, base, 0)
	return base, 1
}

// grow doubles tileID's capacity, allocating a fresh range at the current
// high-water mark and abandoning the old range as a tombstone. The caller
// is responsible for copying the old range's contents into the new one.
// Panics with ErrCapacityExceeded if the doubled capacity exponent would no
// longer fit the uint32 capacity field, or if the new range would exhaust
// the vertex address space.
func (ti *tileIndex) grow(tileID uint32, oldCapacity uint32) (newBase uint32, newCapacity uint32) {
	capExp := ti.record(tileID)[4] + 1
	if capExp > maxCapacityBitsExp {
		panic(fmt.Errorf("tilegraph: tile %d capacity exponent %d: %w", tileID, capExp, ErrCapacityExceeded))
	}
	if uint64(ti.vertexPointerHigh)+uint64(2)*uint64(oldCapacity) > uint64(maxVertexPointerHigh) {
		panic(fmt.Errorf("tilegraph: vertexPointerHigh %d: %w", ti.vertexPointerHigh, ErrCapacityExceeded))
	}
	newBase = ti.vertexPointerHigh
	ti.vertexPointerHigh += 2 * oldCapacity
	ti.writeRecord(tileID, newBase, capExp)
	return newBase, uint32(1) << capExp
}
