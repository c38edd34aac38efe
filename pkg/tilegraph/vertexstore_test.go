package tilegraph

import "testing"

func TestVertexStoreCoordRoundTrip(t *testing.T) {
	vs := newVertexStore()
	vs.ensureCapacity(4)
	vs.setCoord(2, 100, 4000)

	ix, iy, ok := vs.getCoord(2)
	if !ok || ix != 100 || iy != 4000 {
		t.Errorf("getCoord(2) = (%d,%d,%v), want (100,4000,true)", ix, iy, ok)
	}
	if _, _, ok := vs.getCoord(0); ok {
		t.Errorf("getCoord(0) on untouched slot: ok = true, want false")
	}
}

func TestScanEmptySlotDescPicksSmallestIndexInTrailingRun(t *testing.T) {
	vs := newVertexStore()
	vs.ensureCapacity(8)
	base, capacity := uint32(0), uint32(8)

	// Occupy everything, then free a run at the top.
	for i := base; i < base+capacity; i++ {
		vs.edgePtrs[i] = NoEdges
	}
	vs.edgePtrs[base+7] = NoVertex
	vs.edgePtrs[base+6] = NoVertex
	vs.edgePtrs[base+5] = NoVertex

	slot, ok := vs.scanEmptySlotDesc(base, capacity)
	if !ok || slot != base+5 {
		t.Fatalf("scanEmptySlotDesc = (%d,%v), want (%d,true)", slot, ok, base+5)
	}
}

func TestScanEmptySlotDescRequiresTopSlotFree(t *testing.T) {
	vs := newVertexStore()
	vs.ensureCapacity(4)
	base, capacity := uint32(0), uint32(4)

	for i := base; i < base+capacity; i++ {
		vs.edgePtrs[i] = NoEdges
	}
	// Free slots below the top, but the top slot is occupied: the caller
	// must grow rather than reuse this run, per the documented asymmetry
	// between the grow and non-grow placement paths.
	vs.edgePtrs[base+1] = NoVertex
	vs.edgePtrs[base+2] = NoVertex

	if _, ok := vs.scanEmptySlotDesc(base, capacity); ok {
		t.Errorf("scanEmptySlotDesc with occupied top slot: ok = true, want false")
	}
}

func TestScanEmptySlotDescAllFree(t *testing.T) {
	vs := newVertexStore()
	vs.ensureCapacity(4)
	base, capacity := uint32(0), uint32(4)

	slot, ok := vs.scanEmptySlotDesc(base, capacity)
	if !ok || slot != base {
		t.Errorf("scanEmptySlotDesc on all-free range = (%d,%v), want (%d,true)", slot, ok, base)
	}
}

func TestVertexStoreCopySlot(t *testing.T) {
	vs := newVertexStore()
	vs.ensureCapacity(4)
	vs.setCoord(0, 10, 20)
	vs.edgePtrs[0] = 7

	vs.copySlot(2, 0)
	ix, iy, ok := vs.getCoord(2)
	if !ok || ix != 10 || iy != 20 {
		t.Errorf("copySlot coord = (%d,%d,%v), want (10,20,true)", ix, iy, ok)
	}
	if vs.edgePtrs[2] != 7 {
		t.Errorf("copySlot edgePtrs[2] = %d, want 7", vs.edgePtrs[2])
	}
}
