package tilegraph

import (
	"fmt"

	"github.com/paulmach/orb"

	"github.com/azybler/tilegraph/pkg/tilegraph/shapestore"
	"github.com/azybler/tilegraph/pkg/tilegraph/tileproj"
	"github.com/azybler/tilegraph/pkg/tilegraph/vertexindex"
)

// Graph is the tiled, arena-backed routing graph store.
type Graph struct {
	opts   Options
	tiles  *tileIndex
	verts  *vertexStore
	edges  *edgeArena
	shapes *shapestore.Store
	vindex *vertexindex.Index
}

// New constructs an empty Graph with the given options.
func New(opts Options) *Graph {
	return &Graph{
		opts:   opts,
		tiles:  newTileIndex(),
		verts:  newVertexStore(),
		edges:  newEdgeArena(opts.EdgeDataSize),
		shapes: shapestore.New(),
		vindex: vertexindex.New(),
	}
}

// Zoom returns the graph's web-mercator zoom level.
func (g *Graph) Zoom() uint8 { return g.opts.Zoom }

// EdgeDataSize returns the number of inline payload bytes per edge.
func (g *Graph) EdgeDataSize() uint8 { return g.opts.EdgeDataSize }

// VertexIndex returns the graph's supplementary spatial cache (see package
// vertexindex). It is a convenience index, not authoritative state.
func (g *Graph) VertexIndex() *vertexindex.Index { return g.vindex }

// resolveSlotLax resolves v to an absolute vertex slot, checking only that
// its tile exists and that its local id is within the tile's allocated
// capacity. It does not check whether the slot itself was ever written;
// AddEdge uses this looser check per its own contract, which differs
// deliberately from the strict check TryGetVertex and the enumerator use.
func (g *Graph) resolveSlotLax(v VertexId) (slot uint32, ok bool) {
	base, capacity, found := g.tiles.find(v.TileID)
	if !found || v.LocalID >= capacity {
		return 0, false
	}
	return base + v.LocalID, true
}

// resolveSlotStrict additionally requires that the slot has actually been
// written by AddVertex (its packed coordinate is not the all-0xFF empty
// marker).
func (g *Graph) resolveSlotStrict(v VertexId) (slot uint32, ok bool) {
	slot, ok = g.resolveSlotLax(v)
	if !ok {
		return 0, false
	}
	if _, _, occupied := g.verts.getCoord(slot); !occupied {
		return 0, false
	}
	return slot, true
}

// AddVertex quantises (lon, lat) into its containing tile and appends it to
// that tile's vertex slot range, growing or relocating the range as
// needed, and returns the new vertex's id.
func (g *Graph) AddVertex(lon, lat float64) VertexId {
	tile := tileproj.WorldToTile(lon, lat, g.opts.Zoom)
	tileID := tile.LocalID()

	base, capacity, found := g.tiles.find(tileID)
	var slot uint32

	if !found {
		base, capacity = g.tiles.add(tileID)
		g.verts.ensureCapacity(g.tiles.vertexPointerHigh)
		slot = base
	} else {
		g.verts.ensureCapacity(base + capacity)
		var ok bool
		slot, ok = g.verts.scanEmptySlotDesc(base, capacity)
		if !ok {
			newBase, newCapacity := g.tiles.grow(tileID, capacity)
			g.verts.ensureCapacity(g.tiles.vertexPointerHigh)
			for i := uint32(0); i < capacity; i++ {
				g.verts.copySlot(newBase+i, base+i)
			}
			slot = newBase + capacity
			base, capacity = newBase, newCapacity
		}
	}

	ix, iy := tile.ToLocalCoordinates(lon, lat)
	g.verts.edgePtrs[slot] = NoEdges
	g.verts.setCoord(slot, ix, iy)

	id := VertexId{TileID: tileID, LocalID: slot - base}
	g.vindex.Insert(vertexindex.VertexID{TileID: id.TileID, LocalID: id.LocalID}, orb.Point{lon, lat})
	return id
}

// TryGetVertex returns v's geographic coordinate, or ok=false if v does not
// resolve to an existing vertex.
func (g *Graph) TryGetVertex(v VertexId) (pt orb.Point, ok bool) {
	slot, ok := g.resolveSlotStrict(v)
	if !ok {
		return orb.Point{}, false
	}
	ix, iy, _ := g.verts.getCoord(slot)
	tile := tileproj.FromLocalID(v.TileID, g.opts.Zoom)
	lon, lat := tile.FromLocalCoordinates(ix, iy)
	return orb.Point{lon, lat}, true
}

// GetVertex is the strict variant of TryGetVertex: it returns
// ErrVertexDoesNotExist instead of ok=false.
func (g *Graph) GetVertex(v VertexId) (orb.Point, error) {
	pt, ok := g.TryGetVertex(v)
	if !ok {
		return orb.Point{}, fmt.Errorf("tilegraph: vertex %+v: %w", v, ErrVertexDoesNotExist)
	}
	return pt, nil
}

// AddEdge appends a new edge between v1 and v2, splicing it into both
// endpoints' linked lists, and returns its id. payload is copied into the
// edge's inline data (padded with 0xFF if shorter than EdgeDataSize,
// truncated if longer). shape, if non-nil, is stored for the new edge id.
//
// AddEdge resolves endpoints with only the tile/capacity check of
// resolveSlotLax, not the stricter occupancy check TryGetVertex uses: it fails only
// when a tile is unallocated or a local id exceeds the tile's capacity.
func (g *Graph) AddEdge(v1, v2 VertexId, payload []byte, shape orb.LineString) (EdgeId, error) {
	slot1, ok := g.resolveSlotLax(v1)
	if !ok {
		return 0, fmt.Errorf("tilegraph: edge endpoint %+v: %w", v1, ErrVertexDoesNotExist)
	}
	slot2, ok := g.resolveSlotLax(v2)
	if !ok {
		return 0, fmt.Errorf("tilegraph: edge endpoint %+v: %w", v2, ErrVertexDoesNotExist)
	}

	prev1 := g.verts.edgePtrs[slot1]
	prev2 := g.verts.edgePtrs[slot2]

	id := EdgeId(g.edges.edgePointerHigh)
	if err := g.edges.ensureCapacity(uint32(id) + 1); err != nil {
		return 0, err
	}

	prevPtr1 := prev1 + 1
	if prev1 == NoEdges {
		prevPtr1 = 0
	}
	prevPtr2 := prev2 + 1
	if prev2 == NoEdges {
		prevPtr2 = 0
	}

	g.edges.writeEdge(id, v1, v2, prevPtr1, prevPtr2, payload)

	g.verts.edgePtrs[slot1] = uint32(id)
	g.verts.edgePtrs[slot2] = uint32(id)

	if shape != nil {
		g.shapes.Set(uint32(id), shape)
	}

	g.edges.edgePointerHigh++
	return id, nil
}

// NewEnumerator returns a fresh, unpositioned edge enumerator over g.
func (g *Graph) NewEnumerator() *EdgeEnumerator {
	return &EdgeEnumerator{g: g}
}

// Vertices calls yield once for every live vertex in the graph, in tile
// order then slot order within a tile, stopping early if yield returns
// false. Tombstoned slots left behind by tile capacity doublings are not
// visited, since only each tile's current (base, capacity) range from the
// tile index is scanned.
func (g *Graph) Vertices(yield func(id VertexId, pt orb.Point) bool) {
	for off := 0; off+tileRecordSize <= len(g.tiles.data); off += tileRecordSize {
		rec := g.tiles.data[off : off+tileRecordSize]
		if isAllFF(rec) {
			continue
		}
		tileID := uint32(off / tileRecordSize)
		base, capacity, ok := g.tiles.find(tileID)
		if !ok {
			continue
		}
		for localID := uint32(0); localID < capacity; localID++ {
			slot := base + localID
			ix, iy, occupied := g.verts.getCoord(slot)
			if !occupied {
				continue
			}
			tile := tileproj.FromLocalID(tileID, g.opts.Zoom)
			lon, lat := tile.FromLocalCoordinates(ix, iy)
			if !yield(VertexId{TileID: tileID, LocalID: localID}, orb.Point{lon, lat}) {
				return
			}
		}
	}
}

// RebuildVertexIndex discards and rebuilds the supplementary spatial cache
// from the live vertex set. ReadFrom calls this automatically since the
// index itself is never persisted.
func (g *Graph) RebuildVertexIndex() {
	g.vindex = vertexindex.Rebuild(func(yield func(id vertexindex.VertexID, pt orb.Point) bool) {
		g.Vertices(func(id VertexId, pt orb.Point) bool {
			return yield(vertexindex.VertexID{TileID: id.TileID, LocalID: id.LocalID}, pt)
		})
	})
}
