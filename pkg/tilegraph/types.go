package tilegraph

// Sentinel values used across the tile index, vertex store and enumerator.
const (
	// NoVertex marks an empty vertex slot in the edge-pointer array.
	NoVertex uint32 = 0xFFFFFFFF
	// NoEdges marks a vertex slot that exists but has no incident edges.
	NoEdges uint32 = 0xFFFFFFFE
	// TileNotLoaded is the sentinel for a tile id with no record yet. The
	// tile index's find reports that case as ok=false rather than
	// returning this value.
	TileNotLoaded = NoVertex
)

// Resolution is the number of quantisation steps per axis within a tile.
const Resolution = 4095

// VertexId identifies a vertex by the tile it belongs to and its slot
// offset within that tile's currently allocated range.
type VertexId struct {
	TileID  uint32
	LocalID uint32
}

// EdgeId indexes a fixed-width edge record in the edge arena.
type EdgeId uint32

// Options configures a new Graph.
type Options struct {
	// Zoom is the web-mercator zoom level used to bucket vertices into
	// tiles, in [0, 31].
	Zoom uint8
	// EdgeDataSize is the number of opaque payload bytes stored inline in
	// every edge record.
	EdgeDataSize uint8
}

// DefaultOptions returns the default construction options: zoom 14, no
// inline edge payload.
func DefaultOptions() Options {
	return Options{Zoom: 14, EdgeDataSize: 0}
}
