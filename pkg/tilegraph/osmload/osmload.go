// Package osmload builds a tile graph from parsed OSM road network data.
// It is the only place in the ingestion pipeline that touches the tile
// graph's mutation surface directly: everything downstream consumes the
// resulting *tilegraph.Graph through AddVertex/AddEdge/TryGetVertex/the
// enumerator, or the serializer.
package osmload

import (
	"encoding/binary"

	"github.com/paulmach/orb"
	pbosm "github.com/paulmach/osm"

	"github.com/azybler/tilegraph/pkg/geo"
	osmparser "github.com/azybler/tilegraph/pkg/osm"
	"github.com/azybler/tilegraph/pkg/tilegraph"
	"github.com/azybler/tilegraph/pkg/tilegraph/shapesimplify"
)

// EdgeDataSize is the number of inline payload bytes osmload writes per
// edge: a little-endian uint32 distance in millimeters.
const EdgeDataSize = 4

// simplifyEpsilonStepMultiplier scales the shape simplification epsilon
// relative to the zoom's own coordinate quantization step, so a point the
// vertex store would already round away on storage never survives
// simplification as a spurious extra shape vertex, while the epsilon still
// shrinks at finer zooms the way the underlying quantization does.
const simplifyEpsilonStepMultiplier = 1.5

// Build constructs a tile graph at the given zoom level from a parsed OSM
// result. Each referenced OSM node becomes a vertex on first sight; each
// RawEdge becomes one directed AddEdge call carrying its distance as
// inline payload and its intermediate shape nodes, if any, as geometry.
// Edges referencing a node missing from the parse result's coordinate maps
// are skipped.
func Build(result *osmparser.ParseResult, zoom uint8) *tilegraph.Graph {
	g := tilegraph.New(tilegraph.Options{Zoom: zoom, EdgeDataSize: EdgeDataSize})
	simplifyEpsilonMeters := geo.TileQuantizationStepMeters(zoom) * simplifyEpsilonStepMultiplier

	ids := make(map[pbosm.NodeID]tilegraph.VertexId, len(result.NodeLat))
	vertexOf := func(id pbosm.NodeID) (tilegraph.VertexId, bool) {
		if v, ok := ids[id]; ok {
			return v, true
		}
		lat, latOK := result.NodeLat[id]
		lon, lonOK := result.NodeLon[id]
		if !latOK || !lonOK {
			return tilegraph.VertexId{}, false
		}
		v := g.AddVertex(lon, lat)
		ids[id] = v
		return v, true
	}

	var payload [EdgeDataSize]byte
	for _, e := range result.Edges {
		from, ok := vertexOf(e.FromNodeID)
		if !ok {
			continue
		}
		to, ok := vertexOf(e.ToNodeID)
		if !ok {
			continue
		}

		binary.LittleEndian.PutUint32(payload[:], e.Weight)
		shape := shapesimplify.Simplify(buildShape(result, e), simplifyEpsilonMeters)

		// from and to were just resolved above, so this cannot fail.
		_, _ = g.AddEdge(from, to, payload[:], shape)
	}

	return g
}

func buildShape(result *osmparser.ParseResult, e osmparser.RawEdge) orb.LineString {
	if len(e.ShapeLats) == 0 {
		return nil
	}
	shape := make(orb.LineString, 0, len(e.ShapeLats)+2)
	shape = append(shape, orb.Point{result.NodeLon[e.FromNodeID], result.NodeLat[e.FromNodeID]})
	for i := range e.ShapeLats {
		shape = append(shape, orb.Point{e.ShapeLons[i], e.ShapeLats[i]})
	}
	shape = append(shape, orb.Point{result.NodeLon[e.ToNodeID], result.NodeLat[e.ToNodeID]})
	return shape
}

// Weight decodes the little-endian uint32 distance an edge's payload was
// written with by Build.
func Weight(payload []byte) uint32 {
	return binary.LittleEndian.Uint32(payload)
}
