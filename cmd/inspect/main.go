package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/paulmach/orb"

	"github.com/azybler/tilegraph/pkg/tilegraph"
	"github.com/azybler/tilegraph/pkg/tilegraph/osmload"
)

func main() {
	input := flag.String("input", "", "Path to a tile graph file written by preprocess")
	vertexTile := flag.Uint("tile", 0, "Tile id of the vertex to walk")
	vertexLocal := flag.Uint("local", 0, "Local id within -tile of the vertex to walk")
	flag.Parse()

	if *input == "" {
		fmt.Fprintln(os.Stderr, "Usage: inspect --input <tilegraph.bin> [--tile id --local id]")
		os.Exit(1)
	}

	g, err := tilegraph.LoadFile(*input)
	if err != nil {
		log.Fatalf("Failed to load tile graph: %v", err)
	}

	numVertices := 0
	g.Vertices(func(tilegraph.VertexId, orb.Point) bool {
		numVertices++
		return true
	})
	log.Printf("Loaded tile graph: %d live vertices", numVertices)

	v := tilegraph.VertexId{TileID: uint32(*vertexTile), LocalID: uint32(*vertexLocal)}
	pt, ok := g.TryGetVertex(v)
	if !ok {
		log.Fatalf("Vertex %+v does not exist", v)
	}
	log.Printf("Vertex %+v at (lon=%.6f, lat=%.6f)", v, pt[0], pt[1])

	payload := make([]byte, g.EdgeDataSize())
	enum := g.NewEnumerator()
	if !enum.MoveTo(v) {
		log.Fatalf("Vertex %+v has no enumerator position", v)
	}
	count := 0
	for enum.MoveNext() {
		enum.CopyData(payload)
		dist := osmload.Weight(payload)
		log.Printf("  edge %d -> %+v (forward=%v, distance=%dmm)", enum.EdgeId(), enum.To(), enum.Forward(), dist)
		count++
	}
	log.Printf("Vertex %+v has %d incident edge(s)", v, count)
}
