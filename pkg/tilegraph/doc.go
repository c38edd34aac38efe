// Package tilegraph is the storage core of the routing graph: a
// tile-indexed, arena-backed graph of georeferenced vertices and their
// connecting edges. It supports appending vertices and edges and streaming
// traversal of a vertex's incident edges via an enumerator.
//
// The graph has a single owner and must not be mutated concurrently with
// itself or with any live EdgeEnumerator: a mutation may reallocate any of
// the graph's backing arrays, which invalidates raw offsets an enumerator
// is holding. There is no vertex or edge deletion, no compaction, and no
// wire compatibility with any external graph format.
package tilegraph
