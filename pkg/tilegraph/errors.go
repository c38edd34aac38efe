package tilegraph

import "errors"

// ErrVertexDoesNotExist is returned by strict vertex accessors and by
// AddEdge when an endpoint's tile is absent or its local id exceeds the
// tile's allocated capacity.
var ErrVertexDoesNotExist = errors.New("tilegraph: vertex does not exist")

// ErrFormatError is returned by ReadFrom when the stream's header, version,
// field-size sentinels, or trailing checksum do not match what this
// package writes.
var ErrFormatError = errors.New("tilegraph: format error")

// ErrCapacityExceeded is returned when an index type used by the graph
// would overflow: more than 2^32-2 vertices or edges, or a tile capacity
// exponent wider than the pointer type can address.
var ErrCapacityExceeded = errors.New("tilegraph: capacity exceeded")
