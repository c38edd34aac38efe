package tilegraph

import (
	"encoding/binary"
	"fmt"
	"hash/crc32"
	"io"
	"os"
	"unsafe"

	"github.com/paulmach/orb"

	"github.com/azybler/tilegraph/pkg/tilegraph/shapestore"
)

// wireVersion identifies the on-disk layout WriteTo produces. ReadFrom
// rejects anything else with ErrFormatError.
const wireVersion = uint8(1)

const magicString = "Graph"

// noShapePoints marks an absent shape in the serialized shapes section,
// distinguishing it from a present-but-empty polyline.
const noShapePoints = ^uint32(0)

// WriteTo serializes g in a length-prefixed little-endian binary layout
// terminated by an IEEE CRC32 of everything preceding it, and returns the
// number of bytes written.
func (g *Graph) WriteTo(w io.Writer) (int64, error) {
	cw := &crc32Writer{w: w, hash: crc32.NewIEEE()}

	if err := writeLenPrefixedString(cw, magicString); err != nil {
		return cw.n, fmt.Errorf("tilegraph: write magic: %w", err)
	}
	if err := writeUint8s(cw, wireVersion, g.opts.Zoom, g.opts.EdgeDataSize, tileRecordSize); err != nil {
		return cw.n, fmt.Errorf("tilegraph: write header: %w", err)
	}

	if err := writeLenPrefixedBytes(cw, g.tiles.data); err != nil {
		return cw.n, fmt.Errorf("tilegraph: write tile index: %w", err)
	}

	if err := writeUint8s(cw, coordSize); err != nil {
		return cw.n, fmt.Errorf("tilegraph: write coordinate size: %w", err)
	}
	if err := binary.Write(cw, binary.LittleEndian, uint64(g.tiles.vertexPointerHigh)); err != nil {
		return cw.n, fmt.Errorf("tilegraph: write vertexPointerHigh: %w", err)
	}
	if err := writeLenPrefixedBytes(cw, g.verts.coords); err != nil {
		return cw.n, fmt.Errorf("tilegraph: write vertex coords: %w", err)
	}
	if err := writeLenPrefixedUint32Slice(cw, g.verts.edgePtrs); err != nil {
		return cw.n, fmt.Errorf("tilegraph: write vertex edge pointers: %w", err)
	}

	if err := binary.Write(cw, binary.LittleEndian, uint64(g.edges.edgePointerHigh)); err != nil {
		return cw.n, fmt.Errorf("tilegraph: write edgePointerHigh: %w", err)
	}
	if err := writeLenPrefixedBytes(cw, g.edges.data); err != nil {
		return cw.n, fmt.Errorf("tilegraph: write edge arena: %w", err)
	}

	if err := writeShapes(cw, g.shapes.Raw()); err != nil {
		return cw.n, fmt.Errorf("tilegraph: write shapes: %w", err)
	}

	checksum := cw.hash.Sum32()
	if err := binary.Write(w, binary.LittleEndian, checksum); err != nil {
		return cw.n, fmt.Errorf("tilegraph: write checksum: %w", err)
	}
	return cw.n + 4, nil
}

// ReadFrom decodes a Graph previously produced by (*Graph).WriteTo. A
// malformed magic string, unsupported version, mismatched field-size
// sentinel, structurally inconsistent lengths, or checksum mismatch is
// reported as ErrFormatError.
func ReadFrom(r io.Reader) (*Graph, error) {
	cr := &crc32Reader{r: r, hash: crc32.NewIEEE()}

	magic, err := readLenPrefixedString(cr)
	if err != nil {
		return nil, fmt.Errorf("tilegraph: read magic: %w", err)
	}
	if magic != magicString {
		return nil, fmt.Errorf("tilegraph: magic %q: %w", magic, ErrFormatError)
	}

	var version, zoom, edgeDataSize, tileSize uint8
	if err := readUint8s(cr, &version, &zoom, &edgeDataSize, &tileSize); err != nil {
		return nil, fmt.Errorf("tilegraph: read header: %w", err)
	}
	if version != wireVersion {
		return nil, fmt.Errorf("tilegraph: version %d: %w", version, ErrFormatError)
	}
	if tileSize != tileRecordSize {
		return nil, fmt.Errorf("tilegraph: tile record size %d: %w", tileSize, ErrFormatError)
	}

	tileData, err := readLenPrefixedBytes(cr)
	if err != nil {
		return nil, fmt.Errorf("tilegraph: read tile index: %w", err)
	}

	var coordSizeField uint8
	if err := readUint8s(cr, &coordSizeField); err != nil {
		return nil, fmt.Errorf("tilegraph: read coordinate size: %w", err)
	}
	if coordSizeField != coordSize {
		return nil, fmt.Errorf("tilegraph: coordinate size %d: %w", coordSizeField, ErrFormatError)
	}
	var vertexPointerHigh uint64
	if err := binary.Read(cr, binary.LittleEndian, &vertexPointerHigh); err != nil {
		return nil, fmt.Errorf("tilegraph: read vertexPointerHigh: %w", err)
	}
	coords, err := readLenPrefixedBytes(cr)
	if err != nil {
		return nil, fmt.Errorf("tilegraph: read vertex coords: %w", err)
	}
	edgePtrs, err := readLenPrefixedUint32Slice(cr)
	if err != nil {
		return nil, fmt.Errorf("tilegraph: read vertex edge pointers: %w", err)
	}
	if uint32(len(coords)) != uint32(len(edgePtrs))*coordSize {
		return nil, fmt.Errorf("tilegraph: vertex array length mismatch: %w", ErrFormatError)
	}

	var edgePointerHigh uint64
	if err := binary.Read(cr, binary.LittleEndian, &edgePointerHigh); err != nil {
		return nil, fmt.Errorf("tilegraph: read edgePointerHigh: %w", err)
	}
	edgeData, err := readLenPrefixedBytes(cr)
	if err != nil {
		return nil, fmt.Errorf("tilegraph: read edge arena: %w", err)
	}
	edgeSize := uint32(edgeHeaderSize) + uint32(edgeDataSize)
	if uint64(len(edgeData)) < edgePointerHigh*uint64(edgeSize) {
		return nil, fmt.Errorf("tilegraph: edge arena shorter than edgePointerHigh: %w", ErrFormatError)
	}

	shapes, err := readShapes(cr)
	if err != nil {
		return nil, fmt.Errorf("tilegraph: read shapes: %w", err)
	}

	expected := cr.hash.Sum32()
	var stored uint32
	if err := binary.Read(r, binary.LittleEndian, &stored); err != nil {
		return nil, fmt.Errorf("tilegraph: read checksum: %w", err)
	}
	if stored != expected {
		return nil, fmt.Errorf("tilegraph: checksum mismatch stored=%08x computed=%08x: %w", stored, expected, ErrFormatError)
	}

	g := &Graph{
		opts: Options{Zoom: zoom, EdgeDataSize: edgeDataSize},
		tiles: &tileIndex{
			data:              tileData,
			vertexPointerHigh: uint32(vertexPointerHigh),
		},
		verts: &vertexStore{
			coords:   coords,
			edgePtrs: edgePtrs,
		},
		edges: &edgeArena{
			edgeSize:        edgeSize,
			edgeDataSize:    edgeDataSize,
			data:            edgeData,
			edgePointerHigh: uint32(edgePointerHigh),
		},
		shapes: shapestore.FromRaw(shapes),
	}
	g.RebuildVertexIndex()
	return g, nil
}

// SaveFile writes g to path via a temp file and atomic rename, so a reader
// never observes a partially written graph.
func (g *Graph) SaveFile(path string) error {
	tmp := path + ".tmp"
	f, err := os.Create(tmp)
	if err != nil {
		return fmt.Errorf("tilegraph: create temp file: %w", err)
	}
	defer func() {
		f.Close()
		os.Remove(tmp)
	}()

	if _, err := g.WriteTo(f); err != nil {
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("tilegraph: close temp file: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("tilegraph: rename: %w", err)
	}
	return nil
}

// LoadFile reads a Graph previously written by SaveFile or WriteTo.
func LoadFile(path string) (*Graph, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("tilegraph: open: %w", err)
	}
	defer f.Close()
	return ReadFrom(f)
}

// crc32Writer and crc32Reader feed every byte that passes through them into
// a running IEEE CRC32, so the checksum trailer can be computed and
// verified without a second pass over the data.

type crc32Writer struct {
	w    io.Writer
	hash hashSum32
	n    int64
}

type hashSum32 interface {
	io.Writer
	Sum32() uint32
}

func (cw *crc32Writer) Write(p []byte) (int, error) {
	cw.hash.Write(p)
	n, err := cw.w.Write(p)
	cw.n += int64(n)
	return n, err
}

type crc32Reader struct {
	r    io.Reader
	hash hashSum32
}

func (cr *crc32Reader) Read(p []byte) (int, error) {
	n, err := cr.r.Read(p)
	if n > 0 {
		cr.hash.Write(p[:n])
	}
	return n, err
}

func writeUint8s(w io.Writer, vs ...uint8) error {
	_, err := w.Write(vs)
	return err
}

func readUint8s(r io.Reader, dst ...*uint8) error {
	buf := make([]byte, len(dst))
	if _, err := io.ReadFull(r, buf); err != nil {
		return err
	}
	for i, d := range dst {
		*d = buf[i]
	}
	return nil
}

func writeLenPrefixedString(w io.Writer, s string) error {
	if err := binary.Write(w, binary.LittleEndian, uint32(len(s))); err != nil {
		return err
	}
	_, err := io.WriteString(w, s)
	return err
}

func readLenPrefixedString(r io.Reader) (string, error) {
	b, err := readLenPrefixedBytes(r)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func writeLenPrefixedBytes(w io.Writer, b []byte) error {
	if err := binary.Write(w, binary.LittleEndian, uint32(len(b))); err != nil {
		return err
	}
	_, err := w.Write(b)
	return err
}

const maxWireLen = 1 << 32 / 8

func readLenPrefixedBytes(r io.Reader) ([]byte, error) {
	var n uint32
	if err := binary.Read(r, binary.LittleEndian, &n); err != nil {
		return nil, err
	}
	if uint64(n) > maxWireLen {
		return nil, fmt.Errorf("tilegraph: length %d: %w", n, ErrFormatError)
	}
	b := make([]byte, n)
	if _, err := io.ReadFull(r, b); err != nil {
		return nil, err
	}
	return b, nil
}

// writeLenPrefixedUint32Slice writes a uint32 count followed by the slice's
// raw bytes via unsafe.Slice, avoiding an element-by-element copy. This
// reinterprets the slice's native memory layout directly, so despite the
// documented little-endian wire format it only round-trips correctly on a
// little-endian host; ReadFrom's matching unsafe.Slice carries the same
// assumption.
func writeLenPrefixedUint32Slice(w io.Writer, s []uint32) error {
	if err := binary.Write(w, binary.LittleEndian, uint32(len(s))); err != nil {
		return err
	}
	if len(s) == 0 {
		return nil
	}
	b := unsafe.Slice((*byte)(unsafe.Pointer(&s[0])), len(s)*4)
	_, err := w.Write(b)
	return err
}

func readLenPrefixedUint32Slice(r io.Reader) ([]uint32, error) {
	var n uint32
	if err := binary.Read(r, binary.LittleEndian, &n); err != nil {
		return nil, err
	}
	if uint64(n) > maxWireLen {
		return nil, fmt.Errorf("tilegraph: length %d: %w", n, ErrFormatError)
	}
	if n == 0 {
		return nil, nil
	}
	s := make([]uint32, n)
	b := unsafe.Slice((*byte)(unsafe.Pointer(&s[0])), int(n)*4)
	if _, err := io.ReadFull(r, b); err != nil {
		return nil, err
	}
	return s, nil
}

// writeShapes and readShapes encode the dense, possibly-sparse shape
// sequence: one length-prefixed run of point pairs per edge id, with
// noShapePoints marking an edge that has no shape at all.
func writeShapes(w io.Writer, shapes []orb.LineString) error {
	if err := binary.Write(w, binary.LittleEndian, uint32(len(shapes))); err != nil {
		return err
	}
	for _, ls := range shapes {
		if ls == nil {
			if err := binary.Write(w, binary.LittleEndian, noShapePoints); err != nil {
				return err
			}
			continue
		}
		if err := binary.Write(w, binary.LittleEndian, uint32(len(ls))); err != nil {
			return err
		}
		for _, pt := range ls {
			if err := binary.Write(w, binary.LittleEndian, pt[0]); err != nil {
				return err
			}
			if err := binary.Write(w, binary.LittleEndian, pt[1]); err != nil {
				return err
			}
		}
	}
	return nil
}

func readShapes(r io.Reader) ([]orb.LineString, error) {
	var count uint32
	if err := binary.Read(r, binary.LittleEndian, &count); err != nil {
		return nil, err
	}
	if uint64(count) > maxWireLen {
		return nil, fmt.Errorf("tilegraph: shape count %d: %w", count, ErrFormatError)
	}
	shapes := make([]orb.LineString, count)
	for i := range shapes {
		var numPoints uint32
		if err := binary.Read(r, binary.LittleEndian, &numPoints); err != nil {
			return nil, err
		}
		if numPoints == noShapePoints {
			continue
		}
		if uint64(numPoints) > maxWireLen/16 {
			return nil, fmt.Errorf("tilegraph: shape point count %d: %w", numPoints, ErrFormatError)
		}
		ls := make(orb.LineString, numPoints)
		for j := range ls {
			var lon, lat float64
			if err := binary.Read(r, binary.LittleEndian, &lon); err != nil {
				return nil, err
			}
			if err := binary.Read(r, binary.LittleEndian, &lat); err != nil {
				return nil, err
			}
			ls[j] = orb.Point{lon, lat}
		}
		shapes[i] = ls
	}
	return shapes, nil
}
