package tilegraph

import (
	"errors"
	"testing"

	"github.com/paulmach/orb"

	"github.com/azybler/tilegraph/pkg/tilegraph/tileproj"
)

func TestAddEdgeReturnsSequentialIds(t *testing.T) {
	g := New(DefaultOptions())
	a := g.AddVertex(4.8, 51.26)
	b := g.AddVertex(4.81, 51.27)
	c := g.AddVertex(4.82, 51.28)

	e0, err := g.AddEdge(a, b, nil, nil)
	if err != nil || e0 != 0 {
		t.Fatalf("AddEdge(a,b) = %d, %v, want 0, nil", e0, err)
	}
	e1, err := g.AddEdge(a, c, nil, nil)
	if err != nil || e1 != 1 {
		t.Fatalf("AddEdge(a,c) = %d, %v, want 1, nil", e1, err)
	}
}

func TestScenarioSimpleEdgeEnumeration(t *testing.T) {
	g := New(DefaultOptions())
	a := g.AddVertex(4.8, 51.26)
	b := g.AddVertex(4.81, 51.27)
	if _, err := g.AddEdge(a, b, nil, nil); err != nil {
		t.Fatalf("AddEdge: %v", err)
	}

	en := g.NewEnumerator()
	if !en.MoveTo(a) {
		t.Fatalf("MoveTo(a) failed")
	}
	if !en.MoveNext() {
		t.Fatalf("expected one edge from a")
	}
	if en.To() != b || !en.Forward() || en.EdgeId() != 0 {
		t.Errorf("from a: got to=%v forward=%v id=%v, want b,true,0", en.To(), en.Forward(), en.EdgeId())
	}
	if en.MoveNext() {
		t.Errorf("expected exactly one edge from a")
	}

	if !en.MoveTo(b) {
		t.Fatalf("MoveTo(b) failed")
	}
	if !en.MoveNext() {
		t.Fatalf("expected one edge from b")
	}
	if en.To() != a || en.Forward() || en.EdgeId() != 0 {
		t.Errorf("from b: got to=%v forward=%v id=%v, want a,false,0", en.To(), en.Forward(), en.EdgeId())
	}
	if en.MoveNext() {
		t.Errorf("expected exactly one edge from b")
	}
}

func TestScenarioSharedNeighborEnumeration(t *testing.T) {
	g := New(DefaultOptions())
	a := g.AddVertex(4.8, 51.26)
	b := g.AddVertex(4.81, 51.27)
	c := g.AddVertex(4.82, 51.28)
	if _, err := g.AddEdge(a, c, nil, nil); err != nil {
		t.Fatalf("AddEdge(a,c): %v", err)
	}
	if _, err := g.AddEdge(b, c, nil, nil); err != nil {
		t.Fatalf("AddEdge(b,c): %v", err)
	}

	en := g.NewEnumerator()
	en.MoveTo(c)
	seen := map[VertexId]bool{}
	for en.MoveNext() {
		seen[en.To()] = true
	}
	if len(seen) != 2 || !seen[a] || !seen[b] {
		t.Errorf("enumeration from c = %v, want {a, b}", seen)
	}
}

func TestScenarioTileGrowthPreservesExistingVertices(t *testing.T) {
	g := New(DefaultOptions())
	var ids []VertexId
	wantCaps := map[int]uint32{2: 2, 3: 4, 5: 8}

	for i := 0; i < 5; i++ {
		id := g.AddVertex(4.8, 51.26)
		ids = append(ids, id)

		for _, prior := range ids {
			if _, ok := g.TryGetVertex(prior); !ok {
				t.Fatalf("after add %d: TryGetVertex(%+v) failed", i+1, prior)
			}
		}

		if wantCap, ok := wantCaps[i+1]; ok {
			_, capacity, found := g.tiles.find(id.TileID)
			if !found || capacity != wantCap {
				t.Errorf("after add %d: capacity = %d, want %d", i+1, capacity, wantCap)
			}
		}
	}
}

func TestScenarioSelfLoopEnumeratedTwice(t *testing.T) {
	g := New(DefaultOptions())
	a := g.AddVertex(4.8, 51.26)
	b := g.AddVertex(4.81, 51.27)
	if _, err := g.AddEdge(a, b, nil, nil); err != nil {
		t.Fatalf("AddEdge(a,b): %v", err)
	}
	loop, err := g.AddEdge(a, a, nil, nil)
	if err != nil {
		t.Fatalf("AddEdge(a,a): %v", err)
	}

	en := g.NewEnumerator()
	en.MoveTo(a)

	var directions []bool
	for en.MoveNext() {
		if en.EdgeId() == loop {
			if en.To() != a {
				t.Errorf("self-loop To() = %v, want a", en.To())
			}
			directions = append(directions, en.Forward())
		}
	}
	if len(directions) != 2 || directions[0] == directions[1] {
		t.Errorf("self-loop directions = %v, want one true and one false", directions)
	}
}

func TestScenarioAddEdgeUnresolvedEndpoint(t *testing.T) {
	g := New(DefaultOptions())
	a := g.AddVertex(4.8, 51.26)
	bogus := VertexId{TileID: a.TileID, LocalID: 9999}

	if _, err := g.AddEdge(a, bogus, nil, nil); !errors.Is(err, ErrVertexDoesNotExist) {
		t.Errorf("AddEdge with bogus endpoint: err = %v, want ErrVertexDoesNotExist", err)
	}
}

func TestTryGetVertexWithinOneQuantizationStep(t *testing.T) {
	g := New(DefaultOptions())
	lon, lat := 4.8123, 51.2634
	id := g.AddVertex(lon, lat)

	pt, ok := g.TryGetVertex(id)
	if !ok {
		t.Fatalf("TryGetVertex failed")
	}

	tile := tileproj.WorldToTile(lon, lat, g.Zoom())
	b := tile.Bound()
	lonStep := (b.Max[0] - b.Min[0]) / Resolution
	latStep := (b.Max[1] - b.Min[1]) / Resolution

	if d := pt[0] - lon; d < -lonStep || d > lonStep {
		t.Errorf("longitude drift %g exceeds one quantisation step %g", d, lonStep)
	}
	if d := pt[1] - lat; d < -latStep || d > latStep {
		t.Errorf("latitude drift %g exceeds one quantisation step %g", d, latStep)
	}
}

func TestGetVertexWrapsErrVertexDoesNotExist(t *testing.T) {
	g := New(DefaultOptions())
	_, err := g.GetVertex(VertexId{TileID: 0, LocalID: 0})
	if !errors.Is(err, ErrVertexDoesNotExist) {
		t.Errorf("GetVertex on empty graph: err = %v, want ErrVertexDoesNotExist", err)
	}
}

func TestAddEdgePayloadPaddedAndTruncated(t *testing.T) {
	g := New(Options{Zoom: 14, EdgeDataSize: 4})
	a := g.AddVertex(4.8, 51.26)
	b := g.AddVertex(4.81, 51.27)

	short, err := g.AddEdge(a, b, []byte{0x01, 0x02}, nil)
	if err != nil {
		t.Fatalf("AddEdge: %v", err)
	}
	dst := make([]byte, 4)
	g.edges.copyData(short, dst)
	if want := []byte{0x01, 0x02, 0xFF, 0xFF}; string(dst) != string(want) {
		t.Errorf("payload = %v, want %v", dst, want)
	}

	long, err := g.AddEdge(a, b, []byte{1, 2, 3, 4, 5}, nil)
	if err != nil {
		t.Fatalf("AddEdge: %v", err)
	}
	g.edges.copyData(long, dst)
	if want := []byte{1, 2, 3, 4}; string(dst) != string(want) {
		t.Errorf("truncated payload = %v, want %v", dst, want)
	}
}

func TestVerticesSkipsTombstonedRanges(t *testing.T) {
	g := New(DefaultOptions())
	var ids []VertexId
	for i := 0; i < 5; i++ {
		ids = append(ids, g.AddVertex(4.8, 51.26))
	}

	seen := map[VertexId]bool{}
	g.Vertices(func(id VertexId, _ orb.Point) bool {
		seen[id] = true
		return true
	})
	for _, id := range ids {
		if !seen[id] {
			t.Errorf("Vertices() missed %+v", id)
		}
	}
	if len(seen) != len(ids) {
		t.Errorf("Vertices() yielded %d vertices, want %d", len(seen), len(ids))
	}
}
