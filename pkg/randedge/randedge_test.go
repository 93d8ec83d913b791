package randedge

import (
	"errors"
	"math/rand"
	"testing"

	"github.com/matzehuels/nocycle/pkg/dag"
	"github.com/matzehuels/nocycle/pkg/oracle"
)

func newPicker(t *testing.T, vertices int, seed int64) *Picker {
	t.Helper()
	p := New(oracle.New(), rand.New(rand.NewSource(seed)))
	for v := dag.VertexID(0); v < dag.VertexID(vertices); v++ {
		if err := p.CreateVertex(v); err != nil {
			t.Fatalf("CreateVertex(%d): %v", v, err)
		}
	}
	return p
}

func TestEmptyGraph(t *testing.T) {
	p := newPicker(t, 4, 1)
	if _, _, err := p.RandomEdge(); !errors.Is(err, ErrNoEdges) {
		t.Fatalf("RandomEdge() error = %v, want ErrNoEdges", err)
	}
	if p.EdgeCount() != 0 {
		t.Fatalf("EdgeCount() = %d, want 0", p.EdgeCount())
	}
}

func TestEdgeCountTracksMutations(t *testing.T) {
	p := newPicker(t, 5, 1)

	edges := [][2]dag.VertexID{{0, 1}, {0, 2}, {0, 3}, {1, 2}, {3, 4}}
	for _, e := range edges {
		changed, err := p.SetEdge(e[0], e[1])
		if err != nil || !changed {
			t.Fatalf("SetEdge(%d,%d) = %v, %v", e[0], e[1], changed, err)
		}
	}
	if p.EdgeCount() != len(edges) {
		t.Fatalf("EdgeCount() = %d, want %d", p.EdgeCount(), len(edges))
	}

	// Idempotent set does not double-count.
	if changed, err := p.SetEdge(0, 1); err != nil || changed {
		t.Fatalf("repeat SetEdge(0,1) = %v, %v", changed, err)
	}
	if p.EdgeCount() != len(edges) {
		t.Fatalf("EdgeCount() = %d after no-op set, want %d", p.EdgeCount(), len(edges))
	}

	if changed, err := p.ClearEdge(0, 2); err != nil || !changed {
		t.Fatalf("ClearEdge(0,2) = %v, %v", changed, err)
	}
	if changed, err := p.ClearEdge(0, 2); err != nil || changed {
		t.Fatalf("repeat ClearEdge(0,2) = %v, %v", changed, err)
	}
	if p.EdgeCount() != len(edges)-1 {
		t.Fatalf("EdgeCount() = %d after clear, want %d", p.EdgeCount(), len(edges)-1)
	}
}

func TestRandomEdgeReturnsOnlyEdges(t *testing.T) {
	p := newPicker(t, 6, 42)
	edges := map[[2]dag.VertexID]bool{
		{0, 1}: true, {0, 2}: true, {2, 3}: true, {4, 5}: true, {1, 5}: true,
	}
	for e := range edges {
		if _, err := p.SetEdge(e[0], e[1]); err != nil {
			t.Fatalf("SetEdge(%d,%d): %v", e[0], e[1], err)
		}
	}

	seen := map[[2]dag.VertexID]bool{}
	for i := 0; i < 500; i++ {
		from, to, err := p.RandomEdge()
		if err != nil {
			t.Fatalf("RandomEdge(): %v", err)
		}
		if !edges[[2]dag.VertexID{from, to}] {
			t.Fatalf("RandomEdge() = %d→%d, not an edge", from, to)
		}
		seen[[2]dag.VertexID{from, to}] = true
	}
	// 500 draws over 5 edges: every edge shows up.
	if len(seen) != len(edges) {
		t.Errorf("saw %d distinct edges, want %d", len(seen), len(edges))
	}
}

func TestRandomNonEdge(t *testing.T) {
	p := newPicker(t, 4, 7)
	if _, err := p.SetEdge(0, 1); err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 200; i++ {
		from, to, err := p.RandomNonEdge()
		if err != nil {
			t.Fatalf("RandomNonEdge(): %v", err)
		}
		if from == to {
			t.Fatalf("RandomNonEdge() returned self pair %d", from)
		}
		if (from == 0 && to == 1) || (from == 1 && to == 0) {
			t.Fatalf("RandomNonEdge() returned connected pair %d,%d", from, to)
		}
	}
}

func TestRandomNonEdgeSaturated(t *testing.T) {
	p := newPicker(t, 2, 3)
	if _, err := p.SetEdge(0, 1); err != nil {
		t.Fatal(err)
	}
	if _, _, err := p.RandomNonEdge(); !errors.Is(err, ErrNoNonEdge) {
		t.Fatalf("RandomNonEdge() error = %v, want ErrNoNonEdge", err)
	}
}

func TestDeterministicSequence(t *testing.T) {
	draw := func() [][2]dag.VertexID {
		p := newPicker(t, 8, 99)
		for _, e := range [][2]dag.VertexID{{0, 1}, {1, 2}, {2, 3}, {0, 4}, {4, 5}, {5, 6}, {6, 7}} {
			if _, err := p.SetEdge(e[0], e[1]); err != nil {
				t.Fatal(err)
			}
		}
		var picks [][2]dag.VertexID
		for i := 0; i < 20; i++ {
			from, to, err := p.RandomEdge()
			if err != nil {
				t.Fatal(err)
			}
			picks = append(picks, [2]dag.VertexID{from, to})
		}
		return picks
	}

	first := draw()
	second := draw()
	for i := range first {
		if first[i] != second[i] {
			t.Fatalf("draw %d differs: %v vs %v", i, first[i], second[i])
		}
	}
}
