package render

import (
	"strings"
	"testing"

	"github.com/matzehuels/nocycle/pkg/dag"
	"github.com/matzehuels/nocycle/pkg/oriented"
)

func buildDiamond(t *testing.T, opts dag.Options) *dag.DAG {
	t.Helper()
	d, err := dag.New(0, opts)
	if err != nil {
		t.Fatal(err)
	}
	for v := dag.VertexID(0); v < 4; v++ {
		if err := d.CreateVertex(v); err != nil {
			t.Fatal(err)
		}
	}
	for _, e := range [][2]dag.VertexID{{0, 1}, {0, 2}, {1, 3}, {2, 3}, {0, 3}} {
		if _, err := d.SetEdge(e[0], e[1]); err != nil {
			t.Fatalf("SetEdge(%d,%d): %v", e[0], e[1], err)
		}
	}
	return d
}

func TestToDOT(t *testing.T) {
	d := buildDiamond(t, dag.DefaultOptions())
	dot := ToDOT(d, Options{})

	for _, want := range []string{
		"digraph G {",
		"rankdir=TB;",
		`0 [label="0"]`,
		`3 [label="3"]`,
		"0 -> 1;",
		"2 -> 3;",
		"0 -> 3;",
	} {
		if !strings.Contains(dot, want) {
			t.Errorf("DOT missing %q:\n%s", want, dot)
		}
	}
}

func TestToDOTRankDir(t *testing.T) {
	d := buildDiamond(t, dag.DefaultOptions())
	dot := ToDOT(d, Options{RankDir: "LR"})
	if !strings.Contains(dot, "rankdir=LR;") {
		t.Errorf("DOT missing rankdir=LR:\n%s", dot)
	}
}

func TestToDOTTaggedVertex(t *testing.T) {
	d := buildDiamond(t, dag.DefaultOptions())
	if err := d.SetVertexTag(2, oriented.TagTwo); err != nil {
		t.Fatal(err)
	}
	dot := ToDOT(d, Options{})
	if !strings.Contains(dot, `2 [label="2", style=filled, fillcolor=lightgrey];`) {
		t.Errorf("tagged vertex not styled:\n%s", dot)
	}
	if strings.Contains(dot, `1 [label="1", style=filled`) {
		t.Errorf("untagged vertex styled:\n%s", dot)
	}
}

func TestToDOTBridges(t *testing.T) {
	d := buildDiamond(t, dag.DefaultOptions())
	dot := ToDOT(d, Options{HighlightBridges: true})

	// 0 → 3 has two alternative paths; 0 → 1 has none.
	if !strings.Contains(dot, "0 -> 1 [color=red];") {
		t.Errorf("bridge edge 0→1 not highlighted:\n%s", dot)
	}
	if strings.Contains(dot, "0 -> 3 [color=red];") {
		t.Errorf("redundant edge 0→3 wrongly highlighted:\n%s", dot)
	}

	// Without the reach-without-link cache the flag is a no-op.
	plain := buildDiamond(t, dag.Options{CacheReachability: true})
	dot = ToDOT(plain, Options{HighlightBridges: true})
	if strings.Contains(dot, "color=red") {
		t.Errorf("highlighting leaked into cached-only mode:\n%s", dot)
	}
}

func TestToDOTSkipsHoles(t *testing.T) {
	d := buildDiamond(t, dag.DefaultOptions())
	if err := d.DestroyVertexNoCompact(1); err != nil {
		t.Fatal(err)
	}
	dot := ToDOT(d, Options{})
	if strings.Contains(dot, `1 [label=`) {
		t.Errorf("destroyed vertex rendered:\n%s", dot)
	}
	if strings.Contains(dot, "0 -> 1;") {
		t.Errorf("destroyed vertex's edge rendered:\n%s", dot)
	}
}
