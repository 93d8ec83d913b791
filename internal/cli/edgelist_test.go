package cli

import (
	"strings"
	"testing"

	"github.com/matzehuels/nocycle/pkg/dag"
)

func TestReadEdgeList(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    [][2]dag.VertexID
		wantErr bool
	}{
		{
			name:  "Whitespace",
			input: "0 1\n1 2\n",
			want:  [][2]dag.VertexID{{0, 1}, {1, 2}},
		},
		{
			name:  "Arrows",
			input: "0 -> 1\n4->2\n",
			want:  [][2]dag.VertexID{{0, 1}, {4, 2}},
		},
		{
			name:  "CommentsAndBlanks",
			input: "# header\n\n0 1  # trailing\n   \n2 3\n",
			want:  [][2]dag.VertexID{{0, 1}, {2, 3}},
		},
		{
			name:    "TooManyFields",
			input:   "0 1 2\n",
			wantErr: true,
		},
		{
			name:    "NotANumber",
			input:   "a b\n",
			wantErr: true,
		},
		{
			name:    "NegativeID",
			input:   "-1 2\n",
			wantErr: true,
		},
		{
			name:  "Empty",
			input: "",
			want:  nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			edges, err := readEdgeList(strings.NewReader(tt.input))
			if (err != nil) != tt.wantErr {
				t.Fatalf("readEdgeList error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				return
			}
			if len(edges) != len(tt.want) {
				t.Fatalf("got %d edges, want %d", len(edges), len(tt.want))
			}
			for i, e := range edges {
				if e.from != tt.want[i][0] || e.to != tt.want[i][1] {
					t.Errorf("edge %d = %d→%d, want %d→%d", i, e.from, e.to, tt.want[i][0], tt.want[i][1])
				}
			}
		})
	}
}

func TestReplay(t *testing.T) {
	edges, err := readEdgeList(strings.NewReader("0 1\n1 2\n2 0\n3 0\n"))
	if err != nil {
		t.Fatal(err)
	}

	d, rejected, err := replay(edges, dag.DefaultOptions())
	if err != nil {
		t.Fatal(err)
	}

	if len(rejected) != 1 || rejected[0].from != 2 || rejected[0].to != 0 {
		t.Fatalf("rejected = %+v, want the cycle edge 2→0", rejected)
	}
	if rejected[0].line != 3 {
		t.Errorf("rejected line = %d, want 3", rejected[0].line)
	}

	want := [][2]dag.VertexID{{0, 1}, {1, 2}, {3, 0}}
	got := d.Edges()
	if len(got) != len(want) {
		t.Fatalf("edges = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("edges = %v, want %v", got, want)
		}
	}
	if n := liveVertices(d); n != 4 {
		t.Errorf("liveVertices = %d, want 4", n)
	}
}

func TestReplaySparseIDs(t *testing.T) {
	edges, err := readEdgeList(strings.NewReader("10 500\n500 2\n"))
	if err != nil {
		t.Fatal(err)
	}
	d, rejected, err := replay(edges, dag.Options{})
	if err != nil {
		t.Fatal(err)
	}
	if len(rejected) != 0 {
		t.Fatalf("rejected = %+v, want none", rejected)
	}
	if n := liveVertices(d); n != 3 {
		t.Errorf("liveVertices = %d, want 3", n)
	}
	if d.FirstInvalid() != 501 {
		t.Errorf("FirstInvalid = %d, want 501", d.FirstInvalid())
	}
}
