package dag_test

import (
	"math/rand"
	"testing"

	"github.com/matzehuels/nocycle/pkg/dag"
)

// buildRandomDAG inserts edges only from lower to higher ids, which can
// never cycle, so the graph shape depends only on the seed.
func buildRandomDAG(b *testing.B, vertices int, edges int, seed int64) *dag.DAG {
	b.Helper()
	d, err := dag.New(dag.VertexID(vertices), dag.DefaultOptions())
	if err != nil {
		b.Fatal(err)
	}
	for v := dag.VertexID(0); v < dag.VertexID(vertices); v++ {
		if err := d.CreateVertex(v); err != nil {
			b.Fatal(err)
		}
	}
	rng := rand.New(rand.NewSource(seed))
	for inserted := 0; inserted < edges; {
		from := rng.Intn(vertices - 1)
		to := from + 1 + rng.Intn(vertices-from-1)
		changed, err := d.SetEdge(dag.VertexID(from), dag.VertexID(to))
		if err != nil {
			b.Fatal(err)
		}
		if changed {
			inserted++
		}
	}
	return d
}

func BenchmarkCanReach(b *testing.B) {
	const vertices = 256
	d := buildRandomDAG(b, vertices, 2048, 1)
	rng := rand.New(rand.NewSource(2))

	type pair struct{ from, to dag.VertexID }
	pairs := make([]pair, 1024)
	for i := range pairs {
		pairs[i] = pair{
			from: dag.VertexID(rng.Intn(vertices)),
			to:   dag.VertexID(rng.Intn(vertices)),
		}
		if pairs[i].from == pairs[i].to {
			pairs[i].to = (pairs[i].to + 1) % vertices
		}
	}

	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		p := pairs[i%len(pairs)]
		if _, err := d.CanReach(p.from, p.to); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkSetClearEdge(b *testing.B) {
	d := buildRandomDAG(b, 256, 1024, 3)

	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := d.SetEdge(0, 255); err != nil {
			b.Fatal(err)
		}
		if _, err := d.ClearEdge(0, 255); err != nil {
			b.Fatal(err)
		}
	}
}
