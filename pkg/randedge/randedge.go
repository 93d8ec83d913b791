// Package randedge picks uniformly random edges and non-edges from a graph
// stored as a dense adjacency matrix.
//
// A matrix store has no edge list to index into, so drawing a random edge by
// sampling vertex pairs degrades badly on sparse graphs. The Picker instead
// shadows every mutation, bucketing vertices by out-degree; a random edge is
// then drawn by weighting each vertex with its out-degree, which makes every
// edge equally likely. The randomized soak harness routes all mutations
// through a Picker for exactly this purpose.
package randedge

import (
	"errors"
	"math/rand"
	"slices"

	"github.com/matzehuels/nocycle/pkg/dag"
)

var (
	// ErrNoEdges is returned by [Picker.RandomEdge] on an edgeless graph.
	ErrNoEdges = errors.New("graph has no edges")

	// ErrNoNonEdge is returned by [Picker.RandomNonEdge] when rejection
	// sampling gives up, which on sane scenarios means the graph is nearly
	// complete.
	ErrNoNonEdge = errors.New("no unconnected pair found")
)

// nonEdgeAttempts bounds the rejection sampling in RandomNonEdge.
const nonEdgeAttempts = 100000

// Graph is the mutation surface the Picker shadows. Both the packed engine
// and the oracle satisfy it.
type Graph interface {
	CreateVertex(v dag.VertexID) error
	VertexExists(v dag.VertexID) bool
	SetEdge(from, to dag.VertexID) (bool, error)
	ClearEdge(from, to dag.VertexID) (bool, error)
	EdgeExists(from, to dag.VertexID) bool
	Outgoing(v dag.VertexID) []dag.VertexID
}

// Picker wraps a Graph and tracks vertices bucketed by out-degree.
// Mutations must go through the Picker once it is constructed, or its
// buckets drift from the graph.
//
// All randomness comes from the injected source, so runs are reproducible
// from a seed.
type Picker struct {
	g        Graph
	rng      *rand.Rand
	byDegree map[int]map[dag.VertexID]struct{}
	vertices []dag.VertexID // ascending; tracked for non-edge sampling
	edges    int
}

// New creates a Picker over an empty graph g.
func New(g Graph, rng *rand.Rand) *Picker {
	return &Picker{
		g:        g,
		rng:      rng,
		byDegree: map[int]map[dag.VertexID]struct{}{0: {}},
	}
}

// EdgeCount returns the number of edges set through the Picker.
func (p *Picker) EdgeCount() int { return p.edges }

// CreateVertex creates v in the underlying graph and starts tracking it in
// the zero-degree bucket.
func (p *Picker) CreateVertex(v dag.VertexID) error {
	if err := p.g.CreateVertex(v); err != nil {
		return err
	}
	p.byDegree[0][v] = struct{}{}
	i, _ := slices.BinarySearch(p.vertices, v)
	p.vertices = slices.Insert(p.vertices, i, v)
	return nil
}

// SetEdge inserts through the underlying graph, rebucketing the source on
// success. Cycle rejections pass through untouched.
func (p *Picker) SetEdge(from, to dag.VertexID) (bool, error) {
	changed, err := p.g.SetEdge(from, to)
	if err != nil || !changed {
		return changed, err
	}
	degree := len(p.g.Outgoing(from))
	p.moveBucket(from, degree-1, degree)
	p.edges++
	return true, nil
}

// ClearEdge removes through the underlying graph, rebucketing the source on
// success.
func (p *Picker) ClearEdge(from, to dag.VertexID) (bool, error) {
	changed, err := p.g.ClearEdge(from, to)
	if err != nil || !changed {
		return changed, err
	}
	degree := len(p.g.Outgoing(from))
	p.moveBucket(from, degree+1, degree)
	p.edges--
	return true, nil
}

func (p *Picker) moveBucket(v dag.VertexID, from, to int) {
	delete(p.byDegree[from], v)
	if p.byDegree[to] == nil {
		p.byDegree[to] = make(map[dag.VertexID]struct{})
	}
	p.byDegree[to][v] = struct{}{}
}

// RandomEdge draws an existing edge uniformly at random.
//
// The draw starts from a random index in [0, EdgeCount) and walks the
// degree buckets in ascending order: a bucket of k vertices with degree d
// covers k·d indices, so a vertex is hit with probability proportional to
// its out-degree and each of its edges exactly once.
func (p *Picker) RandomEdge() (from, to dag.VertexID, err error) {
	if p.edges == 0 {
		return 0, 0, ErrNoEdges
	}
	idx := p.rng.Intn(p.edges)

	degrees := make([]int, 0, len(p.byDegree))
	for d, members := range p.byDegree {
		if d > 0 && len(members) > 0 {
			degrees = append(degrees, d)
		}
	}
	slices.Sort(degrees)

	for _, d := range degrees {
		members := p.sortedBucket(d)
		span := d * len(members)
		if idx >= span {
			idx -= span
			continue
		}
		from = members[idx/d]
		out := p.g.Outgoing(from)
		to = out[idx%d]
		return from, to, nil
	}
	panic("randedge: edge count out of sync with buckets")
}

// RandomNonEdge draws a vertex pair with no connection in either direction,
// by rejection sampling over the tracked vertices.
func (p *Picker) RandomNonEdge() (from, to dag.VertexID, err error) {
	if len(p.vertices) < 2 {
		return 0, 0, ErrNoNonEdge
	}
	for attempt := 0; attempt < nonEdgeAttempts; attempt++ {
		from = p.vertices[p.rng.Intn(len(p.vertices))]
		to = p.vertices[p.rng.Intn(len(p.vertices))]
		if from == to {
			continue
		}
		if p.g.EdgeExists(from, to) || p.g.EdgeExists(to, from) {
			continue
		}
		return from, to, nil
	}
	return 0, 0, ErrNoNonEdge
}

func (p *Picker) sortedBucket(degree int) []dag.VertexID {
	members := make([]dag.VertexID, 0, len(p.byDegree[degree]))
	for v := range p.byDegree[degree] {
		members = append(members, v)
	}
	slices.Sort(members)
	return members
}
