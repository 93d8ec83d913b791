// Package oracle provides a deliberately simple reference DAG used to judge
// the packed engine in fuzz and soak runs.
//
// It stores plain adjacency maps and answers every reachability question by
// depth-first search, trading all of the engine's cleverness for obvious
// correctness. The soak harness drives an oracle and an engine in lockstep
// and fails when their cycle rejections or final edge sets diverge.
package oracle

import (
	"slices"

	"github.com/matzehuels/nocycle/pkg/dag"
	"github.com/matzehuels/nocycle/pkg/oriented"
)

// Graph is the reference DAG. The zero value is not usable; use New.
type Graph struct {
	vertices map[dag.VertexID]struct{}
	outgoing map[dag.VertexID]map[dag.VertexID]struct{}
	incoming map[dag.VertexID]map[dag.VertexID]struct{}
	edges    int
}

// New creates an empty reference DAG.
func New() *Graph {
	return &Graph{
		vertices: make(map[dag.VertexID]struct{}),
		outgoing: make(map[dag.VertexID]map[dag.VertexID]struct{}),
		incoming: make(map[dag.VertexID]map[dag.VertexID]struct{}),
	}
}

// CreateVertex adds v. It mirrors the engine's contract errors so harnesses
// can compare outcomes verbatim.
func (g *Graph) CreateVertex(v dag.VertexID) error {
	if v == oriented.InvalidID {
		return oriented.ErrReservedID
	}
	if _, ok := g.vertices[v]; ok {
		return oriented.ErrVertexAlreadyLive
	}
	g.vertices[v] = struct{}{}
	return nil
}

// DestroyVertex removes v and all incident edges.
func (g *Graph) DestroyVertex(v dag.VertexID) error {
	if _, ok := g.vertices[v]; !ok {
		return oriented.ErrVertexNotLive
	}
	for u := range g.incoming[v] {
		delete(g.outgoing[u], v)
		g.edges--
	}
	for w := range g.outgoing[v] {
		delete(g.incoming[w], v)
		g.edges--
	}
	delete(g.incoming, v)
	delete(g.outgoing, v)
	delete(g.vertices, v)
	return nil
}

// VertexExists reports whether v is present.
func (g *Graph) VertexExists(v dag.VertexID) bool {
	_, ok := g.vertices[v]
	return ok
}

// SetEdge inserts from → to, returning dag.ErrWouldCycle when to already
// reaches from and false when the edge is already present.
func (g *Graph) SetEdge(from, to dag.VertexID) (bool, error) {
	if from == to {
		return false, oriented.ErrSelfLoop
	}
	if !g.VertexExists(from) || !g.VertexExists(to) {
		return false, oriented.ErrVertexNotLive
	}
	if _, ok := g.outgoing[from][to]; ok {
		return false, nil
	}
	if reach, _ := g.CanReach(to, from); reach {
		return false, dag.ErrWouldCycle
	}
	if g.outgoing[from] == nil {
		g.outgoing[from] = make(map[dag.VertexID]struct{})
	}
	if g.incoming[to] == nil {
		g.incoming[to] = make(map[dag.VertexID]struct{})
	}
	g.outgoing[from][to] = struct{}{}
	g.incoming[to][from] = struct{}{}
	g.edges++
	return true, nil
}

// ClearEdge removes from → to if present.
func (g *Graph) ClearEdge(from, to dag.VertexID) (bool, error) {
	if from == to {
		return false, oriented.ErrSelfLoop
	}
	if !g.VertexExists(from) || !g.VertexExists(to) {
		return false, oriented.ErrVertexNotLive
	}
	if _, ok := g.outgoing[from][to]; !ok {
		return false, nil
	}
	delete(g.outgoing[from], to)
	delete(g.incoming[to], from)
	g.edges--
	return true, nil
}

// EdgeExists reports whether from → to is present.
func (g *Graph) EdgeExists(from, to dag.VertexID) bool {
	_, ok := g.outgoing[from][to]
	return ok
}

// CanReach reports whether a path from → to exists, by DFS.
func (g *Graph) CanReach(from, to dag.VertexID) (bool, error) {
	if !g.VertexExists(from) || !g.VertexExists(to) {
		return false, oriented.ErrVertexNotLive
	}
	if from == to {
		return false, nil
	}
	visited := map[dag.VertexID]struct{}{from: {}}
	stack := []dag.VertexID{from}
	for len(stack) > 0 {
		v := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		for w := range g.outgoing[v] {
			if w == to {
				return true, nil
			}
			if _, ok := visited[w]; ok {
				continue
			}
			visited[w] = struct{}{}
			stack = append(stack, w)
		}
	}
	return false, nil
}

// Outgoing returns from's edge targets in ascending order.
func (g *Graph) Outgoing(v dag.VertexID) []dag.VertexID {
	if len(g.outgoing[v]) == 0 {
		return nil
	}
	out := make([]dag.VertexID, 0, len(g.outgoing[v]))
	for w := range g.outgoing[v] {
		out = append(out, w)
	}
	slices.Sort(out)
	return out
}

// EdgeCount returns the number of edges.
func (g *Graph) EdgeCount() int { return g.edges }

// VertexCount returns the number of vertices.
func (g *Graph) VertexCount() int { return len(g.vertices) }

// Edges returns every edge as ordered pairs, sorted by source then target.
func (g *Graph) Edges() [][2]dag.VertexID {
	var out [][2]dag.VertexID
	for v, targets := range g.outgoing {
		for w := range targets {
			out = append(out, [2]dag.VertexID{v, w})
		}
	}
	slices.SortFunc(out, func(a, b [2]dag.VertexID) int {
		if a[0] != b[0] {
			return int(int64(a[0]) - int64(b[0]))
		}
		return int(int64(a[1]) - int64(b[1]))
	})
	return out
}
