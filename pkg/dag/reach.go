package dag

import (
	"fmt"
	"slices"

	"github.com/matzehuels/nocycle/pkg/oriented"
)

// inconsistency builds the panic value for a sidestructure invariant break.
func inconsistency(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInconsistentSidestructure, fmt.Sprintf(format, args...))
}

// =============================================================================
// Queries
// =============================================================================

// CanReach reports whether a path from → to exists in the data graph.
//
// With cached reachability this is usually a single cell probe. A dirty row
// only needs cleaning when it claims reachability: the dirty invariant
// permits false positives but no false negatives, so a missing cell is
// definitive. Cleaning rewrites sidestructure rows, which is why CanReach
// takes the receiver non-concurrently like every other operation.
func (d *DAG) CanReach(from, to VertexID) (bool, error) {
	if !d.data.VertexExists(from) || !d.data.VertexExists(to) {
		return false, oriented.ErrVertexNotLive
	}
	if from == to {
		return false, nil
	}
	if d.canreach == nil {
		return d.reachDFS(from, to, noSkipEdge), nil
	}

	// With a physical edge present the canreach cell is the edge tristate,
	// not closure data; the edge itself answers the question.
	link, err := d.data.HasLinkage(from, to)
	if err != nil {
		return false, err
	}
	switch link {
	case oriented.LinkageForward:
		return true, nil
	case oriented.LinkageReverse:
		// Reaching the source of an incoming edge would be a cycle.
		return false, nil
	}

	tag := d.mustTag(d.canreach, from)
	if tag == tagClean {
		return d.canreach.EdgeExists(from, to), nil
	}
	if !d.canreach.EdgeExists(from, to) {
		return false, nil
	}
	d.cleanReach(from)
	return d.canreach.EdgeExists(from, to), nil
}

// InsertionWouldCycle reports whether SetEdge(from, to) would be rejected.
// An edge closes a cycle exactly when its target already reaches its source.
func (d *DAG) InsertionWouldCycle(from, to VertexID) (bool, error) {
	return d.CanReach(to, from)
}

// noSkipEdge marks "no edge excluded" for reachDFS.
var noSkipEdge = [2]VertexID{oriented.InvalidID, oriented.InvalidID}

// reachDFS answers from → to reachability by depth-first search on the data
// graph, optionally pretending the single edge skip is absent.
func (d *DAG) reachDFS(from, to VertexID, skip [2]VertexID) bool {
	visited := map[VertexID]struct{}{from: {}}
	stack := []VertexID{from}
	for len(stack) > 0 {
		v := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		for _, w := range d.data.Outgoing(v) {
			if v == skip[0] && w == skip[1] {
				continue
			}
			if w == to {
				return true
			}
			if _, ok := visited[w]; ok {
				continue
			}
			visited[w] = struct{}{}
			stack = append(stack, w)
		}
	}
	return false
}

// =============================================================================
// Reach Cones
// =============================================================================

// incomingReachIncludingSelf returns the physical in-neighbors of v, plus
// every canreach source whose pair carries no physical edge, plus v itself.
// A superset of the true upstream cone when v's row is dirty; exact when
// clean.
func (d *DAG) incomingReachIncludingSelf(v VertexID) []VertexID {
	set := make(vertexSet)
	for _, u := range d.data.Incoming(v) {
		set.add(u)
	}
	for _, u := range d.canreach.Incoming(v) {
		if d.linkageWith(v, u) == oriented.LinkageNone {
			set.add(u)
		}
	}
	set.add(v)
	return set.sorted()
}

// outgoingReachIncludingSelf is the downstream counterpart of
// incomingReachIncludingSelf.
func (d *DAG) outgoingReachIncludingSelf(v VertexID) []VertexID {
	set := make(vertexSet)
	for _, w := range d.data.Outgoing(v) {
		set.add(w)
	}
	for _, w := range d.canreach.Outgoing(v) {
		if d.linkageWith(v, w) == oriented.LinkageNone {
			set.add(w)
		}
	}
	set.add(v)
	return set.sorted()
}

func (d *DAG) linkageWith(a, b VertexID) oriented.Linkage {
	link, err := d.data.HasLinkage(a, b)
	if err != nil {
		panic(inconsistency("linkage probe %d↔%d: %v", a, b, err))
	}
	return link
}

// =============================================================================
// Row Cleaning
// =============================================================================

// cleanReach recomputes v's canreach row from its physical children's rows,
// cleaning those recursively first. Acyclicity bounds the recursion. Only
// descendants are touched, never ancestors of v, and cleaning is idempotent.
func (d *DAG) cleanReach(v VertexID) {
	// A dirty row's closure cells may be false positives; drop the ones not
	// shadowed by a physical edge (those are edge tristates, not closure)
	// and rebuild from scratch.
	for _, u := range d.canreach.Outgoing(v) {
		if d.linkageWith(v, u) != oriented.LinkageNone {
			continue
		}
		d.clearReach(v, u)
	}

	children := d.data.Outgoing(v)
	reachByChild := make(map[VertexID][]VertexID, len(children))
	for _, c := range children {
		if d.mustTag(d.canreach, c) == tagDirty {
			d.cleanReach(c)
		}
		reach := d.outgoingReachIncludingSelf(c)
		reachByChild[c] = reach

		for _, w := range reach {
			if w == c || w == v {
				continue
			}
			if d.data.EdgeExists(v, w) {
				// The pair's cell belongs to the physical edge.
				continue
			}
			if d.canreach.EdgeExists(w, v) {
				// A stale reverse cell can only be a dirty leftover; a
				// clean row claiming w reaches v would mean a cycle.
				if d.mustTag(d.canreach, w) != tagDirty {
					panic(inconsistency("clean row %d claims to reach ancestor %d", w, v))
				}
				d.clearReach(w, v)
			}
			d.setReach(v, w)
		}
	}

	if d.opts.ReachWithoutLink {
		// A child marked reachable-without-its-edge keeps that state only
		// if some sibling's reach set still covers it.
		for _, c := range children {
			if d.edgeTristate(v, c) != triReachableWithoutEdge {
				continue
			}
			covered := false
			for _, sibling := range children {
				if sibling != c && slices.Contains(reachByChild[sibling], c) {
					covered = true
					break
				}
			}
			if !covered {
				d.setEdgeTristate(v, c, triNotReachableWithoutEdge)
			}
		}
	}

	if err := d.canreach.SetVertexTag(v, tagClean); err != nil {
		panic(inconsistency("tagging row %d clean: %v", v, err))
	}
}

// =============================================================================
// Mutation
// =============================================================================

// SetEdge inserts the physical edge from → to.
//
// It returns ErrWouldCycle, with the graph untouched, when to already
// reaches from. Re-inserting an existing edge is a no-op reported as false.
// On success the closure delta is pushed eagerly: everything that reaches
// from now also reaches everything to reaches, with dirtiness propagating
// whenever a participating row was dirty.
func (d *DAG) SetEdge(from, to VertexID) (bool, error) {
	if d.opts.ConsistencyCheck {
		defer d.mustBeConsistent()
	}

	cycle, err := d.InsertionWouldCycle(from, to)
	if err != nil {
		return false, err
	}
	if cycle {
		return false, ErrWouldCycle
	}

	if d.canreach == nil {
		return d.data.SetEdge(from, to)
	}

	// The cell's closure bit is about to become the edge tristate; capture
	// it first. It may itself be a false positive of a dirty row, which is
	// tolerable: the tristate it seeds is allowed the same slack until the
	// row is cleaned.
	var reachableBefore bool
	if d.opts.ReachWithoutLink {
		reachableBefore = d.canreach.EdgeExists(from, to)
	}

	isNew, err := d.data.SetEdge(from, to)
	if err != nil || !isNew {
		return isNew, err
	}

	if d.opts.ReachWithoutLink {
		t := triNotReachableWithoutEdge
		if reachableBefore {
			t = triReachableWithoutEdge
		}
		d.setEdgeTristate(from, to, t)
	}

	toReach := d.outgoingReachIncludingSelf(to)
	tagTo := d.mustTag(d.canreach, to)
	fromReach := d.incomingReachIncludingSelf(from)
	tagFrom := d.mustTag(d.canreach, from)

	inToReach := make(vertexSet, len(toReach))
	for _, w := range toReach {
		inToReach.add(w)
	}

	for _, a := range fromReach {
		if d.opts.ReachWithoutLink {
			// Any physical edge out of a whose target is now also reached
			// through the new edge gains a second path, so its tristate is
			// upgraded. The upgrade inherits to's dirtiness.
			for _, x := range d.data.Outgoing(a) {
				if a == from && x == to {
					continue
				}
				if !inToReach.has(x) {
					continue
				}
				d.setEdgeTristate(a, x, triReachableWithoutEdge)
				if tagTo == tagDirty {
					if err := d.canreach.SetVertexTag(a, tagDirty); err != nil {
						panic(inconsistency("dirtying row %d: %v", a, err))
					}
				}
			}
		}

		for _, b := range toReach {
			if a == b {
				// Possible only through false positives of dirty rows;
				// nothing to record for a self pair.
				continue
			}
			switch d.linkageWith(a, b) {
			case oriented.LinkageForward:
				// The cell is the edge a → b's tristate; leave it alone.
			case oriented.LinkageReverse:
				// The cell is the edge b → a's tristate. Were b's row
				// clean, b truly reaches a and the new edge would have
				// closed a cycle through from/to.
				if d.mustTag(d.canreach, b) != tagDirty {
					panic(inconsistency("clean row %d reaches %d across reverse edge", b, a))
				}
			default:
				if d.mustTag(d.canreach, b) == tagDirty {
					// Tolerate a stale b → a false positive.
					d.clearReachIfPresent(b, a)
				} else if d.canreach.EdgeExists(b, a) {
					panic(inconsistency("clean row %d reaches upstream %d after acyclic insert", b, a))
				}
				newTag := tagDirty
				if tagFrom == tagClean && tagTo == tagClean && d.mustTag(d.canreach, a) == tagClean {
					newTag = tagClean
				}
				if err := d.canreach.SetVertexTag(a, newTag); err != nil {
					panic(inconsistency("retagging row %d: %v", a, err))
				}
				d.setReach(a, b)
			}
		}
	}

	return true, nil
}

// ClearEdge removes the physical edge from → to, reporting false without
// modification when it is absent.
//
// In reach-without-link mode a clean source row whose edge tristate says the
// target stays reachable lets the removal complete without any dirtying.
// Otherwise the whole upstream cone of from is marked dirty and the closure
// cell from → to is set, preserving the superset invariant; precise cleanup
// is left to future readers.
func (d *DAG) ClearEdge(from, to VertexID) (bool, error) {
	if d.opts.ConsistencyCheck {
		defer d.mustBeConsistent()
	}

	if d.canreach == nil {
		return d.data.ClearEdge(from, to)
	}

	if from == to {
		return false, oriented.ErrSelfLoop
	}
	if !d.data.VertexExists(from) || !d.data.VertexExists(to) {
		return false, oriented.ErrVertexNotLive
	}
	if !d.data.EdgeExists(from, to) {
		return false, nil
	}

	if d.opts.ReachWithoutLink {
		extra := d.edgeTristate(from, to)
		d.setEdgeTristate(from, to, 0)
		if _, err := d.data.ClearEdge(from, to); err != nil {
			return false, err
		}
		if extra == triReachableWithoutEdge && d.mustTag(d.canreach, from) == tagClean {
			// The target stays reachable and the row was exact, so the
			// closure gains the cell the edge used to imply and nothing
			// needs dirtying.
			d.setReach(from, to)
			return true, nil
		}
	} else {
		if _, err := d.data.ClearEdge(from, to); err != nil {
			return false, err
		}
	}

	// Everything upstream of from may have depended on the edge; dirty the
	// whole cone and let readers clean lazily. Downstream rows are immune:
	// nothing below from can lose reachability by acyclicity.
	for _, a := range d.incomingReachIncludingSelf(from) {
		if err := d.canreach.SetVertexTag(a, tagDirty); err != nil {
			panic(inconsistency("dirtying row %d: %v", a, err))
		}
	}

	// The pair's cell reverts from edge tristate to closure data. A stale
	// reverse cell (user tristate or transitive leftover) must go, and the
	// forward cell is set: from could still reach to transitively, and the
	// superset invariant prefers a false positive over a false negative.
	d.clearReachIfPresent(to, from)
	if _, err := d.canreach.SetEdge(from, to); err != nil {
		panic(inconsistency("restoring closure cell %d→%d: %v", from, to, err))
	}
	return true, nil
}

// =============================================================================
// Sidestructure Cell Helpers
// =============================================================================

// setReach writes a closure cell, asserting the pair is not shadowed by a
// physical edge (whose cell would be a tristate instead).
func (d *DAG) setReach(from, to VertexID) {
	if d.linkageWith(from, to) != oriented.LinkageNone {
		panic(inconsistency("closure write %d→%d over a physical edge", from, to))
	}
	if _, err := d.canreach.SetEdge(from, to); err != nil {
		panic(inconsistency("closure write %d→%d: %v", from, to, err))
	}
}

// clearReach removes a closure cell under the same shadowing assertion.
func (d *DAG) clearReach(from, to VertexID) {
	if d.linkageWith(from, to) != oriented.LinkageNone {
		panic(inconsistency("closure clear %d→%d over a physical edge", from, to))
	}
	if _, err := d.canreach.ClearEdge(from, to); err != nil {
		panic(inconsistency("closure clear %d→%d: %v", from, to, err))
	}
}

// clearReachIfPresent drops the canreach cell from → to regardless of its
// current interpretation. Used where a stale cell of either kind must not
// survive.
func (d *DAG) clearReachIfPresent(from, to VertexID) {
	if d.canreach.EdgeExists(from, to) {
		if _, err := d.canreach.ClearEdge(from, to); err != nil {
			panic(inconsistency("dropping stale cell %d→%d: %v", from, to, err))
		}
	}
}

func (d *DAG) mustTag(g *oriented.Graph, v VertexID) Tag {
	tag, err := g.VertexTag(v)
	if err != nil {
		panic(inconsistency("tag of %d: %v", v, err))
	}
	return tag
}

// =============================================================================
// Vertex Sets
// =============================================================================

type vertexSet map[VertexID]struct{}

func (s vertexSet) add(v VertexID) { s[v] = struct{}{} }

func (s vertexSet) has(v VertexID) bool {
	_, ok := s[v]
	return ok
}

func (s vertexSet) sorted() []VertexID {
	out := make([]VertexID, 0, len(s))
	for v := range s {
		out = append(out, v)
	}
	slices.Sort(out)
	return out
}
