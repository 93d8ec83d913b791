package dag

import (
	"fmt"
	"slices"
)

// Check audits the reachability sidestructure against ground truth computed
// by forward traversal of the data graph.
//
// For every live vertex v it recomputes the true downstream cone and asserts
// that a clean canreach row matches it exactly while a dirty row is at least
// a superset. In reach-without-link mode it additionally recomputes, for
// each physical out-edge of a clean row, whether the target is reachable
// when that single edge is ignored, and compares the cached tristate.
//
// The walk is O(N²) and mutates nothing; it is meant for debug builds,
// soak runs with [Options.ConsistencyCheck], and explicit audits. A nil
// return means the sidestructure is sound. Engines without cached
// reachability trivially pass.
func Check(d *DAG) error {
	if d.canreach == nil {
		return nil
	}

	n := d.FirstInvalid()
	for v := VertexID(0); v < n; v++ {
		if !d.data.VertexExists(v) {
			continue
		}

		trueReach := d.trueOutReachIncludingSelf(v)
		cached := d.outgoingReachIncludingSelf(v)

		switch d.mustTag(d.canreach, v) {
		case tagClean:
			if !slices.Equal(cached, trueReach) {
				return fmt.Errorf("%w: clean row %d caches %v, closure is %v",
					ErrInconsistentSidestructure, v, cached, trueReach)
			}
			if d.opts.ReachWithoutLink {
				if err := d.checkEdgeTristates(v); err != nil {
					return err
				}
			}
		default:
			for _, w := range trueReach {
				if !slices.Contains(cached, w) {
					return fmt.Errorf("%w: dirty row %d misses %d (caches %v, closure is %v)",
						ErrInconsistentSidestructure, v, w, cached, trueReach)
				}
			}
		}
	}
	return nil
}

// checkEdgeTristates verifies the reach-without-link cache of a clean row
// against a DFS that excludes each direct edge in turn.
func (d *DAG) checkEdgeTristates(v VertexID) error {
	for _, c := range d.data.Outgoing(v) {
		truth := d.reachDFS(v, c, [2]VertexID{v, c})
		cached := d.edgeTristate(v, c) == triReachableWithoutEdge
		if truth != cached {
			return fmt.Errorf("%w: edge %d→%d caches reachable-without-edge=%v, truth is %v",
				ErrInconsistentSidestructure, v, c, cached, truth)
		}
	}
	return nil
}

// trueOutReachIncludingSelf computes v's exact downstream cone by DFS.
func (d *DAG) trueOutReachIncludingSelf(v VertexID) []VertexID {
	set := make(vertexSet)
	set.add(v)
	stack := []VertexID{v}
	for len(stack) > 0 {
		u := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		for _, w := range d.data.Outgoing(u) {
			if set.has(w) {
				continue
			}
			set.add(w)
			stack = append(stack, w)
		}
	}
	return set.sorted()
}

// mustBeConsistent is the post-mutation hook for ConsistencyCheck mode.
// Audit failures are engine bugs and fatal.
func (d *DAG) mustBeConsistent() {
	if err := Check(d); err != nil {
		panic(err)
	}
}
