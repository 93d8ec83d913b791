// Package dag implements an incremental directed acyclic graph that rejects
// any edge insertion which would introduce a cycle.
//
// The engine composes two [oriented.Graph] adjacency stores over the same
// dense uint32 id space: the data graph holding the physical edges, and a
// "canreach" sidestructure caching the transitive closure so that the cycle
// check on insertion is an O(1) cell probe in the common case.
//
// # The canreach cell
//
// For a vertex pair with no physical edge, the canreach cell is a closure
// bit: from → to means "from reaches to along some path". For a pair that
// does carry a physical edge the closure bit would be redundant, so the cell
// is repurposed as a per-edge tristate. Depending on [Options] that tristate
// is either opaque user metadata or a cache of "would the target still be
// reachable if this edge were removed", which accelerates later deletions.
//
// # Laziness
//
// Removing an edge does not recompute the closure. It marks every vertex in
// the upstream cone dirty: a dirty canreach row may contain false positives
// but never false negatives. Readers exploit the one-sided guarantee (a
// missing cell in a dirty row is definitive) and clean a row only when a
// query actually needs the precise answer.
//
// The engine is single-threaded and non-reentrant. Reads may rewrite the
// sidestructure via row cleaning, so even CanReach requires external mutual
// exclusion when a DAG is shared.
package dag
