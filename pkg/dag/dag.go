package dag

import (
	"errors"

	"github.com/matzehuels/nocycle/pkg/oriented"
)

var (
	// ErrWouldCycle is returned by [DAG.SetEdge] when the requested edge
	// would close a directed cycle. The graph is unchanged when this is
	// returned; callers are expected to handle it as a routine outcome.
	ErrWouldCycle = errors.New("edge would introduce a cycle")

	// ErrIncompatibleOptions is returned by [New] when the option set is
	// contradictory, e.g. both tristate interpretations at once or a
	// sidestructure feature without cached reachability.
	ErrIncompatibleOptions = errors.New("incompatible engine options")

	// ErrTristateUnavailable is returned by the tristate accessors when the
	// engine was not constructed in the matching mode.
	ErrTristateUnavailable = errors.New("per-edge tristate not available in this mode")

	// ErrEdgeNotPresent is returned by the tristate accessors when the named
	// physical edge does not exist.
	ErrEdgeNotPresent = errors.New("edge not present")

	// ErrInconsistentSidestructure signals that the reachability cache
	// violated one of its own invariants. It is the panic value (wrapped)
	// of internal assertions and the error root of [Check] failures; seeing
	// it means a bug in the engine, not in the caller.
	ErrInconsistentSidestructure = errors.New("inconsistent reachability sidestructure")
)

// VertexID identifies a vertex; see [oriented.VertexID].
type VertexID = oriented.VertexID

// Tag is the user-visible two-state vertex property; see [oriented.Tag].
type Tag = oriented.Tag

// Cleanliness values for canreach rows, stored in the sidestructure's vertex
// tag. A clean row is the exact closure; a dirty row is a superset of it.
const (
	tagClean = oriented.TagOne
	tagDirty = oriented.TagTwo
)

// Options selects the engine variant. The variant is fixed at construction
// and never changes mid-run.
type Options struct {
	// CacheReachability maintains the canreach sidestructure. When false,
	// CanReach answers by depth-first search and no sidestructure is
	// allocated; the remaining options must then be off.
	CacheReachability bool

	// UserTristate exposes the per-edge cell as opaque user metadata via
	// [DAG.Tristate] and [DAG.SetTristate]. Mutually exclusive with
	// ReachWithoutLink.
	UserTristate bool

	// ReachWithoutLink uses the per-edge cell to cache whether the edge's
	// target would remain reachable if the edge itself were removed, which
	// lets ClearEdge skip dirtying in the common case.
	ReachWithoutLink bool

	// ConsistencyCheck audits the sidestructure after every SetEdge and
	// ClearEdge call, including the edge removals inside DestroyVertex.
	// Vertex creation, the final cell wipe of a destruction, and tag and
	// capacity changes are not audited. O(N²) per audit; debug builds and
	// soak tests only.
	ConsistencyCheck bool
}

// DefaultOptions returns the production configuration: cached reachability
// with the reach-without-link accelerator.
func DefaultOptions() Options {
	return Options{CacheReachability: true, ReachWithoutLink: true}
}

func (o Options) validate() error {
	if o.UserTristate && o.ReachWithoutLink {
		return ErrIncompatibleOptions
	}
	if !o.CacheReachability && (o.UserTristate || o.ReachWithoutLink || o.ConsistencyCheck) {
		return ErrIncompatibleOptions
	}
	return nil
}

// DAG is the incremental acyclic graph engine.
//
// It re-exports the oriented-graph operations that remain meaningful under
// the acyclicity contract and mirrors every lifecycle change onto the
// sidestructure. DAG is not safe for concurrent use; reads may clean
// sidestructure rows and therefore also require exclusion.
type DAG struct {
	data     *oriented.Graph
	canreach *oriented.Graph // nil unless opts.CacheReachability
	opts     Options
}

// New creates an empty engine whose id space covers [0, firstInvalid).
func New(firstInvalid VertexID, opts Options) (*DAG, error) {
	if err := opts.validate(); err != nil {
		return nil, err
	}
	d := &DAG{data: oriented.New(firstInvalid), opts: opts}
	if opts.CacheReachability {
		d.canreach = oriented.New(firstInvalid)
	}
	return d, nil
}

// Options returns the construction-time option set.
func (d *DAG) Options() Options { return d.opts }

// FirstInvalid returns n such that the id space is [0, n).
func (d *DAG) FirstInvalid() VertexID { return d.data.FirstInvalid() }

// VertexExists reports whether v is live.
func (d *DAG) VertexExists(v VertexID) bool { return d.data.VertexExists(v) }

// VertexTag returns v's user tag.
func (d *DAG) VertexTag(v VertexID) (Tag, error) { return d.data.VertexTag(v) }

// SetVertexTag overwrites v's user tag.
func (d *DAG) SetVertexTag(v VertexID, tag Tag) error { return d.data.SetVertexTag(v, tag) }

// FlipVertexTag toggles v's user tag.
func (d *DAG) FlipVertexTag(v VertexID) error { return d.data.FlipVertexTag(v) }

// HasLinkage reports the physical connection state of the pair {a, b}.
func (d *DAG) HasLinkage(a, b VertexID) (oriented.Linkage, error) { return d.data.HasLinkage(a, b) }

// EdgeExists reports whether the physical edge from → to is present.
func (d *DAG) EdgeExists(from, to VertexID) bool { return d.data.EdgeExists(from, to) }

// Outgoing returns the targets of v's physical out-edges in ascending order.
func (d *DAG) Outgoing(v VertexID) []VertexID { return d.data.Outgoing(v) }

// Incoming returns the sources of v's physical in-edges in ascending order.
func (d *DAG) Incoming(v VertexID) []VertexID { return d.data.Incoming(v) }

// Edges returns every physical edge as ordered pairs, sorted by source then
// target. O(N²); meant for exports and harness comparisons, not hot paths.
func (d *DAG) Edges() [][2]VertexID {
	var out [][2]VertexID
	n := d.FirstInvalid()
	for v := VertexID(0); v < n; v++ {
		if !d.data.VertexExists(v) {
			continue
		}
		for _, w := range d.data.Outgoing(v) {
			out = append(out, [2]VertexID{v, w})
		}
	}
	return out
}

// OutDegree returns the number of physical out-edges of v.
func (d *DAG) OutDegree(v VertexID) int { return d.data.OutDegree(v) }

// InDegree returns the number of physical in-edges of v.
func (d *DAG) InDegree(v VertexID) int { return d.data.InDegree(v) }

// SetCapacityMaxValid resizes the id space of both graphs so that v is the
// highest valid id.
func (d *DAG) SetCapacityMaxValid(v VertexID) error {
	if err := d.data.SetCapacityMaxValid(v); err != nil {
		return err
	}
	if d.canreach != nil {
		if err := d.canreach.SetCapacityMaxValid(v); err != nil {
			panic(inconsistency("sidestructure capacity: %v", err))
		}
	}
	return nil
}

// SetCapacityFirstInvalid resizes the id space of both graphs to [0, v).
func (d *DAG) SetCapacityFirstInvalid(v VertexID) {
	d.data.SetCapacityFirstInvalid(v)
	if d.canreach != nil {
		d.canreach.SetCapacityFirstInvalid(v)
	}
}

// Grow extends the id space of both graphs so that maxValid becomes valid.
func (d *DAG) Grow(maxValid VertexID) error {
	if err := d.data.Grow(maxValid); err != nil {
		return err
	}
	if d.canreach != nil {
		if err := d.canreach.Grow(maxValid); err != nil {
			panic(inconsistency("sidestructure grow: %v", err))
		}
	}
	return nil
}

// Shrink reduces the id space of both graphs to [0, firstInvalid).
func (d *DAG) Shrink(firstInvalid VertexID) error {
	if err := d.data.Shrink(firstInvalid); err != nil {
		return err
	}
	if d.canreach != nil {
		if err := d.canreach.Shrink(firstInvalid); err != nil {
			panic(inconsistency("sidestructure shrink: %v", err))
		}
	}
	return nil
}

// CreateVertex brings v to life with [oriented.TagOne], growing the id
// space as needed.
func (d *DAG) CreateVertex(v VertexID) error {
	return d.CreateVertexTagged(v, oriented.TagOne)
}

// CreateVertexTagged is CreateVertex with an explicit user tag. The
// sidestructure row for a fresh vertex starts clean: an empty row is the
// exact closure of an unconnected vertex.
func (d *DAG) CreateVertexTagged(v VertexID, tag Tag) error {
	if err := d.data.CreateVertexTagged(v, tag); err != nil {
		return err
	}
	if d.canreach != nil {
		if err := d.canreach.CreateVertexTagged(v, tagClean); err != nil {
			panic(inconsistency("sidestructure rejected vertex creation: %v", err))
		}
	}
	return nil
}

// DestroyVertex removes v and all incident edges from both graphs and
// compacts the id space past trailing holes.
func (d *DAG) DestroyVertex(v VertexID) error {
	return d.destroyVertex(v, true)
}

// DestroyVertexNoCompact removes v but keeps the id space as is.
func (d *DAG) DestroyVertexNoCompact(v VertexID) error {
	return d.destroyVertex(v, false)
}

func (d *DAG) destroyVertex(v VertexID, compact bool) error {
	if !d.data.VertexExists(v) {
		return oriented.ErrVertexNotLive
	}

	// Retire the incident edges through ClearEdge first so the upstream
	// cones are dirtied; destroying the raw cells alone would leave clean
	// ancestor rows claiming reachability through v.
	if d.canreach != nil {
		for _, u := range d.data.Incoming(v) {
			if _, err := d.ClearEdge(u, v); err != nil {
				return err
			}
		}
		for _, w := range d.data.Outgoing(v) {
			if _, err := d.ClearEdge(v, w); err != nil {
				return err
			}
		}
	}

	if err := destroyIn(d.data, v, compact); err != nil {
		return err
	}
	if d.canreach != nil {
		if err := destroyIn(d.canreach, v, compact); err != nil {
			panic(inconsistency("sidestructure rejected vertex destruction: %v", err))
		}
	}
	return nil
}

func destroyIn(g *oriented.Graph, v VertexID, compact bool) error {
	if compact {
		return g.DestroyVertex(v)
	}
	return g.DestroyVertexNoCompact(v)
}
