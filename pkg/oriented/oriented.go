// Package oriented implements a compact adjacency store for oriented graphs:
// directed graphs in which each vertex pair carries at most one of the two
// possible directed edges.
//
// Vertices are dense uint32 ids. Each unordered pair {s, l} with s < l costs
// one ternary digit (no edge / low-points-high / high-points-low) and each
// vertex costs one more digit (not live / live tagged one / live tagged two),
// all packed into a single [trit.Array].
//
// # Layout
//
// The existence cell of vertex v sits at triangular index E(v) = v(v+1)/2 and
// the connection cell of {s, l} at C(s, l) = E(l) + (l − s). The first E(v+1)
// cells therefore describe exactly the subgraph induced by [0, v], so the
// store grows and shrinks one vertex at a time without relocating any
// previously written cell. This is why the matrix is not row-major.
package oriented

import (
	"errors"
	"math"

	"github.com/matzehuels/nocycle/pkg/trit"
)

var (
	// ErrVertexNotLive is returned when an operation names a vertex that was
	// never created or has been destroyed.
	ErrVertexNotLive = errors.New("vertex is not live")

	// ErrVertexAlreadyLive is returned by [Graph.CreateVertex] when the id is
	// already occupied.
	ErrVertexAlreadyLive = errors.New("vertex is already live")

	// ErrSelfLoop is returned by edge operations when from == to.
	ErrSelfLoop = errors.New("self loops are not representable")

	// ErrConflictingReverseEdge is returned by [Graph.SetEdge] when the
	// opposite direction is already present for the pair. An oriented graph
	// holds at most one direction per pair; callers must clear the reverse
	// edge first.
	ErrConflictingReverseEdge = errors.New("reverse edge already present for pair")

	// ErrReservedID is returned when an operation names the maximum uint32
	// id, which is reserved as the "no vertex" sentinel.
	ErrReservedID = errors.New("vertex id is reserved")

	// ErrInvalidTag is returned when a tag value outside {TagOne, TagTwo}
	// is written; anything else would corrupt the existence cell.
	ErrInvalidTag = errors.New("invalid vertex tag")

	// ErrCapacityOrder is returned by [Graph.Grow] and [Graph.Shrink] when
	// the requested capacity does not move in the method's direction.
	ErrCapacityOrder = errors.New("capacity change in wrong direction")
)

// VertexID identifies a vertex. Ids are allocated densely from 0.
type VertexID uint32

// InvalidID is the reserved sentinel meaning "no vertex". It can never be
// created.
const InvalidID VertexID = math.MaxUint32

// Tag is the two-state property carried by every live vertex. The package
// attaches no meaning to it; callers may repurpose it freely (the DAG engine
// uses the tag of its reachability sidestructure as a clean/dirty marker).
type Tag uint8

const (
	// TagOne is the default tag for newly created vertices.
	TagOne Tag = 1
	// TagTwo is the alternative tag.
	TagTwo Tag = 2
)

// Linkage describes the direction of the connection between an ordered
// vertex pair (from, to).
type Linkage uint8

const (
	// LinkageNone means the pair is unconnected.
	LinkageNone Linkage = iota
	// LinkageForward means the edge from → to is present.
	LinkageForward
	// LinkageReverse means the edge to → from is present.
	LinkageReverse
)

// =============================================================================
// Triangular Layout
// =============================================================================

// existenceIndex returns E(v) = v(v+1)/2, the cell holding v's existence.
func existenceIndex(v VertexID) int {
	return int(uint64(v) * (uint64(v) + 1) / 2)
}

// connectionIndex returns C(s, l) = E(l) + (l − s), the cell holding the
// connection trit for the pair {s, l}. Requires s < l.
func connectionIndex(s, l VertexID) int {
	return existenceIndex(l) + int(l-s)
}

// triangularVertex returns the largest v with E(v) <= pos. The float root is
// only a first guess (8·pos does not even fit a uint64 near the id ceiling);
// the correction loops make the result exact where float64 loses precision.
func triangularVertex(pos int) VertexID {
	guess := uint64((math.Sqrt(8*float64(pos)+1) - 1) / 2)
	if guess > uint64(InvalidID) {
		guess = uint64(InvalidID)
	}
	v := VertexID(guess)
	for v < InvalidID && existenceIndex(v+1) <= pos {
		v++
	}
	for v > 0 && existenceIndex(v) > pos {
		v--
	}
	return v
}

// vertexFromExistenceIndex inverts E. The second result reports whether pos
// is in fact an existence cell.
func vertexFromExistenceIndex(pos int) (VertexID, bool) {
	v := triangularVertex(pos)
	return v, existenceIndex(v) == pos
}

// verticesFromConnectionIndex inverts C, returning the pair (s, l) with
// s < l. pos must be a connection cell, not an existence cell.
func verticesFromConnectionIndex(pos int) (s, l VertexID) {
	l = triangularVertex(pos)
	s = l - VertexID(pos-existenceIndex(l))
	return s, l
}

// =============================================================================
// Graph
// =============================================================================

// Existence cell values. The live states double as the vertex tag.
const (
	cellNotLive = trit.Trit(0)
)

// Connection cell values.
const (
	cellNoEdge    = trit.Trit(0)
	cellLowToHigh = trit.Trit(1)
	cellHighToLow = trit.Trit(2)
)

// Graph is the packed oriented-graph adjacency store.
//
// The id space is [0, FirstInvalid). Within it, ids are live or holes;
// queries on holes report no edges rather than failing, while mutations on
// holes return ErrVertexNotLive.
//
// Graph is not safe for concurrent use without external synchronization.
type Graph struct {
	cells *trit.Array
}

// New creates a graph whose id space covers [0, firstInvalid), with no live
// vertices.
func New(firstInvalid VertexID) *Graph {
	g := &Graph{cells: trit.NewArray(0)}
	g.SetCapacityFirstInvalid(firstInvalid)
	return g
}

// FirstInvalid returns n such that the id space is [0, n). It is recovered
// from the backing array length by inverting the triangular layout.
func (g *Graph) FirstInvalid() VertexID {
	if g.cells.Len() == 0 {
		return 0
	}
	v, exact := vertexFromExistenceIndex(g.cells.Len())
	if !exact {
		panic("oriented: backing array length is not a triangular boundary")
	}
	return v
}

// MaxValid returns the highest id inside the id space. ok is false when the
// id space is empty.
func (g *Graph) MaxValid() (v VertexID, ok bool) {
	n := g.FirstInvalid()
	if n == 0 {
		return InvalidID, false
	}
	return n - 1, true
}

// SetCapacityMaxValid resizes the id space so that v is the highest valid
// id. Cells for ids entering the space start empty; cells for ids leaving it
// are discarded.
func (g *Graph) SetCapacityMaxValid(v VertexID) error {
	if v == InvalidID {
		return ErrReservedID
	}
	g.cells.Resize(existenceIndex(v + 1))
	return nil
}

// SetCapacityFirstInvalid resizes the id space to [0, v).
func (g *Graph) SetCapacityFirstInvalid(v VertexID) {
	if v == 0 {
		g.cells.Resize(0)
		return
	}
	g.cells.Resize(existenceIndex(v))
}

// Grow extends the id space so that maxValid becomes valid. It returns
// ErrCapacityOrder if the id is already inside the space.
func (g *Graph) Grow(maxValid VertexID) error {
	if maxValid < g.FirstInvalid() {
		return ErrCapacityOrder
	}
	return g.SetCapacityMaxValid(maxValid)
}

// Shrink reduces the id space to [0, firstInvalid). It returns
// ErrCapacityOrder if the space is already that small or smaller.
func (g *Graph) Shrink(firstInvalid VertexID) error {
	if firstInvalid >= g.FirstInvalid() {
		return ErrCapacityOrder
	}
	g.SetCapacityFirstInvalid(firstInvalid)
	return nil
}

// =============================================================================
// Vertex Existence & Tags
// =============================================================================

// VertexExists reports whether v is live. Ids outside the current space are
// simply not live.
func (g *Graph) VertexExists(v VertexID) bool {
	if v >= g.FirstInvalid() {
		return false
	}
	return g.cells.Get(existenceIndex(v)) != cellNotLive
}

// CreateVertex brings v to life with [TagOne], growing the id space if v is
// beyond it. It returns ErrReservedID for the sentinel id and
// ErrVertexAlreadyLive if v is occupied.
func (g *Graph) CreateVertex(v VertexID) error {
	return g.CreateVertexTagged(v, TagOne)
}

// CreateVertexTagged is CreateVertex with an explicit initial tag.
func (g *Graph) CreateVertexTagged(v VertexID, tag Tag) error {
	if v == InvalidID {
		return ErrReservedID
	}
	if tag != TagOne && tag != TagTwo {
		return ErrInvalidTag
	}
	if v >= g.FirstInvalid() {
		if err := g.SetCapacityMaxValid(v); err != nil {
			return err
		}
	} else if g.VertexExists(v) {
		return ErrVertexAlreadyLive
	}
	g.cells.Set(existenceIndex(v), trit.Trit(tag))
	return nil
}

// VertexTag returns v's tag, or ErrVertexNotLive.
func (g *Graph) VertexTag(v VertexID) (Tag, error) {
	if !g.VertexExists(v) {
		return 0, ErrVertexNotLive
	}
	return Tag(g.cells.Get(existenceIndex(v))), nil
}

// SetVertexTag overwrites v's tag, or returns ErrVertexNotLive.
func (g *Graph) SetVertexTag(v VertexID, tag Tag) error {
	if tag != TagOne && tag != TagTwo {
		return ErrInvalidTag
	}
	if !g.VertexExists(v) {
		return ErrVertexNotLive
	}
	g.cells.Set(existenceIndex(v), trit.Trit(tag))
	return nil
}

// FlipVertexTag toggles v's tag between [TagOne] and [TagTwo].
func (g *Graph) FlipVertexTag(v VertexID) error {
	tag, err := g.VertexTag(v)
	if err != nil {
		return err
	}
	if tag == TagOne {
		tag = TagTwo
	} else {
		tag = TagOne
	}
	return g.SetVertexTag(v, tag)
}

// DestroyVertex clears all of v's incident connections and its existence
// cell, then shrinks the id space past any trailing run of holes, so
// FirstInvalid lands one past the highest live id.
func (g *Graph) DestroyVertex(v VertexID) error {
	return g.destroy(v, true)
}

// DestroyVertexNoCompact destroys v but keeps the id space as is, leaving a
// hole that a later CreateVertex may refill.
func (g *Graph) DestroyVertexNoCompact(v VertexID) error {
	return g.destroy(v, false)
}

func (g *Graph) destroy(v VertexID, compact bool) error {
	if !g.VertexExists(v) {
		return ErrVertexNotLive
	}
	n := g.FirstInvalid()
	for u := VertexID(0); u < n; u++ {
		if u == v {
			continue
		}
		s, l := orderPair(v, u)
		g.cells.Set(connectionIndex(s, l), cellNoEdge)
	}
	g.cells.Set(existenceIndex(v), cellNotLive)

	if compact {
		for n > 0 && g.cells.Get(existenceIndex(n-1)) == cellNotLive {
			n--
		}
		g.SetCapacityFirstInvalid(n)
	}
	return nil
}

// =============================================================================
// Edges
// =============================================================================

// HasLinkage reports the connection state of the pair {a, b} relative to the
// argument order. Pairs involving a non-live vertex report LinkageNone; a
// self pair returns ErrSelfLoop.
func (g *Graph) HasLinkage(a, b VertexID) (Linkage, error) {
	if a == b {
		return LinkageNone, ErrSelfLoop
	}
	if !g.VertexExists(a) || !g.VertexExists(b) {
		return LinkageNone, nil
	}
	s, l := orderPair(a, b)
	switch g.cells.Get(connectionIndex(s, l)) {
	case cellNoEdge:
		return LinkageNone, nil
	case cellLowToHigh:
		if a == s {
			return LinkageForward, nil
		}
		return LinkageReverse, nil
	default: // cellHighToLow
		if a == l {
			return LinkageForward, nil
		}
		return LinkageReverse, nil
	}
}

// EdgeExists reports whether the directed edge from → to is present.
func (g *Graph) EdgeExists(from, to VertexID) bool {
	link, err := g.HasLinkage(from, to)
	return err == nil && link == LinkageForward
}

// SetEdge writes the directed edge from → to. It reports true when the edge
// is new and false when it was already present (an idempotent no-op).
// Setting an edge whose reverse is present fails with
// ErrConflictingReverseEdge and leaves the pair untouched.
func (g *Graph) SetEdge(from, to VertexID) (bool, error) {
	if from == to {
		return false, ErrSelfLoop
	}
	if !g.VertexExists(from) || !g.VertexExists(to) {
		return false, ErrVertexNotLive
	}
	s, l := orderPair(from, to)
	idx := connectionIndex(s, l)
	want := cellLowToHigh
	if from == l {
		want = cellHighToLow
	}
	switch g.cells.Get(idx) {
	case want:
		return false, nil
	case cellNoEdge:
		g.cells.Set(idx, want)
		return true, nil
	default:
		return false, ErrConflictingReverseEdge
	}
}

// ClearEdge removes the directed edge from → to if present and reports
// whether it did. A reverse or absent connection is left untouched and
// reported false.
func (g *Graph) ClearEdge(from, to VertexID) (bool, error) {
	if from == to {
		return false, ErrSelfLoop
	}
	if !g.VertexExists(from) || !g.VertexExists(to) {
		return false, ErrVertexNotLive
	}
	s, l := orderPair(from, to)
	idx := connectionIndex(s, l)
	want := cellLowToHigh
	if from == l {
		want = cellHighToLow
	}
	if g.cells.Get(idx) != want {
		return false, nil
	}
	g.cells.Set(idx, cellNoEdge)
	return true, nil
}

// =============================================================================
// Enumeration
// =============================================================================

// Outgoing returns the targets of v's outgoing edges in ascending order, or
// nil when v is not live.
func (g *Graph) Outgoing(v VertexID) []VertexID {
	return g.neighbors(v, true)
}

// Incoming returns the sources of v's incoming edges in ascending order, or
// nil when v is not live.
func (g *Graph) Incoming(v VertexID) []VertexID {
	return g.neighbors(v, false)
}

// OutDegree returns the number of outgoing edges of v.
func (g *Graph) OutDegree(v VertexID) int { return len(g.neighbors(v, true)) }

// InDegree returns the number of incoming edges of v.
func (g *Graph) InDegree(v VertexID) int { return len(g.neighbors(v, false)) }

func (g *Graph) neighbors(v VertexID, outgoing bool) []VertexID {
	if !g.VertexExists(v) {
		return nil
	}
	var result []VertexID
	n := g.FirstInvalid()
	for u := VertexID(0); u < n; u++ {
		if u == v {
			continue
		}
		s, l := orderPair(v, u)
		cell := g.cells.Get(connectionIndex(s, l))
		if cell == cellNoEdge {
			continue
		}
		vPointsU := (cell == cellLowToHigh) == (v == s)
		if vPointsU == outgoing {
			result = append(result, u)
		}
	}
	return result
}

func orderPair(a, b VertexID) (s, l VertexID) {
	if a < b {
		return a, b
	}
	return b, a
}
