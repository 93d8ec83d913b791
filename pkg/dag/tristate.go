package dag

import (
	"github.com/matzehuels/nocycle/pkg/oriented"
	"github.com/matzehuels/nocycle/pkg/trit"
)

// Reach-without-link interpretation of the per-edge tristate. The zero value
// deliberately means "reachable": a freshly repurposed cell whose closure
// bit was absent still satisfies the dirty-superset reading.
const (
	triReachableWithoutEdge    = trit.Trit(0)
	triNotReachableWithoutEdge = trit.Trit(1)
)

// Tristate returns the user tristate stored on the physical edge from → to.
// Available only when [Options.UserTristate] is set; the edge must exist.
func (d *DAG) Tristate(from, to VertexID) (trit.Trit, error) {
	if !d.opts.UserTristate {
		return 0, ErrTristateUnavailable
	}
	if err := d.requireEdge(from, to); err != nil {
		return 0, err
	}
	return d.edgeTristate(from, to), nil
}

// SetTristate stores a user tristate on the physical edge from → to. This is
// legal because, in the presence of a physical edge, the cell carries no
// closure data. Removing the edge discards the value.
func (d *DAG) SetTristate(from, to VertexID, t trit.Trit) error {
	if !d.opts.UserTristate {
		return ErrTristateUnavailable
	}
	if t > 2 {
		return trit.ErrInvalidTrit
	}
	if err := d.requireEdge(from, to); err != nil {
		return err
	}
	d.setEdgeTristate(from, to, t)
	return nil
}

// ReachableWithoutEdge reports the cached answer to "does from still reach
// to when the direct edge from → to is ignored". Available only when
// [Options.ReachWithoutLink] is set; the edge must exist. The cache carries
// the same one-sided slack as the rest of the sidestructure: it may claim
// reachability spuriously while from's row is dirty, never the reverse.
func (d *DAG) ReachableWithoutEdge(from, to VertexID) (bool, error) {
	if !d.opts.ReachWithoutLink {
		return false, ErrTristateUnavailable
	}
	if err := d.requireEdge(from, to); err != nil {
		return false, err
	}
	return d.edgeTristate(from, to) == triReachableWithoutEdge, nil
}

func (d *DAG) requireEdge(from, to VertexID) error {
	if from == to {
		return oriented.ErrSelfLoop
	}
	if !d.data.VertexExists(from) || !d.data.VertexExists(to) {
		return oriented.ErrVertexNotLive
	}
	if !d.data.EdgeExists(from, to) {
		return ErrEdgeNotPresent
	}
	return nil
}

// edgeTristate decodes the canreach cell of a physically linked pair as a
// tristate: absent = 0, forward = 1, reverse = 2.
func (d *DAG) edgeTristate(from, to VertexID) trit.Trit {
	link, err := d.canreach.HasLinkage(from, to)
	if err != nil {
		panic(inconsistency("tristate probe %d→%d: %v", from, to, err))
	}
	switch link {
	case oriented.LinkageForward:
		return 1
	case oriented.LinkageReverse:
		return 2
	default:
		return 0
	}
}

// setEdgeTristate encodes t into the canreach cell of a physically linked
// pair, clearing whichever direction conflicts first.
func (d *DAG) setEdgeTristate(from, to VertexID, t trit.Trit) {
	link, err := d.canreach.HasLinkage(from, to)
	if err != nil {
		panic(inconsistency("tristate write %d→%d: %v", from, to, err))
	}
	switch t {
	case 0:
		switch link {
		case oriented.LinkageForward:
			d.mustClearCell(from, to)
		case oriented.LinkageReverse:
			d.mustClearCell(to, from)
		}
	case 1:
		if link == oriented.LinkageReverse {
			d.mustClearCell(to, from)
		}
		d.mustSetCell(from, to)
	case 2:
		if link == oriented.LinkageForward {
			d.mustClearCell(from, to)
		}
		d.mustSetCell(to, from)
	default:
		panic(inconsistency("tristate value %d out of range", t))
	}
}

func (d *DAG) mustSetCell(from, to VertexID) {
	if _, err := d.canreach.SetEdge(from, to); err != nil {
		panic(inconsistency("cell write %d→%d: %v", from, to, err))
	}
}

func (d *DAG) mustClearCell(from, to VertexID) {
	if _, err := d.canreach.ClearEdge(from, to); err != nil {
		panic(inconsistency("cell clear %d→%d: %v", from, to, err))
	}
}
