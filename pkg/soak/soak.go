// Package soak drives the packed DAG engine and the map-based oracle through
// identical random operation sequences, verifying that both reject the same
// cycles and converge on the same edge set while timing the engine's
// mutations.
//
// The harness is the randomized half of the engine's test strategy: the unit
// suites pin concrete seed scenarios, the soak run explores the state space.
// It also doubles as the performance driver; add/remove wall-clock totals
// land in the [Result].
package soak

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"slices"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/matzehuels/nocycle/pkg/dag"
	"github.com/matzehuels/nocycle/pkg/oracle"
	"github.com/matzehuels/nocycle/pkg/randedge"
)

// ErrDiverged is returned when engine and oracle disagree. It always
// indicates an engine bug.
var ErrDiverged = errors.New("engine diverged from oracle")

// Result accumulates the outcome of one soak run.
type Result struct {
	// RunID uniquely identifies the run in logs and reports.
	RunID string
	// Scenario is the configuration the run executed.
	Scenario Scenario

	Inserted       int // edges successfully inserted
	Removed        int // edges removed
	CyclesRejected int // insertions rejected by both engine and oracle
	FinalEdges     int // edges present when the run finished

	AddTime    time.Duration // engine time spent in SetEdge
	RemoveTime time.Duration // engine time spent in ClearEdge
	Elapsed    time.Duration // wall clock for the whole run
}

// ProgressFunc receives the completed and total iteration counts. It is
// called once per iteration from the run's goroutine.
type ProgressFunc func(done, total int)

// Run executes the scenario. The engine and the oracle receive the same
// operations in the same order; any disagreement fails the run with
// ErrDiverged. A nil logger defaults to [log.Default]; progress may be nil.
func Run(ctx context.Context, sc Scenario, logger *log.Logger, progress ProgressFunc) (*Result, error) {
	if logger == nil {
		logger = log.Default()
	}
	if err := sc.Validate(); err != nil {
		return nil, err
	}
	opts, err := sc.EngineOptions()
	if err != nil {
		return nil, err
	}

	engine, err := dag.New(dag.VertexID(sc.Vertices), opts)
	if err != nil {
		return nil, fmt.Errorf("construct engine: %w", err)
	}
	ref := oracle.New()

	rng := rand.New(rand.NewSource(sc.Seed))
	picker := randedge.New(engine, rng)

	for v := dag.VertexID(0); v < dag.VertexID(sc.Vertices); v++ {
		if err := picker.CreateVertex(v); err != nil {
			return nil, fmt.Errorf("create vertex %d: %w", v, err)
		}
		if err := ref.CreateVertex(v); err != nil {
			return nil, fmt.Errorf("create oracle vertex %d: %w", v, err)
		}
	}

	result := &Result{RunID: uuid.NewString(), Scenario: sc}
	logger.Info("soak run starting",
		"run", result.RunID, "mode", sc.Mode,
		"vertices", sc.Vertices, "iterations", sc.Iterations, "seed", sc.Seed)

	start := time.Now()
	for i := 0; i < sc.Iterations; i++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		remove := picker.EdgeCount() > 0 && rng.Float64() < sc.RemoveProbability
		if remove {
			if err := removeRandomEdge(picker, ref, result); err != nil {
				return nil, err
			}
		} else {
			if err := insertRandomNonEdge(picker, ref, result, logger); err != nil {
				if errors.Is(err, randedge.ErrNoNonEdge) {
					logger.Warn("graph saturated, stopping early", "iteration", i)
					break
				}
				return nil, err
			}
		}

		if progress != nil {
			progress(i+1, sc.Iterations)
		}
	}
	result.Elapsed = time.Since(start)

	if err := compareEdgeSets(engine, ref); err != nil {
		return nil, err
	}
	result.FinalEdges = ref.EdgeCount()

	logger.Info("soak run finished",
		"run", result.RunID,
		"inserted", result.Inserted, "removed", result.Removed,
		"cycles_rejected", result.CyclesRejected, "final_edges", result.FinalEdges,
		"add_time", result.AddTime.Round(time.Millisecond),
		"remove_time", result.RemoveTime.Round(time.Millisecond),
		"elapsed", result.Elapsed.Round(time.Millisecond))
	return result, nil
}

func removeRandomEdge(picker *randedge.Picker, ref *oracle.Graph, result *Result) error {
	from, to, err := picker.RandomEdge()
	if err != nil {
		return err
	}

	begin := time.Now()
	engineChanged, engineErr := picker.ClearEdge(from, to)
	result.RemoveTime += time.Since(begin)

	refChanged, refErr := ref.ClearEdge(from, to)
	if engineErr != nil || refErr != nil {
		return fmt.Errorf("%w: ClearEdge(%d,%d) engine err %v, oracle err %v",
			ErrDiverged, from, to, engineErr, refErr)
	}
	if !engineChanged || !refChanged {
		return fmt.Errorf("%w: ClearEdge(%d,%d) engine changed %v, oracle changed %v",
			ErrDiverged, from, to, engineChanged, refChanged)
	}
	result.Removed++
	return nil
}

func insertRandomNonEdge(picker *randedge.Picker, ref *oracle.Graph, result *Result, logger *log.Logger) error {
	from, to, err := picker.RandomNonEdge()
	if err != nil {
		return err
	}

	begin := time.Now()
	_, engineErr := picker.SetEdge(from, to)
	result.AddTime += time.Since(begin)

	_, refErr := ref.SetEdge(from, to)

	engineCycle := errors.Is(engineErr, dag.ErrWouldCycle)
	refCycle := errors.Is(refErr, dag.ErrWouldCycle)
	switch {
	case engineCycle && refCycle:
		result.CyclesRejected++
		logger.Debug("cycle rejected", "from", from, "to", to)
	case engineErr == nil && refErr == nil:
		result.Inserted++
	default:
		return fmt.Errorf("%w: SetEdge(%d,%d) engine err %v, oracle err %v",
			ErrDiverged, from, to, engineErr, refErr)
	}
	return nil
}

func compareEdgeSets(engine *dag.DAG, ref *oracle.Graph) error {
	got := engine.Edges()
	want := ref.Edges()
	if !slices.Equal(got, want) {
		return fmt.Errorf("%w: final edge sets differ (engine %d edges, oracle %d edges)",
			ErrDiverged, len(got), len(want))
	}
	return nil
}
