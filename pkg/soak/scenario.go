package soak

import (
	"errors"
	"fmt"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/nocycle/pkg/dag"
)

// Engine modes selectable in a scenario file.
const (
	// ModeReachWithoutLink is the production configuration: cached
	// reachability with the per-edge reachable-without-edge cache.
	ModeReachWithoutLink = "reach-without-link"
	// ModeUserTristate caches reachability and leaves the per-edge cell to
	// the user, so the closure bookkeeping must survive without it.
	ModeUserTristate = "user-tristate"
	// ModeCached caches reachability with no per-edge interpretation.
	ModeCached = "cached"
	// ModeDFS disables the sidestructure entirely.
	ModeDFS = "dfs"
)

// ErrBadScenario is returned when a scenario's fields are out of range.
var ErrBadScenario = errors.New("invalid soak scenario")

// Scenario configures a randomized soak run. The TOML keys match the field
// tags; unset keys keep their defaults.
type Scenario struct {
	// Vertices is the number of vertices created before the run.
	Vertices int `toml:"vertices"`
	// Iterations is the number of random operations attempted.
	Iterations int `toml:"iterations"`
	// RemoveProbability is the chance in [0, 1) that an iteration removes a
	// random edge instead of inserting a random non-edge.
	RemoveProbability float64 `toml:"remove_probability"`
	// Seed feeds the deterministic random source; equal scenarios replay
	// identical operation sequences.
	Seed int64 `toml:"seed"`
	// Mode selects the engine variant; see the Mode constants.
	Mode string `toml:"mode"`
	// ConsistencyCheck audits the sidestructure after every mutation.
	// Quadratic per operation; keep Vertices small when set.
	ConsistencyCheck bool `toml:"consistency_check"`
}

// DefaultScenario is a dense-ish graph with four operations per vertex,
// small enough to finish in seconds on a laptop.
func DefaultScenario() Scenario {
	return Scenario{
		Vertices:          1024,
		Iterations:        4096,
		RemoveProbability: 0.125,
		Seed:              1,
		Mode:              ModeReachWithoutLink,
	}
}

// LoadScenario reads a TOML scenario file over the defaults.
func LoadScenario(path string) (Scenario, error) {
	sc := DefaultScenario()
	if _, err := toml.DecodeFile(path, &sc); err != nil {
		return Scenario{}, fmt.Errorf("load scenario %s: %w", path, err)
	}
	if err := sc.Validate(); err != nil {
		return Scenario{}, err
	}
	return sc, nil
}

// Validate checks field ranges and the mode name.
func (s Scenario) Validate() error {
	if s.Vertices < 2 {
		return fmt.Errorf("%w: vertices = %d, need at least 2", ErrBadScenario, s.Vertices)
	}
	if s.Iterations < 1 {
		return fmt.Errorf("%w: iterations = %d, need at least 1", ErrBadScenario, s.Iterations)
	}
	if s.RemoveProbability < 0 || s.RemoveProbability >= 1 {
		return fmt.Errorf("%w: remove_probability = %g, need [0, 1)", ErrBadScenario, s.RemoveProbability)
	}
	if _, err := s.EngineOptions(); err != nil {
		return err
	}
	return nil
}

// EngineOptions translates the scenario's mode into engine options.
func (s Scenario) EngineOptions() (dag.Options, error) {
	opts := dag.Options{ConsistencyCheck: s.ConsistencyCheck}
	switch s.Mode {
	case ModeReachWithoutLink:
		opts.CacheReachability = true
		opts.ReachWithoutLink = true
	case ModeUserTristate:
		opts.CacheReachability = true
		opts.UserTristate = true
	case ModeCached:
		opts.CacheReachability = true
	case ModeDFS:
		if s.ConsistencyCheck {
			return dag.Options{}, fmt.Errorf("%w: mode %q cannot audit a sidestructure", ErrBadScenario, s.Mode)
		}
	default:
		return dag.Options{}, fmt.Errorf("%w: unknown mode %q", ErrBadScenario, s.Mode)
	}
	return opts, nil
}
