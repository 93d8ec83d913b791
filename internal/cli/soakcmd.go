package cli

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/nocycle/pkg/soak"
)

// soakCommand creates the soak command: a randomized engine-vs-oracle run.
func (c *CLI) soakCommand() *cobra.Command {
	var (
		configPath string
		seed       int64
		plain      bool
	)

	cmd := &cobra.Command{
		Use:   "soak",
		Short: "Run a randomized equivalence and timing soak against the oracle",
		Long: `Drive the engine and a map-based reference DAG through the same random
insert/remove sequence. The run fails if the two ever disagree on a cycle
rejection or end with different edge sets.

Scenario dimensions (vertex count, iterations, removal probability, seed,
engine mode) come from a TOML file; unset keys keep their defaults.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			sc, err := loadScenario(configPath)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("seed") {
				sc.Seed = seed
			}
			return c.runSoak(cmd.Context(), cmd.OutOrStdout(), sc, plain)
		},
	}

	cmd.Flags().StringVar(&configPath, "config", "", "TOML scenario file")
	cmd.Flags().Int64Var(&seed, "seed", 1, "override the scenario seed")
	cmd.Flags().BoolVar(&plain, "plain", false, "disable the progress display")

	return cmd
}

// auditCommand creates the audit command: a small soak with the O(N²)
// consistency check after every mutation.
func (c *CLI) auditCommand() *cobra.Command {
	var (
		configPath string
		seed       int64
	)

	cmd := &cobra.Command{
		Use:   "audit",
		Short: "Run a small soak with per-operation sidestructure audits",
		Long: `Like soak, but the engine re-verifies the reachability sidestructure
against ground truth after every single mutation. Quadratic per operation,
so the default dimensions are small.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			sc, err := loadAuditScenario(configPath)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("seed") {
				sc.Seed = seed
			}
			return c.runSoak(cmd.Context(), cmd.OutOrStdout(), sc, true)
		},
	}

	cmd.Flags().StringVar(&configPath, "config", "", "TOML scenario file")
	cmd.Flags().Int64Var(&seed, "seed", 1, "override the scenario seed")

	return cmd
}

func loadScenario(path string) (soak.Scenario, error) {
	if path == "" {
		return soak.DefaultScenario(), nil
	}
	return soak.LoadScenario(path)
}

// loadAuditScenario shrinks the defaults to keep the quadratic audit fast
// and forces the consistency check on.
func loadAuditScenario(path string) (soak.Scenario, error) {
	sc := soak.DefaultScenario()
	sc.Vertices = 64
	sc.Iterations = 512
	if path != "" {
		loaded, err := soak.LoadScenario(path)
		if err != nil {
			return soak.Scenario{}, err
		}
		sc = loaded
	}
	sc.ConsistencyCheck = true
	return sc, sc.Validate()
}

func (c *CLI) runSoak(ctx context.Context, out io.Writer, sc soak.Scenario, plain bool) error {
	var (
		result *soak.Result
		err    error
	)
	if plain {
		result, err = soak.Run(ctx, sc, c.Logger, nil)
	} else {
		// The progress display owns the terminal; the run logs are muted
		// and the summary is printed afterwards.
		muted := log.New(io.Discard)
		result, err = runSoakWithProgress(ctx, sc, muted)
	}
	if err != nil {
		return err
	}

	fmt.Fprint(out, summaryTable("Soak "+result.RunID[:8], [][]string{
		{"mode", sc.Mode},
		{"vertices", strconv.Itoa(sc.Vertices)},
		{"seed", strconv.FormatInt(sc.Seed, 10)},
		{"inserted", strconv.Itoa(result.Inserted)},
		{"removed", strconv.Itoa(result.Removed)},
		{"cycles rejected", strconv.Itoa(result.CyclesRejected)},
		{"final edges", strconv.Itoa(result.FinalEdges)},
		{"add time", result.AddTime.Round(time.Millisecond).String()},
		{"remove time", result.RemoveTime.Round(time.Millisecond).String()},
		{"elapsed", result.Elapsed.Round(time.Millisecond).String()},
	}))
	fmt.Fprintln(out, styleSuccess.Render("engine matches oracle"))
	return nil
}
