package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/matzehuels/nocycle/pkg/dag"
)

// checkCommand creates the check command for replaying edge lists.
func (c *CLI) checkCommand() *cobra.Command {
	var noCache bool

	cmd := &cobra.Command{
		Use:   "check [edges.txt]",
		Short: "Replay an edge list, rejecting edges that would form cycles",
		Long: `Replay an edge list through the engine.

The input names one directed edge per line as "from to" or "from -> to",
with '#' starting comments. Vertices are created on first sight. Edges that
would close a cycle are rejected and reported; the remaining graph is kept.

The command exits non-zero when any edge was rejected, so it doubles as an
acyclicity check in scripts.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := dag.DefaultOptions()
			if noCache {
				opts = dag.Options{}
			}
			return c.runCheck(args[0], opts, cmd)
		},
	}

	cmd.Flags().BoolVar(&noCache, "no-cache", false, "answer reachability by DFS instead of the cached sidestructure")

	return cmd
}

func (c *CLI) runCheck(input string, opts dag.Options, cmd *cobra.Command) error {
	edges, err := readEdgeListFile(input)
	if err != nil {
		return err
	}

	d, rejected, err := replay(edges, opts)
	if err != nil {
		return err
	}

	for _, e := range rejected {
		fmt.Fprintf(cmd.OutOrStdout(), "%s line %d: %d -> %d\n",
			styleReject.Render("cycle"), e.line, e.from, e.to)
	}

	accepted := len(edges) - len(rejected)
	fmt.Fprint(cmd.OutOrStdout(), summaryTable("Replay", [][]string{
		{"vertices", strconv.FormatUint(uint64(liveVertices(d)), 10)},
		{"accepted", strconv.Itoa(accepted)},
		{"rejected", strconv.Itoa(len(rejected))},
	}))

	if len(rejected) > 0 {
		return fmt.Errorf("%d edge(s) rejected", len(rejected))
	}
	return nil
}

func liveVertices(d *dag.DAG) uint32 {
	var count uint32
	for v := dag.VertexID(0); v < d.FirstInvalid(); v++ {
		if d.VertexExists(v) {
			count++
		}
	}
	return count
}
