package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/nocycle/pkg/dag"
	"github.com/matzehuels/nocycle/pkg/render"
)

// renderCommand creates the render command for visualizing edge lists.
func (c *CLI) renderCommand() *cobra.Command {
	var (
		output  string
		format  string
		bridges bool
	)

	cmd := &cobra.Command{
		Use:   "render [edges.txt]",
		Short: "Render an edge list as a Graphviz diagram",
		Long: `Replay an edge list through the engine and render the surviving graph.

Cycle-closing edges are dropped during replay, so the diagram always shows a
DAG. With --bridges, edges whose removal would disconnect their endpoints
are drawn red, using the engine's reach-without-link cache.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runRender(cmd, args[0], output, format, bridges)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: input name with format extension)")
	cmd.Flags().StringVarP(&format, "format", "f", "svg", "output format: dot, svg, png")
	cmd.Flags().BoolVar(&bridges, "bridges", false, "highlight edges with no alternative path")

	return cmd
}

func (c *CLI) runRender(cmd *cobra.Command, input, output, format string, bridges bool) error {
	format = strings.ToLower(format)
	switch format {
	case "dot", "svg", "png":
	default:
		return fmt.Errorf("unknown format %q (want dot, svg, or png)", format)
	}

	edges, err := readEdgeListFile(input)
	if err != nil {
		return err
	}

	d, rejected, err := replay(edges, dag.DefaultOptions())
	if err != nil {
		return err
	}
	if len(rejected) > 0 {
		c.Logger.Warn("dropped cycle-closing edges", "count", len(rejected))
	}

	dot := render.ToDOT(d, render.Options{HighlightBridges: bridges})

	var data []byte
	switch format {
	case "dot":
		data = []byte(dot)
	case "svg":
		data, err = render.RenderSVG(cmd.Context(), dot)
	case "png":
		data, err = render.RenderPNG(cmd.Context(), dot)
	}
	if err != nil {
		return fmt.Errorf("render %s: %w", format, err)
	}

	if output == "" {
		base := strings.TrimSuffix(input, filepath.Ext(input))
		output = base + "." + format
	}
	if err := os.WriteFile(output, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", output, err)
	}

	c.Logger.Info("rendered graph",
		"vertices", liveVertices(d), "edges", len(edges)-len(rejected), "output", output)
	return nil
}
