// Package render turns a DAG engine's data graph into Graphviz DOT and
// rasterized images.
//
// Rendering reads only the public engine surface: vertex existence, user
// tags, edges, and (when the engine runs in reach-without-link mode) the
// per-edge reachability cache, which lets the diagram highlight bridge
// edges whose removal would disconnect their endpoints.
package render

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/matzehuels/nocycle/pkg/dag"
	"github.com/matzehuels/nocycle/pkg/oriented"
)

// Options configures DOT generation.
type Options struct {
	// HighlightBridges colors edges red when the engine's cache says the
	// target would be unreachable without them. Ignored unless the engine
	// runs in reach-without-link mode.
	HighlightBridges bool

	// RankDir sets the Graphviz layout direction; empty means "TB".
	RankDir string
}

// ToDOT converts the engine's data graph to Graphviz DOT. Vertices carrying
// [oriented.TagTwo] are drawn filled to keep the two-state tag visible.
func ToDOT(d *dag.DAG, opts Options) string {
	rankdir := opts.RankDir
	if rankdir == "" {
		rankdir = "TB"
	}

	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	fmt.Fprintf(&buf, "  rankdir=%s;\n", rankdir)
	buf.WriteString("  node [shape=circle, fontsize=12, margin=\"0.05,0.05\"];\n")
	buf.WriteString("\n")

	n := d.FirstInvalid()
	for v := dag.VertexID(0); v < n; v++ {
		if !d.VertexExists(v) {
			continue
		}
		attrs := []string{fmt.Sprintf("label=%q", fmt.Sprintf("%d", v))}
		if tag, err := d.VertexTag(v); err == nil && tag == oriented.TagTwo {
			attrs = append(attrs, "style=filled", "fillcolor=lightgrey")
		}
		fmt.Fprintf(&buf, "  %d [%s];\n", v, strings.Join(attrs, ", "))
	}

	buf.WriteString("\n")
	bridges := opts.HighlightBridges && d.Options().ReachWithoutLink
	for _, e := range d.Edges() {
		attrs := ""
		if bridges {
			if reachable, err := d.ReachableWithoutEdge(e[0], e[1]); err == nil && !reachable {
				attrs = " [color=red]"
			}
		}
		fmt.Fprintf(&buf, "  %d -> %d%s;\n", e[0], e[1], attrs)
	}

	buf.WriteString("}\n")
	return buf.String()
}
