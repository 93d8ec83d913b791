package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/matzehuels/nocycle/pkg/dag"
)

// edge is one directed pair from an edge-list file, with its 1-based source
// line for error reporting.
type edge struct {
	from, to dag.VertexID
	line     int
}

// readEdgeListFile parses a whitespace edge-list file. Each non-empty line
// names one edge as "from to" or "from -> to"; '#' starts a comment.
func readEdgeListFile(path string) ([]edge, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	edges, err := readEdgeList(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return edges, nil
}

func readEdgeList(r io.Reader) ([]edge, error) {
	var edges []edge
	scanner := bufio.NewScanner(r)
	line := 0
	for scanner.Scan() {
		line++
		text := scanner.Text()
		if i := strings.IndexByte(text, '#'); i >= 0 {
			text = text[:i]
		}
		fields := strings.Fields(strings.ReplaceAll(text, "->", " "))
		if len(fields) == 0 {
			continue
		}
		if len(fields) != 2 {
			return nil, fmt.Errorf("line %d: want \"from to\", got %q", line, scanner.Text())
		}
		from, err := parseVertexID(fields[0])
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		to, err := parseVertexID(fields[1])
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		edges = append(edges, edge{from: from, to: to, line: line})
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return edges, nil
}

func parseVertexID(s string) (dag.VertexID, error) {
	v, err := strconv.ParseUint(s, 10, 32)
	if err != nil {
		return 0, fmt.Errorf("vertex id %q: %w", s, err)
	}
	return dag.VertexID(v), nil
}

// replay feeds the edges into a fresh engine, creating vertices on first
// sight. Rejected edges are collected, not fatal: the point of the engine is
// that the rest of the graph stays intact.
func replay(edges []edge, opts dag.Options) (*dag.DAG, []edge, error) {
	d, err := dag.New(0, opts)
	if err != nil {
		return nil, nil, err
	}

	var rejected []edge
	for _, e := range edges {
		for _, v := range []dag.VertexID{e.from, e.to} {
			if !d.VertexExists(v) {
				if err := d.CreateVertex(v); err != nil {
					return nil, nil, fmt.Errorf("line %d: create vertex %d: %w", e.line, v, err)
				}
			}
		}
		if _, err := d.SetEdge(e.from, e.to); err != nil {
			if errors.Is(err, dag.ErrWouldCycle) {
				rejected = append(rejected, e)
				continue
			}
			return nil, nil, fmt.Errorf("line %d: edge %d→%d: %w", e.line, e.from, e.to, err)
		}
	}
	return d, rejected, nil
}
