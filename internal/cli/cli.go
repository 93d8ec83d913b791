// Package cli implements the nocycle command-line interface.
//
// The CLI is a thin driver over the engine library: it replays edge lists
// through the cycle-rejecting DAG, renders the resulting graph with
// Graphviz, and runs the randomized soak/audit harnesses. Commands are built
// with cobra; logging uses charmbracelet/log with the logger held on the
// CLI value shared by every command.
//
// # Commands
//
//   - check: replay an edge-list file, reporting accepted and rejected edges
//   - render: replay an edge-list file and write a DOT/SVG/PNG diagram
//   - soak: randomized engine-vs-oracle equivalence and timing run
//   - audit: small soak run with per-operation consistency auditing
package cli

import (
	"io"

	"github.com/charmbracelet/log"
)

// appName is the binary name used in help output.
const appName = "nocycle"

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger
}

// New creates a CLI writing timestamped logs to w at the given level.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: log.NewWithOptions(w, log.Options{
			ReportTimestamp: true,
			TimeFormat:      "15:04:05.00",
			Level:           level,
		}),
	}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}
