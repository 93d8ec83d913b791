package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var (
	version = "dev" // semantic version (e.g., "v1.2.3")
	commit  = ""    // git commit SHA
	date    = ""    // build timestamp
)

// SetVersion sets the version information displayed by --version. Typically
// called by the main package with values injected via ldflags.
func SetVersion(v, c, d string) {
	version = v
	commit = c
	date = d
}

// RootCommand builds the nocycle command tree.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          appName,
		Short:        "nocycle maintains directed acyclic graphs under churn",
		Long:         `nocycle is an incremental DAG engine: it accepts arbitrary edge insertions and deletions, rejecting any insertion that would introduce a cycle, with reachability cached in a packed ternary sidestructure.`,
		Version:      version,
		SilenceUsage: true,
	}

	root.SetVersionTemplate(fmt.Sprintf("%s %s\ncommit: %s\nbuilt: %s\n", appName, version, commit, date))

	root.AddCommand(c.checkCommand())
	root.AddCommand(c.renderCommand())
	root.AddCommand(c.soakCommand())
	root.AddCommand(c.auditCommand())

	return root
}
