package cli

import (
	"context"
	"os"

	"github.com/spf13/cobra"

	"github.com/matzehuels/treemap/pkg/observability"
)

// Execute runs the treemap CLI until ctx is cancelled and returns the first
// command error.
//
// Logging goes to stderr at info level. --verbose switches to debug level
// and traces pipeline, cache and HTTP events.
func Execute(ctx context.Context) error {
	var verbose bool

	c := New(os.Stderr, LogInfo)
	root := c.RootCommand()
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")

	preRun := root.PersistentPreRun
	root.PersistentPreRun = func(cmd *cobra.Command, args []string) {
		if verbose {
			c.SetLogLevel(LogDebug)
			observability.NewLogHooks(c.Logger).Install()
		}
		preRun(cmd, args)
	}

	return root.ExecuteContext(ctx)
}
