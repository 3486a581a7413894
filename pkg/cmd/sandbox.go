package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/kpcyrd/sn0int/pkg/sandbox"
	"github.com/kpcyrd/sn0int/pkg/worker"
)

// newSandboxCmd builds the internal "sandbox <label>" subcommand every
// module invocation re-execs into (pkg/supervisor.spawnChild). It is
// hidden from --help since analysts never invoke it directly, only the
// supervisor does, over a pair of pipes wired to this process's
// stdin/stdout (SPEC_FULL.md §4.1/§4.2).
func newSandboxCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:    "sandbox <label>",
		Hidden: true,
		Args:   cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			requireSandbox := app.Config != nil && app.Config.Core.RequireSandbox
			if err := sandbox.Init(requireSandbox, func(msg string) {
				fmt.Fprintln(os.Stderr, "sandbox warning:", msg)
			}); err != nil {
				return fmt.Errorf("failed to initialize sandbox for %s: %w", args[0], err)
			}
			return worker.Run(os.Stdin, os.Stdout)
		},
	}
	return cmd
}
