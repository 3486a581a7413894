package cmd

import (
	"github.com/spf13/cobra"
)

// NewRootCommand builds the full command tree rooted at "sn0int" (spec
// §6.3). app is shared by every subcommand; pkg/shell builds a fresh
// root command per input line against the same App so that persistent
// flags never leak state between REPL commands.
func NewRootCommand(app *App) *cobra.Command {
	root := &cobra.Command{
		Use:           "sn0int",
		Short:         "Semi-automatic OSINT framework",
		Version:       app.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return app.Init()
		},
	}

	// Defaults are seeded from app's current field values rather than
	// fixed constants, since pkg/shell rebuilds this command tree once
	// per input line against the same App: a fixed default here would
	// reset a REPL-set workspace/debug/proxy back on every line.
	root.PersistentFlags().StringVarP(&app.Workspace, "workspace", "w", app.Workspace, "workspace to operate on")
	root.PersistentFlags().CountVarP(&app.Verbose, "verbose", "v", "verbose output (repeat for more)")
	root.PersistentFlags().BoolVarP(&app.Debug, "debug", "d", app.Debug, "enable debug logging")
	root.PersistentFlags().StringVar(&app.Proxy, "proxy", app.Proxy, "SOCKS5 proxy for outbound requests")
	root.PersistentFlags().StringVar(&app.UserAgent, "user-agent", app.UserAgent, "override the default User-Agent header")

	root.AddCommand(
		newRunCmd(app),
		newSandboxCmd(app),
		newLoginCmd(app),
		newNewCmd(app),
		newPublishCmd(app),
		newPkgCmd(app),
		newAddCmd(app),
		newSelectCmd(app),
		newDeleteCmd(app),
		newActivityCmd(app),
		newScopeCmd(app),
		newNoscopeCmd(app),
		newAutoscopeCmd(app),
		newAutonoscopeCmd(app),
		newRescopeCmd(app),
		newWorkspaceCmd(app),
		newFsckCmd(app),
		newExportCmd(app),
		newCalCmd(app),
		newNotifyCmd(app),
		newStatsCmd(app),
		newReplCmd(app),
		newPathsCmd(app),
		newCompletionsCmd(root),
		newKeyringCmd(app),
	)

	return root
}
