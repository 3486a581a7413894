package cmd

import (
	"github.com/spf13/cobra"

	"github.com/kpcyrd/sn0int/pkg/paths"
	"github.com/kpcyrd/sn0int/pkg/shell"
)

// newReplCmd starts the interactive shell, grounded on
// _examples/original_source/src/shell/mod.rs's run/init.
func newReplCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "repl",
		Short: "Start the interactive shell",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := app.Store()
			if err != nil {
				return err
			}
			if err := ReapTTL(store); err != nil {
				return err
			}

			historyFile, err := paths.HistoryPath()
			if err != nil {
				return err
			}

			return shell.Run(shell.Options{
				HistoryFile: historyFile,
				Version:     app.Version,
				State: &shell.State{
					Workspace: app.Workspace,
					Options:   map[string]string{},
				},
				BuildRoot: func() *cobra.Command {
					return NewRootCommand(app)
				},
				ModuleNames: func() []string {
					local, err := app.LocalRegistry()
					if err != nil {
						return nil
					}
					var names []string
					for _, m := range local.List() {
						names = append(names, m.Author+"/"+m.Name)
					}
					return names
				},
			})
		},
	}
}
