package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/kpcyrd/sn0int/pkg/paths"
)

// newWorkspaceCmd lists every workspace database found in the data
// directory, or switches to one, grounded on
// _examples/original_source/src/cmd/workspace_cmd.rs and workspaces.rs.
// Switching only affects this process; the interactive shell is the
// place where a selected workspace persists across further commands.
func newWorkspaceCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "workspace [name]",
		Short: "List or switch workspaces",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 1 {
				app.Workspace = args[0]
				if _, err := app.Store(); err != nil {
					return err
				}
				fmt.Printf("Switched to workspace %q\n", args[0])
				return nil
			}

			names, err := listWorkspaces()
			if err != nil {
				return err
			}
			for _, name := range names {
				fmt.Println(name)
			}
			return nil
		},
	}
}

func listWorkspaces() ([]string, error) {
	dataDir, err := paths.DataDir()
	if err != nil {
		return nil, err
	}

	entries, err := os.ReadDir(dataDir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}

	var names []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if filepath.Ext(entry.Name()) != ".db" {
			continue
		}
		names = append(names, strings.TrimSuffix(entry.Name(), ".db"))
	}
	return names, nil
}
