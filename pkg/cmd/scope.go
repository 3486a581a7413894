package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kpcyrd/sn0int/pkg/db"
)

// newScopeCmd and newNoscopeCmd group one subcommand per entity family,
// each setting the scoped flag for every row matching a filter,
// grounded on _examples/original_source/src/cmd/scope_cmd.rs.
func newScopeCmd(app *App) *cobra.Command {
	return newScopeToggleCmd(app, "scope", "Mark matching entities in-scope", true)
}

func newNoscopeCmd(app *App) *cobra.Command {
	return newScopeToggleCmd(app, "noscope", "Mark matching entities out-of-scope", false)
}

func newScopeToggleCmd(app *App, use, short string, scoped bool) *cobra.Command {
	cmd := &cobra.Command{Use: use, Short: short}
	for _, family := range families {
		cmd.AddCommand(newScopeFamilyCmd(app, family, scoped))
	}
	return cmd
}

func newScopeFamilyCmd(app *App, family db.Family, scoped bool) *cobra.Command {
	return &cobra.Command{
		Use:   string(family) + " [filter...]",
		Short: fmt.Sprintf("Toggle scope for %s entities", family),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := app.Store()
			if err != nil {
				return err
			}
			filter, err := db.ParseOptional(args, columnSetFor(family))
			if err != nil {
				return err
			}
			n, err := store.SetScoped(family, filter, scoped)
			if err != nil {
				return err
			}
			fmt.Printf("Updated %d rows\n", n)
			return nil
		},
	}
}
