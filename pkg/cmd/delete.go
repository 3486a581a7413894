package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kpcyrd/sn0int/pkg/db"
)

// newDeleteCmd groups one subcommand per entity family, each deleting
// every row matching a filter, grounded on
// _examples/original_source/src/cmd/delete_cmd.rs.
func newDeleteCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "delete",
		Short: "Delete entities matching a filter",
	}
	for _, family := range families {
		cmd.AddCommand(newDeleteFamilyCmd(app, family))
	}
	return cmd
}

func newDeleteFamilyCmd(app *App, family db.Family) *cobra.Command {
	return &cobra.Command{
		Use:   string(family) + " [filter...]",
		Short: fmt.Sprintf("Delete %s entities", family),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := app.Store()
			if err != nil {
				return err
			}
			filter, err := db.ParseOptional(args, columnSetFor(family))
			if err != nil {
				return err
			}
			n, err := store.Delete(family, filter)
			if err != nil {
				return err
			}
			fmt.Printf("Deleted %d rows\n", n)
			return nil
		},
	}
}
