package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kpcyrd/sn0int/pkg/db"
)

// families lists every entity family in insertion order, shared by
// select, delete, scope and noscope so the per-family subcommand tree
// only needs to be built once.
var families = []db.Family{
	db.FamilyDomain, db.FamilySubdomain, db.FamilySubdomainIpAddr, db.FamilyIpAddr,
	db.FamilyUrl, db.FamilyEmail, db.FamilyPhoneNumber, db.FamilyDevice,
	db.FamilyNetwork, db.FamilyNetworkDevice, db.FamilyAccount, db.FamilyBreach,
	db.FamilyImage, db.FamilyPort, db.FamilyNetblock, db.FamilyCryptoAddr,
}

// newSelectCmd groups one subcommand per entity family, each accepting
// a filter expression and printing every matching row as JSON.
// Grounded on _examples/original_source/src/cmd/select_cmd.rs, widened
// from its four families (domains/subdomains/ipaddrs/urls) to the full
// family list.
func newSelectCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "select",
		Short: "Print entities matching a filter",
	}
	for _, family := range families {
		cmd.AddCommand(newSelectFamilyCmd(app, family))
	}
	return cmd
}

func newSelectFamilyCmd(app *App, family db.Family) *cobra.Command {
	return &cobra.Command{
		Use:   string(family) + " [filter...]",
		Short: fmt.Sprintf("Select %s entities", family),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := app.Store()
			if err != nil {
				return err
			}
			filter, err := db.ParseOptional(args, columnSetFor(family))
			if err != nil {
				return err
			}
			rows, err := store.Filter(family, filter)
			if err != nil {
				return err
			}
			for _, row := range rows {
				buf, err := json.MarshalIndent(row, "", "  ")
				if err != nil {
					return err
				}
				fmt.Println(string(buf))
			}
			return nil
		},
	}
}
