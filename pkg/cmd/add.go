package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kpcyrd/sn0int/pkg/db"
	"github.com/kpcyrd/sn0int/pkg/host/psl"
)

// newAddCmd groups the manual entity-insertion subcommands, grounded on
// _examples/original_source/src/cmd/add_cmd.rs: each subcommand takes
// exactly the arguments add_cmd.rs's AddDomain/AddSubdomain/AddEmail do,
// but drops the interactive question() fallback since this surface is
// meant for scripted, non-interactive use — the shell prompts
// separately before dispatching here when an argument is missing.
func newAddCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Manually insert an entity into the workspace",
	}
	cmd.AddCommand(newAddDomainCmd(app), newAddSubdomainCmd(app), newAddEmailCmd(app))
	return cmd
}

func newAddDomainCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "domain <value>",
		Short: "Add a root domain",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			value := args[0]
			dns, err := psl.ParseDnsName(value)
			if err != nil {
				return fmt.Errorf("failed to parse domain: %w", err)
			}
			if dns.FullDomain != nil {
				return fmt.Errorf("%q is not a root domain, did you mean to add a subdomain?", value)
			}

			store, err := app.Store()
			if err != nil {
				return err
			}
			id, err := store.Insert(db.FamilyDomain, map[string]interface{}{"value": value})
			if err != nil {
				return err
			}
			fmt.Printf("Added domain #%d: %s\n", id, value)
			return nil
		},
	}
}

func newAddSubdomainCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "subdomain <value>",
		Short: "Add a subdomain, creating its parent domain if necessary",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			value := args[0]
			dns, err := psl.ParseDnsName(value)
			if err != nil {
				return fmt.Errorf("failed to parse subdomain: %w", err)
			}

			store, err := app.Store()
			if err != nil {
				return err
			}
			domainID, err := store.Insert(db.FamilyDomain, map[string]interface{}{"value": dns.Root})
			if err != nil {
				return err
			}
			id, err := store.Insert(db.FamilySubdomain, map[string]interface{}{"domain_id": domainID, "value": value})
			if err != nil {
				return err
			}
			fmt.Printf("Added subdomain #%d: %s\n", id, value)
			return nil
		},
	}
}

func newAddEmailCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "email <value>",
		Short: "Add an email address",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := app.Store()
			if err != nil {
				return err
			}
			id, err := store.Insert(db.FamilyEmail, map[string]interface{}{"value": args[0]})
			if err != nil {
				return err
			}
			fmt.Printf("Added email #%d: %s\n", id, args[0])
			return nil
		},
	}
}
