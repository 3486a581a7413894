package cmd

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/kpcyrd/sn0int/pkg/autonoscope"
)

// newAutonoscopeCmd and newAutoscopeCmd share the same add/delete/list
// subcommands; only the scoped value a fresh rule is created with
// differs, exactly as autoscope_cmd.rs aliases autonoscope_cmd::Args
// and calls run_with_scope_param(rl, args, true) where plain
// autonoscope always passes false.
func newAutonoscopeCmd(app *App) *cobra.Command {
	return newAutonoscopeFamily(app, "autonoscope", "Manage out-of-scope autonoscope rules", false)
}

func newAutoscopeCmd(app *App) *cobra.Command {
	return newAutonoscopeFamily(app, "autoscope", "Manage in-scope autonoscope rules", true)
}

func newAutonoscopeFamily(app *App, use, short string, defaultScoped bool) *cobra.Command {
	cmd := &cobra.Command{Use: use, Short: short}

	cmd.AddCommand(&cobra.Command{
		Use:   "add <domain|ip|url> <value>",
		Short: "Add a rule",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ruleset, err := app.Scope()
			if err != nil {
				return err
			}
			ruleType, err := autonoscope.ParseRuleType(args[0])
			if err != nil {
				return err
			}
			if err := ruleset.AddRule(ruleType, args[1], defaultScoped); err != nil {
				return err
			}
			fmt.Printf("Added %s rule for %s\n", ruleType, args[1])
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "delete <domain|ip|url> <value>",
		Short: "Delete a rule",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ruleset, err := app.Scope()
			if err != nil {
				return err
			}
			ruleType, err := autonoscope.ParseRuleType(args[0])
			if err != nil {
				return err
			}
			if err := ruleset.DeleteRule(ruleType, args[1]); err != nil {
				return err
			}
			fmt.Printf("Deleted %s rule for %s\n", ruleType, args[1])
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List every autonoscope rule",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ruleset, err := app.Scope()
			if err != nil {
				return err
			}
			for _, rule := range ruleset.Rules() {
				label := color.RedString("noscope")
				if rule.Scoped {
					label = color.GreenString("scope")
				}
				fmt.Printf("%s\t%s\t%s\n", label, rule.Object, rule.Value)
			}
			return nil
		},
	})

	return cmd
}
