package cmd

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/kpcyrd/sn0int/pkg/db"
)

// rescopeFamilies lists the entity families whose scoped flag is driven
// by autonoscope rules, in the order rescope_cmd.rs checks them.
var rescopeFamilies = []db.Family{
	db.FamilyDomain, db.FamilySubdomain, db.FamilyIpAddr, db.FamilyUrl, db.FamilyPort, db.FamilyNetblock,
}

type rescopeChange struct {
	family   db.Family
	id       int64
	value    string
	newScope bool
}

// newRescopeCmd reapplies every autonoscope rule against already-stored
// entities, queuing a change wherever the rule set's verdict differs from
// the row's current scoped flag (a row that no rule matches counts as
// scoped, so an unscoped row with no matching rule is queued too),
// grounded on
// _examples/original_source/src/cmd/rescope_cmd.rs. The original's
// per-rule "always"/"never" memory is dropped in favor of a single
// up-front --interactive y/n/d prompt per change, since the closed rule
// identity needed to remember a per-rule decision isn't exposed by
// RuleSet.Rules().
func newRescopeCmd(app *App) *cobra.Command {
	var interactive bool
	var autoConfirm bool
	var dryRun bool

	cmd := &cobra.Command{
		Use:   "rescope",
		Short: "Reapply autonoscope rules against stored entities",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := app.Store()
			if err != nil {
				return err
			}
			ruleset, err := app.Scope()
			if err != nil {
				return err
			}

			var changes []rescopeChange
			reader := bufio.NewReader(os.Stdin)

			for _, family := range rescopeFamilies {
				rows, err := store.Filter(family, db.Any())
				if err != nil {
					return err
				}
				for _, row := range rows {
					should, err := ruleset.Matches(family, row)
					if err != nil {
						return err
					}
					currentlyScoped, _ := row["scoped"].(bool)
					if should == currentlyScoped {
						continue
					}

					value := fmt.Sprintf("%v", row["value"])
					id, _ := row["id"].(int64)

					if interactive {
						sign := "+"
						if !should {
							sign = "-"
						}
						fmt.Printf("[%s] %s #%v: %s -> update this entity? [Y/n/d] ", sign, family, row["id"], value)
						line, _ := reader.ReadString('\n')
						switch strings.ToLower(strings.TrimSpace(line)) {
						case "n":
							continue
						case "d":
							goto applyChanges
						}
					}

					changes = append(changes, rescopeChange{family: family, id: id, value: value, newScope: should})
				}
			}

		applyChanges:
			if len(changes) == 0 {
				fmt.Println("Nothing has changed, not updating database")
				return nil
			}

			if dryRun {
				for _, c := range changes {
					fmt.Printf("Would set %s #%d (%s) scoped=%v\n", c.family, c.id, c.value, c.newScope)
				}
				return nil
			}

			if !autoConfirm && !interactive {
				fmt.Printf("Apply %d changes to scope now? [y/N] ", len(changes))
				line, _ := reader.ReadString('\n')
				if strings.ToLower(strings.TrimSpace(line)) != "y" {
					fmt.Println("Database not updated")
					return nil
				}
			}

			for _, c := range changes {
				if _, err := store.SetScoped(c.family, filterByID(c.id), c.newScope); err != nil {
					return err
				}
			}
			fmt.Printf("Applied %d changes\n", len(changes))
			return nil
		},
	}

	cmd.Flags().BoolVarP(&interactive, "interactive", "i", false, "confirm every change individually")
	cmd.Flags().BoolVarP(&autoConfirm, "auto-confirm", "y", false, "apply changes without confirmation")
	cmd.Flags().BoolVarP(&dryRun, "dry-run", "n", false, "only show changes, do not apply them")
	return cmd
}

func filterByID(id int64) db.Filter {
	f, _ := db.Parse([]string{fmt.Sprintf("id=%d", id)}, map[string]bool{"id": true})
	return f
}
