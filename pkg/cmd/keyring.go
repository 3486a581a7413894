package cmd

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/kpcyrd/sn0int/pkg/keyring"
)

// newKeyringCmd wraps the local credential store, grounded on
// _examples/original_source/src/cmd/keyring_cmd.rs.
func newKeyringCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "keyring",
		Short: "Manage stored credentials",
	}

	cmd.AddCommand(newKeyringAddCmd(app))
	cmd.AddCommand(newKeyringDeleteCmd(app))
	cmd.AddCommand(newKeyringGetCmd(app))
	cmd.AddCommand(newKeyringListCmd(app))
	return cmd
}

func newKeyringAddCmd(app *App) *cobra.Command {
	var secret string
	cmd := &cobra.Command{
		Use:   "add <namespace:key> [secret]",
		Short: "Add or replace a credential",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			name, err := keyring.ParseName(args[0])
			if err != nil {
				return err
			}
			if len(args) == 2 {
				secret = args[1]
			}
			if secret == "" {
				fmt.Print("Secret (leave empty for none): ")
				reader := bufio.NewReader(os.Stdin)
				line, _ := reader.ReadString('\n')
				secret = strings.TrimSpace(line)
			}

			kr, err := app.Keyring()
			if err != nil {
				return err
			}
			var secretPtr *string
			if secret != "" {
				secretPtr = &secret
			}
			if err := kr.Insert(name, secretPtr); err != nil {
				return err
			}
			return kr.Save()
		},
	}
	return cmd
}

func newKeyringDeleteCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <namespace:key>",
		Short: "Delete a credential",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name, err := keyring.ParseName(args[0])
			if err != nil {
				return err
			}
			kr, err := app.Keyring()
			if err != nil {
				return err
			}
			if err := kr.Delete(name); err != nil {
				return err
			}
			return kr.Save()
		},
	}
}

func newKeyringGetCmd(app *App) *cobra.Command {
	var quiet bool
	cmd := &cobra.Command{
		Use:   "get <namespace:key>",
		Short: "Print a stored credential",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name, err := keyring.ParseName(args[0])
			if err != nil {
				return err
			}
			kr, err := app.Keyring()
			if err != nil {
				return err
			}
			entry, ok := kr.Get(name)
			if !ok {
				return fmt.Errorf("no such credential: %s", name)
			}
			if quiet {
				if entry.SecretKey != nil {
					fmt.Println(*entry.SecretKey)
				}
				return nil
			}
			secret := "<none>"
			if entry.SecretKey != nil {
				secret = *entry.SecretKey
			}
			fmt.Printf("%s\t%s\t%s\n", entry.Namespace, entry.AccessKey, secret)
			return nil
		},
	}
	cmd.Flags().BoolVarP(&quiet, "quiet", "q", false, "print only the secret")
	return cmd
}

func newKeyringListCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "list [namespace]",
		Short: "List stored credentials",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			kr, err := app.Keyring()
			if err != nil {
				return err
			}
			var names []keyring.Name
			if len(args) == 1 {
				names = kr.ListFor(args[0])
			} else {
				names = kr.List()
			}
			for _, name := range names {
				fmt.Println(name.String())
			}
			return nil
		},
	}
}
