package cmd

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/kpcyrd/sn0int/pkg/keyring"
)

// newLoginCmd authenticates against the configured registry and persists
// the session token into the keyring under the reserved
// "sn0int-registry" namespace, the same place RegistryClient reads it
// back from on every later command (spec §6.5).
func newLoginCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "login",
		Short: "Authenticate against the module registry",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Print("Session token: ")
			reader := bufio.NewReader(os.Stdin)
			line, err := reader.ReadString('\n')
			if err != nil {
				return fmt.Errorf("failed to read session token: %w", err)
			}
			session := strings.TrimSpace(line)
			if session == "" {
				return fmt.Errorf("session token must not be empty")
			}

			client, err := app.RegistryClient()
			if err != nil {
				return err
			}
			client.Authenticate(session)

			who, err := client.WhoAmI()
			if err != nil {
				return fmt.Errorf("authentication failed: %w", err)
			}

			kr, err := app.Keyring()
			if err != nil {
				return err
			}
			if err := kr.Insert(keyring.Name{Namespace: "sn0int-registry", Key: "session"}, &session); err != nil {
				return fmt.Errorf("failed to persist session: %w", err)
			}

			fmt.Printf("Logged in as %s\n", who.User)
			return nil
		},
	}
}
