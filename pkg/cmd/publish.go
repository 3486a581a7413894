package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/kpcyrd/sn0int/pkg/engine"
)

// newPublishCmd uploads one or more .lua modules to the configured
// registry, grounded on registry.rs's run_publish: derive the module
// name from the filename, require a .lua extension, parse the metadata
// preamble locally before ever making a request.
func newPublishCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "publish <path>...",
		Short: "Publish one or more modules to the registry",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := app.RegistryClient()
			if err != nil {
				return err
			}

			for _, path := range args {
				ext := filepath.Ext(path)
				if ext != ".lua" {
					return fmt.Errorf("%s: file extension has to be .lua", path)
				}
				name := strings.TrimSuffix(filepath.Base(path), ext)

				buf, err := os.ReadFile(path)
				if err != nil {
					return fmt.Errorf("failed to read module %s: %w", path, err)
				}
				code := string(buf)

				meta, err := engine.ParseMetadata(code)
				if err != nil {
					return fmt.Errorf("%s: invalid metadata: %w", path, err)
				}

				fmt.Printf("Uploading %s %s (%s)\n", name, meta.Version.String(), path)
				result, err := client.Publish(name, code)
				if err != nil {
					return fmt.Errorf("failed to publish %s: %w", path, err)
				}
				fmt.Printf("Published as %s/%s %s\n", result.Author, result.Name, result.Version)
			}
			return nil
		},
	}
}
