package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// moduleTemplate is the metadata preamble every new module starts from,
// parseable by engine.ParseMetadata as-is.
const moduleTemplate = `-- Description: TODO
-- Version: 0.1.0
-- Source: domains
-- License: GPL-3.0

function run(arg)
    -- TODO
end
`

// newNewCmd scaffolds a fresh module file at path, refusing to
// overwrite an existing one (registry.rs's `new` helper has no
// Rust-side equivalent; this mirrors cargo/npm's "new" template
// commands in spirit).
func newNewCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "new <path>",
		Short: "Scaffold a new module",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := args[0]
			if _, err := os.Stat(path); err == nil {
				return fmt.Errorf("%s already exists", path)
			}
			if err := os.WriteFile(path, []byte(moduleTemplate), 0o644); err != nil {
				return fmt.Errorf("failed to write module: %w", err)
			}
			fmt.Printf("Created %s\n", path)
			return nil
		},
	}
}
