package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/kpcyrd/sn0int/pkg/db"
)

// newExportCmd dumps the workspace as one JSON document, optionally
// including every referenced blob, grounded on
// _examples/original_source/src/cmd/export_cmd.rs. The original's
// per-family typed structs collapse here into a family -> rows map,
// since the store already speaks that shape.
func newExportCmd(app *App) *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Dump the workspace as JSON",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if format != "json" && format != "json-blobs" {
				return fmt.Errorf("unknown export format %q (want json or json-blobs)", format)
			}

			store, err := app.Store()
			if err != nil {
				return err
			}
			if err := ReapTTL(store); err != nil {
				return err
			}

			models := make(map[string][]map[string]interface{}, len(families))
			for _, family := range families {
				rows, err := store.Filter(family, db.Any())
				if err != nil {
					return err
				}
				models[string(family)] = rows
			}

			var payload interface{} = map[string]interface{}{"models": models}

			if format == "json-blobs" {
				blobs, err := app.Blobs()
				if err != nil {
					return err
				}
				ids, err := blobs.List()
				if err != nil {
					return err
				}
				var loaded []map[string]interface{}
				for _, id := range ids {
					b, err := blobs.Load(id)
					if err != nil {
						return err
					}
					loaded = append(loaded, map[string]interface{}{
						"id":    b.ID,
						"bytes": b.Bytes,
					})
				}
				payload = map[string]interface{}{
					"models": models,
					"blobs":  loaded,
				}
			}

			enc := json.NewEncoder(os.Stdout)
			return enc.Encode(payload)
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", "json", "export format: json or json-blobs")
	return cmd
}
