package cmd

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/kpcyrd/sn0int/pkg/blob"
	"github.com/kpcyrd/sn0int/pkg/db"
)

// newFsckCmd walks the workspace's blob store and classifies every blob
// as valid, dangling or corrupted, grounded on
// _examples/original_source/src/cmd/fsck_cmd.rs.
func newFsckCmd(app *App) *cobra.Command {
	var verbose bool
	var gc bool
	var gcAll bool

	cmd := &cobra.Command{
		Use:   "fsck",
		Short: "Check blob store integrity",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := app.Store()
			if err != nil {
				return err
			}
			blobs, err := app.Blobs()
			if err != nil {
				return err
			}

			rows, err := store.Filter(db.FamilyImage, db.Any())
			if err != nil {
				return err
			}
			referenced := make(map[string]bool, len(rows))
			for _, row := range rows {
				if value, ok := row["value"].(string); ok {
					referenced[value] = true
				}
			}

			reports, err := blobs.Fsck(referenced)
			if err != nil {
				return err
			}

			for _, r := range reports {
				switch r.Status {
				case blob.Valid:
					if verbose {
						fmt.Printf("%s... ok\n", r.ID)
					}
				case blob.Dangling:
					fmt.Println(color.YellowString("%s... dangling", r.ID))
				case blob.Corrupted:
					fmt.Println(color.RedString("%s... corrupted", r.ID))
				}
			}

			if gc || gcAll {
				deleted, err := blobs.Gc(reports, gcAll)
				if err != nil {
					return err
				}
				fmt.Printf("Deleted %d blobs\n", deleted)
			}

			return nil
		},
	}

	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "also print valid blobs")
	cmd.Flags().BoolVar(&gc, "gc", false, "delete dangling blobs")
	cmd.Flags().BoolVar(&gcAll, "gc-all", false, "delete dangling and corrupted blobs")
	return cmd
}
