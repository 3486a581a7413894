package cmd

import (
	"fmt"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/kpcyrd/sn0int/pkg/db"
)

// newStatsCmd prints a row count per entity family plus blob storage
// usage, grounded on _examples/original_source/src/cmd/stats_cmd.rs.
// The original formats blob sizes with the humansize crate; no
// byte-size formatter was retrieved anywhere in the example corpus, so
// formatByteSize below is a small stdlib helper instead of a borrowed
// library.
func newStatsCmd(app *App) *cobra.Command {
	var short bool

	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show per-family entity counts and blob storage usage",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := app.Store()
			if err != nil {
				return err
			}
			if err := ReapTTL(store); err != nil {
				return err
			}
			blobs, err := app.Blobs()
			if err != nil {
				return err
			}

			for _, family := range families {
				rows, err := store.Filter(family, db.Any())
				if err != nil {
					return err
				}
				showCount(string(family), len(rows), short)
			}

			events, err := store.Activities(time.Unix(0, 0), time.Now().Add(24*time.Hour))
			if err != nil {
				return err
			}
			showCount("activity", len(events), short)

			ids, err := blobs.List()
			if err != nil {
				return err
			}
			var total int64
			for _, id := range ids {
				size, err := blobs.Stat(id)
				if err != nil {
					return err
				}
				total += size
			}
			showCount("blobs", len(ids), short)
			if !short {
				fmt.Printf("%s\t%s\n", color.GreenString("blobs-size"), formatByteSize(total))
			}

			return nil
		},
	}

	cmd.Flags().BoolVar(&short, "short", false, "only print the counts")
	return cmd
}

func showCount(label string, n int, short bool) {
	if short {
		fmt.Printf("%d\t%s\n", n, label)
		return
	}
	if n > 0 {
		fmt.Printf("%s\t%s\n", color.GreenString(label), color.YellowString("%d", n))
	} else {
		fmt.Printf("%s\t%d\n", label, n)
	}
}

func formatByteSize(n int64) string {
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%d B", n)
	}
	div, exp := int64(unit), 0
	for v := n / unit; v >= unit; v /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %ciB", float64(n)/float64(div), "KMGTPE"[exp])
}
