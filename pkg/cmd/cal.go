package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	act "github.com/kpcyrd/sn0int/pkg/activity"
)

// newCalCmd renders the activity log as a month calendar, or with -T/-H
// as a per-day time-of-day heat-map, grounded on
// _examples/original_source/src/cmd/cal_cmd.rs.
func newCalCmd(app *App) *cobra.Command {
	var context int
	var timeView bool
	var hourlyView bool

	cmd := &cobra.Command{
		Use:   "cal",
		Short: "Show a calendar or heat-map of activity",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if timeView && hourlyView {
				return fmt.Errorf("-T and -H are mutually exclusive")
			}

			store, err := app.Store()
			if err != nil {
				return err
			}

			now := time.Now()
			months := context
			if months < 1 {
				months = 1
			}
			since := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location()).AddDate(0, -(months - 1), 0)
			until := now.AddDate(0, 0, 1)

			rows, err := store.Activities(since, until)
			if err != nil {
				return err
			}
			events := act.FromRows(rows)

			switch {
			case timeView:
				fmt.Print(act.RenderSlices(events, since, until, 12))
			case hourlyView:
				fmt.Print(act.RenderSlices(events, since, until, 60))
			default:
				fmt.Print(act.RenderCalendar(events, now, months))
			}
			return nil
		},
	}

	cmd.Flags().IntVarP(&context, "context", "C", 1, "number of months to show")
	cmd.Flags().BoolVarP(&timeView, "time", "T", false, "group events in 12 minute slices")
	cmd.Flags().BoolVarP(&hourlyView, "hourly", "H", false, "group events by hour")
	return cmd
}
