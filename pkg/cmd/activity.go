package cmd

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	act "github.com/kpcyrd/sn0int/pkg/activity"
)

// newActivityCmd prints the raw activity log as one JSON object per
// line, optionally restricted to a topic and a [since, until) window
// (_examples/original_source/src/cmd/activity_cmd.rs).
func newActivityCmd(app *App) *cobra.Command {
	var topic string
	var since, until string

	cmd := &cobra.Command{
		Use:   "activity",
		Short: "Show the raw activity log",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := app.Store()
			if err != nil {
				return err
			}

			sinceTime, err := parseTimeSpec(since, time.Unix(0, 0))
			if err != nil {
				return err
			}
			untilTime, err := parseTimeSpec(until, time.Now().Add(24*time.Hour))
			if err != nil {
				return err
			}

			rows, err := store.Activities(sinceTime, untilTime)
			if err != nil {
				return err
			}
			events := act.FromRows(rows)
			events = act.FilterByTopic(events, topic)

			for i, e := range events {
				buf, err := json.Marshal(struct {
					Topic string    `json:"topic"`
					Time  time.Time `json:"time"`
				}{e.Topic, e.Time})
				if err != nil {
					return err
				}
				_ = i
				fmt.Println(string(buf))
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&topic, "topic", "t", "", "only show events for this topic")
	cmd.Flags().StringVar(&since, "since", "", `start of the window ("today", "yesterday", or RFC3339)`)
	cmd.Flags().StringVar(&until, "until", "", `end of the window ("today", "yesterday", or RFC3339)`)
	return cmd
}

// parseTimeSpec implements activity_cmd.rs's TimeSpec: "today"/"yesterday"
// resolve against local midnight, anything else parses as RFC3339;
// fallback is returned for an empty spec.
func parseTimeSpec(s string, fallback time.Time) (time.Time, error) {
	if s == "" {
		return fallback, nil
	}
	now := time.Now()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	switch s {
	case "today":
		return today, nil
	case "yesterday":
		return today.AddDate(0, 0, -1), nil
	default:
		t, err := time.Parse(time.RFC3339, s)
		if err != nil {
			return time.Time{}, fmt.Errorf("failed to parse time spec %q: %w", s, err)
		}
		return t, nil
	}
}
