// Package activity renders the append-only activity log (component C14,
// SPEC_FULL.md §4.6) as the `cal` command's calendar and heat-map views.
// Grounded on the original's cal_cmd.rs's three view modes (plain month
// grid, 12-minute slices, hourly slices) and activity_cmd.rs's
// topic/since/until filter, with the shading rendered through
// github.com/fatih/color rather than emitting raw ANSI codes by hand.
package activity

import (
	"fmt"
	"strings"
	"time"

	"github.com/fatih/color"

	"github.com/kpcyrd/sn0int/pkg/db"
)

// Event is the subset of db.Activity the calendar renderer needs,
// decoupling it from the raw JSON content column.
type Event struct {
	Topic string
	Time  time.Time
}

// FromRows converts db.Activity rows (as returned by db.Store.Activities)
// into the lighter Event shape this package renders.
func FromRows(rows []db.Activity) []Event {
	out := make([]Event, len(rows))
	for i, r := range rows {
		out[i] = Event{Topic: r.Topic, Time: r.Time}
	}
	return out
}

// dayCounts buckets events by calendar day in the local zone.
func dayCounts(events []Event) map[string]int {
	counts := make(map[string]int)
	for _, e := range events {
		key := e.Time.Local().Format("2006-01-02")
		counts[key]++
	}
	return counts
}

// shade maps an event count onto one of four color buckets, the same
// "more events, brighter cell" idea a GitHub-style contribution graph
// uses.
func shade(n int) *color.Color {
	switch {
	case n == 0:
		return color.New(color.FgHiBlack)
	case n <= 2:
		return color.New(color.FgGreen)
	case n <= 5:
		return color.New(color.FgYellow)
	default:
		return color.New(color.FgRed, color.Bold)
	}
}

// RenderCalendar renders `months` consecutive month grids ending at the
// month containing now, each day cell shaded by its event count
// (cal_cmd.rs's default view, without -T/-H).
func RenderCalendar(events []Event, now time.Time, months int) string {
	if months < 1 {
		months = 1
	}
	counts := dayCounts(events)

	first := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	first = first.AddDate(0, -(months - 1), 0)

	var out strings.Builder
	for m := 0; m < months; m++ {
		month := first.AddDate(0, m, 0)
		out.WriteString(renderMonth(month, counts))
		if m < months-1 {
			out.WriteString("\n")
		}
	}
	return out.String()
}

func renderMonth(month time.Time, counts map[string]int) string {
	var out strings.Builder
	fmt.Fprintf(&out, "%s\n", month.Format("January 2006"))
	out.WriteString("Su Mo Tu We Th Fr Sa\n")

	firstOfMonth := time.Date(month.Year(), month.Month(), 1, 0, 0, 0, 0, month.Location())
	lead := int(firstOfMonth.Weekday())
	out.WriteString(strings.Repeat("   ", lead))

	daysInMonth := firstOfMonth.AddDate(0, 1, -1).Day()
	for d := 1; d <= daysInMonth; d++ {
		day := time.Date(month.Year(), month.Month(), d, 0, 0, 0, 0, month.Location())
		key := day.Format("2006-01-02")
		cell := shade(counts[key]).Sprintf("%2d", d)
		out.WriteString(cell)
		out.WriteString(" ")
		if int(day.Weekday()) == 6 {
			out.WriteString("\n")
		}
	}
	if int(firstOfMonth.AddDate(0, 1, -1).Weekday()) != 6 {
		out.WriteString("\n")
	}
	return out.String()
}

// RenderSlices buckets events into fixed-size time-of-day slices across
// [since, until) and renders one heat-mapped row per day — cal_cmd.rs's
// -T (12 minute slices) and -H (hourly) views, selected by bucketMinutes.
func RenderSlices(events []Event, since, until time.Time, bucketMinutes int) string {
	if bucketMinutes < 1 {
		bucketMinutes = 60
	}
	slicesPerDay := (24 * 60) / bucketMinutes
	if slicesPerDay < 1 {
		slicesPerDay = 1
	}

	type dayKey = string
	buckets := make(map[dayKey][]int)

	for d := since; d.Before(until); d = d.AddDate(0, 0, 1) {
		buckets[d.Format("2006-01-02")] = make([]int, slicesPerDay)
	}
	for _, e := range events {
		t := e.Time.Local()
		if t.Before(since) || !t.Before(until) {
			continue
		}
		key := t.Format("2006-01-02")
		row, ok := buckets[key]
		if !ok {
			continue
		}
		minuteOfDay := t.Hour()*60 + t.Minute()
		idx := minuteOfDay / bucketMinutes
		if idx >= len(row) {
			idx = len(row) - 1
		}
		row[idx]++
	}

	var out strings.Builder
	for d := since; d.Before(until); d = d.AddDate(0, 0, 1) {
		key := d.Format("2006-01-02")
		fmt.Fprintf(&out, "%s ", key)
		for _, n := range buckets[key] {
			out.WriteString(shade(n).Sprint("#"))
		}
		out.WriteString("\n")
	}
	return out.String()
}

// FilterByTopic drops every event whose topic doesn't equal topic, unless
// topic is empty (activity_cmd.rs's optional -t/--topic).
func FilterByTopic(events []Event, topic string) []Event {
	if topic == "" {
		return events
	}
	out := events[:0]
	for _, e := range events {
		if e.Topic == topic {
			out = append(out, e)
		}
	}
	return out
}
