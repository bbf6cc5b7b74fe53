package msgraph

import (
	"context"
	"fmt"
	"strings"
	"time"

	"timew-companion/internal/model"
	"timew-companion/internal/timerange"
)

// Calendar is the slice of the Graph API PushEntries needs.
// *Client implements it.
type Calendar interface {
	GetCalendarView(ctx context.Context, from, to time.Time, timezone string) ([]CalendarEvent, error)
	CreateEvent(ctx context.Context, ev EventRequest) (CalendarEvent, error)
}

// PushResult holds counters for a push operation.
type PushResult struct {
	Exported int
	Skipped  int
	Errors   int
}

// PushOptions configures a push run.
type PushOptions struct {
	Timezone string
	DryRun   bool
}

// parseGraphTime parses a Graph API dateTime string in the given timezone.
// Graph returns times like "2026-02-27T09:00:00.0000000" without a zone suffix
// when a Prefer: outlook.timezone header is set.
func parseGraphTime(dt, tz string) (time.Time, error) {
	// Try RFC3339 first (includes timezone offset).
	if t, err := time.Parse(time.RFC3339, dt); err == nil {
		return t, nil
	}
	// Try RFC3339Nano.
	if t, err := time.Parse(time.RFC3339Nano, dt); err == nil {
		return t, nil
	}

	loc := time.UTC
	if tz != "" {
		if l, err := time.LoadLocation(tz); err == nil {
			loc = l
		}
	}

	// Graph returns fractional seconds: "2026-02-27T09:00:00.0000000"
	for _, layout := range []string{
		"2006-01-02T15:04:05.0000000",
		"2006-01-02T15:04:05",
	} {
		if t, err := time.ParseInLocation(layout, dt, loc); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("cannot parse graph time %q", dt)
}

// eventSubject derives an event subject from the entry's tags.
func eventSubject(e model.Entry) string {
	if len(e.Tags) == 0 {
		return "Tracked time"
	}
	return strings.Join(e.Tags, ", ")
}

// graphTime formats t for the Graph API in the given location.
func graphTime(t time.Time, loc *time.Location, tz string) GraphTime {
	return GraphTime{
		DateTime: t.In(loc).Format("2006-01-02T15:04:05"),
		TimeZone: tz,
	}
}

// BuildEventRequest maps a closed entry onto a Graph event payload.
func BuildEventRequest(e model.Entry, loc *time.Location, tz string) EventRequest {
	end, _ := e.Range.To()
	return EventRequest{
		Subject: eventSubject(e),
		Body: EventBody{
			ContentType: "text",
			Content:     fmt.Sprintf("Tracked: %s", e.Range),
		},
		Start:      graphTime(e.Range.From(), loc, tz),
		End:        graphTime(end, loc, tz),
		Categories: e.Tags,
	}
}

// dedupKey identifies an event by its exact start and end instants.
func dedupKey(start, end time.Time) string {
	return fmt.Sprintf("%d/%d", start.Unix(), end.Unix())
}

// PushEntries exports closed entries as calendar events, skipping entries
// that already have an event with the same start and end. Open entries are
// skipped. It prints progress to stdout and returns a PushResult.
func PushEntries(ctx context.Context, cal Calendar, entries []model.Entry, opts PushOptions) (PushResult, error) {
	var result PushResult

	loc := time.UTC
	tz := "UTC"
	if opts.Timezone != "" {
		l, err := time.LoadLocation(opts.Timezone)
		if err != nil {
			return result, fmt.Errorf("loading timezone %q: %w", opts.Timezone, err)
		}
		loc = l
		tz = opts.Timezone
	}

	// Window covering all closed entries, for the duplicate check.
	var from, to time.Time
	hasClosed := false
	for _, e := range entries {
		end, ok := e.Range.To()
		if !ok {
			continue
		}
		if !hasClosed || e.Range.From().Before(from) {
			from = e.Range.From()
		}
		if !hasClosed || end.After(to) {
			to = end
		}
		hasClosed = true
	}

	existing := make(map[string]bool)
	if hasClosed {
		events, err := cal.GetCalendarView(ctx, from, to, tz)
		if err != nil {
			return result, fmt.Errorf("fetching existing events: %w", err)
		}
		for _, ev := range events {
			if ev.IsCancelled {
				continue
			}
			start, err := parseGraphTime(ev.Start.DateTime, tz)
			if err != nil {
				continue
			}
			end, err := parseGraphTime(ev.End.DateTime, tz)
			if err != nil {
				continue
			}
			existing[dedupKey(start, end)] = true
		}
	}

	for _, e := range entries {
		subject := eventSubject(e)

		end, ok := e.Range.To()
		if !ok {
			fmt.Printf("  – Skipped:  %s (still running)\n", subject)
			result.Skipped++
			continue
		}

		key := dedupKey(e.Range.From(), end)
		if existing[key] {
			fmt.Printf("  – Skipped:  %s (already exists)\n", subject)
			result.Skipped++
			continue
		}

		if !opts.DryRun {
			if _, err := cal.CreateEvent(ctx, BuildEventRequest(e, loc, tz)); err != nil {
				fmt.Printf("  ! Error exporting %q: %v\n", subject, err)
				result.Errors++
				continue
			}
		}
		existing[key] = true
		fmt.Printf("  ✓ Exported: %s (%s)\n", subject, timerange.FormatDuration(e.Range.Duration()))
		result.Exported++
	}

	return result, nil
}
