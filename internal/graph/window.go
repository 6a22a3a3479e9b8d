// ABOUTME: Bounded time-window fetch helper over any Calendar implementation
// ABOUTME: Runs per-day sub-fetches concurrently, reassembled in day order

package graph

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"
)

const fetchConcurrency = 4

// DayBounds returns the UTC instants bounding the local calendar day
// offset days from now in loc.
func DayBounds(now time.Time, loc *time.Location, offset int) (time.Time, time.Time) {
	local := now.In(loc).AddDate(0, 0, offset)
	start := time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, loc)
	return start.UTC(), start.AddDate(0, 0, 1).UTC()
}

// FetchWindow fetches the working set for a rolling window of days
// starting at the local day of now. Sub-fetches run concurrently but
// the result preserves day order, and within a day the service's own
// ascending-start order. An event spanning a local midnight overlaps
// two day fetches; only its first occurrence is kept. Any sub-fetch
// failure fails the whole window.
func FetchWindow(ctx context.Context, cal Calendar, now time.Time, loc *time.Location, days int) ([]Event, error) {
	if days < 1 {
		days = 1
	}

	perDay := make([][]Event, days)
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(fetchConcurrency)

	for offset := 0; offset < days; offset++ {
		g.Go(func() error {
			start, end := DayBounds(now, loc, offset)
			events, err := cal.FetchEvents(gctx, start, end)
			if err != nil {
				return err
			}
			perDay[offset] = events
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	seen := make(map[string]struct{})
	var all []Event
	for _, events := range perDay {
		for _, ev := range events {
			if _, dup := seen[ev.ID]; dup {
				continue
			}
			seen[ev.ID] = struct{}{}
			all = append(all, ev)
		}
	}
	return all, nil
}
