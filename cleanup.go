package main

import (
	"context"
	"fmt"
	"time"
)

// Sweep removes events whose description equals Marker exactly. Only the
// first page of PageSize events is considered unless AllPages is set.
type Sweep struct {
	Marker   string
	PageSize int
	AllPages bool
	Now      func() time.Time
}

func (s *Sweep) Run(ctx context.Context, provider CalendarProvider, calendarID string, progress ProgressFunc) (int, error) {
	now := time.Now
	if s.Now != nil {
		now = s.Now
	}
	timeMin := now()

	var matches []*Event
	pageToken := ""
	for {
		events, next, err := provider.ListEvents(ctx, calendarID, timeMin, s.PageSize, pageToken)
		if err != nil {
			return 0, fmt.Errorf("error retrieving events: %w", err)
		}
		for _, event := range events {
			if event.Description == s.Marker {
				matches = append(matches, event)
				continue
			}
			printVerbosely(4, "      ⏭ Skipping event not created by gcaltimetable: %s\n", event.Summary)
		}
		if !s.AllPages || next == "" {
			break
		}
		pageToken = next
	}

	total := len(matches)
	count := 0
	for _, event := range matches {
		if err := ctx.Err(); err != nil {
			return count, err
		}
		if err := provider.DeleteEvent(ctx, calendarID, event.ID); err != nil {
			return count, fmt.Errorf("error deleting event %s: %w", event.ID, err)
		}
		count++
		eventsDeleted.Inc()
		printVerbosely(3, "      🗑 Event deleted: %s %s\n", event.Start.Format(time.DateOnly), event.Summary)
		progress(percent(count, total), fmt.Sprintf("Deleting %d/%d events", count, total))
	}
	return count, nil
}
