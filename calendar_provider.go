package main

import (
	"context"
	"time"
)

const (
	providerGoogle = "google"
	providerCalDAV = "caldav"
)

// CalendarProvider is the remote calendar as seen by the add and delete batches.
type CalendarProvider interface {
	GetCalendar(ctx context.Context, calendarID string) error
	// ListEvents returns up to limit events starting at or after timeMin and the
	// token of the next page, empty when there is none.
	ListEvents(ctx context.Context, calendarID string, timeMin time.Time, limit int, pageToken string) ([]*Event, string, error)
	AddEvent(ctx context.Context, calendarID string, event *Event) (string, error)
	DeleteEvent(ctx context.Context, calendarID string, eventID string) error
}

type Event struct {
	ID          string
	Summary     string
	Location    string
	Description string
	Start       time.Time
	End         time.Time
	TimeZone    string
	Status      string
}
