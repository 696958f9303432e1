package main

import (
	"context"
	"database/sql"
	"fmt"
)

// CalendarFactory handles creation of the configured calendar provider
type CalendarFactory struct {
	config *Config
	db     *sql.DB
}

// NewCalendarFactory creates a new calendar factory instance
func NewCalendarFactory(config *Config, db *sql.DB) *CalendarFactory {
	return &CalendarFactory{
		config: config,
		db:     db,
	}
}

// CreateCalendarProvider creates the provider named by config.Provider
func (cf *CalendarFactory) CreateCalendarProvider(ctx context.Context) (CalendarProvider, error) {
	switch cf.config.Provider {
	case providerGoogle:
		session := NewSession(cf.config, NewTokenStore(cf.db), cf.config.Account)
		client, err := session.Client(ctx)
		if err != nil {
			return nil, fmt.Errorf("error acquiring session for account %s: %w", cf.config.Account, err)
		}
		return NewGoogleCalendarProvider(ctx, client)

	case providerCalDAV:
		server := cf.config.CalDAV
		if server.ServerURL == "" {
			return nil, fmt.Errorf("no CalDAV server_url configured")
		}
		return NewCalDAVProvider(ctx, server.ServerURL, server.Username, server.Password)

	default:
		return nil, fmt.Errorf("unsupported provider type: %s", cf.config.Provider)
	}
}

// ValidateCalendarAccess checks if the provided calendar ID is accessible
func (cf *CalendarFactory) ValidateCalendarAccess(ctx context.Context, provider CalendarProvider, calendarID string) error {
	return provider.GetCalendar(ctx, calendarID)
}
