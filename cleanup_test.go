package main

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixedNow() time.Time {
	return time.Date(2024, 1, 1, 8, 0, 0, 0, time.UTC)
}

func TestSweepDeletesOnlyMarkedEvents(t *testing.T) {
	provider := newFakeProvider()
	provider.seed("9-10AM - CS101", defaultMarker)
	provider.seed("Dentist", "")
	provider.seed("9-10AM - CS102", defaultMarker)
	provider.seed("Standup", defaultMarker+" (copied)")
	provider.seed("10-11AM - CS103", defaultMarker)

	var messages []string
	s := &Sweep{Marker: defaultMarker, PageSize: defaultPageSize, Now: fixedNow}
	count, err := s.Run(context.Background(), provider, "primary", func(_ int, msg string) {
		messages = append(messages, msg)
	})
	require.NoError(t, err)
	assert.Equal(t, 3, count)
	assert.Len(t, provider.deleted, 3)
	assert.Equal(t, []string{"Deleting 1/3 events", "Deleting 2/3 events", "Deleting 3/3 events"}, messages)

	var left []string
	for _, e := range provider.remaining() {
		left = append(left, e.Summary)
	}
	assert.Equal(t, []string{"Dentist", "Standup"}, left)
}

func TestSweepSinglePageLimit(t *testing.T) {
	provider := newFakeProvider()
	for i := 0; i < 5; i++ {
		provider.seed("class", defaultMarker)
	}

	s := &Sweep{Marker: defaultMarker, PageSize: 2, Now: fixedNow}
	count, err := s.Run(context.Background(), provider, "primary", noProgress)
	require.NoError(t, err)
	assert.Equal(t, 2, count)
	assert.Equal(t, 1, provider.lists)
	assert.Len(t, provider.remaining(), 3)
}

func TestSweepAllPages(t *testing.T) {
	provider := newFakeProvider()
	for i := 0; i < 5; i++ {
		provider.seed("class", defaultMarker)
	}

	s := &Sweep{Marker: defaultMarker, PageSize: 2, AllPages: true, Now: fixedNow}
	count, err := s.Run(context.Background(), provider, "primary", noProgress)
	require.NoError(t, err)
	assert.Equal(t, 5, count)
	assert.Equal(t, 3, provider.lists)
	assert.Empty(t, provider.remaining())
}

func TestSweepErrors(t *testing.T) {
	provider := newFakeProvider()
	provider.listErr = errors.New("unauthorized")
	s := &Sweep{Marker: defaultMarker, PageSize: 10, Now: fixedNow}
	count, err := s.Run(context.Background(), provider, "primary", noProgress)
	assert.ErrorIs(t, err, provider.listErr)
	assert.Zero(t, count)

	provider = newFakeProvider()
	provider.seed("class", defaultMarker)
	provider.deleteErr = errors.New("rate limited")
	count, err = s.Run(context.Background(), provider, "primary", noProgress)
	assert.ErrorIs(t, err, provider.deleteErr)
	assert.Zero(t, count)
}
