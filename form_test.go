package main

import (
	"bytes"
	"context"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testApp(t *testing.T, provider CalendarProvider) *App {
	t.Helper()
	config := &Config{}
	config.Normalize()
	return &App{
		config: config,
		loc:    kolkata(t),
		records: []ClassRecord{
			{Day: "Monday", TimeSlot: "09:00-10:00AM", Code: "CS101", Room: "101"},
		},
		newProvider: func(context.Context) (CalendarProvider, error) { return provider, nil },
		now:         func() time.Time { return time.Date(2024, 1, 1, 8, 0, 0, 0, time.UTC) },
	}
}

func TestFormAddsRange(t *testing.T) {
	provider := newFakeProvider()
	a := testApp(t, provider)

	var out bytes.Buffer
	in := strings.NewReader("from 2024-01-01\nto 2024-01-01\nadd\nquit\n")
	require.NoError(t, runForm(context.Background(), a, in, &out, io.Discard))

	assert.Contains(t, out.String(), "Upcoming Classes Preview:\nMonday:\n  09:00-10:00AM - CS101\n")
	assert.Contains(t, out.String(), "✅ Done: Added 1 timetable events.")
	require.Len(t, provider.inserted, 1)
	assert.Equal(t, "09:00-10:00AM - CS101", provider.inserted[0].Summary)
}

func TestFormDeletesMarkedEvents(t *testing.T) {
	provider := newFakeProvider()
	provider.seed("old class", defaultMarker)
	provider.seed("dentist", "")
	a := testApp(t, provider)

	var out bytes.Buffer
	require.NoError(t, runForm(context.Background(), a, strings.NewReader("delete\n"), &out, io.Discard))

	assert.Contains(t, out.String(), "✅ Done: Deleted 1 old timetable events.")
	assert.Len(t, provider.remaining(), 1)
}

func TestFormReportsBatchErrors(t *testing.T) {
	provider := newFakeProvider()
	provider.failAfter = 0
	a := testApp(t, provider)

	var out bytes.Buffer
	require.NoError(t, runForm(context.Background(), a, strings.NewReader("add\n"), &out, io.Discard))

	assert.Contains(t, out.String(), "❌ Error:")
	assert.Contains(t, out.String(), errFakeInsert.Error())
}

func TestFormInputErrors(t *testing.T) {
	provider := newFakeProvider()
	a := testApp(t, provider)

	var out bytes.Buffer
	in := strings.NewReader("bogus\nfrom xyzzy\nfrom 2024-01-08\nadd\nquit\n")
	require.NoError(t, runForm(context.Background(), a, in, &out, io.Discard))

	assert.Contains(t, out.String(), "Unknown command: bogus")
	assert.Contains(t, out.String(), "❌ can't parse date")
	assert.Contains(t, out.String(), "❌ End date is before start date.")
	assert.Empty(t, provider.inserted)
}
