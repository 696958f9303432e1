package main

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteICS(t *testing.T) {
	loc := kolkata(t)
	m := &Materializer{Marker: defaultMarker, Location: loc}
	records := []ClassRecord{
		{Day: "Monday", TimeSlot: "09:00-10:00AM", Code: "CS101", Room: "101"},
		{Day: "Tuesday", TimeSlot: "02:00-03:00PM", Subject: "Physics"},
	}
	events, err := m.BuildEvents(records,
		time.Date(2024, 1, 1, 0, 0, 0, 0, loc),
		time.Date(2024, 1, 2, 0, 0, 0, 0, loc))
	require.NoError(t, err)
	require.Len(t, events, 2)

	var buf bytes.Buffer
	require.NoError(t, writeICS(&buf, events, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)))
	out := buf.String()

	assert.Equal(t, 2, strings.Count(out, "BEGIN:VEVENT"))
	assert.Contains(t, out, "SUMMARY:09:00-10:00AM - CS101")
	assert.Contains(t, out, "SUMMARY:02:00-03:00PM - Physics")
	assert.Contains(t, out, "LOCATION:101")
	assert.Contains(t, out, "DESCRIPTION:source: timetable-script")
	// 09:00 in Kolkata is 03:30 UTC
	assert.Contains(t, out, "DTSTART:20240101T033000Z")
}
