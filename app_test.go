package main

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResyncReplacesMarkedEvents(t *testing.T) {
	provider := newFakeProvider()
	provider.seed("stale class", defaultMarker)
	provider.seed("stale class", defaultMarker)
	provider.seed("dentist", "")

	a := testApp(t, provider)
	a.runs = NewRunLog(openTestDB(t))
	from := time.Date(2024, 1, 1, 0, 0, 0, 0, a.loc)

	var progress bytes.Buffer
	count, err := a.runBatch(context.Background(), "resync", a.resyncBatch(from, from.AddDate(0, 0, 13)), &progress)
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	remaining := provider.remaining()
	require.Len(t, remaining, 3)
	assert.Equal(t, "dentist", remaining[0].Summary)
	assert.Equal(t, 2, len(provider.deleted))

	runs, err := a.runs.Recent(1)
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, "resync", runs[0].Action)
	assert.Equal(t, "2024-01-01", runs[0].RangeFrom)
	assert.Equal(t, "2024-01-14", runs[0].RangeTo)
	assert.Equal(t, 2, runs[0].Count)
	assert.Empty(t, runs[0].Error)
}

func TestAddBatchRecordsFailure(t *testing.T) {
	a := testApp(t, nil)
	a.newProvider = func(context.Context) (CalendarProvider, error) {
		return nil, errors.New("no credentials")
	}
	a.runs = NewRunLog(openTestDB(t))
	from := time.Date(2024, 1, 1, 0, 0, 0, 0, a.loc)

	count, err := a.addBatch(from, from)(context.Background(), noProgress)
	assert.EqualError(t, err, "no credentials")
	assert.Zero(t, count)

	runs, err := a.runs.Recent(5)
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, "add", runs[0].Action)
	assert.Equal(t, "no credentials", runs[0].Error)
	assert.False(t, runs[0].FinishedAt.IsZero())
}
