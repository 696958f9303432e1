package main

import (
	"context"
	"errors"
	"time"

	"golang.org/x/sync/semaphore"
)

// ErrBatchInFlight is returned by Dispatch while another batch is running.
var ErrBatchInFlight = errors.New("a batch is already running")

// Batch is one add or delete run. It reports progress through the callback.
type Batch func(ctx context.Context, progress ProgressFunc) (int, error)

type Progress struct {
	Percent int
	Message string
}

type BatchResult struct {
	Action string
	Count  int
	Err    error
}

// Dispatcher runs at most one batch at a time on a background goroutine.
// Progress and results are delivered on channels, so a single consumer sees
// them in order.
type Dispatcher struct {
	sem      *semaphore.Weighted
	progress chan Progress
	results  chan BatchResult
}

func NewDispatcher() *Dispatcher {
	return &Dispatcher{
		sem:      semaphore.NewWeighted(1),
		progress: make(chan Progress, 16),
		results:  make(chan BatchResult, 1),
	}
}

// Dispatch starts batch in the background or returns ErrBatchInFlight.
func (d *Dispatcher) Dispatch(ctx context.Context, action string, batch Batch) error {
	if !d.sem.TryAcquire(1) {
		return ErrBatchInFlight
	}

	go func() {
		report := func(percent int, message string) {
			select {
			case d.progress <- Progress{Percent: percent, Message: message}:
			case <-ctx.Done():
			}
		}

		started := time.Now()
		count, err := batch(ctx, report)
		result := "ok"
		if err != nil {
			result = "error"
		}
		batchDuration.WithLabelValues(action, result).Observe(time.Since(started).Seconds())

		d.results <- BatchResult{Action: action, Count: count, Err: err}
	}()
	return nil
}

// Done frees the dispatcher for the next batch. Whoever receives from
// Results must call it, so a new batch cannot start before the previous
// result has been seen.
func (d *Dispatcher) Done() {
	d.sem.Release(1)
}

func (d *Dispatcher) Progress() <-chan Progress {
	return d.progress
}

func (d *Dispatcher) Results() <-chan BatchResult {
	return d.results
}

// Wait blocks until the running batch finishes, forwarding progress to
// onProgress, and frees the dispatcher.
func (d *Dispatcher) Wait(onProgress ProgressFunc) BatchResult {
	for {
		select {
		case p := <-d.progress:
			onProgress(p.Percent, p.Message)
		case r := <-d.results:
			// Drain what the batch reported before finishing.
			for {
				select {
				case p := <-d.progress:
					onProgress(p.Percent, p.Message)
				default:
					d.Done()
					return r
				}
			}
		}
	}
}
