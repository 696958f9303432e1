package main

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/schollz/progressbar/v3"
)

// App carries what every command needs: config, database and, once loaded,
// the flattened timetable.
type App struct {
	config  *Config
	db      *sql.DB
	loc     *time.Location
	runs    *RunLog
	records []ClassRecord
	factory *CalendarFactory

	newProvider func(ctx context.Context) (CalendarProvider, error)
	now         func() time.Time
}

func newApp(configPath string) (*App, error) {
	config, err := readConfig(configPath)
	if err != nil {
		return nil, fmt.Errorf("error reading config file: %w", err)
	}
	setupLogging(config.VerbosityLevel)

	loc, err := config.Location()
	if err != nil {
		return nil, err
	}

	db, err := openDB(dbFileName)
	if err != nil {
		return nil, fmt.Errorf("error opening database: %w", err)
	}

	factory := NewCalendarFactory(config, db)
	return &App{
		config:      config,
		db:          db,
		loc:         loc,
		runs:        NewRunLog(db),
		factory:     factory,
		newProvider: factory.CreateCalendarProvider,
		now:         time.Now,
	}, nil
}

func (a *App) Close() error {
	return a.db.Close()
}

func (a *App) loadTimetable() error {
	t, err := loadTimetable(a.config.Timetable)
	if err != nil {
		return err
	}
	a.records = Flatten(t)
	return nil
}

func (a *App) materializer() *Materializer {
	return &Materializer{Marker: a.config.Marker, Location: a.loc}
}

func (a *App) sweep() *Sweep {
	return &Sweep{
		Marker:   a.config.Marker,
		PageSize: a.config.PageSize,
		AllPages: a.config.SweepAllPages,
		Now:      a.now,
	}
}

// recorded wraps a batch so that it leaves a row in the runs table.
func (a *App) recorded(action string, from, to time.Time, batch Batch) Batch {
	return func(ctx context.Context, progress ProgressFunc) (int, error) {
		var rangeFrom, rangeTo string
		if !from.IsZero() {
			rangeFrom, rangeTo = from.Format(time.DateOnly), to.Format(time.DateOnly)
		}
		var id int64
		if a.runs != nil {
			var err error
			if id, err = a.runs.Start(action, a.config.CalendarID, rangeFrom, rangeTo); err != nil {
				slog.Warn("can't record run", "action", action, "error", err)
			}
		}
		count, runErr := batch(ctx, progress)
		if id != 0 {
			if err := a.runs.Finish(id, count, runErr); err != nil {
				slog.Warn("can't record run", "action", action, "error", err)
			}
		}
		return count, runErr
	}
}

func (a *App) addBatch(from, to time.Time) Batch {
	return a.recorded("add", from, to, func(ctx context.Context, progress ProgressFunc) (int, error) {
		events, err := a.materializer().BuildEvents(a.records, from, to)
		if err != nil {
			return 0, err
		}
		provider, err := a.newProvider(ctx)
		if err != nil {
			return 0, err
		}
		progress(0, "Adding timetable events...")
		return AddEvents(ctx, provider, a.config.CalendarID, events, progress)
	})
}

func (a *App) deleteBatch() Batch {
	return a.recorded("delete", time.Time{}, time.Time{}, func(ctx context.Context, progress ProgressFunc) (int, error) {
		provider, err := a.newProvider(ctx)
		if err != nil {
			return 0, err
		}
		progress(0, "Deleting old events...")
		return a.sweep().Run(ctx, provider, a.config.CalendarID, progress)
	})
}

// resyncBatch sweeps old events and adds the range in one batch; the count is
// the number of events added.
func (a *App) resyncBatch(from, to time.Time) Batch {
	return a.recorded("resync", from, to, func(ctx context.Context, progress ProgressFunc) (int, error) {
		events, err := a.materializer().BuildEvents(a.records, from, to)
		if err != nil {
			return 0, err
		}
		provider, err := a.newProvider(ctx)
		if err != nil {
			return 0, err
		}
		progress(0, "Deleting old events...")
		deleted, err := a.sweep().Run(ctx, provider, a.config.CalendarID, progress)
		if err != nil {
			return 0, err
		}
		printVerbosely(1, "🗑 Deleted %d old events\n", deleted)
		progress(0, "Adding timetable events...")
		return AddEvents(ctx, provider, a.config.CalendarID, events, progress)
	})
}

// runBatch dispatches batch and renders its progress until it finishes.
func (a *App) runBatch(ctx context.Context, action string, batch Batch, progressOut io.Writer) (int, error) {
	defer writeMetrics(a.config.MetricsTextfile)

	d := NewDispatcher()
	if err := d.Dispatch(ctx, action, batch); err != nil {
		return 0, err
	}
	view := newProgressView(progressOut)
	result := d.Wait(view.Update)
	view.Reset()
	fmt.Fprintln(progressOut)
	return result.Count, result.Err
}

// progressView renders batch progress as a 0-100 bar with a status label.
type progressView struct {
	bar *progressbar.ProgressBar
}

func newProgressView(w io.Writer) *progressView {
	return &progressView{bar: progressbar.NewOptions(100,
		progressbar.OptionSetWriter(w),
		progressbar.OptionSetWidth(30),
		progressbar.OptionSetPredictTime(false),
		progressbar.OptionSetDescription("Progress:"),
	)}
}

func (p *progressView) Update(percent int, message string) {
	p.bar.Describe(message)
	if err := p.bar.Set(percent); err != nil {
		slog.Debug("progress bar", "error", err)
	}
}

// Reset puts the bar back to zero after a batch completes or fails.
func (p *progressView) Reset() {
	p.bar.Reset()
	p.bar.Describe("")
}
