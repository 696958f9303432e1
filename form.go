package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
)

var formCmd = &cobra.Command{
	Use:   "form",
	Short: "Interactive form: pick dates, add or delete, watch progress",
	Args:  cobra.NoArgs,
	RunE: withApp(true, func(cmd *cobra.Command, a *App) error {
		defer writeMetrics(a.config.MetricsTextfile)
		return runForm(cmd.Context(), a, os.Stdin, os.Stdout, os.Stderr)
	}),
}

const formHelp = `Commands:
  from <date>   set the start date (YYYY-MM-DD, "today", "next monday", ...)
  to <date>     set the end date, inclusive
  add           add timetable events for the range
  delete        delete old timetable events
  preview       show the timetable again
  quit          leave
`

type form struct {
	app  *App
	out  io.Writer
	view *progressView
	d    *Dispatcher

	from, to    time.Time
	busy        bool
	awaitingAck bool
}

// runForm reads commands from in until "quit" or EOF. A batch in flight is
// always allowed to finish before the form returns.
func runForm(ctx context.Context, a *App, in io.Reader, out, progressOut io.Writer) error {
	today, _ := parseDate("today", a.now(), a.loc)
	f := &form{
		app:  a,
		out:  out,
		view: newProgressView(progressOut),
		d:    NewDispatcher(),
		from: today,
		to:   today,
	}

	lines := make(chan string)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(in)
		for scanner.Scan() {
			lines <- scanner.Text()
		}
	}()

	fmt.Fprintln(out, "☕ Timetable to calendar")
	fmt.Fprint(out, formHelp)
	fmt.Fprintln(out)
	f.printRange()
	fmt.Fprintln(out, "Upcoming Classes Preview:")
	writePreview(out, a.records)

	quitting := false
	done := ctx.Done()
	for {
		select {
		case line, ok := <-lines:
			if !ok {
				lines = nil
				quitting = true
			} else if f.awaitingAck {
				f.awaitingAck = false
				f.view.Reset()
			} else if f.handle(ctx, line) {
				quitting = true
			}
		case p := <-f.d.Progress():
			f.view.Update(p.Percent, p.Message)
		case r := <-f.d.Results():
			f.drainProgress()
			f.d.Done()
			f.busy = false
			f.report(r)
			if quitting {
				f.view.Reset()
				return nil
			}
			f.awaitingAck = true
		case <-done:
			done = nil
			quitting = true
		}

		if quitting && !f.busy {
			return ctx.Err()
		}
	}
}

// handle runs one command line and reports whether the form should quit.
func (f *form) handle(ctx context.Context, line string) bool {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return false
	}

	switch strings.ToLower(fields[0]) {
	case "from", "to":
		date, err := parseDate(strings.Join(fields[1:], " "), f.app.now(), f.app.loc)
		if err != nil {
			fmt.Fprintf(f.out, "❌ %v\n", err)
			return false
		}
		if strings.EqualFold(fields[0], "from") {
			f.from = date
		} else {
			f.to = date
		}
		f.printRange()
	case "add":
		if f.to.Before(f.from) {
			fmt.Fprintln(f.out, "❌ End date is before start date.")
			return false
		}
		f.dispatch(ctx, "add", f.app.addBatch(f.from, f.to))
	case "delete":
		f.dispatch(ctx, "delete", f.app.deleteBatch())
	case "preview":
		writePreview(f.out, f.app.records)
	case "help", "?":
		fmt.Fprint(f.out, formHelp)
	case "quit", "exit", "q":
		return true
	default:
		fmt.Fprintf(f.out, "Unknown command: %s\n", fields[0])
	}
	return false
}

func (f *form) dispatch(ctx context.Context, action string, batch Batch) {
	err := f.d.Dispatch(ctx, action, batch)
	if errors.Is(err, ErrBatchInFlight) {
		fmt.Fprintln(f.out, "⏳ A batch is already running, wait for it to finish.")
		return
	}
	f.busy = true
}

func (f *form) drainProgress() {
	for {
		select {
		case p := <-f.d.Progress():
			f.view.Update(p.Percent, p.Message)
		default:
			return
		}
	}
}

func (f *form) report(r BatchResult) {
	fmt.Fprintln(f.out)
	if r.Err != nil {
		fmt.Fprintf(f.out, "❌ Error: %v\n", r.Err)
	} else {
		switch r.Action {
		case "add":
			f.view.Update(100, fmt.Sprintf("Added %d events", r.Count))
			fmt.Fprintf(f.out, "✅ Done: Added %d timetable events.\n", r.Count)
		case "delete":
			f.view.Update(100, fmt.Sprintf("Deleted %d old events", r.Count))
			fmt.Fprintf(f.out, "✅ Done: Deleted %d old timetable events.\n", r.Count)
		}
	}
	fmt.Fprintln(f.out, "Press Enter to continue.")
}

func (f *form) printRange() {
	fmt.Fprintf(f.out, "Start Date: %s  End Date: %s\n", f.from.Format(time.DateOnly), f.to.Format(time.DateOnly))
}
