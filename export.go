package main

import (
	"fmt"
	"io"
	"os"
	"time"

	ics "github.com/arran4/golang-ical"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

var (
	exportRange rangeFlags
	exportOut   string
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Write the events add would create to an .ics file",
	Args:  cobra.NoArgs,
	RunE: withApp(true, func(cmd *cobra.Command, a *App) error {
		from, to, err := exportRange.resolve(a)
		if err != nil {
			return err
		}
		events, err := a.materializer().BuildEvents(a.records, from, to)
		if err != nil {
			return err
		}

		var w io.Writer = os.Stdout
		if exportOut != "-" {
			f, err := os.Create(exportOut)
			if err != nil {
				return err
			}
			defer f.Close()
			w = f
		}
		if err := writeICS(w, events, a.now()); err != nil {
			return fmt.Errorf("write %s: %w", exportOut, err)
		}
		printVerbosely(1, "✅ Exported %d events to %s\n", len(events), exportOut)
		return nil
	}),
}

func init() {
	exportRange.register(exportCmd)
	exportCmd.Flags().StringVarP(&exportOut, "out", "o", "timetable.ics", `output file, "-" for stdout`)
}

func writeICS(w io.Writer, events []*Event, stamp time.Time) error {
	cal := ics.NewCalendar()
	cal.SetMethod(ics.MethodPublish)
	cal.SetProductId("-//gcaltimetable//EN")

	for _, e := range events {
		ev := cal.AddEvent(uuid.NewString() + "@gcaltimetable")
		ev.SetDtStampTime(stamp)
		ev.SetStartAt(e.Start)
		ev.SetEndAt(e.End)
		ev.SetSummary(e.Summary)
		if e.Location != "" {
			ev.SetLocation(e.Location)
		}
		ev.SetDescription(e.Description)
	}

	_, err := io.WriteString(w, cal.Serialize())
	return err
}
