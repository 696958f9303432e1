package main

import (
	"os"

	"github.com/spf13/cobra"
)

var addRange rangeFlags

var addCmd = &cobra.Command{
	Use:   "add",
	Short: "Create one event per class for every day of the range",
	Long: `Create one event per class for every day of the range. Running add twice over
the same range creates duplicates; use "resync" or "delete" first.`,
	Args: cobra.NoArgs,
	RunE: withApp(true, func(cmd *cobra.Command, a *App) error {
		from, to, err := addRange.resolve(a)
		if err != nil {
			return err
		}

		printVerbosely(1, "🚀 Adding timetable events from %s to %s...\n", from.Format("2006-01-02"), to.Format("2006-01-02"))
		total, err := a.runBatch(cmd.Context(), "add", a.addBatch(from, to), os.Stderr)
		if err != nil {
			printVerbosely(1, "❗️ %d events were added before the failure; \"delete\" removes them.\n", total)
			return err
		}
		printVerbosely(1, "✅ Added %d timetable events.\n", total)
		return nil
	}),
}

func init() {
	addRange.register(addCmd)
}
