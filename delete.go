package main

import (
	"os"

	"github.com/spf13/cobra"
)

var deleteCmd = &cobra.Command{
	Use:   "delete",
	Short: "Delete upcoming events created by gcaltimetable",
	Long: `Delete upcoming events whose description equals the configured marker.
Events created by anything else are never touched.`,
	Args: cobra.NoArgs,
	RunE: withApp(false, func(cmd *cobra.Command, a *App) error {
		printVerbosely(1, "🚀 Deleting old timetable events from calendar %s...\n", a.config.CalendarID)
		count, err := a.runBatch(cmd.Context(), "delete", a.deleteBatch(), os.Stderr)
		if err != nil {
			return err
		}
		printVerbosely(1, "✅ Deleted %d old timetable events.\n", count)
		return nil
	}),
}
