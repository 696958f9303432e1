package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var authCmd = &cobra.Command{
	Use:   "auth",
	Short: "Obtain or refresh credentials and check calendar access",
	Args:  cobra.NoArgs,
	RunE: withApp(false, func(cmd *cobra.Command, a *App) error {
		ctx := cmd.Context()
		fmt.Println("🚀 Checking calendar access...")

		provider, err := a.newProvider(ctx)
		if err != nil {
			return err
		}
		if err := a.factory.ValidateCalendarAccess(ctx, provider, a.config.CalendarID); err != nil {
			return fmt.Errorf("error retrieving calendar %s: %w", a.config.CalendarID, err)
		}

		fmt.Printf("✅ %s calendar %s is accessible for account %s\n",
			strings.ToUpper(a.config.Provider), a.config.CalendarID, a.config.Account)
		return nil
	}),
}
