package commands

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/TenaciousPub/Challenge/pkg/clients/sheetsclient"
	"github.com/TenaciousPub/Challenge/pkg/core/model"
	"github.com/TenaciousPub/Challenge/pkg/core/report"
	"github.com/TenaciousPub/Challenge/pkg/core/timezone"
)

// LeaderboardCmd creates the leaderboard command
func LeaderboardCmd(app *AppContext) *cobra.Command {
	var (
		day     string
		publish bool
	)

	cmd := &cobra.Command{
		Use:   "leaderboard",
		Short: "Show the cohort's compliance for a day (defaults to today in the default timezone)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			loc := timezone.Location(app.Cfg.DefaultTimezone)
			if day == "" {
				day = timezone.LocalDay(app.Now(), app.Cfg.DefaultTimezone)
			}
			date, err := time.ParseInLocation(model.DateLayout, day, loc)
			if err != nil {
				return fmt.Errorf("day must look like 2025-01-31: %w", err)
			}

			rows := report.Leaderboard(app.Roster.List(), app.Engine.EvaluateAll(app.Ctx, day))
			fmt.Print(renderLeaderboard(day, rows))

			if !publish {
				return nil
			}
			if app.SheetsClient == nil || app.Cfg.LeaderboardSheetID == "" {
				return fmt.Errorf("publishing needs Google credentials and leaderboardSheetID")
			}
			publisher := sheetsclient.NewLeaderboardPublisher(app.SheetsClient, app.Cfg.LeaderboardSheetID, app.Logger)
			if err := publisher.PublishLeaderboard(app.Ctx, date, rows); err != nil {
				return err
			}
			success("Published to tab %q", sheetsclient.LeaderboardTabTitle(date))
			return nil
		},
	}

	cmd.Flags().StringVar(&day, "day", "", "Day to evaluate (YYYY-MM-DD)")
	cmd.Flags().BoolVar(&publish, "publish", false, "Also write the leaderboard tab to the leaderboard sheet")

	return cmd
}
