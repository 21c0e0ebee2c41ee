package commands

import (
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/TenaciousPub/Challenge/pkg/clients/sheetsclient"
	"github.com/TenaciousPub/Challenge/pkg/clients/slackclient"
	"github.com/TenaciousPub/Challenge/pkg/core/scheduler"
	"github.com/TenaciousPub/Challenge/pkg/utils"
)

// ServeCmd creates the serve command: the scheduler plus the Slack HTTP endpoints
func ServeCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the bot: scheduled messages and Slack slash commands and reactions",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			botToken := os.Getenv("SLACK_BOT_TOKEN")
			signingSecret := os.Getenv("SLACK_SIGNING_SECRET")
			if botToken == "" || signingSecret == "" {
				return fmt.Errorf("SLACK_BOT_TOKEN and SLACK_SIGNING_SECRET must be set")
			}

			ctx, stop := signal.NotifyContext(app.Ctx, os.Interrupt, syscall.SIGTERM)
			defer stop()

			chat := slackclient.New(botToken, app.Logger)
			sched, err := newScheduler(app, chat)
			if err != nil {
				return err
			}

			handler := slackclient.NewHandler(slackclient.HandlerConfig{
				SigningSecret: signingSecret,
				AdminUserIDs:  app.Cfg.Slack.AdminUserIDs,
				DayOffChannel: app.Cfg.Slack.DayOffChannel,
				VotingWindow:  app.Cfg.VotingWindow(),
			}, app.Roster, app.Challenges, app.LogBook, app.Engine, app.Settings, app.Book, chat, app.Logger)

			if err := sched.Start(ctx); err != nil {
				return fmt.Errorf("failed to start scheduler: %w", err)
			}
			defer sched.Stop()

			addr := fmt.Sprintf(":%d", app.Cfg.Slack.Port)
			app.Logger.Info("Serving", zap.String("addr", addr), zap.Int("participants", len(app.Roster.List())))
			return utils.ListenAndServe(ctx, addr, newMux(handler), app.Logger)
		},
	}
}

func newMux(handler *slackclient.Handler) *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /slack/commands", handler.HandleSlashCommand)
	mux.HandleFunc("POST /slack/events", handler.HandleEvents)
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("ok"))
	})
	return mux
}

func newScheduler(app *AppContext, notifier scheduler.Notifier) (*scheduler.Scheduler, error) {
	cfg := app.Cfg
	deps := scheduler.Deps{
		Notifier:  notifier,
		Roster:    app.Roster,
		Evaluator: app.Engine,
		DayOffs:   app.Book,
		Punisher:  app.Workouts,
		Logs:      app.LogBook,
	}
	if app.SheetsClient != nil && cfg.LeaderboardSheetID != "" {
		deps.Publisher = sheetsclient.NewLeaderboardPublisher(app.SheetsClient, cfg.LeaderboardSheetID, app.Logger)
	}

	return scheduler.New(scheduler.Config{
		DefaultZone:     cfg.DefaultTimezone,
		CheckinTime:     cfg.Schedule.Checkin,
		LeaderboardTime: cfg.Schedule.Leaderboard,
		MotivationTime:  cfg.Schedule.Motivation,
		ReminderTime:    cfg.Schedule.Reminder,
		PunishmentTime:  cfg.Schedule.Punishment,
		StartDate:       cfg.StartDate,
		RestDays:        cfg.RestDays,
		Channels: scheduler.Channels{
			Checkin:     cfg.Slack.CheckinChannel,
			Leaderboard: cfg.Slack.LeaderboardChannel,
			Motivation:  cfg.Slack.MotivationChannel,
			Punishment:  cfg.Slack.PunishmentChannel,
			DayOff:      cfg.Slack.DayOffChannel,
		},
	}, deps, app.Logger)
}
