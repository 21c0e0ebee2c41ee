package commands

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/TenaciousPub/Challenge/internal/config"
	"github.com/TenaciousPub/Challenge/pkg/clients/sheetsclient"
	"github.com/TenaciousPub/Challenge/pkg/core/compliance"
	"github.com/TenaciousPub/Challenge/pkg/core/dayoff"
	"github.com/TenaciousPub/Challenge/pkg/core/model"
	"github.com/TenaciousPub/Challenge/pkg/core/services"
	"github.com/TenaciousPub/Challenge/pkg/core/settings"
	"github.com/TenaciousPub/Challenge/pkg/core/workouts"
	"github.com/TenaciousPub/Challenge/pkg/db"
)

// AppContext holds the application dependencies shared across all commands
type AppContext struct {
	Cfg          *config.Config
	SheetsClient *sheetsclient.Client // Nil when no Google credentials are configured
	Database     db.Database
	Roster       *services.Roster
	Challenges   *services.Challenges
	LogBook      *services.LogBook
	Settings     *settings.Store
	Engine       *compliance.Engine
	Book         *dayoff.Book
	Workouts     *workouts.Catalog
	Logger       *zap.Logger
	Ctx          context.Context
	Clock        func() time.Time // Nil means time.Now
}

func (app *AppContext) Now() time.Time {
	if app.Clock != nil {
		return app.Clock()
	}
	return time.Now()
}

// WireServices builds the core services on top of an open database
func (app *AppContext) WireServices() error {
	cfg := app.Cfg

	app.Roster = services.NewRoster(app.Database, cfg.DefaultTimezone, app.Logger)
	if err := app.Roster.Refresh(app.Ctx); err != nil {
		return fmt.Errorf("failed to load roster: %w", err)
	}

	clock := services.WithClock(app.Now)
	app.Challenges = services.NewChallenges(app.Database, app.Roster, app.Logger, clock)
	app.LogBook = services.NewLogBook(app.Database, app.Roster, app.Challenges, app.Logger, clock)
	app.Settings = settings.NewStore(app.Database, model.ComplianceMode(cfg.ComplianceModeDefault), cfg.PointsTargetDefault, app.Logger)

	resolver := compliance.TargetResolver{
		Male:     cfg.Targets.Male,
		Female:   cfg.Targets.Female,
		Default:  cfg.Targets.Default,
		Disabled: cfg.Targets.Disabled,
	}
	app.Engine = compliance.NewEngine(resolver, app.Challenges, app.LogBook, app.Roster, app.Settings, app.Logger)

	app.Book = dayoff.NewBook(app.Roster, services.NewDayOffSink(app.Database, app.Logger), app.Logger,
		dayoff.WithClock(app.Now))
	if err := app.Book.Load(app.Ctx); err != nil {
		return fmt.Errorf("failed to load day-off requests: %w", err)
	}

	var source workouts.Source
	if app.SheetsClient != nil {
		source = sheetsclient.NewWorkoutSource(app.SheetsClient, cfg.DatabaseSheetID, cfg.PunishmentsTab)
	}
	app.Workouts = workouts.NewCatalog(source, app.Logger)

	return nil
}

// userError maps domain errors to a short message for the terminal
func userError(err error) error {
	switch {
	case errors.Is(err, services.ErrUnknownParticipant), errors.Is(err, dayoff.ErrUnknownRequester):
		return fmt.Errorf("participant has not joined: %w", err)
	case errors.Is(err, services.ErrChallengeNotFound):
		return fmt.Errorf("no such challenge for this participant: %w", err)
	case errors.Is(err, dayoff.ErrRequestNotFound):
		return fmt.Errorf("no such day-off request: %w", err)
	}
	return err
}
