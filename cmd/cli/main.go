package main

import (
	"context"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/TenaciousPub/Challenge/cmd/cli/commands"
	"github.com/TenaciousPub/Challenge/internal/config"
	"github.com/TenaciousPub/Challenge/pkg/clients/sheetsclient"
	"github.com/TenaciousPub/Challenge/pkg/db"
	"github.com/TenaciousPub/Challenge/pkg/postgres"
	"github.com/TenaciousPub/Challenge/pkg/sheetssql"
	"github.com/TenaciousPub/Challenge/pkg/utils/logging"
)

var (
	env         string
	app         = &commands.AppContext{Ctx: context.Background()}
	closeDB     func()
	closeLogger func()
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "challenge",
		Short: "Fitness challenge bot - track daily exercise, compliance and days off",
		Long:  `A CLI and Slack bot for running a group fitness challenge: logging, compliance checks, reminders, punishments and day-off votes.`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return initApp()
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if closeDB != nil {
				closeDB()
			}
			if closeLogger != nil {
				closeLogger()
			}
		},
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().StringVarP(&env, "env", "e", "", "Environment (required: test, prod, etc.)")
	rootCmd.MarkPersistentFlagRequired("env")

	rootCmd.AddCommand(commands.JoinCmd(app))
	rootCmd.AddCommand(commands.ProfileCmd(app))
	rootCmd.AddCommand(commands.LogCmd(app))
	rootCmd.AddCommand(commands.ChallengeCmd(app))
	rootCmd.AddCommand(commands.StatusCmd(app))
	rootCmd.AddCommand(commands.LeaderboardCmd(app))
	rootCmd.AddCommand(commands.DayOffCmd(app))
	rootCmd.AddCommand(commands.ModeCmd(app))
	rootCmd.AddCommand(commands.SetModeCmd(app))
	rootCmd.AddCommand(commands.SetPointsTargetCmd(app))
	rootCmd.AddCommand(commands.NormalizeTimezonesCmd(app))
	rootCmd.AddCommand(commands.ServeCmd(app))

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// initApp sets up logger, config, clients, database and services
func initApp() error {
	var err error

	// Env files are optional; variables already set are never overridden
	for _, f := range []string{fmt.Sprintf(".env.%s", env), ".env"} {
		_ = godotenv.Load(f)
	}

	app.Logger, closeLogger, err = logging.InitLogger(logging.Options{
		Env:          env,
		ConsoleLevel: os.Getenv("LOG_LEVEL"),
	})
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	app.Logger.Info("Starting application", zap.String("environment", env))

	app.Logger.Info("Loading configuration")
	app.Cfg, err = config.LoadWithEnv(env)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	app.Logger.Debug("Configuration loaded successfully")

	if credentials := os.Getenv("GOOGLE_APPLICATION_CREDENTIALS"); credentials != "" {
		app.Logger.Info("Initializing sheets client")
		app.SheetsClient, err = sheetsclient.NewClient(app.Ctx, credentials)
		if err != nil {
			return fmt.Errorf("failed to create sheets client: %w", err)
		}
		app.Logger.Debug("Sheets client initialized successfully")
	}

	if err := openDatabase(); err != nil {
		return err
	}

	app.Logger.Info("Initializing services")
	if err := app.WireServices(); err != nil {
		return err
	}
	app.Logger.Info("Application ready", zap.Int("participants", len(app.Roster.List())))

	return nil
}

// openDatabase connects to Postgres when DATABASE_URL is set, otherwise to the database spreadsheet
func openDatabase() error {
	if url := os.Getenv("DATABASE_URL"); url != "" {
		app.Logger.Info("Connecting to PostgreSQL")
		pg, err := postgres.NewDB(app.Ctx, url, app.Logger)
		if err != nil {
			return fmt.Errorf("failed to connect to postgres: %w", err)
		}
		if err := pg.RunMigrations(app.Ctx); err != nil {
			pg.Close()
			return fmt.Errorf("failed to run migrations: %w", err)
		}
		app.Database = pg
		closeDB = pg.Close
		app.Logger.Info("Database initialized successfully", zap.String("backend", "postgres"))
		return nil
	}

	if app.SheetsClient == nil {
		return fmt.Errorf("set GOOGLE_APPLICATION_CREDENTIALS for the spreadsheet database or DATABASE_URL for postgres")
	}

	app.Logger.Info("Initializing database schema")
	schema, err := sheetssql.SchemaFromModels(db.Models()...)
	if err != nil {
		return fmt.Errorf("failed to create database schema: %w", err)
	}
	app.Logger.Debug("Database schema created", zap.Int("tables", len(schema.Tables)))

	app.Logger.Info("Connecting to database", zap.String("spreadsheet_id", app.Cfg.DatabaseSheetID))
	ssqlDB, err := sheetssql.NewDB(app.SheetsClient, app.Cfg.DatabaseSheetID, schema)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}

	app.Database = db.NewDB(ssqlDB)
	app.Logger.Info("Database initialized successfully", zap.String("backend", "sheets"))
	return nil
}
