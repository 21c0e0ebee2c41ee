package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/teambition/rrule-go"
	"gopkg.in/yaml.v3"
)

// Targets are the legacy daily targets for participants without a challenge
type Targets struct {
	Male     int  `yaml:"male" validate:"min=0"`
	Female   int  `yaml:"female" validate:"min=0"`
	Default  int  `yaml:"default" validate:"min=0"`
	Disabled *int `yaml:"disabled,omitempty" validate:"omitempty,min=0"`
}

// Schedule holds wall-clock times (HH:MM) for automated messages
type Schedule struct {
	Checkin     string `yaml:"checkin" validate:"datetime=15:04"`
	Leaderboard string `yaml:"leaderboard" validate:"datetime=15:04"`
	Motivation  string `yaml:"motivation" validate:"datetime=15:04"`
	Reminder    string `yaml:"reminder" validate:"datetime=15:04"`
	Punishment  string `yaml:"punishment" validate:"datetime=15:04"`
}

// Slack holds channel IDs and admins; tokens come from the environment
type Slack struct {
	CheckinChannel     string   `yaml:"checkinChannel,omitempty"`
	LeaderboardChannel string   `yaml:"leaderboardChannel,omitempty"`
	MotivationChannel  string   `yaml:"motivationChannel,omitempty"`
	PunishmentChannel  string   `yaml:"punishmentChannel,omitempty"`
	DayOffChannel      string   `yaml:"dayOffChannel,omitempty"`
	AdminUserIDs       []string `yaml:"adminUserIDs,omitempty"`
	Port               int      `yaml:"port" validate:"min=1,max=65535"`
}

// Config represents the application configuration
type Config struct {
	DatabaseSheetID         string   `yaml:"databaseSheetID" validate:"required"`
	LeaderboardSheetID      string   `yaml:"leaderboardSheetID,omitempty"`
	PunishmentsTab          string   `yaml:"punishmentsTab"`
	DefaultTimezone         string   `yaml:"defaultTimezone" validate:"timezone"`
	Targets                 Targets  `yaml:"targets"`
	ComplianceModeDefault   string   `yaml:"complianceModeDefault" validate:"oneof=strict lenient points"`
	PointsTargetDefault     int      `yaml:"pointsTargetDefault" validate:"min=1"`
	Schedule                Schedule `yaml:"schedule"`
	StartDate               string   `yaml:"startDate,omitempty" validate:"omitempty,datetime=2006-01-02"`
	RestDays                string   `yaml:"restDays,omitempty"`
	DayOffVotingWindowHours int      `yaml:"dayOffVotingWindowHours" validate:"min=1"`
	Slack                   Slack    `yaml:"slack"`
}

var validate *validator.Validate

func init() {
	validate = validator.New()
}

// VotingWindow is how long a day-off request stays open
func (c *Config) VotingWindow() time.Duration {
	return time.Duration(c.DayOffVotingWindowHours) * time.Hour
}

// applyDefaults fills unset fields
func applyDefaults(cfg *Config) {
	if cfg.DefaultTimezone == "" {
		cfg.DefaultTimezone = "America/Los_Angeles"
	}
	if cfg.Targets == (Targets{}) {
		cfg.Targets = Targets{Male: 200, Female: 100, Default: 200}
	}
	if cfg.ComplianceModeDefault == "" {
		cfg.ComplianceModeDefault = "strict"
	}
	if cfg.PointsTargetDefault == 0 {
		cfg.PointsTargetDefault = 1
	}
	defaultTime(&cfg.Schedule.Checkin, "06:00")
	defaultTime(&cfg.Schedule.Leaderboard, "20:00")
	defaultTime(&cfg.Schedule.Motivation, "18:00")
	defaultTime(&cfg.Schedule.Reminder, "22:00")
	defaultTime(&cfg.Schedule.Punishment, "00:05")
	if cfg.DayOffVotingWindowHours == 0 {
		cfg.DayOffVotingWindowHours = 12
	}
	if cfg.PunishmentsTab == "" {
		cfg.PunishmentsTab = "Punishments"
	}
	if cfg.Slack.Port == 0 {
		cfg.Slack.Port = 3000
	}
}

func defaultTime(field *string, value string) {
	if *field == "" {
		*field = value
	}
}

// LoadWithEnv loads and validates challenge_config.<env>.yaml
// It looks for the config file in the current directory first, then in the user's home directory
func LoadWithEnv(env string) (*Config, error) {
	configPath, err := findConfigFile(fmt.Sprintf("challenge_config.%s.yaml", env))
	if err != nil {
		return nil, fmt.Errorf("failed to find config file: %w", err)
	}

	return LoadFromPath(configPath)
}

// LoadFromPath loads and validates the configuration from a specific path
func LoadFromPath(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}
	applyDefaults(&cfg)

	if err := Validate(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate validates the configuration struct and checks rrule syntax
func Validate(cfg *Config) error {
	if err := validate.Struct(cfg); err != nil {
		return fmt.Errorf("config validation failed: %w", err)
	}

	if cfg.RestDays != "" {
		if _, err := rrule.StrToRRule(cfg.RestDays); err != nil {
			return fmt.Errorf("invalid rrule in restDays: %w", err)
		}
	}

	return nil
}

// findConfigFile searches for the named file in the current directory and home directory
func findConfigFile(configFileName string) (string, error) {
	if _, err := os.Stat(configFileName); err == nil {
		return configFileName, nil
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}

	homeConfigPath := filepath.Join(homeDir, configFileName)
	if _, err := os.Stat(homeConfigPath); err == nil {
		return homeConfigPath, nil
	}

	return "", fmt.Errorf("%s not found in current directory or home directory", configFileName)
}
