package db

import "context"

// ParticipantStore defines the interface for participant database operations
type ParticipantStore interface {
	GetParticipants(ctx context.Context) ([]Participant, error)
	InsertParticipant(participant *Participant) error
	UpdateParticipant(ctx context.Context, participant *Participant) error
}

// ChallengeStore defines the interface for challenge database operations
type ChallengeStore interface {
	GetChallenges(ctx context.Context) ([]Challenge, error)
	InsertChallenge(challenge *Challenge) error
	SetChallengeActive(ctx context.Context, challengeID string, active bool) (bool, error)
}

// DailyLogStore defines the interface for daily log database operations
type DailyLogStore interface {
	GetDailyLogs(ctx context.Context, date string) ([]DailyLog, error)
	InsertDailyLog(log *DailyLog) error
	MarkPenalized(ctx context.Context, participantID, date string) error
}

// SettingStore defines the interface for key/value settings
type SettingStore interface {
	GetSetting(ctx context.Context, key string) (string, bool, error)
	SetSetting(ctx context.Context, key, value string) error
}

// DayOffVoteStore defines the interface for day-off ballot rows
type DayOffVoteStore interface {
	GetDayOffVotes(ctx context.Context) ([]DayOffVote, error)
	InsertDayOffVotes(votes []DayOffVote) error
	UpsertDayOffVote(ctx context.Context, vote *DayOffVote) error
}

// Database defines the interface for all database operations.
// Both the SheetsSQL-backed db.DB and postgres.DB implement this interface.
type Database interface {
	ParticipantStore
	ChallengeStore
	DailyLogStore
	SettingStore
	DayOffVoteStore
}
