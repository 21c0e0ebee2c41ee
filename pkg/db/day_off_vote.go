package db

import (
	"context"
	"fmt"

	"github.com/TenaciousPub/Challenge/pkg/sheetssql"
)

// GetDayOffVotes retrieves every ballot row
func (db *DB) GetDayOffVotes(ctx context.Context) ([]DayOffVote, error) {
	votes, err := sheetssql.GetTableAs[DayOffVote](db.ssql, "day_off_vote")
	if err != nil {
		return nil, fmt.Errorf("failed to get day-off votes: %w", err)
	}
	return votes, nil
}

// InsertDayOffVotes appends ballot rows
func (db *DB) InsertDayOffVotes(votes []DayOffVote) error {
	if err := sheetssql.InsertModels(db.ssql, votes); err != nil {
		return fmt.Errorf("failed to insert day-off votes: %w", err)
	}
	return nil
}

// UpsertDayOffVote updates the ballot row for (request, participant) or appends it
func (db *DB) UpsertDayOffVote(ctx context.Context, vote *DayOffVote) error {
	err := sheetssql.UpsertModelWhere(db.ssql, *vote, func(v DayOffVote) bool {
		return v.RequestID == vote.RequestID && v.ParticipantID == vote.ParticipantID
	})
	if err != nil {
		return fmt.Errorf("failed to save day-off vote: %w", err)
	}
	return nil
}
