package db

import (
	"context"
	"fmt"

	"github.com/TenaciousPub/Challenge/pkg/sheetssql"
)

// GetChallenges retrieves all challenge records, active or not
func (db *DB) GetChallenges(ctx context.Context) ([]Challenge, error) {
	challenges, err := sheetssql.GetTableAs[Challenge](db.ssql, "challenge")
	if err != nil {
		return nil, fmt.Errorf("failed to get challenges: %w", err)
	}
	return challenges, nil
}

// InsertChallenge inserts a new challenge record
func (db *DB) InsertChallenge(challenge *Challenge) error {
	if err := sheetssql.InsertModel(db.ssql, *challenge); err != nil {
		return fmt.Errorf("failed to insert challenge: %w", err)
	}
	return nil
}

// SetChallengeActive flips a challenge's active flag, reporting whether it exists
func (db *DB) SetChallengeActive(ctx context.Context, challengeID string, active bool) (bool, error) {
	challenges, err := db.GetChallenges(ctx)
	if err != nil {
		return false, err
	}

	for _, c := range challenges {
		if c.ID != challengeID {
			continue
		}
		c.Active = active
		updated, err := sheetssql.UpdateModelWhere(db.ssql, c, func(row Challenge) bool {
			return row.ID == challengeID
		})
		if err != nil {
			return false, fmt.Errorf("failed to update challenge %s: %w", challengeID, err)
		}
		return updated, nil
	}

	return false, nil
}
