package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/TenaciousPub/Challenge/pkg/db"
)

// GetChallenges retrieves all challenge records
func (d *DB) GetChallenges(ctx context.Context) ([]db.Challenge, error) {
	rows, err := d.pool.Query(ctx, `
		SELECT challenge_id, participant_id, challenge_type, daily_target, unit, is_active, created_at
		FROM challenge
		ORDER BY created_at
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query challenges: %w", err)
	}
	defer rows.Close()

	var challenges []db.Challenge
	for rows.Next() {
		var c db.Challenge
		var createdAt time.Time
		if err := rows.Scan(&c.ID, &c.ParticipantID, &c.Type, &c.DailyTarget, &c.Unit, &c.Active, &createdAt); err != nil {
			return nil, fmt.Errorf("failed to scan challenge: %w", err)
		}
		c.CreatedAt = formatTimestamp(&createdAt)
		challenges = append(challenges, c)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating challenges: %w", err)
	}

	return challenges, nil
}

// InsertChallenge inserts a new challenge record
func (d *DB) InsertChallenge(c *db.Challenge) error {
	_, err := d.pool.Exec(context.Background(), `
		INSERT INTO challenge (challenge_id, participant_id, challenge_type, daily_target, unit, is_active, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, COALESCE($7::timestamptz, NOW()))
	`, c.ID, c.ParticipantID, c.Type, c.DailyTarget, c.Unit, c.Active, nullable(c.CreatedAt))
	if err != nil {
		return fmt.Errorf("failed to insert challenge: %w", err)
	}
	return nil
}

// SetChallengeActive flips a challenge's active flag, reporting whether it exists
func (d *DB) SetChallengeActive(ctx context.Context, challengeID string, active bool) (bool, error) {
	tag, err := d.pool.Exec(ctx, `
		UPDATE challenge SET is_active = $2 WHERE challenge_id = $1
	`, challengeID, active)
	if err != nil {
		return false, fmt.Errorf("failed to update challenge %s: %w", challengeID, err)
	}
	return tag.RowsAffected() > 0, nil
}
