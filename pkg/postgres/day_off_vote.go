package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/TenaciousPub/Challenge/pkg/db"
)

const upsertDayOffVote = `
	INSERT INTO day_off_vote (request_id, participant_id, target_day, request_date, requested_by,
	                          deadline, vote, voted_at, reason)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	ON CONFLICT (request_id, participant_id) DO UPDATE SET
		vote = EXCLUDED.vote,
		voted_at = EXCLUDED.voted_at,
		reason = EXCLUDED.reason
`

// GetDayOffVotes retrieves every ballot row
func (d *DB) GetDayOffVotes(ctx context.Context) ([]db.DayOffVote, error) {
	rows, err := d.pool.Query(ctx, `
		SELECT request_id, participant_id, target_day, request_date, requested_by,
		       deadline, vote, voted_at, reason
		FROM day_off_vote
		ORDER BY request_id, participant_id
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query day-off votes: %w", err)
	}
	defer rows.Close()

	var votes []db.DayOffVote
	for rows.Next() {
		var v db.DayOffVote
		var targetDay, requestDate, deadline time.Time
		var votedAt *time.Time
		if err := rows.Scan(&v.RequestID, &v.ParticipantID, &targetDay, &requestDate, &v.RequestedBy,
			&deadline, &v.Vote, &votedAt, &v.Reason); err != nil {
			return nil, fmt.Errorf("failed to scan day-off vote: %w", err)
		}
		v.TargetDay = formatDate(&targetDay)
		v.RequestDate = formatDate(&requestDate)
		v.Deadline = formatTimestamp(&deadline)
		v.VotedAt = formatTimestamp(votedAt)
		votes = append(votes, v)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating day-off votes: %w", err)
	}

	return votes, nil
}

// InsertDayOffVotes inserts ballot rows for a new request in one transaction
func (d *DB) InsertDayOffVotes(votes []db.DayOffVote) error {
	if len(votes) == 0 {
		return nil
	}

	ctx := context.Background()
	tx, err := d.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	for _, v := range votes {
		if _, err := tx.Exec(ctx, upsertDayOffVote, voteArgs(&v)...); err != nil {
			return fmt.Errorf("failed to insert day-off vote: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// UpsertDayOffVote updates the ballot for (request, participant) or inserts it
func (d *DB) UpsertDayOffVote(ctx context.Context, v *db.DayOffVote) error {
	if _, err := d.pool.Exec(ctx, upsertDayOffVote, voteArgs(v)...); err != nil {
		return fmt.Errorf("failed to save day-off vote: %w", err)
	}
	return nil
}

func voteArgs(v *db.DayOffVote) []any {
	return []any{
		v.RequestID, v.ParticipantID, v.TargetDay, v.RequestDate, v.RequestedBy,
		v.Deadline, v.Vote, nullable(v.VotedAt), v.Reason,
	}
}
