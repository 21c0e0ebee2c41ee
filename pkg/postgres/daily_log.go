package postgres

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/TenaciousPub/Challenge/pkg/db"
)

// GetDailyLogs retrieves the log rows recorded for a date
func (d *DB) GetDailyLogs(ctx context.Context, date string) ([]db.DailyLog, error) {
	rows, err := d.pool.Query(ctx, `
		SELECT date, participant_id, amount, bonus, penalized, notes, logged_at, challenge_id
		FROM daily_log
		WHERE date = $1
		ORDER BY id
	`, date)
	if err != nil {
		return nil, fmt.Errorf("failed to query daily logs: %w", err)
	}
	defer rows.Close()

	var logs []db.DailyLog
	for rows.Next() {
		var l db.DailyLog
		var day, loggedAt time.Time
		var amount, bonus int
		var challengeID *string
		if err := rows.Scan(&day, &l.ParticipantID, &amount, &bonus, &l.Penalized, &l.Notes, &loggedAt, &challengeID); err != nil {
			return nil, fmt.Errorf("failed to scan daily log: %w", err)
		}
		l.Date = formatDate(&day)
		l.Amount = strconv.Itoa(amount)
		l.Bonus = strconv.Itoa(bonus)
		l.LoggedAt = formatTimestamp(&loggedAt)
		l.ChallengeID = orEmpty(challengeID)
		logs = append(logs, l)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating daily logs: %w", err)
	}

	return logs, nil
}

// InsertDailyLog appends a log row
func (d *DB) InsertDailyLog(l *db.DailyLog) error {
	_, err := d.pool.Exec(context.Background(), `
		INSERT INTO daily_log (date, participant_id, amount, bonus, penalized, notes, logged_at, challenge_id)
		VALUES ($1, $2, $3, $4, $5, $6, COALESCE($7::timestamptz, NOW()), $8)
	`, l.Date, l.ParticipantID, atoiOrZero(l.Amount), atoiOrZero(l.Bonus), l.Penalized, l.Notes,
		nullable(l.LoggedAt), nullable(l.ChallengeID))
	if err != nil {
		return fmt.Errorf("failed to insert daily log: %w", err)
	}
	return nil
}

// MarkPenalized flags the participant's first log row for the date,
// inserting a marker row when they logged nothing
func (d *DB) MarkPenalized(ctx context.Context, participantID, date string) error {
	tx, err := d.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	tag, err := tx.Exec(ctx, `
		UPDATE daily_log SET penalized = TRUE
		WHERE id = (
			SELECT id FROM daily_log
			WHERE participant_id = $1 AND date = $2
			ORDER BY id
			LIMIT 1
		)
	`, participantID, date)
	if err != nil {
		return fmt.Errorf("failed to mark penalized: %w", err)
	}

	if tag.RowsAffected() == 0 {
		_, err = tx.Exec(ctx, `
			INSERT INTO daily_log (date, participant_id, amount, penalized, notes)
			VALUES ($1, $2, 0, TRUE, 'penalized')
		`, date, participantID)
		if err != nil {
			return fmt.Errorf("failed to insert penalty marker: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}
