package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/TenaciousPub/Challenge/pkg/db"
)

// GetParticipants retrieves all participant records in join order
func (d *DB) GetParticipants(ctx context.Context) ([]db.Participant, error) {
	rows, err := d.pool.Query(ctx, `
		SELECT participant_id, display_name, gender, is_disabled, timezone,
		       joined_on, last_punished_on, last_congrats_on, default_challenge_id
		FROM participant
		ORDER BY joined_on NULLS FIRST, participant_id
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query participants: %w", err)
	}
	defer rows.Close()

	var participants []db.Participant
	for rows.Next() {
		var p db.Participant
		var joinedOn, lastPunished, lastCongrats *time.Time
		var defaultChallenge *string
		if err := rows.Scan(&p.ID, &p.DisplayName, &p.Gender, &p.Disabled, &p.Timezone,
			&joinedOn, &lastPunished, &lastCongrats, &defaultChallenge); err != nil {
			return nil, fmt.Errorf("failed to scan participant: %w", err)
		}
		p.JoinedOn = formatDate(joinedOn)
		p.LastPunishedOn = formatDate(lastPunished)
		p.LastCongratsOn = formatDate(lastCongrats)
		p.DefaultChallengeID = orEmpty(defaultChallenge)
		participants = append(participants, p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating participants: %w", err)
	}

	return participants, nil
}

// InsertParticipant inserts a new participant record
func (d *DB) InsertParticipant(p *db.Participant) error {
	_, err := d.pool.Exec(context.Background(), `
		INSERT INTO participant (participant_id, display_name, gender, is_disabled, timezone,
		                         joined_on, last_punished_on, last_congrats_on, default_challenge_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`, p.ID, p.DisplayName, p.Gender, p.Disabled, p.Timezone,
		nullable(p.JoinedOn), nullable(p.LastPunishedOn), nullable(p.LastCongratsOn), nullable(p.DefaultChallengeID))
	if err != nil {
		return fmt.Errorf("failed to insert participant: %w", err)
	}
	return nil
}

// UpdateParticipant rewrites a participant record, inserting it if missing
func (d *DB) UpdateParticipant(ctx context.Context, p *db.Participant) error {
	_, err := d.pool.Exec(ctx, `
		INSERT INTO participant (participant_id, display_name, gender, is_disabled, timezone,
		                         joined_on, last_punished_on, last_congrats_on, default_challenge_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (participant_id) DO UPDATE SET
			display_name = EXCLUDED.display_name,
			gender = EXCLUDED.gender,
			is_disabled = EXCLUDED.is_disabled,
			timezone = EXCLUDED.timezone,
			joined_on = EXCLUDED.joined_on,
			last_punished_on = EXCLUDED.last_punished_on,
			last_congrats_on = EXCLUDED.last_congrats_on,
			default_challenge_id = EXCLUDED.default_challenge_id
	`, p.ID, p.DisplayName, p.Gender, p.Disabled, p.Timezone,
		nullable(p.JoinedOn), nullable(p.LastPunishedOn), nullable(p.LastCongratsOn), nullable(p.DefaultChallengeID))
	if err != nil {
		return fmt.Errorf("failed to update participant %s: %w", p.ID, err)
	}
	return nil
}
