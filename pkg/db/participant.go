package db

import (
	"context"
	"fmt"

	"github.com/TenaciousPub/Challenge/pkg/sheetssql"
)

// GetParticipants retrieves all participants. When a participant appears on
// more than one row, the first row wins, matching the row UpdateParticipant rewrites.
func (db *DB) GetParticipants(ctx context.Context) ([]Participant, error) {
	rows, err := sheetssql.GetTableAs[Participant](db.ssql, "participant")
	if err != nil {
		return nil, fmt.Errorf("failed to get participants: %w", err)
	}
	return dedupeParticipants(rows), nil
}

func dedupeParticipants(rows []Participant) []Participant {
	index := make(map[string]int)
	out := make([]Participant, 0, len(rows))
	for _, p := range rows {
		if p.ID == "" {
			continue
		}
		if _, ok := index[p.ID]; ok {
			continue
		}
		index[p.ID] = len(out)
		out = append(out, p)
	}
	return out
}

// InsertParticipant inserts a new participant record
func (db *DB) InsertParticipant(participant *Participant) error {
	if err := sheetssql.InsertModel(db.ssql, *participant); err != nil {
		return fmt.Errorf("failed to insert participant: %w", err)
	}
	return nil
}

// UpdateParticipant rewrites the participant's row, appending it if missing
func (db *DB) UpdateParticipant(ctx context.Context, participant *Participant) error {
	err := sheetssql.UpsertModelWhere(db.ssql, *participant, func(p Participant) bool {
		return p.ID == participant.ID
	})
	if err != nil {
		return fmt.Errorf("failed to update participant %s: %w", participant.ID, err)
	}
	return nil
}
