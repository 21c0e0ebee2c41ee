package db

import (
	"context"
	"fmt"

	"github.com/TenaciousPub/Challenge/pkg/sheetssql"
)

// GetDailyLogs retrieves the log rows recorded for a date
func (db *DB) GetDailyLogs(ctx context.Context, date string) ([]DailyLog, error) {
	rows, err := sheetssql.GetTableAs[DailyLog](db.ssql, "daily_log")
	if err != nil {
		return nil, fmt.Errorf("failed to get daily logs: %w", err)
	}

	logs := make([]DailyLog, 0)
	for _, row := range rows {
		if row.Date == date {
			logs = append(logs, row)
		}
	}
	return logs, nil
}

// InsertDailyLog appends a log row
func (db *DB) InsertDailyLog(log *DailyLog) error {
	if err := sheetssql.InsertModel(db.ssql, *log); err != nil {
		return fmt.Errorf("failed to insert daily log: %w", err)
	}
	return nil
}

// MarkPenalized flags the participant's first log row for the date,
// appending an empty marker row when they logged nothing
func (db *DB) MarkPenalized(ctx context.Context, participantID, date string) error {
	rows, err := sheetssql.GetTableAs[DailyLog](db.ssql, "daily_log")
	if err != nil {
		return fmt.Errorf("failed to get daily logs: %w", err)
	}

	for _, row := range rows {
		if row.Date != date || row.ParticipantID != participantID {
			continue
		}
		if row.Penalized {
			return nil
		}
		row.Penalized = true
		_, err := sheetssql.UpdateModelWhere(db.ssql, row, func(r DailyLog) bool {
			return r.Date == date && r.ParticipantID == participantID
		})
		if err != nil {
			return fmt.Errorf("failed to mark penalized: %w", err)
		}
		return nil
	}

	marker := DailyLog{
		Date:          date,
		ParticipantID: participantID,
		Amount:        "0",
		Penalized:     true,
		Notes:         "penalized",
		LoggedAt:      db.timestamp(),
	}
	return db.InsertDailyLog(&marker)
}
