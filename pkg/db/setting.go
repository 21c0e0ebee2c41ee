package db

import (
	"context"
	"fmt"

	"github.com/TenaciousPub/Challenge/pkg/sheetssql"
)

// GetSetting returns a setting value and whether it exists
func (db *DB) GetSetting(ctx context.Context, key string) (string, bool, error) {
	rows, err := sheetssql.GetTableAs[Setting](db.ssql, "setting")
	if err != nil {
		return "", false, fmt.Errorf("failed to get settings: %w", err)
	}

	for _, row := range rows {
		if row.Key == key {
			return row.Value, true, nil
		}
	}
	return "", false, nil
}

// SetSetting creates or overwrites a setting
func (db *DB) SetSetting(ctx context.Context, key, value string) error {
	row := Setting{Key: key, Value: value, UpdatedAt: db.timestamp()}
	err := sheetssql.UpsertModelWhere(db.ssql, row, func(s Setting) bool {
		return s.Key == key
	})
	if err != nil {
		return fmt.Errorf("failed to set setting %s: %w", key, err)
	}
	return nil
}
