package db

import (
	"time"

	"github.com/TenaciousPub/Challenge/pkg/sheetssql"
)

// DB provides database operations using SheetsSQL
type DB struct {
	ssql *sheetssql.DB
	now  func() time.Time
}

// NewDB creates a new database instance
func NewDB(ssql *sheetssql.DB) *DB {
	return &DB{
		ssql: ssql,
		now:  time.Now,
	}
}

func (db *DB) timestamp() string {
	return db.now().UTC().Format(time.RFC3339)
}
