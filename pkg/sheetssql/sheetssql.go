package sheetssql

import "fmt"

// SheetsClient defines the spreadsheet operations the database needs
type SheetsClient interface {
	GetValues(spreadsheetID, sheetRange string) ([][]interface{}, error)
	AppendRows(spreadsheetID, sheetRange string, values [][]interface{}) error
	UpdateValues(spreadsheetID, sheetRange string, values [][]interface{}) error
	CreateSheet(spreadsheetID, sheetTitle string) (int64, error)
	ListSheetTitles(spreadsheetID string) ([]string, error)
}

// Column defines a column with name and type
type Column struct {
	Name string
	Type string // e.g., "text", "date", "int", "bool", "uuid", "timestamp"
}

// TableSchema defines the structure of a table
type TableSchema struct {
	Name    string
	Columns []Column
}

// Schema defines the database schema
type Schema struct {
	Tables []TableSchema
}

// DB is a spreadsheet used as a database: one tab per table,
// header names on row 1, column types on row 2, data from row 3
type DB struct {
	client        SheetsClient
	spreadsheetID string
	schema        *Schema
}

// dataStartRow is the sheet row number of the first data row
const dataStartRow = 3

// NewDB connects to a spreadsheet and ensures every schema table exists
func NewDB(client SheetsClient, spreadsheetID string, schema *Schema) (*DB, error) {
	db := &DB{
		client:        client,
		spreadsheetID: spreadsheetID,
		schema:        schema,
	}

	if err := db.ensureSchema(); err != nil {
		return nil, fmt.Errorf("failed to ensure schema: %w", err)
	}

	return db, nil
}

// SpreadsheetID returns the database spreadsheet ID
func (db *DB) SpreadsheetID() string {
	return db.spreadsheetID
}

// InsertRow appends a single row to the specified table
func (db *DB) InsertRow(tableName string, row []interface{}) error {
	return db.client.AppendRows(db.spreadsheetID, tableName, [][]interface{}{row})
}

// InsertRows appends multiple rows to the specified table
func (db *DB) InsertRows(tableName string, rows [][]interface{}) error {
	return db.client.AppendRows(db.spreadsheetID, tableName, rows)
}

// UpdateRow overwrites the row at the given 1-based sheet row number
func (db *DB) UpdateRow(tableName string, rowNumber int, row []interface{}) error {
	if rowNumber < dataStartRow {
		return fmt.Errorf("row %d is not a data row", rowNumber)
	}
	sheetRange := fmt.Sprintf("%s!A%d", tableName, rowNumber)
	return db.client.UpdateValues(db.spreadsheetID, sheetRange, [][]interface{}{row})
}
