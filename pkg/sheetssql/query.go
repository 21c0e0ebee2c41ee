package sheetssql

import (
	"fmt"
	"reflect"
	"strconv"
)

// Row is a decoded data row together with its 1-based position in the sheet
type Row[T any] struct {
	Number int
	Model  T
}

// GetTableAs retrieves all rows from a table and maps them to structs of type T.
// The header and type rows are skipped.
func GetTableAs[T any](db *DB, tableName string) ([]T, error) {
	rows, err := GetRowsAs[T](db, tableName)
	if err != nil {
		return nil, err
	}

	results := make([]T, 0, len(rows))
	for _, row := range rows {
		results = append(results, row.Model)
	}
	return results, nil
}

// GetRowsAs is GetTableAs but keeps each row's sheet position for later updates
func GetRowsAs[T any](db *DB, tableName string) ([]Row[T], error) {
	values, err := db.client.GetValues(db.spreadsheetID, tableName)
	if err != nil {
		return nil, fmt.Errorf("failed to get table %s: %w", tableName, err)
	}

	if len(values) < dataStartRow {
		return []Row[T]{}, nil
	}

	headers := values[0]
	dataRows := values[dataStartRow-1:]

	var model T
	t := reflect.TypeOf(model)

	columnIndexes := make(map[string]int)
	for i, header := range headers {
		if headerStr, ok := header.(string); ok {
			columnIndexes[headerStr] = i
		}
	}

	fieldMap := make(map[string]reflect.StructField)
	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		if columnName := field.Tag.Get("ssql_header"); columnName != "" {
			fieldMap[columnName] = field
		}
	}

	results := make([]Row[T], 0, len(dataRows))
	for rowIdx, row := range dataRows {
		if isBlankRow(row) {
			continue
		}

		result := reflect.New(t).Elem()
		for columnName, colIdx := range columnIndexes {
			field, ok := fieldMap[columnName]
			if !ok || colIdx >= len(row) || row[colIdx] == nil {
				continue
			}

			if err := setFieldValue(result.FieldByName(field.Name), row[colIdx]); err != nil {
				return nil, fmt.Errorf("row %d, column %s: %w", rowIdx+dataStartRow, columnName, err)
			}
		}

		results = append(results, Row[T]{
			Number: rowIdx + dataStartRow,
			Model:  result.Interface().(T),
		})
	}

	return results, nil
}

func isBlankRow(row []interface{}) bool {
	for _, cell := range row {
		if s, ok := cell.(string); !ok || s != "" {
			return false
		}
	}
	return true
}

// setFieldValue converts a sheet cell value to the appropriate Go type and sets it on the field
func setFieldValue(field reflect.Value, cellValue interface{}) error {
	if !field.CanSet() {
		return fmt.Errorf("field cannot be set")
	}

	// Values are read formatted, so every cell arrives as a string
	cellStr, ok := cellValue.(string)
	if !ok {
		return fmt.Errorf("cell value is not a string")
	}

	switch field.Kind() {
	case reflect.String:
		field.SetString(cellStr)

	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		if cellStr == "" {
			field.SetInt(0)
			return nil
		}
		intVal, err := strconv.ParseInt(cellStr, 10, 64)
		if err != nil {
			return fmt.Errorf("failed to parse int: %w", err)
		}
		field.SetInt(intVal)

	case reflect.Float32, reflect.Float64:
		if cellStr == "" {
			field.SetFloat(0)
			return nil
		}
		floatVal, err := strconv.ParseFloat(cellStr, 64)
		if err != nil {
			return fmt.Errorf("failed to parse float: %w", err)
		}
		field.SetFloat(floatVal)

	case reflect.Bool:
		if cellStr == "" {
			field.SetBool(false)
			return nil
		}
		boolVal, err := strconv.ParseBool(cellStr)
		if err != nil {
			return fmt.Errorf("failed to parse bool: %w", err)
		}
		field.SetBool(boolVal)

	default:
		return fmt.Errorf("unsupported field type: %s", field.Kind())
	}

	return nil
}

// modelRow flattens a tagged struct into cell values in column order
func modelRow(model interface{}) []interface{} {
	t := reflect.TypeOf(model)
	v := reflect.ValueOf(model)

	row := make([]interface{}, 0, t.NumField())
	for i := 0; i < t.NumField(); i++ {
		if t.Field(i).Tag.Get("ssql_header") == "" {
			continue
		}
		row = append(row, v.Field(i).Interface())
	}
	return row
}

// InsertModel appends a struct as a row to its corresponding table
func InsertModel[T any](db *DB, model T) error {
	return db.InsertRow(TableName(model), modelRow(model))
}

// InsertModels appends multiple structs as rows to their corresponding table
func InsertModels[T any](db *DB, models []T) error {
	if len(models) == 0 {
		return nil
	}

	rows := make([][]interface{}, 0, len(models))
	for _, model := range models {
		rows = append(rows, modelRow(model))
	}

	return db.InsertRows(TableName(models[0]), rows)
}

// UpdateModelWhere overwrites the first row matching match with model.
// It reports whether a row was found.
func UpdateModelWhere[T any](db *DB, model T, match func(T) bool) (bool, error) {
	tableName := TableName(model)

	rows, err := GetRowsAs[T](db, tableName)
	if err != nil {
		return false, err
	}

	for _, row := range rows {
		if !match(row.Model) {
			continue
		}
		if err := db.UpdateRow(tableName, row.Number, modelRow(model)); err != nil {
			return false, fmt.Errorf("failed to update row %d in %s: %w", row.Number, tableName, err)
		}
		return true, nil
	}

	return false, nil
}

// UpsertModelWhere updates the first matching row or appends model when none matches
func UpsertModelWhere[T any](db *DB, model T, match func(T) bool) error {
	updated, err := UpdateModelWhere(db, model, match)
	if err != nil {
		return err
	}
	if updated {
		return nil
	}
	return InsertModel(db, model)
}
