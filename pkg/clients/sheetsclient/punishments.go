package sheetsclient

import (
	"context"
	"fmt"

	"github.com/TenaciousPub/Challenge/pkg/core/workouts"
)

// WorkoutSource reads the punishment catalog tab
type WorkoutSource struct {
	api           SheetsAPI
	spreadsheetID string
	tab           string
}

func NewWorkoutSource(api SheetsAPI, spreadsheetID, tab string) *WorkoutSource {
	return &WorkoutSource{api: api, spreadsheetID: spreadsheetID, tab: tab}
}

// ListWorkouts retrieves and parses the catalog
func (s *WorkoutSource) ListWorkouts(ctx context.Context) ([]workouts.Workout, error) {
	values, err := s.api.GetValues(s.spreadsheetID, s.tab)
	if err != nil {
		return nil, fmt.Errorf("failed to get workout data: %w", err)
	}
	if len(values) == 0 {
		return nil, fmt.Errorf("workout tab %s is empty", s.tab)
	}
	return parseWorkouts(values)
}

// parseWorkouts maps rows by header name. Only the description column is required.
func parseWorkouts(values [][]interface{}) ([]workouts.Workout, error) {
	header := values[0]
	descCol := findColumnIndex(header, "description")
	if descCol == -1 {
		return nil, fmt.Errorf("workout tab is missing a description column")
	}
	idCol := findColumnIndex(header, "id")
	categoryCol := findColumnIndex(header, "category")
	difficultyCol := findColumnIndex(header, "difficulty")

	at := func(row []interface{}, col int) string {
		if col < 0 || col >= len(row) {
			return ""
		}
		return cellString(row[col])
	}

	var out []workouts.Workout
	for _, row := range values[1:] {
		desc := at(row, descCol)
		if desc == "" {
			continue
		}
		out = append(out, workouts.Workout{
			ID:          at(row, idCol),
			Description: desc,
			Category:    at(row, categoryCol),
			Difficulty:  at(row, difficultyCol),
		})
	}
	return out, nil
}
