package sheetsclient

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/TenaciousPub/Challenge/pkg/core/report"
)

var leaderboardColumns = []string{"Participant", "Compliant", "Progress"}

// LeaderboardPublisher writes the daily leaderboard to its own tab
type LeaderboardPublisher struct {
	api           SheetsAPI
	spreadsheetID string
	logger        *zap.Logger
}

func NewLeaderboardPublisher(api SheetsAPI, spreadsheetID string, logger *zap.Logger) *LeaderboardPublisher {
	return &LeaderboardPublisher{api: api, spreadsheetID: spreadsheetID, logger: logger}
}

// LeaderboardTabTitle names the tab for a day, e.g. "Leaderboard Mon Mar 03 2025"
func LeaderboardTabTitle(day time.Time) string {
	return "Leaderboard " + day.Format("Mon Jan 02 2006")
}

// PublishLeaderboard creates the day's tab, or overwrites the managed columns of an
// existing one. Columns added by hand are kept and stay attached to their participant.
func (p *LeaderboardPublisher) PublishLeaderboard(ctx context.Context, day time.Time, rows []report.LeaderboardRow) error {
	title := LeaderboardTabTitle(day)

	titles, err := p.api.ListSheetTitles(p.spreadsheetID)
	if err != nil {
		return fmt.Errorf("failed to list tabs: %w", err)
	}

	var existing [][]interface{}
	if slices.Contains(titles, title) {
		existing, err = p.api.GetValues(p.spreadsheetID, title+"!A1:ZZ")
		if err != nil {
			return fmt.Errorf("failed to read existing leaderboard: %w", err)
		}
	} else {
		if _, err := p.api.CreateSheet(p.spreadsheetID, title); err != nil {
			return fmt.Errorf("failed to create leaderboard tab: %w", err)
		}
	}

	values := buildLeaderboardValues(rows, existing)
	if err := p.api.UpdateValues(p.spreadsheetID, title+"!A1", values); err != nil {
		return fmt.Errorf("failed to write leaderboard: %w", err)
	}

	p.logger.Info("Published leaderboard",
		zap.String("tab", title),
		zap.Int("rows", len(rows)))
	return nil
}

// buildLeaderboardValues lays out the tab with a 2-row gap, the header on row 3, then one row per participant
func buildLeaderboardValues(rows []report.LeaderboardRow, existing [][]interface{}) [][]interface{} {
	var extraCols []int
	var header []interface{}
	extras := make(map[string][]interface{})

	if len(existing) >= 3 {
		oldHeader := existing[2]
		nameCol := findColumnIndex(oldHeader, "Participant")
		for i, cell := range oldHeader {
			name := cellString(cell)
			if name == "" || slices.Contains(leaderboardColumns, name) {
				continue
			}
			extraCols = append(extraCols, i)
			header = append(header, name)
		}

		if nameCol != -1 {
			for _, old := range existing[3:] {
				if nameCol >= len(old) {
					continue
				}
				var kept []interface{}
				for _, col := range extraCols {
					if col < len(old) {
						kept = append(kept, old[col])
					} else {
						kept = append(kept, "")
					}
				}
				extras[cellString(old[nameCol])] = kept
			}
		}
	}

	fullHeader := make([]interface{}, 0, len(leaderboardColumns)+len(header))
	for _, col := range leaderboardColumns {
		fullHeader = append(fullHeader, col)
	}
	fullHeader = append(fullHeader, header...)

	values := [][]interface{}{{}, {}, fullHeader}
	for _, r := range rows {
		compliant := "No"
		if r.Compliant {
			compliant = "Yes"
		}
		row := []interface{}{r.Name, compliant, r.Progress}
		if kept, ok := extras[r.Name]; ok {
			row = append(row, kept...)
		} else {
			for range extraCols {
				row = append(row, "")
			}
		}
		values = append(values, row)
	}
	return values
}

// findColumnIndex finds the index of a column by its header name, ignoring case
func findColumnIndex(header []interface{}, columnName string) int {
	for i, cell := range header {
		if strings.EqualFold(cellString(cell), columnName) {
			return i
		}
	}
	return -1
}

func cellString(cell interface{}) string {
	if cell == nil {
		return ""
	}
	return strings.TrimSpace(fmt.Sprint(cell))
}
