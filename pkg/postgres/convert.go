package postgres

import (
	"strconv"
	"strings"
	"time"
)

const dateLayout = "2006-01-02"

// nullable returns nil for empty strings so optional DATE/TIMESTAMPTZ/TEXT columns store NULL
func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func formatDate(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format(dateLayout)
}

func formatTimestamp(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}

func orEmpty(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// atoiOrZero parses hand-entered counts, treating anything unparseable as zero
func atoiOrZero(s string) int {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0
	}
	return n
}
