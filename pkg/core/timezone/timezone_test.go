package timezone

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"empty uses default", "", "America/Los_Angeles"},
		{"whitespace uses default", "   ", "America/Los_Angeles"},
		{"pst alias", "PST", "America/Los_Angeles"},
		{"edt alias", "edt", "America/New_York"},
		{"cst alias", " Cst ", "America/Chicago"},
		{"mdt alias", "MDT", "America/Denver"},
		{"utc alias", "utc", "Etc/UTC"},
		{"gmt alias", "GMT", "Etc/UTC"},
		{"iana name kept", "Europe/London", "Europe/London"},
		{"inner whitespace removed", "Europe/ London", "Europe/London"},
		{"unknown uses default", "Mars/Olympus", "America/Los_Angeles"},
		{"local is not a zone", "Local", "America/Los_Angeles"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Normalize(tt.input, "America/Los_Angeles"))
		})
	}
}

func TestNormalize_EmptyDefaultFallsBackToPackageDefault(t *testing.T) {
	assert.Equal(t, DefaultZone, Normalize("", ""))
}

func TestLocalDay(t *testing.T) {
	now := time.Date(2025, 3, 10, 3, 0, 0, 0, time.UTC)

	assert.Equal(t, "2025-03-09", LocalDay(now, "America/Los_Angeles"))
	assert.Equal(t, "2025-03-10", LocalDay(now, "Europe/London"))
	assert.Equal(t, "2025-03-10", LocalDay(now, "not-a-zone"))
}

func TestPreviousDay(t *testing.T) {
	assert.Equal(t, "2025-02-28", PreviousDay("2025-03-01"))
	assert.Equal(t, "", PreviousDay("yesterday"))
}
