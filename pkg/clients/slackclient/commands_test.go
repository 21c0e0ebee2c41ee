package slackclient

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseCommand(t *testing.T) {
	tests := []struct {
		text     string
		expected Command
	}{
		{"", Command{Name: "help"}},
		{"  Status ", Command{Name: "status", Raw: "  Status "}},
		{"log 50 bonus=10 evening set", Command{Name: "log", Args: []string{"50", "bonus=10", "evening", "set"}, Raw: "log 50 bonus=10 evening set"}},
		{"challenge ADD squats 30", Command{Name: "challenge", Sub: "add", Args: []string{"squats", "30"}, Raw: "challenge ADD squats 30"}},
		{"dayoff", Command{Name: "dayoff", Raw: "dayoff"}},
		{"challenge list", Command{Name: "challenge", Sub: "list", Raw: "challenge list"}},
		{"mode set points", Command{Name: "mode", Args: []string{"set", "points"}, Raw: "mode set points"}},
	}

	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			assert.Equal(t, tt.expected, ParseCommand(tt.text))
		})
	}
}

func TestKeyValues(t *testing.T) {
	opts, positional := keyValues([]string{"40", "bonus=5", "date=2025-03-01", "=odd", "after", "work"})

	assert.Equal(t, map[string]string{"bonus": "5", "date": "2025-03-01"}, opts)
	assert.Equal(t, []string{"40", "=odd", "after", "work"}, positional)
}
