package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/TenaciousPub/Challenge/pkg/db"
)

func TestLogBook_RecordDefaults(t *testing.T) {
	f := joinedFixture(t, "U1")
	ctx := context.Background()

	ch, err := f.challenges.AddChallenge(ctx, AddChallengeInput{ParticipantID: "U1", Type: "pushups", DailyTarget: 50})
	require.NoError(t, err)

	entry, err := f.logbook.Record(ctx, LogInput{ParticipantID: "U1", Amount: 25, Bonus: 5})
	require.NoError(t, err)

	assert.Equal(t, "2025-03-03", entry.Date, "participant's local day")
	assert.Equal(t, ch.ID, entry.ChallengeID, "only active challenge")
	require.Len(t, f.logDB.rows, 1)
	assert.Equal(t, "25", f.logDB.rows[0].Amount)
	assert.Equal(t, "5", f.logDB.rows[0].Bonus)
}

func TestLogBook_RecordErrors(t *testing.T) {
	f := joinedFixture(t, "U1")
	ctx := context.Background()

	ch, err := f.challenges.AddChallenge(ctx, AddChallengeInput{ParticipantID: "U1", Type: "pushups", DailyTarget: 50})
	require.NoError(t, err)
	require.NoError(t, f.challenges.RemoveChallenge(ctx, "U1", ch.ID))

	tests := []struct {
		name    string
		input   LogInput
		wantErr error
	}{
		{"negative amount", LogInput{ParticipantID: "U1", Amount: -1}, ErrInvalidLog},
		{"bad day", LogInput{ParticipantID: "U1", Day: "03/03/2025"}, ErrInvalidLog},
		{"unknown participant", LogInput{ParticipantID: "U2", Amount: 1}, ErrUnknownParticipant},
		{"inactive challenge", LogInput{ParticipantID: "U1", Amount: 1, ChallengeID: ch.ID}, ErrChallengeNotActive},
		{"foreign challenge", LogInput{ParticipantID: "U1", Amount: 1, ChallengeID: "c_other"}, ErrChallengeNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.logbook.Record(ctx, tt.input)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
	assert.Empty(t, f.logDB.rows)
}

func TestLogBook_DailyLogsParsesHandEditedCells(t *testing.T) {
	f := newFixture()
	f.logDB.rows = []db.DailyLog{
		{Date: "2025-03-03", ParticipantID: "U1", Amount: "40", Bonus: ""},
		{Date: "2025-03-03", ParticipantID: "U1", Amount: "12.0", Bonus: "3"},
		{Date: "2025-03-03", ParticipantID: "U2", Amount: "lots", Penalized: true},
		{Date: "2025-03-02", ParticipantID: "U1", Amount: "99"},
	}

	entries, err := f.logbook.DailyLogs(context.Background(), "2025-03-03")
	require.NoError(t, err)
	require.Len(t, entries, 3)

	assert.Equal(t, 40, entries[0].Amount)
	assert.Equal(t, 0, entries[0].Bonus)
	assert.Equal(t, 12, entries[1].Amount)
	assert.Equal(t, 3, entries[1].Bonus)
	assert.Equal(t, 0, entries[2].Amount)
	assert.True(t, entries[2].Penalized)
}

func TestParseCount(t *testing.T) {
	tests := []struct {
		cell     string
		expected int
	}{
		{"", 0},
		{" 25 ", 25},
		{"7.9", 7},
		{"-50", 0},
		{"-2.5", 0},
		{"NaN", 0},
		{"2000000", maxCount},
		{"99999999999999999999", maxCount},
		{"1e300", maxCount},
		{"+Inf", maxCount},
		{"abc", 0},
	}

	for _, tt := range tests {
		t.Run(tt.cell, func(t *testing.T) {
			assert.Equal(t, tt.expected, parseCount(tt.cell))
		})
	}
}

func TestLogBook_MarkPenalized(t *testing.T) {
	f := newFixture()

	require.NoError(t, f.logbook.MarkPenalized(context.Background(), "U1", "2025-03-03"))
	assert.Equal(t, []string{"U1@2025-03-03"}, f.logDB.penalized)
}
