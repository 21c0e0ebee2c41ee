package compliance

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/TenaciousPub/Challenge/pkg/core/model"
)

type mockChallenges struct {
	active map[string][]model.Challenge
	err    error
}

func (m *mockChallenges) ListActiveChallenges(ctx context.Context, participantID string) ([]model.Challenge, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.active[participantID], nil
}

type mockLogs struct {
	entries map[string][]model.LogEntry
	err     error
	calls   int
}

func (m *mockLogs) DailyLogs(ctx context.Context, day string) ([]model.LogEntry, error) {
	m.calls++
	if m.err != nil {
		return nil, m.err
	}
	return m.entries[day], nil
}

type mockRoster struct {
	participants []model.Participant
}

func (m *mockRoster) List() []model.Participant {
	return m.participants
}

type fixedSettings struct {
	mode   model.ComplianceMode
	points int
}

func (f fixedSettings) Mode(ctx context.Context) model.ComplianceMode { return f.mode }
func (f fixedSettings) PointsTarget(ctx context.Context) int          { return f.points }

func TestEngine_EvaluateAll(t *testing.T) {
	roster := &mockRoster{participants: []model.Participant{
		{ID: "alice", Gender: model.GenderFemale},
		{ID: "bob", Gender: model.GenderMale},
	}}
	challenges := &mockChallenges{active: map[string][]model.Challenge{
		"bob": {{ID: "c_run", ParticipantID: "bob", Type: "run", DailyTarget: 5, Unit: "km", Active: true}},
	}}
	logSource := &mockLogs{entries: map[string][]model.LogEntry{
		"2025-01-01": {
			{ParticipantID: "alice", Amount: 100},
			{ParticipantID: "bob", Amount: 3, ChallengeID: "c_run"},
		},
	}}

	engine := NewEngine(testResolver, challenges, logSource, roster, fixedSettings{model.ModeStrict, 1}, zap.NewNop())
	verdicts := engine.EvaluateAll(context.Background(), "2025-01-01")

	require.Len(t, verdicts, 2)
	assert.True(t, verdicts["alice"].Compliant)
	assert.Equal(t, model.ModeLegacy, verdicts["alice"].Mode)
	assert.False(t, verdicts["bob"].Compliant)
	assert.Equal(t, model.ModeStrict, verdicts["bob"].Mode)
	assert.Equal(t, 1, logSource.calls, "logs should be read once per sweep")
}

func TestEngine_DegradesOnProviderErrors(t *testing.T) {
	roster := &mockRoster{participants: []model.Participant{{ID: "alice", Gender: model.GenderFemale}}}
	challenges := &mockChallenges{err: errors.New("sheet unavailable")}
	logSource := &mockLogs{err: errors.New("sheet unavailable")}

	engine := NewEngine(testResolver, challenges, logSource, roster, fixedSettings{model.ModePoints, 2}, zap.NewNop())
	v := engine.EvaluateParticipant(context.Background(), roster.participants[0], "2025-01-01")

	assert.Equal(t, model.ModeLegacy, v.Mode)
	assert.False(t, v.Compliant)
	require.Len(t, v.Missing, 1)
	assert.Equal(t, 100, v.Missing[0].Need)
}
