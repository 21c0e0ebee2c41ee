package commands

import (
	"context"
	"testing"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/TenaciousPub/Challenge/internal/config"
	"github.com/TenaciousPub/Challenge/pkg/core/model"
	"github.com/TenaciousPub/Challenge/pkg/core/report"
	"github.com/TenaciousPub/Challenge/pkg/db"
)

// memDB is an in-memory db.Database
type memDB struct {
	participants []db.Participant
	challenges   []db.Challenge
	logs         []db.DailyLog
	settings     map[string]string
	votes        []db.DayOffVote
}

var _ db.Database = (*memDB)(nil)

func (m *memDB) GetParticipants(ctx context.Context) ([]db.Participant, error) {
	return append([]db.Participant(nil), m.participants...), nil
}

func (m *memDB) InsertParticipant(p *db.Participant) error {
	m.participants = append(m.participants, *p)
	return nil
}

func (m *memDB) UpdateParticipant(ctx context.Context, p *db.Participant) error {
	for i := range m.participants {
		if m.participants[i].ID == p.ID {
			m.participants[i] = *p
		}
	}
	return nil
}

func (m *memDB) GetChallenges(ctx context.Context) ([]db.Challenge, error) {
	return append([]db.Challenge(nil), m.challenges...), nil
}

func (m *memDB) InsertChallenge(c *db.Challenge) error {
	m.challenges = append(m.challenges, *c)
	return nil
}

func (m *memDB) SetChallengeActive(ctx context.Context, id string, active bool) (bool, error) {
	for i := range m.challenges {
		if m.challenges[i].ID == id {
			m.challenges[i].Active = active
			return true, nil
		}
	}
	return false, nil
}

func (m *memDB) GetDailyLogs(ctx context.Context, date string) ([]db.DailyLog, error) {
	var out []db.DailyLog
	for _, l := range m.logs {
		if l.Date == date {
			out = append(out, l)
		}
	}
	return out, nil
}

func (m *memDB) InsertDailyLog(l *db.DailyLog) error {
	m.logs = append(m.logs, *l)
	return nil
}

func (m *memDB) MarkPenalized(ctx context.Context, participantID, date string) error {
	return nil
}

func (m *memDB) GetSetting(ctx context.Context, key string) (string, bool, error) {
	v, ok := m.settings[key]
	return v, ok, nil
}

func (m *memDB) SetSetting(ctx context.Context, key, value string) error {
	m.settings[key] = value
	return nil
}

func (m *memDB) GetDayOffVotes(ctx context.Context) ([]db.DayOffVote, error) {
	return append([]db.DayOffVote(nil), m.votes...), nil
}

func (m *memDB) InsertDayOffVotes(votes []db.DayOffVote) error {
	m.votes = append(m.votes, votes...)
	return nil
}

func (m *memDB) UpsertDayOffVote(ctx context.Context, v *db.DayOffVote) error {
	for i := range m.votes {
		if m.votes[i].RequestID == v.RequestID && m.votes[i].ParticipantID == v.ParticipantID {
			m.votes[i] = *v
			return nil
		}
	}
	m.votes = append(m.votes, *v)
	return nil
}

func newTestApp(t *testing.T) (*AppContext, *memDB) {
	t.Helper()
	store := &memDB{settings: make(map[string]string)}
	cfg := &config.Config{DatabaseSheetID: "db"}
	cfg.DefaultTimezone = "Etc/UTC"
	cfg.Targets = config.Targets{Male: 200, Female: 100, Default: 200}
	cfg.ComplianceModeDefault = "strict"
	cfg.PointsTargetDefault = 1
	cfg.DayOffVotingWindowHours = 12

	app := &AppContext{
		Cfg:      cfg,
		Database: store,
		Logger:   zap.NewNop(),
		Ctx:      context.Background(),
		Clock:    func() time.Time { return time.Date(2025, 3, 3, 12, 0, 0, 0, time.UTC) },
	}
	require.NoError(t, app.WireServices())
	return app, store
}

func run(app *AppContext, args ...string) error {
	root := &cobra.Command{Use: "challenge", SilenceUsage: true, SilenceErrors: true}
	root.AddCommand(JoinCmd(app), ProfileCmd(app), LogCmd(app), ChallengeCmd(app), StatusCmd(app),
		LeaderboardCmd(app), DayOffCmd(app), ModeCmd(app), SetModeCmd(app), SetPointsTargetCmd(app),
		NormalizeTimezonesCmd(app))
	root.SetArgs(args)
	return root.Execute()
}

func TestRateColor(t *testing.T) {
	green := lipgloss.Color("GREEN")
	yellow := lipgloss.Color("YELLOW")
	red := lipgloss.Color("RED")

	tests := []struct {
		name      string
		compliant int
		total     int
		expected  lipgloss.Color
	}{
		{"empty cohort", 0, 0, red},
		{"all compliant", 5, 5, green},
		{"exactly 80%", 4, 5, yellow},
		{"half", 2, 4, yellow},
		{"below half", 1, 3, red},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, rateColor(tt.compliant, tt.total, green, yellow, red))
		})
	}
}

func TestRenderLeaderboard(t *testing.T) {
	out := renderLeaderboard("2025-03-03", []report.LeaderboardRow{
		{ParticipantID: "U1", Name: "ana", Compliant: true, Progress: "2/2"},
		{ParticipantID: "U2", Name: "bo", Compliant: false, Progress: "0/2"},
	})

	assert.Contains(t, out, "Leaderboard 2025-03-03")
	assert.Contains(t, out, "1/2 compliant")
	assert.Contains(t, out, "ana")
	assert.Contains(t, out, "0/2")

	assert.Contains(t, renderLeaderboard("2025-03-03", nil), "No participants yet.")
}

func TestCommands_JoinChallengeAndLog(t *testing.T) {
	app, store := newTestApp(t)

	require.NoError(t, run(app, "join", "U1", "--name", "ana", "--gender", "male", "--timezone", "utc"))
	require.Len(t, store.participants, 1)
	assert.Equal(t, "Etc/UTC", store.participants[0].Timezone)
	assert.Equal(t, "2025-03-03", store.participants[0].JoinedOn)

	require.NoError(t, run(app, "challenge", "add", "U1", "Squats", "30", "--default"))
	require.Len(t, store.challenges, 1)
	challengeID := store.challenges[0].ID
	assert.Equal(t, "squats", store.challenges[0].Type)
	assert.Equal(t, "2025-03-03T12:00:00Z", store.challenges[0].CreatedAt)

	require.NoError(t, run(app, "log", "U1", "40", "--date", "2025-03-03", "--note", "morning"))
	require.Len(t, store.logs, 1)
	assert.Equal(t, challengeID, store.logs[0].ChallengeID)
	assert.Equal(t, "40", store.logs[0].Amount)
	assert.Equal(t, "2025-03-03T12:00:00Z", store.logs[0].LoggedAt)

	p, ok := app.Roster.Get("U1")
	require.True(t, ok)
	v := app.Engine.EvaluateParticipant(app.Ctx, p, "2025-03-03")
	assert.True(t, v.Compliant)

	require.NoError(t, run(app, "status", "U1", "--day", "2025-03-03"))
	require.NoError(t, run(app, "leaderboard", "--day", "2025-03-03"))

	require.NoError(t, run(app, "challenge", "remove", "U1", challengeID))
	assert.False(t, store.challenges[0].Active)
	assert.ErrorContains(t, run(app, "challenge", "remove", "U1", "c_missing"), "no such challenge")
}

func TestCommands_Profile(t *testing.T) {
	app, store := newTestApp(t)
	require.NoError(t, run(app, "join", "U1"))

	require.NoError(t, run(app, "profile", "U1", "--disabled", "--timezone", "Asia/Tokyo"))

	assert.True(t, store.participants[0].Disabled)
	assert.Equal(t, "Asia/Tokyo", store.participants[0].Timezone)
	assert.Equal(t, "U1", store.participants[0].DisplayName)
}

func TestCommands_UnknownParticipant(t *testing.T) {
	app, _ := newTestApp(t)

	assert.ErrorContains(t, run(app, "log", "U9", "10"), "has not joined")
	assert.ErrorContains(t, run(app, "status", "U9"), "has not joined")
	assert.ErrorContains(t, run(app, "log", "U9", "ten"), "amount must be a number")
}

func TestCommands_DayOffVoting(t *testing.T) {
	app, store := newTestApp(t)
	for _, id := range []string{"U1", "U2", "U3"} {
		require.NoError(t, run(app, "join", id))
	}

	require.NoError(t, run(app, "dayoff", "request", "U1", "2025-03-10", "team", "hike"))
	requests := app.Book.List()
	require.Len(t, requests, 1)
	id := requests[0].ID
	assert.Equal(t, "team hike", requests[0].Reason)
	assert.Len(t, store.votes, 3)

	require.NoError(t, run(app, "dayoff", "vote", id, "U2", "yes"))
	assert.ErrorContains(t, run(app, "dayoff", "vote", id, "U2", "no"), "already been cast")

	require.NoError(t, run(app, "dayoff", "reset", id, "U2"))
	require.NoError(t, run(app, "dayoff", "vote", id, "U2", "no"))

	ballot, err := app.Book.Ballot(id, "U2")
	require.NoError(t, err)
	assert.Equal(t, model.VoteNo, ballot.Vote)

	require.NoError(t, run(app, "dayoff", "status", id))
	require.NoError(t, run(app, "dayoff", "list"))
	assert.ErrorContains(t, run(app, "dayoff", "status", "DOR-NOPE"), "no such day-off request")
}

func TestCommands_DayOffFollowsAppClock(t *testing.T) {
	app, _ := newTestApp(t)
	for _, id := range []string{"U1", "U2"} {
		require.NoError(t, run(app, "join", id))
	}
	require.NoError(t, run(app, "dayoff", "request", "U1", "2025-03-10"))
	id := app.Book.List()[0].ID

	// still inside the 12h window on the app clock
	app.Clock = func() time.Time { return time.Date(2025, 3, 3, 23, 59, 0, 0, time.UTC) }
	require.NoError(t, run(app, "dayoff", "vote", id, "U1", "yes"))

	app.Clock = func() time.Time { return time.Date(2025, 3, 4, 0, 0, 1, 0, time.UTC) }
	assert.ErrorContains(t, run(app, "dayoff", "vote", id, "U2", "yes"), "voting has closed")
}

func TestCommands_Settings(t *testing.T) {
	app, store := newTestApp(t)

	require.NoError(t, run(app, "setMode", "POINTS"))
	require.NoError(t, run(app, "setPointsTarget", "2"))
	require.NoError(t, run(app, "mode"))

	assert.Equal(t, model.ModePoints, app.Settings.Mode(app.Ctx))
	assert.Equal(t, 2, app.Settings.PointsTarget(app.Ctx))
	assert.Equal(t, "points", store.settings["compliance_mode"])

	assert.Error(t, run(app, "setMode", "chaos"))
	assert.Error(t, run(app, "setPointsTarget", "0"))
}
