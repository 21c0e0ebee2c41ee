package services

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/TenaciousPub/Challenge/pkg/db"
)

type mockParticipantStore struct {
	rows      []db.Participant
	insertErr error
	updateErr error
	fetchErr  error
}

func (m *mockParticipantStore) GetParticipants(ctx context.Context) ([]db.Participant, error) {
	if m.fetchErr != nil {
		return nil, m.fetchErr
	}
	return m.rows, nil
}

func (m *mockParticipantStore) InsertParticipant(p *db.Participant) error {
	if m.insertErr != nil {
		return m.insertErr
	}
	m.rows = append(m.rows, *p)
	return nil
}

func (m *mockParticipantStore) UpdateParticipant(ctx context.Context, p *db.Participant) error {
	if m.updateErr != nil {
		return m.updateErr
	}
	for i := range m.rows {
		if m.rows[i].ID == p.ID {
			m.rows[i] = *p
			return nil
		}
	}
	m.rows = append(m.rows, *p)
	return nil
}

type mockChallengeStore struct {
	rows []db.Challenge
}

func (m *mockChallengeStore) GetChallenges(ctx context.Context) ([]db.Challenge, error) {
	return m.rows, nil
}

func (m *mockChallengeStore) InsertChallenge(c *db.Challenge) error {
	m.rows = append(m.rows, *c)
	return nil
}

func (m *mockChallengeStore) SetChallengeActive(ctx context.Context, id string, active bool) (bool, error) {
	for i := range m.rows {
		if m.rows[i].ID == id {
			m.rows[i].Active = active
			return true, nil
		}
	}
	return false, nil
}

type mockLogStore struct {
	rows      []db.DailyLog
	penalized []string
}

func (m *mockLogStore) GetDailyLogs(ctx context.Context, date string) ([]db.DailyLog, error) {
	var out []db.DailyLog
	for _, row := range m.rows {
		if row.Date == date {
			out = append(out, row)
		}
	}
	return out, nil
}

func (m *mockLogStore) InsertDailyLog(l *db.DailyLog) error {
	m.rows = append(m.rows, *l)
	return nil
}

func (m *mockLogStore) MarkPenalized(ctx context.Context, participantID, date string) error {
	m.penalized = append(m.penalized, participantID+"@"+date)
	return nil
}

type mockVoteStore struct {
	rows      []db.DayOffVote
	upserts   int
	insertErr error
}

func (m *mockVoteStore) GetDayOffVotes(ctx context.Context) ([]db.DayOffVote, error) {
	return m.rows, nil
}

func (m *mockVoteStore) InsertDayOffVotes(votes []db.DayOffVote) error {
	if m.insertErr != nil {
		return m.insertErr
	}
	m.rows = append(m.rows, votes...)
	return nil
}

func (m *mockVoteStore) UpsertDayOffVote(ctx context.Context, v *db.DayOffVote) error {
	m.upserts++
	for i := range m.rows {
		if m.rows[i].RequestID == v.RequestID && m.rows[i].ParticipantID == v.ParticipantID {
			m.rows[i] = *v
			return nil
		}
	}
	m.rows = append(m.rows, *v)
	return nil
}

var testNow = time.Date(2025, 3, 4, 6, 30, 0, 0, time.UTC)

type fixture struct {
	participants *mockParticipantStore
	challengeDB  *mockChallengeStore
	logDB        *mockLogStore
	roster       *Roster
	challenges   *Challenges
	logbook      *LogBook
}

func newFixture() *fixture {
	logger := zap.NewNop()
	f := &fixture{
		participants: &mockParticipantStore{},
		challengeDB:  &mockChallengeStore{},
		logDB:        &mockLogStore{},
	}
	f.roster = NewRoster(f.participants, "America/Los_Angeles", logger)
	clock := WithClock(func() time.Time { return testNow })
	f.challenges = NewChallenges(f.challengeDB, f.roster, logger, clock)
	f.logbook = NewLogBook(f.logDB, f.roster, f.challenges, logger, clock)
	return f
}
