package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func joinedFixture(t *testing.T, ids ...string) *fixture {
	t.Helper()
	f := newFixture()
	for _, id := range ids {
		_, err := f.roster.Join(context.Background(), JoinInput{ID: id}, testNow)
		require.NoError(t, err)
	}
	return f
}

func TestAddChallenge(t *testing.T) {
	f := joinedFixture(t, "U1")
	ctx := context.Background()

	ch, err := f.challenges.AddChallenge(ctx, AddChallengeInput{
		ParticipantID: "U1",
		Type:          " Pushups ",
		DailyTarget:   50,
		SetDefault:    true,
	})
	require.NoError(t, err)

	assert.Regexp(t, `^c_[0-9a-f]{12}$`, ch.ID)
	assert.Equal(t, "pushups", ch.Type)
	assert.Equal(t, "reps", ch.Unit)
	assert.True(t, ch.Active)
	assert.Equal(t, testNow, ch.CreatedAt)

	p, _ := f.roster.Get("U1")
	assert.Equal(t, ch.ID, p.DefaultChallengeID)
}

func TestAddChallenge_Invalid(t *testing.T) {
	f := joinedFixture(t, "U1")

	tests := []struct {
		name    string
		input   AddChallengeInput
		wantErr error
	}{
		{"zero target", AddChallengeInput{ParticipantID: "U1", Type: "squats"}, ErrInvalidChallenge},
		{"missing type", AddChallengeInput{ParticipantID: "U1", DailyTarget: 10}, ErrInvalidChallenge},
		{"long unit", AddChallengeInput{ParticipantID: "U1", Type: "plank", DailyTarget: 1, Unit: "seconds-of-hard-work"}, ErrInvalidChallenge},
		{"unknown participant", AddChallengeInput{ParticipantID: "U9", Type: "squats", DailyTarget: 10}, ErrUnknownParticipant},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.challenges.AddChallenge(context.Background(), tt.input)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
	assert.Empty(t, f.challengeDB.rows)
}

func TestRemoveChallenge_ClearsDefault(t *testing.T) {
	f := joinedFixture(t, "U1", "U2")
	ctx := context.Background()

	ch, err := f.challenges.AddChallenge(ctx, AddChallengeInput{ParticipantID: "U1", Type: "pushups", DailyTarget: 50, SetDefault: true})
	require.NoError(t, err)

	err = f.challenges.RemoveChallenge(ctx, "U2", ch.ID)
	assert.ErrorIs(t, err, ErrChallengeNotFound)

	require.NoError(t, f.challenges.RemoveChallenge(ctx, "U1", ch.ID))

	p, _ := f.roster.Get("U1")
	assert.Empty(t, p.DefaultChallengeID)

	active, err := f.challenges.ListActiveChallenges(ctx, "U1")
	require.NoError(t, err)
	assert.Empty(t, active)

	all, err := f.challenges.ListChallenges(ctx, "U1", false)
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestSetDefaultChallenge(t *testing.T) {
	f := joinedFixture(t, "U1")
	ctx := context.Background()

	a, err := f.challenges.AddChallenge(ctx, AddChallengeInput{ParticipantID: "U1", Type: "pushups", DailyTarget: 50})
	require.NoError(t, err)
	b, err := f.challenges.AddChallenge(ctx, AddChallengeInput{ParticipantID: "U1", Type: "squats", DailyTarget: 30})
	require.NoError(t, err)
	require.NoError(t, f.challenges.RemoveChallenge(ctx, "U1", b.ID))

	assert.ErrorIs(t, f.challenges.SetDefaultChallenge(ctx, "U1", b.ID), ErrChallengeNotActive)
	assert.ErrorIs(t, f.challenges.SetDefaultChallenge(ctx, "U1", "c_missing"), ErrChallengeNotFound)

	require.NoError(t, f.challenges.SetDefaultChallenge(ctx, "U1", a.ID))
	p, _ := f.roster.Get("U1")
	assert.Equal(t, a.ID, p.DefaultChallengeID)

	require.NoError(t, f.challenges.SetDefaultChallenge(ctx, "U1", ""))
	p, _ = f.roster.Get("U1")
	assert.Empty(t, p.DefaultChallengeID)
}

func TestResolveDefaultChallenge(t *testing.T) {
	f := joinedFixture(t, "U1")
	ctx := context.Background()

	id, err := f.challenges.ResolveDefaultChallenge(ctx, "U1")
	require.NoError(t, err)
	assert.Empty(t, id, "no challenges")

	a, err := f.challenges.AddChallenge(ctx, AddChallengeInput{ParticipantID: "U1", Type: "pushups", DailyTarget: 50})
	require.NoError(t, err)

	id, err = f.challenges.ResolveDefaultChallenge(ctx, "U1")
	require.NoError(t, err)
	assert.Equal(t, a.ID, id, "single active challenge")

	b, err := f.challenges.AddChallenge(ctx, AddChallengeInput{ParticipantID: "U1", Type: "squats", DailyTarget: 30})
	require.NoError(t, err)

	id, err = f.challenges.ResolveDefaultChallenge(ctx, "U1")
	require.NoError(t, err)
	assert.Empty(t, id, "ambiguous without a default")

	require.NoError(t, f.challenges.SetDefaultChallenge(ctx, "U1", b.ID))
	id, err = f.challenges.ResolveDefaultChallenge(ctx, "U1")
	require.NoError(t, err)
	assert.Equal(t, b.ID, id)
}
