package compliance

import "github.com/TenaciousPub/Challenge/pkg/core/model"

type challengeKey struct {
	participantID string
	challengeID   string
}

// Totals sums one day's logged amounts per participant and per challenge
type Totals struct {
	byParticipant map[string]int
	byChallenge   map[challengeKey]int
}

// NewTotals aggregates log entries, optionally counting bonus amounts
func NewTotals(entries []model.LogEntry, includeBonus bool) Totals {
	t := Totals{
		byParticipant: make(map[string]int),
		byChallenge:   make(map[challengeKey]int),
	}
	for _, e := range entries {
		amount := e.Amount
		if includeBonus {
			amount += e.Bonus
		}
		t.byParticipant[e.ParticipantID] += amount
		if e.ChallengeID != "" {
			t.byChallenge[challengeKey{e.ParticipantID, e.ChallengeID}] += amount
		}
	}
	return t
}

// Sum returns the participant's total for one challenge, or across all logs when challengeID is empty
func (t Totals) Sum(participantID, challengeID string) int {
	if challengeID == "" {
		return t.byParticipant[participantID]
	}
	return t.byChallenge[challengeKey{participantID, challengeID}]
}

// Any reports whether anything was logged by the participant
func (t Totals) Any(participantID string) bool {
	_, ok := t.byParticipant[participantID]
	return ok
}
