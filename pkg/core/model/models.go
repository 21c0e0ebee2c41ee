package model

import (
	"strings"
	"time"
)

// DateLayout is the calendar-day key format used throughout the challenge
const DateLayout = "2006-01-02"

type Gender string

const (
	GenderUnset  Gender = ""
	GenderMale   Gender = "male"
	GenderFemale Gender = "female"
)

// ParseGender accepts male/female (any case) or empty
func ParseGender(s string) (Gender, bool) {
	switch Gender(strings.ToLower(strings.TrimSpace(s))) {
	case GenderMale:
		return GenderMale, true
	case GenderFemale:
		return GenderFemale, true
	case GenderUnset:
		return GenderUnset, true
	}
	return GenderUnset, false
}

// ComplianceMode selects how a multi-challenge day is judged
type ComplianceMode string

const (
	ModeStrict  ComplianceMode = "strict"
	ModeLenient ComplianceMode = "lenient"
	ModePoints  ComplianceMode = "points"
	// ModeLegacy only appears on verdicts for participants with no active challenges
	ModeLegacy ComplianceMode = "legacy"
)

// ParseComplianceMode accepts strict, lenient or points (any case)
func ParseComplianceMode(s string) (ComplianceMode, bool) {
	switch m := ComplianceMode(strings.ToLower(strings.TrimSpace(s))); m {
	case ModeStrict, ModeLenient, ModePoints:
		return m, true
	}
	return "", false
}

// ActionKind names a once-per-day automated action recorded against a participant
type ActionKind string

const (
	ActionPunished      ActionKind = "punished"
	ActionCongratulated ActionKind = "congratulated"
)

// Participant is a cohort member
type Participant struct {
	ID                 string
	DisplayName        string
	Gender             Gender
	Disabled           bool
	Timezone           string
	JoinedOn           string
	LastPunishedOn     string
	LastCongratsOn     string
	DefaultChallengeID string // Empty when no default is set
}

// LastAction returns the persisted day the given action last happened, or empty
func (p Participant) LastAction(kind ActionKind) string {
	switch kind {
	case ActionPunished:
		return p.LastPunishedOn
	case ActionCongratulated:
		return p.LastCongratsOn
	}
	return ""
}

// Challenge is a per-participant exercise goal
type Challenge struct {
	ID            string
	ParticipantID string
	Type          string
	DailyTarget   int
	Unit          string
	Active        bool
	CreatedAt     time.Time
}

// LogEntry is a single logged amount of exercise
type LogEntry struct {
	Date          string
	ParticipantID string
	Amount        int
	Bonus         int
	Penalized     bool
	Note          string
	ChallengeID   string // Empty for legacy logs
	LoggedAt      time.Time
}

type VoteValue string

const (
	VoteYes     VoteValue = "yes"
	VoteNo      VoteValue = "no"
	VotePending VoteValue = "pending"
)

// ParseVote accepts yes or no (any case); pending is never a valid cast
func ParseVote(s string) (VoteValue, bool) {
	switch v := VoteValue(strings.ToLower(strings.TrimSpace(s))); v {
	case VoteYes, VoteNo:
		return v, true
	}
	return "", false
}

// Ballot is one participant's vote on a day-off request
type Ballot struct {
	RequestID     string
	ParticipantID string
	Vote          VoteValue
	VotedAt       *time.Time
}

// DayOffRequest is a proposal to excuse the cohort for a target day
type DayOffRequest struct {
	ID          string
	TargetDay   string
	RequestDate string
	RequestedBy string
	Deadline    time.Time
	Reason      string
	Ballots     map[string]*Ballot
	Announced   bool
	MessageRef  string // Chat message carrying reaction votes, if any
}

// Clone returns a deep copy safe to hand outside the vote book
func (r *DayOffRequest) Clone() DayOffRequest {
	c := *r
	c.Ballots = make(map[string]*Ballot, len(r.Ballots))
	for id, b := range r.Ballots {
		cb := *b
		if b.VotedAt != nil {
			at := *b.VotedAt
			cb.VotedAt = &at
		}
		c.Ballots[id] = &cb
	}
	return c
}
