package compliance

import "github.com/TenaciousPub/Challenge/pkg/core/model"

// TargetResolver picks the daily target for the legacy path from configured values
type TargetResolver struct {
	Male     int
	Female   int
	Default  int
	Disabled *int // Nil when no disability override is configured
}

// Resolve returns the daily target for a participant.
// A supplied challenge's own target always wins.
func (r TargetResolver) Resolve(p model.Participant, ch *model.Challenge) int {
	if ch != nil {
		return nonNegative(ch.DailyTarget)
	}

	if p.Disabled && r.Disabled != nil {
		return nonNegative(*r.Disabled)
	}

	switch p.Gender {
	case model.GenderMale:
		return nonNegative(r.Male)
	case model.GenderFemale:
		return nonNegative(r.Female)
	default:
		return nonNegative(r.Default)
	}
}

func nonNegative(n int) int {
	if n < 0 {
		return 0
	}
	return n
}
