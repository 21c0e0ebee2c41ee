package compliance

import (
	"github.com/TenaciousPub/Challenge/pkg/core/model"
)

// LegacyChallengeType labels the single coarse target used when no challenges are active
const LegacyChallengeType = "pushups"

// ChallengeResult is the day's progress against one target
type ChallengeResult struct {
	ChallengeID string // Empty on the legacy path
	Type        string
	Done        int
	Target      int
	Need        int
	Unit        string
}

// Verdict is the outcome of judging one participant for one day
type Verdict struct {
	ParticipantID  string
	Day            string
	Mode           model.ComplianceMode
	Compliant      bool
	Points         int
	PointsRequired int
	Met            []ChallengeResult
	Missing        []ChallengeResult
}

// Evaluate judges a participant's day. It never fails: unknown totals count as zero.
func Evaluate(
	p model.Participant,
	day string,
	totals Totals,
	active []model.Challenge,
	mode model.ComplianceMode,
	pointsTarget int,
	resolver TargetResolver,
) Verdict {
	if len(active) == 0 {
		return evaluateLegacy(p, day, totals, resolver)
	}

	if pointsTarget < 1 {
		pointsTarget = 1
	}

	v := Verdict{
		ParticipantID: p.ID,
		Day:           day,
		Mode:          mode,
	}

	for i := range active {
		ch := active[i]
		target := resolver.Resolve(p, &ch)
		done := totals.Sum(p.ID, ch.ID)
		result := ChallengeResult{
			ChallengeID: ch.ID,
			Type:        ch.Type,
			Done:        done,
			Target:      target,
			Unit:        ch.Unit,
		}
		if done >= target {
			v.Met = append(v.Met, result)
		} else {
			result.Need = target - done
			v.Missing = append(v.Missing, result)
		}
	}
	v.Points = len(v.Met)

	switch mode {
	case model.ModeLenient:
		v.Compliant = len(v.Met) > 0
		v.PointsRequired = 1
	case model.ModePoints:
		v.Compliant = v.Points >= pointsTarget
		v.PointsRequired = pointsTarget
	default:
		v.Mode = model.ModeStrict
		v.Compliant = len(v.Missing) == 0
		v.PointsRequired = len(active)
	}

	return v
}

func evaluateLegacy(p model.Participant, day string, totals Totals, resolver TargetResolver) Verdict {
	target := resolver.Resolve(p, nil)
	done := totals.Sum(p.ID, "")

	result := ChallengeResult{
		Type:   LegacyChallengeType,
		Done:   done,
		Target: target,
		Unit:   "reps",
	}

	v := Verdict{
		ParticipantID:  p.ID,
		Day:            day,
		Mode:           model.ModeLegacy,
		Compliant:      done >= target,
		PointsRequired: 1,
	}
	if v.Compliant {
		v.Points = 1
		v.Met = []ChallengeResult{result}
	} else {
		result.Need = target - done
		v.Missing = []ChallengeResult{result}
	}
	return v
}
