package scheduler

import (
	"fmt"
	"time"

	"github.com/teambition/rrule-go"

	"github.com/TenaciousPub/Challenge/pkg/core/model"
)

// restEpoch anchors rules when no start date is configured. It is a Monday, so a
// plain FREQ=WEEKLY rule lands on Mondays.
var restEpoch = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

// restDays matches calendar days against an optional RRULE
type restDays struct {
	rule   string
	anchor time.Time
	cache  map[string]bool
}

// newRestDays parses rule eagerly so a bad rule fails at startup. The rule is anchored
// at the challenge start date, or restEpoch without one, so INTERVAL rules keep one phase.
func newRestDays(rule, startDate string) (*restDays, error) {
	if rule == "" {
		return &restDays{}, nil
	}
	if _, err := rrule.StrToRRule(rule); err != nil {
		return nil, fmt.Errorf("invalid rest days rrule: %w", err)
	}
	r := &restDays{rule: rule, anchor: restEpoch, cache: make(map[string]bool)}
	if startDate != "" {
		anchor, err := time.Parse(model.DateLayout, startDate)
		if err != nil {
			return nil, fmt.Errorf("invalid start date: %w", err)
		}
		r.anchor = anchor
	}
	return r, nil
}

func (r *restDays) contains(day string) bool {
	if r.rule == "" {
		return false
	}
	if hit, ok := r.cache[day]; ok {
		return hit
	}

	start, err := time.Parse(model.DateLayout, day)
	if err != nil {
		return false
	}

	rule, err := rrule.StrToRRule(r.rule)
	if err != nil {
		return false
	}
	if start.Before(r.anchor) {
		r.cache[day] = false
		return false
	}
	rule.DTStart(r.anchor)

	hit := len(rule.Between(start, start.Add(24*time.Hour-time.Second), true)) > 0
	r.cache[day] = hit
	return hit
}
