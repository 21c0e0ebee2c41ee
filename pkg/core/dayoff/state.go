package dayoff

import (
	"time"

	"github.com/TenaciousPub/Challenge/pkg/core/model"
)

// ApprovalThreshold is the yes count that approves a request outright
const ApprovalThreshold = 3

// quorum is the number of definite votes needed before a majority decides early
const quorum = 3

type State string

const (
	StateOpen     State = "open"
	StateApproved State = "approved"
	StateRejected State = "rejected"
)

// VoteState is a tally of a request's ballots at a moment in time
type VoteState struct {
	RequestID string
	State     State
	Yes       int
	No        int
	Total     int
	Threshold int
	Closed    bool
}

// Terminal reports whether the state is approved or rejected
func (s VoteState) Terminal() bool {
	return s.State == StateApproved || s.State == StateRejected
}

// Resolve computes the state of a request from its ballots at now.
// A tie while open keeps waiting; a tie at the deadline rejects.
func Resolve(req *model.DayOffRequest, now time.Time) VoteState {
	vs := VoteState{
		RequestID: req.ID,
		Total:     len(req.Ballots),
		Threshold: ApprovalThreshold,
		Closed:    now.After(req.Deadline),
		State:     StateOpen,
	}

	for _, b := range req.Ballots {
		switch b.Vote {
		case model.VoteYes:
			vs.Yes++
		case model.VoteNo:
			vs.No++
		}
	}

	switch {
	case vs.Yes >= ApprovalThreshold:
		vs.State = StateApproved
	case vs.Yes+vs.No >= quorum:
		if vs.Yes > vs.No {
			vs.State = StateApproved
		} else if vs.No > vs.Yes {
			vs.State = StateRejected
		}
	}

	if vs.Closed && vs.State == StateOpen {
		if vs.Yes > vs.No {
			vs.State = StateApproved
		} else {
			vs.State = StateRejected
		}
	}

	return vs
}
