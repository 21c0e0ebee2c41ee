package dayoff

import "errors"

var (
	ErrInvalidVote      = errors.New("vote must be yes or no")
	ErrRequestNotFound  = errors.New("day-off request not found")
	ErrVotingClosed     = errors.New("voting has closed for this request")
	ErrNotEligible      = errors.New("voter has no ballot on this request")
	ErrAlreadyVoted     = errors.New("ballot has already been cast")
	ErrUnknownRequester = errors.New("requester is not a participant")
)
