package services

import "errors"

var (
	ErrUnknownParticipant = errors.New("participant not found")
	ErrAlreadyJoined      = errors.New("participant has already joined")
	ErrInvalidGender      = errors.New("gender must be male or female")
	ErrChallengeNotFound  = errors.New("challenge not found")
	ErrChallengeNotActive = errors.New("challenge is not an active challenge of this participant")
	ErrInvalidChallenge   = errors.New("invalid challenge")
	ErrInvalidLog         = errors.New("invalid log entry")
)
