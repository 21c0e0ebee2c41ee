package services

import (
	"context"
	"errors"

	"github.com/TenaciousPub/Challenge/pkg/core/dayoff"
	"github.com/TenaciousPub/Challenge/pkg/core/model"
)

// BallotBook is the part of the vote book reaction voting needs
type BallotBook interface {
	Ballot(requestID, voterID string) (model.Ballot, error)
	RegisterVote(ctx context.Context, requestID, voterID, vote string) error
	ResetBallot(ctx context.Context, requestID, voterID string) error
}

var _ BallotBook = (*dayoff.Book)(nil)

// ApplyReaction translates an emoji reaction on a day-off message into ballot changes.
// Adding the opposite reaction switches the vote; removing the reaction that matches
// the current vote returns the ballot to pending.
func ApplyReaction(ctx context.Context, book BallotBook, requestID, voterID string, vote model.VoteValue, added bool) error {
	current, err := book.Ballot(requestID, voterID)
	if err != nil {
		return err
	}

	if !added {
		if current.Vote != vote {
			return nil
		}
		return book.ResetBallot(ctx, requestID, voterID)
	}

	switch current.Vote {
	case vote:
		return nil
	case model.VotePending:
	default:
		if err := book.ResetBallot(ctx, requestID, voterID); err != nil {
			return err
		}
	}

	err = book.RegisterVote(ctx, requestID, voterID, string(vote))
	if errors.Is(err, dayoff.ErrAlreadyVoted) {
		return nil
	}
	return err
}
