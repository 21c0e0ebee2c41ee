package services

import (
	"context"
	"fmt"
	"sort"
	"time"

	"go.uber.org/zap"

	"github.com/TenaciousPub/Challenge/pkg/core/dayoff"
	"github.com/TenaciousPub/Challenge/pkg/core/model"
	"github.com/TenaciousPub/Challenge/pkg/core/timezone"
	"github.com/TenaciousPub/Challenge/pkg/db"
)

var _ dayoff.Sink = (*DayOffSink)(nil)

// DayOffSink stores day-off requests as one row per ballot
type DayOffSink struct {
	store  db.DayOffVoteStore
	logger *zap.Logger
}

func NewDayOffSink(store db.DayOffVoteStore, logger *zap.Logger) *DayOffSink {
	return &DayOffSink{store: store, logger: logger}
}

// PersistNewRequest writes a row per ballot. A request already on record is left alone.
func (s *DayOffSink) PersistNewRequest(ctx context.Context, req model.DayOffRequest) error {
	existing, err := s.store.GetDayOffVotes(ctx)
	if err != nil {
		return fmt.Errorf("failed to fetch day-off votes: %w", err)
	}
	for _, row := range existing {
		if row.RequestID == req.ID {
			s.logger.Debug("Day-off request already stored", zap.String("request_id", req.ID))
			return nil
		}
	}

	rows := make([]db.DayOffVote, 0, len(req.Ballots))
	for _, ballot := range sortedBallots(req) {
		rows = append(rows, voteRow(req, *ballot))
	}
	if err := s.store.InsertDayOffVotes(rows); err != nil {
		return fmt.Errorf("failed to insert day-off votes: %w", err)
	}

	s.logger.Debug("Stored day-off request",
		zap.String("request_id", req.ID),
		zap.Int("rows", len(rows)))
	return nil
}

// PersistBallotUpdate rewrites one voter's row
func (s *DayOffSink) PersistBallotUpdate(ctx context.Context, req model.DayOffRequest, ballot model.Ballot) error {
	row := voteRow(req, ballot)
	if err := s.store.UpsertDayOffVote(ctx, &row); err != nil {
		return fmt.Errorf("failed to store ballot: %w", err)
	}
	return nil
}

// LoadAllRequests rebuilds every request from its ballot rows
func (s *DayOffSink) LoadAllRequests(ctx context.Context) (map[string]*model.DayOffRequest, error) {
	rows, err := s.store.GetDayOffVotes(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch day-off votes: %w", err)
	}

	requests := make(map[string]*model.DayOffRequest)
	for _, row := range rows {
		if row.RequestID == "" {
			continue
		}

		req, ok := requests[row.RequestID]
		if !ok {
			req = &model.DayOffRequest{
				ID:          row.RequestID,
				TargetDay:   row.TargetDay,
				RequestDate: row.RequestDate,
				RequestedBy: row.RequestedBy,
				Deadline:    parseDeadline(row),
				Reason:      row.Reason,
				Ballots:     make(map[string]*model.Ballot),
			}
			requests[row.RequestID] = req
		}

		if row.ParticipantID == "" {
			continue
		}
		vote := model.VoteValue(row.Vote)
		if vote != model.VoteYes && vote != model.VoteNo {
			vote = model.VotePending
		}
		ballot := &model.Ballot{
			RequestID:     row.RequestID,
			ParticipantID: row.ParticipantID,
			Vote:          vote,
		}
		if at, err := time.Parse(time.RFC3339, row.VotedAt); err == nil && vote != model.VotePending {
			ballot.VotedAt = &at
		}
		req.Ballots[row.ParticipantID] = ballot
	}

	s.logger.Debug("Loaded day-off requests from store",
		zap.Int("rows", len(rows)),
		zap.Int("requests", len(requests)))
	return requests, nil
}

// parseDeadline falls back to the start of the target day when the stored deadline is unreadable
func parseDeadline(row db.DayOffVote) time.Time {
	if t, err := time.Parse(time.RFC3339, row.Deadline); err == nil {
		return t
	}
	if day, err := time.ParseInLocation(model.DateLayout, row.TargetDay, timezone.Location(timezone.DefaultZone)); err == nil {
		return day
	}
	return time.Time{}
}

func voteRow(req model.DayOffRequest, ballot model.Ballot) db.DayOffVote {
	row := db.DayOffVote{
		RequestID:     req.ID,
		TargetDay:     req.TargetDay,
		RequestDate:   req.RequestDate,
		RequestedBy:   req.RequestedBy,
		Deadline:      req.Deadline.UTC().Format(time.RFC3339),
		ParticipantID: ballot.ParticipantID,
		Vote:          string(ballot.Vote),
		Reason:        req.Reason,
	}
	if ballot.VotedAt != nil {
		row.VotedAt = ballot.VotedAt.UTC().Format(time.RFC3339)
	}
	return row
}

func sortedBallots(req model.DayOffRequest) []*model.Ballot {
	ids := make([]string, 0, len(req.Ballots))
	for id := range req.Ballots {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	out := make([]*model.Ballot, 0, len(ids))
	for _, id := range ids {
		out = append(out, req.Ballots[id])
	}
	return out
}
