package dayoff

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/TenaciousPub/Challenge/pkg/core/model"
	"github.com/TenaciousPub/Challenge/pkg/core/timezone"
)

// Roster provides the participants eligible for new ballots
type Roster interface {
	List() []model.Participant
	Get(id string) (model.Participant, bool)
}

// Sink durably records requests and ballots
type Sink interface {
	PersistNewRequest(ctx context.Context, req model.DayOffRequest) error
	PersistBallotUpdate(ctx context.Context, req model.DayOffRequest, ballot model.Ballot) error
	LoadAllRequests(ctx context.Context) (map[string]*model.DayOffRequest, error)
}

// Announcement pairs a request with the terminal state that has not yet been announced
type Announcement struct {
	Request model.DayOffRequest
	State   VoteState
}

// Book holds every day-off request in memory. In-memory state is authoritative;
// sink failures are logged and never undo a mutation.
type Book struct {
	mu       sync.Mutex
	requests map[string]*model.DayOffRequest
	messages map[string]string
	roster   Roster
	sink     Sink
	now      func() time.Time
	newID    func() string
	logger   *zap.Logger
}

type Option func(*Book)

// WithClock overrides the wall clock
func WithClock(now func() time.Time) Option {
	return func(b *Book) { b.now = now }
}

// WithIDGenerator overrides request ID generation
func WithIDGenerator(newID func() string) Option {
	return func(b *Book) { b.newID = newID }
}

func NewBook(roster Roster, sink Sink, logger *zap.Logger, opts ...Option) *Book {
	b := &Book{
		requests: make(map[string]*model.DayOffRequest),
		messages: make(map[string]string),
		roster:   roster,
		sink:     sink,
		now:      time.Now,
		newID:    defaultRequestID,
		logger:   logger,
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

func defaultRequestID() string {
	return "DOR-" + strings.ToUpper(uuid.NewString()[:8])
}

// Load replaces in-memory requests with those held by the sink.
// Requests already past their deadline are treated as announced.
func (b *Book) Load(ctx context.Context) error {
	loaded, err := b.sink.LoadAllRequests(ctx)
	if err != nil {
		return fmt.Errorf("failed to load day-off requests: %w", err)
	}

	now := b.now()

	b.mu.Lock()
	defer b.mu.Unlock()

	b.requests = make(map[string]*model.DayOffRequest, len(loaded))
	b.messages = make(map[string]string)
	for id, req := range loaded {
		if req.Ballots == nil {
			req.Ballots = make(map[string]*model.Ballot)
		}
		if now.After(req.Deadline) {
			req.Announced = true
		}
		b.requests[id] = req
	}

	b.logger.Info("Loaded day-off requests", zap.Int("count", len(b.requests)))
	return nil
}

// CreateRequest opens a vote with one ballot per current participant.
// The requester's ballot starts as yes.
func (b *Book) CreateRequest(ctx context.Context, requesterID, targetDay, reason string, deadline time.Time) (model.DayOffRequest, error) {
	requester, ok := b.roster.Get(requesterID)
	if !ok {
		return model.DayOffRequest{}, fmt.Errorf("%w: %s", ErrUnknownRequester, requesterID)
	}
	if _, err := time.Parse(model.DateLayout, targetDay); err != nil {
		return model.DayOffRequest{}, fmt.Errorf("invalid target day %q: %w", targetDay, err)
	}

	now := b.now()
	req := &model.DayOffRequest{
		ID:          b.newID(),
		TargetDay:   targetDay,
		RequestDate: timezone.LocalDay(now, requester.Timezone),
		RequestedBy: requesterID,
		Deadline:    deadline,
		Reason:      strings.TrimSpace(reason),
		Ballots:     make(map[string]*model.Ballot),
	}

	for _, p := range b.roster.List() {
		req.Ballots[p.ID] = &model.Ballot{
			RequestID:     req.ID,
			ParticipantID: p.ID,
			Vote:          model.VotePending,
		}
	}
	votedAt := now
	req.Ballots[requesterID] = &model.Ballot{
		RequestID:     req.ID,
		ParticipantID: requesterID,
		Vote:          model.VoteYes,
		VotedAt:       &votedAt,
	}

	b.mu.Lock()
	b.requests[req.ID] = req
	snapshot := req.Clone()
	b.mu.Unlock()

	if err := b.sink.PersistNewRequest(ctx, snapshot); err != nil {
		b.logger.Warn("Failed to persist day-off request",
			zap.String("request_id", req.ID),
			zap.Error(err))
	}

	b.logger.Info("Day-off request created",
		zap.String("request_id", req.ID),
		zap.String("target_day", targetDay),
		zap.String("requested_by", requesterID),
		zap.Int("ballots", len(req.Ballots)))

	return snapshot, nil
}

// RegisterVote casts a pending ballot. A cast ballot cannot be recast here; see ResetBallot.
func (b *Book) RegisterVote(ctx context.Context, requestID, voterID, vote string) error {
	value, ok := model.ParseVote(vote)
	if !ok {
		return fmt.Errorf("%w: %q", ErrInvalidVote, vote)
	}

	b.mu.Lock()
	req, ballot, err := b.openBallot(requestID, voterID)
	if err != nil {
		b.mu.Unlock()
		return err
	}
	if ballot.Vote != model.VotePending {
		b.mu.Unlock()
		return fmt.Errorf("%w: %s voted %s", ErrAlreadyVoted, voterID, ballot.Vote)
	}

	now := b.now()
	ballot.Vote = value
	ballot.VotedAt = &now
	snapshot := req.Clone()
	b.mu.Unlock()

	b.persistBallot(ctx, snapshot, voterID)
	return nil
}

// ResetBallot returns a ballot to pending so the voter may cast again
func (b *Book) ResetBallot(ctx context.Context, requestID, voterID string) error {
	b.mu.Lock()
	req, ballot, err := b.openBallot(requestID, voterID)
	if err != nil {
		b.mu.Unlock()
		return err
	}

	ballot.Vote = model.VotePending
	ballot.VotedAt = nil
	snapshot := req.Clone()
	b.mu.Unlock()

	b.persistBallot(ctx, snapshot, voterID)
	return nil
}

// openBallot must be called with mu held
func (b *Book) openBallot(requestID, voterID string) (*model.DayOffRequest, *model.Ballot, error) {
	req, ok := b.requests[requestID]
	if !ok {
		return nil, nil, fmt.Errorf("%w: %s", ErrRequestNotFound, requestID)
	}
	if b.now().After(req.Deadline) {
		return nil, nil, fmt.Errorf("%w: deadline was %s", ErrVotingClosed, req.Deadline.Format(time.RFC3339))
	}
	ballot, ok := req.Ballots[voterID]
	if !ok {
		return nil, nil, fmt.Errorf("%w: %s", ErrNotEligible, voterID)
	}
	return req, ballot, nil
}

func (b *Book) persistBallot(ctx context.Context, req model.DayOffRequest, voterID string) {
	ballot := req.Ballots[voterID]
	if err := b.sink.PersistBallotUpdate(ctx, req, *ballot); err != nil {
		b.logger.Warn("Failed to persist ballot",
			zap.String("request_id", req.ID),
			zap.String("participant_id", voterID),
			zap.String("vote", string(ballot.Vote)),
			zap.Error(err))
	}
}

// Ballot returns a copy of one voter's ballot
func (b *Book) Ballot(requestID, voterID string) (model.Ballot, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	req, ok := b.requests[requestID]
	if !ok {
		return model.Ballot{}, fmt.Errorf("%w: %s", ErrRequestNotFound, requestID)
	}
	ballot, ok := req.Ballots[voterID]
	if !ok {
		return model.Ballot{}, fmt.Errorf("%w: %s", ErrNotEligible, voterID)
	}
	out := *ballot
	if ballot.VotedAt != nil {
		at := *ballot.VotedAt
		out.VotedAt = &at
	}
	return out, nil
}

// Request returns a copy of a request
func (b *Book) Request(requestID string) (model.DayOffRequest, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	req, ok := b.requests[requestID]
	if !ok {
		return model.DayOffRequest{}, fmt.Errorf("%w: %s", ErrRequestNotFound, requestID)
	}
	return req.Clone(), nil
}

// List returns copies of every request ordered by target day then ID
func (b *Book) List() []model.DayOffRequest {
	b.mu.Lock()
	defer b.mu.Unlock()

	out := make([]model.DayOffRequest, 0, len(b.requests))
	for _, req := range b.requests {
		out = append(out, req.Clone())
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].TargetDay != out[j].TargetDay {
			return out[i].TargetDay < out[j].TargetDay
		}
		return out[i].ID < out[j].ID
	})
	return out
}

// State recomputes the vote state of a request at the current time
func (b *Book) State(requestID string) (VoteState, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	req, ok := b.requests[requestID]
	if !ok {
		return VoteState{}, fmt.Errorf("%w: %s", ErrRequestNotFound, requestID)
	}
	return Resolve(req, b.now()), nil
}

// HasApprovedDayOff reports whether any request for day currently resolves to approved.
// Day-off votes excuse the whole cohort, so participantID does not narrow the lookup.
func (b *Book) HasApprovedDayOff(participantID, day string) bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	now := b.now()
	for _, req := range b.requests {
		if req.TargetDay != day {
			continue
		}
		if Resolve(req, now).State == StateApproved {
			return true
		}
	}
	return false
}

// AttachMessage links a chat message to a request for reaction voting
func (b *Book) AttachMessage(requestID, ref string) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	req, ok := b.requests[requestID]
	if !ok {
		return fmt.Errorf("%w: %s", ErrRequestNotFound, requestID)
	}
	req.MessageRef = ref
	b.messages[ref] = requestID
	return nil
}

// RequestForMessage finds the request a chat message belongs to
func (b *Book) RequestForMessage(ref string) (string, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()

	id, ok := b.messages[ref]
	return id, ok
}

// PendingAnnouncements lists requests that reached a terminal state and were not yet announced
func (b *Book) PendingAnnouncements() []Announcement {
	b.mu.Lock()
	defer b.mu.Unlock()

	now := b.now()
	var out []Announcement
	for _, req := range b.requests {
		if req.Announced {
			continue
		}
		state := Resolve(req, now)
		if !state.Terminal() {
			continue
		}
		out = append(out, Announcement{Request: req.Clone(), State: state})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Request.ID < out[j].Request.ID })
	return out
}

// MarkAnnounced records that a request's result has been posted
func (b *Book) MarkAnnounced(requestID string) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if req, ok := b.requests[requestID]; ok {
		req.Announced = true
	}
}
