package services

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/TenaciousPub/Challenge/pkg/core/model"
	"github.com/TenaciousPub/Challenge/pkg/db"
)

const defaultUnit = "reps"

// Challenges manages per-participant exercise goals
type Challenges struct {
	store    db.ChallengeStore
	roster   *Roster
	validate *validator.Validate
	now      func() time.Time
	logger   *zap.Logger
}

func NewChallenges(store db.ChallengeStore, roster *Roster, logger *zap.Logger, opts ...Option) *Challenges {
	o := applyOptions(opts)
	return &Challenges{
		store:    store,
		roster:   roster,
		validate: validator.New(),
		now:      o.now,
		logger:   logger,
	}
}

// AddChallengeInput describes a new challenge
type AddChallengeInput struct {
	ParticipantID string `validate:"required"`
	Type          string `validate:"required,max=32"`
	DailyTarget   int    `validate:"gt=0"`
	Unit          string `validate:"max=16"`
	SetDefault    bool
}

// AddChallenge creates an active challenge, optionally making it the participant's default
func (c *Challenges) AddChallenge(ctx context.Context, in AddChallengeInput) (model.Challenge, error) {
	in.Type = strings.ToLower(strings.TrimSpace(in.Type))
	in.Unit = strings.ToLower(strings.TrimSpace(in.Unit))
	if in.Unit == "" {
		in.Unit = defaultUnit
	}

	if err := c.validate.Struct(in); err != nil {
		return model.Challenge{}, fmt.Errorf("%w: %v", ErrInvalidChallenge, err)
	}
	if _, ok := c.roster.Get(in.ParticipantID); !ok {
		return model.Challenge{}, fmt.Errorf("%w: %s", ErrUnknownParticipant, in.ParticipantID)
	}

	ch := model.Challenge{
		ID:            "c_" + strings.ReplaceAll(uuid.NewString(), "-", "")[:12],
		ParticipantID: in.ParticipantID,
		Type:          in.Type,
		DailyTarget:   in.DailyTarget,
		Unit:          in.Unit,
		Active:        true,
		CreatedAt:     c.now().UTC(),
	}

	row := challengeToRow(ch)
	if err := c.store.InsertChallenge(&row); err != nil {
		return model.Challenge{}, fmt.Errorf("failed to save challenge: %w", err)
	}

	c.logger.Info("Challenge added",
		zap.String("challenge_id", ch.ID),
		zap.String("participant_id", ch.ParticipantID),
		zap.String("type", ch.Type),
		zap.Int("daily_target", ch.DailyTarget))

	if in.SetDefault {
		if err := c.roster.SetDefaultChallenge(ctx, ch.ParticipantID, ch.ID); err != nil {
			return ch, err
		}
	}

	return ch, nil
}

// ListChallenges returns a participant's challenges, oldest first
func (c *Challenges) ListChallenges(ctx context.Context, participantID string, activeOnly bool) ([]model.Challenge, error) {
	rows, err := c.store.GetChallenges(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch challenges: %w", err)
	}

	var out []model.Challenge
	for _, row := range rows {
		if row.ParticipantID != participantID {
			continue
		}
		if activeOnly && !row.Active {
			continue
		}
		out = append(out, challengeFromRow(row))
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out, nil
}

// ListActiveChallenges returns the participant's active challenges
func (c *Challenges) ListActiveChallenges(ctx context.Context, participantID string) ([]model.Challenge, error) {
	return c.ListChallenges(ctx, participantID, true)
}

// RemoveChallenge deactivates a challenge owned by the participant.
// A default pointing at it is cleared.
func (c *Challenges) RemoveChallenge(ctx context.Context, participantID, challengeID string) error {
	owned, err := c.find(ctx, participantID, challengeID)
	if err != nil {
		return err
	}

	found, err := c.store.SetChallengeActive(ctx, owned.ID, false)
	if err != nil {
		return fmt.Errorf("failed to deactivate challenge: %w", err)
	}
	if !found {
		return fmt.Errorf("%w: %s", ErrChallengeNotFound, challengeID)
	}

	c.logger.Info("Challenge removed",
		zap.String("challenge_id", challengeID),
		zap.String("participant_id", participantID))

	if p, ok := c.roster.Get(participantID); ok && p.DefaultChallengeID == challengeID {
		return c.roster.SetDefaultChallenge(ctx, participantID, "")
	}
	return nil
}

// SetDefaultChallenge makes an active challenge the participant's default; empty clears it
func (c *Challenges) SetDefaultChallenge(ctx context.Context, participantID, challengeID string) error {
	if challengeID != "" {
		ch, err := c.find(ctx, participantID, challengeID)
		if err != nil {
			return err
		}
		if !ch.Active {
			return fmt.Errorf("%w: %s", ErrChallengeNotActive, challengeID)
		}
	}
	return c.roster.SetDefaultChallenge(ctx, participantID, challengeID)
}

// ResolveDefaultChallenge picks the challenge a bare log should count toward:
// the active default, else the only active challenge, else none
func (c *Challenges) ResolveDefaultChallenge(ctx context.Context, participantID string) (string, error) {
	active, err := c.ListActiveChallenges(ctx, participantID)
	if err != nil {
		return "", err
	}

	if p, ok := c.roster.Get(participantID); ok && p.DefaultChallengeID != "" {
		for _, ch := range active {
			if ch.ID == p.DefaultChallengeID {
				return ch.ID, nil
			}
		}
	}

	if len(active) == 1 {
		return active[0].ID, nil
	}
	return "", nil
}

func (c *Challenges) find(ctx context.Context, participantID, challengeID string) (model.Challenge, error) {
	all, err := c.ListChallenges(ctx, participantID, false)
	if err != nil {
		return model.Challenge{}, err
	}
	for _, ch := range all {
		if ch.ID == challengeID {
			return ch, nil
		}
	}
	return model.Challenge{}, fmt.Errorf("%w: %s", ErrChallengeNotFound, challengeID)
}

func challengeFromRow(row db.Challenge) model.Challenge {
	createdAt, _ := time.Parse(time.RFC3339, row.CreatedAt)
	unit := row.Unit
	if unit == "" {
		unit = defaultUnit
	}
	return model.Challenge{
		ID:            row.ID,
		ParticipantID: row.ParticipantID,
		Type:          row.Type,
		DailyTarget:   row.DailyTarget,
		Unit:          unit,
		Active:        row.Active,
		CreatedAt:     createdAt,
	}
}

func challengeToRow(ch model.Challenge) db.Challenge {
	return db.Challenge{
		ID:            ch.ID,
		ParticipantID: ch.ParticipantID,
		Type:          ch.Type,
		DailyTarget:   ch.DailyTarget,
		Unit:          ch.Unit,
		Active:        ch.Active,
		CreatedAt:     ch.CreatedAt.UTC().Format(time.RFC3339),
	}
}
