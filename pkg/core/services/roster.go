package services

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/TenaciousPub/Challenge/pkg/core/model"
	"github.com/TenaciousPub/Challenge/pkg/core/timezone"
	"github.com/TenaciousPub/Challenge/pkg/db"
)

// Roster is the in-memory, authoritative list of participants, written through to the store
type Roster struct {
	mu          sync.RWMutex
	store       db.ParticipantStore
	defaultZone string
	byID        map[string]model.Participant
	order       []string
	logger      *zap.Logger
}

func NewRoster(store db.ParticipantStore, defaultZone string, logger *zap.Logger) *Roster {
	return &Roster{
		store:       store,
		defaultZone: defaultZone,
		byID:        make(map[string]model.Participant),
		logger:      logger,
	}
}

// Refresh reloads every participant from the store
func (r *Roster) Refresh(ctx context.Context) error {
	rows, err := r.store.GetParticipants(ctx)
	if err != nil {
		return fmt.Errorf("failed to fetch participants: %w", err)
	}

	byID := make(map[string]model.Participant, len(rows))
	order := make([]string, 0, len(rows))
	for _, row := range rows {
		p := participantFromRow(row)
		if _, seen := byID[p.ID]; seen {
			continue
		}
		order = append(order, p.ID)
		byID[p.ID] = p
	}

	r.mu.Lock()
	r.byID = byID
	r.order = order
	r.mu.Unlock()

	r.logger.Debug("Roster refreshed", zap.Int("participants", len(order)))
	return nil
}

// List returns the participants in join order
func (r *Roster) List() []model.Participant {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]model.Participant, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.byID[id])
	}
	return out
}

// Get returns a participant by ID
func (r *Roster) Get(id string) (model.Participant, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.byID[id]
	return p, ok
}

// JoinInput describes a new participant
type JoinInput struct {
	ID          string
	DisplayName string
	Gender      string
	Disabled    bool
	Timezone    string
}

// Join adds a participant. The timezone is normalized and defaults to the configured zone.
func (r *Roster) Join(ctx context.Context, in JoinInput, now time.Time) (model.Participant, error) {
	id := strings.TrimSpace(in.ID)
	if id == "" {
		return model.Participant{}, fmt.Errorf("%w: empty participant id", ErrUnknownParticipant)
	}

	gender, ok := model.ParseGender(in.Gender)
	if !ok {
		return model.Participant{}, fmt.Errorf("%w: got %q", ErrInvalidGender, in.Gender)
	}

	if _, exists := r.Get(id); exists {
		return model.Participant{}, fmt.Errorf("%w: %s", ErrAlreadyJoined, id)
	}

	zone := timezone.Normalize(in.Timezone, r.defaultZone)
	displayName := strings.TrimSpace(in.DisplayName)
	if displayName == "" {
		displayName = id
	}

	p := model.Participant{
		ID:          id,
		DisplayName: displayName,
		Gender:      gender,
		Disabled:    in.Disabled,
		Timezone:    zone,
		JoinedOn:    timezone.LocalDay(now, zone),
	}

	row := participantToRow(p)
	if err := r.store.InsertParticipant(&row); err != nil {
		return model.Participant{}, fmt.Errorf("failed to save participant: %w", err)
	}

	r.mu.Lock()
	r.byID[p.ID] = p
	r.order = append(r.order, p.ID)
	r.mu.Unlock()

	r.logger.Info("Participant joined",
		zap.String("participant_id", p.ID),
		zap.String("gender", string(p.Gender)),
		zap.Bool("disabled", p.Disabled),
		zap.String("timezone", p.Timezone))

	return p, nil
}

// ProfileUpdate holds optional profile changes; nil fields are left as they are
type ProfileUpdate struct {
	DisplayName *string
	Gender      *string
	Disabled    *bool
	Timezone    *string
}

// UpdateProfile applies profile changes and persists them
func (r *Roster) UpdateProfile(ctx context.Context, id string, upd ProfileUpdate) (model.Participant, error) {
	var gender model.Gender
	if upd.Gender != nil {
		g, ok := model.ParseGender(*upd.Gender)
		if !ok {
			return model.Participant{}, fmt.Errorf("%w: got %q", ErrInvalidGender, *upd.Gender)
		}
		gender = g
	}

	return r.mutate(ctx, id, func(p *model.Participant) {
		if upd.DisplayName != nil && strings.TrimSpace(*upd.DisplayName) != "" {
			p.DisplayName = strings.TrimSpace(*upd.DisplayName)
		}
		if upd.Gender != nil {
			p.Gender = gender
		}
		if upd.Disabled != nil {
			p.Disabled = *upd.Disabled
		}
		if upd.Timezone != nil {
			p.Timezone = timezone.Normalize(*upd.Timezone, r.defaultZone)
		}
	})
}

// SetDefaultChallenge stores the participant's default challenge; empty clears it
func (r *Roster) SetDefaultChallenge(ctx context.Context, id, challengeID string) error {
	_, err := r.mutate(ctx, id, func(p *model.Participant) {
		p.DefaultChallengeID = challengeID
	})
	return err
}

// RecordAction stores the day an automated action last happened for a participant.
// The in-memory roster is updated even if persisting fails.
func (r *Roster) RecordAction(ctx context.Context, id string, kind model.ActionKind, day string) error {
	_, err := r.mutate(ctx, id, func(p *model.Participant) {
		switch kind {
		case model.ActionPunished:
			p.LastPunishedOn = day
		case model.ActionCongratulated:
			p.LastCongratsOn = day
		}
	})
	return err
}

// NormalizeTimezones rewrites every stored timezone in canonical form
func (r *Roster) NormalizeTimezones(ctx context.Context) (total int, changed int, err error) {
	for _, p := range r.List() {
		total++
		canonical := timezone.Normalize(p.Timezone, r.defaultZone)
		if canonical == p.Timezone {
			continue
		}
		if _, err := r.mutate(ctx, p.ID, func(p *model.Participant) { p.Timezone = canonical }); err != nil {
			return total, changed, err
		}
		r.logger.Info("Normalized timezone",
			zap.String("participant_id", p.ID),
			zap.String("from", p.Timezone),
			zap.String("to", canonical))
		changed++
	}
	return total, changed, nil
}

// mutate applies fn to the in-memory participant, then persists the result
func (r *Roster) mutate(ctx context.Context, id string, fn func(*model.Participant)) (model.Participant, error) {
	r.mu.Lock()
	p, ok := r.byID[id]
	if !ok {
		r.mu.Unlock()
		return model.Participant{}, fmt.Errorf("%w: %s", ErrUnknownParticipant, id)
	}
	fn(&p)
	r.byID[id] = p
	r.mu.Unlock()

	row := participantToRow(p)
	if err := r.store.UpdateParticipant(ctx, &row); err != nil {
		return p, fmt.Errorf("failed to save participant %s: %w", id, err)
	}
	return p, nil
}

func participantFromRow(row db.Participant) model.Participant {
	gender, _ := model.ParseGender(row.Gender)
	return model.Participant{
		ID:                 row.ID,
		DisplayName:        row.DisplayName,
		Gender:             gender,
		Disabled:           row.Disabled,
		Timezone:           row.Timezone,
		JoinedOn:           row.JoinedOn,
		LastPunishedOn:     row.LastPunishedOn,
		LastCongratsOn:     row.LastCongratsOn,
		DefaultChallengeID: row.DefaultChallengeID,
	}
}

func participantToRow(p model.Participant) db.Participant {
	return db.Participant{
		ID:                 p.ID,
		DisplayName:        p.DisplayName,
		Gender:             string(p.Gender),
		Disabled:           p.Disabled,
		Timezone:           p.Timezone,
		JoinedOn:           p.JoinedOn,
		LastPunishedOn:     p.LastPunishedOn,
		LastCongratsOn:     p.LastCongratsOn,
		DefaultChallengeID: p.DefaultChallengeID,
	}
}
