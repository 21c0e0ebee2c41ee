package compliance

import (
	"context"

	"go.uber.org/zap"

	"github.com/TenaciousPub/Challenge/pkg/core/model"
)

// ChallengeProvider lists a participant's active challenges
type ChallengeProvider interface {
	ListActiveChallenges(ctx context.Context, participantID string) ([]model.Challenge, error)
}

// LogSource returns every log entry recorded for a day
type LogSource interface {
	DailyLogs(ctx context.Context, day string) ([]model.LogEntry, error)
}

// Roster lists the current cohort
type Roster interface {
	List() []model.Participant
}

// ModeSettings reports the global evaluation knobs
type ModeSettings interface {
	Mode(ctx context.Context) model.ComplianceMode
	PointsTarget(ctx context.Context) int
}

// Engine gathers inputs from its collaborators and runs Evaluate
type Engine struct {
	resolver   TargetResolver
	challenges ChallengeProvider
	logs       LogSource
	roster     Roster
	settings   ModeSettings
	logger     *zap.Logger
}

func NewEngine(
	resolver TargetResolver,
	challenges ChallengeProvider,
	logs LogSource,
	roster Roster,
	settings ModeSettings,
	logger *zap.Logger,
) *Engine {
	return &Engine{
		resolver:   resolver,
		challenges: challenges,
		logs:       logs,
		roster:     roster,
		settings:   settings,
		logger:     logger,
	}
}

// Resolver exposes the configured targets
func (e *Engine) Resolver() TargetResolver {
	return e.resolver
}

// EvaluateParticipant judges one participant for one day
func (e *Engine) EvaluateParticipant(ctx context.Context, p model.Participant, day string) Verdict {
	totals := e.totalsFor(ctx, day)
	mode := e.settings.Mode(ctx)
	pointsTarget := e.settings.PointsTarget(ctx)
	return Evaluate(p, day, totals, e.activeFor(ctx, p.ID), mode, pointsTarget, e.resolver)
}

// EvaluateAll judges every current participant for one day, keyed by participant ID
func (e *Engine) EvaluateAll(ctx context.Context, day string) map[string]Verdict {
	totals := e.totalsFor(ctx, day)
	mode := e.settings.Mode(ctx)
	pointsTarget := e.settings.PointsTarget(ctx)

	participants := e.roster.List()
	verdicts := make(map[string]Verdict, len(participants))
	for _, p := range participants {
		verdicts[p.ID] = Evaluate(p, day, totals, e.activeFor(ctx, p.ID), mode, pointsTarget, e.resolver)
	}
	return verdicts
}

func (e *Engine) totalsFor(ctx context.Context, day string) Totals {
	entries, err := e.logs.DailyLogs(ctx, day)
	if err != nil {
		e.logger.Warn("Failed to load daily logs, treating totals as zero",
			zap.String("day", day),
			zap.Error(err))
		return NewTotals(nil, true)
	}
	return NewTotals(entries, true)
}

func (e *Engine) activeFor(ctx context.Context, participantID string) []model.Challenge {
	active, err := e.challenges.ListActiveChallenges(ctx, participantID)
	if err != nil {
		e.logger.Warn("Failed to load active challenges, using legacy target",
			zap.String("participant_id", participantID),
			zap.Error(err))
		return nil
	}
	return active
}
