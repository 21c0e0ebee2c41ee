package services

import (
	"context"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/TenaciousPub/Challenge/pkg/core/model"
	"github.com/TenaciousPub/Challenge/pkg/core/timezone"
	"github.com/TenaciousPub/Challenge/pkg/db"
)

// LogBook records and reads exercise logs
type LogBook struct {
	store      db.DailyLogStore
	roster     *Roster
	challenges *Challenges
	validate   *validator.Validate
	now        func() time.Time
	logger     *zap.Logger
}

func NewLogBook(store db.DailyLogStore, roster *Roster, challenges *Challenges, logger *zap.Logger, opts ...Option) *LogBook {
	o := applyOptions(opts)
	return &LogBook{
		store:      store,
		roster:     roster,
		challenges: challenges,
		validate:   validator.New(),
		now:        o.now,
		logger:     logger,
	}
}

// LogInput is a single logged amount. Day defaults to the participant's local day
// and ChallengeID defaults to their resolved default challenge.
type LogInput struct {
	ParticipantID string `validate:"required"`
	Day           string `validate:"omitempty,datetime=2006-01-02"`
	Amount        int    `validate:"gte=0"`
	Bonus         int    `validate:"gte=0"`
	Note          string
	ChallengeID   string
}

// Record stores a log entry and returns it as saved
func (l *LogBook) Record(ctx context.Context, in LogInput) (model.LogEntry, error) {
	if err := l.validate.Struct(in); err != nil {
		return model.LogEntry{}, fmt.Errorf("%w: %v", ErrInvalidLog, err)
	}

	p, ok := l.roster.Get(in.ParticipantID)
	if !ok {
		return model.LogEntry{}, fmt.Errorf("%w: %s", ErrUnknownParticipant, in.ParticipantID)
	}

	now := l.now()
	day := in.Day
	if day == "" {
		day = timezone.LocalDay(now, p.Timezone)
	}

	challengeID := strings.TrimSpace(in.ChallengeID)
	if challengeID == "" {
		resolved, err := l.challenges.ResolveDefaultChallenge(ctx, p.ID)
		if err != nil {
			l.logger.Warn("Could not resolve default challenge, logging without one",
				zap.String("participant_id", p.ID), zap.Error(err))
		}
		challengeID = resolved
	} else {
		ch, err := l.challenges.find(ctx, p.ID, challengeID)
		if err != nil {
			return model.LogEntry{}, err
		}
		if !ch.Active {
			return model.LogEntry{}, fmt.Errorf("%w: %s", ErrChallengeNotActive, challengeID)
		}
	}

	entry := model.LogEntry{
		Date:          day,
		ParticipantID: p.ID,
		Amount:        in.Amount,
		Bonus:         in.Bonus,
		Note:          in.Note,
		ChallengeID:   challengeID,
		LoggedAt:      now.UTC(),
	}

	row := db.DailyLog{
		Date:          entry.Date,
		ParticipantID: entry.ParticipantID,
		Amount:        strconv.Itoa(entry.Amount),
		Bonus:         strconv.Itoa(entry.Bonus),
		Notes:         entry.Note,
		LoggedAt:      entry.LoggedAt.Format(time.RFC3339),
		ChallengeID:   entry.ChallengeID,
	}
	if err := l.store.InsertDailyLog(&row); err != nil {
		return model.LogEntry{}, fmt.Errorf("failed to save log: %w", err)
	}

	l.logger.Info("Logged exercise",
		zap.String("participant_id", p.ID),
		zap.String("day", day),
		zap.Int("amount", entry.Amount),
		zap.Int("bonus", entry.Bonus),
		zap.String("challenge_id", challengeID))

	return entry, nil
}

// DailyLogs returns every log for a calendar day
func (l *LogBook) DailyLogs(ctx context.Context, day string) ([]model.LogEntry, error) {
	rows, err := l.store.GetDailyLogs(ctx, day)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch logs for %s: %w", day, err)
	}

	entries := make([]model.LogEntry, 0, len(rows))
	for _, row := range rows {
		loggedAt, _ := time.Parse(time.RFC3339, row.LoggedAt)
		entries = append(entries, model.LogEntry{
			Date:          row.Date,
			ParticipantID: row.ParticipantID,
			Amount:        parseCount(row.Amount),
			Bonus:         parseCount(row.Bonus),
			Penalized:     row.Penalized,
			Note:          row.Notes,
			ChallengeID:   row.ChallengeID,
			LoggedAt:      loggedAt,
		})
	}
	return entries, nil
}

// MarkPenalized flags a participant's day as punished
func (l *LogBook) MarkPenalized(ctx context.Context, participantID, day string) error {
	if err := l.store.MarkPenalized(ctx, participantID, day); err != nil {
		return fmt.Errorf("failed to mark %s penalized on %s: %w", participantID, day, err)
	}
	return nil
}

// maxCount caps a single hand-edited cell
const maxCount = 1_000_000

// parseCount reads a hand-edited numeric cell. Unreadable or negative values count
// as zero and huge ones are capped at maxCount.
func parseCount(s string) int {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0
	}
	if n, err := strconv.Atoi(s); err == nil {
		return min(max(n, 0), maxCount)
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || f <= 0 {
		return 0
	}
	if f >= maxCount {
		return maxCount
	}
	return int(f)
}
