package scheduler

import (
	"context"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/TenaciousPub/Challenge/pkg/core/compliance"
	"github.com/TenaciousPub/Challenge/pkg/core/dayoff"
	"github.com/TenaciousPub/Challenge/pkg/core/model"
	"github.com/TenaciousPub/Challenge/pkg/core/report"
	"github.com/TenaciousPub/Challenge/pkg/core/timezone"
)

const (
	tickSpec      = "* * * * *"
	verdictTTL    = 5 * time.Minute
	flagRetention = 3
	clockLayout   = "15:04"
)

// Notifier delivers messages to participants and channels
type Notifier interface {
	DirectMessage(ctx context.Context, participantID, text string) error
	PostChannel(ctx context.Context, channelID, text string) error
}

// Roster is the cohort and its persisted per-day action markers
type Roster interface {
	List() []model.Participant
	RecordAction(ctx context.Context, participantID string, kind model.ActionKind, day string) error
}

// Evaluator judges participants
type Evaluator interface {
	EvaluateParticipant(ctx context.Context, p model.Participant, day string) compliance.Verdict
	EvaluateAll(ctx context.Context, day string) map[string]compliance.Verdict
}

// DayOffs reports approved days off and finished votes
type DayOffs interface {
	HasApprovedDayOff(participantID, day string) bool
	PendingAnnouncements() []dayoff.Announcement
	MarkAnnounced(requestID string)
}

// Punisher picks a punishment workout
type Punisher interface {
	Pick(ctx context.Context, disabled bool) string
}

// Logs reads a day's log entries and flags punished days
type Logs interface {
	DailyLogs(ctx context.Context, day string) ([]model.LogEntry, error)
	MarkPenalized(ctx context.Context, participantID, day string) error
}

// LeaderboardPublisher mirrors the daily leaderboard somewhere durable
type LeaderboardPublisher interface {
	PublishLeaderboard(ctx context.Context, day time.Time, rows []report.LeaderboardRow) error
}

// Channels holds the chat channel IDs for each kind of post; empty disables that post
type Channels struct {
	Checkin     string
	Leaderboard string
	Motivation  string
	Punishment  string
	DayOff      string
}

// Config holds wall-clock times as HH:MM. Server-wide posts use DefaultZone;
// participant messages use each participant's zone.
type Config struct {
	DefaultZone     string
	CheckinTime     string
	LeaderboardTime string
	MotivationTime  string
	ReminderTime    string
	PunishmentTime  string
	StartDate       string // Days before this are never punished
	RestDays        string // RRULE; matching days are skipped entirely
	Channels        Channels
}

// Deps are the collaborators a Scheduler drives
type Deps struct {
	Notifier  Notifier
	Roster    Roster
	Evaluator Evaluator
	DayOffs   DayOffs
	Punisher  Punisher
	Logs      Logs
	Publisher LeaderboardPublisher // Optional
}

type purpose string

const (
	purposeCheckin     purpose = "checkin"
	purposeLeaderboard purpose = "leaderboard"
	purposeTeam        purpose = "team_motivation"
	purposeMotivation  purpose = "motivation"
	purposeReminder    purpose = "reminder"
	purposeCongrats    purpose = "congrats"
	purposePunish      purpose = "punish"
)

type flagKey struct {
	subject string
	day     string
	purpose purpose
}

type cachedVerdicts struct {
	verdicts map[string]compliance.Verdict
	at       time.Time
}

// Scheduler runs the minute tick that sends every timed message
type Scheduler struct {
	mu       sync.Mutex
	cfg      Config
	deps     Deps
	restDays *restDays
	flags    map[flagKey]struct{}
	verdicts map[string]cachedVerdicts
	pick     func(n int) int
	now      func() time.Time
	cron     *cron.Cron
	logger   *zap.Logger
}

func New(cfg Config, deps Deps, logger *zap.Logger) (*Scheduler, error) {
	if cfg.DefaultZone == "" {
		cfg.DefaultZone = timezone.DefaultZone
	}
	rest, err := newRestDays(cfg.RestDays, cfg.StartDate)
	if err != nil {
		return nil, err
	}
	return &Scheduler{
		cfg:      cfg,
		deps:     deps,
		restDays: rest,
		flags:    make(map[flagKey]struct{}),
		verdicts: make(map[string]cachedVerdicts),
		pick:     rand.IntN,
		now:      time.Now,
		logger:   logger,
	}, nil
}

// Start runs Tick every minute until Stop is called
func (s *Scheduler) Start(ctx context.Context) error {
	cronLog := cronLogger{s.logger.Sugar()}
	s.cron = cron.New(
		cron.WithLogger(cronLog),
		cron.WithChain(cron.Recover(cronLog), cron.SkipIfStillRunning(cronLog)),
	)
	if _, err := s.cron.AddFunc(tickSpec, func() { s.Tick(ctx, s.now()) }); err != nil {
		return err
	}
	s.cron.Start()
	s.logger.Info("Scheduler started", zap.String("default_zone", s.cfg.DefaultZone))
	return nil
}

// Stop halts the cron loop and waits for a running tick to finish
func (s *Scheduler) Stop() {
	if s.cron == nil {
		return
	}
	<-s.cron.Stop().Done()
	s.logger.Info("Scheduler stopped")
}

// Tick performs everything due at the given minute
func (s *Scheduler) Tick(ctx context.Context, now time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()

	serverNow := now.In(timezone.Location(s.cfg.DefaultZone)).Truncate(time.Minute)
	serverDay := serverNow.Format(model.DateLayout)
	clock := serverNow.Format(clockLayout)

	if clock == s.cfg.CheckinTime {
		s.postOnce(ctx, purposeCheckin, serverDay, s.cfg.Channels.Checkin, s.checkinText())
	}
	if clock == s.cfg.LeaderboardTime {
		s.postLeaderboard(ctx, serverNow, serverDay)
	}
	if clock == s.cfg.MotivationTime {
		s.postOnce(ctx, purposeTeam, serverDay, s.cfg.Channels.Motivation,
			":muscle: *Daily Motivation*\n\n"+teamMotivation[s.pick(len(teamMotivation))])
	}

	s.announceDayOffResults(ctx)

	for _, p := range s.deps.Roster.List() {
		if ctx.Err() != nil {
			return
		}
		s.tickParticipant(ctx, p, now)
	}

	s.prune(serverDay)
}

func (s *Scheduler) tickParticipant(ctx context.Context, p model.Participant, now time.Time) {
	zone := timezone.Normalize(p.Timezone, s.cfg.DefaultZone)
	local := now.In(timezone.Location(zone)).Truncate(time.Minute)
	day := local.Format(model.DateLayout)
	clock := local.Format(clockLayout)

	if s.deps.DayOffs.HasApprovedDayOff(p.ID, day) || s.restDays.contains(day) {
		for _, pp := range []purpose{purposeMotivation, purposeReminder, purposeCongrats} {
			delete(s.flags, flagKey{p.ID, day, pp})
		}
		return
	}

	if clock == s.cfg.PunishmentTime {
		s.maybePunish(ctx, p, timezone.PreviousDay(day))
	}
	if clock == s.cfg.MotivationTime {
		s.maybeNudge(ctx, p, day, purposeMotivation)
	}
	if clock == s.cfg.ReminderTime {
		s.maybeNudge(ctx, p, day, purposeReminder)
	}
	if local.Minute()%5 == 0 {
		s.maybeCongratulate(ctx, p, day, now)
	}
}

func (s *Scheduler) maybePunish(ctx context.Context, p model.Participant, day string) {
	if s.cfg.StartDate != "" && day < s.cfg.StartDate {
		return
	}
	key := flagKey{p.ID, day, purposePunish}
	if s.flagged(key) {
		return
	}
	if p.LastAction(model.ActionPunished) == day {
		s.flags[key] = struct{}{}
		return
	}
	if s.deps.DayOffs.HasApprovedDayOff(p.ID, day) || s.restDays.contains(day) {
		s.flags[key] = struct{}{}
		return
	}

	verdict := s.deps.Evaluator.EvaluateParticipant(ctx, p, day)
	if verdict.Compliant {
		s.flags[key] = struct{}{}
		return
	}

	workout := s.deps.Punisher.Pick(ctx, p.Disabled)
	if err := s.deps.Notifier.DirectMessage(ctx, p.ID, report.PunishmentDM(verdict, workout)); err != nil {
		s.logger.Warn("Failed to DM punishment", zap.String("participant_id", p.ID), zap.Error(err))
	}
	if ch := s.cfg.Channels.Punishment; ch != "" {
		if err := s.deps.Notifier.PostChannel(ctx, ch, report.PunishmentAnnouncement(p.ID, workout)); err != nil {
			s.logger.Warn("Failed to post punishment announcement", zap.String("participant_id", p.ID), zap.Error(err))
		}
	}

	if err := s.deps.Roster.RecordAction(ctx, p.ID, model.ActionPunished, day); err != nil {
		s.logger.Warn("Failed to record punishment", zap.String("participant_id", p.ID), zap.String("day", day), zap.Error(err))
	}
	if err := s.deps.Logs.MarkPenalized(ctx, p.ID, day); err != nil {
		s.logger.Warn("Failed to mark day penalized", zap.String("participant_id", p.ID), zap.String("day", day), zap.Error(err))
	}

	s.logger.Info("Punishment assigned",
		zap.String("participant_id", p.ID),
		zap.String("day", day),
		zap.String("workout", workout))
	s.flags[key] = struct{}{}
}

func (s *Scheduler) maybeNudge(ctx context.Context, p model.Participant, day string, pp purpose) {
	key := flagKey{p.ID, day, pp}
	if s.flagged(key) {
		return
	}

	prefix := ":muscle: Check-in"
	if pp == purposeReminder {
		prefix = ":alarm_clock: Reminder"
		entries, err := s.deps.Logs.DailyLogs(ctx, day)
		if err != nil {
			s.logger.Debug("Reminder log check failed", zap.String("participant_id", p.ID), zap.Error(err))
		} else if compliance.NewTotals(entries, true).Sum(p.ID, "") > 0 {
			s.flags[key] = struct{}{}
			return
		}
	}

	text := prefix + ": " + personalMotivation[s.pick(len(personalMotivation))]
	if err := s.deps.Notifier.DirectMessage(ctx, p.ID, text); err != nil {
		s.logger.Warn("Failed to DM nudge",
			zap.String("participant_id", p.ID),
			zap.String("purpose", string(pp)),
			zap.Error(err))
	}
	s.flags[key] = struct{}{}
}

func (s *Scheduler) maybeCongratulate(ctx context.Context, p model.Participant, day string, now time.Time) {
	key := flagKey{p.ID, day, purposeCongrats}
	if s.flagged(key) {
		return
	}
	if p.LastAction(model.ActionCongratulated) == day {
		s.flags[key] = struct{}{}
		return
	}

	verdict, ok := s.cachedVerdicts(ctx, day, now)[p.ID]
	if !ok || !verdict.Compliant {
		return
	}

	text := ":tada: " + congrats[s.pick(len(congrats))] + " (" + report.Progress(verdict) + ")"
	if err := s.deps.Notifier.DirectMessage(ctx, p.ID, text); err != nil {
		s.logger.Warn("Failed to DM congrats", zap.String("participant_id", p.ID), zap.Error(err))
	}
	if err := s.deps.Roster.RecordAction(ctx, p.ID, model.ActionCongratulated, day); err != nil {
		s.logger.Warn("Failed to record congrats", zap.String("participant_id", p.ID), zap.Error(err))
	}
	s.flags[key] = struct{}{}
}

func (s *Scheduler) postLeaderboard(ctx context.Context, serverNow time.Time, day string) {
	key := flagKey{"channel", day, purposeLeaderboard}
	if s.flagged(key) {
		return
	}

	participants := s.deps.Roster.List()
	rows := report.Leaderboard(participants, s.cachedVerdicts(ctx, day, serverNow))

	if s.deps.Publisher != nil {
		if err := s.deps.Publisher.PublishLeaderboard(ctx, serverNow, rows); err != nil {
			s.logger.Warn("Failed to publish leaderboard sheet", zap.String("day", day), zap.Error(err))
		}
	}

	text := report.LeaderboardText(serverNow, rows, len(participants), footers[s.pick(len(footers))])
	s.postOnce(ctx, purposeLeaderboard, day, s.cfg.Channels.Leaderboard, text)
	s.flags[key] = struct{}{}
}

func (s *Scheduler) announceDayOffResults(ctx context.Context) {
	channel := s.cfg.Channels.DayOff
	if channel == "" {
		channel = s.cfg.Channels.Checkin
	}

	for _, a := range s.deps.DayOffs.PendingAnnouncements() {
		if channel != "" {
			if err := s.deps.Notifier.PostChannel(ctx, channel, report.DayOffResult(a)); err != nil {
				s.logger.Warn("Failed to announce day-off result, will retry",
					zap.String("request_id", a.Request.ID),
					zap.Error(err))
				continue
			}
		}
		s.deps.DayOffs.MarkAnnounced(a.Request.ID)
		s.logger.Info("Day-off result announced",
			zap.String("request_id", a.Request.ID),
			zap.String("state", string(a.State.State)))
	}
}

// postOnce posts to a channel at most once per day; failures still count as posted
func (s *Scheduler) postOnce(ctx context.Context, pp purpose, day, channelID, text string) {
	if channelID == "" {
		return
	}
	key := flagKey{channelID, day, pp}
	if s.flagged(key) {
		return
	}
	if err := s.deps.Notifier.PostChannel(ctx, channelID, text); err != nil {
		s.logger.Warn("Failed to post to channel",
			zap.String("channel", channelID),
			zap.String("purpose", string(pp)),
			zap.Error(err))
	} else {
		s.logger.Info("Posted to channel", zap.String("channel", channelID), zap.String("purpose", string(pp)))
	}
	s.flags[key] = struct{}{}
}

func (s *Scheduler) cachedVerdicts(ctx context.Context, day string, now time.Time) map[string]compliance.Verdict {
	if c, ok := s.verdicts[day]; ok && now.Sub(c.at) < verdictTTL {
		return c.verdicts
	}
	s.logger.Debug("Evaluating compliance", zap.String("day", day))
	verdicts := s.deps.Evaluator.EvaluateAll(ctx, day)
	s.verdicts[day] = cachedVerdicts{verdicts: verdicts, at: now}
	return verdicts
}

func (s *Scheduler) flagged(key flagKey) bool {
	_, ok := s.flags[key]
	return ok
}

// prune forgets flags and cached verdicts older than the retention window
func (s *Scheduler) prune(today string) {
	t, err := time.Parse(model.DateLayout, today)
	if err != nil {
		return
	}
	cutoff := t.AddDate(0, 0, -flagRetention).Format(model.DateLayout)
	for key := range s.flags {
		if key.day < cutoff {
			delete(s.flags, key)
		}
	}
	for day := range s.verdicts {
		if day < cutoff {
			delete(s.verdicts, day)
		}
	}
}

func (s *Scheduler) checkinText() string {
	if len(s.deps.Roster.List()) == 0 {
		return ":sunny: *Good morning!* Time to crush your goals today!"
	}
	return ":sunny: *Good morning, challengers!*\n\nTime to log your progress! Use `/challenge log` to record your work.\n\n:muscle: Let's make today count!"
}
