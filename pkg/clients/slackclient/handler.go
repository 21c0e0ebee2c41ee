package slackclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/slack-go/slack"
	"go.uber.org/zap"

	"github.com/TenaciousPub/Challenge/pkg/core/compliance"
	"github.com/TenaciousPub/Challenge/pkg/core/dayoff"
	"github.com/TenaciousPub/Challenge/pkg/core/model"
	"github.com/TenaciousPub/Challenge/pkg/core/report"
	"github.com/TenaciousPub/Challenge/pkg/core/services"
	"github.com/TenaciousPub/Challenge/pkg/core/settings"
	"github.com/TenaciousPub/Challenge/pkg/core/timezone"
)

// Roster manages membership
type Roster interface {
	Get(id string) (model.Participant, bool)
	Join(ctx context.Context, in services.JoinInput, now time.Time) (model.Participant, error)
}

// Challenges manages a participant's goals
type Challenges interface {
	AddChallenge(ctx context.Context, in services.AddChallengeInput) (model.Challenge, error)
	ListChallenges(ctx context.Context, participantID string, activeOnly bool) ([]model.Challenge, error)
	RemoveChallenge(ctx context.Context, participantID, challengeID string) error
	SetDefaultChallenge(ctx context.Context, participantID, challengeID string) error
}

// LogBook records exercise
type LogBook interface {
	Record(ctx context.Context, in services.LogInput) (model.LogEntry, error)
}

// Evaluator judges one participant's day
type Evaluator interface {
	EvaluateParticipant(ctx context.Context, p model.Participant, day string) compliance.Verdict
}

// Settings exposes the global compliance knobs
type Settings interface {
	Mode(ctx context.Context) model.ComplianceMode
	PointsTarget(ctx context.Context) int
	SetMode(ctx context.Context, raw string) (model.ComplianceMode, error)
	SetPointsTarget(ctx context.Context, n int) (int, error)
}

// VoteBook is the day-off vote book
type VoteBook interface {
	services.BallotBook
	CreateRequest(ctx context.Context, requesterID, targetDay, reason string, deadline time.Time) (model.DayOffRequest, error)
	State(requestID string) (dayoff.VoteState, error)
	AttachMessage(requestID, ref string) error
	RequestForMessage(ref string) (string, bool)
}

// RequestPoster publishes a day-off request for reaction voting
type RequestPoster interface {
	PostDayOffRequest(ctx context.Context, channelID, text string) (string, error)
}

// HandlerConfig holds the knobs the handler reads from application config
type HandlerConfig struct {
	SigningSecret string
	AdminUserIDs  []string
	DayOffChannel string
	VotingWindow  time.Duration
}

// Handler serves Slack slash commands and event callbacks
type Handler struct {
	cfg        HandlerConfig
	roster     Roster
	challenges Challenges
	logs       LogBook
	evaluator  Evaluator
	settings   Settings
	book       VoteBook
	poster     RequestPoster
	now        func() time.Time
	logger     *zap.Logger
}

func NewHandler(
	cfg HandlerConfig,
	roster Roster,
	challenges Challenges,
	logs LogBook,
	evaluator Evaluator,
	settingsStore Settings,
	book VoteBook,
	poster RequestPoster,
	logger *zap.Logger,
) *Handler {
	return &Handler{
		cfg:        cfg,
		roster:     roster,
		challenges: challenges,
		logs:       logs,
		evaluator:  evaluator,
		settings:   settingsStore,
		book:       book,
		poster:     poster,
		now:        time.Now,
		logger:     logger,
	}
}

// verifiedBody reads the request body and checks the Slack signature
func (h *Handler) verifiedBody(r *http.Request) ([]byte, int) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		return nil, http.StatusBadRequest
	}
	r.Body = io.NopCloser(bytes.NewBuffer(body))

	verifier, err := slack.NewSecretsVerifier(r.Header, h.cfg.SigningSecret)
	if err != nil {
		return nil, http.StatusUnauthorized
	}
	if _, err := verifier.Write(body); err != nil {
		return nil, http.StatusInternalServerError
	}
	if err := verifier.Ensure(); err != nil {
		return nil, http.StatusUnauthorized
	}
	return body, http.StatusOK
}

// HandleSlashCommand serves POST /slack/commands
func (h *Handler) HandleSlashCommand(w http.ResponseWriter, r *http.Request) {
	if _, status := h.verifiedBody(r); status != http.StatusOK {
		h.logger.Warn("Rejected slash command", zap.Int("status", status))
		w.WriteHeader(status)
		return
	}

	s, err := slack.SlashCommandParse(r)
	if err != nil {
		w.WriteHeader(http.StatusBadRequest)
		return
	}

	cmd := ParseCommand(s.Text)
	h.logger.Debug("Slash command",
		zap.String("user_id", s.UserID),
		zap.String("name", cmd.Name),
		zap.String("sub", cmd.Sub))

	reply := h.dispatch(r.Context(), cmd, s)

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(&slack.Msg{ResponseType: slack.ResponseTypeEphemeral, Text: reply}); err != nil {
		h.logger.Warn("Failed to write slash command response", zap.Error(err))
	}
}

func (h *Handler) dispatch(ctx context.Context, cmd Command, s slack.SlashCommand) string {
	switch cmd.Name {
	case "help":
		return helpText
	case "join":
		return h.join(ctx, cmd, s)
	case "log":
		return h.log(ctx, cmd, s)
	case "challenge":
		return h.challenge(ctx, cmd, s)
	case "status":
		return h.status(ctx, s)
	case "dayoff":
		return h.dayoff(ctx, cmd, s)
	case "mode":
		return h.mode(ctx, cmd, s)
	case "points":
		return h.points(ctx, cmd, s)
	}
	return fmt.Sprintf(":x: Unknown command `%s`. Try `/challenge help`.", cmd.Name)
}

func (h *Handler) join(ctx context.Context, cmd Command, s slack.SlashCommand) string {
	in := services.JoinInput{ID: s.UserID, DisplayName: s.UserName}
	for _, arg := range cmd.Args {
		switch lower := strings.ToLower(arg); lower {
		case "male", "female":
			in.Gender = lower
		case "disabled":
			in.Disabled = true
		default:
			in.Timezone = arg
		}
	}

	p, err := h.roster.Join(ctx, in, h.now())
	if err != nil {
		return errorReply(err)
	}
	return fmt.Sprintf(":white_check_mark: Welcome, %s! Your timezone is *%s*. Add a goal with `/challenge challenge add`.", p.DisplayName, p.Timezone)
}

func (h *Handler) log(ctx context.Context, cmd Command, s slack.SlashCommand) string {
	opts, positional := keyValues(cmd.Args)
	if len(positional) == 0 {
		return ":x: Usage: `/challenge log <amount> [bonus=N] [challenge=ID] [date=YYYY-MM-DD] [note]`"
	}

	amount, err := strconv.Atoi(positional[0])
	if err != nil {
		return ":x: Amount must be a whole number."
	}
	in := services.LogInput{
		ParticipantID: s.UserID,
		Amount:        amount,
		Day:           opts["date"],
		ChallengeID:   opts["challenge"],
		Note:          strings.Join(positional[1:], " "),
	}
	if b, ok := opts["bonus"]; ok {
		if in.Bonus, err = strconv.Atoi(b); err != nil {
			return ":x: Bonus must be a whole number."
		}
	}

	entry, err := h.logs.Record(ctx, in)
	if err != nil {
		return errorReply(err)
	}

	reply := fmt.Sprintf(":white_check_mark: Logged *%d* for %s", entry.Amount, entry.Date)
	if entry.Bonus > 0 {
		reply += fmt.Sprintf(" (+%d bonus)", entry.Bonus)
	}
	if entry.ChallengeID != "" {
		reply += fmt.Sprintf(" on `%s`", entry.ChallengeID)
	}
	return reply + "."
}

func (h *Handler) challenge(ctx context.Context, cmd Command, s slack.SlashCommand) string {
	switch cmd.Sub {
	case "add":
		if len(cmd.Args) < 2 {
			return ":x: Usage: `/challenge challenge add <type> <target> [unit] [default]`"
		}
		target, err := strconv.Atoi(cmd.Args[1])
		if err != nil {
			return ":x: Target must be a whole number."
		}
		in := services.AddChallengeInput{ParticipantID: s.UserID, Type: cmd.Args[0], DailyTarget: target}
		for _, extra := range cmd.Args[2:] {
			if strings.EqualFold(extra, "default") {
				in.SetDefault = true
			} else {
				in.Unit = extra
			}
		}
		ch, err := h.challenges.AddChallenge(ctx, in)
		if err != nil {
			return errorReply(err)
		}
		return fmt.Sprintf(":white_check_mark: Added *%s*: %d %s a day (`%s`).", ch.Type, ch.DailyTarget, ch.Unit, ch.ID)

	case "list", "":
		list, err := h.challenges.ListChallenges(ctx, s.UserID, true)
		if err != nil {
			return errorReply(err)
		}
		if len(list) == 0 {
			return "You have no active challenges; your day is judged on the default target."
		}
		p, _ := h.roster.Get(s.UserID)
		lines := []string{"*Your challenges:*"}
		for _, ch := range list {
			line := fmt.Sprintf("• `%s` %s: %d %s", ch.ID, ch.Type, ch.DailyTarget, ch.Unit)
			if ch.ID == p.DefaultChallengeID {
				line += " (default)"
			}
			lines = append(lines, line)
		}
		return strings.Join(lines, "\n")

	case "remove":
		if len(cmd.Args) != 1 {
			return ":x: Usage: `/challenge challenge remove <ID>`"
		}
		if err := h.challenges.RemoveChallenge(ctx, s.UserID, cmd.Args[0]); err != nil {
			return errorReply(err)
		}
		return fmt.Sprintf(":white_check_mark: Removed `%s`.", cmd.Args[0])

	case "default":
		if len(cmd.Args) != 1 {
			return ":x: Usage: `/challenge challenge default <ID|none>`"
		}
		id := cmd.Args[0]
		if strings.EqualFold(id, "none") {
			id = ""
		}
		if err := h.challenges.SetDefaultChallenge(ctx, s.UserID, id); err != nil {
			return errorReply(err)
		}
		if id == "" {
			return ":white_check_mark: Default challenge cleared."
		}
		return fmt.Sprintf(":white_check_mark: `%s` is now your default.", id)
	}
	return fmt.Sprintf(":x: Unknown challenge command `%s`.", cmd.Sub)
}

func (h *Handler) status(ctx context.Context, s slack.SlashCommand) string {
	p, ok := h.roster.Get(s.UserID)
	if !ok {
		return ":x: Use `/challenge join` first."
	}
	day := timezone.LocalDay(h.now(), p.Timezone)
	return report.Status(h.evaluator.EvaluateParticipant(ctx, p, day))
}

func (h *Handler) dayoff(ctx context.Context, cmd Command, s slack.SlashCommand) string {
	switch cmd.Sub {
	case "request":
		if len(cmd.Args) == 0 {
			return ":x: Usage: `/challenge dayoff request <YYYY-MM-DD> [reason]`"
		}
		p, ok := h.roster.Get(s.UserID)
		if !ok {
			return ":x: Use `/challenge join` first."
		}
		req, err := h.book.CreateRequest(ctx, p.ID, cmd.Args[0], strings.Join(cmd.Args[1:], " "), h.now().Add(h.cfg.VotingWindow))
		if err != nil {
			return errorReply(err)
		}
		h.announceRequest(ctx, req, p.DisplayName)
		return fmt.Sprintf(":white_check_mark: Day-off request created for *%s*.\nRequest ID: `%s`\nVote with reactions or `/challenge dayoff vote %s yes|no`.",
			req.TargetDay, req.ID, req.ID)

	case "vote":
		if len(cmd.Args) != 2 {
			return ":x: Usage: `/challenge dayoff vote <ID> <yes|no>`"
		}
		if err := h.book.RegisterVote(ctx, cmd.Args[0], s.UserID, cmd.Args[1]); err != nil {
			return errorReply(err)
		}
		return ":white_check_mark: Vote recorded."

	case "status":
		if len(cmd.Args) != 1 {
			return ":x: Usage: `/challenge dayoff status <ID>`"
		}
		state, err := h.book.State(cmd.Args[0])
		if err != nil {
			return errorReply(err)
		}
		return report.VoteStatus(state)
	}
	return fmt.Sprintf(":x: Unknown dayoff command `%s`.", cmd.Sub)
}

func (h *Handler) announceRequest(ctx context.Context, req model.DayOffRequest, requesterName string) {
	if h.cfg.DayOffChannel == "" || h.poster == nil {
		return
	}
	ref, err := h.poster.PostDayOffRequest(ctx, h.cfg.DayOffChannel, report.DayOffRequestText(req, requesterName))
	if err != nil {
		h.logger.Warn("Failed to post day-off request", zap.String("request_id", req.ID), zap.Error(err))
		return
	}
	if err := h.book.AttachMessage(req.ID, ref); err != nil {
		h.logger.Warn("Failed to link day-off message", zap.String("request_id", req.ID), zap.Error(err))
	}
}

func (h *Handler) mode(ctx context.Context, cmd Command, s slack.SlashCommand) string {
	if len(cmd.Args) == 0 {
		return fmt.Sprintf("Compliance mode: *%s* (points target %d)", h.settings.Mode(ctx), h.settings.PointsTarget(ctx))
	}
	if !h.isAdmin(s.UserID) {
		return ":x: Only admins can change the compliance mode."
	}
	if len(cmd.Args) != 2 || !strings.EqualFold(cmd.Args[0], "set") {
		return ":x: Usage: `/challenge mode set <strict|lenient|points>`"
	}
	mode, err := h.settings.SetMode(ctx, cmd.Args[1])
	if err != nil {
		return errorReply(err)
	}
	h.logger.Info("Compliance mode changed", zap.String("mode", string(mode)), zap.String("by", s.UserID))
	return fmt.Sprintf(":white_check_mark: Compliance mode set to *%s*.", mode)
}

func (h *Handler) points(ctx context.Context, cmd Command, s slack.SlashCommand) string {
	if !h.isAdmin(s.UserID) {
		return ":x: Only admins can change the points target."
	}
	if len(cmd.Args) != 1 {
		return ":x: Usage: `/challenge points <N>`"
	}
	n, err := strconv.Atoi(cmd.Args[0])
	if err != nil {
		return ":x: Points target must be a whole number."
	}
	target, err := h.settings.SetPointsTarget(ctx, n)
	if err != nil {
		return errorReply(err)
	}
	h.logger.Info("Points target changed", zap.Int("points_target", target), zap.String("by", s.UserID))
	return fmt.Sprintf(":white_check_mark: Points target set to *%d*.", target)
}

func (h *Handler) isAdmin(userID string) bool {
	return slices.Contains(h.cfg.AdminUserIDs, userID)
}

// errorReply turns a domain error into the message shown to the user
func errorReply(err error) string {
	switch {
	case errors.Is(err, services.ErrAlreadyJoined):
		return ":x: You've already joined."
	case errors.Is(err, services.ErrUnknownParticipant), errors.Is(err, dayoff.ErrUnknownRequester):
		return ":x: Use `/challenge join` first."
	case errors.Is(err, services.ErrInvalidGender):
		return ":x: Gender must be male or female."
	case errors.Is(err, services.ErrChallengeNotFound):
		return ":x: No challenge of yours has that ID."
	case errors.Is(err, services.ErrChallengeNotActive):
		return ":x: That challenge isn't active."
	case errors.Is(err, services.ErrInvalidChallenge):
		return ":x: A challenge needs a type (up to 32 characters), a target above zero and a unit of up to 16 characters."
	case errors.Is(err, services.ErrInvalidLog):
		return ":x: Amounts can't be negative and dates must look like 2025-01-31."
	case errors.Is(err, dayoff.ErrInvalidVote):
		return ":x: Vote must be yes or no."
	case errors.Is(err, dayoff.ErrRequestNotFound):
		return ":x: No day-off request has that ID."
	case errors.Is(err, dayoff.ErrVotingClosed):
		return ":x: Voting has closed for that request."
	case errors.Is(err, dayoff.ErrNotEligible):
		return ":x: You joined after that request was made, so you can't vote on it."
	case errors.Is(err, dayoff.ErrAlreadyVoted):
		return ":x: You've already voted on that request."
	case errors.Is(err, settings.ErrInvalidMode):
		return ":x: Mode must be strict, lenient or points."
	case errors.Is(err, settings.ErrInvalidPointsTarget):
		return ":x: Points target must be at least 1."
	}
	return ":x: " + err.Error()
}
