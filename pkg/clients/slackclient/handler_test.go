package slackclient

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/slack-go/slack"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/TenaciousPub/Challenge/pkg/core/compliance"
	"github.com/TenaciousPub/Challenge/pkg/core/dayoff"
	"github.com/TenaciousPub/Challenge/pkg/core/model"
	"github.com/TenaciousPub/Challenge/pkg/core/services"
	"github.com/TenaciousPub/Challenge/pkg/core/settings"
)

const testSecret = "test-signing-secret"

type fakeRoster struct {
	participants map[string]model.Participant
	joined       []services.JoinInput
}

func (f *fakeRoster) Get(id string) (model.Participant, bool) {
	p, ok := f.participants[id]
	return p, ok
}

func (f *fakeRoster) List() []model.Participant {
	var out []model.Participant
	for _, p := range f.participants {
		out = append(out, p)
	}
	return out
}

func (f *fakeRoster) Join(ctx context.Context, in services.JoinInput, now time.Time) (model.Participant, error) {
	if _, ok := f.participants[in.ID]; ok {
		return model.Participant{}, services.ErrAlreadyJoined
	}
	f.joined = append(f.joined, in)
	p := model.Participant{ID: in.ID, DisplayName: in.DisplayName, Timezone: "America/Los_Angeles"}
	f.participants[in.ID] = p
	return p, nil
}

type fakeChallenges struct{ added []services.AddChallengeInput }

func (f *fakeChallenges) AddChallenge(ctx context.Context, in services.AddChallengeInput) (model.Challenge, error) {
	f.added = append(f.added, in)
	return model.Challenge{ID: "c_1", Type: in.Type, DailyTarget: in.DailyTarget, Unit: "reps"}, nil
}

func (f *fakeChallenges) ListChallenges(ctx context.Context, participantID string, activeOnly bool) ([]model.Challenge, error) {
	return nil, nil
}

func (f *fakeChallenges) RemoveChallenge(ctx context.Context, participantID, challengeID string) error {
	return services.ErrChallengeNotFound
}

func (f *fakeChallenges) SetDefaultChallenge(ctx context.Context, participantID, challengeID string) error {
	return nil
}

type fakeLogBook struct{ recorded []services.LogInput }

func (f *fakeLogBook) Record(ctx context.Context, in services.LogInput) (model.LogEntry, error) {
	f.recorded = append(f.recorded, in)
	return model.LogEntry{Date: "2025-03-03", Amount: in.Amount, Bonus: in.Bonus, ChallengeID: in.ChallengeID}, nil
}

type fakeEvaluator struct{}

func (fakeEvaluator) EvaluateParticipant(ctx context.Context, p model.Participant, day string) compliance.Verdict {
	return compliance.Verdict{Day: day, Mode: model.ModeLenient, Points: 1, PointsRequired: 1, Compliant: true}
}

type fakeSettings struct{ mode model.ComplianceMode }

func (f *fakeSettings) Mode(ctx context.Context) model.ComplianceMode { return f.mode }
func (f *fakeSettings) PointsTarget(ctx context.Context) int          { return 1 }

func (f *fakeSettings) SetMode(ctx context.Context, raw string) (model.ComplianceMode, error) {
	m, ok := model.ParseComplianceMode(raw)
	if !ok {
		return "", settings.ErrInvalidMode
	}
	f.mode = m
	return m, nil
}

func (f *fakeSettings) SetPointsTarget(ctx context.Context, n int) (int, error) {
	return n, nil
}

type nopSink struct{}

func (nopSink) PersistNewRequest(ctx context.Context, req model.DayOffRequest) error { return nil }
func (nopSink) PersistBallotUpdate(ctx context.Context, req model.DayOffRequest, b model.Ballot) error {
	return nil
}
func (nopSink) LoadAllRequests(ctx context.Context) (map[string]*model.DayOffRequest, error) {
	return nil, nil
}

type fakePoster struct{ texts []string }

func (f *fakePoster) PostDayOffRequest(ctx context.Context, channelID, text string) (string, error) {
	f.texts = append(f.texts, text)
	return MessageRef(channelID, "111.222"), nil
}

type handlerFixture struct {
	handler    *Handler
	roster     *fakeRoster
	challenges *fakeChallenges
	logs       *fakeLogBook
	settings   *fakeSettings
	book       *dayoff.Book
	poster     *fakePoster
}

func newHandlerFixture() *handlerFixture {
	now := time.Date(2025, 3, 3, 18, 0, 0, 0, time.UTC)
	f := &handlerFixture{
		roster: &fakeRoster{participants: map[string]model.Participant{
			"U1": {ID: "U1", DisplayName: "ana", Timezone: "Etc/UTC"},
			"U2": {ID: "U2", DisplayName: "bo", Timezone: "Etc/UTC"},
		}},
		challenges: &fakeChallenges{},
		logs:       &fakeLogBook{},
		settings:   &fakeSettings{mode: model.ModeStrict},
		poster:     &fakePoster{},
	}
	f.book = dayoff.NewBook(f.roster, nopSink{}, zap.NewNop(),
		dayoff.WithClock(func() time.Time { return now }),
		dayoff.WithIDGenerator(func() string { return "DOR-TEST" }))
	f.handler = NewHandler(HandlerConfig{
		SigningSecret: testSecret,
		AdminUserIDs:  []string{"U1"},
		DayOffChannel: "C-dayoff",
		VotingWindow:  12 * time.Hour,
	}, f.roster, f.challenges, f.logs, fakeEvaluator{}, f.settings, f.book, f.poster, zap.NewNop())
	f.handler.now = func() time.Time { return now }
	return f
}

func sign(req *http.Request, body string) {
	ts := strconv.FormatInt(time.Now().Unix(), 10)
	mac := hmac.New(sha256.New, []byte(testSecret))
	mac.Write([]byte(fmt.Sprintf("v0:%s:%s", ts, body)))
	req.Header.Set("X-Slack-Request-Timestamp", ts)
	req.Header.Set("X-Slack-Signature", "v0="+hex.EncodeToString(mac.Sum(nil)))
}

func slashRequest(userID, text string) *http.Request {
	body := url.Values{
		"command":   {"/challenge"},
		"text":      {text},
		"user_id":   {userID},
		"user_name": {"user-" + userID},
	}.Encode()
	req := httptest.NewRequest(http.MethodPost, "/slack/commands", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	sign(req, body)
	return req
}

func runSlash(t *testing.T, f *handlerFixture, userID, text string) string {
	t.Helper()
	rec := httptest.NewRecorder()
	f.handler.HandleSlashCommand(rec, slashRequest(userID, text))
	require.Equal(t, http.StatusOK, rec.Code)

	var msg slack.Msg
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&msg))
	assert.Equal(t, slack.ResponseTypeEphemeral, msg.ResponseType)
	return msg.Text
}

func TestHandleSlashCommand_RejectsBadSignature(t *testing.T) {
	f := newHandlerFixture()
	req := slashRequest("U1", "status")
	req.Header.Set("X-Slack-Signature", "v0=deadbeef")

	rec := httptest.NewRecorder()
	f.handler.HandleSlashCommand(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestHandleSlashCommand_Join(t *testing.T) {
	f := newHandlerFixture()

	reply := runSlash(t, f, "U9", "join female Europe/London disabled")
	assert.Contains(t, reply, "Welcome, user-U9!")
	require.Len(t, f.roster.joined, 1)
	assert.Equal(t, services.JoinInput{ID: "U9", DisplayName: "user-U9", Gender: "female", Timezone: "Europe/London", Disabled: true}, f.roster.joined[0])

	assert.Equal(t, ":x: You've already joined.", runSlash(t, f, "U9", "join"))
}

func TestHandleSlashCommand_Log(t *testing.T) {
	f := newHandlerFixture()

	reply := runSlash(t, f, "U1", "log 40 bonus=5 challenge=c_1 after work")
	assert.Equal(t, ":white_check_mark: Logged *40* for 2025-03-03 (+5 bonus) on `c_1`.", reply)
	assert.Equal(t, services.LogInput{ParticipantID: "U1", Amount: 40, Bonus: 5, ChallengeID: "c_1", Note: "after work"}, f.logs.recorded[0])

	assert.Equal(t, ":x: Amount must be a whole number.", runSlash(t, f, "U1", "log lots"))
}

func TestHandleSlashCommand_Challenge(t *testing.T) {
	f := newHandlerFixture()

	reply := runSlash(t, f, "U1", "challenge add squats 30 default")
	assert.Contains(t, reply, "Added *squats*: 30 reps a day")
	assert.True(t, f.challenges.added[0].SetDefault)

	assert.Equal(t, ":x: No challenge of yours has that ID.", runSlash(t, f, "U1", "challenge remove c_9"))
	assert.Contains(t, runSlash(t, f, "U1", "challenge list"), "no active challenges")
}

func TestHandleSlashCommand_Status(t *testing.T) {
	f := newHandlerFixture()

	assert.Contains(t, runSlash(t, f, "U1", "status"), "Today: *2025-03-03*")
	assert.Equal(t, ":x: Use `/challenge join` first.", runSlash(t, f, "U7", "status"))
}

func TestHandleSlashCommand_AdminOnly(t *testing.T) {
	f := newHandlerFixture()

	assert.Equal(t, ":x: Only admins can change the compliance mode.", runSlash(t, f, "U2", "mode set points"))
	assert.Equal(t, model.ModeStrict, f.settings.mode)

	assert.Equal(t, ":white_check_mark: Compliance mode set to *points*.", runSlash(t, f, "U1", "mode set points"))
	assert.Equal(t, ":x: Mode must be strict, lenient or points.", runSlash(t, f, "U1", "mode set chaos"))
	assert.Contains(t, runSlash(t, f, "U2", "mode"), "Compliance mode: *points*")

	assert.Equal(t, ":x: Only admins can change the points target.", runSlash(t, f, "U2", "points 3"))
	assert.Equal(t, ":white_check_mark: Points target set to *3*.", runSlash(t, f, "U1", "points 3"))
}

func TestHandleSlashCommand_DayOff(t *testing.T) {
	f := newHandlerFixture()

	reply := runSlash(t, f, "U1", "dayoff request 2025-03-08 team hike")
	assert.Contains(t, reply, "Request ID: `DOR-TEST`")
	require.Len(t, f.poster.texts, 1)
	assert.Contains(t, f.poster.texts[0], "team hike")

	id, ok := f.book.RequestForMessage(MessageRef("C-dayoff", "111.222"))
	require.True(t, ok)
	assert.Equal(t, "DOR-TEST", id)

	assert.Equal(t, ":x: Vote must be yes or no.", runSlash(t, f, "U2", "dayoff vote DOR-TEST maybe"))
	assert.Equal(t, ":white_check_mark: Vote recorded.", runSlash(t, f, "U2", "dayoff vote DOR-TEST no"))
	assert.Equal(t, ":x: You've already voted on that request.", runSlash(t, f, "U2", "dayoff vote DOR-TEST yes"))
	assert.Equal(t, ":x: No day-off request has that ID.", runSlash(t, f, "U2", "dayoff vote DOR-NOPE yes"))

	assert.Equal(t, "Request `DOR-TEST`: *open* (yes 1 / no 1 / total 2, threshold 3)", runSlash(t, f, "U2", "dayoff status DOR-TEST"))
}

func eventRequest(payload string) *http.Request {
	req := httptest.NewRequest(http.MethodPost, "/slack/events", strings.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	sign(req, payload)
	return req
}

func TestHandleEvents_URLVerification(t *testing.T) {
	f := newHandlerFixture()
	rec := httptest.NewRecorder()

	f.handler.HandleEvents(rec, eventRequest(`{"type":"url_verification","token":"t","challenge":"abc123"}`))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "abc123", rec.Body.String())
}

func TestHandleEvents_ReactionVotes(t *testing.T) {
	f := newHandlerFixture()
	runSlash(t, f, "U1", "dayoff request 2025-03-08")

	reaction := func(kind, name string) string {
		return fmt.Sprintf(`{"type":"event_callback","token":"t","team_id":"T1","event":{"type":"%s","user":"U2","reaction":"%s","item":{"type":"message","channel":"C-dayoff","ts":"111.222"},"event_ts":"1.0"}}`, kind, name)
	}

	rec := httptest.NewRecorder()
	f.handler.HandleEvents(rec, eventRequest(reaction("reaction_added", "white_check_mark")))
	assert.Equal(t, http.StatusOK, rec.Code)

	ballot, err := f.book.Ballot("DOR-TEST", "U2")
	require.NoError(t, err)
	assert.Equal(t, model.VoteYes, ballot.Vote)

	f.handler.HandleEvents(httptest.NewRecorder(), eventRequest(reaction("reaction_added", "x")))
	ballot, _ = f.book.Ballot("DOR-TEST", "U2")
	assert.Equal(t, model.VoteNo, ballot.Vote)

	f.handler.HandleEvents(httptest.NewRecorder(), eventRequest(reaction("reaction_removed", "x")))
	ballot, _ = f.book.Ballot("DOR-TEST", "U2")
	assert.Equal(t, model.VotePending, ballot.Vote)
}
