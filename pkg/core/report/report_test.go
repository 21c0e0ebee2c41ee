package report

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/TenaciousPub/Challenge/pkg/core/compliance"
	"github.com/TenaciousPub/Challenge/pkg/core/dayoff"
	"github.com/TenaciousPub/Challenge/pkg/core/model"
)

func TestLeaderboard_SortsCompliantFirst(t *testing.T) {
	participants := []model.Participant{
		{ID: "U1", DisplayName: "Zed"},
		{ID: "U2", DisplayName: "Amy"},
		{ID: "U3", DisplayName: "Bob"},
		{ID: "U4", DisplayName: "Ghost"},
	}
	verdicts := map[string]compliance.Verdict{
		"U1": {Mode: model.ModeStrict, Compliant: true, Points: 2, PointsRequired: 2},
		"U2": {Mode: model.ModeStrict, Points: 1, PointsRequired: 2},
		"U3": {Mode: model.ModeLegacy, Compliant: true, Met: []compliance.ChallengeResult{{Done: 210, Target: 200, Unit: "reps"}}},
	}

	rows := Leaderboard(participants, verdicts)
	require.Len(t, rows, 3)

	assert.Equal(t, []string{"Bob", "Zed", "Amy"}, []string{rows[0].Name, rows[1].Name, rows[2].Name})
	assert.Equal(t, "210/200 reps", rows[0].Progress)
	assert.Equal(t, "2/2", rows[1].Progress)
	assert.False(t, rows[2].Compliant)
}

func TestStatus(t *testing.T) {
	legacy := compliance.Verdict{
		Day:  "2025-03-03",
		Mode: model.ModeLegacy,
		Met:  []compliance.ChallengeResult{{Done: 80, Target: 100, Unit: "reps"}},
	}
	assert.Equal(t, "Today: *2025-03-03*\nDone: *80* / Target: *100 reps*\nCompliant: *false*", Status(legacy))

	multi := compliance.Verdict{
		Day:            "2025-03-03",
		Mode:           model.ModePoints,
		Points:         1,
		PointsRequired: 2,
		Missing:        []compliance.ChallengeResult{{ChallengeID: "c_1", Type: "squats", Need: 20, Unit: "reps"}},
	}
	out := Status(multi)
	assert.Contains(t, out, "Mode: *points*")
	assert.Contains(t, out, "Progress: *1 / 2*")
	assert.Contains(t, out, "• squats: need 20 reps (`c_1`)")
}

func TestMissingLines_CapsAtFive(t *testing.T) {
	var missing []compliance.ChallengeResult
	for i := 0; i < 7; i++ {
		missing = append(missing, compliance.ChallengeResult{Type: fmt.Sprintf("t%d", i), Need: i, Unit: "reps"})
	}

	out := MissingLines(missing, "none")
	assert.Len(t, strings.Split(out, "\n"), 5)
	assert.Equal(t, "none", MissingLines(nil, "none"))
}

func TestLeaderboardText(t *testing.T) {
	day := time.Date(2025, 3, 3, 20, 0, 0, 0, time.UTC)
	rows := []LeaderboardRow{
		{Name: "Amy", Compliant: true, Progress: "2/2"},
		{Name: "Bob", Progress: "0/2"},
	}

	out := LeaderboardText(day, rows, 4, "Consistency beats perfection!")
	assert.Contains(t, out, "Monday, March 03, 2025")
	assert.Contains(t, out, ":muscle: *Today's Performance:* 1/2 compliant (50%)")
	assert.Contains(t, out, ":white_check_mark: *Amy* (2/2)")
	assert.Contains(t, out, ":x: Bob (0/2)")
	assert.Contains(t, out, "*Total Participants:* 4")
	assert.True(t, strings.HasSuffix(out, "_Consistency beats perfection!_"))
}

func TestLeaderboardText_Truncates(t *testing.T) {
	var rows []LeaderboardRow
	for i := 0; i < 18; i++ {
		rows = append(rows, LeaderboardRow{Name: fmt.Sprintf("p%02d", i), Compliant: true})
	}
	out := LeaderboardText(time.Now(), rows, 18, "")
	assert.Contains(t, out, "... and 3 more")
	assert.Contains(t, out, ":fire:")
}

func TestDayOffResult(t *testing.T) {
	req := model.DayOffRequest{ID: "DOR-1", TargetDay: "2025-03-08"}

	approved := DayOffResult(dayoff.Announcement{Request: req, State: dayoff.VoteState{State: dayoff.StateApproved, Yes: 3}})
	assert.Contains(t, approved, "approved (yes 3 / no 0)")

	rejected := DayOffResult(dayoff.Announcement{Request: req, State: dayoff.VoteState{State: dayoff.StateRejected, Yes: 1, No: 3}})
	assert.Contains(t, rejected, "rejected (yes 1 / no 3)")
}

func TestVoteStatus(t *testing.T) {
	s := dayoff.VoteState{RequestID: "DOR-1", State: dayoff.StateOpen, Yes: 2, No: 1, Total: 5, Threshold: 3}
	assert.Equal(t, "Request `DOR-1`: *open* (yes 2 / no 1 / total 5, threshold 3)", VoteStatus(s))
}

func TestPunishmentText(t *testing.T) {
	dm := PunishmentDM(compliance.Verdict{}, "100 burpees")
	assert.Contains(t, dm, "• You missed your goal.")
	assert.Contains(t, dm, "*100 burpees*")

	assert.Contains(t, PunishmentAnnouncement("U1", "plank"), "<@U1> missed their goal yesterday.")
}
