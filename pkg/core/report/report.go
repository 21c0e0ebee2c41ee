// Package report renders verdicts and vote states as chat-ready text
package report

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/TenaciousPub/Challenge/pkg/core/compliance"
	"github.com/TenaciousPub/Challenge/pkg/core/dayoff"
	"github.com/TenaciousPub/Challenge/pkg/core/model"
)

const maxListed = 15

// LeaderboardRow is one participant's standing for a day
type LeaderboardRow struct {
	ParticipantID string
	Name          string
	Compliant     bool
	Progress      string
}

// Leaderboard builds rows for every participant with a verdict, compliant first then by name
func Leaderboard(participants []model.Participant, verdicts map[string]compliance.Verdict) []LeaderboardRow {
	rows := make([]LeaderboardRow, 0, len(verdicts))
	for _, p := range participants {
		v, ok := verdicts[p.ID]
		if !ok {
			continue
		}
		rows = append(rows, LeaderboardRow{
			ParticipantID: p.ID,
			Name:          p.DisplayName,
			Compliant:     v.Compliant,
			Progress:      Progress(v),
		})
	}

	sort.SliceStable(rows, func(i, j int) bool {
		if rows[i].Compliant != rows[j].Compliant {
			return rows[i].Compliant
		}
		return rows[i].Name < rows[j].Name
	})
	return rows
}

// Progress summarises a verdict in a few characters
func Progress(v compliance.Verdict) string {
	if v.Mode == model.ModeLegacy && len(v.Met) > 0 {
		return fmt.Sprintf("%d/%d %s", v.Met[0].Done, v.Met[0].Target, v.Met[0].Unit)
	}
	return fmt.Sprintf("%d/%d", v.Points, v.PointsRequired)
}

// Status is the private reply to a participant asking how their day is going
func Status(v compliance.Verdict) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Today: *%s*\n", v.Day)

	if v.Mode == model.ModeLegacy && len(v.Met) > 0 {
		fmt.Fprintf(&b, "Done: *%d* / Target: *%d %s*\n", v.Met[0].Done, v.Met[0].Target, v.Met[0].Unit)
		fmt.Fprintf(&b, "Compliant: *%t*", v.Compliant)
		return b.String()
	}

	fmt.Fprintf(&b, "Mode: *%s*\n", v.Mode)
	fmt.Fprintf(&b, "Progress: *%d / %d*\n", v.Points, v.PointsRequired)
	fmt.Fprintf(&b, "Compliant: *%t*\n", v.Compliant)
	b.WriteString("Missing:\n")
	b.WriteString(MissingLines(v.Missing, "None :tada:"))
	return b.String()
}

// MissingLines lists up to five unmet targets
func MissingLines(missing []compliance.ChallengeResult, none string) string {
	if len(missing) == 0 {
		return none
	}
	lines := make([]string, 0, 5)
	for i, m := range missing {
		if i == 5 {
			break
		}
		line := fmt.Sprintf("• %s: need %d %s", m.Type, m.Need, m.Unit)
		if m.ChallengeID != "" {
			line += fmt.Sprintf(" (`%s`)", m.ChallengeID)
		}
		lines = append(lines, line)
	}
	return strings.Join(lines, "\n")
}

// LeaderboardText is the daily channel post
func LeaderboardText(day time.Time, rows []LeaderboardRow, cohortSize int, footer string) string {
	compliant := 0
	for _, r := range rows {
		if r.Compliant {
			compliant++
		}
	}
	rate := 0
	if len(rows) > 0 {
		rate = compliant * 100 / len(rows)
	}

	icon := ":bar_chart:"
	switch {
	case rate >= 80:
		icon = ":fire:"
	case rate >= 50:
		icon = ":muscle:"
	}

	var b strings.Builder
	fmt.Fprintf(&b, ":trophy: *Daily Challenge Leaderboard*\n*%s*\n\n", day.Format("Monday, January 02, 2006"))
	fmt.Fprintf(&b, "%s *Today's Performance:* %d/%d compliant (%d%%)\n\n", icon, compliant, len(rows), rate)

	var done, pending []string
	for _, r := range rows {
		if r.Compliant {
			done = append(done, fmt.Sprintf(":white_check_mark: *%s* (%s)", r.Name, r.Progress))
		} else {
			pending = append(pending, fmt.Sprintf(":x: %s (%s)", r.Name, r.Progress))
		}
	}
	if len(done) > 0 {
		b.WriteString("*Crushing It Today*\n")
		b.WriteString(truncatedList(done))
		b.WriteString("\n\n")
	}
	if len(pending) > 0 {
		b.WriteString("*Still Time Left*\n")
		b.WriteString(truncatedList(pending))
		b.WriteString("\n\n")
	}

	fmt.Fprintf(&b, "*Total Participants:* %d\n*Active Today:* %d\nUse `/challenge status` to check your progress!", cohortSize, len(rows))
	if footer != "" {
		b.WriteString("\n_" + footer + "_")
	}
	return b.String()
}

func truncatedList(lines []string) string {
	if len(lines) <= maxListed {
		return strings.Join(lines, "\n")
	}
	return strings.Join(lines[:maxListed], "\n") + fmt.Sprintf("\n... and %d more", len(lines)-maxListed)
}

// VoteStatus is the one-line summary of a day-off vote
func VoteStatus(s dayoff.VoteState) string {
	return fmt.Sprintf("Request `%s`: *%s* (yes %d / no %d / total %d, threshold %d)",
		s.RequestID, s.State, s.Yes, s.No, s.Total, s.Threshold)
}

// DayOffRequestText is the channel post voters react to
func DayOffRequestText(req model.DayOffRequest, requesterName string) string {
	var b strings.Builder
	fmt.Fprintf(&b, ":palm_tree: *Day-off request* `%s`\n", req.ID)
	fmt.Fprintf(&b, "%s asks for *%s* off", requesterName, req.TargetDay)
	if req.Reason != "" {
		fmt.Fprintf(&b, ": %s", req.Reason)
	}
	fmt.Fprintf(&b, "\nReact :white_check_mark: for yes or :x: for no before %s.", req.Deadline.UTC().Format("Jan 02 15:04 MST"))
	return b.String()
}

// DayOffResult announces a finished vote
func DayOffResult(a dayoff.Announcement) string {
	if a.State.State == dayoff.StateApproved {
		return fmt.Sprintf(":tada: Day off on *%s* approved (yes %d / no %d). Enjoy the rest!",
			a.Request.TargetDay, a.State.Yes, a.State.No)
	}
	return fmt.Sprintf(":no_entry: Day off on *%s* rejected (yes %d / no %d). Business as usual!",
		a.Request.TargetDay, a.State.Yes, a.State.No)
}

// PunishmentDM tells a participant they missed yesterday and what to do about it
func PunishmentDM(v compliance.Verdict, workout string) string {
	return ":smiling_imp: You missed your goal yesterday.\n\n" +
		MissingLines(v.Missing, "• You missed your goal.") +
		"\n\nHere's your punishment workout:\n*" + workout + "*"
}

// PunishmentAnnouncement is the public channel notice
func PunishmentAnnouncement(participantID, workout string) string {
	return fmt.Sprintf(":smiling_imp: *Punishment Assigned*\n\n<@%s> missed their goal yesterday.\n\n*Punishment Workout:*\n%s\n\n:muscle: Time to make up for it!",
		participantID, workout)
}
