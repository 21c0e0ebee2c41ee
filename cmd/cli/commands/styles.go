package commands

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/TenaciousPub/Challenge/pkg/core/compliance"
	"github.com/TenaciousPub/Challenge/pkg/core/report"
)

const (
	colorGood = lipgloss.Color("#3FB950")
	colorFair = lipgloss.Color("#D29922")
	colorPoor = lipgloss.Color("#F85149")
	colorDim  = lipgloss.Color("#888888")
)

var (
	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#5B8DEF"))
	successStyle = lipgloss.NewStyle().Foreground(colorGood)
	failStyle    = lipgloss.NewStyle().Foreground(colorPoor)
	dimStyle     = lipgloss.NewStyle().Foreground(colorDim)
	cellStyle    = lipgloss.NewStyle().PaddingRight(2)
	boxStyle     = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#444444")).
			Padding(0, 1)
)

func success(format string, args ...interface{}) {
	fmt.Println(successStyle.Render("✓ " + fmt.Sprintf(format, args...)))
}

// rateColor picks a colour for a compliance rate: above 80% good, 50% or more fair, otherwise poor
func rateColor(compliant, total int, good, fair, poor lipgloss.Color) lipgloss.Color {
	if total == 0 {
		return poor
	}
	rate := float64(compliant) / float64(total)
	switch {
	case rate > 0.8:
		return good
	case rate >= 0.5:
		return fair
	default:
		return poor
	}
}

func yesNo(ok bool) string {
	if ok {
		return successStyle.Render("yes")
	}
	return failStyle.Render("no")
}

// renderLeaderboard draws the day's standings as an aligned table
func renderLeaderboard(day string, rows []report.LeaderboardRow) string {
	compliant := 0
	nameWidth := len("Participant")
	for _, r := range rows {
		if r.Compliant {
			compliant++
		}
		nameWidth = max(nameWidth, lipgloss.Width(r.Name))
	}

	var b strings.Builder
	rateStyle := lipgloss.NewStyle().Bold(true).Foreground(rateColor(compliant, len(rows), colorGood, colorFair, colorPoor))
	b.WriteString(titleStyle.Render("Leaderboard "+day) + "  " + rateStyle.Render(fmt.Sprintf("%d/%d compliant", compliant, len(rows))) + "\n\n")

	nameCol := cellStyle.Width(nameWidth + 2)
	b.WriteString(dimStyle.Render(nameCol.Render("Participant")+cellStyle.Width(11).Render("Compliant")+"Progress") + "\n")
	for _, r := range rows {
		b.WriteString(nameCol.Render(r.Name) + cellStyle.Width(11).Render(yesNo(r.Compliant)) + r.Progress + "\n")
	}
	if len(rows) == 0 {
		b.WriteString(dimStyle.Render("No participants yet.") + "\n")
	}
	return b.String()
}

// renderVerdict is the terminal counterpart of the chat status reply
func renderVerdict(name string, v compliance.Verdict) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s  %s\n", titleStyle.Render(name), dimStyle.Render(v.Day+" · "+string(v.Mode)))
	fmt.Fprintf(&b, "Compliant: %s  Progress: %s\n", yesNo(v.Compliant), report.Progress(v))

	for _, m := range v.Met {
		fmt.Fprintf(&b, "  %s %s %d/%d %s\n", successStyle.Render("✓"), m.Type, m.Done, m.Target, m.Unit)
	}
	for _, m := range v.Missing {
		fmt.Fprintf(&b, "  %s %s %d/%d %s (need %d more)\n", failStyle.Render("✗"), m.Type, m.Done, m.Target, m.Unit, m.Need)
	}
	return boxStyle.Render(strings.TrimRight(b.String(), "\n"))
}
