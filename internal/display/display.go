// Package display renders snapshot summaries for the terminal.
package display

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/hjortnaes/scorecard/internal/engine"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#7C3AED")).
			Padding(0, 1)

	sectionStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#3B82F6")).
			MarginTop(1)

	undervaluedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#10B981")).Bold(true)
	fairStyle        = lipgloss.NewStyle().Foreground(lipgloss.Color("#F59E0B"))
	overvaluedStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#EF4444")).Bold(true)
	mutedStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("#6B7280"))
)

func assessmentStyle(assessment string) lipgloss.Style {
	switch assessment {
	case engine.AssessUndervalued:
		return undervaluedStyle
	case engine.AssessFair:
		return fairStyle
	case engine.AssessOvervalued:
		return overvaluedStyle
	default:
		return mutedStyle
	}
}

func fmtOpt(v *float64, decimals int) string {
	if v == nil {
		return "-"
	}
	return fmt.Sprintf("%.*f", decimals, *v)
}

// RenderSnapshot builds the terminal summary of one snapshot.
func RenderSnapshot(snap *engine.Snapshot) string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("Investing Scorecard"))
	b.WriteString(mutedStyle.Render(fmt.Sprintf("  generated %s, %d assets", snap.GeneratedAt, len(snap.Assets))))
	b.WriteString("\n")

	b.WriteString(sectionStyle.Render("Assessment summary"))
	b.WriteString("\n")
	b.WriteString(fmt.Sprintf("  %s  %s  %s  %s\n",
		undervaluedStyle.Render(fmt.Sprintf("undervalued %d", snap.Summary.Undervalued)),
		fairStyle.Render(fmt.Sprintf("fair %d", snap.Summary.Fair)),
		overvaluedStyle.Render(fmt.Sprintf("overvalued %d", snap.Summary.Overvalued)),
		mutedStyle.Render(fmt.Sprintf("n/a %d", snap.Summary.NA))))

	if len(snap.TopOpportunities) > 0 {
		b.WriteString(sectionStyle.Render("Top opportunities"))
		b.WriteString("\n")
		for i, row := range snap.TopOpportunities {
			label := assessmentStyle(row.Assessment).Render(row.Assessment)
			b.WriteString(fmt.Sprintf("  %2d. %-24s %-10s score %-5s grade %-3s price %-9s fair %-9s %s\n",
				i+1, row.Name, row.Ticker,
				fmtOpt(row.ScoreTotal, 1), row.Grade,
				fmtOpt(row.Price, 2), fmtOpt(row.FairPrice, 2), label))
		}
	}

	if len(snap.UpcomingEarnings) > 0 {
		b.WriteString(sectionStyle.Render("Upcoming earnings"))
		b.WriteString("\n")
		for _, entry := range snap.UpcomingEarnings {
			b.WriteString(fmt.Sprintf("  %-12s %-24s %s  %s\n",
				entry.Ticker, entry.Company, entry.NextEarningsISO,
				assessmentStyle(entry.Assessment).Render(entry.Assessment)))
		}
	}

	failed := 0
	for _, row := range snap.Assets {
		if row.Error != "" {
			failed++
		}
	}
	if failed > 0 {
		b.WriteString(mutedStyle.Render(fmt.Sprintf("\n%d asset(s) failed and carry placeholder rows\n", failed)))
	}

	return b.String()
}
