package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/speccloak/speccloak/internal/domain"
)

// RenderHistory renders recorded runs, oldest first, with the percentage delta
// against the previous run.
func RenderHistory(entries []domain.RunEntry) string {
	if len(entries) == 0 {
		return "  " + dimStyle.Render("No run history found.") + "\n"
	}

	var b strings.Builder
	b.WriteString("\n")
	b.WriteString("  " + titleStyle.Render("Coverage History") + "\n")
	b.WriteString("  " + faintStyle.Render(strings.Repeat("─", 50)) + "\n\n")

	for i, e := range entries {
		date := e.Timestamp
		if len(date) > 10 {
			date = date[:10]
		}
		hash := e.CommitHash
		if len(hash) > 7 {
			hash = hash[:7]
		}
		if hash == "" {
			hash = "·······"
		}

		percentStyled := lipgloss.NewStyle().
			Foreground(percentColor(e.CoveragePercent)).
			Render(FormatPercent(e.CoveragePercent))

		verdict := failStyle.Render("FAIL")
		if e.Passed {
			verdict = passStyle.Render("PASS")
		}

		line := fmt.Sprintf("  %s  %s  %s  %s  %s",
			dimStyle.Render(date),
			faintStyle.Render(hash),
			verdict,
			percentStyled,
			dimStyle.Render(fmt.Sprintf("%d/%d lines vs %s", e.CoveredChangedLines, e.TotalChangedLines, e.Base)),
		)

		if i > 0 {
			delta := e.CoveragePercent - entries[i-1].CoveragePercent
			if delta > 0 {
				line += "  " + passStyle.Render(fmt.Sprintf("↑%.2f", delta))
			} else if delta < 0 {
				line += "  " + failStyle.Render(fmt.Sprintf("↓%.2f", -delta))
			}
		}

		b.WriteString(line)
		b.WriteString("\n")
	}

	return b.String()
}
