package tui

import (
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// ── palette ──
var (
	accent  = lipgloss.Color("#D97706") // amber
	fg      = lipgloss.Color("#E8E6E3") // warm light gray
	dim     = lipgloss.Color("#6B7280") // muted gray
	faint   = lipgloss.Color("#3F3F46") // very dim
	success = lipgloss.Color("#22C55E") // green
	danger  = lipgloss.Color("#EF4444") // red
	warning = lipgloss.Color("#F59E0B") // amber-yellow
)

var (
	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(accent)

	boxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(accent).
			Padding(1, 4).
			Width(68)

	dimStyle      = lipgloss.NewStyle().Foreground(dim)
	faintStyle    = lipgloss.NewStyle().Foreground(faint)
	passStyle     = lipgloss.NewStyle().Foreground(success)
	failStyle     = lipgloss.NewStyle().Foreground(danger)
	lineTagStyle  = lipgloss.NewStyle().Foreground(danger).Bold(true)
	fileStyle     = lipgloss.NewStyle().Foreground(warning)
	titleStyle    = lipgloss.NewStyle().Bold(true).Foreground(fg)
	separatorLine = faintStyle.Render(strings.Repeat("─", 64))
)

// percentColor is green only at exactly 100%.
func percentColor(p float64) lipgloss.Color {
	if p == 100 {
		return success
	}
	return danger
}

// FormatPercent prints a percentage without trailing zeros: 50, 66.67, 100.
func FormatPercent(p float64) string {
	return strconv.FormatFloat(p, 'f', -1, 64) + "%"
}
