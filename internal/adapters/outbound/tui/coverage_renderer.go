package tui

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/olekukonko/tablewriter"
	"github.com/speccloak/speccloak/internal/domain"
)

// SourceLines returns the current lines of a changed file, or false when the
// file cannot be read.
type SourceLines func(file string) ([]string, bool)

// RenderCoverageReport renders the narrative report: summary, per-file table,
// uncovered line breakdown and the pass/fail verdict.
func RenderCoverageReport(result *domain.CheckResult, source SourceLines) string {
	var b strings.Builder

	// Summary
	percent := result.Stats.Percent()
	percentStyled := lipgloss.NewStyle().
		Bold(true).
		Foreground(percentColor(percent)).
		Render(FormatPercent(percent))

	summary := strings.Join([]string{
		headerStyle.Render("BRANCH COVERAGE REPORT SUMMARY"),
		"",
		fmt.Sprintf("Total changed lines: %d", result.Stats.TotalChangedLines),
		fmt.Sprintf("Covered changed lines: %d", result.Stats.CoveredChangedLines),
		"Coverage percentage: " + percentStyled,
	}, "\n")
	b.WriteString(boxStyle.Render(summary))
	b.WriteString("\n")

	if len(result.Files) > 0 {
		b.WriteString("\n")
		b.WriteString(renderFileTable(result.Files))
	}

	if !result.Passed() {
		renderUncovered(&b, result.Uncovered, source)
		b.WriteString("\n")
		b.WriteString(failStyle.Render("Coverage check failed: Above lines are not covered by specs."))
	} else {
		b.WriteString("\n")
		b.WriteString(passStyle.Render("Coverage check passed: All changed lines are covered by tests."))
	}
	b.WriteString("\n")

	return b.String()
}

func renderFileTable(files []domain.FileAnalysisResult) string {
	var buf bytes.Buffer

	table := tablewriter.NewWriter(&buf)
	table.SetHeader([]string{"File", "Changed", "Covered", "Uncovered", "No data"})
	table.SetBorder(false)
	table.SetCenterSeparator("")
	table.SetAutoWrapText(false)
	table.SetColumnAlignment([]int{
		tablewriter.ALIGN_LEFT, tablewriter.ALIGN_RIGHT, tablewriter.ALIGN_RIGHT,
		tablewriter.ALIGN_RIGHT, tablewriter.ALIGN_RIGHT,
	})

	for _, f := range files {
		name := f.File
		switch {
		case f.NoCoverageData:
			name += " (no coverage data)"
		case f.Untracked:
			name += " (new)"
		}
		table.Append([]string{
			name,
			strconv.Itoa(f.ChangedLines),
			strconv.Itoa(f.CoveredCount),
			strconv.Itoa(f.UncoveredCount()),
			strconv.Itoa(f.NoDataCount()),
		})
	}

	table.Render()
	return buf.String()
}

func renderUncovered(b *strings.Builder, files []domain.UncoveredFile, source SourceLines) {
	b.WriteString("\n")
	b.WriteString(titleStyle.Render("Uncovered lines by file:"))
	b.WriteString("\n")
	b.WriteString(separatorLine)
	b.WriteString("\n")

	for _, f := range files {
		b.WriteString(fileStyle.Render(f.File) + ":\n")

		lines, ok := source(f.File)
		for _, n := range f.Lines {
			tag := lineTagStyle.Render(fmt.Sprintf("Line %d", n))
			switch {
			case !ok:
				b.WriteString(tag + " not covered by tests\n")
			case n >= 1 && n <= len(lines):
				b.WriteString(tag + ": " + strings.TrimSpace(lines[n-1]) + "\n")
			default:
				b.WriteString("  " + tag + ": " + dimStyle.Render("(line not found in file)") + "\n")
			}
		}
	}
}
