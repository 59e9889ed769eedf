package coverage

import (
	"bytes"
	"strings"

	"github.com/speccloak/speccloak/internal/domain"
)

// Analyze classifies each changed line against the file's hit entries.
// Line n maps to hits[n-1]. Lines outside the table or not instrumented are
// counted in neither tally.
func Analyze(file string, hits []domain.HitEntry, changed domain.ChangedLineSet) domain.FileAnalysisResult {
	result := domain.FileAnalysisResult{
		File:           file,
		ChangedLines:   len(changed),
		UncoveredLines: []int{},
	}

	for _, n := range changed {
		if n < 1 || n > len(hits) {
			continue
		}
		entry := hits[n-1]
		if !entry.Valid {
			continue
		}
		switch {
		case entry.Hits == 0:
			result.UncoveredLines = append(result.UncoveredLines, n)
		case entry.Hits > 0:
			result.CoveredCount++
		}
	}

	return result
}

// AllLines returns 1..n, the changed-line set of a file that is entirely new.
func AllLines(n int) domain.ChangedLineSet {
	lines := make(domain.ChangedLineSet, 0, n)
	for i := 1; i <= n; i++ {
		lines = append(lines, i)
	}
	return lines
}

// CountLines returns the number of lines in data. A final line without a
// trailing newline still counts.
func CountLines(data []byte) int {
	if len(data) == 0 {
		return 0
	}
	n := bytes.Count(data, []byte{'\n'})
	if data[len(data)-1] != '\n' {
		n++
	}
	return n
}

// SplitLines returns the lines of data without their line terminators.
// len(SplitLines(data)) == CountLines(data).
func SplitLines(data []byte) []string {
	if len(data) == 0 {
		return nil
	}
	lines := strings.Split(strings.TrimSuffix(string(data), "\n"), "\n")
	for i, l := range lines {
		lines[i] = strings.TrimSuffix(l, "\r")
	}
	return lines
}
