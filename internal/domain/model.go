package domain

import (
	"encoding/json"
	"math"
	"time"
)

// ChangedLineSet lists the changed line numbers of one file in hunk order.
// Duplicates from overlapping hunks are kept as-is.
type ChangedLineSet []int

// HitEntry is the hit count recorded for one source line. Valid is false when
// the line is not executable (a JSON null in the report).
type HitEntry struct {
	Hits  int
	Valid bool
}

// Hits returns a valid entry with the given count.
func Hits(n int) HitEntry { return HitEntry{Hits: n, Valid: true} }

// Absent returns an entry for a non-instrumented line.
func Absent() HitEntry { return HitEntry{} }

// UnmarshalJSON accepts integers; null and any non-integer marker decode as absent.
func (e *HitEntry) UnmarshalJSON(data []byte) error {
	var n *int
	if err := json.Unmarshal(data, &n); err != nil || n == nil {
		*e = HitEntry{}
		return nil
	}
	*e = HitEntry{Hits: *n, Valid: true}
	return nil
}

// MarshalJSON writes null for absent entries.
func (e HitEntry) MarshalJSON() ([]byte, error) {
	if !e.Valid {
		return []byte("null"), nil
	}
	return json.Marshal(e.Hits)
}

// FileCoverage is the per-file record of a coverage report.
type FileCoverage struct {
	Lines []HitEntry `json:"lines"`
}

// CoverageTable maps absolute file paths to their per-line hit entries.
type CoverageTable map[string]FileCoverage

// Lookup returns the hit entries for an absolute path.
func (t CoverageTable) Lookup(absPath string) ([]HitEntry, bool) {
	fc, ok := t[absPath]
	if !ok {
		return nil, false
	}
	return fc.Lines, true
}

// FileAnalysisResult is the classification of one file's changed lines.
type FileAnalysisResult struct {
	File           string `json:"file"`
	ChangedLines   int    `json:"changed_lines"`
	UncoveredLines []int  `json:"uncovered_lines"`
	CoveredCount   int    `json:"covered_count"`
	Untracked      bool   `json:"untracked,omitempty"`
	// NoCoverageData is set when the report has no record for the file at all.
	NoCoverageData bool `json:"no_coverage_data,omitempty"`
}

func (r FileAnalysisResult) UncoveredCount() int { return len(r.UncoveredLines) }

// NoDataCount is the number of changed lines that were out of range or not
// instrumented and therefore excluded from both tallies.
func (r FileAnalysisResult) NoDataCount() int {
	n := r.ChangedLines - r.CoveredCount - r.UncoveredCount()
	if n < 0 {
		return 0
	}
	return n
}

// AggregateStats holds the running totals of a run.
type AggregateStats struct {
	TotalChangedLines   int `json:"total_changed_lines"`
	CoveredChangedLines int `json:"covered_changed_lines"`
}

// Percent returns covered/total*100 rounded to two decimals, or 100 when
// nothing was counted.
func (s AggregateStats) Percent() float64 {
	if s.TotalChangedLines <= 0 {
		return 100
	}
	p := float64(s.CoveredChangedLines) / float64(s.TotalChangedLines) * 100
	return math.Round(p*100) / 100
}

// UncoveredFile lists the uncovered changed lines of one file.
type UncoveredFile struct {
	File  string `json:"file"`
	Lines []int  `json:"lines"`
}

// CheckResult is everything a run produced for reporting.
type CheckResult struct {
	Stats     AggregateStats       `json:"stats"`
	Files     []FileAnalysisResult `json:"files"`
	Uncovered []UncoveredFile      `json:"uncovered_files"`
}

// Passed reports whether no uncovered line was recorded.
func (r *CheckResult) Passed() bool { return len(r.Uncovered) == 0 }

// CoverageReport is the structured document emitted in json format.
type CoverageReport struct {
	TotalChangedLines   int             `json:"total_changed_lines"`
	CoveredChangedLines int             `json:"covered_changed_lines"`
	CoveragePercent     float64         `json:"coverage_percent"`
	UncoveredFiles      []UncoveredFile `json:"uncovered_files"`
}

// NewCoverageReport builds the structured document from a run result.
func NewCoverageReport(r *CheckResult) CoverageReport {
	files := make([]UncoveredFile, 0, len(r.Uncovered))
	files = append(files, r.Uncovered...)
	return CoverageReport{
		TotalChangedLines:   r.Stats.TotalChangedLines,
		CoveredChangedLines: r.Stats.CoveredChangedLines,
		CoveragePercent:     r.Stats.Percent(),
		UncoveredFiles:      files,
	}
}

// RunEntry is one recorded run in the project history.
type RunEntry struct {
	Timestamp           string  `json:"timestamp"`
	CommitHash          string  `json:"commit_hash,omitempty"`
	Base                string  `json:"base"`
	TotalChangedLines   int     `json:"total_changed_lines"`
	CoveredChangedLines int     `json:"covered_changed_lines"`
	CoveragePercent     float64 `json:"coverage_percent"`
	Passed              bool    `json:"passed"`
}

// NewRunEntry summarizes a finished run for the history log.
func NewRunEntry(r *CheckResult, base, commitHash string, at time.Time) RunEntry {
	return RunEntry{
		Timestamp:           at.Format(time.RFC3339),
		CommitHash:          commitHash,
		Base:                base,
		TotalChangedLines:   r.Stats.TotalChangedLines,
		CoveredChangedLines: r.Stats.CoveredChangedLines,
		CoveragePercent:     r.Stats.Percent(),
		Passed:              r.Passed(),
	}
}
