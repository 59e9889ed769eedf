package coverage

import "github.com/speccloak/speccloak/internal/domain"

// Aggregator accumulates per-file results into run totals.
type Aggregator struct {
	stats     domain.AggregateStats
	files     []domain.FileAnalysisResult
	uncovered []domain.UncoveredFile
}

func NewAggregator() *Aggregator {
	return &Aggregator{}
}

// Add folds one analyzed file into the totals.
func (a *Aggregator) Add(r domain.FileAnalysisResult) {
	a.stats.TotalChangedLines += r.UncoveredCount() + r.CoveredCount
	a.stats.CoveredChangedLines += r.CoveredCount
	a.files = append(a.files, r)

	if len(r.UncoveredLines) > 0 {
		lines := make([]int, len(r.UncoveredLines))
		copy(lines, r.UncoveredLines)
		a.uncovered = append(a.uncovered, domain.UncoveredFile{File: r.File, Lines: lines})
	}
}

// AddMissing records a file the report has no entry for: every changed line
// counts as uncovered.
func (a *Aggregator) AddMissing(file string, changed domain.ChangedLineSet, untracked bool) domain.FileAnalysisResult {
	lines := make([]int, len(changed))
	copy(lines, changed)

	r := domain.FileAnalysisResult{
		File:           file,
		ChangedLines:   len(changed),
		UncoveredLines: lines,
		Untracked:      untracked,
		NoCoverageData: true,
	}
	a.Add(r)
	return r
}

// Stats returns the running totals.
func (a *Aggregator) Stats() domain.AggregateStats { return a.stats }

// Result returns a snapshot of everything accumulated so far.
func (a *Aggregator) Result() *domain.CheckResult {
	files := make([]domain.FileAnalysisResult, len(a.files))
	copy(files, a.files)
	uncovered := make([]domain.UncoveredFile, len(a.uncovered))
	copy(uncovered, a.uncovered)

	return &domain.CheckResult{
		Stats:     a.stats,
		Files:     files,
		Uncovered: uncovered,
	}
}
