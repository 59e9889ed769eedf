package coverage_test

import (
	"testing"

	"github.com/speccloak/speccloak/internal/domain"
	"github.com/speccloak/speccloak/internal/domain/coverage"
	"github.com/stretchr/testify/assert"
)

func TestAggregator_AccumulatesTotals(t *testing.T) {
	agg := coverage.NewAggregator()
	agg.Add(domain.FileAnalysisResult{File: "a.rb", ChangedLines: 5, UncoveredLines: []int{2, 4}, CoveredCount: 2})
	agg.Add(domain.FileAnalysisResult{File: "b.rb", ChangedLines: 3, UncoveredLines: []int{}, CoveredCount: 3})

	stats := agg.Stats()
	assert.Equal(t, 7, stats.TotalChangedLines)
	assert.Equal(t, 5, stats.CoveredChangedLines)

	result := agg.Result()
	assert.Len(t, result.Files, 2)
	assert.Equal(t, []domain.UncoveredFile{{File: "a.rb", Lines: []int{2, 4}}}, result.Uncovered)
	assert.False(t, result.Passed())
}

func TestAggregator_AddMissingCountsAllLinesUncovered(t *testing.T) {
	agg := coverage.NewAggregator()
	r := agg.AddMissing("lib/new.rb", domain.ChangedLineSet{1, 2, 3}, true)

	assert.True(t, r.NoCoverageData)
	assert.True(t, r.Untracked)
	assert.Equal(t, domain.AggregateStats{TotalChangedLines: 3, CoveredChangedLines: 0}, agg.Stats())
	assert.Equal(t, []domain.UncoveredFile{{File: "lib/new.rb", Lines: []int{1, 2, 3}}}, agg.Result().Uncovered)
}

func TestAggregator_Empty(t *testing.T) {
	result := coverage.NewAggregator().Result()
	assert.True(t, result.Passed())
	assert.Equal(t, 100.0, result.Stats.Percent())
}

func TestAggregator_ResultIsSnapshot(t *testing.T) {
	agg := coverage.NewAggregator()
	agg.Add(domain.FileAnalysisResult{File: "a.rb", ChangedLines: 1, UncoveredLines: []int{1}})
	first := agg.Result()
	agg.Add(domain.FileAnalysisResult{File: "b.rb", ChangedLines: 1, UncoveredLines: []int{1}})

	assert.Len(t, first.Uncovered, 1)
	assert.Len(t, agg.Result().Uncovered, 2)
}
