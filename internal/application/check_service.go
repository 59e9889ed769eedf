package application

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/speccloak/speccloak/internal/domain"
	"github.com/speccloak/speccloak/internal/domain/coverage"
	"github.com/speccloak/speccloak/internal/domain/diff"
	"github.com/speccloak/speccloak/internal/logging"
)

// Messages of the early-stop outcomes.
const (
	MsgReportNotFound   = "Coverage file not found."
	MsgReportUnreadable = "Coverage file could not be read."
	MsgNothingChanged = "No files changed in this branch."
)

// CheckService orchestrates the coverage check pipeline:
// locate report -> discover changed files -> analyze each file -> aggregate.
// Rendering the result is left to Reporter.
type CheckService struct {
	source    domain.ChangeSource
	locator   domain.ReportLocator
	files     domain.FileReader
	log       logging.Logger
	lookupEnv func(string) (string, bool)
}

func NewCheckService(
	source domain.ChangeSource,
	locator domain.ReportLocator,
	files domain.FileReader,
	log logging.Logger,
	lookupEnv func(string) (string, bool),
) *CheckService {
	if log == nil {
		log = logging.Nop()
	}
	return &CheckService{
		source:    source,
		locator:   locator,
		files:     files,
		log:       log,
		lookupEnv: lookupEnv,
	}
}

// CheckRun is the outcome of one pipeline run. Stopped is set when a stage
// ended the run before analysis; Result is then empty.
type CheckRun struct {
	ReportPath string
	Changed    *domain.ChangedFiles
	Result     *domain.CheckResult
	Stopped    *domain.Outcome
	// Aborted is set when a malformed report cut analysis short.
	Aborted bool
}

// Run executes the pipeline for the project rooted at projectPath.
func (s *CheckService) Run(ctx context.Context, projectPath string, cfg domain.Config) (*CheckRun, error) {
	exclusions, err := domain.NewExclusionPatternSet(s.lookupEnv, cfg.Exclude)
	if err != nil {
		return nil, err
	}
	s.log.Debug("exclusion patterns", "patterns", exclusions.Patterns(), "applied", cfg.ApplyExclusions)

	run := &CheckRun{Result: coverage.NewAggregator().Result()}

	// 1. Locate report
	reportPath, stop := s.locateReport(projectPath)
	if stop != nil {
		run.Stopped = stop
		return run, nil
	}
	run.ReportPath = reportPath

	// 2. Discover changed files
	changed, stop := s.discoverFiles(ctx, cfg, exclusions)
	if stop != nil {
		run.Stopped = stop
		return run, nil
	}
	run.Changed = changed

	// 3. Analyze
	agg, aborted, stop := s.analyzeFiles(ctx, projectPath, cfg, changed, reportPath)
	if stop != nil {
		run.Stopped = stop
		return run, nil
	}
	run.Result = agg.Result()
	run.Aborted = aborted

	return run, nil
}

func (s *CheckService) locateReport(projectPath string) (string, *domain.Outcome) {
	p, err := s.locator.Locate(projectPath)
	if err != nil {
		s.log.Error("coverage file not found", "error", err)
		return "", domain.Fail(MsgReportNotFound)
	}
	s.log.Debug("coverage report located", "path", p)
	return p, nil
}

func (s *CheckService) discoverFiles(ctx context.Context, cfg domain.Config, exclusions *domain.ExclusionPatternSet) (*domain.ChangedFiles, *domain.Outcome) {
	changed, err := s.source.ChangedFiles(ctx, cfg.Base)
	if err != nil {
		s.log.Warn("discovering changed files", "error", err)
		changed = &domain.ChangedFiles{}
	}

	if cfg.ApplyExclusions && !changed.Empty() {
		changed = &domain.ChangedFiles{
			Paths:     exclusions.Filter(changed.Paths),
			Untracked: exclusions.Filter(changed.Untracked),
		}
	}

	if changed.Empty() {
		return nil, domain.Succeed(MsgNothingChanged)
	}

	s.log.Info("changed files", "count", len(changed.Paths), "files", strings.Join(changed.Paths, ","))
	return changed, nil
}

// analyzeFiles returns the accumulated totals and whether a malformed report
// aborted the stage. A report that cannot be read stops the run as a failure.
func (s *CheckService) analyzeFiles(ctx context.Context, projectPath string, cfg domain.Config, changed *domain.ChangedFiles, reportPath string) (*coverage.Aggregator, bool, *domain.Outcome) {
	agg := coverage.NewAggregator()

	raw, err := s.files.ReadFile(reportPath)
	if err != nil {
		s.log.Error("error reading coverage file", "path", reportPath, "error", err)
		return agg, false, domain.Fail(MsgReportUnreadable)
	}

	table, err := coverage.ExtractTable(raw, cfg.Sections)
	if err != nil {
		s.log.Error("error parsing coverage file", "path", reportPath, "error", err)
		return agg, true, nil
	}

	for _, file := range changed.Paths {
		s.analyzeFile(ctx, projectPath, cfg.Base, file, changed.IsUntracked(file), table, agg)
	}

	return agg, false, nil
}

func (s *CheckService) analyzeFile(
	ctx context.Context,
	projectPath, base, file string,
	untracked bool,
	table domain.CoverageTable,
	agg *coverage.Aggregator,
) {
	lines := s.ChangedLines(ctx, projectPath, base, file, untracked)
	if len(lines) == 0 {
		return
	}
	s.log.Info("analyzing file", "file", file, "changed_lines", joinInts(lines))

	absPath, err := filepath.Abs(filepath.Join(projectPath, file))
	if err != nil {
		absPath = filepath.Join(projectPath, file)
	}

	hits, ok := table.Lookup(absPath)
	if !ok {
		s.log.Warn("no coverage data found for this file", "file", file)
		agg.AddMissing(file, lines, untracked)
		return
	}

	result := coverage.Analyze(file, hits, lines)
	result.Untracked = untracked
	agg.Add(result)

	if len(result.UncoveredLines) == 0 {
		s.log.Info("all changed lines are covered", "file", file)
		return
	}
	s.log.Info("uncovered lines", "file", file, "lines", joinInts(result.UncoveredLines))
}

// ChangedLines returns the changed-line set of one file: every line for an
// untracked file, the diff hunks otherwise.
func (s *CheckService) ChangedLines(ctx context.Context, projectPath, base, file string, untracked bool) domain.ChangedLineSet {
	if untracked {
		data, err := s.files.ReadFile(filepath.Join(projectPath, file))
		if err != nil {
			s.log.Warn("reading untracked file", "file", file, "error", err)
			return nil
		}
		return coverage.AllLines(coverage.CountLines(data))
	}

	out, err := s.source.FileDiff(ctx, base, file)
	if err != nil {
		s.log.Warn("diffing file", "file", file, "error", err)
		return nil
	}
	return diff.ParseChangedLines(out)
}

// ErrCoverageFailed is returned to the caller when a run ends in failure.
var ErrCoverageFailed = errors.New("coverage check failed")

// Failure converts a failed run into an error for the process exit path.
func Failure(run *CheckRun, status domain.Status) error {
	if status != domain.StatusFailure {
		return nil
	}
	if run.Stopped != nil {
		return fmt.Errorf("%w: %s", ErrCoverageFailed, run.Stopped.Message)
	}
	n := 0
	for _, f := range run.Result.Uncovered {
		n += len(f.Lines)
	}
	return fmt.Errorf("%w: %d uncovered changed lines", ErrCoverageFailed, n)
}

func joinInts(ns []int) string {
	parts := make([]string, len(ns))
	for i, n := range ns {
		parts[i] = strconv.Itoa(n)
	}
	return strings.Join(parts, ", ")
}
