// Package report renders run results in text or json form.
package report

import (
	"encoding/json"
	"fmt"
	"io"
	"path/filepath"

	"github.com/speccloak/speccloak/internal/adapters/outbound/tui"
	"github.com/speccloak/speccloak/internal/domain"
	"github.com/speccloak/speccloak/internal/domain/coverage"
)

// Reporter renders a run result and derives the exit status.
type Reporter struct {
	files       domain.FileReader
	projectPath string
}

func New(files domain.FileReader, projectPath string) *Reporter {
	return &Reporter{files: files, projectPath: projectPath}
}

// Render writes result to w in the given format. The status is failure when
// any uncovered line was recorded, for either format.
func (r *Reporter) Render(w io.Writer, result *domain.CheckResult, format string) (domain.Status, error) {
	status := domain.StatusSuccess
	if !result.Passed() {
		status = domain.StatusFailure
	}

	switch format {
	case domain.FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(domain.NewCoverageReport(result)); err != nil {
			return status, fmt.Errorf("encoding report: %w", err)
		}
	default:
		if _, err := fmt.Fprint(w, tui.RenderCoverageReport(result, r.sourceLines)); err != nil {
			return status, err
		}
	}

	return status, nil
}

// sourceLines reads a changed file for the narrative breakdown.
func (r *Reporter) sourceLines(file string) ([]string, bool) {
	data, err := r.files.ReadFile(filepath.Join(r.projectPath, file))
	if err != nil {
		return nil, false
	}
	return coverage.SplitLines(data), true
}
