// Package resultset resolves where the coverage report lives.
package resultset

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/speccloak/speccloak/internal/domain"
)

// FileName is the report file written by the coverage tool.
const FileName = ".resultset.json"

// Environment variables that select the CI layout.
const (
	EnvCI        = "CI"
	EnvJob       = "CIRCLE_JOB"
	EnvNodeIndex = "CIRCLE_NODE_INDEX"
)

// Locator implements domain.ReportLocator.
type Locator struct {
	lookupEnv func(string) (string, bool)
	override  string
}

// New creates a Locator reading the environment through lookupEnv.
// A non-empty override path replaces the environment-derived location.
func New(lookupEnv func(string) (string, bool), override string) *Locator {
	if lookupEnv == nil {
		lookupEnv = os.LookupEnv
	}
	return &Locator{lookupEnv: lookupEnv, override: override}
}

// Dir returns the report directory relative to the project root:
// tmp/coverage/<job>_<node> when CI is set, coverage otherwise.
func (l *Locator) Dir() string {
	if _, ok := l.lookupEnv(EnvCI); ok {
		job, _ := l.lookupEnv(EnvJob)
		node, _ := l.lookupEnv(EnvNodeIndex)
		return filepath.Join("tmp", "coverage", job+"_"+node)
	}
	return "coverage"
}

// Path returns the resolved report path without checking it exists.
func (l *Locator) Path(projectPath string) string {
	if l.override != "" {
		if filepath.IsAbs(l.override) {
			return l.override
		}
		return filepath.Join(projectPath, l.override)
	}
	return filepath.Join(projectPath, l.Dir(), FileName)
}

// Locate returns the report path, or an error wrapping domain.ErrReportNotFound.
func (l *Locator) Locate(projectPath string) (string, error) {
	p := l.Path(projectPath)
	info, err := os.Stat(p)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", fmt.Errorf("%w: %s", domain.ErrReportNotFound, p)
		}
		return "", fmt.Errorf("checking coverage report: %w", err)
	}
	if info.IsDir() {
		return "", fmt.Errorf("%w: %s is a directory", domain.ErrReportNotFound, p)
	}
	return p, nil
}
