package domain

import "context"

// CommandRunner executes an external command in dir and returns its stdout.
type CommandRunner interface {
	Run(ctx context.Context, dir, name string, args ...string) (string, error)
}

// FileReader reads a file's full contents.
type FileReader interface {
	ReadFile(path string) ([]byte, error)
}

// ChangeSource discovers changed files and their diffs relative to a base reference.
type ChangeSource interface {
	// ChangedFiles returns tracked-then-untracked paths, deduplicated in first-seen order.
	ChangedFiles(ctx context.Context, base string) (*ChangedFiles, error)
	// FileDiff returns the zero-context unified diff of one file against base.
	FileDiff(ctx context.Context, base, path string) (string, error)
}

// ChangedFiles is the ordered result of change discovery.
type ChangedFiles struct {
	Paths     []string `json:"paths"`
	Untracked []string `json:"untracked,omitempty"`
}

// IsUntracked reports whether path was discovered as an untracked file.
func (c *ChangedFiles) IsUntracked(path string) bool {
	for _, p := range c.Untracked {
		if p == path {
			return true
		}
	}
	return false
}

// Empty reports whether nothing changed.
func (c *ChangedFiles) Empty() bool { return c == nil || len(c.Paths) == 0 }

// ReportLocator resolves the path of the coverage report.
type ReportLocator interface {
	Locate(projectPath string) (string, error)
}

// ConfigLoader loads project configuration.
type ConfigLoader interface {
	Load(projectPath string) (Config, error)
}

// GitInfo provides repository facts.
type GitInfo interface {
	IsGitRepo(projectPath string) bool
	CommitHash(projectPath string) (string, error)
	HasRevision(projectPath, rev string) bool
}

// RunHistory persists run entries.
type RunHistory interface {
	Save(projectPath string, entry RunEntry) error
	Load(projectPath string) ([]RunEntry, error)
}
