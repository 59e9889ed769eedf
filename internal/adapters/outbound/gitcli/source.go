package gitcli

import (
	"bufio"
	"context"
	"strconv"
	"strings"

	"github.com/speccloak/speccloak/internal/domain"
	"github.com/speccloak/speccloak/internal/logging"
)

const gitBin = "git"

// Source implements domain.ChangeSource on top of a CommandRunner.
// Command failures are logged and read as empty output.
type Source struct {
	runner domain.CommandRunner
	dir    string
	log    logging.Logger
}

func New(runner domain.CommandRunner, dir string, log logging.Logger) *Source {
	if log == nil {
		log = logging.Nop()
	}
	return &Source{runner: runner, dir: dir, log: log}
}

// ChangedFiles unions files modified relative to base with untracked files.
// Both lists are scoped to and relative to the source directory, which may be
// a subdirectory of the repository.
func (s *Source) ChangedFiles(ctx context.Context, base string) (*domain.ChangedFiles, error) {
	tracked := parsePaths(s.git(ctx, "diff", "--name-only", "--relative", base))
	untracked := parsePaths(s.git(ctx, "ls-files", "--others", "--exclude-standard"))

	result := &domain.ChangedFiles{}
	seen := make(map[string]bool, len(tracked)+len(untracked))
	for _, p := range tracked {
		if seen[p] {
			continue
		}
		seen[p] = true
		result.Paths = append(result.Paths, p)
	}
	for _, p := range untracked {
		if seen[p] {
			continue
		}
		seen[p] = true
		result.Paths = append(result.Paths, p)
		result.Untracked = append(result.Untracked, p)
	}
	return result, nil
}

// FileDiff returns the zero-context diff of path against base.
func (s *Source) FileDiff(ctx context.Context, base, path string) (string, error) {
	return s.git(ctx, "diff", "-U0", "--relative", base, "--", path), nil
}

func (s *Source) git(ctx context.Context, args ...string) string {
	out, err := s.runner.Run(ctx, s.dir, gitBin, args...)
	if err != nil {
		s.log.Warn("git command failed", "args", strings.Join(args, " "), "error", err)
		return ""
	}
	return out
}

// parsePaths splits git path output, unquoting C-style quoted names.
func parsePaths(output string) []string {
	var paths []string
	sc := bufio.NewScanner(strings.NewReader(output))
	for sc.Scan() {
		p := strings.TrimSpace(sc.Text())
		if p == "" {
			continue
		}
		if strings.HasPrefix(p, `"`) {
			if decoded, err := strconv.Unquote(p); err == nil {
				p = decoded
			}
		}
		paths = append(paths, p)
	}
	return paths
}
