// Package gitcli discovers changed files by running the git binary.
package gitcli

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"
)

// ExecRunner implements domain.CommandRunner with os/exec.
type ExecRunner struct{}

func NewExecRunner() *ExecRunner {
	return &ExecRunner{}
}

// Run executes name with args in dir and returns stdout. On failure the error
// carries stderr, or stdout when stderr is empty.
func (e *ExecRunner) Run(ctx context.Context, dir, name string, args ...string) (string, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	if strings.TrimSpace(dir) != "" {
		cmd.Dir = dir
	}
	var out, errb bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &errb
	if err := cmd.Run(); err != nil {
		msg := strings.TrimSpace(errb.String())
		if msg == "" {
			msg = strings.TrimSpace(out.String())
		}
		if msg == "" {
			msg = err.Error()
		}
		return "", fmt.Errorf("%s %s: %s", name, subcommand(args), msg)
	}
	return out.String(), nil
}

// subcommand keeps only the leading subcommand so paths and refs stay out of errors.
func subcommand(args []string) string {
	if len(args) == 0 {
		return ""
	}
	return args[0]
}
