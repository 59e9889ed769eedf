package gitcli_test

import (
	"context"
	"testing"

	"github.com/speccloak/speccloak/internal/adapters/outbound/gitcli"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExecRunner_Success(t *testing.T) {
	dir := t.TempDir()
	r := gitcli.NewExecRunner()

	_, err := r.Run(context.Background(), dir, "git", "init")
	require.NoError(t, err)

	out, err := r.Run(context.Background(), dir, "git", "ls-files", "--others", "--exclude-standard")
	require.NoError(t, err)
	assert.Empty(t, out)
}

func TestExecRunner_FailureCarriesStderr(t *testing.T) {
	dir := t.TempDir()
	r := gitcli.NewExecRunner()

	_, err := r.Run(context.Background(), dir, "git", "diff", "--name-only", "origin/main")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "git diff")
	assert.Contains(t, err.Error(), "origin/main")
}
