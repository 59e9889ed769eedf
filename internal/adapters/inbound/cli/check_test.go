package cli_test

import (
	"bytes"
	"encoding/json"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"

	"github.com/speccloak/speccloak/internal/adapters/inbound/cli"
	"github.com/speccloak/speccloak/internal/application"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newProject creates a repository whose working tree changes lines 1-2 of
// a.rb relative to the "base" tag.
func newProject(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	runGit(t, dir, "init")
	runGit(t, dir, "config", "user.email", "test@test.com")
	runGit(t, dir, "config", "user.name", "Test")
	writeFile(t, dir, ".gitignore", "coverage/\n.speccloak/\n.speccloak.yml\n")
	writeFile(t, dir, "a.rb", "old1\nold2\nold3\n")
	runGit(t, dir, "add", ".")
	runGit(t, dir, "commit", "-m", "init")
	runGit(t, dir, "tag", "base")
	writeFile(t, dir, "a.rb", "def a\n  1\nend\n")
	return dir
}

func writeReport(t *testing.T, dir string, coverage map[string][]any) string {
	t.Helper()
	files := map[string]any{}
	for name, lines := range coverage {
		files[filepath.Join(dir, name)] = map[string]any{"lines": lines}
	}
	data, err := json.Marshal(map[string]any{"RSpec": map[string]any{"coverage": files}})
	require.NoError(t, err)

	writeFile(t, dir, "coverage/.resultset.json", string(data))
	return filepath.Join(dir, "coverage", ".resultset.json")
}

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	p := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(p), 0755))
	require.NoError(t, os.WriteFile(p, []byte(content), 0644))
}

func runGit(t *testing.T, dir string, args ...string) {
	t.Helper()
	cmd := exec.Command("git", args...)
	cmd.Dir = dir
	out, err := cmd.CombinedOutput()
	require.NoError(t, err, "git %v: %s", args, string(out))
}

func execute(t *testing.T, args ...string) (stdout, stderr string, err error) {
	t.Helper()
	cmd := cli.NewRootCmdForTest()
	out, errOut := new(bytes.Buffer), new(bytes.Buffer)
	cmd.SetOut(out)
	cmd.SetErr(errOut)
	cmd.SetArgs(args)
	err = cmd.Execute()
	return out.String(), errOut.String(), err
}

func TestCheck_JSON_UncoveredLineFails(t *testing.T) {
	dir := newProject(t)
	report := writeReport(t, dir, map[string][]any{"a.rb": {1, 0, 1}})

	stdout, _, err := execute(t, "--path", dir, "--base", "base", "--report", report, "--format", "json")
	require.ErrorIs(t, err, application.ErrCoverageFailed)

	var got struct {
		Total     int     `json:"total_changed_lines"`
		Covered   int     `json:"covered_changed_lines"`
		Percent   float64 `json:"coverage_percent"`
		Uncovered []struct {
			File  string `json:"file"`
			Lines []int  `json:"lines"`
		} `json:"uncovered_files"`
	}
	require.NoError(t, json.Unmarshal([]byte(stdout), &got), "stdout must be the JSON document only")
	assert.Equal(t, 2, got.Total)
	assert.Equal(t, 1, got.Covered)
	assert.Equal(t, 50.0, got.Percent)
	require.Len(t, got.Uncovered, 1)
	assert.Equal(t, "a.rb", got.Uncovered[0].File)
	assert.Equal(t, []int{2}, got.Uncovered[0].Lines)
}

func TestCheck_JSON_DiagnosticsAreJSONLines(t *testing.T) {
	dir := newProject(t)
	report := writeReport(t, dir, map[string][]any{"a.rb": {1, 1, 1}})

	_, stderr, err := execute(t, "--path", dir, "--base", "base", "--report", report, "--format", "json")
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(stderr), "\n")
	require.NotEmpty(t, lines)
	for _, line := range lines {
		var rec map[string]any
		require.NoError(t, json.Unmarshal([]byte(line), &rec), "not a JSON log line: %s", line)
		assert.Contains(t, rec, "msg")
	}
	assert.Contains(t, stderr, `"msg":"changed files"`)
}

func TestCheck_Text_DiagnosticsAreText(t *testing.T) {
	dir := newProject(t)
	report := writeReport(t, dir, map[string][]any{"a.rb": {1, 1, 1}})

	_, stderr, err := execute(t, "--path", dir, "--base", "base", "--report", report)
	require.NoError(t, err)
	assert.Contains(t, stderr, `msg="changed files"`)
}

func TestCheck_Text_AllCoveredPasses(t *testing.T) {
	dir := newProject(t)
	report := writeReport(t, dir, map[string][]any{"a.rb": {1, 3, nil}})

	stdout, _, err := execute(t, "--path", dir, "--base", "base", "--report", report)
	require.NoError(t, err)
	assert.Contains(t, stdout, "Total changed lines: 2")
	assert.Contains(t, stdout, "Coverage percentage: 100%")
	assert.Contains(t, stdout, "Coverage check passed")
}

func TestCheck_Text_ListsUncoveredSource(t *testing.T) {
	dir := newProject(t)
	report := writeReport(t, dir, map[string][]any{"a.rb": {1, 0, 1}})

	stdout, _, err := execute(t, "--path", dir, "--base", "base", "--report", report)
	require.Error(t, err)
	assert.Contains(t, stdout, "Line 2: 1\n")
	assert.Contains(t, stdout, "Coverage check failed")
}

func TestCheck_UntrackedFileCountsEveryLine(t *testing.T) {
	dir := newProject(t)
	writeFile(t, dir, "lib/new.rb", "a\nb\n")
	report := writeReport(t, dir, map[string][]any{
		"a.rb":       {1, 1, 1},
		"lib/new.rb": {0, 1},
	})

	stdout, _, err := execute(t, "--path", dir, "--base", "base", "--report", report, "--format", "json")
	require.Error(t, err)
	assert.Contains(t, stdout, `"file": "lib/new.rb"`)
	assert.Contains(t, stdout, `"total_changed_lines": 4`)
}

func TestCheck_ReportMissingFails(t *testing.T) {
	dir := newProject(t)

	stdout, _, err := execute(t, "--path", dir, "--base", "base", "--report", filepath.Join(dir, "nope.json"))
	require.ErrorIs(t, err, application.ErrCoverageFailed)
	assert.Contains(t, stdout, "Coverage file not found.")
	assert.NotContains(t, stdout, "BRANCH COVERAGE REPORT")
}

func TestCheck_NothingChangedSucceeds(t *testing.T) {
	dir := newProject(t)
	runGit(t, dir, "checkout", "--", "a.rb")
	report := writeReport(t, dir, map[string][]any{})

	stdout, _, err := execute(t, "--path", dir, "--base", "base", "--report", report)
	require.NoError(t, err)
	assert.Contains(t, stdout, "No files changed in this branch.")
	assert.NotContains(t, stdout, "Uncovered lines by file")
}

func TestCheck_NothingChanged_JSONKeepsStdoutClean(t *testing.T) {
	dir := newProject(t)
	runGit(t, dir, "checkout", "--", "a.rb")
	report := writeReport(t, dir, map[string][]any{})

	stdout, stderr, err := execute(t, "--path", dir, "--base", "base", "--report", report, "--format", "json")
	require.NoError(t, err)
	assert.Empty(t, stdout)
	assert.Contains(t, stderr, "No files changed in this branch.")
}

func TestCheck_ConfigFileSetsFormat(t *testing.T) {
	dir := newProject(t)
	report := writeReport(t, dir, map[string][]any{"a.rb": {1, 1, 1}})
	writeFile(t, dir, ".speccloak.yml", "base: base\nformat: json\n")

	stdout, _, err := execute(t, "--path", dir, "--report", report)
	require.NoError(t, err)
	assert.Contains(t, stdout, `"coverage_percent": 100`)
}

func TestCheck_InvalidFormat(t *testing.T) {
	_, _, err := execute(t, "--path", t.TempDir(), "--format", "xml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown format")
}

func TestCheck_EmptyBase(t *testing.T) {
	_, _, err := execute(t, "--path", t.TempDir(), "--base", "")
	require.Error(t, err)
}

func TestCheck_SaveHistoryThenShow(t *testing.T) {
	dir := newProject(t)
	report := writeReport(t, dir, map[string][]any{"a.rb": {1, 0, 1}})

	_, _, err := execute(t, "--path", dir, "--base", "base", "--report", report, "--save-history")
	require.Error(t, err)

	stdout, _, err := execute(t, "history", "--path", dir, "--json")
	require.NoError(t, err)

	var entries []map[string]any
	require.NoError(t, json.Unmarshal([]byte(stdout), &entries))
	require.Len(t, entries, 1)
	assert.Equal(t, "base", entries[0]["base"])
	assert.Equal(t, 50.0, entries[0]["coverage_percent"])
	assert.Equal(t, false, entries[0]["passed"])
	assert.Len(t, entries[0]["commit_hash"], 40)
}

func TestHistory_Empty(t *testing.T) {
	stdout, _, err := execute(t, "history", "--path", t.TempDir())
	require.NoError(t, err)
	assert.Contains(t, stdout, "No run history found.")
}

func TestVersion(t *testing.T) {
	stdout, _, err := execute(t, "version")
	require.NoError(t, err)
	assert.Contains(t, stdout, "speccloak dev")
}

func TestHelpExitsCleanly(t *testing.T) {
	stdout, _, err := execute(t, "--help")
	require.NoError(t, err)
	assert.Contains(t, stdout, "--base")
	assert.Contains(t, stdout, "--format")
	assert.Contains(t, stdout, "--exclude")
}
