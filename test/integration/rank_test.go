// Package integration contains end-to-end tests for fixcache.
//
// These tests build the fixcache binary and exercise it against temporary
// git repositories, verifying the plain and JSON output formats and the
// documented exit codes.
package integration

import (
	"encoding/json"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
	"time"

	gogit "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// repoRoot returns the fixcache repository root directory.
func repoRoot(t *testing.T) string {
	t.Helper()
	_, thisFile, _, ok := runtime.Caller(0)
	require.True(t, ok, "runtime.Caller failed")
	// test/integration/rank_test.go -> repo root
	return filepath.Dir(filepath.Dir(filepath.Dir(thisFile)))
}

// buildBinary compiles fixcache into a temp directory.
func buildBinary(t *testing.T) string {
	t.Helper()
	binary := filepath.Join(t.TempDir(), "fixcache-test")
	cmd := exec.Command("go", "build", "-o", binary, "./cmd/fixcache") //nolint:gosec // test helper
	cmd.Dir = repoRoot(t)
	out, err := cmd.CombinedOutput()
	require.NoError(t, err, "go build failed:\n%s", out)
	return binary
}

// fixtureRepo creates a git repository whose history touches a.py twice
// and b.py twice, so both files score 0.5.
func fixtureRepo(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	repo, err := gogit.PlainInit(dir, false)
	require.NoError(t, err)
	wt, err := repo.Worktree()
	require.NoError(t, err)

	commit := func(files map[string]string, msg string) {
		for rel, content := range files {
			require.NoError(t, os.WriteFile(filepath.Join(dir, rel), []byte(content), 0o600))
			_, err := wt.Add(rel)
			require.NoError(t, err)
		}
		sig := &object.Signature{Name: "Test", Email: "test@example.com", When: time.Now()}
		_, err := wt.Commit(msg, &gogit.CommitOptions{Author: sig, Committer: sig})
		require.NoError(t, err)
	}

	commit(map[string]string{"a.py": "print(1)\n"}, "add a")
	commit(map[string]string{"a.py": "print(2)\n", "b.py": "print(1)\n"}, "touch a and b")
	commit(map[string]string{"b.py": "print(2)\n"}, "touch b")
	return dir
}

func TestRank_PlainFormat(t *testing.T) {
	binary := buildBinary(t)
	fixture := fixtureRepo(t)

	cmd := exec.Command(binary, "rank", fixture, "--format", "plain", "--quiet") //nolint:gosec // test helper
	stdout, err := cmd.Output()
	require.NoError(t, err, "fixcache rank failed")

	assert.Equal(t,
		"Top 10 files most likely to contain defects:\n"+
			"1. a.py (Score: 0.5000)\n"+
			"2. b.py (Score: 0.5000)\n",
		string(stdout))
}

func TestRank_JSONFormat(t *testing.T) {
	binary := buildBinary(t)
	fixture := fixtureRepo(t)

	cmd := exec.Command(binary, "rank", fixture, "--format", "json", "--quiet") //nolint:gosec // test helper
	stdout, err := cmd.Output()
	require.NoError(t, err, "fixcache rank failed")

	var out struct {
		RunID       string `json:"run_id"`
		CommitCount int    `json:"commit_count"`
		FileCount   int    `json:"file_count"`
		Partial     bool   `json:"partial"`
		Entries     []struct {
			Rank  int     `json:"rank"`
			Path  string  `json:"path"`
			Score float64 `json:"score"`
		} `json:"entries"`
	}
	require.NoError(t, json.Unmarshal(stdout, &out), "invalid JSON:\n%s", stdout)

	assert.NotEmpty(t, out.RunID)
	assert.Equal(t, 3, out.CommitCount)
	assert.Equal(t, 2, out.FileCount)
	assert.False(t, out.Partial)
	require.Len(t, out.Entries, 2)
	assert.Equal(t, "a.py", out.Entries[0].Path)
	assert.InDelta(t, 0.5, out.Entries[0].Score, 1e-9)
}

func TestRank_TopNFlag(t *testing.T) {
	binary := buildBinary(t)
	fixture := fixtureRepo(t)

	cmd := exec.Command(binary, "rank", fixture, "-n", "1", "--format", "plain", "--quiet") //nolint:gosec // test helper
	stdout, err := cmd.Output()
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(string(stdout)), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, "Top 1 files most likely to contain defects:", lines[0])
	assert.Equal(t, "1. a.py (Score: 0.5000)", lines[1])
}

func TestRank_InvalidPathExitCode(t *testing.T) {
	binary := buildBinary(t)

	cmd := exec.Command(binary, "rank", filepath.Join(t.TempDir(), "absent"), "--quiet") //nolint:gosec // test helper
	err := cmd.Run()

	var exitErr *exec.ExitError
	require.ErrorAs(t, err, &exitErr)
	assert.Equal(t, 1, exitErr.ExitCode())
}

func TestRank_NotARepositoryExitCode(t *testing.T) {
	binary := buildBinary(t)

	cmd := exec.Command(binary, "rank", t.TempDir(), "--quiet") //nolint:gosec // test helper
	err := cmd.Run()

	var exitErr *exec.ExitError
	require.ErrorAs(t, err, &exitErr)
	assert.Equal(t, 1, exitErr.ExitCode())
}

func TestVersion(t *testing.T) {
	binary := buildBinary(t)

	cmd := exec.Command(binary, "version") //nolint:gosec // test helper
	stdout, err := cmd.Output()
	require.NoError(t, err)
	assert.Contains(t, string(stdout), "fixcache")
}
