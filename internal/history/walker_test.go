package history

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpen_InvalidPath(t *testing.T) {
	_, err := Open(t.TempDir())

	require.Error(t, err)
	var accessErr *RepositoryAccessError
	require.ErrorAs(t, err, &accessErr)
	assert.Contains(t, accessErr.Error(), "cannot access repository")
}

func TestWalker_Hashes_DeduplicatesAcrossBranches(t *testing.T) {
	repo, dir := initRepo(t, map[string]string{"main.go": "package main\n"})

	// Shared history plus one commit on each of two branches.
	commitFiles(t, repo, dir, map[string]string{"shared.go": "package main\n"}, "shared", time.Now())
	checkoutBranch(t, repo, "feature", true)
	commitFiles(t, repo, dir, map[string]string{"feat.go": "package main\n"}, "feature work", time.Now())
	checkoutBranch(t, repo, "master", false)
	commitFiles(t, repo, dir, map[string]string{"fix.go": "package main\n"}, "master work", time.Now())

	walker, err := Open(dir)
	require.NoError(t, err)

	hashes, warnings, err := walker.Hashes(context.Background(), Selector{})
	require.NoError(t, err)
	assert.Empty(t, warnings)

	// initial + shared + feature + master commit = 4 unique commits, even
	// though the first two are reachable from both branch heads.
	assert.Len(t, hashes, 4)

	seen := make(map[string]bool)
	for _, h := range hashes {
		assert.False(t, seen[h.String()], "hash %s appears twice", h)
		seen[h.String()] = true
	}
}

func TestWalker_Hashes_SingleRefSelector(t *testing.T) {
	repo, dir := initRepo(t, map[string]string{"main.go": "package main\n"})

	checkoutBranch(t, repo, "feature", true)
	commitFiles(t, repo, dir, map[string]string{"feat.go": "package main\n"}, "feature work", time.Now())
	checkoutBranch(t, repo, "master", false)

	walker, err := Open(dir)
	require.NoError(t, err)

	// master has only the initial commit.
	hashes, _, err := walker.Hashes(context.Background(), Selector{Ref: "master"})
	require.NoError(t, err)
	assert.Len(t, hashes, 1)

	hashes, _, err = walker.Hashes(context.Background(), Selector{Ref: "feature"})
	require.NoError(t, err)
	assert.Len(t, hashes, 2)
}

func TestWalker_Hashes_UnknownRef(t *testing.T) {
	_, dir := initRepo(t, map[string]string{"main.go": "package main\n"})

	walker, err := Open(dir)
	require.NoError(t, err)

	_, _, err = walker.Hashes(context.Background(), Selector{Ref: "no-such-branch"})
	var travErr *HistoryTraversalError
	require.ErrorAs(t, err, &travErr)
	assert.Equal(t, "no-such-branch", travErr.Ref)
}

func TestWalker_Resolve_RootCommitTouchesWholeTree(t *testing.T) {
	repo, dir := initRepo(t, map[string]string{
		"a.py":     "print('a')\n",
		"sub/b.py": "print('b')\n",
	})

	head, err := repo.Head()
	require.NoError(t, err)

	walker, err := Open(dir)
	require.NoError(t, err)

	commit, err := walker.Resolve(context.Background(), head.Hash())
	require.NoError(t, err)
	assert.Equal(t, 0, commit.Parents)
	assert.ElementsMatch(t, []string{"a.py", "sub/b.py"}, commit.Files)
}

func TestWalker_Resolve_DeleteCountsAsTouched(t *testing.T) {
	repo, dir := initRepo(t, map[string]string{"doomed.go": "package main\n"})

	hash := deleteFile(t, repo, dir, "doomed.go", "remove doomed")

	walker, err := Open(dir)
	require.NoError(t, err)

	commit, err := walker.Resolve(context.Background(), hash)
	require.NoError(t, err)
	assert.Equal(t, []string{"doomed.go"}, commit.Files)
}

func TestWalker_Resolve_RenameEdgeRecorded(t *testing.T) {
	repo, dir := initRepo(t, map[string]string{
		"old.go": "package main\n\nfunc Unchanged() {}\n",
	})

	hash := renameFile(t, repo, dir, "old.go", "new.go", "rename old to new")

	walker, err := Open(dir)
	require.NoError(t, err)
	walker.SetDetectRenames(true)

	commit, err := walker.Resolve(context.Background(), hash)
	require.NoError(t, err)
	assert.Equal(t, []string{"new.go"}, commit.Files)
	assert.Equal(t, map[string]string{"old.go": "new.go"}, commit.Renames)
}

func TestWalker_Resolve_WithoutRenameDetection(t *testing.T) {
	repo, dir := initRepo(t, map[string]string{
		"old.go": "package main\n\nfunc Unchanged() {}\n",
	})

	hash := renameFile(t, repo, dir, "old.go", "new.go", "rename old to new")

	walker, err := Open(dir)
	require.NoError(t, err)

	// Without rename detection the rename shows as delete + add: both
	// paths touched, no edge recorded.
	commit, err := walker.Resolve(context.Background(), hash)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"old.go", "new.go"}, commit.Files)
	assert.Empty(t, commit.Renames)
}
