package history

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	gogit "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/stretchr/testify/require"
)

// testAuthor returns a default git signature for test commits.
func testAuthor(when time.Time) *object.Signature {
	return &object.Signature{
		Name:  "Test Author",
		Email: "test@example.com",
		When:  when,
	}
}

// initRepo creates a go-git repository in a temp directory with an initial
// commit containing the given files.
func initRepo(t *testing.T, files map[string]string) (*gogit.Repository, string) {
	t.Helper()
	dir := t.TempDir()

	repo, err := gogit.PlainInit(dir, false)
	require.NoError(t, err)

	commitFiles(t, repo, dir, files, "initial commit", time.Now())
	return repo, dir
}

// commitFiles writes and stages the given files, then commits them with
// the given message and timestamp.
func commitFiles(t *testing.T, repo *gogit.Repository, dir string, files map[string]string, msg string, when time.Time) plumbing.Hash {
	t.Helper()
	wt, err := repo.Worktree()
	require.NoError(t, err)

	for relPath, content := range files {
		absPath := filepath.Join(dir, relPath)
		require.NoError(t, os.MkdirAll(filepath.Dir(absPath), 0o750))
		require.NoError(t, os.WriteFile(absPath, []byte(content), 0o600))
		_, err := wt.Add(relPath)
		require.NoError(t, err)
	}

	hash, err := wt.Commit(msg, &gogit.CommitOptions{
		Author:    testAuthor(when),
		Committer: testAuthor(when),
	})
	require.NoError(t, err)
	return hash
}

// deleteFile removes a file from the worktree and commits the deletion.
func deleteFile(t *testing.T, repo *gogit.Repository, dir, relPath, msg string) plumbing.Hash {
	t.Helper()
	wt, err := repo.Worktree()
	require.NoError(t, err)

	_, err = wt.Remove(relPath)
	require.NoError(t, err)

	hash, err := wt.Commit(msg, &gogit.CommitOptions{
		Author:    testAuthor(time.Now()),
		Committer: testAuthor(time.Now()),
	})
	require.NoError(t, err)
	return hash
}

// renameFile moves a file in the worktree and commits the rename.
func renameFile(t *testing.T, repo *gogit.Repository, dir, from, to, msg string) plumbing.Hash {
	t.Helper()
	wt, err := repo.Worktree()
	require.NoError(t, err)

	require.NoError(t, os.MkdirAll(filepath.Dir(filepath.Join(dir, to)), 0o750))
	require.NoError(t, os.Rename(filepath.Join(dir, from), filepath.Join(dir, to)))
	_, err = wt.Remove(from)
	require.NoError(t, err)
	_, err = wt.Add(to)
	require.NoError(t, err)

	hash, err := wt.Commit(msg, &gogit.CommitOptions{
		Author:    testAuthor(time.Now()),
		Committer: testAuthor(time.Now()),
	})
	require.NoError(t, err)
	return hash
}

// checkoutBranch creates (or switches to) a branch.
func checkoutBranch(t *testing.T, repo *gogit.Repository, name string, create bool) {
	t.Helper()
	wt, err := repo.Worktree()
	require.NoError(t, err)

	err = wt.Checkout(&gogit.CheckoutOptions{
		Branch: plumbing.NewBranchReferenceName(name),
		Create: create,
	})
	require.NoError(t, err)
}
