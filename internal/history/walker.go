// Copyright 2026 The Fixcache Authors
// SPDX-License-Identifier: MIT

// Package history mines a local git repository for per-file change counts.
// A Walker enumerates the commit graph across refs, deduplicating commits
// by hash so history shared between branches is never double-counted, and
// Aggregate reduces the walked commits into a raw score map of change
// counts suitable for score.Normalize.
package history

import (
	"context"
	"fmt"
	"time"

	git "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
)

// Commit is the walker's read-only view of one commit: its identity, its
// parent count, when it was committed, and the file paths it touched.
// Adds, modifications, deletions and renames all count as touched.
type Commit struct {
	Hash    string
	Parents int
	When    time.Time
	Files   []string
	Renames map[string]string // old path -> new path, only with rename detection
}

// Selector chooses which part of the history to walk.
type Selector struct {
	// Ref restricts the walk to the history reachable from a single ref
	// (e.g. "refs/heads/main" or a short branch name). Empty means all
	// local branches plus HEAD, matching `git log --all`.
	Ref string
}

// Walker provides read-only traversal of a repository's commit graph.
// Commit order is unspecified; callers must aggregate order-independently.
type Walker struct {
	repo          *git.Repository
	detectRenames bool
}

// Open opens an existing local repository. The repository must already be
// materialized on disk; fixcache never clones or fetches.
func Open(path string) (*Walker, error) {
	repo, err := git.PlainOpen(path)
	if err != nil {
		return nil, &RepositoryAccessError{Path: path, Err: err}
	}
	return &Walker{repo: repo}, nil
}

// SetDetectRenames enables rename detection on tree diffs. When enabled,
// each commit reports old->new rename edges that Aggregate resolves into
// canonical identities. When disabled (the default) every distinct path is
// treated as a separate identity, which understates the change frequency
// of renamed files.
func (w *Walker) SetDetectRenames(on bool) { w.detectRenames = on }

// heads resolves the starting points for the walk. With an empty selector
// it returns every local branch tip plus HEAD; unresolvable refs are
// reported as warnings rather than aborting.
func (w *Walker) heads(sel Selector) ([]plumbing.Hash, []Warning, error) {
	if sel.Ref != "" {
		hash, err := w.repo.ResolveRevision(plumbing.Revision(sel.Ref))
		if err != nil {
			return nil, nil, &HistoryTraversalError{Ref: sel.Ref, Err: err}
		}
		return []plumbing.Hash{*hash}, nil, nil
	}

	var (
		heads    []plumbing.Hash
		warnings []Warning
		seen     = make(map[plumbing.Hash]bool)
	)

	if head, err := w.repo.Head(); err == nil {
		heads = append(heads, head.Hash())
		seen[head.Hash()] = true
	}

	branches, err := w.repo.Branches()
	if err != nil {
		return nil, nil, &HistoryTraversalError{Ref: "refs/heads", Err: err}
	}
	ferr := branches.ForEach(func(ref *plumbing.Reference) error {
		if !seen[ref.Hash()] {
			heads = append(heads, ref.Hash())
			seen[ref.Hash()] = true
		}
		return nil
	})
	if ferr != nil {
		warnings = append(warnings, Warning{Ref: "refs/heads", Reason: ferr.Error()})
	}

	return heads, warnings, nil
}

// Hashes enumerates every commit reachable from the selector, deduplicated
// by hash. A ref whose ancestry cannot be fully walked contributes the
// commits found so far plus a warning; only a total absence of usable refs
// is an error.
func (w *Walker) Hashes(ctx context.Context, sel Selector) ([]plumbing.Hash, []Warning, error) {
	heads, warnings, err := w.heads(sel)
	if err != nil {
		return nil, warnings, err
	}
	if len(heads) == 0 {
		// Empty repository: no refs means no commits, which is a valid
		// (empty) result rather than an error.
		return nil, warnings, nil
	}

	seen := make(map[plumbing.Hash]bool)
	var order []plumbing.Hash
	usable := 0

	for _, head := range heads {
		if err := ctx.Err(); err != nil {
			return order, warnings, nil
		}
		walked, werr := w.ancestry(ctx, head, seen, &order)
		if werr != nil {
			warnings = append(warnings, Warning{Ref: head.String(), Reason: werr.Error()})
			if !walked {
				continue
			}
		}
		usable++
	}

	if usable == 0 && len(order) == 0 {
		return nil, warnings, &HistoryTraversalError{
			Ref: "all",
			Err: fmt.Errorf("no usable history found across %d refs", len(heads)),
		}
	}
	return order, warnings, nil
}

// ancestry walks parent links from head, appending unseen hashes to order.
// It returns whether any commit was recorded for this head.
func (w *Walker) ancestry(ctx context.Context, head plumbing.Hash, seen map[plumbing.Hash]bool, order *[]plumbing.Hash) (bool, error) {
	stack := []plumbing.Hash{head}
	walked := false

	for len(stack) > 0 {
		if err := ctx.Err(); err != nil {
			return walked, nil
		}

		hash := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if seen[hash] {
			continue
		}

		commit, err := w.repo.CommitObject(hash)
		if err != nil {
			// Missing or corrupt object: the graph reachable from this
			// head is inconsistent. Keep whatever was collected.
			return walked, &HistoryTraversalError{Ref: head.String(), Err: err}
		}

		seen[hash] = true
		*order = append(*order, hash)
		walked = true

		for _, parent := range commit.ParentHashes {
			if !seen[parent] {
				stack = append(stack, parent)
			}
		}
	}
	return walked, nil
}

// Resolve loads one commit and computes the file paths it touched by
// diffing against its first parent. Root commits touch every file in
// their tree, so an initial import counts like any other change.
func (w *Walker) Resolve(ctx context.Context, hash plumbing.Hash) (Commit, error) {
	commit, err := w.repo.CommitObject(hash)
	if err != nil {
		return Commit{}, fmt.Errorf("loading commit %s: %w", hash, err)
	}

	out := Commit{
		Hash:    hash.String(),
		Parents: commit.NumParents(),
		When:    commit.Committer.When,
	}

	tree, err := commit.Tree()
	if err != nil {
		return Commit{}, fmt.Errorf("loading tree for %s: %w", hash, err)
	}

	if commit.NumParents() == 0 {
		files := tree.Files()
		defer files.Close()
		err := files.ForEach(func(f *object.File) error {
			out.Files = append(out.Files, f.Name)
			return nil
		})
		if err != nil {
			return Commit{}, fmt.Errorf("listing root tree of %s: %w", hash, err)
		}
		return out, nil
	}

	parent, err := commit.Parent(0)
	if err != nil {
		return Commit{}, fmt.Errorf("loading parent of %s: %w", hash, err)
	}
	parentTree, err := parent.Tree()
	if err != nil {
		return Commit{}, fmt.Errorf("loading parent tree of %s: %w", hash, err)
	}

	opts := &object.DiffTreeOptions{}
	if w.detectRenames {
		opts = object.DefaultDiffTreeOptions
	}
	changes, err := object.DiffTreeWithOptions(ctx, parentTree, tree, opts)
	if err != nil {
		return Commit{}, fmt.Errorf("diffing %s: %w", hash, err)
	}

	for _, ch := range changes {
		from := ch.From.Name
		to := ch.To.Name
		switch {
		case from != "" && to != "" && from != to:
			// Rename: the new path is the touched identity; the edge is
			// recorded so the aggregator can fold histories together.
			out.Files = append(out.Files, to)
			if out.Renames == nil {
				out.Renames = make(map[string]string)
			}
			out.Renames[from] = to
		case to != "":
			out.Files = append(out.Files, to)
		case from != "":
			out.Files = append(out.Files, from)
		}
	}
	return out, nil
}
