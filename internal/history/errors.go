// Copyright 2026 The Fixcache Authors
// SPDX-License-Identifier: MIT

package history

import "fmt"

// RepositoryAccessError indicates the repository path is missing, is not a
// git repository, or could not be opened. It is fatal: no partial result
// is possible.
type RepositoryAccessError struct {
	Path string
	Err  error
}

func (e *RepositoryAccessError) Error() string {
	return fmt.Sprintf("cannot access repository %s: %v", e.Path, e.Err)
}

func (e *RepositoryAccessError) Unwrap() error { return e.Err }

// HistoryTraversalError indicates the commit graph reachable from one ref
// is inconsistent (missing parent objects, corrupt history). It is fatal
// for the affected ref only; other refs may still be aggregated.
type HistoryTraversalError struct {
	Ref string
	Err error
}

func (e *HistoryTraversalError) Error() string {
	return fmt.Sprintf("history traversal failed for ref %s: %v", e.Ref, e.Err)
}

func (e *HistoryTraversalError) Unwrap() error { return e.Err }

// Warning records a non-fatal problem encountered during aggregation, such
// as a single unreadable ref or commit. Warnings accompany partial results
// instead of aborting the run.
type Warning struct {
	Ref    string // ref being walked, if applicable
	Commit string // commit hash, if applicable
	Reason string
}

func (w Warning) String() string {
	switch {
	case w.Commit != "":
		return fmt.Sprintf("commit %s: %s", w.Commit, w.Reason)
	case w.Ref != "":
		return fmt.Sprintf("ref %s: %s", w.Ref, w.Reason)
	default:
		return w.Reason
	}
}
