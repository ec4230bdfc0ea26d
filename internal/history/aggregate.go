// Copyright 2026 The Fixcache Authors
// SPDX-License-Identifier: MIT

package history

import (
	"context"
	"math"
	"runtime"
	"time"

	"github.com/go-git/go-git/v5/plumbing"
	"golang.org/x/sync/errgroup"

	"github.com/davetashner/fixcache/internal/score"
)

// WeightFunc maps a commit to the weight added to each file it touched.
// Weights must be non-negative. The default weight of 1 per touch gives
// plain change counting.
type WeightFunc func(Commit) float64

// UnitWeight counts every touch as 1.
func UnitWeight(Commit) float64 { return 1 }

// RecencyWeight decays a commit's contribution exponentially with its age
// relative to ref: weight = exp(-age/halfLife). Passing the reference time
// explicitly keeps aggregation reproducible across runs.
func RecencyWeight(ref time.Time, halfLife time.Duration) WeightFunc {
	return func(c Commit) float64 {
		age := ref.Sub(c.When)
		if age < 0 {
			age = 0
		}
		return math.Exp(-float64(age) / float64(halfLife))
	}
}

// Options configures one aggregation pass.
type Options struct {
	Selector      Selector
	Weight        WeightFunc // nil means UnitWeight
	Workers       int        // commit-resolution parallelism; <=0 means GOMAXPROCS
	FollowRenames bool
}

// Result is a finished aggregation. Counts is a raw score map (path ->
// accumulated weight) ready for score.Normalize. Partial is set when the
// walk was cancelled or some refs could not be traversed; the counts
// gathered up to that point are still returned.
type Result struct {
	Counts      score.Map
	CommitCount int
	Partial     bool
	Warnings    []Warning
}

// partial is one worker's independent slice of the aggregation. Workers
// never share a mutable map; partials are merged single-threaded.
type partial struct {
	counts   score.Map
	renames  map[string]string
	commits  int
	warnings []Warning
}

func newPartial() *partial {
	return &partial{counts: make(score.Map), renames: make(map[string]string)}
}

// add folds one commit into the partial.
func (p *partial) add(c Commit, weight WeightFunc) {
	w := weight(c)
	if w < 0 {
		w = 0
	}
	for _, path := range c.Files {
		p.counts[path] += w
	}
	for from, to := range c.Renames {
		recordRename(p.renames, from, to)
	}
	p.commits++
}

// merge sums two partials. Addition is commutative, so merge order does
// not affect the final counts.
func (p *partial) merge(other *partial) {
	for path, n := range other.counts {
		p.counts[path] += n
	}
	for from, to := range other.renames {
		recordRename(p.renames, from, to)
	}
	p.commits += other.commits
	p.warnings = append(p.warnings, other.warnings...)
}

// Aggregate walks the selected history of the repository at repoPath and
// returns per-file change counts. Commit enumeration is deduplicated by
// hash, so commits reachable from several branches count once. Commit
// resolution (the tree diffs, the expensive I/O-bound part) is partitioned
// across workers that each build an independent partial map, merged in a
// single reduction step.
//
// Cancellation via ctx stops the walk cleanly: the counts collected so far
// are returned with Partial set, not discarded.
func Aggregate(ctx context.Context, repoPath string, opts Options) (*Result, error) {
	walker, err := Open(repoPath)
	if err != nil {
		return nil, err
	}
	return walker.Aggregate(ctx, opts)
}

// Aggregate implements the aggregation pass on an already-open Walker.
func (w *Walker) Aggregate(ctx context.Context, opts Options) (*Result, error) {
	weight := opts.Weight
	if weight == nil {
		weight = UnitWeight
	}
	workers := opts.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	w.detectRenames = opts.FollowRenames

	hashes, warnings, err := w.Hashes(ctx, opts.Selector)
	if err != nil {
		return nil, err
	}

	result := &Result{Counts: score.Map{}, Warnings: warnings}
	if len(hashes) == 0 {
		if ctx.Err() != nil {
			result.Partial = true
			result.Warnings = append(result.Warnings, Warning{Reason: "walk cancelled: " + ctx.Err().Error()})
		}
		return result, nil
	}
	if workers > len(hashes) {
		workers = len(hashes)
	}

	partials := make([]*partial, workers)
	var g errgroup.Group

	for i := 0; i < workers; i++ {
		part := newPartial()
		partials[i] = part
		batch := hashes[i*len(hashes)/workers : (i+1)*len(hashes)/workers]

		g.Go(func() error {
			for _, hash := range batch {
				if ctx.Err() != nil {
					return nil
				}
				w.resolveInto(ctx, hash, part, weight)
			}
			return nil
		})
	}
	_ = g.Wait() // workers report problems as warnings, never as errors

	merged := newPartial()
	for _, part := range partials {
		merged.merge(part)
	}

	result.CommitCount = merged.commits
	result.Warnings = append(result.Warnings, merged.warnings...)
	result.Partial = ctx.Err() != nil
	if ctx.Err() != nil {
		result.Warnings = append(result.Warnings, Warning{Reason: "walk cancelled: " + ctx.Err().Error()})
	}

	counts := merged.counts
	if opts.FollowRenames && len(merged.renames) > 0 {
		counts = canonicalize(counts, merged.renames)
	}
	result.Counts = counts
	return result, nil
}

// resolveInto resolves one commit into a worker partial; per-commit
// failures become warnings so the rest of the batch still aggregates.
func (w *Walker) resolveInto(ctx context.Context, hash plumbing.Hash, part *partial, weight WeightFunc) {
	commit, err := w.Resolve(ctx, hash)
	if err != nil {
		part.warnings = append(part.warnings, Warning{Commit: hash.String(), Reason: err.Error()})
		return
	}
	part.add(commit, weight)
}
