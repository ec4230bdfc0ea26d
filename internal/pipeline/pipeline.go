// Copyright 2026 The Fixcache Authors
// SPDX-License-Identifier: MIT

// Package pipeline orchestrates a full ranking run: mine change history,
// optionally gather external analysis findings and simulated model scores,
// normalize each source, blend, and rank.
package pipeline

import (
	"context"
	"log/slog"
	"time"

	"github.com/davetashner/fixcache/internal/analyzer"
	"github.com/davetashner/fixcache/internal/fileset"
	"github.com/davetashner/fixcache/internal/history"
	"github.com/davetashner/fixcache/internal/model"
	"github.com/davetashner/fixcache/internal/report"
	"github.com/davetashner/fixcache/internal/score"
	"github.com/davetashner/fixcache/internal/testable"
)

// DefaultTopN is the report length when none is configured.
const DefaultTopN = 10

// DefaultBlendWeight is the weight on history scores when blending in a
// second source.
const DefaultBlendWeight = 0.5

// Options configures one ranking run.
type Options struct {
	RepoPath string
	TopN     int

	// History mining.
	Ref           string
	FollowRenames bool
	Weight        history.WeightFunc
	Workers       int

	// Worktree scanning (analysis and simulated sources).
	Exclude []string

	// External static analysis.
	WithAnalysis        bool
	AnalysisTools       []analyzer.Tool // nil means all registered
	AnalysisConcurrency int
	AnalysisTimeout     time.Duration
	Executor            testable.CommandExecutor

	// Simulated model.
	WithSimulated bool
	Seed          int64

	// BlendWeight is the weight on the history score map when a second
	// source is blended in; nil means DefaultBlendWeight. An explicit 0
	// is honored and puts full weight on the second source.
	BlendWeight *float64
}

// Run executes the pipeline and returns the finished report run. Only the
// total absence of usable history is an error; everything recoverable is
// returned as warnings on the run.
func Run(ctx context.Context, opts Options) (*report.Run, error) {
	start := time.Now()
	topN := opts.TopN
	if topN <= 0 {
		topN = DefaultTopN
	}
	blendWeight := DefaultBlendWeight
	if opts.BlendWeight != nil {
		blendWeight = *opts.BlendWeight
	}

	run := &report.Run{
		RepoPath: opts.RepoPath,
		TopN:     topN,
		Sources:  []string{"history"},
	}

	hist, err := history.Aggregate(ctx, opts.RepoPath, history.Options{
		Selector:      history.Selector{Ref: opts.Ref},
		Weight:        opts.Weight,
		Workers:       opts.Workers,
		FollowRenames: opts.FollowRenames,
	})
	if err != nil {
		return nil, err
	}
	run.CommitCount = hist.CommitCount
	run.Partial = hist.Partial
	for _, w := range hist.Warnings {
		run.Warnings = append(run.Warnings, w.String())
	}

	run.Changes = hist.Counts
	scores := score.Normalize(hist.Counts)
	slog.Debug("history aggregated", "commits", hist.CommitCount, "files", len(hist.Counts), "partial", hist.Partial)

	// A partial walk means the history scores are already incomplete;
	// blending more sources on top would only dilute what was gathered,
	// so secondary sources are skipped and the partial ranking returned.
	withAnalysis := opts.WithAnalysis
	withSimulated := opts.WithSimulated
	if run.Partial && (withAnalysis || withSimulated) {
		run.Warnings = append(run.Warnings, "secondary sources skipped: history walk incomplete")
		withAnalysis = false
		withSimulated = false
	}

	var files *fileset.Set
	if withAnalysis || withSimulated {
		files, err = fileset.Scan(opts.RepoPath, opts.Exclude)
		if err != nil {
			return nil, err
		}
	}

	if withAnalysis {
		runner := &analyzer.Runner{
			RepoPath:    opts.RepoPath,
			Tools:       opts.AnalysisTools,
			Timeout:     opts.AnalysisTimeout,
			Concurrency: opts.AnalysisConcurrency,
			Executor:    opts.Executor,
		}
		raw, warnings := runner.Run(ctx, files)
		for _, w := range warnings {
			run.Warnings = append(run.Warnings, w.String())
		}
		scores = blend(scores, score.Normalize(raw), blendWeight)
		run.Sources = append(run.Sources, "analysis")
	}

	if withSimulated {
		src := &model.SimulatedSource{Seed: opts.Seed}
		raw, err := src.Scores(ctx, files.Paths())
		if err != nil {
			return nil, err
		}
		scores = blend(scores, score.Normalize(raw), blendWeight)
		run.Sources = append(run.Sources, src.Name())
	}

	run.FileCount = len(scores)
	run.Entries = score.TopN(scores, topN)
	run.Duration = time.Since(start)
	return run, nil
}

// blend combines two normalized maps, except that an empty map on either
// side means "no signal from that source" and yields the other unchanged,
// keeping the result a proper distribution.
func blend(a, b score.Map, w float64) score.Map {
	if len(a) == 0 {
		return b
	}
	if len(b) == 0 {
		return a
	}
	return score.Blend(a, b, w)
}
