// Copyright 2026 The Fixcache Authors
// SPDX-License-Identifier: MIT

package analyzer

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"os/exec"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/davetashner/fixcache/internal/fileset"
	"github.com/davetashner/fixcache/internal/score"
	"github.com/davetashner/fixcache/internal/testable"
)

// DefaultToolTimeout bounds a single tool invocation.
const DefaultToolTimeout = 30 * time.Second

// DefaultConcurrency bounds parallel tool invocations, keeping process and
// file-descriptor usage in check.
const DefaultConcurrency = 4

// Runner invokes registered tools against a file set and accumulates raw
// finding counts per file.
type Runner struct {
	RepoPath    string
	Tools       []Tool        // nil means every registered tool
	Timeout     time.Duration // per invocation; <=0 means DefaultToolTimeout
	Concurrency int           // parallel invocations; <=0 means DefaultConcurrency

	// Executor abstracts process execution for tests. Nil means os/exec.
	Executor testable.CommandExecutor
}

// invocation is one (tool, file) unit of work.
type invocation struct {
	tool Tool
	path string
}

// Run analyzes every matching file and returns raw finding counts keyed by
// relative path, plus warnings for invocations that failed. Failures never
// abort the run: a failed tool contributes zero findings for that file.
// Every analyzed file appears in the result, so files with zero findings
// still reach the normalizer as explicit zero-count entries.
func (r *Runner) Run(ctx context.Context, files *fileset.Set) (score.Map, []Warning) {
	executor := r.Executor
	if executor == nil {
		executor = testable.DefaultExecutor()
	}
	timeout := r.Timeout
	if timeout <= 0 {
		timeout = DefaultToolTimeout
	}
	limit := r.Concurrency
	if limit <= 0 {
		limit = DefaultConcurrency
	}

	work, warnings := r.plan(executor, files)
	counts := make(score.Map, len(files.Files))
	for _, inv := range work {
		counts[inv.path] = 0
	}
	if len(work) == 0 {
		return counts, warnings
	}

	var mu sync.Mutex
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)

	for _, inv := range work {
		g.Go(func() error {
			findings, warn := r.invoke(ctx, executor, inv, timeout)
			mu.Lock()
			defer mu.Unlock()
			counts[inv.path] += float64(findings)
			if warn != nil {
				warnings = append(warnings, *warn)
			}
			return nil
		})
	}
	_ = g.Wait() // invocations report failures as warnings, never as errors

	sort.Slice(warnings, func(i, j int) bool {
		if warnings[i].Tool != warnings[j].Tool {
			return warnings[i].Tool < warnings[j].Tool
		}
		return warnings[i].Path < warnings[j].Path
	})
	return counts, warnings
}

// plan matches files to available tools. Tools whose binary is not on PATH
// are reported once and skipped entirely.
func (r *Runner) plan(executor testable.CommandExecutor, files *fileset.Set) ([]invocation, []Warning) {
	tools := r.Tools
	if tools == nil {
		for _, name := range List() {
			tools = append(tools, Get(name))
		}
	}

	available := make(map[string]bool, len(tools))
	var warnings []Warning
	for _, t := range tools {
		bin, _ := t.Command(".")
		if _, err := executor.LookPath(bin); err != nil {
			warnings = append(warnings, Warning{Tool: t.Name(), Reason: "binary not found: " + bin})
			continue
		}
		available[t.Name()] = true
	}

	byCategory := make(map[fileset.Category][]Tool)
	for _, t := range tools {
		if !available[t.Name()] {
			continue
		}
		for _, c := range t.Categories() {
			byCategory[c] = append(byCategory[c], t)
		}
	}

	var work []invocation
	for _, f := range files.Files {
		for _, t := range byCategory[f.Category] {
			if t.Match(f.Path) {
				work = append(work, invocation{tool: t, path: f.Path})
			}
		}
	}
	return work, warnings
}

// invoke runs one tool on one file with its own timeout.
func (r *Runner) invoke(ctx context.Context, executor testable.CommandExecutor, inv invocation, timeout time.Duration) (int, *Warning) {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	bin, args := inv.tool.Command(filepath.FromSlash(inv.path))
	cmd := executor.CommandContext(ctx, bin, args...)
	cmd.Dir = r.RepoPath

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	exitCode := 0
	if err := cmd.Run(); err != nil {
		var exitErr *exec.ExitError
		switch {
		case errors.Is(ctx.Err(), context.DeadlineExceeded):
			return 0, &Warning{Tool: inv.tool.Name(), Path: inv.path, Reason: "timed out after " + timeout.String()}
		case ctx.Err() != nil:
			// Parent context cancelled, not the per-invocation deadline.
			return 0, &Warning{Tool: inv.tool.Name(), Path: inv.path, Reason: "cancelled: " + ctx.Err().Error()}
		case errors.As(err, &exitErr):
			exitCode = exitErr.ExitCode()
		default:
			return 0, &Warning{Tool: inv.tool.Name(), Path: inv.path, Reason: err.Error()}
		}
	}

	findings, err := inv.tool.ParseFindings(exitCode, stdout.String(), stderr.String())
	if err != nil {
		return 0, &Warning{Tool: inv.tool.Name(), Path: inv.path, Reason: err.Error()}
	}

	slog.Debug("tool run complete", "tool", inv.tool.Name(), "file", inv.path, "findings", findings)
	return findings, nil
}
