// Copyright 2026 The Fixcache Authors
// SPDX-License-Identifier: MIT

package main

import (
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/davetashner/fixcache/internal/analyzer"
	"github.com/davetashner/fixcache/internal/config"
	"github.com/davetashner/fixcache/internal/history"
	"github.com/davetashner/fixcache/internal/pipeline"
	"github.com/davetashner/fixcache/internal/report"
)

// Rank-specific flag values.
var (
	rankTopN          int
	rankRef           string
	rankFollowRenames bool
	rankHalfLife      string
	rankWorkers       int
	rankExclude       []string
	rankWithAnalysis  bool
	rankTools         string
	rankToolsFile     string
	rankConcurrency   int
	rankTimeout       string
	rankWithSimulated bool
	rankSeed          int64
	rankBlendWeight   float64
	rankFormat        string
	rankOutput        string
	rankStrict        bool
)

// rankCmd is the subcommand that mines history and prints the ranking.
var rankCmd = &cobra.Command{
	Use:   "rank [path]",
	Short: "Rank a repository's files by defect-proneness",
	Long: `Walk the repository's full commit history across all branches, count how
often each file changed, and print the files most likely to contain
defects. Scores are normalized so they sum to 1 across all known files.

With --with-analysis, findings from registered static-analysis tools
(cppcheck, spotbugs, go vet, plus any custom tools) are normalized under
the same contract and blended into the ranking.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runRank,
}

func init() {
	rankCmd.Flags().IntVarP(&rankTopN, "top", "n", 0, "number of files to report (default 10)")
	rankCmd.Flags().StringVar(&rankRef, "ref", "", "restrict mining to one ref (default: all branches)")
	rankCmd.Flags().BoolVar(&rankFollowRenames, "follow-renames", false, "resolve renamed files to a single identity")
	rankCmd.Flags().StringVar(&rankHalfLife, "half-life", "", "decay change weights with this half-life (e.g. 2160h); default: plain counts")
	rankCmd.Flags().IntVar(&rankWorkers, "workers", 0, "history walk parallelism (0 = number of CPUs)")
	rankCmd.Flags().StringSliceVarP(&rankExclude, "exclude", "e", nil, "glob patterns excluded from worktree scans")
	rankCmd.Flags().BoolVar(&rankWithAnalysis, "with-analysis", false, "blend in external static-analysis findings")
	rankCmd.Flags().StringVar(&rankTools, "tools", "", "comma-separated list of analysis tools to run (default: all registered)")
	rankCmd.Flags().StringVar(&rankToolsFile, "tools-file", "", "TOML file defining custom analysis tools")
	rankCmd.Flags().IntVar(&rankConcurrency, "concurrency", 0, "max parallel tool invocations (default 4)")
	rankCmd.Flags().StringVar(&rankTimeout, "tool-timeout", "", "per-invocation tool timeout (e.g. 30s)")
	rankCmd.Flags().BoolVar(&rankWithSimulated, "with-simulated", false, "blend in the simulated model source")
	rankCmd.Flags().Int64Var(&rankSeed, "seed", 0, "seed for the simulated source (0 = time-based)")
	rankCmd.Flags().Float64Var(&rankBlendWeight, "blend-weight", 0, "weight on history scores when blending (default 0.5)")
	rankCmd.Flags().StringVarP(&rankFormat, "format", "f", "text", "output format (text, json, plain)")
	rankCmd.Flags().StringVarP(&rankOutput, "output", "o", "", "output file path (default: stdout)")
	rankCmd.Flags().BoolVar(&rankStrict, "strict", false, "exit non-zero when any warning was recorded")
}

func runRank(cmd *cobra.Command, args []string) error {
	repoPath := "."
	if len(args) > 0 {
		repoPath = args[0]
	}
	absPath, err := filepath.Abs(repoPath)
	if err != nil {
		return exitError(ExitInvalidArgs, "fixcache: cannot resolve path %q: %v", repoPath, err)
	}
	if info, err := os.Stat(absPath); err != nil || !info.IsDir() {
		return exitError(ExitInvalidArgs, "fixcache: %q is not a directory", repoPath)
	}
	if rankBlendWeight < 0 || rankBlendWeight > 1 {
		return exitError(ExitInvalidArgs,
			"fixcache: --blend-weight must be between 0.0 and 1.0 (got %.2f)", rankBlendWeight)
	}

	fileCfg, err := config.Load(absPath)
	if err != nil {
		return exitError(ExitInvalidArgs, "fixcache: loading %s: %v", config.FileName, err)
	}
	opts, err := buildOptions(cmd.Flags(), absPath, fileCfg)
	if err != nil {
		return err
	}

	run, err := pipeline.Run(cmd.Context(), opts)
	if err != nil {
		return rankError(err)
	}
	if run.NoSignal() {
		slog.Info("no scorable history found", "repo", absPath)
	}

	out := cmd.OutOrStdout()
	if rankOutput != "" {
		f, err := os.Create(rankOutput) //nolint:gosec // user-provided output path
		if err != nil {
			return exitError(ExitInvalidArgs, "fixcache: creating %s: %v", rankOutput, err)
		}
		defer f.Close() //nolint:errcheck // best-effort close on read-only use
		out = f
	}

	if err := renderRun(run, rankFormat, out); err != nil {
		return err
	}

	if rankStrict && len(run.Warnings) > 0 {
		return exitError(ExitPartialFailure, "fixcache: %d warning(s) recorded", len(run.Warnings))
	}
	return nil
}

// buildOptions merges config-file values and flags into pipeline options.
// Flags win over the config file; the config file wins over defaults.
func buildOptions(flags *pflag.FlagSet, absPath string, fileCfg *config.Config) (pipeline.Options, error) {
	opts := pipeline.Options{
		RepoPath:      absPath,
		TopN:          fileCfg.TopN,
		Ref:           fileCfg.Ref,
		FollowRenames: fileCfg.FollowRenames,
		Workers:       fileCfg.Workers,
		Exclude:       fileCfg.Exclude,
		WithAnalysis:  fileCfg.Analysis.Enabled,
		WithSimulated: fileCfg.Simulated.Enabled,
		Seed:          fileCfg.Simulated.Seed,
		BlendWeight:   fileCfg.BlendWeight,
	}

	if flags.Changed("top") {
		opts.TopN = rankTopN
	}
	if flags.Changed("ref") {
		opts.Ref = rankRef
	}
	if flags.Changed("follow-renames") {
		opts.FollowRenames = rankFollowRenames
	}
	if flags.Changed("workers") {
		opts.Workers = rankWorkers
	}
	if flags.Changed("exclude") {
		opts.Exclude = rankExclude
	}
	if flags.Changed("with-analysis") {
		opts.WithAnalysis = rankWithAnalysis
	}
	if flags.Changed("with-simulated") {
		opts.WithSimulated = rankWithSimulated
	}
	if flags.Changed("seed") {
		opts.Seed = rankSeed
	}
	if flags.Changed("blend-weight") {
		opts.BlendWeight = &rankBlendWeight
	}
	if opts.WithSimulated && opts.Seed == 0 {
		opts.Seed = time.Now().UnixNano()
	}

	halfLife := fileCfg.HalfLife
	if flags.Changed("half-life") {
		halfLife = rankHalfLife
	}
	if halfLife != "" {
		d, err := time.ParseDuration(halfLife)
		if err != nil || d <= 0 {
			return opts, exitError(ExitInvalidArgs, "fixcache: invalid --half-life %q", halfLife)
		}
		opts.Weight = history.RecencyWeight(time.Now(), d)
	}

	if err := applyAnalysisOptions(flags, fileCfg, &opts); err != nil {
		return opts, err
	}
	return opts, nil
}

// applyAnalysisOptions loads custom tools and resolves the tool filter.
func applyAnalysisOptions(flags *pflag.FlagSet, fileCfg *config.Config, opts *pipeline.Options) error {
	opts.AnalysisConcurrency = fileCfg.Analysis.Concurrency
	if flags.Changed("concurrency") {
		opts.AnalysisConcurrency = rankConcurrency
	}

	timeout := fileCfg.Analysis.Timeout
	if flags.Changed("tool-timeout") {
		timeout = rankTimeout
	}
	if timeout != "" {
		d, err := time.ParseDuration(timeout)
		if err != nil || d <= 0 {
			return exitError(ExitInvalidArgs, "fixcache: invalid --tool-timeout %q", timeout)
		}
		opts.AnalysisTimeout = d
	}

	toolsFile := fileCfg.Analysis.ToolsFile
	if flags.Changed("tools-file") {
		toolsFile = rankToolsFile
	}
	if toolsFile != "" {
		defs, err := config.LoadTools(toolsFile)
		if err != nil {
			return exitError(ExitInvalidArgs, "fixcache: %v", err)
		}
		for _, def := range defs {
			tool, err := analyzer.NewCustomTool(def.Name, def.Command, def.Args, def.Categories, def.Pattern, def.Stderr)
			if err != nil {
				return exitError(ExitInvalidArgs, "fixcache: %v", err)
			}
			if analyzer.Get(tool.Name()) != nil {
				return exitError(ExitInvalidArgs, "fixcache: tool %q is already registered", tool.Name())
			}
			analyzer.Register(tool)
		}
	}

	names := fileCfg.Analysis.Tools
	if flags.Changed("tools") {
		names = splitAndTrim(rankTools)
	}
	if len(names) > 0 {
		for _, name := range names {
			t := analyzer.Get(name)
			if t == nil {
				return exitError(ExitInvalidArgs,
					"fixcache: unknown tool %q (available: %s)", name, strings.Join(analyzer.List(), ", "))
			}
			opts.AnalysisTools = append(opts.AnalysisTools, t)
		}
	}
	return nil
}

// renderRun writes the run in the requested format.
func renderRun(run *report.Run, format string, w io.Writer) error {
	switch format {
	case "text":
		return report.RenderText(run, w)
	case "json":
		return report.RenderJSON(run, w)
	case "plain":
		return report.RenderPlain(run, w)
	default:
		return exitError(ExitInvalidArgs, "fixcache: unknown format %q (text, json, plain)", format)
	}
}

// rankError maps pipeline failures onto exit codes.
func rankError(err error) error {
	var accessErr *history.RepositoryAccessError
	if errors.As(err, &accessErr) {
		return exitError(ExitInvalidArgs, "fixcache: %v", err)
	}
	return exitError(ExitTotalFailure, "fixcache: %v", err)
}

// splitAndTrim splits a comma-separated list, trimming whitespace and
// dropping empty items.
func splitAndTrim(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
