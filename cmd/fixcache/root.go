// Copyright 2026 The Fixcache Authors
// SPDX-License-Identifier: MIT

package main

import (
	"github.com/fatih/color"
	"github.com/spf13/cobra"

	fixcachelog "github.com/davetashner/fixcache/internal/log"
)

// Global flag values.
var (
	verbose bool
	quiet   bool
	noColor bool
)

// rootCmd is the base command for fixcache.
var rootCmd = &cobra.Command{
	Use:   "fixcache",
	Short: "Rank repository files by defect-proneness",
	Long: `Fixcache mines a repository's commit history to estimate which files are
most likely to contain defects. Files that changed often in the past tend
to change (and break) again, so fixcache aggregates per-file change counts
across all branches, normalizes them into a score distribution, and prints
a ranked report. External static-analysis findings and a simulated model
score can be blended into the ranking.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		fixcachelog.Setup(verbose, quiet)
		if noColor {
			color.NoColor = true
		}
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose output")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "suppress non-essential output")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "disable colored output")

	rootCmd.AddCommand(rankCmd)
	rootCmd.AddCommand(toolsCmd)
	rootCmd.AddCommand(mcpCmd)
	rootCmd.AddCommand(versionCmd)
}
