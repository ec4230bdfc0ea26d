// Copyright 2026 The Fixcache Authors
// SPDX-License-Identifier: MIT

package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"text/tabwriter"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/davetashner/fixcache/internal/analyzer"
	"github.com/davetashner/fixcache/internal/fileset"
	"github.com/davetashner/fixcache/internal/testable"
)

// toolsCmd lists the registered static-analysis tool adapters.
var toolsCmd = &cobra.Command{
	Use:   "tools [path]",
	Short: "List registered static-analysis tool adapters",
	Long: `List every registered tool adapter, the file categories it analyzes, and
whether its binary is installed. With a repository path, also shows which
categories are present in that repository's worktree.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runTools,
}

func runTools(cmd *cobra.Command, args []string) error {
	executor := testable.DefaultExecutor()
	green := color.New(color.FgGreen)
	red := color.New(color.FgRed)

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "TOOL\tCATEGORIES\tBINARY\tSTATUS")
	for _, name := range analyzer.List() {
		t := analyzer.Get(name)
		cats := make([]string, len(t.Categories()))
		for i, c := range t.Categories() {
			cats[i] = string(c)
		}
		bin, _ := t.Command(".")
		status := green.Sprint("installed")
		if _, err := executor.LookPath(bin); err != nil {
			status = red.Sprint("missing")
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", name, strings.Join(cats, ","), bin, status)
	}
	if err := w.Flush(); err != nil {
		return err
	}

	if len(args) == 1 {
		return printRepoCategories(cmd, args[0])
	}
	return nil
}

// printRepoCategories scans the worktree at path and reports the language
// categories found, so users can see which tools would actually run.
func printRepoCategories(cmd *cobra.Command, path string) error {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return exitError(ExitInvalidArgs, "fixcache: cannot resolve path %q: %v", path, err)
	}
	if info, err := os.Stat(absPath); err != nil || !info.IsDir() {
		return exitError(ExitInvalidArgs, "fixcache: %q is not a directory", path)
	}

	files, err := fileset.Scan(absPath, nil)
	if err != nil {
		return exitError(ExitInvalidArgs, "fixcache: scanning %s: %v", absPath, err)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "\nRepository: %s\n", absPath)
	if files.GoModule != "" {
		fmt.Fprintf(out, "Go module:  %s\n", files.GoModule)
	}
	cats := files.Categories()
	if len(cats) == 0 {
		fmt.Fprintln(out, "No recognized code files found.")
		return nil
	}
	byCat := files.ByCategory()
	for _, c := range cats {
		fmt.Fprintf(out, "  %-12s %d file(s)\n", c, len(byCat[c]))
	}
	return nil
}
