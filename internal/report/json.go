// Copyright 2026 The Fixcache Authors
// SPDX-License-Identifier: MIT

package report

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"
)

// RunJSON is the top-level JSON structure for --format json output.
type RunJSON struct {
	RunID       string      `json:"run_id"`
	Repository  string      `json:"repository"`
	Generated   string      `json:"generated"`
	Duration    string      `json:"duration"`
	CommitCount int         `json:"commit_count"`
	FileCount   int         `json:"file_count"`
	Sources     []string    `json:"sources"`
	Partial     bool        `json:"partial"`
	Entries     []EntryJSON `json:"entries"`
	Warnings    []string    `json:"warnings,omitempty"`
}

// EntryJSON is one ranked file in JSON output.
type EntryJSON struct {
	Rank  int     `json:"rank"`
	Path  string  `json:"path"`
	Score float64 `json:"score"`
}

// RenderJSON writes the run as machine-readable JSON. Each rendering gets
// a fresh run ID so downstream consumers can correlate stored reports.
func RenderJSON(run *Run, w io.Writer) error {
	out := RunJSON{
		RunID:       uuid.NewString(),
		Repository:  run.RepoPath,
		Generated:   time.Now().Format(time.RFC3339),
		Duration:    run.Duration.Round(time.Millisecond).String(),
		CommitCount: run.CommitCount,
		FileCount:   run.FileCount,
		Sources:     run.Sources,
		Partial:     run.Partial,
		Entries:     []EntryJSON{},
		Warnings:    run.Warnings,
	}
	for _, e := range run.Entries {
		out.Entries = append(out.Entries, EntryJSON{Rank: e.Rank, Path: e.Path, Score: e.Score})
	}

	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return fmt.Errorf("JSON marshal: %w", err)
	}
	_, err = fmt.Fprintln(w, string(data))
	return err
}

// RenderPlain writes the minimal line-per-entry format:
//
//	1. path/to/file.go (Score: 0.1234)
func RenderPlain(run *Run, w io.Writer) error {
	if _, err := fmt.Fprintf(w, "Top %d files most likely to contain defects:\n", run.TopN); err != nil {
		return err
	}
	for _, e := range run.Entries {
		if _, err := fmt.Fprintf(w, "%d. %s (Score: %.4f)\n", e.Rank, e.Path, e.Score); err != nil {
			return err
		}
	}
	return nil
}
