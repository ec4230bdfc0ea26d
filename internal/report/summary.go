// Copyright 2026 The Fixcache Authors
// SPDX-License-Identifier: MIT

package report

import (
	"fmt"
	"io"
	"strings"
	"time"
)

func init() {
	Register(&summarySection{})
}

// summarySection reports run-level facts: commits walked, files scored,
// which sources were blended, and whether the result is partial.
type summarySection struct {
	commits  int
	files    int
	sources  []string
	partial  bool
	duration time.Duration
}

func (s *summarySection) Name() string        { return "summary" }
func (s *summarySection) Description() string { return "Run summary" }

func (s *summarySection) Analyze(run *Run) error {
	s.commits = run.CommitCount
	s.files = run.FileCount
	s.sources = run.Sources
	s.partial = run.Partial
	s.duration = run.Duration
	return nil
}

func (s *summarySection) Render(w io.Writer) error {
	_, _ = fmt.Fprintf(w, "%s\n-------\n", SectionTitle("Summary"))
	_, _ = fmt.Fprintf(w, "  Commits walked: %d\n", s.commits)
	_, _ = fmt.Fprintf(w, "  Files scored:   %d\n", s.files)
	_, _ = fmt.Fprintf(w, "  Sources:        %s\n", strings.Join(s.sources, " + "))
	if s.partial {
		_, _ = fmt.Fprintf(w, "  Result:         %s\n", colorYellow.Sprint("PARTIAL"))
	}
	_, _ = fmt.Fprintf(w, "  Duration:       %s\n\n", s.duration.Round(time.Millisecond))
	return nil
}
