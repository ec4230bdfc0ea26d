// Copyright 2026 The Fixcache Authors
// SPDX-License-Identifier: MIT

package report

import (
	"fmt"
	"io"
)

func init() {
	Register(&warningsSection{})
}

// warningsSection lists the non-fatal problems collected during the run:
// unreadable refs, failed tool invocations, cancellation.
type warningsSection struct {
	warnings []string
}

func (s *warningsSection) Name() string        { return "warnings" }
func (s *warningsSection) Description() string { return "Non-fatal problems encountered" }

func (s *warningsSection) Analyze(run *Run) error {
	if len(run.Warnings) == 0 {
		return fmt.Errorf("no warnings: %w", ErrNotApplicable)
	}
	s.warnings = run.Warnings
	return nil
}

func (s *warningsSection) Render(w io.Writer) error {
	_, _ = fmt.Fprintf(w, "%s %s\n--------\n", SectionTitle("Warnings"), colorCount(len(s.warnings)))
	for _, warning := range s.warnings {
		_, _ = fmt.Fprintf(w, "  - %s\n", warning)
	}
	_, _ = fmt.Fprintf(w, "\n")
	return nil
}
