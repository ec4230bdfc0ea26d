// Copyright 2026 The Fixcache Authors
// SPDX-License-Identifier: MIT

package report

import (
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/davetashner/fixcache/internal/score"
)

func init() {
	Register(&rankingSection{})
}

// rankingSection renders the top-N defect-proneness table.
type rankingSection struct {
	entries []score.RankedEntry
	changes score.Map
	topN    int
}

func (s *rankingSection) Name() string        { return "ranking" }
func (s *rankingSection) Description() string { return "Files ranked by defect-proneness score" }

func (s *rankingSection) Analyze(run *Run) error {
	s.entries = run.Entries
	s.changes = run.Changes
	s.topN = run.TopN
	return nil
}

func (s *rankingSection) Render(w io.Writer) error {
	title := fmt.Sprintf("Top %d files most likely to contain defects", s.topN)
	_, _ = fmt.Fprintf(w, "%s\n%s\n", SectionTitle(title), strings.Repeat("-", len(title)))

	if len(s.entries) == 0 {
		_, _ = fmt.Fprintf(w, "  No signal: the repository has no scorable history.\n\n")
		return nil
	}

	tbl := NewTable(
		Column{Header: "Rank", Align: AlignRight},
		Column{Header: "File"},
		Column{Header: "Changes", Align: AlignRight},
		Column{Header: "Score", Align: AlignRight, Color: colorScore},
		Column{Header: "Share", Align: AlignRight},
	)
	for _, e := range s.entries {
		tbl.AddRow(
			fmt.Sprintf("%d", e.Rank),
			e.Path,
			formatCount(s.changes[e.Path]),
			fmt.Sprintf("%.4f", e.Score),
			fmt.Sprintf("%.1f%%", e.Score*100),
		)
	}

	if err := tbl.Render(w); err != nil {
		return err
	}
	_, _ = fmt.Fprintf(w, "\n")
	return nil
}

// formatCount renders a change count: plain integers for unit-weighted
// counts, two decimals once recency weighting makes them fractional.
func formatCount(n float64) string {
	if n == math.Trunc(n) {
		return fmt.Sprintf("%d", int64(n))
	}
	return fmt.Sprintf("%.2f", n)
}
