// Copyright 2026 The Fixcache Authors
// SPDX-License-Identifier: MIT

// Package report renders ranked defect-proneness results. Sections are
// pluggable: each one analyzes the finished run and renders a focused
// segment of the text report. JSON and plain formats are rendered whole.
package report

import (
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/davetashner/fixcache/internal/score"
)

// Run is the finished output of one ranking run, handed to renderers.
// Entries are recomputed for every run and never cached across runs.
type Run struct {
	RepoPath    string
	Entries     []score.RankedEntry
	Changes     score.Map // raw per-file change counts from the history walk
	TopN        int
	FileCount   int // distinct files carrying any score
	CommitCount int
	Partial     bool
	Sources     []string // signal sources blended into the ranking
	Warnings    []string
	Duration    time.Duration
}

// NoSignal reports whether the run produced an empty ranking. Callers use
// it to distinguish "no signal" from a failed run, which never reaches
// rendering at all.
func (r *Run) NoSignal() bool { return len(r.Entries) == 0 }

// ErrNotApplicable indicates a section has nothing to say for this run.
var ErrNotApplicable = errors.New("section not applicable")

// Section is a pluggable report section.
type Section interface {
	// Name returns the unique identifier for this section (e.g. "ranking").
	Name() string

	// Description returns a human-readable summary of the section.
	Description() string

	// Analyze prepares internal state from the run. Returns
	// ErrNotApplicable (wrapped) when the section should be skipped.
	Analyze(run *Run) error

	// Render writes the section output to w.
	Render(w io.Writer) error
}

var (
	mu       sync.RWMutex
	registry = make(map[string]Section)
	order    []string // insertion order for deterministic listing
)

// Register adds a section to the global registry.
// It panics if a section with the same name is already registered.
func Register(s Section) {
	mu.Lock()
	defer mu.Unlock()
	name := s.Name()
	if _, exists := registry[name]; exists {
		panic(fmt.Sprintf("report section already registered: %s", name))
	}
	registry[name] = s
	order = append(order, name)
}

// Get returns the section with the given name, or nil if not found.
func Get(name string) Section {
	mu.RLock()
	defer mu.RUnlock()
	return registry[name]
}

// List returns the names of all registered sections in registration order.
func List() []string {
	mu.RLock()
	defer mu.RUnlock()
	out := make([]string, len(order))
	copy(out, order)
	return out
}

// RenderText writes the full text report: every registered section in
// registration order, skipping the ones that do not apply.
func RenderText(run *Run, w io.Writer) error {
	for _, name := range List() {
		sec := Get(name)
		if err := sec.Analyze(run); err != nil {
			if errors.Is(err, ErrNotApplicable) {
				continue
			}
			return fmt.Errorf("section %s: %w", name, err)
		}
		if err := sec.Render(w); err != nil {
			return fmt.Errorf("section %s render: %w", name, err)
		}
	}
	return nil
}

// resetForTesting clears the registry. Only for use in tests.
func resetForTesting() {
	mu.Lock()
	defer mu.Unlock()
	registry = make(map[string]Section)
	order = nil
}
