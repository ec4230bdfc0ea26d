// Copyright 2026 The Fixcache Authors
// SPDX-License-Identifier: MIT

// Package analyzer translates third-party static-analysis tool output into
// raw per-file finding counts. It is a boundary layer: tool invocation
// failures surface as warnings and zero counts, never as fatal errors, and
// the resulting score map feeds score.Normalize under the exact contract
// history-derived counts use.
package analyzer

import (
	"fmt"
	"sort"
	"sync"

	"github.com/davetashner/fixcache/internal/fileset"
)

// Tool adapts one external static-analysis tool. Implementations describe
// how to invoke the tool on a single file and how to count findings in its
// output. Adding language support means registering another Tool, not
// branching in the runner.
type Tool interface {
	// Name returns the unique tool name (e.g. "cppcheck").
	Name() string

	// Categories returns the file categories this tool analyzes.
	Categories() []fileset.Category

	// Command returns the binary and arguments to analyze one file.
	Command(path string) (bin string, args []string)

	// ParseFindings counts findings in a finished invocation. A non-nil
	// error marks the run as failed; the runner records a warning and
	// contributes zero findings for the file.
	ParseFindings(exitCode int, stdout, stderr string) (int, error)

	// Match reports whether the tool should run on the given file. Most
	// tools accept every file in their categories; Match carries the odd
	// per-file exclusion (e.g. spotbugs skipping module-info.java).
	Match(path string) bool
}

// Warning records a non-fatal tool invocation problem.
type Warning struct {
	Tool   string
	Path   string
	Reason string
}

func (w Warning) String() string {
	if w.Path == "" {
		return fmt.Sprintf("%s: %s", w.Tool, w.Reason)
	}
	return fmt.Sprintf("%s on %s: %s", w.Tool, w.Path, w.Reason)
}

var (
	mu       sync.RWMutex
	registry = make(map[string]Tool)
)

// Register adds a tool to the global registry.
// It panics if a tool with the same name is already registered.
func Register(t Tool) {
	mu.Lock()
	defer mu.Unlock()
	name := t.Name()
	if _, exists := registry[name]; exists {
		panic(fmt.Sprintf("analyzer tool already registered: %s", name))
	}
	registry[name] = t
}

// Get returns the tool with the given name, or nil if not found.
func Get(name string) Tool {
	mu.RLock()
	defer mu.RUnlock()
	return registry[name]
}

// List returns the names of all registered tools, sorted.
func List() []string {
	mu.RLock()
	defer mu.RUnlock()
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ForCategory returns the registered tools handling the given category,
// in sorted name order for deterministic scheduling.
func ForCategory(cat fileset.Category) []Tool {
	mu.RLock()
	defer mu.RUnlock()
	var tools []Tool
	for _, name := range sortedNames() {
		t := registry[name]
		for _, c := range t.Categories() {
			if c == cat {
				tools = append(tools, t)
				break
			}
		}
	}
	return tools
}

// sortedNames must be called with mu held.
func sortedNames() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// resetForTesting clears the registry. Only for use in tests.
func resetForTesting() {
	mu.Lock()
	defer mu.Unlock()
	registry = make(map[string]Tool)
}
