// Copyright 2026 The Fixcache Authors
// SPDX-License-Identifier: MIT

package testable

import (
	"context"
	"os/exec"
	"strings"
	"sync"
)

// MockCommandExecutor is a test double for CommandExecutor. It can
// simulate a missing tool binary, failing invocations, and predetermined
// stdout or stderr output.
type MockCommandExecutor struct {
	// LookPathErr, when non-nil, is returned by LookPath for any file.
	LookPathErr error

	// LookPathResult is returned as the path when LookPathErr is nil.
	LookPathResult string

	// Outputs maps a command key (the command name and all arguments
	// joined by spaces) to the stdout the resulting exec.Cmd produces.
	Outputs map[string]string

	// StderrOutputs maps a command key to stderr output produced with a
	// zero exit status, for tools that report findings on stderr.
	StderrOutputs map[string]string

	// Failures maps a command key to a message written to stderr before
	// exiting with status 1.
	Failures map[string]string

	// DefaultOutput is produced when no key matches.
	DefaultOutput string

	// Calls records the command keys that were invoked, for assertions.
	// Guarded by mu; callers may run commands from multiple goroutines.
	Calls []string

	mu sync.Mutex
}

// LookPath returns the configured result or error.
func (m *MockCommandExecutor) LookPath(file string) (string, error) {
	if m.LookPathErr != nil {
		return "", m.LookPathErr
	}
	if m.LookPathResult != "" {
		return m.LookPathResult, nil
	}
	return "/usr/bin/" + file, nil
}

// CommandContext returns an *exec.Cmd that, when executed, produces the
// pre-configured output or failure. It shells out to sh to simulate the
// behaviour without running the real binary.
func (m *MockCommandExecutor) CommandContext(ctx context.Context, name string, args ...string) *exec.Cmd {
	key := name + " " + strings.Join(args, " ")
	m.mu.Lock()
	m.Calls = append(m.Calls, key)
	m.mu.Unlock()

	if msg, ok := m.Failures[key]; ok {
		return exec.CommandContext(ctx, "sh", "-c", `printf '%s' "$1" >&2; exit 1`, "sh", msg) //nolint:gosec // test helper
	}
	if out, ok := m.StderrOutputs[key]; ok {
		return exec.CommandContext(ctx, "sh", "-c", `printf '%s' "$1" >&2`, "sh", out) //nolint:gosec // test helper
	}
	if out, ok := m.Outputs[key]; ok {
		return exec.CommandContext(ctx, "sh", "-c", `printf '%s' "$1"`, "sh", out) //nolint:gosec // test helper
	}
	return exec.CommandContext(ctx, "sh", "-c", `printf '%s' "$1"`, "sh", m.DefaultOutput) //nolint:gosec // test helper
}
