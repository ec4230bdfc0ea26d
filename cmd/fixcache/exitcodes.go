// Copyright 2026 The Fixcache Authors
// SPDX-License-Identifier: MIT

package main

import (
	"fmt"
	"strings"
)

// Exit codes for the fixcache CLI.
const (
	ExitOK             = 0 // Ranking produced without warnings.
	ExitInvalidArgs    = 1 // Invalid arguments or bad path.
	ExitPartialFailure = 2 // Ranking produced but some units of work failed.
	ExitTotalFailure   = 3 // No usable history at all.
)

// exitCodeError carries a non-zero exit code through cobra's error handling.
type exitCodeError struct {
	code int
	msg  string
}

func (e *exitCodeError) Error() string { return e.msg }

// ExitCode returns the process exit code for this error.
func (e *exitCodeError) ExitCode() int { return e.code }

// exitError creates an exitCodeError. If format is empty, the error message
// is suppressed and only the exit code is used.
func exitError(code int, format string, args ...any) *exitCodeError {
	msg := ""
	if format != "" {
		msg = strings.TrimSpace(fmt.Sprintf(format, args...))
	}
	return &exitCodeError{code: code, msg: msg}
}
