// Copyright 2026 The Fixcache Authors
// SPDX-License-Identifier: MIT

// Package mcpserver implements an MCP (Model Context Protocol) server that
// exposes fixcache's ranking pipeline as tools over stdio transport.
package mcpserver

import (
	"fmt"
	"os"
	"path/filepath"
)

// ResolvePath resolves a repository path to an absolute, symlink-resolved
// directory. It returns an error if the path does not exist or is not a
// directory; history.Open handles "is it a repository" itself.
func ResolvePath(path string) (string, error) {
	if path == "" {
		path = "."
	}

	absPath, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("cannot resolve path %q: %w", path, err)
	}

	absPath, err = filepath.EvalSymlinks(absPath)
	if err != nil {
		return "", fmt.Errorf("cannot resolve path %q: %w", path, err)
	}

	info, err := os.Stat(absPath)
	if err != nil {
		return "", fmt.Errorf("path %q does not exist", path)
	}
	if !info.IsDir() {
		return "", fmt.Errorf("%q is not a directory", path)
	}
	return absPath, nil
}
