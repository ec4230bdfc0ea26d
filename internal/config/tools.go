// Copyright 2026 The Fixcache Authors
// SPDX-License-Identifier: MIT

package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/BurntSushi/toml"
)

// ToolsFile is the TOML file shape for user-defined analysis tools:
//
//	[[tool]]
//	name = "pylint"
//	command = "pylint"
//	args = ["--output-format=parseable"]
//	categories = ["python"]
//	pattern = ':\d+:'
//	stderr = false
type ToolsFile struct {
	Tools []ToolDef `toml:"tool"`
}

// ToolDef describes one custom tool adapter.
type ToolDef struct {
	Name       string   `toml:"name"`
	Command    string   `toml:"command"`
	Args       []string `toml:"args"`
	Categories []string `toml:"categories"`
	Pattern    string   `toml:"pattern"`
	Stderr     bool     `toml:"stderr"`
}

// LoadTools parses custom tool definitions from a TOML file. A missing
// file yields no tools and no error so the setting can be left in a shared
// config without every checkout carrying the file.
func LoadTools(path string) ([]ToolDef, error) {
	data, err := os.ReadFile(path) //nolint:gosec // user-provided tools file
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, err
	}

	var f ToolsFile
	if err := toml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parsing tools file %s: %w", path, err)
	}
	return f.Tools, nil
}
