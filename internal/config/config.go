// Copyright 2026 The Fixcache Authors
// SPDX-License-Identifier: MIT

// Package config handles .fixcache.yaml configuration files and the
// optional TOML file defining custom analysis tools.
package config

// Config represents the contents of a .fixcache.yaml file. Every field is
// optional; command-line flags override file values.
type Config struct {
	// TopN caps the ranking report length.
	TopN int `yaml:"top_n,omitempty"`

	// Ref restricts history mining to one ref; empty means all branches.
	Ref string `yaml:"ref,omitempty"`

	// FollowRenames enables rename detection during the history walk.
	FollowRenames bool `yaml:"follow_renames,omitempty"`

	// HalfLife enables recency-decayed change weighting when set
	// (a Go duration string, e.g. "2160h" for 90 days).
	HalfLife string `yaml:"half_life,omitempty"`

	// Workers bounds history-walk parallelism (0 = GOMAXPROCS).
	Workers int `yaml:"workers,omitempty"`

	// Exclude lists glob patterns skipped by worktree scans.
	Exclude []string `yaml:"exclude,omitempty"`

	// BlendWeight is the weight on history scores when blending with a
	// second source (0..1, default 0.5).
	BlendWeight *float64 `yaml:"blend_weight,omitempty"`

	Analysis  AnalysisConfig  `yaml:"analysis,omitempty"`
	Simulated SimulatedConfig `yaml:"simulated,omitempty"`
}

// AnalysisConfig holds external static-analysis settings.
type AnalysisConfig struct {
	// Enabled runs registered tools and blends their findings in.
	Enabled bool `yaml:"enabled,omitempty"`

	// Tools restricts which registered tools run. Empty means all.
	Tools []string `yaml:"tools,omitempty"`

	// Concurrency bounds parallel tool invocations.
	Concurrency int `yaml:"concurrency,omitempty"`

	// Timeout is the per-invocation timeout (Go duration string).
	Timeout string `yaml:"timeout,omitempty"`

	// ToolsFile points at a TOML file defining custom tools.
	ToolsFile string `yaml:"tools_file,omitempty"`
}

// SimulatedConfig holds settings for the simulated model source.
type SimulatedConfig struct {
	// Enabled blends the simulated source into the ranking.
	Enabled bool `yaml:"enabled,omitempty"`

	// Seed fixes the simulated source's RNG for reproducible runs.
	Seed int64 `yaml:"seed,omitempty"`
}

// FileName is the expected config file name in a repository root.
const FileName = ".fixcache.yaml"
