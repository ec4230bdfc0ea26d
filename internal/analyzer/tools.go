// Copyright 2026 The Fixcache Authors
// SPDX-License-Identifier: MIT

package analyzer

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/davetashner/fixcache/internal/fileset"
)

// execTool is a command-line tool adapter driven by a finding-line
// pattern. All built-in adapters and TOML-defined custom tools are
// execTool instances.
type execTool struct {
	name        string
	bin         string
	args        []string // fixed arguments, file path appended last
	categories  []fileset.Category
	findingLine *regexp.Regexp
	parseStderr bool // findings are written to stderr instead of stdout
	exitIsError bool // any non-zero exit is a failure, output discarded
	skip        func(path string) bool
}

func (t *execTool) Name() string { return t.name }

func (t *execTool) Categories() []fileset.Category { return t.categories }

func (t *execTool) Command(path string) (string, []string) {
	args := make([]string, 0, len(t.args)+1)
	args = append(args, t.args...)
	args = append(args, path)
	return t.bin, args
}

func (t *execTool) Match(path string) bool {
	return t.skip == nil || !t.skip(path)
}

func (t *execTool) ParseFindings(exitCode int, stdout, stderr string) (int, error) {
	if exitCode != 0 && t.exitIsError {
		return 0, fmt.Errorf("exit status %d: %s", exitCode, firstLine(stderr))
	}

	out := stdout
	if t.parseStderr {
		out = stderr
	}

	count := 0
	for _, line := range strings.Split(out, "\n") {
		if t.findingLine.MatchString(line) {
			count++
		}
	}
	return count, nil
}

func firstLine(s string) string {
	s = strings.TrimSpace(s)
	if idx := strings.IndexByte(s, '\n'); idx >= 0 {
		return s[:idx]
	}
	return s
}

// locationLine matches "path:line:" or "path:line:col:" prefixes common to
// cppcheck, go vet, and most other file/line-oriented analyzers.
var locationLine = regexp.MustCompile(`^\S.*:\d+(:\d+)?:`)

// spotbugsLine matches SpotBugs text-ui finding lines, which start with a
// severity letter and category (e.g. "M C NP: ...").
var spotbugsLine = regexp.MustCompile(`^[HML] [A-Z] [A-Z0-9_]+:`)

func init() {
	// cppcheck reports findings on stderr and exits 0 even when it finds
	// problems (unless --error-exitcode is set).
	Register(&execTool{
		name:        "cppcheck",
		bin:         "cppcheck",
		args:        []string{"--enable=warning,style,performance"},
		categories:  []fileset.Category{fileset.CategoryC, fileset.CategoryCPP},
		findingLine: locationLine,
		parseStderr: true,
	})

	// spotbugs analyzes compiled classes; a non-zero exit means the run
	// itself failed. Generated module descriptors are skipped.
	Register(&execTool{
		name:        "spotbugs",
		bin:         "spotbugs",
		args:        []string{"-textui"},
		categories:  []fileset.Category{fileset.CategoryJava},
		findingLine: spotbugsLine,
		exitIsError: true,
		skip: func(path string) bool {
			return strings.HasSuffix(path, "module-info.java")
		},
	})

	// go vet exits 1 when it reports diagnostics, on stderr.
	Register(&execTool{
		name:        "govet",
		bin:         "go",
		args:        []string{"vet"},
		categories:  []fileset.Category{fileset.CategoryGo},
		findingLine: locationLine,
		parseStderr: true,
	})
}

// NewCustomTool builds a tool adapter from user-supplied settings (see
// config.ToolDef). The pattern defaults to the shared location-line match.
func NewCustomTool(name, bin string, args []string, categories []string, pattern string, stderr bool) (Tool, error) {
	if name == "" || bin == "" {
		return nil, fmt.Errorf("custom tool requires a name and a command")
	}

	findingLine := locationLine
	if pattern != "" {
		re, err := regexp.Compile(pattern)
		if err != nil {
			return nil, fmt.Errorf("custom tool %s: invalid pattern: %w", name, err)
		}
		findingLine = re
	}

	cats := make([]fileset.Category, len(categories))
	for i, c := range categories {
		cats[i] = fileset.Category(c)
	}

	return &execTool{
		name:        name,
		bin:         bin,
		args:        args,
		categories:  cats,
		findingLine: findingLine,
		parseStderr: stderr,
	}, nil
}
