// Copyright 2026 The Fixcache Authors
// SPDX-License-Identifier: MIT

// Package fileset enumerates the code files in a repository worktree and
// classifies them into language categories used by the analyzer registry
// and the simulated model.
package fileset

import (
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"golang.org/x/mod/modfile"
)

// Category is a coarse language bucket used to match files to analysis
// tools. Adding a language means adding a category mapping and registering
// an adapter, not branching in the core.
type Category string

const (
	CategoryGo     Category = "go"
	CategoryJava   Category = "java"
	CategoryC      Category = "c"
	CategoryCPP    Category = "cpp"
	CategoryPython Category = "python"
	CategoryJS     Category = "javascript"
)

// categoryByExt maps file extensions to categories. The extension set
// mirrors the filter the simulated model applies to worktree files.
var categoryByExt = map[string]Category{
	".go":   CategoryGo,
	".java": CategoryJava,
	".c":    CategoryC,
	".h":    CategoryC,
	".cpp":  CategoryCPP,
	".cc":   CategoryCPP,
	".hpp":  CategoryCPP,
	".py":   CategoryPython,
	".js":   CategoryJS,
}

// skipDirs are directory names never descended into.
var skipDirs = map[string]bool{
	".git":         true,
	"node_modules": true,
	"vendor":       true,
}

// File is one classified worktree file, with its path relative to the
// repository root.
type File struct {
	Path     string
	Category Category
}

// Set is the classified contents of a worktree.
type Set struct {
	Files []File

	// GoModule is the module path parsed from a root go.mod, when present.
	GoModule string
}

// Paths returns the relative paths of all files, sorted.
func (s *Set) Paths() []string {
	paths := make([]string, len(s.Files))
	for i, f := range s.Files {
		paths[i] = f.Path
	}
	return paths
}

// ByCategory groups files by category.
func (s *Set) ByCategory() map[Category][]File {
	out := make(map[Category][]File)
	for _, f := range s.Files {
		out[f.Category] = append(out[f.Category], f)
	}
	return out
}

// Categories returns the distinct categories present, sorted.
func (s *Set) Categories() []Category {
	seen := make(map[Category]bool)
	for _, f := range s.Files {
		seen[f.Category] = true
	}
	cats := make([]Category, 0, len(seen))
	for c := range seen {
		cats = append(cats, c)
	}
	sort.Slice(cats, func(i, j int) bool { return cats[i] < cats[j] })
	return cats
}

// Scan walks the worktree at root and returns its classified code files in
// sorted path order. Files matching any exclude glob (matched against the
// relative path) are skipped. Unreadable subtrees are skipped rather than
// failing the scan.
func Scan(root string, exclude []string) (*Set, error) {
	set := &Set{}

	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if d != nil && d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if d.IsDir() {
			if skipDirs[d.Name()] {
				return filepath.SkipDir
			}
			return nil
		}

		rel, relErr := filepath.Rel(root, path)
		if relErr != nil {
			return nil
		}
		rel = filepath.ToSlash(rel)
		if excluded(rel, exclude) {
			return nil
		}

		cat, ok := categoryByExt[strings.ToLower(filepath.Ext(rel))]
		if !ok {
			return nil
		}
		set.Files = append(set.Files, File{Path: rel, Category: cat})
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Slice(set.Files, func(i, j int) bool { return set.Files[i].Path < set.Files[j].Path })
	set.GoModule = goModule(root)
	return set, nil
}

// excluded reports whether rel matches any exclude glob, either on the
// full path or on any path segment prefix.
func excluded(rel string, patterns []string) bool {
	for _, pat := range patterns {
		if pat == "" {
			continue
		}
		if ok, _ := filepath.Match(pat, rel); ok {
			return true
		}
		if ok, _ := filepath.Match(pat, filepath.Base(rel)); ok {
			return true
		}
		if strings.HasPrefix(rel, strings.TrimSuffix(pat, "/")+"/") {
			return true
		}
	}
	return false
}

// goModule parses the module path from root/go.mod, returning "" when the
// file is absent or unparseable.
func goModule(root string) string {
	data, err := os.ReadFile(filepath.Join(root, "go.mod"))
	if err != nil {
		return ""
	}
	f, err := modfile.Parse("go.mod", data, nil)
	if err != nil || f.Module == nil {
		return ""
	}
	return f.Module.Mod.Path
}
