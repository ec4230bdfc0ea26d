package fileset

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// writeTree materializes a map of relative path -> content under a temp dir.
func writeTree(t *testing.T, files map[string]string) string {
	t.Helper()
	root := t.TempDir()
	for rel, content := range files {
		abs := filepath.Join(root, filepath.FromSlash(rel))
		require.NoError(t, os.MkdirAll(filepath.Dir(abs), 0o750))
		require.NoError(t, os.WriteFile(abs, []byte(content), 0o600))
	}
	return root
}

func TestScanClassifiesByExtension(t *testing.T) {
	root := writeTree(t, map[string]string{
		"main.go":       "package main\n",
		"lib/util.py":   "pass\n",
		"src/app.java":  "class App {}\n",
		"src/core.cpp":  "int main() {}\n",
		"src/core.h":    "#pragma once\n",
		"web/index.js":  "console.log(1);\n",
		"README.md":     "docs\n",
		"Makefile":      "all:\n",
		"data/info.txt": "notes\n",
	})

	set, err := Scan(root, nil)
	require.NoError(t, err)

	assert.Equal(t, []string{
		"lib/util.py",
		"main.go",
		"src/app.java",
		"src/core.cpp",
		"src/core.h",
		"web/index.js",
	}, set.Paths())

	byCat := set.ByCategory()
	assert.Len(t, byCat[CategoryGo], 1)
	assert.Len(t, byCat[CategoryC], 1)
	assert.Len(t, byCat[CategoryCPP], 1)
	assert.Equal(t, "src/core.h", byCat[CategoryC][0].Path)
}

func TestScanSkipsVendoredDirs(t *testing.T) {
	root := writeTree(t, map[string]string{
		"main.go":                 "package main\n",
		".git/hooks/sample.py":    "pass\n",
		"node_modules/pkg/a.js":   "x\n",
		"vendor/dep/dep.go":       "package dep\n",
		"internal/deep/vendor.go": "package deep\n",
	})

	set, err := Scan(root, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"internal/deep/vendor.go", "main.go"}, set.Paths())
}

func TestScanExcludeGlobs(t *testing.T) {
	root := writeTree(t, map[string]string{
		"main.go":           "package main\n",
		"main_test.go":      "package main\n",
		"gen/schema.go":     "package gen\n",
		"gen/nested/out.go": "package nested\n",
	})

	set, err := Scan(root, []string{"*_test.go", "gen/"})
	require.NoError(t, err)
	assert.Equal(t, []string{"main.go"}, set.Paths())
}

func TestScanCategories(t *testing.T) {
	root := writeTree(t, map[string]string{
		"a.py": "pass\n",
		"b.py": "pass\n",
		"c.go": "package c\n",
	})

	set, err := Scan(root, nil)
	require.NoError(t, err)
	assert.Equal(t, []Category{CategoryGo, CategoryPython}, set.Categories())
}

func TestScanGoModule(t *testing.T) {
	root := writeTree(t, map[string]string{
		"go.mod":  "module example.com/widget\n\ngo 1.25\n",
		"main.go": "package main\n",
	})

	set, err := Scan(root, nil)
	require.NoError(t, err)
	assert.Equal(t, "example.com/widget", set.GoModule)
}

func TestScanNoGoModule(t *testing.T) {
	root := writeTree(t, map[string]string{"a.py": "pass\n"})

	set, err := Scan(root, nil)
	require.NoError(t, err)
	assert.Empty(t, set.GoModule)
}

func TestScanEmptyTree(t *testing.T) {
	set, err := Scan(t.TempDir(), nil)
	require.NoError(t, err)
	assert.Empty(t, set.Files)
	assert.Empty(t, set.Categories())
}
