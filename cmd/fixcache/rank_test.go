package main

import (
	"bytes"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/davetashner/fixcache/internal/history"
	"github.com/davetashner/fixcache/internal/report"
	"github.com/davetashner/fixcache/internal/score"
)

func TestSplitAndTrim(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{name: "simple", input: "a,b,c", want: []string{"a", "b", "c"}},
		{name: "whitespace", input: " cppcheck , govet ", want: []string{"cppcheck", "govet"}},
		{name: "empty items", input: "a,,b,", want: []string{"a", "b"}},
		{name: "empty string", input: "", want: nil},
		{name: "only commas", input: ",,,", want: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, splitAndTrim(tt.input))
		})
	}
}

func TestRenderRunFormats(t *testing.T) {
	run := &report.Run{
		Entries:  []score.RankedEntry{{Rank: 1, Path: "a.py", Score: 1}},
		TopN:     10,
		Sources:  []string{"history"},
		Duration: time.Second,
	}

	for _, format := range []string{"text", "json", "plain"} {
		var buf bytes.Buffer
		require.NoErrorf(t, renderRun(run, format, &buf), "format %s", format)
		assert.Contains(t, buf.String(), "a.py")
	}
}

func TestRenderRunUnknownFormat(t *testing.T) {
	err := renderRun(&report.Run{}, "xml", &bytes.Buffer{})
	require.Error(t, err)

	var codeErr *exitCodeError
	require.ErrorAs(t, err, &codeErr)
	assert.Equal(t, ExitInvalidArgs, codeErr.ExitCode())
	assert.Contains(t, codeErr.Error(), "unknown format")
}

func TestRankErrorMapping(t *testing.T) {
	access := &history.RepositoryAccessError{Path: "/nope", Err: errors.New("no .git")}
	var codeErr *exitCodeError

	require.ErrorAs(t, rankError(access), &codeErr)
	assert.Equal(t, ExitInvalidArgs, codeErr.ExitCode())

	require.ErrorAs(t, rankError(errors.New("walk failed")), &codeErr)
	assert.Equal(t, ExitTotalFailure, codeErr.ExitCode())
}

func TestExitError(t *testing.T) {
	err := exitError(ExitPartialFailure, "fixcache: %d warning(s) recorded", 3)
	assert.Equal(t, ExitPartialFailure, err.ExitCode())
	assert.Equal(t, "fixcache: 3 warning(s) recorded", err.Error())

	silent := exitError(ExitTotalFailure, "")
	assert.Equal(t, ExitTotalFailure, silent.ExitCode())
	assert.Empty(t, silent.Error())
}
