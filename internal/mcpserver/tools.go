// Copyright 2026 The Fixcache Authors
// SPDX-License-Identifier: MIT

package mcpserver

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/davetashner/fixcache/internal/analyzer"
	"github.com/davetashner/fixcache/internal/pipeline"
	"github.com/davetashner/fixcache/internal/report"
)

// RankInput is the input schema for the fixcache rank MCP tool.
type RankInput struct {
	Path          string   `json:"path" jsonschema:"Repository path to rank (defaults to current directory)"`
	TopN          int      `json:"top_n,omitempty" jsonschema:"Report length (default 10)"`
	Ref           string   `json:"ref,omitempty" jsonschema:"Restrict mining to one ref (default: all branches)"`
	FollowRenames bool     `json:"follow_renames,omitempty" jsonschema:"Resolve renamed files to one identity"`
	WithAnalysis  bool     `json:"with_analysis,omitempty" jsonschema:"Blend in external static-analysis findings"`
	WithSimulated bool     `json:"with_simulated,omitempty" jsonschema:"Blend in the simulated model source"`
	Seed          int64    `json:"seed,omitempty" jsonschema:"Seed for the simulated source"`
	BlendWeight   *float64 `json:"blend_weight,omitempty" jsonschema:"Weight on history when blending (0.0-1.0, default 0.5)"`
}

// ToolsInput is the input schema for the fixcache tools MCP tool.
type ToolsInput struct{}

// boolPtr returns a pointer to a bool.
func boolPtr(b bool) *bool { return &b }

// registerTools adds all fixcache tools to the MCP server.
func registerTools(server *mcp.Server) {
	mcp.AddTool(server, &mcp.Tool{
		Name:        "rank",
		Description: "Rank a repository's files by defect-proneness mined from commit history, optionally blended with static-analysis findings. Returns a JSON report.",
		Annotations: &mcp.ToolAnnotations{
			ReadOnlyHint:    true,
			DestructiveHint: boolPtr(false),
			OpenWorldHint:   boolPtr(false),
		},
	}, handleRank)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "tools",
		Description: "List the registered static-analysis tool adapters and the file categories they cover.",
		Annotations: &mcp.ToolAnnotations{
			ReadOnlyHint:    true,
			DestructiveHint: boolPtr(false),
			OpenWorldHint:   boolPtr(false),
		},
	}, handleTools)
}

func handleRank(ctx context.Context, _ *mcp.CallToolRequest, input RankInput) (*mcp.CallToolResult, any, error) {
	repoPath, err := ResolvePath(input.Path)
	if err != nil {
		return nil, nil, err
	}
	if input.BlendWeight != nil && (*input.BlendWeight < 0 || *input.BlendWeight > 1) {
		return nil, nil, fmt.Errorf("blend_weight must be between 0.0 and 1.0, got %g", *input.BlendWeight)
	}
	seed := input.Seed
	if input.WithSimulated && seed == 0 {
		seed = time.Now().UnixNano()
	}

	run, err := pipeline.Run(ctx, pipeline.Options{
		RepoPath:      repoPath,
		TopN:          input.TopN,
		Ref:           input.Ref,
		FollowRenames: input.FollowRenames,
		WithAnalysis:  input.WithAnalysis,
		WithSimulated: input.WithSimulated,
		Seed:          seed,
		BlendWeight:   input.BlendWeight,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("rank failed: %w", err)
	}

	var buf bytes.Buffer
	if err := report.RenderJSON(run, &buf); err != nil {
		return nil, nil, err
	}
	return textResult(buf.String()), nil, nil
}

func handleTools(_ context.Context, _ *mcp.CallToolRequest, _ ToolsInput) (*mcp.CallToolResult, any, error) {
	var b strings.Builder
	for _, name := range analyzer.List() {
		t := analyzer.Get(name)
		cats := make([]string, len(t.Categories()))
		for i, c := range t.Categories() {
			cats[i] = string(c)
		}
		fmt.Fprintf(&b, "%s: %s\n", name, strings.Join(cats, ", "))
	}
	return textResult(b.String()), nil, nil
}

func textResult(text string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: text}},
	}
}
