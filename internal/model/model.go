// Copyright 2026 The Fixcache Authors
// SPDX-License-Identifier: MIT

// Package model hosts pluggable raw-score sources. A Source produces a raw
// per-file score map under the same contract as history change counts, so
// any source composes with the core through score.Normalize and
// score.Blend rather than through a separate code path.
package model

import (
	"context"
	"math/rand"
	"sort"

	"github.com/davetashner/fixcache/internal/score"
)

// Source produces a raw (un-normalized) score map for a set of files.
type Source interface {
	// Name identifies the source in reports ("history", "simulated", ...).
	Name() string

	// Scores returns a raw score per file. An empty map means no signal.
	Scores(ctx context.Context, files []string) (score.Map, error)
}

// SimulatedSource stands in for a trained defect-prediction model by
// assigning each file a pseudo-random score. It exists to exercise the
// blending pipeline, not to predict anything: a fixed seed makes runs
// reproducible, which is all a placeholder needs to be.
type SimulatedSource struct {
	Seed int64
}

func (s *SimulatedSource) Name() string { return "simulated" }

// Scores assigns one pseudo-random value in [0,1) per file. Files are
// visited in sorted order so a given seed always produces the same map.
func (s *SimulatedSource) Scores(ctx context.Context, files []string) (score.Map, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	sorted := make([]string, len(files))
	copy(sorted, files)
	sort.Strings(sorted)

	rng := rand.New(rand.NewSource(s.Seed))
	raw := make(score.Map, len(sorted))
	for _, f := range sorted {
		raw[f] = rng.Float64()
	}
	return raw, nil
}
