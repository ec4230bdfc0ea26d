// Copyright 2026 The Fixcache Authors
// SPDX-License-Identifier: MIT

// Package score implements the scoring primitives fixcache is built on:
// normalizing raw per-file counts into a probability-like distribution,
// blending two distributions, and producing ranked top-N reports.
package score

// Map associates file paths with non-negative scores. An empty Map is
// valid and means "no signal". A Map returned by Normalize sums to 1.0
// (within floating-point tolerance) whenever it is non-empty.
type Map map[string]float64

// Total returns the sum of all values in the map.
func (m Map) Total() float64 {
	var total float64
	for _, v := range m {
		total += v
	}
	return total
}

// Clone returns an independent copy of the map.
func (m Map) Clone() Map {
	out := make(Map, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

// Normalize scales raw values so they sum to 1.0. The input may be change
// counts, external tool findings, or any other non-negative per-file
// signal. If the total is zero (empty input or all-zero values) it returns
// an empty Map: that is the defined "no signal" outcome, not an error.
// Feeding an already-normalized map back in is a no-op within tolerance.
func Normalize(raw Map) Map {
	total := raw.Total()
	if total == 0 {
		return Map{}
	}

	scores := make(Map, len(raw))
	for path, v := range raw {
		scores[path] = v / total
	}
	return scores
}

// Blend combines two already-normalized maps with weight w on a and (1-w)
// on b. A key missing from either map contributes 0 for that map. Weights
// outside [0,1] are clamped. Blending two empty maps yields an empty Map.
func Blend(a, b Map, w float64) Map {
	if w < 0 {
		w = 0
	} else if w > 1 {
		w = 1
	}

	blended := make(Map, max(len(a), len(b)))
	for path, v := range a {
		blended[path] = w * v
	}
	for path, v := range b {
		blended[path] += (1 - w) * v
	}
	if len(blended) == 0 {
		return Map{}
	}
	return blended
}
