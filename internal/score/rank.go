// Copyright 2026 The Fixcache Authors
// SPDX-License-Identifier: MIT

package score

import "sort"

// RankedEntry is a single row of a defect-proneness report.
type RankedEntry struct {
	Path  string
	Score float64
	Rank  int // 1-based position in the report
}

// TopN returns the n highest-scoring entries, sorted by score descending.
// Equal scores are ordered by path ascending so repeated calls on the same
// input produce byte-for-byte identical reports. If n exceeds the map size
// all entries are returned; an empty map or n <= 0 yields an empty slice.
// The result is computed fresh on every call, never cached.
func TopN(scores Map, n int) []RankedEntry {
	if n <= 0 || len(scores) == 0 {
		return nil
	}

	entries := make([]RankedEntry, 0, len(scores))
	for path, s := range scores {
		entries = append(entries, RankedEntry{Path: path, Score: s})
	}

	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Score != entries[j].Score {
			return entries[i].Score > entries[j].Score
		}
		return entries[i].Path < entries[j].Path
	})

	if n < len(entries) {
		entries = entries[:n]
	}
	for i := range entries {
		entries[i].Rank = i + 1
	}
	return entries
}
