// Copyright 2026 The Fixcache Authors
// SPDX-License-Identifier: MIT

package history

import "github.com/davetashner/fixcache/internal/score"

// recordRename stores a rename edge. A path renamed to different targets
// on different branches keeps the lexicographically smallest target, so
// the mapping is independent of traversal order.
func recordRename(edges map[string]string, from, to string) {
	if existing, ok := edges[from]; ok && existing <= to {
		return
	}
	edges[from] = to
}

// canonicalize folds counts keyed by historical paths into their canonical
// identities: each path is resolved along its rename chain to the terminal
// name (the name that was never itself renamed away). Rename cycles, which
// arise when a file is renamed back and forth across history, are broken
// by picking the lexicographically smallest member of the cycle.
func canonicalize(counts score.Map, edges map[string]string) score.Map {
	resolved := make(map[string]string, len(edges))
	out := make(score.Map, len(counts))
	for path, n := range counts {
		out[resolve(path, edges, resolved)] += n
	}
	return out
}

// resolve follows rename edges from path to its terminal name, memoizing
// every hop. Cycle members all resolve to the smallest name in the cycle.
func resolve(path string, edges map[string]string, resolved map[string]string) string {
	if canon, ok := resolved[path]; ok {
		return canon
	}

	var chain []string
	onChain := make(map[string]int)
	cur := path

	for {
		if canon, ok := resolved[cur]; ok {
			markResolved(resolved, chain, canon)
			return canon
		}
		if at, ok := onChain[cur]; ok {
			// Cycle: everything from the first occurrence of cur loops.
			canon := smallest(chain[at:])
			markResolved(resolved, chain, canon)
			return canon
		}
		onChain[cur] = len(chain)
		chain = append(chain, cur)

		next, ok := edges[cur]
		if !ok {
			markResolved(resolved, chain, cur)
			return cur
		}
		cur = next
	}
}

func markResolved(resolved map[string]string, chain []string, canon string) {
	for _, p := range chain {
		resolved[p] = canon
	}
}

func smallest(paths []string) string {
	min := paths[0]
	for _, p := range paths[1:] {
		if p < min {
			min = p
		}
	}
	return min
}
