// Copyright 2024 The Carvel Authors.
// SPDX-License-Identifier: Apache-2.0

package spell

// Nearest returns the candidate closest to word by edit distance, or ""
// when none is within a third of word's length. Ties go to the candidate
// listed first.
func Nearest(word string, candidates []string) string {
	limit := len([]rune(word)) / 3
	best := ""
	bestDist := limit + 1

	for _, candidate := range candidates {
		dist := Distance(word, candidate)
		if dist < bestDist {
			best, bestDist = candidate, dist
		}
	}
	return best
}

// Distance is the optimal string alignment distance between a and b,
// counted in runes: insertions, deletions, substitutions and swaps of two
// adjacent runes each cost one edit.
func Distance(a, b string) int {
	ra, rb := []rune(a), []rune(b)

	prevPrev := make([]int, len(rb)+1)
	prev := make([]int, len(rb)+1)
	curr := make([]int, len(rb)+1)
	for j := range prev {
		prev[j] = j
	}

	for i := 1; i <= len(ra); i++ {
		curr[0] = i
		for j := 1; j <= len(rb); j++ {
			cost := 1
			if ra[i-1] == rb[j-1] {
				cost = 0
			}
			curr[j] = min(prev[j]+1, curr[j-1]+1, prev[j-1]+cost)
			if i > 1 && j > 1 && ra[i-1] == rb[j-2] && ra[i-2] == rb[j-1] {
				curr[j] = min(curr[j], prevPrev[j-2]+1)
			}
		}
		prevPrev, prev, curr = prev, curr, prevPrev
	}
	return prev[len(rb)]
}
