// SPDX-FileCopyrightText: 2025 The Unipkg Authors
// SPDX-License-Identifier: EUPL-1.2

package domain

import (
	"cmp"
	"slices"
)

// QuickRatio is an upper bound on the matching-block similarity of a and b:
// twice the size of their character multiset intersection over the sum of
// their lengths. Two empty strings are identical.
func QuickRatio(a, b string) float64 {
	ar, br := []rune(a), []rune(b)

	total := len(ar) + len(br)
	if total == 0 {
		return 1.0
	}

	avail := make(map[rune]int, len(br))
	for _, r := range br {
		avail[r]++
	}

	matches := 0

	for _, r := range ar {
		if avail[r] > 0 {
			avail[r]--
			matches++
		}
	}

	return 2.0 * float64(matches) / float64(total)
}

// RankBestMatch orders names by descending similarity to query. Ties keep
// their input order. Duplicate names are reported once.
func RankBestMatch(names []string, query string) []string {
	type scored struct {
		name  string
		ratio float64
	}

	seen := make(map[string]bool, len(names))
	candidates := make([]scored, 0, len(names))

	for _, name := range names {
		if seen[name] {
			continue
		}

		seen[name] = true
		candidates = append(candidates, scored{name: name, ratio: QuickRatio(name, query)})
	}

	slices.SortStableFunc(candidates, func(x, y scored) int {
		return cmp.Compare(y.ratio, x.ratio)
	})

	ranked := make([]string, len(candidates))
	for i, c := range candidates {
		ranked[i] = c.name
	}

	return ranked
}
