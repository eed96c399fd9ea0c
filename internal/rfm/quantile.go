package rfm

import "sort"

// Quantile scoring with a tiered degradation strategy instead of the
// exception-driven fallback chains this replaces:
//
//  1. a single distinct value scores everyone 1;
//  2. duplicate quantile edges collapse, reducing the effective bin count;
//  3. anything unscorable defaults to 1.
//
// Both helpers are total: they return a score for every input value and never
// fail, whatever the distribution looks like.

// scoreByValue bins raw values into up to bins quantile buckets and scores
// them 1..effective-bins ascending, or descending when inverted (used for
// recency, where a smaller value is better).
func scoreByValue(values []float64, bins int, invert bool) []int {
	scores := make([]int, len(values))
	for i := range scores {
		scores[i] = 1
	}
	if len(values) == 0 || bins < 2 {
		return scores
	}

	sorted := append([]float64(nil), values...)
	sort.Float64s(sorted)

	if sorted[0] == sorted[len(sorted)-1] {
		return scores // degenerate: one distinct value
	}

	// Nearest-rank quantile edges, deduplicated. Interval semantics are
	// (prev, edge]: a value belongs to the first edge it does not exceed.
	edges := make([]float64, 0, bins-1)
	for i := 1; i < bins; i++ {
		idx := i * (len(sorted) - 1) / bins
		edge := sorted[idx]
		if len(edges) == 0 || edge > edges[len(edges)-1] {
			edges = append(edges, edge)
		}
	}
	// An edge equal to the maximum would leave the top bin empty.
	for len(edges) > 0 && edges[len(edges)-1] >= sorted[len(sorted)-1] {
		edges = edges[:len(edges)-1]
	}
	if len(edges) == 0 {
		return scores
	}
	effBins := len(edges) + 1

	for i, v := range values {
		bin := len(edges)
		for e, edge := range edges {
			if v <= edge {
				bin = e
				break
			}
		}
		if invert {
			scores[i] = effBins - bin
		} else {
			scores[i] = bin + 1
		}
	}
	return scores
}

// scoreByRank ranks values first (ties broken by position) and bins the ranks
// into equal-frequency buckets scored 1..bins ascending. Ranking sidesteps
// duplicate-edge collapse for heavily tied distributions such as order
// counts; a single distinct value still scores everyone 1.
func scoreByRank(values []float64, bins int) []int {
	scores := make([]int, len(values))
	for i := range scores {
		scores[i] = 1
	}
	n := len(values)
	if n == 0 || bins < 2 {
		return scores
	}

	distinct := true
	for i := 1; i < n; i++ {
		if values[i] != values[0] {
			distinct = false
			break
		}
	}
	if distinct {
		return scores
	}

	idx := make([]int, n)
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(a, b int) bool {
		if values[idx[a]] != values[idx[b]] {
			return values[idx[a]] < values[idx[b]]
		}
		return idx[a] < idx[b]
	})

	for rank, i := range idx {
		score := 1 + rank*bins/n
		if score > bins {
			score = bins
		}
		scores[i] = score
	}
	return scores
}
