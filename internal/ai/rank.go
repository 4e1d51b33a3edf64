package ai

import "sort"

// RankResult aggregates per-candidate similarity scores.
type RankResult struct {
	Highest int
	Top3    []RankedIdea
}

// Rank sorts by similarity descending and truncates to the top three.
// The sort is stable so ties keep their prompt order. An empty input
// yields highest 0 and an empty list.
func Rank(parsed []RankedIdea) RankResult {
	sorted := make([]RankedIdea, len(parsed))
	copy(sorted, parsed)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Similarity > sorted[j].Similarity
	})
	result := RankResult{Top3: sorted}
	if len(sorted) > 0 {
		result.Highest = sorted[0].Similarity
	}
	if len(result.Top3) > 3 {
		result.Top3 = result.Top3[:3]
	}
	return result
}
