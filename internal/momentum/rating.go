package momentum

import (
	"sort"

	"github.com/wonny/momentum-ranker/internal/contracts"
)

// PercentileRanks returns, for each score, its percentile rank in 0-100.
// Scores are ranked ascending from 1; tied scores share the average of their
// ranks; the rank is divided by n and scaled to 100.
func PercentileRanks(scores []float64) []float64 {
	n := len(scores)
	pct := make([]float64, n)
	if n == 0 {
		return pct
	}

	order := make([]int, n)
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return scores[order[a]] < scores[order[b]]
	})

	for start := 0; start < n; {
		end := start + 1
		for end < n && scores[order[end]] == scores[order[start]] {
			end++
		}
		// positions start..end-1 hold ranks start+1..end
		avgRank := float64(start+1+end) / 2
		for k := start; k < end; k++ {
			pct[order[k]] = avgRank / float64(n) * 100
		}
		start = end
	}
	return pct
}

// rateAndRank fills Rating, sorts by score descending and assigns ranks 1..n.
// Equal scores keep ticker order so ranks stay deterministic.
// ⭐ SSOT: 백분위 평가 및 순위 부여는 여기서만
func rateAndRank(rows []contracts.ScoredInstrument) {
	scores := make([]float64, len(rows))
	for i := range rows {
		scores[i] = rows[i].Score
	}

	ratings := PercentileRanks(scores)
	for i := range rows {
		rows[i].Rating = ratings[i]
	}

	sort.SliceStable(rows, func(i, j int) bool {
		if rows[i].Score != rows[j].Score {
			return rows[i].Score > rows[j].Score
		}
		return rows[i].Ticker < rows[j].Ticker
	})

	for i := range rows {
		rows[i].Rank = i + 1
	}
}
