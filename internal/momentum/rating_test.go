package momentum

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonny/momentum-ranker/internal/contracts"
)

func TestPercentileRanks(t *testing.T) {
	tests := []struct {
		name   string
		scores []float64
		want   []float64
	}{
		{"empty", nil, []float64{}},
		{"single", []float64{0.5}, []float64{100}},
		{"two distinct", []float64{0.04, 0}, []float64{100, 50}},
		{"four distinct", []float64{0.3, 0.1, 0.4, 0.2}, []float64{75, 25, 100, 50}},
		{"all tied", []float64{1, 1, 1, 1}, []float64{62.5, 62.5, 62.5, 62.5}},
		{"middle tie", []float64{0.1, 0.2, 0.2, 0.3}, []float64{25, 62.5, 62.5, 100}},
		{"negative scores", []float64{-0.2, -0.1}, []float64{50, 100}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := PercentileRanks(tt.scores)
			require.Len(t, got, len(tt.want))
			for i := range tt.want {
				assert.InDelta(t, tt.want[i], got[i], 1e-9, "index %d", i)
			}
		})
	}
}

func TestPercentileRanks_MonotonicInvariance(t *testing.T) {
	scores := []float64{0.12, -0.05, 0.33, 0.12, 0.01, -0.4, 0.2}

	transformed := make([]float64, len(scores))
	for i, s := range scores {
		transformed[i] = math.Exp(3*s) + 5
	}

	assert.Equal(t, PercentileRanks(scores), PercentileRanks(transformed))
}

func TestPercentileRanks_Bounds(t *testing.T) {
	scores := []float64{3, -1, 0, 7, 7, 2, -9, 0.5}
	pct := PercentileRanks(scores)

	for _, p := range pct {
		assert.Greater(t, p, 0.0)
		assert.LessOrEqual(t, p, 100.0)
	}
	assert.Equal(t, pct[3], pct[4])
	assert.Less(t, pct[3], 100.0, "tied maximum averages below 100")
}

func TestRateAndRank_OrderAndRanks(t *testing.T) {
	rows := []contracts.ScoredInstrument{
		{Ticker: "CCC3", Score: 0.05},
		{Ticker: "AAA3", Score: 0.20},
		{Ticker: "BBB4", Score: -0.10},
		{Ticker: "DDD3", Score: 0.11},
	}

	rateAndRank(rows)

	tickers := make([]string, len(rows))
	for i, r := range rows {
		tickers[i] = r.Ticker
		assert.Equal(t, i+1, r.Rank)
	}
	assert.Equal(t, []string{"AAA3", "DDD3", "CCC3", "BBB4"}, tickers)

	for i := 1; i < len(rows); i++ {
		assert.GreaterOrEqual(t, rows[i-1].Score, rows[i].Score)
		assert.GreaterOrEqual(t, rows[i-1].Rating, rows[i].Rating)
	}
	assert.Equal(t, 100.0, rows[0].Rating)
	assert.Equal(t, 25.0, rows[3].Rating)
}

func TestRateAndRank_TiesShareRatingNotRank(t *testing.T) {
	rows := []contracts.ScoredInstrument{
		{Ticker: "ZZZ3", Score: 0.10},
		{Ticker: "AAA3", Score: 0.10},
		{Ticker: "LOW3", Score: 0.01},
	}

	rateAndRank(rows)

	require.Len(t, rows, 3)
	assert.Equal(t, "AAA3", rows[0].Ticker, "ticker breaks the tie")
	assert.Equal(t, "ZZZ3", rows[1].Ticker)
	assert.Equal(t, 1, rows[0].Rank)
	assert.Equal(t, 2, rows[1].Rank)
	assert.Equal(t, rows[0].Rating, rows[1].Rating)
	assert.InDelta(t, 2.5/3*100, rows[0].Rating, 1e-9)
	assert.InDelta(t, 1.0/3*100, rows[2].Rating, 1e-9)
}

func TestRateAndRank_Empty(t *testing.T) {
	assert.NotPanics(t, func() {
		rateAndRank(nil)
		rateAndRank([]contracts.ScoredInstrument{})
	})
}
