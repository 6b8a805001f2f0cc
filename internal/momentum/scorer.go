package momentum

import (
	"fmt"

	"github.com/wonny/momentum-ranker/internal/contracts"
)

// MinHistory is the fewest valid closes an instrument needs: the oldest window
// anchor sits 252 points before the latest close.
const MinHistory = 253

// TrendLength is the number of trailing closes kept for the trend column (~1 month)
const TrendLength = 22

// WindowOffsets are the anchors, counted backward from the latest close
var WindowOffsets = [4]int{63, 126, 189, 252}

// Weights apply to the four window returns, most recent first. Sum = 1.0
var Weights = [4]float64{0.40, 0.30, 0.20, 0.10}

// ScoreInstrument scores one instrument's close history
// ⭐ SSOT: 종목별 모멘텀 점수 계산은 여기서만
//
// Pure function of its input; safe to call concurrently.
func ScoreInstrument(ticker string, series contracts.PriceSeries) contracts.Outcome {
	closes := series.Clean().Closes()

	if len(closes) < MinHistory {
		return contracts.Outcome{Skipped: &contracts.SkippedInstrument{
			Ticker: ticker,
			Reason: contracts.SkipInsufficientHistory,
			Points: len(closes),
			Detail: fmt.Sprintf("need %d points, have %d", MinHistory, len(closes)),
		}}
	}

	returns, err := windowReturns(closes)
	if err != nil {
		return contracts.Outcome{Skipped: &contracts.SkippedInstrument{
			Ticker: ticker,
			Reason: contracts.SkipWindowLookup,
			Points: len(closes),
			Detail: err.Error(),
		}}
	}

	return contracts.Outcome{Scored: &contracts.ScoredInstrument{
		Ticker: ticker,
		R63:    returns[0],
		R126:   returns[1],
		R189:   returns[2],
		R252:   returns[3],
		Score:  CompositeScore(returns),
		Trend:  trend(closes, TrendLength),
	}}
}

// windowReturns computes the four consecutive window returns, most recent first
func windowReturns(closes []float64) ([4]float64, error) {
	var returns [4]float64

	end, err := priceAt(closes, 0)
	if err != nil {
		return returns, err
	}

	for i, offset := range WindowOffsets {
		start, err := priceAt(closes, offset)
		if err != nil {
			return returns, err
		}
		returns[i] = simpleReturn(start, end)
		end = start
	}
	return returns, nil
}

// priceAt returns the close offset points before the latest one (0 = latest)
func priceAt(closes []float64, offset int) (float64, error) {
	idx := len(closes) - 1 - offset
	if offset < 0 || idx < 0 {
		return 0, fmt.Errorf("%w: offset %d out of range for %d points", contracts.ErrWindowLookup, offset, len(closes))
	}
	return closes[idx], nil
}

// simpleReturn is end/start - 1 (not a log return)
func simpleReturn(start, end float64) float64 {
	return end/start - 1
}

// CompositeScore is the weighted sum of the window returns
func CompositeScore(returns [4]float64) float64 {
	score := 0.0
	for i, r := range returns {
		score += Weights[i] * r
	}
	return score
}

// trend returns the last n closes in chronological order (all of them if fewer)
func trend(closes []float64, n int) []float64 {
	if len(closes) < n {
		n = len(closes)
	}
	out := make([]float64, n)
	copy(out, closes[len(closes)-n:])
	return out
}
