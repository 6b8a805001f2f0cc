package momentum

import (
	"context"
	"time"

	"github.com/wonny/momentum-ranker/internal/contracts"
)

var baseDate = time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)

// seriesOf builds a daily series from closes, oldest first
func seriesOf(closes ...float64) contracts.PriceSeries {
	series := make(contracts.PriceSeries, len(closes))
	for i, c := range closes {
		series[i] = contracts.PricePoint{Date: baseDate.AddDate(0, 0, i), Close: c}
	}
	return series
}

func flat(n int, price float64) []float64 {
	closes := make([]float64, n)
	for i := range closes {
		closes[i] = price
	}
	return closes
}

// growing returns n closes compounding at rate per point
func growing(n int, start, rate float64) []float64 {
	closes := make([]float64, n)
	price := start
	for i := range closes {
		closes[i] = price
		price *= 1 + rate
	}
	return closes
}

type stubProvider struct {
	history contracts.PriceHistory
	err     error
	delay   time.Duration
	calls   int
	asked   []string
}

func (p *stubProvider) Name() string { return "stub" }

func (p *stubProvider) FetchHistory(ctx context.Context, tickers []string) (contracts.PriceHistory, error) {
	p.calls++
	p.asked = tickers
	if p.delay > 0 {
		select {
		case <-time.After(p.delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if p.err != nil {
		return nil, p.err
	}
	out := contracts.PriceHistory{}
	for _, t := range tickers {
		if s, ok := p.history[t]; ok {
			out[t] = s
		}
	}
	return out, nil
}
