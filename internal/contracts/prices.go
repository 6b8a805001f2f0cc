package contracts

import (
	"fmt"
	"math"
	"sort"
	"time"
)

// PricePoint is one adjusted close for one trading day
type PricePoint struct {
	Date  time.Time `json:"date"`
	Close float64   `json:"close"`
}

// PriceSeries is an instrument's adjusted close history, oldest first.
// Missing trading days are simply absent; nothing is null-filled.
type PriceSeries []PricePoint

// PriceHistory is the provider output keyed by display identifier
type PriceHistory map[string]PriceSeries

// Clean drops non-finite and non-positive closes, orders the points
// chronologically and keeps the last point for a repeated date.
// The receiver is not modified.
func (s PriceSeries) Clean() PriceSeries {
	out := make(PriceSeries, 0, len(s))
	for _, p := range s {
		if math.IsNaN(p.Close) || math.IsInf(p.Close, 0) || p.Close <= 0 {
			continue
		}
		out = append(out, p)
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Date.Before(out[j].Date)
	})

	// Collapse duplicate dates, last one wins
	dedup := out[:0]
	for i, p := range out {
		if i+1 < len(out) && out[i+1].Date.Equal(p.Date) {
			continue
		}
		dedup = append(dedup, p)
	}
	return dedup
}

// Validate checks that dates strictly increase and prices are positive and finite
func (s PriceSeries) Validate() error {
	for i, p := range s {
		if math.IsNaN(p.Close) || math.IsInf(p.Close, 0) || p.Close <= 0 {
			return fmt.Errorf("point %d (%s): invalid close %v", i, p.Date.Format("2006-01-02"), p.Close)
		}
		if i > 0 && !p.Date.After(s[i-1].Date) {
			return fmt.Errorf("point %d (%s): dates not strictly increasing", i, p.Date.Format("2006-01-02"))
		}
	}
	return nil
}

// Closes returns the close prices in series order
func (s PriceSeries) Closes() []float64 {
	closes := make([]float64, len(s))
	for i, p := range s {
		closes[i] = p.Close
	}
	return closes
}

// Latest returns the most recent point
func (s PriceSeries) Latest() (PricePoint, bool) {
	if len(s) == 0 {
		return PricePoint{}, false
	}
	return s[len(s)-1], true
}

// Tickers returns the identifiers present in the history, sorted
func (h PriceHistory) Tickers() []string {
	tickers := make([]string, 0, len(h))
	for t := range h {
		tickers = append(tickers, t)
	}
	sort.Strings(tickers)
	return tickers
}
