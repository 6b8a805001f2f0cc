package yahoo

import (
	"time"

	"github.com/wonny/momentum-ranker/internal/contracts"
)

// chartResponse is the v8 chart API envelope
type chartResponse struct {
	Chart struct {
		Result []chartResult `json:"result"`
		Error  *struct {
			Code        string `json:"code"`
			Description string `json:"description"`
		} `json:"error"`
	} `json:"chart"`
}

type chartResult struct {
	Meta struct {
		Symbol    string `json:"symbol"`
		Currency  string `json:"currency"`
		GMTOffset int64  `json:"gmtoffset"`
	} `json:"meta"`
	Timestamp  []int64 `json:"timestamp"`
	Indicators struct {
		Quote []struct {
			Close []*float64 `json:"close"`
		} `json:"quote"`
		AdjClose []struct {
			AdjClose []*float64 `json:"adjclose"`
		} `json:"adjclose"`
	} `json:"indicators"`
}

// series converts the first result into a close series.
// Adjusted closes are preferred; null bars (holidays, halts) are dropped.
func (r *chartResponse) series() (contracts.PriceSeries, error) {
	if len(r.Chart.Result) == 0 || len(r.Chart.Result[0].Timestamp) == 0 {
		return nil, ErrNoData
	}
	res := r.Chart.Result[0]

	closes := res.closes()
	if closes == nil {
		return nil, ErrNoData
	}

	series := make(contracts.PriceSeries, 0, len(res.Timestamp))
	for i, ts := range res.Timestamp {
		if i >= len(closes) || closes[i] == nil {
			continue
		}
		series = append(series, contracts.PricePoint{
			Date:  tradingDay(ts, res.Meta.GMTOffset),
			Close: *closes[i],
		})
	}
	return series.Clean(), nil
}

func (r *chartResult) closes() []*float64 {
	if len(r.Indicators.AdjClose) > 0 && len(r.Indicators.AdjClose[0].AdjClose) > 0 {
		return r.Indicators.AdjClose[0].AdjClose
	}
	if len(r.Indicators.Quote) > 0 && len(r.Indicators.Quote[0].Close) > 0 {
		return r.Indicators.Quote[0].Close
	}
	return nil
}

// tradingDay maps a bar timestamp to its exchange-local calendar date (UTC midnight)
func tradingDay(ts, gmtOffset int64) time.Time {
	local := time.Unix(ts+gmtOffset, 0).UTC()
	return time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, time.UTC)
}
