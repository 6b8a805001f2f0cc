package naver

import (
	"context"
	"fmt"

	"github.com/wonny/momentum-ranker/internal/contracts"
	"github.com/wonny/momentum-ranker/internal/pricedata"
	"github.com/wonny/momentum-ranker/internal/ticker"
)

// ErrNoData is returned when neither the chart API nor the daily pages have rows for a code
var ErrNoData = fmt.Errorf("naver: %w", contracts.ErrNoData)

// Name implements contracts.PriceProvider
func (c *Client) Name() string {
	return ProviderName
}

// FetchHistory implements contracts.PriceProvider for KRX codes.
// Codes with no data in either source are left out; see pricedata.FetchEach
// for when the call as a whole fails.
func (c *Client) FetchHistory(ctx context.Context, tickers []string) (contracts.PriceHistory, error) {
	codes := ticker.Normalize(tickers)
	history, err := pricedata.FetchEach(ctx, codes, c.concurrency, c.logger, c.FetchSeries)
	if err != nil {
		return nil, fmt.Errorf("naver: %w", err)
	}
	return history, nil
}

// FetchSeries returns the lookback window of closes for one code.
// Falls back to the HTML pages when the chart API yields no rows.
func (c *Client) FetchSeries(ctx context.Context, code string) (contracts.PriceSeries, error) {
	to := c.now()
	from := to.Add(-c.lookback)

	prices, err := c.FetchPrices(ctx, code, from, to)
	if err == nil && len(prices) > 0 {
		return toSeries(prices), nil
	}
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}

	log := c.logger.WithFields(map[string]interface{}{
		"stock_code": code,
		"from":       from.Format("2006-01-02"),
	})
	if err != nil {
		log = log.WithError(err)
	}
	log.Debug("Chart API returned nothing, falling back to daily pages")

	prices, err = c.FetchDailyPages(ctx, code, from)
	if err != nil {
		return nil, fmt.Errorf("daily pages for %s: %w", code, err)
	}
	if len(prices) == 0 {
		return nil, fmt.Errorf("%s: %w", code, ErrNoData)
	}
	return toSeries(prices), nil
}
