package pricedata

import (
	"context"
	"fmt"
	"time"

	"github.com/wonny/momentum-ranker/internal/contracts"
	"github.com/wonny/momentum-ranker/pkg/logger"
)

// ProviderName identifies the database-backed provider
const ProviderName = "database"

// DefaultLookback covers two calendar years of trading days
const DefaultLookback = 2 * 365 * 24 * time.Hour

// StoreProvider serves price histories from a PriceStore
type StoreProvider struct {
	store    contracts.PriceStore
	logger   *logger.Logger
	lookback time.Duration
	now      func() time.Time
}

// NewStoreProvider creates a provider reading from store
func NewStoreProvider(store contracts.PriceStore, log *logger.Logger) *StoreProvider {
	return &StoreProvider{
		store:    store,
		logger:   log.Component("store_provider"),
		lookback: DefaultLookback,
		now:      time.Now,
	}
}

// Name implements contracts.PriceProvider
func (p *StoreProvider) Name() string {
	return ProviderName
}

// FetchHistory implements contracts.PriceProvider.
// Tickers with no stored rows are left out; any store error fails the call.
func (p *StoreProvider) FetchHistory(ctx context.Context, tickers []string) (contracts.PriceHistory, error) {
	to := p.now()
	from := to.Add(-p.lookback)

	history := make(contracts.PriceHistory, len(tickers))
	for _, t := range tickers {
		series, err := p.store.LoadSeries(ctx, t, from, to)
		if err != nil {
			return nil, fmt.Errorf("load %s: %w", t, err)
		}
		if len(series) == 0 {
			continue
		}
		history[t] = series
	}

	p.logger.WithFields(map[string]interface{}{
		"requested": len(tickers),
		"found":     len(history),
		"from":      from.Format("2006-01-02"),
	}).Debug("Loaded stored price histories")
	return history, nil
}
