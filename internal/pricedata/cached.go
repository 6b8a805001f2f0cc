package pricedata

import (
	"context"
	"time"

	"github.com/wonny/momentum-ranker/internal/contracts"
	"github.com/wonny/momentum-ranker/pkg/logger"
	"github.com/wonny/momentum-ranker/pkg/redis"
)

// SeriesCache is the subset of redis.Cache the cached provider needs
type SeriesCache interface {
	Get(ctx context.Context, key string, dest interface{}) (bool, error)
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
}

// CachedProvider decorates a provider with a per-ticker, per-day series cache
type CachedProvider struct {
	upstream contracts.PriceProvider
	cache    SeriesCache
	ttl      time.Duration
	logger   *logger.Logger
	now      func() time.Time
}

// NewCachedProvider wraps upstream. ttl <= 0 uses redis.TTLDaily.
func NewCachedProvider(upstream contracts.PriceProvider, cache SeriesCache, ttl time.Duration, log *logger.Logger) *CachedProvider {
	if ttl <= 0 {
		ttl = redis.TTLDaily
	}
	return &CachedProvider{
		upstream: upstream,
		cache:    cache,
		ttl:      ttl,
		logger:   log.Component("series_cache"),
		now:      time.Now,
	}
}

// Name reports the upstream name
func (p *CachedProvider) Name() string {
	return p.upstream.Name()
}

// ExchangeSuffix reports the upstream's suffix, "" when it has none
func (p *CachedProvider) ExchangeSuffix() string {
	return contracts.ExchangeSuffixOf(p.upstream)
}

// FetchHistory implements contracts.PriceProvider.
// Cache hits are served directly; misses go upstream in one call.
// Cache errors degrade to misses.
func (p *CachedProvider) FetchHistory(ctx context.Context, tickers []string) (contracts.PriceHistory, error) {
	asOf := p.now().UTC().Format("2006-01-02")
	history := make(contracts.PriceHistory, len(tickers))

	var misses []string
	for _, t := range tickers {
		var series contracts.PriceSeries
		found, err := p.cache.Get(ctx, p.key(t, asOf), &series)
		if err != nil {
			p.logger.WithError(err).WithField("ticker", t).Warn("Series cache read failed")
		}
		if found && err == nil {
			history[t] = series
			continue
		}
		misses = append(misses, t)
	}

	if len(misses) > 0 {
		fetched, err := p.upstream.FetchHistory(ctx, misses)
		if err != nil {
			return nil, err
		}
		for t, series := range fetched {
			history[t] = series
			if err := p.cache.Set(ctx, p.key(t, asOf), series, p.ttl); err != nil {
				p.logger.WithError(err).WithField("ticker", t).Warn("Series cache write failed")
			}
		}
	}

	p.logger.WithFields(map[string]interface{}{
		"provider": p.upstream.Name(),
		"hits":     len(tickers) - len(misses),
		"misses":   len(misses),
	}).Debug("Series cache lookup")
	return history, nil
}

func (p *CachedProvider) key(ticker, asOf string) string {
	return redis.PriceSeriesKey(p.upstream.Name(), ticker, asOf)
}
