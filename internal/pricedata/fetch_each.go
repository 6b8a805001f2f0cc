package pricedata

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/wonny/momentum-ranker/internal/contracts"
	"github.com/wonny/momentum-ranker/pkg/logger"
)

// SeriesFetcher fetches the close series of one identifier
type SeriesFetcher func(ctx context.Context, id string) (contracts.PriceSeries, error)

// FetchEach runs fetch for every id, at most limit at a time, and keys the
// history by id.
//
// Ids that fail are logged and left out, so callers report them as missing.
// Errors wrapping contracts.ErrNoData are an empty answer, not a failure. An
// error is returned only when ctx ends or every id failed some other way
// (network, upstream status), which means the upstream itself is unusable.
func FetchEach(ctx context.Context, ids []string, limit int, log *logger.Logger, fetch SeriesFetcher) (contracts.PriceHistory, error) {
	history := make(contracts.PriceHistory, len(ids))
	if len(ids) == 0 {
		return history, nil
	}
	if limit <= 0 {
		limit = 1
	}

	var (
		mu       sync.Mutex
		noData   int
		failures int
		firstErr error
	)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)
	for _, id := range ids {
		id := id
		g.Go(func() error {
			series, err := fetch(gctx, id)

			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				history[id] = series
			case gctx.Err() != nil:
				return gctx.Err()
			case errors.Is(err, contracts.ErrNoData):
				noData++
				log.WithField("ticker", id).Debug("No price data")
			default:
				failures++
				if firstErr == nil {
					firstErr = err
				}
				log.WithError(err).WithField("ticker", id).Warn("Failed to fetch price history")
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	if failures == len(ids) {
		return nil, fmt.Errorf("all %d requests failed: %w", failures, firstErr)
	}

	log.WithFields(map[string]interface{}{
		"requested": len(ids),
		"fetched":   len(history),
		"no_data":   noData,
		"failed":    failures,
	}).Debug("Fetched price histories")
	return history, nil
}
