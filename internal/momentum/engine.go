package momentum

import (
	"context"
	"fmt"
	"runtime"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/wonny/momentum-ranker/internal/contracts"
	"github.com/wonny/momentum-ranker/internal/ticker"
	"github.com/wonny/momentum-ranker/pkg/logger"
)

// Engine ranks instruments by weighted multi-window momentum
// ⭐ SSOT: 랭킹 엔진은 여기서만
//
// The engine keeps no state between calls. Each instrument is scored
// independently; rating and ordering wait for the whole population.
type Engine struct {
	logger  *logger.Logger
	workers int
}

// Option configures an Engine
type Option func(*Engine)

// WithWorkers bounds the number of instruments scored concurrently
func WithWorkers(n int) Option {
	return func(e *Engine) {
		if n > 0 {
			e.workers = n
		}
	}
}

// NewEngine creates a new ranking engine
func NewEngine(log *logger.Logger, opts ...Option) *Engine {
	e := &Engine{
		logger:  log.Component("momentum"),
		workers: runtime.GOMAXPROCS(0),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Run fetches histories for tickers from provider and ranks them.
//
// Tickers are reduced to the provider's display form first, so a ticker given
// with and without its exchange suffix is ranked once. Empty input yields an
// empty result and no error. The provider call is bounded
// by timeout (when > 0). If the provider fails, Run returns an empty result set
// together with an error wrapping contracts.ErrProviderFailure.
func (e *Engine) Run(ctx context.Context, provider contracts.PriceProvider, tickers []string, timeout time.Duration) (*contracts.RankingResultSet, error) {
	tickers = ticker.Canonical(tickers, contracts.ExchangeSuffixOf(provider))
	if len(tickers) == 0 {
		e.logger.Debug("No tickers supplied, returning empty ranking")
		return contracts.NewEmptyResultSet(0), nil
	}

	fetchCtx := ctx
	if timeout > 0 {
		var cancel context.CancelFunc
		fetchCtx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	startTime := time.Now()
	history, err := provider.FetchHistory(fetchCtx, tickers)
	if err != nil {
		e.logger.WithError(err).WithFields(map[string]interface{}{
			"provider":  provider.Name(),
			"requested": len(tickers),
			"duration":  time.Since(startTime),
		}).Error("Price provider failed")

		rs := contracts.NewEmptyResultSet(len(tickers))
		rs.Missing = tickers
		return rs, fmt.Errorf("%w: %s: %w", contracts.ErrProviderFailure, provider.Name(), err)
	}

	e.logger.WithFields(map[string]interface{}{
		"provider":  provider.Name(),
		"requested": len(tickers),
		"returned":  len(history),
		"duration":  time.Since(startTime),
	}).Debug("Fetched price histories")

	// Only rank what was asked for
	requested := make(contracts.PriceHistory, len(tickers))
	present := make(map[string]struct{}, len(history))
	for _, t := range tickers {
		if series, ok := history[t]; ok {
			requested[t] = series
			present[t] = struct{}{}
		}
	}

	rs, err := e.Rank(ctx, requested)
	if err != nil {
		return contracts.NewEmptyResultSet(len(tickers)), err
	}
	rs.Requested = len(tickers)
	rs.Missing = ticker.Difference(tickers, present)

	if len(rs.Missing) > 0 {
		e.logger.WithFields(map[string]interface{}{
			"count":   len(rs.Missing),
			"tickers": rs.Missing,
		}).Warn("Provider returned no data for some tickers")
	}

	return rs, nil
}

// Rank scores every instrument in history and returns the ordered result set.
// The only error is ctx cancellation.
func (e *Engine) Rank(ctx context.Context, history contracts.PriceHistory) (*contracts.RankingResultSet, error) {
	startTime := time.Now()
	tickers := history.Tickers()

	// Map: one slot per instrument, no shared mutable state
	outcomes := make([]contracts.Outcome, len(tickers))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.workers)
	for i, t := range tickers {
		i, t := i, t
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			outcomes[i] = ScoreInstrument(t, history[t])
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("ranking cancelled: %w", err)
	}

	// Barrier: rating needs the full population
	rs := contracts.NewEmptyResultSet(len(tickers))
	for _, o := range outcomes {
		if o.OK() {
			rs.Rows = append(rs.Rows, *o.Scored)
			continue
		}
		rs.Skipped = append(rs.Skipped, *o.Skipped)
		e.logSkip(o.Skipped)
	}

	rateAndRank(rs.Rows)

	fields := map[string]interface{}{
		"ranked":   len(rs.Rows),
		"skipped":  len(rs.Skipped),
		"duration": time.Since(startTime),
	}
	if len(rs.Rows) > 0 {
		fields["top_ticker"] = rs.Rows[0].Ticker
		fields["top_score"] = rs.Rows[0].Score
	}
	e.logger.WithFields(fields).Info("Ranking completed")

	return rs, nil
}

func (e *Engine) logSkip(s *contracts.SkippedInstrument) {
	log := e.logger.WithFields(map[string]interface{}{
		"ticker": s.Ticker,
		"points": s.Points,
		"reason": string(s.Reason),
	})

	switch s.Reason {
	case contracts.SkipInsufficientHistory:
		log.Warn("Not enough price history, skipping")
	default:
		// Unreachable with MinHistory covering the deepest offset
		log.WithField("detail", s.Detail).Error("Window lookup failed despite length check, skipping")
	}
}
