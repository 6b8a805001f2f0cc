package pricedata

import (
	"context"
	"fmt"
	"sync"

	"github.com/wonny/momentum-ranker/internal/contracts"
	"github.com/wonny/momentum-ranker/pkg/logger"
)

// Collector fetches price histories upstream and persists them
// ⭐ SSOT: 가격 수집 오케스트레이션은 여기서만
type Collector struct {
	provider contracts.PriceProvider
	store    contracts.PriceStore
	logger   *logger.Logger
}

// Config holds collector configuration
type Config struct {
	Workers int // Number of concurrent save workers
}

// FetchResult is the outcome for one ticker
type FetchResult struct {
	Ticker     string
	PriceCount int
	Error      error
}

// CollectSummary aggregates a collection run
type CollectSummary struct {
	Requested int
	Saved     int
	Failed    int
	Missing   []string // provider returned nothing
	Results   []FetchResult
}

// NewCollector creates a new Collector instance
func NewCollector(provider contracts.PriceProvider, store contracts.PriceStore, log *logger.Logger) *Collector {
	return &Collector{
		provider: provider,
		store:    store,
		logger:   log.Component("collector"),
	}
}

// Collect fetches tickers from the provider in one batch and saves each series.
// A provider failure aborts the run; save failures are reported per ticker.
func (c *Collector) Collect(ctx context.Context, tickers []string, cfg Config) (*CollectSummary, error) {
	if cfg.Workers <= 0 {
		cfg.Workers = 1
	}

	c.logger.WithFields(map[string]interface{}{
		"provider": c.provider.Name(),
		"tickers":  len(tickers),
		"workers":  cfg.Workers,
	}).Info("Starting price collection")

	history, err := c.provider.FetchHistory(ctx, tickers)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", contracts.ErrProviderFailure, c.provider.Name(), err)
	}

	summary := &CollectSummary{Requested: len(tickers)}
	for _, t := range tickers {
		if _, ok := history[t]; !ok {
			summary.Missing = append(summary.Missing, t)
		}
	}

	// Worker pool over returned tickers
	jobs := make(chan string, len(history))
	resultCh := make(chan FetchResult, len(history))

	var wg sync.WaitGroup
	for i := 0; i < cfg.Workers; i++ {
		wg.Add(1)
		go func(workerID int) {
			defer wg.Done()
			c.saveWorker(ctx, workerID, history, jobs, resultCh)
		}(i)
	}

	for _, t := range history.Tickers() {
		jobs <- t
	}
	close(jobs)

	go func() {
		wg.Wait()
		close(resultCh)
	}()

	for result := range resultCh {
		summary.Results = append(summary.Results, result)
		if result.Error != nil {
			summary.Failed++
		} else {
			summary.Saved++
		}
	}

	c.logger.WithFields(map[string]interface{}{
		"saved":   summary.Saved,
		"failed":  summary.Failed,
		"missing": len(summary.Missing),
	}).Info("Price collection completed")

	return summary, nil
}

// saveWorker persists series for tickers read from jobs
func (c *Collector) saveWorker(ctx context.Context, workerID int, history contracts.PriceHistory, jobs <-chan string, resultCh chan<- FetchResult) {
	for t := range jobs {
		select {
		case <-ctx.Done():
			resultCh <- FetchResult{Ticker: t, Error: ctx.Err()}
			continue
		default:
		}

		series := history[t].Clean()
		n, err := c.store.SaveSeries(ctx, t, series)
		if err != nil {
			c.logger.WithError(err).WithFields(map[string]interface{}{
				"worker": workerID,
				"ticker": t,
			}).Error("Failed to save prices")
			resultCh <- FetchResult{Ticker: t, PriceCount: n, Error: err}
			continue
		}

		c.logger.WithFields(map[string]interface{}{
			"worker": workerID,
			"ticker": t,
			"count":  n,
		}).Debug("Saved prices")
		resultCh <- FetchResult{Ticker: t, PriceCount: n}
	}
}
