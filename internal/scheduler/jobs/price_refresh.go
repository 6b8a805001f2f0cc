package jobs

import (
	"context"
	"fmt"

	"github.com/wonny/momentum-ranker/internal/pricedata"
	"github.com/wonny/momentum-ranker/pkg/logger"
)

// PriceRefreshJob pulls the universe's histories into the price store
// ⭐ SSOT: 가격 수집 스케줄은 이 Job에서만
type PriceRefreshJob struct {
	collector *pricedata.Collector
	tickers   []string
	schedule  string
	workers   int
	logger    *logger.Logger
}

// NewPriceRefreshJob creates a new price refresh job
func NewPriceRefreshJob(col *pricedata.Collector, tickers []string, schedule string, workers int, log *logger.Logger) *PriceRefreshJob {
	return &PriceRefreshJob{
		collector: col,
		tickers:   tickers,
		schedule:  schedule,
		workers:   workers,
		logger:    log,
	}
}

// Name returns the job name
func (j *PriceRefreshJob) Name() string {
	return "price_refresh"
}

// Schedule returns the cron schedule
func (j *PriceRefreshJob) Schedule() string {
	return j.schedule
}

// Run collects and stores prices. Per-ticker save failures fail the run so it is retried.
func (j *PriceRefreshJob) Run(ctx context.Context) error {
	j.logger.WithField("tickers", len(j.tickers)).Info("Starting scheduled price refresh")

	summary, err := j.collector.Collect(ctx, j.tickers, pricedata.Config{Workers: j.workers})
	if err != nil {
		return fmt.Errorf("collect prices: %w", err)
	}
	if summary.Failed > 0 {
		return fmt.Errorf("collect prices: %d of %d saves failed", summary.Failed, summary.Saved+summary.Failed)
	}

	j.logger.WithFields(map[string]interface{}{
		"saved":   summary.Saved,
		"missing": len(summary.Missing),
	}).Info("Scheduled price refresh completed")
	return nil
}
