package jobs

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/wonny/momentum-ranker/internal/contracts"
	"github.com/wonny/momentum-ranker/internal/momentum"
	"github.com/wonny/momentum-ranker/pkg/logger"
)

// RankingJob ranks the universe and logs the leaders. Results are not persisted.
type RankingJob struct {
	engine   *momentum.Engine
	provider contracts.PriceProvider
	tickers  []string
	schedule string
	topN     int
	timeout  time.Duration
	logger   *logger.Logger

	mu   sync.Mutex
	last *contracts.RankingResultSet
}

// NewRankingJob creates a new ranking job
func NewRankingJob(
	engine *momentum.Engine,
	provider contracts.PriceProvider,
	tickers []string,
	schedule string,
	topN int,
	timeout time.Duration,
	log *logger.Logger,
) *RankingJob {
	return &RankingJob{
		engine:   engine,
		provider: provider,
		tickers:  tickers,
		schedule: schedule,
		topN:     topN,
		timeout:  timeout,
		logger:   log,
	}
}

// Name returns the job name
func (j *RankingJob) Name() string {
	return "momentum_ranking"
}

// Schedule returns the cron schedule
func (j *RankingJob) Schedule() string {
	return j.schedule
}

// Run computes one ranking pass
func (j *RankingJob) Run(ctx context.Context) error {
	rs, err := j.engine.Run(ctx, j.provider, j.tickers, j.timeout)
	if err != nil {
		return fmt.Errorf("rank universe: %w", err)
	}
	j.mu.Lock()
	j.last = rs
	j.mu.Unlock()

	for _, row := range rs.Top(j.topN) {
		j.logger.WithFields(map[string]interface{}{
			"rank":   row.Rank,
			"ticker": row.Ticker,
			"rating": row.Rating,
			"score":  row.Score,
		}).Info("Top momentum")
	}

	j.logger.WithFields(map[string]interface{}{
		"ranked":  rs.Len(),
		"skipped": len(rs.Skipped),
		"missing": len(rs.Missing),
	}).Info("Scheduled ranking completed")
	return nil
}

// Last returns the result of the most recent successful run
func (j *RankingJob) Last() *contracts.RankingResultSet {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.last
}
