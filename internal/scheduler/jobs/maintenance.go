package jobs

import (
	"context"

	"github.com/wonny/momentum-ranker/internal/pricedata"
	"github.com/wonny/momentum-ranker/pkg/logger"
)

// CacheCleanupJob drops expired series from the in-process cache
type CacheCleanupJob struct {
	cache  *pricedata.MemoryCache
	logger *logger.Logger
}

// NewCacheCleanupJob creates a new cache cleanup job
func NewCacheCleanupJob(cache *pricedata.MemoryCache, log *logger.Logger) *CacheCleanupJob {
	return &CacheCleanupJob{
		cache:  cache,
		logger: log,
	}
}

// Name returns the job name
func (j *CacheCleanupJob) Name() string {
	return "cache_cleanup"
}

// Schedule returns the cron schedule (every 30 minutes)
func (j *CacheCleanupJob) Schedule() string {
	return "0 */30 * * * *"
}

// Run executes the cache cleanup
func (j *CacheCleanupJob) Run(ctx context.Context) error {
	j.logger.Debug("Starting scheduled cache cleanup")

	count := j.cache.CleanStale()

	if count > 0 {
		j.logger.WithFields(map[string]interface{}{
			"removed":   count,
			"remaining": j.cache.Len(),
		}).Info("Cache cleanup completed")
	}

	return nil
}
