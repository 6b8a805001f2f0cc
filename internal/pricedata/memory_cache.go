package pricedata

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/wonny/momentum-ranker/internal/contracts"
	"github.com/wonny/momentum-ranker/pkg/logger"
)

// MemoryCache is an in-process SeriesCache for long-running commands without Redis
// ⭐ SSOT: 프로세스 내 시계열 캐싱은 이 구조체에서만
type MemoryCache struct {
	mu      sync.RWMutex
	entries map[string]memoryEntry
	logger  *logger.Logger
	now     func() time.Time
}

type memoryEntry struct {
	series  contracts.PriceSeries
	expires time.Time
}

// MemoryCacheStats summarizes cache contents
type MemoryCacheStats struct {
	TotalCount int `json:"total_count"`
	StaleCount int `json:"stale_count"`
	Points     int `json:"points"`
}

// NewMemoryCache creates an empty cache
func NewMemoryCache(log *logger.Logger) *MemoryCache {
	return &MemoryCache{
		entries: make(map[string]memoryEntry),
		logger:  log,
		now:     time.Now,
	}
}

// Get copies a live entry into dest, which must be a *contracts.PriceSeries
func (c *MemoryCache) Get(_ context.Context, key string, dest interface{}) (bool, error) {
	out, ok := dest.(*contracts.PriceSeries)
	if !ok {
		return false, fmt.Errorf("memory cache: unsupported destination %T", dest)
	}

	c.mu.RLock()
	entry, exists := c.entries[key]
	c.mu.RUnlock()

	if !exists || !c.now().Before(entry.expires) {
		return false, nil
	}

	*out = append(contracts.PriceSeries(nil), entry.series...)
	return true, nil
}

// Set stores a copy of a contracts.PriceSeries value for ttl
func (c *MemoryCache) Set(_ context.Context, key string, value interface{}, ttl time.Duration) error {
	series, ok := value.(contracts.PriceSeries)
	if !ok {
		return fmt.Errorf("memory cache: unsupported value %T", value)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries[key] = memoryEntry{
		series:  append(contracts.PriceSeries(nil), series...),
		expires: c.now().Add(ttl),
	}
	return nil
}

// Len returns the number of entries, expired ones included
func (c *MemoryCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return len(c.entries)
}

// CleanStale removes expired entries and returns how many were dropped
func (c *MemoryCache) CleanStale() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	count := 0

	for key, entry := range c.entries {
		if !now.Before(entry.expires) {
			delete(c.entries, key)
			count++
		}
	}

	if count > 0 {
		c.logger.WithField("count", count).Info("Cleaned stale series from cache")
	}

	return count
}

// Stats returns cache statistics
func (c *MemoryCache) Stats() MemoryCacheStats {
	c.mu.RLock()
	defer c.mu.RUnlock()

	stats := MemoryCacheStats{TotalCount: len(c.entries)}
	now := c.now()
	for _, entry := range c.entries {
		if !now.Before(entry.expires) {
			stats.StaleCount++
		}
		stats.Points += len(entry.series)
	}
	return stats
}
