package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/wonny/momentum-ranker/pkg/config"
	"github.com/wonny/momentum-ranker/pkg/logger"
)

// pingTimeout bounds the startup connectivity check
const pingTimeout = 3 * time.Second

// Client is the optional Redis backend behind the series cache and the shared rate limiter.
// A disabled client turns both into no-ops.
// ⭐ SSOT: Redis 연결은 여기서만 관리
type Client struct {
	rdb  *redis.Client
	addr string
}

// Disabled returns a client with Redis turned off
func Disabled() *Client {
	return &Client{}
}

// New connects when REDIS_ENABLED is set and fails if Redis does not answer a ping
func New(cfg *config.Config) (*Client, error) {
	if !cfg.Redis.Enabled {
		return Disabled(), nil
	}

	addr := fmt.Sprintf("%s:%s", cfg.Redis.Host, cfg.Redis.Port)
	rdb := redis.NewClient(&redis.Options{
		Addr:        addr,
		Password:    cfg.Redis.Password,
		DB:          cfg.Redis.DB,
		DialTimeout: pingTimeout,
	})

	c := &Client{rdb: rdb, addr: addr}
	ctx, cancel := context.WithTimeout(context.Background(), pingTimeout)
	defer cancel()
	if err := c.Ping(ctx); err != nil {
		_ = rdb.Close()
		return nil, err
	}
	return c, nil
}

// Connect is New for commands that can run without Redis: an unreachable
// server is logged and yields a disabled client, so rankings run uncached
// and rate limits stay per process.
func Connect(cfg *config.Config, log *logger.Logger) *Client {
	c, err := New(cfg)
	if err != nil {
		log.WithError(err).WithField("addr", fmt.Sprintf("%s:%s", cfg.Redis.Host, cfg.Redis.Port)).
			Warn("Redis unavailable, continuing without cache")
		return Disabled()
	}
	if c.Enabled() {
		log.WithField("addr", c.addr).Debug("Connected to Redis")
	}
	return c
}

// Ping checks connectivity; always nil when disabled
func (c *Client) Ping(ctx context.Context) error {
	if !c.Enabled() {
		return nil
	}
	if err := c.rdb.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redis %s: %w", c.addr, err)
	}
	return nil
}

// Close closes the connection
func (c *Client) Close() error {
	if c.rdb != nil {
		return c.rdb.Close()
	}
	return nil
}

// Enabled reports whether Redis is in use
func (c *Client) Enabled() bool {
	return c.rdb != nil
}

// Redis returns the underlying client, nil when disabled
func (c *Client) Redis() *redis.Client {
	return c.rdb
}
