package commands

import (
	"fmt"
	"strings"

	"github.com/wonny/momentum-ranker/internal/contracts"
	"github.com/wonny/momentum-ranker/internal/external/naver"
	"github.com/wonny/momentum-ranker/internal/external/yahoo"
	"github.com/wonny/momentum-ranker/internal/pricedata"
	"github.com/wonny/momentum-ranker/internal/ticker"
	"github.com/wonny/momentum-ranker/internal/universe"
	"github.com/wonny/momentum-ranker/pkg/config"
	"github.com/wonny/momentum-ranker/pkg/database"
	"github.com/wonny/momentum-ranker/pkg/httputil"
	"github.com/wonny/momentum-ranker/pkg/logger"
	"github.com/wonny/momentum-ranker/pkg/redis"
)

// dbMode says whether a command needs Postgres
type dbMode int

const (
	dbIfConfigured dbMode = iota // connect when DATABASE_URL is set
	dbRequired
)

// app holds the dependencies shared by every command
type app struct {
	cfg       *config.Config
	log       *logger.Logger
	universes *universe.File
	redis     *redis.Client
	db        *database.DB // nil when no DATABASE_URL

	// In-process series cache for long-running commands when Redis is off
	memCache *pricedata.MemoryCache
}

// newApp loads config and connects the optional backends
func newApp(mode dbMode) (*app, error) {
	// 1. Load config
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if verbose {
		cfg.LogLevel = "debug"
	}
	if providerName != "" {
		cfg.Provider.Name = strings.ToLower(providerName)
	}
	if universeFile != "" {
		cfg.Universe.File = universeFile
	}

	// 2. Initialize logger
	log := logger.New(cfg)

	a := &app{cfg: cfg, log: log}

	// 3. Load universes
	a.universes, err = universe.LoadOrDefault(cfg.Universe.File)
	if err != nil {
		return nil, fmt.Errorf("load universe file: %w", err)
	}

	// 4. Redis (cache + shared rate limit); a dead Redis only disables caching
	a.redis = redis.Connect(cfg, log)

	// 5. Connect to database
	if mode == dbRequired || cfg.Provider.Name == config.ProviderDatabase || cfg.Database.URL != "" {
		db, err := database.New(cfg)
		if err != nil {
			a.Close()
			return nil, fmt.Errorf("connect to database: %w", err)
		}
		a.db = db
		log.Debug("Connected to database")
	}

	return a, nil
}

// enableMemoryCache turns on the in-process cache unless Redis already caches.
// It returns nil when Redis is in use.
func (a *app) enableMemoryCache() *pricedata.MemoryCache {
	if a.redis.Enabled() {
		return nil
	}
	if a.memCache == nil {
		a.memCache = pricedata.NewMemoryCache(a.log)
	}
	return a.memCache
}

// Close releases backend connections
func (a *app) Close() {
	if a.db != nil {
		a.db.Close()
	}
	if a.redis != nil {
		_ = a.redis.Close()
	}
}

// resolveTickers picks explicit tickers over a named universe, in display form.
// The returned list is nil for explicit tickers.
func (a *app) resolveTickers(args []string, name string) ([]string, *universe.List, error) {
	if len(args) > 0 {
		tickers := ticker.Canonical(ticker.Parse(strings.Join(args, ",")), a.exchangeSuffix(nil))
		if len(tickers) == 0 {
			return nil, nil, contracts.ErrEmptyInput
		}
		return tickers, nil, nil
	}

	if name == "" {
		name = a.cfg.Universe.Name
	}
	list, err := a.universes.List(name)
	if err != nil {
		return nil, nil, fmt.Errorf("%w (available: %s)", err, strings.Join(a.universes.Names(), ", "))
	}
	return ticker.Canonical(list.Tickers, list.ExchangeSuffix), list, nil
}

// exchangeSuffix is the lookup suffix for list, falling back to EXCHANGE_SUFFIX
func (a *app) exchangeSuffix(list *universe.List) string {
	if list != nil {
		return list.ExchangeSuffix
	}
	return a.cfg.Provider.ExchangeSuffix
}

// upstreamName is the remote provider feeding the collector
func (a *app) upstreamName() string {
	if a.cfg.Provider.Name == config.ProviderDatabase {
		return config.ProviderYahoo
	}
	return a.cfg.Provider.Name
}

// buildProvider creates the named price provider for list.
// Remote providers are wrapped in the series cache when cached is set:
// Redis when it is up, otherwise the in-process cache if enabled.
func (a *app) buildProvider(name string, list *universe.List, cached bool) (contracts.PriceProvider, error) {
	if name == "" {
		name = a.cfg.Provider.Name
	}

	var provider contracts.PriceProvider
	switch name {
	case config.ProviderYahoo:
		provider = yahoo.NewClient(a.httpClient(redis.YahooRateLimit), a.log,
			yahoo.WithBaseURL(a.cfg.Provider.YahooBaseURL),
			yahoo.WithSuffix(a.exchangeSuffix(list)),
			yahoo.WithConcurrency(a.cfg.Provider.Concurrency),
		)
	case config.ProviderNaver:
		provider = naver.NewClient(a.httpClient(redis.NaverRateLimit), a.log,
			naver.WithChartURL(a.cfg.Provider.NaverBaseURL),
			naver.WithConcurrency(a.cfg.Provider.Concurrency),
		)
	case config.ProviderDatabase:
		if a.db == nil {
			return nil, fmt.Errorf("provider %s requires DATABASE_URL", name)
		}
		return pricedata.NewStoreProvider(pricedata.NewRepository(a.db.Pool), a.log), nil
	default:
		return nil, fmt.Errorf("unknown provider %q (valid: %s, %s, %s)",
			name, config.ProviderYahoo, config.ProviderNaver, config.ProviderDatabase)
	}

	if !cached {
		return provider, nil
	}
	switch {
	case a.redis.Enabled():
		cache := redis.NewCache(a.redis, "momentum")
		provider = pricedata.NewCachedProvider(provider, cache, a.cfg.Redis.CacheTTL, a.log)
	case a.memCache != nil:
		provider = pricedata.NewCachedProvider(provider, a.memCache, a.cfg.Redis.CacheTTL, a.log)
	}
	return provider, nil
}

// httpClient creates the shared HTTP client, rate limited across processes when Redis is up
func (a *app) httpClient(limit redis.RateLimitConfig) *httputil.Client {
	client := httputil.New(a.cfg, a.log)
	if a.redis.Enabled() {
		client.WithRateLimiter(redis.NewRateLimiter(a.redis, "ratelimit"), limit)
	}
	return client
}
