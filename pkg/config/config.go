package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application
// ⭐ SSOT: 모든 환경변수는 여기서만 읽음
type Config struct {
	// Server
	Port string
	Env  string // development, staging, production

	// Database (optional: only the database provider and the collector need it)
	Database DatabaseConfig

	// Redis
	Redis RedisConfig

	// Price history provider
	Provider ProviderConfig

	// Universe (default ticker lists)
	Universe UniverseConfig

	// Scheduler
	Schedule ScheduleConfig

	// Logging
	LogLevel  string
	LogFormat string
}

// RedisConfig holds Redis configuration
type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
	Enabled  bool
	CacheTTL time.Duration
}

// DatabaseConfig holds PostgreSQL configuration
type DatabaseConfig struct {
	URL string

	// Connection Pool
	MaxConns        int
	MinConns        int
	MaxConnLifetime time.Duration
	MaxConnIdleTime time.Duration
}

// ProviderConfig holds price history provider configuration
type ProviderConfig struct {
	Name           string        // yahoo, naver, database
	ExchangeSuffix string        // appended for lookup, stripped for display (e.g. ".SA")
	Timeout        time.Duration // bound for one whole FetchHistory call
	Concurrency    int           // parallel identifier fetches
	RequestsPerSec int
	MaxRetries     int
	YahooBaseURL   string
	NaverBaseURL   string
}

// UniverseConfig points at the YAML file with named ticker lists
type UniverseConfig struct {
	File string
	Name string
}

// ScheduleConfig holds cron expressions (seconds field included)
type ScheduleConfig struct {
	PriceRefresh string
	Ranking      string
	TopN         int
}

// Supported provider names
const (
	ProviderYahoo    = "yahoo"
	ProviderNaver    = "naver"
	ProviderDatabase = "database"
)

// Load reads configuration from environment variables
// ⭐ SSOT: 이 함수만 os.Getenv()를 호출함
func Load() (*Config, error) {
	// Try multiple paths for .env file
	loadEnvFile()

	cfg := &Config{
		// Server
		Port: getEnv("PORT", "8089"),
		Env:  getEnv("ENV", "development"),

		// Database
		Database: DatabaseConfig{
			URL:             getEnv("DATABASE_URL", ""),
			MaxConns:        getEnvAsInt("DB_MAX_CONNS", 10),
			MinConns:        getEnvAsInt("DB_MIN_CONNS", 2),
			MaxConnLifetime: getEnvAsDuration("DB_MAX_CONN_LIFETIME", "1h"),
			MaxConnIdleTime: getEnvAsDuration("DB_MAX_CONN_IDLE_TIME", "30m"),
		},

		// Redis
		Redis: RedisConfig{
			Host:     getEnv("REDIS_HOST", "localhost"),
			Port:     getEnv("REDIS_PORT", "6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvAsInt("REDIS_DB", 0),
			Enabled:  getEnvAsBool("REDIS_ENABLED", false),
			CacheTTL: getEnvAsDuration("CACHE_TTL", "6h"),
		},

		Provider: ProviderConfig{
			Name:           strings.ToLower(getEnv("PROVIDER", ProviderYahoo)),
			ExchangeSuffix: getEnv("EXCHANGE_SUFFIX", ".SA"),
			Timeout:        getEnvAsDuration("PROVIDER_TIMEOUT", "2m"),
			Concurrency:    getEnvAsInt("PROVIDER_CONCURRENCY", 8),
			RequestsPerSec: getEnvAsInt("PROVIDER_RPS", 10),
			MaxRetries:     getEnvAsInt("HTTP_MAX_RETRIES", 3),
			YahooBaseURL:   getEnv("YAHOO_BASE_URL", "https://query1.finance.yahoo.com"),
			NaverBaseURL:   getEnv("NAVER_BASE_URL", "https://fchart.stock.naver.com"),
		},

		Universe: UniverseConfig{
			File: getEnv("UNIVERSE_FILE", ""),
			Name: getEnv("UNIVERSE_NAME", "default"),
		},

		Schedule: ScheduleConfig{
			PriceRefresh: getEnv("SCHEDULE_PRICE_REFRESH", "0 30 18 * * 1-5"),
			Ranking:      getEnv("SCHEDULE_RANKING", "0 0 19 * * 1-5"),
			TopN:         getEnvAsInt("SCHEDULE_TOP_N", 20),
		},

		// Logging
		LogLevel:  getEnv("LOG_LEVEL", "info"),
		LogFormat: getEnv("LOG_FORMAT", "json"),
	}

	// Validate configuration
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// validate checks if required configuration values are set
func (c *Config) validate() error {
	// Validate environment
	if c.Env != "development" && c.Env != "staging" && c.Env != "production" {
		return fmt.Errorf("ENV must be one of: development, staging, production")
	}

	switch c.Provider.Name {
	case ProviderYahoo, ProviderNaver:
	case ProviderDatabase:
		if c.Database.URL == "" {
			return fmt.Errorf("DATABASE_URL is required when PROVIDER=%s", ProviderDatabase)
		}
	default:
		return fmt.Errorf("PROVIDER must be one of: %s, %s, %s", ProviderYahoo, ProviderNaver, ProviderDatabase)
	}

	if c.Provider.Timeout <= 0 {
		return fmt.Errorf("PROVIDER_TIMEOUT must be positive")
	}
	if c.Provider.Concurrency < 1 {
		return fmt.Errorf("PROVIDER_CONCURRENCY must be >= 1")
	}

	return nil
}

// RequireDatabase returns an error when no DATABASE_URL is configured
func (c *Config) RequireDatabase() error {
	if c.Database.URL == "" {
		return fmt.Errorf("DATABASE_URL is required")
	}
	return nil
}

// Helper functions (private, only used within this file)

// loadEnvFile tries to load .env from multiple locations
func loadEnvFile() {
	paths := []string{".env"}

	// Also try relative to executable
	if exe, err := os.Executable(); err == nil {
		exeDir := filepath.Dir(exe)
		paths = append(paths,
			filepath.Join(exeDir, ".env"),
			filepath.Join(exeDir, "..", ".env"),
		)
	}

	for _, path := range paths {
		if _, err := os.Stat(path); err == nil {
			_ = godotenv.Load(path)
			return
		}
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}

	return value
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.ParseBool(valueStr)
	if err != nil {
		return defaultValue
	}

	return value
}

func getEnvAsDuration(key string, defaultValue string) time.Duration {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		valueStr = defaultValue
	}

	duration, err := time.ParseDuration(valueStr)
	if err != nil {
		// Fallback to default
		duration, _ = time.ParseDuration(defaultValue)
	}

	return duration
}
