package pricedata

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/wonny/momentum-ranker/internal/contracts"
)

const schemaDDL = `
	CREATE SCHEMA IF NOT EXISTS market;

	CREATE TABLE IF NOT EXISTS market.daily_closes (
		ticker      TEXT             NOT NULL,
		trade_date  DATE             NOT NULL,
		close_price DOUBLE PRECISION NOT NULL CHECK (close_price > 0),
		updated_at  TIMESTAMPTZ      NOT NULL DEFAULT NOW(),
		PRIMARY KEY (ticker, trade_date)
	);
`

// Repository implements contracts.PriceStore on PostgreSQL
// ⭐ SSOT: 종가 저장소는 여기서만
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a new price repository
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// EnsureSchema creates the closes table when missing
func (r *Repository) EnsureSchema(ctx context.Context) error {
	if _, err := r.pool.Exec(ctx, schemaDDL); err != nil {
		return fmt.Errorf("ensure schema: %w", err)
	}
	return nil
}

// SaveSeries upserts every point of series for ticker and returns the number written
func (r *Repository) SaveSeries(ctx context.Context, ticker string, series contracts.PriceSeries) (int, error) {
	if len(series) == 0 {
		return 0, nil
	}

	query := `
		INSERT INTO market.daily_closes (ticker, trade_date, close_price, updated_at)
		VALUES ($1, $2, $3, NOW())
		ON CONFLICT (ticker, trade_date) DO UPDATE SET
			close_price = EXCLUDED.close_price,
			updated_at = NOW()
	`

	batch := &pgx.Batch{}
	for _, p := range series {
		batch.Queue(query, ticker, p.Date, p.Close)
	}

	br := r.pool.SendBatch(ctx, batch)
	defer br.Close()

	for i := range series {
		if _, err := br.Exec(); err != nil {
			return i, fmt.Errorf("upsert %s %s: %w", ticker, series[i].Date.Format("2006-01-02"), err)
		}
	}
	return len(series), nil
}

// LoadSeries returns closes for ticker within [from, to], oldest first
func (r *Repository) LoadSeries(ctx context.Context, ticker string, from, to time.Time) (contracts.PriceSeries, error) {
	query := `
		SELECT trade_date, close_price
		FROM market.daily_closes
		WHERE ticker = $1 AND trade_date BETWEEN $2 AND $3
		ORDER BY trade_date ASC
	`

	rows, err := r.pool.Query(ctx, query, ticker, from, to)
	if err != nil {
		return nil, fmt.Errorf("query %s: %w", ticker, err)
	}
	defer rows.Close()

	series := contracts.PriceSeries{}
	for rows.Next() {
		var p contracts.PricePoint
		if err := rows.Scan(&p.Date, &p.Close); err != nil {
			return nil, fmt.Errorf("scan %s: %w", ticker, err)
		}
		series = append(series, p)
	}
	return series, rows.Err()
}

// TickerStat summarizes stored history for one ticker
type TickerStat struct {
	Ticker string
	Points int
	First  time.Time
	Last   time.Time
}

// Stats lists stored tickers with their point counts
func (r *Repository) Stats(ctx context.Context) ([]TickerStat, error) {
	query := `
		SELECT ticker, COUNT(*), MIN(trade_date), MAX(trade_date)
		FROM market.daily_closes
		GROUP BY ticker
		ORDER BY ticker
	`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query stats: %w", err)
	}
	defer rows.Close()

	var stats []TickerStat
	for rows.Next() {
		var s TickerStat
		if err := rows.Scan(&s.Ticker, &s.Points, &s.First, &s.Last); err != nil {
			return nil, fmt.Errorf("scan stats: %w", err)
		}
		stats = append(stats, s)
	}
	return stats, rows.Err()
}
