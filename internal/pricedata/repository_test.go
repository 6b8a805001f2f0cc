package pricedata

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonny/momentum-ranker/pkg/config"
	"github.com/wonny/momentum-ranker/pkg/database"
)

func TestRepository_RoundTrip(t *testing.T) {
	url := os.Getenv("DATABASE_URL")
	if url == "" {
		t.Skip("DATABASE_URL not set, skipping integration test")
	}

	db, err := database.New(&config.Config{Database: config.DatabaseConfig{
		URL:             url,
		MaxConns:        2,
		MinConns:        1,
		MaxConnLifetime: time.Hour,
		MaxConnIdleTime: time.Minute,
	}})
	require.NoError(t, err)
	defer db.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	repo := NewRepository(db.Pool)
	require.NoError(t, repo.EnsureSchema(ctx))

	ticker := "TEST" + time.Now().Format("150405")
	defer db.Pool.Exec(context.Background(), `DELETE FROM market.daily_closes WHERE ticker = $1`, ticker)

	n, err := repo.SaveSeries(ctx, ticker, seriesOf(10, 11, 12))
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	// Upsert overwrites
	_, err = repo.SaveSeries(ctx, ticker, seriesOf(20))
	require.NoError(t, err)

	series, err := repo.LoadSeries(ctx, ticker, day0.AddDate(0, 0, -1), day0.AddDate(0, 0, 5))
	require.NoError(t, err)
	assert.Equal(t, []float64{20, 11, 12}, series.Closes())

	stats, err := repo.Stats(ctx)
	require.NoError(t, err)
	found := false
	for _, s := range stats {
		if s.Ticker == ticker {
			found = true
			assert.Equal(t, 3, s.Points)
		}
	}
	assert.True(t, found)
}
