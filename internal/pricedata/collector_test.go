package pricedata

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonny/momentum-ranker/internal/contracts"
	"github.com/wonny/momentum-ranker/pkg/logger"
)

func TestCollector_Collect(t *testing.T) {
	provider := &recordingProvider{history: contracts.PriceHistory{
		"PETR4": seriesOf(30, math.NaN(), 32),
		"VALE3": seriesOf(60, 61),
		"ITUB4": seriesOf(25),
	}}
	store := newMemStore()
	store.failOn = "ITUB4"

	c := NewCollector(provider, store, logger.Nop())
	summary, err := c.Collect(context.Background(), []string{"PETR4", "VALE3", "ITUB4", "BBAS3"}, Config{Workers: 2})
	require.NoError(t, err)

	assert.Equal(t, 4, summary.Requested)
	assert.Equal(t, 2, summary.Saved)
	assert.Equal(t, 1, summary.Failed)
	assert.Equal(t, []string{"BBAS3"}, summary.Missing)
	assert.Len(t, summary.Results, 3)

	// Invalid closes are not persisted
	assert.Equal(t, []float64{30, 32}, store.data["PETR4"].Closes())
	assert.NotContains(t, store.data, "ITUB4")
}

func TestCollector_ProviderFailure(t *testing.T) {
	provider := &recordingProvider{err: errors.New("rate limited")}

	c := NewCollector(provider, newMemStore(), logger.Nop())
	_, err := c.Collect(context.Background(), []string{"PETR4"}, Config{})
	require.Error(t, err)
	assert.ErrorIs(t, err, contracts.ErrProviderFailure)
}

func TestCollector_CancelledContext(t *testing.T) {
	provider := &recordingProvider{history: contracts.PriceHistory{
		"PETR4": seriesOf(30),
	}}
	store := newMemStore()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	summary, err := NewCollector(provider, store, logger.Nop()).Collect(ctx, []string{"PETR4"}, Config{Workers: 1})
	require.NoError(t, err)
	assert.Equal(t, 1, summary.Failed)
	assert.ErrorIs(t, summary.Results[0].Error, context.Canceled)
	assert.Empty(t, store.data)
}
