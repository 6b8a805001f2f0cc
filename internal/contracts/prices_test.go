package contracts

import (
	"errors"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func day(n int) time.Time {
	return time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 0, n)
}

func TestPriceSeries_Clean(t *testing.T) {
	series := PriceSeries{
		{Date: day(3), Close: 13},
		{Date: day(1), Close: 11},
		{Date: day(2), Close: math.NaN()},
		{Date: day(4), Close: 0},
		{Date: day(5), Close: math.Inf(1)},
		{Date: day(6), Close: -1},
		{Date: day(1), Close: 12},
		{Date: day(7), Close: 17},
	}

	cleaned := series.Clean()

	require.Len(t, cleaned, 3)
	assert.Equal(t, []float64{12, 13, 17}, cleaned.Closes())
	assert.NoError(t, cleaned.Validate())
	assert.Len(t, series, 8, "receiver must not change length")
}

func TestPriceSeries_CleanEmpty(t *testing.T) {
	assert.Empty(t, PriceSeries(nil).Clean())
}

func TestPriceSeries_Validate(t *testing.T) {
	tests := []struct {
		name    string
		series  PriceSeries
		wantErr bool
	}{
		{"empty", PriceSeries{}, false},
		{"ordered", PriceSeries{{day(0), 1}, {day(1), 2}}, false},
		{"same date", PriceSeries{{day(0), 1}, {day(0), 2}}, true},
		{"descending", PriceSeries{{day(1), 1}, {day(0), 2}}, true},
		{"zero price", PriceSeries{{day(0), 0}}, true},
		{"nan price", PriceSeries{{day(0), math.NaN()}}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.series.Validate()
			assert.Equal(t, tt.wantErr, err != nil, "err = %v", err)
		})
	}
}

func TestPriceSeries_Latest(t *testing.T) {
	_, ok := PriceSeries{}.Latest()
	assert.False(t, ok)

	p, ok := PriceSeries{{day(0), 1}, {day(1), 2}}.Latest()
	require.True(t, ok)
	assert.Equal(t, 2.0, p.Close)
}

func TestPriceHistory_Tickers(t *testing.T) {
	h := PriceHistory{"VALE3": nil, "ABEV3": nil, "PETR4": nil}
	assert.Equal(t, []string{"ABEV3", "PETR4", "VALE3"}, h.Tickers())
}

func TestSkipReason_Err(t *testing.T) {
	assert.True(t, errors.Is(SkipInsufficientHistory.Err(), ErrInsufficientHistory))
	assert.True(t, errors.Is(SkipWindowLookup.Err(), ErrWindowLookup))
	assert.Error(t, SkipReason("other").Err())
}
