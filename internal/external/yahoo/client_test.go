package yahoo

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonny/momentum-ranker/internal/contracts"
	"github.com/wonny/momentum-ranker/pkg/config"
	"github.com/wonny/momentum-ranker/pkg/httputil"
	"github.com/wonny/momentum-ranker/pkg/logger"
)

const day = int64(24 * 60 * 60)

// chartJSON renders a chart payload; nil entries become JSON null
func chartJSON(symbol string, start int64, closes []*float64, adj bool) string {
	ts := make([]int64, len(closes))
	for i := range closes {
		ts[i] = start + int64(i)*day
	}
	quote := map[string]interface{}{"close": closes}
	indicators := map[string]interface{}{"quote": []interface{}{quote}}
	if adj {
		indicators["adjclose"] = []interface{}{map[string]interface{}{"adjclose": closes}}
	}
	payload := map[string]interface{}{
		"chart": map[string]interface{}{
			"result": []interface{}{map[string]interface{}{
				"meta":       map[string]interface{}{"symbol": symbol, "currency": "BRL", "gmtoffset": -10800},
				"timestamp":  ts,
				"indicators": indicators,
			}},
			"error": nil,
		},
	}
	b, _ := json.Marshal(payload)
	return string(b)
}

func ptr(v float64) *float64 { return &v }

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	cfg := &config.Config{Env: "development", Provider: config.ProviderConfig{RequestsPerSec: 1000}}
	httpClient := httputil.New(cfg, logger.Nop()).DisableRetry()
	return NewClient(httpClient, logger.Nop(), WithBaseURL(server.URL), WithSuffix(".SA"), WithConcurrency(3))
}

// 2024-01-02 13:00 UTC, 10:00 in Sao Paulo
const start = int64(1704200400)

func TestFetchSeries(t *testing.T) {
	var gotPath, gotQuery string
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotQuery = r.URL.RawQuery
		fmt.Fprint(w, chartJSON("PETR4.SA", start, []*float64{ptr(30), nil, ptr(31), ptr(32.5)}, true))
	})

	series, err := client.FetchSeries(context.Background(), "PETR4")
	require.NoError(t, err)

	assert.Equal(t, "/v8/finance/chart/PETR4.SA", gotPath)
	assert.Contains(t, gotQuery, "range=2y")
	assert.Contains(t, gotQuery, "interval=1d")

	require.Len(t, series, 3, "null bars are dropped")
	assert.Equal(t, []float64{30, 31, 32.5}, series.Closes())
	assert.Equal(t, time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC), series[0].Date)
	assert.NoError(t, series.Validate())
}

func TestFetchSeries_PrefersAdjustedClose(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"chart":{"result":[{"meta":{"gmtoffset":0},"timestamp":[1704200400,1704286800],
			"indicators":{"quote":[{"close":[10,11]}],"adjclose":[{"adjclose":[9.5,10.4]}]}}],"error":null}}`)
	})

	series, err := client.FetchSeries(context.Background(), "VALE3")
	require.NoError(t, err)
	assert.Equal(t, []float64{9.5, 10.4}, series.Closes())
}

func TestFetchSeries_FallsBackToClose(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, chartJSON("ITUB4.SA", start, []*float64{ptr(25), ptr(26)}, false))
	})

	series, err := client.FetchSeries(context.Background(), "ITUB4")
	require.NoError(t, err)
	assert.Equal(t, []float64{25, 26}, series.Closes())
}

func TestFetchSeries_SymbolNotFound(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		fmt.Fprint(w, `{"chart":{"result":null,"error":{"code":"Not Found","description":"No data found, symbol may be delisted"}}}`)
	})

	_, err := client.FetchSeries(context.Background(), "XXXX3")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "delisted")
	assert.ErrorIs(t, err, ErrNoData)
	assert.ErrorIs(t, err, contracts.ErrNoData)
}

func TestFetchSeries_BareNotFound(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	})

	_, err := client.FetchSeries(context.Background(), "XXXX3")
	assert.ErrorIs(t, err, contracts.ErrNoData)
}

func TestFetchSeries_EmptyResult(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"chart":{"result":[{"meta":{},"timestamp":[],"indicators":{"quote":[{}]}}],"error":null}}`)
	})

	_, err := client.FetchSeries(context.Background(), "EMPT3")
	assert.ErrorIs(t, err, ErrNoData)
}

func TestFetchSeries_KeepsExistingSuffix(t *testing.T) {
	var gotPath string
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		fmt.Fprint(w, chartJSON("BBAS3.SA", start, []*float64{ptr(50)}, true))
	})

	_, err := client.FetchSeries(context.Background(), "BBAS3.SA")
	require.NoError(t, err)
	assert.Equal(t, "/v8/finance/chart/BBAS3.SA", gotPath)
}

func TestFetchHistory_PartialFailure(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if strings.Contains(r.URL.Path, "BAD") {
			w.WriteHeader(http.StatusNotFound)
			fmt.Fprint(w, `{"chart":{"result":null,"error":{"code":"Not Found","description":"No data found"}}}`)
			return
		}
		fmt.Fprint(w, chartJSON("X", start, []*float64{ptr(1), ptr(2)}, true))
	})

	history, err := client.FetchHistory(context.Background(), []string{"PETR4", "BAD3", "VALE3"})
	require.NoError(t, err)

	assert.Len(t, history, 2)
	assert.Contains(t, history, "PETR4")
	assert.Contains(t, history, "VALE3")
	assert.NotContains(t, history, "BAD3")
	assert.NotContains(t, history, "PETR4.SA", "keys are display identifiers")
}

func TestFetchHistory_AllFail(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		fmt.Fprint(w, "denied")
	})

	_, err := client.FetchHistory(context.Background(), []string{"PETR4", "VALE3"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "all 2 requests failed")
	assert.NotErrorIs(t, err, contracts.ErrNoData)
}

func TestFetchHistory_NoSymbolKnown(t *testing.T) {
	var calls int32
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusNotFound)
		fmt.Fprint(w, `{"chart":{"result":null,"error":{"code":"Not Found","description":"No data found, symbol may be delisted"}}}`)
	})

	history, err := client.FetchHistory(context.Background(), []string{"FOO3", "BAR3"})
	require.NoError(t, err)
	assert.Empty(t, history)
	assert.Equal(t, int32(2), atomic.LoadInt32(&calls))
}

func TestFetchHistory_CollapsesSuffix(t *testing.T) {
	var mu sync.Mutex
	var paths []string
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		paths = append(paths, r.URL.Path)
		mu.Unlock()
		fmt.Fprint(w, chartJSON("PETR4.SA", start, []*float64{ptr(30), ptr(31)}, true))
	})

	history, err := client.FetchHistory(context.Background(), []string{"PETR4", "petr4.sa", "PETR4.SA"})
	require.NoError(t, err)

	assert.Equal(t, []string{"/v8/finance/chart/PETR4.SA"}, paths)
	require.Len(t, history, 1)
	assert.Contains(t, history, "PETR4")
	assert.Equal(t, ".SA", client.ExchangeSuffix())
}

func TestFetchHistory_Empty(t *testing.T) {
	var calls int32
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
	})

	history, err := client.FetchHistory(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, history)
	assert.Zero(t, atomic.LoadInt32(&calls))
}

func TestFetchHistory_ContextCancelled(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	})

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Millisecond)
	defer cancel()

	_, err := client.FetchHistory(ctx, []string{"PETR4", "VALE3"})
	require.Error(t, err)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestTradingDay(t *testing.T) {
	// 2024-01-02 02:00 UTC is still 2024-01-01 in Sao Paulo
	ts := time.Date(2024, 1, 2, 2, 0, 0, 0, time.UTC).Unix()
	assert.Equal(t, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), tradingDay(ts, -10800))
	assert.Equal(t, time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC), tradingDay(ts, 0))
}

func TestName(t *testing.T) {
	assert.Equal(t, "yahoo", NewClient(nil, logger.Nop()).Name())
}
