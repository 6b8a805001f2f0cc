package yahoo

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/wonny/momentum-ranker/internal/contracts"
	"github.com/wonny/momentum-ranker/internal/pricedata"
	"github.com/wonny/momentum-ranker/internal/ticker"
	"github.com/wonny/momentum-ranker/pkg/httputil"
	"github.com/wonny/momentum-ranker/pkg/logger"
)

const (
	// ProviderName identifies this provider in logs and cache keys
	ProviderName = "yahoo"

	// DefaultBaseURL is the public chart API host
	DefaultBaseURL = "https://query1.finance.yahoo.com"

	historyRange    = "2y"
	historyInterval = "1d"
)

// ErrNoData is returned when the chart API does not know a symbol or has no bars for it
var ErrNoData = fmt.Errorf("yahoo: %w", contracts.ErrNoData)

// Client fetches adjusted daily closes from the Yahoo Finance chart API
// ⭐ SSOT: Yahoo Finance 호출은 이 클라이언트에서만
type Client struct {
	httpClient  *httputil.Client
	logger      *logger.Logger
	baseURL     string
	suffix      string
	concurrency int
}

// Option configures a Client
type Option func(*Client)

// WithBaseURL overrides the API host (tests, proxies)
func WithBaseURL(baseURL string) Option {
	return func(c *Client) {
		if baseURL != "" {
			c.baseURL = baseURL
		}
	}
}

// WithSuffix sets the exchange suffix appended for lookup, e.g. ".SA"
func WithSuffix(suffix string) Option {
	return func(c *Client) {
		c.suffix = suffix
	}
}

// WithConcurrency bounds the number of in-flight symbol requests
func WithConcurrency(n int) Option {
	return func(c *Client) {
		if n > 0 {
			c.concurrency = n
		}
	}
}

// NewClient creates a new Yahoo Finance client
func NewClient(httpClient *httputil.Client, log *logger.Logger, opts ...Option) *Client {
	c := &Client{
		httpClient:  httpClient,
		logger:      log.Component("yahoo"),
		baseURL:     DefaultBaseURL,
		suffix:      ticker.DefaultSuffix,
		concurrency: 4,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Name implements contracts.PriceProvider
func (c *Client) Name() string {
	return ProviderName
}

// ExchangeSuffix implements contracts.SuffixedProvider
func (c *Client) ExchangeSuffix() string {
	return c.suffix
}

// FetchHistory implements contracts.PriceProvider.
//
// Requested ids are reduced to their display form, so "PETR4" and "PETR4.SA"
// are fetched once and keyed "PETR4". Unknown symbols are left out; see
// pricedata.FetchEach for when the call as a whole fails.
func (c *Client) FetchHistory(ctx context.Context, tickers []string) (contracts.PriceHistory, error) {
	ids := ticker.Canonical(tickers, c.suffix)
	history, err := pricedata.FetchEach(ctx, ids, c.concurrency, c.logger, c.FetchSeries)
	if err != nil {
		return nil, fmt.Errorf("yahoo: %w", err)
	}
	return history, nil
}

// FetchSeries fetches two years of adjusted daily closes for one display identifier
func (c *Client) FetchSeries(ctx context.Context, id string) (contracts.PriceSeries, error) {
	symbol := ticker.WithSuffix(id, c.suffix)
	fullURL := fmt.Sprintf("%s/v8/finance/chart/%s?%s",
		c.baseURL,
		url.PathEscape(symbol),
		url.Values{
			"interval": {historyInterval},
			"range":    {historyRange},
			"events":   {"div,split"},
		}.Encode(),
	)

	resp, err := c.httpClient.Get(ctx, fullURL)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", symbol, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", symbol, err)
	}

	// Unknown symbols come back as 404 with a "Not Found" error envelope
	var chart chartResponse
	if err := json.Unmarshal(body, &chart); err != nil {
		if resp.StatusCode == http.StatusNotFound {
			return nil, fmt.Errorf("fetch %s: %w", symbol, ErrNoData)
		}
		if resp.StatusCode != http.StatusOK {
			return nil, fmt.Errorf("fetch %s: unexpected status code: %d", symbol, resp.StatusCode)
		}
		return nil, fmt.Errorf("decode %s: %w", symbol, err)
	}
	if e := chart.Chart.Error; e != nil {
		if resp.StatusCode == http.StatusNotFound || e.Code == "Not Found" {
			return nil, fmt.Errorf("fetch %s: %s: %w", symbol, e.Description, ErrNoData)
		}
		return nil, fmt.Errorf("fetch %s: %s: %s", symbol, e.Code, e.Description)
	}
	if resp.StatusCode == http.StatusNotFound {
		return nil, fmt.Errorf("fetch %s: %w", symbol, ErrNoData)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch %s: unexpected status code: %d", symbol, resp.StatusCode)
	}

	series, err := chart.series()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", symbol, err)
	}
	return series, nil
}
