package naver

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/wonny/momentum-ranker/pkg/httputil"
	"github.com/wonny/momentum-ranker/pkg/logger"
)

const (
	// ProviderName identifies this provider in logs and cache keys
	ProviderName = "naver"

	// DefaultChartURL hosts the siseJson daily endpoint
	DefaultChartURL = "https://fchart.stock.naver.com"

	// DefaultFinanceURL hosts the HTML daily quote pages
	DefaultFinanceURL = "https://finance.naver.com"

	// Two calendar years comfortably covers 253 trading days
	defaultLookback = 2 * 365 * 24 * time.Hour
)

// Client handles communication with Naver Finance
// ⭐ SSOT: Naver Finance API 호출은 이 클라이언트에서만
type Client struct {
	httpClient  *httputil.Client
	logger      *logger.Logger
	chartURL    string
	financeURL  string
	lookback    time.Duration
	concurrency int
	maxPages    int
	now         func() time.Time
}

// Option configures a Client
type Option func(*Client)

// WithChartURL overrides the siseJson host
func WithChartURL(u string) Option {
	return func(c *Client) {
		if u != "" {
			c.chartURL = u
		}
	}
}

// WithFinanceURL overrides the HTML host
func WithFinanceURL(u string) Option {
	return func(c *Client) {
		if u != "" {
			c.financeURL = u
		}
	}
}

// WithConcurrency bounds the number of codes fetched at once
func WithConcurrency(n int) Option {
	return func(c *Client) {
		if n > 0 {
			c.concurrency = n
		}
	}
}

// NewClient creates a new Naver Finance client
func NewClient(httpClient *httputil.Client, log *logger.Logger, opts ...Option) *Client {
	c := &Client{
		httpClient:  httpClient,
		logger:      log.Component("naver"),
		chartURL:    DefaultChartURL,
		financeURL:  DefaultFinanceURL,
		lookback:    defaultLookback,
		concurrency: 4,
		maxPages:    60, // 10 rows per page
		now:         time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// fetchBody fetches a Naver page with the headers Naver expects
func (c *Client) fetchBody(ctx context.Context, base, path string, params url.Values) (string, error) {
	fullURL := fmt.Sprintf("%s%s", base, path)
	if len(params) > 0 {
		fullURL = fmt.Sprintf("%s?%s", fullURL, params.Encode())
	}

	resp, err := c.httpClient.GetWithHeaders(ctx, fullURL, map[string]string{
		"Referer": "https://finance.naver.com/",
	})
	if err != nil {
		return "", fmt.Errorf("HTTP request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response body: %w", err)
	}

	return string(body), nil
}

// PriceData represents one daily bar
type PriceData struct {
	StockCode  string
	TradeDate  time.Time
	OpenPrice  int64
	HighPrice  int64
	LowPrice   int64
	ClosePrice int64
	Volume     int64
}
