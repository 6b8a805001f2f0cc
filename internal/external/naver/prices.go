package naver

import (
	"context"
	"encoding/json"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/wonny/momentum-ranker/internal/contracts"
)

var siseRowRe = regexp.MustCompile(`\["(\d{8})",\s*(\d+),\s*(\d+),\s*(\d+),\s*(\d+),\s*(\d+)`)

// FetchPrices fetches daily bars for a stock between from and to, inclusive
// ⭐ SSOT: Naver Finance 가격 API 호출은 이 함수에서만
func (c *Client) FetchPrices(ctx context.Context, stockCode string, from, to time.Time) ([]PriceData, error) {
	params := url.Values{
		"symbol":      {stockCode},
		"requestType": {"1"},
		"startTime":   {from.Format("20060102")},
		"endTime":     {to.Format("20060102")},
		"timeframe":   {"day"},
	}

	body, err := c.fetchBody(ctx, c.chartURL, "/siseJson.naver", params)
	if err != nil {
		return nil, err
	}

	prices := parseSise(body)
	for i := range prices {
		prices[i].StockCode = stockCode
	}

	c.logger.WithFields(map[string]interface{}{
		"stock_code": stockCode,
		"count":      len(prices),
	}).Debug("Fetched prices")
	return prices, nil
}

// parseSise reads a siseJson body, a JS array literal whose first row is a header.
// Rows without a yyyymmdd date are dropped.
func parseSise(body string) []PriceData {
	body = strings.ReplaceAll(strings.TrimSpace(body), "'", "\"")

	var rows [][]interface{}
	if err := json.Unmarshal([]byte(body), &rows); err != nil {
		// trailing commas break strict JSON
		return scanSise(body)
	}

	var prices []PriceData
	for _, row := range rows {
		if len(row) < 6 {
			continue
		}
		date, ok := row[0].(string)
		if !ok {
			continue
		}
		tradeDate, err := time.Parse("20060102", strings.TrimSpace(date))
		if err != nil {
			continue
		}
		prices = append(prices, PriceData{
			TradeDate:  tradeDate,
			OpenPrice:  toInt64(row[1]),
			HighPrice:  toInt64(row[2]),
			LowPrice:   toInt64(row[3]),
			ClosePrice: toInt64(row[4]),
			Volume:     toInt64(row[5]),
		})
	}
	return prices
}

// scanSise pulls bars out of a body that is not valid JSON
func scanSise(body string) []PriceData {
	var prices []PriceData
	for _, m := range siseRowRe.FindAllStringSubmatch(body, -1) {
		tradeDate, err := time.Parse("20060102", m[1])
		if err != nil {
			continue
		}
		var bar [5]int64
		for i := range bar {
			bar[i], _ = strconv.ParseInt(m[i+2], 10, 64)
		}
		prices = append(prices, PriceData{
			TradeDate:  tradeDate,
			OpenPrice:  bar[0],
			HighPrice:  bar[1],
			LowPrice:   bar[2],
			ClosePrice: bar[3],
			Volume:     bar[4],
		})
	}
	return prices
}
// toInt64 reads a siseJson cell, number or numeric string
func toInt64(v interface{}) int64 {
	switch val := v.(type) {
	case float64:
		return int64(val)
	case int64:
		return val
	case int:
		return int64(val)
	case string:
		n, _ := strconv.ParseInt(strings.TrimSpace(val), 10, 64)
		return n
	default:
		return 0
	}
}

// toSeries converts bars into a clean close series
func toSeries(prices []PriceData) contracts.PriceSeries {
	series := make(contracts.PriceSeries, 0, len(prices))
	for _, p := range prices {
		series = append(series, contracts.PricePoint{
			Date:  p.TradeDate,
			Close: float64(p.ClosePrice),
		})
	}
	return series.Clean()
}
