package naver

import (
	"context"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
)

var dotDateRe = regexp.MustCompile(`^\d{4}\.\d{2}\.\d{2}$`)

// FetchDailyPages scrapes the sise_day HTML pages back to from.
// Used when the chart API returns nothing for a code.
func (c *Client) FetchDailyPages(ctx context.Context, stockCode string, from time.Time) ([]PriceData, error) {
	var all []PriceData
	noDataPages := 0

	for page := 1; page <= c.maxPages; page++ {
		select {
		case <-ctx.Done():
			return all, ctx.Err()
		default:
		}

		body, err := c.fetchBody(ctx, c.financeURL, "/item/sise_day.naver", url.Values{
			"code": {stockCode},
			"page": {strconv.Itoa(page)},
		})
		if err != nil {
			return all, err
		}

		prices, lastDate, hasMore := parseDailyHTML(body, stockCode, from)
		all = append(all, prices...)

		// 기준일보다 이전 데이터면 종료
		if !lastDate.IsZero() && lastDate.Before(from) {
			break
		}
		if !hasMore {
			break
		}

		// 연속으로 데이터 없으면 종료
		if lastDate.IsZero() {
			noDataPages++
			if noDataPages >= 3 {
				break
			}
		} else {
			noDataPages = 0
		}
	}

	c.logger.WithFields(map[string]interface{}{
		"stock_code": stockCode,
		"count":      len(all),
	}).Debug("Fetched daily pages")
	return all, nil
}

// parseDailyHTML extracts rows from one sise_day page (newest first).
// Columns: 날짜 | 종가 | 전일비 | 시가 | 고가 | 저가 | 거래량
func parseDailyHTML(html, stockCode string, from time.Time) ([]PriceData, time.Time, bool) {
	var prices []PriceData
	var lastDate time.Time

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return prices, lastDate, false
	}

	doc.Find("table.type2 tr").Each(func(i int, row *goquery.Selection) {
		cells := row.Find("td")
		if cells.Length() < 7 {
			return
		}

		dateText := strings.TrimSpace(cells.Eq(0).Text())
		if !dotDateRe.MatchString(dateText) {
			return
		}
		tradeDate, err := time.Parse("2006.01.02", dateText)
		if err != nil {
			return
		}
		lastDate = tradeDate

		if tradeDate.Before(from) {
			return
		}

		prices = append(prices, PriceData{
			StockCode:  stockCode,
			TradeDate:  tradeDate,
			ClosePrice: parseNum(cells.Eq(1).Text()),
			OpenPrice:  parseNum(cells.Eq(3).Text()),
			HighPrice:  parseNum(cells.Eq(4).Text()),
			LowPrice:   parseNum(cells.Eq(5).Text()),
			Volume:     parseNum(cells.Eq(6).Text()),
		})
	})

	// 다음 페이지 존재 여부 확인
	hasMore := doc.Find(".pgRR").Length() > 0
	return prices, lastDate, hasMore
}

func parseNum(s string) int64 {
	s = strings.TrimSpace(s)
	s = strings.ReplaceAll(s, ",", "")
	s = strings.ReplaceAll(s, "+", "")
	if s == "" || s == "-" {
		return 0
	}
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0
	}
	return n
}

