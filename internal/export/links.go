package export

import (
	"fmt"
	"net/url"

	"github.com/wonny/momentum-ranker/internal/ticker"
)

// DefaultChartExchange is the TradingView exchange prefix for B3 listings
const DefaultChartExchange = "BMFBOVESPA"

// TradingViewURL links to the daily chart of id on exchange
func TradingViewURL(id, exchange string) string {
	if exchange == "" {
		exchange = DefaultChartExchange
	}
	symbol := url.QueryEscape(ticker.StripSuffix(id, ticker.DefaultSuffix))
	return fmt.Sprintf("https://www.tradingview.com/chart/?symbol=%s:%s&interval=D", exchange, symbol)
}

// FundamentusURL links to the fundamentals page of a B3 listing
func FundamentusURL(id string) string {
	return "https://www.fundamentus.com.br/detalhes.php?papel=" + url.QueryEscape(ticker.StripSuffix(id, ticker.DefaultSuffix))
}
