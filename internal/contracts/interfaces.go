package contracts

import (
	"context"
	"time"
)

// PriceProvider returns adjusted close histories for a set of identifiers
// ⭐ SSOT: 가격 이력 조회 인터페이스
//
// Identifiers the provider cannot serve, or has no data for, are omitted from
// the result. A non-nil error means the upstream could not be reached for any
// identifier, or ctx expired.
type PriceProvider interface {
	Name() string
	FetchHistory(ctx context.Context, tickers []string) (PriceHistory, error)
}

// SuffixedProvider is a PriceProvider whose lookup symbols carry an exchange
// suffix (".SA"). Its history is keyed by the display form, suffix stripped.
type SuffixedProvider interface {
	PriceProvider
	ExchangeSuffix() string
}

// ExchangeSuffixOf returns p's exchange suffix, or "" when it has none
func ExchangeSuffixOf(p PriceProvider) string {
	if s, ok := p.(SuffixedProvider); ok {
		return s.ExchangeSuffix()
	}
	return ""
}

// PriceStore persists close histories fetched from an upstream provider
type PriceStore interface {
	SaveSeries(ctx context.Context, ticker string, series PriceSeries) (int, error)
	LoadSeries(ctx context.Context, ticker string, from, to time.Time) (PriceSeries, error)
}
