package pricedata

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/wonny/momentum-ranker/internal/contracts"
)

var day0 = time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)

func seriesOf(closes ...float64) contracts.PriceSeries {
	s := make(contracts.PriceSeries, len(closes))
	for i, c := range closes {
		s[i] = contracts.PricePoint{Date: day0.AddDate(0, 0, i), Close: c}
	}
	return s
}

type memStore struct {
	mu      sync.Mutex
	data    map[string]contracts.PriceSeries
	failOn  string
	loadErr error
}

func newMemStore() *memStore {
	return &memStore{data: map[string]contracts.PriceSeries{}}
}

func (s *memStore) SaveSeries(_ context.Context, ticker string, series contracts.PriceSeries) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if ticker == s.failOn {
		return 0, errors.New("disk full")
	}
	s.data[ticker] = series
	return len(series), nil
}

func (s *memStore) LoadSeries(_ context.Context, ticker string, from, to time.Time) (contracts.PriceSeries, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.loadErr != nil {
		return nil, s.loadErr
	}
	var out contracts.PriceSeries
	for _, p := range s.data[ticker] {
		if !p.Date.Before(from) && !p.Date.After(to) {
			out = append(out, p)
		}
	}
	return out, nil
}

type memCache struct {
	mu     sync.Mutex
	items  map[string][]byte
	ttls   map[string]time.Duration
	getErr error
}

func newMemCache() *memCache {
	return &memCache{items: map[string][]byte{}, ttls: map[string]time.Duration{}}
}

func (c *memCache) Get(_ context.Context, key string, dest interface{}) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.getErr != nil {
		return false, c.getErr
	}
	data, ok := c.items[key]
	if !ok {
		return false, nil
	}
	return true, json.Unmarshal(data, dest)
}

func (c *memCache) Set(_ context.Context, key string, value interface{}, ttl time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	c.items[key] = data
	c.ttls[key] = ttl
	return nil
}

type recordingProvider struct {
	history contracts.PriceHistory
	err     error
	asked   [][]string
}

func (p *recordingProvider) Name() string { return "yahoo" }

func (p *recordingProvider) FetchHistory(_ context.Context, tickers []string) (contracts.PriceHistory, error) {
	p.asked = append(p.asked, append([]string(nil), tickers...))
	if p.err != nil {
		return nil, p.err
	}
	out := contracts.PriceHistory{}
	for _, t := range tickers {
		if s, ok := p.history[t]; ok {
			out[t] = s
		}
	}
	return out, nil
}
