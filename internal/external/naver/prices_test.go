package naver

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func day(d int) time.Time { return time.Date(2024, 1, d, 0, 0, 0, 0, time.UTC) }

func TestParseSise(t *testing.T) {
	tests := []struct {
		name   string
		body   string
		closes []int64
	}{
		{
			name: "single quoted header",
			body: `
[['날짜', '시가', '고가', '저가', '종가', '거래량', '외국인소진율'],
["20240115", 72300, 73000, 72000, 72500, 1000000, 52.1],
["20240116", 72500, 73500, 72300, 73000, 1200000, 52.2]
]`,
			closes: []int64{72500, 73000},
		},
		{
			name:   "no header keeps first bar",
			body:   `[["20240115", 72300, 73000, 72000, 72500, 1000000], ["20240116", 72500, 73500, 72300, 73000, 1200000]]`,
			closes: []int64{72500, 73000},
		},
		{
			name:   "numeric strings",
			body:   `[["날짜","시가","고가","저가","종가","거래량"],["20240115","72300","73000","72000"," 72500 ","1000000"]]`,
			closes: []int64{72500},
		},
		{
			name:   "trailing comma falls back to scanning",
			body:   "[[\"날짜\"],\n[\"20240115\", 72300, 73000, 72000, 72500, 1000000, 52.1],\n]",
			closes: []int64{72500},
		},
		{
			name: "short rows dropped",
			body: `[["날짜","시가"],["20240115",72300,73000]]`,
		},
		{name: "object body", body: `{"invalid": "json"}`},
		{name: "empty body", body: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := parseSise(tt.body)
			require.Len(t, got, len(tt.closes))
			for i, p := range got {
				assert.Equal(t, day(15+i), p.TradeDate)
				assert.Equal(t, tt.closes[i], p.ClosePrice)
			}
		})
	}
}

func TestScanSiseReadsEveryColumn(t *testing.T) {
	got := scanSise(`["20240115", 72300, 73000, 72000, 72500, 1000000],`)
	require.Len(t, got, 1)
	assert.Equal(t, PriceData{
		TradeDate:  day(15),
		OpenPrice:  72300,
		HighPrice:  73000,
		LowPrice:   72000,
		ClosePrice: 72500,
		Volume:     1000000,
	}, got[0])
}

func TestToInt64(t *testing.T) {
	for input, want := range map[interface{}]int64{
		123.45:     123,
		int64(124): 124,
		125:        125,
		"126":      126,
		" 127 ":    127,
		"abc":      0,
		"":         0,
		struct{}{}: 0,
	} {
		assert.Equal(t, want, toInt64(input), "%#v", input)
	}
	assert.Zero(t, toInt64(nil))
}

func TestToSeries(t *testing.T) {
	series := toSeries([]PriceData{
		{TradeDate: day(16), ClosePrice: 73000},
		{TradeDate: day(15), ClosePrice: 72500},
		{TradeDate: day(17), ClosePrice: 0}, // suspended
	})

	require.Len(t, series, 2)
	assert.Equal(t, day(15), series[0].Date)
	assert.Equal(t, 72500.0, series[0].Close)
	assert.NoError(t, series.Validate())
}
