package export

import (
	"bytes"
	"encoding/csv"
	"errors"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonny/momentum-ranker/internal/contracts"
)

func sampleResultSet() *contracts.RankingResultSet {
	rs := contracts.NewEmptyResultSet(4)
	rs.Rows = []contracts.ScoredInstrument{
		{Rank: 1, Ticker: "PETR4", Rating: 100, Score: 0.04, R63: 0.1, Trend: []float64{1, 2, 3}},
		{Rank: 2, Ticker: "VALE3", Rating: 50, Score: -0.0125, R63: -0.05, R126: 0.025, R189: -0.0001, R252: 0.3333333333333333},
	}
	rs.Skipped = []contracts.SkippedInstrument{{Ticker: "NEW3", Reason: contracts.SkipInsufficientHistory, Points: 100}}
	rs.Missing = []string{"GONE3"}
	return rs
}

func TestWriteCSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, sampleResultSet()))

	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 3)

	assert.Equal(t, []string{"Rank", "Ticker", "Rating", "Score", "R_63d", "R_126d", "R_189d", "R_252d"}, records[0])
	assert.Equal(t, []string{"1", "PETR4", "100", "0.04", "0.1", "0", "0", "0"}, records[1])
	assert.Equal(t, "0.3333333333333333", records[2][7], "full precision")
	assert.NotContains(t, buf.String(), "Trend")
}

func TestWriteCSV_Empty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, contracts.NewEmptyResultSet(0)))
	assert.Equal(t, "Rank,Ticker,Rating,Score,R_63d,R_126d,R_189d,R_252d\n", buf.String())
}

func TestWriteTable(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteTable(&buf, sampleResultSet(), TableOptions{Details: true}))
	out := buf.String()

	assert.Contains(t, out, "PETR4")
	assert.Contains(t, out, "100.0")
	assert.Contains(t, out, "+4.00%")
	assert.Contains(t, out, "-1.25%")
	assert.Contains(t, out, "50.0")
	assert.Contains(t, out, "Ranked 2 of 4 requested (1 skipped, 1 missing)")
	assert.Contains(t, out, "skipped NEW3")
	assert.Contains(t, out, "missing  GONE3")
	assert.NotContains(t, out, "tradingview")
}

func TestWriteTable_TopAndLinks(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteTable(&buf, sampleResultSet(), TableOptions{Top: 1, Links: true}))
	out := buf.String()

	assert.Contains(t, out, "PETR4")
	assert.NotContains(t, out, "VALE3")
	assert.Contains(t, out, "symbol=BMFBOVESPA:PETR4&interval=D")
	assert.Contains(t, out, "papel=PETR4")
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) { return 0, errors.New("closed pipe") }

func TestWriteTable_WriteError(t *testing.T) {
	err := WriteTable(failingWriter{}, sampleResultSet(), TableOptions{})
	assert.EqualError(t, err, "closed pipe")
}

func TestPercent(t *testing.T) {
	assert.Equal(t, "+10.00%", Percent(0.1))
	assert.Equal(t, "-0.50%", Percent(-0.005))
	assert.Equal(t, "+0.00%", Percent(0))
}

func TestSparkline(t *testing.T) {
	assert.Equal(t, "", Sparkline(nil))
	assert.Equal(t, "▁▁▁", Sparkline([]float64{5, 5, 5}))
	assert.Equal(t, "▁█", Sparkline([]float64{1, 2}))

	line := Sparkline([]float64{1, 2, 3, 4, 5, 6, 7, 8})
	assert.Equal(t, 8, utf8.RuneCountInString(line))
	assert.True(t, strings.HasPrefix(line, "▁"))
	assert.True(t, strings.HasSuffix(line, "█"))
}

func TestLinks(t *testing.T) {
	assert.Equal(t,
		"https://www.tradingview.com/chart/?symbol=BMFBOVESPA:PETR4&interval=D",
		TradingViewURL("PETR4", ""))
	assert.Equal(t,
		"https://www.tradingview.com/chart/?symbol=BMFBOVESPA:VALE3&interval=D",
		TradingViewURL("VALE3.SA", ""))
	assert.Equal(t,
		"https://www.tradingview.com/chart/?symbol=NASDAQ:AAPL&interval=D",
		TradingViewURL("AAPL", "NASDAQ"))
	assert.Equal(t, "https://www.fundamentus.com.br/detalhes.php?papel=ITUB4", FundamentusURL("ITUB4.SA"))
}
