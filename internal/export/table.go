package export

import (
	"fmt"
	"io"
	"strings"

	"github.com/wonny/momentum-ranker/internal/contracts"
)

// TableOptions controls console rendering
type TableOptions struct {
	Top      int    // 0 = all rows
	Links    bool   // append chart and fundamentals links
	Exchange string // TradingView exchange prefix
	Details  bool   // list skipped and missing tickers
}

var tableColumns = []string{"Rank", "Ticker", "Rating", "Score", "63d", "126d", "189d", "252d", "Trend"}
var tableWidths = []int{5, 8, 7, 9, 9, 9, 9, 9, 22}

// WriteTable renders the result set as a fixed-width console table.
// Rating is printed with one decimal; score and returns as percentages.
func WriteTable(w io.Writer, rs *contracts.RankingResultSet, opts TableOptions) error {
	ew := &errWriter{w: w}

	writeRow(ew, tableColumns)
	ew.printf("%s\n", strings.Repeat("─", totalWidth()))

	for _, row := range rs.Top(opts.Top) {
		writeRow(ew, []string{
			fmt.Sprintf("%d", row.Rank),
			row.Ticker,
			fmt.Sprintf("%.1f", row.Rating),
			Percent(row.Score),
			Percent(row.R63),
			Percent(row.R126),
			Percent(row.R189),
			Percent(row.R252),
			Sparkline(row.Trend),
		})
		if opts.Links {
			ew.printf("      chart: %s\n", TradingViewURL(row.Ticker, opts.Exchange))
			ew.printf("      fundamentals: %s\n", FundamentusURL(row.Ticker))
		}
	}

	ew.printf("%s\n", strings.Repeat("─", totalWidth()))
	ew.printf("Ranked %d of %d requested", rs.Len(), rs.Requested)
	if len(rs.Skipped) > 0 || len(rs.Missing) > 0 {
		ew.printf(" (%d skipped, %d missing)", len(rs.Skipped), len(rs.Missing))
	}
	ew.printf("\n")

	if opts.Details {
		for _, s := range rs.Skipped {
			ew.printf("  skipped %-8s %s (%d points)\n", s.Ticker, s.Reason, s.Points)
		}
		if len(rs.Missing) > 0 {
			ew.printf("  missing  %s\n", strings.Join(rs.Missing, ", "))
		}
	}
	return ew.err
}

// Percent formats a fraction as a signed percentage with two decimals
func Percent(v float64) string {
	return fmt.Sprintf("%+.2f%%", v*100)
}

func writeRow(ew *errWriter, cells []string) {
	for i, cell := range cells {
		if i == len(cells)-1 {
			ew.printf("%s\n", cell)
			return
		}
		ew.printf("%-*s  ", tableWidths[i], cell)
	}
}

func totalWidth() int {
	total := 0
	for _, w := range tableWidths {
		total += w + 2
	}
	return total - 2
}

// errWriter keeps the first write error
type errWriter struct {
	w   io.Writer
	err error
}

func (e *errWriter) printf(format string, args ...interface{}) {
	if e.err != nil {
		return
	}
	_, e.err = fmt.Fprintf(e.w, format, args...)
}
