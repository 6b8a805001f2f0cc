package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/wonny/momentum-ranker/internal/contracts"
)

// CSVHeader is the column order of WriteCSV. The trend column is not exported.
var CSVHeader = []string{"Rank", "Ticker", "Rating", "Score", "R_63d", "R_126d", "R_189d", "R_252d"}

// WriteCSV writes the ranked rows as CSV with full float precision
func WriteCSV(w io.Writer, rs *contracts.RankingResultSet) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(CSVHeader); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}
	for _, row := range rs.Rows {
		record := []string{
			strconv.Itoa(row.Rank),
			row.Ticker,
			formatFloat(row.Rating),
			formatFloat(row.Score),
			formatFloat(row.R63),
			formatFloat(row.R126),
			formatFloat(row.R189),
			formatFloat(row.R252),
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("write csv row %s: %w", row.Ticker, err)
		}
	}

	cw.Flush()
	return cw.Error()
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
