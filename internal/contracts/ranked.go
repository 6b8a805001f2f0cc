package contracts

import (
	"fmt"
	"time"
)

// ScoredInstrument is one ranked row
// ⭐ SSOT: 랭킹 결과 행
type ScoredInstrument struct {
	Rank   int     `json:"rank"` // 1 = highest score
	Ticker string  `json:"ticker"`
	Rating float64 `json:"rating"` // percentile 0-100, ties averaged
	Score  float64 `json:"score"`  // weighted sum of the window returns

	// Windowed simple returns as signed fractions
	R63  float64 `json:"r_63d"`  // latest vs 63 points back
	R126 float64 `json:"r_126d"` // 63 vs 126
	R189 float64 `json:"r_189d"` // 126 vs 189
	R252 float64 `json:"r_252d"` // 189 vs 252

	// Last closes, oldest first. Visualization only.
	Trend []float64 `json:"trend"`
}

// SkipReason says why an instrument returned by the provider was not ranked
type SkipReason string

const (
	SkipInsufficientHistory SkipReason = "insufficient_history"
	SkipWindowLookup        SkipReason = "window_lookup"
)

// Err maps the reason onto the error taxonomy
func (r SkipReason) Err() error {
	switch r {
	case SkipInsufficientHistory:
		return ErrInsufficientHistory
	case SkipWindowLookup:
		return ErrWindowLookup
	default:
		return fmt.Errorf("unknown skip reason %q", string(r))
	}
}

// SkippedInstrument records an excluded instrument
type SkippedInstrument struct {
	Ticker string     `json:"ticker"`
	Reason SkipReason `json:"reason"`
	Points int        `json:"points"` // valid points available after cleaning
	Detail string     `json:"detail,omitempty"`
}

// Outcome is the per-instrument result of scoring: exactly one field is set
type Outcome struct {
	Scored  *ScoredInstrument
	Skipped *SkippedInstrument
}

// OK reports whether the instrument was scored
func (o Outcome) OK() bool {
	return o.Scored != nil
}

// RankingResultSet is the output of one ranking pass
// ⭐ SSOT: 랭킹 엔진 → 표시 계층 전달
type RankingResultSet struct {
	Rows        []ScoredInstrument  `json:"rows"`    // score descending
	Skipped     []SkippedInstrument `json:"skipped"` // returned by provider, excluded by engine
	Missing     []string            `json:"missing"` // requested, never returned by provider
	Requested   int                 `json:"requested"`
	GeneratedAt time.Time           `json:"generated_at"`
}

// NewEmptyResultSet returns a result set with no rows
func NewEmptyResultSet(requested int) *RankingResultSet {
	return &RankingResultSet{
		Rows:        []ScoredInstrument{},
		Skipped:     []SkippedInstrument{},
		Missing:     []string{},
		Requested:   requested,
		GeneratedAt: time.Now(),
	}
}

// Len returns the number of ranked rows
func (rs *RankingResultSet) Len() int {
	return len(rs.Rows)
}

// IsEmpty reports whether nothing was ranked
func (rs *RankingResultSet) IsEmpty() bool {
	return len(rs.Rows) == 0
}

// Top returns at most n leading rows; n <= 0 returns all rows
func (rs *RankingResultSet) Top(n int) []ScoredInstrument {
	if n <= 0 || n >= len(rs.Rows) {
		return rs.Rows
	}
	return rs.Rows[:n]
}

// Find returns the row for ticker
func (rs *RankingResultSet) Find(ticker string) (ScoredInstrument, bool) {
	for _, row := range rs.Rows {
		if row.Ticker == ticker {
			return row, true
		}
	}
	return ScoredInstrument{}, false
}

// IsTopRanked checks if the instrument is in top N ranks
func (s *ScoredInstrument) IsTopRanked(n int) bool {
	return s.Rank <= n && s.Rank > 0
}
