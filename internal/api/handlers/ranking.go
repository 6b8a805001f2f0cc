package handlers

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"github.com/wonny/momentum-ranker/internal/contracts"
	"github.com/wonny/momentum-ranker/internal/export"
	"github.com/wonny/momentum-ranker/internal/momentum"
	"github.com/wonny/momentum-ranker/internal/ticker"
	"github.com/wonny/momentum-ranker/internal/universe"
	"github.com/wonny/momentum-ranker/pkg/logger"
)

// RankingHandler serves momentum rankings
// ⭐ SSOT: 랭킹 API 핸들러는 이 구조체에서만
type RankingHandler struct {
	engine          *momentum.Engine
	provider        contracts.PriceProvider
	universes       *universe.File
	defaultUniverse string
	timeout         time.Duration
	logger          *logger.Logger
}

// NewRankingHandler creates a new ranking handler
func NewRankingHandler(
	engine *momentum.Engine,
	provider contracts.PriceProvider,
	universes *universe.File,
	defaultUniverse string,
	timeout time.Duration,
	log *logger.Logger,
) *RankingHandler {
	return &RankingHandler{
		engine:          engine,
		provider:        provider,
		universes:       universes,
		defaultUniverse: defaultUniverse,
		timeout:         timeout,
		logger:          log,
	}
}

// GetRanking ranks the requested tickers or universe
// GET /api/ranking?tickers=A,B&universe=name&format=json|csv&top=N
func (h *RankingHandler) GetRanking(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	top, err := parseTop(q.Get("top"))
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	format := q.Get("format")
	if format == "" {
		format = "json"
	}
	if format != "json" && format != "csv" {
		respondError(w, http.StatusBadRequest, "Invalid 'format' (expected json or csv)")
		return
	}

	tickers, status, err := h.resolveTickers(q.Get("tickers"), q.Get("universe"), false)
	if err != nil {
		respondError(w, status, err.Error())
		return
	}

	rs, status, err := h.rank(r.Context(), tickers)
	if err != nil {
		respondError(w, status, err.Error())
		return
	}

	if top > 0 {
		rs.Rows = rs.Top(top)
	}

	if format == "csv" {
		var buf bytes.Buffer
		if err := export.WriteCSV(&buf, rs); err != nil {
			h.logger.WithError(err).Error("Failed to render CSV")
			respondError(w, http.StatusInternalServerError, "Failed to render CSV")
			return
		}
		w.Header().Set("Content-Type", "text/csv; charset=utf-8")
		w.Header().Set("Content-Disposition", `attachment; filename="momentum_ranking.csv"`)
		w.WriteHeader(http.StatusOK)
		w.Write(buf.Bytes())
		return
	}

	respondJSON(w, http.StatusOK, rs)
}

// TickerResponse is the ranked row of one ticker within its population
type TickerResponse struct {
	Row        contracts.ScoredInstrument `json:"row"`
	Population int                        `json:"population"`
}

// GetTicker returns one ticker's row, ranked against the universe
// GET /api/ranking/{ticker}?universe=name
func (h *RankingHandler) GetTicker(w http.ResponseWriter, r *http.Request) {
	id := ticker.Canonical([]string{mux.Vars(r)["ticker"]}, contracts.ExchangeSuffixOf(h.provider))
	if len(id) == 0 {
		respondError(w, http.StatusBadRequest, "Ticker is required")
		return
	}

	tickers, status, err := h.resolveTickers("", r.URL.Query().Get("universe"), true)
	if err != nil {
		respondError(w, status, err.Error())
		return
	}
	tickers = append(tickers, id[0])

	rs, status, err := h.rank(r.Context(), tickers)
	if err != nil {
		respondError(w, status, err.Error())
		return
	}

	row, found := rs.Find(id[0])
	if !found {
		msg := "Ticker not ranked"
		for _, s := range rs.Skipped {
			if s.Ticker == id[0] {
				msg = "Ticker not ranked: " + string(s.Reason)
			}
		}
		respondError(w, http.StatusNotFound, msg)
		return
	}

	respondJSON(w, http.StatusOK, TickerResponse{Row: row, Population: rs.Len()})
}

// resolveTickers picks explicit tickers first, then the named (or default) universe
func (h *RankingHandler) resolveTickers(raw, name string, useDefault bool) ([]string, int, error) {
	if tickers := ticker.Parse(raw); len(tickers) > 0 {
		return tickers, http.StatusOK, nil
	}

	if name == "" && useDefault {
		name = h.defaultUniverse
	}
	if name == "" {
		return nil, http.StatusBadRequest, contracts.ErrEmptyInput
	}

	tickers, err := h.universes.Get(name)
	if errors.Is(err, universe.ErrUnknownList) {
		return nil, http.StatusNotFound, err
	}
	if err != nil {
		return nil, http.StatusInternalServerError, err
	}
	return tickers, http.StatusOK, nil
}

func (h *RankingHandler) rank(ctx context.Context, tickers []string) (*contracts.RankingResultSet, int, error) {
	rs, err := h.engine.Run(ctx, h.provider, tickers, h.timeout)
	switch {
	case err == nil:
		return rs, http.StatusOK, nil
	case errors.Is(err, contracts.ErrProviderFailure):
		return nil, http.StatusBadGateway, errors.New("price provider unavailable")
	default:
		h.logger.WithError(err).Warn("Ranking aborted")
		return nil, http.StatusServiceUnavailable, errors.New("ranking aborted")
	}
}

func parseTop(raw string) (int, error) {
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return 0, errors.New("Invalid 'top' (expected a non-negative integer)")
	}
	return n, nil
}
