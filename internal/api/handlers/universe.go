package handlers

import (
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/wonny/momentum-ranker/internal/universe"
)

// UniverseHandler exposes the configured ticker lists
type UniverseHandler struct {
	universes *universe.File
}

// NewUniverseHandler creates a new universe handler
func NewUniverseHandler(universes *universe.File) *UniverseHandler {
	return &UniverseHandler{universes: universes}
}

// List returns the list names
// GET /api/universes
func (h *UniverseHandler) List(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"universes": h.universes.Names(),
	})
}

// Get returns one list's normalized tickers
// GET /api/universes/{name}
func (h *UniverseHandler) Get(w http.ResponseWriter, r *http.Request) {
	name := mux.Vars(r)["name"]

	tickers, err := h.universes.Get(name)
	if errors.Is(err, universe.ErrUnknownList) {
		respondError(w, http.StatusNotFound, err.Error())
		return
	}
	if err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"name":    name,
		"count":   len(tickers),
		"tickers": tickers,
	})
}
