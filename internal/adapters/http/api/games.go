// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"net/http"
)

// GamesHandler handles scored-game result requests.
type GamesHandler struct {
	deps Dependencies
}

// NewGamesHandler creates a new games handler.
func NewGamesHandler(deps Dependencies) *GamesHandler {
	return &GamesHandler{deps: deps}
}

// HandleGetGame handles GET /games/{id}/mmi requests.
func (h *GamesHandler) HandleGetGame(w http.ResponseWriter, r *http.Request, gameID string) {
	const op = "api.get_game"
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}

	role, err := parseRole(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}

	results, err := h.deps.GameResults(r.Context(), gameID, role)
	if err != nil {
		if isNotFound(err) {
			writeError(w, http.StatusNotFound, "not_found", err)
			return
		}
		writeError(w, http.StatusInternalServerError, "internal_error", Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, results)
}
