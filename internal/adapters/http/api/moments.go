// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"net/http"
	"strconv"
)

// defaultMomentsLimit applies when the limit query parameter is absent.
const defaultMomentsLimit = 10

// MomentsHandler handles league-wide top moment requests.
type MomentsHandler struct {
	deps     Dependencies
	maxLimit int
}

// NewMomentsHandler creates a new moments handler.
func NewMomentsHandler(deps Dependencies, maxLimit int) *MomentsHandler {
	return &MomentsHandler{
		deps:     deps,
		maxLimit: maxLimit,
	}
}

// HandleGetMoments handles GET /moments?limit=N requests.
func (h *MomentsHandler) HandleGetMoments(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_moments"
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}

	n := defaultMomentsLimit
	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		parsed, err := strconv.Atoi(limitStr)
		if err != nil || parsed < 1 {
			writeError(w, http.StatusBadRequest, "bad_request", NewKind(op, ErrBadRequest))
			return
		}
		n = parsed
	}
	if n > h.maxLimit {
		writeError(w, http.StatusBadRequest, "limit_exceeded", NewKind(op, ErrBadRequest))
		return
	}

	moments, err := h.deps.TopMoments(r.Context(), n)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal_error", Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, moments)
}
