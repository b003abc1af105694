// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/mmilab/mmi/internal/domain/model"
)

// ScoreHandler handles game scoring submissions.
type ScoreHandler struct {
	deps Dependencies
}

// NewScoreHandler creates a new score handler.
func NewScoreHandler(deps Dependencies) *ScoreHandler {
	return &ScoreHandler{deps: deps}
}

// scoreRequest mirrors the request schema for POST /games/{id}/score.
type scoreRequest struct {
	Role    string              `json:"role"`
	Pitches []model.PitchRecord `json:"pitches"`
}

func (s scoreRequest) validate() error {
	if len(s.Pitches) == 0 {
		return errors.New("missing pitches")
	}
	return nil
}

// HandlePostScore handles POST /games/{id}/score requests.
func (h *ScoreHandler) HandlePostScore(w http.ResponseWriter, r *http.Request, gameID string) {
	const op = "api.post_score"
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}

	var req scoreRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	if err := req.validate(); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}

	role := model.Role(req.Role)
	if req.Role == "" {
		role = model.RolePitcher
	}
	if err := role.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}

	if ok := h.deps.EnqueueGame(r.Context(), gameID, role, req.Pitches); !ok {
		writeError(w, http.StatusTooManyRequests, "backpressure", NewKind(op, ErrBackpressure))
		return
	}
	writeJSON(w, http.StatusAccepted, ackResponse{Status: "accepted", GameID: gameID, Role: string(role)})
}
