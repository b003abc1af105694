// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/mmilab/mmi/internal/adapters/repository"
	"github.com/mmilab/mmi/internal/domain/model"
)

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to implementations in other packages.
type Dependencies interface {
	// EnqueueGame pushes a game for async scoring. Returns false on
	// backpressure.
	EnqueueGame(ctx context.Context, gameID string, role model.Role, pitches []model.PitchRecord) bool

	// GameResults returns the stored per-pitch results of a scored game.
	GameResults(ctx context.Context, gameID string, role model.Role) ([]model.MMIResult, error)

	// PlayerSummary aggregates all stored results for a player.
	PlayerSummary(ctx context.Context, playerID string, role model.Role) (model.PlayerSummary, error)

	// TopMoments returns the league-wide top moments ordered by MMI desc.
	TopMoments(ctx context.Context, n int) ([]Moment, error)
}

// Moment mirrors the read shape returned by moment queries.
type Moment = repository.Moment

// Server wires HTTP routes for the business API.
type Server struct {
	healthHandler  *HealthHandler
	statsHandler   *StatsHandler
	scoreHandler   *ScoreHandler
	gamesHandler   *GamesHandler
	playersHandler *PlayersHandler
	momentsHandler *MomentsHandler
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, statsProvider StatsProvider, maxMomentsLimit int) *Server {
	return &Server{
		healthHandler:  NewHealthHandler(),
		statsHandler:   NewStatsHandler(statsProvider),
		scoreHandler:   NewScoreHandler(deps),
		gamesHandler:   NewGamesHandler(deps),
		playersHandler: NewPlayersHandler(deps),
		momentsHandler: NewMomentsHandler(deps, maxMomentsLimit),
	}
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(ctx context.Context, mux *http.ServeMux) {
	mux.HandleFunc("/healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	mux.HandleFunc("/metrics", MetricsMiddleware(s.healthHandler.HandleHealth, "metrics"))
	mux.HandleFunc("/stats", MetricsMiddleware(s.statsHandler.HandleStats, "stats"))
	mux.HandleFunc("/games/", MetricsMiddleware(s.routeGames, "games"))
	mux.HandleFunc("/players/", MetricsMiddleware(s.playersHandler.HandleGetSummary, "players"))
	mux.HandleFunc("/moments", MetricsMiddleware(s.momentsHandler.HandleGetMoments, "moments"))
}

// routeGames dispatches /games/{id}/mmi and /games/{id}/score.
func (s *Server) routeGames(w http.ResponseWriter, r *http.Request) {
	gameID, tail, ok := splitGamePath(r.URL.Path)
	if !ok {
		http.NotFound(w, r)
		return
	}
	switch tail {
	case "mmi":
		s.gamesHandler.HandleGetGame(w, r, gameID)
	case "score":
		s.scoreHandler.HandlePostScore(w, r, gameID)
	default:
		http.NotFound(w, r)
	}
}

type ackResponse struct {
	Status string `json:"status"`
	GameID string `json:"game_id"`
	Role   string `json:"role"`
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}

// isNotFound translates upstream not-found errors to 404.
func isNotFound(err error) bool {
	return errors.Is(err, repository.ErrNotFound)
}

// parseRole reads the role query parameter, defaulting to pitcher.
func parseRole(r *http.Request) (model.Role, error) {
	raw := r.URL.Query().Get("role")
	if raw == "" {
		return model.RolePitcher, nil
	}
	role := model.Role(raw)
	if err := role.Validate(); err != nil {
		return "", err
	}
	return role, nil
}

// splitGamePath parses /games/{id}/{tail} into its id and tail parts.
func splitGamePath(path string) (gameID, tail string, ok bool) {
	const prefix = "/games/"
	if len(path) <= len(prefix) {
		return "", "", false
	}
	rest := path[len(prefix):]
	for i := 0; i < len(rest); i++ {
		if rest[i] == '/' {
			if i == 0 || i == len(rest)-1 {
				return "", "", false
			}
			return rest[:i], rest[i+1:], true
		}
	}
	return "", "", false
}
