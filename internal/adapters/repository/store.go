// Package repository defines the scored-result store interface and errors.
package repository

import (
	"context"
	"time"

	"github.com/mmilab/mmi/internal/domain/model"
)

// Moment is one scored pitch in the league-wide moment index.
type Moment struct {
	Rank        int
	MomentID    string
	GameID      string
	PlayerID    string
	Role        model.Role
	MMI         float64
	Leverage    float64
	Inning      int
	AtBatIndex  string
	PitchNumber string
	Timestamp   time.Time
}

// Store provides read/write access to scored game results and the
// league-wide ordered moment index.
type Store interface {
	// PutGame stores the per-pitch results of one scored game for one role,
	// replacing any previous results for the same game and role.
	PutGame(ctx context.Context, gameID string, role model.Role, results []model.MMIResult) error

	// Game returns the stored results for a game and role.
	// Returns ErrNotFound when the game has not been scored.
	Game(ctx context.Context, gameID string, role model.Role) ([]model.MMIResult, error)

	// PlayerResults returns all stored results for a player and role across
	// games. Returns ErrNotFound for an unknown player.
	PlayerResults(ctx context.Context, playerID string, role model.Role) ([]model.MMIResult, error)

	// TopMoments returns the top-N moments ordered by MMI desc.
	TopMoments(ctx context.Context, n int) ([]Moment, error)

	// Games returns the ids of all scored games.
	Games(ctx context.Context) []string

	// Count returns the number of moments tracked in the index.
	Count(ctx context.Context) int
}
