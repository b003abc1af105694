package gamesim

import (
	"time"

	"github.com/mmilab/mmi/internal/domain/model"
)

// Config holds configuration for the game simulation run
type Config struct {
	BaseURL        string        // Base URL of the service
	NumGames       int           // Number of games to generate
	PitchesPerGame int           // Approximate pitch count per game
	Role           model.Role    // Role to score games for
	TopN           int           // Number of top moments to fetch
	Workers        int           // Number of concurrent workers
	Timeout        time.Duration // HTTP request timeout
	OutputFile     string        // Output file for generated games
	LogFile        string        // Log file for run output
	Verbose        bool          // Enable verbose logging
}

// Game is one generated game: an ordered pitch sequence under one id.
type Game struct {
	GameID  string              `json:"game_id"`
	Pitches []model.PitchRecord `json:"pitches"`
}

// scoreRequest is the POST /games/{id}/score body.
type scoreRequest struct {
	Role    string              `json:"role"`
	Pitches []model.PitchRecord `json:"pitches"`
}

// AckResponse represents the response from game submission
type AckResponse struct {
	Status string `json:"status"`
	GameID string `json:"game_id"`
	Role   string `json:"role"`
}

// MomentEntry represents one entry from the top moments endpoint
type MomentEntry struct {
	Rank     int     `json:"rank"`
	GameID   string  `json:"game_id"`
	PlayerID string  `json:"player_id"`
	Role     string  `json:"role"`
	MMI      float64 `json:"mmi"`
	Leverage float64 `json:"leverage"`
	Inning   int     `json:"inning"`
}

// Stats holds simulation run statistics
type Stats struct {
	GamesGenerated   int
	PitchesGenerated int
	GamesSubmitted   int
	GamesAccepted    int
	GamesRejected    int
	GamesFailed      int
	GamesScored      int
	MomentsRetrieved int
	StartTime        time.Time
	EndTime          time.Time
	Duration         time.Duration
}
