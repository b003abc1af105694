package main

import (
	"context"
	"flag"
	"os"
	"runtime"
	"time"

	"github.com/mmilab/mmi/internal/domain/model"
	"github.com/mmilab/mmi/internal/gamesim"
)

// Default configuration constants.
const (
	defaultNumGames       = 50
	defaultPitchesPerGame = 250
	defaultTopN           = 20
	defaultWorkers        = 2 // multiplier for runtime.NumCPU()
	defaultTimeout        = 30 * time.Second
	defaultRunTimeout     = 10 * time.Minute
)

func main() {
	var (
		baseURL    = flag.String("url", "http://localhost:9080", "Base URL of the service")
		numGames   = flag.Int("games", defaultNumGames, "Number of games to generate and submit")
		pitches    = flag.Int("pitches", defaultPitchesPerGame, "Approximate pitch count per game")
		role       = flag.String("role", "pitcher", "Role to score: pitcher or batter")
		topN       = flag.Int("top", defaultTopN, "Number of top moments to fetch")
		workers    = flag.Int("workers", runtime.NumCPU()*defaultWorkers, "Number of concurrent workers")
		timeout    = flag.Duration("timeout", defaultTimeout, "HTTP request timeout")
		outputFile = flag.String("output", "", "Output file for generated games (default: generated_games_TIMESTAMP.json)")
		logFile    = flag.String("log", "", "Log file for run output (default: gamesim_log_TIMESTAMP.log)")
		verbose    = flag.Bool("verbose", false, "Enable verbose logging")
		help       = flag.Bool("help", false, "Show help")
	)
	flag.Parse()

	if *help {
		gamesim.ShowHelp()
		return
	}

	scoringRole := model.Role(*role)
	if err := scoringRole.Validate(); err != nil {
		os.Stderr.WriteString("Invalid role: " + err.Error() + "\n")
		return
	}

	// Setup logging
	if err := gamesim.SetupLogging(*logFile); err != nil {
		os.Stderr.WriteString("Failed to setup logging: " + err.Error() + "\n")
		return
	}

	// Create context with timeout
	ctx, cancel := context.WithTimeout(context.Background(), defaultRunTimeout)
	defer cancel()

	// Create simulation configuration
	config := &gamesim.Config{
		BaseURL:        *baseURL,
		NumGames:       *numGames,
		PitchesPerGame: *pitches,
		Role:           scoringRole,
		TopN:           *topN,
		Workers:        *workers,
		Timeout:        *timeout,
		OutputFile:     *outputFile,
		LogFile:        *logFile,
		Verbose:        *verbose,
	}

	// Run the simulation
	if err := gamesim.Run(ctx, config); err != nil {
		os.Stderr.WriteString("Simulation failed: " + err.Error() + "\n")
		return
	}
}
