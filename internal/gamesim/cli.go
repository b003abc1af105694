package gamesim

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"time"

	"github.com/mmilab/mmi/pkg/logger"
)

// File permission constants.
const (
	logFilePermission = 0600
)

// SetupLogging configures logging to both console and file.
// If logFile is empty, a timestamped filename is generated.
func SetupLogging(logFile string) error {
	// Initialize the logger first
	if err := logger.Init(); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	if logFile == "" {
		timestamp := time.Now().Format("20060102_150405")
		logFile = "gamesim_log_" + timestamp + ".log"
	}

	file, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, logFilePermission)
	if err != nil {
		return fmt.Errorf("failed to create log file: %w", err)
	}

	multiWriter := io.MultiWriter(os.Stdout, file)
	log.SetOutput(multiWriter)
	log.SetFlags(log.LstdFlags | log.Lmicroseconds)
	logger.Get().Info(context.Background(), "logging to file", logger.String("logFile", logFile))
	return nil
}

// ShowHelp prints usage information for the game simulation tool.
func ShowHelp() {
	os.Stdout.WriteString(`MMI Game Simulation Tool
========================

Generates synthetic baseball games, submits them for asynchronous MMI
scoring, and verifies the stored results and top moments.

Usage:
  go run cmd/game-sim/main.go [options]

Options:
  -url string
        Base URL of the service (default "http://localhost:9080")
  -games int
        Number of games to generate and submit (default 50)
  -pitches int
        Approximate pitch count per game (default 250)
  -role string
        Role to score: pitcher or batter (default "pitcher")
  -top int
        Number of top moments to fetch (default 20)
  -workers int
        Number of concurrent workers (default NumCPU*2)
  -timeout duration
        HTTP request timeout (default 30s)
  -output string
        Output file for generated games (default: generated_games_TIMESTAMP.json)
  -log string
        Log file for run output (default: gamesim_log_TIMESTAMP.log)
  -verbose
        Enable verbose logging
  -help
        Show this help

Examples:
  # Run with defaults against a local service
  go run cmd/game-sim/main.go

  # Score 200 batter-role games with 8 workers
  go run cmd/game-sim/main.go -games 200 -role batter -workers 8
`)
}
