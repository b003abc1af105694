package gamesim

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/mmilab/mmi/pkg/logger"
)

// File permission constants.
const (
	directoryPermission = 0750
)

// Run executes the complete game simulation: generate, submit, wait for
// scoring, retrieve, verify.
func Run(ctx context.Context, config *Config) error {
	stats := &Stats{
		StartTime: time.Now(),
	}

	logger.Get().Info(ctx, "starting game simulation run",
		logger.String("baseURL", config.BaseURL),
		logger.Int("games", config.NumGames),
		logger.Int("pitchesPerGame", config.PitchesPerGame),
		logger.String("role", string(config.Role)),
		logger.Int("workers", config.Workers),
		logger.String("timeout", config.Timeout.String()),
		logger.Int("topN", config.TopN),
		logger.String("logFile", config.LogFile),
		logger.Any("verbose", config.Verbose))

	// Step 1: Check service health
	if err := checkServiceHealth(ctx, config); err != nil {
		return fmt.Errorf("service health check failed: %w", err)
	}

	// Step 2: Generate synthetic games
	games, err := generateGames(ctx, config, stats)
	if err != nil {
		return fmt.Errorf("game generation failed: %w", err)
	}

	// Step 3: Submit games concurrently
	if err := submitGames(ctx, config, games, stats); err != nil {
		return fmt.Errorf("game submission failed: %w", err)
	}

	// Step 4: Wait for the workers to drain the queue
	logger.Get().Info(ctx, "waiting for games to be scored")
	time.Sleep(ScoringWaitDelay)

	// Step 5: Retrieve per-game results concurrently
	results, err := retrieveResults(ctx, config, games, stats)
	if err != nil {
		return fmt.Errorf("result retrieval failed: %w", err)
	}

	// Step 6: Get top moments
	moments, err := getTopMoments(ctx, config, stats)
	if err != nil {
		return fmt.Errorf("moment retrieval failed: %w", err)
	}

	// Step 7: Verify results
	if err := verifyResults(config, games, results, moments); err != nil {
		return fmt.Errorf("result verification failed: %w", err)
	}

	// Step 8: Save games to file
	if err := saveGamesToFile(ctx, config, games); err != nil {
		logger.Get().Warn(ctx, "failed to save games to file", logger.Error(err))
	}

	// Final statistics
	stats.EndTime = time.Now()
	stats.Duration = stats.EndTime.Sub(stats.StartTime)

	displayFinalStats(stats)

	logger.Get().Info(ctx, "simulation completed successfully")
	return nil
}

// checkServiceHealth verifies the service is running.
func checkServiceHealth(ctx context.Context, config *Config) error {
	logger.Get().Info(ctx, "checking service health")

	client := newHTTPClient(config.Timeout)
	url := config.BaseURL + "/healthz"

	resp, err := client.Get(ctx, url)
	if err != nil {
		return fmt.Errorf("failed to connect to service: %w", err)
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			logger.Get().Error(context.Background(), "failed to close response body", logger.Error(err))
		}
	}()

	// Accept any 200 response as healthy (the endpoint serves Prometheus metrics)
	if resp.StatusCode != StatusOK {
		return fmt.Errorf("service health check failed with status: %d", resp.StatusCode)
	}

	logger.Get().Info(ctx, "service is healthy")
	return nil
}

// saveGamesToFile saves the generated games to a JSON file.
func saveGamesToFile(ctx context.Context, config *Config, games []Game) error {
	if len(games) == 0 {
		return fmt.Errorf("no games to save")
	}

	// Determine output filename
	filename := config.OutputFile
	if filename == "" {
		timestamp := time.Now().Format("20060102_150405")
		filename = "generated_games_" + timestamp + ".json"
	}

	// Ensure the directory exists
	dir := filepath.Dir(filename)
	if dir != "." {
		if err := os.MkdirAll(dir, directoryPermission); err != nil {
			return fmt.Errorf("failed to create directory: %w", err)
		}
	}

	// Write games to file
	file, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	defer func() {
		if err := file.Close(); err != nil {
			logger.Get().Error(context.Background(), "failed to close file", logger.Error(err))
		}
	}()

	// Write JSON array
	if _, err := file.WriteString("[\n"); err != nil {
		return fmt.Errorf("failed to write opening bracket: %w", err)
	}

	for i, game := range games {
		jsonData, err := marshalJSON(game)
		if err != nil {
			return fmt.Errorf("failed to marshal game %d: %w", i, err)
		}

		if _, err := file.Write(jsonData); err != nil {
			return fmt.Errorf("failed to write game %d: %w", i, err)
		}

		// Add comma except for last game
		if i < len(games)-1 {
			if _, err := file.WriteString(","); err != nil {
				return fmt.Errorf("failed to write comma: %w", err)
			}
		}
		_, _ = file.WriteString("\n")
	}

	if _, err := file.WriteString("]\n"); err != nil {
		return fmt.Errorf("failed to write closing bracket: %w", err)
	}

	logger.Get().Info(ctx, "games saved to file", logger.String("filename", filename))
	return nil
}

// displayFinalStats prints the final run statistics.
func displayFinalStats(stats *Stats) {
	var acceptRate, pitchesPerSecond float64

	if stats.GamesSubmitted > 0 {
		acceptRate = float64(stats.GamesAccepted) / float64(stats.GamesSubmitted) * PercentageMultiplier
	}

	if stats.Duration > 0 {
		pitchesPerSecond = float64(stats.PitchesGenerated) / stats.Duration.Seconds()
	}

	logger.Get().Info(context.Background(), "final statistics",
		logger.Int("gamesGenerated", stats.GamesGenerated),
		logger.Int("pitchesGenerated", stats.PitchesGenerated),
		logger.Int("gamesSubmitted", stats.GamesSubmitted),
		logger.Int("gamesAccepted", stats.GamesAccepted),
		logger.Int("gamesRejected", stats.GamesRejected),
		logger.Int("gamesFailed", stats.GamesFailed),
		logger.Int("gamesScored", stats.GamesScored),
		logger.Int("momentsRetrieved", stats.MomentsRetrieved),
		logger.String("duration", stats.Duration.String()),
		logger.Float64("acceptRate", acceptRate),
		logger.Float64("pitchesPerSecond", pitchesPerSecond))
}
