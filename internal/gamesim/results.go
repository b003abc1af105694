package gamesim

import (
	"context"
	"fmt"
	"log"
	"sync"
	"sync/atomic"
	"time"

	"github.com/mmilab/mmi/internal/domain/model"
)

// GameResult pairs a submitted game with its retrieved scoring output.
type GameResult struct {
	GameID  string
	Results []model.MMIResult
}

// retrieveResults fetches stored scoring results for every submitted
// game concurrently.
func retrieveResults(ctx context.Context, config *Config, games []Game, stats *Stats) ([]GameResult, error) {
	log.Printf("Retrieving results for %d games with %d workers...", len(games), config.Workers)

	client := newHTTPClient(config.Timeout)

	// Results storage
	results := make([]GameResult, len(games))
	var (
		retrieved int64
		failed    int64
	)

	// Progress reporting
	var lastReport time.Time
	reportInterval := 1 * time.Second

	// Create worker pool
	gameChan := make(chan int, config.Workers*WorkerChannelMultiplier)
	var wg sync.WaitGroup

	// Start workers
	for i := 0; i < config.Workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()

			for index := range gameChan {
				select {
				case <-ctx.Done():
					return
				default:
					game := games[index]
					res, err := retrieveSingleGame(ctx, client, config, game.GameID)

					if err != nil {
						atomic.AddInt64(&failed, 1)
						if config.Verbose {
							log.Printf("Failed to get results for %s: %v", game.GameID, err)
						}
					} else {
						results[index] = GameResult{GameID: game.GameID, Results: res}
						atomic.AddInt64(&retrieved, 1)
					}

					// Progress reporting
					if time.Since(lastReport) >= reportInterval {
						lastReport = time.Now()
						total := atomic.LoadInt64(&retrieved) + atomic.LoadInt64(&failed)
						log.Printf("Results: %d/%d retrieved (success: %d, failed: %d)",
							total, len(games), atomic.LoadInt64(&retrieved), atomic.LoadInt64(&failed))
					}
				}
			}
		}()
	}

	// Send game indices to workers
	go func() {
		defer close(gameChan)
		for i := range games {
			select {
			case <-ctx.Done():
				return
			case gameChan <- i:
			}
		}
	}()

	// Wait for all workers to complete
	wg.Wait()

	// Filter out empty entries (failed retrievals)
	validResults := make([]GameResult, 0, len(results))
	for _, r := range results {
		if r.GameID != "" {
			validResults = append(validResults, r)
		}
	}

	// Update stats
	stats.GamesScored = len(validResults)

	log.Printf(`Result retrieval completed:
   Retrieved: %d
   Failed: %d
`, len(validResults), int(atomic.LoadInt64(&failed)))

	return validResults, nil
}

// retrieveSingleGame retrieves the stored results for one game.
func retrieveSingleGame(ctx context.Context, client *HTTPClient, config *Config, gameID string) ([]model.MMIResult, error) {
	url := fmt.Sprintf("%s/games/%s/mmi?role=%s", config.BaseURL, gameID, config.Role)

	resp, err := client.Get(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}

	body, err := readResponseBody(resp)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != StatusOK {
		return nil, fmt.Errorf("HTTP %d: %s", resp.StatusCode, string(body))
	}

	var results []model.MMIResult
	if err := unmarshalJSON(body, &results); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}

	return results, nil
}

// getTopMoments retrieves the top N league-wide moments.
func getTopMoments(ctx context.Context, config *Config, stats *Stats) ([]MomentEntry, error) {
	log.Printf("Getting top %d moments...", config.TopN)

	client := newHTTPClient(config.Timeout)
	url := fmt.Sprintf("%s/moments?limit=%d", config.BaseURL, config.TopN)

	resp, err := client.Get(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}

	body, err := readResponseBody(resp)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != StatusOK {
		return nil, fmt.Errorf("HTTP %d: %s", resp.StatusCode, string(body))
	}

	var moments []MomentEntry
	if err := unmarshalJSON(body, &moments); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}

	stats.MomentsRetrieved = len(moments)
	log.Printf("Retrieved %d top moments", len(moments))

	return moments, nil
}
