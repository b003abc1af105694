package gamesim

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"sync"
	"sync/atomic"
	"time"
)

// HTTPClient wraps http.Client with timeout
type HTTPClient struct {
	client  *http.Client
	timeout time.Duration
}

// newHTTPClient creates a new HTTP client with timeout
func newHTTPClient(timeout time.Duration) *HTTPClient {
	return &HTTPClient{
		client: &http.Client{
			Timeout: timeout,
		},
		timeout: timeout,
	}
}

// Get performs a GET request
func (c *HTTPClient) Get(ctx context.Context, url string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	return c.client.Do(req)
}

// Post performs a POST request with JSON body
func (c *HTTPClient) Post(ctx context.Context, url string, body interface{}) (*http.Response, error) {
	jsonData, err := marshalJSON(body)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewBuffer(jsonData))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	return c.client.Do(req)
}

// marshalJSON marshals a struct to JSON
func marshalJSON(v interface{}) ([]byte, error) {
	return json.Marshal(v)
}

// unmarshalJSON unmarshals JSON to a struct
func unmarshalJSON(data []byte, v interface{}) error {
	return json.Unmarshal(data, v)
}

// readResponseBody reads and closes the response body
func readResponseBody(resp *http.Response) ([]byte, error) {
	defer resp.Body.Close()
	return io.ReadAll(resp.Body)
}

// submitGames submits games concurrently using worker pools
func submitGames(ctx context.Context, config *Config, games []Game, stats *Stats) error {
	log.Printf("Submitting %d games with %d workers...", len(games), config.Workers)

	client := newHTTPClient(config.Timeout)

	// Counters for statistics
	var (
		accepted  int64
		rejected  int64
		failed    int64
		submitted int64
	)

	// Progress reporting
	var lastReport time.Time
	reportInterval := 1 * time.Second

	// Create worker pool
	gameChan := make(chan Game, config.Workers*WorkerChannelMultiplier)
	var wg sync.WaitGroup

	// Start workers
	for i := 0; i < config.Workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()

			for game := range gameChan {
				select {
				case <-ctx.Done():
					return
				default:
					result := submitSingleGame(ctx, client, config, game)

					// Update counters
					atomic.AddInt64(&submitted, 1)
					switch result {
					case "accepted":
						atomic.AddInt64(&accepted, 1)
					case "rejected":
						atomic.AddInt64(&rejected, 1)
					case "failed":
						atomic.AddInt64(&failed, 1)
					}

					// Progress reporting
					if time.Since(lastReport) >= reportInterval {
						lastReport = time.Now()
						total := atomic.LoadInt64(&submitted)
						acc := atomic.LoadInt64(&accepted)
						rej := atomic.LoadInt64(&rejected)
						fail := atomic.LoadInt64(&failed)

						if config.Verbose {
							log.Printf("Progress: %d/%d submitted (accepted: %d, rejected: %d, failed: %d)",
								total, len(games), acc, rej, fail)
						} else {
							fmt.Printf("\rSubmitted: %d/%d (accepted: %d, rejected: %d, failed: %d)",
								total, len(games), acc, rej, fail)
						}
					}
				}
			}
		}()
	}

	// Send games to workers
	go func() {
		defer close(gameChan)
		for _, game := range games {
			select {
			case <-ctx.Done():
				return
			case gameChan <- game:
			}
		}
	}()

	// Wait for all workers to complete
	wg.Wait()

	// Final progress report
	if !config.Verbose {
		fmt.Println() // New line after progress indicator
	}

	// Update stats
	stats.GamesSubmitted = int(atomic.LoadInt64(&submitted))
	stats.GamesAccepted = int(atomic.LoadInt64(&accepted))
	stats.GamesRejected = int(atomic.LoadInt64(&rejected))
	stats.GamesFailed = int(atomic.LoadInt64(&failed))

	log.Printf(`Game submission completed:
   Accepted: %d
   Rejected: %d
   Failed: %d
`, stats.GamesAccepted, stats.GamesRejected, stats.GamesFailed)

	return nil
}

// submitSingleGame submits a single game and returns the result
func submitSingleGame(ctx context.Context, client *HTTPClient, config *Config, game Game) string {
	url := fmt.Sprintf("%s/games/%s/score", config.BaseURL, game.GameID)
	body := scoreRequest{
		Role:    string(config.Role),
		Pitches: game.Pitches,
	}

	resp, err := client.Post(ctx, url, body)
	if err != nil {
		return "failed"
	}

	respBody, err := readResponseBody(resp)
	if err != nil {
		return "failed"
	}

	switch resp.StatusCode {
	case StatusAccepted:
		var ack AckResponse
		if err := unmarshalJSON(respBody, &ack); err == nil && ack.Status == "accepted" {
			return "accepted"
		}
		return "accepted" // Assume accepted for 202 even if parsing fails
	case http.StatusTooManyRequests:
		// Backpressure: the queue is full
		return "rejected"
	default:
		return "failed"
	}
}
