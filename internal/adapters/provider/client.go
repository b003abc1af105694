// Package provider fetches play-by-play data from the MLB Stats API and
// converts it into pitch records, with an offline loader for files that
// follow the same schema.
package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/mmilab/mmi/internal/domain/model"
	"github.com/mmilab/mmi/pkg/logger"
)

// Default client configuration.
const (
	defaultBaseURL = "https://statsapi.mlb.com/api/v1"
	defaultTimeout = 30 * time.Second
	userAgent      = "mmi-service/1.0"
)

// StatsClient talks to the MLB Stats API.
type StatsClient struct {
	baseURL string
	http    *http.Client
	logger  logger.Logger
}

// Option applies a configuration option to the StatsClient.
type Option func(*StatsClient)

// WithBaseURL overrides the API root, e.g. for a fixture server.
func WithBaseURL(u string) Option {
	return func(c *StatsClient) {
		if u != "" {
			c.baseURL = u
		}
	}
}

// WithTimeout bounds a single feed request.
func WithTimeout(d time.Duration) Option {
	return func(c *StatsClient) {
		if d > 0 {
			c.http.Timeout = d
		}
	}
}

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *StatsClient) {
		if hc != nil {
			c.http = hc
		}
	}
}

// NewStatsClient creates a client with configuration options.
func NewStatsClient(opts ...Option) *StatsClient {
	c := &StatsClient{
		baseURL: defaultBaseURL,
		http:    &http.Client{Timeout: defaultTimeout},
		logger:  logger.Get().Named("provider"),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// GamePitches fetches a game's live feed and parses every pitch.
func (c *StatsClient) GamePitches(ctx context.Context, gameID string) ([]model.PitchRecord, error) {
	var feed gameFeed
	u := fmt.Sprintf("%s/game/%s/feed/live", c.baseURL, url.PathEscape(gameID))
	if err := c.getJSON(ctx, u, &feed); err != nil {
		return nil, err
	}

	pitches := parseFeed(&feed)
	c.logger.Info(ctx, "parsed game feed",
		logger.String("gameID", gameID),
		logger.Int("pitches", len(pitches)),
	)
	return pitches, nil
}

// Schedule returns the game ids scheduled on a date. teamID zero means
// all teams.
func (c *StatsClient) Schedule(ctx context.Context, day time.Time, teamID int) ([]string, error) {
	q := url.Values{}
	q.Set("sportId", "1")
	q.Set("startDate", day.Format("2006-01-02"))
	q.Set("endDate", day.Format("2006-01-02"))
	if teamID > 0 {
		q.Set("teamId", strconv.Itoa(teamID))
	}

	var sched scheduleResponse
	u := c.baseURL + "/schedule?" + q.Encode()
	if err := c.getJSON(ctx, u, &sched); err != nil {
		return nil, err
	}

	var ids []string
	for _, d := range sched.Dates {
		for _, g := range d.Games {
			ids = append(ids, strconv.FormatInt(g.GamePk, 10))
		}
	}
	c.logger.Info(ctx, "fetched schedule",
		logger.String("date", day.Format("2006-01-02")),
		logger.Int("games", len(ids)),
	)
	return ids, nil
}

func (c *StatsClient) getJSON(ctx context.Context, u string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrFetch, err)
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrFetch, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%w: unexpected status %d", ErrFetch, resp.StatusCode)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: %w", ErrDecode, err)
	}
	return nil
}
