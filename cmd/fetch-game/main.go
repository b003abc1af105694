// Command fetch-game pulls play-by-play data from the MLB Stats API (or a
// local pitch file), scores it offline, and writes the per-pitch breakdown
// as JSON. With -date it lists the day's schedule instead.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/mmilab/mmi/internal/adapters/provider"
	"github.com/mmilab/mmi/internal/config"
	"github.com/mmilab/mmi/internal/domain/aggregate"
	"github.com/mmilab/mmi/internal/domain/model"
	"github.com/mmilab/mmi/internal/domain/scaling"
	"github.com/mmilab/mmi/internal/domain/scoring"
	"github.com/mmilab/mmi/pkg/logger"
)

const (
	defaultTopN    = 10
	defaultTimeout = 2 * time.Minute
)

func main() {
	var (
		gameID   = flag.String("game", "", "Game id (gamePk) to fetch and score")
		date     = flag.String("date", "", "List scheduled game ids for a date (YYYY-MM-DD)")
		teamID   = flag.Int("team", 0, "Restrict -date to one team id (0 = all)")
		file     = flag.String("file", "", "Score a local pitch JSON file instead of fetching")
		role     = flag.String("role", "pitcher", "Role to score: pitcher or batter")
		topN     = flag.Int("top", defaultTopN, "Number of top moments to report")
		out      = flag.String("out", "", "Output file for the scored export (default: stdout)")
		logLevel = flag.String("log-level", "info", "Log verbosity: debug, info, warn, error")
	)
	flag.Parse()

	if err := logger.Init(); err != nil {
		os.Stderr.WriteString("Failed to initialize logger: " + err.Error() + "\n")
		os.Exit(1)
	}
	if err := logger.SetLevelString(*logLevel); err != nil {
		os.Stderr.WriteString("Invalid log level: " + err.Error() + "\n")
		os.Exit(1)
	}
	log := logger.Get().Named("fetch-game")

	ctx, cancel := context.WithTimeout(context.Background(), defaultTimeout)
	defer cancel()

	cfg, err := config.Load(ctx)
	if err != nil {
		log.Error(ctx, "config load failed", logger.Error(err))
		os.Exit(1)
	}

	scoringRole := model.Role(*role)
	if err := scoringRole.Validate(); err != nil {
		os.Stderr.WriteString("Invalid role: " + err.Error() + "\n")
		os.Exit(1)
	}

	client := provider.NewStatsClient(
		provider.WithBaseURL(cfg.StatsAPIBaseURL),
		provider.WithTimeout(cfg.StatsAPITimeout),
	)

	if *date != "" {
		if err := listSchedule(ctx, client, *date, *teamID); err != nil {
			log.Error(ctx, "schedule fetch failed", logger.Error(err))
			os.Exit(1)
		}
		return
	}

	pitches, sourceID, err := loadPitches(ctx, client, *gameID, *file)
	if err != nil {
		log.Error(ctx, "pitch load failed", logger.Error(err))
		os.Exit(1)
	}
	if len(pitches) == 0 {
		log.Warn(ctx, "no pitches to score", logger.String("source", sourceID))
		return
	}

	engine := buildEngine(ctx, cfg, log)

	results, err := engine.ComputeGame(pitches, scoringRole)
	if err != nil {
		log.Error(ctx, "scoring failed", logger.Error(err))
		os.Exit(1)
	}

	export, err := aggregate.ExportGame(sourceID, pitches, results)
	if err != nil {
		log.Error(ctx, "export failed", logger.Error(err))
		os.Exit(1)
	}
	if err := writeExport(export, *out); err != nil {
		log.Error(ctx, "export write failed", logger.Error(err))
		os.Exit(1)
	}

	reportMoments(results, *topN)
	log.Info(ctx, "game scored",
		logger.String("gameID", sourceID),
		logger.String("role", string(scoringRole)),
		logger.Int("pitches", len(results)),
	)
}

// loadPitches resolves the pitch source: a local file wins over the feed.
func loadPitches(ctx context.Context, client *provider.StatsClient, gameID, file string) ([]model.PitchRecord, string, error) {
	if file != "" {
		pitches, err := provider.LoadPitchFile(file)
		if err != nil {
			return nil, "", err
		}
		id := file
		if len(pitches) > 0 {
			id = pitches[0].GameID
		}
		return pitches, id, nil
	}
	if gameID == "" {
		return nil, "", fmt.Errorf("one of -game, -file or -date is required")
	}
	pitches, err := client.GamePitches(ctx, gameID)
	if err != nil {
		return nil, "", err
	}
	return pitches, gameID, nil
}

func buildEngine(ctx context.Context, cfg *config.Config, log logger.Logger) *scoring.Engine {
	scalers := scaling.Default()
	if cfg.ScalersPath != "" {
		loaded, err := scaling.Load(cfg.ScalersPath)
		if err != nil {
			log.Warn(ctx, "scaler load failed, using defaults",
				logger.String("path", cfg.ScalersPath),
				logger.Error(err),
			)
		} else {
			scalers = loaded
		}
	}

	opts := []scoring.Option{
		scoring.WithScalerSet(scalers),
		scoring.WithLeagueAvgAttendance(cfg.LeagueAvgAttendance),
	}
	if len(cfg.Weights) > 0 {
		w := model.DefaultWeights()
		if v, ok := cfg.Weights["leverage"]; ok {
			w.Leverage = v
		}
		if v, ok := cfg.Weights["pressure"]; ok {
			w.Pressure = v
		}
		if v, ok := cfg.Weights["fatigue"]; ok {
			w.Fatigue = v
		}
		if v, ok := cfg.Weights["execution"]; ok {
			w.Execution = v
		}
		if v, ok := cfg.Weights["bio_proxies"]; ok {
			w.Bio = v
		}
		opts = append(opts, scoring.WithWeights(w))
	}
	return scoring.New(opts...)
}

func listSchedule(ctx context.Context, client *provider.StatsClient, date string, teamID int) error {
	day, err := time.Parse("2006-01-02", date)
	if err != nil {
		return fmt.Errorf("invalid date %q: %w", date, err)
	}
	ids, err := client.Schedule(ctx, day, teamID)
	if err != nil {
		return err
	}
	for _, id := range ids {
		fmt.Println(id)
	}
	return nil
}

func writeExport(export aggregate.GameExport, path string) error {
	data, err := json.MarshalIndent(export, "", "  ")
	if err != nil {
		return err
	}
	if path == "" {
		_, err = os.Stdout.Write(append(data, '\n'))
		return err
	}
	return os.WriteFile(path, data, 0o600)
}

func reportMoments(results []model.MMIResult, topN int) {
	moments := aggregate.TopMoments(results, scoring.HighThreshold, topN)
	for i, m := range moments {
		fmt.Fprintf(os.Stderr, "#%d  inning %d  %s vs %s  MMI %.2f\n",
			i+1, m.Inning, m.PitcherID, m.BatterID, m.MMI)
	}
}
