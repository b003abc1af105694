// Package config defines service configuration structures and loading.
//
// Conventions:
// - Provide New() to build a Config with defaults.
// - Load(ctx) layers a YAML file and environment variables on top.
// - External errors must be wrapped via this package's sentinels.
package config

import (
	"runtime"
	"time"
)

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// Addr configures the HTTP listen address, e.g. ":8080".
	Addr string `koanf:"addr"`

	// QueueSize bounds the in-memory scoring job queue.
	QueueSize int `koanf:"queue_size"`

	// WorkerCount sets the number of scoring workers.
	WorkerCount int `koanf:"worker_count"`

	// ScalersPath points at a fitted scaler JSON document. When empty or
	// unreadable, built-in default scalers are used.
	ScalersPath string `koanf:"scalers_path"`

	// LeverageCacheSize bounds the leverage memo cache. Zero or negative
	// means unbounded.
	LeverageCacheSize int `koanf:"leverage_cache_size"`

	// LeagueAvgAttendance is the crowd-factor baseline.
	LeagueAvgAttendance float64 `koanf:"league_avg_attendance"`

	// Weights maps component names (leverage, pressure, fatigue, execution,
	// bio_proxies) to blend weights. Missing entries fall back to defaults.
	Weights map[string]float64 `koanf:"weights"`

	// MaxMomentsLimit caps GET /moments?limit.
	MaxMomentsLimit int `koanf:"max_moments_limit"`

	// StatsAPIBaseURL is the MLB Stats API root used by the feed provider.
	StatsAPIBaseURL string `koanf:"stats_api_base_url"`

	// StatsAPITimeout bounds a single feed request.
	StatsAPITimeout time.Duration `koanf:"stats_api_timeout"`
}

// New creates a Config populated with defaults.
func New() *Config {
	return &Config{
		LogLevel:            "info",
		Addr:                ":9080",
		QueueSize:           1024,
		WorkerCount:         runtime.NumCPU() * 2,
		ScalersPath:         "",
		LeverageCacheSize:   0,
		LeagueAvgAttendance: 30000,
		Weights:             nil,
		MaxMomentsLimit:     100,
		StatsAPIBaseURL:     "https://statsapi.mlb.com/api/v1",
		StatsAPITimeout:     15 * time.Second,
	}
}
