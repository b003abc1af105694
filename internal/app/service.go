// Package service wires the scoring engine, job queue, worker pool, and
// moment store into the dependency set the HTTP API consumes.
package service

import (
	"context"
	"runtime"
	"sync"
	"time"

	jobqueue "github.com/mmilab/mmi/internal/adapters/mq/queue"
	workerpool "github.com/mmilab/mmi/internal/adapters/mq/worker"
	"github.com/mmilab/mmi/internal/adapters/repository"
	"github.com/mmilab/mmi/internal/domain/aggregate"
	"github.com/mmilab/mmi/internal/domain/leverage"
	"github.com/mmilab/mmi/internal/domain/model"
	"github.com/mmilab/mmi/internal/domain/scaling"
	"github.com/mmilab/mmi/internal/domain/scoring"
	"github.com/mmilab/mmi/pkg/logger"
	"github.com/mmilab/mmi/pkg/metrics"
)

// engineAdapter bridges the scoring engine to the worker.Scorer contract.
// The engine itself is context-free; workers supply ctx for logging and
// cancellation around the call.
type engineAdapter struct {
	engine *scoring.Engine
}

func (a *engineAdapter) ComputeGame(ctx context.Context, pitches []model.PitchRecord, role model.Role) ([]model.MMIResult, error) {
	return a.engine.ComputeGame(pitches, role)
}

// Service implements the API dependencies for the moment scoring system.
type Service struct {
	mu sync.RWMutex

	// Core components
	store  *repository.MomentStore
	queue  jobqueue.Queue
	engine *scoring.Engine
	pool   *workerpool.Pool

	// Configuration
	workerCount         int
	queueSize           int
	scalersPath         string
	leverageCacheSize   int
	leagueAvgAttendance float64
	weights             *model.Weights

	// State
	started bool

	// Logging
	logger logger.Logger
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithWorkerCount sets the number of scoring worker goroutines.
func WithWorkerCount(count int) Option {
	return func(s *Service) {
		if count > 0 {
			s.workerCount = count
		}
	}
}

// WithQueueSize sets the maximum size of the scoring job queue.
func WithQueueSize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.queueSize = size
		}
	}
}

// WithScalersPath points the engine at a fitted scaler document. An
// empty or unreadable path falls back to built-in defaults.
func WithScalersPath(path string) Option {
	return func(s *Service) {
		s.scalersPath = path
	}
}

// WithLeverageCacheSize bounds the leverage memo cache. Zero or
// negative keeps it unbounded.
func WithLeverageCacheSize(size int) Option {
	return func(s *Service) {
		s.leverageCacheSize = size
	}
}

// WithLeagueAvgAttendance sets the crowd-factor baseline.
func WithLeagueAvgAttendance(avg float64) Option {
	return func(s *Service) {
		if avg > 0 {
			s.leagueAvgAttendance = avg
		}
	}
}

// WithWeights overrides the component blend weights.
func WithWeights(w model.Weights) Option {
	return func(s *Service) {
		s.weights = &w
	}
}

// WithWeightMap overrides individual blend weights by component name.
// Unnamed components keep their default weight.
func WithWeightMap(m map[string]float64) Option {
	return func(s *Service) {
		if len(m) == 0 {
			return
		}
		w := model.DefaultWeights()
		if v, ok := m["leverage"]; ok {
			w.Leverage = v
		}
		if v, ok := m["pressure"]; ok {
			w.Pressure = v
		}
		if v, ok := m["fatigue"]; ok {
			w.Fatigue = v
		}
		if v, ok := m["execution"]; ok {
			w.Execution = v
		}
		if v, ok := m["bio_proxies"]; ok {
			w.Bio = v
		}
		s.weights = &w
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(logger logger.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// New constructs a new Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		workerCount:         runtime.NumCPU() * 2,
		queueSize:           1024,
		leagueAvgAttendance: 30000,
		logger:              nil, // Will be replaced when service starts
	}

	// Apply all options
	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Start initializes and starts the service components.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}

	// Initialize logger if not already set
	if s.logger == nil {
		s.logger = logger.Get()
	}

	s.logger.Info(ctx, "starting moment scoring service...")

	// Initialize components
	s.store = repository.NewMomentStore(ctx)
	s.queue = jobqueue.NewInMemoryQueue(
		jobqueue.WithCapacity(s.queueSize),
	)

	engineOpts := []scoring.Option{
		scoring.WithScalerSet(s.loadScalers(ctx)),
		scoring.WithLeagueAvgAttendance(s.leagueAvgAttendance),
	}
	if s.leverageCacheSize > 0 {
		engineOpts = append(engineOpts,
			scoring.WithLeverageCache(leverage.NewBoundedCache(s.leverageCacheSize)))
	}
	if s.weights != nil {
		engineOpts = append(engineOpts, scoring.WithWeights(*s.weights))
	}
	s.engine = scoring.New(engineOpts...)

	// Create and start worker pool with the engine adapter
	s.pool = workerpool.NewPool(s.workerCount, s.queue, &engineAdapter{engine: s.engine}, s.store)
	s.pool.Start(ctx)

	metrics.UpdateQueueCapacity(s.queueSize)

	s.started = true
	s.logger.Info(ctx, "moment scoring service started",
		logger.Int("workers", s.workerCount),
		logger.Int("queueSize", s.queueSize),
		logger.Int("leverageCacheSize", s.leverageCacheSize),
	)

	return nil
}

// loadScalers reads the fitted scaler document, falling back to the
// built-in defaults when no path is set or loading fails.
func (s *Service) loadScalers(ctx context.Context) *scaling.ScalerSet {
	if s.scalersPath == "" {
		return scaling.Default()
	}
	set, err := scaling.Load(s.scalersPath)
	if err != nil {
		s.logger.Warn(ctx, "loading scalers failed, using defaults",
			logger.String("path", s.scalersPath),
			logger.Error(err),
		)
		return scaling.Default()
	}
	s.logger.Info(ctx, "loaded fitted scalers",
		logger.String("path", s.scalersPath),
		logger.Int("season", set.Season),
	)
	return set
}

// ReloadScalers loads a scaler document and swaps it into the running
// engine. In-flight scoring keeps the snapshot it already captured.
func (s *Service) ReloadScalers(ctx context.Context, path string) error {
	s.mu.RLock()
	engine := s.engine
	s.mu.RUnlock()

	if engine == nil {
		return ErrNotStarted
	}
	set, err := scaling.Load(path)
	if err != nil {
		return err
	}
	engine.SwapScalers(set)
	s.logger.Info(ctx, "swapped scalers",
		logger.String("path", path),
		logger.Int("season", set.Season),
	)
	return nil
}

// Stop gracefully shuts down the service.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}

	ctx := context.Background()
	s.logger.Info(ctx, "stopping moment scoring service...")

	// Close the queue and drain the backlog, then stop the workers.
	if s.pool != nil {
		_ = s.pool.Shutdown(ctx)
	}

	if s.store != nil {
		_ = s.store.Close()
	}

	s.started = false
	s.logger.Info(ctx, "moment scoring service stopped")
}

// EnqueueGame submits a game's pitches for asynchronous scoring.
// Returns false when the queue is full or closed.
func (s *Service) EnqueueGame(ctx context.Context, gameID string, role model.Role, pitches []model.PitchRecord) bool {
	s.mu.RLock()
	q := s.queue
	s.mu.RUnlock()

	if q == nil {
		return false
	}

	ok := q.Enqueue(ctx, jobqueue.Job{
		GameID:     gameID,
		Role:       role,
		Pitches:    pitches,
		EnqueuedAt: time.Now(),
	})
	if ok {
		metrics.UpdateQueueSize(q.Len(ctx))
		s.logger.Debug(ctx, "enqueued game for scoring",
			logger.String("gameID", gameID),
			logger.String("role", string(role)),
			logger.Int("pitches", len(pitches)),
		)
	} else {
		s.logger.Warn(ctx, "scoring queue rejected game",
			logger.String("gameID", gameID),
			logger.Int("queueLength", q.Len(ctx)),
		)
	}
	return ok
}

// GameResults returns the stored per-pitch results of a scored game.
func (s *Service) GameResults(ctx context.Context, gameID string, role model.Role) ([]model.MMIResult, error) {
	return s.store.Game(ctx, gameID, role)
}

// PlayerSummary aggregates every stored result for a player into season
// distribution statistics.
func (s *Service) PlayerSummary(ctx context.Context, playerID string, role model.Role) (model.PlayerSummary, error) {
	results, err := s.store.PlayerResults(ctx, playerID, role)
	if err != nil {
		return model.PlayerSummary{}, err
	}

	summaries := aggregate.Summarize(results, role, results[0].Timestamp.Year(), "R")
	for _, sum := range summaries {
		if sum.PlayerID == playerID {
			return sum, nil
		}
	}
	return model.PlayerSummary{}, repository.ErrNotFound
}

// TopMoments returns the league-wide highest-MMI pitches.
func (s *Service) TopMoments(ctx context.Context, n int) ([]repository.Moment, error) {
	return s.store.TopMoments(ctx, n)
}

// ScoreGameSync scores a game inline, bypassing the queue. Used by
// offline tooling where backpressure semantics do not apply.
func (s *Service) ScoreGameSync(ctx context.Context, gameID string, role model.Role, pitches []model.PitchRecord) ([]model.MMIResult, error) {
	s.mu.RLock()
	engine := s.engine
	s.mu.RUnlock()

	if engine == nil {
		return nil, ErrNotStarted
	}
	results, err := engine.ComputeGame(pitches, role)
	if err != nil {
		return nil, err
	}
	if err := s.store.PutGame(ctx, gameID, role, results); err != nil {
		return nil, err
	}
	return results, nil
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ctx := context.Background()
	stats := map[string]interface{}{
		"started":     s.started,
		"workerCount": s.workerCount,
		"queueSize":   s.queueSize,
	}

	if s.started {
		queueLen := s.queue.Len(ctx)
		resultCount := s.store.Count(ctx)
		cacheLen := s.engine.LeverageCacheLen()

		stats["queueLength"] = queueLen
		stats["games"] = s.store.Games(ctx)
		stats["resultsStored"] = resultCount
		stats["leverageCacheLength"] = cacheLen

		// Update metrics
		metrics.UpdateQueueSize(queueLen)
		metrics.UpdateResultsStored(resultCount)
		metrics.UpdateLeverageCacheSize(cacheLen)
	}

	return stats
}
