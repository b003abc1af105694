// Package scoring orchestrates the MMI pipeline: leverage, the four
// feature calculators, z-score normalization, and the weighted sum that
// produces the final per-pitch score.
package scoring

import (
	"strconv"
	"sync/atomic"

	"github.com/mmilab/mmi/internal/domain/features"
	"github.com/mmilab/mmi/internal/domain/leverage"
	"github.com/mmilab/mmi/internal/domain/model"
	"github.com/mmilab/mmi/internal/domain/scaling"
)

// MMI thresholds. A moment above HighThreshold counts as "high", above
// ExtremeThreshold as "extreme".
const (
	HighThreshold    = 2.0
	ExtremeThreshold = 3.0
)

// Engine computes MMI results. All methods are safe for concurrent use;
// the scaler set is swapped atomically by whole-object replacement, so an
// in-flight evaluation always sees the snapshot it captured at call start.
type Engine struct {
	leverage *leverage.Engine
	features *features.Builder
	scalers  atomic.Pointer[scaling.ScalerSet]
	weights  model.Weights
}

// Option applies a configuration option to the Engine.
type Option func(*Engine)

// WithScalerSet installs a pre-fitted scaler set instead of the defaults.
func WithScalerSet(s *scaling.ScalerSet) Option {
	return func(e *Engine) {
		if s != nil {
			e.scalers.Store(s)
		}
	}
}

// WithWeights overrides the default component weights for the engine. The
// set is renormalized to sum to 1.0 on construction.
func WithWeights(w model.Weights) Option {
	return func(e *Engine) {
		e.weights = w.Normalized()
	}
}

// WithLeverageCache injects the leverage memo cache implementation.
func WithLeverageCache(c leverage.Cache) Option {
	return func(e *Engine) {
		e.leverage = leverage.New(leverage.WithCache(c))
	}
}

// WithLeagueAvgAttendance overrides the crowd normalization baseline used
// by the pressure calculator.
func WithLeagueAvgAttendance(avg float64) Option {
	return func(e *Engine) {
		e.features = features.NewBuilder(features.WithLeagueAvgAttendance(avg))
	}
}

// New creates an Engine with default configuration: default scalers,
// default weights, unbounded leverage cache.
func New(opts ...Option) *Engine {
	e := &Engine{
		leverage: leverage.New(),
		features: features.NewBuilder(),
		weights:  model.DefaultWeights(),
	}
	e.scalers.Store(scaling.Default())
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Scalers returns the currently active scaler set snapshot.
func (e *Engine) Scalers() *scaling.ScalerSet {
	return e.scalers.Load()
}

// SwapScalers atomically replaces the active scaler set. In-flight
// evaluations keep the snapshot they already captured.
func (e *Engine) SwapScalers(s *scaling.ScalerSet) {
	if s != nil {
		e.scalers.Store(s)
	}
}

// Leverage exposes the leverage index for a game state.
func (e *Engine) Leverage(state model.GameState) float64 {
	return e.leverage.For(state)
}

// LeverageCacheLen reports the number of memoized leverage states.
func (e *Engine) LeverageCacheLen() int {
	return e.leverage.CacheLen()
}

// Compute scores one pitch for the given role under the engine's weights.
// A nil workload uses the documented role defaults; a workload tagged for
// the other role is a validation failure.
func (e *Engine) Compute(pitch model.PitchRecord, role model.Role, workload model.Workload) (model.MMIResult, error) {
	return e.ComputeWithWeights(pitch, role, workload, e.weights)
}

// ComputeWithWeights scores one pitch under caller-supplied weights. A
// weight set not summing to 1.0 is renormalized, preserving proportions.
func (e *Engine) ComputeWithWeights(pitch model.PitchRecord, role model.Role, workload model.Workload, weights model.Weights) (model.MMIResult, error) {
	if err := role.Validate(); err != nil {
		return model.MMIResult{}, err
	}
	if err := pitch.Validate(); err != nil {
		return model.MMIResult{}, err
	}

	li := e.leverage.For(pitch.State)

	var fs features.Set
	switch role {
	case model.RolePitcher:
		ctx := model.DefaultPitcherContext()
		if workload != nil {
			pc, ok := workload.(model.PitcherContext)
			if !ok {
				return model.MMIResult{}, ErrContextMismatch
			}
			ctx = pc
		}
		fs = e.features.Pitcher(pitch, ctx)
	case model.RoleBatter:
		ctx := model.DefaultBatterContext()
		if workload != nil {
			bc, ok := workload.(model.BatterContext)
			if !ok {
				return model.MMIResult{}, ErrContextMismatch
			}
			ctx = bc
		}
		fs = e.features.Batter(pitch, ctx)
	}

	// Snapshot captured once; a concurrent swap cannot tear it.
	z := e.scalers.Load().TransformAll(li, fs.Pressure, fs.Fatigue, fs.Execution, fs.Bio)

	components := model.MMIComponents{
		Leverage:   li,
		Pressure:   fs.Pressure,
		Fatigue:    fs.Fatigue,
		Execution:  fs.Execution,
		Bio:        fs.Bio,
		ZLeverage:  z.Leverage,
		ZPressure:  z.Pressure,
		ZFatigue:   z.Fatigue,
		ZExecution: z.Execution,
		ZBio:       z.Bio,
		Weights:    weights.Normalized(),
	}

	// Timestamped with the game date so identical calls yield identical
	// results.
	return model.MMIResult{
		PitchID:    pitch.PitchID,
		GameID:     pitch.GameID,
		BatterID:   pitch.BatterID,
		PitcherID:  pitch.PitcherID,
		Inning:     pitch.State.Inning,
		MMI:        components.WeightedSum(),
		Components: components,
		Role:       role,
		Timestamp:  pitch.GameDate,
		Meta: map[string]string{
			"at_bat_index": strconv.Itoa(pitch.AtBatIndex),
			"pitch_number": strconv.Itoa(pitch.PitchNumber),
		},
	}, nil
}
