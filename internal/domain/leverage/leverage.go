// Package leverage derives a leverage index from the win probability swing
// across canonical next-play outcomes, memoized by game state.
package leverage

import (
	"github.com/mmilab/mmi/internal/domain/model"
	"github.com/mmilab/mmi/internal/domain/winprob"
	"github.com/mmilab/mmi/pkg/metrics"
)

// avgSwing is the empirical league-average win probability swing per play.
// Dividing by it normalizes leverage so a typical state scores ~1.0.
const avgSwing = 0.05

// Key is the memoization key: exactly the six fields of the game state.
// No other pitch field may influence leverage or the cache.
type Key = model.GameState

// Engine computes leverage indexes over a win probability model.
type Engine struct {
	wp    *winprob.Model
	cache Cache
}

// Option applies a configuration option to the Engine.
type Option func(*Engine)

// WithCache injects a cache implementation (unbounded, bounded, or no-op).
func WithCache(c Cache) Option {
	return func(e *Engine) {
		if c != nil {
			e.cache = c
		}
	}
}

// New creates a leverage engine. The default cache is unbounded.
func New(opts ...Option) *Engine {
	e := &Engine{
		wp:    winprob.New(),
		cache: NewMapCache(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// For returns the leverage index for the given state, >= 0. Pure in the
// six-field state tuple; results are memoized.
func (e *Engine) For(state model.GameState) float64 {
	if v, ok := e.cache.Get(state); ok {
		metrics.RecordLeverageCacheHit()
		return v
	}
	metrics.RecordLeverageCacheMiss()

	v := e.compute(state)
	e.cache.Put(state, v)
	metrics.UpdateLeverageCacheSize(e.cache.Len())
	return v
}

// compute simulates three canonical outcomes and averages the absolute win
// probability swing against the league-average swing.
func (e *Engine) compute(state model.GameState) float64 {
	isHomeBatting := state.HomeBatting()
	current := e.wp.WinProbability(state, isHomeBatting)

	swings := make([]float64, 0, 3)

	// Walk or single: batter to first, runners advance one base, a runner
	// on third scores.
	walk := state
	walk.Bases = model.BaseState{
		First:  true,
		Second: state.Bases.First || state.Bases.Second,
		Third:  state.Bases.Third,
	}
	if state.Bases.Third {
		if isHomeBatting {
			walk.HomeScore++
		} else {
			walk.AwayScore++
		}
	}
	swings = append(swings, absDiff(e.wp.WinProbability(walk, isHomeBatting), current))

	// Generic out, only while the inning continues.
	if state.Outs+1 <= 2 {
		out := state
		out.Outs++
		swings = append(swings, absDiff(e.wp.WinProbability(out, isHomeBatting), current))
	}

	// Home run: bases clear, every runner plus the batter scores.
	hr := state
	runs := 1 + state.Bases.Runners()
	hr.Bases = model.BaseState{}
	if isHomeBatting {
		hr.HomeScore += runs
	} else {
		hr.AwayScore += runs
	}
	swings = append(swings, absDiff(e.wp.WinProbability(hr, isHomeBatting), current))

	total := 0.0
	for _, s := range swings {
		total += s
	}
	li := total / float64(len(swings)) / avgSwing
	if li < 0 {
		return 0
	}
	return li
}

// WinProbability exposes the underlying model's home win probability for
// the state of a pitch.
func (e *Engine) WinProbability(state model.GameState) float64 {
	return e.wp.WinProbability(state, state.HomeBatting())
}

// CacheLen reports the number of memoized states.
func (e *Engine) CacheLen() int {
	return e.cache.Len()
}

func absDiff(a, b float64) float64 {
	if a > b {
		return a - b
	}
	return b - a
}
