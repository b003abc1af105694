// Package winprob estimates the home team's win probability from a game
// state. The model is a deliberate heuristic approximation built on the
// run expectancy matrix, not a regression fitted to outcome data.
package winprob

import (
	"math"

	"github.com/mmilab/mmi/internal/domain/model"
)

// Model constants. Preserved verbatim; see the package comment.
const (
	homeAdvantage     = 0.54 // historical home team win rate
	stdDevPerHalf     = 2.0  // run differential spread per remaining half inning
	closeGameDiff     = 2    // score margin considered "close"
	earlyGameInning   = 5    // last inning the home-field blend applies
	regulationInnings = 9
)

// Model computes win probabilities. The zero value is ready to use.
type Model struct{}

// New returns a win probability model.
func New() *Model {
	return &Model{}
}

// WinProbability returns the home team's chance of winning from the given
// state, in [0,1]. isHomeBatting shifts the effective score differential by
// the run expectancy of the current base-out state.
func (m *Model) WinProbability(state model.GameState, isHomeBatting bool) float64 {
	// Half innings still to be played.
	halfRemaining := (regulationInnings - state.Inning) * 2
	if !state.TopHalf {
		halfRemaining++
	}

	// Walk-off position: home team leading in the bottom half at inning 9+.
	if state.Inning >= regulationInnings && !state.TopHalf && state.HomeScore > state.AwayScore {
		return 1.0
	}
	// Game decided after a completed top half past regulation.
	if state.Inning > regulationInnings && state.TopHalf && state.HomeScore != state.AwayScore {
		if state.HomeScore > state.AwayScore {
			return 1.0
		}
		return 0.0
	}

	scoreDiff := state.HomeScore - state.AwayScore

	re := ExpectedRuns(state.Outs, state.Bases)
	effectiveDiff := float64(scoreDiff)
	if isHomeBatting {
		effectiveDiff += re
	} else {
		effectiveDiff -= re
	}

	if halfRemaining == 0 {
		switch {
		case state.HomeScore > state.AwayScore:
			return 1.0
		case state.HomeScore == state.AwayScore:
			return 0.5
		default:
			return 0.0
		}
	}

	stdDev := stdDevPerHalf * math.Sqrt(math.Max(0.5, float64(halfRemaining)))
	wp := sigmoid(effectiveDiff / stdDev)

	// Close early game: blend in the home-field advantage prior.
	if abs(scoreDiff) <= closeGameDiff && state.Inning <= earlyGameInning {
		wp = wp*0.9 + homeAdvantage*0.1
	}

	return math.Max(0.0, math.Min(1.0, wp))
}

// sigmoid saturates to 0/1 on extreme input instead of overflowing.
func sigmoid(x float64) float64 {
	v := 1.0 / (1.0 + math.Exp(-x))
	if math.IsNaN(v) {
		if x < 0 {
			return 0.0
		}
		return 1.0
	}
	return v
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
