package features

import (
	"math"

	"github.com/mmilab/mmi/internal/domain/model"
)

// Execution difficulty constants.
const (
	leagueAvgOnBase     = 0.320
	opponentWeight      = 1.5
	unfavorableCount    = 1.5
	favorableCount      = 0.5
	neutralCount        = 1.0
	runnerComplexity    = 0.5
	outComplexity       = 0.3
	platoonTerm         = 0.5
	trailingTeamTerm    = 0.3
	avgVelocity         = 92.0
	veloDeltaBaseline   = 10.0
	veloDeltaWeight     = 0.5
	avgPitcherQuality   = 100.0
	twoStrikeTerm       = 0.5
	scoringPositionTerm = 0.3
)

// PitcherExecution scores how hard the pitcher's task is: opponent
// quality, count leverage, base-out complexity, matchup, and score state.
func PitcherExecution(pitch model.PitchRecord, ctx model.PitcherContext) float64 {
	oba := ctx.OpponentOnBaseAvg
	if oba <= 0 {
		oba = leagueAvgOnBase
	}
	total := oba / leagueAvgOnBase * opponentWeight

	switch {
	case pitch.Count.HittersCount():
		total += unfavorableCount // must throw a strike
	case pitch.Count.PitchersCount():
		total += favorableCount
	default:
		total += neutralCount
	}

	total += float64(pitch.State.Bases.Runners())*runnerComplexity +
		float64(2-pitch.State.Outs)*outComplexity

	if ctx.PlatoonDisadvantage {
		total += platoonTerm
	}

	// Batting team ahead means the pitcher's side is chasing the game.
	if pitch.State.BattingDiff() > 0 {
		total += trailingTeamTerm
	}

	return total
}

// BatterExecution scores how hard the pitch is to hit: velocity and its
// change from the prior pitch, count leverage, pitcher quality, and the
// situation.
func BatterExecution(pitch model.PitchRecord, ctx model.BatterContext) float64 {
	total := 0.0

	if pitch.Velocity > 0 {
		total += pitch.Velocity / avgVelocity

		if ctx.PrevPitchVelocity > 0 {
			delta := math.Abs(pitch.Velocity - ctx.PrevPitchVelocity)
			total += math.Min(1.0, delta/veloDeltaBaseline) * veloDeltaWeight
		}
	}

	// Inverted relative to the pitcher: a pitcher's count is the tough spot.
	switch {
	case pitch.Count.HittersCount():
		total += favorableCount
	case pitch.Count.PitchersCount():
		total += unfavorableCount
	default:
		total += neutralCount
	}

	quality := ctx.PitcherQuality
	if quality <= 0 {
		quality = avgPitcherQuality
	}
	total += quality / avgPitcherQuality

	if pitch.Count.Strikes == 2 {
		total += twoStrikeTerm
	}

	if pitch.State.Bases.ScoringPosition() {
		total += scoringPositionTerm
	}

	return total
}
