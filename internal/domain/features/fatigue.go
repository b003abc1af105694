package features

import (
	"math"

	"github.com/mmilab/mmi/internal/domain/model"
)

// Fatigue saturation thresholds and weights.
const (
	starterRampPitches  = 75.0
	starterOverflowRate = 30.0
	relieverRampPitches = 25.0
	relieverOverflow    = 10.0
	gameFatigueWeight   = 2.0
	weeklyPitchBaseline = 100.0
	weeklyWeight        = 1.5
	restDecayPerDay     = 0.2
	inningFatigueWeight = 0.5

	batterPABaseline     = 5.0
	batterWeeklyBaseline = 30.0
	extraInningRate      = 0.3
	lateGameRate         = 0.2
)

// PitcherFatigue scores a pitcher's accumulated workload: a role-dependent
// saturation curve over the in-game pitch count, trailing-week volume,
// rest days, and inning progress.
func PitcherFatigue(pitch model.PitchRecord, ctx model.PitcherContext) float64 {
	total := 0.0

	n := float64(ctx.PitchesInGame)
	var game float64
	if ctx.Starter {
		if n < starterRampPitches {
			game = n / starterRampPitches
		} else {
			game = 1.0 + (n-starterRampPitches)/starterOverflowRate
		}
	} else {
		if n < relieverRampPitches {
			game = n / relieverRampPitches
		} else {
			game = 1.0 + (n-relieverRampPitches)/relieverOverflow
		}
	}
	total += game * gameFatigueWeight

	total += float64(ctx.PitchesLast7Days) / weeklyPitchBaseline * weeklyWeight

	var rest float64
	switch ctx.DaysSinceLastOuting {
	case 0:
		rest = 2.0 // back-to-back appearance
	case 1:
		rest = 1.5
	case 2:
		rest = 1.0
	default:
		rest = math.Max(0.0, 1.0-float64(ctx.DaysSinceLastOuting-2)*restDecayPerDay)
	}
	total += rest

	total += float64(pitch.State.Inning) / 9.0 * inningFatigueWeight

	return total
}

// BatterFatigue scores a batter's accumulated workload: plate appearances
// today and over the trailing week, plus extra-inning and late-game terms.
func BatterFatigue(pitch model.PitchRecord, ctx model.BatterContext) float64 {
	total := float64(ctx.PAsInGame)/batterPABaseline +
		float64(ctx.PAsLast7Days)/batterWeeklyBaseline

	if pitch.State.Inning > 9 {
		total += float64(pitch.State.Inning-9) * extraInningRate
	}
	if pitch.State.Inning >= 7 {
		total += float64(pitch.State.Inning-6) * lateGameRate
	}

	return total
}
