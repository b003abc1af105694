package features

import (
	"math"

	"github.com/mmilab/mmi/internal/domain/model"
)

// Bio-proxy constants. These are behavioral stand-ins, not biometrics.
const (
	tempoVariance      = 5.0
	tempoWeight        = 0.8
	stressPerMoment    = 0.3
	stressCap          = 2.0
	jamTerm            = 0.5
	closerRoleTerm     = 0.6
	highPitchThreshold = 100.0
	highPitchRate      = 50.0
	defaultTempo       = 20.0
)

// BioProxies scores behavioral stress signals: tempo deviation from the
// player's usual pace, accumulated high-leverage moments, late-game jams, and
// closer-role situations. pitchCount is pitches thrown for pitchers and
// plate appearances for batters.
func BioProxies(pitch model.PitchRecord, pitchCount, priorHighMoments int, avgTempo float64) float64 {
	if avgTempo <= 0 {
		avgTempo = defaultTempo
	}

	total := 0.0

	if pitch.SecondsSinceLastPitch > 0 {
		deviation := math.Abs(pitch.SecondsSinceLastPitch - avgTempo)
		total += math.Min(1.0, deviation/tempoVariance) * tempoWeight
	}

	total += math.Min(stressCap, float64(priorHighMoments)*stressPerMoment)

	// Late, close, and crowded: a genuine jam.
	diff := pitch.State.BattingDiff()
	if pitch.State.Inning >= 7 && abs(diff) <= 2 && pitch.State.Bases.Runners() >= 2 {
		total += jamTerm
	}

	// Closer protecting a home lead, or a road team chasing in the ninth.
	if pitch.State.Inning >= 9 {
		if !pitch.State.TopHalf && diff > 0 {
			total += closerRoleTerm
		} else if pitch.State.TopHalf && diff < 0 {
			total += closerRoleTerm
		}
	}

	if float64(pitchCount) > highPitchThreshold {
		total += (float64(pitchCount) - highPitchThreshold) / highPitchRate
	}

	return total
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
