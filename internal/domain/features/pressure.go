package features

import (
	"math"

	"github.com/mmilab/mmi/internal/domain/model"
)

// Pressure term weights and thresholds.
const (
	closenessDecay    = 0.3
	closenessWeight   = 2.0
	inningWeight      = 1.5
	crowdWeight       = 0.5
	crowdCap          = 2.0
	awayBattingTerm   = 0.3
	postseasonTerm    = 1.5
	eliminationTerm   = 1.0
	longPauseSeconds  = 30.0
	pauseCap          = 2.0
	pauseWeight       = 0.5
	lateInningRampPer = 0.2
)

// Pressure scores the situational pressure on a pitch: game closeness,
// inning, crowd, venue, game type, and inter-pitch pauses.
func (b *Builder) Pressure(pitch model.PitchRecord) float64 {
	total := 0.0

	// Close games carry the most pressure; decays exponentially with margin.
	scoreDiff := math.Abs(float64(pitch.State.BattingDiff()))
	total += math.Exp(-closenessDecay*scoreDiff) * closenessWeight

	var inningTerm float64
	switch {
	case pitch.State.Inning <= 3:
		inningTerm = 0.5
	case pitch.State.Inning <= 6:
		inningTerm = 1.0
	default:
		inningTerm = 1.5 + float64(pitch.State.Inning-7)*lateInningRampPer
	}
	total += inningTerm * inningWeight

	crowd := 1.0
	if pitch.Attendance > 0 {
		crowd = math.Min(crowdCap, float64(pitch.Attendance)/b.leagueAvgAttendance)
	}
	total += crowd * crowdWeight

	// Visiting batters face the crowd.
	if pitch.State.TopHalf {
		total += awayBattingTerm
	}

	if pitch.Postseason {
		total += postseasonTerm
		if pitch.EliminationGame {
			total += eliminationTerm
		}
	}

	// A long pause suggests a mound visit or a high-leverage discussion.
	if pitch.SecondsSinceLastPitch > longPauseSeconds {
		total += math.Min(pauseCap, pitch.SecondsSinceLastPitch/longPauseSeconds) * pauseWeight
	}

	return total
}
