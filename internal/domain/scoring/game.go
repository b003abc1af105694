package scoring

import (
	"github.com/mmilab/mmi/internal/domain/model"
	"github.com/mmilab/mmi/internal/domain/scaling"
	"github.com/mmilab/mmi/pkg/metrics"
)

// ComputeGame scores an ordered pitch sequence from one game, threading a
// rolling workload context per player through the list: in-game pitch and
// plate appearance counts, and the number of prior high moments.
func (e *Engine) ComputeGame(pitches []model.PitchRecord, role model.Role) ([]model.MMIResult, error) {
	if err := role.Validate(); err != nil {
		return nil, err
	}

	pitchCounts := make(map[string]int)
	paCounts := make(map[string]int)
	lastAtBat := make(map[string]int)
	highMoments := make(map[string]int)

	results := make([]model.MMIResult, 0, len(pitches))
	for _, pitch := range pitches {
		var workload model.Workload
		var playerID string

		switch role {
		case model.RolePitcher:
			playerID = pitch.PitcherID
			pitchCounts[playerID]++
			ctx := model.DefaultPitcherContext()
			ctx.PitchesInGame = pitchCounts[playerID]
			ctx.PriorHighMoments = highMoments[playerID]
			workload = ctx
		case model.RoleBatter:
			playerID = pitch.BatterID
			if last, seen := lastAtBat[playerID]; !seen || last != pitch.AtBatIndex {
				paCounts[playerID]++
				lastAtBat[playerID] = pitch.AtBatIndex
			}
			ctx := model.DefaultBatterContext()
			ctx.PAsInGame = paCounts[playerID]
			ctx.PriorHighMoments = highMoments[playerID]
			workload = ctx
		}

		result, err := e.Compute(pitch, role, workload)
		if err != nil {
			return nil, err
		}
		results = append(results, result)
		metrics.RecordPitchScored()

		if result.MMI > HighThreshold {
			highMoments[playerID]++
		}
	}

	metrics.RecordGameScored()
	return results, nil
}

// FitScalers runs the raw pipeline over a pitch sample (default workload
// contexts, no normalization) and fits a fresh scaler set from the
// observed component distributions.
func (e *Engine) FitScalers(pitches []model.PitchRecord, role model.Role, season int, seasonType string) (*scaling.ScalerSet, error) {
	if err := role.Validate(); err != nil {
		return nil, err
	}
	if len(pitches) == 0 {
		return nil, ErrNoPitches
	}

	leverages := make([]float64, 0, len(pitches))
	pressures := make([]float64, 0, len(pitches))
	fatigues := make([]float64, 0, len(pitches))
	executions := make([]float64, 0, len(pitches))
	bios := make([]float64, 0, len(pitches))

	for _, pitch := range pitches {
		r, err := e.Compute(pitch, role, nil)
		if err != nil {
			return nil, err
		}
		leverages = append(leverages, r.Components.Leverage)
		pressures = append(pressures, r.Components.Pressure)
		fatigues = append(fatigues, r.Components.Fatigue)
		executions = append(executions, r.Components.Execution)
		bios = append(bios, r.Components.Bio)
	}

	return scaling.Fit(leverages, pressures, fatigues, executions, bios, season, seasonType), nil
}
