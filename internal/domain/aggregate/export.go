package aggregate

import (
	"fmt"

	"github.com/mmilab/mmi/internal/domain/model"
)

// GameExport is the transport document for one scored game.
type GameExport struct {
	GameID       string        `json:"game_id"`
	TotalPitches int           `json:"total_pitches"`
	Pitches      []PitchExport `json:"pitches"`
}

// PitchExport pairs one pitch's situation with its score breakdown.
type PitchExport struct {
	PitchID     string `json:"pitch_id,omitempty"`
	Inning      int    `json:"inning"`
	PitcherID   string `json:"pitcher_id"`
	PitcherName string `json:"pitcher_name,omitempty"`
	BatterID    string `json:"batter_id"`
	BatterName  string `json:"batter_name,omitempty"`
	Outs        int    `json:"outs"`
	Count       string `json:"count"`
	BaseCode    string `json:"base_state"`
	ScoreDiff   int    `json:"score_diff"`

	MMI        float64            `json:"mmi"`
	Components map[string]float64 `json:"components"`
	ZScores    map[string]float64 `json:"z_scores"`
}

// ExportGame pairs pitches with their results into a GameExport. The two
// lists must be index-aligned; mismatched lengths are rejected, never
// silently truncated.
func ExportGame(gameID string, pitches []model.PitchRecord, results []model.MMIResult) (GameExport, error) {
	if len(pitches) != len(results) {
		return GameExport{}, fmt.Errorf("%w: %d pitches, %d results", ErrLengthMismatch, len(pitches), len(results))
	}

	out := GameExport{
		GameID:       gameID,
		TotalPitches: len(pitches),
		Pitches:      make([]PitchExport, len(pitches)),
	}
	for i, pitch := range pitches {
		r := results[i]
		out.Pitches[i] = PitchExport{
			PitchID:     pitch.PitchID,
			Inning:      pitch.State.Inning,
			PitcherID:   pitch.PitcherID,
			PitcherName: pitch.PitcherName,
			BatterID:    pitch.BatterID,
			BatterName:  pitch.BatterName,
			Outs:        pitch.State.Outs,
			Count:       pitch.Count.String(),
			BaseCode:    pitch.State.Bases.Code(),
			ScoreDiff:   pitch.State.BattingDiff(),
			MMI:         r.MMI,
			Components: map[string]float64{
				"leverage":    r.Components.Leverage,
				"pressure":    r.Components.Pressure,
				"fatigue":     r.Components.Fatigue,
				"execution":   r.Components.Execution,
				"bio_proxies": r.Components.Bio,
			},
			ZScores: map[string]float64{
				"leverage":  r.Components.ZLeverage,
				"pressure":  r.Components.ZPressure,
				"fatigue":   r.Components.ZFatigue,
				"execution": r.Components.ZExecution,
				"bio":       r.Components.ZBio,
			},
		}
	}
	return out, nil
}
