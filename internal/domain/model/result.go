package model

import (
	"math"
	"time"
)

// Default component weights for the MMI weighted sum.
const (
	DefaultWeightLeverage  = 0.35
	DefaultWeightPressure  = 0.20
	DefaultWeightFatigue   = 0.20
	DefaultWeightExecution = 0.15
	DefaultWeightBio       = 0.10
)

// weightSumTolerance is the permitted drift before renormalization kicks in.
const weightSumTolerance = 1e-9

// Weights holds the five component weights of the MMI weighted sum.
type Weights struct {
	Leverage  float64 `json:"leverage"`
	Pressure  float64 `json:"pressure"`
	Fatigue   float64 `json:"fatigue"`
	Execution float64 `json:"execution"`
	Bio       float64 `json:"bio"`
}

// DefaultWeights returns the standard weight table.
func DefaultWeights() Weights {
	return Weights{
		Leverage:  DefaultWeightLeverage,
		Pressure:  DefaultWeightPressure,
		Fatigue:   DefaultWeightFatigue,
		Execution: DefaultWeightExecution,
		Bio:       DefaultWeightBio,
	}
}

// Sum returns the total of all five weights.
func (w Weights) Sum() float64 {
	return w.Leverage + w.Pressure + w.Fatigue + w.Execution + w.Bio
}

// Normalized returns weights scaled so they sum to 1.0, preserving the
// relative proportions. Weights already summing to 1.0 within floating
// tolerance are returned unchanged; a degenerate non-positive sum falls
// back to the defaults.
func (w Weights) Normalized() Weights {
	sum := w.Sum()
	if sum <= 0 {
		return DefaultWeights()
	}
	if math.Abs(sum-1.0) <= weightSumTolerance {
		return w
	}
	return Weights{
		Leverage:  w.Leverage / sum,
		Pressure:  w.Pressure / sum,
		Fatigue:   w.Fatigue / sum,
		Execution: w.Execution / sum,
		Bio:       w.Bio / sum,
	}
}

// MMIComponents is the per-pitch breakdown: five raw component values,
// their z-scores, and the weights applied to the weighted sum.
type MMIComponents struct {
	Leverage  float64 `json:"leverage"`
	Pressure  float64 `json:"pressure"`
	Fatigue   float64 `json:"fatigue"`
	Execution float64 `json:"execution"`
	Bio       float64 `json:"bio"`

	ZLeverage  float64 `json:"z_leverage"`
	ZPressure  float64 `json:"z_pressure"`
	ZFatigue   float64 `json:"z_fatigue"`
	ZExecution float64 `json:"z_execution"`
	ZBio       float64 `json:"z_bio"`

	Weights Weights `json:"weights"`
}

// WeightedSum combines the z-scored components under the stored weights.
func (c MMIComponents) WeightedSum() float64 {
	return c.Weights.Leverage*c.ZLeverage +
		c.Weights.Pressure*c.ZPressure +
		c.Weights.Fatigue*c.ZFatigue +
		c.Weights.Execution*c.ZExecution +
		c.Weights.Bio*c.ZBio
}

// MMIResult is the immutable outcome of one evaluation: the final scalar
// plus the full component breakdown. Created once, never mutated.
type MMIResult struct {
	PitchID   string `json:"pitch_id,omitempty"`
	GameID    string `json:"game_id"`
	BatterID  string `json:"batter_id"`
	PitcherID string `json:"pitcher_id"`
	Inning    int    `json:"inning"`

	MMI        float64       `json:"mmi"`
	Components MMIComponents `json:"components"`

	Role      Role              `json:"role"`
	Timestamp time.Time         `json:"timestamp"`
	Meta      map[string]string `json:"meta,omitempty"`
}

// PlayerID returns the id of the player the result was scored for.
func (r MMIResult) PlayerID() string {
	if r.Role == RoleBatter {
		return r.BatterID
	}
	return r.PitcherID
}

// PlayerSummary is a derived-only aggregate over a set of MMIResult.
// Fully recomputable; it has no lifecycle beyond the aggregation call.
type PlayerSummary struct {
	PlayerID   string `json:"player_id"`
	PlayerName string `json:"player_name,omitempty"`
	Role       Role   `json:"role"`

	Season     int    `json:"season"`
	SeasonType string `json:"season_type"`

	TotalPitches int `json:"total_pitches"`
	TotalGames   int `json:"total_games"`

	MeanMMI   float64 `json:"mean_mmi"`
	MedianMMI float64 `json:"median_mmi"`
	StdMMI    float64 `json:"std_mmi"`

	P10 float64 `json:"p10_mmi"`
	P25 float64 `json:"p25_mmi"`
	P75 float64 `json:"p75_mmi"`
	P90 float64 `json:"p90_mmi"`
	P95 float64 `json:"p95_mmi"`
	P99 float64 `json:"p99_mmi"`

	HighCount    int `json:"high_mmi_count"`    // MMI > 2.0
	ExtremeCount int `json:"extreme_mmi_count"` // MMI > 3.0

	AvgLeverage  float64 `json:"avg_leverage"`
	AvgPressure  float64 `json:"avg_pressure"`
	AvgFatigue   float64 `json:"avg_fatigue"`
	AvgExecution float64 `json:"avg_execution"`
	AvgBio       float64 `json:"avg_bio"`
}
