package model

import "fmt"

// Role identifies whose mental demand a pitch is scored for.
type Role string

// The two supported roles.
const (
	RolePitcher Role = "pitcher"
	RoleBatter  Role = "batter"
)

// Validate rejects any role outside the two-value enumeration.
func (r Role) Validate() error {
	switch r {
	case RolePitcher, RoleBatter:
		return nil
	default:
		return fmt.Errorf("%w: %q", ErrInvalidRole, string(r))
	}
}

// Workload is the evaluation-scoped workload context supplied fresh per
// call. Exactly two variants exist: PitcherContext and BatterContext. The
// engine never retains workload history across calls.
type Workload interface {
	// WorkloadRole tags the variant with the role it applies to.
	WorkloadRole() Role
}

// PitcherContext carries a pitcher's workload counters for one evaluation.
type PitcherContext struct {
	PitchesInGame       int     `json:"pitches_in_game"`
	PitchesLast7Days    int     `json:"pitches_last_7_days"`
	DaysSinceLastOuting int     `json:"days_since_last_outing"`
	Starter             bool    `json:"starter"`
	OpponentOnBaseAvg   float64 `json:"opponent_on_base_avg"`
	PlatoonDisadvantage bool    `json:"platoon_disadvantage"`
	PriorHighMoments    int     `json:"prior_high_moments"`
	AvgTempoSeconds     float64 `json:"avg_tempo_seconds"`
}

// WorkloadRole implements Workload.
func (PitcherContext) WorkloadRole() Role { return RolePitcher }

// BatterContext carries a batter's workload counters for one evaluation.
type BatterContext struct {
	PAsInGame         int     `json:"pas_in_game"`
	PAsLast7Days      int     `json:"pas_last_7_days"`
	PrevPitchVelocity float64 `json:"prev_pitch_velocity"` // 0 = unknown
	PitcherQuality    float64 `json:"pitcher_quality"`     // index, 100 = average
	PriorHighMoments  int     `json:"prior_high_moments"`
	AvgTempoSeconds   float64 `json:"avg_tempo_seconds"`
}

// WorkloadRole implements Workload.
func (BatterContext) WorkloadRole() Role { return RoleBatter }

// DefaultPitcherContext returns the documented fallback workload used when
// the caller supplies no context.
func DefaultPitcherContext() PitcherContext {
	return PitcherContext{
		PitchesInGame:       50,
		PitchesLast7Days:    0,
		DaysSinceLastOuting: 3,
		Starter:             true,
		OpponentOnBaseAvg:   0.320,
		PriorHighMoments:    0,
		AvgTempoSeconds:     20.0,
	}
}

// DefaultBatterContext returns the documented fallback workload used when
// the caller supplies no context.
func DefaultBatterContext() BatterContext {
	return BatterContext{
		PAsInGame:        3,
		PAsLast7Days:     25,
		PitcherQuality:   100.0,
		PriorHighMoments: 0,
		AvgTempoSeconds:  20.0,
	}
}
