package model

import (
	"fmt"
	"time"
)

// PitchType is the standard pitch classification code.
type PitchType string

// Known pitch types.
const (
	Fastball    PitchType = "FF"
	TwoSeam     PitchType = "FT"
	Cutter      PitchType = "FC"
	Sinker      PitchType = "SI"
	Slider      PitchType = "SL"
	Curveball   PitchType = "CU"
	Changeup    PitchType = "CH"
	Splitter    PitchType = "FS"
	Knuckleball PitchType = "KN"
	UnknownType PitchType = "UN"
)

// PitchResult is the outcome of a single pitch.
type PitchResult string

// Pitch outcomes.
const (
	Ball           PitchResult = "ball"
	CalledStrike   PitchResult = "called_strike"
	SwingingStrike PitchResult = "swinging_strike"
	Foul           PitchResult = "foul"
	HitIntoPlay    PitchResult = "hit_into_play"
	HitByPitch     PitchResult = "hit_by_pitch"
)

// PitchRecord is the complete representation of one pitch. It is an
// immutable input owned by the caller; the engine never mutates it.
// Optional numeric fields use zero as "unknown".
type PitchRecord struct {
	// Identifiers.
	GameID      string `json:"game_id"`
	PitchID     string `json:"pitch_id,omitempty"`
	AtBatIndex  int    `json:"at_bat_index"`
	PitchNumber int    `json:"pitch_number"`

	GameDate time.Time `json:"game_date"`

	// Participants.
	BatterID    string `json:"batter_id"`
	BatterName  string `json:"batter_name,omitempty"`
	BatterTeam  string `json:"batter_team"`
	PitcherID   string `json:"pitcher_id"`
	PitcherName string `json:"pitcher_name,omitempty"`
	PitcherTeam string `json:"pitcher_team"`
	HomeTeam    string `json:"home_team"`
	AwayTeam    string `json:"away_team"`

	// Situation.
	State GameState `json:"state"`
	Count Count     `json:"count"`

	// Pitch details.
	Type     PitchType `json:"pitch_type,omitempty"`
	Velocity float64   `json:"velocity,omitempty"` // mph, 0 = unknown
	PlateX   float64   `json:"plate_x,omitempty"`  // horizontal location, feet
	PlateZ   float64   `json:"plate_z,omitempty"`  // vertical location, feet

	// Result.
	Result         PitchResult `json:"result"`
	FinalPitchOfPA bool        `json:"final_pitch_of_pa,omitempty"`

	// Venue and context.
	Venue           string `json:"venue,omitempty"`
	Attendance      int    `json:"attendance,omitempty"` // 0 = unknown
	Postseason      bool   `json:"postseason,omitempty"`
	EliminationGame bool   `json:"elimination_game,omitempty"`

	// Seconds since the previous pitch; 0 = unknown.
	SecondsSinceLastPitch float64 `json:"seconds_since_last_pitch,omitempty"`
}

// Validate checks the record's situational fields against legal ranges.
func (p PitchRecord) Validate() error {
	if p.GameID == "" {
		return fmt.Errorf("%w: missing game_id", ErrInvalidPitch)
	}
	if p.PitchNumber < 1 {
		return fmt.Errorf("%w: pitch_number %d must be >= 1", ErrInvalidPitch, p.PitchNumber)
	}
	if err := p.State.Validate(); err != nil {
		return err
	}
	return p.Count.Validate()
}
