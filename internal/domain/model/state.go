// Package model contains domain models passed between layers.
package model

import (
	"fmt"
)

// BaseState records which bases are occupied.
type BaseState struct {
	First  bool `json:"first"`
	Second bool `json:"second"`
	Third  bool `json:"third"`
}

// Code returns the three-character occupancy code, e.g. "___", "1_3", "123".
func (b BaseState) Code() string {
	code := make([]byte, 3)
	code[0] = '_'
	code[1] = '_'
	code[2] = '_'
	if b.First {
		code[0] = '1'
	}
	if b.Second {
		code[1] = '2'
	}
	if b.Third {
		code[2] = '3'
	}
	return string(code)
}

// Runners returns the number of occupied bases.
func (b BaseState) Runners() int {
	n := 0
	if b.First {
		n++
	}
	if b.Second {
		n++
	}
	if b.Third {
		n++
	}
	return n
}

// ScoringPosition reports whether a runner is on second or third.
func (b BaseState) ScoringPosition() bool {
	return b.Second || b.Third
}

// BaseStateFromCode parses an occupancy code produced by Code.
func BaseStateFromCode(code string) (BaseState, error) {
	if len(code) != 3 {
		return BaseState{}, fmt.Errorf("%w: base code %q", ErrInvalidState, code)
	}
	var b BaseState
	switch code[0] {
	case '1':
		b.First = true
	case '_':
	default:
		return BaseState{}, fmt.Errorf("%w: base code %q", ErrInvalidState, code)
	}
	switch code[1] {
	case '2':
		b.Second = true
	case '_':
	default:
		return BaseState{}, fmt.Errorf("%w: base code %q", ErrInvalidState, code)
	}
	switch code[2] {
	case '3':
		b.Third = true
	case '_':
	default:
		return BaseState{}, fmt.Errorf("%w: base code %q", ErrInvalidState, code)
	}
	return b, nil
}

// Count is the ball-strike count on the batter.
type Count struct {
	Balls   int `json:"balls"`
	Strikes int `json:"strikes"`
}

// String renders the count in the conventional "balls-strikes" form.
func (c Count) String() string {
	return fmt.Sprintf("%d-%d", c.Balls, c.Strikes)
}

// HittersCount reports whether the count favors the hitter (2-0, 3-0, 3-1).
func (c Count) HittersCount() bool {
	return c.Balls >= 2 && c.Strikes <= 1
}

// PitchersCount reports whether the count favors the pitcher (0-2, 1-2).
// Mutually exclusive with HittersCount by construction: a hitter's count
// needs strikes <= 1, a pitcher's count needs strikes == 2.
func (c Count) PitchersCount() bool {
	return c.Strikes == 2 && c.Balls <= 1
}

// Validate checks the count against legal ranges.
func (c Count) Validate() error {
	if c.Balls < 0 || c.Balls > 3 {
		return fmt.Errorf("%w: balls %d out of [0,3]", ErrInvalidState, c.Balls)
	}
	if c.Strikes < 0 || c.Strikes > 2 {
		return fmt.Errorf("%w: strikes %d out of [0,2]", ErrInvalidState, c.Strikes)
	}
	return nil
}

// GameState is the game situation at the moment of a pitch. It is a value
// type: supplied per pitch and never mutated. The six fields form the
// complete leverage key; nothing outside them may influence leverage.
type GameState struct {
	Inning    int       `json:"inning"`
	TopHalf   bool      `json:"top_half"`
	Outs      int       `json:"outs"`
	Bases     BaseState `json:"bases"`
	HomeScore int       `json:"home_score"`
	AwayScore int       `json:"away_score"`
}

// HomeBatting reports whether the home team is at bat.
func (g GameState) HomeBatting() bool {
	return !g.TopHalf
}

// BattingDiff is the score differential from the batting team's perspective.
func (g GameState) BattingDiff() int {
	if g.TopHalf {
		return g.AwayScore - g.HomeScore
	}
	return g.HomeScore - g.AwayScore
}

// Validate checks the state against legal ranges.
func (g GameState) Validate() error {
	if g.Inning < 1 {
		return fmt.Errorf("%w: inning %d must be >= 1", ErrInvalidState, g.Inning)
	}
	if g.Outs < 0 || g.Outs > 2 {
		return fmt.Errorf("%w: outs %d out of [0,2]", ErrInvalidState, g.Outs)
	}
	if g.HomeScore < 0 || g.AwayScore < 0 {
		return fmt.Errorf("%w: negative score %d-%d", ErrInvalidState, g.AwayScore, g.HomeScore)
	}
	return nil
}
