// Package features computes the four behavioral MMI components: pressure,
// fatigue, execution difficulty, and bio-proxies. Every calculator is a
// pure function of the pitch and the workload context passed in; identical
// inputs always produce identical outputs.
package features

import (
	"github.com/mmilab/mmi/internal/domain/model"
)

// DefaultLeagueAvgAttendance is the crowd normalization baseline.
const DefaultLeagueAvgAttendance = 30000.0

// Set holds the four raw feature values for one pitch.
type Set struct {
	Pressure  float64
	Fatigue   float64
	Execution float64
	Bio       float64
}

// Builder computes all feature components with shared configuration.
type Builder struct {
	leagueAvgAttendance float64
}

// Option applies a configuration option to the Builder.
type Option func(*Builder)

// WithLeagueAvgAttendance overrides the crowd normalization baseline.
func WithLeagueAvgAttendance(avg float64) Option {
	return func(b *Builder) {
		if avg > 0 {
			b.leagueAvgAttendance = avg
		}
	}
}

// NewBuilder creates a Builder with default configuration.
func NewBuilder(opts ...Option) *Builder {
	b := &Builder{
		leagueAvgAttendance: DefaultLeagueAvgAttendance,
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Pitcher computes the pitcher-side feature set for a pitch.
func (b *Builder) Pitcher(pitch model.PitchRecord, ctx model.PitcherContext) Set {
	return Set{
		Pressure:  b.Pressure(pitch),
		Fatigue:   PitcherFatigue(pitch, ctx),
		Execution: PitcherExecution(pitch, ctx),
		Bio:       BioProxies(pitch, ctx.PitchesInGame, ctx.PriorHighMoments, ctx.AvgTempoSeconds),
	}
}

// Batter computes the batter-side feature set for a pitch. The bio-proxies
// pitch-count term uses the batter's plate appearance count.
func (b *Builder) Batter(pitch model.PitchRecord, ctx model.BatterContext) Set {
	return Set{
		Pressure:  b.Pressure(pitch),
		Fatigue:   BatterFatigue(pitch, ctx),
		Execution: BatterExecution(pitch, ctx),
		Bio:       BioProxies(pitch, ctx.PAsInGame, ctx.PriorHighMoments, ctx.AvgTempoSeconds),
	}
}
