package scaling

import (
	"encoding/json"
	"fmt"
	"os"
	"time"
)

// Component scaler names used in the persisted document.
const (
	nameLeverage  = "leverage_index"
	namePressure  = "pressure"
	nameFatigue   = "fatigue"
	nameExecution = "execution"
	nameBio       = "bio_proxies"
)

// ZScores holds the five normalized component values.
type ZScores struct {
	Leverage  float64
	Pressure  float64
	Fatigue   float64
	Execution float64
	Bio       float64
}

// ScalerSet is the complete set of component scalers plus fit metadata.
// Sets are immutable once built; swapping in a refit set is done by whole
// object replacement, never by mutating a live one.
type ScalerSet struct {
	Leverage  Scaler
	Pressure  Scaler
	Fatigue   Scaler
	Execution Scaler
	Bio       Scaler

	Season      int
	SeasonType  string
	SampleSize  int
	LastUpdated time.Time
}

// Fit builds a ScalerSet from raw component value lists. SampleSize is
// taken from the leverage list.
func Fit(leverage, pressure, fatigue, execution, bio []float64, season int, seasonType string) *ScalerSet {
	return &ScalerSet{
		Leverage:    FitScaler(nameLeverage, leverage),
		Pressure:    FitScaler(namePressure, pressure),
		Fatigue:     FitScaler(nameFatigue, fatigue),
		Execution:   FitScaler(nameExecution, execution),
		Bio:         FitScaler(nameBio, bio),
		Season:      season,
		SeasonType:  seasonType,
		SampleSize:  len(leverage),
		LastUpdated: time.Now().UTC(),
	}
}

// Default returns a documented constant set with approximate league-shaped
// parameters, for use before any real fit is available.
func Default() *ScalerSet {
	return &ScalerSet{
		Leverage:    NewScaler(nameLeverage, 1.0, 0.5),
		Pressure:    NewScaler(namePressure, 3.0, 1.5),
		Fatigue:     NewScaler(nameFatigue, 2.5, 1.2),
		Execution:   NewScaler(nameExecution, 3.0, 1.0),
		Bio:         NewScaler(nameBio, 1.0, 0.8),
		Season:      time.Now().Year(),
		SeasonType:  "default",
		LastUpdated: time.Now().UTC(),
	}
}

// TransformAll normalizes all five components at once.
func (s *ScalerSet) TransformAll(leverage, pressure, fatigue, execution, bio float64) ZScores {
	return ZScores{
		Leverage:  s.Leverage.Transform(leverage),
		Pressure:  s.Pressure.Transform(pressure),
		Fatigue:   s.Fatigue.Transform(fatigue),
		Execution: s.Execution.Transform(execution),
		Bio:       s.Bio.Transform(bio),
	}
}

// document is the persisted JSON shape.
type document struct {
	Metadata metadata `json:"metadata"`
	Scalers  scalers  `json:"scalers"`
}

type metadata struct {
	Season      int       `json:"season"`
	SeasonType  string    `json:"season_type"`
	SampleSize  int       `json:"sample_size"`
	LastUpdated time.Time `json:"last_updated"`
}

type scalers struct {
	Leverage  Scaler `json:"leverage"`
	Pressure  Scaler `json:"pressure"`
	Fatigue   Scaler `json:"fatigue"`
	Execution Scaler `json:"execution"`
	BioProxy  Scaler `json:"bio_proxies"`
}

// Save writes the set to path as a JSON document. Save followed by Load
// reproduces every mean and std exactly.
func (s *ScalerSet) Save(path string) error {
	doc := document{
		Metadata: metadata{
			Season:      s.Season,
			SeasonType:  s.SeasonType,
			SampleSize:  s.SampleSize,
			LastUpdated: s.LastUpdated,
		},
		Scalers: scalers{
			Leverage:  s.Leverage,
			Pressure:  s.Pressure,
			Fatigue:   s.Fatigue,
			Execution: s.Execution,
			BioProxy:  s.Bio,
		},
	}
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("%w: %w", ErrSave, err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("%w: %w", ErrSave, err)
	}
	return nil
}

// Load reads a persisted set from path. A missing or malformed document
// surfaces a distinct ErrLoad; the caller's active set stays untouched.
func Load(path string) (*ScalerSet, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoad, err)
	}
	var doc document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoad, err)
	}
	return &ScalerSet{
		Leverage:    sanitize(doc.Scalers.Leverage, nameLeverage),
		Pressure:    sanitize(doc.Scalers.Pressure, namePressure),
		Fatigue:     sanitize(doc.Scalers.Fatigue, nameFatigue),
		Execution:   sanitize(doc.Scalers.Execution, nameExecution),
		Bio:         sanitize(doc.Scalers.BioProxy, nameBio),
		Season:      doc.Metadata.Season,
		SeasonType:  doc.Metadata.SeasonType,
		SampleSize:  doc.Metadata.SampleSize,
		LastUpdated: doc.Metadata.LastUpdated,
	}, nil
}

// sanitize fills a missing name and substitutes a zero std with 1.0.
func sanitize(s Scaler, fallbackName string) Scaler {
	if s.Name == "" {
		s.Name = fallbackName
	}
	return NewScaler(s.Name, s.Mean, s.Std)
}
