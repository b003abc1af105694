// Package scaling provides z-score normalization for MMI components:
// per-component fit, transform, and JSON persistence of the fitted
// parameters.
package scaling

import "math"

// Scaler normalizes one component: transform(x) = (x - mean) / std.
type Scaler struct {
	Name string  `json:"name"`
	Mean float64 `json:"mean"`
	Std  float64 `json:"std"`
}

// NewScaler builds a scaler. A zero std is substituted with 1.0 so the
// transform never divides by zero; zero is never persisted either.
func NewScaler(name string, mean, std float64) Scaler {
	if std == 0 {
		std = 1.0
	}
	return Scaler{Name: name, Mean: mean, Std: std}
}

// FitScaler computes mean and population standard deviation (divisor N)
// from values. A constant list yields an effective std of 1.0.
func FitScaler(name string, values []float64) Scaler {
	if len(values) == 0 {
		return NewScaler(name, 0.0, 1.0)
	}
	n := float64(len(values))
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	mean := sum / n

	variance := 0.0
	for _, v := range values {
		d := v - mean
		variance += d * d
	}
	variance /= n

	return NewScaler(name, mean, math.Sqrt(variance))
}

// Transform converts a raw value to its z-score.
func (s Scaler) Transform(x float64) float64 {
	std := s.Std
	if std == 0 {
		std = 1.0
	}
	return (x - s.Mean) / std
}

// InverseTransform maps a z-score back to the original scale, so that
// InverseTransform(Transform(x)) == x for all finite x.
func (s Scaler) InverseTransform(z float64) float64 {
	std := s.Std
	if std == 0 {
		std = 1.0
	}
	return z*std + s.Mean
}
