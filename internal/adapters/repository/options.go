package repository

import "time"

// Option applies a configuration option to the MomentStore.
type Option func(*MomentStore)

// WithMetricsUpdateInterval sets the interval for background metrics updates.
func WithMetricsUpdateInterval(interval time.Duration) Option {
	return func(s *MomentStore) {
		if interval > 0 {
			s.metricsUpdateInterval = interval
		}
	}
}
