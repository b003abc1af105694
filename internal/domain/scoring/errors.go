package scoring

import "errors"

// Sentinel kinds for engine errors.
var (
	ErrNoPitches          = errors.New("no pitches to score")
	ErrContextMismatch    = errors.New("workload context does not match role")
	ErrUnknownAggregation = errors.New("unknown plate appearance aggregation")
)
