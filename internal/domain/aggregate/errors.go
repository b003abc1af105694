package aggregate

import "errors"

// Sentinel kinds for aggregation errors.
var (
	ErrLengthMismatch = errors.New("pitch and result lists differ in length")
)
