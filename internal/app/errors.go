package service

import "errors"

// Service errors.
var (
	// ErrNotStarted is returned when an operation requires a running service.
	ErrNotStarted = errors.New("service not started")
)
