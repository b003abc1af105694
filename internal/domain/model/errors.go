package model

import "errors"

// Sentinel kinds for model validation errors.
var (
	ErrInvalidState = errors.New("invalid game state")
	ErrInvalidPitch = errors.New("invalid pitch record")
	ErrInvalidRole  = errors.New("invalid role")
)
