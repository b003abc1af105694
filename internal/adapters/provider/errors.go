package provider

import "errors"

// Sentinel kinds for feed provider errors.
var (
	ErrFetch  = errors.New("feed fetch failed")
	ErrDecode = errors.New("feed decode failed")
	ErrLoad   = errors.New("pitch file load failed")
)
