package scaling

import "errors"

// Sentinel kinds for scaler persistence errors.
var (
	ErrLoad = errors.New("scaler load failed")
	ErrSave = errors.New("scaler save failed")
)
