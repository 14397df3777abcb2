package alignment

import "errors"

// Sentinel kinds for alignment errors.
var (
	ErrInvalidBinEdges  = errors.New("bin edges must be strictly increasing with at least two values")
	ErrEventOutOfRange  = errors.New("event falls outside the recorded bins")
	ErrInvalidWindow    = errors.New("invalid trial window")
	ErrInvalidCollision = errors.New("collision window must be non-negative")
)
