package tensor

import "errors"

// Sentinel kinds for tensor errors.
var (
	ErrNotThreeDimensional = errors.New("firing rates must be shaped (units, trials, bins)")
	ErrInvalidShape        = errors.New("invalid tensor shape")
	ErrShapeMismatch       = errors.New("tensor shapes do not match")
	ErrIndexOutOfRange     = errors.New("index out of range")
)
