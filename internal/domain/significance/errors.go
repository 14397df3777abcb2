package significance

import "errors"

// Sentinel kinds for significance errors.
var (
	ErrEmptySample       = errors.New("no samples")
	ErrInvalidSample     = errors.New("samples must be finite")
	ErrInvalidConfidence = errors.New("confidence must lie in (0, 1)")
	ErrInvalidBins       = errors.New("histogram needs at least one bin")
	ErrTimepointMismatch = errors.New("observed values and distribution differ in timepoints")
)
