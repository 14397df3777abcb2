package distribution

import "errors"

// Sentinel kinds for distribution errors.
var (
	ErrNilMetric          = errors.New("quantification metric is required")
	ErrShapeMismatch      = errors.New("populations differ in units or time bins")
	ErrEmptyPopulation    = errors.New("population has no units or trials")
	ErrInvalidSampleCount = errors.New("sample and worker counts must be positive")
	ErrInvalidProportion  = errors.New("proportion must lie in [0, 1]")
	ErrSplitTooSmall      = errors.New("split leaves too few trials")
)
