package quantification

import "errors"

// Sentinel kinds for quantification errors.
var (
	ErrShapeMismatch = errors.New("blocks differ in unit count")
	ErrEmptyBlock    = errors.New("block has no units or trials")
	ErrZeroMagnitude = errors.New("population vector has zero magnitude")
	ErrUnknownMetric = errors.New("unknown quantification metric")
)
