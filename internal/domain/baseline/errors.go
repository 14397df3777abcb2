package baseline

import "errors"

// Sentinel kinds for baseline errors.
var (
	ErrNilInput           = errors.New("firing rates and trial group are required")
	ErrWindowNotDivisible = errors.New("time axis must split into three equal windows")
	ErrNoSaccadeTrials    = errors.New("no saccade trials to average")
	ErrInconsistentGroup  = errors.New("mixed trial indices do not match the trial group")
	ErrInvalidBinWidth    = errors.New("bin width must be positive")
)
