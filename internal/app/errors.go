package service

import "errors"

// Sentinel kinds for service errors.
var (
	ErrNotStarted         = errors.New("service not started")
	ErrTrialCountMismatch = errors.New("firing rates do not cover the trial group")
)
