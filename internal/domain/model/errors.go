package model

import "errors"

// Sentinel kinds for model errors.
var (
	ErrLengthMismatch    = errors.New("event arrays differ in length")
	ErrUnknownLabel      = errors.New("unknown trial label")
	ErrMissingProvenance = errors.New("trial has no mixed provenance")
)
