package repository

import "errors"

// Sentinel kinds for cache errors.
var (
	ErrNotFound   = errors.New("cache entry not found")
	ErrInvalidKey = errors.New("cache key needs session, kind and name")
	ErrClosed     = errors.New("cache store is closed")
)
