// Package repository caches analysis results so later runs can skip
// recomputation. Cached values are interchangeable with fresh ones.
package repository

import (
	"context"
	"fmt"
)

// Result kinds stored in the cache.
const (
	KindTrialGroup = "trialgroup"
	KindNullDist   = "nulldist"
)

// Key identifies one cached result.
type Key struct {
	Session string
	Kind    string
	Name    string // e.g. metric name and motion direction for null distributions
}

// Validate checks that every field is set.
func (k Key) Validate() error {
	if k.Session == "" || k.Kind == "" || k.Name == "" {
		return fmt.Errorf("%w: %+v", ErrInvalidKey, k)
	}
	return nil
}

func (k Key) String() string { return k.Session + "/" + k.Kind + "/" + k.Name }

// Store provides read/write access to cached results.
type Store interface {
	// Get returns the stored payload or ErrNotFound.
	Get(ctx context.Context, key Key) ([]byte, error)
	// Put stores or replaces the payload for key.
	Put(ctx context.Context, key Key, data []byte) error
	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key Key) error
	// Close releases the store.
	Close() error
}
