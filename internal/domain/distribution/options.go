package distribution

import (
	"github.com/spencer-hanson/SaccadePopulationAnalysis/pkg/logger"
)

// Engine defaults.
const (
	DefaultNumSamples = 10000
	DefaultNumWorkers = 4
)

// Option configures an Engine.
type Option func(*Engine)

// WithNumSamples sets the total number of resampling draws.
func WithNumSamples(n int) Option {
	return func(e *Engine) {
		e.numSamples = n
	}
}

// WithNumWorkers sets the number of partitions computed in parallel.
func WithNumWorkers(n int) Option {
	return func(e *Engine) {
		e.numWorkers = n
	}
}

// WithSeed fixes the base random seed. Partition i draws from a generator
// seeded with (seed, i), so a fixed seed reproduces the distribution exactly.
// Zero picks a random seed.
func WithSeed(seed uint64) Option {
	return func(e *Engine) {
		e.seed = seed
	}
}

// WithLogger sets a custom logger.
func WithLogger(l logger.Logger) Option {
	return func(e *Engine) {
		if l != nil {
			e.logger = l
		}
	}
}
