// Package alignment turns raw probe and saccade event streams into a sorted,
// demixed TrialGroup.
package alignment

import (
	"github.com/spencer-hanson/SaccadePopulationAnalysis/pkg/logger"
)

// Defaults for 20 ms firing-rate bins: a -200 ms/+500 ms trial window, a
// 200 ms saccade-before-probe and 400 ms probe-before-saccade exclusion.
const (
	DefaultWindowBefore    = 10
	DefaultWindowAfter     = 25
	DefaultSacProbeLatency = 10
	DefaultProbeSacLatency = 20
	DefaultCollisionWindow = 0.51 // seconds
)

type settings struct {
	windowBefore     int
	windowAfter      int
	sacProbeLatency  int
	probeSacLatency  int
	collisionWindow  float64
	includeUnmatched bool
	stopAtFirst      bool
	logger           logger.Logger
}

func newSettings(opts []Option) settings {
	s := settings{
		windowBefore:    DefaultWindowBefore,
		windowAfter:     DefaultWindowAfter,
		sacProbeLatency: DefaultSacProbeLatency,
		probeSacLatency: DefaultProbeSacLatency,
		collisionWindow: DefaultCollisionWindow,
	}
	for _, opt := range opts {
		opt(&s)
	}
	if s.logger == nil {
		s.logger = logger.Get().Named("alignment")
	}
	return s
}

// Option configures the mapper, filter, demixer and processor.
type Option func(*settings)

// WithWindow sets how many bins a trial window spans before and after the
// event bin.
func WithWindow(before, after int) Option {
	return func(s *settings) {
		s.windowBefore = before
		s.windowAfter = after
	}
}

// WithLatencies sets the minimum separation in bins for a saccade preceding a
// probe (sacProbe) and for a saccade following a probe (probeSac).
func WithLatencies(sacProbe, probeSac int) Option {
	return func(s *settings) {
		s.sacProbeLatency = sacProbe
		s.probeSacLatency = probeSac
	}
}

// WithCollisionWindow sets the maximum |saccade - probe| time, in seconds, at
// which the two events collide.
func WithCollisionWindow(seconds float64) Option {
	return func(s *settings) {
		s.collisionWindow = seconds
	}
}

// WithUnmatchedSaccades appends saccades that collided with no probe to the
// demixer output.
func WithUnmatchedSaccades(include bool) Option {
	return func(s *settings) {
		s.includeUnmatched = include
	}
}

// WithStopAtFirstCollision ends each probe's saccade scan at the first
// collision. Probes then never count as duplicates.
func WithStopAtFirstCollision(stop bool) Option {
	return func(s *settings) {
		s.stopAtFirst = stop
	}
}

// WithLogger sets a custom logger.
func WithLogger(l logger.Logger) Option {
	return func(s *settings) {
		if l != nil {
			s.logger = l
		}
	}
}
