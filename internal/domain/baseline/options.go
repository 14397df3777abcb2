package baseline

import "github.com/spencer-hanson/SaccadePopulationAnalysis/pkg/logger"

// DefaultBinWidthMs is the firing-rate bin width the offsets are converted with.
const DefaultBinWidthMs = 20.0

// Option configures a Calculator.
type Option func(*Calculator)

// WithBinWidth sets the firing-rate bin width in milliseconds.
func WithBinWidth(ms float64) Option {
	return func(c *Calculator) {
		c.binWidthMs = ms
	}
}

// WithLogger sets a custom logger.
func WithLogger(l logger.Logger) Option {
	return func(c *Calculator) {
		if l != nil {
			c.logger = l
		}
	}
}
