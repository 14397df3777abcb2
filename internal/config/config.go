// Package config defines analysis configuration and its loading hooks.
//
// Conventions:
// - New() returns a Config holding every default.
// - Load layers a YAML file and SACCMOD_ environment variables on top.
// - Validate reports the first invalid field wrapped in ErrInvalidConfig.
package config

import (
	"fmt"
	"slices"

	"github.com/spencer-hanson/SaccadePopulationAnalysis/internal/domain/quantification"
)

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// LogFormat selects the log handler: text or json.
	LogFormat string `koanf:"log_format"`

	// BinWidthMS is the firing-rate bin width in milliseconds.
	BinWidthMS float64 `koanf:"bin_width_ms"`

	// WindowBeforeBins and WindowAfterBins bound each trial window around its
	// event bin.
	WindowBeforeBins int `koanf:"window_before_bins"`
	WindowAfterBins  int `koanf:"window_after_bins"`

	// SacProbeLatencyBins is the minimum gap for a saccade before a probe,
	// ProbeSacLatencyBins the minimum gap for a saccade after a probe.
	SacProbeLatencyBins int `koanf:"sac_probe_latency_bins"`
	ProbeSacLatencyBins int `koanf:"probe_sac_latency_bins"`

	// CollisionWindowS is the largest probe/saccade distance in seconds that
	// still makes a mixed trial.
	CollisionWindowS float64 `koanf:"collision_window_s"`

	// IncludeUnmatchedSaccades appends saccades that collided with no probe.
	IncludeUnmatchedSaccades bool `koanf:"include_unmatched_saccades"`

	// StopAtFirstCollision ends each probe's saccade scan at the first hit.
	StopAtFirstCollision bool `koanf:"stop_at_first_collision"`

	// NumSamples and NumWorkers size the null distribution computation.
	NumSamples int `koanf:"num_samples"`
	NumWorkers int `koanf:"num_workers"`

	// Seed fixes the resampling seed; 0 draws a fresh one per run.
	Seed uint64 `koanf:"seed"`

	// Metric names the quantification metric.
	Metric string `koanf:"metric"`

	// CachePath points at the SQLite result cache; empty keeps results in memory.
	CachePath string `koanf:"cache_path"`

	// MetricsFile receives a Prometheus text dump at exit when set.
	MetricsFile string `koanf:"metrics_file"`

	// Confidence and HistogramBins parameterize the confidence intervals.
	Confidence    float64 `koanf:"confidence"`
	HistogramBins int     `koanf:"histogram_bins"`

	// MinSplitTrials is the fewest trials either side of a proportion split may hold.
	MinSplitTrials int `koanf:"min_split_trials"`
}

// New creates a Config populated with defaults.
func New() *Config {
	return &Config{
		LogLevel:            "info",
		LogFormat:           "text",
		BinWidthMS:          20,
		WindowBeforeBins:    10,
		WindowAfterBins:     25,
		SacProbeLatencyBins: 10,
		ProbeSacLatencyBins: 20,
		CollisionWindowS:    0.51,
		NumSamples:          10_000,
		NumWorkers:          4,
		Metric:              quantification.NameEuclidean,
		Confidence:          0.95,
		HistogramBins:       200,
		MinSplitTrials:      5,
	}
}

// Validate checks value ranges.
func (c *Config) Validate() error {
	switch {
	case !slices.Contains([]string{"debug", "info", "warn", "error"}, c.LogLevel):
		return fmt.Errorf("%w: log_level %q", ErrInvalidConfig, c.LogLevel)
	case c.LogFormat != "text" && c.LogFormat != "json":
		return fmt.Errorf("%w: log_format %q", ErrInvalidConfig, c.LogFormat)
	case c.BinWidthMS <= 0:
		return fmt.Errorf("%w: bin_width_ms must be positive", ErrInvalidConfig)
	case c.WindowBeforeBins < 0 || c.WindowAfterBins < 0:
		return fmt.Errorf("%w: trial window must not be negative", ErrInvalidConfig)
	case c.CollisionWindowS < 0:
		return fmt.Errorf("%w: collision_window_s must not be negative", ErrInvalidConfig)
	case c.NumSamples < 1:
		return fmt.Errorf("%w: num_samples must be positive", ErrInvalidConfig)
	case c.NumWorkers < 1:
		return fmt.Errorf("%w: num_workers must be positive", ErrInvalidConfig)
	case !slices.Contains(quantification.Names(), c.Metric):
		return fmt.Errorf("%w: unknown metric %q", ErrInvalidConfig, c.Metric)
	case !(c.Confidence > 0 && c.Confidence < 1):
		return fmt.Errorf("%w: confidence must lie in (0, 1)", ErrInvalidConfig)
	case c.HistogramBins < 1:
		return fmt.Errorf("%w: histogram_bins must be positive", ErrInvalidConfig)
	case c.MinSplitTrials < 0:
		return fmt.Errorf("%w: min_split_trials must not be negative", ErrInvalidConfig)
	}
	return nil
}
