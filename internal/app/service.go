// Package service wires the alignment pipeline, baseline correction and
// resampling engine into one analysis run per recording session.
package service

import (
	"context"
	"fmt"
	"sync"

	"github.com/spencer-hanson/SaccadePopulationAnalysis/internal/adapters/repository"
	"github.com/spencer-hanson/SaccadePopulationAnalysis/internal/config"
	"github.com/spencer-hanson/SaccadePopulationAnalysis/internal/domain/alignment"
	"github.com/spencer-hanson/SaccadePopulationAnalysis/internal/domain/baseline"
	"github.com/spencer-hanson/SaccadePopulationAnalysis/internal/domain/distribution"
	"github.com/spencer-hanson/SaccadePopulationAnalysis/internal/domain/quantification"
	"github.com/spencer-hanson/SaccadePopulationAnalysis/pkg/logger"
)

// Service runs analyses against a result cache.
type Service struct {
	mu sync.RWMutex

	// Core components
	store     repository.Store
	ownsStore bool
	cachePath string

	// Alignment
	binWidthMS       float64
	windowBefore     int
	windowAfter      int
	sacProbeLatency  int
	probeSacLatency  int
	collisionWindow  float64
	includeUnmatched bool
	stopAtFirst      bool

	// Resampling and significance
	metric         string
	numSamples     int
	numWorkers     int
	seed           uint64
	confidence     float64
	histogramBins  int
	minSplitTrials int

	// State
	started bool

	// Logging
	logger logger.Logger
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithConfig copies every analysis setting from cfg.
func WithConfig(cfg *config.Config) Option {
	return func(s *Service) {
		if cfg == nil {
			return
		}
		s.cachePath = cfg.CachePath
		s.binWidthMS = cfg.BinWidthMS
		s.windowBefore = cfg.WindowBeforeBins
		s.windowAfter = cfg.WindowAfterBins
		s.sacProbeLatency = cfg.SacProbeLatencyBins
		s.probeSacLatency = cfg.ProbeSacLatencyBins
		s.collisionWindow = cfg.CollisionWindowS
		s.includeUnmatched = cfg.IncludeUnmatchedSaccades
		s.stopAtFirst = cfg.StopAtFirstCollision
		s.metric = cfg.Metric
		s.numSamples = cfg.NumSamples
		s.numWorkers = cfg.NumWorkers
		s.seed = cfg.Seed
		s.confidence = cfg.Confidence
		s.histogramBins = cfg.HistogramBins
		s.minSplitTrials = cfg.MinSplitTrials
	}
}

// WithStore sets the result cache. The caller keeps ownership.
func WithStore(store repository.Store) Option {
	return func(s *Service) {
		if store != nil {
			s.store = store
		}
	}
}

// WithCachePath opens a SQLite cache at path on Start.
func WithCachePath(path string) Option {
	return func(s *Service) {
		s.cachePath = path
	}
}

// WithMetric sets the quantification metric by name.
func WithMetric(name string) Option {
	return func(s *Service) {
		if name != "" {
			s.metric = name
		}
	}
}

// WithSampling sets the resampling size, parallelism and seed.
func WithSampling(samples, workers int, seed uint64) Option {
	return func(s *Service) {
		if samples > 0 {
			s.numSamples = samples
		}
		if workers > 0 {
			s.numWorkers = workers
		}
		s.seed = seed
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// New constructs a Service with the default analysis settings.
func New(opts ...Option) *Service {
	s := &Service{logger: logger.Get().Named("service")}
	WithConfig(config.New())(s)
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Start opens the result cache.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}
	if _, err := quantification.ByName(s.metric); err != nil {
		return err
	}

	if s.store == nil {
		if s.cachePath != "" {
			store, err := repository.OpenSQLite(ctx, s.cachePath, repository.WithLogger(s.logger.Named("cache")))
			if err != nil {
				return fmt.Errorf("start service: %w", err)
			}
			s.store = store
		} else {
			s.store = repository.NewMemoryStore()
		}
		s.ownsStore = true
	}

	s.started = true
	s.logger.Info(ctx, "analysis service started",
		logger.String("metric", s.metric),
		logger.Int("samples", s.numSamples),
		logger.Int("workers", s.numWorkers),
		logger.Bool("persistent_cache", s.cachePath != ""),
	)
	return nil
}

// Stop closes the result cache if the service opened it.
func (s *Service) Stop() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return nil
	}
	var err error
	if s.ownsStore {
		err = s.store.Close()
		s.store = nil
	}
	s.started = false
	s.logger.Info(context.Background(), "analysis service stopped")
	return err
}

func (s *Service) cache() (repository.Store, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.started {
		return nil, ErrNotStarted
	}
	return s.store, nil
}

func (s *Service) alignmentOptions() []alignment.Option {
	return []alignment.Option{
		alignment.WithWindow(s.windowBefore, s.windowAfter),
		alignment.WithLatencies(s.sacProbeLatency, s.probeSacLatency),
		alignment.WithCollisionWindow(s.collisionWindow),
		alignment.WithUnmatchedSaccades(s.includeUnmatched),
		alignment.WithStopAtFirstCollision(s.stopAtFirst),
		alignment.WithLogger(s.logger.Named("alignment")),
	}
}

// alignmentKey names a trial group by every setting that shapes it.
func (s *Service) alignmentKey() string {
	return fmt.Sprintf("w%d-%d_l%d-%d_c%g_u%t_f%t",
		s.windowBefore, s.windowAfter, s.sacProbeLatency, s.probeSacLatency,
		s.collisionWindow, s.includeUnmatched, s.stopAtFirst)
}

func (s *Service) baselineOptions() []baseline.Option {
	return []baseline.Option{
		baseline.WithBinWidth(s.binWidthMS),
		baseline.WithLogger(s.logger.Named("rpperi")),
	}
}

func (s *Service) engineOptions() []distribution.Option {
	return []distribution.Option{
		distribution.WithNumSamples(s.numSamples),
		distribution.WithNumWorkers(s.numWorkers),
		distribution.WithSeed(s.seed),
		distribution.WithLogger(s.logger.Named("distribution")),
	}
}

// Stats returns the effective settings for reporting.
func (s *Service) Stats() map[string]any {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return map[string]any{
		"started":        s.started,
		"metric":         s.metric,
		"samples":        s.numSamples,
		"workers":        s.numWorkers,
		"seed":           s.seed,
		"confidence":     s.confidence,
		"histogram_bins": s.histogramBins,
		"alignment":      s.alignmentKey(),
	}
}
