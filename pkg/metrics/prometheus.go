// Package metrics provides Prometheus diagnostics for the saccadic modulation analysis.
package metrics

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Manager owns every diagnostic collector of the analysis.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	registry         prometheus.Registerer

	// Alignment diagnostics
	trialsMapped      *prometheus.CounterVec
	demixOutcomes     *prometheus.CounterVec
	saccadesFiltered  *prometheus.CounterVec
	trialGroupSize    *prometheus.GaugeVec
	rpPeriTrials      prometheus.Gauge
	alignmentFailures *prometheus.CounterVec

	// Resampling
	distributionSamples *prometheus.CounterVec
	distributionLatency *prometheus.HistogramVec
	metricErrors        *prometheus.CounterVec
	significantPoints   *prometheus.GaugeVec

	// Worker pool
	workerActiveCount       prometheus.Gauge
	workerProcessingLatency prometheus.Histogram
	workerErrors            prometheus.Counter

	// Cache
	cacheLookups *prometheus.CounterVec
	cacheErrors  *prometheus.CounterVec
}

var globalManager *Manager //nolint:gochecknoglobals // singleton metrics manager

// Custom registry so exported files only carry analysis metrics.
var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // metrics registry

func init() { //nolint:gochecknoinits // global metrics setup
	globalManager = NewManager(WithPrometheusRegistry(customRegistry))
}

// NewManager creates a new metrics manager.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "saccmod",
		subsystem:        "analysis",
		histogramBuckets: []float64{1, 5, 10, 50, 100, 500, 1000, 5000, 10000, 60000},
		registry:         prometheus.DefaultRegisterer,
	}

	for _, opt := range opts {
		opt(m)
	}

	m.initializeMetrics()
	return m
}

func (m *Manager) initializeMetrics() { //nolint:funlen // one place for all collectors
	auto := promauto.With(m.registry)

	m.trialsMapped = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "trials_mapped_total",
		Help:      "Raw events mapped onto firing-rate bins, by label",
	}, []string{"label"})

	m.demixOutcomes = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "demix_outcomes_total",
		Help:      "Probe demixing outcomes (probe, mixed, duplicate, saccade)",
	}, []string{"outcome"})

	m.saccadesFiltered = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "saccades_latency_filter_total",
		Help:      "Saccades kept or rejected by the probe latency filter",
	}, []string{"result"})

	m.trialGroupSize = auto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "trial_group_trials",
		Help:      "Trials in the most recent trial group, by label",
	}, []string{"label"})

	m.rpPeriTrials = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "rp_peri_trials",
		Help:      "Mixed trials in the most recent Rp-peri computation",
	})

	m.alignmentFailures = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "alignment_failures_total",
		Help:      "Fatal alignment failures by reason",
	}, []string{"reason"})

	m.distributionSamples = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "distribution_samples_total",
		Help:      "Resampling draws completed, by metric",
	}, []string{"metric"})

	m.distributionLatency = auto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "distribution_duration_milliseconds",
		Help:      "Wall time of a full null distribution computation",
		Buckets:   m.histogramBuckets,
	}, []string{"metric"})

	m.metricErrors = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "metric_errors_total",
		Help:      "Quantification metric evaluation failures, by metric",
	}, []string{"metric"})

	m.significantPoints = auto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "significant_timepoints",
		Help:      "Timepoints whose observed statistic falls outside the null interval",
	}, []string{"metric", "motion"})

	m.workerActiveCount = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "worker_active_count",
		Help:      "Partition workers currently running",
	})

	m.workerProcessingLatency = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "worker_processing_latency_milliseconds",
		Help:      "Time spent by one worker on its partition",
		Buckets:   m.histogramBuckets,
	})

	m.workerErrors = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "worker_errors_total",
		Help:      "Partitions that failed",
	})

	m.cacheLookups = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "cache_lookups_total",
		Help:      "Result cache lookups by kind and result (hit, miss)",
	}, []string{"kind", "result"})

	m.cacheErrors = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "cache_errors_total",
		Help:      "Result cache failures by operation",
	}, []string{"op"})
}

// Alignment functions.

// RecordTrialsMapped adds n mapped trials for label.
func RecordTrialsMapped(label string, n int) {
	globalManager.trialsMapped.WithLabelValues(label).Add(float64(n))
}

// RecordDemixOutcome adds n demixing outcomes of the given kind.
func RecordDemixOutcome(outcome string, n int) {
	globalManager.demixOutcomes.WithLabelValues(outcome).Add(float64(n))
}

// RecordSaccadesFiltered records how many saccades the latency filter kept and rejected.
func RecordSaccadesFiltered(kept, rejected int) {
	globalManager.saccadesFiltered.WithLabelValues("kept").Add(float64(kept))
	globalManager.saccadesFiltered.WithLabelValues("rejected").Add(float64(rejected))
}

// UpdateTrialGroupSize sets the trial count of label in the latest group.
func UpdateTrialGroupSize(label string, n int) {
	globalManager.trialGroupSize.WithLabelValues(label).Set(float64(n))
}

// UpdateRpPeriTrials sets the number of mixed trials corrected by the baseline calculator.
func UpdateRpPeriTrials(n int) {
	globalManager.rpPeriTrials.Set(float64(n))
}

// RecordAlignmentFailure increments the alignment failure counter.
func RecordAlignmentFailure(reason string) {
	globalManager.alignmentFailures.WithLabelValues(reason).Inc()
}

// Resampling functions.

// RecordDistributionSamples adds n completed draws for metric.
func RecordDistributionSamples(metric string, n int) {
	globalManager.distributionSamples.WithLabelValues(metric).Add(float64(n))
}

// RecordDistributionLatency records the duration of a full computation.
func RecordDistributionLatency(metric string, latencyMs float64) {
	globalManager.distributionLatency.WithLabelValues(metric).Observe(latencyMs)
}

// RecordMetricError increments the metric failure counter.
func RecordMetricError(metric string) {
	globalManager.metricErrors.WithLabelValues(metric).Inc()
}

// UpdateSignificantTimepoints sets the significant timepoint count for a metric and motion direction.
func UpdateSignificantTimepoints(metric string, motion int, n int) {
	globalManager.significantPoints.WithLabelValues(metric, fmt.Sprintf("%d", motion)).Set(float64(n))
}

// Worker functions.

// AddWorkerActive adjusts the running worker gauge by delta.
func AddWorkerActive(delta int) {
	globalManager.workerActiveCount.Add(float64(delta))
}

// RecordWorkerProcessingLatency records worker processing latency.
func RecordWorkerProcessingLatency(latencyMs float64) {
	globalManager.workerProcessingLatency.Observe(latencyMs)
}

// RecordWorkerError increments the worker error counter.
func RecordWorkerError() {
	globalManager.workerErrors.Inc()
}

// Cache functions.

// RecordCacheHit increments the hit counter for kind.
func RecordCacheHit(kind string) {
	globalManager.cacheLookups.WithLabelValues(kind, "hit").Inc()
}

// RecordCacheMiss increments the miss counter for kind.
func RecordCacheMiss(kind string) {
	globalManager.cacheLookups.WithLabelValues(kind, "miss").Inc()
}

// RecordCacheError increments the cache error counter for op.
func RecordCacheError(op string) {
	globalManager.cacheErrors.WithLabelValues(op).Inc()
}

// GetRegistry returns the custom Prometheus registry used by our metrics.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}

// WriteTextfile writes the current metrics in the text exposition format,
// for node_exporter's textfile collector after a batch run.
func WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, customRegistry); err != nil {
		return fmt.Errorf("%w: %w", ErrExportFailed, err)
	}
	return nil
}
