// Package distribution estimates the null distribution of a quantification
// metric between two trial populations by permuting trial labels.
package distribution

import (
	"context"
	"fmt"
	"math/rand/v2"
	"time"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"

	"github.com/spencer-hanson/SaccadePopulationAnalysis/internal/adapters/worker"
	"github.com/spencer-hanson/SaccadePopulationAnalysis/internal/domain/quantification"
	"github.com/spencer-hanson/SaccadePopulationAnalysis/internal/domain/tensor"
	"github.com/spencer-hanson/SaccadePopulationAnalysis/pkg/logger"
	"github.com/spencer-hanson/SaccadePopulationAnalysis/pkg/metrics"
)

// NullDistribution holds one row of per-timepoint metric values per sample.
type NullDistribution struct {
	Metric  string      `json:"metric"`
	Samples [][]float64 `json:"samples"`
}

// Shape returns (samples, timepoints).
func (d *NullDistribution) Shape() (int, int) {
	if len(d.Samples) == 0 {
		return 0, 0
	}
	return len(d.Samples), len(d.Samples[0])
}

// Column returns every sample's value at timepoint t.
func (d *NullDistribution) Column(t int) []float64 {
	col := make([]float64, len(d.Samples))
	for i, s := range d.Samples {
		col[i] = s[t]
	}
	return col
}

// Mean returns the per-timepoint mean across samples.
func (d *NullDistribution) Mean() []float64 {
	_, n := d.Shape()
	out := make([]float64, n)
	for t := range out {
		out[t] = stat.Mean(d.Column(t), nil)
	}
	return out
}

// Engine computes null distributions for one pair of populations.
type Engine struct {
	a      *tensor.Tensor
	b      *tensor.Tensor
	metric quantification.Metric

	numSamples int
	numWorkers int
	seed       uint64
	logger     logger.Logger
}

// NewEngine validates two (units, trials, bins) populations. Trial counts may
// differ; units and bins must match.
func NewEngine(a, b *tensor.Tensor, metric quantification.Metric, opts ...Option) (*Engine, error) {
	e := &Engine{
		a:          a,
		b:          b,
		metric:     metric,
		numSamples: DefaultNumSamples,
		numWorkers: DefaultNumWorkers,
		logger:     logger.Get().Named("distribution"),
	}
	for _, opt := range opts {
		opt(e)
	}

	if a == nil || b == nil {
		return nil, fmt.Errorf("%w: population missing", tensor.ErrNotThreeDimensional)
	}
	if metric == nil {
		return nil, ErrNilMetric
	}
	if a.Units() != b.Units() || a.Bins() != b.Bins() {
		return nil, fmt.Errorf("%w: %v vs %v", ErrShapeMismatch, a.Dims(), b.Dims())
	}
	if a.Units() == 0 || a.Trials() == 0 || b.Trials() == 0 {
		return nil, fmt.Errorf("%w: %v and %v", ErrEmptyPopulation, a.Dims(), b.Dims())
	}
	if e.numSamples < 1 || e.numWorkers < 1 {
		return nil, fmt.Errorf("%w: samples=%d workers=%d", ErrInvalidSampleCount, e.numSamples, e.numWorkers)
	}
	return e, nil
}

// Calculate draws every sample and returns the (samples, bins) distribution.
// Any metric failure fails the whole computation.
func (e *Engine) Calculate(ctx context.Context) (*NullDistribution, error) {
	start := time.Now()
	name := e.metric.Name()

	pooled, err := tensor.ConcatTrials(e.a, e.b)
	if err != nil {
		return nil, err
	}
	parts, err := Partitions(e.numSamples, e.numWorkers)
	if err != nil {
		return nil, err
	}
	seed := e.seed
	if seed == 0 {
		seed = rand.Uint64()
	}

	results := make([][][]float64, len(parts))
	jobs := make([]worker.Job, len(parts))
	for i, part := range parts {
		jobs[i] = func(ctx context.Context) error {
			rng := rand.New(rand.NewPCG(seed, uint64(part.Index)))
			samples, err := e.sample(ctx, pooled.Clone(), part, rng)
			if err != nil {
				return err
			}
			results[i] = samples
			return nil
		}
	}

	e.logger.Info(ctx, "computing null distribution",
		logger.String("metric", name),
		logger.Int("samples", e.numSamples),
		logger.Int("workers", len(parts)),
		logger.Any("a", e.a.Dims()),
		logger.Any("b", e.b.Dims()),
	)
	pool := worker.NewPool(len(parts), worker.WithName("distribution"), worker.WithLogger(e.logger))
	if err := pool.Run(ctx, jobs...); err != nil {
		return nil, fmt.Errorf("null distribution %s: %w", name, err)
	}

	dist := &NullDistribution{Metric: name, Samples: make([][]float64, 0, e.numSamples)}
	for _, r := range results {
		dist.Samples = append(dist.Samples, r...)
	}

	elapsed := time.Since(start)
	metrics.RecordDistributionSamples(name, len(dist.Samples))
	metrics.RecordDistributionLatency(name, float64(elapsed.Milliseconds()))
	e.logger.Info(ctx, "null distribution done", logger.String("metric", name), logger.Duration("elapsed", elapsed))
	return dist, nil
}

// sample runs one partition on its own copy of the pooled trials.
func (e *Engine) sample(ctx context.Context, pooled *tensor.Tensor, part Partition, rng *rand.Rand) ([][]float64, error) {
	units, total, bins := pooled.Shape()
	split := e.a.Trials()
	blockA := mat.NewDense(units, split, nil)
	blockB := mat.NewDense(units, total-split, nil)

	order := make([]int, total)
	for i := range order {
		order[i] = i
	}
	tenth := max(part.Count/10, 1)

	out := make([][]float64, part.Count)
	for s := range out {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if part.Display && s%tenth == 0 {
			e.logger.Info(ctx, "resampling progress", logger.Int("done", s), logger.Int("of", part.Count))
		}

		rng.Shuffle(total, func(i, j int) { order[i], order[j] = order[j], order[i] })
		row := make([]float64, bins)
		for t := 0; t < bins; t++ {
			pooled.FillBlock(blockA, t, order[:split])
			pooled.FillBlock(blockB, t, order[split:])
			v, err := e.metric.Calculate(blockA, blockB)
			if err != nil {
				metrics.RecordMetricError(e.metric.Name())
				return nil, fmt.Errorf("sample %d timepoint %d: %w", s, t, err)
			}
			row[t] = v
		}
		out[s] = row
	}
	return out, nil
}

// Evaluate computes the metric between a and b at every timepoint without
// resampling.
func Evaluate(a, b *tensor.Tensor, metric quantification.Metric) ([]float64, error) {
	if a == nil || b == nil {
		return nil, fmt.Errorf("%w: population missing", tensor.ErrNotThreeDimensional)
	}
	if metric == nil {
		return nil, ErrNilMetric
	}
	if a.Units() != b.Units() || a.Bins() != b.Bins() {
		return nil, fmt.Errorf("%w: %v vs %v", ErrShapeMismatch, a.Dims(), b.Dims())
	}
	out := make([]float64, a.Bins())
	for t := range out {
		v, err := metric.Calculate(a.Block(t), b.Block(t))
		if err != nil {
			return nil, fmt.Errorf("timepoint %d: %w", t, err)
		}
		out[t] = v
	}
	return out, nil
}
