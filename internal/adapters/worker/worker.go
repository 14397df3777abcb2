package worker

import (
	"context"
	"fmt"
	"runtime"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/spencer-hanson/SaccadePopulationAnalysis/pkg/logger"
	"github.com/spencer-hanson/SaccadePopulationAnalysis/pkg/metrics"
)

// Job is one independent unit of work. It should return promptly once ctx is
// canceled.
type Job func(ctx context.Context) error

// Pool runs jobs with at most size of them in flight.
//
// Run is fail-fast: the first job error cancels the context handed to the
// other jobs and is the error Run returns.
type Pool struct {
	size   int
	name   string
	logger logger.Logger
}

// NewPool creates a pool. A size below 1 uses runtime.NumCPU().
func NewPool(size int, opts ...Option) *Pool {
	if size < 1 {
		size = runtime.NumCPU()
	}
	p := &Pool{
		size:   size,
		name:   "worker",
		logger: logger.Get().Named("worker"),
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.name != "worker" {
		p.logger = p.logger.Named(p.name)
	}
	return p
}

// Size returns the maximum number of concurrent jobs.
func (p *Pool) Size() int { return p.size }

// Run executes every job and waits for all of them.
func (p *Pool) Run(ctx context.Context, jobs ...Job) error {
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(p.size)

	p.logger.Debug(ctx, "pool started", logger.Int("jobs", len(jobs)), logger.Int("size", p.size))
	for i, job := range jobs {
		g.Go(func() error {
			metrics.AddWorkerActive(1)
			defer metrics.AddWorkerActive(-1)

			start := time.Now()
			err := job(gctx)
			metrics.RecordWorkerProcessingLatency(float64(time.Since(start).Milliseconds()))
			if err != nil {
				metrics.RecordWorkerError()
				p.logger.Error(gctx, "job failed", logger.Int("job", i), logger.Error(err))
				return fmt.Errorf("job %d: %w", i, err)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}
	p.logger.Debug(ctx, "pool finished", logger.Int("jobs", len(jobs)))
	return nil
}
