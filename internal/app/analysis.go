package service

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/spencer-hanson/SaccadePopulationAnalysis/internal/adapters/repository"
	"github.com/spencer-hanson/SaccadePopulationAnalysis/internal/adapters/session"
	"github.com/spencer-hanson/SaccadePopulationAnalysis/internal/domain/alignment"
	"github.com/spencer-hanson/SaccadePopulationAnalysis/internal/domain/baseline"
	"github.com/spencer-hanson/SaccadePopulationAnalysis/internal/domain/distribution"
	"github.com/spencer-hanson/SaccadePopulationAnalysis/internal/domain/model"
	"github.com/spencer-hanson/SaccadePopulationAnalysis/internal/domain/quantification"
	"github.com/spencer-hanson/SaccadePopulationAnalysis/internal/domain/significance"
	"github.com/spencer-hanson/SaccadePopulationAnalysis/internal/domain/tensor"
	"github.com/spencer-hanson/SaccadePopulationAnalysis/pkg/logger"
	"github.com/spencer-hanson/SaccadePopulationAnalysis/pkg/metrics"
)

// Report is the outcome of one analysis run.
type Report struct {
	RunID       string                `json:"run_id"`
	SessionID   string                `json:"session_id"`
	Metric      string                `json:"metric"`
	Confidence  float64               `json:"confidence"`
	Diagnostics alignment.Diagnostics `json:"diagnostics"`
	Motions     []MotionReport        `json:"motions"`
}

// MotionReport compares Rp-peri against RpExtra for one motion direction.
type MotionReport struct {
	Motion        int                      `json:"motion"`
	RpPeriTrials  int                      `json:"rpperi_trials"`
	RpExtraTrials int                      `json:"rpextra_trials"`
	Proportion    float64                  `json:"proportion"`
	Cached        bool                     `json:"cached"`
	Timepoints    []significance.Timepoint `json:"timepoints"`
}

// Significant returns how many timepoints fall outside the null interval.
func (m MotionReport) Significant() int {
	return significance.CountSignificant(m.Timepoints)
}

type cachedGroup struct {
	Group       *model.TrialGroup     `json:"group"`
	Diagnostics alignment.Diagnostics `json:"diagnostics"`
}

// TrialGroup aligns the session's events into labeled trials. Results are
// cached per session and alignment settings.
func (s *Service) TrialGroup(ctx context.Context, sess *session.Session) (*model.TrialGroup, alignment.Diagnostics, error) {
	store, err := s.cache()
	if err != nil {
		return nil, alignment.Diagnostics{}, err
	}
	key := repository.Key{Session: sess.ID, Kind: repository.KindTrialGroup, Name: s.alignmentKey()}
	v, hit, err := repository.GetOrCompute(ctx, store, key, func(ctx context.Context) (cachedGroup, error) {
		p, err := alignment.NewProcessor(sess.BinEdges, sess.Probes, sess.Saccades, s.alignmentOptions()...)
		if err != nil {
			return cachedGroup{}, err
		}
		group, diag, err := p.Process(ctx)
		if err != nil {
			return cachedGroup{}, err
		}
		return cachedGroup{Group: group, Diagnostics: diag}, nil
	})
	if err != nil {
		return nil, alignment.Diagnostics{}, fmt.Errorf("trial group %s: %w", sess.ID, err)
	}
	if v.Group == nil {
		v.Group = model.NewTrialGroup(nil)
	}
	if hit {
		s.logger.Debug(ctx, "trial group loaded from cache", logger.String("session", sess.ID))
	}
	return v.Group, v.Diagnostics, nil
}

// RpPeri baseline-corrects the session's mixed trials against its saccade
// trials. The trial axis of the session's firing rates follows group order.
func (s *Service) RpPeri(ctx context.Context, sess *session.Session, group *model.TrialGroup) (*tensor.Tensor, error) {
	if sess.FiringRates.Trials() != group.Len() {
		return nil, fmt.Errorf("%w: %d firing-rate trials, %d in group", ErrTrialCountMismatch, sess.FiringRates.Trials(), group.Len())
	}
	calc, err := baseline.NewRpPeriCalculator(
		sess.FiringRates,
		group.Indices(model.LabelSaccade),
		group.Indices(model.LabelMixed),
		group,
		s.baselineOptions()...,
	)
	if err != nil {
		return nil, err
	}
	return calc.Calculate(ctx)
}

// NullDistribution resamples the pooled trials of a and b, reusing a cached
// distribution stored under name when one exists.
func (s *Service) NullDistribution(ctx context.Context, sessionID, name string, a, b *tensor.Tensor) (*distribution.NullDistribution, bool, error) {
	store, err := s.cache()
	if err != nil {
		return nil, false, err
	}
	metric, err := quantification.ByName(s.metric)
	if err != nil {
		return nil, false, err
	}
	key := repository.Key{Session: sessionID, Kind: repository.KindNullDist, Name: name}
	return s.nullDistribution(ctx, store, key, metric, a, b)
}

func (s *Service) nullDistribution(ctx context.Context, store repository.Store, key repository.Key, metric quantification.Metric, a, b *tensor.Tensor) (*distribution.NullDistribution, bool, error) {
	dist, hit, err := repository.GetOrCompute(ctx, store, key, func(ctx context.Context) (*distribution.NullDistribution, error) {
		engine, err := distribution.NewEngine(a, b, metric, s.engineOptions()...)
		if err != nil {
			return nil, err
		}
		return engine.Calculate(ctx)
	})
	if err != nil {
		return nil, false, err
	}
	if dist == nil {
		return nil, false, fmt.Errorf("null distribution %s: %w", key, distribution.ErrEmptyPopulation)
	}
	return dist, hit, nil
}

// Analyze runs the whole pipeline for one session: alignment, Rp-peri
// baseline correction, and a per-motion comparison of Rp-peri against the
// probe-only RpExtra population.
func (s *Service) Analyze(ctx context.Context, sess *session.Session) (*Report, error) {
	store, err := s.cache()
	if err != nil {
		return nil, err
	}
	metric, err := quantification.ByName(s.metric)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	runID := uuid.NewString()

	group, diag, err := s.TrialGroup(ctx, sess)
	if err != nil {
		return nil, err
	}
	rpperi, err := s.RpPeri(ctx, sess, group)
	if err != nil {
		return nil, fmt.Errorf("rp-peri %s: %w", sess.ID, err)
	}
	w := rpperi.Bins()
	rpextraAll, err := sess.FiringRates.SliceBins(w, 2*w)
	if err != nil {
		return nil, err
	}

	mixed := group.ByLabel(model.LabelMixed)
	probeIdxs := group.Indices(model.LabelProbe)

	report := &Report{
		RunID:       runID,
		SessionID:   sess.ID,
		Metric:      metric.Name(),
		Confidence:  s.confidence,
		Diagnostics: diag,
	}

	for _, motion := range motionDirections(mixed) {
		var periIdxs, extraIdxs []int
		for i, tr := range mixed {
			if tr.MotionDirection == motion {
				periIdxs = append(periIdxs, i)
			}
		}
		for _, idx := range probeIdxs {
			if group.At(idx).MotionDirection == motion {
				extraIdxs = append(extraIdxs, idx)
			}
		}

		mr, err := s.analyzeMotion(ctx, store, metric, sess.ID, motion, rpperi, rpextraAll, periIdxs, extraIdxs)
		if err != nil {
			return nil, fmt.Errorf("motion %d: %w", motion, err)
		}
		metrics.UpdateSignificantTimepoints(metric.Name(), motion, mr.Significant())
		s.logger.Info(ctx, "motion direction analyzed",
			logger.String("run_id", runID),
			logger.Int("motion", motion),
			logger.Int("rpperi_trials", mr.RpPeriTrials),
			logger.Int("rpextra_trials", mr.RpExtraTrials),
			logger.Float64("proportion", mr.Proportion),
			logger.Bool("cached", mr.Cached),
			logger.Int("significant", mr.Significant()),
		)
		report.Motions = append(report.Motions, mr)
	}

	s.logger.Info(ctx, "analysis complete",
		logger.String("run_id", runID),
		logger.String("session", sess.ID),
		logger.String("metric", report.Metric),
		logger.Int("motions", len(report.Motions)),
		logger.Duration("elapsed", time.Since(start)),
	)
	return report, nil
}

func (s *Service) analyzeMotion(
	ctx context.Context,
	store repository.Store,
	metric quantification.Metric,
	sessionID string,
	motion int,
	rpperi, rpextraAll *tensor.Tensor,
	periIdxs, extraIdxs []int,
) (MotionReport, error) {
	mr := MotionReport{Motion: motion, RpPeriTrials: len(periIdxs), RpExtraTrials: len(extraIdxs)}
	if len(extraIdxs) == 0 {
		return mr, fmt.Errorf("%w: no probe trials", distribution.ErrEmptyPopulation)
	}

	peri, err := rpperi.SelectTrials(periIdxs)
	if err != nil {
		return mr, err
	}
	extra, err := rpextraAll.SelectTrials(extraIdxs)
	if err != nil {
		return mr, err
	}

	mr.Proportion = float64(len(periIdxs)) / float64(len(extraIdxs))
	if mr.Proportion > 1 {
		mr.Proportion = 1
	}
	nullA, nullB, err := distribution.SplitByProportion(extra, mr.Proportion, s.minSplitTrials)
	if err != nil {
		return mr, err
	}

	key := repository.Key{
		Session: sessionID,
		Kind:    repository.KindNullDist,
		Name: fmt.Sprintf("%s_m%d_n%d_w%d_s%d_%s",
			metric.Name(), motion, s.numSamples, s.numWorkers, s.seed, s.alignmentKey()),
	}
	dist, hit, err := s.nullDistribution(ctx, store, key, metric, nullA, nullB)
	if err != nil {
		return mr, err
	}
	mr.Cached = hit

	observed, err := distribution.Evaluate(peri, extra, metric)
	if err != nil {
		return mr, err
	}
	mr.Timepoints, err = significance.Summarize(dist, observed, s.confidence, s.histogramBins)
	if err != nil {
		return mr, err
	}
	return mr, nil
}

// motionDirections lists the distinct motion directions of trs, sorted.
func motionDirections(trs []model.Trial) []int {
	seen := make(map[int]struct{})
	for _, tr := range trs {
		seen[tr.MotionDirection] = struct{}{}
	}
	out := make([]int, 0, len(seen))
	for m := range seen {
		out = append(out, m)
	}
	sort.Ints(out)
	return out
}
