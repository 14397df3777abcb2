// Package baseline computes Rp-peri waveforms: mixed-trial responses with the
// saccade-only average subtracted.
//
// Firing rates cover three equal windows (pre, center, post) of w bins each;
// results are reported for the center window only, shaped
// (units, mixed trials, w).
package baseline

import (
	"context"
	"fmt"
	"math"

	"github.com/spencer-hanson/SaccadePopulationAnalysis/internal/domain/model"
	"github.com/spencer-hanson/SaccadePopulationAnalysis/internal/domain/tensor"
	"github.com/spencer-hanson/SaccadePopulationAnalysis/pkg/logger"
	"github.com/spencer-hanson/SaccadePopulationAnalysis/pkg/metrics"
)

// Calculator subtracts the saccade baseline from mixed trials.
type Calculator struct {
	fr         *tensor.Tensor
	sacIdxs    []int
	mixIdxs    []int
	mixed      []model.Trial
	window     int
	binWidthMs float64
	logger     logger.Logger
}

// NewRpPeriCalculator validates its inputs. saccadeIdxs and mixedIdxs index
// the trial axis of fr; mixedIdxs[i] holds the firing rates of the i-th mixed
// trial of group.
func NewRpPeriCalculator(fr *tensor.Tensor, saccadeIdxs, mixedIdxs []int, group *model.TrialGroup, opts ...Option) (*Calculator, error) {
	c := &Calculator{
		fr:         fr,
		sacIdxs:    append([]int(nil), saccadeIdxs...),
		mixIdxs:    append([]int(nil), mixedIdxs...),
		binWidthMs: DefaultBinWidthMs,
		logger:     logger.Get().Named("rpperi"),
	}
	for _, opt := range opts {
		opt(c)
	}

	if fr == nil || group == nil {
		return nil, ErrNilInput
	}
	if fr.Units() == 0 {
		return nil, fmt.Errorf("%w: no units in %v", tensor.ErrInvalidShape, fr.Dims())
	}
	if c.binWidthMs <= 0 {
		return nil, fmt.Errorf("%w: %g", ErrInvalidBinWidth, c.binWidthMs)
	}
	bins := fr.Bins()
	if bins == 0 || bins%3 != 0 {
		return nil, fmt.Errorf("%w: %d bins", ErrWindowNotDivisible, bins)
	}
	c.window = bins / 3
	if len(c.sacIdxs) == 0 {
		return nil, ErrNoSaccadeTrials
	}
	c.mixed = group.ByLabel(model.LabelMixed)
	if len(c.mixed) != len(c.mixIdxs) {
		return nil, fmt.Errorf("%w: %d indices for %d mixed trials", ErrInconsistentGroup, len(c.mixIdxs), len(c.mixed))
	}
	for _, idxs := range [][]int{c.sacIdxs, c.mixIdxs} {
		for _, i := range idxs {
			if i < 0 || i >= fr.Trials() {
				return nil, fmt.Errorf("%w: trial %d of %d", tensor.ErrIndexOutOfRange, i, fr.Trials())
			}
		}
	}
	return c, nil
}

// Window returns the width in bins of each of the three windows.
func (c *Calculator) Window() int { return c.window }

// BinOffset converts a saccade-minus-probe offset in seconds into the shift
// applied to the saccade average: rounded to whole ms, then to the nearest
// bin (ties to even), clipped to ±window and negated.
func BinOffset(offsetSec, binWidthMs float64, window int) int {
	ms := math.Round(offsetSec * 1000)
	bins := int(math.RoundToEven(ms / binWidthMs))
	bins = min(max(bins, -window), window)
	return -bins
}

// Calculate returns the time-shifted Rp-peri waveforms. For each mixed trial
// the saccade average is sliced at [w+shift, 2w+shift) so that it lines up
// with the saccade's position relative to the probe.
func (c *Calculator) Calculate(ctx context.Context) (*tensor.Tensor, error) {
	sac, err := c.fr.SelectTrials(c.sacIdxs)
	if err != nil {
		return nil, err
	}
	avg, err := sac.MeanOverTrials()
	if err != nil {
		return nil, err
	}

	w := c.window
	out, err := tensor.New(c.fr.Units(), len(c.mixed), w)
	if err != nil {
		return nil, err
	}
	for i, tr := range c.mixed {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		offset, err := tr.SaccadeOffset()
		if err != nil {
			return nil, fmt.Errorf("%w: mixed trial %d: %w", ErrInconsistentGroup, i, err)
		}
		shift := BinOffset(offset, c.binWidthMs, w)
		for u := 0; u < c.fr.Units(); u++ {
			for b := 0; b < w; b++ {
				out.Set(u, i, b, c.fr.At(u, c.mixIdxs[i], w+b)-avg.At(u, w+shift+b))
			}
		}
	}

	metrics.UpdateRpPeriTrials(len(c.mixed))
	c.logger.Info(ctx, "rp-peri computed",
		logger.Int("units", c.fr.Units()),
		logger.Int("mixed_trials", len(c.mixed)),
		logger.Int("saccade_trials", len(c.sacIdxs)),
		logger.Int("window", w),
	)
	return out, nil
}

// CalculateStatic subtracts the center window of the saccade average from
// each mixed trial without any time shift.
func (c *Calculator) CalculateStatic(ctx context.Context) (*tensor.Tensor, error) {
	w := c.window
	sac, err := c.fr.SelectTrials(c.sacIdxs)
	if err != nil {
		return nil, err
	}
	sac, err = sac.SliceBins(w, 2*w)
	if err != nil {
		return nil, err
	}
	avg, err := sac.MeanOverTrials()
	if err != nil {
		return nil, err
	}
	mixed, err := c.fr.SelectTrials(c.mixIdxs)
	if err != nil {
		return nil, err
	}
	out, err := mixed.SliceBins(w, 2*w)
	if err != nil {
		return nil, err
	}
	for u := 0; u < out.Units(); u++ {
		for i := 0; i < out.Trials(); i++ {
			for b := 0; b < w; b++ {
				out.Set(u, i, b, out.At(u, i, b)-avg.At(u, b))
			}
		}
	}
	c.logger.Debug(ctx, "static rp-peri computed", logger.Int("mixed_trials", out.Trials()))
	return out, nil
}
