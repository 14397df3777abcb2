// Package tensor holds firing-rate data shaped (units, trials, time bins).
//
// Tensors are never modified by the analysis; every derived tensor is a new
// allocation.
package tensor

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
)

// Tensor is a dense (units, trials, bins) firing-rate array.
type Tensor struct {
	units  int
	trials int
	bins   int
	data   []float64 // index ((u*trials)+tr)*bins + b
}

// New allocates a zeroed tensor.
func New(units, trials, bins int) (*Tensor, error) {
	if units < 0 || trials < 0 || bins < 0 {
		return nil, fmt.Errorf("%w: (%d, %d, %d)", ErrInvalidShape, units, trials, bins)
	}
	return &Tensor{units: units, trials: trials, bins: bins, data: make([]float64, units*trials*bins)}, nil
}

// FromFlat wraps row-major data with the given shape. The shape must have
// exactly three axes.
func FromFlat(shape []int, data []float64) (*Tensor, error) {
	if len(shape) != 3 {
		return nil, fmt.Errorf("%w: got %d axes", ErrNotThreeDimensional, len(shape))
	}
	t, err := New(shape[0], shape[1], shape[2])
	if err != nil {
		return nil, err
	}
	if len(data) != len(t.data) {
		return nil, fmt.Errorf("%w: shape %v needs %d values, got %d", ErrInvalidShape, shape, len(t.data), len(data))
	}
	copy(t.data, data)
	return t, nil
}

// FromNested copies a [unit][trial][bin] array, rejecting ragged input.
func FromNested(v [][][]float64) (*Tensor, error) {
	units := len(v)
	trials, bins := 0, 0
	if units > 0 {
		trials = len(v[0])
		if trials > 0 {
			bins = len(v[0][0])
		}
	}
	t, err := New(units, trials, bins)
	if err != nil {
		return nil, err
	}
	for u := range v {
		if len(v[u]) != trials {
			return nil, fmt.Errorf("%w: unit %d has %d trials, want %d", ErrNotThreeDimensional, u, len(v[u]), trials)
		}
		for tr := range v[u] {
			if len(v[u][tr]) != bins {
				return nil, fmt.Errorf("%w: unit %d trial %d has %d bins, want %d", ErrNotThreeDimensional, u, tr, len(v[u][tr]), bins)
			}
			copy(t.data[t.offset(u, tr, 0):], v[u][tr])
		}
	}
	return t, nil
}

func (t *Tensor) offset(u, tr, b int) int {
	return (u*t.trials+tr)*t.bins + b
}

// Shape returns (units, trials, bins).
func (t *Tensor) Shape() (units, trials, bins int) {
	return t.units, t.trials, t.bins
}

// Dims returns the shape as a slice.
func (t *Tensor) Dims() []int { return []int{t.units, t.trials, t.bins} }

// Units returns the size of the unit axis.
func (t *Tensor) Units() int { return t.units }

// Trials returns the size of the trial axis.
func (t *Tensor) Trials() int { return t.trials }

// Bins returns the size of the time axis.
func (t *Tensor) Bins() int { return t.bins }

// At returns the firing rate of unit u in trial tr at bin b.
func (t *Tensor) At(u, tr, b int) float64 { return t.data[t.offset(u, tr, b)] }

// Set writes one value. Only used while building a new tensor.
func (t *Tensor) Set(u, tr, b int, v float64) { t.data[t.offset(u, tr, b)] = v }

// Waveform returns a copy of the bins of one unit in one trial.
func (t *Tensor) Waveform(u, tr int) []float64 {
	out := make([]float64, t.bins)
	copy(out, t.data[t.offset(u, tr, 0):t.offset(u, tr, 0)+t.bins])
	return out
}

// Flat returns a copy of the row-major backing data.
func (t *Tensor) Flat() []float64 {
	out := make([]float64, len(t.data))
	copy(out, t.data)
	return out
}

// Nested returns a [unit][trial][bin] copy.
func (t *Tensor) Nested() [][][]float64 {
	out := make([][][]float64, t.units)
	for u := range out {
		out[u] = make([][]float64, t.trials)
		for tr := range out[u] {
			out[u][tr] = t.Waveform(u, tr)
		}
	}
	return out
}

// Clone returns an independent copy.
func (t *Tensor) Clone() *Tensor {
	c := &Tensor{units: t.units, trials: t.trials, bins: t.bins, data: make([]float64, len(t.data))}
	copy(c.data, t.data)
	return c
}

// SelectTrials returns a tensor holding the given trials in the given order.
func (t *Tensor) SelectTrials(idxs []int) (*Tensor, error) {
	out := &Tensor{units: t.units, trials: len(idxs), bins: t.bins, data: make([]float64, t.units*len(idxs)*t.bins)}
	for i, tr := range idxs {
		if tr < 0 || tr >= t.trials {
			return nil, fmt.Errorf("%w: trial %d of %d", ErrIndexOutOfRange, tr, t.trials)
		}
		for u := 0; u < t.units; u++ {
			copy(out.data[out.offset(u, i, 0):out.offset(u, i, 0)+t.bins], t.data[t.offset(u, tr, 0):t.offset(u, tr, 0)+t.bins])
		}
	}
	return out, nil
}

// SliceBins returns bins [from, to) of every unit and trial.
func (t *Tensor) SliceBins(from, to int) (*Tensor, error) {
	if from < 0 || to > t.bins || from > to {
		return nil, fmt.Errorf("%w: bins [%d, %d) of %d", ErrIndexOutOfRange, from, to, t.bins)
	}
	width := to - from
	out := &Tensor{units: t.units, trials: t.trials, bins: width, data: make([]float64, t.units*t.trials*width)}
	for u := 0; u < t.units; u++ {
		for tr := 0; tr < t.trials; tr++ {
			copy(out.data[out.offset(u, tr, 0):out.offset(u, tr, 0)+width], t.data[t.offset(u, tr, from):t.offset(u, tr, to)])
		}
	}
	return out, nil
}

// ConcatTrials pools a and b along the trial axis.
func ConcatTrials(a, b *Tensor) (*Tensor, error) {
	if a.units != b.units || a.bins != b.bins {
		return nil, fmt.Errorf("%w: (%d, _, %d) vs (%d, _, %d)", ErrShapeMismatch, a.units, a.bins, b.units, b.bins)
	}
	trials := a.trials + b.trials
	out := &Tensor{units: a.units, trials: trials, bins: a.bins, data: make([]float64, a.units*trials*a.bins)}
	for u := 0; u < a.units; u++ {
		// A unit's trials are contiguous, so each source unit block copies in one go.
		na := a.trials * a.bins
		nb := b.trials * b.bins
		copy(out.data[out.offset(u, 0, 0):], a.data[a.offset(u, 0, 0):a.offset(u, 0, 0)+na])
		copy(out.data[out.offset(u, a.trials, 0):], b.data[b.offset(u, 0, 0):b.offset(u, 0, 0)+nb])
	}
	return out, nil
}

// FillBlock writes bin b of the trials listed in order into dst, a
// (units, len(order)) matrix. dst is reused across calls by the resampler.
func (t *Tensor) FillBlock(dst *mat.Dense, b int, order []int) {
	for u := 0; u < t.units; u++ {
		for j, tr := range order {
			dst.Set(u, j, t.data[t.offset(u, tr, b)])
		}
	}
}

// Block returns the (units, trials) matrix at bin b.
func (t *Tensor) Block(b int) *mat.Dense {
	if t.units == 0 || t.trials == 0 {
		return &mat.Dense{}
	}
	order := make([]int, t.trials)
	for i := range order {
		order[i] = i
	}
	dst := mat.NewDense(t.units, t.trials, nil)
	t.FillBlock(dst, b, order)
	return dst
}

// MeanOverTrials averages every unit's waveform across trials, returning a
// (units, bins) matrix.
func (t *Tensor) MeanOverTrials() (*mat.Dense, error) {
	if t.trials == 0 {
		return nil, fmt.Errorf("%w: no trials to average", ErrInvalidShape)
	}
	if t.units == 0 || t.bins == 0 {
		return nil, fmt.Errorf("%w: (%d, %d, %d) has nothing to average", ErrInvalidShape, t.units, t.trials, t.bins)
	}
	out := mat.NewDense(t.units, t.bins, nil)
	col := make([]float64, t.trials)
	for u := 0; u < t.units; u++ {
		for b := 0; b < t.bins; b++ {
			for tr := 0; tr < t.trials; tr++ {
				col[tr] = t.data[t.offset(u, tr, b)]
			}
			out.Set(u, b, stat.Mean(col, nil))
		}
	}
	return out, nil
}
