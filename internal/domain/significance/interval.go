// Package significance compares observed metric values against a null
// distribution.
package significance

import (
	"fmt"
	"math"
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/spencer-hanson/SaccadePopulationAnalysis/internal/domain/distribution"
)

// DefaultHistogramBins is the resolution of the empirical CDF.
const DefaultHistogramBins = 200

// ConfidenceInterval reads the bounds off a histogram CDF of data. Bins span
// [min, max] evenly with the last bin closed; lower is the right edge of the
// first bin whose CDF exceeds 1-confidence and upper the right edge of the
// first bin whose CDF exceeds confidence.
func ConfidenceInterval(data []float64, confidence float64, bins int) (lower, upper float64, err error) {
	if len(data) == 0 {
		return 0, 0, ErrEmptySample
	}
	if !(confidence > 0 && confidence < 1) {
		return 0, 0, fmt.Errorf("%w: %g", ErrInvalidConfidence, confidence)
	}
	if bins < 1 {
		return 0, 0, fmt.Errorf("%w: %d", ErrInvalidBins, bins)
	}

	sorted := make([]float64, len(data))
	copy(sorted, data)
	for _, v := range sorted {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return 0, 0, fmt.Errorf("%w: %g", ErrInvalidSample, v)
		}
	}
	sort.Float64s(sorted)

	lo, hi := sorted[0], sorted[len(sorted)-1]
	if lo == hi {
		lo, hi = lo-0.5, hi+0.5
	}
	edges := floats.Span(make([]float64, bins+1), lo, hi)
	dividers := make([]float64, len(edges))
	copy(dividers, edges)
	dividers[bins] = math.Nextafter(hi, math.Inf(1))

	counts := stat.Histogram(nil, dividers, sorted, nil)
	lower, upper = edges[bins], edges[bins]
	foundLower, foundUpper := false, false
	cdf := 0.0
	for i, c := range counts {
		cdf += c / float64(len(sorted))
		if !foundLower && cdf > 1-confidence {
			lower, foundLower = edges[i+1], true
		}
		if !foundUpper && cdf > confidence {
			upper, foundUpper = edges[i+1], true
		}
	}
	return lower, upper, nil
}

// Timepoint summarizes one timepoint of an observed-vs-null comparison.
type Timepoint struct {
	Index       int     `json:"index"`
	Observed    float64 `json:"observed"`
	Mean        float64 `json:"mean"`
	Lower       float64 `json:"lower"`
	Upper       float64 `json:"upper"`
	Above       bool    `json:"above"`       // observed > upper
	Significant bool    `json:"significant"` // observed outside [lower, upper]
}

// Summarize computes the interval of every timepoint of dist and flags the
// observed values that fall outside it.
func Summarize(dist *distribution.NullDistribution, observed []float64, confidence float64, bins int) ([]Timepoint, error) {
	n, timepoints := dist.Shape()
	if n == 0 {
		return nil, ErrEmptySample
	}
	if len(observed) != timepoints {
		return nil, fmt.Errorf("%w: %d observed, %d in distribution", ErrTimepointMismatch, len(observed), timepoints)
	}
	mean := dist.Mean()
	out := make([]Timepoint, timepoints)
	for t := range out {
		lower, upper, err := ConfidenceInterval(dist.Column(t), confidence, bins)
		if err != nil {
			return nil, fmt.Errorf("timepoint %d: %w", t, err)
		}
		obs := observed[t]
		out[t] = Timepoint{
			Index:       t,
			Observed:    obs,
			Mean:        mean[t],
			Lower:       lower,
			Upper:       upper,
			Above:       obs > upper,
			Significant: obs > upper || obs < lower,
		}
	}
	return out, nil
}

// CountSignificant returns how many timepoints are flagged significant.
func CountSignificant(tps []Timepoint) int {
	n := 0
	for _, tp := range tps {
		if tp.Significant {
			n++
		}
	}
	return n
}
