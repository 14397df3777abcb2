// Package quantification provides metrics comparing two populations at a
// single timepoint. Each block is a (units, trials) matrix; the trial counts
// of the two blocks may differ.
package quantification

import (
	"fmt"
	"math"
	"math/rand/v2"
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
)

// Metric computes a scalar from two (units, trials) blocks. Implementations
// are stateless and safe for concurrent use.
type Metric interface {
	Name() string
	Calculate(a, b *mat.Dense) (float64, error)
}

// Metric names accepted by ByName.
const (
	NameEuclidean           = "euclidean"
	NameAngle               = "angle"
	NameMagnitudeDifference = "magnitude_difference"
	NameMagnitudeQuotient   = "magnitude_quotient"
	NameRandom              = "random"
)

var registry = map[string]Metric{ //nolint:gochecknoglobals // read-only table
	NameEuclidean:           Euclidean{},
	NameAngle:               Angle{},
	NameMagnitudeDifference: MagnitudeDifference{},
	NameMagnitudeQuotient:   MagnitudeQuotient{},
	NameRandom:              Random{},
}

// ByName looks up a metric.
func ByName(name string) (Metric, error) {
	m, ok := registry[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownMetric, name)
	}
	return m, nil
}

// Names lists the registered metric names in sorted order.
func Names() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// populationVectors averages each block across trials, giving one mean
// firing rate per unit.
func populationVectors(a, b *mat.Dense) ([]float64, []float64, error) {
	ua, ta := a.Dims()
	ub, tb := b.Dims()
	if ua == 0 || ta == 0 || ub == 0 || tb == 0 {
		return nil, nil, fmt.Errorf("%w: (%d, %d) and (%d, %d)", ErrEmptyBlock, ua, ta, ub, tb)
	}
	if ua != ub {
		return nil, nil, fmt.Errorf("%w: %d vs %d", ErrShapeMismatch, ua, ub)
	}
	return rowMeans(a), rowMeans(b), nil
}

func rowMeans(m *mat.Dense) []float64 {
	rows, _ := m.Dims()
	out := make([]float64, rows)
	for i := range out {
		out[i] = stat.Mean(m.RawRowView(i), nil)
	}
	return out
}

// Euclidean is the distance between the two mean population vectors.
type Euclidean struct{}

// Name implements Metric.
func (Euclidean) Name() string { return NameEuclidean }

// Calculate implements Metric.
func (Euclidean) Calculate(a, b *mat.Dense) (float64, error) {
	va, vb, err := populationVectors(a, b)
	if err != nil {
		return 0, err
	}
	return floats.Distance(va, vb, 2), nil
}

// Angle is the angle in degrees between the two mean population vectors. It
// is 0 when either vector is all zeros.
type Angle struct{}

// Name implements Metric.
func (Angle) Name() string { return NameAngle }

// Calculate implements Metric.
func (Angle) Calculate(a, b *mat.Dense) (float64, error) {
	va, vb, err := populationVectors(a, b)
	if err != nil {
		return 0, err
	}
	na, nb := floats.Norm(va, 2), floats.Norm(vb, 2)
	if na == 0 || nb == 0 {
		return 0, nil
	}
	cos := floats.Dot(va, vb) / (na * nb)
	cos = math.Max(-1, math.Min(1, cos))
	return math.Acos(cos) * 180 / math.Pi, nil
}

// MagnitudeDifference is the absolute difference of the mean population
// vector norms.
type MagnitudeDifference struct{}

// Name implements Metric.
func (MagnitudeDifference) Name() string { return NameMagnitudeDifference }

// Calculate implements Metric.
func (MagnitudeDifference) Calculate(a, b *mat.Dense) (float64, error) {
	va, vb, err := populationVectors(a, b)
	if err != nil {
		return 0, err
	}
	return math.Abs(floats.Norm(va, 2) - floats.Norm(vb, 2)), nil
}

// MagnitudeQuotient is |a| / |b| of the mean population vectors.
type MagnitudeQuotient struct{}

// Name implements Metric.
func (MagnitudeQuotient) Name() string { return NameMagnitudeQuotient }

// Calculate implements Metric.
func (MagnitudeQuotient) Calculate(a, b *mat.Dense) (float64, error) {
	va, vb, err := populationVectors(a, b)
	if err != nil {
		return 0, err
	}
	nb := floats.Norm(vb, 2)
	if nb == 0 {
		return 0, ErrZeroMagnitude
	}
	return floats.Norm(va, 2) / nb, nil
}

// Random ignores its input and draws from a standard normal. Used to
// exercise the resampling engine.
type Random struct{}

// Name implements Metric.
func (Random) Name() string { return NameRandom }

// Calculate implements Metric.
func (Random) Calculate(_, _ *mat.Dense) (float64, error) {
	return rand.NormFloat64(), nil
}
