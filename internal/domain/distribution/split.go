package distribution

import (
	"fmt"
	"math"

	"github.com/spencer-hanson/SaccadePopulationAnalysis/internal/domain/tensor"
)

// SplitByProportion cuts the trial axis at int(trials*p). Both halves must
// hold at least minTrials trials.
func SplitByProportion(t *tensor.Tensor, p float64, minTrials int) (*tensor.Tensor, *tensor.Tensor, error) {
	if math.IsNaN(p) || p < 0 || p > 1 {
		return nil, nil, fmt.Errorf("%w: %g", ErrInvalidProportion, p)
	}
	trials := t.Trials()
	cut := int(float64(trials) * p)
	if cut < minTrials || trials-cut < minTrials {
		return nil, nil, fmt.Errorf("%w: %d/%d of %d trials, need %d per side", ErrSplitTooSmall, cut, trials-cut, trials, minTrials)
	}
	idxs := make([]int, trials)
	for i := range idxs {
		idxs[i] = i
	}
	first, err := t.SelectTrials(idxs[:cut])
	if err != nil {
		return nil, nil, err
	}
	second, err := t.SelectTrials(idxs[cut:])
	if err != nil {
		return nil, nil, err
	}
	return first, second, nil
}
