package alignment

import (
	"fmt"
	"math"
	"sort"

	"github.com/spencer-hanson/SaccadePopulationAnalysis/internal/domain/model"
)

// Mapper converts event timestamps into trials on the firing-rate bin axis.
type Mapper struct {
	edges  []float64
	before int
	after  int
}

// NewMapper validates the bin edges. There are len(binEdges)-1 bins.
func NewMapper(binEdges []float64, opts ...Option) (*Mapper, error) {
	s := newSettings(opts)
	if len(binEdges) < 2 {
		return nil, fmt.Errorf("%w: got %d edges", ErrInvalidBinEdges, len(binEdges))
	}
	for i := 1; i < len(binEdges); i++ {
		if !(binEdges[i] > binEdges[i-1]) {
			return nil, fmt.Errorf("%w: edge %d (%g) <= edge %d (%g)", ErrInvalidBinEdges, i, binEdges[i], i-1, binEdges[i-1])
		}
	}
	if s.windowBefore < 0 || s.windowAfter < 0 {
		return nil, fmt.Errorf("%w: before=%d after=%d", ErrInvalidWindow, s.windowBefore, s.windowAfter)
	}
	edges := make([]float64, len(binEdges))
	copy(edges, binEdges)
	return &Mapper{edges: edges, before: s.windowBefore, after: s.windowAfter}, nil
}

// NumBins returns the number of bins described by the edges.
func (m *Mapper) NumBins() int { return len(m.edges) - 1 }

// BinIndex returns the bin containing ts. Bins are half-open [lo, hi) except
// the last one, which also contains the final edge.
func (m *Mapper) BinIndex(ts float64) (int, error) {
	last := len(m.edges) - 1
	if math.IsNaN(ts) || ts < m.edges[0] || ts > m.edges[last] {
		return 0, fmt.Errorf("%w: %gs not in [%g, %g]", ErrEventOutOfRange, ts, m.edges[0], m.edges[last])
	}
	i := sort.SearchFloat64s(m.edges, ts)
	if i < last && m.edges[i] == ts {
		return i, nil
	}
	return i - 1, nil
}

// Map builds one trial per event in the stream, tagged with label.
func (m *Mapper) Map(label model.Label, stream model.Stream) ([]model.Trial, error) {
	events, err := stream.Events()
	if err != nil {
		return nil, fmt.Errorf("%s stream: %w", label, err)
	}
	trials := make([]model.Trial, len(events))
	for i, ev := range events {
		idx, err := m.BinIndex(ev.Time)
		if err != nil {
			return nil, fmt.Errorf("%s event %d: %w", label, i, err)
		}
		ref := model.EventRef{StartIdx: idx - m.before, EventIdx: idx, EndIdx: idx + m.after, Time: ev.Time}
		trials[i] = model.NewTrial(label, ref, ev.MotionDirection, ev.BlockIdx)
	}
	return trials, nil
}
