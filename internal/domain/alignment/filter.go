package alignment

import "github.com/spencer-hanson/SaccadePopulationAnalysis/internal/domain/model"

// LatencyFilter keeps saccades far enough from every probe to serve as a
// saccade-only baseline.
type LatencyFilter struct {
	sacProbe int
	probeSac int
}

// NewLatencyFilter creates a filter using the configured latencies.
func NewLatencyFilter(opts ...Option) *LatencyFilter {
	s := newSettings(opts)
	return &LatencyFilter{sacProbe: s.sacProbeLatency, probeSac: s.probeSacLatency}
}

// Allowed reports whether a saccade at bin sac is clear of a probe at bin probe.
func (f *LatencyFilter) Allowed(sac, probe int) bool {
	diff := sac - probe
	if diff < 0 {
		return -diff >= f.sacProbe
	}
	return diff >= f.probeSac
}

// Filter returns the saccades clear of every probe, in input order, and the
// number rejected.
func (f *LatencyFilter) Filter(saccades, probes []model.Trial) ([]model.Trial, int) {
	kept := make([]model.Trial, 0, len(saccades))
	for _, sac := range saccades {
		ok := true
		for _, probe := range probes {
			if !f.Allowed(sac.EventIdx, probe.EventIdx) {
				ok = false
				break
			}
		}
		if ok {
			kept = append(kept, sac)
		}
	}
	return kept, len(saccades) - len(kept)
}
