package alignment

import (
	"math"

	"github.com/spencer-hanson/SaccadePopulationAnalysis/internal/domain/model"
)

// DemixResult is the demixer output with its per-outcome counts.
type DemixResult struct {
	Trials     []model.Trial
	Probes     int // probes emitted without a saccade
	Mixed      int
	Duplicates int // probes dropped for colliding with two or more saccades
	Unmatched  int // saccades appended because no probe collided with them
}

// Demixer resolves probe/saccade collisions.
type Demixer struct {
	window           float64
	includeUnmatched bool
	stopAtFirst      bool
}

// NewDemixer creates a demixer using the configured collision window.
func NewDemixer(opts ...Option) *Demixer {
	s := newSettings(opts)
	return &Demixer{window: s.collisionWindow, includeUnmatched: s.includeUnmatched, stopAtFirst: s.stopAtFirst}
}

// Collides reports whether a probe and a saccade overlap in time.
func (d *Demixer) Collides(probe, saccade model.Trial) bool {
	return math.Abs(saccade.EventTime-probe.EventTime) <= d.window
}

// Demix emits one trial per probe that collides with at most one saccade, in
// probe order. A probe with one collision becomes a mixed trial that
// references the first colliding saccade. Unmatched saccades, when enabled,
// follow the probes in input order.
func (d *Demixer) Demix(probes, saccades []model.Trial) DemixResult {
	res := DemixResult{Trials: make([]model.Trial, 0, len(probes))}
	consumed := make([]bool, len(saccades))

	for _, probe := range probes {
		match, hits := -1, 0
		for j := range saccades {
			if !d.Collides(probe, saccades[j]) {
				continue
			}
			consumed[j] = true
			if match < 0 {
				match = j
			}
			hits++
			if d.stopAtFirst {
				break
			}
		}

		switch {
		case hits == 0:
			res.Trials = append(res.Trials, probe)
			res.Probes++
		case hits == 1:
			res.Trials = append(res.Trials, model.NewMixedTrial(probe, saccades[match]))
			res.Mixed++
		default:
			res.Duplicates++
		}
	}

	if d.includeUnmatched {
		for j, sac := range saccades {
			if !consumed[j] {
				res.Trials = append(res.Trials, sac)
				res.Unmatched++
			}
		}
	}
	return res
}
