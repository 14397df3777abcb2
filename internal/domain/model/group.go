package model

import (
	"encoding/json"
	"sort"
)

// TrialGroup is the ordered, read-only result of trial alignment. Trials are
// sorted ascending by event time; ties keep their input order.
type TrialGroup struct {
	trials []Trial
}

// NewTrialGroup copies and sorts trs.
func NewTrialGroup(trs []Trial) *TrialGroup {
	sorted := make([]Trial, len(trs))
	copy(sorted, trs)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].EventTime < sorted[j].EventTime
	})
	return &TrialGroup{trials: sorted}
}

// Len returns the number of trials.
func (g *TrialGroup) Len() int { return len(g.trials) }

// At returns the i-th trial in event-time order.
func (g *TrialGroup) At(i int) Trial { return g.trials[i] }

// Trials returns a copy of all trials.
func (g *TrialGroup) Trials() []Trial {
	out := make([]Trial, len(g.trials))
	copy(out, g.trials)
	return out
}

// ByLabel returns every trial with the given label, in group order.
func (g *TrialGroup) ByLabel(label Label) []Trial {
	var out []Trial
	for _, tr := range g.trials {
		if tr.Label == label {
			out = append(out, tr)
		}
	}
	return out
}

// Indices returns the group positions of trials with the given label. These
// index the trial axis of firing-rate tensors laid out in group order.
func (g *TrialGroup) Indices(label Label) []int {
	var out []int
	for i, tr := range g.trials {
		if tr.Label == label {
			out = append(out, i)
		}
	}
	return out
}

// Counts returns the number of trials per label.
func (g *TrialGroup) Counts() map[Label]int {
	counts := make(map[Label]int, len(Labels))
	for _, l := range Labels {
		counts[l] = 0
	}
	for _, tr := range g.trials {
		counts[tr.Label]++
	}
	return counts
}

// MarshalJSON encodes the group as a list of trials.
func (g *TrialGroup) MarshalJSON() ([]byte, error) {
	if g.trials == nil {
		return []byte("[]"), nil
	}
	return json.Marshal(g.trials)
}

// UnmarshalJSON decodes a list of trials, restoring event-time order.
func (g *TrialGroup) UnmarshalJSON(data []byte) error {
	var trs []Trial
	if err := json.Unmarshal(data, &trs); err != nil {
		return err
	}
	*g = *NewTrialGroup(trs)
	return nil
}
