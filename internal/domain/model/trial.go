package model

import (
	"encoding/json"
	"fmt"
)

// Label classifies a trial.
type Label string

// Trial labels.
const (
	LabelProbe   Label = "probe"
	LabelSaccade Label = "saccade"
	LabelMixed   Label = "mixed"
)

// Labels lists every label in reporting order.
var Labels = []Label{LabelProbe, LabelSaccade, LabelMixed} //nolint:gochecknoglobals // read-only table

// ParseLabel converts a string into a Label.
func ParseLabel(s string) (Label, error) {
	switch l := Label(s); l {
	case LabelProbe, LabelSaccade, LabelMixed:
		return l, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownLabel, s)
	}
}

// EventRef locates one source event on the firing-rate bin axis.
type EventRef struct {
	StartIdx int     `json:"start_idx"`
	EventIdx int     `json:"event_idx"`
	EndIdx   int     `json:"end_idx"`
	Time     float64 `json:"time"`
}

// Trial is a fixed-width window of firing-rate bins around one event.
//
// Probe and saccade trials carry no provenance. A mixed trial is built by
// NewMixedTrial from one probe and one saccade and keeps both references;
// there is no way to attach provenance after construction.
type Trial struct {
	StartIdx        int
	EndIdx          int
	EventIdx        int
	EventTime       float64
	Label           Label
	MotionDirection int
	BlockIdx        int

	mixed *mixedSource
}

type mixedSource struct {
	probe   EventRef
	saccade EventRef
}

// NewTrial builds an unmixed trial for a single event.
func NewTrial(label Label, ref EventRef, motion, block int) Trial {
	return Trial{
		StartIdx:        ref.StartIdx,
		EndIdx:          ref.EndIdx,
		EventIdx:        ref.EventIdx,
		EventTime:       ref.Time,
		Label:           label,
		MotionDirection: motion,
		BlockIdx:        block,
	}
}

// NewMixedTrial merges a probe and the one saccade colliding with it. The
// result keeps the probe's window, motion and block.
func NewMixedTrial(probe, saccade Trial) Trial {
	tr := probe
	tr.Label = LabelMixed
	tr.mixed = &mixedSource{probe: probe.Ref(), saccade: saccade.Ref()}
	return tr
}

// Ref returns the trial's own window as an EventRef.
func (t Trial) Ref() EventRef {
	return EventRef{StartIdx: t.StartIdx, EventIdx: t.EventIdx, EndIdx: t.EndIdx, Time: t.EventTime}
}

// IsMixed reports whether the trial carries probe and saccade provenance.
func (t Trial) IsMixed() bool { return t.mixed != nil }

// Provenance returns the originating probe and saccade of a mixed trial.
func (t Trial) Provenance() (probe, saccade EventRef, ok bool) {
	if t.mixed == nil {
		return EventRef{}, EventRef{}, false
	}
	return t.mixed.probe, t.mixed.saccade, true
}

// SaccadeOffset returns saccade time minus probe time in seconds.
func (t Trial) SaccadeOffset() (float64, error) {
	probe, saccade, ok := t.Provenance()
	if !ok {
		return 0, fmt.Errorf("%w: %s trial at %.3fs", ErrMissingProvenance, t.Label, t.EventTime)
	}
	return saccade.Time - probe.Time, nil
}

type trialEventsJSON struct {
	Probe   EventRef `json:"probe"`
	Saccade EventRef `json:"saccade"`
}

type trialJSON struct {
	StartIdx        int              `json:"start_idx"`
	EndIdx          int              `json:"end_idx"`
	EventIdx        int              `json:"event_idx"`
	EventTime       float64          `json:"event_time"`
	Label           Label            `json:"label"`
	MotionDirection int              `json:"motion_direction"`
	BlockIdx        int              `json:"block_idx"`
	Events          *trialEventsJSON `json:"events,omitempty"`
}

// MarshalJSON encodes the trial including its provenance.
func (t Trial) MarshalJSON() ([]byte, error) {
	out := trialJSON{
		StartIdx:        t.StartIdx,
		EndIdx:          t.EndIdx,
		EventIdx:        t.EventIdx,
		EventTime:       t.EventTime,
		Label:           t.Label,
		MotionDirection: t.MotionDirection,
		BlockIdx:        t.BlockIdx,
	}
	if t.mixed != nil {
		out.Events = &trialEventsJSON{Probe: t.mixed.probe, Saccade: t.mixed.saccade}
	}
	return json.Marshal(out)
}

// UnmarshalJSON decodes a trial, rejecting mixed trials without provenance.
func (t *Trial) UnmarshalJSON(data []byte) error {
	var in trialJSON
	if err := json.Unmarshal(data, &in); err != nil {
		return err
	}
	label, err := ParseLabel(string(in.Label))
	if err != nil {
		return err
	}
	if (label == LabelMixed) != (in.Events != nil) {
		return fmt.Errorf("%w: label %s with events=%t", ErrMissingProvenance, label, in.Events != nil)
	}

	*t = Trial{
		StartIdx:        in.StartIdx,
		EndIdx:          in.EndIdx,
		EventIdx:        in.EventIdx,
		EventTime:       in.EventTime,
		Label:           label,
		MotionDirection: in.MotionDirection,
		BlockIdx:        in.BlockIdx,
	}
	if in.Events != nil {
		t.mixed = &mixedSource{probe: in.Events.Probe, saccade: in.Events.Saccade}
	}
	return nil
}
