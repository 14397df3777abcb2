// Package model contains the trial records passed between the alignment,
// baseline and resampling layers.
package model

import "fmt"

// Event is one raw behavioral or stimulus event from a recording.
type Event struct {
	Time            float64 // seconds
	MotionDirection int     // grating motion direction, e.g. -1 or 1
	BlockIdx        int     // drifting grating block the event falls into
}

// Stream holds the aligned per-event arrays of one event type as they come
// out of the recording container.
type Stream struct {
	Timestamps []float64 `json:"timestamps"`
	Motions    []int     `json:"motions"`
	Blocks     []int     `json:"blocks"`
}

// Validate checks that the three arrays describe the same events.
func (s Stream) Validate() error {
	if len(s.Timestamps) != len(s.Motions) || len(s.Timestamps) != len(s.Blocks) {
		return fmt.Errorf("%w: %d timestamps, %d motions, %d blocks",
			ErrLengthMismatch, len(s.Timestamps), len(s.Motions), len(s.Blocks))
	}
	return nil
}

// Len returns the number of events in the stream.
func (s Stream) Len() int { return len(s.Timestamps) }

// Events zips the stream into Event values.
func (s Stream) Events() ([]Event, error) {
	if err := s.Validate(); err != nil {
		return nil, err
	}
	events := make([]Event, len(s.Timestamps))
	for i, ts := range s.Timestamps {
		events[i] = Event{Time: ts, MotionDirection: s.Motions[i], BlockIdx: s.Blocks[i]}
	}
	return events, nil
}
