// Package session reads recording documents: event streams, firing-rate bin
// edges and per-trial firing rates.
package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spencer-hanson/SaccadePopulationAnalysis/internal/domain/model"
	"github.com/spencer-hanson/SaccadePopulationAnalysis/internal/domain/tensor"
	"github.com/spencer-hanson/SaccadePopulationAnalysis/pkg/logger"
)

// ErrInvalidSession reports a document that cannot be analyzed.
var ErrInvalidSession = errors.New("invalid session document")

// Rates is the wire form of a firing-rate tensor.
type Rates struct {
	Shape []int     `json:"shape"`
	Data  []float64 `json:"data"`
}

// Document is the on-disk session layout.
type Document struct {
	ID          string       `json:"id"`
	BinEdges    []float64    `json:"bin_edges"`
	Probes      model.Stream `json:"probes"`
	Saccades    model.Stream `json:"saccades"`
	FiringRates Rates        `json:"firing_rates"` // (units, trials, 3*window), trials in trial-group order
}

// Session is a validated recording ready for analysis.
type Session struct {
	ID          string
	BinEdges    []float64
	Probes      model.Stream
	Saccades    model.Stream
	FiringRates *tensor.Tensor
}

// Decode reads and validates one document.
func Decode(r io.Reader) (*Session, error) {
	var doc Document
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidSession, err)
	}
	return FromDocument(doc)
}

// FromDocument validates an already decoded document.
func FromDocument(doc Document) (*Session, error) {
	if doc.ID == "" {
		return nil, fmt.Errorf("%w: missing id", ErrInvalidSession)
	}
	if err := doc.Probes.Validate(); err != nil {
		return nil, fmt.Errorf("%w: probes: %w", ErrInvalidSession, err)
	}
	if err := doc.Saccades.Validate(); err != nil {
		return nil, fmt.Errorf("%w: saccades: %w", ErrInvalidSession, err)
	}
	fr, err := tensor.FromFlat(doc.FiringRates.Shape, doc.FiringRates.Data)
	if err != nil {
		return nil, fmt.Errorf("%w: firing rates: %w", ErrInvalidSession, err)
	}
	if fr.Units() == 0 || fr.Bins() == 0 {
		return nil, fmt.Errorf("%w: firing rates %v have no units or bins", ErrInvalidSession, fr.Dims())
	}
	return &Session{
		ID:          doc.ID,
		BinEdges:    doc.BinEdges,
		Probes:      doc.Probes,
		Saccades:    doc.Saccades,
		FiringRates: fr,
	}, nil
}

// Load opens path and decodes it.
func Load(ctx context.Context, path string) (*Session, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open session: %w", err)
	}
	defer f.Close()

	s, err := Decode(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	u, t, b := s.FiringRates.Shape()
	logger.Get().Named("session").Info(ctx, "session loaded",
		logger.String("id", s.ID),
		logger.Int("probes", s.Probes.Len()),
		logger.Int("saccades", s.Saccades.Len()),
		logger.Int("units", u),
		logger.Int("trials", t),
		logger.Int("bins", b),
	)
	return s, nil
}

// Document converts the session back to its wire form.
func (s *Session) Document() Document {
	return Document{
		ID:          s.ID,
		BinEdges:    s.BinEdges,
		Probes:      s.Probes,
		Saccades:    s.Saccades,
		FiringRates: Rates{Shape: s.FiringRates.Dims(), Data: s.FiringRates.Flat()},
	}
}

// Write encodes the session to w.
func (s *Session) Write(w io.Writer) error {
	return json.NewEncoder(w).Encode(s.Document())
}
