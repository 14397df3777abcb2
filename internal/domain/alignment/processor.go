package alignment

import (
	"context"
	"errors"
	"fmt"

	"github.com/spencer-hanson/SaccadePopulationAnalysis/internal/domain/model"
	"github.com/spencer-hanson/SaccadePopulationAnalysis/pkg/logger"
	"github.com/spencer-hanson/SaccadePopulationAnalysis/pkg/metrics"
)

// Diagnostics reports how much data the alignment pipeline discarded.
type Diagnostics struct {
	Probes           int                 `json:"probes"`
	Saccades         int                 `json:"saccades"`
	FilteredSaccades int                 `json:"filtered_saccades"` // rejected by the latency filter
	DemixedByLabel   map[model.Label]int `json:"demixed_by_label"`
	Duplicates       int                 `json:"duplicates"`
}

// Processor runs the full alignment pipeline for one recording.
type Processor struct {
	probes   model.Stream
	saccades model.Stream

	mapper  *Mapper
	filter  *LatencyFilter
	demixer *Demixer
	logger  logger.Logger
}

// NewProcessor validates the bin edges and both event streams.
func NewProcessor(binEdges []float64, probes, saccades model.Stream, opts ...Option) (*Processor, error) {
	if err := probes.Validate(); err != nil {
		return nil, fmt.Errorf("probe stream: %w", err)
	}
	if err := saccades.Validate(); err != nil {
		return nil, fmt.Errorf("saccade stream: %w", err)
	}
	s := newSettings(opts)
	if s.collisionWindow < 0 {
		return nil, fmt.Errorf("%w: %g", ErrInvalidCollision, s.collisionWindow)
	}
	mapper, err := NewMapper(binEdges, opts...)
	if err != nil {
		return nil, err
	}
	return &Processor{
		probes:   probes,
		saccades: saccades,
		mapper:   mapper,
		filter:   NewLatencyFilter(opts...),
		demixer:  NewDemixer(opts...),
		logger:   s.logger,
	}, nil
}

// Process maps both streams, filters the saccade baseline, demixes and
// returns the trials sorted by event time.
func (p *Processor) Process(ctx context.Context) (*model.TrialGroup, Diagnostics, error) {
	probes, err := p.mapper.Map(model.LabelProbe, p.probes)
	if err != nil {
		p.recordFailure(ctx, err)
		return nil, Diagnostics{}, err
	}
	saccades, err := p.mapper.Map(model.LabelSaccade, p.saccades)
	if err != nil {
		p.recordFailure(ctx, err)
		return nil, Diagnostics{}, err
	}
	metrics.RecordTrialsMapped(string(model.LabelProbe), len(probes))
	metrics.RecordTrialsMapped(string(model.LabelSaccade), len(saccades))

	clean, rejected := p.filter.Filter(saccades, probes)
	metrics.RecordSaccadesFiltered(len(clean), rejected)

	demixed := p.demixer.Demix(probes, saccades)
	metrics.RecordDemixOutcome("probe", demixed.Probes)
	metrics.RecordDemixOutcome("mixed", demixed.Mixed)
	metrics.RecordDemixOutcome("duplicate", demixed.Duplicates)
	metrics.RecordDemixOutcome("unmatched", demixed.Unmatched)

	all := make([]model.Trial, 0, len(demixed.Trials)+len(clean))
	all = append(all, demixed.Trials...)
	all = append(all, clean...)
	group := model.NewTrialGroup(all)

	counts := group.Counts()
	for _, label := range model.Labels {
		metrics.UpdateTrialGroupSize(string(label), counts[label])
	}

	diag := Diagnostics{
		Probes:           len(probes),
		Saccades:         len(saccades),
		FilteredSaccades: rejected,
		DemixedByLabel: map[model.Label]int{
			model.LabelProbe:   demixed.Probes,
			model.LabelMixed:   demixed.Mixed,
			model.LabelSaccade: demixed.Unmatched,
		},
		Duplicates: demixed.Duplicates,
	}

	p.logger.Info(ctx, "trial alignment complete",
		logger.Int("probes", diag.Probes),
		logger.Int("saccades", diag.Saccades),
		logger.Int("filtered_saccades", diag.FilteredSaccades),
		logger.Int("probe_trials", counts[model.LabelProbe]),
		logger.Int("saccade_trials", counts[model.LabelSaccade]),
		logger.Int("mixed_trials", counts[model.LabelMixed]),
		logger.Int("duplicates", diag.Duplicates),
	)
	return group, diag, nil
}

func (p *Processor) recordFailure(ctx context.Context, err error) {
	reason := "stream"
	if errors.Is(err, ErrEventOutOfRange) {
		reason = "out_of_range"
	}
	metrics.RecordAlignmentFailure(reason)
	p.logger.Error(ctx, "trial alignment failed", logger.Error(err))
}
