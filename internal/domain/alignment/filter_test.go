package alignment_test

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"
	"github.com/spencer-hanson/SaccadePopulationAnalysis/internal/domain/alignment"
	"github.com/spencer-hanson/SaccadePopulationAnalysis/internal/domain/model"
)

func trialAt(label model.Label, idx int, ts float64) model.Trial {
	return model.NewTrial(label, model.EventRef{StartIdx: idx - 10, EventIdx: idx, EndIdx: idx + 25, Time: ts}, 1, 0)
}

func TestLatencyFilter(t *testing.T) {
	Convey("Given a probe at bin 100", t, func() {
		f := alignment.NewLatencyFilter()
		probes := []model.Trial{trialAt(model.LabelProbe, 100, 2.0)}

		Convey("When filtering saccades around it", func() {
			idxs := []int{85, 90, 91, 95, 100, 110, 119, 120, 140}
			saccades := make([]model.Trial, len(idxs))
			for i, idx := range idxs {
				saccades[i] = trialAt(model.LabelSaccade, idx, float64(idx)*0.02)
			}
			kept, rejected := f.Filter(saccades, probes)

			Convey("Then only clearly separated saccades should remain", func() {
				got := make([]int, len(kept))
				for i, tr := range kept {
					got[i] = tr.EventIdx
				}
				So(got, ShouldResemble, []int{85, 90, 120, 140})
				So(rejected, ShouldEqual, 5)
			})
		})
	})

	Convey("Given many probes and saccades", t, func() {
		f := alignment.NewLatencyFilter()
		var probes, saccades []model.Trial
		for i := 0; i < 20; i++ {
			probes = append(probes, trialAt(model.LabelProbe, 50+i*37, 0))
		}
		for i := 0; i < 400; i++ {
			saccades = append(saccades, trialAt(model.LabelSaccade, 40+i*2, 0))
		}
		kept, rejected := f.Filter(saccades, probes)

		Convey("Then every kept saccade should satisfy the latency rule against every probe", func() {
			So(len(kept)+rejected, ShouldEqual, len(saccades))
			So(kept, ShouldNotBeEmpty)
			for _, sac := range kept {
				for _, probe := range probes {
					ok := sac.EventIdx-probe.EventIdx >= 20 || probe.EventIdx-sac.EventIdx >= 10
					So(ok, ShouldBeTrue)
				}
			}
		})
	})

	Convey("Given custom latencies", t, func() {
		f := alignment.NewLatencyFilter(alignment.WithLatencies(2, 3))

		Convey("Then the thresholds should follow the configuration", func() {
			So(f.Allowed(98, 100), ShouldBeTrue)
			So(f.Allowed(99, 100), ShouldBeFalse)
			So(f.Allowed(102, 100), ShouldBeFalse)
			So(f.Allowed(103, 100), ShouldBeTrue)
		})
	})
}
