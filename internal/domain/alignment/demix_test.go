package alignment_test

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"
	"github.com/spencer-hanson/SaccadePopulationAnalysis/internal/domain/alignment"
	"github.com/spencer-hanson/SaccadePopulationAnalysis/internal/domain/model"
)

func TestDemixer(t *testing.T) {
	Convey("Given a probe at 0.0s and saccades at 0.3s and 10.0s", t, func() {
		d := alignment.NewDemixer()
		probe := trialAt(model.LabelProbe, 10, 0.0)
		near := trialAt(model.LabelSaccade, 25, 0.3)
		far := trialAt(model.LabelSaccade, 500, 10.0)

		res := d.Demix([]model.Trial{probe}, []model.Trial{near, far})

		Convey("Then exactly one mixed trial should reference the near saccade", func() {
			So(res.Trials, ShouldHaveLength, 1)
			So(res.Mixed, ShouldEqual, 1)
			mixed := res.Trials[0]
			So(mixed.Label, ShouldEqual, model.LabelMixed)
			So(mixed.EventIdx, ShouldEqual, 10)
			p, s, ok := mixed.Provenance()
			So(ok, ShouldBeTrue)
			So(p, ShouldResemble, probe.Ref())
			So(s, ShouldResemble, near.Ref())
		})

		Convey("Then unmatched saccades should be excluded by default", func() {
			So(res.Unmatched, ShouldEqual, 0)
		})

		Convey("When unmatched saccades are requested", func() {
			res := alignment.NewDemixer(alignment.WithUnmatchedSaccades(true)).Demix([]model.Trial{probe}, []model.Trial{near, far})

			Convey("Then only the far saccade should be appended", func() {
				So(res.Unmatched, ShouldEqual, 1)
				So(res.Trials, ShouldHaveLength, 2)
				So(res.Trials[1], ShouldResemble, far)
			})
		})
	})

	Convey("Given a probe colliding with two saccades", t, func() {
		probe := trialAt(model.LabelProbe, 100, 2.0)
		saccades := []model.Trial{
			trialAt(model.LabelSaccade, 90, 1.8),
			trialAt(model.LabelSaccade, 110, 2.2),
		}

		Convey("When every saccade is scanned", func() {
			res := alignment.NewDemixer().Demix([]model.Trial{probe}, saccades)

			Convey("Then the probe should be dropped as a duplicate", func() {
				So(res.Trials, ShouldBeEmpty)
				So(res.Duplicates, ShouldEqual, 1)
			})
		})

		Convey("When the scan stops at the first collision", func() {
			res := alignment.NewDemixer(alignment.WithStopAtFirstCollision(true)).Demix([]model.Trial{probe}, saccades)

			Convey("Then the first saccade should win", func() {
				So(res.Duplicates, ShouldEqual, 0)
				So(res.Mixed, ShouldEqual, 1)
				_, s, _ := res.Trials[0].Provenance()
				So(s.Time, ShouldEqual, 1.8)
			})
		})
	})

	Convey("Given a collision exactly at the window edge", t, func() {
		probe := trialAt(model.LabelProbe, 100, 2.0)
		res := alignment.NewDemixer(alignment.WithCollisionWindow(0.5)).Demix(
			[]model.Trial{probe}, []model.Trial{trialAt(model.LabelSaccade, 125, 2.5)})

		Convey("Then it should count as a collision", func() {
			So(res.Mixed, ShouldEqual, 1)
		})
	})

	Convey("Given a mix of probe situations", t, func() {
		var probes, saccades []model.Trial
		for i := 0; i < 30; i++ {
			probes = append(probes, trialAt(model.LabelProbe, 100+i*50, float64(i)))
		}
		for i := 0; i < 30; i++ {
			switch i % 3 {
			case 0: // none
			case 1:
				saccades = append(saccades, trialAt(model.LabelSaccade, 110+i*50, float64(i)+0.2))
			case 2:
				saccades = append(saccades,
					trialAt(model.LabelSaccade, 95+i*50, float64(i)-0.1),
					trialAt(model.LabelSaccade, 110+i*50, float64(i)+0.2))
			}
		}
		d := alignment.NewDemixer()
		res := d.Demix(probes, saccades)

		Convey("Then every probe should be accounted for exactly once", func() {
			So(res.Probes, ShouldEqual, 10)
			So(res.Mixed, ShouldEqual, 10)
			So(res.Duplicates, ShouldEqual, 10)
			So(res.Probes+res.Mixed+res.Duplicates, ShouldEqual, len(probes))
			So(res.Trials, ShouldHaveLength, res.Probes+res.Mixed)
		})

		Convey("Then demixing again should yield the same output", func() {
			again := d.Demix(probes, saccades)
			So(again, ShouldResemble, res)
		})
	})
}
