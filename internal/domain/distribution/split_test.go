package distribution_test

import (
	"errors"
	"math"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
	"github.com/spencer-hanson/SaccadePopulationAnalysis/internal/domain/distribution"
	"github.com/spencer-hanson/SaccadePopulationAnalysis/internal/domain/tensor"
)

func TestSplitByProportion(t *testing.T) {
	Convey("Given a population of 20 trials", t, func() {
		pop := population(3, 20, 4, 0)

		Convey("When splitting at 0.4", func() {
			a, b, err := distribution.SplitByProportion(pop, 0.4, 5)

			Convey("Then the first 8 trials should form the first part", func() {
				So(err, ShouldBeNil)
				So(a.Dims(), ShouldResemble, []int{3, 8, 4})
				So(b.Dims(), ShouldResemble, []int{3, 12, 4})
				So(a.Waveform(2, 7), ShouldResemble, pop.Waveform(2, 7))
				So(b.Waveform(2, 0), ShouldResemble, pop.Waveform(2, 8))
			})
		})

		Convey("When a side would fall below the minimum", func() {
			_, _, err := distribution.SplitByProportion(pop, 0.2, 5)
			So(errors.Is(err, distribution.ErrSplitTooSmall), ShouldBeTrue)
			_, _, err = distribution.SplitByProportion(pop, 0.9, 5)
			So(errors.Is(err, distribution.ErrSplitTooSmall), ShouldBeTrue)
		})

		Convey("When the proportion is outside [0, 1]", func() {
			for _, p := range []float64{-0.1, 1.1, math.NaN()} {
				_, _, err := distribution.SplitByProportion(pop, p, 5)
				So(errors.Is(err, distribution.ErrInvalidProportion), ShouldBeTrue)
			}
		})
	})

	Convey("Given an empty tensor", t, func() {
		empty, _ := tensor.New(1, 0, 1)
		_, _, err := distribution.SplitByProportion(empty, 0.5, 0)

		Convey("Then a zero minimum should still allow the split", func() {
			So(err, ShouldBeNil)
		})
	})
}
