package quantification_test

import (
	"errors"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
	"github.com/spencer-hanson/SaccadePopulationAnalysis/internal/domain/quantification"
	"gonum.org/v1/gonum/mat"
)

func TestMetrics(t *testing.T) {
	Convey("Given two (2 units) blocks with different trial counts", t, func() {
		// Unit means: a = (3, 0), b = (0, 4).
		a := mat.NewDense(2, 2, []float64{2, 4, -1, 1})
		b := mat.NewDense(2, 3, []float64{0, 0, 0, 4, 4, 4})

		Convey("Then Euclidean should measure the distance of the mean vectors", func() {
			v, err := quantification.Euclidean{}.Calculate(a, b)
			So(err, ShouldBeNil)
			So(v, ShouldAlmostEqual, 5, 1e-12)
		})

		Convey("Then Angle should be 90 degrees for orthogonal vectors", func() {
			v, err := quantification.Angle{}.Calculate(a, b)
			So(err, ShouldBeNil)
			So(v, ShouldAlmostEqual, 90, 1e-9)
		})

		Convey("Then the magnitude metrics should compare vector norms", func() {
			d, err := quantification.MagnitudeDifference{}.Calculate(a, b)
			So(err, ShouldBeNil)
			So(d, ShouldAlmostEqual, 1, 1e-12)

			q, err := quantification.MagnitudeQuotient{}.Calculate(a, b)
			So(err, ShouldBeNil)
			So(q, ShouldAlmostEqual, 0.75, 1e-12)
		})

		Convey("Then identical blocks should be at distance and angle 0", func() {
			v, err := quantification.Euclidean{}.Calculate(a, a)
			So(err, ShouldBeNil)
			So(v, ShouldEqual, 0)
			ang, err := quantification.Angle{}.Calculate(b, b)
			So(err, ShouldBeNil)
			So(ang, ShouldAlmostEqual, 0, 1e-6)
		})
	})

	Convey("Given blocks with different unit counts", t, func() {
		a := mat.NewDense(2, 1, []float64{1, 2})
		b := mat.NewDense(3, 1, []float64{1, 2, 3})

		Convey("Then every data-driven metric should fail", func() {
			for _, m := range []quantification.Metric{
				quantification.Euclidean{}, quantification.Angle{},
				quantification.MagnitudeDifference{}, quantification.MagnitudeQuotient{},
			} {
				_, err := m.Calculate(a, b)
				So(errors.Is(err, quantification.ErrShapeMismatch), ShouldBeTrue)
			}
		})
	})

	Convey("Given a zero population vector", t, func() {
		a := mat.NewDense(2, 1, []float64{1, 1})
		zero := mat.NewDense(2, 1, nil)

		Convey("Then Angle should be 0 and the quotient should fail", func() {
			v, err := quantification.Angle{}.Calculate(a, zero)
			So(err, ShouldBeNil)
			So(v, ShouldEqual, 0)

			_, err = quantification.MagnitudeQuotient{}.Calculate(a, zero)
			So(errors.Is(err, quantification.ErrZeroMagnitude), ShouldBeTrue)
		})
	})
}

func TestByName(t *testing.T) {
	Convey("Given the registered metric names", t, func() {
		names := quantification.Names()
		So(names, ShouldContain, quantification.NameEuclidean)

		Convey("Then each should resolve to a metric reporting that name", func() {
			for _, name := range names {
				m, err := quantification.ByName(name)
				So(err, ShouldBeNil)
				So(m.Name(), ShouldEqual, name)
			}
		})

		Convey("Then an unknown name should fail", func() {
			_, err := quantification.ByName("cosine")
			So(errors.Is(err, quantification.ErrUnknownMetric), ShouldBeTrue)
		})
	})
}
