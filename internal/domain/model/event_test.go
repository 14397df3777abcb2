package model_test

import (
	"errors"
	"testing"

	"github.com/smartystreets/goconvey/convey"
	model "github.com/spencer-hanson/SaccadePopulationAnalysis/internal/domain/model"
)

func TestStream(t *testing.T) {
	convey.Convey("Given an event stream", t, func() {
		convey.Convey("When the arrays are aligned", func() {
			s := model.Stream{
				Timestamps: []float64{0.5, 1.5},
				Motions:    []int{-1, 1},
				Blocks:     []int{0, 3},
			}
			events, err := s.Events()

			convey.Convey("Then it should zip them into events", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(s.Len(), convey.ShouldEqual, 2)
				convey.So(events, convey.ShouldResemble, []model.Event{
					{Time: 0.5, MotionDirection: -1, BlockIdx: 0},
					{Time: 1.5, MotionDirection: 1, BlockIdx: 3},
				})
			})
		})

		convey.Convey("When motions are missing an entry", func() {
			s := model.Stream{
				Timestamps: []float64{0.5, 1.5},
				Motions:    []int{-1},
				Blocks:     []int{0, 3},
			}
			_, err := s.Events()

			convey.Convey("Then it should fail with a length mismatch", func() {
				convey.So(errors.Is(err, model.ErrLengthMismatch), convey.ShouldBeTrue)
				convey.So(errors.Is(s.Validate(), model.ErrLengthMismatch), convey.ShouldBeTrue)
			})
		})

		convey.Convey("When the stream is empty", func() {
			events, err := model.Stream{}.Events()

			convey.Convey("Then it should produce no events", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(events, convey.ShouldBeEmpty)
			})
		})
	})
}
