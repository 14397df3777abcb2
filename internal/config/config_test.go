package config_test

import (
	"errors"
	"testing"

	"github.com/smartystreets/goconvey/convey"

	"github.com/spencer-hanson/SaccadePopulationAnalysis/internal/config"
)

func TestConfig_New(t *testing.T) {
	convey.Convey("Given a new config with default options", t, func() {
		cfg := config.New()

		convey.Convey("Then it should have the analysis defaults", func() {
			convey.So(cfg.BinWidthMS, convey.ShouldEqual, 20)
			convey.So(cfg.WindowBeforeBins, convey.ShouldEqual, 10)
			convey.So(cfg.WindowAfterBins, convey.ShouldEqual, 25)
			convey.So(cfg.SacProbeLatencyBins, convey.ShouldEqual, 10)
			convey.So(cfg.ProbeSacLatencyBins, convey.ShouldEqual, 20)
			convey.So(cfg.CollisionWindowS, convey.ShouldEqual, 0.51)
			convey.So(cfg.IncludeUnmatchedSaccades, convey.ShouldBeFalse)
			convey.So(cfg.NumSamples, convey.ShouldEqual, 10_000)
			convey.So(cfg.NumWorkers, convey.ShouldEqual, 4)
			convey.So(cfg.Metric, convey.ShouldEqual, "euclidean")
			convey.So(cfg.Confidence, convey.ShouldEqual, 0.95)
			convey.So(cfg.HistogramBins, convey.ShouldEqual, 200)
			convey.So(cfg.MinSplitTrials, convey.ShouldEqual, 5)
		})

		convey.Convey("Then it should validate", func() {
			convey.So(cfg.Validate(), convey.ShouldBeNil)
		})
	})
}

func TestConfig_Validate(t *testing.T) {
	convey.Convey("Given configs with one invalid field", t, func() {
		cases := []struct {
			name   string
			mutate func(*config.Config)
		}{
			{"log level", func(c *config.Config) { c.LogLevel = "loud" }},
			{"log format", func(c *config.Config) { c.LogFormat = "xml" }},
			{"bin width", func(c *config.Config) { c.BinWidthMS = 0 }},
			{"window", func(c *config.Config) { c.WindowBeforeBins = -1 }},
			{"collision", func(c *config.Config) { c.CollisionWindowS = -0.1 }},
			{"samples", func(c *config.Config) { c.NumSamples = 0 }},
			{"workers", func(c *config.Config) { c.NumWorkers = 0 }},
			{"metric", func(c *config.Config) { c.Metric = "cosine" }},
			{"confidence", func(c *config.Config) { c.Confidence = 1 }},
			{"bins", func(c *config.Config) { c.HistogramBins = 0 }},
			{"split", func(c *config.Config) { c.MinSplitTrials = -1 }},
		}

		for _, tc := range cases {
			convey.Convey("Then an invalid "+tc.name+" should fail validation", func() {
				cfg := config.New()
				tc.mutate(cfg)
				err := cfg.Validate()
				convey.So(errors.Is(err, config.ErrInvalidConfig), convey.ShouldBeTrue)
			})
		}
	})
}
