package config_test

import (
	"context"
	"errors"
	"os"
	"strings"
	"testing"

	"github.com/smartystreets/goconvey/convey"

	"github.com/spencer-hanson/SaccadePopulationAnalysis/internal/config"
)

func TestConfigLoader(t *testing.T) {
	convey.Convey("Given a config loader", t, func() {
		ctx := context.Background()

		convey.Convey("When loading config with defaults only", func() {
			clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should load successfully with defaults", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg, convey.ShouldResemble, config.New())
			})
		})

		convey.Convey("When loading config with environment variables", func() {
			_ = os.Setenv("SACCMOD_NUM_SAMPLES", "500")
			_ = os.Setenv("SACCMOD_NUM_WORKERS", "2")
			_ = os.Setenv("SACCMOD_SEED", "42")
			_ = os.Setenv("SACCMOD_METRIC", "angle")
			_ = os.Setenv("SACCMOD_COLLISION_WINDOW_S", "0.4")
			_ = os.Setenv("SACCMOD_INCLUDE_UNMATCHED_SACCADES", "true")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should override defaults with env vars", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.NumSamples, convey.ShouldEqual, 500)
				convey.So(cfg.NumWorkers, convey.ShouldEqual, 2)
				convey.So(cfg.Seed, convey.ShouldEqual, uint64(42))
				convey.So(cfg.Metric, convey.ShouldEqual, "angle")
				convey.So(cfg.CollisionWindowS, convey.ShouldEqual, 0.4)
				convey.So(cfg.IncludeUnmatchedSaccades, convey.ShouldBeTrue)
				convey.So(cfg.BinWidthMS, convey.ShouldEqual, 20) // default
			})
		})

		convey.Convey("When loading config with both file and environment variables", func() {
			yamlContent := `
bin_width_ms: 10
window_before_bins: 20
window_after_bins: 50
num_workers: 8
cache_path: /tmp/saccmod.db
`
			tmpFile := createTempConfigFile(yamlContent)
			defer func() { _ = os.Remove(tmpFile) }()

			_ = os.Setenv("SACCMOD_CONFIG", tmpFile)
			_ = os.Setenv("SACCMOD_NUM_WORKERS", "3") // overrides the file
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then environment variables should override file values", func() {
				convey.So(err, convey.ShouldBeNil)
				// From file
				convey.So(cfg.BinWidthMS, convey.ShouldEqual, 10)
				convey.So(cfg.WindowBeforeBins, convey.ShouldEqual, 20)
				convey.So(cfg.WindowAfterBins, convey.ShouldEqual, 50)
				convey.So(cfg.CachePath, convey.ShouldEqual, "/tmp/saccmod.db")
				// Overridden by env
				convey.So(cfg.NumWorkers, convey.ShouldEqual, 3)
				// From defaults
				convey.So(cfg.NumSamples, convey.ShouldEqual, 10_000)
			})
		})

		convey.Convey("When loading config with invalid YAML file", func() {
			tmpFile := createTempConfigFile(`invalid: yaml: content: [`)
			defer func() { _ = os.Remove(tmpFile) }()

			_ = os.Setenv("SACCMOD_CONFIG", tmpFile)
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should return a load error", func() {
				convey.So(errors.Is(err, config.ErrLoadConfig), convey.ShouldBeTrue)
				convey.So(cfg, convey.ShouldBeNil)
			})
		})

		convey.Convey("When loading config with non-existent file", func() {
			_ = os.Setenv("SACCMOD_CONFIG", "/non/existent/file.yaml")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should return an error", func() {
				convey.So(err, convey.ShouldNotBeNil)
				convey.So(cfg, convey.ShouldBeNil)
			})
		})

		convey.Convey("When loading config with an invalid value", func() {
			_ = os.Setenv("SACCMOD_NUM_WORKERS", "0")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should return a validation error", func() {
				convey.So(errors.Is(err, config.ErrInvalidConfig), convey.ShouldBeTrue)
				convey.So(err.Error(), convey.ShouldContainSubstring, "num_workers")
				convey.So(cfg, convey.ShouldBeNil)
			})
		})
	})
}

// clearConfigEnvVars removes every SACCMOD_ variable.
func clearConfigEnvVars() {
	for _, kv := range os.Environ() {
		name, _, _ := strings.Cut(kv, "=")
		if strings.HasPrefix(name, config.EnvPrefix) {
			_ = os.Unsetenv(name)
		}
	}
}

// createTempConfigFile creates a temporary config file with the given content.
func createTempConfigFile(content string) string {
	tmpFile, err := os.CreateTemp("", "saccmod-config-*.yaml")
	if err != nil {
		panic(err)
	}
	defer func() { _ = tmpFile.Close() }()

	if _, err := tmpFile.WriteString(content); err != nil {
		panic(err)
	}
	return tmpFile.Name()
}
