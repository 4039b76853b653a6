package config_test

import (
	"errors"
	"runtime"
	"testing"
	"time"

	"github.com/okian/teamforge/internal/config"
	"github.com/smartystreets/goconvey/convey"
)

func TestConfig_New(t *testing.T) {
	convey.Convey("Given a new config with default options", t, func() {
		cfg := config.New()

		convey.Convey("Then it should have sensible defaults", func() {
			convey.So(cfg.Addr, convey.ShouldEqual, ":9080")
			convey.So(cfg.TeamSize, convey.ShouldEqual, 5)
			convey.So(cfg.DefaultRuns, convey.ShouldEqual, 300)
			convey.So(cfg.MaxRuns, convey.ShouldEqual, 1000)
			convey.So(cfg.WallClock(), convey.ShouldEqual, 2*time.Second)
			convey.So(cfg.SwapsPerMS, convey.ShouldEqual, 100)
			convey.So(cfg.MinSteps, convey.ShouldEqual, 50)
			convey.So(cfg.MaxSteps, convey.ShouldEqual, 5000)
			convey.So(cfg.CheckInterval, convey.ShouldEqual, 256)
			convey.So(cfg.Parallelism, convey.ShouldEqual, runtime.NumCPU())
			convey.So(cfg.Seed, convey.ShouldEqual, int64(0))
			convey.So(cfg.Validate(), convey.ShouldBeNil)
		})
	})
}

func TestConfig_Validate(t *testing.T) {
	convey.Convey("Given configs with one bad value each", t, func() {
		cases := map[string]func(*config.Config){
			"team size":      func(c *config.Config) { c.TeamSize = 0 },
			"max runs":       func(c *config.Config) { c.MaxRuns = 0 },
			"wall clock":     func(c *config.Config) { c.MaxWallClockMS = 0 },
			"swaps":          func(c *config.Config) { c.SwapsPerMS = -1 },
			"step bounds":    func(c *config.Config) { c.MinSteps, c.MaxSteps = 100, 10 },
			"check interval": func(c *config.Config) { c.CheckInterval = 0 },
			"parallelism":    func(c *config.Config) { c.Parallelism = 0 },
			"rate limit":     func(c *config.Config) { c.RateLimitBurst = 0 },
			"policy":         func(c *config.Config) { c.TimeoutPolicy = "retry" },
			"log format":     func(c *config.Config) { c.LogFormat = "xml" },
		}

		convey.Convey("Then each fails with ErrInvalidConfig", func() {
			for name, mutate := range cases {
				cfg := config.New()
				mutate(cfg)
				err := cfg.Validate()
				convey.So(errors.Is(err, config.ErrInvalidConfig), convey.ShouldBeTrue)
				convey.So(name, convey.ShouldNotBeEmpty)
			}
		})
	})
}
