package config_test

import (
	"context"
	"errors"
	"os"
	"runtime"
	"testing"

	"github.com/okian/teamforge/internal/config"
	"github.com/smartystreets/goconvey/convey"
)

func TestConfigLoader(t *testing.T) {
	convey.Convey("Given a config loader", t, func() {
		ctx := context.Background()

		convey.Convey("When loading config with defaults only", func() {
			clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should load successfully with defaults", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg, convey.ShouldNotBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":9080")
				convey.So(cfg.TeamSize, convey.ShouldEqual, 5)
				convey.So(cfg.DefaultRuns, convey.ShouldEqual, 300)
				convey.So(cfg.MaxRuns, convey.ShouldEqual, 1000)
				convey.So(cfg.Parallelism, convey.ShouldEqual, runtime.NumCPU())
				convey.So(cfg.TimeoutPolicy, convey.ShouldEqual, "warn")
			})
		})

		convey.Convey("When loading config with environment variables", func() {
			_ = os.Setenv("TEAMFORGE_ADDR", ":8080")
			_ = os.Setenv("TEAMFORGE_TEAM_SIZE", "4")
			_ = os.Setenv("TEAMFORGE_MAX_RUNS", "500")
			_ = os.Setenv("TEAMFORGE_MAX_WALL_CLOCK_MS", "750")
			_ = os.Setenv("TEAMFORGE_TIMEOUT_POLICY", "fail")
			_ = os.Setenv("TEAMFORGE_RATE_LIMIT_RPS", "2.5")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should override defaults with env vars", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":8080")
				convey.So(cfg.TeamSize, convey.ShouldEqual, 4)
				convey.So(cfg.MaxRuns, convey.ShouldEqual, 500)
				convey.So(cfg.WallClock().Milliseconds(), convey.ShouldEqual, int64(750))
				convey.So(cfg.TimeoutPolicy, convey.ShouldEqual, "fail")
				convey.So(cfg.RateLimitRPS, convey.ShouldEqual, 2.5)
			})
		})

		convey.Convey("When loading config with YAML file", func() {
			yamlContent := `
addr: ":9090"
team_size: 6
default_runs: 100
max_steps: 8000
seed: 42
log_format: json
`
			tmpFile := createTempConfigFile(yamlContent)
			defer func() { _ = os.Remove(tmpFile) }()

			_ = os.Setenv("TEAMFORGE_CONFIG", tmpFile)
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should load from YAML file and keep other defaults", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":9090")
				convey.So(cfg.TeamSize, convey.ShouldEqual, 6)
				convey.So(cfg.DefaultRuns, convey.ShouldEqual, 100)
				convey.So(cfg.MaxSteps, convey.ShouldEqual, 8000)
				convey.So(cfg.Seed, convey.ShouldEqual, int64(42))
				convey.So(cfg.LogFormat, convey.ShouldEqual, "json")
				convey.So(cfg.MinSteps, convey.ShouldEqual, 50)
			})
		})

		convey.Convey("When loading config with both file and environment variables", func() {
			yamlContent := `
addr: ":9090"
team_size: 6
`
			tmpFile := createTempConfigFile(yamlContent)
			defer func() { _ = os.Remove(tmpFile) }()

			_ = os.Setenv("TEAMFORGE_CONFIG", tmpFile)
			_ = os.Setenv("TEAMFORGE_ADDR", ":8080")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then environment variables should override file values", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":8080") // Overridden by env
				convey.So(cfg.TeamSize, convey.ShouldEqual, 6)   // From file
			})
		})

		convey.Convey("When loading config with invalid YAML file", func() {
			tmpFile := createTempConfigFile(`invalid: yaml: content: [`)
			defer func() { _ = os.Remove(tmpFile) }()

			_ = os.Setenv("TEAMFORGE_CONFIG", tmpFile)
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should return a load error", func() {
				convey.So(errors.Is(err, config.ErrLoadConfig), convey.ShouldBeTrue)
				convey.So(cfg, convey.ShouldBeNil)
			})
		})

		convey.Convey("When loading config with non-existent file", func() {
			_ = os.Setenv("TEAMFORGE_CONFIG", "/non/existent/file.yaml")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should return a load error", func() {
				convey.So(errors.Is(err, config.ErrLoadConfig), convey.ShouldBeTrue)
				convey.So(cfg, convey.ShouldBeNil)
			})
		})

		convey.Convey("When loading config with invalid numeric environment variables", func() {
			_ = os.Setenv("TEAMFORGE_TEAM_SIZE", "five")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should return an error", func() {
				convey.So(err, convey.ShouldNotBeNil)
				convey.So(cfg, convey.ShouldBeNil)
			})
		})

		convey.Convey("When loading config with YAML file containing an empty addr", func() {
			tmpFile := createTempConfigFile("addr: \"\"\nteam_size: 5\n")
			defer func() { _ = os.Remove(tmpFile) }()

			_ = os.Setenv("TEAMFORGE_CONFIG", tmpFile)
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should return a validation error", func() {
				convey.So(errors.Is(err, config.ErrInvalidConfig), convey.ShouldBeTrue)
				convey.So(err.Error(), convey.ShouldContainSubstring, "addr must not be empty")
				convey.So(cfg, convey.ShouldBeNil)
			})
		})

		convey.Convey("When default_runs exceeds max_runs", func() {
			_ = os.Setenv("TEAMFORGE_DEFAULT_RUNS", "600")
			_ = os.Setenv("TEAMFORGE_MAX_RUNS", "500")
			defer clearConfigEnvVars()

			_, err := config.Load(ctx)

			convey.Convey("Then validation fails", func() {
				convey.So(errors.Is(err, config.ErrInvalidConfig), convey.ShouldBeTrue)
				convey.So(err.Error(), convey.ShouldContainSubstring, "default_runs")
			})
		})
	})
}

// Helper functions.

func clearConfigEnvVars() {
	envVars := []string{
		"TEAMFORGE_CONFIG",
		"TEAMFORGE_ADDR",
		"TEAMFORGE_TEAM_SIZE",
		"TEAMFORGE_DEFAULT_RUNS",
		"TEAMFORGE_MAX_RUNS",
		"TEAMFORGE_MAX_WALL_CLOCK_MS",
		"TEAMFORGE_TIMEOUT_POLICY",
		"TEAMFORGE_RATE_LIMIT_RPS",
	}
	for _, envVar := range envVars {
		_ = os.Unsetenv(envVar)
	}
}

func createTempConfigFile(content string) string {
	tmpFile, err := os.CreateTemp("", "teamforge-config-*.yaml")
	if err != nil {
		panic(err)
	}

	if _, err := tmpFile.WriteString(content); err != nil {
		panic(err)
	}

	if err := tmpFile.Close(); err != nil {
		panic(err)
	}

	return tmpFile.Name()
}
