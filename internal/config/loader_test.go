package config_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/okian/bureau/internal/config"
	"github.com/smartystreets/goconvey/convey"
)

func clearConfigEnvVars() {
	for _, key := range []string{
		"BUREAU_CONFIG",
		"BUREAU_ADDR",
		"BUREAU_QUEUE_SIZE",
		"BUREAU_WORKER_COUNT",
		"BUREAU_TRAIT_MULTIPLIER",
		"BUREAU_JITTER_HIGH",
		"BUREAU_SCRIPT_PATH",
	} {
		_ = os.Unsetenv(key)
	}
}

func TestConfigLoader(t *testing.T) {
	convey.Convey("Given a config loader", t, func() {
		ctx := context.Background()

		convey.Convey("When loading config with defaults only", func() {
			clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should load the reference constants", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":9080")
				convey.So(cfg.TraitMultiplier, convey.ShouldEqual, 10)
				convey.So(cfg.JitterModerate, convey.ShouldEqual, 600)
				convey.So(cfg.JitterHigh, convey.ShouldEqual, 1200)
				convey.So(cfg.ReactionFastMs, convey.ShouldEqual, 1000)
				convey.So(cfg.ReactionSlowMs, convey.ShouldEqual, 5000)
				convey.So(cfg.RejectNeuroticismAbove, convey.ShouldEqual, 80)
				convey.So(cfg.ScriptPath, convey.ShouldBeEmpty)
			})
		})

		convey.Convey("When loading config with environment variables", func() {
			_ = os.Setenv("BUREAU_ADDR", ":8080")
			_ = os.Setenv("BUREAU_TRAIT_MULTIPLIER", "12")
			_ = os.Setenv("BUREAU_SCRIPT_PATH", "/etc/bureau/script.yaml")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then env vars should override defaults", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":8080")
				convey.So(cfg.TraitMultiplier, convey.ShouldEqual, 12)
				convey.So(cfg.ScriptPath, convey.ShouldEqual, "/etc/bureau/script.yaml")
				// Untouched values keep their defaults.
				convey.So(cfg.JitterModerate, convey.ShouldEqual, 600)
			})
		})

		convey.Convey("When loading config from a YAML file", func() {
			clearConfigEnvVars()
			path := filepath.Join(t.TempDir(), "bureau.yaml")
			yaml := "addr: \":7000\"\njitter_moderate: 500\njitter_high: 1000\n"
			convey.So(os.WriteFile(path, []byte(yaml), 0o600), convey.ShouldBeNil)
			_ = os.Setenv("BUREAU_CONFIG", path)
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then file values should override defaults", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":7000")
				convey.So(cfg.JitterModerate, convey.ShouldEqual, 500)
				convey.So(cfg.JitterHigh, convey.ShouldEqual, 1000)
			})

			convey.Convey("And env should override the file", func() {
				_ = os.Setenv("BUREAU_ADDR", ":7001")
				cfg, err := config.Load(ctx)
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":7001")
			})
		})

		convey.Convey("When the configured thresholds are inconsistent", func() {
			clearConfigEnvVars()
			_ = os.Setenv("BUREAU_JITTER_HIGH", "10")
			defer clearConfigEnvVars()

			_, err := config.Load(ctx)

			convey.Convey("Then loading should fail", func() {
				convey.So(err, convey.ShouldWrap, config.ErrInvalidConfig)
			})
		})
	})
}
