package logger_test

import (
	"context"
	"testing"

	"github.com/okian/bureau/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
)

func TestLogger(t *testing.T) {
	Convey("Given an initialized global logger", t, func() {
		So(logger.Init(), ShouldBeNil)

		Convey("Then Get should return a usable logger", func() {
			log := logger.Get()
			So(log, ShouldNotBeNil)

			// Smoke: none of these should panic.
			ctx := context.Background()
			log.Info(ctx, "info", logger.String("k", "v"))
			log.Warn(ctx, "warn", logger.Int("n", 1))
			log.Error(ctx, "error", logger.Float64("f", 1.5))
			log.Debug(ctx, "debug", logger.Any("x", struct{}{}))
		})

		Convey("Then Named should return a scoped logger", func() {
			So(logger.Named("ingest"), ShouldNotBeNil)
		})

		Convey("Then level strings should parse", func() {
			So(logger.SetLevelString("debug"), ShouldBeNil)
			So(logger.SetLevelString("WARN"), ShouldBeNil)
			So(logger.SetLevelString(""), ShouldBeNil)
			So(logger.SetLevelString("loud"), ShouldNotBeNil)
		})
	})
}
