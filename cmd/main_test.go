package main

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/smartystreets/goconvey/convey"

	"github.com/okian/bureau/internal/adapters/http/api"
	"github.com/okian/bureau/internal/adapters/http/swagger"
	app "github.com/okian/bureau/internal/app"
	"github.com/okian/bureau/internal/config"
	"github.com/okian/bureau/pkg/logger"
)

func TestMain(m *testing.M) {
	if err := logger.Init(); err != nil {
		os.Exit(1)
	}
	os.Exit(m.Run())
}

func TestMainFunction(t *testing.T) {
	convey.Convey("Given the main application", t, func() {
		convey.Convey("When testing configuration loading", func() {
			_ = os.Setenv("BUREAU_ADDR", ":8080")
			_ = os.Setenv("BUREAU_QUEUE_SIZE", "1000")
			_ = os.Setenv("BUREAU_WORKER_COUNT", "4")
			defer func() {
				_ = os.Unsetenv("BUREAU_ADDR")
				_ = os.Unsetenv("BUREAU_QUEUE_SIZE")
				_ = os.Unsetenv("BUREAU_WORKER_COUNT")
			}()

			convey.Convey("Then configuration should be loadable", func() {
				ctx := context.Background()
				cfg, err := config.Load(ctx)
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg, convey.ShouldNotBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":8080")
				convey.So(cfg.EventQueueSize, convey.ShouldEqual, 1000)
				convey.So(cfg.WorkerCount, convey.ShouldEqual, 4)
			})
		})

		convey.Convey("When testing service creation", func() {
			convey.Convey("Then service should be creatable with default options", func() {
				svc := app.New()
				convey.So(svc, convey.ShouldNotBeNil)
			})

			convey.Convey("And service should be creatable with custom options", func() {
				svc := app.New(
					app.WithWorkerCount(8),
					app.WithQueueSize(2000),
					app.WithDedupeSize(1000),
				)
				convey.So(svc, convey.ShouldNotBeNil)
			})
		})

		convey.Convey("When testing HTTP server creation", func() {
			svc := app.New()
			convey.So(svc, convey.ShouldNotBeNil)

			convey.Convey("Then HTTP server should be creatable", func() {
				server := api.NewServer(svc)
				convey.So(server, convey.ShouldNotBeNil)
			})
		})
	})
}

func TestFullWiring(t *testing.T) {
	convey.Convey("Given a started service wired to a mux", t, func() {
		ctx := context.Background()
		svc := app.New(app.WithWorkerCount(1), app.WithQueueSize(64))
		convey.So(svc.Start(ctx), convey.ShouldBeNil)
		defer svc.Stop()

		mux := http.NewServeMux()
		swagger.Register(ctx, mux)
		api.NewServer(svc).Register(ctx, mux)

		convey.Convey("A subject can be vetted end to end over HTTP", func() {
			// Start a session.
			w := httptest.NewRecorder()
			mux.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/sessions", http.NoBody))
			convey.So(w.Code, convey.ShouldEqual, http.StatusCreated)

			convey.Convey("And the documentation routes are reachable", func() {
				w := httptest.NewRecorder()
				mux.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/openapi.yaml", http.NoBody))
				convey.So(w.Code, convey.ShouldEqual, http.StatusOK)
			})

			convey.Convey("And the metrics endpoint serves the registry", func() {
				w := httptest.NewRecorder()
				mux.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/healthz", http.NoBody))
				convey.So(w.Code, convey.ShouldEqual, http.StatusOK)
			})
		})
	})
}

func TestServiceMetricsUpdater(t *testing.T) {
	convey.Convey("Given a started service", t, func() {
		ctx, cancel := context.WithCancel(context.Background())
		svc := app.New(app.WithWorkerCount(1))
		convey.So(svc.Start(ctx), convey.ShouldBeNil)
		defer svc.Stop()

		convey.Convey("The metrics updater runs and stops with the context", func() {
			done := make(chan struct{})
			go func() {
				startServiceMetricsUpdater(ctx, svc)
				close(done)
			}()

			updateServiceMetrics(ctx, svc)
			cancel()

			select {
			case <-done:
			case <-time.After(2 * time.Second):
				t.Fatal("metrics updater did not stop")
			}
		})
	})
}
