package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/okian/bureau/internal/adapters/http/api"
	"github.com/okian/bureau/internal/adapters/http/swagger"
	app "github.com/okian/bureau/internal/app"
	"github.com/okian/bureau/internal/config"
	"github.com/okian/bureau/internal/domain/inference"
	"github.com/okian/bureau/pkg/logger"
	"github.com/okian/bureau/pkg/metrics"
)

// HTTP server timeout constants.
const (
	readTimeout            = 10 * time.Second
	writeTimeout           = 10 * time.Second
	idleTimeout            = 60 * time.Second
	readHeaderTimeout      = 5 * time.Second
	shutdownTimeout        = 30 * time.Second
	serviceMetricsInterval = 5 * time.Second
)

func main() {
	// Disable default Go metrics collection; the custom registry carries
	// only service metrics.
	prometheus.Unregister(collectors.NewGoCollector())
	prometheus.Unregister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	if err := logger.Init(); err != nil {
		os.Stderr.WriteString("failed to initialize logging: " + err.Error() + "\n")
		return
	}
	loggerInstance := logger.Get()

	// Root context with cancel on SIGINT/SIGTERM.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Load configuration (defaults -> optional file -> env)
	cfg, err := config.Load(ctx)
	if err != nil {
		os.Stderr.WriteString("failed to load config: " + err.Error() + "\n")
		return
	}

	if err := logger.SetLevelString(cfg.LogLevel); err != nil {
		loggerInstance.Warn(ctx, "invalid log_level; falling back to info", logger.String("log_level", cfg.LogLevel), logger.Error(err))
		_ = logger.SetLevelString("info")
	}

	engine := inference.New(
		inference.WithTraitMultiplier(cfg.TraitMultiplier),
		inference.WithJitterThresholds(cfg.JitterCalm, cfg.JitterModerate, cfg.JitterHigh),
		inference.WithJitterAdjustments(cfg.JitterCalmAdjust, cfg.JitterModerateBonus, cfg.JitterHighBonus),
		inference.WithReactionThresholds(cfg.ReactionFastMs, cfg.ReactionConfidenceMaxMs, cfg.ReactionSlowMs),
		inference.WithReactionAdjustments(cfg.ImpulsivityPenalty, cfg.IndecisionPenalty, cfg.ConfidenceBonus),
		inference.WithRejectionRules(cfg.RejectNeuroticismAbove, cfg.RejectAgreeablenessBelow, cfg.RejectConscientiousnessBelow),
	)

	svc := app.New(
		app.WithLogger(loggerInstance),
		app.WithWorkerCount(cfg.WorkerCount),
		app.WithQueueSize(cfg.EventQueueSize),
		app.WithDedupeSize(cfg.DedupeSize),
		app.WithShardCount(cfg.ShardCount),
		app.WithScriptPath(cfg.ScriptPath),
		app.WithEngine(engine),
	)
	if err := svc.Start(ctx); err != nil {
		loggerInstance.Error(ctx, "failed to start service", logger.Error(err))
		return
	}
	defer svc.Stop()

	metrics.UpdateWorkerCount(cfg.WorkerCount)
	metrics.UpdateIngestQueueCapacity(cfg.EventQueueSize)
	metrics.UpdateEventLogShardCount(cfg.ShardCount)

	// Background gauge refresh from live service stats.
	go startServiceMetricsUpdater(ctx, svc)

	// HTTP mux and routes.
	mux := http.NewServeMux()

	// API documentation routes.
	swagger.Register(ctx, mux)

	// Business API routes.
	apiServer := api.NewServer(svc)
	apiServer.Register(ctx, mux)

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           mux,
		ReadTimeout:       readTimeout,
		WriteTimeout:      writeTimeout,
		IdleTimeout:       idleTimeout,
		ReadHeaderTimeout: readHeaderTimeout,
	}

	go func() {
		loggerInstance.Info(ctx, "starting HTTP server", logger.String("addr", cfg.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			loggerInstance.Error(ctx, "HTTP server failed", logger.Error(err))
		}
	}()

	<-ctx.Done()
	loggerInstance.Info(ctx, "shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		loggerInstance.Error(ctx, "server shutdown failed", logger.Error(err))
	}

	loggerInstance.Info(ctx, "server stopped")
}

// startServiceMetricsUpdater refreshes gauges that track live service state.
func startServiceMetricsUpdater(ctx context.Context, svc *app.Service) {
	ticker := time.NewTicker(serviceMetricsInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			updateServiceMetrics(ctx, svc)
		}
	}
}

// updateServiceMetrics pushes service stats into the metrics registry.
func updateServiceMetrics(ctx context.Context, svc *app.Service) {
	stats := svc.Stats(ctx)

	if stored, ok := stats["events_stored"].(int); ok {
		metrics.UpdateEventLogRecordsTotal(stored)
	}
	if depth, ok := stats["queue_depth"].(int); ok {
		metrics.UpdateIngestQueueSize(depth)
	}
	if sessions, ok := stats["sessions"].(int); ok {
		metrics.UpdateActiveSessions(sessions)
	}
}
