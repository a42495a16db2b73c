// Package metrics exposes the service's Prometheus instruments.
//
// A dedicated registry keeps the scrape surface limited to instruments this
// package declares; the default Go and process collectors are not included.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	registry = prometheus.NewRegistry()

	eventsAccepted = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "bureau_events_accepted_total",
		Help: "Telemetry events accepted at the ingestion boundary.",
	})
	eventsDuplicate = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "bureau_events_duplicate_total",
		Help: "Telemetry events rejected as duplicates.",
	})
	eventsPersisted = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "bureau_events_persisted_total",
		Help: "Telemetry events appended to the event log.",
	})
	persistErrors = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "bureau_persist_errors_total",
		Help: "Event log append failures.",
	})
	persistLatency = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "bureau_persist_latency_ms",
		Help:    "Latency of persisting one event, in milliseconds.",
		Buckets: prometheus.ExponentialBuckets(0.1, 2, 12),
	})

	queueSize = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "bureau_ingest_queue_size",
		Help: "Events currently buffered in the ingestion queue.",
	})
	queueCapacity = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "bureau_ingest_queue_capacity",
		Help: "Configured capacity of the ingestion queue.",
	})
	queueDrops = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "bureau_ingest_queue_drops_total",
		Help: "Events not enqueued, by reason.",
	}, []string{"reason"})

	workerCount = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "bureau_workers",
		Help: "Number of persistence workers.",
	})

	eventLogShards = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "bureau_eventlog_shards",
		Help: "Configured shard count of the event log.",
	})
	eventLogRecords = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "bureau_eventlog_records",
		Help: "Total records held in the event log.",
	})

	sessionsActive = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "bureau_sessions_active",
		Help: "Narrative sessions currently in progress.",
	})
	sessionsStarted = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "bureau_sessions_started_total",
		Help: "Narrative sessions started.",
	})
	sessionsCompleted = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "bureau_sessions_completed_total",
		Help: "Narrative sessions that reached the terminal state.",
	})

	inferenceLatency = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "bureau_inference_latency_ms",
		Help:    "Latency of one profile inference, in milliseconds.",
		Buckets: prometheus.ExponentialBuckets(0.01, 2, 12),
	})
	verdicts = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "bureau_verdicts_total",
		Help: "Verdicts computed, by outcome.",
	}, []string{"outcome"})

	httpRequests = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "bureau_http_requests_total",
		Help: "HTTP requests served, by endpoint, method and status.",
	}, []string{"endpoint", "method", "status"})
	httpDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "bureau_http_request_duration_ms",
		Help:    "HTTP request duration in milliseconds.",
		Buckets: prometheus.ExponentialBuckets(0.5, 2, 12),
	}, []string{"endpoint", "method"})
)

func init() { //nolint:gochecknoinits // intentional init for global metrics setup
	registry.MustRegister(
		eventsAccepted,
		eventsDuplicate,
		eventsPersisted,
		persistErrors,
		persistLatency,
		queueSize,
		queueCapacity,
		queueDrops,
		workerCount,
		eventLogShards,
		eventLogRecords,
		sessionsActive,
		sessionsStarted,
		sessionsCompleted,
		inferenceLatency,
		verdicts,
		httpRequests,
		httpDuration,
	)
}

// GetRegistry returns the registry all instruments are registered on.
func GetRegistry() *prometheus.Registry { return registry }

// Ingestion boundary.

func RecordEventAccepted()  { eventsAccepted.Inc() }
func RecordEventDuplicate() { eventsDuplicate.Inc() }

// Persistence pipeline.

func RecordEventPersisted()               { eventsPersisted.Inc() }
func RecordPersistError()                 { persistErrors.Inc() }
func RecordPersistLatency(ms float64)     { persistLatency.Observe(ms) }
func UpdateIngestQueueSize(size int)      { queueSize.Set(float64(size)) }
func UpdateIngestQueueCapacity(c int)     { queueCapacity.Set(float64(c)) }
func RecordIngestQueueDrop(reason string) { queueDrops.WithLabelValues(reason).Inc() }
func UpdateWorkerCount(count int)         { workerCount.Set(float64(count)) }

// Event log.

func UpdateEventLogShardCount(count int)   { eventLogShards.Set(float64(count)) }
func UpdateEventLogRecordsTotal(count int) { eventLogRecords.Set(float64(count)) }

// Narrative sessions.

func UpdateActiveSessions(count int) { sessionsActive.Set(float64(count)) }
func RecordSessionStarted()          { sessionsStarted.Inc() }
func RecordSessionCompleted()        { sessionsCompleted.Inc() }

// Inference.

func RecordInferenceLatency(ms float64) { inferenceLatency.Observe(ms) }
func RecordVerdict(outcome string)      { verdicts.WithLabelValues(outcome).Inc() }

// HTTP surface.

func RecordHTTPRequest(endpoint, method, status string) {
	httpRequests.WithLabelValues(endpoint, method, status).Inc()
}

func RecordHTTPRequestDuration(endpoint, method string, ms float64) {
	httpDuration.WithLabelValues(endpoint, method).Observe(ms)
}
