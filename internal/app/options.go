package app

import (
	"github.com/okian/bureau/internal/domain/inference"
	"github.com/okian/bureau/internal/domain/narrative"
	"github.com/okian/bureau/pkg/logger"
)

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithLogger sets a custom logger for the service.
func WithLogger(log logger.Logger) Option {
	return func(s *Service) {
		if log != nil {
			s.logger = log
		}
	}
}

// WithWorkerCount sets the number of persistence workers.
func WithWorkerCount(count int) Option {
	return func(s *Service) {
		if count > 0 {
			s.workerCount = count
		}
	}
}

// WithQueueSize bounds the ingestion queue.
func WithQueueSize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.queueSize = size
		}
	}
}

// WithDedupeSize bounds the idempotency cache.
func WithDedupeSize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.dedupeSize = size
		}
	}
}

// WithShardCount configures the event log shards.
func WithShardCount(count int) Option {
	return func(s *Service) {
		if count > 0 {
			s.shardCount = count
		}
	}
}

// WithScript replaces the built-in narrative content.
func WithScript(script narrative.Script) Option {
	return func(s *Service) {
		s.script = &script
	}
}

// WithScriptPath loads narrative content from a YAML file at start.
func WithScriptPath(path string) Option {
	return func(s *Service) {
		s.scriptPath = path
	}
}

// WithEngine replaces the default inference engine.
func WithEngine(engine *inference.Engine) Option {
	return func(s *Service) {
		if engine != nil {
			s.engine = engine
		}
	}
}

// WithSessionOptions forwards options to every session the service starts.
// Tests use it to inject a deterministic clock.
func WithSessionOptions(opts ...narrative.Option) Option {
	return func(s *Service) {
		s.sessionOpts = opts
	}
}
