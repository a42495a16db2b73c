// Package worker defines the persistence workers for the ingestion queue.
package worker

import "time"

// Option applies a configuration option to a Worker.
type Option func(*Worker)

// WithName sets the worker's name for logging.
func WithName(name string) Option {
	return func(w *Worker) {
		if name != "" {
			w.name = name
		}
	}
}

// WithClock overrides the timestamp source used at persist time.
func WithClock(now func() time.Time) Option {
	return func(w *Worker) {
		if now != nil {
			w.now = now
		}
	}
}
