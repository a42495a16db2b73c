// Package dedupe defines the interface for idempotency tracking.
package dedupe

// Option applies a configuration option to the in-memory deduper.
type Option func(*inMemoryDeduper)

// WithMaxSize bounds the number of IDs kept before FIFO eviction.
func WithMaxSize(size int) Option {
	return func(d *inMemoryDeduper) {
		if size > 0 {
			d.maxSize = size
		}
	}
}
