// Package repository defines the telemetry event log interface and errors.
package repository

type memStoreConfig struct {
	shardCount int
}

// Option applies a configuration option to the MemStore.
type Option func(*memStoreConfig)

// WithShardCount sets the number of shards subjects are spread across.
func WithShardCount(count int) Option {
	return func(c *memStoreConfig) {
		if count > 0 {
			c.shardCount = count
		}
	}
}
