// Package queue defines the contract for buffering telemetry events between
// the ingestion boundary and the persistence workers.
//
// Ingestion is fire-and-forget from the client's perspective: the handler
// acks as soon as the record is queued, and a full queue surfaces as
// backpressure rather than blocking narrative progression.
package queue

import (
	"context"
	"sync"

	"github.com/okian/bureau/internal/domain/model"
	"github.com/okian/bureau/pkg/metrics"
)

const defaultCapacity = 100_000

// Event is the payload type flowing through the queue.
type Event = model.EventRecord

// Queue provides non-blocking enqueue and channel-based dequeue semantics.
type Queue interface {
	// Enqueue adds an event. Returns false when the queue is full or closed.
	Enqueue(ctx context.Context, e Event) bool

	// Dequeue returns a channel receiving events as they become available.
	// The channel closes when the queue closes.
	Dequeue(ctx context.Context) <-chan Event

	// Len returns the current number of queued events.
	Len(ctx context.Context) int

	// Close shuts the queue down; no further enqueues are accepted.
	Close() error
}

// InMemoryQueue implements Queue over a buffered channel.
type InMemoryQueue struct {
	events   chan Event
	capacity int

	mu     sync.RWMutex
	closed bool
}

// NewInMemoryQueue creates a bounded in-memory queue.
func NewInMemoryQueue(opts ...Option) *InMemoryQueue {
	q := &InMemoryQueue{capacity: defaultCapacity}
	for _, opt := range opts {
		opt(q)
	}
	q.events = make(chan Event, q.capacity)

	metrics.UpdateIngestQueueCapacity(q.capacity)
	metrics.UpdateIngestQueueSize(0)
	return q
}

// Enqueue adds an event to the queue.
func (q *InMemoryQueue) Enqueue(ctx context.Context, e Event) bool {
	q.mu.RLock()
	defer q.mu.RUnlock()

	if q.closed {
		metrics.RecordIngestQueueDrop("closed")
		return false
	}

	select {
	case q.events <- e:
		metrics.UpdateIngestQueueSize(len(q.events))
		return true
	case <-ctx.Done():
		metrics.RecordIngestQueueDrop("context_cancelled")
		return false
	default:
		metrics.RecordIngestQueueDrop("full")
		return false
	}
}

// Dequeue returns a channel that yields events until the queue closes or ctx
// is cancelled.
func (q *InMemoryQueue) Dequeue(ctx context.Context) <-chan Event {
	out := make(chan Event)
	go func() {
		defer close(out)
		for event := range q.events {
			select {
			case out <- event:
				metrics.UpdateIngestQueueSize(len(q.events))
			case <-ctx.Done():
				return
			}
		}
	}()
	return out
}

// Len returns the current number of queued events.
func (q *InMemoryQueue) Len(_ context.Context) int {
	return len(q.events)
}

// Close shuts the queue down.
func (q *InMemoryQueue) Close() error {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed {
		return nil
	}
	close(q.events)
	q.closed = true
	return nil
}
