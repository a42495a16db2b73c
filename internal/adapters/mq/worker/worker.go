// Package worker defines the persistence workers that drain the ingestion
// queue into the event log.
package worker

import (
	"context"
	"fmt"
	"runtime"
	"strconv"
	"time"

	"github.com/okian/bureau/internal/domain/model"
	"github.com/okian/bureau/pkg/logger"
	"github.com/okian/bureau/pkg/metrics"
)

const defaultWorkerMultiplier = 2 // multiplier for runtime.NumCPU()

// Event is what workers read off the queue.
type Event = model.EventRecord

// Appender persists one event record.
type Appender interface {
	Append(ctx context.Context, event model.EventRecord) error
}

// Queue defines how workers receive events.
type Queue interface {
	Dequeue(ctx context.Context) <-chan Event
}

// Worker drains the queue into the event log until stopped. The server-side
// timestamp is assigned here, at persist time: client clocks are not trusted.
type Worker struct {
	queue    Queue
	appender Appender
	name     string
	now      func() time.Time

	shutdown chan struct{}
	done     chan struct{}

	logger logger.Logger
}

// NewWorker creates a worker with configuration options.
func NewWorker(queue Queue, appender Appender, opts ...Option) *Worker {
	w := &Worker{
		queue:    queue,
		appender: appender,
		name:     "worker",
		now:      time.Now,
		shutdown: make(chan struct{}),
		done:     make(chan struct{}),
	}
	for _, opt := range opts {
		opt(w)
	}
	w.logger = logger.Get().Named(w.name)
	return w
}

// Run starts the worker loop until ctx is cancelled, Shutdown is called, or
// the queue closes.
func (w *Worker) Run(ctx context.Context) {
	defer close(w.done)

	events := w.queue.Dequeue(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-w.shutdown:
			return
		case event, ok := <-events:
			if !ok {
				return
			}
			if err := w.persist(ctx, event); err != nil {
				w.logger.Error(ctx, "persisting event failed",
					logger.String("eventID", event.EventID),
					logger.Error(err),
				)
			}
		}
	}
}

// Shutdown stops the worker and waits for it to finish or ctx to expire.
func (w *Worker) Shutdown(ctx context.Context) error {
	close(w.shutdown)
	select {
	case <-w.done:
		return nil
	case <-ctx.Done():
		return fmt.Errorf("worker %s shutdown timed out: %w", w.name, ctx.Err())
	}
}

func (w *Worker) persist(ctx context.Context, event Event) error {
	start := time.Now()
	defer func() {
		metrics.RecordPersistLatency(float64(time.Since(start).Milliseconds()))
	}()

	if event.Timestamp.IsZero() {
		event.Timestamp = w.now()
	}
	if err := w.appender.Append(ctx, event); err != nil {
		metrics.RecordPersistError()
		return fmt.Errorf("append event %s: %w", event.EventID, err)
	}
	metrics.RecordEventPersisted()
	return nil
}

// Pool manages a fixed set of workers over one queue.
type Pool struct {
	workers []*Worker
	cancel  context.CancelFunc
	logger  logger.Logger
}

// NewPool creates a pool of workerCount workers.
func NewPool(workerCount int, queue Queue, appender Appender, opts ...Option) *Pool {
	if workerCount < 1 {
		workerCount = runtime.NumCPU() * defaultWorkerMultiplier
	}

	p := &Pool{
		workers: make([]*Worker, workerCount),
		logger:  logger.Get().Named("worker-pool"),
	}
	for i := range p.workers {
		named := append([]Option{WithName("worker-" + strconv.Itoa(i))}, opts...)
		p.workers[i] = NewWorker(queue, appender, named...)
	}

	metrics.UpdateWorkerCount(workerCount)
	return p
}

// Start launches all workers.
func (p *Pool) Start(ctx context.Context) {
	runCtx, cancel := context.WithCancel(ctx)
	p.cancel = cancel
	for _, w := range p.workers {
		go w.Run(runCtx)
	}
	p.logger.Info(ctx, "worker pool started", logger.Int("workers", len(p.workers)))
}

// Stop shuts all workers down, waiting up to timeout for each.
func (p *Pool) Stop(timeout time.Duration) {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	for _, w := range p.workers {
		if err := w.Shutdown(ctx); err != nil {
			p.logger.Warn(ctx, "worker did not stop cleanly", logger.Error(err))
		}
	}
	if p.cancel != nil {
		p.cancel()
	}
}
