package worker_test

import (
	"context"
	"os"
	"sync"
	"testing"
	"time"

	queue "github.com/okian/bureau/internal/adapters/mq/queue"
	worker "github.com/okian/bureau/internal/adapters/mq/worker"
	"github.com/okian/bureau/internal/domain/model"
	"github.com/okian/bureau/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
)

func TestMain(m *testing.M) {
	if err := logger.Init(); err != nil {
		os.Exit(1)
	}
	os.Exit(m.Run())
}

// captureStore records appended events for assertions.
type captureStore struct {
	mu     sync.Mutex
	events []model.EventRecord
}

func (c *captureStore) Append(_ context.Context, event model.EventRecord) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.events = append(c.events, event)
	return nil
}

func (c *captureStore) snapshot() []model.EventRecord {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]model.EventRecord, len(c.events))
	copy(out, c.events)
	return out
}

// waitFor polls until the store holds n events or the deadline passes.
func (c *captureStore) waitFor(n int, deadline time.Duration) bool {
	end := time.Now().Add(deadline)
	for time.Now().Before(end) {
		if len(c.snapshot()) >= n {
			return true
		}
		time.Sleep(5 * time.Millisecond)
	}
	return false
}

func TestWorkerPersistsEvents(t *testing.T) {
	Convey("Given a worker draining a queue into a store", t, func() {
		q := queue.NewInMemoryQueue(queue.WithCapacity(16))
		store := &captureStore{}
		stamp := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

		w := worker.NewWorker(q, store,
			worker.WithName("test-worker"),
			worker.WithClock(func() time.Time { return stamp }),
		)

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()
		go w.Run(ctx)

		Convey("When events are enqueued", func() {
			So(q.Enqueue(ctx, model.EventRecord{EventID: "e1", SubjectID: "s"}), ShouldBeTrue)
			So(q.Enqueue(ctx, model.EventRecord{
				EventID:   "e2",
				SubjectID: "s",
				Timestamp: stamp.Add(-time.Hour),
			}), ShouldBeTrue)

			So(store.waitFor(2, 2*time.Second), ShouldBeTrue)
			So(q.Close(), ShouldBeNil)
			shutdownCtx, stop := context.WithTimeout(context.Background(), 2*time.Second)
			defer stop()
			So(w.Shutdown(shutdownCtx), ShouldBeNil)

			Convey("Then all events are persisted", func() {
				events := store.snapshot()
				So(len(events), ShouldEqual, 2)

				Convey("And missing timestamps are server-assigned", func() {
					So(events[0].Timestamp, ShouldEqual, stamp)
					// A timestamp already assigned upstream is preserved.
					So(events[1].Timestamp, ShouldEqual, stamp.Add(-time.Hour))
				})
			})
		})
	})
}

func TestPoolLifecycle(t *testing.T) {
	Convey("Given a pool of workers", t, func() {
		q := queue.NewInMemoryQueue(queue.WithCapacity(64))
		store := &captureStore{}
		pool := worker.NewPool(4, q, store)

		ctx := context.Background()
		pool.Start(ctx)

		Convey("When the queue carries a burst of events", func() {
			for i := 0; i < 32; i++ {
				So(q.Enqueue(ctx, model.EventRecord{EventID: "e", SubjectID: "s"}), ShouldBeTrue)
			}
			So(store.waitFor(32, 2*time.Second), ShouldBeTrue)
			So(q.Close(), ShouldBeNil)
			pool.Stop(2 * time.Second)

			Convey("Then every event is persisted exactly once", func() {
				So(len(store.snapshot()), ShouldEqual, 32)
			})
		})
	})
}
