package queue_test

import (
	"context"
	"testing"

	queue "github.com/okian/bureau/internal/adapters/mq/queue"
	"github.com/okian/bureau/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
)

func TestInMemoryQueue(t *testing.T) {
	Convey("Given a queue with capacity 2", t, func() {
		q := queue.NewInMemoryQueue(queue.WithCapacity(2))
		ctx := context.Background()

		Convey("When enqueueing within capacity", func() {
			So(q.Enqueue(ctx, model.EventRecord{EventID: "1"}), ShouldBeTrue)
			So(q.Enqueue(ctx, model.EventRecord{EventID: "2"}), ShouldBeTrue)
			So(q.Len(ctx), ShouldEqual, 2)

			Convey("Then a third enqueue reports backpressure", func() {
				So(q.Enqueue(ctx, model.EventRecord{EventID: "3"}), ShouldBeFalse)
			})

			Convey("And dequeue yields events in order", func() {
				So(q.Close(), ShouldBeNil)

				var got []string
				for e := range q.Dequeue(ctx) {
					got = append(got, e.EventID)
				}
				So(got, ShouldResemble, []string{"1", "2"})
			})
		})

		Convey("When the queue is closed", func() {
			So(q.Close(), ShouldBeNil)

			Convey("Then enqueue is rejected and closing again is a no-op", func() {
				So(q.Enqueue(ctx, model.EventRecord{EventID: "x"}), ShouldBeFalse)
				So(q.Close(), ShouldBeNil)
			})
		})

		Convey("When the queue closes while a consumer is draining", func() {
			ch := q.Dequeue(ctx)
			So(q.Enqueue(ctx, model.EventRecord{EventID: "1"}), ShouldBeTrue)
			So(q.Close(), ShouldBeNil)

			Convey("Then the consumer channel closes after the backlog", func() {
				var got []string
				for e := range ch {
					got = append(got, e.EventID)
				}
				So(got, ShouldResemble, []string{"1"})
			})
		})
	})
}
