package repository_test

import (
	"context"
	"fmt"
	"sync"
	"testing"

	repository "github.com/okian/bureau/internal/adapters/repository"
	"github.com/okian/bureau/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
)

func TestMemStore(t *testing.T) {
	Convey("Given an empty event log", t, func() {
		store := repository.NewMemStore(repository.WithShardCount(4))
		ctx := context.Background()

		Convey("Then an unknown subject yields an empty history, not an error", func() {
			events, err := store.EventsOf(ctx, "nobody")
			So(err, ShouldBeNil)
			So(events, ShouldBeEmpty)
			So(store.Count(ctx), ShouldEqual, 0)
		})

		Convey("When appending records for two subjects", func() {
			for i := 0; i < 3; i++ {
				err := store.Append(ctx, model.EventRecord{
					EventID:      fmt.Sprintf("a#%d", i),
					SubjectID:    "subject-a",
					ChoiceWeight: float64(i),
				})
				So(err, ShouldBeNil)
			}
			So(store.Append(ctx, model.EventRecord{EventID: "b#0", SubjectID: "subject-b"}), ShouldBeNil)

			Convey("Then histories stay isolated and ordered", func() {
				a, err := store.EventsOf(ctx, "subject-a")
				So(err, ShouldBeNil)
				So(len(a), ShouldEqual, 3)
				So(a[0].EventID, ShouldEqual, "a#0")
				So(a[2].EventID, ShouldEqual, "a#2")

				b, err := store.EventsOf(ctx, "subject-b")
				So(err, ShouldBeNil)
				So(len(b), ShouldEqual, 1)

				So(store.Count(ctx), ShouldEqual, 4)
				So(len(store.Subjects(ctx)), ShouldEqual, 2)
			})

			Convey("Then returned slices are copies of the log", func() {
				a, _ := store.EventsOf(ctx, "subject-a")
				a[0].ChoiceWeight = 99

				again, _ := store.EventsOf(ctx, "subject-a")
				So(again[0].ChoiceWeight, ShouldEqual, 0)
			})
		})

		Convey("When appending concurrently for many subjects", func() {
			const subjects = 16
			const perSubject = 25

			var wg sync.WaitGroup
			for s := 0; s < subjects; s++ {
				wg.Add(1)
				go func(s int) {
					defer wg.Done()
					id := fmt.Sprintf("subject-%d", s)
					for i := 0; i < perSubject; i++ {
						_ = store.Append(ctx, model.EventRecord{
							EventID:   fmt.Sprintf("%s#%d", id, i),
							SubjectID: id,
						})
					}
				}(s)
			}
			wg.Wait()

			Convey("Then every record lands in its subject's history", func() {
				So(store.Count(ctx), ShouldEqual, subjects*perSubject)
				So(len(store.Subjects(ctx)), ShouldEqual, subjects)
				for s := 0; s < subjects; s++ {
					events, err := store.EventsOf(ctx, fmt.Sprintf("subject-%d", s))
					So(err, ShouldBeNil)
					So(len(events), ShouldEqual, perSubject)
				}
			})
		})
	})
}
