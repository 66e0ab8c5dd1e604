package queue

import (
	"context"
	"testing"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/okian/calcio/internal/domain/model"
	"github.com/okian/calcio/internal/domain/season"
)

func TestInMemoryQueue(t *testing.T) {
	ctx := context.Background()

	Convey("Given a bounded queue", t, func() {
		q := NewInMemoryQueue(WithCapacity(2), WithBufferSize(2))

		item := func(i int) Item {
			return Item{Index: i, Job: season.Job{Fixture: model.Fixture{Index: i}}}
		}

		Convey("items flow through in order", func() {
			So(q.Enqueue(ctx, item(0)), ShouldBeTrue)
			So(q.Enqueue(ctx, item(1)), ShouldBeTrue)
			So(q.Len(ctx), ShouldEqual, 2)

			So(q.Close(), ShouldBeNil)
			got := make([]int, 0, 2)
			for it := range q.Dequeue(ctx) {
				got = append(got, it.Index)
			}
			So(got, ShouldResemble, []int{0, 1})
		})

		Convey("enqueue beyond capacity is refused", func() {
			So(q.Enqueue(ctx, item(0)), ShouldBeTrue)
			So(q.Enqueue(ctx, item(1)), ShouldBeTrue)
			So(q.Enqueue(ctx, item(2)), ShouldBeFalse)
		})

		Convey("a closed queue refuses new items", func() {
			So(q.Close(), ShouldBeNil)
			So(q.IsClosed(), ShouldBeTrue)
			So(q.Enqueue(ctx, item(0)), ShouldBeFalse)

			Convey("and closing again is harmless", func() {
				So(q.Close(), ShouldBeNil)
			})
		})
	})
}
