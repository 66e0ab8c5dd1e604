package season

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestRoundRobin(t *testing.T) {
	Convey("Given four squads and one cycle", t, func() {
		mds := roundRobin(1, []string{"AAA", "BBB", "CCC", "DDD"}, 1)

		Convey("three matchdays of two fixtures each come out", func() {
			So(len(mds), ShouldEqual, 3)
			for _, md := range mds {
				So(len(md), ShouldEqual, 2)
			}
		})

		Convey("every pairing appears exactly once", func() {
			seen := map[string]int{}
			for _, md := range mds {
				for _, fx := range md {
					a, b := fx.Home, fx.Away
					if a > b {
						a, b = b, a
					}
					seen[a+"-"+b]++
				}
			}
			So(len(seen), ShouldEqual, 6)
			for _, n := range seen {
				So(n, ShouldEqual, 1)
			}
		})

		Convey("no squad plays twice on one matchday", func() {
			for _, md := range mds {
				used := map[string]bool{}
				for _, fx := range md {
					So(used[fx.Home], ShouldBeFalse)
					So(used[fx.Away], ShouldBeFalse)
					used[fx.Home] = true
					used[fx.Away] = true
				}
			}
		})
	})

	Convey("Given two cycles the venues flip", t, func() {
		mds := roundRobin(1, []string{"AAA", "BBB", "CCC", "DDD"}, 2)
		So(len(mds), ShouldEqual, 6)

		count := map[string]int{}
		for _, md := range mds {
			for _, fx := range md {
				count[fx.Home+"-"+fx.Away]++
			}
		}
		// each ordered pairing exactly once across the two cycles
		So(len(count), ShouldEqual, 12)
		for _, n := range count {
			So(n, ShouldEqual, 1)
		}
	})

	Convey("Given an odd field a bye keeps everyone resting once per cycle", t, func() {
		mds := roundRobin(1, []string{"AAA", "BBB", "CCC"}, 1)
		So(len(mds), ShouldEqual, 3)
		for _, md := range mds {
			So(len(md), ShouldEqual, 1)
		}
	})

	Convey("Given fewer than two squads there is no schedule", t, func() {
		So(roundRobin(1, []string{"AAA"}, 1), ShouldBeNil)
	})
}
