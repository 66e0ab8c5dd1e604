package repository

import (
	"context"
	"testing"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/okian/calcio/internal/domain/model"
)

func sampleSnapshot(index int) *model.SeasonSnapshot {
	return &model.SeasonSnapshot{
		State: model.SeasonState{Index: index, Phase: model.PhaseActive, Matchday: 3, Day: 21},
		Seed:  42,
		Squads: []*model.Squad{
			{Code: "AAA", Name: "AAA FC", Players: []*model.Player{
				{ID: "AAA-01", Name: "One", Position: model.PosGK, Age: 27},
			}},
		},
	}
}

func TestMemoryStore(t *testing.T) {
	ctx := context.Background()

	Convey("Given an empty store", t, func() {
		s := NewMemoryStore()

		Convey("loads report not found", func() {
			_, err := s.LoadSnapshot(ctx, 1)
			So(err, ShouldEqual, ErrNotFound)
			_, err = s.LatestSnapshot(ctx)
			So(err, ShouldEqual, ErrNotFound)
		})

		Convey("a saved snapshot round-trips by value", func() {
			orig := sampleSnapshot(1)
			So(s.SaveSnapshot(ctx, orig), ShouldBeNil)

			got, err := s.LoadSnapshot(ctx, 1)
			So(err, ShouldBeNil)
			So(got.State, ShouldResemble, orig.State)
			So(got.Squads[0].Code, ShouldEqual, "AAA")

			// mutating the loaded copy must not touch the stored bytes
			got.Squads[0].Code = "ZZZ"
			again, err := s.LoadSnapshot(ctx, 1)
			So(err, ShouldBeNil)
			So(again.Squads[0].Code, ShouldEqual, "AAA")
		})

		Convey("saving the same index twice overwrites", func() {
			So(s.SaveSnapshot(ctx, sampleSnapshot(1)), ShouldBeNil)
			newer := sampleSnapshot(1)
			newer.State.Matchday = 9
			So(s.SaveSnapshot(ctx, newer), ShouldBeNil)

			got, err := s.LoadSnapshot(ctx, 1)
			So(err, ShouldBeNil)
			So(got.State.Matchday, ShouldEqual, 9)
		})

		Convey("latest picks the highest season index", func() {
			So(s.SaveSnapshot(ctx, sampleSnapshot(1)), ShouldBeNil)
			So(s.SaveSnapshot(ctx, sampleSnapshot(3)), ShouldBeNil)
			So(s.SaveSnapshot(ctx, sampleSnapshot(2)), ShouldBeNil)

			got, err := s.LatestSnapshot(ctx)
			So(err, ShouldBeNil)
			So(got.State.Index, ShouldEqual, 3)
		})

		Convey("ledger events accumulate", func() {
			So(s.AppendLedger(ctx, []model.LedgerEvent{
				{Type: model.LedgerWages, Season: 1, Amount: 100},
			}), ShouldBeNil)
			So(s.AppendLedger(ctx, []model.LedgerEvent{
				{Type: model.LedgerBonus, Season: 1, Amount: 50},
			}), ShouldBeNil)
			So(len(s.Ledger()), ShouldEqual, 2)
		})
	})
}
