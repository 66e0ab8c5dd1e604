package scouting

import (
	"context"
	"testing"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/okian/calcio/internal/domain/model"
)

func scoutSquad(balance int64) *model.Squad {
	return &model.Squad{
		Code: "SCT", Name: "Scout FC",
		Finances: model.Finances{Balance: balance},
	}
}

func targetPlayer() *model.Player {
	return &model.Player{
		ID: "tgt-01", Name: "Target", Position: model.PosST, Age: 22,
		Skills: model.Skills{
			Passing: 4, Velocity: 5, Heading: 3, Tackling: 2,
			Control: 5, Speed: 6, Finishing: 6,
		},
	}
}

func TestScoutTiers(t *testing.T) {
	Convey("Given a funded squad and a target", t, func() {
		svc := New(WithSeed(99))
		sq := scoutSquad(1_000_000)
		p := targetPlayer()
		ctx := context.Background()

		Convey("a basic report reveals three noised skills and no potential", func() {
			rep, err := svc.Scout(ctx, sq, p, TierBasic)
			So(err, ShouldBeNil)
			So(len(rep.Skills), ShouldEqual, 3)
			So(rep.Potential, ShouldEqual, 0)
			So(sq.Finances.Balance, ShouldEqual, 1_000_000-svc.Cost(TierBasic))
		})

		Convey("a full report is exact", func() {
			rep, err := svc.Scout(ctx, sq, p, TierFull)
			So(err, ShouldBeNil)
			So(len(rep.Skills), ShouldEqual, len(model.SkillNames))
			for name, v := range rep.Skills {
				So(v, ShouldEqual, float64(p.Skills.Get(name)))
			}
			So(rep.Potential, ShouldEqual, Potential(p))
		})

		Convey("revealed values stay within the stored-skill range", func() {
			rep, err := svc.Scout(ctx, sq, p, TierDetailed)
			So(err, ShouldBeNil)
			for _, v := range rep.Skills {
				So(v, ShouldBeBetweenOrEqual, 0, float64(model.StoredSkillMax))
			}
		})

		Convey("the none tier is not purchasable", func() {
			_, err := svc.Scout(ctx, sq, p, TierNone)
			So(err, ShouldEqual, ErrUnknownTier)
		})
	})
}

func TestScoutCacheMonotonicity(t *testing.T) {
	Convey("Given a squad that bought a detailed report", t, func() {
		svc := New(WithSeed(7))
		sq := scoutSquad(1_000_000)
		p := targetPlayer()
		ctx := context.Background()

		detailed, err := svc.Scout(ctx, sq, p, TierDetailed)
		So(err, ShouldBeNil)
		after := sq.Finances.Balance

		Convey("re-scouting at a lower tier returns the cached view for free", func() {
			rep, err := svc.Scout(ctx, sq, p, TierBasic)
			So(err, ShouldBeNil)
			So(rep.Tier, ShouldEqual, TierDetailed)
			So(len(rep.Skills), ShouldEqual, len(detailed.Skills))
			So(sq.Finances.Balance, ShouldEqual, after)
		})

		Convey("re-scouting at the same tier is also free and identical", func() {
			rep, err := svc.Scout(ctx, sq, p, TierDetailed)
			So(err, ShouldBeNil)
			So(rep.Skills[model.SkillPassing], ShouldEqual, detailed.Skills[model.SkillPassing])
			So(sq.Finances.Balance, ShouldEqual, after)
		})

		Convey("upgrading to full charges and replaces the view", func() {
			rep, err := svc.Scout(ctx, sq, p, TierFull)
			So(err, ShouldBeNil)
			So(rep.Tier, ShouldEqual, TierFull)
			So(rep.Noise, ShouldEqual, 0)
			So(sq.Finances.Balance, ShouldEqual, after-svc.Cost(TierFull))

			cached, ok := svc.Report(sq.Code, p.ID)
			So(ok, ShouldBeTrue)
			So(cached.Tier, ShouldEqual, TierFull)
		})
	})
}

func TestScoutDeterminism(t *testing.T) {
	Convey("Given two services with the same seed", t, func() {
		sq1, sq2 := scoutSquad(1_000_000), scoutSquad(1_000_000)
		p := targetPlayer()
		ctx := context.Background()

		a, err := New(WithSeed(42)).Scout(ctx, sq1, p, TierDetailed)
		So(err, ShouldBeNil)
		b, err := New(WithSeed(42)).Scout(ctx, sq2, p, TierDetailed)
		So(err, ShouldBeNil)

		Convey("the same purchase yields the same numbers", func() {
			for name := range a.Skills {
				So(b.Skills[name], ShouldEqual, a.Skills[name])
			}
			So(b.Potential, ShouldEqual, a.Potential)
		})
	})
}

func TestScoutFailures(t *testing.T) {
	Convey("Given precondition violations", t, func() {
		svc := New()
		ctx := context.Background()

		Convey("a broke squad is rejected without mutation", func() {
			sq := scoutSquad(10)
			_, err := svc.Scout(ctx, sq, targetPlayer(), TierBasic)
			So(err, ShouldEqual, ErrInsufficientFunds)
			So(sq.Finances.Balance, ShouldEqual, 10)
			_, ok := svc.Report(sq.Code, "tgt-01")
			So(ok, ShouldBeFalse)
		})

		Convey("nil arguments are rejected", func() {
			_, err := svc.Scout(ctx, nil, targetPlayer(), TierBasic)
			So(err, ShouldEqual, ErrNilScout)
			_, err = svc.Scout(ctx, scoutSquad(1), nil, TierBasic)
			So(err, ShouldEqual, ErrNilTarget)
		})
	})
}

func TestScoutHousekeeping(t *testing.T) {
	Convey("Given cached reports", t, func() {
		svc := New()
		sq := scoutSquad(1_000_000)
		p := targetPlayer()
		ctx := context.Background()

		_, err := svc.Scout(ctx, sq, p, TierBasic)
		So(err, ShouldBeNil)

		Convey("Reports lists a squad's holdings", func() {
			So(len(svc.Reports(sq.Code)), ShouldEqual, 1)
			So(len(svc.Reports("OTH")), ShouldEqual, 0)
		})

		Convey("Forget drops every view of a retired player", func() {
			svc.Forget(p.ID)
			So(len(svc.Reports(sq.Code)), ShouldEqual, 0)
		})
	})
}

func TestScoutReservedFunds(t *testing.T) {
	ctx := context.Background()

	Convey("Given a squad whose balance is partly pledged elsewhere", t, func() {
		sq := scoutSquad(100_000)
		svc := New(WithSeed(7), WithReservedFunds(func(string) int64 { return 90_000 }))

		Convey("a fee exceeding the unpledged remainder is refused", func() {
			_, err := svc.Scout(ctx, sq, targetPlayer(), TierBasic)
			So(err, ShouldEqual, ErrInsufficientFunds)
			So(sq.Finances.Balance, ShouldEqual, 100_000)
			_, ok := svc.Report(sq.Code, "tgt-01")
			So(ok, ShouldBeFalse)
		})
	})

	Convey("Given headroom beyond the pledge", t, func() {
		sq := scoutSquad(200_000)
		svc := New(WithSeed(7), WithReservedFunds(func(string) int64 { return 90_000 }))

		Convey("the fee is charged from the remainder", func() {
			_, err := svc.Scout(ctx, sq, targetPlayer(), TierBasic)
			So(err, ShouldBeNil)
			So(sq.Finances.Balance, ShouldEqual, 200_000-svc.Cost(TierBasic))
		})
	})
}

func TestScoutLedger(t *testing.T) {
	ctx := context.Background()

	Convey("Given a service mirroring fees to a ledger", t, func() {
		var events []model.LedgerEvent
		svc := New(WithSeed(7), WithLedger(func(ev model.LedgerEvent) {
			events = append(events, ev)
		}))
		sq := scoutSquad(1_000_000)

		Convey("a charged report emits one scouting event", func() {
			_, err := svc.Scout(ctx, sq, targetPlayer(), TierDetailed)
			So(err, ShouldBeNil)
			So(len(events), ShouldEqual, 1)
			So(events[0].Type, ShouldEqual, model.LedgerScouting)
			So(events[0].Squad, ShouldEqual, sq.Code)
			So(events[0].PlayerID, ShouldEqual, "tgt-01")
			So(events[0].Amount, ShouldEqual, svc.Cost(TierDetailed))
			So(events[0].Detail, ShouldEqual, TierDetailed.String())

			Convey("a cache hit emits nothing", func() {
				_, err := svc.Scout(ctx, sq, targetPlayer(), TierBasic)
				So(err, ShouldBeNil)
				So(len(events), ShouldEqual, 1)
			})
		})
	})
}
