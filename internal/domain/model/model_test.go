package model_test

import (
	"testing"

	"github.com/okian/calcio/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
)

func TestEffectiveSkill(t *testing.T) {
	Convey("Given a player with stored skills on the 0-7 scale", t, func() {
		p := &model.Player{Skills: model.Skills{Finishing: 6}}

		Convey("When form is neutral the effective value equals the stored value", func() {
			p.Form = 0
			So(p.EffectiveSkill(model.SkillFinishing), ShouldEqual, 6)
		})

		Convey("When form is positive the effective value scales multiplicatively", func() {
			p.Form = 50
			So(p.EffectiveSkill(model.SkillFinishing), ShouldEqual, 9) // 6 * 1.5
		})

		Convey("When form is maximal the value is clamped to the effective ceiling", func() {
			p.Skills.Finishing = 7
			p.Form = 100
			// 7 * 2.0 = 14, below the clamp
			So(p.EffectiveSkill(model.SkillFinishing), ShouldEqual, 14)
			So(p.EffectiveSkill(model.SkillFinishing), ShouldBeLessThanOrEqualTo, model.EffectiveSkillMax)
		})

		Convey("When form is at the floor the value never goes negative", func() {
			p.Form = model.FormMin
			So(p.EffectiveSkill(model.SkillFinishing), ShouldEqual, 0)
		})
	})
}

func TestSkillsSetClamps(t *testing.T) {
	Convey("Given a Skills value", t, func() {
		var s model.Skills

		Convey("Setting above the stored maximum clamps to 7", func() {
			s.Set(model.SkillSpeed, 12)
			So(s.Speed, ShouldEqual, model.StoredSkillMax)
		})

		Convey("Setting below zero clamps to 0", func() {
			s.Set(model.SkillSpeed, -3)
			So(s.Speed, ShouldEqual, 0)
		})

		Convey("Get and Set round-trip every named skill", func() {
			for i, name := range model.SkillNames {
				s.Set(name, i%8)
				So(s.Get(name), ShouldEqual, i%8)
			}
		})
	})
}

func TestStandingApply(t *testing.T) {
	Convey("Given an empty standing", t, func() {
		var s model.Standing

		Convey("A win awards three points", func() {
			s.Apply(2, 0)
			So(s.Points, ShouldEqual, 3)
			So(s.Wins, ShouldEqual, 1)
			So(s.Played, ShouldEqual, 1)
		})

		Convey("A draw awards one point to each side", func() {
			s.Apply(1, 1)
			So(s.Points, ShouldEqual, 1)
			So(s.Draws, ShouldEqual, 1)
		})

		Convey("A loss awards nothing but counts goals against", func() {
			s.Apply(0, 3)
			So(s.Points, ShouldEqual, 0)
			So(s.GoalDifference(), ShouldEqual, -3)
		})
	})
}

func TestMatchResultPoints(t *testing.T) {
	Convey("Points awarded per fixture always sum to 2 or 3", t, func() {
		cases := []struct{ h, a int }{{0, 0}, {1, 0}, {0, 1}, {3, 3}, {4, 1}}
		for _, c := range cases {
			r := &model.MatchResult{HomeGoals: c.h, AwayGoals: c.a}
			total := r.HomePoints() + r.AwayPoints()
			if r.Decisive() {
				So(total, ShouldEqual, 3)
			} else {
				So(total, ShouldEqual, 2)
			}
		}
	})
}

func TestSquadRoster(t *testing.T) {
	Convey("Given a squad with two players", t, func() {
		sq := &model.Squad{Code: "AAA"}
		sq.AddPlayer(&model.Player{ID: "p1", Wage: 100})
		sq.AddPlayer(&model.Player{ID: "p2", Wage: 250})

		Convey("Player finds a rostered id", func() {
			So(sq.Player("p2"), ShouldNotBeNil)
			So(sq.Player("zz"), ShouldBeNil)
		})

		Convey("RemovePlayer detaches and returns the player", func() {
			p := sq.RemovePlayer("p1")
			So(p, ShouldNotBeNil)
			So(len(sq.Players), ShouldEqual, 1)
			So(sq.RemovePlayer("p1"), ShouldBeNil)
		})

		Convey("RecalcWageBill sums the roster wages", func() {
			sq.RecalcWageBill()
			So(sq.Finances.WageBill, ShouldEqual, 350)
		})
	})
}

func TestZoneOf(t *testing.T) {
	Convey("Positions map to their pitch zones", t, func() {
		So(model.ZoneOf(model.PosGK), ShouldEqual, model.ZoneKeeper)
		So(model.ZoneOf(model.PosCB), ShouldEqual, model.ZoneDefense)
		So(model.ZoneOf(model.PosCM), ShouldEqual, model.ZoneMidfield)
		So(model.ZoneOf(model.PosST), ShouldEqual, model.ZoneAttack)
	})
}
