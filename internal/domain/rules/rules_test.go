package rules_test

import (
	"testing"

	"github.com/okian/calcio/internal/domain/model"
	"github.com/okian/calcio/internal/domain/rules"
	. "github.com/smartystreets/goconvey/convey"
)

func TestDefaultTable(t *testing.T) {
	Convey("Given the default rule table", t, func() {
		tbl := rules.Default()

		Convey("Every formation in the tactics matrix has a layout", func() {
			for name := range tbl.TacticsMatrix {
				So(tbl.KnownFormation(name), ShouldBeTrue)
			}
		})

		Convey("Every layout fields exactly ten outfielders", func() {
			for name, layout := range tbl.Formations {
				So(layout.Defenders+layout.Midfielders+layout.Attackers, ShouldEqual, 10)
				So(tbl.TacticsMatrix[name], ShouldNotBeNil)
			}
		})

		Convey("The tactics matrix is zero on the diagonal", func() {
			for name := range tbl.TacticsMatrix {
				So(tbl.TacticsModifier(name, name), ShouldEqual, 0)
			}
		})

		Convey("Unknown formations contribute no tactics modifier", func() {
			So(tbl.TacticsModifier("2-3-5", "4-4-2"), ShouldEqual, 0)
			So(tbl.TacticsModifier("4-4-2", "2-3-5"), ShouldEqual, 0)
		})

		Convey("Injury severity weights sum to one", func() {
			var total float64
			for _, tier := range tbl.InjurySeverity {
				total += tier.Weight
				So(tier.MinDays, ShouldBeLessThanOrEqualTo, tier.MaxDays)
			}
			So(total, ShouldAlmostEqual, 1.0, 1e-9)
		})

		Convey("Weather factors default to one for unaffected skills", func() {
			So(tbl.WeatherFactor(model.WeatherDry, model.SkillPassing), ShouldEqual, 1)
			So(tbl.WeatherFactor(model.WeatherWet, model.SkillPassing), ShouldBeLessThan, 1)
			So(tbl.WeatherFactor(model.WeatherSnow, model.SkillHeading), ShouldBeGreaterThan, 1)
		})

		Convey("Keeper tiers reward higher-value goalkeepers more", func() {
			So(tbl.KeeperReduction(50_000_000), ShouldBeGreaterThan, tbl.KeeperReduction(6_000_000))
			So(tbl.KeeperReduction(100), ShouldEqual, 0)
		})

		Convey("Retirement probability ramps with age and saturates", func() {
			So(tbl.RetireProbability(30), ShouldEqual, 0)
			So(tbl.RetireProbability(35), ShouldBeGreaterThan, tbl.RetireProbability(34))
			So(tbl.RetireProbability(tbl.ForceRetireAge), ShouldEqual, 1)
		})

		Convey("Age factor peaks between the peak ages", func() {
			So(tbl.AgeFactor(27), ShouldEqual, 1.0)
			So(tbl.AgeFactor(18), ShouldBeLessThan, 1.0)
			So(tbl.AgeFactor(35), ShouldBeLessThan, tbl.AgeFactor(30))
			So(tbl.AgeFactor(45), ShouldEqual, 0.3)
		})
	})
}
