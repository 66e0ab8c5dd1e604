package rng_test

import (
	"testing"

	"github.com/okian/calcio/internal/domain/rng"
	. "github.com/smartystreets/goconvey/convey"
)

func TestDeterminism(t *testing.T) {
	Convey("Given two streams from the same seed", t, func() {
		a := rng.New(42)
		b := rng.New(42)

		Convey("They produce identical draw sequences", func() {
			for i := 0; i < 100; i++ {
				So(a.Float64(), ShouldEqual, b.Float64())
			}
			for i := 0; i < 100; i++ {
				So(a.Intn(90), ShouldEqual, b.Intn(90))
			}
		})
	})

	Convey("Different seeds diverge", t, func() {
		a := rng.New(1)
		b := rng.New(2)
		same := true
		for i := 0; i < 10; i++ {
			if a.Float64() != b.Float64() {
				same = false
			}
		}
		So(same, ShouldBeFalse)
	})
}

func TestSubSeed(t *testing.T) {
	Convey("Sub-seed derivation", t, func() {
		Convey("Is stable for identical labels", func() {
			So(rng.SubSeed(7, 1, 2, 3), ShouldEqual, rng.SubSeed(7, 1, 2, 3))
		})

		Convey("Separates fixtures within a matchday", func() {
			So(rng.SubSeed(7, 1, 2, 3), ShouldNotEqual, rng.SubSeed(7, 1, 2, 4))
		})

		Convey("Is order sensitive", func() {
			So(rng.SubSeed(7, 1, 2), ShouldNotEqual, rng.SubSeed(7, 2, 1))
		})

		Convey("Never yields a negative seed", func() {
			for i := uint64(0); i < 1000; i++ {
				So(rng.SubSeed(-12345, i), ShouldBeGreaterThanOrEqualTo, 0)
			}
		})
	})
}

func TestPoisson(t *testing.T) {
	Convey("Given a Poisson sampler", t, func() {
		s := rng.New(99)

		Convey("Rate zero always yields zero", func() {
			So(s.Poisson(0), ShouldEqual, 0)
			So(s.Poisson(-1), ShouldEqual, 0)
		})

		Convey("The sample mean approaches the rate", func() {
			const n = 20000
			var sum int
			for i := 0; i < n; i++ {
				sum += s.Poisson(2.5)
			}
			mean := float64(sum) / n
			So(mean, ShouldBeBetween, 2.3, 2.7)
		})
	})
}

func TestPick(t *testing.T) {
	Convey("Given a weighted picker", t, func() {
		s := rng.New(5)

		Convey("Zero-weight entries never win", func() {
			weights := []float64{0, 3, 0, 1}
			for i := 0; i < 1000; i++ {
				idx := s.Pick(weights)
				So(idx == 1 || idx == 3, ShouldBeTrue)
			}
		})

		Convey("All-zero weights fall back to index zero", func() {
			So(s.Pick([]float64{0, 0}), ShouldEqual, 0)
		})

		Convey("Heavier weights win more often", func() {
			weights := []float64{1, 9}
			var heavy int
			for i := 0; i < 5000; i++ {
				if s.Pick(weights) == 1 {
					heavy++
				}
			}
			So(heavy, ShouldBeGreaterThan, 4000)
		})
	})
}

func TestBetween(t *testing.T) {
	Convey("Between stays inclusive of both bounds", t, func() {
		s := rng.New(11)
		seen := map[int]bool{}
		for i := 0; i < 1000; i++ {
			v := s.Between(1, 3)
			So(v, ShouldBeBetweenOrEqual, 1, 3)
			seen[v] = true
		}
		So(len(seen), ShouldEqual, 3)
		So(s.Between(5, 5), ShouldEqual, 5)
	})
}
