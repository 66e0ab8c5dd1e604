package market

import (
	"context"
	"testing"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/okian/calcio/internal/domain/model"
)

type squadDir map[string]*model.Squad

func (d squadDir) Squad(code string) (*model.Squad, bool) {
	sq, ok := d[code]
	return sq, ok
}

func marketFixture() (squadDir, *model.Player, *int64) {
	striker := &model.Player{
		ID: "p-striker", Name: "Striker", Position: model.PosST,
		Age: 24, Value: 200, Wage: 10, Ownership: model.Owned,
	}
	dir := squadDir{
		"SEL": {
			Code: "SEL", Name: "Sellers",
			Players:  []*model.Player{striker},
			Finances: model.Finances{Balance: 1000},
		},
		"BUY": {
			Code: "BUY", Name: "Buyers",
			Finances: model.Finances{Balance: 1000},
		},
		"RIV": {
			Code: "RIV", Name: "Rivals",
			Finances: model.Finances{Balance: 1000},
		},
	}
	day := int64(0)
	return dir, striker, &day
}

func newTestMarket(dir squadDir, day *int64, opts ...Option) *Market {
	opts = append([]Option{WithClock(func() int64 { return *day })}, opts...)
	return New(dir, opts...)
}

func TestAuctionLifecycle(t *testing.T) {
	ctx := context.Background()

	Convey("Given a listing with a release clause", t, func() {
		dir, striker, day := marketFixture()
		m := newTestMarket(dir, day)

		l, err := m.List(ctx, "SEL", striker.ID, 100, 300, 7)
		So(err, ShouldBeNil)
		So(l.Status, ShouldEqual, ListingOpen)
		So(striker.Ownership, ShouldEqual, model.Listed)

		Convey("a bid below the clause escrows and waits", func() {
			got, err := m.PlaceBid(ctx, "BUY", l.ID, 150)
			So(err, ShouldBeNil)
			So(got.Status, ShouldEqual, ListingOpen)
			So(got.HighestBid, ShouldEqual, 150)
			So(m.Available("BUY"), ShouldEqual, 850)

			Convey("a bid meeting the clause resolves in the same call", func() {
				got, err := m.PlaceBid(ctx, "RIV", l.ID, 300)
				So(err, ShouldBeNil)
				So(got.Status, ShouldEqual, ListingSold)
				So(got.SoldFor, ShouldEqual, 300)

				So(dir["RIV"].Player(striker.ID), ShouldNotBeNil)
				So(dir["SEL"].Player(striker.ID), ShouldBeNil)
				So(striker.Ownership, ShouldEqual, model.Owned)

				// outbid escrow released in full
				So(m.Available("BUY"), ShouldEqual, 1000)
				So(dir["RIV"].Finances.Balance, ShouldEqual, 700)
			})
		})

		Convey("the fee split pays the seller their share", func() {
			_, err := m.PlaceBid(ctx, "BUY", l.ID, 300)
			So(err, ShouldBeNil)
			// default split: 5% burn, 15% treasury, 80% seller
			So(dir["SEL"].Finances.Balance, ShouldEqual, 1000+240)
			So(m.Treasury(), ShouldEqual, 45)
			So(m.Burned(), ShouldEqual, 15)
		})
	})

	Convey("Given a listing nobody bids on", t, func() {
		dir, striker, day := marketFixture()
		m := newTestMarket(dir, day)

		l, err := m.List(ctx, "SEL", striker.ID, 100, 0, 7)
		So(err, ShouldBeNil)

		Convey("resolving before the deadline is rejected", func() {
			_, err := m.Resolve(ctx, l.ID)
			So(err, ShouldEqual, ErrWindowOpen)
		})

		Convey("past the deadline the listing cancels with no funds moved", func() {
			*day = 8
			got, err := m.Resolve(ctx, l.ID)
			So(err, ShouldBeNil)
			So(got.Status, ShouldEqual, ListingCancelled)
			So(striker.Ownership, ShouldEqual, model.Owned)
			So(dir["SEL"].Player(striker.ID), ShouldNotBeNil)
			So(dir["SEL"].Finances.Balance, ShouldEqual, 1000)
		})
	})
}

func TestBidPreconditions(t *testing.T) {
	ctx := context.Background()

	Convey("Given an open listing", t, func() {
		dir, striker, day := marketFixture()
		m := newTestMarket(dir, day)
		l, err := m.List(ctx, "SEL", striker.ID, 100, 0, 7)
		So(err, ShouldBeNil)

		Convey("bids below the minimum are rejected without escrow", func() {
			_, err := m.PlaceBid(ctx, "BUY", l.ID, 50)
			So(err, ShouldEqual, ErrBidTooLow)
			So(m.Available("BUY"), ShouldEqual, 1000)
		})

		Convey("a bid not exceeding the highest is rejected", func() {
			_, err := m.PlaceBid(ctx, "BUY", l.ID, 200)
			So(err, ShouldBeNil)
			_, err = m.PlaceBid(ctx, "RIV", l.ID, 200)
			So(err, ShouldEqual, ErrBidTooLow)
			got, _ := m.Listing(l.ID)
			So(got.HighestBidder, ShouldEqual, "BUY")
		})

		Convey("the highest bid never decreases", func() {
			_, err := m.PlaceBid(ctx, "BUY", l.ID, 150)
			So(err, ShouldBeNil)
			prev := int64(150)
			for _, amount := range []int64{160, 155, 400, 300} {
				got, err := m.PlaceBid(ctx, "RIV", l.ID, amount)
				if err == nil {
					So(got.HighestBid, ShouldBeGreaterThan, prev)
					prev = got.HighestBid
				}
			}
			So(prev, ShouldEqual, 400)
		})

		Convey("outbidding restores the previous bidder's budget exactly", func() {
			_, err := m.PlaceBid(ctx, "BUY", l.ID, 400)
			So(err, ShouldBeNil)
			So(m.Available("BUY"), ShouldEqual, 600)

			_, err = m.PlaceBid(ctx, "RIV", l.ID, 500)
			So(err, ShouldBeNil)
			So(m.Available("BUY"), ShouldEqual, 1000)
			So(m.Available("RIV"), ShouldEqual, 500)
		})

		Convey("a bidder cannot exceed their available budget", func() {
			_, err := m.PlaceBid(ctx, "BUY", l.ID, 1500)
			So(err, ShouldEqual, ErrInsufficientFunds)
		})

		Convey("the seller cannot bid on their own listing", func() {
			_, err := m.PlaceBid(ctx, "SEL", l.ID, 200)
			So(err, ShouldEqual, ErrSelfBid)
		})

		Convey("bids after the deadline are rejected", func() {
			*day = 8
			_, err := m.PlaceBid(ctx, "BUY", l.ID, 200)
			So(err, ShouldEqual, ErrWindowExpired)
		})
	})

	Convey("Given a player already listed", t, func() {
		dir, striker, day := marketFixture()
		m := newTestMarket(dir, day)
		_, err := m.List(ctx, "SEL", striker.ID, 100, 0, 7)
		So(err, ShouldBeNil)

		Convey("a second listing of the same player is rejected", func() {
			_, err := m.List(ctx, "SEL", striker.ID, 100, 0, 7)
			So(err, ShouldEqual, ErrNotTransferable)
		})

		Convey("loaning a listed player is rejected", func() {
			_, err := m.CreateLoan(ctx, "SEL", "BUY", striker.ID, 30, 10)
			So(err, ShouldEqual, ErrNotTransferable)
		})
	})
}

func TestCancel(t *testing.T) {
	ctx := context.Background()

	Convey("Given an open listing", t, func() {
		dir, striker, day := marketFixture()
		m := newTestMarket(dir, day)
		l, err := m.List(ctx, "SEL", striker.ID, 100, 0, 7)
		So(err, ShouldBeNil)

		Convey("the seller may cancel while no bids exist", func() {
			got, err := m.Cancel(ctx, "SEL", l.ID)
			So(err, ShouldBeNil)
			So(got.Status, ShouldEqual, ListingCancelled)
			So(striker.Ownership, ShouldEqual, model.Owned)
		})

		Convey("anyone else may not", func() {
			_, err := m.Cancel(ctx, "BUY", l.ID)
			So(err, ShouldEqual, ErrNotSeller)
		})

		Convey("cancel after a bid is rejected", func() {
			_, err := m.PlaceBid(ctx, "BUY", l.ID, 150)
			So(err, ShouldBeNil)
			_, err = m.Cancel(ctx, "SEL", l.ID)
			So(err, ShouldEqual, ErrHasBids)
		})
	})
}

func TestLoans(t *testing.T) {
	ctx := context.Background()

	Convey("Given an owned player", t, func() {
		dir, striker, day := marketFixture()
		m := newTestMarket(dir, day)

		Convey("a loan moves custody and pays the fee", func() {
			loan, err := m.CreateLoan(ctx, "SEL", "BUY", striker.ID, 30, 50)
			So(err, ShouldBeNil)
			So(loan.Active, ShouldBeTrue)
			So(loan.RecallDay, ShouldEqual, 30)

			So(dir["BUY"].Player(striker.ID), ShouldNotBeNil)
			So(dir["SEL"].Player(striker.ID), ShouldBeNil)
			So(striker.Ownership, ShouldEqual, model.OnLoan)
			So(dir["BUY"].Finances.Balance, ShouldEqual, 950)
			So(dir["SEL"].Finances.Balance, ShouldEqual, 1050)

			Convey("listing a loaned player is rejected", func() {
				_, err := m.List(ctx, "BUY", striker.ID, 100, 0, 7)
				So(err, ShouldEqual, ErrNotTransferable)
			})

			Convey("the lender may recall early", func() {
				got, err := m.RecallLoan(ctx, "SEL", loan.ID)
				So(err, ShouldBeNil)
				So(got.Active, ShouldBeFalse)
				So(dir["SEL"].Player(striker.ID), ShouldNotBeNil)
				So(striker.Ownership, ShouldEqual, model.Owned)
			})

			Convey("a third party may not recall before the recall day", func() {
				_, err := m.RecallLoan(ctx, "RIV", loan.ID)
				So(err, ShouldEqual, ErrLoanNotRecallable)
			})

			Convey("anyone may recall once the recall day passes", func() {
				*day = 30
				_, err := m.RecallLoan(ctx, "RIV", loan.ID)
				So(err, ShouldBeNil)
				So(striker.Ownership, ShouldEqual, model.Owned)
			})

			Convey("double recall is rejected", func() {
				_, err := m.RecallLoan(ctx, "SEL", loan.ID)
				So(err, ShouldBeNil)
				_, err = m.RecallLoan(ctx, "SEL", loan.ID)
				So(err, ShouldEqual, ErrLoanInactive)
			})
		})

		Convey("a broke borrower is rejected with no movement", func() {
			dir["BUY"].Finances.Balance = 10
			_, err := m.CreateLoan(ctx, "SEL", "BUY", striker.ID, 30, 50)
			So(err, ShouldEqual, ErrInsufficientFunds)
			So(dir["SEL"].Player(striker.ID), ShouldNotBeNil)
			So(striker.Ownership, ShouldEqual, model.Owned)
		})

		Convey("self-loans are rejected", func() {
			_, err := m.CreateLoan(ctx, "SEL", "SEL", striker.ID, 30, 50)
			So(err, ShouldEqual, ErrSameSquad)
		})
	})
}

func TestExpireDue(t *testing.T) {
	ctx := context.Background()

	Convey("Given open listings past and before their deadlines", t, func() {
		dir, striker, day := marketFixture()
		keeper := &model.Player{
			ID: "p-keeper", Name: "Keeper", Position: model.PosGK,
			Age: 28, Value: 100, Ownership: model.Owned,
		}
		dir["SEL"].Players = append(dir["SEL"].Players, keeper)
		m := newTestMarket(dir, day)

		_, err := m.List(ctx, "SEL", striker.ID, 100, 0, 3)
		So(err, ShouldBeNil)
		_, err = m.List(ctx, "SEL", keeper.ID, 100, 0, 10)
		So(err, ShouldBeNil)

		*day = 5
		done, err := m.ExpireDue(ctx)
		So(err, ShouldBeNil)
		So(len(done), ShouldEqual, 1)
		So(done[0].PlayerID, ShouldEqual, striker.ID)
		So(striker.Ownership, ShouldEqual, model.Owned)
		So(keeper.Ownership, ShouldEqual, model.Listed)
	})
}

func TestFeeSplitValidate(t *testing.T) {
	Convey("Fee split validation", t, func() {
		Convey("the default split is accepted", func() {
			So(FeeSplit{Burn: 0.05, Treasury: 0.15, Seller: 0.80}.Validate(), ShouldBeNil)
		})

		Convey("shares that do not sum to one are rejected", func() {
			So(FeeSplit{Burn: 0.5, Treasury: 0.5, Seller: 0.5}.Validate(), ShouldEqual, ErrBadFeeSplit)
		})

		Convey("negative shares are rejected", func() {
			So(FeeSplit{Burn: -0.1, Treasury: 0.3, Seller: 0.8}.Validate(), ShouldEqual, ErrBadFeeSplit)
		})

		Convey("an invalid split never reaches the market", func() {
			m := New(squadDir{}, WithFeeSplit(FeeSplit{Burn: 1, Treasury: 1, Seller: 1}))
			So(m.split.Burn, ShouldEqual, 0.05)
			So(m.split.Treasury, ShouldEqual, 0.15)
			So(m.split.Seller, ShouldEqual, 0.80)
		})
	})
}
