package market

import "errors"

var (
	ErrUnknownSquad   = errors.New("market: unknown squad")
	ErrUnknownPlayer  = errors.New("market: player not on seller roster")
	ErrUnknownListing = errors.New("market: unknown listing")
	ErrUnknownLoan    = errors.New("market: unknown loan")

	// ErrNotTransferable is returned when the player's ownership tag is
	// Listed or OnLoan and the operation needs an Owned player.
	ErrNotTransferable = errors.New("market: player not owned outright")

	ErrListingClosed = errors.New("market: listing already resolved")
	ErrWindowExpired = errors.New("market: bid window has expired")
	ErrWindowOpen    = errors.New("market: bid window still open")

	ErrBidTooLow         = errors.New("market: bid below minimum or current highest")
	ErrSelfBid           = errors.New("market: seller cannot bid on own listing")
	ErrInsufficientFunds = errors.New("market: insufficient available budget")

	ErrNotSeller = errors.New("market: only the seller may cancel")
	ErrHasBids   = errors.New("market: listing already has bids")

	ErrLoanInactive      = errors.New("market: loan already recalled")
	ErrLoanNotRecallable = errors.New("market: only the lender may recall before the recall date")
	ErrSameSquad         = errors.New("market: lender and borrower are the same squad")

	ErrBadFeeSplit = errors.New("market: fee-split shares must be non-negative and sum to 1")
	ErrBadPrice    = errors.New("market: price must be positive")
	ErrBadWindow   = errors.New("market: window duration must be positive")
)
