// Package market runs the sealed-bid transfer auction and the loan
// lifecycle for player ownership.
//
// Every operation is atomic: preconditions are checked up front under one
// lock, and a rejected call moves no escrow, changes no ownership tag and
// touches no roster. Bid ordering is decided by a monotonic submission
// sequence, never by wall clock, so a replay of the same calls produces
// the same outcome. Deadlines are expressed in the season's logical day
// counter for the same reason.
package market

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/okian/calcio/internal/domain/model"
	"github.com/okian/calcio/pkg/metrics"
)

// Directory resolves squad codes to live squad records. The season
// orchestrator implements it.
type Directory interface {
	Squad(code string) (*model.Squad, bool)
}

// ListingStatus is a listing's lifecycle state.
type ListingStatus string

const (
	ListingOpen      ListingStatus = "open"
	ListingSold      ListingStatus = "sold"
	ListingCancelled ListingStatus = "cancelled"
)

// Listing is one player put up for sealed-bid auction.
type Listing struct {
	ID            string        `json:"id"`
	Seller        string        `json:"seller"`
	PlayerID      string        `json:"player_id"`
	PlayerName    string        `json:"player_name"`
	MinPrice      int64         `json:"min_price"`
	ReleaseClause int64         `json:"release_clause"` // 0 disables
	Deadline      int64         `json:"deadline"`       // logical day, inclusive
	Status        ListingStatus `json:"status"`

	HighestBid    int64  `json:"highest_bid"`
	HighestBidder string `json:"highest_bidder,omitempty"`
	BidSeq        uint64 `json:"bid_seq"` // submission sequence of the highest bid
	SoldFor       int64  `json:"sold_for,omitempty"`
}

// Loan is one player temporarily in another squad's custody.
type Loan struct {
	ID        string `json:"id"`
	Lender    string `json:"lender"`
	Borrower  string `json:"borrower"`
	PlayerID  string `json:"player_id"`
	Fee       int64  `json:"fee"`
	RecallDay int64  `json:"recall_day"`
	Active    bool   `json:"active"`
}

// FeeSplit configures where a resolved transfer's fee goes. Shares must be
// non-negative and sum to 1; Seller is the fraction the selling squad
// keeps, Burn leaves the economy, Treasury accrues to the platform pot.
type FeeSplit struct {
	Burn     float64 `json:"burn"`
	Treasury float64 `json:"treasury"`
	Seller   float64 `json:"seller"`
}

// Validate rejects negative shares and sums away from 1.
func (f FeeSplit) Validate() error {
	if f.Burn < 0 || f.Treasury < 0 || f.Seller < 0 {
		return ErrBadFeeSplit
	}
	if sum := f.Burn + f.Treasury + f.Seller; sum <= 0.999 || sum >= 1.001 {
		return ErrBadFeeSplit
	}
	return nil
}

// Market holds all live listings, loans and escrowed funds.
type Market struct {
	mu  sync.Mutex
	dir Directory
	now func() int64 // logical day

	split  FeeSplit
	ledger func(model.LedgerEvent)

	seq      uint64
	listings map[string]*Listing
	loans    map[string]*Loan
	escrow   map[string]int64 // squad code -> total escrowed

	treasury int64
	burned   int64
}

// Option applies a configuration option to the Market.
type Option func(*Market)

// WithFeeSplit overrides the default 5% burn / 15% treasury / 80% seller
// split. Splits failing Validate are ignored; callers that need the
// rejection surfaced run Validate first.
func WithFeeSplit(split FeeSplit) Option {
	return func(m *Market) {
		if split.Validate() == nil {
			m.split = split
		}
	}
}

// WithLedger installs a sink for economic events.
func WithLedger(fn func(model.LedgerEvent)) Option {
	return func(m *Market) {
		if fn != nil {
			m.ledger = fn
		}
	}
}

// WithClock installs the logical-day source. The season orchestrator wires
// its own day counter here.
func WithClock(now func() int64) Option {
	return func(m *Market) {
		if now != nil {
			m.now = now
		}
	}
}

// New creates a Market over a squad directory.
func New(dir Directory, opts ...Option) *Market {
	m := &Market{
		dir:      dir,
		now:      func() int64 { return 0 },
		split:    FeeSplit{Burn: 0.05, Treasury: 0.15, Seller: 0.80},
		ledger:   func(model.LedgerEvent) {},
		listings: make(map[string]*Listing),
		loans:    make(map[string]*Loan),
		escrow:   make(map[string]int64),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Available is a squad's spendable balance: its funds minus what it has
// locked in escrow on open listings.
func (m *Market) Available(code string) int64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.availableLocked(code)
}

// Escrowed is the amount a squad has pledged on open bids. Other
// spenders subtract it from the balance before debiting.
func (m *Market) Escrowed(code string) int64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.escrow[code]
}

func (m *Market) availableLocked(code string) int64 {
	sq, ok := m.dir.Squad(code)
	if !ok {
		return 0
	}
	return sq.Finances.Balance - m.escrow[code]
}

// List opens a sealed-bid window on a player the seller owns outright.
func (m *Market) List(ctx context.Context, seller, playerID string, minPrice, releaseClause int64, windowDays int64) (*Listing, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if minPrice <= 0 || releaseClause < 0 {
		return nil, ErrBadPrice
	}
	if windowDays <= 0 {
		return nil, ErrBadWindow
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	sq, ok := m.dir.Squad(seller)
	if !ok {
		return nil, ErrUnknownSquad
	}
	p := sq.Player(playerID)
	if p == nil {
		return nil, ErrUnknownPlayer
	}
	if p.Ownership != model.Owned {
		return nil, ErrNotTransferable
	}

	l := &Listing{
		ID:            uuid.NewString(),
		Seller:        seller,
		PlayerID:      playerID,
		PlayerName:    p.Name,
		MinPrice:      minPrice,
		ReleaseClause: releaseClause,
		Deadline:      m.now() + windowDays,
		Status:        ListingOpen,
	}
	p.Ownership = model.Listed
	m.listings[l.ID] = l

	metrics.RecordListingOpened()
	metrics.UpdateActiveListings(m.openCountLocked())
	return cloneListing(l), nil
}

// PlaceBid escrows a bid on an open listing, refunding the previous
// highest bidder. A bid meeting the release clause resolves the listing
// within this same call.
func (m *Market) PlaceBid(ctx context.Context, bidder, listingID string, amount int64) (*Listing, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	l, ok := m.listings[listingID]
	if !ok {
		return nil, ErrUnknownListing
	}
	if l.Status != ListingOpen {
		return nil, ErrListingClosed
	}
	if m.now() > l.Deadline {
		return nil, ErrWindowExpired
	}
	if bidder == l.Seller {
		return nil, ErrSelfBid
	}
	if _, ok := m.dir.Squad(bidder); !ok {
		return nil, ErrUnknownSquad
	}
	if amount < l.MinPrice || amount <= l.HighestBid {
		return nil, ErrBidTooLow
	}
	if m.availableLocked(bidder) < amount {
		return nil, ErrInsufficientFunds
	}

	// All preconditions hold; escrow the new bid and release the old one.
	if l.HighestBidder != "" {
		m.escrow[l.HighestBidder] -= l.HighestBid
	}
	m.escrow[bidder] += amount

	m.seq++
	l.HighestBid = amount
	l.HighestBidder = bidder
	l.BidSeq = m.seq

	metrics.RecordBidPlaced()
	metrics.UpdateEscrowedFunds(m.totalEscrowLocked())

	if l.ReleaseClause > 0 && amount >= l.ReleaseClause {
		if err := m.resolveLocked(l); err != nil {
			return nil, err
		}
	}
	return cloneListing(l), nil
}

// Resolve closes a listing after its deadline: the highest bidder takes
// the player, or the listing is cancelled when nobody bid.
func (m *Market) Resolve(ctx context.Context, listingID string) (*Listing, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	l, ok := m.listings[listingID]
	if !ok {
		return nil, ErrUnknownListing
	}
	if l.Status != ListingOpen {
		return nil, ErrListingClosed
	}
	if m.now() <= l.Deadline {
		return nil, ErrWindowOpen
	}

	if l.HighestBidder == "" {
		// No bids: player goes back to the seller, no funds move.
		sq, ok := m.dir.Squad(l.Seller)
		if !ok {
			return nil, ErrUnknownSquad
		}
		if p := sq.Player(l.PlayerID); p != nil {
			p.Ownership = model.Owned
		}
		l.Status = ListingCancelled
		metrics.UpdateActiveListings(m.openCountLocked())
		return cloneListing(l), nil
	}

	if err := m.resolveLocked(l); err != nil {
		return nil, err
	}
	return cloneListing(l), nil
}

// resolveLocked performs the ownership transfer for a listing with a
// highest bid. Caller holds the lock and has verified the listing is open.
func (m *Market) resolveLocked(l *Listing) error {
	seller, ok := m.dir.Squad(l.Seller)
	if !ok {
		return ErrUnknownSquad
	}
	buyer, ok := m.dir.Squad(l.HighestBidder)
	if !ok {
		return ErrUnknownSquad
	}
	p := seller.Player(l.PlayerID)
	if p == nil {
		return ErrUnknownPlayer
	}

	amount := l.HighestBid
	burn := int64(float64(amount) * m.split.Burn)
	treasury := int64(float64(amount) * m.split.Treasury)
	sellerShare := amount - burn - treasury

	m.escrow[l.HighestBidder] -= amount
	buyer.Finances.Balance -= amount
	seller.Finances.Balance += sellerShare
	seller.Finances.Revenue += sellerShare
	m.treasury += treasury
	m.burned += burn

	seller.RemovePlayer(p.ID)
	p.Ownership = model.Owned
	buyer.AddPlayer(p)
	seller.RecalcWageBill()
	buyer.RecalcWageBill()

	l.Status = ListingSold
	l.SoldFor = amount

	m.ledger(model.LedgerEvent{
		Type: model.LedgerTransfer, Squad: l.HighestBidder, Counter: l.Seller,
		PlayerID: p.ID, Amount: amount,
	})
	if burn > 0 {
		m.ledger(model.LedgerEvent{Type: model.LedgerFeeBurn, Amount: burn, PlayerID: p.ID})
	}
	if treasury > 0 {
		m.ledger(model.LedgerEvent{Type: model.LedgerTreasury, Amount: treasury, PlayerID: p.ID})
	}

	metrics.RecordTransferResolved()
	metrics.UpdateActiveListings(m.openCountLocked())
	metrics.UpdateEscrowedFunds(m.totalEscrowLocked())
	return nil
}

// Cancel withdraws an open listing. Seller-only, and only before the
// first bid lands.
func (m *Market) Cancel(ctx context.Context, seller, listingID string) (*Listing, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	l, ok := m.listings[listingID]
	if !ok {
		return nil, ErrUnknownListing
	}
	if l.Status != ListingOpen {
		return nil, ErrListingClosed
	}
	if l.Seller != seller {
		return nil, ErrNotSeller
	}
	if l.HighestBidder != "" {
		return nil, ErrHasBids
	}

	sq, ok := m.dir.Squad(l.Seller)
	if !ok {
		return nil, ErrUnknownSquad
	}
	if p := sq.Player(l.PlayerID); p != nil {
		p.Ownership = model.Owned
	}
	l.Status = ListingCancelled
	metrics.UpdateActiveListings(m.openCountLocked())
	return cloneListing(l), nil
}

// CreateLoan moves a player into the borrower's custody for a fixed term.
// The fee moves immediately from borrower to lender.
func (m *Market) CreateLoan(ctx context.Context, lender, borrower, playerID string, durationDays, fee int64) (*Loan, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if durationDays <= 0 {
		return nil, ErrBadWindow
	}
	if fee < 0 {
		return nil, ErrBadPrice
	}
	if lender == borrower {
		return nil, ErrSameSquad
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	lsq, ok := m.dir.Squad(lender)
	if !ok {
		return nil, ErrUnknownSquad
	}
	bsq, ok := m.dir.Squad(borrower)
	if !ok {
		return nil, ErrUnknownSquad
	}
	p := lsq.Player(playerID)
	if p == nil {
		return nil, ErrUnknownPlayer
	}
	if p.Ownership != model.Owned {
		return nil, ErrNotTransferable
	}
	if m.availableLocked(borrower) < fee {
		return nil, ErrInsufficientFunds
	}

	bsq.Finances.Balance -= fee
	lsq.Finances.Balance += fee
	lsq.Finances.Revenue += fee

	lsq.RemovePlayer(p.ID)
	p.Ownership = model.OnLoan
	bsq.AddPlayer(p)
	lsq.RecalcWageBill()
	bsq.RecalcWageBill()

	loan := &Loan{
		ID:        uuid.NewString(),
		Lender:    lender,
		Borrower:  borrower,
		PlayerID:  playerID,
		Fee:       fee,
		RecallDay: m.now() + durationDays,
		Active:    true,
	}
	m.loans[loan.ID] = loan

	m.ledger(model.LedgerEvent{
		Type: model.LedgerLoanFee, Squad: borrower, Counter: lender,
		PlayerID: playerID, Amount: fee,
	})
	metrics.RecordLoanCreated()
	return cloneLoan(loan), nil
}

// RecallLoan returns a loaned player to the lender. The lender may recall
// at any time; anyone may once the recall day has passed.
func (m *Market) RecallLoan(ctx context.Context, caller, loanID string) (*Loan, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	loan, ok := m.loans[loanID]
	if !ok {
		return nil, ErrUnknownLoan
	}
	if !loan.Active {
		return nil, ErrLoanInactive
	}
	if caller != loan.Lender && m.now() < loan.RecallDay {
		return nil, ErrLoanNotRecallable
	}

	lsq, ok := m.dir.Squad(loan.Lender)
	if !ok {
		return nil, ErrUnknownSquad
	}
	bsq, ok := m.dir.Squad(loan.Borrower)
	if !ok {
		return nil, ErrUnknownSquad
	}
	p := bsq.Player(loan.PlayerID)
	if p == nil {
		return nil, ErrUnknownPlayer
	}

	bsq.RemovePlayer(p.ID)
	p.Ownership = model.Owned
	lsq.AddPlayer(p)
	lsq.RecalcWageBill()
	bsq.RecalcWageBill()

	loan.Active = false
	return cloneLoan(loan), nil
}

// Listing returns a listing by id.
func (m *Market) Listing(id string) (*Listing, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	l, ok := m.listings[id]
	if !ok {
		return nil, false
	}
	return cloneListing(l), true
}

// Listings returns every listing, open first is not guaranteed; callers
// filter by status.
func (m *Market) Listings() []*Listing {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]*Listing, 0, len(m.listings))
	for _, l := range m.listings {
		out = append(out, cloneListing(l))
	}
	return out
}

// ExpireDue resolves every open listing whose deadline has passed.
// The orchestrator calls this as the logical day advances.
func (m *Market) ExpireDue(ctx context.Context) ([]*Listing, error) {
	m.mu.Lock()
	var due []string
	for id, l := range m.listings {
		if l.Status == ListingOpen && m.now() > l.Deadline {
			due = append(due, id)
		}
	}
	m.mu.Unlock()

	var out []*Listing
	for _, id := range due {
		l, err := m.Resolve(ctx, id)
		if err != nil {
			return out, err
		}
		out = append(out, l)
	}
	return out, nil
}

// Loan returns a loan by id.
func (m *Market) Loan(id string) (*Loan, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	loan, ok := m.loans[id]
	if !ok {
		return nil, false
	}
	return cloneLoan(loan), true
}

// Treasury returns the accumulated platform share.
func (m *Market) Treasury() int64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.treasury
}

// Burned returns the total currency removed from the economy by fees.
func (m *Market) Burned() int64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.burned
}

func (m *Market) openCountLocked() int {
	n := 0
	for _, l := range m.listings {
		if l.Status == ListingOpen {
			n++
		}
	}
	return n
}

func (m *Market) totalEscrowLocked() int64 {
	var total int64
	for _, v := range m.escrow {
		total += v
	}
	return total
}

func cloneListing(l *Listing) *Listing {
	cp := *l
	return &cp
}

func cloneLoan(l *Loan) *Loan {
	cp := *l
	return &cp
}
