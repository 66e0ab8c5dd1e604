// Package service provides the core business service that implements
// the dependencies required by the HTTP API.
package service

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"sync"
	"time"

	fixturequeue "github.com/okian/calcio/internal/adapters/mq/queue"
	workerpool "github.com/okian/calcio/internal/adapters/mq/worker"
	"github.com/okian/calcio/internal/adapters/repository"
	"github.com/okian/calcio/internal/adapters/stream"
	"github.com/okian/calcio/internal/domain/market"
	"github.com/okian/calcio/internal/domain/match"
	"github.com/okian/calcio/internal/domain/model"
	"github.com/okian/calcio/internal/domain/rules"
	"github.com/okian/calcio/internal/domain/scouting"
	"github.com/okian/calcio/internal/domain/season"
	"github.com/okian/calcio/pkg/logger"
	"github.com/okian/calcio/pkg/metrics"
)

// Service owns the league simulation and implements the API dependencies.
// All mutating entry points funnel through one mutex so the season,
// market and scouting components observe a consistent logical clock.
type Service struct {
	mu sync.Mutex

	tables *rules.Table
	orch   *season.Orchestrator
	market *market.Market
	scouts *scouting.Service
	queue  *fixturequeue.InMemoryQueue
	pool   *workerpool.Pool
	store  repository.Store
	hub    *stream.Hub

	seed            int64
	workerCount     int
	queueSize       int
	rounds          int
	daysPerMatchday int64
	minRoster       int
	bidWindowDays   int64
	feeSplit        *market.FeeSplit
	winBonus        int64
	drawBonus       int64
	titleBonus      int64
	divisions       []*model.Division

	log logger.Logger
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithSeed fixes the root seed for the whole simulation.
func WithSeed(seed int64) Option {
	return func(s *Service) { s.seed = seed }
}

// WithWorkerCount sets the fixture simulation worker count.
func WithWorkerCount(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.workerCount = n
		}
	}
}

// WithQueueSize bounds the fixture queue.
func WithQueueSize(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.queueSize = n
		}
	}
}

// WithRounds sets how many times each pairing plays per season.
func WithRounds(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.rounds = n
		}
	}
}

// WithDaysPerMatchday sets how far the logical clock advances per matchday.
func WithDaysPerMatchday(d int64) Option {
	return func(s *Service) {
		if d > 0 {
			s.daysPerMatchday = d
		}
	}
}

// WithMinRoster sets the registration roster floor.
func WithMinRoster(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.minRoster = n
		}
	}
}

// WithBidWindow sets the default listing window in logical days.
func WithBidWindow(d int64) Option {
	return func(s *Service) {
		if d > 0 {
			s.bidWindowDays = d
		}
	}
}

// WithFeeSplit overrides the transfer fee split.
func WithFeeSplit(split market.FeeSplit) Option {
	return func(s *Service) { s.feeSplit = &split }
}

// WithBonuses sets match and title bonus amounts.
func WithBonuses(win, draw, title int64) Option {
	return func(s *Service) {
		s.winBonus, s.drawBonus, s.titleBonus = win, draw, title
	}
}

// WithDivisions replaces the default league pyramid.
func WithDivisions(divs []*model.Division) Option {
	return func(s *Service) {
		if len(divs) > 0 {
			s.divisions = divs
		}
	}
}

// WithStore sets the snapshot and ledger store.
func WithStore(st repository.Store) Option {
	return func(s *Service) {
		if st != nil {
			s.store = st
		}
	}
}

// WithHub sets the live-stream hub results are broadcast to.
func WithHub(h *stream.Hub) Option {
	return func(s *Service) { s.hub = h }
}

// WithLogger sets the service logger.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.log = l
		}
	}
}

// New creates a fully wired Service.
func New(opts ...Option) *Service {
	s := &Service{
		seed:            1,
		workerCount:     runtime.NumCPU(),
		queueSize:       1024,
		rounds:          2,
		daysPerMatchday: 7,
		minRoster:       11,
		bidWindowDays:   7,
		winBonus:        50_000,
		drawBonus:       20_000,
		titleBonus:      2_000_000,
		log:             logger.Get(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.store == nil {
		s.store = repository.NewMemoryStore()
	}

	s.tables = rules.Default()

	engine := match.New(s.tables)
	s.queue = fixturequeue.NewInMemoryQueue(
		fixturequeue.WithCapacity(s.queueSize),
		fixturequeue.WithBufferSize(s.queueSize),
	)
	s.pool = workerpool.NewPool(s.workerCount, s.queue, engine)

	// s.market is nil until the end of New; the closures only run once
	// requests flow, well after wiring completes.
	reserved := func(code string) int64 { return s.market.Escrowed(code) }

	s.scouts = scouting.New(
		scouting.WithSeed(s.seed),
		scouting.WithReservedFunds(reserved),
		scouting.WithLedger(s.recordLedger),
	)

	orchOpts := []season.Option{
		season.WithSeed(s.seed),
		season.WithRunner(s.pool),
		season.WithRounds(s.rounds),
		season.WithDaysPerMatchday(s.daysPerMatchday),
		season.WithMinRoster(s.minRoster),
		season.WithBonuses(s.winBonus, s.drawBonus, s.titleBonus),
		season.WithRetireHook(s.scouts.Forget),
		season.WithReservedFunds(reserved),
		season.WithLogger(s.log),
	}
	if s.divisions != nil {
		orchOpts = append(orchOpts, season.WithDivisions(s.divisions))
	}
	s.orch = season.New(s.tables, orchOpts...)

	marketOpts := []market.Option{
		market.WithClock(s.orch.Day),
		market.WithLedger(s.recordLedger),
	}
	if s.feeSplit != nil {
		marketOpts = append(marketOpts, market.WithFeeSplit(*s.feeSplit))
	}
	s.market = market.New(s.orch, marketOpts...)

	return s
}

// Start resumes from the latest persisted snapshot, if any, and starts
// the fixture workers and the stream hub.
func (s *Service) Start(ctx context.Context) error {
	snap, err := s.store.LatestSnapshot(ctx)
	switch {
	case err == nil:
		s.mu.Lock()
		s.orch.Restore(snap)
		s.mu.Unlock()
		s.log.Info(ctx, "resumed season from snapshot",
			logger.Int("season", snap.State.Index),
			logger.Int("matchday", snap.State.Matchday))
	case errors.Is(err, repository.ErrNotFound):
		// fresh start
	default:
		return fmt.Errorf("failed to load latest snapshot: %w", err)
	}

	s.pool.Start(ctx)
	if s.hub != nil {
		go s.hub.Run(ctx)
	}
	return nil
}

// Stop persists a final snapshot and drains the worker pool.
func (s *Service) Stop(ctx context.Context) error {
	s.mu.Lock()
	snap := s.orch.Snapshot()
	s.mu.Unlock()

	if err := s.store.SaveSnapshot(ctx, snap); err != nil {
		s.log.Error(ctx, "failed to persist final snapshot", logger.Error(err))
	}
	if err := s.pool.Shutdown(ctx); err != nil {
		return fmt.Errorf("failed to stop worker pool: %w", err)
	}
	return s.store.Close()
}

// recordLedger mirrors economic events into the persistent trail.
// Market and scouting events carry no season context of their own, so
// they are stamped here before persisting.
func (s *Service) recordLedger(ev model.LedgerEvent) {
	if ev.Season == 0 {
		st := s.orch.State()
		ev.Season = st.Index
		ev.Matchday = st.Matchday
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := s.store.AppendLedger(ctx, []model.LedgerEvent{ev}); err != nil {
		s.log.Error(ctx, "failed to append ledger event",
			logger.String("type", string(ev.Type)), logger.Error(err))
	}
}

// State reports the current season state.
func (s *Service) State(context.Context) model.SeasonState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.orch.State()
}

// Divisions reports the league pyramid.
func (s *Service) Divisions(context.Context) []*model.Division {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.orch.Divisions()
}

// Standings returns the current table for one tier.
func (s *Service) Standings(_ context.Context, tier int) ([]season.TableRow, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.orch.Standings(tier)
}

// TopScorers returns the top goal scorers across all divisions.
func (s *Service) TopScorers(_ context.Context, limit int) []season.ScorerRow {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.orch.TopScorers(limit)
}

// Results returns all match results of the active season so far.
func (s *Service) Results(context.Context) []model.MatchResult {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.orch.Results()
}

// Listings returns all transfer listings.
func (s *Service) Listings(context.Context) []*market.Listing {
	return s.market.Listings()
}

// ScoutReports returns all cached reports owned by a squad.
func (s *Service) ScoutReports(_ context.Context, squad string) []*scouting.Report {
	return s.scouts.Reports(squad)
}

// RegisterSquad enrols a squad for the upcoming season.
func (s *Service) RegisterSquad(ctx context.Context, sq *model.Squad, tier int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.orch.Register(ctx, sq, tier)
}

// StartSeason freezes registration and generates the schedule.
func (s *Service) StartSeason(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.orch.StartSeason(ctx); err != nil {
		return err
	}
	st := s.orch.State()
	metrics.UpdateSeason(st.Index, st.Matchday)
	if s.hub != nil {
		s.hub.Broadcast(stream.Message{Kind: stream.KindPhase, Season: st.Index, Data: st})
	}
	return nil
}

// PlayMatchday simulates the next matchday, persists a snapshot and
// expires transfer listings whose window the advanced clock passed.
func (s *Service) PlayMatchday(ctx context.Context) ([]model.MatchResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	results, err := s.orch.PlayMatchday(ctx)
	if err != nil {
		return nil, err
	}

	st := s.orch.State()
	metrics.UpdateSeason(st.Index, st.Matchday)

	if _, err := s.market.ExpireDue(ctx); err != nil {
		s.log.Error(ctx, "failed to expire due listings", logger.Error(err))
	}

	if s.hub != nil {
		for i := range results {
			s.hub.BroadcastResult(st.Index, &results[i])
		}
		if rows, err := s.orch.Standings(1); err == nil {
			s.hub.Broadcast(stream.Message{
				Kind:     stream.KindStandings,
				Season:   st.Index,
				Matchday: st.Matchday,
				Data:     rows,
			})
		}
	}

	if err := s.store.SaveSnapshot(ctx, s.orch.Snapshot()); err != nil {
		s.log.Error(ctx, "failed to persist snapshot",
			logger.Int("matchday", st.Matchday), logger.Error(err))
	}
	return results, nil
}

// SettleSeason closes the season: bonuses, promotion and relegation,
// aging and retirement.
func (s *Service) SettleSeason(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.orch.Settle(ctx); err != nil {
		return err
	}
	st := s.orch.State()
	if s.hub != nil {
		s.hub.Broadcast(stream.Message{Kind: stream.KindPhase, Season: st.Index, Data: st})
	}
	return s.store.SaveSnapshot(ctx, s.orch.Snapshot())
}

// OpenRegistration rolls a settled season over to the next index.
func (s *Service) OpenRegistration(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.orch.OpenRegistration(ctx)
}

// SetFormation changes a squad's formation between matchdays.
func (s *Service) SetFormation(_ context.Context, squad, formation string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	sq, ok := s.orch.Squad(squad)
	if !ok {
		return season.ErrUnknownSquad
	}
	if !s.tables.KnownFormation(formation) {
		return match.ErrUnknownFormation
	}
	sq.Formation = formation
	return nil
}

// ListPlayer opens a sealed-window listing for a rostered player.
func (s *Service) ListPlayer(ctx context.Context, seller, playerID string, minPrice, releaseClause, windowDays int64) (*market.Listing, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if windowDays <= 0 {
		windowDays = s.bidWindowDays
	}
	return s.market.List(ctx, seller, playerID, minPrice, releaseClause, windowDays)
}

// PlaceBid escrows the bid amount against an open listing.
func (s *Service) PlaceBid(ctx context.Context, bidder, listingID string, amount int64) (*market.Listing, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.market.PlaceBid(ctx, bidder, listingID, amount)
}

// ResolveListing settles a listing whose window has closed.
func (s *Service) ResolveListing(ctx context.Context, listingID string) (*market.Listing, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.market.Resolve(ctx, listingID)
}

// CancelListing withdraws a bid-free listing.
func (s *Service) CancelListing(ctx context.Context, seller, listingID string) (*market.Listing, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.market.Cancel(ctx, seller, listingID)
}

// CreateLoan moves a player to the borrower for a fixed fee and window.
func (s *Service) CreateLoan(ctx context.Context, lender, borrower, playerID string, durationDays, fee int64) (*market.Loan, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.market.CreateLoan(ctx, lender, borrower, playerID, durationDays, fee)
}

// RecallLoan returns a loaned player to the lender.
func (s *Service) RecallLoan(ctx context.Context, caller, loanID string) (*market.Loan, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.market.RecallLoan(ctx, caller, loanID)
}

// Scout buys (or returns from cache) a scouting report on any player
// in the league.
func (s *Service) Scout(ctx context.Context, squad, playerID, tier string) (*scouting.Report, error) {
	t, err := scouting.ParseTier(tier)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	scout, ok := s.orch.Squad(squad)
	if !ok {
		return nil, season.ErrUnknownSquad
	}
	target := s.findPlayer(playerID)
	if target == nil {
		return nil, market.ErrUnknownPlayer
	}
	return s.scouts.Scout(ctx, scout, target, t)
}

// findPlayer scans every registered roster for a player id.
func (s *Service) findPlayer(playerID string) *model.Player {
	for _, div := range s.orch.Divisions() {
		for _, code := range div.SquadCodes {
			sq, ok := s.orch.Squad(code)
			if !ok {
				continue
			}
			if p := sq.Player(playerID); p != nil {
				return p
			}
		}
	}
	return nil
}

// Treasury reports accumulated transfer fee shares.
func (s *Service) Treasury() int64 { return s.market.Treasury() }

// Ledger returns the in-process settlement trail.
func (s *Service) Ledger() []model.LedgerEvent {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.orch.Ledger()
}
