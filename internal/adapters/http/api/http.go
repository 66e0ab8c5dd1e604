// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/rs/cors"

	"github.com/okian/calcio/internal/domain/market"
	"github.com/okian/calcio/internal/domain/model"
	"github.com/okian/calcio/internal/domain/scouting"
	"github.com/okian/calcio/internal/domain/season"
)

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to implementations in other packages.
type Dependencies interface {
	// Read surface.
	State(ctx context.Context) model.SeasonState
	Divisions(ctx context.Context) []*model.Division
	Standings(ctx context.Context, tier int) ([]season.TableRow, error)
	TopScorers(ctx context.Context, limit int) []season.ScorerRow
	Results(ctx context.Context) []model.MatchResult
	Listings(ctx context.Context) []*market.Listing
	ScoutReports(ctx context.Context, squad string) []*scouting.Report

	// Season lifecycle.
	RegisterSquad(ctx context.Context, sq *model.Squad, tier int) error
	StartSeason(ctx context.Context) error
	PlayMatchday(ctx context.Context) ([]model.MatchResult, error)
	SettleSeason(ctx context.Context) error
	OpenRegistration(ctx context.Context) error

	// Manager actions.
	SetFormation(ctx context.Context, squad, formation string) error
	ListPlayer(ctx context.Context, seller, playerID string, minPrice, releaseClause, windowDays int64) (*market.Listing, error)
	PlaceBid(ctx context.Context, bidder, listingID string, amount int64) (*market.Listing, error)
	ResolveListing(ctx context.Context, listingID string) (*market.Listing, error)
	CancelListing(ctx context.Context, seller, listingID string) (*market.Listing, error)
	CreateLoan(ctx context.Context, lender, borrower, playerID string, durationDays, fee int64) (*market.Loan, error)
	RecallLoan(ctx context.Context, caller, loanID string) (*market.Loan, error)
	Scout(ctx context.Context, squad, playerID, tier string) (*scouting.Report, error)
}

// Server wires HTTP routes for the business API.
type Server struct {
	deps       Dependencies
	router     *mux.Router
	ws         http.HandlerFunc
	maxScorers int
}

// Option applies a configuration option to the Server.
type Option func(*Server)

// WithWebsocket mounts the live-stream upgrade handler under /ws.
func WithWebsocket(h http.HandlerFunc) Option {
	return func(s *Server) { s.ws = h }
}

// WithMaxScorers caps the scorers limit query parameter.
func WithMaxScorers(n int) Option {
	return func(s *Server) {
		if n > 0 {
			s.maxScorers = n
		}
	}
}

// NewServer creates the API server and registers all routes.
func NewServer(deps Dependencies, opts ...Option) *Server {
	s := &Server{deps: deps, router: mux.NewRouter(), maxScorers: 100}
	for _, opt := range opts {
		opt(s)
	}
	s.register()
	return s
}

func (s *Server) register() {
	r := s.router

	r.HandleFunc("/healthz", metricsMiddleware(s.handleHealth, "healthz")).Methods(http.MethodGet)
	r.HandleFunc("/metrics", s.handleMetrics).Methods(http.MethodGet)

	r.HandleFunc("/season", metricsMiddleware(s.handleSeason, "season")).Methods(http.MethodGet)
	r.HandleFunc("/standings/{tier:[0-9]+}", metricsMiddleware(s.handleStandings, "standings")).Methods(http.MethodGet)
	r.HandleFunc("/scorers", metricsMiddleware(s.handleScorers, "scorers")).Methods(http.MethodGet)
	r.HandleFunc("/results", metricsMiddleware(s.handleResults, "results")).Methods(http.MethodGet)
	r.HandleFunc("/market/listings", metricsMiddleware(s.handleListings, "listings")).Methods(http.MethodGet)
	r.HandleFunc("/scouting/{squad}", metricsMiddleware(s.handleScoutReports, "scouting")).Methods(http.MethodGet)

	r.HandleFunc("/actions", metricsMiddleware(s.handleAction, "actions")).Methods(http.MethodPost)

	if s.ws != nil {
		r.HandleFunc("/ws", s.ws)
	}
}

// Handler returns the fully wrapped HTTP handler, CORS included.
func (s *Server) Handler() http.Handler {
	return cors.New(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Content-Type"},
	}).Handler(s.router)
}
