package api

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/okian/calcio/internal/domain/model"
)

// Action type identifiers accepted by POST /actions.
const (
	ActionRegister         = "register"
	ActionStartSeason      = "start_season"
	ActionPlayMatchday     = "play_matchday"
	ActionSettle           = "settle"
	ActionOpenRegistration = "open_registration"
	ActionSetFormation     = "set_formation"
	ActionListPlayer       = "list_player"
	ActionPlaceBid         = "place_bid"
	ActionResolveListing   = "resolve_listing"
	ActionCancelListing    = "cancel_listing"
	ActionCreateLoan       = "create_loan"
	ActionRecallLoan       = "recall_loan"
	ActionScout            = "scout"
)

// actionRequest is the typed envelope for all mutating operations.
// Type selects the operation; the remaining fields are read as the
// operation requires them.
type actionRequest struct {
	Type string `json:"type"`

	Squad *model.Squad `json:"squad,omitempty"`
	Tier  int          `json:"tier,omitempty"`

	SquadCode string `json:"squad_code,omitempty"`
	PlayerID  string `json:"player_id,omitempty"`
	Formation string `json:"formation,omitempty"`

	ListingID     string `json:"listing_id,omitempty"`
	LoanID        string `json:"loan_id,omitempty"`
	Seller        string `json:"seller,omitempty"`
	Bidder        string `json:"bidder,omitempty"`
	Lender        string `json:"lender,omitempty"`
	Borrower      string `json:"borrower,omitempty"`
	Amount        int64  `json:"amount,omitempty"`
	MinPrice      int64  `json:"min_price,omitempty"`
	ReleaseClause int64  `json:"release_clause,omitempty"`
	WindowDays    int64  `json:"window_days,omitempty"`
	DurationDays  int64  `json:"duration_days,omitempty"`
	Fee           int64  `json:"fee,omitempty"`

	ScoutTier string `json:"scout_tier,omitempty"`
}

// handleAction handles POST /actions requests.
func (s *Server) handleAction(w http.ResponseWriter, r *http.Request) {
	var req actionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, fmt.Errorf("%w: %v", ErrBadRequest, err))
		return
	}

	ctx := r.Context()
	switch req.Type {
	case ActionRegister:
		if req.Squad == nil {
			writeError(w, fmt.Errorf("%w: squad payload required", ErrBadRequest))
			return
		}
		if err := s.deps.RegisterSquad(ctx, req.Squad, req.Tier); err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, map[string]string{"registered": req.Squad.Code})

	case ActionStartSeason:
		if err := s.deps.StartSeason(ctx); err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, s.deps.State(ctx))

	case ActionPlayMatchday:
		results, err := s.deps.PlayMatchday(ctx)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, results)

	case ActionSettle:
		if err := s.deps.SettleSeason(ctx); err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, s.deps.State(ctx))

	case ActionOpenRegistration:
		if err := s.deps.OpenRegistration(ctx); err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, s.deps.State(ctx))

	case ActionSetFormation:
		if err := s.deps.SetFormation(ctx, req.SquadCode, req.Formation); err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"squad": req.SquadCode, "formation": req.Formation})

	case ActionListPlayer:
		listing, err := s.deps.ListPlayer(ctx, req.Seller, req.PlayerID, req.MinPrice, req.ReleaseClause, req.WindowDays)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, listing)

	case ActionPlaceBid:
		listing, err := s.deps.PlaceBid(ctx, req.Bidder, req.ListingID, req.Amount)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, listing)

	case ActionResolveListing:
		listing, err := s.deps.ResolveListing(ctx, req.ListingID)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, listing)

	case ActionCancelListing:
		listing, err := s.deps.CancelListing(ctx, req.Seller, req.ListingID)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, listing)

	case ActionCreateLoan:
		loan, err := s.deps.CreateLoan(ctx, req.Lender, req.Borrower, req.PlayerID, req.DurationDays, req.Fee)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, loan)

	case ActionRecallLoan:
		loan, err := s.deps.RecallLoan(ctx, req.SquadCode, req.LoanID)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, loan)

	case ActionScout:
		report, err := s.deps.Scout(ctx, req.SquadCode, req.PlayerID, req.ScoutTier)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, report)

	default:
		writeError(w, fmt.Errorf("%w: %q", ErrUnknownAction, req.Type))
	}
}
