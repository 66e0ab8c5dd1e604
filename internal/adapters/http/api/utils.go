package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/okian/calcio/internal/domain/market"
	"github.com/okian/calcio/internal/domain/match"
	"github.com/okian/calcio/internal/domain/scouting"
	"github.com/okian/calcio/internal/domain/season"
	"github.com/okian/calcio/pkg/logger"
)

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Get().Error(context.Background(), "failed to encode response", logger.Error(err))
	}
}

func writeError(w http.ResponseWriter, err error) {
	writeJSON(w, statusFor(err), errorResponse{Error: err.Error()})
}

var notFoundErrs = []error{
	market.ErrUnknownSquad,
	market.ErrUnknownPlayer,
	market.ErrUnknownListing,
	market.ErrUnknownLoan,
	season.ErrUnknownSquad,
}

var conflictErrs = []error{
	market.ErrListingClosed,
	market.ErrWindowExpired,
	market.ErrWindowOpen,
	market.ErrBidTooLow,
	market.ErrSelfBid,
	market.ErrInsufficientFunds,
	market.ErrNotTransferable,
	market.ErrNotSeller,
	market.ErrHasBids,
	market.ErrLoanInactive,
	market.ErrLoanNotRecallable,
	market.ErrSameSquad,
	season.ErrWrongPhase,
	season.ErrDuplicateSquad,
	season.ErrSeasonComplete,
	season.ErrSeasonIncomplete,
	scouting.ErrInsufficientFunds,
}

var badRequestErrs = []error{
	ErrBadRequest,
	ErrUnknownAction,
	market.ErrBadPrice,
	market.ErrBadWindow,
	match.ErrUnknownFormation,
	season.ErrRosterTooSmall,
	season.ErrUnknownTier,
	season.ErrTooFewSquads,
	season.ErrNilSquad,
	scouting.ErrUnknownTier,
	scouting.ErrNilTarget,
	scouting.ErrNilScout,
}

// statusFor maps domain sentinel errors onto HTTP status codes.
func statusFor(err error) int {
	for _, target := range notFoundErrs {
		if errors.Is(err, target) {
			return http.StatusNotFound
		}
	}
	for _, target := range conflictErrs {
		if errors.Is(err, target) {
			return http.StatusConflict
		}
	}
	for _, target := range badRequestErrs {
		if errors.Is(err, target) {
			return http.StatusBadRequest
		}
	}
	return http.StatusInternalServerError
}
