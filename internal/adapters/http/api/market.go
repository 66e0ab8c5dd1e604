package api

import (
	"net/http"

	"github.com/gorilla/mux"
)

// handleListings handles GET /market/listings requests.
func (s *Server) handleListings(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.deps.Listings(r.Context()))
}

// handleScoutReports handles GET /scouting/{squad} requests.
func (s *Server) handleScoutReports(w http.ResponseWriter, r *http.Request) {
	squad := mux.Vars(r)["squad"]
	writeJSON(w, http.StatusOK, s.deps.ScoutReports(r.Context(), squad))
}
