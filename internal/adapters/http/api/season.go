package api

import (
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
)

// seasonResponse is the payload for GET /season.
type seasonResponse struct {
	Index     int      `json:"index"`
	Phase     string   `json:"phase"`
	Matchday  int      `json:"matchday"`
	Day       int64    `json:"day"`
	Divisions []string `json:"divisions"`
}

// handleSeason handles GET /season requests.
func (s *Server) handleSeason(w http.ResponseWriter, r *http.Request) {
	st := s.deps.State(r.Context())
	resp := seasonResponse{
		Index:    st.Index,
		Phase:    string(st.Phase),
		Matchday: st.Matchday,
		Day:      st.Day,
	}
	for _, div := range s.deps.Divisions(r.Context()) {
		resp.Divisions = append(resp.Divisions, div.Name)
	}
	writeJSON(w, http.StatusOK, resp)
}

// handleStandings handles GET /standings/{tier} requests.
func (s *Server) handleStandings(w http.ResponseWriter, r *http.Request) {
	tier, err := strconv.Atoi(mux.Vars(r)["tier"])
	if err != nil {
		writeError(w, ErrBadRequest)
		return
	}
	rows, err := s.deps.Standings(r.Context(), tier)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, rows)
}

// handleScorers handles GET /scorers requests. Accepts an optional
// limit query parameter, default 10.
func (s *Server) handleScorers(w http.ResponseWriter, r *http.Request) {
	limit := 10
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			writeError(w, ErrBadRequest)
			return
		}
		limit = n
	}
	if limit > s.maxScorers {
		limit = s.maxScorers
	}
	writeJSON(w, http.StatusOK, s.deps.TopScorers(r.Context(), limit))
}

// handleResults handles GET /results requests.
func (s *Server) handleResults(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.deps.Results(r.Context()))
}
