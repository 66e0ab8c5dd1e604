package model

// Finances is a squad's ledger. Balance must never go negative; operations
// that would overdraw are rejected before any mutation.
type Finances struct {
	Balance        int64 `json:"balance"`
	WageBill       int64 `json:"wage_bill"`
	TransferBudget int64 `json:"transfer_budget"`
	Revenue        int64 `json:"revenue"`
}

// Standing is a squad's season record.
type Standing struct {
	Played       int `json:"played"`
	Wins         int `json:"wins"`
	Draws        int `json:"draws"`
	Losses       int `json:"losses"`
	Points       int `json:"points"`
	GoalsFor     int `json:"goals_for"`
	GoalsAgainst int `json:"goals_against"`
}

// GoalDifference is the first tie-break after points.
func (s Standing) GoalDifference() int {
	return s.GoalsFor - s.GoalsAgainst
}

// Apply records one match result: 3 points for a win, 1 for a draw.
func (s *Standing) Apply(goalsFor, goalsAgainst int) {
	s.Played++
	s.GoalsFor += goalsFor
	s.GoalsAgainst += goalsAgainst
	switch {
	case goalsFor > goalsAgainst:
		s.Wins++
		s.Points += 3
	case goalsFor == goalsAgainst:
		s.Draws++
		s.Points++
	default:
		s.Losses++
	}
}

// Reset clears the record for a new season.
func (s *Standing) Reset() {
	*s = Standing{}
}

// Squad is a club with its roster, tactics and finances.
type Squad struct {
	Code      string    `json:"code"` // short unique code, e.g. "BAR"
	Name      string    `json:"name"`
	Formation string    `json:"formation"`
	Players   []*Player `json:"players"`
	Finances  Finances  `json:"finances"`
	Standing  Standing  `json:"standing"`
}

// Player returns the rostered player with the given id, or nil.
func (sq *Squad) Player(id string) *Player {
	for _, p := range sq.Players {
		if p.ID == id {
			return p
		}
	}
	return nil
}

// RemovePlayer takes a player off the roster, returning it if present.
func (sq *Squad) RemovePlayer(id string) *Player {
	for i, p := range sq.Players {
		if p.ID == id {
			sq.Players = append(sq.Players[:i], sq.Players[i+1:]...)
			return p
		}
	}
	return nil
}

// AddPlayer appends a player to the roster.
func (sq *Squad) AddPlayer(p *Player) {
	sq.Players = append(sq.Players, p)
}

// RecalcWageBill recomputes the weekly wage bill from the roster.
func (sq *Squad) RecalcWageBill() {
	var total int64
	for _, p := range sq.Players {
		total += p.Wage
	}
	sq.Finances.WageBill = total
}
