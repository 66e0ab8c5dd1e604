package model

// Phase is the season lifecycle state. Transitions only ever move
// Registration -> Active -> Settled -> Registration (next index).
type Phase string

const (
	PhaseRegistration Phase = "registration"
	PhaseActive       Phase = "active"
	PhaseSettled      Phase = "settled"
)

// SeasonState tracks where a season currently stands.
type SeasonState struct {
	Index    int   `json:"index"`
	Phase    Phase `json:"phase"`
	Matchday int   `json:"matchday"` // completed matchdays in the active season
	Day      int64 `json:"day"`      // logical calendar day, drives market deadlines
}

// Division is one tier of the league pyramid.
type Division struct {
	Tier            int      `json:"tier"` // 1 is the top flight
	Name            string   `json:"name"`
	Multiplier      float64  `json:"multiplier"` // wage/reward multiplier
	SquadCodes      []string `json:"squad_codes"`
	PromotionSpots  int      `json:"promotion_spots"`
	RelegationSpots int      `json:"relegation_spots"`
}

// LedgerEventType classifies settlement events mirrored to the external
// ownership ledger.
type LedgerEventType string

const (
	LedgerWages     LedgerEventType = "wages"
	LedgerBonus     LedgerEventType = "bonus"
	LedgerTransfer  LedgerEventType = "transfer"
	LedgerLoanFee   LedgerEventType = "loan_fee"
	LedgerFeeBurn   LedgerEventType = "fee_burn"
	LedgerTreasury  LedgerEventType = "treasury"
	LedgerScouting  LedgerEventType = "scouting"
	LedgerRetired   LedgerEventType = "retired"
	LedgerPromotion LedgerEventType = "promotion"
)

// LedgerEvent is one economic fact for the external ownership mirror.
type LedgerEvent struct {
	Type     LedgerEventType `json:"type"`
	Season   int             `json:"season"`
	Matchday int             `json:"matchday"`
	Squad    string          `json:"squad,omitempty"`
	Counter  string          `json:"counter,omitempty"` // counterparty squad, if any
	PlayerID string          `json:"player_id,omitempty"`
	Amount   int64           `json:"amount"`
	Detail   string          `json:"detail,omitempty"`
}

// SeasonSnapshot is the serializable state the orchestrator persists so a
// restarted process resumes at the recorded matchday.
type SeasonSnapshot struct {
	State     SeasonState   `json:"state"`
	Seed      int64         `json:"seed"`
	Divisions []*Division   `json:"divisions"`
	Squads    []*Squad      `json:"squads"`
	Schedule  [][]Fixture   `json:"schedule"` // one slice of fixtures per matchday
	Results   []MatchResult `json:"results"`
}
