// Package model contains the domain types shared between the match engine,
// season orchestrator, transfer market and adapters.
package model

// Stored skills live on the 0..7 scale; the runtime effective value is
// derived from form and clamped to 0..15. Neither bound is ever persisted
// out of range.
const (
	StoredSkillMax    = 7
	EffectiveSkillMax = 15

	FormMin = -100
	FormMax = 100
)

// SkillName identifies one of the seven canonical skills.
type SkillName string

const (
	SkillPassing   SkillName = "passing"
	SkillVelocity  SkillName = "velocity"
	SkillHeading   SkillName = "heading"
	SkillTackling  SkillName = "tackling"
	SkillControl   SkillName = "control"
	SkillSpeed     SkillName = "speed"
	SkillFinishing SkillName = "finishing"
)

// SkillNames lists all skills in canonical order.
var SkillNames = []SkillName{
	SkillPassing, SkillVelocity, SkillHeading, SkillTackling,
	SkillControl, SkillSpeed, SkillFinishing,
}

// Skills holds the seven stored skill values.
type Skills struct {
	Passing   int `json:"passing"`
	Velocity  int `json:"velocity"`
	Heading   int `json:"heading"`
	Tackling  int `json:"tackling"`
	Control   int `json:"control"`
	Speed     int `json:"speed"`
	Finishing int `json:"finishing"`
}

// Get returns the stored value for a skill name.
func (s Skills) Get(name SkillName) int {
	switch name {
	case SkillPassing:
		return s.Passing
	case SkillVelocity:
		return s.Velocity
	case SkillHeading:
		return s.Heading
	case SkillTackling:
		return s.Tackling
	case SkillControl:
		return s.Control
	case SkillSpeed:
		return s.Speed
	case SkillFinishing:
		return s.Finishing
	}
	return 0
}

// Set stores a value for a skill name, clamped to the stored scale.
func (s *Skills) Set(name SkillName, v int) {
	if v < 0 {
		v = 0
	}
	if v > StoredSkillMax {
		v = StoredSkillMax
	}
	switch name {
	case SkillPassing:
		s.Passing = v
	case SkillVelocity:
		s.Velocity = v
	case SkillHeading:
		s.Heading = v
	case SkillTackling:
		s.Tackling = v
	case SkillControl:
		s.Control = v
	case SkillSpeed:
		s.Speed = v
	case SkillFinishing:
		s.Finishing = v
	}
}

// Total sums all seven stored skills.
func (s Skills) Total() int {
	return s.Passing + s.Velocity + s.Heading + s.Tackling + s.Control + s.Speed + s.Finishing
}

// Position is a player's trained position.
type Position string

const (
	PosGK  Position = "GK"
	PosRB  Position = "RB"
	PosCB  Position = "CB"
	PosLB  Position = "LB"
	PosCDM Position = "CDM"
	PosCM  Position = "CM"
	PosCAM Position = "CAM"
	PosRM  Position = "RM"
	PosLM  Position = "LM"
	PosRW  Position = "RW"
	PosLW  Position = "LW"
	PosCF  Position = "CF"
	PosST  Position = "ST"
)

// Zone is the pitch zone a position belongs to.
type Zone int

const (
	ZoneKeeper Zone = iota
	ZoneDefense
	ZoneMidfield
	ZoneAttack
)

// ZoneOf maps a trained position to its pitch zone.
func ZoneOf(p Position) Zone {
	switch p {
	case PosGK:
		return ZoneKeeper
	case PosRB, PosCB, PosLB:
		return ZoneDefense
	case PosCDM, PosCM, PosCAM, PosRM, PosLM:
		return ZoneMidfield
	default:
		return ZoneAttack
	}
}

// InjuryStatus reports whether a player is currently fit to play.
type InjuryStatus string

const (
	Healthy InjuryStatus = "healthy"
	Injured InjuryStatus = "injured"
)

// Ownership is the mutually exclusive market state of a player. It is an
// explicit field rather than something inferred from listing or loan
// records, so Squad, TransferListing and Loan never need cyclic references.
type Ownership string

const (
	Owned  Ownership = "owned"
	Listed Ownership = "listed"
	OnLoan Ownership = "on_loan"
)

// Player is the canonical mutable player record.
type Player struct {
	ID       string   `json:"id"`
	Name     string   `json:"name"`
	Position Position `json:"position"`
	Skills   Skills   `json:"skills"`

	Age     int     `json:"age"`
	Form    int     `json:"form"`    // FormMin..FormMax
	Fatigue float64 `json:"fatigue"` // 0..100

	Injury     InjuryStatus `json:"injury"`
	InjuryDays int          `json:"injury_days"`

	SeasonYellows     int `json:"season_yellows"`
	SeasonReds        int `json:"season_reds"`
	SeasonGoals       int `json:"season_goals"`
	SeasonAssists     int `json:"season_assists"`
	SeasonCleanSheets int `json:"season_clean_sheets"` // keeper and defenders only
	CareerGoals       int `json:"career_goals"`

	ContractExpiry int `json:"contract_expiry"` // season index the contract runs out

	Value int64 `json:"value"` // current market value
	Wage  int64 `json:"wage"`  // weekly wage

	Ownership Ownership `json:"ownership"`
}

// EffectiveSkill derives the runtime value of one skill:
// clamp(stored * (100+form)/100, 0, EffectiveSkillMax).
func (p *Player) EffectiveSkill(name SkillName) float64 {
	v := float64(p.Skills.Get(name)) * float64(100+p.Form) / 100.0
	if v < 0 {
		return 0
	}
	if v > EffectiveSkillMax {
		return EffectiveSkillMax
	}
	return v
}

// Available reports whether the player can be fielded.
func (p *Player) Available() bool {
	return p.Injury == Healthy
}

// ClampForm keeps form within its legal range.
func (p *Player) ClampForm() {
	if p.Form > FormMax {
		p.Form = FormMax
	}
	if p.Form < FormMin {
		p.Form = FormMin
	}
}
