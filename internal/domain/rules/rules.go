// Package rules holds the static lookup tables driving match simulation:
// the tactics-interaction matrix, weather and referee modifiers, injury
// severity tiers and the aging/value curves.
//
// A Table is built once, passed by reference into every simulation call and
// never mutated afterwards, so concurrent fixture simulation needs no
// locking around it.
package rules

import "github.com/okian/calcio/internal/domain/model"

// Layout is the outfield shape of a formation.
type Layout struct {
	Defenders   int
	Midfielders int
	Attackers   int
}

// SeverityTier maps a slice of the injury probability space to a recovery
// duration range in days.
type SeverityTier struct {
	Weight  float64 // relative probability mass of this tier
	MinDays int
	MaxDays int
}

// KeeperTier reduces the opposing expected-goal rate when the goalkeeper's
// market value reaches the tier threshold.
type KeeperTier struct {
	MinValue  int64
	Reduction float64 // subtracted from the attacking side's xG rate
}

// Table bundles every immutable tuning constant for the simulation.
type Table struct {
	// Formations maps a formation name to its outfield layout.
	Formations map[string]Layout

	// TacticsMatrix[home][away] nudges the home attack rating; the away
	// side receives the inverse effect scaled down. Values are asymmetric
	// by design of the matchup table.
	TacticsMatrix map[string]map[string]float64

	// WeatherSkill multiplies specific effective-skill contributions under
	// a weather condition. Skills absent from the map are unaffected.
	WeatherSkill map[model.Weather]map[model.SkillName]float64

	// Positional fitness multipliers.
	InPositionBonus    float64 // trained position occupied
	OutOfPositionPenal float64 // forced out of position

	// Expected-goal model constants.
	HomeAdvantage   float64
	XGBase          float64
	XGDefenseOffset float64
	XGFloor         float64

	// Event probabilities.
	CardBaseRate    float64 // per player per match, scaled by referee strictness
	SecondYellowPct float64
	InjuryBaseRate  float64
	InjurySeverity  []SeverityTier

	// Goalkeeper quality tiers, highest threshold first.
	KeeperTiers []KeeperTier

	// Aging and economy curves.
	DeclineAge     int     // skills/value decay from this age up
	RetireAge      int     // probabilistic retirement from this age up
	ForceRetireAge int     // retirement certain at this age
	RetireRamp     float64 // added retirement probability per year past RetireAge
	PeakAgeLow     int
	PeakAgeHigh    int

	// Wage and value scaling.
	WageRate           float64 // weekly wage as a fraction of market value
	MinWage            int64
	MinValue           int64
	ValuePerSkillPoint int64 // base value contribution of one stored skill point
}

// Default returns the canonical rule table.
func Default() *Table {
	return &Table{
		Formations: map[string]Layout{
			"4-4-2":   {4, 4, 2},
			"4-3-3":   {4, 3, 3},
			"4-2-3-1": {4, 5, 1},
			"3-5-2":   {3, 5, 2},
			"3-4-3":   {3, 4, 3},
			"5-3-2":   {5, 3, 2},
			"5-4-1":   {5, 4, 1},
			"4-1-4-1": {4, 5, 1},
		},
		TacticsMatrix: map[string]map[string]float64{
			"4-4-2": {
				"4-4-2": 0.00, "4-3-3": 0.12, "4-2-3-1": -0.08, "3-5-2": 0.05,
				"3-4-3": 0.10, "5-3-2": -0.06, "5-4-1": -0.12, "4-1-4-1": 0.04,
			},
			"4-3-3": {
				"4-4-2": -0.12, "4-3-3": 0.00, "4-2-3-1": 0.15, "3-5-2": -0.10,
				"3-4-3": 0.06, "5-3-2": 0.08, "5-4-1": -0.05, "4-1-4-1": 0.10,
			},
			"4-2-3-1": {
				"4-4-2": 0.08, "4-3-3": -0.15, "4-2-3-1": 0.00, "3-5-2": 0.12,
				"3-4-3": -0.08, "5-3-2": 0.06, "5-4-1": 0.10, "4-1-4-1": -0.06,
			},
			"3-5-2": {
				"4-4-2": -0.05, "4-3-3": 0.10, "4-2-3-1": -0.12, "3-5-2": 0.00,
				"3-4-3": 0.08, "5-3-2": -0.10, "5-4-1": -0.08, "4-1-4-1": 0.12,
			},
			"3-4-3": {
				"4-4-2": -0.10, "4-3-3": -0.06, "4-2-3-1": 0.08, "3-5-2": -0.08,
				"3-4-3": 0.00, "5-3-2": 0.14, "5-4-1": 0.12, "4-1-4-1": -0.04,
			},
			"5-3-2": {
				"4-4-2": 0.06, "4-3-3": -0.08, "4-2-3-1": -0.06, "3-5-2": 0.10,
				"3-4-3": -0.14, "5-3-2": 0.00, "5-4-1": 0.04, "4-1-4-1": 0.08,
			},
			"5-4-1": {
				"4-4-2": 0.12, "4-3-3": 0.05, "4-2-3-1": -0.10, "3-5-2": 0.08,
				"3-4-3": -0.12, "5-3-2": -0.04, "5-4-1": 0.00, "4-1-4-1": 0.06,
			},
			"4-1-4-1": {
				"4-4-2": -0.04, "4-3-3": -0.10, "4-2-3-1": 0.06, "3-5-2": -0.12,
				"3-4-3": 0.04, "5-3-2": -0.08, "5-4-1": -0.06, "4-1-4-1": 0.00,
			},
		},
		WeatherSkill: map[model.Weather]map[model.SkillName]float64{
			model.WeatherDry: {},
			model.WeatherWet: {
				model.SkillControl: 0.85,
				model.SkillPassing: 0.90,
				model.SkillSpeed:   0.95,
			},
			model.WeatherMuddy: {
				model.SkillControl: 0.80,
				model.SkillPassing: 0.88,
				model.SkillSpeed:   0.85,
				model.SkillHeading: 1.10,
			},
			model.WeatherSnow: {
				model.SkillControl:   0.78,
				model.SkillPassing:   0.85,
				model.SkillSpeed:     0.80,
				model.SkillFinishing: 0.90,
				model.SkillHeading:   1.15,
			},
		},
		InPositionBonus:    1.2,
		OutOfPositionPenal: 0.7,

		HomeAdvantage:   0.25,
		XGBase:          2.85,
		XGDefenseOffset: 8.0,
		XGFloor:         0.3,

		CardBaseRate:    0.12,
		SecondYellowPct: 0.05,
		InjuryBaseRate:  0.035,
		InjurySeverity: []SeverityTier{
			{Weight: 0.50, MinDays: 1, MaxDays: 7},
			{Weight: 0.30, MinDays: 8, MaxDays: 28},
			{Weight: 0.15, MinDays: 29, MaxDays: 90},
			{Weight: 0.05, MinDays: 91, MaxDays: 180},
		},

		KeeperTiers: []KeeperTier{
			{MinValue: 20_000_000, Reduction: 0.25},
			{MinValue: 10_000_000, Reduction: 0.18},
			{MinValue: 5_000_000, Reduction: 0.12},
			{MinValue: 1_000_000, Reduction: 0.06},
		},

		DeclineAge:     30,
		RetireAge:      34,
		ForceRetireAge: 38,
		RetireRamp:     0.20,
		PeakAgeLow:     25,
		PeakAgeHigh:    29,

		WageRate:           0.0018,
		MinWage:            5_000,
		MinValue:           25_000,
		ValuePerSkillPoint: 400_000,
	}
}

// TacticsModifier looks up the home-side advantage for a formation pairing.
// Unknown formations contribute nothing.
func (t *Table) TacticsModifier(home, away string) float64 {
	row, ok := t.TacticsMatrix[home]
	if !ok {
		return 0
	}
	return row[away]
}

// WeatherFactor returns the multiplier a weather condition applies to one
// skill's contribution, defaulting to 1.
func (t *Table) WeatherFactor(w model.Weather, s model.SkillName) float64 {
	mods, ok := t.WeatherSkill[w]
	if !ok {
		return 1
	}
	if f, ok := mods[s]; ok {
		return f
	}
	return 1
}

// KeeperReduction returns the xG reduction earned by a goalkeeper of the
// given market value.
func (t *Table) KeeperReduction(value int64) float64 {
	for _, tier := range t.KeeperTiers {
		if value >= tier.MinValue {
			return tier.Reduction
		}
	}
	return 0
}

// KnownFormation reports whether a formation has a layout entry.
func (t *Table) KnownFormation(name string) bool {
	_, ok := t.Formations[name]
	return ok
}

// RetireProbability returns the chance a player of the given age retires at
// settlement. Zero below RetireAge, certain from ForceRetireAge.
func (t *Table) RetireProbability(age int) float64 {
	if age < t.RetireAge {
		return 0
	}
	if age >= t.ForceRetireAge {
		return 1
	}
	p := t.RetireRamp * float64(age-t.RetireAge+1)
	if p > 1 {
		p = 1
	}
	return p
}

// AgeFactor is the age component of the market value curve: rising to the
// peak window, then falling off sharply in the thirties.
func (t *Table) AgeFactor(age int) float64 {
	switch {
	case age <= 21:
		return 0.7 + float64(age-16)*0.06
	case age <= t.PeakAgeHigh:
		return 1.0
	case age <= 32:
		return 1.0 - float64(age-t.PeakAgeHigh)*0.08
	default:
		f := 0.76 - float64(age-32)*0.1
		if f < 0.3 {
			return 0.3
		}
		return f
	}
}
