// Package match resolves a single fixture into a score, a chronological
// event timeline and per-player statistics.
//
// The engine is pure: it never mutates player or squad state. Everything a
// result implies for the world (fatigue, injuries, standings, form) is
// carried in the MatchResult and applied by the season orchestrator, so a
// rejected call is guaranteed to leave no trace. Identical (seed, squads,
// configuration) always replays an identical result.
package match

import (
	"context"
	"sort"

	"github.com/okian/calcio/internal/domain/model"
	"github.com/okian/calcio/internal/domain/rng"
	"github.com/okian/calcio/internal/domain/rules"
)

// Default stochastic tuning.
const (
	defaultAssistChance = 0.75
	defaultRatingNoise  = 1.0

	ratingFloor = 4.0
	ratingCeil  = 10.0
)

// Engine simulates fixtures against an immutable rule table.
type Engine struct {
	tables       *rules.Table
	assistChance float64
	ratingNoise  float64
}

// Option applies a configuration option to the Engine.
type Option func(*Engine)

// WithAssistChance sets the probability a goal carries a credited assist.
func WithAssistChance(p float64) Option {
	return func(e *Engine) {
		if p >= 0 && p <= 1 {
			e.assistChance = p
		}
	}
}

// WithRatingNoise sets the stddev of the per-player rating noise.
func WithRatingNoise(sd float64) Option {
	return func(e *Engine) {
		if sd >= 0 {
			e.ratingNoise = sd
		}
	}
}

// New creates an Engine bound to a rule table.
func New(tables *rules.Table, opts ...Option) *Engine {
	e := &Engine{
		tables:       tables,
		assistChance: defaultAssistChance,
		ratingNoise:  defaultRatingNoise,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Params is one fixture's simulation input.
type Params struct {
	Fixture model.Fixture
	Home    Lineup
	Away    Lineup
	Weather model.Weather
	Referee float64 // strictness, 0.6 lenient .. 1.4 strict
	Stream  *rng.Stream
}

// Simulate resolves one fixture. Validation failures reject the call before
// any random draw, keeping sibling fixtures' streams unaffected.
func (e *Engine) Simulate(ctx context.Context, p Params) (*model.MatchResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if p.Stream == nil {
		return nil, ErrNilStream
	}
	if err := p.Home.validate(e.tables); err != nil {
		return nil, err
	}
	if err := p.Away.validate(e.tables); err != nil {
		return nil, err
	}

	homeAssign := p.Home.assign(e.tables.Formations[p.Home.Formation])
	awayAssign := p.Away.assign(e.tables.Formations[p.Away.Formation])

	homeAtk, homeDef := e.teamRatings(homeAssign, p.Weather)
	awayAtk, awayDef := e.teamRatings(awayAssign, p.Weather)

	// Tactics matchup nudges both sides asymmetrically.
	tac := e.tables.TacticsModifier(p.Home.Formation, p.Away.Formation)
	homeAtk += tac * 1.8
	awayAtk -= tac * 1.2
	homeDef -= tac * 0.3
	awayDef += tac * 0.3

	homeAtk += e.tables.HomeAdvantage

	homeXG := e.expectedGoals(homeAtk, awayDef, keeperOf(awayAssign))
	awayXG := e.expectedGoals(awayAtk, homeDef, keeperOf(homeAssign))

	homeGoals := p.Stream.Poisson(homeXG)
	awayGoals := p.Stream.Poisson(awayXG)

	res := &model.MatchResult{
		Fixture:   p.Fixture,
		HomeGoals: homeGoals,
		AwayGoals: awayGoals,
		HomeXG:    homeXG,
		AwayXG:    awayXG,
		Weather:   p.Weather,
		Referee:   p.Referee,
	}

	res.HomeStats = e.playerStats(homeAssign, p.Home, model.SideHome, homeGoals, p.Referee, p.Stream, res)
	res.AwayStats = e.playerStats(awayAssign, p.Away, model.SideAway, awayGoals, p.Referee, p.Stream, res)

	e.attributeGoals(homeAssign, model.SideHome, homeGoals, p.Stream, res, res.HomeStats)
	e.attributeGoals(awayAssign, model.SideAway, awayGoals, p.Stream, res, res.AwayStats)

	// Chronological order; ties keep generation order so replays are
	// byte-identical.
	sort.SliceStable(res.Events, func(i, j int) bool {
		return res.Events[i].Minute < res.Events[j].Minute
	})

	return res, nil
}

// eff is a player's runtime skill contribution under weather and
// positional-fitness adjustment.
func (e *Engine) eff(a assignment, w model.Weather, s model.SkillName) float64 {
	v := a.player.EffectiveSkill(s) * e.tables.WeatherFactor(w, s)
	if a.inPosition {
		return v * e.tables.InPositionBonus
	}
	return v * e.tables.OutOfPositionPenal
}

// teamRatings computes a side's attack and defense rating as weighted sums
// of effective skills per assigned zone, normalized by fielded players.
func (e *Engine) teamRatings(assigns []assignment, w model.Weather) (attack, defense float64) {
	for _, a := range assigns {
		switch a.zone {
		case model.ZoneAttack:
			attack += e.eff(a, w, model.SkillFinishing)*1.4 +
				e.eff(a, w, model.SkillSpeed)*0.8 +
				e.eff(a, w, model.SkillControl)*0.6 +
				e.eff(a, w, model.SkillVelocity)*0.4
			defense += e.eff(a, w, model.SkillTackling) * 0.2
		case model.ZoneMidfield:
			attack += e.eff(a, w, model.SkillPassing)*1.0 +
				e.eff(a, w, model.SkillControl)*0.6 +
				e.eff(a, w, model.SkillFinishing)*0.4
			defense += e.eff(a, w, model.SkillTackling)*0.8 +
				e.eff(a, w, model.SkillHeading)*0.4 +
				e.eff(a, w, model.SkillPassing)*0.3
		case model.ZoneDefense:
			attack += e.eff(a, w, model.SkillHeading)*0.3 +
				e.eff(a, w, model.SkillPassing)*0.2
			defense += e.eff(a, w, model.SkillTackling)*1.3 +
				e.eff(a, w, model.SkillHeading)*0.9 +
				e.eff(a, w, model.SkillSpeed)*0.4
		case model.ZoneKeeper:
			defense += e.eff(a, w, model.SkillControl)*1.2 +
				e.eff(a, w, model.SkillVelocity)*0.8 +
				e.eff(a, w, model.SkillHeading)*0.5
		}
	}
	n := float64(len(assigns))
	if n == 0 {
		return 1, 1
	}
	return attack / n, defense / n
}

// expectedGoals turns a rating differential into a Poisson rate, reduced by
// the opposing goalkeeper's value tier.
func (e *Engine) expectedGoals(attack, oppDefense float64, oppKeeper *model.Player) float64 {
	rate := attack / (oppDefense + e.tables.XGDefenseOffset) * e.tables.XGBase
	if oppKeeper != nil {
		rate -= e.tables.KeeperReduction(oppKeeper.Value)
	}
	if rate < e.tables.XGFloor {
		return e.tables.XGFloor
	}
	return rate
}

// playerStats rolls ratings, cards and injuries for one side. Injuries
// trigger a substitution from the bench when one is available.
func (e *Engine) playerStats(
	assigns []assignment,
	lineup Lineup,
	side model.Side,
	teamGoals int,
	referee float64,
	stream *rng.Stream,
	res *model.MatchResult,
) []model.PlayerMatchStats {
	stats := make([]model.PlayerMatchStats, 0, len(assigns))
	benchIdx := 0

	for _, a := range assigns {
		p := a.player

		contrib := p.EffectiveSkill(model.SkillFinishing)*0.20 +
			p.EffectiveSkill(model.SkillPassing)*0.20 +
			p.EffectiveSkill(model.SkillTackling)*0.15 +
			p.EffectiveSkill(model.SkillControl)*0.15 +
			p.EffectiveSkill(model.SkillSpeed)*0.15 +
			p.EffectiveSkill(model.SkillHeading)*0.10 +
			p.EffectiveSkill(model.SkillVelocity)*0.05

		rating := 6.0 + contrib*0.4 + stream.Gauss(0, e.ratingNoise)
		if teamGoals > 0 {
			rating += 0.3
		}
		rating = clampRating(rating)

		st := model.PlayerMatchStats{
			PlayerID:     p.ID,
			Name:         p.Name,
			Position:     string(p.Position),
			Rating:       rating,
			FatigueDelta: 5.0 + stream.Float64()*10.0,
		}

		// Injury roll: poor form and fatigue raise the risk.
		injuryProb := e.tables.InjuryBaseRate
		if p.Form < 0 {
			injuryProb *= 1.0 + float64(-p.Form)/100.0
		}
		injuryProb *= 1.0 + p.Fatigue/200.0
		if stream.Float64() < injuryProb {
			days := e.rollInjuryDays(stream)
			minute := stream.Between(1, 90)
			st.Injured = true
			st.InjuryDays = days
			st.Rating = clampRating(st.Rating - 1.5)
			res.Events = append(res.Events, model.MatchEvent{
				Minute: minute, Type: model.EventInjury, Side: side,
				PlayerID: p.ID, PlayerName: p.Name,
			})
			if benchIdx < len(lineup.Bench) {
				sub := lineup.Bench[benchIdx]
				benchIdx++
				res.Events = append(res.Events, model.MatchEvent{
					Minute: minute, Type: model.EventSubstitution, Side: side,
					PlayerID: sub.ID, PlayerName: sub.Name,
					Detail: "for " + p.Name,
				})
			}
		}

		// Card roll: defenders and midfielders tackle more.
		cardProb := e.tables.CardBaseRate * referee
		if a.zone == model.ZoneDefense || a.zone == model.ZoneMidfield {
			cardProb *= 1.3
		}
		if stream.Float64() < cardProb {
			st.YellowCard = true
			res.Events = append(res.Events, model.MatchEvent{
				Minute: stream.Between(1, 90), Type: model.EventYellowCard, Side: side,
				PlayerID: p.ID, PlayerName: p.Name,
			})
			if stream.Float64() < e.tables.SecondYellowPct {
				st.YellowCard = false
				st.RedCard = true
				res.Events = append(res.Events, model.MatchEvent{
					Minute: stream.Between(60, 90), Type: model.EventRedCard, Side: side,
					PlayerID: p.ID, PlayerName: p.Name,
					Detail: "second yellow",
				})
			}
		}

		stats = append(stats, st)
	}
	return stats
}

// attributeGoals picks scorers weighted by finishing skill and positional
// relevance, then optionally credits an assist to a different player.
func (e *Engine) attributeGoals(
	assigns []assignment,
	side model.Side,
	goals int,
	stream *rng.Stream,
	res *model.MatchResult,
	stats []model.PlayerMatchStats,
) {
	if goals == 0 || len(assigns) == 0 {
		return
	}

	weights := make([]float64, len(assigns))
	for i, a := range assigns {
		p := a.player
		var w float64
		switch a.zone {
		case model.ZoneAttack:
			w = p.EffectiveSkill(model.SkillFinishing)*3.0 + p.EffectiveSkill(model.SkillSpeed)*0.5
		case model.ZoneMidfield:
			w = p.EffectiveSkill(model.SkillFinishing)*1.5 + p.EffectiveSkill(model.SkillVelocity)*0.5
		case model.ZoneDefense:
			w = p.EffectiveSkill(model.SkillFinishing)*0.3 + p.EffectiveSkill(model.SkillHeading)*0.8
		default:
			w = 0.05
		}
		if w < 0.1 {
			w = 0.1
		}
		weights[i] = w
	}

	for g := 0; g < goals; g++ {
		scorerIdx := stream.Pick(weights)
		scorer := assigns[scorerIdx].player
		minute := stream.Between(1, 90)

		res.Events = append(res.Events, model.MatchEvent{
			Minute: minute, Type: model.EventGoal, Side: side,
			PlayerID: scorer.ID, PlayerName: scorer.Name,
		})
		stats[scorerIdx].Goals++
		stats[scorerIdx].Rating = clampRating(stats[scorerIdx].Rating + 0.8)

		if stream.Float64() >= e.assistChance {
			continue
		}
		assistWeights := make([]float64, len(assigns))
		for i, a := range assigns {
			if i == scorerIdx {
				continue
			}
			w := a.player.EffectiveSkill(model.SkillPassing)*1.5 +
				a.player.EffectiveSkill(model.SkillControl)*0.5
			if w < 0.1 {
				w = 0.1
			}
			assistWeights[i] = w
		}
		assistIdx := stream.Pick(assistWeights)
		if assistIdx == scorerIdx {
			continue
		}
		assister := assigns[assistIdx].player
		res.Events = append(res.Events, model.MatchEvent{
			Minute: minute, Type: model.EventAssist, Side: side,
			PlayerID: assister.ID, PlayerName: assister.Name,
			Detail: "for " + scorer.Name,
		})
		stats[assistIdx].Assists++
		stats[assistIdx].Rating = clampRating(stats[assistIdx].Rating + 0.4)
	}
}

// rollInjuryDays draws a recovery duration from the severity tiers.
func (e *Engine) rollInjuryDays(stream *rng.Stream) int {
	roll := stream.Float64()
	var acc float64
	for _, tier := range e.tables.InjurySeverity {
		acc += tier.Weight
		if roll < acc {
			return stream.Between(tier.MinDays, tier.MaxDays)
		}
	}
	last := e.tables.InjurySeverity[len(e.tables.InjurySeverity)-1]
	return stream.Between(last.MinDays, last.MaxDays)
}

func clampRating(r float64) float64 {
	if r < ratingFloor {
		return ratingFloor
	}
	if r > ratingCeil {
		return ratingCeil
	}
	return r
}
