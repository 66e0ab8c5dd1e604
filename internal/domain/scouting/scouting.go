// Package scouting builds noisy, tiered views of other squads' players.
//
// A squad never sees a rival player's true numbers directly. It buys a
// scouting report at one of four tiers; higher tiers reveal more skills at
// lower noise, plus an estimate of the player's hidden potential. Reports
// are cached per (squad, player) and the cache is monotonic: asking again
// at a lower or equal tier returns the view already paid for, free of
// charge, while a higher tier replaces it with a sharper one.
package scouting

import (
	"context"
	"hash/fnv"
	"sync"

	"github.com/okian/calcio/internal/domain/model"
	"github.com/okian/calcio/internal/domain/rng"
	"github.com/okian/calcio/pkg/metrics"
)

// Tier is a scouting depth level.
type Tier int

const (
	TierNone Tier = iota
	TierBasic
	TierDetailed
	TierFull
)

// String returns the tier's wire name.
func (t Tier) String() string {
	switch t {
	case TierNone:
		return "none"
	case TierBasic:
		return "basic"
	case TierDetailed:
		return "detailed"
	case TierFull:
		return "full"
	}
	return "unknown"
}

// ParseTier maps a wire name back to a Tier.
func ParseTier(s string) (Tier, error) {
	switch s {
	case "none":
		return TierNone, nil
	case "basic":
		return TierBasic, nil
	case "detailed":
		return TierDetailed, nil
	case "full":
		return TierFull, nil
	}
	return TierNone, ErrUnknownTier
}

// Report is one squad's cached view of one player.
type Report struct {
	SquadCode string  `json:"squad_code"`
	PlayerID  string  `json:"player_id"`
	Name      string  `json:"name"`
	Position  string  `json:"position"`
	Age       int     `json:"age"`
	Tier      Tier    `json:"tier"`
	Noise     float64 `json:"noise"` // stddev applied to revealed skills

	// Skills holds the revealed, noised skill estimates. Unrevealed
	// skills are absent from the map.
	Skills map[model.SkillName]float64 `json:"skills"`

	// Potential is the estimated hidden ceiling, 0 when the tier does
	// not reveal it.
	Potential float64 `json:"potential,omitempty"`
}

// tierSpec fixes what each tier reveals and at what price.
type tierSpec struct {
	cost          int64
	noise         float64
	skills        []model.SkillName
	withPotential bool
	exact         bool
}

// Service sells reports and keeps the per-(squad, player) cache.
type Service struct {
	mu       sync.Mutex
	cache    map[string]*Report
	seed     int64
	tiers    map[Tier]tierSpec
	reserved func(code string) int64
	ledger   func(model.LedgerEvent)
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithSeed fixes the noise seed so report values replay deterministically.
func WithSeed(seed int64) Option {
	return func(s *Service) { s.seed = seed }
}

// WithCost overrides one tier's fee.
func WithCost(t Tier, cost int64) Option {
	return func(s *Service) {
		spec := s.tiers[t]
		spec.cost = cost
		s.tiers[t] = spec
	}
}

// WithReservedFunds installs a lookup for funds a squad has pledged
// elsewhere. Scouting fees never dip into those funds.
func WithReservedFunds(fn func(code string) int64) Option {
	return func(s *Service) {
		if fn != nil {
			s.reserved = fn
		}
	}
}

// WithLedger mirrors every charged fee to the settlement trail.
func WithLedger(fn func(model.LedgerEvent)) Option {
	return func(s *Service) {
		if fn != nil {
			s.ledger = fn
		}
	}
}

// New creates a scouting Service with the default tier ladder.
func New(opts ...Option) *Service {
	s := &Service{
		cache: make(map[string]*Report),
		tiers: map[Tier]tierSpec{
			TierNone: {},
			TierBasic: {
				cost:  25_000,
				noise: 1.5,
				skills: []model.SkillName{
					model.SkillPassing, model.SkillSpeed, model.SkillFinishing,
				},
			},
			TierDetailed: {
				cost:          75_000,
				noise:         0.6,
				skills:        model.SkillNames,
				withPotential: true,
			},
			TierFull: {
				cost:          200_000,
				noise:         0,
				skills:        model.SkillNames,
				withPotential: true,
				exact:         true,
			},
		},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Cost returns the fee for a tier.
func (s *Service) Cost(t Tier) int64 { return s.tiers[t].cost }

// Scout buys (or retrieves) a report on target for the scouting squad.
//
// A cached report at an equal or higher tier is returned as-is with no
// charge. A higher requested tier charges the full fee and replaces the
// cached view. Any precondition failure leaves funds and cache untouched.
func (s *Service) Scout(ctx context.Context, scout *model.Squad, target *model.Player, tier Tier) (*Report, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if scout == nil {
		return nil, ErrNilScout
	}
	if target == nil {
		return nil, ErrNilTarget
	}
	spec, ok := s.tiers[tier]
	if !ok || tier == TierNone {
		return nil, ErrUnknownTier
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	key := scout.Code + "/" + target.ID
	if cached, ok := s.cache[key]; ok && cached.Tier >= tier {
		return cloneReport(cached), nil
	}

	spendable := scout.Finances.Balance
	if s.reserved != nil {
		spendable -= s.reserved(scout.Code)
	}
	if spendable < spec.cost {
		return nil, ErrInsufficientFunds
	}
	scout.Finances.Balance -= spec.cost

	rep := s.build(scout.Code, target, tier, spec)
	s.cache[key] = rep
	if s.ledger != nil {
		s.ledger(model.LedgerEvent{
			Type: model.LedgerScouting, Squad: scout.Code,
			PlayerID: target.ID, Amount: spec.cost, Detail: tier.String(),
		})
	}
	metrics.RecordScoutingReport(tier.String())
	return cloneReport(rep), nil
}

// Report returns the cached view, if any, without charging.
func (s *Service) Report(squadCode, playerID string) (*Report, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rep, ok := s.cache[squadCode+"/"+playerID]
	if !ok {
		return nil, false
	}
	return cloneReport(rep), true
}

// Reports returns every cached report held by one squad.
func (s *Service) Reports(squadCode string) []*Report {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*Report
	prefix := squadCode + "/"
	for key, rep := range s.cache {
		if len(key) > len(prefix) && key[:len(prefix)] == prefix {
			out = append(out, cloneReport(rep))
		}
	}
	return out
}

// Forget drops a squad's cached view of a player. Used when the player
// retires.
func (s *Service) Forget(playerID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for key := range s.cache {
		if rep := s.cache[key]; rep.PlayerID == playerID {
			delete(s.cache, key)
		}
	}
}

// build draws the noised view. The noise stream is derived from the
// service seed plus (squad, player, tier), so the same purchase always
// yields the same numbers.
func (s *Service) build(squadCode string, target *model.Player, tier Tier, spec tierSpec) *Report {
	stream := rng.New(rng.SubSeed(s.seed, hashLabel(squadCode), hashLabel(target.ID), uint64(tier)))

	rep := &Report{
		SquadCode: squadCode,
		PlayerID:  target.ID,
		Name:      target.Name,
		Position:  string(target.Position),
		Age:       target.Age,
		Tier:      tier,
		Noise:     spec.noise,
		Skills:    make(map[model.SkillName]float64, len(spec.skills)),
	}
	for _, name := range spec.skills {
		v := float64(target.Skills.Get(name))
		if !spec.exact {
			v += stream.Gauss(0, spec.noise)
		}
		if v < 0 {
			v = 0
		}
		if v > model.StoredSkillMax {
			v = model.StoredSkillMax
		}
		rep.Skills[name] = v
	}
	if spec.withPotential {
		pot := Potential(target)
		if !spec.exact {
			pot += stream.Gauss(0, 0.8)
		}
		if pot < 0 {
			pot = 0
		}
		if pot > 10 {
			pot = 10
		}
		rep.Potential = pot
	}
	return rep
}

// Potential is the hidden ceiling estimate a full report reveals exactly:
// current ability plus the headroom youth still buys.
func Potential(p *model.Player) float64 {
	pot := float64(p.Skills.Total()) / 7.0
	if headroom := 27 - p.Age; headroom > 0 {
		pot += float64(headroom) * 0.15
	}
	if pot > 10 {
		return 10
	}
	return pot
}

func cloneReport(r *Report) *Report {
	cp := *r
	cp.Skills = make(map[model.SkillName]float64, len(r.Skills))
	for k, v := range r.Skills {
		cp.Skills[k] = v
	}
	return &cp
}

func hashLabel(s string) uint64 {
	h := fnv.New64a()
	h.Write([]byte(s))
	return h.Sum64()
}
