package match

import (
	"sort"

	"github.com/okian/calcio/internal/domain/model"
	"github.com/okian/calcio/internal/domain/rules"
)

// Side sizes. A match can still be played short-handed down to one keeper
// and MinOutfield outfielders; below that the fixture is rejected.
const (
	FullSide    = 11
	MinOutfield = 7
)

// Lineup is one side's input to the engine: the fielded players in slot
// order plus the bench available for injury substitutions.
type Lineup struct {
	Code      string
	Name      string
	Formation string
	Starters  []*model.Player
	Bench     []*model.Player
}

// assignment binds a starter to the pitch zone the formation puts them in.
type assignment struct {
	player     *model.Player
	zone       model.Zone
	inPosition bool
}

// SelectLineup deterministically picks the strongest available XI for a
// squad: the best fit per formation slot by stored skill total, ties broken
// by player id so repeated selection over the same roster is stable.
func SelectLineup(sq *model.Squad, tables *rules.Table) (Lineup, error) {
	layout, ok := tables.Formations[sq.Formation]
	if !ok {
		return Lineup{}, ErrUnknownFormation
	}

	available := make([]*model.Player, 0, len(sq.Players))
	for _, p := range sq.Players {
		if p.Available() {
			available = append(available, p)
		}
	}
	sort.Slice(available, func(i, j int) bool {
		if ti, tj := available[i].Skills.Total(), available[j].Skills.Total(); ti != tj {
			return ti > tj
		}
		return available[i].ID < available[j].ID
	})

	byZone := map[model.Zone][]*model.Player{}
	for _, p := range available {
		z := model.ZoneOf(p.Position)
		byZone[z] = append(byZone[z], p)
	}

	used := map[string]bool{}
	take := func(zone model.Zone, n int, out *[]*model.Player) {
		for _, p := range byZone[zone] {
			if n == 0 {
				return
			}
			if !used[p.ID] {
				used[p.ID] = true
				*out = append(*out, p)
				n--
			}
		}
	}

	var starters []*model.Player
	take(model.ZoneKeeper, 1, &starters)
	take(model.ZoneDefense, layout.Defenders, &starters)
	take(model.ZoneMidfield, layout.Midfielders, &starters)
	take(model.ZoneAttack, layout.Attackers, &starters)

	// Fill any shortfall with the best remaining players, out of position.
	for _, p := range available {
		if len(starters) == FullSide {
			break
		}
		if !used[p.ID] {
			used[p.ID] = true
			starters = append(starters, p)
		}
	}

	var bench []*model.Player
	for _, p := range available {
		if !used[p.ID] {
			bench = append(bench, p)
		}
	}

	lu := Lineup{
		Code:      sq.Code,
		Name:      sq.Name,
		Formation: sq.Formation,
		Starters:  starters,
		Bench:     bench,
	}
	if err := lu.validate(tables); err != nil {
		return Lineup{}, err
	}
	return lu, nil
}

// validate checks the malformed-squad preconditions.
func (l *Lineup) validate(tables *rules.Table) error {
	if !tables.KnownFormation(l.Formation) {
		return ErrUnknownFormation
	}
	keepers, outfield := 0, 0
	for _, p := range l.Starters {
		if model.ZoneOf(p.Position) == model.ZoneKeeper {
			keepers++
		} else {
			outfield++
		}
	}
	if keepers == 0 {
		return ErrNoGoalkeeper
	}
	if outfield < MinOutfield {
		return ErrTooFewPlayers
	}
	return nil
}

// assign distributes starters over the formation's slots. The first
// goalkeeper takes the keeper slot; remaining players fill defense, midfield
// and attack in starter order, trained-position players first.
func (l *Lineup) assign(layout rules.Layout) []assignment {
	out := make([]assignment, 0, len(l.Starters))
	var keeper *model.Player
	var rest []*model.Player
	for _, p := range l.Starters {
		if keeper == nil && model.ZoneOf(p.Position) == model.ZoneKeeper {
			keeper = p
			continue
		}
		rest = append(rest, p)
	}
	out = append(out, assignment{player: keeper, zone: model.ZoneKeeper, inPosition: true})

	slots := []struct {
		zone model.Zone
		n    int
	}{
		{model.ZoneDefense, layout.Defenders},
		{model.ZoneMidfield, layout.Midfielders},
		{model.ZoneAttack, layout.Attackers},
	}
	used := map[string]bool{}
	for _, slot := range slots {
		n := slot.n
		for _, p := range rest {
			if n == 0 {
				break
			}
			if !used[p.ID] && model.ZoneOf(p.Position) == slot.zone {
				used[p.ID] = true
				out = append(out, assignment{player: p, zone: slot.zone, inPosition: true})
				n--
			}
		}
		for _, p := range rest {
			if n == 0 {
				break
			}
			if !used[p.ID] {
				used[p.ID] = true
				out = append(out, assignment{player: p, zone: slot.zone, inPosition: false})
				n--
			}
		}
	}
	// Short-handed lineups leave trailing slots empty; any unassigned
	// starters (beyond the layout) play out of position in midfield.
	for _, p := range rest {
		if !used[p.ID] {
			used[p.ID] = true
			out = append(out, assignment{player: p, zone: model.ZoneMidfield, inPosition: false})
		}
	}
	return out
}

// Keeper returns the goalkeeper assignment.
func keeperOf(assigns []assignment) *model.Player {
	for _, a := range assigns {
		if a.zone == model.ZoneKeeper {
			return a.player
		}
	}
	return nil
}
