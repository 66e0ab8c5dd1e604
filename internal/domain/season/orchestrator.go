// Package season drives the league lifecycle: squads register, matchdays
// execute in order, and an explicit settlement closes the books before
// the next season's registration opens.
//
// The orchestrator is the single writer for standings, player state and
// the phase machine. Fixtures inside one matchday are handed to a Runner
// that may execute them in parallel; each fixture carries its own
// deterministic sub-seed, so parallel and sequential runs produce the
// same results. The orchestrator applies those results strictly in
// fixture order.
package season

import (
	"context"
	"sort"
	"time"

	"github.com/okian/calcio/internal/domain/match"
	"github.com/okian/calcio/internal/domain/model"
	"github.com/okian/calcio/internal/domain/rng"
	"github.com/okian/calcio/internal/domain/rules"
	"github.com/okian/calcio/pkg/logger"
	"github.com/okian/calcio/pkg/metrics"
)

// Job is one fixture prepared for simulation: lineups resolved, weather
// and referee drawn, sub-seed fixed.
type Job struct {
	Fixture model.Fixture
	Home    match.Lineup
	Away    match.Lineup
	Weather model.Weather
	Referee float64
	Seed    int64
}

// Runner executes a matchday's jobs and returns results in job order.
// The mq worker pool implements it; sequentialRunner is the fallback.
type Runner interface {
	Run(ctx context.Context, jobs []Job) ([]*model.MatchResult, error)
}

// sequentialRunner simulates jobs one by one on the calling goroutine.
type sequentialRunner struct {
	engine *match.Engine
}

func (r *sequentialRunner) Run(ctx context.Context, jobs []Job) ([]*model.MatchResult, error) {
	out := make([]*model.MatchResult, 0, len(jobs))
	for _, j := range jobs {
		res, err := r.engine.Simulate(ctx, match.Params{
			Fixture: j.Fixture,
			Home:    j.Home,
			Away:    j.Away,
			Weather: j.Weather,
			Referee: j.Referee,
			Stream:  rng.New(j.Seed),
		})
		if err != nil {
			return nil, err
		}
		out = append(out, res)
	}
	return out, nil
}

// TableRow is one line of a division's standings.
type TableRow struct {
	Rank     int            `json:"rank"`
	Code     string         `json:"code"`
	Name     string         `json:"name"`
	Standing model.Standing `json:"standing"`
}

// ScorerRow is one line of the top-scorer chart.
type ScorerRow struct {
	PlayerID string `json:"player_id"`
	Name     string `json:"name"`
	Squad    string `json:"squad"`
	Goals    int    `json:"goals"`
	Assists  int    `json:"assists"`
}

// Orchestrator owns a league's full mutable state.
type Orchestrator struct {
	log    logger.Logger
	tables *rules.Table
	runner Runner

	seed            int64
	rounds          int
	daysPerMatchday int64
	minRoster       int
	winBonus        int64
	drawBonus       int64
	titleBonus      int64

	onRetire func(playerID string)
	reserved func(code string) int64

	state     model.SeasonState
	divisions []*model.Division
	squads    map[string]*model.Squad
	schedule  [][]model.Fixture
	results   []model.MatchResult
	ledger    []model.LedgerEvent
}

// Option applies a configuration option to the Orchestrator.
type Option func(*Orchestrator)

// WithSeed fixes the master seed every stochastic draw derives from.
func WithSeed(seed int64) Option {
	return func(o *Orchestrator) { o.seed = seed }
}

// WithRunner installs the matchday executor.
func WithRunner(r Runner) Option {
	return func(o *Orchestrator) {
		if r != nil {
			o.runner = r
		}
	}
}

// WithRounds sets how many full round-robin cycles a season plays.
func WithRounds(n int) Option {
	return func(o *Orchestrator) {
		if n > 0 {
			o.rounds = n
		}
	}
}

// WithDaysPerMatchday sets how far the logical calendar advances per
// played matchday.
func WithDaysPerMatchday(d int64) Option {
	return func(o *Orchestrator) {
		if d > 0 {
			o.daysPerMatchday = d
		}
	}
}

// WithMinRoster sets the registration roster-size floor.
func WithMinRoster(n int) Option {
	return func(o *Orchestrator) {
		if n > 0 {
			o.minRoster = n
		}
	}
}

// WithDivisions replaces the default single-division pyramid.
func WithDivisions(divs []*model.Division) Option {
	return func(o *Orchestrator) {
		if len(divs) > 0 {
			o.divisions = divs
		}
	}
}

// WithBonuses sets the per-result and title payouts before the division
// multiplier is applied.
func WithBonuses(win, draw, title int64) Option {
	return func(o *Orchestrator) {
		o.winBonus, o.drawBonus, o.titleBonus = win, draw, title
	}
}

// WithRetireHook installs a callback fired for every retired player, so
// dependent caches can drop their views.
func WithRetireHook(fn func(playerID string)) Option {
	return func(o *Orchestrator) {
		if fn != nil {
			o.onRetire = fn
		}
	}
}

// WithReservedFunds installs a lookup for funds a squad has pledged
// elsewhere. Wage payment treats those funds as unspendable.
func WithReservedFunds(fn func(code string) int64) Option {
	return func(o *Orchestrator) {
		if fn != nil {
			o.reserved = fn
		}
	}
}

// WithLogger overrides the package logger.
func WithLogger(l logger.Logger) Option {
	return func(o *Orchestrator) {
		if l != nil {
			o.log = l
		}
	}
}

// New creates an Orchestrator in Registration phase for season 1.
func New(tables *rules.Table, opts ...Option) *Orchestrator {
	o := &Orchestrator{
		log:             logger.Get().Named("season"),
		tables:          tables,
		seed:            time.Now().UnixNano(),
		rounds:          2,
		daysPerMatchday: 7,
		minRoster:       match.FullSide,
		winBonus:        50_000,
		drawBonus:       20_000,
		titleBonus:      2_000_000,
		onRetire:        func(string) {},
		state:           model.SeasonState{Index: 1, Phase: model.PhaseRegistration},
		divisions: []*model.Division{
			{Tier: 1, Name: "Division 1", Multiplier: 1.0},
		},
		squads: make(map[string]*model.Squad),
	}
	for _, opt := range opts {
		opt(o)
	}
	if o.runner == nil {
		o.runner = &sequentialRunner{engine: match.New(tables)}
	}
	return o
}

// State returns the current lifecycle position.
func (o *Orchestrator) State() model.SeasonState { return o.state }

// Day returns the logical calendar day. The transfer market's deadlines
// run on this clock.
func (o *Orchestrator) Day() int64 { return o.state.Day }

// Squad implements the market's directory lookup.
func (o *Orchestrator) Squad(code string) (*model.Squad, bool) {
	sq, ok := o.squads[code]
	return sq, ok
}

// Division returns the division a squad currently plays in.
func (o *Orchestrator) Division(code string) *model.Division {
	for _, d := range o.divisions {
		for _, c := range d.SquadCodes {
			if c == code {
				return d
			}
		}
	}
	return nil
}

// Divisions returns the pyramid ordered by tier.
func (o *Orchestrator) Divisions() []*model.Division {
	out := make([]*model.Division, len(o.divisions))
	copy(out, o.divisions)
	sort.Slice(out, func(i, j int) bool { return out[i].Tier < out[j].Tier })
	return out
}

// Register adds a squad to a division during the Registration phase.
func (o *Orchestrator) Register(ctx context.Context, sq *model.Squad, tier int) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if sq == nil {
		return ErrNilSquad
	}
	if o.state.Phase != model.PhaseRegistration {
		return ErrWrongPhase
	}
	if _, exists := o.squads[sq.Code]; exists {
		return ErrDuplicateSquad
	}
	if len(sq.Players) < o.minRoster {
		return ErrRosterTooSmall
	}
	div := o.divisionByTier(tier)
	if div == nil {
		return ErrUnknownTier
	}

	for _, p := range sq.Players {
		if p.Ownership == "" {
			p.Ownership = model.Owned
		}
	}
	sq.RecalcWageBill()
	o.squads[sq.Code] = sq
	div.SquadCodes = append(div.SquadCodes, sq.Code)

	o.log.Info(ctx, "squad registered",
		logger.String("squad", sq.Code),
		logger.Int("tier", tier),
		logger.Int("roster", len(sq.Players)))
	return nil
}

// StartSeason freezes registration, builds every division's schedule and
// moves the season to Active.
func (o *Orchestrator) StartSeason(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if o.state.Phase != model.PhaseRegistration {
		return ErrWrongPhase
	}
	var perDivision [][][]model.Fixture
	for _, div := range o.Divisions() {
		if len(div.SquadCodes) < 2 {
			return ErrTooFewSquads
		}
		codes := make([]string, len(div.SquadCodes))
		copy(codes, div.SquadCodes)
		sort.Strings(codes)
		perDivision = append(perDivision, roundRobin(div.Tier, codes, o.rounds))
	}

	o.schedule = mergeSchedules(perDivision)
	o.results = o.results[:0]
	for _, sq := range o.squads {
		sq.Standing.Reset()
	}
	o.state.Phase = model.PhaseActive
	o.state.Matchday = 0

	metrics.UpdateSeason(o.state.Index, 0)
	o.log.Info(ctx, "season started",
		logger.Int("season", o.state.Index),
		logger.Int("matchdays", len(o.schedule)),
		logger.Int("squads", len(o.squads)))
	return nil
}

// PlayMatchday simulates the next scheduled matchday and applies every
// result, in fixture order, to standings and player state.
func (o *Orchestrator) PlayMatchday(ctx context.Context) ([]model.MatchResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if o.state.Phase != model.PhaseActive {
		return nil, ErrWrongPhase
	}
	if o.state.Matchday >= len(o.schedule) {
		return nil, ErrSeasonComplete
	}

	md := o.state.Matchday
	fixtures := o.schedule[md]

	// Matchday-level draws (weather, referee) come from their own stream
	// so fixture parallelism cannot reorder them.
	mdStream := rng.New(rng.SubSeed(o.seed, uint64(o.state.Index), uint64(md)))
	jobs := make([]Job, 0, len(fixtures))
	for _, fx := range fixtures {
		weather := drawWeather(mdStream)
		referee := 0.6 + mdStream.Float64()*0.8

		home, err := match.SelectLineup(o.squads[fx.Home], o.tables)
		if err != nil {
			return nil, err
		}
		away, err := match.SelectLineup(o.squads[fx.Away], o.tables)
		if err != nil {
			return nil, err
		}
		jobs = append(jobs, Job{
			Fixture: fx,
			Home:    home,
			Away:    away,
			Weather: weather,
			Referee: referee,
			Seed:    rng.SubSeed(o.seed, uint64(o.state.Index), uint64(md), uint64(fx.Index)),
		})
	}

	results, err := o.runner.Run(ctx, jobs)
	if err != nil {
		return nil, err
	}

	played := make([]model.MatchResult, 0, len(results))
	for _, res := range results {
		o.applyResult(res)
		o.results = append(o.results, *res)
		played = append(played, *res)
	}
	o.restAndRecover(played)
	o.payWages(md)

	o.state.Matchday++
	o.state.Day += o.daysPerMatchday
	metrics.UpdateSeason(o.state.Index, o.state.Matchday)

	o.log.Info(ctx, "matchday played",
		logger.Int("season", o.state.Index),
		logger.Int("matchday", md),
		logger.Int("fixtures", len(played)))
	return played, nil
}

// drawWeather picks a condition from a fixed distribution.
func drawWeather(stream *rng.Stream) model.Weather {
	conditions := []model.Weather{
		model.WeatherDry, model.WeatherWet, model.WeatherMuddy, model.WeatherSnow,
	}
	idx := stream.Pick([]float64{0.55, 0.25, 0.15, 0.05})
	return conditions[idx]
}

// applyResult folds one fixture's outcome into standings and player state.
func (o *Orchestrator) applyResult(res *model.MatchResult) {
	home := o.squads[res.Fixture.Home]
	away := o.squads[res.Fixture.Away]
	home.Standing.Apply(res.HomeGoals, res.AwayGoals)
	away.Standing.Apply(res.AwayGoals, res.HomeGoals)

	o.payBonus(home, res.HomeGoals, res.AwayGoals, res.Fixture)
	o.payBonus(away, res.AwayGoals, res.HomeGoals, res.Fixture)

	o.applyStats(home, res.HomeStats, res.AwayGoals)
	o.applyStats(away, res.AwayStats, res.HomeGoals)
}

func (o *Orchestrator) payBonus(sq *model.Squad, gf, ga int, fx model.Fixture) {
	var base int64
	switch {
	case gf > ga:
		base = o.winBonus
	case gf == ga:
		base = o.drawBonus
	default:
		return
	}
	mult := 1.0
	if div := o.divisionByTier(fx.Tier); div != nil {
		mult = div.Multiplier
	}
	amount := int64(float64(base) * mult)
	sq.Finances.Balance += amount
	sq.Finances.Revenue += amount
	o.ledger = append(o.ledger, model.LedgerEvent{
		Type: model.LedgerBonus, Season: o.state.Index, Matchday: fx.Matchday,
		Squad: sq.Code, Amount: amount,
	})
}

// applyStats writes a side's per-player match output back onto the roster.
func (o *Orchestrator) applyStats(sq *model.Squad, stats []model.PlayerMatchStats, conceded int) {
	for _, st := range stats {
		p := sq.Player(st.PlayerID)
		if p == nil {
			continue
		}
		if conceded == 0 {
			switch model.ZoneOf(p.Position) {
			case model.ZoneKeeper, model.ZoneDefense:
				p.SeasonCleanSheets++
			}
		}
		p.SeasonGoals += st.Goals
		p.CareerGoals += st.Goals
		p.SeasonAssists += st.Assists
		if st.YellowCard {
			p.SeasonYellows++
		}
		if st.RedCard {
			p.SeasonReds++
		}
		p.Fatigue += st.FatigueDelta
		if p.Fatigue > 100 {
			p.Fatigue = 100
		}
		if st.Injured {
			p.Injury = model.Injured
			p.InjuryDays = st.InjuryDays
		}
		// Performance nudges form; the drift toward neutral happens in
		// restAndRecover for everyone.
		p.Form += int((st.Rating - 6.0) * 5)
		p.ClampForm()
	}
}

// restAndRecover advances every player's between-matchday recovery:
// unused players shed fatigue, injuries count down, and form drifts
// toward neutral.
func (o *Orchestrator) restAndRecover(played []model.MatchResult) {
	appeared := make(map[string]bool)
	for _, res := range played {
		for _, st := range res.HomeStats {
			appeared[st.PlayerID] = true
		}
		for _, st := range res.AwayStats {
			appeared[st.PlayerID] = true
		}
	}

	for _, sq := range o.squads {
		for _, p := range sq.Players {
			if !appeared[p.ID] {
				p.Fatigue -= 15
				if p.Fatigue < 0 {
					p.Fatigue = 0
				}
			}
			if p.Injury == model.Injured {
				p.InjuryDays -= int(o.daysPerMatchday)
				if p.InjuryDays <= 0 {
					p.InjuryDays = 0
					p.Injury = model.Healthy
				}
			}
			p.Form -= p.Form / 10
			p.ClampForm()
		}
	}
}

// payWages debits each squad's wage bill. A squad that cannot cover it
// pays what it can; the shortfall is recorded on the ledger event.
func (o *Orchestrator) payWages(matchday int) {
	for _, code := range o.squadCodes() {
		sq := o.squads[code]
		due := sq.Finances.WageBill
		spendable := sq.Finances.Balance
		if o.reserved != nil {
			spendable -= o.reserved(code)
		}
		if spendable < 0 {
			spendable = 0
		}
		paid := due
		if paid > spendable {
			paid = spendable
		}
		sq.Finances.Balance -= paid
		ev := model.LedgerEvent{
			Type: model.LedgerWages, Season: o.state.Index, Matchday: matchday,
			Squad: code, Amount: paid,
		}
		if paid < due {
			ev.Detail = "short"
		}
		o.ledger = append(o.ledger, ev)
	}
}

// Settle closes an Active season whose matchdays are all played: final
// ordering, promotion and relegation, aging, retirement and the full
// value/wage repricing.
func (o *Orchestrator) Settle(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if o.state.Phase != model.PhaseActive {
		return ErrWrongPhase
	}
	if o.state.Matchday < len(o.schedule) {
		return ErrSeasonIncomplete
	}

	o.payTitleBonuses()
	o.promoteRelegate()
	o.ageRosters()

	o.state.Phase = model.PhaseSettled
	metrics.RecordSeasonSettled()
	o.log.Info(ctx, "season settled", logger.Int("season", o.state.Index))
	return nil
}

func (o *Orchestrator) payTitleBonuses() {
	for _, div := range o.Divisions() {
		rows := o.standingsFor(div)
		if len(rows) == 0 {
			continue
		}
		champ := o.squads[rows[0].Code]
		amount := int64(float64(o.titleBonus) * div.Multiplier)
		champ.Finances.Balance += amount
		champ.Finances.Revenue += amount
		o.ledger = append(o.ledger, model.LedgerEvent{
			Type: model.LedgerBonus, Season: o.state.Index,
			Squad: champ.Code, Amount: amount, Detail: "title",
		})
	}
}

// promoteRelegate swaps the top N of each lower division with the bottom
// N of the division above it.
func (o *Orchestrator) promoteRelegate() {
	divs := o.Divisions()
	for i := 0; i < len(divs)-1; i++ {
		upper, lower := divs[i], divs[i+1]
		n := upper.RelegationSpots
		if lower.PromotionSpots < n {
			n = lower.PromotionSpots
		}
		if n <= 0 {
			continue
		}

		upRows := o.standingsFor(upper)
		downRows := o.standingsFor(lower)
		if len(upRows) < n || len(downRows) < n {
			continue
		}

		relegated := make([]string, 0, n)
		for _, row := range upRows[len(upRows)-n:] {
			relegated = append(relegated, row.Code)
		}
		promoted := make([]string, 0, n)
		for _, row := range downRows[:n] {
			promoted = append(promoted, row.Code)
		}

		upper.SquadCodes = replaceCodes(upper.SquadCodes, relegated, promoted)
		lower.SquadCodes = replaceCodes(lower.SquadCodes, promoted, relegated)

		for _, code := range promoted {
			o.ledger = append(o.ledger, model.LedgerEvent{
				Type: model.LedgerPromotion, Season: o.state.Index,
				Squad: code, Detail: "promoted",
			})
		}
		for _, code := range relegated {
			o.ledger = append(o.ledger, model.LedgerEvent{
				Type: model.LedgerPromotion, Season: o.state.Index,
				Squad: code, Detail: "relegated",
			})
		}
	}
}

func replaceCodes(codes, remove, add []string) []string {
	out := make([]string, 0, len(codes))
	drop := make(map[string]bool, len(remove))
	for _, c := range remove {
		drop[c] = true
	}
	for _, c := range codes {
		if !drop[c] {
			out = append(out, c)
		}
	}
	return append(out, add...)
}

// ageRosters applies the end-of-season player pipeline: age up, decay old
// legs, retire, reprice, reset season counters.
func (o *Orchestrator) ageRosters() {
	stream := rng.New(rng.SubSeed(o.seed, uint64(o.state.Index), 0xa6e))

	for _, code := range o.squadCodes() {
		sq := o.squads[code]
		mult := 1.0
		if div := o.Division(code); div != nil {
			mult = div.Multiplier
		}

		kept := sq.Players[:0]
		for _, p := range sq.Players {
			p.Age++

			if p.Age > o.tables.DeclineAge {
				o.decaySkills(p, stream)
			}

			if stream.Float64() < o.tables.RetireProbability(p.Age) {
				o.ledger = append(o.ledger, model.LedgerEvent{
					Type: model.LedgerRetired, Season: o.state.Index,
					Squad: code, PlayerID: p.ID,
				})
				o.onRetire(p.ID)
				continue
			}

			o.reprice(p, mult)
			p.SeasonGoals = 0
			p.SeasonAssists = 0
			p.SeasonYellows = 0
			p.SeasonReds = 0
			p.SeasonCleanSheets = 0
			kept = append(kept, p)
		}
		sq.Players = kept
		sq.RecalcWageBill()
	}
}

// decaySkills knocks points off an aging player's skills, each skill
// independently and more likely the older the player gets.
func (o *Orchestrator) decaySkills(p *model.Player, stream *rng.Stream) {
	prob := float64(p.Age-o.tables.DeclineAge) * 0.08
	if prob > 0.6 {
		prob = 0.6
	}
	for _, name := range model.SkillNames {
		if stream.Float64() < prob {
			p.Skills.Set(name, p.Skills.Get(name)-1)
		}
	}
}

// reprice recomputes market value and wage from skills, age and division.
func (o *Orchestrator) reprice(p *model.Player, divMultiplier float64) {
	value := int64(float64(p.Skills.Total()) * float64(o.tables.ValuePerSkillPoint) / 7.0 * o.tables.AgeFactor(p.Age))
	if value < o.tables.MinValue {
		value = o.tables.MinValue
	}
	p.Value = value

	wage := int64(float64(value) * o.tables.WageRate * divMultiplier)
	if wage < o.tables.MinWage {
		wage = o.tables.MinWage
	}
	p.Wage = wage
}

// OpenRegistration moves a Settled season to the next index's
// Registration phase. Existing squads stay registered.
func (o *Orchestrator) OpenRegistration(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if o.state.Phase != model.PhaseSettled {
		return ErrWrongPhase
	}
	o.state.Index++
	o.state.Phase = model.PhaseRegistration
	o.state.Matchday = 0
	o.schedule = nil
	metrics.UpdateSeason(o.state.Index, 0)
	o.log.Info(ctx, "registration opened", logger.Int("season", o.state.Index))
	return nil
}

// Standings returns a division's table ordered by points, goal
// difference, goals for, then code.
func (o *Orchestrator) Standings(tier int) ([]TableRow, error) {
	div := o.divisionByTier(tier)
	if div == nil {
		return nil, ErrUnknownTier
	}
	return o.standingsFor(div), nil
}

func (o *Orchestrator) standingsFor(div *model.Division) []TableRow {
	rows := make([]TableRow, 0, len(div.SquadCodes))
	for _, code := range div.SquadCodes {
		sq, ok := o.squads[code]
		if !ok {
			continue
		}
		rows = append(rows, TableRow{Code: sq.Code, Name: sq.Name, Standing: sq.Standing})
	}
	sort.Slice(rows, func(i, j int) bool {
		a, b := rows[i].Standing, rows[j].Standing
		if a.Points != b.Points {
			return a.Points > b.Points
		}
		if a.GoalDifference() != b.GoalDifference() {
			return a.GoalDifference() > b.GoalDifference()
		}
		if a.GoalsFor != b.GoalsFor {
			return a.GoalsFor > b.GoalsFor
		}
		return rows[i].Code < rows[j].Code
	})
	for i := range rows {
		rows[i].Rank = i + 1
	}
	return rows
}

// TopScorers returns the best n scorers across all divisions, ties broken
// by assists then player id.
func (o *Orchestrator) TopScorers(n int) []ScorerRow {
	var rows []ScorerRow
	for _, code := range o.squadCodes() {
		sq := o.squads[code]
		for _, p := range sq.Players {
			if p.SeasonGoals == 0 && p.SeasonAssists == 0 {
				continue
			}
			rows = append(rows, ScorerRow{
				PlayerID: p.ID, Name: p.Name, Squad: code,
				Goals: p.SeasonGoals, Assists: p.SeasonAssists,
			})
		}
	}
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].Goals != rows[j].Goals {
			return rows[i].Goals > rows[j].Goals
		}
		if rows[i].Assists != rows[j].Assists {
			return rows[i].Assists > rows[j].Assists
		}
		return rows[i].PlayerID < rows[j].PlayerID
	})
	if n > 0 && len(rows) > n {
		rows = rows[:n]
	}
	return rows
}

// Results returns every result played so far this season.
func (o *Orchestrator) Results() []model.MatchResult {
	out := make([]model.MatchResult, len(o.results))
	copy(out, o.results)
	return out
}

// Ledger returns the season's economic event trail.
func (o *Orchestrator) Ledger() []model.LedgerEvent {
	out := make([]model.LedgerEvent, len(o.ledger))
	copy(out, o.ledger)
	return out
}

// Snapshot captures everything needed to resume after a restart.
func (o *Orchestrator) Snapshot() *model.SeasonSnapshot {
	snap := &model.SeasonSnapshot{
		State:     o.state,
		Seed:      o.seed,
		Divisions: o.divisions,
		Schedule:  o.schedule,
		Results:   o.results,
	}
	for _, code := range o.squadCodes() {
		snap.Squads = append(snap.Squads, o.squads[code])
	}
	return snap
}

// Restore rebuilds orchestrator state from a snapshot, resuming at the
// recorded matchday.
func (o *Orchestrator) Restore(snap *model.SeasonSnapshot) {
	o.state = snap.State
	o.seed = snap.Seed
	o.divisions = snap.Divisions
	o.schedule = snap.Schedule
	o.results = snap.Results
	o.squads = make(map[string]*model.Squad, len(snap.Squads))
	for _, sq := range snap.Squads {
		o.squads[sq.Code] = sq
	}
	metrics.UpdateSeason(o.state.Index, o.state.Matchday)
}

// MatchdayCount returns the scheduled matchdays of the active season.
func (o *Orchestrator) MatchdayCount() int { return len(o.schedule) }

func (o *Orchestrator) divisionByTier(tier int) *model.Division {
	for _, d := range o.divisions {
		if d.Tier == tier {
			return d
		}
	}
	return nil
}

// squadCodes returns registered codes in stable order.
func (o *Orchestrator) squadCodes() []string {
	codes := make([]string, 0, len(o.squads))
	for code := range o.squads {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	return codes
}
