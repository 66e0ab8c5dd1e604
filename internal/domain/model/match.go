package model

// Weather conditions recognised by the rule tables.
type Weather string

const (
	WeatherDry   Weather = "dry"
	WeatherWet   Weather = "wet"
	WeatherMuddy Weather = "muddy"
	WeatherSnow  Weather = "snow"
)

// Fixture schedules one match inside a season.
type Fixture struct {
	Matchday int    `json:"matchday"` // 0-based round index
	Index    int    `json:"index"`    // position within the matchday
	Tier     int    `json:"tier"`     // division tier the fixture belongs to
	Home     string `json:"home"`     // squad code
	Away     string `json:"away"`     // squad code
}

// EventType classifies a match incident.
type EventType string

const (
	EventGoal         EventType = "goal"
	EventAssist       EventType = "assist"
	EventYellowCard   EventType = "yellow_card"
	EventRedCard      EventType = "red_card"
	EventInjury       EventType = "injury"
	EventSubstitution EventType = "substitution"
)

// Side marks which team an event belongs to.
type Side string

const (
	SideHome Side = "home"
	SideAway Side = "away"
)

// MatchEvent is one entry in a match's chronological timeline.
type MatchEvent struct {
	Minute     int       `json:"minute"`
	Type       EventType `json:"type"`
	Side       Side      `json:"side"`
	PlayerID   string    `json:"player_id"`
	PlayerName string    `json:"player_name"`
	Detail     string    `json:"detail,omitempty"`
}

// PlayerMatchStats is the per-player output of one simulated match.
type PlayerMatchStats struct {
	PlayerID     string  `json:"player_id"`
	Name         string  `json:"name"`
	Position     string  `json:"position"`
	Rating       float64 `json:"rating"` // 4.0..10.0
	Goals        int     `json:"goals"`
	Assists      int     `json:"assists"`
	YellowCard   bool    `json:"yellow_card"`
	RedCard      bool    `json:"red_card"`
	Injured      bool    `json:"injured"`
	InjuryDays   int     `json:"injury_days"`
	FatigueDelta float64 `json:"fatigue_delta"`
}

// MatchResult is the complete output of one simulated fixture.
type MatchResult struct {
	Fixture   Fixture `json:"fixture"`
	HomeGoals int     `json:"home_goals"`
	AwayGoals int     `json:"away_goals"`
	HomeXG    float64 `json:"home_xg"`
	AwayXG    float64 `json:"away_xg"`
	Weather   Weather `json:"weather"`
	Referee   float64 `json:"referee"` // strictness scalar

	Events    []MatchEvent       `json:"events"`
	HomeStats []PlayerMatchStats `json:"home_stats"`
	AwayStats []PlayerMatchStats `json:"away_stats"`
}

// HomePoints returns the league points awarded to the home side.
func (r *MatchResult) HomePoints() int {
	switch {
	case r.HomeGoals > r.AwayGoals:
		return 3
	case r.HomeGoals == r.AwayGoals:
		return 1
	default:
		return 0
	}
}

// AwayPoints returns the league points awarded to the away side.
func (r *MatchResult) AwayPoints() int {
	switch {
	case r.AwayGoals > r.HomeGoals:
		return 3
	case r.AwayGoals == r.HomeGoals:
		return 1
	default:
		return 0
	}
}

// Decisive reports whether the fixture had a winner.
func (r *MatchResult) Decisive() bool {
	return r.HomeGoals != r.AwayGoals
}
