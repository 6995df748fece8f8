package models

import (
	"strings"
	"time"
)

// DefenseRanking is a defense's rank against one position; rank 1 is the
// toughest. Total is the size of the ranked list and may be zero when unknown.
type DefenseRanking struct {
	Rank  int     `json:"rank"`
	Total int     `json:"total"`
	Value float64 `json:"value"` // points allowed, informational
}

// GameOdds is the market line for a game. Spread is quoted for the home
// team: negative means the home side is favored. Implied totals are optional
// and derived from spread and total when zero.
type GameOdds struct {
	Spread      float64 `json:"spread"`
	Total       float64 `json:"total"`
	HomeImplied float64 `json:"home_implied,omitempty"`
	AwayImplied float64 `json:"away_implied,omitempty"`
}

// TeamSpread returns the spread from team's side of game.
func (o GameOdds) TeamSpread(game GameCode, team string) float64 {
	if strings.EqualFold(game.Home, team) {
		return o.Spread
	}
	return -o.Spread
}

// ImpliedTotal returns the implied points for team's side of game.
func (o GameOdds) ImpliedTotal(game GameCode, team string) float64 {
	home := strings.EqualFold(game.Home, team)
	if home && o.HomeImplied > 0 {
		return o.HomeImplied
	}
	if !home && o.AwayImplied > 0 {
		return o.AwayImplied
	}
	return o.Total/2 - o.TeamSpread(game, team)/2
}

type Weather struct {
	Conditions   string  `json:"conditions"`
	Indoor       bool    `json:"indoor"`
	TemperatureF float64 `json:"temperature_f,omitempty"`
	WindMPH      float64 `json:"wind_mph,omitempty"`
}

// IsWet reports rain or snow at an outdoor venue.
func (w Weather) IsWet() bool {
	if w.Indoor {
		return false
	}
	c := strings.ToLower(w.Conditions)
	return strings.Contains(c, "rain") || strings.Contains(c, "snow")
}

type Trend struct {
	Classification TrendClass `json:"classification"`
	VolumeProxy    float64    `json:"volume_proxy,omitempty"`
}

// EnrichmentSnapshot is a point-in-time view of every enrichment source.
// Any map may be nil; lookups on nil maps return the zero value.
type EnrichmentSnapshot struct {
	Defense map[DefenseKey]DefenseRanking `json:"defense,omitempty"`
	Odds    map[GameCode]GameOdds         `json:"odds,omitempty"`
	Weather map[GameCode]Weather          `json:"weather,omitempty"`
	Trends  map[string]Trend              `json:"trends,omitempty"`

	Version   uint64    `json:"version"`
	UpdatedAt time.Time `json:"updated_at"`
}

// DefenseTotal returns the number of ranked defenses at pos.
func (s *EnrichmentSnapshot) DefenseTotal(pos Position) int {
	if s == nil {
		return 0
	}
	n := 0
	for k := range s.Defense {
		if k.Position == pos {
			n++
		}
	}
	return n
}

func (s *EnrichmentSnapshot) OddsFor(game GameCode) (GameOdds, bool) {
	if s == nil {
		return GameOdds{}, false
	}
	o, ok := s.Odds[game]
	return o, ok
}

func (s *EnrichmentSnapshot) WeatherFor(game GameCode) (Weather, bool) {
	if s == nil {
		return Weather{}, false
	}
	w, ok := s.Weather[game]
	return w, ok
}
