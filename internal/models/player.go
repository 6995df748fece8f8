package models

import (
	"strings"
)

type Position string

const (
	PositionQB  Position = "QB"
	PositionRB  Position = "RB"
	PositionWR  Position = "WR"
	PositionTE  Position = "TE"
	PositionDST Position = "DST"
)

// AllPositions lists the league positions in roster order.
var AllPositions = []Position{PositionQB, PositionRB, PositionWR, PositionTE, PositionDST}

// ParsePosition normalizes a position label from a salary file. Team defense
// is accepted under its common aliases.
func ParsePosition(raw string) (Position, bool) {
	switch strings.ToUpper(strings.TrimSpace(raw)) {
	case "QB":
		return PositionQB, true
	case "RB":
		return PositionRB, true
	case "WR":
		return PositionWR, true
	case "TE":
		return PositionTE, true
	case "DST", "D/ST", "DEF", "D":
		return PositionDST, true
	}
	return "", false
}

// IsPassGame reports whether the position depends on the passing game (QB/WR/TE).
func (p Position) IsPassGame() bool {
	return p == PositionQB || p == PositionWR || p == PositionTE
}

// IsPassCatcher reports WR and TE.
func (p Position) IsPassCatcher() bool {
	return p == PositionWR || p == PositionTE
}

// IsSkill reports RB, WR and TE.
func (p Position) IsSkill() bool {
	return p == PositionRB || p == PositionWR || p == PositionTE
}

type TrendClass string

const (
	TrendNeutral TrendClass = "neutral"
	TrendHot     TrendClass = "hot"
	TrendCold    TrendClass = "cold"
)

// Player is one priced entry in the slate's pool. Metrics is owned by the
// valuation engine and is rebuilt from scratch on every recompute.
type Player struct {
	ID        string   `json:"id"`
	Name      string   `json:"name"`
	Team      string   `json:"team"`
	Position  Position `json:"position"`
	Salary    int      `json:"salary"`
	AvgPoints float64  `json:"avg_points"`
	GameInfo  string   `json:"game_info"`

	Metrics PlayerMetrics `json:"metrics"`
}

type PlayerMetrics struct {
	Value             float64    `json:"value"`
	IsTopValue        bool       `json:"is_top_value"`
	MatchupMultiplier float64    `json:"matchup_multiplier"`
	AdjValue          float64    `json:"adj_value"`
	ImpliedTeamTotal  *float64   `json:"implied_team_total,omitempty"`
	Spread            *float64   `json:"spread,omitempty"` // from the player's team side, negative = favored
	GameTotal         *float64   `json:"game_total,omitempty"`
	CompositeScore    float64    `json:"composite_score"`
	FloorScore        float64    `json:"floor_score"`
	Trend             TrendClass `json:"trend"`
}

// Game parses the player's game descriptor.
func (p Player) Game() (GameCode, bool) {
	return ParseGameInfo(p.GameInfo)
}

// Opponent returns the opposing team abbreviation, or "" when the game
// descriptor does not include the player's team.
func (p Player) Opponent() string {
	game, ok := p.Game()
	if !ok {
		return ""
	}
	return game.Opponent(p.Team)
}

// IndexPlayers builds an ID lookup over a pool.
func IndexPlayers(players []Player) map[string]*Player {
	index := make(map[string]*Player, len(players))
	for i := range players {
		index[players[i].ID] = &players[i]
	}
	return index
}
