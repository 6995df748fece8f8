package models

import (
	"fmt"
	"regexp"
	"strings"
)

// GameCode identifies a game. Its canonical text form is "AWAY@HOME" and every
// enrichment lookup by game goes through it.
type GameCode struct {
	Away string
	Home string
}

// gameInfoPattern matches "DAL@NYG", "DAL @ NYG", "NYG vs DAL" and "NYG vs. DAL",
// ignoring anything after the second team.
var gameInfoPattern = regexp.MustCompile(`(?i)^\s*([A-Z]{2,4})\s*(@|VS\.?)\s*([A-Z]{2,4})\b`)

func NewGameCode(away, home string) GameCode {
	return GameCode{
		Away: strings.ToUpper(strings.TrimSpace(away)),
		Home: strings.ToUpper(strings.TrimSpace(home)),
	}
}

// ParseGameInfo extracts a GameCode from a free-text game descriptor. With the
// "vs" separator the home team is listed first.
func ParseGameInfo(info string) (GameCode, bool) {
	m := gameInfoPattern.FindStringSubmatch(info)
	if m == nil {
		return GameCode{}, false
	}
	if m[2] == "@" {
		return NewGameCode(m[1], m[3]), true
	}
	return NewGameCode(m[3], m[1]), true
}

func (g GameCode) String() string {
	return g.Away + "@" + g.Home
}

func (g GameCode) IsZero() bool {
	return g.Away == "" && g.Home == ""
}

// Has reports whether team plays in the game.
func (g GameCode) Has(team string) bool {
	return strings.EqualFold(g.Away, team) || strings.EqualFold(g.Home, team)
}

// Opponent returns the other side of the game, or "" if team is not playing.
func (g GameCode) Opponent(team string) string {
	switch {
	case strings.EqualFold(g.Away, team):
		return g.Home
	case strings.EqualFold(g.Home, team):
		return g.Away
	}
	return ""
}

func (g GameCode) MarshalText() ([]byte, error) {
	if g.IsZero() {
		return []byte{}, nil
	}
	return []byte(g.String()), nil
}

func (g *GameCode) UnmarshalText(text []byte) error {
	if len(text) == 0 {
		*g = GameCode{}
		return nil
	}
	parsed, ok := ParseGameInfo(string(text))
	if !ok {
		return fmt.Errorf("invalid game code %q", string(text))
	}
	*g = parsed
	return nil
}

// DefenseKey identifies a defense's ranking against one offensive position.
// Text form is "TEAM_POS", e.g. "NYG_WR".
type DefenseKey struct {
	Team     string
	Position Position
}

func NewDefenseKey(team string, pos Position) DefenseKey {
	return DefenseKey{Team: strings.ToUpper(strings.TrimSpace(team)), Position: pos}
}

func (k DefenseKey) String() string {
	return k.Team + "_" + string(k.Position)
}

func (k DefenseKey) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

func (k *DefenseKey) UnmarshalText(text []byte) error {
	raw := string(text)
	idx := strings.LastIndex(raw, "_")
	if idx <= 0 || idx == len(raw)-1 {
		return fmt.Errorf("invalid defense key %q", raw)
	}
	pos, ok := ParsePosition(raw[idx+1:])
	if !ok {
		return fmt.Errorf("invalid defense key position %q", raw)
	}
	*k = NewDefenseKey(raw[:idx], pos)
	return nil
}
