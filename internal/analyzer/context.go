package analyzer

import (
	"github.com/stitts-dev/dfs-lineup-builder/internal/models"
)

// Context is the lineup under analysis joined with its valuated players.
type Context struct {
	Lineup   *models.Lineup
	Players  []models.Player // lineup players in slot order
	Pool     []models.Player
	Snapshot *models.EnrichmentSnapshot
}

func newContext(l *models.Lineup, pool []models.Player, snapshot *models.EnrichmentSnapshot) *Context {
	if snapshot == nil {
		snapshot = &models.EnrichmentSnapshot{}
	}
	index := models.IndexPlayers(pool)

	ctx := &Context{Lineup: l, Pool: pool, Snapshot: snapshot}
	for _, o := range l.Slots {
		if o == nil {
			continue
		}
		if p, ok := index[o.PlayerID]; ok {
			ctx.Players = append(ctx.Players, *p)
			continue
		}
		// Occupant no longer in the pool; analyze it without metrics.
		ctx.Players = append(ctx.Players, models.Player{
			ID:       o.PlayerID,
			Name:     o.Name,
			Team:     o.Team,
			Position: o.Position,
			Salary:   o.Salary,
			GameInfo: o.Game.String(),
		})
	}
	return ctx
}

func (c *Context) ofPosition(pos models.Position) []models.Player {
	var out []models.Player
	for _, p := range c.Players {
		if p.Position == pos {
			out = append(out, p)
		}
	}
	return out
}

// Quarterback returns the lineup's primary quarterback: the captain when the
// captain is a quarterback, otherwise the first in slot order.
func (c *Context) Quarterback() (models.Player, bool) {
	for i, o := range c.Lineup.Slots {
		if o != nil && o.IsCaptain && o.Position == models.PositionQB && i < len(c.Players) {
			return c.Players[i], true
		}
	}
	qbs := c.ofPosition(models.PositionQB)
	if len(qbs) == 0 {
		return models.Player{}, false
	}
	return qbs[0], true
}

// Teammates returns lineup players on team, excluding excludeID.
func (c *Context) Teammates(team, excludeID string) []models.Player {
	var out []models.Player
	for _, p := range c.Players {
		if p.Team == team && p.ID != excludeID {
			out = append(out, p)
		}
	}
	return out
}

// StackedPassCatchers returns the WR/TE sharing the quarterback's team.
func (c *Context) StackedPassCatchers(qb models.Player) []models.Player {
	var out []models.Player
	for _, p := range c.Teammates(qb.Team, qb.ID) {
		if p.Position.IsPassCatcher() {
			out = append(out, p)
		}
	}
	return out
}

func (c *Context) hasQuarterback(team string) bool {
	for _, p := range c.Players {
		if p.Team == team && p.Position == models.PositionQB {
			return true
		}
	}
	return false
}

// SlateGames returns the distinct games in the pool.
func (c *Context) SlateGames() []models.GameCode {
	seen := make(map[models.GameCode]bool)
	var games []models.GameCode
	for _, p := range c.Pool {
		if game, ok := p.Game(); ok && !seen[game] {
			seen[game] = true
			games = append(games, game)
		}
	}
	return games
}

func names(players []models.Player) []string {
	out := make([]string, len(players))
	for i, p := range players {
		out[i] = p.Name
	}
	return out
}
