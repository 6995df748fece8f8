package analyzer

import (
	"fmt"
	"strings"

	"github.com/stitts-dev/dfs-lineup-builder/internal/models"
)

func gameEnvironmentRules() []Rule {
	return []Rule{
		{
			ID: "few-games", Category: models.CategoryGameEnvironment, Weight: -0.5,
			Title: "Narrow game exposure",
			Check: func(c *Context) (string, bool) {
				n := len(c.Lineup.GetGameExposure())
				return fmt.Sprintf("Players come from %d games", n), n < 3
			},
		},
		{
			ID: "game-diversity", Category: models.CategoryGameEnvironment, Weight: 0.5,
			Title: "Game diversity",
			Check: func(c *Context) (string, bool) {
				n := len(c.Lineup.GetGameExposure())
				return fmt.Sprintf("Players spread across %d games", n), n >= 3
			},
		},
		{
			ID: "game-overload", Category: models.CategoryGameEnvironment, Weight: -1.0,
			Title: "Over-concentrated in one game",
			Check: func(c *Context) (string, bool) {
				exposure := c.Lineup.GetGameExposure()
				for _, o := range c.Lineup.Occupants() {
					if exposure[o.Game] >= 4 {
						return fmt.Sprintf("%d players from %s", exposure[o.Game], o.Game), true
					}
				}
				return "", false
			},
		},
		{
			ID: "low-total", Category: models.CategoryGameEnvironment, Weight: -0.75,
			Title: "Low-total game exposure",
			Check: func(c *Context) (string, bool) {
				var low []models.Player
				for _, p := range c.Players {
					if p.Metrics.GameTotal != nil && *p.Metrics.GameTotal < 42 {
						low = append(low, p)
					}
				}
				return fmt.Sprintf("%s in games totaled under 42", strings.Join(names(low), ", ")), len(low) > 0
			},
		},
		{
			ID: "high-total-exposure", Category: models.CategoryGameEnvironment, Weight: 0.75,
			Title: "High-total exposure",
			Check: func(c *Context) (string, bool) {
				n := 0
				for _, p := range c.Players {
					if p.Metrics.GameTotal != nil && *p.Metrics.GameTotal >= 48 {
						n++
					}
				}
				return fmt.Sprintf("%d players in games totaled 48+", n), n >= 4
			},
		},
		{
			ID: "missed-shootout", Category: models.CategoryGameEnvironment, Weight: -0.5,
			Title: "No exposure to the shootout",
			Check: func(c *Context) (string, bool) {
				exposure := c.Lineup.GetGameExposure()
				for _, game := range c.SlateGames() {
					odds, ok := c.Snapshot.OddsFor(game)
					if ok && odds.Total >= 50 && exposure[game] == 0 {
						return fmt.Sprintf("%s is totaled at %.1f and the lineup has nobody in it", game, odds.Total), true
					}
				}
				return "", false
			},
		},
		{
			ID: "qb-underdog", Category: models.CategoryGameEnvironment, Weight: 0.25,
			Title: "Quarterback trailing script",
			Check: func(c *Context) (string, bool) {
				qb, ok := c.Quarterback()
				if !ok || qb.Metrics.Spread == nil {
					return "", false
				}
				return fmt.Sprintf("%s is a %.1f point underdog", qb.Name, *qb.Metrics.Spread), *qb.Metrics.Spread > 6
			},
		},
		{
			ID: "rb-favorites", Category: models.CategoryGameEnvironment, Weight: 0.25,
			Title: "Running backs on favorites",
			Check: func(c *Context) (string, bool) {
				var favored []models.Player
				for _, p := range c.ofPosition(models.PositionRB) {
					if p.Metrics.Spread != nil && *p.Metrics.Spread < -3 {
						favored = append(favored, p)
					}
				}
				return fmt.Sprintf("%s favored by more than 3", strings.Join(names(favored), " and ")), len(favored) >= 2
			},
		},
		{
			ID: "low-implied", Category: models.CategoryGameEnvironment, Weight: -0.75,
			Title: "Low implied team totals",
			Check: func(c *Context) (string, bool) {
				var low []models.Player
				for _, p := range c.Players {
					if p.Metrics.ImpliedTeamTotal != nil && *p.Metrics.ImpliedTeamTotal < 20 {
						low = append(low, p)
					}
				}
				return fmt.Sprintf("%s on teams implied under 20 points", strings.Join(names(low), ", ")), len(low) >= 3
			},
		},
	}
}

func weatherRules() []Rule {
	return []Rule{
		{
			ID: "wet-pass-game", Category: models.CategoryWeather, Weight: -0.75,
			Title: "Passing game in bad weather",
			Check: func(c *Context) (string, bool) {
				var affected []string
				for _, p := range c.Players {
					if !p.Position.IsPassGame() {
						continue
					}
					game, ok := p.Game()
					if !ok {
						continue
					}
					if w, ok := c.Snapshot.WeatherFor(game); ok && w.IsWet() {
						affected = append(affected, fmt.Sprintf("%s (%s)", p.Name, strings.ToLower(w.Conditions)))
					}
				}
				return strings.Join(affected, ", "), len(affected) > 0
			},
		},
		{
			ID: "indoor-stack", Category: models.CategoryWeather, Weight: 0.25,
			Title: "Stack in a dome",
			Check: func(c *Context) (string, bool) {
				qb, ok := c.Quarterback()
				if !ok {
					return "", false
				}
				game, ok := qb.Game()
				if !ok {
					return "", false
				}
				w, ok := c.Snapshot.WeatherFor(game)
				if !ok || !w.Indoor {
					return "", false
				}
				var mates []models.Player
				for _, p := range c.Teammates(qb.Team, qb.ID) {
					if p.Position != models.PositionDST {
						mates = append(mates, p)
					}
				}
				return fmt.Sprintf("%s stack plays indoors with %s", qb.Team, strings.Join(names(mates), ", ")), len(mates) >= 2
			},
		},
	}
}

func qualityRules() []Rule {
	return []Rule{
		{
			ID: "low-average-score", Category: models.CategoryQuality, Weight: -1.0,
			Title: "Weak average score",
			Check: func(c *Context) (string, bool) {
				if len(c.Players) == 0 {
					return "", false
				}
				sum := 0.0
				for _, p := range c.Players {
					sum += p.Metrics.CompositeScore
				}
				avg := sum / float64(len(c.Players))
				return fmt.Sprintf("Average composite score %.1f", avg), avg < 55
			},
		},
		{
			ID: "elite-concentration", Category: models.CategoryQuality, Weight: 1.0,
			Title: "Elite score concentration",
			Check: func(c *Context) (string, bool) {
				var elite []models.Player
				for _, p := range c.Players {
					if p.Metrics.CompositeScore >= 75 {
						elite = append(elite, p)
					}
				}
				return fmt.Sprintf("%s score 75 or better", strings.Join(names(elite), ", ")), len(elite) >= 3
			},
		},
		{
			ID: "leverage", Category: models.CategoryQuality, Weight: 0.5,
			Title: "Leverage play",
			Check: func(c *Context) (string, bool) {
				for _, p := range c.Players {
					if p.Metrics.AdjValue > 4.0 && p.Salary > 5000 {
						return fmt.Sprintf("%s returns %.2f points per $1000 at $%d", p.Name, p.Metrics.AdjValue, p.Salary), true
					}
				}
				return "", false
			},
		},
	}
}
