package lineup

import (
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/stitts-dev/dfs-lineup-builder/internal/models"
	"github.com/stitts-dev/dfs-lineup-builder/internal/valuation"
)

var testGames = []struct {
	away, home string
	spread     float64
	total      float64
}{
	{"DAL", "NYG", 3, 45},
	{"PHI", "WAS", -2.5, 49},
	{"KC", "LV", 7, 52},
	{"SF", "SEA", 1, 43},
}

func newPlayer(id, team string, pos models.Position, salary int, pts float64, info string) models.Player {
	return models.Player{ID: id, Name: id, Team: team, Position: pos, Salary: salary, AvgPoints: pts, GameInfo: info}
}

// rawPool builds 48 players over four games: one QB, RB, TE and DST and two
// WRs per team, priced so that a legal classic lineup fits well under the cap.
func rawPool() []models.Player {
	var pool []models.Player
	for gi, g := range testGames {
		info := g.away + "@" + g.home + " 10/13/2024 01:00PM ET"
		for side, team := range []string{g.away, g.home} {
			n := gi*2 + side
			pool = append(pool,
				newPlayer(team+"-QB", team, models.PositionQB, 5000+n*400, 14+float64(n), info),
				newPlayer(team+"-RB", team, models.PositionRB, 4000+n*600, 9+float64(n)*1.5, info),
				newPlayer(team+"-WR1", team, models.PositionWR, 4500+n*500, 10+float64(n)*1.2, info),
				newPlayer(team+"-WR2", team, models.PositionWR, 3000+n*200, 6+float64(n)*0.5, info),
				newPlayer(team+"-TE", team, models.PositionTE, 2500+n*300, 5+float64(n)*0.8, info),
				newPlayer(team+"-DST", team, models.PositionDST, 2000+n*150, 5+float64(n)*0.4, info),
			)
		}
	}
	return pool
}

func testSnapshot() *models.EnrichmentSnapshot {
	snapshot := &models.EnrichmentSnapshot{
		Odds:    make(map[models.GameCode]models.GameOdds),
		Weather: make(map[models.GameCode]models.Weather),
	}
	for _, g := range testGames {
		code := models.NewGameCode(g.away, g.home)
		snapshot.Odds[code] = models.GameOdds{Spread: g.spread, Total: g.total}
		snapshot.Weather[code] = models.Weather{Conditions: "Clear"}
	}
	return snapshot
}

func valuatedPool(snapshot *models.EnrichmentSnapshot) []models.Player {
	log := logrus.New()
	log.SetLevel(logrus.PanicLevel)
	return valuation.NewEngine(valuation.Config{}, log).Recompute(rawPool(), snapshot)
}

func contest(name string) models.ContestConfiguration {
	cfg, err := models.GetContestConfiguration(name)
	if err != nil {
		panic(err)
	}
	return cfg
}

func findPlayer(pool []models.Player, id string) models.Player {
	for _, p := range pool {
		if p.ID == id {
			return p
		}
	}
	panic(fmt.Sprintf("player %s not in pool", id))
}

// pickStrategy places fixed players, for driving the upgrade pass.
type pickStrategy struct {
	picks map[int]string
}

func (p pickStrategy) Name() string { return "picks" }

func (p pickStrategy) Fill(s *FillState) {
	for idx, id := range p.picks {
		if player, ok := s.Player(id); ok {
			s.Place(idx, *player)
		}
	}
}
