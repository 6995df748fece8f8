package analyzer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stitts-dev/dfs-lineup-builder/internal/models"
)

const (
	dalNYG = "DAL@NYG"
	phiWAS = "PHI@WAS"
	kcLV   = "KC@LV"
)

func salaried(id, team string, pos models.Position, salary int) models.Player {
	return player(id, team, pos, salary, dalNYG, 60)
}

func in(id, team string, pos models.Position, game string) models.Player {
	return player(id, team, pos, 5000, game, 60)
}

func scored(id string, pos models.Position, composite float64) models.Player {
	return player(id, "DAL", pos, 5000, dalNYG, composite)
}

func withGameTotal(p models.Player, total float64) models.Player {
	p.Metrics.GameTotal = &total
	return p
}

func withSpread(p models.Player, spread float64) models.Player {
	p.Metrics.Spread = &spread
	return p
}

func withImplied(p models.Player, implied float64) models.Player {
	p.Metrics.ImpliedTeamTotal = &implied
	return p
}

func withAdjValue(p models.Player, adj float64) models.Player {
	p.Metrics.AdjValue = adj
	return p
}

func oddsSnapshot(game string, total float64) *models.EnrichmentSnapshot {
	code, _ := models.ParseGameInfo(game)
	return &models.EnrichmentSnapshot{Odds: map[models.GameCode]models.GameOdds{code: {Total: total}}}
}

func weatherSnapshot(game string, w models.Weather) *models.EnrichmentSnapshot {
	code, _ := models.ParseGameInfo(game)
	return &models.EnrichmentSnapshot{Weather: map[models.GameCode]models.Weather{code: w}}
}

type ruleCase struct {
	name     string
	rule     string
	players  []models.Player
	bench    []models.Player // pool players left out of the lineup
	snapshot *models.EnrichmentSnapshot
	fires    bool
}

func ruleCases() []ruleCase {
	const (
		qb  = models.PositionQB
		rb  = models.PositionRB
		wr  = models.PositionWR
		te  = models.PositionTE
		dst = models.PositionDST
	)
	return []ruleCase{
		{name: "1001 unused", rule: "unused-salary", fires: true,
			players: []models.Player{salaried("a", "DAL", qb, 48999)}},
		{name: "1000 unused", rule: "unused-salary",
			players: []models.Player{salaried("a", "DAL", qb, 49000)}},

		{name: "499 unused", rule: "salary-usage", fires: true,
			players: []models.Player{salaried("a", "DAL", qb, 49501)}},
		{name: "500 unused", rule: "salary-usage",
			players: []models.Player{salaried("a", "DAL", qb, 49500)}},

		{name: "three punts", rule: "punt-overload", fires: true,
			players: []models.Player{salaried("a", "DAL", wr, 3999), salaried("b", "NYG", wr, 3999), salaried("c", "DAL", te, 3999)}},
		{name: "two punts and a cheap defense", rule: "punt-overload",
			players: []models.Player{salaried("a", "DAL", wr, 3999), salaried("b", "NYG", wr, 3999), salaried("c", "DAL", te, 4000), salaried("d", "NYG", dst, 2500)}},

		{name: "one running back", rule: "single-rb", fires: true,
			players: []models.Player{salaried("a", "DAL", rb, 6000), salaried("b", "DAL", wr, 6000)}},
		{name: "two running backs", rule: "single-rb",
			players: []models.Player{salaried("a", "DAL", rb, 6000), salaried("b", "NYG", rb, 6000)}},

		{name: "top salary 8499", rule: "no-stud", fires: true,
			players: []models.Player{salaried("a", "DAL", qb, 8499)}},
		{name: "top salary 8500", rule: "no-stud",
			players: []models.Player{salaried("a", "DAL", qb, 8500)}},

		{name: "two studs and two values", rule: "balanced-build", fires: true,
			players: []models.Player{salaried("a", "DAL", qb, 8000), salaried("b", "DAL", rb, 8000), salaried("c", "NYG", wr, 4500), salaried("d", "NYG", wr, 4500)}},
		{name: "one stud", rule: "balanced-build",
			players: []models.Player{salaried("a", "DAL", qb, 8000), salaried("b", "DAL", rb, 7999), salaried("c", "NYG", wr, 4500), salaried("d", "NYG", wr, 4500)}},

		{name: "defense at 3501", rule: "expensive-dst", fires: true,
			players: []models.Player{salaried("a", "DAL", dst, 3501)}},
		{name: "defense at 3500", rule: "expensive-dst",
			players: []models.Player{salaried("a", "DAL", dst, 3500)}},

		{name: "quarterback with his defense", rule: "qb-vs-own-dst", fires: true,
			players: []models.Player{in("a", "DAL", qb, dalNYG), in("b", "DAL", dst, dalNYG)}},
		{name: "quarterback against the other defense", rule: "qb-vs-own-dst",
			players: []models.Player{in("a", "DAL", qb, dalNYG), in("b", "NYG", dst, dalNYG)}},

		{name: "quarterback with a running back only", rule: "naked-qb", fires: true,
			players: []models.Player{in("a", "DAL", qb, dalNYG), in("b", "DAL", rb, dalNYG)}},
		{name: "quarterback with a tight end", rule: "naked-qb",
			players: []models.Player{in("a", "DAL", qb, dalNYG), in("b", "DAL", te, dalNYG)}},

		{name: "two pass-catchers", rule: "double-stack", fires: true,
			players: []models.Player{in("a", "DAL", qb, dalNYG), in("b", "DAL", wr, dalNYG), in("c", "DAL", te, dalNYG)}},
		{name: "one pass-catcher", rule: "double-stack",
			players: []models.Player{in("a", "DAL", qb, dalNYG), in("b", "DAL", wr, dalNYG), in("c", "NYG", wr, dalNYG)}},

		{name: "opposing running back", rule: "bring-back", fires: true,
			players: []models.Player{in("a", "DAL", qb, dalNYG), in("b", "DAL", wr, dalNYG), in("c", "DAL", te, dalNYG), in("d", "NYG", rb, dalNYG)}},
		{name: "opposing defense only", rule: "bring-back",
			players: []models.Player{in("a", "DAL", qb, dalNYG), in("b", "DAL", wr, dalNYG), in("c", "DAL", te, dalNYG), in("d", "NYG", dst, dalNYG)}},

		{name: "double stack alone", rule: "missing-bring-back", fires: true,
			players: []models.Player{in("a", "DAL", qb, dalNYG), in("b", "DAL", wr, dalNYG), in("c", "DAL", te, dalNYG)}},
		{name: "double stack with opponent", rule: "missing-bring-back",
			players: []models.Player{in("a", "DAL", qb, dalNYG), in("b", "DAL", wr, dalNYG), in("c", "DAL", te, dalNYG), in("d", "NYG", wr, dalNYG)}},

		{name: "one pass-catcher", rule: "single-stack", fires: true,
			players: []models.Player{in("a", "DAL", qb, dalNYG), in("b", "DAL", wr, dalNYG)}},
		{name: "two pass-catchers", rule: "single-stack",
			players: []models.Player{in("a", "DAL", qb, dalNYG), in("b", "DAL", wr, dalNYG), in("c", "DAL", te, dalNYG)}},

		{name: "two backs without quarterback", rule: "cannibalization", fires: true,
			players: []models.Player{in("a", "DAL", rb, dalNYG), in("b", "DAL", rb, dalNYG)}},
		{name: "two backs with quarterback", rule: "cannibalization",
			players: []models.Player{in("a", "DAL", qb, dalNYG), in("b", "DAL", rb, dalNYG), in("c", "DAL", rb, dalNYG)}},

		{name: "receiver and tight end without quarterback", rule: "unanchored-pass-catchers", fires: true,
			players: []models.Player{in("a", "DAL", wr, dalNYG), in("b", "DAL", te, dalNYG)}},
		{name: "receiver and tight end with quarterback", rule: "unanchored-pass-catchers",
			players: []models.Player{in("a", "DAL", qb, dalNYG), in("b", "DAL", wr, dalNYG), in("c", "DAL", te, dalNYG)}},

		{name: "two games", rule: "few-games", fires: true,
			players: []models.Player{in("a", "DAL", qb, dalNYG), in("b", "PHI", rb, phiWAS)}},
		{name: "three games", rule: "few-games",
			players: []models.Player{in("a", "DAL", qb, dalNYG), in("b", "PHI", rb, phiWAS), in("c", "KC", wr, kcLV)}},

		{name: "three games", rule: "game-diversity", fires: true,
			players: []models.Player{in("a", "DAL", qb, dalNYG), in("b", "PHI", rb, phiWAS), in("c", "KC", wr, kcLV)}},
		{name: "two games", rule: "game-diversity",
			players: []models.Player{in("a", "DAL", qb, dalNYG), in("b", "PHI", rb, phiWAS)}},

		{name: "four from one game", rule: "game-overload", fires: true,
			players: []models.Player{in("a", "DAL", qb, dalNYG), in("b", "DAL", wr, dalNYG), in("c", "NYG", wr, dalNYG), in("d", "NYG", rb, dalNYG)}},
		{name: "three from one game", rule: "game-overload",
			players: []models.Player{in("a", "DAL", qb, dalNYG), in("b", "DAL", wr, dalNYG), in("c", "NYG", wr, dalNYG), in("d", "PHI", rb, phiWAS)}},

		{name: "total 41.9", rule: "low-total", fires: true,
			players: []models.Player{withGameTotal(in("a", "DAL", qb, dalNYG), 41.9)}},
		{name: "total 42", rule: "low-total",
			players: []models.Player{withGameTotal(in("a", "DAL", qb, dalNYG), 42)}},

		{name: "four at 48", rule: "high-total-exposure", fires: true,
			players: []models.Player{
				withGameTotal(in("a", "DAL", qb, dalNYG), 48), withGameTotal(in("b", "DAL", wr, dalNYG), 48),
				withGameTotal(in("c", "NYG", wr, dalNYG), 48), withGameTotal(in("d", "NYG", rb, dalNYG), 48),
			}},
		{name: "three at 48 and one at 47.9", rule: "high-total-exposure",
			players: []models.Player{
				withGameTotal(in("a", "DAL", qb, dalNYG), 48), withGameTotal(in("b", "DAL", wr, dalNYG), 48),
				withGameTotal(in("c", "NYG", wr, dalNYG), 48), withGameTotal(in("d", "PHI", rb, phiWAS), 47.9),
			}},

		{name: "shootout at 50 skipped", rule: "missed-shootout", fires: true,
			players:  []models.Player{in("a", "DAL", qb, dalNYG)},
			bench:    []models.Player{in("kc-wr", "KC", wr, kcLV)},
			snapshot: oddsSnapshot(kcLV, 50)},
		{name: "game at 49.9 skipped", rule: "missed-shootout",
			players:  []models.Player{in("a", "DAL", qb, dalNYG)},
			bench:    []models.Player{in("kc-wr", "KC", wr, kcLV)},
			snapshot: oddsSnapshot(kcLV, 49.9)},
		{name: "shootout at 50 played", rule: "missed-shootout",
			players:  []models.Player{in("a", "DAL", qb, dalNYG), in("b", "KC", wr, kcLV)},
			snapshot: oddsSnapshot(kcLV, 50)},

		{name: "quarterback getting 6.5", rule: "qb-underdog", fires: true,
			players: []models.Player{withSpread(in("a", "DAL", qb, dalNYG), 6.5)}},
		{name: "quarterback getting 6", rule: "qb-underdog",
			players: []models.Player{withSpread(in("a", "DAL", qb, dalNYG), 6)}},

		{name: "two backs favored by 3.5", rule: "rb-favorites", fires: true,
			players: []models.Player{withSpread(in("a", "DAL", rb, dalNYG), -3.5), withSpread(in("b", "PHI", rb, phiWAS), -3.5)}},
		{name: "second back favored by 3", rule: "rb-favorites",
			players: []models.Player{withSpread(in("a", "DAL", rb, dalNYG), -3.5), withSpread(in("b", "PHI", rb, phiWAS), -3)}},

		{name: "three under 20", rule: "low-implied", fires: true,
			players: []models.Player{
				withImplied(in("a", "DAL", qb, dalNYG), 19.9), withImplied(in("b", "DAL", wr, dalNYG), 19.9), withImplied(in("c", "DAL", te, dalNYG), 19.9),
			}},
		{name: "third at 20", rule: "low-implied",
			players: []models.Player{
				withImplied(in("a", "DAL", qb, dalNYG), 19.9), withImplied(in("b", "DAL", wr, dalNYG), 19.9), withImplied(in("c", "DAL", te, dalNYG), 20),
			}},

		{name: "receiver in the rain", rule: "wet-pass-game", fires: true,
			players:  []models.Player{in("a", "DAL", wr, dalNYG)},
			snapshot: weatherSnapshot(dalNYG, models.Weather{Conditions: "Light Rain"})},
		{name: "running back in the rain", rule: "wet-pass-game",
			players:  []models.Player{in("a", "DAL", rb, dalNYG)},
			snapshot: weatherSnapshot(dalNYG, models.Weather{Conditions: "Light Rain"})},
		{name: "receiver under a roof", rule: "wet-pass-game",
			players:  []models.Player{in("a", "DAL", wr, dalNYG)},
			snapshot: weatherSnapshot(dalNYG, models.Weather{Conditions: "Rain", Indoor: true})},

		{name: "quarterback and two teammates indoors", rule: "indoor-stack", fires: true,
			players:  []models.Player{in("a", "DAL", qb, dalNYG), in("b", "DAL", wr, dalNYG), in("c", "DAL", rb, dalNYG)},
			snapshot: weatherSnapshot(dalNYG, models.Weather{Indoor: true})},
		{name: "second teammate is the defense", rule: "indoor-stack",
			players:  []models.Player{in("a", "DAL", qb, dalNYG), in("b", "DAL", wr, dalNYG), in("c", "DAL", dst, dalNYG)},
			snapshot: weatherSnapshot(dalNYG, models.Weather{Indoor: true})},
		{name: "outdoor stack", rule: "indoor-stack",
			players:  []models.Player{in("a", "DAL", qb, dalNYG), in("b", "DAL", wr, dalNYG), in("c", "DAL", rb, dalNYG)},
			snapshot: weatherSnapshot(dalNYG, models.Weather{Conditions: "Clear"})},

		{name: "average 54.9", rule: "low-average-score", fires: true,
			players: []models.Player{scored("a", qb, 54.9), scored("b", rb, 54.9)}},
		{name: "average 55", rule: "low-average-score",
			players: []models.Player{scored("a", qb, 55), scored("b", rb, 55)}},

		{name: "three at 75", rule: "elite-concentration", fires: true,
			players: []models.Player{scored("a", qb, 75), scored("b", rb, 75), scored("c", wr, 75)}},
		{name: "third at 74.9", rule: "elite-concentration",
			players: []models.Player{scored("a", qb, 75), scored("b", rb, 75), scored("c", wr, 74.9)}},

		{name: "4.01 at 5001", rule: "leverage", fires: true,
			players: []models.Player{withAdjValue(salaried("a", "DAL", wr, 5001), 4.01)}},
		{name: "4.0 at 5001", rule: "leverage",
			players: []models.Player{withAdjValue(salaried("a", "DAL", wr, 5001), 4.0)}},
		{name: "4.01 at 5000", rule: "leverage",
			players: []models.Player{withAdjValue(salaried("a", "DAL", wr, 5000), 4.01)}},
	}
}

func ruleByID(t *testing.T, id string) Rule {
	t.Helper()
	for _, r := range DefaultRules() {
		if r.ID == id {
			return r
		}
	}
	require.FailNow(t, "unknown rule", id)
	return Rule{}
}

func TestRuleThresholds(t *testing.T) {
	for _, tt := range ruleCases() {
		t.Run(tt.rule+"/"+tt.name, func(t *testing.T) {
			rule := ruleByID(t, tt.rule)
			l := build(t, tt.players...)
			pool := append(append([]models.Player{}, tt.players...), tt.bench...)

			detail, fired := rule.Check(newContext(l, pool, tt.snapshot))
			assert.Equal(t, tt.fires, fired)
			if fired {
				assert.NotEmpty(t, detail)
			}
		})
	}
}

func TestRuleThresholdsCoverEveryRule(t *testing.T) {
	outcomes := make(map[string]map[bool]bool)
	for _, tt := range ruleCases() {
		if outcomes[tt.rule] == nil {
			outcomes[tt.rule] = make(map[bool]bool)
		}
		outcomes[tt.rule][tt.fires] = true
	}
	for _, r := range DefaultRules() {
		assert.True(t, outcomes[r.ID][true], "%s has no firing case", r.ID)
		assert.True(t, outcomes[r.ID][false], "%s has no quiet case", r.ID)
	}
}
