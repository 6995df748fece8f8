package valuation

import (
	"math"
	"sort"

	"github.com/sirupsen/logrus"

	"github.com/stitts-dev/dfs-lineup-builder/internal/models"
)

const (
	DefaultTopFraction = 0.10

	// Matchup multipliers by opponent rank percentile.
	softMatchupMultiplier  = 1.20
	toughMatchupMultiplier = 0.85

	compositeBase = 50.0
)

// ConsistencySource supplies the consistency term of the floor score.
type ConsistencySource interface {
	Consistency(p models.Player) float64
}

// ConstantConsistency returns the same consistency for every player. Used
// until game-log variance is available.
type ConstantConsistency float64

func (c ConstantConsistency) Consistency(models.Player) float64 {
	return float64(c)
}

type Config struct {
	// TopFraction is the share of each position flagged as top value,
	// e.g. 0.10 for a 90th percentile cut.
	TopFraction float64
	Consistency ConsistencySource
}

// Engine turns a player pool and an enrichment snapshot into valuated players.
// It holds no per-call state; the top-value cut is fixed for its lifetime.
type Engine struct {
	topFraction float64
	consistency ConsistencySource
	logger      *logrus.Entry
}

func NewEngine(cfg Config, logger *logrus.Logger) *Engine {
	if cfg.TopFraction <= 0 || cfg.TopFraction >= 1 {
		cfg.TopFraction = DefaultTopFraction
	}
	if cfg.Consistency == nil {
		cfg.Consistency = ConstantConsistency(10)
	}
	if logger == nil {
		logger = logrus.StandardLogger()
	}

	entry := logger.WithField("component", "valuation")
	entry.WithFields(logrus.Fields{
		"top_fraction": cfg.TopFraction,
		"percentile":   math.Round((1 - cfg.TopFraction) * 100),
	}).Info("Valuation engine initialized")

	return &Engine{
		topFraction: cfg.TopFraction,
		consistency: cfg.Consistency,
		logger:      entry,
	}
}

func (e *Engine) TopFraction() float64 {
	return e.topFraction
}

// Recompute returns a copy of pool with every derived metric rebuilt from
// scratch. The input slice is not modified and snapshot may be nil.
func (e *Engine) Recompute(pool []models.Player, snapshot *models.EnrichmentSnapshot) []models.Player {
	if snapshot == nil {
		snapshot = &models.EnrichmentSnapshot{}
	}

	out := make([]models.Player, len(pool))
	for i, p := range pool {
		p.Metrics = models.PlayerMetrics{
			Value:             BaseValue(p),
			MatchupMultiplier: 1.0,
			Trend:             models.TrendNeutral,
		}
		out[i] = p
	}

	thresholds := TopValueThresholds(out, e.topFraction)

	for i := range out {
		p := &out[i]
		m := &p.Metrics

		if t, ok := thresholds[p.Position]; ok {
			m.IsTopValue = m.Value > 0 && m.Value >= t
		}

		m.MatchupMultiplier = MatchupMultiplier(*p, snapshot)
		m.AdjValue = m.Value * m.MatchupMultiplier

		if game, ok := p.Game(); ok {
			if odds, ok := snapshot.OddsFor(game); ok {
				total := odds.Total
				spread := odds.TeamSpread(game, p.Team)
				m.GameTotal = &total
				m.Spread = &spread
				if p.Position != models.PositionDST {
					implied := odds.ImpliedTotal(game, p.Team)
					m.ImpliedTeamTotal = &implied
				}
			}
		}

		if trend, ok := snapshot.Trends[p.ID]; ok && trend.Classification != "" {
			m.Trend = trend.Classification
		}

		m.CompositeScore = CompositeScore(*p)
		m.FloorScore = e.floorScore(*p, snapshot)
	}

	e.logger.WithFields(logrus.Fields{
		"players":          len(out),
		"snapshot_version": snapshot.Version,
	}).Debug("Recomputed player valuations")

	return out
}

// BaseValue is projected points per $1000 of salary.
func BaseValue(p models.Player) float64 {
	if p.AvgPoints <= 0 {
		return 0
	}
	salary := p.Salary
	if salary <= 0 {
		salary = 1
	}
	return p.AvgPoints / float64(salary) * 1000
}

// TopValueThresholds returns, per position, the value at the
// (1 - topFraction) percentile of that position's ascending value list.
func TopValueThresholds(players []models.Player, topFraction float64) map[models.Position]float64 {
	byPosition := make(map[models.Position][]float64)
	for _, p := range players {
		byPosition[p.Position] = append(byPosition[p.Position], p.Metrics.Value)
	}

	thresholds := make(map[models.Position]float64, len(byPosition))
	for pos, values := range byPosition {
		sort.Float64s(values)
		idx := int(math.Floor(float64(len(values))*(1-topFraction) + 1e-9))
		if idx >= len(values) {
			idx = len(values) - 1
		}
		if idx < 0 {
			idx = 0
		}
		thresholds[pos] = values[idx]
	}
	return thresholds
}

// MatchupMultiplier scales value by the opponent's defensive rank against the
// player's position. Team defenses and players without ranking data get 1.0.
func MatchupMultiplier(p models.Player, snapshot *models.EnrichmentSnapshot) float64 {
	if p.Position == models.PositionDST || snapshot == nil {
		return 1.0
	}
	opp := p.Opponent()
	if opp == "" {
		return 1.0
	}
	ranking, ok := snapshot.Defense[models.NewDefenseKey(opp, p.Position)]
	if !ok || ranking.Rank <= 0 {
		return 1.0
	}

	total := ranking.Total
	if total <= 0 {
		total = snapshot.DefenseTotal(p.Position)
	}
	if total <= 0 {
		return 1.0
	}

	percentile := float64(ranking.Rank) / float64(total)
	switch {
	case percentile > 2.0/3.0:
		return softMatchupMultiplier
	case percentile <= 1.0/3.0:
		return toughMatchupMultiplier
	default:
		return 1.0
	}
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}
