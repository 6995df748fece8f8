package valuation

import (
	"github.com/stitts-dev/dfs-lineup-builder/internal/models"
)

// CompositeScore combines value, production, game environment, game script
// and trend into a 0-100 score. Metrics other than CompositeScore and
// FloorScore must already be populated.
func CompositeScore(p models.Player) float64 {
	m := p.Metrics
	score := compositeBase

	score += clamp((m.AdjValue-2.0)*12.5, -25, 25)

	if p.AvgPoints <= 0 {
		score -= 20
	} else {
		score += clamp((p.AvgPoints-12.5)*1.6, -20, 20)
	}

	if p.Position != models.PositionDST {
		if m.ImpliedTeamTotal != nil {
			score += clamp((*m.ImpliedTeamTotal-22.5)/7.5*10, -10, 10)
		}
		if m.GameTotal != nil {
			score += gameTotalContribution(*m.GameTotal)
		}
	}

	if m.Spread != nil {
		score += gameScriptContribution(p.Position, *m.Spread)
	}

	switch m.Trend {
	case models.TrendHot:
		score += 5
	case models.TrendCold:
		score -= 5
	}

	return clamp(score, 0, 100)
}

func gameTotalContribution(total float64) float64 {
	switch {
	case total >= 50:
		return 5
	case total >= 46:
		return 2
	case total <= 38:
		return -5
	case total <= 42:
		return -2
	}
	return 0
}

// gameScriptContribution rewards passers and pass-catchers on underdogs and
// running backs on favorites. spread is from the player's team side.
func gameScriptContribution(pos models.Position, spread float64) float64 {
	switch {
	case pos.IsPassGame():
		switch {
		case spread > 7:
			return 10
		case spread > 3:
			return 5
		case spread < -10:
			return -10
		case spread < -6:
			return -5
		}
	case pos == models.PositionRB:
		switch {
		case spread < -7:
			return 10
		case spread < -3:
			return 5
		case spread > 10:
			return -10
		case spread > 6:
			return -5
		}
	}
	return 0
}

type volumeTier struct {
	minPoints float64
	volume    float64
}

// volumeTiers approximate usage tiers from average points, highest first.
var volumeTiers = map[models.Position][]volumeTier{
	models.PositionQB:  {{22, 25}, {18, 20}, {14, 15}, {0, 10}},
	models.PositionRB:  {{18, 25}, {14, 20}, {10, 15}, {0, 8}},
	models.PositionWR:  {{18, 22}, {14, 18}, {10, 14}, {0, 8}},
	models.PositionTE:  {{14, 18}, {10, 14}, {7, 10}, {0, 6}},
	models.PositionDST: {{10, 12}, {7, 10}, {0, 8}},
}

// VolumeProxy is a position step function of average points.
func VolumeProxy(p models.Player) float64 {
	for _, tier := range volumeTiers[p.Position] {
		if p.AvgPoints >= tier.minPoints {
			return tier.volume
		}
	}
	return 0
}

// BonusProximity rewards players likely to reach scoring milestones.
func BonusProximity(p models.Player) float64 {
	var high, low float64
	switch {
	case p.Position == models.PositionQB:
		high, low = 20, 16
	case p.Position.IsSkill():
		high, low = 13, 10
	case p.Position == models.PositionDST:
		high, low = 10, 7
	default:
		return 0
	}
	switch {
	case p.AvgPoints >= high:
		return 10
	case p.AvgPoints >= low:
		return 5
	}
	return 0
}

func (e *Engine) floorScore(p models.Player, snapshot *models.EnrichmentSnapshot) float64 {
	production := p.AvgPoints
	if production < 0 {
		production = 0
	}

	volume := VolumeProxy(p)
	if trend, ok := snapshot.Trends[p.ID]; ok && trend.VolumeProxy > 0 {
		volume = trend.VolumeProxy
	}

	consistency := e.consistency.Consistency(p)
	if consistency < 0 {
		consistency = 0
	}

	return 0.40*production + 0.30*volume + 0.20*consistency + 0.10*BonusProximity(p)
}
