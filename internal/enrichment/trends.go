package enrichment

import (
	"github.com/stitts-dev/dfs-lineup-builder/internal/models"
	"github.com/stitts-dev/dfs-lineup-builder/internal/valuation"
)

const (
	hotValueThreshold  = 2.5
	coldValueThreshold = 1.5
)

// BuildTrends classifies players as hot or cold from their base value. It
// stands in for a short-term trend feed until one is wired.
func BuildTrends(players []models.Player) map[string]models.Trend {
	trends := make(map[string]models.Trend, len(players))
	for _, p := range players {
		value := valuation.BaseValue(p)
		class := models.TrendNeutral
		switch {
		case value > hotValueThreshold:
			class = models.TrendHot
		case value < coldValueThreshold:
			class = models.TrendCold
		}
		trends[p.ID] = models.Trend{
			Classification: class,
			VolumeProxy:    valuation.VolumeProxy(p),
		}
	}
	return trends
}
