package lineup

import (
	"github.com/stitts-dev/dfs-lineup-builder/internal/models"
)

// upgrade swaps the weakest slot filled by this run for the highest-floor
// eligible player that costs more and still fits under the cap. At most one
// swap is made; slots the user filled are never touched.
func upgrade(s *FillState) *Swap {
	weakest := -1
	weakestFloor := 0.0
	for _, idx := range s.filled {
		o := s.Lineup.Slots[idx]
		if o == nil {
			continue
		}
		p, ok := s.byID[o.PlayerID]
		if !ok {
			continue
		}
		if weakest == -1 || p.Metrics.FloorScore < weakestFloor {
			weakest, weakestFloor = idx, p.Metrics.FloorScore
		}
	}
	if weakest == -1 {
		return nil
	}

	current := s.Lineup.Slots[weakest]
	room := s.Lineup.Remaining()

	var best *models.Player
	candidates := s.Eligible(weakest)
	for i := range candidates {
		p := &candidates[i]
		if p.Metrics.FloorScore <= weakestFloor || p.Salary <= current.Salary || p.Salary-current.Salary > room {
			continue
		}
		if best == nil || p.Metrics.FloorScore > best.Metrics.FloorScore ||
			(p.Metrics.FloorScore == best.Metrics.FloorScore && p.Salary < best.Salary) {
			best = p
		}
	}
	if best == nil {
		return nil
	}

	swap := &Swap{Slot: weakest, Out: *current}
	s.Lineup.Slots[weakest] = models.NewOccupant(*best, s.Lineup.Contest, weakest)
	swap.In = *s.Lineup.Slots[weakest]
	return swap
}
