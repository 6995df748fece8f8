package lineup

import (
	"sort"
	"strings"

	"github.com/stitts-dev/dfs-lineup-builder/internal/models"
)

// RankKey selects the metric a strategy ranks candidates by.
type RankKey string

const (
	RankByComposite RankKey = "composite"
	RankByValue     RankKey = "value"
	RankByFloor     RankKey = "floor"
	RankBySalary    RankKey = "salary"
)

// ParseRankKey resolves a sort key name; empty means composite.
func ParseRankKey(raw string) (RankKey, bool) {
	switch key := RankKey(strings.ToLower(strings.TrimSpace(raw))); key {
	case "":
		return RankByComposite, true
	case RankByComposite, RankByValue, RankByFloor, RankBySalary:
		return key, true
	}
	return "", false
}

func (k RankKey) Score(p models.Player) float64 {
	switch k {
	case RankByValue:
		return p.Metrics.AdjValue
	case RankByFloor:
		return p.Metrics.FloorScore
	case RankBySalary:
		return float64(p.Salary)
	default:
		return p.Metrics.CompositeScore
	}
}

// SortPlayers orders players by key descending. Ties go to the cheaper
// player, then to the lower ID, so results are deterministic.
func SortPlayers(players []models.Player, key RankKey) {
	sort.SliceStable(players, func(i, j int) bool {
		si, sj := key.Score(players[i]), key.Score(players[j])
		if si != sj {
			return si > sj
		}
		if players[i].Salary != players[j].Salary {
			return players[i].Salary < players[j].Salary
		}
		return players[i].ID < players[j].ID
	})
}

// GreedyStrategy walks slots in configuration order and takes the best
// ranked player that still leaves enough salary to fill the remaining slots
// with their cheapest eligible players.
type GreedyStrategy struct {
	Key RankKey
}

func NewGreedyStrategy(key RankKey) *GreedyStrategy {
	if key == "" {
		key = RankByComposite
	}
	return &GreedyStrategy{Key: key}
}

func (g *GreedyStrategy) Name() string {
	return "greedy-" + string(g.Key)
}

func (g *GreedyStrategy) Fill(s *FillState) {
	skipped := make(map[int]bool)

	for _, idx := range s.Lineup.EmptySlots() {
		candidates := s.Eligible(idx)
		SortPlayers(candidates, g.Key)

		var others []int
		for _, other := range s.Lineup.EmptySlots() {
			if other != idx && !skipped[other] {
				others = append(others, other)
			}
		}

		remaining := s.Lineup.Remaining()
		placed := false
		for _, p := range candidates {
			if p.Salary > remaining-s.minimumReserve(others, p.ID) {
				continue
			}
			s.Place(idx, p)
			placed = true
			break
		}
		if !placed {
			skipped[idx] = true
		}
	}
}
