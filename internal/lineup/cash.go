package lineup

import (
	"sort"

	"github.com/stitts-dev/dfs-lineup-builder/internal/models"
)

const (
	DefaultMinSlotSalary = 3000

	lowTotalThreshold  = 42.0
	highTotalThreshold = 48.0
	maxPerGame         = 3

	qbStackBoost   = 1.15
	highTotalBoost = 1.08
	wetPassPenalty = 0.85
	indoorBoost    = 1.03
	flexRBBoost    = 1.02
)

// cashPriority is the order slots are filled in, by slot group.
var cashPriority = []string{"CPT", "RB", "QB", "WR", "TE", "FLEX", "DST"}

// CashStrategy builds a high-floor lineup. It fills by position priority
// rather than slot order and applies correlation and environment rules on top
// of floor score.
type CashStrategy struct {
	MinSlotSalary int
}

func NewCashStrategy(minSlotSalary int) *CashStrategy {
	if minSlotSalary <= 0 {
		minSlotSalary = DefaultMinSlotSalary
	}
	return &CashStrategy{MinSlotSalary: minSlotSalary}
}

func (c *CashStrategy) Name() string {
	return "cash"
}

func slotGroup(slot models.Slot) string {
	switch slot.Kind {
	case models.SlotCaptain:
		return "CPT"
	case models.SlotFlex:
		return "FLEX"
	}
	return string(slot.Position)
}

func priorityOf(group string) int {
	for i, g := range cashPriority {
		if g == group {
			return i
		}
	}
	return len(cashPriority)
}

// fillOrder returns the empty slots sorted by position priority, keeping
// configuration order within a group.
func (c *CashStrategy) fillOrder(l *models.Lineup) []int {
	order := l.EmptySlots()
	sort.SliceStable(order, func(i, j int) bool {
		return priorityOf(slotGroup(l.Contest.Slots[order[i]])) < priorityOf(slotGroup(l.Contest.Slots[order[j]]))
	})
	return order
}

func (c *CashStrategy) Fill(s *FillState) {
	// A slate too small to seat every slot at maxPerGame per game (a
	// single-game showdown) cannot honor the game cap.
	capGames := s.Games()*maxPerGame >= len(s.Lineup.Contest.Slots)

	for _, idx := range c.fillOrder(s.Lineup) {
		candidates := s.Eligible(idx)
		SortPlayers(candidates, RankByFloor)

		empty := len(s.Lineup.EmptySlots())
		budget := s.Lineup.Remaining() - (empty-1)*c.MinSlotSalary
		selected := s.Lineup.Occupants()
		slot := s.Lineup.Contest.Slots[idx]

		var best *models.Player
		bestScore := 0.0
		for i := range candidates {
			p := &candidates[i]
			if p.Salary > budget || c.rejects(*p, s.Lineup, capGames) {
				continue
			}
			score := c.effectiveScore(*p, slot, selected, s.Snapshot)
			if best == nil || score > bestScore {
				best, bestScore = p, score
			}
		}
		if best != nil {
			s.Place(idx, *best)
		}
	}
}

type teamContext struct {
	hasQB          bool
	hasPassCatcher bool
}

func teamState(team string, selected []models.Occupant) teamContext {
	var tc teamContext
	for _, o := range selected {
		if o.Team != team {
			continue
		}
		if o.Position == models.PositionQB {
			tc.hasQB = true
		}
		if o.Position.IsPassCatcher() {
			tc.hasPassCatcher = true
		}
	}
	return tc
}

// rejects applies the hard cash rules. capGames enforces the per-game
// limit against the lineup's game exposure.
func (c *CashStrategy) rejects(p models.Player, l *models.Lineup, capGames bool) bool {
	if p.Position != models.PositionDST && p.Metrics.GameTotal != nil && *p.Metrics.GameTotal < lowTotalThreshold {
		return true
	}

	if capGames {
		if game, ok := p.Game(); ok && l.GetGameExposure()[game] >= maxPerGame {
			return true
		}
	}

	if p.Position.IsPassCatcher() {
		tc := teamState(p.Team, l.Occupants())
		if tc.hasPassCatcher && !tc.hasQB {
			return true
		}
	}
	return false
}

func (c *CashStrategy) effectiveScore(p models.Player, slot models.Slot, selected []models.Occupant, snapshot *models.EnrichmentSnapshot) float64 {
	score := p.Metrics.FloorScore

	if p.Position.IsPassCatcher() && teamState(p.Team, selected).hasQB {
		score *= qbStackBoost
	}
	if p.Metrics.GameTotal != nil && *p.Metrics.GameTotal >= highTotalThreshold {
		score *= highTotalBoost
	}
	if game, ok := p.Game(); ok {
		if weather, ok := snapshot.WeatherFor(game); ok {
			if weather.IsWet() && p.Position.IsPassGame() {
				score *= wetPassPenalty
			}
			if weather.Indoor {
				score *= indoorBoost
			}
		}
	}
	if slot.Kind == models.SlotFlex && p.Position == models.PositionRB {
		score *= flexRBBoost
	}
	return score
}
