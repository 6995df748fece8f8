package lineup

import (
	"fmt"
	"sort"
	"strings"

	"github.com/stitts-dev/dfs-lineup-builder/internal/models"
)

// Strategy fills empty slots of the state's lineup.
type Strategy interface {
	Name() string
	Fill(state *FillState)
}

type FillRequest struct {
	Lineup   *models.Lineup
	Pool     []models.Player // valuated
	Excluded map[string]bool
	Snapshot *models.EnrichmentSnapshot
	Strategy Strategy
	// Upgrade runs the single-swap upgrade pass after filling.
	Upgrade bool
}

type UnfilledSlot struct {
	Index  int    `json:"index"`
	Label  string `json:"label"`
	Reason string `json:"reason"`
}

type Swap struct {
	Slot int             `json:"slot"`
	Out  models.Occupant `json:"out"`
	In   models.Occupant `json:"in"`
}

type FillResult struct {
	Lineup   *models.Lineup `json:"lineup"`
	Strategy string         `json:"strategy"`
	Filled   []int          `json:"filled"`
	Unfilled []UnfilledSlot `json:"unfilled"`
	Swap     *Swap          `json:"swap,omitempty"`
}

// FilledCount is the number of slots this run filled.
func (r *FillResult) FilledCount() int {
	return len(r.Filled)
}

// AutoFill fills the empty slots of a copy of req.Lineup. Slots that cannot be
// filled are reported, not treated as errors. The request's lineup is never
// modified.
func AutoFill(req FillRequest) (*FillResult, error) {
	if len(req.Pool) == 0 {
		return nil, ErrEmptyPool
	}
	strategy := req.Strategy
	if strategy == nil {
		strategy = NewGreedyStrategy(RankByComposite)
	}

	state := newFillState(req)
	strategy.Fill(state)

	result := &FillResult{
		Strategy: strategy.Name(),
		Filled:   state.filled,
	}
	sort.Ints(result.Filled)

	if req.Upgrade {
		result.Swap = upgrade(state)
	}

	for _, idx := range state.Lineup.EmptySlots() {
		result.Unfilled = append(result.Unfilled, UnfilledSlot{
			Index:  idx,
			Label:  state.Lineup.Contest.Slots[idx].Label,
			Reason: "no eligible affordable player available",
		})
	}
	result.Lineup = state.Lineup
	return result, nil
}

// FillState is the working state of one auto-fill run.
type FillState struct {
	Lineup   *models.Lineup
	Snapshot *models.EnrichmentSnapshot

	candidates []models.Player
	bySalary   []models.Player
	byID       map[string]*models.Player
	filled     []int
}

func newFillState(req FillRequest) *FillState {
	candidates := make([]models.Player, 0, len(req.Pool))
	for _, p := range req.Pool {
		if req.Excluded[p.ID] {
			continue
		}
		candidates = append(candidates, p)
	}
	snapshot := req.Snapshot
	if snapshot == nil {
		snapshot = &models.EnrichmentSnapshot{}
	}
	bySalary := make([]models.Player, len(candidates))
	copy(bySalary, candidates)
	sort.SliceStable(bySalary, func(i, j int) bool { return bySalary[i].Salary < bySalary[j].Salary })

	return &FillState{
		Lineup:     req.Lineup.Clone(),
		Snapshot:   snapshot,
		candidates: candidates,
		bySalary:   bySalary,
		byID:       models.IndexPlayers(req.Pool),
	}
}

// Games counts the distinct games among the candidates.
func (s *FillState) Games() int {
	games := make(map[models.GameCode]bool)
	for _, p := range s.candidates {
		if game, ok := p.Game(); ok {
			games[game] = true
		}
	}
	return len(games)
}

// Player looks up a pool player by ID, excluded players included.
func (s *FillState) Player(id string) (*models.Player, bool) {
	p, ok := s.byID[id]
	return p, ok
}

// Eligible returns the unused, non-excluded players the slot accepts.
func (s *FillState) Eligible(idx int) []models.Player {
	var out []models.Player
	for _, p := range s.candidates {
		if !s.Lineup.Contest.Accepts(idx, p.Position) {
			continue
		}
		if _, used := s.Lineup.Has(p.ID); used {
			continue
		}
		out = append(out, p)
	}
	return out
}

// Place seats p at idx and records the slot as filled by this run.
func (s *FillState) Place(idx int, p models.Player) {
	s.Lineup.Slots[idx] = models.NewOccupant(p, s.Lineup.Contest, idx)
	s.filled = append(s.filled, idx)
}

// Selected returns the valuated players currently in the lineup.
func (s *FillState) Selected() []models.Player {
	var out []models.Player
	for _, o := range s.Lineup.Slots {
		if o == nil {
			continue
		}
		if p, ok := s.byID[o.PlayerID]; ok {
			out = append(out, *p)
		}
	}
	return out
}

// minimumReserve is the cheapest total salary that can still cover slots,
// using each player at most once and never the player skip.
func (s *FillState) minimumReserve(slots []int, skip string) int {
	taken := map[string]bool{skip: true}
	reserve := 0
	for _, idx := range slots {
		for _, p := range s.bySalary {
			if taken[p.ID] || !s.Lineup.Contest.Accepts(idx, p.Position) {
				continue
			}
			if _, used := s.Lineup.Has(p.ID); used {
				continue
			}
			taken[p.ID] = true
			reserve += p.Salary
			break
		}
	}
	return reserve
}

// StrategyByName resolves a fill strategy from its configured name.
func StrategyByName(name string, minSlotSalary int) (Strategy, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "cash", "floor":
		return NewCashStrategy(minSlotSalary), nil
	case "greedy", "composite", "greedy-composite":
		return NewGreedyStrategy(RankByComposite), nil
	case "value", "greedy-value":
		return NewGreedyStrategy(RankByValue), nil
	}
	return nil, fmt.Errorf("%w %q", ErrUnknownStrategy, name)
}
