package lineup

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stitts-dev/dfs-lineup-builder/internal/models"
)

func assertValidLineup(t *testing.T, l *models.Lineup) {
	t.Helper()
	seen := make(map[string]bool)
	for i, o := range l.Slots {
		if o == nil {
			continue
		}
		assert.False(t, seen[o.PlayerID], "player %s occupies more than one slot", o.PlayerID)
		seen[o.PlayerID] = true
		assert.True(t, l.Contest.Accepts(i, o.Position), "%s cannot occupy %s", o.Position, l.Contest.Slots[i].Label)
	}
}

func strategies() []Strategy {
	return []Strategy{
		NewGreedyStrategy(RankByComposite),
		NewGreedyStrategy(RankByValue),
		NewCashStrategy(DefaultMinSlotSalary),
	}
}

func TestAutoFillClassicFillsEverySlot(t *testing.T) {
	snapshot := testSnapshot()
	pool := valuatedPool(snapshot)

	for _, strategy := range strategies() {
		for _, withUpgrade := range []bool{false, true} {
			t.Run(strategy.Name(), func(t *testing.T) {
				empty := models.NewLineup(contest(models.ContestClassic))
				result, err := AutoFill(FillRequest{
					Lineup:   empty,
					Pool:     pool,
					Snapshot: snapshot,
					Strategy: strategy,
					Upgrade:  withUpgrade,
				})
				require.NoError(t, err)

				assert.True(t, result.Lineup.IsComplete(), "all 9 slots should be filled")
				assert.Equal(t, 9, result.FilledCount())
				assert.Empty(t, result.Unfilled)
				assert.LessOrEqual(t, result.Lineup.TotalSalary(), 50000)
				assertValidLineup(t, result.Lineup)
				assert.Zero(t, empty.FilledCount(), "request lineup must not be modified")
			})
		}
	}
}

func TestAutoFillShowdown(t *testing.T) {
	snapshot := testSnapshot()
	pool := valuatedPool(snapshot)

	for _, strategy := range strategies() {
		t.Run(strategy.Name(), func(t *testing.T) {
			result, err := AutoFill(FillRequest{
				Lineup:   models.NewLineup(contest(models.ContestShowdown)),
				Pool:     pool,
				Snapshot: snapshot,
				Strategy: strategy,
			})
			require.NoError(t, err)
			assert.True(t, result.Lineup.IsComplete())
			assert.LessOrEqual(t, result.Lineup.TotalSalary(), 50000)
			assert.True(t, result.Lineup.Slots[0].IsCaptain)
			assertValidLineup(t, result.Lineup)
		})
	}
}

func TestAutoFillSingleGameShowdown(t *testing.T) {
	snapshot := testSnapshot()
	kcLV := models.NewGameCode("KC", "LV")
	var pool []models.Player
	for _, p := range valuatedPool(snapshot) {
		if game, _ := p.Game(); game == kcLV {
			pool = append(pool, p)
		}
	}
	require.Len(t, pool, 12)

	for _, strategy := range strategies() {
		t.Run(strategy.Name(), func(t *testing.T) {
			result, err := AutoFill(FillRequest{
				Lineup:   models.NewLineup(contest(models.ContestShowdown)),
				Pool:     pool,
				Snapshot: snapshot,
				Strategy: strategy,
			})
			require.NoError(t, err)
			assert.True(t, result.Lineup.IsComplete(), "unfilled: %v", result.Unfilled)
			assert.Empty(t, result.Unfilled)
			assert.LessOrEqual(t, result.Lineup.TotalSalary(), 50000)
			assert.True(t, result.Lineup.Slots[0].IsCaptain)
			assert.Equal(t, 6, result.Lineup.GetGameExposure()[kcLV])
			assertValidLineup(t, result.Lineup)
		})
	}
}

func TestCashCapsGameExposureOnFullSlate(t *testing.T) {
	snapshot := testSnapshot()
	result, err := AutoFill(FillRequest{
		Lineup:   models.NewLineup(contest(models.ContestClassic)),
		Pool:     valuatedPool(snapshot),
		Snapshot: snapshot,
		Strategy: NewCashStrategy(DefaultMinSlotSalary),
	})
	require.NoError(t, err)
	require.True(t, result.Lineup.IsComplete())
	for game, n := range result.Lineup.GetGameExposure() {
		assert.LessOrEqual(t, n, maxPerGame, "game %s", game)
	}
}

func TestAutoFillEmptyPoolIsRejected(t *testing.T) {
	l := models.NewLineup(contest(models.ContestClassic))
	result, err := AutoFill(FillRequest{Lineup: l, Strategy: NewCashStrategy(0)})

	assert.ErrorIs(t, err, ErrEmptyPool)
	assert.Nil(t, result)
	assert.Zero(t, l.FilledCount())
}

func TestAutoFillHonorsExclusions(t *testing.T) {
	snapshot := testSnapshot()
	pool := valuatedPool(snapshot)
	excluded := map[string]bool{"KC-QB": true, "LV-WR1": true, "SEA-RB": true}

	for _, strategy := range strategies() {
		result, err := AutoFill(FillRequest{
			Lineup:   models.NewLineup(contest(models.ContestClassic)),
			Pool:     pool,
			Excluded: excluded,
			Snapshot: snapshot,
			Strategy: strategy,
			Upgrade:  true,
		})
		require.NoError(t, err)
		for _, o := range result.Lineup.Occupants() {
			assert.False(t, excluded[o.PlayerID], "%s picked excluded %s", strategy.Name(), o.PlayerID)
		}
	}
}

func TestAutoFillReportsPartialFill(t *testing.T) {
	var pool []models.Player
	for _, p := range valuatedPool(nil) {
		if p.Position != models.PositionDST {
			pool = append(pool, p)
		}
	}

	result, err := AutoFill(FillRequest{
		Lineup:   models.NewLineup(contest(models.ContestClassic)),
		Pool:     pool,
		Strategy: NewGreedyStrategy(RankByComposite),
	})
	require.NoError(t, err, "partial fills are results, not errors")
	assert.Equal(t, 8, result.FilledCount())
	require.Len(t, result.Unfilled, 1)
	assert.Equal(t, 8, result.Unfilled[0].Index)
	assert.Equal(t, "DST", result.Unfilled[0].Label)
}

func TestGreedyLeavesRoomForRemainingSlots(t *testing.T) {
	cfg := contest(models.ContestClassic)
	cfg.SalaryCap = 33000
	pool := valuatedPool(testSnapshot())

	result, err := AutoFill(FillRequest{
		Lineup:   models.NewLineup(cfg),
		Pool:     pool,
		Strategy: NewGreedyStrategy(RankByComposite),
	})
	require.NoError(t, err)
	assert.True(t, result.Lineup.IsComplete(), "a tight cap should still produce a full lineup")
	assert.LessOrEqual(t, result.Lineup.TotalSalary(), 33000)
}

func TestAutoFillKeepsUserPicks(t *testing.T) {
	snapshot := testSnapshot()
	pool := valuatedPool(snapshot)
	l := models.NewLineup(contest(models.ContestClassic))
	_, err := Add(l, findPlayer(pool, "DAL-WR2"))
	require.NoError(t, err)

	for _, strategy := range strategies() {
		result, err := AutoFill(FillRequest{Lineup: l, Pool: pool, Snapshot: snapshot, Strategy: strategy, Upgrade: true})
		require.NoError(t, err)
		assert.Equal(t, "DAL-WR2", result.Lineup.Slots[3].PlayerID, strategy.Name())
		assert.NotContains(t, result.Filled, 3)
		if result.Swap != nil {
			assert.NotEqual(t, 3, result.Swap.Slot)
		}
	}
}

func TestUpgradeSwapsWeakestAutoFilledSlot(t *testing.T) {
	pool := valuatedPool(testSnapshot())

	result, err := AutoFill(FillRequest{
		Lineup:   models.NewLineup(contest(models.ContestClassic)),
		Pool:     pool,
		Strategy: pickStrategy{picks: map[int]string{0: "DAL-QB", 3: "DAL-WR2"}},
		Upgrade:  true,
	})
	require.NoError(t, err)
	require.NotNil(t, result.Swap)

	var best models.Player
	for _, p := range pool {
		if p.Position == models.PositionWR && p.Metrics.FloorScore > best.Metrics.FloorScore {
			best = p
		}
	}
	assert.Equal(t, 3, result.Swap.Slot)
	assert.Equal(t, "DAL-WR2", result.Swap.Out.PlayerID)
	assert.Equal(t, best.ID, result.Swap.In.PlayerID)
	assert.Equal(t, best.ID, result.Lineup.Slots[3].PlayerID)
	assert.Equal(t, "DAL-QB", result.Lineup.Slots[0].PlayerID, "only one swap is made")
}

func TestUpgradeRespectsCap(t *testing.T) {
	cfg := contest(models.ContestClassic)
	cheap := findPlayer(valuatedPool(nil), "DAL-WR2")
	cfg.SalaryCap = cheap.Salary + 100

	result, err := AutoFill(FillRequest{
		Lineup:   models.NewLineup(cfg),
		Pool:     valuatedPool(nil),
		Strategy: pickStrategy{picks: map[int]string{3: "DAL-WR2"}},
		Upgrade:  true,
	})
	require.NoError(t, err)
	assert.Nil(t, result.Swap, "no pricier receiver fits in 100 of room")
}

func TestRandomEditsKeepInvariants(t *testing.T) {
	snapshot := testSnapshot()
	pool := valuatedPool(snapshot)
	rng := rand.New(rand.NewSource(7))
	l := models.NewLineup(contest(models.ContestClassic))

	for step := 0; step < 300; step++ {
		switch rng.Intn(4) {
		case 0, 1:
			_, _ = Add(l, pool[rng.Intn(len(pool))])
		case 2:
			_, _ = Remove(l, rng.Intn(len(l.Slots)))
		case 3:
			result, err := AutoFill(FillRequest{Lineup: l, Pool: pool, Snapshot: snapshot, Strategy: strategies()[rng.Intn(3)], Upgrade: rng.Intn(2) == 0})
			require.NoError(t, err)
			if !l.IsOverCap() {
				assert.LessOrEqual(t, result.Lineup.TotalSalary(), l.Contest.SalaryCap)
			}
			l = result.Lineup
		}
		assertValidLineup(t, l)
	}
}

func TestStrategyByName(t *testing.T) {
	s, err := StrategyByName("cash", 0)
	require.NoError(t, err)
	assert.Equal(t, "cash", s.Name())

	s, err = StrategyByName("value", 0)
	require.NoError(t, err)
	assert.Equal(t, "greedy-value", s.Name())

	_, err = StrategyByName("ilp", 0)
	assert.Error(t, err)
}
