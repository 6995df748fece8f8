package lineup

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stitts-dev/dfs-lineup-builder/internal/models"
)

func TestAddUsesFirstEligibleSlot(t *testing.T) {
	pool := rawPool()
	l := models.NewLineup(contest(models.ContestClassic))

	idx, err := Add(l, findPlayer(pool, "DAL-RB"))
	require.NoError(t, err)
	assert.Equal(t, 1, idx)

	idx, err = Add(l, findPlayer(pool, "NYG-RB"))
	require.NoError(t, err)
	assert.Equal(t, 2, idx)

	idx, err = Add(l, findPlayer(pool, "PHI-RB"))
	require.NoError(t, err)
	assert.Equal(t, 7, idx, "third running back goes to FLEX")

	_, err = Add(l, findPlayer(pool, "WAS-RB"))
	assert.ErrorIs(t, err, ErrNoEligibleSlot)
}

func TestAddDuplicateIsNoOp(t *testing.T) {
	pool := rawPool()
	l := models.NewLineup(contest(models.ContestClassic))
	qb := findPlayer(pool, "KC-QB")

	_, err := Add(l, qb)
	require.NoError(t, err)
	before := l.Clone()

	_, err = Add(l, qb)
	assert.ErrorIs(t, err, ErrDuplicatePlayer)
	assert.Equal(t, before, l, "duplicate add must not change slots or totals")

	err = AddToSlot(l, 7, findPlayer(pool, "KC-QB"))
	assert.ErrorIs(t, err, ErrDuplicatePlayer)
}

func TestAddToSlot(t *testing.T) {
	pool := rawPool()
	l := models.NewLineup(contest(models.ContestClassic))

	assert.NoError(t, AddToSlot(l, 7, findPlayer(pool, "SF-TE")))
	assert.ErrorIs(t, AddToSlot(l, 7, findPlayer(pool, "SEA-TE")), ErrSlotOccupied)
	assert.ErrorIs(t, AddToSlot(l, 0, findPlayer(pool, "SEA-TE")), ErrIneligible)
	assert.ErrorIs(t, AddToSlot(l, 12, findPlayer(pool, "SEA-TE")), ErrInvalidSlot)
}

func TestCaptainTakesAnyPosition(t *testing.T) {
	pool := rawPool()
	l := models.NewLineup(contest(models.ContestShowdown))

	idx, err := Add(l, findPlayer(pool, "LV-DST"))
	require.NoError(t, err)
	assert.Equal(t, 0, idx)
	assert.True(t, l.Slots[0].IsCaptain)
}

func TestRemoveDoesNotReflow(t *testing.T) {
	pool := rawPool()
	l := models.NewLineup(contest(models.ContestClassic))
	for _, id := range []string{"DAL-QB", "DAL-RB", "NYG-RB", "DAL-WR1"} {
		_, err := Add(l, findPlayer(pool, id))
		require.NoError(t, err)
	}
	salaryBefore := l.TotalSalary()

	removed, err := Remove(l, 1)
	require.NoError(t, err)
	assert.Equal(t, "DAL-RB", removed.PlayerID)
	assert.Nil(t, l.Slots[1])
	assert.Equal(t, "NYG-RB", l.Slots[2].PlayerID, "other slots stay put")
	assert.Equal(t, salaryBefore-removed.Salary, l.TotalSalary())

	_, err = Remove(l, 1)
	assert.ErrorIs(t, err, ErrSlotEmpty)
	_, err = Remove(l, -1)
	assert.ErrorIs(t, err, ErrInvalidSlot)
}

func TestAddAllowsExceedingCap(t *testing.T) {
	l := models.NewLineup(contest(models.ContestClassic))
	_, err := Add(l, newPlayer("pricey", "DAL", models.PositionQB, 60000, 30, "DAL@NYG"))
	require.NoError(t, err)
	assert.True(t, l.IsOverCap())
}
