package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestContestConfigurations(t *testing.T) {
	classic, err := GetContestConfiguration("classic")
	require.NoError(t, err)
	assert.Len(t, classic.Slots, 9)
	assert.Equal(t, 50000, classic.SalaryCap)

	showdown, err := GetContestConfiguration("Showdown")
	require.NoError(t, err)
	assert.Len(t, showdown.Slots, 6)
	assert.Equal(t, SlotCaptain, showdown.Slots[0].Kind)

	_, err = GetContestConfiguration("tiers")
	assert.Error(t, err)
}

func TestContestAccepts(t *testing.T) {
	classic, _ := GetContestConfiguration(ContestClassic)
	showdown, _ := GetContestConfiguration(ContestShowdown)

	assert.True(t, classic.Accepts(0, PositionQB))
	assert.False(t, classic.Accepts(0, PositionRB))
	assert.True(t, classic.Accepts(7, PositionTE), "FLEX takes TE")
	assert.False(t, classic.Accepts(7, PositionQB), "FLEX does not take QB in classic")
	assert.False(t, classic.Accepts(9, PositionQB), "out of range")

	assert.True(t, showdown.Accepts(0, PositionDST), "CPT takes anyone")
	assert.True(t, showdown.Accepts(3, PositionQB))
}

func TestTabPositions(t *testing.T) {
	classic, _ := GetContestConfiguration(ContestClassic)
	assert.Equal(t, []Position{PositionRB, PositionWR, PositionTE}, classic.TabPositions("FLEX"))
	assert.Equal(t, []Position{PositionWR}, classic.TabPositions("wr"))
	assert.Nil(t, classic.TabPositions("K"))

	assert.True(t, classic.HasTab("flex"))
	assert.False(t, classic.HasTab("CPT"))
}

func TestLineupTotalsAndClone(t *testing.T) {
	classic, _ := GetContestConfiguration(ContestClassic)
	lineup := NewLineup(classic)

	qb := Player{ID: "1", Name: "QB One", Team: "DAL", Position: PositionQB, Salary: 7000, GameInfo: "DAL@NYG"}
	lineup.Slots[0] = NewOccupant(qb, classic, 0)

	assert.Equal(t, 7000, lineup.TotalSalary())
	assert.Equal(t, 43000, lineup.Remaining())
	assert.Equal(t, 1, lineup.FilledCount())
	assert.Len(t, lineup.EmptySlots(), 8)
	assert.False(t, lineup.IsComplete())

	idx, ok := lineup.Has("1")
	assert.True(t, ok)
	assert.Equal(t, 0, idx)
	assert.Equal(t, NewGameCode("DAL", "NYG"), lineup.Slots[0].Game)

	clone := lineup.Clone()
	clone.Slots[0].Salary = 1
	clone.Slots[1] = &Occupant{PlayerID: "2"}
	assert.Equal(t, 7000, lineup.Slots[0].Salary, "clone must not share occupants")
	assert.Nil(t, lineup.Slots[1])

	lineup.Slots[1] = &Occupant{PlayerID: "x", Salary: 44000}
	summary := lineup.Summary()
	assert.True(t, summary.OverCap)
	assert.Equal(t, -1000, summary.Remaining)
}

func TestCaptainOccupant(t *testing.T) {
	showdown, _ := GetContestConfiguration(ContestShowdown)
	p := Player{ID: "1", Position: PositionWR, Salary: 9000}

	assert.True(t, NewOccupant(p, showdown, 0).IsCaptain)
	assert.False(t, NewOccupant(p, showdown, 1).IsCaptain)
}
