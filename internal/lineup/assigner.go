package lineup

import (
	"errors"
	"fmt"

	"github.com/stitts-dev/dfs-lineup-builder/internal/models"
)

var (
	ErrEmptyPool       = errors.New("player pool is empty")
	ErrDuplicatePlayer = errors.New("player is already in the lineup")
	ErrNoEligibleSlot  = errors.New("no available slot for this player")
	ErrInvalidSlot     = errors.New("slot index out of range")
	ErrIneligible      = errors.New("player is not eligible for this slot")
	ErrSlotOccupied    = errors.New("slot is already occupied")
	ErrSlotEmpty       = errors.New("slot is empty")
	ErrUnknownStrategy = errors.New("unknown fill strategy")
)

// Add seats p in the first empty slot that accepts its position, in
// configuration order, and returns that slot's index. The lineup is unchanged
// on error.
func Add(l *models.Lineup, p models.Player) (int, error) {
	if _, ok := l.Has(p.ID); ok {
		return -1, fmt.Errorf("%s: %w", p.Name, ErrDuplicatePlayer)
	}
	for i, occupant := range l.Slots {
		if occupant == nil && l.Contest.Accepts(i, p.Position) {
			l.Slots[i] = models.NewOccupant(p, l.Contest, i)
			return i, nil
		}
	}
	return -1, fmt.Errorf("%s (%s): %w", p.Name, p.Position, ErrNoEligibleSlot)
}

// AddToSlot seats p in a specific empty slot.
func AddToSlot(l *models.Lineup, idx int, p models.Player) error {
	if idx < 0 || idx >= len(l.Slots) {
		return fmt.Errorf("slot %d: %w", idx, ErrInvalidSlot)
	}
	if _, ok := l.Has(p.ID); ok {
		return fmt.Errorf("%s: %w", p.Name, ErrDuplicatePlayer)
	}
	if l.Slots[idx] != nil {
		return fmt.Errorf("slot %d: %w", idx, ErrSlotOccupied)
	}
	if !l.Contest.Accepts(idx, p.Position) {
		return fmt.Errorf("%s cannot play %s: %w", p.Position, l.Contest.Slots[idx].Label, ErrIneligible)
	}
	l.Slots[idx] = models.NewOccupant(p, l.Contest, idx)
	return nil
}

// Remove empties exactly one slot and returns its previous occupant. Other
// slots are never reflowed.
func Remove(l *models.Lineup, idx int) (*models.Occupant, error) {
	if idx < 0 || idx >= len(l.Slots) {
		return nil, fmt.Errorf("slot %d: %w", idx, ErrInvalidSlot)
	}
	occupant := l.Slots[idx]
	if occupant == nil {
		return nil, fmt.Errorf("slot %d: %w", idx, ErrSlotEmpty)
	}
	l.Slots[idx] = nil
	return occupant, nil
}

// Clear empties every slot.
func Clear(l *models.Lineup) {
	for i := range l.Slots {
		l.Slots[i] = nil
	}
}
