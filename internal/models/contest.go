package models

import (
	"errors"
	"fmt"
	"strings"
)

var ErrUnknownContest = errors.New("unknown contest type")

type SlotKind string

const (
	SlotExact   SlotKind = "exact"
	SlotFlex    SlotKind = "flex"
	SlotCaptain SlotKind = "captain"
)

// Slot is one positional seat in a contest's roster.
type Slot struct {
	Label    string   `json:"label"`
	Kind     SlotKind `json:"kind"`
	Position Position `json:"position,omitempty"` // only for exact slots
}

// ContestConfiguration is an immutable roster template. Callers must not
// mutate Slots or FlexPositions.
type ContestConfiguration struct {
	Name          string     `json:"name"`
	Slots         []Slot     `json:"slots"`
	SalaryCap     int        `json:"salary_cap"`
	FlexPositions []Position `json:"flex_positions"`
	Tabs          []string   `json:"tabs"`
}

const (
	ContestClassic  = "classic"
	ContestShowdown = "showdown"
)

const (
	TabFlex = "FLEX"
	TabCPT  = "CPT"
)

func exactSlot(pos Position) Slot {
	return Slot{Label: string(pos), Kind: SlotExact, Position: pos}
}

func flexSlot() Slot {
	return Slot{Label: "FLEX", Kind: SlotFlex}
}

var contestConfigurations = map[string]ContestConfiguration{
	ContestClassic: {
		Name: ContestClassic,
		Slots: []Slot{
			exactSlot(PositionQB),
			exactSlot(PositionRB),
			exactSlot(PositionRB),
			exactSlot(PositionWR),
			exactSlot(PositionWR),
			exactSlot(PositionWR),
			exactSlot(PositionTE),
			flexSlot(),
			exactSlot(PositionDST),
		},
		SalaryCap:     50000,
		FlexPositions: []Position{PositionRB, PositionWR, PositionTE},
		Tabs:          []string{"QB", "RB", "WR", "TE", TabFlex, "DST"},
	},
	ContestShowdown: {
		Name: ContestShowdown,
		Slots: []Slot{
			{Label: "CPT", Kind: SlotCaptain},
			flexSlot(),
			flexSlot(),
			flexSlot(),
			flexSlot(),
			flexSlot(),
		},
		SalaryCap:     50000,
		FlexPositions: []Position{PositionQB, PositionRB, PositionWR, PositionTE, PositionDST},
		Tabs:          []string{TabCPT, TabFlex},
	},
}

// GetContestConfiguration returns the named built-in configuration.
func GetContestConfiguration(name string) (ContestConfiguration, error) {
	cfg, ok := contestConfigurations[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return ContestConfiguration{}, fmt.Errorf("%w %q", ErrUnknownContest, name)
	}
	return cfg, nil
}

// ContestNames lists the built-in configurations.
func ContestNames() []string {
	return []string{ContestClassic, ContestShowdown}
}

// IsFlexEligible reports whether pos may occupy a FLEX slot.
func (c ContestConfiguration) IsFlexEligible(pos Position) bool {
	for _, p := range c.FlexPositions {
		if p == pos {
			return true
		}
	}
	return false
}

// Accepts reports whether a player at pos may occupy the slot at idx.
func (c ContestConfiguration) Accepts(idx int, pos Position) bool {
	if idx < 0 || idx >= len(c.Slots) {
		return false
	}
	slot := c.Slots[idx]
	switch slot.Kind {
	case SlotExact:
		return slot.Position == pos
	case SlotFlex:
		return c.IsFlexEligible(pos)
	case SlotCaptain:
		return true
	}
	return false
}

// HasTab reports whether tab is one of the configuration's browsing tabs.
func (c ContestConfiguration) HasTab(tab string) bool {
	for _, t := range c.Tabs {
		if strings.EqualFold(t, tab) {
			return true
		}
	}
	return false
}

// TabPositions returns the positions shown under a browsing tab.
func (c ContestConfiguration) TabPositions(tab string) []Position {
	switch strings.ToUpper(tab) {
	case TabFlex:
		return c.FlexPositions
	case TabCPT:
		return AllPositions
	}
	if pos, ok := ParsePosition(tab); ok {
		return []Position{pos}
	}
	return nil
}
