package models

// Occupant is a player seated in a lineup slot. Salary and position are
// locked in at the time of the add.
type Occupant struct {
	PlayerID  string   `json:"player_id"`
	Name      string   `json:"name"`
	Salary    int      `json:"salary"`
	Position  Position `json:"position"`
	Team      string   `json:"team"`
	Game      GameCode `json:"game"`
	IsCaptain bool     `json:"is_captain"`
}

// Lineup maps the contest's ordered slots to occupants; nil means empty.
type Lineup struct {
	Contest ContestConfiguration `json:"contest"`
	Slots   []*Occupant          `json:"slots"`
}

func NewLineup(contest ContestConfiguration) *Lineup {
	return &Lineup{
		Contest: contest,
		Slots:   make([]*Occupant, len(contest.Slots)),
	}
}

// NewOccupant locks in a player's identity for the slot at idx.
func NewOccupant(p Player, contest ContestConfiguration, idx int) *Occupant {
	game, _ := p.Game()
	return &Occupant{
		PlayerID:  p.ID,
		Name:      p.Name,
		Salary:    p.Salary,
		Position:  p.Position,
		Team:      p.Team,
		Game:      game,
		IsCaptain: contest.Slots[idx].Kind == SlotCaptain,
	}
}

// TotalSalary sums occupant salaries
func (l *Lineup) TotalSalary() int {
	total := 0
	for _, o := range l.Slots {
		if o != nil {
			total += o.Salary
		}
	}
	return total
}

// Remaining is the cap minus used salary. Negative when over the cap.
func (l *Lineup) Remaining() int {
	return l.Contest.SalaryCap - l.TotalSalary()
}

func (l *Lineup) IsOverCap() bool {
	return l.Remaining() < 0
}

func (l *Lineup) FilledCount() int {
	n := 0
	for _, o := range l.Slots {
		if o != nil {
			n++
		}
	}
	return n
}

// EmptySlots returns the indexes of unoccupied slots in configuration order.
func (l *Lineup) EmptySlots() []int {
	var empty []int
	for i, o := range l.Slots {
		if o == nil {
			empty = append(empty, i)
		}
	}
	return empty
}

func (l *Lineup) IsComplete() bool {
	return len(l.Slots) > 0 && l.FilledCount() == len(l.Slots)
}

// Has returns the slot index occupied by playerID.
func (l *Lineup) Has(playerID string) (int, bool) {
	for i, o := range l.Slots {
		if o != nil && o.PlayerID == playerID {
			return i, true
		}
	}
	return -1, false
}

// Occupants returns the filled slots in configuration order.
func (l *Lineup) Occupants() []Occupant {
	out := make([]Occupant, 0, len(l.Slots))
	for _, o := range l.Slots {
		if o != nil {
			out = append(out, *o)
		}
	}
	return out
}

// GetGameExposure counts occupants per game
func (l *Lineup) GetGameExposure() map[GameCode]int {
	exposure := make(map[GameCode]int)
	for _, o := range l.Slots {
		if o != nil && !o.Game.IsZero() {
			exposure[o.Game]++
		}
	}
	return exposure
}

// Clone creates a deep copy of the lineup
func (l *Lineup) Clone() *Lineup {
	clone := &Lineup{
		Contest: l.Contest,
		Slots:   make([]*Occupant, len(l.Slots)),
	}
	for i, o := range l.Slots {
		if o != nil {
			copied := *o
			clone.Slots[i] = &copied
		}
	}
	return clone
}

// SalarySummary is the salary display for a lineup.
type SalarySummary struct {
	Cap       int  `json:"cap"`
	Used      int  `json:"used"`
	Remaining int  `json:"remaining"`
	OverCap   bool `json:"over_cap"`
	Filled    int  `json:"filled"`
	Slots     int  `json:"slots"`
}

func (l *Lineup) Summary() SalarySummary {
	used := l.TotalSalary()
	return SalarySummary{
		Cap:       l.Contest.SalaryCap,
		Used:      used,
		Remaining: l.Contest.SalaryCap - used,
		OverCap:   used > l.Contest.SalaryCap,
		Filled:    l.FilledCount(),
		Slots:     len(l.Slots),
	}
}
