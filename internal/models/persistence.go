package models

import (
	"time"

	"gorm.io/datatypes"
)

// ExcludedPlayer is a player an owner has marked unavailable.
type ExcludedPlayer struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	OwnerID   string    `gorm:"not null;uniqueIndex:idx_owner_player" json:"owner_id"`
	PlayerID  string    `gorm:"not null;uniqueIndex:idx_owner_player" json:"player_id"`
	Reason    string    `json:"reason,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// TableName specifies the table name for GORM
func (ExcludedPlayer) TableName() string {
	return "excluded_players"
}

// SavedLineup is a persisted snapshot of a lineup and its last analysis.
type SavedLineup struct {
	ID          string         `gorm:"primaryKey;type:varchar(36)" json:"id"`
	OwnerID     string         `gorm:"not null;index" json:"owner_id"`
	Name        string         `json:"name"`
	Contest     string         `gorm:"not null" json:"contest"`
	TotalSalary int            `gorm:"not null" json:"total_salary"`
	Slots       datatypes.JSON `json:"slots"`
	Score       *float64       `json:"score,omitempty"`
	Findings    datatypes.JSON `json:"findings,omitempty"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
}

func (SavedLineup) TableName() string {
	return "saved_lineups"
}
