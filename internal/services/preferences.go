package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/stitts-dev/dfs-lineup-builder/internal/models"
	"github.com/stitts-dev/dfs-lineup-builder/pkg/database"
)

var ErrLineupNotFound = errors.New("saved lineup not found")

// PreferenceService persists per-owner exclusions and saved lineups.
type PreferenceService struct {
	db     *database.DB
	logger *logrus.Logger
}

func NewPreferenceService(db *database.DB, logger *logrus.Logger) *PreferenceService {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &PreferenceService{db: db, logger: logger}
}

// AutoMigrate creates the preference tables.
func AutoMigrate(db *database.DB) error {
	return db.AutoMigrate(&models.ExcludedPlayer{}, &models.SavedLineup{})
}

// ExcludePlayer marks a player unavailable for owner. Repeated calls are no-ops.
func (s *PreferenceService) ExcludePlayer(ctx context.Context, ownerID, playerID, reason string) error {
	row := models.ExcludedPlayer{OwnerID: ownerID, PlayerID: playerID, Reason: reason}
	err := s.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&row).Error
	if err != nil {
		return fmt.Errorf("failed to exclude player: %w", err)
	}
	s.logger.WithFields(logrus.Fields{"owner_id": ownerID, "player_id": playerID}).Debug("Player excluded")
	return nil
}

func (s *PreferenceService) IncludePlayer(ctx context.Context, ownerID, playerID string) error {
	err := s.db.WithContext(ctx).
		Where("owner_id = ? AND player_id = ?", ownerID, playerID).
		Delete(&models.ExcludedPlayer{}).Error
	if err != nil {
		return fmt.Errorf("failed to include player: %w", err)
	}
	return nil
}

// ExcludedPlayers returns owner's exclusion set.
func (s *PreferenceService) ExcludedPlayers(ctx context.Context, ownerID string) (map[string]bool, error) {
	var rows []models.ExcludedPlayer
	if err := s.db.WithContext(ctx).Where("owner_id = ?", ownerID).Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to load excluded players: %w", err)
	}
	excluded := make(map[string]bool, len(rows))
	for _, r := range rows {
		excluded[r.PlayerID] = true
	}
	return excluded, nil
}

// SaveLineup stores a lineup snapshot with its analysis, if any.
func (s *PreferenceService) SaveLineup(ctx context.Context, ownerID, name string, l *models.Lineup, analysis *models.LineupAnalysis) (*models.SavedLineup, error) {
	slots, err := json.Marshal(l.Slots)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal lineup slots: %w", err)
	}

	saved := &models.SavedLineup{
		ID:          uuid.NewString(),
		OwnerID:     ownerID,
		Name:        name,
		Contest:     l.Contest.Name,
		TotalSalary: l.TotalSalary(),
		Slots:       datatypes.JSON(slots),
	}
	if analysis != nil {
		findings, err := json.Marshal(analysis.Findings)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal findings: %w", err)
		}
		score := analysis.Score
		saved.Score = &score
		saved.Findings = datatypes.JSON(findings)
	}

	if err := s.db.WithContext(ctx).Create(saved).Error; err != nil {
		return nil, fmt.Errorf("failed to save lineup: %w", err)
	}
	return saved, nil
}

func (s *PreferenceService) ListLineups(ctx context.Context, ownerID string) ([]models.SavedLineup, error) {
	var lineups []models.SavedLineup
	err := s.db.WithContext(ctx).
		Where("owner_id = ?", ownerID).
		Order("created_at DESC").
		Find(&lineups).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list lineups: %w", err)
	}
	return lineups, nil
}

func (s *PreferenceService) GetLineup(ctx context.Context, ownerID, id string) (*models.SavedLineup, error) {
	var saved models.SavedLineup
	err := s.db.WithContext(ctx).Where("owner_id = ? AND id = ?", ownerID, id).First(&saved).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrLineupNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get lineup: %w", err)
	}
	return &saved, nil
}

func (s *PreferenceService) DeleteLineup(ctx context.Context, ownerID, id string) error {
	result := s.db.WithContext(ctx).Where("owner_id = ? AND id = ?", ownerID, id).Delete(&models.SavedLineup{})
	if result.Error != nil {
		return fmt.Errorf("failed to delete lineup: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrLineupNotFound
	}
	return nil
}
