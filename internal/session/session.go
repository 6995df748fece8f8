package session

import (
	"sort"
	"sync"
	"time"

	"github.com/stitts-dev/dfs-lineup-builder/internal/models"
)

// Session is one user's working state: a player pool, its valuated copy,
// the selected contest and the lineup under construction. All access goes
// through the Manager, which holds mu for the duration of an operation.
type Session struct {
	ID        string
	OwnerID   string
	CreatedAt time.Time

	mu                sync.Mutex
	updatedAt         time.Time
	contest           models.ContestConfiguration
	pool              []models.Player
	valuated          []models.Player
	lineup            *models.Lineup
	excluded          map[string]bool
	trends            map[string]models.Trend // built from this session's pool
	enrichmentVersion uint64
}

func newSession(id, ownerID string, contest models.ContestConfiguration, excluded map[string]bool) *Session {
	now := time.Now().UTC()
	if excluded == nil {
		excluded = make(map[string]bool)
	}
	return &Session{
		ID:        id,
		OwnerID:   ownerID,
		CreatedAt: now,
		updatedAt: now,
		contest:   contest,
		lineup:    models.NewLineup(contest),
		excluded:  excluded,
	}
}

func (s *Session) touch() {
	s.updatedAt = time.Now().UTC()
}

func (s *Session) lastActive() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.updatedAt
}

// State is the serializable view of a session.
type State struct {
	ID                string               `json:"id"`
	OwnerID           string               `json:"owner_id"`
	Contest           string               `json:"contest"`
	Lineup            *models.Lineup       `json:"lineup"`
	Salary            models.SalarySummary `json:"salary"`
	PlayerCount       int                  `json:"player_count"`
	Excluded          []string             `json:"excluded"`
	EnrichmentVersion uint64               `json:"enrichment_version"`
	CreatedAt         time.Time            `json:"created_at"`
	UpdatedAt         time.Time            `json:"updated_at"`
}

// state must be called with mu held.
func (s *Session) state() *State {
	excluded := make([]string, 0, len(s.excluded))
	for id := range s.excluded {
		excluded = append(excluded, id)
	}
	sort.Strings(excluded)

	return &State{
		ID:                s.ID,
		OwnerID:           s.OwnerID,
		Contest:           s.contest.Name,
		Lineup:            s.lineup.Clone(),
		Salary:            s.lineup.Summary(),
		PlayerCount:       len(s.pool),
		Excluded:          excluded,
		EnrichmentVersion: s.enrichmentVersion,
		CreatedAt:         s.CreatedAt,
		UpdatedAt:         s.updatedAt,
	}
}
