package session

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/stitts-dev/dfs-lineup-builder/internal/analyzer"
	"github.com/stitts-dev/dfs-lineup-builder/internal/enrichment"
	"github.com/stitts-dev/dfs-lineup-builder/internal/ingest"
	"github.com/stitts-dev/dfs-lineup-builder/internal/lineup"
	"github.com/stitts-dev/dfs-lineup-builder/internal/models"
	"github.com/stitts-dev/dfs-lineup-builder/internal/services"
	"github.com/stitts-dev/dfs-lineup-builder/internal/valuation"
)

var (
	ErrSessionNotFound = errors.New("session not found")
	ErrPlayerNotFound  = errors.New("player not found in pool")
	ErrPlayerExcluded  = errors.New("player is marked unavailable")
	ErrUnknownTab      = errors.New("unknown position tab")
	ErrUnknownSort     = errors.New("unknown sort key")
	ErrNoPersistence   = errors.New("lineup persistence is not configured")
)

// Preferences persists per-owner exclusions and saved lineups.
type Preferences interface {
	ExcludePlayer(ctx context.Context, ownerID, playerID, reason string) error
	IncludePlayer(ctx context.Context, ownerID, playerID string) error
	ExcludedPlayers(ctx context.Context, ownerID string) (map[string]bool, error)
	SaveLineup(ctx context.Context, ownerID, name string, l *models.Lineup, analysis *models.LineupAnalysis) (*models.SavedLineup, error)
}

// Notifier pushes events to connected clients.
type Notifier interface {
	BroadcastToTopic(topic string, messageType string, data interface{}) error
}

type Recorder interface {
	RecordAutoFill(strategy string, filled, unfilled int, swapped bool)
	RecordAnalysis(score float64)
	RecordValuation(d time.Duration)
	SetActiveSessions(n int)
}

type Options struct {
	Engine          *valuation.Engine
	Store           *enrichment.Store
	Analyzer        *analyzer.Analyzer
	Preferences     Preferences
	Notifier        Notifier
	Metrics         Recorder
	DefaultContest  string
	DefaultStrategy string
	MinSlotSalary   int
	Logger          *logrus.Logger
}

// Manager owns every live session and serializes operations per session.
type Manager struct {
	engine          *valuation.Engine
	store           *enrichment.Store
	analyzer        *analyzer.Analyzer
	prefs           Preferences
	notifier        Notifier
	metrics         Recorder
	defaultContest  string
	defaultStrategy string
	minSlotSalary   int
	logger          *logrus.Logger

	mu       sync.RWMutex
	sessions map[string]*Session
}

func NewManager(opts Options) *Manager {
	if opts.Logger == nil {
		opts.Logger = logrus.StandardLogger()
	}
	if opts.Engine == nil {
		opts.Engine = valuation.NewEngine(valuation.Config{}, opts.Logger)
	}
	if opts.Store == nil {
		opts.Store = enrichment.NewStore()
	}
	if opts.Analyzer == nil {
		opts.Analyzer = analyzer.New()
	}
	if opts.DefaultContest == "" {
		opts.DefaultContest = models.ContestClassic
	}
	if opts.MinSlotSalary <= 0 {
		opts.MinSlotSalary = lineup.DefaultMinSlotSalary
	}

	m := &Manager{
		engine:          opts.Engine,
		store:           opts.Store,
		analyzer:        opts.Analyzer,
		prefs:           opts.Preferences,
		notifier:        opts.Notifier,
		metrics:         opts.Metrics,
		defaultContest:  opts.DefaultContest,
		defaultStrategy: opts.DefaultStrategy,
		minSlotSalary:   opts.MinSlotSalary,
		logger:          opts.Logger,
		sessions:        make(map[string]*Session),
	}
	m.store.OnUpdate(m.onEnrichmentUpdate)
	return m
}

func (m *Manager) Store() *enrichment.Store {
	return m.store
}

// Create starts a session for ownerID, seeding its exclusions from storage.
func (m *Manager) Create(ctx context.Context, ownerID, contestName string) (*State, error) {
	if contestName == "" {
		contestName = m.defaultContest
	}
	contest, err := models.GetContestConfiguration(contestName)
	if err != nil {
		return nil, err
	}

	var excluded map[string]bool
	if m.prefs != nil {
		excluded, err = m.prefs.ExcludedPlayers(ctx, ownerID)
		if err != nil {
			return nil, fmt.Errorf("failed to load exclusions: %w", err)
		}
	}

	s := newSession(uuid.New().String(), ownerID, contest, excluded)

	m.mu.Lock()
	m.sessions[s.ID] = s
	count := len(m.sessions)
	m.mu.Unlock()

	if m.metrics != nil {
		m.metrics.SetActiveSessions(count)
	}
	m.logger.WithFields(logrus.Fields{
		"session_id": s.ID,
		"owner_id":   ownerID,
		"contest":    contest.Name,
	}).Info("Session created")

	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state(), nil
}

func (m *Manager) get(id string) (*Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.sessions[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrSessionNotFound, id)
	}
	return s, nil
}

// with runs fn under the session's lock.
func (m *Manager) with(id string, fn func(s *Session) error) error {
	s, err := m.get(id)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return fn(s)
}

// Owner returns the owner of a session.
func (m *Manager) Owner(id string) (string, error) {
	s, err := m.get(id)
	if err != nil {
		return "", err
	}
	return s.OwnerID, nil
}

func (m *Manager) State(id string) (*State, error) {
	var state *State
	err := m.with(id, func(s *Session) error {
		state = s.state()
		return nil
	})
	return state, err
}

func (m *Manager) Delete(id string) error {
	m.mu.Lock()
	if _, ok := m.sessions[id]; !ok {
		m.mu.Unlock()
		return fmt.Errorf("%w: %s", ErrSessionNotFound, id)
	}
	delete(m.sessions, id)
	count := len(m.sessions)
	m.mu.Unlock()

	if m.metrics != nil {
		m.metrics.SetActiveSessions(count)
	}
	return nil
}

func (m *Manager) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}

// Prune drops sessions idle for longer than maxIdle and returns how many
// were removed.
func (m *Manager) Prune(maxIdle time.Duration) int {
	cutoff := time.Now().UTC().Add(-maxIdle)

	m.mu.Lock()
	removed := 0
	for id, s := range m.sessions {
		if s.lastActive().Before(cutoff) {
			delete(m.sessions, id)
			removed++
		}
	}
	count := len(m.sessions)
	m.mu.Unlock()

	if removed > 0 {
		if m.metrics != nil {
			m.metrics.SetActiveSessions(count)
		}
		m.logger.WithField("removed", removed).Info("Pruned idle sessions")
	}
	return removed
}

// LoadPool replaces the session's player pool, valuates it and clears the
// lineup, whose occupants may no longer exist.
func (m *Manager) LoadPool(id string, players []models.Player) (*State, error) {
	trends := enrichment.BuildTrends(players)

	var state *State
	err := m.with(id, func(s *Session) error {
		s.pool = append([]models.Player(nil), players...)
		s.trends = trends
		s.lineup = models.NewLineup(s.contest)
		m.recompute(s)
		s.touch()
		state = s.state()
		return nil
	})
	if err != nil {
		return nil, err
	}

	m.broadcast(id, services.MessageLineupUpdated, state)
	return state, nil
}

// SelectContest switches the roster template and resets the lineup.
func (m *Manager) SelectContest(id, contestName string) (*State, error) {
	contest, err := models.GetContestConfiguration(contestName)
	if err != nil {
		return nil, err
	}

	var state *State
	err = m.with(id, func(s *Session) error {
		s.contest = contest
		s.lineup = models.NewLineup(contest)
		s.touch()
		state = s.state()
		return nil
	})
	if err != nil {
		return nil, err
	}
	m.broadcast(id, services.MessageLineupUpdated, state)
	return state, nil
}

// Recompute re-runs valuation for one session against the latest enrichment.
func (m *Manager) Recompute(id string) error {
	err := m.with(id, func(s *Session) error {
		m.recompute(s)
		return nil
	})
	return err
}

// recompute must be called with s.mu held.
func (m *Manager) recompute(s *Session) {
	start := time.Now()
	snapshot := m.snapshot(s)
	s.valuated = m.engine.Recompute(s.pool, snapshot)
	s.enrichmentVersion = snapshot.Version
	if m.metrics != nil {
		m.metrics.RecordValuation(time.Since(start))
	}
}

// snapshot layers the session's pool trends over the shared enrichment.
// Trends are keyed by player ID, which is only unique within one salary file,
// so they never leave the session. Must be called with s.mu held.
func (m *Manager) snapshot(s *Session) *models.EnrichmentSnapshot {
	snapshot := m.store.Snapshot()
	if len(s.trends) == 0 {
		return snapshot
	}
	trends := make(map[string]models.Trend, len(snapshot.Trends)+len(s.trends))
	for k, v := range snapshot.Trends {
		trends[k] = v
	}
	for k, v := range s.trends {
		trends[k] = v
	}
	snapshot.Trends = trends
	return snapshot
}

func (m *Manager) onEnrichmentUpdate(source enrichment.Source) {
	m.mu.RLock()
	sessions := make([]*Session, 0, len(m.sessions))
	for _, s := range m.sessions {
		sessions = append(sessions, s)
	}
	m.mu.RUnlock()

	for _, s := range sessions {
		s.mu.Lock()
		if len(s.pool) == 0 {
			s.mu.Unlock()
			continue
		}
		m.recompute(s)
		version := s.enrichmentVersion
		s.mu.Unlock()

		m.broadcast(s.ID, services.MessageValuationUpdated, map[string]interface{}{
			"source":             source,
			"enrichment_version": version,
		})
	}
	if m.notifier != nil {
		_ = m.notifier.BroadcastToTopic(services.TopicEnrichment, services.MessageEnrichmentUpdated, map[string]interface{}{
			"source": source,
		})
	}
}

func (m *Manager) broadcast(id, messageType string, data interface{}) {
	if m.notifier == nil {
		return
	}
	if err := m.notifier.BroadcastToTopic(services.SessionTopic(id), messageType, data); err != nil {
		m.logger.WithError(err).WithField("session_id", id).Warn("Failed to broadcast session update")
	}
}

// Players returns the valuated pool under a tab, sorted by sortKey, with
// excluded players removed.
func (m *Manager) Players(id, tab, sortKey string) ([]models.Player, error) {
	key, ok := lineup.ParseRankKey(sortKey)
	if !ok {
		return nil, fmt.Errorf("%w %q", ErrUnknownSort, sortKey)
	}

	var players []models.Player
	err := m.with(id, func(s *Session) error {
		if tab != "" && !s.contest.HasTab(tab) {
			return fmt.Errorf("%w %q for contest %s", ErrUnknownTab, tab, s.contest.Name)
		}
		players = lineup.FilterByTab(s.valuated, s.contest, tab, s.excluded, key)
		return nil
	})
	return players, err
}

func (s *Session) findPlayer(playerID string) (models.Player, error) {
	for _, p := range s.valuated {
		if p.ID == playerID {
			return p, nil
		}
	}
	return models.Player{}, fmt.Errorf("%w: %s", ErrPlayerNotFound, playerID)
}

// AddPlayer seats a pool player. With slot nil the first eligible empty slot
// is used; otherwise the player goes to that slot.
func (m *Manager) AddPlayer(id, playerID string, slot *int) (*State, error) {
	var state *State
	err := m.with(id, func(s *Session) error {
		p, err := s.findPlayer(playerID)
		if err != nil {
			return err
		}
		if s.excluded[p.ID] {
			return fmt.Errorf("%w: %s", ErrPlayerExcluded, p.ID)
		}
		if slot == nil {
			if _, err := lineup.Add(s.lineup, p); err != nil {
				return err
			}
		} else if err := lineup.AddToSlot(s.lineup, *slot, p); err != nil {
			return err
		}
		s.touch()
		state = s.state()
		return nil
	})
	if err != nil {
		return nil, err
	}
	m.broadcast(id, services.MessageLineupUpdated, state)
	return state, nil
}

func (m *Manager) RemovePlayer(id string, slot int) (*State, error) {
	var state *State
	err := m.with(id, func(s *Session) error {
		if _, err := lineup.Remove(s.lineup, slot); err != nil {
			return err
		}
		s.touch()
		state = s.state()
		return nil
	})
	if err != nil {
		return nil, err
	}
	m.broadcast(id, services.MessageLineupUpdated, state)
	return state, nil
}

func (m *Manager) ClearLineup(id string) (*State, error) {
	var state *State
	err := m.with(id, func(s *Session) error {
		lineup.Clear(s.lineup)
		s.touch()
		state = s.state()
		return nil
	})
	if err != nil {
		return nil, err
	}
	m.broadcast(id, services.MessageLineupUpdated, state)
	return state, nil
}

type AutoFillOptions struct {
	Strategy string
	Upgrade  bool
}

// AutoFill fills the empty slots of the session's lineup and keeps the result.
func (m *Manager) AutoFill(id string, opts AutoFillOptions) (*lineup.FillResult, error) {
	name := opts.Strategy
	if name == "" {
		name = m.defaultStrategy
	}
	strategy, err := lineup.StrategyByName(name, m.minSlotSalary)
	if err != nil {
		return nil, err
	}

	var (
		result *lineup.FillResult
		state  *State
	)
	err = m.with(id, func(s *Session) error {
		result, err = lineup.AutoFill(lineup.FillRequest{
			Lineup:   s.lineup,
			Pool:     s.valuated,
			Excluded: s.excluded,
			Snapshot: m.snapshot(s),
			Strategy: strategy,
			Upgrade:  opts.Upgrade,
		})
		if err != nil {
			return err
		}
		s.lineup = result.Lineup.Clone()
		s.touch()
		state = s.state()

		m.logger.WithFields(logrus.Fields{
			"session_id": s.ID,
			"contest":    s.contest.Name,
			"strategy":   result.Strategy,
			"filled":     result.FilledCount(),
			"unfilled":   len(result.Unfilled),
			"swapped":    result.Swap != nil,
		}).Info("Lineup auto-filled")
		return nil
	})
	if err != nil {
		return nil, err
	}

	if m.metrics != nil {
		m.metrics.RecordAutoFill(result.Strategy, result.FilledCount(), len(result.Unfilled), result.Swap != nil)
	}
	m.broadcast(id, services.MessageLineupUpdated, state)
	return result, nil
}

// Analyze scores the session's lineup. The lineup must be complete.
func (m *Manager) Analyze(id string) (*models.LineupAnalysis, error) {
	var analysis *models.LineupAnalysis
	err := m.with(id, func(s *Session) error {
		var err error
		analysis, err = m.analyzer.Analyze(s.lineup, s.valuated, m.snapshot(s))
		return err
	})
	if err != nil {
		return nil, err
	}
	if m.metrics != nil {
		m.metrics.RecordAnalysis(analysis.Score)
	}
	return analysis, nil
}

// Exclude marks a player unavailable for the session's owner. The flag is
// persisted, so it carries over to the owner's future sessions.
func (m *Manager) Exclude(ctx context.Context, id, playerID, reason string) (*State, error) {
	s, err := m.get(id)
	if err != nil {
		return nil, err
	}
	if m.prefs != nil {
		if err := m.prefs.ExcludePlayer(ctx, s.OwnerID, playerID, reason); err != nil {
			return nil, err
		}
	}

	var state *State
	err = m.with(id, func(s *Session) error {
		s.excluded[playerID] = true
		s.touch()
		state = s.state()
		return nil
	})
	return state, err
}

func (m *Manager) Include(ctx context.Context, id, playerID string) (*State, error) {
	s, err := m.get(id)
	if err != nil {
		return nil, err
	}
	if m.prefs != nil {
		if err := m.prefs.IncludePlayer(ctx, s.OwnerID, playerID); err != nil {
			return nil, err
		}
	}

	var state *State
	err = m.with(id, func(s *Session) error {
		delete(s.excluded, playerID)
		s.touch()
		state = s.state()
		return nil
	})
	return state, err
}

// SaveLineup persists the current lineup. Complete lineups are stored with
// their analysis.
func (m *Manager) SaveLineup(ctx context.Context, id, name string) (*models.SavedLineup, error) {
	if m.prefs == nil {
		return nil, ErrNoPersistence
	}

	var (
		owner    string
		snapshot *models.Lineup
		analysis *models.LineupAnalysis
	)
	err := m.with(id, func(s *Session) error {
		owner = s.OwnerID
		snapshot = s.lineup.Clone()
		if s.lineup.IsComplete() {
			a, err := m.analyzer.Analyze(s.lineup, s.valuated, m.snapshot(s))
			if err != nil {
				return err
			}
			analysis = a
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return m.prefs.SaveLineup(ctx, owner, name, snapshot, analysis)
}

// Export renders the session's complete lineup as an upload CSV.
func (m *Manager) Export(id string) ([]byte, error) {
	var data []byte
	err := m.with(id, func(s *Session) error {
		if !s.lineup.IsComplete() {
			return analyzer.ErrIncompleteLineup
		}
		var err error
		data, err = ingest.ExportLineups([]*models.Lineup{s.lineup})
		return err
	})
	return data, err
}
