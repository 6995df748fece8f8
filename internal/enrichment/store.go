package enrichment

import (
	"sync"
	"time"

	"github.com/stitts-dev/dfs-lineup-builder/internal/models"
)

type Source string

const (
	SourceDefense Source = "defense"
	SourceOdds    Source = "odds"
	SourceWeather Source = "weather"
	SourceTrends  Source = "trends"
)

// Store holds the latest data from each enrichment source. Each source is
// replaced wholesale on update; the last write wins.
type Store struct {
	mu        sync.RWMutex
	defense   map[models.DefenseKey]models.DefenseRanking
	odds      map[models.GameCode]models.GameOdds
	weather   map[models.GameCode]models.Weather
	trends    map[string]models.Trend
	version   uint64
	updatedAt time.Time

	listenerMu sync.RWMutex
	listeners  []func(Source)
}

func NewStore() *Store {
	return &Store{}
}

// OnUpdate registers fn to run after any source is replaced. fn runs on the
// writer's goroutine, outside the store lock.
func (s *Store) OnUpdate(fn func(Source)) {
	s.listenerMu.Lock()
	defer s.listenerMu.Unlock()
	s.listeners = append(s.listeners, fn)
}

func (s *Store) notify(source Source) {
	s.listenerMu.RLock()
	listeners := append([]func(Source){}, s.listeners...)
	s.listenerMu.RUnlock()
	for _, fn := range listeners {
		fn(source)
	}
}

func (s *Store) bump() {
	s.version++
	s.updatedAt = time.Now().UTC()
}

func (s *Store) SetDefense(rankings map[models.DefenseKey]models.DefenseRanking) {
	s.mu.Lock()
	s.defense = rankings
	s.bump()
	s.mu.Unlock()
	s.notify(SourceDefense)
}

func (s *Store) SetOdds(odds map[models.GameCode]models.GameOdds) {
	s.mu.Lock()
	s.odds = odds
	s.bump()
	s.mu.Unlock()
	s.notify(SourceOdds)
}

func (s *Store) SetWeather(weather map[models.GameCode]models.Weather) {
	s.mu.Lock()
	s.weather = weather
	s.bump()
	s.mu.Unlock()
	s.notify(SourceWeather)
}

func (s *Store) SetTrends(trends map[string]models.Trend) {
	s.mu.Lock()
	s.trends = trends
	s.bump()
	s.mu.Unlock()
	s.notify(SourceTrends)
}

func (s *Store) Version() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.version
}

// Snapshot returns a copy of every source that later writes cannot affect.
func (s *Store) Snapshot() *models.EnrichmentSnapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snapshot := &models.EnrichmentSnapshot{
		Version:   s.version,
		UpdatedAt: s.updatedAt,
	}
	if s.defense != nil {
		snapshot.Defense = make(map[models.DefenseKey]models.DefenseRanking, len(s.defense))
		for k, v := range s.defense {
			snapshot.Defense[k] = v
		}
	}
	if s.odds != nil {
		snapshot.Odds = make(map[models.GameCode]models.GameOdds, len(s.odds))
		for k, v := range s.odds {
			snapshot.Odds[k] = v
		}
	}
	if s.weather != nil {
		snapshot.Weather = make(map[models.GameCode]models.Weather, len(s.weather))
		for k, v := range s.weather {
			snapshot.Weather[k] = v
		}
	}
	if s.trends != nil {
		snapshot.Trends = make(map[string]models.Trend, len(s.trends))
		for k, v := range s.trends {
			snapshot.Trends[k] = v
		}
	}
	return snapshot
}
