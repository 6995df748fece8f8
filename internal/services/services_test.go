package services

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stitts-dev/dfs-lineup-builder/internal/models"
	"github.com/stitts-dev/dfs-lineup-builder/pkg/database"
)

func testDB(t *testing.T) *database.DB {
	t.Helper()
	db, err := database.NewConnection("sqlite", ":memory:", false)
	require.NoError(t, err)
	require.NoError(t, AutoMigrate(db))
	t.Cleanup(func() { db.Close() })
	return db
}

func quietLogger() *logrus.Logger {
	log := logrus.New()
	log.SetLevel(logrus.PanicLevel)
	return log
}

func TestExclusions(t *testing.T) {
	ctx := context.Background()
	svc := NewPreferenceService(testDB(t), quietLogger())

	require.NoError(t, svc.ExcludePlayer(ctx, "owner-1", "p1", "injured"))
	require.NoError(t, svc.ExcludePlayer(ctx, "owner-1", "p1", "injured"), "excluding twice is a no-op")
	require.NoError(t, svc.ExcludePlayer(ctx, "owner-1", "p2", ""))
	require.NoError(t, svc.ExcludePlayer(ctx, "owner-2", "p3", ""))

	excluded, err := svc.ExcludedPlayers(ctx, "owner-1")
	require.NoError(t, err)
	assert.Equal(t, map[string]bool{"p1": true, "p2": true}, excluded)

	require.NoError(t, svc.IncludePlayer(ctx, "owner-1", "p1"))
	excluded, err = svc.ExcludedPlayers(ctx, "owner-1")
	require.NoError(t, err)
	assert.Equal(t, map[string]bool{"p2": true}, excluded)
}

func TestSavedLineups(t *testing.T) {
	ctx := context.Background()
	svc := NewPreferenceService(testDB(t), quietLogger())

	cfg, err := models.GetContestConfiguration(models.ContestClassic)
	require.NoError(t, err)
	l := models.NewLineup(cfg)
	l.Slots[0] = &models.Occupant{PlayerID: "qb", Name: "QB", Salary: 7000, Position: models.PositionQB, Team: "DAL"}

	analysis := &models.LineupAnalysis{Score: 6.5, Findings: []models.Finding{{RuleID: "x", Weight: 1.5, Title: "t"}}}
	saved, err := svc.SaveLineup(ctx, "owner-1", "main", l, analysis)
	require.NoError(t, err)
	assert.NotEmpty(t, saved.ID)
	assert.Equal(t, 7000, saved.TotalSalary)

	got, err := svc.GetLineup(ctx, "owner-1", saved.ID)
	require.NoError(t, err)
	assert.Equal(t, "classic", got.Contest)
	require.NotNil(t, got.Score)
	assert.InDelta(t, 6.5, *got.Score, 1e-9)
	assert.Contains(t, string(got.Slots), `"player_id":"qb"`)

	_, err = svc.GetLineup(ctx, "owner-2", saved.ID)
	assert.ErrorIs(t, err, ErrLineupNotFound, "lineups are scoped to their owner")

	list, err := svc.ListLineups(ctx, "owner-1")
	require.NoError(t, err)
	assert.Len(t, list, 1)

	require.NoError(t, svc.DeleteLineup(ctx, "owner-1", saved.ID))
	assert.ErrorIs(t, svc.DeleteLineup(ctx, "owner-1", saved.ID), ErrLineupNotFound)
}

func TestMetricsRecording(t *testing.T) {
	m := NewMetrics(WithNamespace("test"))

	m.RecordAutoFill("cash", 9, 0, true)
	m.RecordAutoFill("cash", 7, 2, false)
	m.RecordFeedFetch("odds", nil)
	m.RecordFeedFetch("odds", assert.AnError)
	m.SetActiveSessions(3)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.autofillRuns.WithLabelValues("cash")))
	assert.Equal(t, 16.0, testutil.ToFloat64(m.autofillSlots.WithLabelValues("cash", "filled")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.autofillSlots.WithLabelValues("cash", "unfilled")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.autofillSwaps))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.feedFetches.WithLabelValues("odds", "error")))
	assert.Equal(t, 3.0, testutil.ToFloat64(m.activeSessions))

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Contains(t, rec.Body.String(), "test_lineup_autofill_runs_total")
}

func TestCacheKeys(t *testing.T) {
	assert.Equal(t, "feed:odds:http://x", FeedCacheKey("odds", "http://x"))
	assert.Equal(t, "session:abc", SessionTopic("abc"))
}

func TestWebSocketHubBroadcastsToSubscribers(t *testing.T) {
	hub := NewWebSocketHub(quietLogger())
	go hub.Run()
	defer hub.Stop()

	upgrader := websocket.Upgrader{}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		client := NewClient(hub, conn, "owner-1")
		hub.Register(client)
		go client.WritePump()
		go client.ReadPump()
	}))
	defer server.Close()

	conn, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(server.URL, "http"), nil)
	require.NoError(t, err)
	defer conn.Close()

	require.NoError(t, conn.WriteJSON(Subscription{Action: "subscribe", Topics: []string{SessionTopic("s1")}}))

	// Wait for registration and subscription to land.
	require.Eventually(t, func() bool {
		if hub.ClientCount() != 1 {
			return false
		}
		hub.mu.RLock()
		defer hub.mu.RUnlock()
		for c := range hub.clients {
			return c.IsSubscribedTo(SessionTopic("s1"))
		}
		return false
	}, 2*time.Second, 10*time.Millisecond)

	require.NoError(t, hub.BroadcastToTopic(SessionTopic("other"), MessageLineupUpdated, map[string]int{"n": 0}))
	require.NoError(t, hub.BroadcastToTopic(SessionTopic("s1"), MessageValuationUpdated, map[string]int{"players": 48}))

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	var msg WebSocketMessage
	require.NoError(t, conn.ReadJSON(&msg))
	assert.Equal(t, MessageValuationUpdated, msg.Type, "unsubscribed topics are not delivered")
	assert.JSONEq(t, `{"players":48}`, string(msg.Data))
}
