package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/stitts-dev/dfs-lineup-builder/internal/services"
	"github.com/stitts-dev/dfs-lineup-builder/internal/session"
	"github.com/stitts-dev/dfs-lineup-builder/pkg/database"
)

type HealthHandler struct {
	db       *database.DB
	cache    *services.CacheService
	sessions *session.Manager
	hub      *services.WebSocketHub
}

func NewHealthHandler(db *database.DB, cache *services.CacheService, sessions *session.Manager, hub *services.WebSocketHub) *HealthHandler {
	return &HealthHandler{db: db, cache: cache, sessions: sessions, hub: hub}
}

// GetHealth reports dependency status. The database is required; redis is
// optional and only degrades the status.
func (h *HealthHandler) GetHealth(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	status := "ok"
	code := http.StatusOK
	checks := gin.H{}

	if h.db != nil {
		if err := h.db.HealthCheck(); err != nil {
			checks["database"] = err.Error()
			status, code = "unavailable", http.StatusServiceUnavailable
		} else {
			checks["database"] = "ok"
		}
	}

	if h.cache != nil {
		if err := h.cache.Ping(ctx); err != nil {
			checks["redis"] = err.Error()
			if code == http.StatusOK {
				status = "degraded"
			}
		} else {
			checks["redis"] = "ok"
		}
	} else {
		checks["redis"] = "disabled"
	}

	body := gin.H{
		"status": status,
		"time":   time.Now().UTC(),
		"checks": checks,
	}
	if h.sessions != nil {
		body["sessions"] = h.sessions.Count()
		body["enrichment_version"] = h.sessions.Store().Version()
	}
	if h.hub != nil {
		body["websocket_clients"] = h.hub.ClientCount()
	}
	c.JSON(code, body)
}
