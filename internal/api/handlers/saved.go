package handlers

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/stitts-dev/dfs-lineup-builder/internal/api/middleware"
	"github.com/stitts-dev/dfs-lineup-builder/internal/services"
	"github.com/stitts-dev/dfs-lineup-builder/internal/session"
	"github.com/stitts-dev/dfs-lineup-builder/pkg/utils"
)

type SavedLineupHandler struct {
	sessions *session.Manager
	prefs    *services.PreferenceService
}

func NewSavedLineupHandler(sessions *session.Manager, prefs *services.PreferenceService) *SavedLineupHandler {
	return &SavedLineupHandler{sessions: sessions, prefs: prefs}
}

type saveLineupRequest struct {
	Name string `json:"name"`
}

// SaveLineup stores the session's current lineup for the owner
func (h *SavedLineupHandler) SaveLineup(c *gin.Context) {
	var req saveLineupRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			utils.SendValidationError(c, "Invalid request body", err.Error())
			return
		}
	}

	if req.Name == "" {
		req.Name = "Lineup " + time.Now().UTC().Format("2006-01-02 15:04")
	}

	saved, err := h.sessions.SaveLineup(c.Request.Context(), c.Param("id"), req.Name)
	if err != nil {
		respondError(c, err)
		return
	}
	utils.SendCreated(c, saved)
}

// GetLineups returns the owner's saved lineups, newest first
func (h *SavedLineupHandler) GetLineups(c *gin.Context) {
	lineups, err := h.prefs.ListLineups(c.Request.Context(), middleware.OwnerID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	utils.SendSuccessWithMeta(c, lineups, &utils.Meta{Total: int64(len(lineups))})
}

func (h *SavedLineupHandler) GetLineup(c *gin.Context) {
	saved, err := h.prefs.GetLineup(c.Request.Context(), middleware.OwnerID(c), c.Param("lineupId"))
	if err != nil {
		respondError(c, err)
		return
	}
	utils.SendSuccess(c, saved)
}

func (h *SavedLineupHandler) DeleteLineup(c *gin.Context) {
	if err := h.prefs.DeleteLineup(c.Request.Context(), middleware.OwnerID(c), c.Param("lineupId")); err != nil {
		respondError(c, err)
		return
	}
	utils.SendSuccess(c, gin.H{"message": "Lineup deleted"})
}
