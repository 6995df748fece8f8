package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/stitts-dev/dfs-lineup-builder/internal/session"
	"github.com/stitts-dev/dfs-lineup-builder/pkg/utils"
)

type LineupHandler struct {
	sessions *session.Manager
}

func NewLineupHandler(sessions *session.Manager) *LineupHandler {
	return &LineupHandler{sessions: sessions}
}

type addPlayerRequest struct {
	PlayerID string `json:"player_id" binding:"required"`
	Slot     *int   `json:"slot"`
}

// AddPlayer seats a player in the first eligible slot, or in the requested one
func (h *LineupHandler) AddPlayer(c *gin.Context) {
	var req addPlayerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.SendValidationError(c, "Invalid request body", err.Error())
		return
	}

	state, err := h.sessions.AddPlayer(c.Param("id"), req.PlayerID, req.Slot)
	if err != nil {
		respondError(c, err)
		return
	}
	utils.SendSuccess(c, state)
}

func (h *LineupHandler) RemovePlayer(c *gin.Context) {
	slot, err := strconv.Atoi(c.Param("slot"))
	if err != nil {
		utils.SendValidationError(c, "Invalid slot", err.Error())
		return
	}

	state, err := h.sessions.RemovePlayer(c.Param("id"), slot)
	if err != nil {
		respondError(c, err)
		return
	}
	utils.SendSuccess(c, state)
}

func (h *LineupHandler) ClearLineup(c *gin.Context) {
	state, err := h.sessions.ClearLineup(c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	utils.SendSuccess(c, state)
}

type autoFillRequest struct {
	Strategy string `json:"strategy"`
	Upgrade  bool   `json:"upgrade"`
}

// AutoFill fills the empty slots. Unfillable slots are listed in the result,
// not reported as an error.
func (h *LineupHandler) AutoFill(c *gin.Context) {
	var req autoFillRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			utils.SendValidationError(c, "Invalid request body", err.Error())
			return
		}
	}

	result, err := h.sessions.AutoFill(c.Param("id"), session.AutoFillOptions{
		Strategy: req.Strategy,
		Upgrade:  req.Upgrade,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	utils.SendSuccess(c, gin.H{
		"lineup":   result.Lineup,
		"salary":   result.Lineup.Summary(),
		"strategy": result.Strategy,
		"filled":   result.Filled,
		"unfilled": result.Unfilled,
		"swap":     result.Swap,
	})
}

func (h *LineupHandler) Analyze(c *gin.Context) {
	analysis, err := h.sessions.Analyze(c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	utils.SendSuccess(c, analysis)
}

// Export downloads the lineup as a salary-site upload CSV
func (h *LineupHandler) Export(c *gin.Context) {
	data, err := h.sessions.Export(c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.Header("Content-Disposition", `attachment; filename="lineup.csv"`)
	c.Data(http.StatusOK, "text/csv", data)
}

type excludeRequest struct {
	Reason string `json:"reason"`
}

// ExcludePlayer marks a player unavailable for the owner
func (h *LineupHandler) ExcludePlayer(c *gin.Context) {
	var req excludeRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			utils.SendValidationError(c, "Invalid request body", err.Error())
			return
		}
	}

	state, err := h.sessions.Exclude(c.Request.Context(), c.Param("id"), c.Param("playerId"), req.Reason)
	if err != nil {
		respondError(c, err)
		return
	}
	utils.SendSuccess(c, state)
}

func (h *LineupHandler) IncludePlayer(c *gin.Context) {
	state, err := h.sessions.Include(c.Request.Context(), c.Param("id"), c.Param("playerId"))
	if err != nil {
		respondError(c, err)
		return
	}
	utils.SendSuccess(c, state)
}
