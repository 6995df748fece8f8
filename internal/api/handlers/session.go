package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/stitts-dev/dfs-lineup-builder/internal/api/middleware"
	"github.com/stitts-dev/dfs-lineup-builder/internal/ingest"
	"github.com/stitts-dev/dfs-lineup-builder/internal/models"
	"github.com/stitts-dev/dfs-lineup-builder/internal/session"
	"github.com/stitts-dev/dfs-lineup-builder/pkg/utils"
)

const maxUploadBytes = 5 << 20

type SessionHandler struct {
	sessions *session.Manager
}

func NewSessionHandler(sessions *session.Manager) *SessionHandler {
	return &SessionHandler{sessions: sessions}
}

// RequireOwner rejects requests for sessions owned by someone else. They are
// reported as missing.
func (h *SessionHandler) RequireOwner(c *gin.Context) {
	owner, err := h.sessions.Owner(c.Param("id"))
	if err != nil {
		respondError(c, err)
		c.Abort()
		return
	}
	if owner != middleware.OwnerID(c) {
		utils.SendNotFound(c, "Session not found")
		c.Abort()
		return
	}
	c.Next()
}

type createSessionRequest struct {
	Contest string `json:"contest"`
}

// CreateSession starts a new lineup session
func (h *SessionHandler) CreateSession(c *gin.Context) {
	var req createSessionRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			utils.SendValidationError(c, "Invalid request body", err.Error())
			return
		}
	}

	state, err := h.sessions.Create(c.Request.Context(), middleware.OwnerID(c), req.Contest)
	if err != nil {
		respondError(c, err)
		return
	}
	utils.SendCreated(c, state)
}

func (h *SessionHandler) GetSession(c *gin.Context) {
	state, err := h.sessions.State(c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	utils.SendSuccess(c, state)
}

func (h *SessionHandler) DeleteSession(c *gin.Context) {
	if err := h.sessions.Delete(c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	utils.SendSuccess(c, gin.H{"message": "Session deleted"})
}

type loadPlayersRequest struct {
	Players []models.Player `json:"players" binding:"required"`
}

// LoadPlayers replaces the session pool with a JSON player list
func (h *SessionHandler) LoadPlayers(c *gin.Context) {
	var req loadPlayersRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.SendValidationError(c, "Invalid request body", err.Error())
		return
	}
	for i, p := range req.Players {
		if p.ID == "" || p.Name == "" || p.Salary <= 0 {
			utils.SendValidationError(c, "Invalid player", "every player needs an id, a name and a positive salary")
			return
		}
		pos, ok := models.ParsePosition(string(p.Position))
		if !ok {
			utils.SendValidationError(c, "Invalid player", "unknown position "+string(p.Position))
			return
		}
		req.Players[i].Position = pos
	}

	state, err := h.sessions.LoadPool(c.Param("id"), req.Players)
	if err != nil {
		respondError(c, err)
		return
	}
	utils.SendSuccess(c, state)
}

// UploadPlayers loads the pool from a salary CSV sent as the "file" form field
func (h *SessionHandler) UploadPlayers(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxUploadBytes)

	fileHeader, err := c.FormFile("file")
	if err != nil {
		utils.SendValidationError(c, "Salary file required", err.Error())
		return
	}
	file, err := fileHeader.Open()
	if err != nil {
		utils.SendValidationError(c, "Unable to read salary file", err.Error())
		return
	}
	defer file.Close()

	result, err := ingest.ParseSalaryCSV(file)
	if err != nil {
		respondError(c, err)
		return
	}

	state, err := h.sessions.LoadPool(c.Param("id"), result.Players)
	if err != nil {
		respondError(c, err)
		return
	}
	utils.SendSuccess(c, gin.H{
		"session": state,
		"loaded":  len(result.Players),
		"skipped": result.Skipped,
	})
}

// ListPlayers returns the valuated pool filtered by tab and sorted
func (h *SessionHandler) ListPlayers(c *gin.Context) {
	players, err := h.sessions.Players(c.Param("id"), c.Query("tab"), c.DefaultQuery("sort", "composite"))
	if err != nil {
		respondError(c, err)
		return
	}
	if players == nil {
		players = []models.Player{}
	}
	utils.SendSuccessWithMeta(c, players, &utils.Meta{Total: int64(len(players))})
}

type selectContestRequest struct {
	Contest string `json:"contest" binding:"required"`
}

func (h *SessionHandler) SelectContest(c *gin.Context) {
	var req selectContestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.SendValidationError(c, "Invalid request body", err.Error())
		return
	}
	state, err := h.sessions.SelectContest(c.Param("id"), req.Contest)
	if err != nil {
		respondError(c, err)
		return
	}
	utils.SendSuccess(c, state)
}

// ListContests returns the built-in roster templates
func (h *SessionHandler) ListContests(c *gin.Context) {
	contests := make([]models.ContestConfiguration, 0, len(models.ContestNames()))
	for _, name := range models.ContestNames() {
		cfg, err := models.GetContestConfiguration(name)
		if err != nil {
			respondError(c, err)
			return
		}
		contests = append(contests, cfg)
	}
	utils.SendSuccess(c, contests)
}
