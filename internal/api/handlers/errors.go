package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/stitts-dev/dfs-lineup-builder/internal/analyzer"
	"github.com/stitts-dev/dfs-lineup-builder/internal/ingest"
	"github.com/stitts-dev/dfs-lineup-builder/internal/lineup"
	"github.com/stitts-dev/dfs-lineup-builder/internal/models"
	"github.com/stitts-dev/dfs-lineup-builder/internal/services"
	"github.com/stitts-dev/dfs-lineup-builder/internal/session"
	"github.com/stitts-dev/dfs-lineup-builder/pkg/utils"
)

// respondError maps domain errors onto API error responses.
func respondError(c *gin.Context, err error) {
	_ = c.Error(err)

	switch {
	case errors.Is(err, session.ErrSessionNotFound):
		utils.SendNotFound(c, "Session not found")
	case errors.Is(err, session.ErrPlayerNotFound):
		utils.SendNotFound(c, err.Error())
	case errors.Is(err, services.ErrLineupNotFound):
		utils.SendNotFound(c, "Saved lineup not found")

	case errors.Is(err, models.ErrUnknownContest):
		utils.SendError(c, http.StatusBadRequest, utils.NewAppError(utils.ErrCodeUnknownContest, err.Error()))
	case errors.Is(err, lineup.ErrInvalidSlot),
		errors.Is(err, lineup.ErrIneligible),
		errors.Is(err, lineup.ErrUnknownStrategy),
		errors.Is(err, session.ErrUnknownTab),
		errors.Is(err, session.ErrUnknownSort),
		errors.Is(err, ingest.ErrNoHeader),
		errors.Is(err, ingest.ErrMissingColumns):
		utils.SendValidationError(c, "Invalid request", err.Error())

	case errors.Is(err, lineup.ErrDuplicatePlayer):
		utils.SendConflict(c, utils.ErrCodeDuplicatePlayer, err.Error())
	case errors.Is(err, lineup.ErrNoEligibleSlot):
		utils.SendConflict(c, utils.ErrCodeNoEligibleSlot, err.Error())
	case errors.Is(err, lineup.ErrSlotOccupied),
		errors.Is(err, lineup.ErrSlotEmpty),
		errors.Is(err, session.ErrPlayerExcluded):
		utils.SendConflict(c, utils.ErrCodeConflict, err.Error())

	case errors.Is(err, lineup.ErrEmptyPool):
		utils.SendPreconditionFailed(c, "Player pool is empty", "load players before auto-filling")
	case errors.Is(err, analyzer.ErrIncompleteLineup):
		utils.SendPreconditionFailed(c, "Lineup is incomplete", "fill every slot first")

	case errors.Is(err, session.ErrNoPersistence):
		utils.SendError(c, http.StatusServiceUnavailable, utils.NewAppError(utils.ErrCodeInternal, "Lineup storage is unavailable"))

	default:
		utils.SendInternalError(c, "Internal server error")
	}
}
