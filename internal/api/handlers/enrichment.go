package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/stitts-dev/dfs-lineup-builder/internal/enrichment"
	"github.com/stitts-dev/dfs-lineup-builder/internal/models"
	"github.com/stitts-dev/dfs-lineup-builder/pkg/utils"
)

// EnrichmentHandler accepts enrichment pushes and exposes the current
// snapshot. Every accepted push triggers revaluation of all sessions.
type EnrichmentHandler struct {
	store     *enrichment.Store
	refresher *enrichment.Refresher
	logger    *logrus.Logger
}

func NewEnrichmentHandler(store *enrichment.Store, refresher *enrichment.Refresher, logger *logrus.Logger) *EnrichmentHandler {
	return &EnrichmentHandler{store: store, refresher: refresher, logger: logger}
}

func (h *EnrichmentHandler) GetSnapshot(c *gin.Context) {
	utils.SendSuccess(c, h.store.Snapshot())
}

func (h *EnrichmentHandler) PushOdds(c *gin.Context) {
	var odds map[models.GameCode]models.GameOdds
	if err := c.ShouldBindJSON(&odds); err != nil {
		utils.SendValidationError(c, "Invalid odds payload", err.Error())
		return
	}
	h.store.SetOdds(odds)
	h.accepted(c, enrichment.SourceOdds, len(odds))
}

func (h *EnrichmentHandler) PushWeather(c *gin.Context) {
	var weather map[models.GameCode]models.Weather
	if err := c.ShouldBindJSON(&weather); err != nil {
		utils.SendValidationError(c, "Invalid weather payload", err.Error())
		return
	}
	h.store.SetWeather(weather)
	h.accepted(c, enrichment.SourceWeather, len(weather))
}

func (h *EnrichmentHandler) PushDefense(c *gin.Context) {
	var rankings map[models.DefenseKey]models.DefenseRanking
	if err := c.ShouldBindJSON(&rankings); err != nil {
		utils.SendValidationError(c, "Invalid defense payload", err.Error())
		return
	}
	h.store.SetDefense(rankings)
	h.accepted(c, enrichment.SourceDefense, len(rankings))
}

// Refresh pulls every configured feed now instead of waiting for the schedule
func (h *EnrichmentHandler) Refresh(c *gin.Context) {
	if h.refresher == nil {
		utils.SendValidationError(c, "No enrichment feeds configured", "")
		return
	}

	failed := h.refresher.RefreshAll(c.Request.Context())
	errs := make(map[enrichment.Source]string, len(failed))
	for source, err := range failed {
		errs[source] = err.Error()
	}
	utils.SendSuccess(c, gin.H{
		"version": h.store.Version(),
		"failed":  errs,
	})
}

func (h *EnrichmentHandler) accepted(c *gin.Context, source enrichment.Source, entries int) {
	h.logger.WithFields(logrus.Fields{
		"feed":    source,
		"entries": entries,
	}).Info("Enrichment data pushed")

	utils.SendSuccess(c, gin.H{
		"source":  source,
		"entries": entries,
		"version": h.store.Version(),
	})
}
