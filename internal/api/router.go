package api

import (
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/stitts-dev/dfs-lineup-builder/internal/api/handlers"
	"github.com/stitts-dev/dfs-lineup-builder/internal/api/middleware"
	"github.com/stitts-dev/dfs-lineup-builder/internal/enrichment"
	"github.com/stitts-dev/dfs-lineup-builder/internal/services"
	"github.com/stitts-dev/dfs-lineup-builder/internal/session"
	"github.com/stitts-dev/dfs-lineup-builder/pkg/config"
	"github.com/stitts-dev/dfs-lineup-builder/pkg/database"
)

// Dependencies are the services the HTTP layer is built on. Cache, Refresher
// and Hub may be nil.
type Dependencies struct {
	Config      *config.Config
	DB          *database.DB
	Cache       *services.CacheService
	Sessions    *session.Manager
	Preferences *services.PreferenceService
	Refresher   *enrichment.Refresher
	Hub         *services.WebSocketHub
	Metrics     *services.Metrics
	Logger      *logrus.Logger
}

// NewRouter builds the full HTTP surface: health, metrics, websocket and the
// versioned API.
func NewRouter(deps Dependencies) *gin.Engine {
	if deps.Logger == nil {
		deps.Logger = logrus.StandardLogger()
	}

	var recorder middleware.HTTPRecorder
	if deps.Metrics != nil {
		recorder = deps.Metrics
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogger(deps.Logger, recorder))
	router.Use(middleware.CORS(deps.Config.CorsOrigins))

	healthHandler := handlers.NewHealthHandler(deps.DB, deps.Cache, deps.Sessions, deps.Hub)
	router.GET("/health", healthHandler.GetHealth)

	if deps.Metrics != nil {
		router.GET("/metrics", gin.WrapH(deps.Metrics.Handler()))
	}

	if deps.Hub != nil {
		wsHandler := handlers.NewWebSocketHandler(deps.Hub, deps.Config.CorsOrigins, deps.Logger)
		router.GET("/ws", middleware.OptionalAuth(deps.Config.JWTSecret), wsHandler.HandleWebSocket)
	}

	SetupRoutes(router.Group("/api/v1"), deps)
	return router
}

// SetupRoutes configures all API routes on the given router group
func SetupRoutes(group *gin.RouterGroup, deps Dependencies) {
	sessionHandler := handlers.NewSessionHandler(deps.Sessions)
	lineupHandler := handlers.NewLineupHandler(deps.Sessions)
	savedHandler := handlers.NewSavedLineupHandler(deps.Sessions, deps.Preferences)
	enrichmentHandler := handlers.NewEnrichmentHandler(deps.Sessions.Store(), deps.Refresher, deps.Logger)

	group.Use(middleware.OptionalAuth(deps.Config.JWTSecret))

	group.GET("/contests", sessionHandler.ListContests)
	group.POST("/sessions", sessionHandler.CreateSession)

	sessions := group.Group("/sessions/:id")
	sessions.Use(sessionHandler.RequireOwner)
	{
		sessions.GET("", sessionHandler.GetSession)
		sessions.DELETE("", sessionHandler.DeleteSession)
		sessions.PUT("/contest", sessionHandler.SelectContest)

		sessions.GET("/players", sessionHandler.ListPlayers)
		sessions.POST("/players", sessionHandler.LoadPlayers)
		sessions.POST("/players/upload", sessionHandler.UploadPlayers)

		sessions.POST("/lineup/players", lineupHandler.AddPlayer)
		sessions.DELETE("/lineup/slots/:slot", lineupHandler.RemovePlayer)
		sessions.POST("/lineup/autofill", lineupHandler.AutoFill)
		sessions.DELETE("/lineup", lineupHandler.ClearLineup)
		sessions.GET("/lineup/export", lineupHandler.Export)
		sessions.GET("/analysis", lineupHandler.Analyze)

		sessions.PUT("/exclusions/:playerId", lineupHandler.ExcludePlayer)
		sessions.DELETE("/exclusions/:playerId", lineupHandler.IncludePlayer)

		sessions.POST("/lineups", savedHandler.SaveLineup)
	}

	if deps.Preferences != nil {
		group.GET("/lineups", savedHandler.GetLineups)
		group.GET("/lineups/:lineupId", savedHandler.GetLineup)
		group.DELETE("/lineups/:lineupId", savedHandler.DeleteLineup)
	}

	group.GET("/enrichment", enrichmentHandler.GetSnapshot)
	push := group.Group("/enrichment")
	push.Use(middleware.AuthRequired(deps.Config.JWTSecret))
	{
		push.PUT("/odds", enrichmentHandler.PushOdds)
		push.PUT("/weather", enrichmentHandler.PushWeather)
		push.PUT("/defense", enrichmentHandler.PushDefense)
		push.POST("/refresh", enrichmentHandler.Refresh)
	}
}
