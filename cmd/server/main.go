package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"

	"github.com/stitts-dev/dfs-lineup-builder/internal/analyzer"
	"github.com/stitts-dev/dfs-lineup-builder/internal/api"
	"github.com/stitts-dev/dfs-lineup-builder/internal/enrichment"
	"github.com/stitts-dev/dfs-lineup-builder/internal/services"
	"github.com/stitts-dev/dfs-lineup-builder/internal/session"
	"github.com/stitts-dev/dfs-lineup-builder/internal/valuation"
	"github.com/stitts-dev/dfs-lineup-builder/pkg/config"
	"github.com/stitts-dev/dfs-lineup-builder/pkg/database"
	"github.com/stitts-dev/dfs-lineup-builder/pkg/logger"
)

func main() {
	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		logrus.Fatalf("Failed to load config: %v", err)
	}

	// Setup logging
	log := logger.InitLogger(cfg.LogLevel, cfg.IsDevelopment())
	if cfg.IsDevelopment() {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}
	serverLog := logger.WithComponent("server")

	// Connect to database
	db, err := database.NewConnection(cfg.DatabaseDriver, cfg.DatabaseURL, cfg.IsDevelopment())
	if err != nil {
		serverLog.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	if err := services.AutoMigrate(db); err != nil {
		serverLog.Fatalf("Failed to migrate database: %v", err)
	}

	// Redis is optional; feeds are fetched uncached without it
	ctx := context.Background()
	var cacheService *services.CacheService
	var feedCache enrichment.Cache
	redisClient, err := services.NewRedisClient(ctx, cfg.RedisURL)
	if err != nil {
		serverLog.WithError(err).Warn("Redis unavailable, running without cache")
	} else {
		defer redisClient.Close()
		cacheService = services.NewCacheService(redisClient)
		feedCache = cacheService
	}

	// Initialize services
	metrics := services.NewMetrics()
	preferences := services.NewPreferenceService(db, log)
	webSocketHub := services.NewWebSocketHub(log)
	go webSocketHub.Run()
	defer webSocketHub.Stop()

	engine := valuation.NewEngine(valuation.Config{
		TopFraction: cfg.TopValueFraction,
		Consistency: valuation.ConstantConsistency(cfg.ConsistencyBaseline),
	}, log)
	store := enrichment.NewStore()

	sessions := session.NewManager(session.Options{
		Engine:          engine,
		Store:           store,
		Analyzer:        analyzer.New(),
		Preferences:     preferences,
		Notifier:        webSocketHub,
		Metrics:         metrics,
		DefaultStrategy: cfg.DefaultStrategy,
		MinSlotSalary:   cfg.MinSlotSalary,
		Logger:          log,
	})

	// Parse refresh interval
	refreshInterval, err := time.ParseDuration(cfg.EnrichmentRefreshInterval)
	if err != nil {
		serverLog.Warnf("Invalid enrichment refresh interval, using default 15m: %v", err)
		refreshInterval = 15 * time.Minute
	}

	feedClient := enrichment.NewFeedClient(enrichment.FeedClientConfig{
		Timeout:       cfg.ExternalAPITimeout,
		RatePerSecond: cfg.ExternalAPIRateLimit,
		FailureTrip:   cfg.CircuitBreakerThreshold,
		CacheTTL:      cfg.FeedCacheTTL,
	}, feedCache, metrics, log)

	refresher := enrichment.NewRefresher(feedClient, store, enrichment.RefresherConfig{
		OddsURL:    cfg.OddsFeedURL,
		WeatherURL: cfg.WeatherFeedURL,
		DefenseURL: cfg.DefenseFeedURL,
		Interval:   refreshInterval,
	}, log)
	for source, url := range map[enrichment.Source]string{
		enrichment.SourceOdds:    cfg.OddsFeedURL,
		enrichment.SourceWeather: cfg.WeatherFeedURL,
		enrichment.SourceDefense: cfg.DefenseFeedURL,
	} {
		if url != "" {
			logger.WithFeed(string(source)).WithField("url", url).Info("Enrichment feed configured")
		}
	}

	// Background jobs
	var scheduler *cron.Cron
	if cfg.EnableBackgroundJobs {
		if err := refresher.Start(ctx); err != nil {
			serverLog.Errorf("Failed to start enrichment refresher: %v", err)
		}
		defer refresher.Stop()

		scheduler = cron.New()
		jobLog := logger.WithComponent("scheduler")
		if _, err := scheduler.AddFunc("@every 10m", func() {
			sessions.Prune(cfg.SessionIdleTimeout)
			metrics.SetActiveSessions(sessions.Count())
		}); err != nil {
			jobLog.Errorf("Failed to schedule session cleanup: %v", err)
		} else {
			scheduler.Start()
			jobLog.WithField("idle_timeout", cfg.SessionIdleTimeout).Info("Session cleanup scheduled")
		}
	}

	router := api.NewRouter(api.Dependencies{
		Config:      cfg,
		DB:          db,
		Cache:       cacheService,
		Sessions:    sessions,
		Preferences: preferences,
		Refresher:   refresher,
		Hub:         webSocketHub,
		Metrics:     metrics,
		Logger:      log,
	})

	if cfg.IsDevelopment() {
		for _, route := range router.Routes() {
			serverLog.Debugf("%s %s", route.Method, route.Path)
		}
	}

	// Setup server
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.Port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in goroutine
	go func() {
		serverLog.Infof("Starting server on port %s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverLog.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	serverLog.Info("Shutting down server...")

	if scheduler != nil {
		<-scheduler.Stop().Done()
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		serverLog.Errorf("Server forced to shutdown: %v", err)
	}

	serverLog.Info("Server exited")
}
