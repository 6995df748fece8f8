package main

import (
	"fmt"
	"os"

	"github.com/sirupsen/logrus"

	"github.com/stitts-dev/dfs-lineup-builder/internal/models"
	"github.com/stitts-dev/dfs-lineup-builder/internal/services"
	"github.com/stitts-dev/dfs-lineup-builder/pkg/config"
	"github.com/stitts-dev/dfs-lineup-builder/pkg/database"
	"github.com/stitts-dev/dfs-lineup-builder/pkg/logger"
)

func main() {
	if len(os.Args) < 2 {
		logrus.Fatal("Usage: migrate [up|down]")
	}

	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		logrus.Fatalf("Failed to load config: %v", err)
	}
	logger.InitLogger(cfg.LogLevel, cfg.IsDevelopment())
	log := logger.WithComponent("migrate")

	// Connect to database
	db, err := database.NewConnection(cfg.DatabaseDriver, cfg.DatabaseURL, cfg.IsDevelopment())
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	command := os.Args[1]

	switch command {
	case "up":
		if err := services.AutoMigrate(db); err != nil {
			log.Fatalf("Failed to run migrations: %v", err)
		}
		log.Info("Migrations completed successfully")

	case "down":
		if err := dropTables(db); err != nil {
			log.Fatalf("Failed to drop tables: %v", err)
		}
		log.Info("Tables dropped successfully")

	default:
		log.Fatalf("Unknown command: %s", command)
	}
}

func dropTables(db *database.DB) error {
	tables := []interface{}{
		&models.SavedLineup{},
		&models.ExcludedPlayer{},
	}
	for _, table := range tables {
		if err := db.Migrator().DropTable(table); err != nil {
			return fmt.Errorf("failed to drop %T: %w", table, err)
		}
	}
	return nil
}
