package main

import (
	"log"

	"woosync/internal/api"
	"woosync/internal/config"
	"woosync/internal/database"
	"woosync/internal/logger"
	"woosync/internal/odoo"
	"woosync/internal/queue"
	"woosync/internal/sync"
	"woosync/internal/woo"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load configuration: ", err)
	}

	// Initialize logger
	logger := logger.New(cfg.LogLevel)

	// Initialize database
	db, err := database.New(cfg.DatabaseURL)
	if err != nil {
		logger.Fatal("Failed to connect to database: %v", err)
	}

	// Initialize clients
	erp, err := odoo.NewClient(cfg, logger)
	if err != nil {
		logger.Fatal("Failed to create Odoo client: %v", err)
	}
	store := woo.NewClient(cfg, logger)

	if erp.Authenticate() {
		logger.Info("Odoo connection OK")
	} else {
		logger.Error("Odoo connection failed, sync operations will retry authentication lazily")
	}

	runs := sync.NewRunStore(db.DB, logger)
	engine := sync.NewEngine(erp, store, runs, logger)
	producer := queue.NewProducer(cfg.KafkaBrokers, cfg.KafkaTopic, logger)
	defer producer.Close()

	// Initialize API server
	server := api.New(cfg, logger, engine, runs, erp, producer)

	// Start server
	logger.Info("Starting API server on port " + cfg.APIPort)
	if err := server.Start(); err != nil {
		logger.Fatal("Failed to start server: %v", err)
	}
}
