package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"woosync/internal/config"
	"woosync/internal/database"
	"woosync/internal/lock"
	"woosync/internal/logger"
	"woosync/internal/odoo"
	"woosync/internal/scheduler"
	"woosync/internal/sync"
	"woosync/internal/woo"
	"woosync/internal/worker"
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

	runs := sync.NewRunStore(db.DB, logger)
	engine := sync.NewEngine(erp, store, runs, logger)

	// The per-order lock only matters when several worker replicas share
	// the consumer group.
	var locker *lock.Locker
	if cfg.RedisURL != "" {
		locker, err = lock.New(cfg.RedisURL, logger)
		if err != nil {
			logger.Fatal("Failed to connect to redis: %v", err)
		}
	}

	ctx, cancel := context.WithCancel(context.Background())

	// Start worker
	w := worker.New(cfg, logger, engine, locker)
	logger.Info("Starting worker...")
	go w.Start(ctx)

	// Start scheduler
	go scheduler.New(cfg, logger, engine).Run(ctx)

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down worker...")
	cancel()
	w.Stop()
	db.Close()
}
