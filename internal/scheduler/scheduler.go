package scheduler

import (
	"context"
	"time"

	"woosync/internal/config"
	"woosync/internal/logger"
	"woosync/internal/sync"
)

// Scheduler drives the periodic sync passes on a single loop. Passes run
// sequentially on one goroutine, so a slow pass delays the next tick
// instead of overlapping it.
type Scheduler struct {
	engine        *sync.Engine
	logger        *logger.Logger
	interval      time.Duration
	retentionDays int
}

func New(cfg *config.Config, log *logger.Logger, engine *sync.Engine) *Scheduler {
	return &Scheduler{
		engine:        engine,
		logger:        log,
		interval:      time.Duration(cfg.SyncIntervalSeconds) * time.Second,
		retentionDays: cfg.RunRetentionDays,
	}
}

func (s *Scheduler) Run(ctx context.Context) {
	s.logger.Info("Scheduler started, sync interval %s", s.interval)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	daily := time.NewTicker(24 * time.Hour)
	defer daily.Stop()

	for {
		select {
		case <-ctx.Done():
			s.logger.Info("Scheduler stopped")
			return
		case <-ticker.C:
			s.engine.ScheduledSync()
		case <-daily.C:
			s.engine.SyncOdooToWoo()
			s.engine.CleanupRuns(s.retentionDays)
		}
	}
}
