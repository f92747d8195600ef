package sync

import (
	"time"

	"woosync/internal/logger"
	"woosync/internal/models"

	"gorm.io/gorm"
)

// RunStore records sync runs and their per-item errors in the local
// bookkeeping database. A nil store is valid and records nothing, so the
// engine works without a database attached.
type RunStore struct {
	db     *gorm.DB
	logger *logger.Logger
}

func NewRunStore(db *gorm.DB, log *logger.Logger) *RunStore {
	return &RunStore{db: db, logger: log}
}

func (s *RunStore) Start(trigger models.SyncTrigger, resourceID string) *models.SyncRun {
	if s == nil || s.db == nil {
		return nil
	}

	run := &models.SyncRun{
		Trigger:    trigger,
		ResourceID: resourceID,
		Status:     models.SyncRunStatusRunning,
		StartedAt:  time.Now(),
	}
	if err := s.db.Create(run).Error; err != nil {
		s.logger.Error("Failed to record sync run: %v", err)
		return nil
	}
	return run
}

func (s *RunStore) Finish(run *models.SyncRun, synced, errCount int) {
	if s == nil || s.db == nil || run == nil {
		return
	}

	status := models.SyncRunStatusSuccess
	if errCount > 0 && synced == 0 {
		status = models.SyncRunStatusFailed
	} else if errCount > 0 {
		status = models.SyncRunStatusPartial
	}

	now := time.Now()
	err := s.db.Model(run).Updates(map[string]interface{}{
		"status":         status,
		"records_synced": synced,
		"error_count":    errCount,
		"finished_at":    now,
		"duration_ms":    now.Sub(run.StartedAt).Milliseconds(),
	}).Error
	if err != nil {
		s.logger.Error("Failed to finish sync run %s: %v", run.ID, err)
	}
}

func (s *RunStore) RecordError(run *models.SyncRun, entityType, externalID, message string) {
	if s == nil || s.db == nil || run == nil {
		return
	}

	record := &models.SyncError{
		SyncRunID:  run.ID,
		EntityType: entityType,
		ExternalID: externalID,
		Message:    message,
	}
	if err := s.db.Create(record).Error; err != nil {
		s.logger.Error("Failed to record sync error: %v", err)
	}
}

// LatestRuns returns the most recent runs, newest first.
func (s *RunStore) LatestRuns(limit int) []models.SyncRun {
	if s == nil || s.db == nil {
		return nil
	}

	var runs []models.SyncRun
	if err := s.db.Order("started_at DESC").Limit(limit).Find(&runs).Error; err != nil {
		s.logger.Error("Failed to load sync runs: %v", err)
		return nil
	}
	return runs
}

// Cleanup deletes runs and their errors older than the retention window.
func (s *RunStore) Cleanup(retention time.Duration) int64 {
	if s == nil || s.db == nil {
		return 0
	}

	cutoff := time.Now().Add(-retention)

	var old []models.SyncRun
	if err := s.db.Where("started_at < ?", cutoff).Find(&old).Error; err != nil {
		s.logger.Error("Failed to load old sync runs: %v", err)
		return 0
	}
	if len(old) == 0 {
		return 0
	}

	ids := make([]string, 0, len(old))
	for _, run := range old {
		ids = append(ids, run.ID)
	}

	s.db.Where("sync_run_id IN ?", ids).Delete(&models.SyncError{})
	result := s.db.Where("id IN ?", ids).Delete(&models.SyncRun{})
	if result.Error != nil {
		s.logger.Error("Failed to delete old sync runs: %v", result.Error)
		return 0
	}
	return result.RowsAffected
}
