package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// SyncRun records one pass of the sync engine, whatever triggered it.
type SyncRun struct {
	ID            string        `json:"id" gorm:"type:uuid;primary_key"`
	Trigger       SyncTrigger   `json:"trigger" gorm:"not null"`
	ResourceID    string        `json:"resource_id"`
	Status        SyncRunStatus `json:"status" gorm:"default:RUNNING"`
	RecordsSynced int           `json:"records_synced"`
	ErrorCount    int           `json:"error_count"`
	StartedAt     time.Time     `json:"started_at"`
	FinishedAt    *time.Time    `json:"finished_at"`
	DurationMs    int64         `json:"duration_ms"`
	CreatedAt     time.Time     `json:"created_at"`
	UpdatedAt     time.Time     `json:"updated_at"`
}

type SyncTrigger string

const (
	SyncTriggerWebhookOrder    SyncTrigger = "WEBHOOK_ORDER"
	SyncTriggerWebhookCustomer SyncTrigger = "WEBHOOK_CUSTOMER"
	SyncTriggerScheduled       SyncTrigger = "SCHEDULED"
	SyncTriggerManual          SyncTrigger = "MANUAL"
	SyncTriggerReverse         SyncTrigger = "REVERSE"
)

type SyncRunStatus string

const (
	SyncRunStatusRunning SyncRunStatus = "RUNNING"
	SyncRunStatusSuccess SyncRunStatus = "SUCCESS"
	SyncRunStatusPartial SyncRunStatus = "PARTIAL"
	SyncRunStatusFailed  SyncRunStatus = "FAILED"
)

func (r *SyncRun) BeforeCreate(tx *gorm.DB) error {
	if r.ID == "" {
		r.ID = uuid.New().String()
	}
	return nil
}

// SyncError records one item that failed inside a run. Items fail
// independently; one bad booking never aborts the batch.
type SyncError struct {
	ID         string    `json:"id" gorm:"type:uuid;primary_key"`
	SyncRunID  string    `json:"sync_run_id" gorm:"not null;index"`
	EntityType string    `json:"entity_type" gorm:"not null"`
	ExternalID string    `json:"external_id"`
	Message    string    `json:"message"`
	CreatedAt  time.Time `json:"created_at"`
}

func (e *SyncError) BeforeCreate(tx *gorm.DB) error {
	if e.ID == "" {
		e.ID = uuid.New().String()
	}
	return nil
}
