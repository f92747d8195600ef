package handlers

import (
	"net/http"

	"woosync/internal/logger"
	"woosync/internal/sync"

	"github.com/gin-gonic/gin"
)

// SyncHandler exposes the manual sync trigger and the status query.
type SyncHandler struct {
	engine *sync.Engine
	runs   *sync.RunStore
	logger *logger.Logger
}

func NewSyncHandler(engine *sync.Engine, runs *sync.RunStore, log *logger.Logger) *SyncHandler {
	return &SyncHandler{
		engine: engine,
		runs:   runs,
		logger: log,
	}
}

type manualSyncRequest struct {
	Type  string `json:"type"`
	Hours int    `json:"hours"`
}

// Manual runs a synchronous pass over recent bookings and/or customers.
func (h *SyncHandler) Manual(c *gin.Context) {
	req := manualSyncRequest{Type: "all", Hours: 24}
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
			return
		}
	}
	if req.Type == "" {
		req.Type = "all"
	}
	if req.Hours <= 0 {
		req.Hours = 24
	}

	switch req.Type {
	case "all", "orders", "customers":
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "type must be one of all, orders, customers"})
		return
	}

	synced, errCount := h.engine.ManualSync(req.Type, req.Hours)

	c.JSON(http.StatusOK, gin.H{
		"status":         "success",
		"type":           req.Type,
		"records_synced": synced,
		"errors":         errCount,
	})
}

// Status reports the 24-hour sync statistics and the most recent runs.
func (h *SyncHandler) Status(c *gin.Context) {
	stats := h.engine.Statistics()

	c.JSON(http.StatusOK, gin.H{
		"status":      "active",
		"statistics":  stats,
		"recent_runs": h.runs.LatestRuns(10),
	})
}
