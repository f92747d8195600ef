package handlers

import (
	"net/http"
	"time"

	"woosync/internal/logger"

	"github.com/gin-gonic/gin"
)

type erpAuthenticator interface {
	Authenticate() bool
}

type HealthHandler struct {
	erp    erpAuthenticator
	env    string
	logger *logger.Logger
}

func NewHealthHandler(erp erpAuthenticator, env string, log *logger.Logger) *HealthHandler {
	return &HealthHandler{
		erp:    erp,
		env:    env,
		logger: log,
	}
}

func (h *HealthHandler) Check(c *gin.Context) {
	odooOK := h.erp.Authenticate()

	status := "healthy"
	code := http.StatusOK
	if !odooOK {
		status = "degraded"
		code = http.StatusServiceUnavailable
	}

	c.JSON(code, gin.H{
		"status":          status,
		"odoo_connection": odooOK,
		"environment":     h.env,
		"timestamp":       time.Now().Format(time.RFC3339),
	})
}
