package handlers

import (
	"context"
	"encoding/json"
	"io"
	"net/http"

	"woosync/internal/logger"
	"woosync/internal/queue"
	"woosync/internal/woo"

	"github.com/gin-gonic/gin"
)

type publisher interface {
	Publish(ctx context.Context, key, eventType string, payload json.RawMessage) error
}

// WebhookHandler receives storefront webhooks and queues them for the
// worker. Payloads arrive already signature-verified upstream; only the
// JSON shape is validated here.
type WebhookHandler struct {
	producer publisher
	logger   *logger.Logger
}

func NewWebhookHandler(producer publisher, log *logger.Logger) *WebhookHandler {
	return &WebhookHandler{
		producer: producer,
		logger:   log,
	}
}

func (h *WebhookHandler) Order(c *gin.Context) {
	body, err := io.ReadAll(c.Request.Body)
	if err != nil || len(body) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No data provided"})
		return
	}

	var order woo.Order
	if err := json.Unmarshal(body, &order); err != nil || order.ID == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid order payload"})
		return
	}

	h.logger.Info("Received order webhook #%s (ID: %d)", order.Number, order.ID)

	err = h.producer.Publish(c.Request.Context(), queue.OrderKey(order.ID), queue.EventTypeOrder, json.RawMessage(body))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to queue order"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":  "success",
		"message": "Order received and queued for processing",
	})
}

func (h *WebhookHandler) Customer(c *gin.Context) {
	body, err := io.ReadAll(c.Request.Body)
	if err != nil || len(body) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No data provided"})
		return
	}

	var customer woo.Customer
	if err := json.Unmarshal(body, &customer); err != nil || customer.ID == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid customer payload"})
		return
	}

	h.logger.Info("Received customer webhook: %s", customer.Email)

	err = h.producer.Publish(c.Request.Context(), queue.CustomerKey(customer.ID), queue.EventTypeCustomer, json.RawMessage(body))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to queue customer"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":  "success",
		"message": "Customer received and queued for processing",
	})
}
