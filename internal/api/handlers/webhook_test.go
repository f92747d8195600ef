package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"woosync/internal/logger"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakePublisher struct {
	keys   []string
	types  []string
	bodies []json.RawMessage
	err    error
}

func (f *fakePublisher) Publish(ctx context.Context, key, eventType string, payload json.RawMessage) error {
	if f.err != nil {
		return f.err
	}
	f.keys = append(f.keys, key)
	f.types = append(f.types, eventType)
	f.bodies = append(f.bodies, payload)
	return nil
}

func newWebhookRouter(producer publisher) *gin.Engine {
	gin.SetMode(gin.TestMode)
	handler := NewWebhookHandler(producer, logger.New("error"))

	router := gin.New()
	router.POST("/webhook/order", handler.Order)
	router.POST("/webhook/customer", handler.Customer)
	return router
}

func postJSON(router *gin.Engine, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestOrderWebhook(t *testing.T) {
	t.Run("valid order is queued with a per-order key", func(t *testing.T) {
		producer := &fakePublisher{}
		router := newWebhookRouter(producer)

		body := `{"id": 100, "number": "100", "status": "completed"}`
		w := postJSON(router, "/webhook/order", body)

		assert.Equal(t, http.StatusOK, w.Code)
		require.Len(t, producer.keys, 1)
		assert.Equal(t, "order:100", producer.keys[0])
		assert.Equal(t, "order.sync", producer.types[0])
		assert.JSONEq(t, body, string(producer.bodies[0]))
	})

	t.Run("empty body is rejected", func(t *testing.T) {
		producer := &fakePublisher{}
		router := newWebhookRouter(producer)

		w := postJSON(router, "/webhook/order", "")
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Empty(t, producer.keys)
	})

	t.Run("malformed json is rejected", func(t *testing.T) {
		producer := &fakePublisher{}
		router := newWebhookRouter(producer)

		w := postJSON(router, "/webhook/order", "{not json")
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("order without an id is rejected", func(t *testing.T) {
		producer := &fakePublisher{}
		router := newWebhookRouter(producer)

		w := postJSON(router, "/webhook/order", `{"number": "100"}`)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("queue failure surfaces as a server error", func(t *testing.T) {
		producer := &fakePublisher{err: fmt.Errorf("broker down")}
		router := newWebhookRouter(producer)

		w := postJSON(router, "/webhook/order", `{"id": 100}`)
		assert.Equal(t, http.StatusInternalServerError, w.Code)
	})
}

func TestCustomerWebhook(t *testing.T) {
	producer := &fakePublisher{}
	router := newWebhookRouter(producer)

	body := `{"id": 3, "email": "ana@example.com"}`
	w := postJSON(router, "/webhook/customer", body)

	assert.Equal(t, http.StatusOK, w.Code)
	require.Len(t, producer.keys, 1)
	assert.Equal(t, "customer:3", producer.keys[0])
	assert.Equal(t, "customer.sync", producer.types[0])

	w = postJSON(router, "/webhook/customer", `{"email": "ana@example.com"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

type fakeAuthenticator struct {
	ok bool
}

func (f *fakeAuthenticator) Authenticate() bool { return f.ok }

func TestHealthCheck(t *testing.T) {
	gin.SetMode(gin.TestMode)

	t.Run("healthy when the erp answers", func(t *testing.T) {
		handler := NewHealthHandler(&fakeAuthenticator{ok: true}, "test", logger.New("error"))
		router := gin.New()
		router.GET("/health", handler.Check)

		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"status":"healthy"`)
	})

	t.Run("degraded when authentication fails", func(t *testing.T) {
		handler := NewHealthHandler(&fakeAuthenticator{ok: false}, "test", logger.New("error"))
		router := gin.New()
		router.GET("/health", handler.Check)

		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))

		assert.Equal(t, http.StatusServiceUnavailable, w.Code)
		assert.Contains(t, w.Body.String(), `"status":"degraded"`)
	})
}
