package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"woosync/internal/api/handlers"
	"woosync/internal/api/middleware"
	"woosync/internal/config"
	"woosync/internal/logger"
	"woosync/internal/odoo"
	"woosync/internal/queue"
	"woosync/internal/sync"

	"github.com/gin-gonic/gin"
)

type Server struct {
	config *config.Config
	logger *logger.Logger
	router *gin.Engine
	server *http.Server
}

func New(cfg *config.Config, log *logger.Logger, engine *sync.Engine, runs *sync.RunStore, erp *odoo.Client, producer *queue.Producer) *Server {
	// Set Gin mode
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	// Middleware
	router.Use(middleware.Logger(log))
	router.Use(middleware.Recovery(log))
	router.Use(middleware.CORS())

	// Initialize handlers
	healthHandler := handlers.NewHealthHandler(erp, cfg.Env, log)
	webhookHandler := handlers.NewWebhookHandler(producer, log)
	syncHandler := handlers.NewSyncHandler(engine, runs, log)

	// Routes
	router.GET("/health", healthHandler.Check)

	webhooks := router.Group("/webhook")
	{
		webhooks.POST("/order", webhookHandler.Order)
		webhooks.POST("/customer", webhookHandler.Customer)
	}

	syncRoutes := router.Group("/sync")
	{
		syncRoutes.POST("/manual", syncHandler.Manual)
		syncRoutes.GET("/status", syncHandler.Status)
	}

	return &Server{
		config: cfg,
		logger: log,
		router: router,
	}
}

func (s *Server) Start() error {
	addr := fmt.Sprintf("%s:%s", s.config.APIHost, s.config.APIPort)

	s.server = &http.Server{
		Addr:         addr,
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	s.logger.Info("Starting server on " + addr)
	return s.server.ListenAndServe()
}

func (s *Server) Stop(ctx context.Context) error {
	s.logger.Info("Shutting down server...")
	return s.server.Shutdown(ctx)
}

// Router exposes the gin router for handler tests.
func (s *Server) Router() *gin.Engine {
	return s.router
}
