// Package http serves the read-only browse API over built universal models.
package http

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/mmundy42/cobrababel/internal/config"
	"github.com/mmundy42/cobrababel/internal/domain/model"
	"github.com/mmundy42/cobrababel/internal/infrastructure/database/postgres/repositories"
	"github.com/mmundy42/cobrababel/internal/infrastructure/monitoring/logging"
	"github.com/mmundy42/cobrababel/internal/infrastructure/monitoring/metrics"
)

// ModelStore is the read side of the model repository.
type ModelStore interface {
	Get(ctx context.Context, id string) (*model.UniversalModel, error)
	List(ctx context.Context) ([]repositories.ModelSummary, error)
}

// Server wraps the gin engine and its http.Server.
type Server struct {
	cfg     config.ServerConfig
	engine  *gin.Engine
	srv     *http.Server
	logger  logging.Logger
	metrics *metrics.Metrics
}

// NewServer builds the browse API server.  A nil metrics disables the
// /metrics endpoint and request instrumentation.
func NewServer(cfg config.ServerConfig, store ModelStore, m *metrics.Metrics, logger logging.Logger) *Server {
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	gin.SetMode(cfg.Mode)

	engine := gin.New()
	engine.Use(gin.Recovery())

	s := &Server{
		cfg:     cfg,
		engine:  engine,
		logger:  logger.Named("http"),
		metrics: m,
		srv: &http.Server{
			Addr:         fmt.Sprintf(":%d", cfg.Port),
			Handler:      engine,
			ReadTimeout:  cfg.ReadTimeout,
			WriteTimeout: cfg.WriteTimeout,
		},
	}
	engine.Use(s.observe())

	engine.GET("/healthz", s.handleHealth)
	if m != nil {
		engine.GET("/metrics", gin.WrapH(m.Handler()))
	}

	h := newModelHandler(store)
	api := engine.Group("/api/v1")
	{
		api.GET("/models", h.list)
		api.GET("/models/:id", h.get)
		api.GET("/models/:id/export", h.export)
		api.GET("/models/:id/metabolites/:entity", h.metabolite)
		api.GET("/models/:id/reactions/:entity", h.reaction)
	}
	return s
}

// observe logs and instruments every request.
func (s *Server) observe() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		elapsed := time.Since(start)

		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		if s.metrics != nil {
			s.metrics.ObserveHTTPRequest(c.Request.Method, path, c.Writer.Status(), elapsed)
		}
		s.logger.Debug("request served",
			logging.String("method", c.Request.Method),
			logging.String("path", c.Request.URL.Path),
			logging.Int("status", c.Writer.Status()),
			logging.Duration("elapsed", elapsed),
		)
	}
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// Handler exposes the engine for tests.
func (s *Server) Handler() http.Handler { return s.engine }

// Start blocks serving requests until Stop or a listener failure.
func (s *Server) Start() error {
	s.logger.Info("browse API listening", logging.Int("port", s.cfg.Port))
	if err := s.srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Stop drains in-flight requests and shuts the server down.
func (s *Server) Stop(ctx context.Context) error {
	shutdownCtx, cancel := context.WithTimeout(ctx, s.cfg.ShutdownTimeout)
	defer cancel()
	return s.srv.Shutdown(shutdownCtx)
}
