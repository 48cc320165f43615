// Package api exposes the customer report over HTTP: the report query
// endpoint, single-customer lookup, health, and metrics.
package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/shoplens/shoplens/pkg/config"
	"github.com/shoplens/shoplens/pkg/observability/logger"
	"github.com/shoplens/shoplens/pkg/reports"
	"github.com/shoplens/shoplens/pkg/store"
)

// CustomerReports is the read surface the API serves.
type CustomerReports interface {
	GetCustomers(ctx context.Context, args reports.QueryArgs) (reports.Result, error)
	GetCustomer(ctx context.Context, customerID int64) (*reports.CustomerRecord, error)
}

// Server is the public HTTP server.
type Server struct {
	cfg     config.HTTPConfig
	log     logger.Logger
	reports CustomerReports
	checks  []store.Adapter
	http    *http.Server
}

// NewServer builds the server and its routes. checks are the storage
// adapters probed by the health endpoint.
func NewServer(cfg config.HTTPConfig, log logger.Logger, reportStore CustomerReports, checks ...store.Adapter) *Server {
	s := &Server{
		cfg:     cfg,
		log:     log,
		reports: reportStore,
		checks:  checks,
	}

	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()
	engine.Use(s.requestLogger(), gin.CustomRecovery(s.recovery))

	engine.GET("/healthz", s.handleHealth)
	engine.GET("/metrics", gin.WrapH(promhttp.Handler()))

	v1 := engine.Group("/v1")
	v1.GET("/reports/customers", s.handleCustomersReport)
	v1.GET("/customers/:id", s.handleCustomer)

	s.http = &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      engine,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  cfg.IdleTimeout,
	}
	return s
}

// Run serves until ctx is canceled, then drains connections within the
// configured shutdown timeout.
func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		s.log.Info("HTTP server listening", "addr", s.http.Addr)
		if err := s.http.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("http server failed: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.cfg.ShutdownTimeout)
	defer cancel()
	s.log.Info("shutting down HTTP server")
	return s.http.Shutdown(shutdownCtx)
}

func (s *Server) handleCustomersReport(c *gin.Context) {
	args, err := parseQueryArgs(c)
	if err != nil {
		status, resp := mapError(err)
		c.JSON(status, resp)
		return
	}

	result, err := s.reports.GetCustomers(c.Request.Context(), args)
	if err != nil {
		status, resp := mapError(err)
		if status == http.StatusInternalServerError {
			s.log.Error("customers report query failed", "error", err)
		}
		c.JSON(status, resp)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (s *Server) handleCustomer(c *gin.Context) {
	customerID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		status, resp := mapError(invalidParam("id", c.Param("id")))
		c.JSON(status, resp)
		return
	}

	record, err := s.reports.GetCustomer(c.Request.Context(), customerID)
	if err != nil {
		status, resp := mapError(err)
		if status == http.StatusInternalServerError {
			s.log.Error("customer lookup failed", "customer_id", customerID, "error", err)
		}
		c.JSON(status, resp)
		return
	}
	c.JSON(http.StatusOK, record)
}

func (s *Server) handleHealth(c *gin.Context) {
	for _, adapter := range s.checks {
		if err := adapter.HealthCheck(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unhealthy"})
			return
		}
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (s *Server) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		started := time.Now()
		c.Next()
		s.log.Info("http request",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"duration_ms", time.Since(started).Milliseconds(),
		)
	}
}

func (s *Server) recovery(c *gin.Context, recovered any) {
	s.log.Error("panic recovered in handler",
		"path", c.Request.URL.Path,
		"panic", fmt.Sprintf("%v", recovered),
	)
	c.AbortWithStatusJSON(http.StatusInternalServerError, ErrorResponse{
		Error: "internal_server_error",
		Code:  "panic",
	})
}
