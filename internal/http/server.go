// Package http serves the task board over HTTP.
package http

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/fyrsmithlabs/taskwave/internal/logging"
	"github.com/fyrsmithlabs/taskwave/internal/telemetry"
	"github.com/fyrsmithlabs/taskwave/internal/tracker"
	"github.com/fyrsmithlabs/taskwave/internal/ui"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

const httpInstrumentationName = "github.com/fyrsmithlabs/taskwave/internal/http"

// Server provides the HTTP endpoints for taskwave.
type Server struct {
	echo           *echo.Echo
	tracker        *tracker.Service
	logger         *logging.Logger
	config         *Config
	metrics        *HTTPMetrics
	tracer         trace.Tracer
	limiter        *clientLimiters
	metricsHandler http.Handler
}

// Config holds HTTP server configuration.
type Config struct {
	Host string
	Port int
	// RateLimitRPS caps mutating requests per client per second. 0 disables.
	RateLimitRPS   float64
	RateLimitBurst int
	DisableUI      bool
}

// Option configures a Server.
type Option func(*Server)

// WithTelemetry takes the tracer and meter from tel.
func WithTelemetry(tel *telemetry.Telemetry) Option {
	return func(s *Server) {
		s.tracer = tel.Tracer(httpInstrumentationName)
		s.metrics = NewHTTPMetrics(tel.Meter(httpInstrumentationName), s.logger)
	}
}

// WithMetricsHandler replaces the Prometheus handler served at /metrics.
func WithMetricsHandler(h http.Handler) Option {
	return func(s *Server) {
		s.metricsHandler = h
	}
}

// NewServer creates a new HTTP server.
func NewServer(svc *tracker.Service, logger *logging.Logger, cfg *Config, opts ...Option) (*Server, error) {
	if svc == nil {
		return nil, fmt.Errorf("tracker service cannot be nil")
	}
	if logger == nil {
		return nil, fmt.Errorf("logger is required for request tracking and debugging")
	}
	if cfg == nil {
		cfg = &Config{
			Host: "localhost",
			Port: 8080,
		}
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	// Client IPs come from the socket; forwarding headers are client-controlled.
	e.IPExtractor = echo.ExtractIPDirect()

	s := &Server{
		echo:           e,
		tracker:        svc,
		logger:         logger.Named("http"),
		config:         cfg,
		tracer:         otel.Tracer(httpInstrumentationName),
		metricsHandler: promhttp.Handler(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.metrics == nil {
		s.metrics = NewHTTPMetrics(otel.Meter(httpInstrumentationName), s.logger)
	}
	if cfg.RateLimitRPS > 0 {
		s.limiter = newClientLimiters(cfg.RateLimitRPS, cfg.RateLimitBurst)
	}

	e.Use(middleware.Recover())
	e.Use(middleware.RequestIDWithConfig(middleware.RequestIDConfig{
		Generator: uuid.NewString,
		RequestIDHandler: func(c echo.Context, id string) {
			req := c.Request()
			c.SetRequest(req.WithContext(logging.WithRequestID(req.Context(), id)))
		},
	}))
	e.Use(s.tracingMiddleware())
	e.Use(s.metrics.MetricsMiddleware())
	e.Use(s.loggingMiddleware())

	s.registerRoutes()

	return s, nil
}

// registerRoutes sets up the HTTP endpoints.
func (s *Server) registerRoutes() {
	s.echo.GET("/health", s.handleHealth)
	s.echo.GET("/status", s.handleStatus)
	s.echo.GET("/metrics", echo.WrapHandler(s.metricsHandler))

	mutating := s.rateLimitMiddleware()
	s.echo.GET("/tasks", s.handleListTasks)
	s.echo.POST("/tasks", s.handleCreateTask, mutating)
	s.echo.PUT("/tasks", s.handleUpdateTask, mutating)
	s.echo.DELETE("/tasks", s.handleDeleteTask, mutating)
	s.echo.Match(otherMethods, "/tasks", s.handleMethodNotAllowed)
	s.echo.POST("/tasks/complete", s.handleCompleteTask, mutating)
	s.echo.GET("/tasks/:id", s.handleGetTask)

	if !s.config.DisableUI {
		board := echo.WrapHandler(ui.Handler())
		s.echo.GET("/", board)
		s.echo.GET("/*", board)
	}
}

func (s *Server) loggingMiddleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)
			if err != nil {
				c.Error(err)
			}

			s.logger.Info(c.Request().Context(), "http request",
				zap.String("method", c.Request().Method),
				zap.String("uri", c.Request().RequestURI),
				zap.Int("status", c.Response().Status),
				zap.Duration("duration", time.Since(start)),
				zap.String("remote_ip", c.RealIP()),
			)
			return nil
		}
	}
}

// Handler exposes the router, mainly for tests and embedding.
func (s *Server) Handler() http.Handler {
	return s.echo
}

// Start starts the HTTP server on the configured address. It returns
// http.ErrServerClosed after Shutdown.
func (s *Server) Start() error {
	addr := net.JoinHostPort(s.config.Host, fmt.Sprint(s.config.Port))
	s.logger.Info(context.Background(), "starting http server", zap.String("addr", addr))
	return s.echo.Start(addr)
}

// Serve serves on an existing listener.
func (s *Server) Serve(l net.Listener) error {
	s.echo.Listener = l
	s.logger.Info(context.Background(), "starting http server", zap.String("addr", l.Addr().String()))
	return s.echo.Start("")
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info(ctx, "shutting down http server")
	if err := s.echo.Shutdown(ctx); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
