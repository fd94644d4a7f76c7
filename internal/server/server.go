package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/go-logr/logr"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/soulscript/notionkit/internal/handlestore"
	"github.com/soulscript/notionkit/internal/provisioning"
)

// Runner executes a provisioning run. *provisioning.Orchestrator implements it.
type Runner interface {
	Run(ctx context.Context, parentID string, tracker *provisioning.Tracker, opts provisioning.Options) (*provisioning.Result, error)
}

var _ Runner = (*provisioning.Orchestrator)(nil)

// Server is the setup trigger HTTP server.
type Server struct {
	echo        *echo.Echo
	runner      Runner
	store       handlestore.Store
	runs        *registry
	log         logr.Logger
	concurrency int
}

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the request and run logger.
func WithLogger(log logr.Logger) Option {
	return func(s *Server) { s.log = log }
}

// WithConcurrency sets the per-stage concurrency passed to every run.
func WithConcurrency(n int) Option {
	return func(s *Server) { s.concurrency = n }
}

// New creates a server that runs provisioning through runner and persists
// workspace handles in store.
func New(runner Runner, store handlestore.Store, opts ...Option) *Server {
	s := &Server{
		runner: runner,
		store:  store,
		runs:   newRegistry(),
		log:    logr.Discard(),
	}
	for _, opt := range opts {
		opt(s)
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.HTTPErrorHandler = s.errorHandler
	e.Use(middleware.Recover())
	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogMethod:  true,
		LogURI:     true,
		LogStatus:  true,
		LogLatency: true,
		LogValuesFunc: func(_ echo.Context, v middleware.RequestLoggerValues) error {
			s.log.V(1).Info("request", "method", v.Method, "uri", v.URI, "status", v.Status, "latency", v.Latency.String())
			return nil
		},
	}))

	e.POST("/api/notion-setup", s.setup)
	e.GET("/api/notion-setup/runs/:id", s.getRun)
	e.GET("/healthz", healthz)
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	s.echo = e
	return s
}

// Handler returns the HTTP handler serving all routes.
func (s *Server) Handler() http.Handler {
	return s.echo
}

// Start serves on addr until ctx is cancelled, then shuts down gracefully.
func (s *Server) Start(ctx context.Context, addr string) error {
	errCh := make(chan error, 1)
	go func() {
		s.log.Info("setup server listening", "addr", addr)
		errCh <- s.echo.Start(addr)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := s.echo.Shutdown(shutdownCtx); err != nil {
		return err
	}
	return nil
}

// errorHandler renders framework errors (404, 405, bad bodies) in the same
// envelope as setup responses.
func (s *Server) errorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}
	status := http.StatusInternalServerError
	message := http.StatusText(status)
	var he *echo.HTTPError
	if errors.As(err, &he) {
		status = he.Code
		if m, ok := he.Message.(string); ok {
			message = m
		} else {
			message = http.StatusText(status)
		}
	} else {
		s.log.Error(err, "unhandled request error")
	}
	if jsonErr := c.JSON(status, setupResponse{Success: false, Error: message}); jsonErr != nil {
		s.log.Error(jsonErr, "failed to write error response")
	}
}

func healthz(c echo.Context) error {
	return c.NoContent(http.StatusOK)
}
