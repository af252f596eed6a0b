// Package ui serves the Risk Command Center dashboard over HTTP.
package ui

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/sessions"
	"golang.org/x/sync/errgroup"

	"github.com/leapstack-labs/riskcc/internal/ui/metrics"
	"github.com/leapstack-labs/riskcc/internal/ui/notifier"
	"github.com/leapstack-labs/riskcc/internal/ui/router"
	"github.com/leapstack-labs/riskcc/internal/ui/state"
	"github.com/leapstack-labs/riskcc/pkg/core"
)

// Runner is a stream that owns a background loop, such as a file watcher.
// Serve runs it alongside the HTTP server.
type Runner interface {
	Run(ctx context.Context) error
}

// Server is the main UI server.
type Server struct {
	stream       core.RiskStream
	views        *state.Registry
	sessionStore *sessions.CookieStore
	notifier     *notifier.Notifier
	metrics      *metrics.Metrics
	port         int
	dev          bool
	logger       *slog.Logger
}

// Config holds configuration for the UI server.
type Config struct {
	Stream        core.RiskStream
	Posture       core.RiskPosture
	Port          int
	SessionSecret string
	IdleTimeout   time.Duration
	Logger        *slog.Logger
	Metrics       *metrics.Metrics
	Dev           bool
}

// NewServer creates a new UI server instance.
func NewServer(cfg Config) *Server {
	sessionStore := sessions.NewCookieStore([]byte(cfg.SessionSecret))
	sessionStore.MaxAge(86400 * 30) // 30 days
	sessionStore.Options.Path = "/"
	sessionStore.Options.HttpOnly = true
	sessionStore.Options.SameSite = http.SameSiteLaxMode

	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	m := cfg.Metrics
	if m == nil {
		m = metrics.New()
	}

	return &Server{
		stream:       cfg.Stream,
		views:        state.NewRegistry(cfg.Posture, cfg.IdleTimeout),
		sessionStore: sessionStore,
		notifier:     notifier.New(),
		metrics:      m,
		port:         cfg.Port,
		dev:          cfg.Dev,
		logger:       logger,
	}
}

// Handler builds the router with middleware and every route mounted.
func (s *Server) Handler() (http.Handler, error) {
	r := chi.NewMux()
	r.Use(
		middleware.RequestID,
		middleware.RealIP,
		requestLogger(s.logger),
		middleware.Recoverer,
		middleware.Compress(5),
	)

	if err := router.SetupRoutes(r, s.stream, s.views, s.sessionStore, s.notifier, s.metrics, s.logger, s.dev); err != nil {
		return nil, fmt.Errorf("failed to setup routes: %w", err)
	}
	return r, nil
}

// Serve starts the UI server and blocks until the context is cancelled.
func (s *Server) Serve(ctx context.Context) error {
	ln, err := net.Listen("tcp", fmt.Sprintf(":%d", s.port))
	if err != nil {
		return fmt.Errorf("listen: %w", err)
	}
	return s.ServeListener(ctx, ln)
}

// ServeListener serves on an existing listener until the context is
// cancelled. The listener is closed on return.
func (s *Server) ServeListener(ctx context.Context, ln net.Listener) error {
	handler, err := s.Handler()
	if err != nil {
		_ = ln.Close()
		return err
	}

	port := ln.Addr().(*net.TCPAddr).Port
	s.logger.Info("starting UI server", "addr", fmt.Sprintf("http://localhost:%d", port))

	eg, egctx := errgroup.WithContext(ctx)

	srv := &http.Server{
		Handler: handler,
		BaseContext: func(_ net.Listener) context.Context {
			return egctx
		},
		ReadHeaderTimeout: 10 * time.Second,
	}

	cancel := s.bridge()
	defer cancel()

	// Streams with their own loop (file fixtures) run beside the server
	if runner, ok := s.stream.(Runner); ok {
		eg.Go(func() error {
			return runner.Run(egctx)
		})
	}

	eg.Go(func() error {
		return s.views.Run(egctx)
	})

	// Start HTTP server
	eg.Go(func() error {
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})

	// Graceful shutdown
	eg.Go(func() error {
		<-egctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		s.logger.Debug("shutting down UI server...")
		return srv.Shutdown(shutdownCtx)
	})

	return eg.Wait()
}

// bridge forwards stream updates to every connected page as a data change.
func (s *Server) bridge() (cancel func()) {
	return s.stream.Subscribe(func(records []core.Scorecard) {
		s.logger.Debug("stream updated", "scorecards", len(records), "status", s.stream.ConnectionStatus())
		s.notifier.Broadcast(state.ChangeData)
	})
}

// requestLogger logs completed requests through slog. Long-lived SSE
// requests log when the client goes away.
func requestLogger(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()
			next.ServeHTTP(ww, r)
			logger.Debug("request",
				"method", r.Method,
				"path", r.URL.Path,
				"status", ww.Status(),
				"bytes", ww.BytesWritten(),
				"duration", time.Since(start),
				"request_id", middleware.GetReqID(r.Context()),
			)
		})
	}
}
