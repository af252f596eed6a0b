// Package router sets up HTTP routes for the UI server.
package router

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"sync"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/sessions"
	"github.com/starfederation/datastar-go/datastar"

	dashboardFeature "github.com/leapstack-labs/riskcc/internal/ui/features/dashboard"
	"github.com/leapstack-labs/riskcc/internal/ui/metrics"
	"github.com/leapstack-labs/riskcc/internal/ui/notifier"
	"github.com/leapstack-labs/riskcc/internal/ui/resources"
	"github.com/leapstack-labs/riskcc/internal/ui/state"
	"github.com/leapstack-labs/riskcc/pkg/core"
)

// Health is the body served by /healthz.
type Health struct {
	Status     string                `json:"status"`
	Stream     core.ConnectionStatus `json:"stream"`
	Scorecards int                   `json:"scorecards"`
	Sessions   int                   `json:"sessions"`
	Listeners  int                   `json:"listeners"`
}

// SetupRoutes configures all routes for the UI server.
func SetupRoutes(
	router chi.Router,
	stream core.RiskStream,
	views *state.Registry,
	sessionStore sessions.Store,
	notify *notifier.Notifier,
	m *metrics.Metrics,
	logger *slog.Logger,
	isDev bool,
) error {
	// Hot reload endpoint for dev mode
	if isDev {
		setupReload(router)
	}

	// Static assets
	router.Handle("/static/*", resources.Handler(isDev))

	router.Handle("/metrics", m.Handler())
	router.Get("/healthz", healthHandler(stream, views, notify))

	// Feature routes
	return dashboardFeature.SetupRoutes(router, stream, views, sessionStore, notify, m, logger, isDev)
}

func healthHandler(stream core.RiskStream, views *state.Registry, notify *notifier.Notifier) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		status := stream.ConnectionStatus()
		body := Health{
			Status:     "ok",
			Stream:     status,
			Scorecards: len(stream.CurrentData()),
			Sessions:   views.Len(),
			Listeners:  notify.Listeners(),
		}
		if status == core.StatusOffline {
			body.Status = "degraded"
		}

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(body)
	}
}

func setupReload(router chi.Router) {
	reloadChan := make(chan struct{}, 1)
	var hotReloadOnce sync.Once

	router.Get("/reload", func(w http.ResponseWriter, r *http.Request) {
		sse := datastar.NewSSE(w, r)
		reload := func() { _ = sse.ExecuteScript("window.location.reload()") }
		hotReloadOnce.Do(reload)
		select {
		case <-reloadChan:
			reload()
		case <-r.Context().Done():
		}
	})

	router.Get("/hotreload", func(w http.ResponseWriter, _ *http.Request) {
		select {
		case reloadChan <- struct{}{}:
		default:
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})
}
