// Package dashboard provides the risk command center page and its
// interaction endpoints.
package dashboard

import (
	"log/slog"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/sessions"

	"github.com/leapstack-labs/riskcc/internal/ui/metrics"
	"github.com/leapstack-labs/riskcc/internal/ui/notifier"
	"github.com/leapstack-labs/riskcc/internal/ui/state"
	"github.com/leapstack-labs/riskcc/pkg/core"
)

// SetupRoutes configures routes for the dashboard feature.
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
	handlers := NewHandlers(stream, views, sessionStore, notify, m, logger, isDev)

	router.Get("/", handlers.DashboardPage)
	router.Get("/updates", handlers.DashboardUpdates)
	router.Post("/tabs/{tab}", handlers.SelectTab)
	router.Post("/scorecards/{id}/select", handlers.SelectAsset)

	return nil
}
