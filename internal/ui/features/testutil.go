// Package features provides shared test utilities for UI feature tests.
package features

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/sessions"

	"github.com/leapstack-labs/riskcc/internal/stream"
	"github.com/leapstack-labs/riskcc/internal/ui/metrics"
	"github.com/leapstack-labs/riskcc/internal/ui/notifier"
	"github.com/leapstack-labs/riskcc/internal/ui/state"
	"github.com/leapstack-labs/riskcc/pkg/core"
)

const testSessionSecret = "test-secret-key-32-bytes-long!!"

// TestFixture holds all dependencies needed for UI handler tests.
type TestFixture struct {
	Stream       *stream.Static
	Views        *state.Registry
	Notifier     *notifier.Notifier
	SessionStore *sessions.CookieStore
	Metrics      *metrics.Metrics
}

// SetupTestFixture creates a fixture whose stream is online and holds
// records, or core.DefaultScorecards when none are given.
func SetupTestFixture(t *testing.T, records ...core.Scorecard) *TestFixture {
	t.Helper()

	if len(records) == 0 {
		records = core.DefaultScorecards()
	}

	s := stream.NewStatic(records)
	s.Open()
	t.Cleanup(s.Close)

	return &TestFixture{
		Stream:       s,
		Views:        state.NewRegistry(core.PostureNormal, time.Minute),
		Notifier:     notifier.New(),
		SessionStore: NewTestSessionStore(),
		Metrics:      metrics.New(),
	}
}

// RequestWithPathParam wraps a request with chi URL params.
func RequestWithPathParam(r *http.Request, key, value string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

// NewTestSessionStore creates a session store for testing.
func NewTestSessionStore() *sessions.CookieStore {
	return sessions.NewCookieStore([]byte(testSessionSecret))
}
