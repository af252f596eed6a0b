package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestMetrics_CountersAndHandler(t *testing.T) {
	m := New()

	m.TabSelections.WithLabelValues("reports").Inc()
	m.AssetSelections.WithLabelValues("ok").Add(2)
	m.StreamClients.Inc()

	assert.InDelta(t, 1, testutil.ToFloat64(m.TabSelections.WithLabelValues("reports")), 0)
	assert.InDelta(t, 2, testutil.ToFloat64(m.AssetSelections.WithLabelValues("ok")), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(m.StreamClients), 0)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, `riskcc_tab_selections_total{tab="reports"} 1`)
	assert.Contains(t, body, "riskcc_update_streams 1")
	assert.Contains(t, body, "go_goroutines")
}

func TestMetrics_IndependentRegistries(t *testing.T) {
	// Each server gets its own registry, so two instances never collide
	a := New()
	b := New()

	a.TabSelections.WithLabelValues("alerts").Inc()

	assert.InDelta(t, 0, testutil.ToFloat64(b.TabSelections.WithLabelValues("alerts")), 0)
}
