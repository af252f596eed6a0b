package dashboard

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	promtestutil "github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/riskcc/internal/testutil"
	"github.com/leapstack-labs/riskcc/internal/ui/features"
	"github.com/leapstack-labs/riskcc/internal/ui/state"
	"github.com/leapstack-labs/riskcc/pkg/core"
)

// =============================================================================
// Test Setup Helpers
// =============================================================================

func setupTestRouter(t *testing.T, records ...core.Scorecard) (http.Handler, *features.TestFixture) {
	t.Helper()

	fixture := features.SetupTestFixture(t, records...)
	return mountRoutes(t, fixture), fixture
}

func mountRoutes(t *testing.T, fixture *features.TestFixture) http.Handler {
	t.Helper()

	r := chi.NewRouter()
	require.NoError(t, SetupRoutes(
		r,
		fixture.Stream,
		fixture.Views,
		fixture.SessionStore,
		fixture.Notifier,
		fixture.Metrics,
		testutil.NewTestLogger(t),
		false,
	))
	return r
}

// openPage loads the dashboard and returns the issued session cookie.
func openPage(t *testing.T, router http.Handler) (*http.Cookie, string) {
	t.Helper()

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1, "first visit issues a session cookie")
	return cookies[0], rec.Body.String()
}

func get(t *testing.T, router http.Handler, path string, cookie *http.Cookie) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if cookie != nil {
		req.AddCookie(cookie)
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func post(t *testing.T, router http.Handler, path string, cookie *http.Cookie, clientID string) *httptest.ResponseRecorder {
	t.Helper()
	body := ""
	if clientID != "" {
		body = `{"clientId":"` + clientID + `"}`
	}
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if cookie != nil {
		req.AddCookie(cookie)
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

// snapshot returns the view state of the session behind cookie.
func snapshot(t *testing.T, fixture *features.TestFixture, cookie *http.Cookie) state.Snapshot {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(cookie)

	session, err := fixture.SessionStore.Get(req, sessionName)
	require.NoError(t, err)
	sid, ok := session.Values[sessionKey].(string)
	require.True(t, ok, "session carries an id")

	return fixture.Views.Get(sid).Snapshot()
}

// listen runs the updates stream for cookie/clientID until timeout and
// calls trigger once the stream is subscribed.
func listen(t *testing.T, router http.Handler, cookie *http.Cookie, clientID string, timeout time.Duration, trigger func()) string {
	t.Helper()

	path := "/updates"
	if clientID != "" {
		path += "?datastar=" + url.QueryEscape(`{"clientId":"`+clientID+`"}`)
	}
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if cookie != nil {
		req.AddCookie(cookie)
	}
	ctx, cancel := context.WithTimeout(req.Context(), timeout)
	defer cancel()
	req = req.WithContext(ctx)

	rec := httptest.NewRecorder()
	done := make(chan struct{})
	go func() {
		router.ServeHTTP(rec, req)
		close(done)
	}()

	time.Sleep(50 * time.Millisecond)
	if trigger != nil {
		trigger()
	}
	<-done

	return rec.Body.String()
}

// =============================================================================
// DashboardPage Tests - full HTML page responses with server-rendered content
// =============================================================================

func TestDashboardPage(t *testing.T) {
	router, _ := setupTestRouter(t)

	_, body := openPage(t, router)

	wantBody := []string{
		"<!doctype html>",
		"<title>Dashboard - Risk Command Center</title>",
		"data-init",
		"/updates",
		"ui-shell",
		"RISK <span class=\"accent\">COMMAND CENTER</span>",
		"SYSTEM ONLINE",
		"ACCESS-01",
		"DATA-DL-03",
	}
	for _, want := range wantBody {
		assert.Contains(t, body, want, "response should contain %q", want)
	}
	assert.NotContains(t, body, "Control Drift Analysis", "detail panel is absent on first render")
	assert.Contains(t, body, `rail-button-active" data-tab="dashboard"`, "dashboard is the default tab")
}

func TestDashboardPage_ReusesSession(t *testing.T) {
	router, fixture := setupTestRouter(t)

	cookie, _ := openPage(t, router)
	rec := get(t, router, "/", cookie)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, rec.Result().Cookies(), "known session is not reissued")
	assert.Equal(t, 1, fixture.Views.Len())
}

func TestDashboardPage_CustomRecordsInOrder(t *testing.T) {
	router, _ := setupTestRouter(t,
		core.Scorecard{ControlID: "VENDOR-07", Value: "71.0%", Grade: "B", Status: "Watch"},
		core.Scorecard{ControlID: "ACCESS-01", Value: "98.5%", Grade: "A+", Status: "Compliant"},
	)

	_, body := openPage(t, router)

	assert.Less(t, strings.Index(body, `data-control-id="VENDOR-07"`), strings.Index(body, `data-control-id="ACCESS-01"`))
	assert.NotContains(t, body, "DATA-DL-03")
}

// =============================================================================
// SelectTab Tests
// =============================================================================

func TestSelectTab_EveryTab(t *testing.T) {
	router, fixture := setupTestRouter(t)
	cookie, _ := openPage(t, router)

	// Order guarantees every step is an actual change
	for _, tab := range []core.Tab{core.TabReports, core.TabAlerts, core.TabDashboard} {
		t.Run(string(tab), func(t *testing.T) {
			rec := post(t, router, "/tabs/"+string(tab), cookie, "")

			assert.Equal(t, http.StatusOK, rec.Code)
			assert.Equal(t, tab, snapshot(t, fixture, cookie).ActiveTab)

			body := rec.Body.String()
			assert.Equal(t, 1, strings.Count(body, "event:"), "only the rail is patched")
			assert.Contains(t, body, `id="nav-rail"`)
			assert.Contains(t, body, `rail-button-active" data-tab="`+string(tab)+`"`)
			assert.NotContains(t, body, `id="scorecards"`)
		})
	}

	assert.InDelta(t, 1, promtestutil.ToFloat64(fixture.Metrics.TabSelections.WithLabelValues("reports")), 0)
}

func TestSelectTab_HandlerDirect(t *testing.T) {
	fixture := features.SetupTestFixture(t)
	h := NewHandlers(fixture.Stream, fixture.Views, fixture.SessionStore, fixture.Notifier, nil, nil, false)

	req := features.RequestWithPathParam(httptest.NewRequest(http.MethodPost, "/tabs/alerts", nil), "tab", "alerts")
	rec := httptest.NewRecorder()
	h.SelectTab(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	require.Len(t, rec.Result().Cookies(), 1)
	assert.Contains(t, rec.Body.String(), `rail-button-active" data-tab="alerts"`)
}

func TestSelectTab_SameTabIsNoop(t *testing.T) {
	router, _ := setupTestRouter(t)
	cookie, _ := openPage(t, router)

	rec := post(t, router, "/tabs/dashboard", cookie, "")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 0, strings.Count(rec.Body.String(), "event:"))
}

func TestSelectTab_Unknown(t *testing.T) {
	router, fixture := setupTestRouter(t)
	cookie, _ := openPage(t, router)

	rec := post(t, router, "/tabs/settings", cookie, "")

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "unknown tab")
	assert.Equal(t, core.TabDashboard, snapshot(t, fixture, cookie).ActiveTab)
}

// =============================================================================
// SelectAsset Tests
// =============================================================================

func TestSelectAsset_EveryRow(t *testing.T) {
	for _, rec := range core.DefaultScorecards() {
		t.Run(rec.ControlID, func(t *testing.T) {
			router, fixture := setupTestRouter(t)
			cookie, _ := openPage(t, router)

			res := post(t, router, "/scorecards/"+rec.ControlID+"/select", cookie, "")

			require.Equal(t, http.StatusOK, res.Code)
			snap := snapshot(t, fixture, cookie)
			assert.Equal(t, rec.ControlID, snap.SelectedAsset)
			assert.True(t, snap.DetailVisible())

			body := res.Body.String()
			assert.Equal(t, 2, strings.Count(body, "event:"), "scorecards and detail panel are patched")
			assert.Contains(t, body, "Control Drift Analysis: "+rec.ControlID)
			assert.NotContains(t, body, `id="nav-rail"`)
		})
	}
}

func TestSelectAsset_ExampleFlow(t *testing.T) {
	router, fixture := setupTestRouter(t)

	// Initial render: detail panel absent
	cookie, body := openPage(t, router)
	assert.NotContains(t, body, "Control Drift Analysis")
	assert.False(t, snapshot(t, fixture, cookie).DetailVisible())

	// Select DATA-DL-03
	rec := post(t, router, "/scorecards/DATA-DL-03/select", cookie, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "DATA-DL-03", snapshot(t, fixture, cookie).SelectedAsset)

	body = get(t, router, "/", cookie).Body.String()
	assert.Contains(t, body, "Control Drift Analysis: DATA-DL-03")
	assert.Contains(t, body, `class="card compliance-matrix" data-asset="DATA-DL-03"`)
	assert.Contains(t, body, `class="card audit-plan" data-asset="DATA-DL-03"`)

	// Select reports: tab changes, content does not
	rec = post(t, router, "/tabs/reports", cookie, "")
	require.Equal(t, http.StatusOK, rec.Code)

	snap := snapshot(t, fixture, cookie)
	assert.Equal(t, core.TabReports, snap.ActiveTab)
	assert.Equal(t, "DATA-DL-03", snap.SelectedAsset)

	after := get(t, router, "/", cookie).Body.String()
	assert.Contains(t, after, "Control Drift Analysis: DATA-DL-03")
	assert.Contains(t, after, `rail-button-active" data-tab="reports"`)
}

func TestSelectAsset_Unknown(t *testing.T) {
	router, fixture := setupTestRouter(t)
	cookie, _ := openPage(t, router)
	require.Equal(t, http.StatusOK, post(t, router, "/scorecards/ACCESS-01/select", cookie, "").Code)

	rec := post(t, router, "/scorecards/NOPE-99/select", cookie, "")

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "unknown control")
	assert.Equal(t, "ACCESS-01", snapshot(t, fixture, cookie).SelectedAsset, "selection is unchanged")
	assert.InDelta(t, 1, promtestutil.ToFloat64(fixture.Metrics.AssetSelections.WithLabelValues("unknown")), 0)
}

func TestSelectAsset_EscapedID(t *testing.T) {
	tests := []struct {
		name      string
		controlID string
	}{
		{name: "space and slash", controlID: "OPS 2/B"},
		{name: "percent", controlID: "RATE%41"},
		{name: "percent and slash", controlID: "50%/B"},
		{name: "plain", controlID: "ACCESS-01"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router, fixture := setupTestRouter(t, core.Scorecard{ControlID: tt.controlID, Value: "50%", Grade: "C", Status: "Watch"})
			cookie, page := openPage(t, router)

			path := "/scorecards/" + url.PathEscape(tt.controlID) + "/select"
			require.Contains(t, page, "@post(&#39;"+path+"&#39;)", "row posts the escaped id")

			rec := post(t, router, path, cookie, "")

			require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
			assert.Equal(t, tt.controlID, snapshot(t, fixture, cookie).SelectedAsset)
		})
	}
}

func TestSelectAsset_WithoutSession(t *testing.T) {
	router, _ := setupTestRouter(t)

	rec := post(t, router, "/scorecards/ACCESS-01/select", nil, "")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, rec.Result().Cookies(), 1, "a session is issued on first interaction")
}

// =============================================================================
// DashboardUpdates Tests - SSE endpoint for live updates only
// =============================================================================

func TestDashboardUpdates_NoInitialState(t *testing.T) {
	router, _ := setupTestRouter(t)
	cookie, _ := openPage(t, router)

	body := listen(t, router, cookie, "", 100*time.Millisecond, nil)

	assert.Equal(t, 0, strings.Count(body, "event:"), "should have no SSE events without a change")
}

func TestDashboardUpdates_DataChangeRedrawsDataRegions(t *testing.T) {
	router, fixture := setupTestRouter(t)
	cookie, _ := openPage(t, router)

	body := listen(t, router, cookie, "", 300*time.Millisecond, func() {
		fixture.Stream.SetData([]core.Scorecard{{ControlID: "VENDOR-07", Value: "71.0%", Grade: "B", Status: "Watch"}})
		fixture.Notifier.Broadcast(state.ChangeData)
	})

	assert.Equal(t, 3, strings.Count(body, "event:"), "header, scorecards and detail panel")
	assert.Contains(t, body, "VENDOR-07")
	assert.Contains(t, body, "SYSTEM ONLINE")
	assert.NotContains(t, body, "ACCESS-01")
	assert.NotContains(t, body, `id="nav-rail"`)
}

func TestDashboardUpdates_OpenPageKeepsSelectionPastIdle(t *testing.T) {
	fixture := features.SetupTestFixture(t)
	fixture.Views = state.NewRegistry(core.PostureNormal, 100*time.Millisecond)
	router := mountRoutes(t, fixture)

	cookie, _ := openPage(t, router)
	require.Equal(t, http.StatusOK, post(t, router, "/scorecards/DATA-DL-03/select", cookie, "").Code)

	body := listen(t, router, cookie, "", time.Second, func() {
		time.Sleep(400 * time.Millisecond)
		fixture.Stream.SetData(core.DefaultScorecards())
		fixture.Notifier.Broadcast(state.ChangeData)
	})

	assert.Contains(t, body, "Control Drift Analysis: DATA-DL-03")
	assert.NotContains(t, body, `id="detail-panel" hidden`)
	assert.Equal(t, "DATA-DL-03", snapshot(t, fixture, cookie).SelectedAsset, "idle clock restarts after the stream closes")
}

func TestDashboardUpdates_SiblingPagesFollowSelection(t *testing.T) {
	router, fixture := setupTestRouter(t)
	cookie, _ := openPage(t, router)

	var originBody string
	siblingBody := listen(t, router, cookie, "page-2", 300*time.Millisecond, func() {
		originBody = listen(t, router, cookie, "page-1", 150*time.Millisecond, func() {
			rec := post(t, router, "/scorecards/DATA-DL-03/select", cookie, "page-1")
			require.Equal(t, http.StatusOK, rec.Code)
		})
	})

	assert.Contains(t, siblingBody, "Control Drift Analysis: DATA-DL-03", "other page of the session redraws")
	assert.Equal(t, 0, strings.Count(originBody, "event:"), "originating page already redrew from the POST")
	assert.InDelta(t, 0, promtestutil.ToFloat64(fixture.Metrics.StreamClients), 0, "streams are released")
}

func TestDashboardUpdates_OtherSessionsUnaffected(t *testing.T) {
	router, _ := setupTestRouter(t)
	alice, _ := openPage(t, router)
	bob, _ := openPage(t, router)

	body := listen(t, router, bob, "", 200*time.Millisecond, func() {
		require.Equal(t, http.StatusOK, post(t, router, "/tabs/alerts", alice, "").Code)
	})

	assert.Equal(t, 0, strings.Count(body, "event:"))
}
