package dashboard

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"

	"github.com/a-h/templ"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/gorilla/sessions"
	"github.com/starfederation/datastar-go/datastar"

	"github.com/leapstack-labs/riskcc/internal/ui/features/dashboard/components"
	"github.com/leapstack-labs/riskcc/internal/ui/metrics"
	"github.com/leapstack-labs/riskcc/internal/ui/notifier"
	"github.com/leapstack-labs/riskcc/internal/ui/state"
	"github.com/leapstack-labs/riskcc/pkg/core"
)

const (
	sessionName = "riskcc"
	sessionKey  = "sid"
)

// Signals are the datastar signals sent with every request from the page.
type Signals struct {
	ClientID string `json:"clientId"`
}

// Handlers provides HTTP handlers for the dashboard feature.
type Handlers struct {
	stream       core.RiskStream
	views        *state.Registry
	sessionStore sessions.Store
	notifier     *notifier.Notifier
	metrics      *metrics.Metrics
	logger       *slog.Logger
	isDev        bool
}

// NewHandlers creates a new Handlers instance.
func NewHandlers(
	stream core.RiskStream,
	views *state.Registry,
	sessionStore sessions.Store,
	notify *notifier.Notifier,
	m *metrics.Metrics,
	logger *slog.Logger,
	isDev bool,
) *Handlers {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	if m == nil {
		m = metrics.New()
	}
	return &Handlers{
		stream:       stream,
		views:        views,
		sessionStore: sessionStore,
		notifier:     notify,
		metrics:      m,
		logger:       logger,
		isDev:        isDev,
	}
}

// DashboardPage renders the full page with the viewer's current state.
func (h *Handlers) DashboardPage(w http.ResponseWriter, r *http.Request) {
	sid, err := h.sessionID(w, r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	page := components.PageData{
		Title:    "Dashboard",
		IsDev:    h.isDev,
		ClientID: uuid.NewString(),
		ViewData: h.buildViewData(h.views.Get(sid)),
	}

	if err := components.Page(page).Render(r.Context(), w); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

// DashboardUpdates is the long-lived SSE endpoint for the dashboard page.
// It patches only the regions named by each change. It does NOT send initial
// state - that's rendered by DashboardPage.
func (h *Handlers) DashboardUpdates(w http.ResponseWriter, r *http.Request) {
	// Read signals BEFORE creating SSE (SSE consumes the request)
	signals := h.readSignals(r)

	sid, err := h.sessionID(w, r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	sse := datastar.NewSSE(w, r)

	// An open page keeps its view however long it sits idle
	view, release := h.views.Hold(sid)
	defer release()

	sub := h.notifier.Subscribe(sid, signals.ClientID)
	defer h.notifier.Unsubscribe(sub)

	h.metrics.StreamClients.Inc()
	defer h.metrics.StreamClients.Dec()

	ctx := r.Context()
	for {
		select {
		case <-ctx.Done():
			return
		case _, ok := <-sub.C():
			if !ok {
				return
			}
			change := sub.Drain()
			if err := h.sendRegions(sse, view, change); err != nil {
				_ = sse.ConsoleError(err)
				// Don't return - keep trying on next update
			}
		}
	}
}

// SelectTab makes the tab in the URL the active tab.
func (h *Handlers) SelectTab(w http.ResponseWriter, r *http.Request) {
	tab, err := core.ParseTab(chi.URLParam(r, "tab"))
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	signals := h.readSignals(r)
	sid, err := h.sessionID(w, r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	view := h.views.Get(sid)
	change := view.SelectTab(tab)
	h.metrics.TabSelections.WithLabelValues(string(tab)).Inc()
	h.logger.Debug("tab selected", "session", sid, "tab", tab, "change", change)

	h.respond(w, r, sid, signals.ClientID, view, change)
}

// SelectAsset selects the scorecard named in the URL.
func (h *Handlers) SelectAsset(w http.ResponseWriter, r *http.Request) {
	// chi matches on RawPath only when the request has one; params are
	// still escaped in that case and already decoded otherwise.
	controlID := chi.URLParam(r, "id")
	if r.URL.RawPath != "" {
		unescaped, err := url.PathUnescape(controlID)
		if err != nil {
			http.Error(w, fmt.Sprintf("select %q: %v", controlID, err), http.StatusBadRequest)
			return
		}
		controlID = unescaped
	}

	signals := h.readSignals(r)
	sid, err := h.sessionID(w, r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	view := h.views.Get(sid)
	change, err := view.SelectAsset(controlID, h.stream.CurrentData())
	if errors.Is(err, core.ErrUnknownControl) {
		h.metrics.AssetSelections.WithLabelValues("unknown").Inc()
		h.logger.Warn("unknown control selected", "session", sid, "control", controlID)
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	h.metrics.AssetSelections.WithLabelValues("ok").Inc()
	h.logger.Debug("asset selected", "session", sid, "control", controlID, "change", change)

	h.respond(w, r, sid, signals.ClientID, view, change)
}

// respond redraws the caller's dirty regions and tells the session's other
// pages to do the same.
func (h *Handlers) respond(w http.ResponseWriter, r *http.Request, sid, clientID string, view *state.View, change state.Change) {
	h.notifier.Publish(notifier.Event{Session: sid, Origin: clientID, Change: change})

	sse := datastar.NewSSE(w, r)
	if err := h.sendRegions(sse, view, change); err != nil {
		_ = sse.ConsoleError(err)
	}
}

// sendRegions patches the regions dirtied by change.
func (h *Handlers) sendRegions(sse *datastar.ServerSentEventGenerator, view *state.View, change state.Change) error {
	if change == state.ChangeNone {
		return nil
	}

	data := h.buildViewData(view)

	type region struct {
		name      string
		dirty     state.Change
		component templ.Component
	}
	regions := []region{
		{components.NavRailID, state.ChangeTab, components.NavRail(data.View.ActiveTab)},
		{components.HeaderID, state.ChangeData, components.Header(data.Status)},
		{components.ScorecardsID, state.ChangeSelection | state.ChangeData, components.ScorecardList(data.Records, data.View.SelectedAsset)},
		{components.DetailPanelID, state.ChangeSelection | state.ChangeData, components.DetailPanel(data)},
	}

	for _, reg := range regions {
		if !change.Has(reg.dirty) {
			continue
		}
		if err := sse.PatchElementTempl(reg.component); err != nil {
			return fmt.Errorf("patch %s: %w", reg.name, err)
		}
		h.metrics.Patches.WithLabelValues(reg.name).Inc()
	}
	return nil
}

// buildViewData assembles all data needed to render the view.
func (h *Handlers) buildViewData(view *state.View) components.ViewData {
	return components.ViewData{
		View:    view.Snapshot(),
		Records: h.stream.CurrentData(),
		Status:  h.stream.ConnectionStatus(),
	}
}

// sessionID returns the viewer's session id, issuing one if needed.
// Must run before any body is written because it may set a cookie.
func (h *Handlers) sessionID(w http.ResponseWriter, r *http.Request) (string, error) {
	// A cookie that fails to decode still yields a usable new session
	session, _ := h.sessionStore.Get(r, sessionName)
	if sid, ok := session.Values[sessionKey].(string); ok && sid != "" {
		return sid, nil
	}

	sid := uuid.NewString()
	session.Values[sessionKey] = sid
	if err := session.Save(r, w); err != nil {
		return "", fmt.Errorf("failed to save session: %w", err)
	}
	return sid, nil
}

// readSignals returns the page signals; a request without them is anonymous.
func (h *Handlers) readSignals(r *http.Request) Signals {
	var signals Signals
	if err := datastar.ReadSignals(r, &signals); err != nil {
		return Signals{}
	}
	return signals
}
