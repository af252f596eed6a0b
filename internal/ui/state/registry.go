package state

import (
	"context"
	"sync"
	"time"

	gocache "github.com/patrickmn/go-cache"

	"github.com/leapstack-labs/riskcc/pkg/core"
)

// DefaultIdleTimeout is how long a view survives without being touched.
const DefaultIdleTimeout = 30 * time.Minute

// Registry keeps one View per viewer session and forgets idle ones.
// A session with an open update stream holds its view and never goes idle.
type Registry struct {
	mu      sync.Mutex
	views   *gocache.Cache
	held    map[string]*hold
	idle    time.Duration
	posture core.RiskPosture
}

type hold struct {
	view *View
	refs int
}

// NewRegistry creates a registry. New views start with posture.
// Expired views are unreachable at once; Run reclaims their memory.
func NewRegistry(posture core.RiskPosture, idle time.Duration) *Registry {
	if idle <= 0 {
		idle = DefaultIdleTimeout
	}
	return &Registry{
		views:   gocache.New(idle, 0),
		held:    make(map[string]*hold),
		idle:    idle,
		posture: posture,
	}
}

// Get returns the view for sessionID, creating it on first use.
// Every call refreshes the idle deadline.
func (r *Registry) Get(sessionID string) *View {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.getLocked(sessionID)
}

func (r *Registry) getLocked(sessionID string) *View {
	var view *View
	if cached, ok := r.views.Get(sessionID); ok {
		view = cached.(*View)
	} else if h, ok := r.held[sessionID]; ok {
		view = h.view
	} else {
		view = NewView(r.posture)
	}
	r.views.SetDefault(sessionID, view)
	return view
}

// Hold pins the view for sessionID until release is called. The idle
// deadline restarts when the last holder releases. release is idempotent.
func (r *Registry) Hold(sessionID string) (view *View, release func()) {
	r.mu.Lock()
	defer r.mu.Unlock()

	view = r.getLocked(sessionID)
	h, ok := r.held[sessionID]
	if !ok {
		h = &hold{view: view}
		r.held[sessionID] = h
	}
	h.refs++

	var once sync.Once
	return view, func() {
		once.Do(func() { r.release(sessionID) })
	}
}

func (r *Registry) release(sessionID string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	h, ok := r.held[sessionID]
	if !ok {
		return
	}
	h.refs--
	if h.refs > 0 {
		return
	}
	delete(r.held, sessionID)
	r.views.SetDefault(sessionID, h.view)
}

// Len returns the number of live views.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.views.DeleteExpired()
	n := r.views.ItemCount()
	for sid := range r.held {
		if _, ok := r.views.Get(sid); !ok {
			n++
		}
	}
	return n
}

// Run drops expired views every half idle period until ctx is done.
func (r *Registry) Run(ctx context.Context) error {
	ticker := time.NewTicker(r.idle / 2)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			r.mu.Lock()
			r.views.DeleteExpired()
			r.mu.Unlock()
		}
	}
}
