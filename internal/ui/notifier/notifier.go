// Package notifier fans dashboard change events out to SSE listeners.
package notifier

import (
	"sync"

	"github.com/leapstack-labs/riskcc/internal/ui/state"
)

// Event describes dirty regions for one session, or for every session when
// Session is empty. Origin names the client that caused the change; that
// client already redrew itself and is skipped.
type Event struct {
	Session string
	Origin  string
	Change  state.Change
}

// Subscription receives pings when changes are pending for its session.
// Pending changes are merged until Drain is called, so a slow listener
// never loses track of a dirty region.
type Subscription struct {
	session string
	client  string
	ch      chan struct{}

	mu      sync.Mutex
	pending state.Change
}

// C returns the ping channel. It is closed on Unsubscribe.
func (s *Subscription) C() <-chan struct{} {
	return s.ch
}

// Drain returns and clears the pending changes.
func (s *Subscription) Drain() state.Change {
	s.mu.Lock()
	defer s.mu.Unlock()
	c := s.pending
	s.pending = state.ChangeNone
	return c
}

func (s *Subscription) push(c state.Change) {
	s.mu.Lock()
	s.pending |= c
	s.mu.Unlock()

	select {
	case s.ch <- struct{}{}:
	default:
		// Ping already queued; the merged mask is picked up by Drain
	}
}

// Notifier delivers events to subscriptions.
type Notifier struct {
	mu        sync.RWMutex
	listeners map[*Subscription]struct{}
}

// New creates a new Notifier instance.
func New() *Notifier {
	return &Notifier{
		listeners: make(map[*Subscription]struct{}),
	}
}

// Subscribe registers a listener for client within session. client may be
// empty. The caller must call Unsubscribe when done to prevent goroutine leaks.
func (n *Notifier) Subscribe(session, client string) *Subscription {
	sub := &Subscription{
		session: session,
		client:  client,
		ch:      make(chan struct{}, 1),
	}
	n.mu.Lock()
	n.listeners[sub] = struct{}{}
	n.mu.Unlock()
	return sub
}

// Unsubscribe removes a listener and closes its channel.
func (n *Notifier) Unsubscribe(sub *Subscription) {
	n.mu.Lock()
	_, ok := n.listeners[sub]
	delete(n.listeners, sub)
	n.mu.Unlock()

	if ok {
		close(sub.ch)
	}
}

// Publish delivers ev to matching listeners without blocking.
func (n *Notifier) Publish(ev Event) {
	if ev.Change == state.ChangeNone {
		return
	}

	n.mu.RLock()
	defer n.mu.RUnlock()

	for sub := range n.listeners {
		if ev.Session != "" && ev.Session != sub.session {
			continue
		}
		if ev.Origin != "" && ev.Origin == sub.client {
			continue
		}
		sub.push(ev.Change)
	}
}

// Broadcast publishes c to every listener.
func (n *Notifier) Broadcast(c state.Change) {
	n.Publish(Event{Change: c})
}

// Listeners returns the number of active listeners.
func (n *Notifier) Listeners() int {
	n.mu.RLock()
	defer n.mu.RUnlock()
	return len(n.listeners)
}
