// Package stream provides RiskStream implementations for the dashboard views.
package stream

import (
	"sync"

	"github.com/leapstack-labs/riskcc/pkg/core"
)

type subscriber struct {
	id uint64
	fn func([]core.Scorecard)
}

// Static is an in-memory RiskStream. Its data only changes through SetData.
type Static struct {
	mu      sync.RWMutex
	records []core.Scorecard
	status  core.ConnectionStatus
	subs    []subscriber
	nextID  uint64
}

var _ core.WritableRiskStream = (*Static)(nil)

// NewStatic creates a stream seeded with records. The stream reports
// StatusConnecting until Open is called.
func NewStatic(records []core.Scorecard) *Static {
	return &Static{
		records: core.CloneScorecards(records),
		status:  core.StatusConnecting,
	}
}

// NewDefault creates a stream holding core.DefaultScorecards.
func NewDefault() *Static {
	return NewStatic(core.DefaultScorecards())
}

// Open marks the stream online and notifies subscribers.
func (s *Static) Open() {
	s.setStatus(core.StatusOnline)
}

// Close marks the stream offline and notifies subscribers.
// Subscriptions stay registered; a later Open brings them back online.
func (s *Static) Close() {
	s.setStatus(core.StatusOffline)
}

// CurrentData returns a copy of the current scorecards.
func (s *Static) CurrentData() []core.Scorecard {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return core.CloneScorecards(s.records)
}

// ConnectionStatus returns the current connection status.
func (s *Static) ConnectionStatus() core.ConnectionStatus {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.status
}

// SetData replaces the scorecards and notifies subscribers in subscription order.
func (s *Static) SetData(records []core.Scorecard) {
	s.mu.Lock()
	s.records = core.CloneScorecards(records)
	s.mu.Unlock()

	s.notify()
}

// Subscribe registers fn for change notifications.
// fn runs on the goroutine that caused the change and must not block.
func (s *Static) Subscribe(fn func([]core.Scorecard)) func() {
	s.mu.Lock()
	s.nextID++
	id := s.nextID
	s.subs = append(s.subs, subscriber{id: id, fn: fn})
	s.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() { s.unsubscribe(id) })
	}
}

// subscribers returns the number of registered subscribers.
func (s *Static) subscribers() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.subs)
}

func (s *Static) unsubscribe(id uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, sub := range s.subs {
		if sub.id == id {
			s.subs = append(s.subs[:i], s.subs[i+1:]...)
			return
		}
	}
}

func (s *Static) setStatus(status core.ConnectionStatus) {
	s.mu.Lock()
	changed := s.status != status
	s.status = status
	s.mu.Unlock()

	if changed {
		s.notify()
	}
}

// notify calls subscribers outside the lock so callbacks may read the stream.
func (s *Static) notify() {
	s.mu.RLock()
	subs := make([]subscriber, len(s.subs))
	copy(subs, s.subs)
	records := core.CloneScorecards(s.records)
	s.mu.RUnlock()

	for _, sub := range subs {
		sub.fn(core.CloneScorecards(records))
	}
}
