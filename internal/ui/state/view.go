package state

import (
	"fmt"
	"sync"

	"github.com/leapstack-labs/riskcc/pkg/core"
)

// Snapshot is an immutable copy of a View.
type Snapshot struct {
	SelectedAsset string
	ActiveTab     core.Tab
	Posture       core.RiskPosture
}

// DetailVisible reports whether the detail panel is shown.
func (s Snapshot) DetailVisible() bool {
	return s.SelectedAsset != ""
}

// View is the state of one dashboard viewer. It is safe for concurrent use.
type View struct {
	mu       sync.RWMutex
	selected string
	tab      core.Tab
	posture  core.RiskPosture
}

// NewView returns a view on the dashboard tab with nothing selected.
func NewView(posture core.RiskPosture) *View {
	if posture == "" {
		posture = core.PostureNormal
	}
	return &View{
		tab:     core.TabDashboard,
		posture: posture,
	}
}

// Snapshot returns the current state.
func (v *View) Snapshot() Snapshot {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return Snapshot{
		SelectedAsset: v.selected,
		ActiveTab:     v.tab,
		Posture:       v.posture,
	}
}

// SelectTab makes tab the active tab.
func (v *View) SelectTab(tab core.Tab) Change {
	v.mu.Lock()
	defer v.mu.Unlock()

	if v.tab == tab {
		return ChangeNone
	}
	v.tab = tab
	return ChangeTab
}

// SelectAsset selects the control with the given identifier. The identifier
// must belong to one of records; otherwise the state is left untouched and
// core.ErrUnknownControl is returned.
func (v *View) SelectAsset(controlID string, records []core.Scorecard) (Change, error) {
	if _, ok := core.FindScorecard(records, controlID); !ok {
		return ChangeNone, fmt.Errorf("select %q: %w", controlID, core.ErrUnknownControl)
	}

	v.mu.Lock()
	defer v.mu.Unlock()

	if v.selected == controlID {
		return ChangeNone, nil
	}
	v.selected = controlID
	return ChangeSelection, nil
}
