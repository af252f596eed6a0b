// Package state holds the per-viewer dashboard state and reports which
// regions of the view each transition dirties.
package state

import "strings"

// Change is a bitmask of view regions that need to be redrawn.
type Change uint8

// Change flags.
const (
	// ChangeNone means nothing visible changed.
	ChangeNone Change = 0
	// ChangeTab dirties the navigation rail.
	ChangeTab Change = 1 << iota
	// ChangeSelection dirties the scorecard list and the detail panel.
	ChangeSelection
	// ChangeData dirties the header, the scorecard list and the detail panel.
	ChangeData
)

// ChangeAll dirties every region.
const ChangeAll = ChangeTab | ChangeSelection | ChangeData

// Has reports whether any flag in other is set in c.
func (c Change) Has(other Change) bool {
	return c&other != 0
}

// String returns the set flags joined by "|".
func (c Change) String() string {
	if c == ChangeNone {
		return "none"
	}
	var parts []string
	if c.Has(ChangeTab) {
		parts = append(parts, "tab")
	}
	if c.Has(ChangeSelection) {
		parts = append(parts, "selection")
	}
	if c.Has(ChangeData) {
		parts = append(parts, "data")
	}
	return strings.Join(parts, "|")
}
