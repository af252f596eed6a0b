// Package components renders the dashboard regions as templ components.
package components

//go:generate go run github.com/a-h/templ/cmd/templ@v0.3.977 generate

import (
	"github.com/leapstack-labs/riskcc/internal/ui/state"
	"github.com/leapstack-labs/riskcc/pkg/core"
)

// Element ids of the patchable regions.
const (
	ShellID       = "ui-shell"
	NavRailID     = "nav-rail"
	HeaderID      = "header"
	ScorecardsID  = "scorecards"
	DetailPanelID = "detail-panel"
)

// ViewData is everything needed to render the dashboard for one viewer.
type ViewData struct {
	View    state.Snapshot
	Records []core.Scorecard
	Status  core.ConnectionStatus
}

// Selected returns the record for the selected asset, if it is still in
// the stream data.
func (d ViewData) Selected() (core.Scorecard, bool) {
	return core.FindScorecard(d.Records, d.View.SelectedAsset)
}

// PageData wraps ViewData with document level settings.
type PageData struct {
	Title string
	IsDev bool
	// ClientID identifies this page load among the session's open pages.
	ClientID string
	ViewData
}
