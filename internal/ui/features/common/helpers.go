// Package common provides shared helpers for the dashboard views.
package common

import (
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/leapstack-labs/riskcc/pkg/core"
)

var titleCaser = cases.Title(language.English)

// TabLabel returns the display label of a tab, e.g. "reports" -> "Reports".
func TabLabel(tab core.Tab) string {
	return titleCaser.String(string(tab))
}

// Tone classifies a scorecard for colouring.
type Tone string

// Tones used by both the web and the terminal views.
const (
	ToneGood    Tone = "good"
	ToneWarn    Tone = "warn"
	ToneBad     Tone = "bad"
	ToneNeutral Tone = "neutral"
)

// StatusTone maps a scorecard status label to a tone.
func StatusTone(status string) Tone {
	switch status {
	case "Compliant":
		return ToneGood
	case "Critical":
		return ToneBad
	case "":
		return ToneNeutral
	default:
		return ToneWarn
	}
}

// GradeTone maps an audit grade to a tone by its letter.
func GradeTone(grade string) Tone {
	if grade == "" {
		return ToneNeutral
	}
	switch grade[0] {
	case 'A', 'B':
		return ToneGood
	case 'C':
		return ToneWarn
	default:
		return ToneBad
	}
}

// ConnectionTone maps a stream status to a tone for the header badge.
func ConnectionTone(status core.ConnectionStatus) Tone {
	switch status {
	case core.StatusOnline:
		return ToneGood
	case core.StatusConnecting:
		return ToneWarn
	default:
		return ToneBad
	}
}
