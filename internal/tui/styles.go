package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/leapstack-labs/riskcc/internal/ui/features/common"
)

// Styles holds the lipgloss styles of the terminal dashboard.
type Styles struct {
	Title     lipgloss.Style
	Accent    lipgloss.Style
	Muted     lipgloss.Style
	Tab       lipgloss.Style
	ActiveTab lipgloss.Style
	Head      lipgloss.Style
	Row       lipgloss.Style
	Cursor    lipgloss.Style
	Selected  lipgloss.Style
	Panel     lipgloss.Style
	Card      lipgloss.Style
	Note      lipgloss.Style

	tones map[common.Tone]lipgloss.Style
}

// NewStyles builds styles bound to renderer. A nil renderer uses the
// lipgloss default, which detects the terminal's colour profile.
func NewStyles(renderer *lipgloss.Renderer) Styles {
	if renderer == nil {
		renderer = lipgloss.DefaultRenderer()
	}
	s := renderer.NewStyle

	return Styles{
		Title:     s().Bold(true).Foreground(lipgloss.Color("15")),
		Accent:    s().Bold(true).Foreground(lipgloss.Color("#3b82f6")),
		Muted:     s().Foreground(lipgloss.Color("#6b7280")),
		Tab:       s().Padding(0, 1).Foreground(lipgloss.Color("#6b7280")),
		ActiveTab: s().Padding(0, 1).Bold(true).Foreground(lipgloss.Color("15")).Background(lipgloss.Color("#1f2937")),
		Head:      s().Bold(true).Foreground(lipgloss.Color("#6b7280")),
		Row:       s(),
		Cursor:    s().Foreground(lipgloss.Color("#3b82f6")),
		Selected:  s().Background(lipgloss.Color("#1e3a8a")),
		Panel:     s().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("#1f2937")).Padding(0, 1),
		Card:      s().Border(lipgloss.NormalBorder()).BorderForeground(lipgloss.Color("#1f2937")).Padding(0, 1),
		Note:      s().Foreground(lipgloss.Color("#fbbf24")),
		tones: map[common.Tone]lipgloss.Style{
			common.ToneGood:    s().Foreground(lipgloss.Color("#34d399")),
			common.ToneWarn:    s().Foreground(lipgloss.Color("#fbbf24")),
			common.ToneBad:     s().Foreground(lipgloss.Color("#f87171")),
			common.ToneNeutral: s().Foreground(lipgloss.Color("#6b7280")),
		},
	}
}

// Tone returns the style for a tone.
func (s Styles) Tone(t common.Tone) lipgloss.Style {
	if st, ok := s.tones[t]; ok {
		return st
	}
	return s.Row
}
