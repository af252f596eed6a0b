// Package tui renders the Risk Command Center in a terminal with Bubble Tea.
// It shares the view state and stream types with the web dashboard.
package tui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/leapstack-labs/riskcc/internal/ui/features/common"
	"github.com/leapstack-labs/riskcc/internal/ui/state"
	"github.com/leapstack-labs/riskcc/pkg/core"
)

const driftWidth = 20

// DataMsg carries a fresh record set from the stream.
type DataMsg struct {
	Records []core.Scorecard
}

// Model is the terminal dashboard.
type Model struct {
	view   *state.View
	stream core.RiskStream

	records []core.Scorecard
	status  core.ConnectionStatus
	cursor  int
	notice  string

	width  int
	keys   keyMap
	help   help.Model
	styles Styles
}

// New creates a model over view, reading records from stream.
func New(view *state.View, stream core.RiskStream, styles Styles) Model {
	return Model{
		view:    view,
		stream:  stream,
		records: stream.CurrentData(),
		status:  stream.ConnectionStatus(),
		keys:    defaultKeyMap(),
		help:    help.New(),
		styles:  styles,
	}
}

// Snapshot returns the current view state.
func (m Model) Snapshot() state.Snapshot {
	return m.view.Snapshot()
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.help.Width = msg.Width

	case DataMsg:
		m.records = msg.Records
		m.status = m.stream.ConnectionStatus()
		m.cursor = clamp(m.cursor, len(m.records))

	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	m.notice = ""

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
	case key.Matches(msg, m.keys.Dashboard):
		m.view.SelectTab(core.TabDashboard)
	case key.Matches(msg, m.keys.Reports):
		m.view.SelectTab(core.TabReports)
	case key.Matches(msg, m.keys.Alerts):
		m.view.SelectTab(core.TabAlerts)
	case key.Matches(msg, m.keys.NextTab):
		m.view.SelectTab(stepTab(m.view.Snapshot().ActiveTab, 1))
	case key.Matches(msg, m.keys.PrevTab):
		m.view.SelectTab(stepTab(m.view.Snapshot().ActiveTab, -1))
	case key.Matches(msg, m.keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}
	case key.Matches(msg, m.keys.Down):
		if m.cursor < len(m.records)-1 {
			m.cursor++
		}
	case key.Matches(msg, m.keys.Select):
		if len(m.records) == 0 {
			break
		}
		id := m.records[m.cursor].ControlID
		if _, err := m.view.SelectAsset(id, m.records); err != nil {
			m.notice = err.Error()
		}
	}
	return m, nil
}

// View implements tea.Model.
func (m Model) View() string {
	snap := m.view.Snapshot()

	sections := []string{
		m.renderHeader(snap),
		m.renderTabs(snap.ActiveTab),
		m.renderScorecards(snap.SelectedAsset),
	}
	if snap.DetailVisible() {
		sections = append(sections, m.renderDetail(snap.SelectedAsset))
	}
	if m.notice != "" {
		sections = append(sections, m.styles.Note.Render(m.notice))
	}
	sections = append(sections, m.help.View(m.keys))

	return lipgloss.JoinVertical(lipgloss.Left, sections...) + "\n"
}

func (m Model) renderHeader(snap state.Snapshot) string {
	title := m.styles.Title.Render("RISK ") + m.styles.Accent.Render("COMMAND CENTER")
	badge := m.styles.Tone(common.ConnectionTone(m.status)).Render("[" + m.status.Badge() + "]")
	posture := m.styles.Muted.Render("posture " + string(snap.Posture))
	return strings.Join([]string{title, badge, posture}, "  ")
}

func (m Model) renderTabs(active core.Tab) string {
	tabs := make([]string, 0, len(core.Tabs()))
	for i, tab := range core.Tabs() {
		label := fmt.Sprintf("%d %s", i+1, tab.Title())
		if tab == active {
			tabs = append(tabs, m.styles.ActiveTab.Render(label))
		} else {
			tabs = append(tabs, m.styles.Tab.Render(label))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, tabs...)
}

func (m Model) renderScorecards(selected string) string {
	var b strings.Builder
	b.WriteString(m.styles.Head.Render("ACTIVE CONTROL MONITORING") + "  " + m.styles.Muted.Render("[Filter by Risk Level]") + "\n")
	b.WriteString(m.styles.Head.Render(fmt.Sprintf("  %-14s %-11s %-6s %-*s %s",
		"CONTROL ID", "STATUS", "GRADE", driftWidth, "DRIFT ANALYSIS", "RISK SCORE")))

	if len(m.records) == 0 {
		b.WriteString("\n" + m.styles.Muted.Render("  No scorecards published"))
		return b.String()
	}

	for i, rec := range m.records {
		marker := "  "
		if i == m.cursor {
			marker = m.styles.Cursor.Render("> ")
		}
		line := fmt.Sprintf("%-14s %s %s %s %s",
			rec.ControlID,
			m.styles.Tone(common.StatusTone(rec.Status)).Render(fmt.Sprintf("%-11s", rec.Status)),
			m.styles.Tone(common.GradeTone(rec.Grade)).Render(fmt.Sprintf("%-6s", rec.Grade)),
			m.styles.Accent.Render(driftBar(rec.Value)),
			rec.Value,
		)
		if rec.ControlID == selected {
			line = m.styles.Selected.Render(line)
		}
		b.WriteString("\n" + marker + line)
	}
	return b.String()
}

func (m Model) renderDetail(asset string) string {
	lines := []string{
		m.styles.Title.Render("Control Drift Analysis: " + asset),
	}
	if _, ok := core.FindScorecard(m.records, asset); !ok {
		lines = append(lines, m.styles.Note.Render("No live data for this control"))
	}
	lines = append(lines,
		m.styles.Muted.Render("[Visualization: Compliance Rate over Time]"),
		"",
		lipgloss.JoinHorizontal(lipgloss.Top,
			m.styles.Card.Render("Compliance Matrix\n"+asset),
			m.styles.Card.Render("Audit Plan\n"+asset),
		),
	)
	return m.styles.Panel.Render(lipgloss.JoinVertical(lipgloss.Left, lines...))
}

// driftBar draws a value such as "45.2%" as a fixed-width bar.
func driftBar(value string) string {
	pct, err := strconv.ParseFloat(strings.TrimSuffix(strings.TrimSpace(value), "%"), 64)
	if err != nil {
		return strings.Repeat("·", driftWidth)
	}
	pct = max(0, min(100, pct))
	filled := int(pct / 100 * driftWidth)
	return strings.Repeat("█", filled) + strings.Repeat("·", driftWidth-filled)
}

func stepTab(current core.Tab, delta int) core.Tab {
	tabs := core.Tabs()
	for i, tab := range tabs {
		if tab == current {
			return tabs[(i+delta+len(tabs))%len(tabs)]
		}
	}
	return core.TabDashboard
}

func clamp(cursor, n int) int {
	if n == 0 || cursor < 0 {
		return 0
	}
	if cursor >= n {
		return n - 1
	}
	return cursor
}
