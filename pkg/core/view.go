package core

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnknownTab is returned when parsing a tab label that is not one of
// the fixed navigation tabs.
var ErrUnknownTab = errors.New("unknown tab")

// =============================================================================
// Tab
// =============================================================================

// Tab identifies the active navigation tab.
type Tab string

// Navigation tabs. Any tab is reachable from any other tab.
const (
	TabDashboard Tab = "dashboard"
	TabReports   Tab = "reports"
	TabAlerts    Tab = "alerts"
)

// Tabs returns the navigation tabs in rail order.
func Tabs() []Tab {
	return []Tab{TabDashboard, TabReports, TabAlerts}
}

// Title returns the tooltip title of the navigation control for the tab.
func (t Tab) Title() string {
	switch t {
	case TabDashboard:
		return "KRI Dashboard"
	case TabReports:
		return "Audit Reports"
	case TabAlerts:
		return "Active Alerts"
	default:
		return string(t)
	}
}

// ParseTab converts a tab label to a Tab. Matching is exact: navigation
// controls always send the literal value.
func ParseTab(s string) (Tab, error) {
	for _, t := range Tabs() {
		if string(t) == s {
			return t, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownTab, s)
}

// =============================================================================
// RiskPosture
// =============================================================================

// RiskPosture is an escalation level label. It is carried in view state and
// displayed, but nothing changes it or reacts to it.
type RiskPosture string

// PostureNormal is the default risk posture.
const PostureNormal RiskPosture = "NORMAL"

// ParsePosture normalizes a configured posture label to upper case.
// An empty label yields PostureNormal.
func ParsePosture(s string) RiskPosture {
	s = strings.TrimSpace(s)
	if s == "" {
		return PostureNormal
	}
	return RiskPosture(strings.ToUpper(s))
}

// =============================================================================
// ConnectionStatus
// =============================================================================

// ConnectionStatus describes the state of a RiskStream.
type ConnectionStatus string

// Stream connection states.
const (
	StatusConnecting ConnectionStatus = "connecting"
	StatusOnline     ConnectionStatus = "online"
	StatusOffline    ConnectionStatus = "offline"
)

// Badge returns the header badge text for the status.
func (s ConnectionStatus) Badge() string {
	switch s {
	case StatusOnline:
		return "SYSTEM ONLINE"
	case StatusConnecting:
		return "CONNECTING"
	default:
		return "SYSTEM OFFLINE"
	}
}
