// Package core defines the shared language of the risk command center.
//
// This package contains:
//   - Domain records (Scorecard, Tab, RiskPosture, ConnectionStatus)
//   - The RiskStream collaborator contract consumed by every view
//   - Sentinel errors shared by the web and terminal front ends
//
// The Golden Rule: pkg/core imports ONLY the standard library.
// All other packages depend on core, not the reverse.
package core
