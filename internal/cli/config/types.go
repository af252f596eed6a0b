// Package config provides configuration management for the riskcc CLI.
//
// Values are layered from defaults, an optional riskcc.yaml file,
// RISKCC_* environment variables and explicitly set flags, in that order.
package config

import "time"

// Default configuration values.
const (
	DefaultPort        = 8765
	DefaultPosture     = "NORMAL"
	DefaultOutput      = "auto" // Auto-detect: TTY=text, non-TTY=markdown
	DefaultIdleTimeout = 30 * time.Minute
	// DefaultSessionSecret signs session cookies when nothing else is set.
	DefaultSessionSecret = "riskcc-dev-secret-change-in-production" //nolint:gosec // development default
)

// ConfigFileNames are searched in the working directory when --config is not given.
var ConfigFileNames = []string{"riskcc.yaml", "riskcc.yml"}

// UIConfig holds configuration for the UI server.
type UIConfig struct {
	Port          int           `koanf:"port"`
	AutoOpen      bool          `koanf:"auto_open"`
	SessionSecret string        `koanf:"session_secret"`
	IdleTimeout   time.Duration `koanf:"idle_timeout"`
	Dev           bool          `koanf:"dev"`
}

// DefaultUIConfig returns a UIConfig with default values.
func DefaultUIConfig() *UIConfig {
	return &UIConfig{
		Port:          DefaultPort,
		AutoOpen:      true,
		SessionSecret: DefaultSessionSecret,
		IdleTimeout:   DefaultIdleTimeout,
	}
}

// GetUIConfig returns the UI config with defaults applied for any unset values.
func (c *Config) GetUIConfig() *UIConfig {
	if c.UI == nil {
		return DefaultUIConfig()
	}
	ui := c.UI
	if ui.Port == 0 {
		ui.Port = DefaultPort
	}
	if ui.SessionSecret == "" {
		ui.SessionSecret = DefaultSessionSecret
	}
	if ui.IdleTimeout == 0 {
		ui.IdleTimeout = DefaultIdleTimeout
	}
	return ui
}

// Config holds all CLI configuration options.
type Config struct {
	Verbose        bool      `koanf:"verbose"`
	OutputFormat   string    `koanf:"output"`
	Posture        string    `koanf:"posture"`
	ScorecardsFile string    `koanf:"scorecards_file"`
	NoColor        bool      `koanf:"no_color"`
	UI             *UIConfig `koanf:"ui"`
}
