package config

import (
	"fmt"
	"os"
	"slices"
	"strings"
	"unicode"
)

// OutputFormats lists the accepted values of --output.
var OutputFormats = []string{"auto", "text", "markdown", "json", "yaml"}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if !slices.Contains(OutputFormats, c.OutputFormat) {
		return fmt.Errorf("output must be one of %v, got %q", OutputFormats, c.OutputFormat)
	}
	if c.Posture == "" {
		return fmt.Errorf("posture is required")
	}
	if strings.ContainsFunc(c.Posture, unicode.IsSpace) {
		return fmt.Errorf("posture must be a single word, got %q", c.Posture)
	}

	ui := c.GetUIConfig()
	if ui.Port < 1 || ui.Port > 65535 {
		return fmt.Errorf("ui.port must be between 1 and 65535, got %d", ui.Port)
	}
	if ui.IdleTimeout < 0 {
		return fmt.Errorf("ui.idle_timeout must not be negative, got %s", ui.IdleTimeout)
	}
	return nil
}

// ValidateScorecardsFile checks that the configured scorecard file exists.
// An empty path means the built-in scorecards are served.
func (c *Config) ValidateScorecardsFile() error {
	if c.ScorecardsFile == "" {
		return nil
	}
	if _, err := os.Stat(c.ScorecardsFile); os.IsNotExist(err) {
		return fmt.Errorf("scorecards file does not exist: %s\nHint: Create the file or use --scorecards to specify a different path", c.ScorecardsFile)
	}
	return nil
}
