package config

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "riskcc.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
	return path
}

func testFlags() *pflag.FlagSet {
	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags.String("config", "", "config file")
	flags.Int("port", 0, "port")
	flags.String("posture", "", "risk posture")
	flags.String("scorecards", "", "scorecard file")
	flags.StringP("output", "o", "", "output format")
	flags.Duration("idle-timeout", 0, "idle timeout")
	flags.Bool("dev", false, "dev mode")
	return flags
}

func TestLoadConfig_Defaults(t *testing.T) {
	ResetConfig()
	t.Chdir(t.TempDir())

	cfg, err := LoadConfig("", nil)
	require.NoError(t, err)

	assert.Equal(t, DefaultOutput, cfg.OutputFormat)
	assert.Equal(t, DefaultPosture, cfg.Posture)
	assert.Empty(t, cfg.ScorecardsFile)
	assert.False(t, cfg.Verbose)

	ui := cfg.GetUIConfig()
	assert.Equal(t, DefaultPort, ui.Port)
	assert.True(t, ui.AutoOpen)
	assert.Equal(t, DefaultIdleTimeout, ui.IdleTimeout)
	assert.Equal(t, DefaultSessionSecret, ui.SessionSecret)

	assert.Empty(t, GetConfigFileUsed())
	assert.Same(t, cfg, GetCurrentConfig())
}

func TestLoadConfig_File(t *testing.T) {
	ResetConfig()
	path := writeConfig(t, `posture: elevated
scorecards_file: fixtures/scorecards.yaml
output: json
ui:
  port: 9000
  auto_open: false
  idle_timeout: 5m
`)

	cfg, err := LoadConfig(path, nil)
	require.NoError(t, err)

	assert.Equal(t, path, GetConfigFileUsed())
	assert.Equal(t, "ELEVATED", cfg.Posture)
	assert.Equal(t, "json", cfg.OutputFormat)
	assert.Equal(t, filepath.Join(filepath.Dir(path), "fixtures", "scorecards.yaml"), cfg.ScorecardsFile,
		"scorecard path from the file is relative to the file")

	ui := cfg.GetUIConfig()
	assert.Equal(t, 9000, ui.Port)
	assert.False(t, ui.AutoOpen)
	assert.Equal(t, 5*time.Minute, ui.IdleTimeout)
}

func TestLoadConfig_FoundInWorkingDirectory(t *testing.T) {
	ResetConfig()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "riskcc.yml"), []byte("ui:\n  port: 9100\n"), 0600))
	t.Chdir(dir)

	cfg, err := LoadConfig("", nil)
	require.NoError(t, err)
	assert.Equal(t, "riskcc.yml", GetConfigFileUsed())
	assert.Equal(t, 9100, cfg.GetUIConfig().Port)
}

func TestLoadConfig_MissingExplicitFile(t *testing.T) {
	ResetConfig()
	_, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yaml"), nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "error reading config file")
}

// TestLoadConfig_FlagPrecedence tests that flags override env vars and config file.
func TestLoadConfig_FlagPrecedence(t *testing.T) {
	ResetConfig()
	path := writeConfig(t, "ui:\n  port: 9000\nposture: from_file\n")
	t.Setenv("RISKCC_UI__PORT", "9001")
	t.Setenv("RISKCC_POSTURE", "from_env")

	flags := testFlags()
	require.NoError(t, flags.Set("port", "9002"))
	require.NoError(t, flags.Set("posture", "from_flag"))

	cfg, err := LoadConfig(path, flags)
	require.NoError(t, err)

	assert.Equal(t, 9002, cfg.GetUIConfig().Port, "flag value should override config file and env var")
	assert.Equal(t, "FROM_FLAG", cfg.Posture)
}

// TestLoadConfig_EnvPrecedenceOverFile tests that env vars override config file.
func TestLoadConfig_EnvPrecedenceOverFile(t *testing.T) {
	ResetConfig()
	path := writeConfig(t, "ui:\n  port: 9000\n  idle_timeout: 5m\n")
	t.Setenv("RISKCC_UI__PORT", "9001")
	t.Setenv("RISKCC_UI__IDLE_TIMEOUT", "90s")
	t.Setenv("RISKCC_SCORECARDS_FILE", "live.yaml")

	cfg, err := LoadConfig(path, nil)
	require.NoError(t, err)

	ui := cfg.GetUIConfig()
	assert.Equal(t, 9001, ui.Port, "env var should override config file")
	assert.Equal(t, 90*time.Second, ui.IdleTimeout)
	assert.Equal(t, "live.yaml", cfg.ScorecardsFile, "env paths stay relative to the working directory")
}

// TestLoadConfig_FlagNotSetUsesEnv tests that unset flags fall back to env vars.
func TestLoadConfig_FlagNotSetUsesEnv(t *testing.T) {
	ResetConfig()
	t.Chdir(t.TempDir())
	t.Setenv("RISKCC_OUTPUT", "yaml")

	cfg, err := LoadConfig("", testFlags())
	require.NoError(t, err)
	assert.Equal(t, "yaml", cfg.OutputFormat, "env var should be used when flag is not set")
}

func TestLoadConfig_UnmappedFlagsIgnored(t *testing.T) {
	ResetConfig()
	t.Chdir(t.TempDir())

	flags := testFlags()
	require.NoError(t, flags.Set("config", "whatever.yaml"))
	require.NoError(t, flags.Set("idle-timeout", "2m"))
	require.NoError(t, flags.Set("dev", "true"))

	cfg, err := LoadConfig("", flags)
	require.NoError(t, err)
	assert.Equal(t, 2*time.Minute, cfg.GetUIConfig().IdleTimeout)
	assert.True(t, cfg.GetUIConfig().Dev)
}

func TestLoadConfig_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
		errText string
	}{
		{"bad port", "ui:\n  port: 70000\n", "ui.port"},
		{"bad output", "output: xml\n", "output must be one of"},
		{"spaced posture", "posture: very high\n", "single word"},
		{"negative idle", "ui:\n  idle_timeout: -1m\n", "idle_timeout"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ResetConfig()
			_, err := LoadConfig(writeConfig(t, tt.content), nil)
			require.Error(t, err)
			assert.Contains(t, err.Error(), "invalid configuration")
			assert.Contains(t, err.Error(), tt.errText)
		})
	}
}

func TestConfig_Validate(t *testing.T) {
	t.Run("valid config", func(t *testing.T) {
		cfg := &Config{OutputFormat: "text", Posture: "NORMAL"}
		assert.NoError(t, cfg.Validate())
	})

	t.Run("empty posture", func(t *testing.T) {
		cfg := &Config{OutputFormat: "text"}
		err := cfg.Validate()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "posture is required")
	})
}

func TestConfig_ValidateScorecardsFile(t *testing.T) {
	assert.NoError(t, (&Config{}).ValidateScorecardsFile())

	existing := writeConfig(t, "scorecards: []\n")
	assert.NoError(t, (&Config{ScorecardsFile: existing}).ValidateScorecardsFile())

	err := (&Config{ScorecardsFile: "/does/not/exist.yaml"}).ValidateScorecardsFile()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "scorecards file does not exist")
}

func TestGetUIConfig_FillsUnset(t *testing.T) {
	cfg := &Config{UI: &UIConfig{Port: 9000}}
	ui := cfg.GetUIConfig()
	assert.Equal(t, 9000, ui.Port)
	assert.Equal(t, DefaultIdleTimeout, ui.IdleTimeout)
	assert.Equal(t, DefaultSessionSecret, ui.SessionSecret)
}

func TestGetLogger(t *testing.T) {
	assert.NotNil(t, GetLogger(context.Background()))

	logger := slog.Default()
	ctx := context.WithValue(context.Background(), LoggerKey(), logger)
	assert.Same(t, logger, GetLogger(ctx))
}
