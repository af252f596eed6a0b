package cli

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/riskcc/internal/cli/config"
	"github.com/leapstack-labs/riskcc/internal/cli/testutil"
	"github.com/leapstack-labs/riskcc/pkg/core"
)

func executeRoot(t *testing.T, args ...string) (string, error) {
	t.Helper()
	config.ResetConfig()
	t.Cleanup(config.ResetConfig)
	t.Chdir(t.TempDir())
	cfgFile = ""

	root := NewRootCmd()
	buf := new(bytes.Buffer)
	root.SetOut(buf)
	root.SetErr(buf)
	root.SetArgs(args)
	err := root.ExecuteContext(t.Context())
	return buf.String(), err
}

func TestRoot_Subcommands(t *testing.T) {
	root := NewRootCmd()
	for _, name := range []string{"serve", "tui", "scorecards", "version", "completion"} {
		cmd, _, err := root.Find([]string{name})
		require.NoError(t, err)
		assert.Equal(t, name, cmd.Name())
	}

	cmd, _, err := root.Find([]string{"ui"})
	require.NoError(t, err)
	assert.Equal(t, "serve", cmd.Name())
}

func TestRoot_ScorecardsJSON(t *testing.T) {
	out, err := executeRoot(t, "scorecards", "-o", "json")
	require.NoError(t, err)

	var got []core.Scorecard
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.Equal(t, core.DefaultScorecards(), got)
}

func TestRoot_ScorecardsFromFile(t *testing.T) {
	path := testutil.WriteScorecardFile(t,
		core.Scorecard{ControlID: "VENDOR-07", Value: "71.0%", Grade: "B", Status: "Compliant"},
	)

	out, err := executeRoot(t, "scorecards", "--scorecards", path, "-o", "markdown")
	require.NoError(t, err)
	assert.Contains(t, out, "| VENDOR-07 |")
	assert.NotContains(t, out, "ACCESS-01")
}

func TestRoot_ConfigStoredInContext(t *testing.T) {
	config.ResetConfig()
	t.Cleanup(config.ResetConfig)
	t.Chdir(t.TempDir())
	cfgFile = ""

	root := NewRootCmd()
	root.SetArgs([]string{"version", "--posture", "elevated", "-v"})
	root.SetOut(new(bytes.Buffer))
	root.SetErr(new(bytes.Buffer))
	require.NoError(t, root.ExecuteContext(t.Context()))

	cmd, _, err := root.Find([]string{"version"})
	require.NoError(t, err)
	cfg := GetConfig(cmd.Context())
	assert.Equal(t, "ELEVATED", cfg.Posture)
	assert.True(t, cfg.Verbose)
	assert.NotNil(t, config.GetLogger(cmd.Context()))
}

func TestRoot_InvalidConfig(t *testing.T) {
	_, err := executeRoot(t, "scorecards", "-o", "xml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "output must be one of")
}

func TestRoot_Version(t *testing.T) {
	out, err := executeRoot(t, "--version")
	require.NoError(t, err)
	assert.Contains(t, out, "riskcc "+Version)
}

func TestRoot_Completion(t *testing.T) {
	out, err := executeRoot(t, "completion", "bash")
	require.NoError(t, err)
	assert.Contains(t, out, "riskcc")

	_, err = executeRoot(t, "completion", "tcsh")
	assert.Error(t, err)
}

func TestGetConfig_Default(t *testing.T) {
	cfg := GetConfig(t.Context())
	assert.Equal(t, config.DefaultPosture, cfg.Posture)
	assert.Equal(t, config.DefaultPort, cfg.GetUIConfig().Port)
}
