package commands

import (
	"fmt"
	"os/exec"
	"runtime"
	"time"

	"github.com/spf13/cobra"

	"github.com/leapstack-labs/riskcc/internal/ui"
	"github.com/leapstack-labs/riskcc/pkg/core"
)

// NewServeCommand creates the serve command.
func NewServeCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "serve",
		Aliases: []string{"ui"},
		Short:   "Serve the Risk Command Center dashboard",
		Long: `Start a local web server with the Risk Command Center dashboard.

The dashboard shows one row per KRI scorecard. Selecting a row opens the
control drift analysis; the navigation rail switches between the KRI
dashboard, audit reports and active alerts. Every page of a browser session
follows the same selection, and scorecard changes are pushed live.`,
		Example: `  # Serve the built-in scorecards on the default port
  riskcc serve

  # Serve scorecards from a file, reloading it on change
  riskcc serve --scorecards scorecards.yaml

  # Start on a custom port without opening a browser
  riskcc serve --port 3000 --open=false`,
		RunE: runServe,
	}

	cmd.Flags().Int("port", 0, "Port to serve on (default: 8765)")
	cmd.Flags().Bool("open", true, "Open the dashboard in a browser")
	cmd.Flags().Bool("dev", false, "Development mode: live reload and uncached assets")
	cmd.Flags().Duration("idle-timeout", 0, "Forget a session's view state after this long without requests (default: 30m)")

	return cmd
}

func runServe(cmd *cobra.Command, _ []string) error {
	cc := NewCommandContext(cmd)
	uiCfg := cc.Cfg.GetUIConfig()

	src, err := openStream(cc.Cfg, cc.Logger)
	if err != nil {
		return err
	}
	defer src.Close()

	server := ui.NewServer(ui.Config{
		Stream:        src,
		Posture:       core.ParsePosture(cc.Cfg.Posture),
		Port:          uiCfg.Port,
		SessionSecret: uiCfg.SessionSecret,
		IdleTimeout:   uiCfg.IdleTimeout,
		Logger:        cc.Logger,
		Dev:           uiCfg.Dev,
	})

	url := fmt.Sprintf("http://localhost:%d", uiCfg.Port)
	if uiCfg.AutoOpen {
		go func() {
			// Give the listener a moment before the browser asks for the page
			time.Sleep(200 * time.Millisecond)
			openBrowser(url)
		}()
	}

	out := cmd.OutOrStdout()
	_, _ = fmt.Fprintf(out, "Serving Risk Command Center on %s\n", url)
	_, _ = fmt.Fprintln(out, "Press Ctrl+C to stop")

	return server.Serve(cmd.Context())
}

// openBrowser opens the default browser to the specified URL.
func openBrowser(url string) {
	var cmd *exec.Cmd

	switch runtime.GOOS {
	case "darwin":
		cmd = exec.Command("open", url) //nolint:noctx
	case "linux":
		cmd = exec.Command("xdg-open", url) //nolint:noctx
	case "windows":
		cmd = exec.Command("rundll32", "url.dll,FileProtocolHandler", url) //nolint:noctx
	default:
		return
	}

	_ = cmd.Start()
}
