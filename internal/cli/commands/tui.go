package commands

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/leapstack-labs/riskcc/internal/tui"
	"github.com/leapstack-labs/riskcc/internal/ui/state"
	"github.com/leapstack-labs/riskcc/pkg/core"
)

// NewTUICommand creates the tui command.
func NewTUICommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tui",
		Short: "Show the dashboard in the terminal",
		Long: `Show the Risk Command Center in the terminal.

Use 1, 2 and 3 (or tab) to switch between the KRI dashboard, audit reports
and active alerts, the arrow keys to move between scorecards and enter to
open a control's drift analysis. Press ? for all keys.`,
		Example: `  riskcc tui
  riskcc tui --scorecards scorecards.yaml --no-color`,
		RunE: runTUI,
	}

	cmd.Flags().Bool("inline", false, "Render below the prompt instead of using the full screen")

	return cmd
}

func runTUI(cmd *cobra.Command, _ []string) error {
	cc := NewCommandContext(cmd)

	src, err := openStream(cc.Cfg, cc.Logger)
	if err != nil {
		return err
	}
	defer src.Close()

	stop := watchStream(cmd.Context(), src, cc.Logger)
	defer stop()

	inline, _ := cmd.Flags().GetBool("inline")
	view := state.NewView(core.ParsePosture(cc.Cfg.Posture))

	opts := tui.Options{
		Styles:    tui.NewStyles(cc.Renderer.LipglossRenderer()),
		AltScreen: !inline,
		Logger:    cc.Logger,
	}
	// Bubble Tea manages the real terminal itself; only redirected streams are passed on
	if in := cmd.InOrStdin(); in != os.Stdin {
		opts.Input = in
	}
	if out := cmd.OutOrStdout(); out != os.Stdout {
		opts.Output = out
	}

	return tui.Run(cmd.Context(), view, src, opts)
}
