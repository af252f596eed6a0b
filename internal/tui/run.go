package tui

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/leapstack-labs/riskcc/internal/ui/state"
	"github.com/leapstack-labs/riskcc/pkg/core"
)

// Options configures Run.
type Options struct {
	Input     io.Reader
	Output    io.Writer
	Styles    Styles
	AltScreen bool
	Logger    *slog.Logger
}

// Run shows the dashboard until the user quits or ctx is cancelled.
// Stream updates are forwarded to the program as DataMsg.
func Run(ctx context.Context, view *state.View, stream core.RiskStream, opts Options) error {
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	progOpts := []tea.ProgramOption{tea.WithContext(ctx)}
	if opts.Input != nil {
		progOpts = append(progOpts, tea.WithInput(opts.Input))
	}
	if opts.Output != nil {
		progOpts = append(progOpts, tea.WithOutput(opts.Output))
	}
	if opts.AltScreen {
		progOpts = append(progOpts, tea.WithAltScreen())
	}

	p := tea.NewProgram(New(view, stream, opts.Styles), progOpts...)

	cancel := stream.Subscribe(func(records []core.Scorecard) {
		logger.Debug("stream updated", "scorecards", len(records))
		p.Send(DataMsg{Records: records})
	})
	defer cancel()

	if _, err := p.Run(); err != nil && ctx.Err() == nil {
		return fmt.Errorf("terminal dashboard: %w", err)
	}
	return nil
}
