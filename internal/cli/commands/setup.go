package commands

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/spf13/cobra"

	"github.com/leapstack-labs/riskcc/internal/cli/config"
	"github.com/leapstack-labs/riskcc/internal/cli/output"
	"github.com/leapstack-labs/riskcc/internal/stream"
	"github.com/leapstack-labs/riskcc/internal/ui"
	"github.com/leapstack-labs/riskcc/pkg/core"
)

// CommandContext holds common dependencies for CLI commands.
type CommandContext struct {
	Cfg      *config.Config
	Logger   *slog.Logger
	Renderer *output.Renderer
}

// NewCommandContext creates a CommandContext from the loaded config.
func NewCommandContext(cmd *cobra.Command) *CommandContext {
	cfg := getConfig()
	logger := config.GetLogger(cmd.Context())
	r := output.NewRendererWithColor(cmd.OutOrStdout(), cmd.ErrOrStderr(), output.Mode(cfg.OutputFormat), !cfg.NoColor)

	return &CommandContext{
		Cfg:      cfg,
		Logger:   logger,
		Renderer: r,
	}
}

// getConfig returns the current configuration, or defaults when no
// config was loaded (commands run outside the root command in tests).
func getConfig() *config.Config {
	if cfg := config.GetCurrentConfig(); cfg != nil {
		return cfg
	}
	return &config.Config{
		OutputFormat: config.DefaultOutput,
		Posture:      config.DefaultPosture,
		UI:           config.DefaultUIConfig(),
	}
}

// riskSource is a stream the CLI owns: it can be opened, closed and fed.
type riskSource interface {
	core.WritableRiskStream
	Open()
	Close()
}

// openStream builds the configured stream. Without a scorecard file the
// built-in scorecards are served; with one, the file is read up front so a
// broken file fails the command instead of an empty dashboard.
func openStream(cfg *config.Config, logger *slog.Logger) (riskSource, error) {
	if cfg.ScorecardsFile == "" {
		s := stream.NewDefault()
		s.Open()
		return s, nil
	}

	if err := cfg.ValidateScorecardsFile(); err != nil {
		return nil, err
	}
	f := stream.NewFile(cfg.ScorecardsFile, logger)
	if err := f.Load(); err != nil {
		return nil, fmt.Errorf("failed to load scorecards: %w", err)
	}
	logger.Debug("scorecards loaded", "path", f.Path(), "count", len(f.CurrentData()))
	return f, nil
}

// watchStream runs the stream's reload loop, if it has one, until the
// returned stop func is called.
func watchStream(ctx context.Context, s riskSource, logger *slog.Logger) (stop func()) {
	runner, ok := s.(ui.Runner)
	if !ok {
		return func() {}
	}

	ctx, cancel := context.WithCancel(ctx)
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		if err := runner.Run(ctx); err != nil {
			logger.Error("scorecard watcher stopped", "error", err)
		}
	}()

	return func() {
		cancel()
		wg.Wait()
	}
}
