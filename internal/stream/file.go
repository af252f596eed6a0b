package stream

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/leapstack-labs/riskcc/pkg/core"
	"gopkg.in/yaml.v3"
)

// DefaultDebounce is how long File waits after the last write before reloading.
const DefaultDebounce = 100 * time.Millisecond

// scorecardFile is the on-disk layout of a scorecard fixture.
type scorecardFile struct {
	Scorecards []core.Scorecard `yaml:"scorecards"`
}

// File is a Static stream fed from a YAML scorecard file that is reloaded
// whenever the file changes.
type File struct {
	*Static

	path     string
	debounce time.Duration
	logger   *slog.Logger
}

// NewFile creates a file-backed stream. Nothing is read until Load or Run.
func NewFile(path string, logger *slog.Logger) *File {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &File{
		Static:   NewStatic(nil),
		path:     filepath.Clean(path),
		debounce: DefaultDebounce,
		logger:   logger,
	}
}

// Path returns the scorecard file path.
func (f *File) Path() string {
	return f.path
}

// Load reads the scorecard file and publishes its records.
// On error the previously published records are kept.
func (f *File) Load() error {
	records, err := ReadScorecards(f.path)
	if err != nil {
		return err
	}
	f.SetData(records)
	return nil
}

// Run loads the file, marks the stream online and reloads on change until
// ctx is cancelled. The stream is offline when Run returns.
func (f *File) Run(ctx context.Context) error {
	if err := f.Load(); err != nil {
		f.Close()
		return err
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		f.Close()
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer func() { _ = watcher.Close() }()

	// Watch the directory: editors often replace the file instead of writing it
	if err := watcher.Add(filepath.Dir(f.path)); err != nil {
		f.Close()
		return fmt.Errorf("failed to watch %s: %w", filepath.Dir(f.path), err)
	}

	f.Open()
	defer f.Close()

	f.logger.Debug("watching scorecard file", "path", f.path)

	// Reloads run on this goroutine so none can land after Run returns
	var debounce *time.Timer
	var reload <-chan time.Time
	defer func() {
		if debounce != nil {
			debounce.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != f.path {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}

			if debounce == nil {
				debounce = time.NewTimer(f.debounce)
				reload = debounce.C
			} else {
				debounce.Reset(f.debounce)
			}

		case <-reload:
			if err := f.Load(); err != nil {
				f.logger.Error("scorecard reload failed, keeping previous data", "path", f.path, "error", err)
				continue
			}
			f.logger.Debug("scorecards reloaded", "path", f.path)

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			f.logger.Error("watcher error", "error", err)
		}
	}
}

// ReadScorecards parses a YAML scorecard file.
func ReadScorecards(path string) ([]core.Scorecard, error) {
	data, err := os.ReadFile(path) //nolint:gosec // operator supplied path
	if err != nil {
		return nil, fmt.Errorf("failed to read scorecard file: %w", err)
	}
	return ParseScorecards(data)
}

// ParseScorecards decodes and validates scorecard YAML.
func ParseScorecards(data []byte) ([]core.Scorecard, error) {
	var doc scorecardFile
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("invalid scorecard yaml: %w", err)
	}

	seen := make(map[string]struct{}, len(doc.Scorecards))
	for i, rec := range doc.Scorecards {
		if rec.ControlID == "" {
			return nil, fmt.Errorf("scorecard %d: %w", i, errMissingControlID)
		}
		if _, dup := seen[rec.ControlID]; dup {
			return nil, fmt.Errorf("scorecard %d: duplicate control_id %q", i, rec.ControlID)
		}
		seen[rec.ControlID] = struct{}{}
	}

	return doc.Scorecards, nil
}

// MarshalScorecards encodes records in the scorecard file layout.
func MarshalScorecards(records []core.Scorecard) ([]byte, error) {
	return yaml.Marshal(scorecardFile{Scorecards: records})
}

var errMissingControlID = errors.New("control_id is required")
