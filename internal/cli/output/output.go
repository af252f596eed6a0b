// Package output renders command results for terminals and pipes.
package output

import (
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"golang.org/x/term"
)

// Mode selects how results are written.
type Mode string

// Output modes.
const (
	ModeAuto     Mode = "auto"
	ModeText     Mode = "text"
	ModeMarkdown Mode = "markdown"
	ModeJSON     Mode = "json"
	ModeYAML     Mode = "yaml"
)

// Styles holds the lipgloss styles used for text output.
type Styles struct {
	Header  lipgloss.Style
	Success lipgloss.Style
	Warning lipgloss.Style
	Error   lipgloss.Style
	Muted   lipgloss.Style
}

// NewStyles builds styles bound to renderer.
func NewStyles(renderer *lipgloss.Renderer) *Styles {
	return &Styles{
		Header:  renderer.NewStyle().Bold(true),
		Success: renderer.NewStyle().Foreground(lipgloss.Color("#34d399")),
		Warning: renderer.NewStyle().Foreground(lipgloss.Color("#fbbf24")),
		Error:   renderer.NewStyle().Foreground(lipgloss.Color("#f87171")).Bold(true),
		Muted:   renderer.NewStyle().Foreground(lipgloss.Color("#6b7280")),
	}
}

// Renderer writes command output in the selected mode.
type Renderer struct {
	out      io.Writer
	errOut   io.Writer
	mode     Mode
	styles   *Styles
	renderer *lipgloss.Renderer
}

// NewRenderer creates a renderer. ModeAuto resolves to text on a terminal
// and markdown otherwise.
func NewRenderer(out, errOut io.Writer, mode Mode) *Renderer {
	return NewRendererWithColor(out, errOut, mode, true)
}

// NewRendererWithColor is NewRenderer with colour optionally disabled.
func NewRendererWithColor(out, errOut io.Writer, mode Mode, color bool) *Renderer {
	if mode == "" {
		mode = ModeAuto
	}
	if mode == ModeAuto {
		if IsTerminal(out) {
			mode = ModeText
		} else {
			mode = ModeMarkdown
		}
	}

	var opts []termenv.OutputOption
	if !color {
		opts = append(opts, termenv.WithProfile(termenv.Ascii))
	}
	lr := lipgloss.NewRenderer(out, opts...)

	return &Renderer{
		out:      out,
		errOut:   errOut,
		mode:     mode,
		styles:   NewStyles(lr),
		renderer: lr,
	}
}

// IsTerminal reports whether w is a terminal.
func IsTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd())) //nolint:gosec // fd fits in int
}

// Mode returns the effective output mode.
func (r *Renderer) Mode() Mode {
	return r.mode
}

// Out returns the result writer.
func (r *Renderer) Out() io.Writer {
	return r.out
}

// ErrOut returns the diagnostics writer.
func (r *Renderer) ErrOut() io.Writer {
	return r.errOut
}

// Styles returns the text styles.
func (r *Renderer) Styles() *Styles {
	return r.styles
}

// LipglossRenderer returns the lipgloss renderer bound to the result writer.
func (r *Renderer) LipglossRenderer() *lipgloss.Renderer {
	return r.renderer
}
