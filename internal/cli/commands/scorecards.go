package commands

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/leapstack-labs/riskcc/internal/cli/output"
	"github.com/leapstack-labs/riskcc/internal/stream"
	"github.com/leapstack-labs/riskcc/internal/ui/features/common"
	"github.com/leapstack-labs/riskcc/pkg/core"
)

// NewScorecardsCommand creates the scorecards command.
func NewScorecardsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "scorecards",
		Short: "List the KRI scorecards the dashboard would show",
		Long: `List the KRI scorecards of the configured stream in dashboard order.

Without --scorecards the built-in scorecards are listed. The yaml output is
a valid scorecard file, so it can seed a fixture for --scorecards.`,
		Example: `  riskcc scorecards
  riskcc scorecards -o json
  riskcc scorecards -o yaml > scorecards.yaml`,
		RunE: runScorecards,
	}
}

func runScorecards(cmd *cobra.Command, _ []string) error {
	cc := NewCommandContext(cmd)

	src, err := openStream(cc.Cfg, cc.Logger)
	if err != nil {
		return err
	}
	defer src.Close()

	return renderScorecards(cc.Renderer, src.CurrentData())
}

func renderScorecards(r *output.Renderer, records []core.Scorecard) error {
	w := r.Out()

	switch r.Mode() {
	case output.ModeJSON:
		if records == nil {
			records = []core.Scorecard{}
		}
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(records)
	case output.ModeYAML:
		data, err := stream.MarshalScorecards(records)
		if err != nil {
			return err
		}
		_, err = w.Write(data)
		return err
	case output.ModeMarkdown:
		return renderScorecardTable(w, records, nil, true)
	default:
		return renderScorecardTable(w, records, r.Styles(), false)
	}
}

func renderScorecardTable(w io.Writer, records []core.Scorecard, styles *output.Styles, markdown bool) error {
	if len(records) == 0 {
		_, _ = fmt.Fprintln(w, "(0 scorecards)")
		return nil
	}

	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"Control ID", "Status", "Audit Grade", "Risk Score"})

	for _, rec := range records {
		status, grade := rec.Status, rec.Grade
		if styles != nil {
			status = toneStyle(styles, common.StatusTone(rec.Status)).Render(status)
			grade = toneStyle(styles, common.GradeTone(rec.Grade)).Render(grade)
		}
		t.AppendRow(table.Row{rec.ControlID, status, grade, rec.Value})
	}

	if markdown {
		t.RenderMarkdown()
	} else {
		t.Render()
	}
	_, _ = fmt.Fprintf(w, "(%d scorecards)\n", len(records))
	return nil
}

func toneStyle(styles *output.Styles, tone common.Tone) lipgloss.Style {
	switch tone {
	case common.ToneGood:
		return styles.Success
	case common.ToneWarn:
		return styles.Warning
	case common.ToneBad:
		return styles.Error
	default:
		return styles.Muted
	}
}
