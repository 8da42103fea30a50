// Package output renders run summaries for the terminal.
package output

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"wranglecli/internal/dataprocessing"
	"wranglecli/pkg/contracts/domain"
)

// BoundsSummary describes the IQR fence of one column
type BoundsSummary struct {
	Column     string        `json:"column"`
	Multiplier float64       `json:"multiplier"`
	Bounds     domain.Bounds `json:"bounds"`
	Values     int           `json:"values"`
	Outside    int           `json:"outside"`
}

// Summary is what a command reports once it finishes
type Summary struct {
	Pipeline string                       `json:"pipeline"`
	RunID    string                       `json:"run_id"`
	Rows     int                          `json:"rows"`
	Columns  int                          `json:"columns"`
	Stages   []dataprocessing.StageReport `json:"stages,omitempty"`
	Bounds   *BoundsSummary               `json:"bounds,omitempty"`
	Outputs  []string                     `json:"outputs,omitempty"`
}

// Renderer writes a Summary to an output stream
type Renderer interface {
	Render(s Summary) error
}

// NewRenderer returns the renderer for format "text" or "json"
func NewRenderer(format string, w io.Writer) (Renderer, error) {
	switch strings.ToLower(format) {
	case "", "text":
		return &TextRenderer{w: w}, nil
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return &JSONRenderer{enc: enc}, nil
	default:
		return nil, fmt.Errorf("unknown report format %q", format)
	}
}

var (
	styleTitle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("39"))
	styleHeader  = lipgloss.NewStyle().Bold(true).Underline(true)
	styleDropped = lipgloss.NewStyle().Foreground(lipgloss.Color("220"))
	styleMuted   = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	styleBox     = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("63")).
			Padding(0, 1)
)

// TextRenderer prints a boxed, colorized summary
type TextRenderer struct {
	w io.Writer
}

func (r *TextRenderer) Render(s Summary) error {
	var b strings.Builder

	b.WriteString(styleTitle.Render(s.Pipeline))
	if s.RunID != "" {
		b.WriteString(" " + styleMuted.Render("run "+s.RunID))
	}
	b.WriteString("\n")

	if len(s.Stages) > 0 {
		b.WriteString("\n" + stageTable(s.Stages) + "\n")
	}

	if s.Bounds != nil {
		bs := s.Bounds
		fmt.Fprintf(&b, "\n%s  multiplier %.2f\n", styleHeader.Render(bs.Column), bs.Multiplier)
		fmt.Fprintf(&b, "lower %g  upper %g\n", bs.Bounds.Lower, bs.Bounds.Upper)
		fmt.Fprintf(&b, "%s of %d values outside\n", styleDropped.Render(fmt.Sprint(bs.Outside)), bs.Values)
	}

	fmt.Fprintf(&b, "\n%d rows x %d columns\n", s.Rows, s.Columns)
	for _, p := range s.Outputs {
		b.WriteString(styleMuted.Render("wrote "+p) + "\n")
	}

	_, err := fmt.Fprintln(r.w, styleBox.Render(strings.TrimRight(b.String(), "\n")))
	return err
}

func stageTable(stages []dataprocessing.StageReport) string {
	nameWidth := len("stage")
	for _, st := range stages {
		if len(st.Name) > nameWidth {
			nameWidth = len(st.Name)
		}
	}

	lines := []string{styleHeader.Render(fmt.Sprintf("%-*s %8s %8s %6s %10s", nameWidth, "stage", "rows", "dropped", "cols", "time"))}
	for _, st := range stages {
		dropped := fmt.Sprintf("%8d", st.RowsDropped())
		if st.RowsDropped() > 0 {
			dropped = styleDropped.Render(dropped)
		}
		lines = append(lines, fmt.Sprintf("%-*s %8d %s %6d %10s",
			nameWidth, st.Name, st.RowsOut, dropped, st.ColumnsOut, st.Duration.Round(time.Microsecond)))
	}
	return strings.Join(lines, "\n")
}

// JSONRenderer prints the summary as one indented JSON document
type JSONRenderer struct {
	enc *json.Encoder
}

func (r *JSONRenderer) Render(s Summary) error {
	return r.enc.Encode(s)
}
