package render

import (
	"fmt"
	"io"

	"github.com/abelzeko/hydro-dash/internal/entities"
	"github.com/charmbracelet/lipgloss"
	"github.com/jedib0t/go-pretty/v6/table"
)

var (
	panelStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			Padding(0, 1)
	errorPanelStyle = panelStyle.
			BorderForeground(lipgloss.Color("9")).
			Foreground(lipgloss.Color("9"))
)

// TextView draws states to a terminal: a table for results and a bordered
// panel for empty and error states
type TextView struct {
	w io.Writer
}

// NewTextView creates a text view writing to w
func NewTextView(w io.Writer) *TextView {
	return &TextView{w: w}
}

// Show implements View
func (v *TextView) Show(state entities.RenderState) error {
	switch state.Kind {
	case entities.StateResults:
		return v.renderTable(state)
	case entities.StateError:
		_, err := fmt.Fprintln(v.w, errorPanelStyle.Render(state.Message))
		return err
	default:
		_, err := fmt.Fprintln(v.w, panelStyle.Render(NoResultsText))
		return err
	}
}

func (v *TextView) renderTable(state entities.RenderState) error {
	t := table.NewWriter()
	t.SetOutputMirror(v.w)
	t.SetStyle(table.StyleLight)

	header := make(table.Row, len(state.Columns))
	for i, col := range state.Columns {
		header[i] = col
	}
	t.AppendHeader(header)

	for _, r := range state.Rows {
		row := make(table.Row, len(r))
		for i, cell := range r {
			row[i] = cell
		}
		t.AppendRow(row)
	}

	t.Render()
	_, err := fmt.Fprintf(v.w, "(%d rows)\n", len(state.Rows))
	return err
}
