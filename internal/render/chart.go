package render

import (
	"fmt"
	"io"
	"strings"

	"github.com/abelzeko/hydro-dash/internal/entities"
	"github.com/charmbracelet/lipgloss"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
)

var (
	sparkTicks = []rune("▁▂▃▄▅▆▇█")
	titleStyle = lipgloss.NewStyle().Bold(true)
)

// Sparkline draws values as a single line of block characters, one per value
func Sparkline(values []float64) string {
	if len(values) == 0 {
		return ""
	}
	lo, hi := values[0], values[0]
	for _, v := range values {
		lo = min(lo, v)
		hi = max(hi, v)
	}

	var b strings.Builder
	for _, v := range values {
		idx := 0
		if hi > lo {
			idx = int((v - lo) / (hi - lo) * float64(len(sparkTicks)-1))
		}
		b.WriteRune(sparkTicks[idx])
	}
	return b.String()
}

// FlowStats summarizes a series
type FlowStats struct {
	Min, Max, Mean float64
}

// Stats computes min, max and mean rate of a non-empty series
func Stats(points []entities.FlowPoint) FlowStats {
	if len(points) == 0 {
		return FlowStats{}
	}
	s := FlowStats{Min: points[0].Rate, Max: points[0].Rate}
	var sum float64
	for _, p := range points {
		s.Min = min(s.Min, p.Rate)
		s.Max = max(s.Max, p.Rate)
		sum += p.Rate
	}
	s.Mean = sum / float64(len(points))
	return s
}

// RenderFlowChart writes the title, a sparkline and a summary table
func RenderFlowChart(w io.Writer, series entities.FlowSeries) error {
	if _, err := fmt.Fprintln(w, titleStyle.Render(series.Title())); err != nil {
		return err
	}
	if len(series.Points) == 0 {
		_, err := fmt.Fprintln(w, panelStyle.Render(NoResultsText))
		return err
	}

	rates := make([]float64, len(series.Points))
	for i, p := range series.Points {
		rates[i] = p.Rate
	}
	if _, err := fmt.Fprintln(w, Sparkline(rates)); err != nil {
		return err
	}

	stats := Stats(series.Points)
	first, last := series.Points[0], series.Points[len(series.Points)-1]

	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"开始", "结束", "点数", "最小流量(m³/s)", "最大流量(m³/s)", "平均流量(m³/s)"})
	t.AppendRow(table.Row{
		first.Time.Format("2006-01-02 15:04"),
		last.Time.Format("2006-01-02 15:04"),
		len(series.Points),
		fmt.Sprintf("%.2f", stats.Min),
		fmt.Sprintf("%.2f", stats.Max),
		fmt.Sprintf("%.2f", stats.Mean),
	})
	t.SetColumnConfigs([]table.ColumnConfig{
		{Number: 3, Align: text.AlignRight},
		{Number: 4, Align: text.AlignRight},
		{Number: 5, Align: text.AlignRight},
		{Number: 6, Align: text.AlignRight},
	})
	t.Render()
	return nil
}
