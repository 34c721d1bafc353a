package headless

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"
)

var (
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("86"))
	labelStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("241")).Width(12)
	valueStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	warnStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("208"))
	boxStyle   = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("63")).
			Padding(0, 1)
)

// FormatReport renders the end-of-run summary, with an fps plot when at
// least two frames were measured.
func FormatReport(r Result) string {
	s := r.Summary
	var b strings.Builder
	b.WriteString(titleStyle.Render("gravview headless run") + "\n\n")

	row := func(label, value string) {
		b.WriteString(labelStyle.Render(label) + valueStyle.Render(value) + "\n")
	}
	row("frames", fmt.Sprintf("%d", r.Frames))
	row("particles", fmt.Sprintf("%d", r.Particles))
	if s.Frames > 0 {
		row("fps mean", fmt.Sprintf("%.1f ± %.1f", s.Mean, s.StdDev))
		row("fps p10", fmt.Sprintf("%.1f", s.P10))
		row("fps p50", fmt.Sprintf("%.1f", s.P50))
		row("fps p90", fmt.Sprintf("%.1f", s.P90))
	}
	dropped := fmt.Sprintf("%d", s.Dropped)
	if s.Dropped > 0 {
		dropped = warnStyle.Render(dropped)
	}
	b.WriteString(labelStyle.Render("dropped") + dropped)

	out := boxStyle.Render(b.String())
	if len(r.History) > 1 {
		graph := asciigraph.Plot(r.History,
			asciigraph.Height(8),
			asciigraph.Width(60),
			asciigraph.Caption("fps per frame"),
		)
		out += "\n" + graph
	}
	return out
}
