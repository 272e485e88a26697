package viz

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/san-kum/sortviz/internal/engine"
)

type styles struct {
	bars    [6]lipgloss.Style
	title   lipgloss.Style
	label   lipgloss.Style
	value   lipgloss.Style
	muted   lipgloss.Style
	err     lipgloss.Style
	running lipgloss.Style
	idle    lipgloss.Style
	panel   lipgloss.Style
	graph   lipgloss.Style
}

func newStyles(t Theme) styles {
	s := styles{
		title: lipgloss.NewStyle().
			Bold(true).
			Foreground(t.Title),
		label: lipgloss.NewStyle().
			Foreground(t.Muted).
			Width(13),
		value: lipgloss.NewStyle().
			Foreground(t.Text).
			Bold(true),
		muted: lipgloss.NewStyle().
			Foreground(t.Muted),
		err: lipgloss.NewStyle().
			Foreground(t.Error).
			Bold(true),
		running: lipgloss.NewStyle().
			Bold(true).
			Foreground(t.Bar(engine.Sorted)),
		idle: lipgloss.NewStyle().
			Bold(true).
			Foreground(t.Bar(engine.Comparing)),
		panel: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(t.Border).
			Padding(0, 1),
		graph: lipgloss.NewStyle().
			Foreground(t.Bar(engine.Sorted)),
	}
	for i := range s.bars {
		s.bars[i] = lipgloss.NewStyle().Foreground(t.Bars[i])
	}
	return s
}

func (s styles) paint(c engine.Color, text string) string {
	if int(c) < len(s.bars) {
		return s.bars[c].Render(text)
	}
	return text
}
