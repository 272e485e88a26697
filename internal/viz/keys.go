package viz

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines all keyboard shortcuts for the application.
type KeyMap struct {
	Generate key.Binding
	Start    key.Binding
	Stop     key.Binding
	Reset    key.Binding
	NextAlg  key.Binding
	PrevAlg  key.Binding
	Smaller  key.Binding
	Larger   key.Binding
	Faster   key.Binding
	Slower   key.Binding
	Theme    key.Binding
	Help     key.Binding
	Quit     key.Binding
}

// DefaultKeyMap returns the default key bindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Generate: key.NewBinding(
			key.WithKeys("g"),
			key.WithHelp("g", "generate"),
		),
		Start: key.NewBinding(
			key.WithKeys("s", "enter"),
			key.WithHelp("s/enter", "sort"),
		),
		Stop: key.NewBinding(
			key.WithKeys("x"),
			key.WithHelp("x", "stop"),
		),
		Reset: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "reset stats"),
		),
		NextAlg: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "next algorithm"),
		),
		PrevAlg: key.NewBinding(
			key.WithKeys("shift+tab"),
			key.WithHelp("shift+tab", "prev algorithm"),
		),
		Smaller: key.NewBinding(
			key.WithKeys("left", "h"),
			key.WithHelp("←/h", "size -10"),
		),
		Larger: key.NewBinding(
			key.WithKeys("right", "l"),
			key.WithHelp("→/l", "size +10"),
		),
		Faster: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "faster"),
		),
		Slower: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "slower"),
		),
		Theme: key.NewBinding(
			key.WithKeys("t"),
			key.WithHelp("t", "theme"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "help"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

// ShortHelp returns abbreviated help.
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Generate, k.Start, k.Stop, k.NextAlg, k.Help, k.Quit}
}

// FullHelp returns complete help.
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Generate, k.Start, k.Stop, k.Reset},
		{k.NextAlg, k.PrevAlg, k.Smaller, k.Larger},
		{k.Faster, k.Slower, k.Theme},
		{k.Help, k.Quit},
	}
}
