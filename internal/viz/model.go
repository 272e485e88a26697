package viz

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"

	"github.com/san-kum/sortviz/internal/engine"
	"github.com/san-kum/sortviz/internal/metrics"
	"github.com/san-kum/sortviz/internal/run"
	"github.com/san-kum/sortviz/internal/sequence"
	"github.com/san-kum/sortviz/internal/tui"
)

const (
	historyCapacity = 600
	sidebarWidth    = 36
	sizeStep        = 10
	speedStep       = 10
	minSpeedMs      = 1
)

// Controller is the subset of run.Controller the app drives.
type Controller interface {
	Generate(n int) ([]int, error)
	Start(alg engine.Algorithm, speedMs int) error
	Stop()
	ResetStats() error
	State() run.RunState
}

// Options are the initial settings of the app.
type Options struct {
	Algorithm engine.Algorithm
	Size      int
	SpeedMs   int
	Theme     string
}

// opDoneMsg reports the result of a controller call made off the event loop.
type opDoneMsg struct {
	op  string
	err error
}

type Model struct {
	ctrl   Controller
	bridge *Bridge
	keys   KeyMap
	help   help.Model

	theme  int
	styles styles

	algorithm engine.Algorithm
	size      int
	speedMs   int

	current  frame
	status   string
	errMsg   string
	running  bool
	history  []float64
	showHelp bool

	width, height int
}

func NewModel(ctrl Controller, bridge *Bridge, opts Options) Model {
	if !opts.Algorithm.Valid() {
		opts.Algorithm = engine.Bubble
	}
	if opts.Size <= 0 {
		opts.Size = sequence.DefaultSize
	}
	theme := themeIndex(opts.Theme)
	return Model{
		ctrl:      ctrl,
		bridge:    bridge,
		keys:      DefaultKeyMap(),
		help:      help.New(),
		theme:     theme,
		styles:    newStyles(Themes[theme]),
		algorithm: opts.Algorithm,
		size:      min(max(opts.Size, sequence.MinSize), sequence.MaxSize),
		speedMs:   min(max(opts.SpeedMs, minSpeedMs), run.MaxSpeedMs),
		status:    "Ready",
		width:     100,
		height:    30,
	}
}

func (m Model) Init() tea.Cmd {
	return generateCmd(m.ctrl, m.size)
}

// Controller calls run as commands: they report back through the Bridge,
// which sends to the program and would block if called from Update.
func generateCmd(c Controller, n int) tea.Cmd {
	return func() tea.Msg {
		_, err := c.Generate(n)
		return opDoneMsg{op: "generate", err: err}
	}
}

func startCmd(c Controller, alg engine.Algorithm, speedMs int) tea.Cmd {
	return func() tea.Msg {
		return opDoneMsg{op: "start", err: c.Start(alg, speedMs)}
	}
}

func stopCmd(c Controller) tea.Cmd {
	return func() tea.Msg {
		c.Stop()
		return opDoneMsg{op: "stop"}
	}
}

func resetCmd(c Controller) tea.Cmd {
	return func() tea.Msg {
		return opDoneMsg{op: "reset", err: c.ResetStats()}
	}
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.help.Width = msg.Width

	case frameMsg:
		m.current = m.bridge.take()
		if len(m.current.values) > 0 {
			m.history = append(m.history, metrics.AdjacentOrder(m.current.values))
			if len(m.history) > historyCapacity {
				m.history = m.history[len(m.history)-historyCapacity:]
			}
		}

	case statusMsg:
		m.status = string(msg)
		m.errMsg = ""

	case runningMsg:
		m.running = bool(msg)
		if m.running {
			m.history = m.history[:0]
		}

	case opDoneMsg:
		if msg.err != nil {
			m.errMsg = describeError(msg.op, msg.err)
		}
	}
	return m, nil
}

func describeError(op string, err error) string {
	switch {
	case errors.Is(err, run.ErrAlreadyRunning):
		return "Sorting in progress"
	case errors.Is(err, run.ErrEmptySequence):
		return "Generate an array first"
	}
	return fmt.Sprintf("%s: %v", op, err)
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Sequence(stopCmd(m.ctrl), tea.Quit)

	case key.Matches(msg, m.keys.Generate):
		return m, generateCmd(m.ctrl, m.size)

	case key.Matches(msg, m.keys.Start):
		return m, startCmd(m.ctrl, m.algorithm, m.speedMs)

	case key.Matches(msg, m.keys.Stop):
		return m, stopCmd(m.ctrl)

	case key.Matches(msg, m.keys.Reset):
		return m, resetCmd(m.ctrl)

	case key.Matches(msg, m.keys.NextAlg):
		m.algorithm = shiftAlgorithm(m.algorithm, 1)

	case key.Matches(msg, m.keys.PrevAlg):
		m.algorithm = shiftAlgorithm(m.algorithm, -1)

	case key.Matches(msg, m.keys.Smaller), key.Matches(msg, m.keys.Larger):
		step := sizeStep
		if key.Matches(msg, m.keys.Smaller) {
			step = -sizeStep
		}
		size := min(max(m.size+step, sequence.MinSize), sequence.MaxSize)
		if size == m.size {
			return m, nil
		}
		m.size = size
		if m.running {
			return m, nil
		}
		return m, generateCmd(m.ctrl, m.size)

	case key.Matches(msg, m.keys.Faster):
		m.speedMs = max(m.speedMs-speedStep, minSpeedMs)

	case key.Matches(msg, m.keys.Slower):
		m.speedMs = min(m.speedMs+speedStep, run.MaxSpeedMs)

	case key.Matches(msg, m.keys.Theme):
		m.theme = (m.theme + 1) % len(Themes)
		m.styles = newStyles(Themes[m.theme])

	case key.Matches(msg, m.keys.Help):
		m.showHelp = !m.showHelp
		m.help.ShowAll = m.showHelp
	}
	return m, nil
}

func shiftAlgorithm(a engine.Algorithm, by int) engine.Algorithm {
	algs := engine.Algorithms()
	n := len(algs)
	for i, x := range algs {
		if x == a {
			return algs[((i+by)%n+n)%n]
		}
	}
	return algs[0]
}

func (m Model) View() string {
	s := m.styles

	state := s.idle.Render("IDLE")
	if m.running {
		state = s.running.Render("SORTING")
	}
	header := s.title.Render("sortviz") + "  " + state + "  " +
		s.muted.Render(fmt.Sprintf("%s · %d elements · %d ms", m.algorithm, m.size, m.speedMs))

	chartW := max(m.width-sidebarWidth-4, 10)
	chartH := max(m.height-8, 5)

	var chart strings.Builder
	chart.WriteString(s.value.Render(m.current.caption) + "\n")
	cols := tui.Columns(m.current.values, m.current.colors, chartW)
	chart.WriteString(strings.Join(tui.DrawBars(cols, chartH, s.paint), "\n"))

	body := lipgloss.JoinHorizontal(lipgloss.Top, chart.String(), "  ", m.sidebar())

	footer := m.help.View(m.keys)
	return lipgloss.JoinVertical(lipgloss.Left, header, "", body, "", footer)
}

func (m Model) sidebar() string {
	s := m.styles
	var b strings.Builder

	row := func(label, value string) {
		b.WriteString(s.label.Render(label) + s.value.Render(value) + "\n")
	}
	row("Algorithm", m.algorithm.String())
	row("Comparisons", fmt.Sprintf("%d", m.current.comparisons))
	row("Swaps", fmt.Sprintf("%d", m.current.swaps))
	row("Size", fmt.Sprintf("%d", m.size))
	row("Speed", fmt.Sprintf("%d ms", m.speedMs))
	row("Theme", Themes[m.theme].Name)

	b.WriteString("\n")
	if len(m.history) > 1 {
		plot := asciigraph.Plot(m.history,
			asciigraph.Height(6),
			asciigraph.Width(sidebarWidth-12),
			asciigraph.LowerBound(0),
			asciigraph.UpperBound(1),
			asciigraph.Precision(1),
			asciigraph.Caption("sortedness"))
		b.WriteString(s.graph.Render(plot) + "\n\n")
	}

	b.WriteString(s.muted.Render(m.status))
	if m.errMsg != "" {
		b.WriteString("\n" + s.err.Render(m.errMsg))
	}
	return s.panel.Width(sidebarWidth).Render(b.String())
}

// Run starts the interactive program and blocks until it exits. ctrl must
// report to bridge.
func Run(ctx context.Context, ctrl Controller, bridge *Bridge, opts Options) error {
	model := NewModel(ctrl, bridge, opts)
	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))
	bridge.SetProgram(p)
	defer bridge.SetProgram(nil)

	_, err := p.Run()
	if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		return nil
	}
	return err
}
