package tui

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"

	"github.com/san-kum/sortviz/internal/engine"
	"github.com/san-kum/sortviz/internal/metrics"
)

const (
	defaultWidth  = 100
	defaultHeight = 20
	clearScreen   = "\033[2J\033[H"
	hideCursor    = "\033[?25l"
	showCursor    = "\033[?25h"
)

// LiveRenderer draws frames to a terminal without taking it over. Render only
// records the latest frame; Run repaints it at a fixed frame rate. When the
// output is not a terminal, nothing is drawn until the final frame.
type LiveRenderer struct {
	out       io.Writer
	frameRate int
	width     int
	height    int
	animate   bool
	styles    map[engine.Color]lipgloss.Style
	header    lipgloss.Style
	dim       lipgloss.Style

	mu          sync.Mutex
	values      []int
	colors      []engine.Color
	caption     string
	dirty       bool
	status      string
	comparisons uint64
	swaps       uint64
	running     bool
	history     []float64
	drawn       int
}

type Option func(*LiveRenderer)

func WithFrameRate(fps int) Option {
	return func(r *LiveRenderer) {
		if fps > 0 {
			r.frameRate = fps
		}
	}
}

func WithSize(width, height int) Option {
	return func(r *LiveRenderer) {
		if width > 0 {
			r.width = width
		}
		if height > 0 {
			r.height = height
		}
	}
}

// WithAnimation overrides terminal detection.
func WithAnimation(on bool) Option {
	return func(r *LiveRenderer) { r.animate = on }
}

// WithPalette sets the hex color used for each overlay color.
func WithPalette(hex map[engine.Color]string) Option {
	return func(r *LiveRenderer) {
		lr := lipgloss.NewRenderer(r.out)
		for c, h := range hex {
			r.styles[c] = lr.NewStyle().Foreground(lipgloss.Color(h))
		}
	}
}

func NewLiveRenderer(out io.Writer, opts ...Option) *LiveRenderer {
	lr := lipgloss.NewRenderer(out)
	r := &LiveRenderer{
		out:       out,
		frameRate: 30,
		width:     defaultWidth,
		height:    defaultHeight,
		animate:   IsTerminal(out),
		styles:    make(map[engine.Color]lipgloss.Style),
		header:    lr.NewStyle().Bold(true).Foreground(lipgloss.Color("255")),
		dim:       lr.NewStyle().Foreground(lipgloss.Color("242")),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// IsTerminal reports whether w is an interactive terminal.
func IsTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

func (r *LiveRenderer) Render(values []int, colors []engine.Color, caption string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.values = append(r.values[:0], values...)
	r.colors = append(r.colors[:0], colors...)
	r.caption = caption
	r.dirty = true
	r.history = append(r.history, metrics.AdjacentOrder(values))
}

func (r *LiveRenderer) OnStatus(text string) {
	r.mu.Lock()
	r.status = text
	r.mu.Unlock()
}

func (r *LiveRenderer) OnStatsChanged(comparisons, swaps uint64) {
	r.mu.Lock()
	r.comparisons, r.swaps = comparisons, swaps
	r.mu.Unlock()
}

func (r *LiveRenderer) OnRunStateChanged(running bool) {
	r.mu.Lock()
	r.running = running
	r.mu.Unlock()
}

// Run repaints at the configured frame rate until ctx is done, then draws the
// final frame once more.
func (r *LiveRenderer) Run(ctx context.Context) error {
	if r.animate {
		fmt.Fprint(r.out, hideCursor)
		defer fmt.Fprint(r.out, showCursor)
	}

	ticker := time.NewTicker(time.Second / time.Duration(r.frameRate))
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return r.flush(true)
		case <-ticker.C:
			if !r.animate {
				continue
			}
			if err := r.flush(false); err != nil {
				return err
			}
		}
	}
}

func (r *LiveRenderer) flush(final bool) error {
	r.mu.Lock()
	if !r.dirty && !final {
		r.mu.Unlock()
		return nil
	}
	r.dirty = false
	r.drawn++
	view := r.viewLocked()
	r.mu.Unlock()

	if r.animate {
		view = clearScreen + view
	}
	_, err := io.WriteString(r.out, view)
	return err
}

// Drawn returns how many frames have been written.
func (r *LiveRenderer) Drawn() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.drawn
}

func (r *LiveRenderer) View() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.viewLocked()
}

func (r *LiveRenderer) paint(c engine.Color, s string) string {
	st, ok := r.styles[c]
	if !ok {
		return s
	}
	return st.Render(s)
}

func (r *LiveRenderer) viewLocked() string {
	var b strings.Builder
	b.WriteString("  " + r.header.Render(r.caption) + "\n")

	cols := Columns(r.values, r.colors, r.width)
	rule := "  " + r.dim.Render(strings.Repeat("─", max(len(cols), 1))) + "\n"
	b.WriteString(rule)
	for _, row := range DrawBars(cols, r.height, r.paint) {
		b.WriteString("  " + row + "\n")
	}
	b.WriteString(rule)

	b.WriteString(fmt.Sprintf("  comparisons %d  swaps %d  elements %d\n", r.comparisons, r.swaps, len(r.values)))
	if len(r.history) > 1 {
		b.WriteString("  sortedness " + r.dim.Render(Sparkline(r.history, min(len(cols), 60), 0, 1)) + "\n")
	}
	if r.status != "" {
		b.WriteString("  " + r.dim.Render(r.status) + "\n")
	}
	return b.String()
}
