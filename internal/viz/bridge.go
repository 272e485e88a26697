package viz

import (
	"sync"
	"sync/atomic"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/san-kum/sortviz/internal/engine"
)

// programRef is a shared reference to the tea.Program.
// Because bubbletea copies the model on every Update, the bridge needs a
// pointer that survives copies.
type programRef struct {
	mu      sync.RWMutex
	program *tea.Program
}

func (r *programRef) SetProgram(p *tea.Program) {
	r.mu.Lock()
	r.program = p
	r.mu.Unlock()
}

func (r *programRef) Send(msg tea.Msg) {
	r.mu.RLock()
	p := r.program
	r.mu.RUnlock()
	if p != nil {
		p.Send(msg)
	}
}

type (
	// frameMsg announces that a newer frame is waiting in the Bridge.
	frameMsg   struct{}
	statusMsg  string
	runningMsg bool
)

type frame struct {
	values      []int
	colors      []engine.Color
	caption     string
	comparisons uint64
	swaps       uint64
}

// Bridge is the engine.Renderer and run.Listener of the interactive app. Frames
// and counters are coalesced: the worker only overwrites the latest values and
// at most one frameMsg is in flight, so a fast sort cannot flood the program.
type Bridge struct {
	ref     programRef
	pending atomic.Bool

	mu     sync.Mutex
	latest frame
}

func NewBridge() *Bridge {
	return &Bridge{}
}

func (b *Bridge) SetProgram(p *tea.Program) { b.ref.SetProgram(p) }

func (b *Bridge) Render(values []int, colors []engine.Color, caption string) {
	b.mu.Lock()
	b.latest.values = append(b.latest.values[:0], values...)
	b.latest.colors = append(b.latest.colors[:0], colors...)
	b.latest.caption = caption
	b.mu.Unlock()
	b.notify()
}

func (b *Bridge) OnStatsChanged(comparisons, swaps uint64) {
	b.mu.Lock()
	b.latest.comparisons, b.latest.swaps = comparisons, swaps
	b.mu.Unlock()
	b.notify()
}

func (b *Bridge) OnStatus(text string) { b.ref.Send(statusMsg(text)) }

func (b *Bridge) OnRunStateChanged(running bool) { b.ref.Send(runningMsg(running)) }

func (b *Bridge) notify() {
	if b.pending.CompareAndSwap(false, true) {
		b.ref.Send(frameMsg{})
	}
}

// take returns a copy of the latest frame and re-arms notification.
func (b *Bridge) take() frame {
	b.pending.Store(false)
	b.mu.Lock()
	defer b.mu.Unlock()
	return frame{
		values:      append([]int(nil), b.latest.values...),
		colors:      append([]engine.Color(nil), b.latest.colors...),
		caption:     b.latest.caption,
		comparisons: b.latest.comparisons,
		swaps:       b.latest.swaps,
	}
}
