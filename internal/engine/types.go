package engine

import (
	"errors"
	"fmt"
	"strings"
	"sync/atomic"
)

// ErrUnknownAlgorithm is returned when an algorithm name or value is not recognised.
var ErrUnknownAlgorithm = errors.New("engine: unknown algorithm")

type Algorithm int

const (
	Bubble Algorithm = iota
	Quick
	Merge
	Insertion
	Selection
)

var algorithmNames = [...]struct{ key, display string }{
	Bubble:    {"bubble", "Bubble Sort"},
	Quick:     {"quick", "Quick Sort"},
	Merge:     {"merge", "Merge Sort"},
	Insertion: {"insertion", "Insertion Sort"},
	Selection: {"selection", "Selection Sort"},
}

// Algorithms lists every algorithm in menu order.
func Algorithms() []Algorithm {
	return []Algorithm{Bubble, Quick, Merge, Insertion, Selection}
}

func (a Algorithm) Valid() bool { return a >= Bubble && a <= Selection }

// String returns the display name, e.g. "Quick Sort".
func (a Algorithm) String() string {
	if !a.Valid() {
		return fmt.Sprintf("Algorithm(%d)", int(a))
	}
	return algorithmNames[a].display
}

// Key returns the short name used by flags and config files.
func (a Algorithm) Key() string {
	if !a.Valid() {
		return ""
	}
	return algorithmNames[a].key
}

// ParseAlgorithm accepts a key ("merge") or a display name ("Merge Sort"), case-insensitively.
func ParseAlgorithm(s string) (Algorithm, error) {
	norm := strings.ToLower(strings.TrimSpace(s))
	norm = strings.TrimSuffix(norm, " sort")
	norm = strings.TrimSuffix(norm, "sort")
	norm = strings.TrimSuffix(norm, "_")
	norm = strings.TrimSuffix(norm, "-")
	for _, a := range Algorithms() {
		if algorithmNames[a].key == norm {
			return a, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownAlgorithm, s)
}

// Color tags the algorithmic role of one element in a rendered step.
type Color uint8

const (
	Default Color = iota
	Comparing
	Pivot
	Candidate
	Swapped
	Sorted
)

func (c Color) String() string {
	switch c {
	case Default:
		return "default"
	case Comparing:
		return "comparing"
	case Pivot:
		return "pivot"
	case Candidate:
		return "candidate"
	case Swapped:
		return "swapped"
	case Sorted:
		return "sorted"
	}
	return fmt.Sprintf("Color(%d)", uint8(c))
}

// Renderer draws one step. values and colors have the same length and are only
// valid for the duration of the call.
type Renderer interface {
	Render(values []int, colors []Color, caption string)
}

// RendererFunc adapts a function to Renderer.
type RendererFunc func(values []int, colors []Color, caption string)

func (f RendererFunc) Render(values []int, colors []Color, caption string) {
	f(values, colors, caption)
}

// Tracker is the part of the run state an algorithm may touch.
type Tracker interface {
	Running() bool
	AddComparison()
	AddSwap()
}

type Stats struct {
	Comparisons uint64 `json:"comparisons"`
	Swaps       uint64 `json:"swaps"`
}

// Frame is one rendered step together with the counters at render time.
type Frame struct {
	Values  []int
	Colors  []Color
	Caption string
	Stats   Stats
}

// Observer receives every frame of a run. Frames are snapshots and may be retained.
type Observer interface {
	OnFrame(f Frame)
}

// Counter is a lock-free Tracker. The zero value is idle.
type Counter struct {
	running     atomic.Bool
	comparisons atomic.Uint64
	swaps       atomic.Uint64
}

// NewCounter returns a Counter that is already running.
func NewCounter() *Counter {
	c := &Counter{}
	c.running.Store(true)
	return c
}

func (c *Counter) Running() bool     { return c.running.Load() }
func (c *Counter) SetRunning(v bool) { c.running.Store(v) }
func (c *Counter) AddComparison()    { c.comparisons.Add(1) }
func (c *Counter) AddSwap()          { c.swaps.Add(1) }
func (c *Counter) Stop()             { c.running.Store(false) }
func (c *Counter) Stats() Stats {
	return Stats{Comparisons: c.comparisons.Load(), Swaps: c.swaps.Load()}
}

// Reset zeroes both counters; the running flag is left alone.
func (c *Counter) Reset() {
	c.comparisons.Store(0)
	c.swaps.Store(0)
}
