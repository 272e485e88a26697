package metrics

import (
	"slices"
	"sync"

	"github.com/san-kum/sortviz/internal/engine"
)

// Point is one sampled frame of a run.
type Point struct {
	Step        int     `json:"step"`
	Comparisons uint64  `json:"comparisons"`
	Swaps       uint64  `json:"swaps"`
	Sortedness  float64 `json:"sortedness"`
	Inversions  int     `json:"inversions"`
}

const DefaultTimelineCapacity = 2048

// Timeline is an engine.Observer that keeps a bounded history of points.
// When the capacity is reached, every other point is dropped and the sampling
// stride doubles, so long runs keep an even spread over the whole run. The most
// recent frame is always reported as the last point.
type Timeline struct {
	mu       sync.Mutex
	capacity int
	stride   int
	seen     int
	points   []Point
	metrics  []Metric

	// latest frame when it was not sampled
	tail       Point
	tailValues []int
	hasTail    bool
}

func NewTimeline(capacity int) *Timeline {
	if capacity < 2 {
		capacity = DefaultTimelineCapacity
	}
	return &Timeline{
		capacity: capacity,
		stride:   1,
		points:   make([]Point, 0, capacity),
		metrics:  []Metric{NewSortedness(), NewInversions()},
	}
}

func (t *Timeline) OnFrame(f engine.Frame) {
	t.mu.Lock()
	defer t.mu.Unlock()

	p := Point{Step: t.seen, Comparisons: f.Stats.Comparisons, Swaps: f.Stats.Swaps}
	t.seen++

	if p.Step%t.stride == 0 && len(t.points) == t.capacity {
		t.compact()
	}
	if p.Step%t.stride != 0 {
		t.tail = p
		t.tailValues = append(t.tailValues[:0], f.Values...)
		t.hasTail = true
		return
	}
	t.points = append(t.points, t.measure(p, f.Values))
	t.hasTail = false
}

func (t *Timeline) measure(p Point, values []int) Point {
	f := engine.Frame{Values: values}
	for _, m := range t.metrics {
		m.Observe(f)
	}
	p.Sortedness = t.metrics[0].Value()
	p.Inversions = int(t.metrics[1].Value())
	return p
}

func (t *Timeline) compact() {
	kept := t.points[:0]
	for i, p := range t.points {
		if i%2 == 0 {
			kept = append(kept, p)
		}
	}
	t.points = kept
	t.stride *= 2
}

func (t *Timeline) snapshotLocked() []Point {
	out := slices.Clone(t.points)
	if t.hasTail {
		out = append(out, t.measure(t.tail, t.tailValues))
	}
	return out
}

func (t *Timeline) Points() []Point {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.snapshotLocked()
}

// Series returns one value per point, for plotting.
func (t *Timeline) Series(pick func(Point) float64) []float64 {
	t.mu.Lock()
	pts := t.snapshotLocked()
	t.mu.Unlock()

	out := make([]float64, len(pts))
	for i, p := range pts {
		out[i] = pick(p)
	}
	return out
}

func (t *Timeline) Len() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.hasTail {
		return len(t.points) + 1
	}
	return len(t.points)
}

func (t *Timeline) Reset() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.points = t.points[:0]
	t.stride = 1
	t.seen = 0
	t.hasTail = false
	for _, m := range t.metrics {
		m.Reset()
	}
}
