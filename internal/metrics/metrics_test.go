package metrics

import (
	"math"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/san-kum/sortviz/internal/engine"
	"github.com/san-kum/sortviz/internal/run"
)

func TestAdjacentOrder(t *testing.T) {
	tests := []struct {
		name string
		in   []int
		want float64
	}{
		{"empty", nil, 1},
		{"single", []int{3}, 1},
		{"sorted", []int{1, 2, 3, 4, 5}, 1},
		{"reversed", []int{5, 4, 3, 2, 1}, 0},
		{"half", []int{1, 3, 2, 4, 5}, 0.75},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := AdjacentOrder(tt.in); math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("AdjacentOrder(%v) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestCountInversions(t *testing.T) {
	tests := []struct {
		in   []int
		want int
	}{
		{nil, 0},
		{[]int{1, 2, 3}, 0},
		{[]int{3, 2, 1}, 3},
		{[]int{5, 3, 4, 1, 2}, 8},
		{[]int{4, 2, 1, 3}, 4},
	}
	for _, tt := range tests {
		in := append([]int(nil), tt.in...)
		if got := CountInversions(in); got != tt.want {
			t.Errorf("CountInversions(%v) = %d, want %d", tt.in, got, tt.want)
		}
		for i := range in {
			if in[i] != tt.in[i] {
				t.Fatalf("CountInversions modified its input: %v", in)
			}
		}
	}
}

func TestMetricsObserveAndReset(t *testing.T) {
	ms := []Metric{NewSortedness(), NewInversions()}
	f := engine.Frame{Values: []int{2, 1, 3}}
	want := map[string]float64{"sortedness": 0.5, "inversions": 1}
	for _, m := range ms {
		m.Observe(f)
		if got := m.Value(); got != want[m.Name()] {
			t.Errorf("%s = %v, want %v", m.Name(), got, want[m.Name()])
		}
		m.Reset()
		if m.Value() != 0 {
			t.Errorf("%s not reset", m.Name())
		}
	}
}

func TestTimelineRecordsFrames(t *testing.T) {
	tl := NewTimeline(16)
	tl.OnFrame(engine.Frame{Values: []int{3, 2, 1}, Stats: engine.Stats{Comparisons: 1}})
	tl.OnFrame(engine.Frame{Values: []int{1, 2, 3}, Stats: engine.Stats{Comparisons: 3, Swaps: 3}})

	pts := tl.Points()
	if len(pts) != 2 {
		t.Fatalf("expected 2 points, got %d", len(pts))
	}
	if pts[0].Inversions != 3 || pts[0].Sortedness != 0 {
		t.Errorf("first point = %+v", pts[0])
	}
	if pts[1].Step != 1 || pts[1].Swaps != 3 || pts[1].Sortedness != 1 {
		t.Errorf("second point = %+v", pts[1])
	}

	s := tl.Series(func(p Point) float64 { return float64(p.Comparisons) })
	if len(s) != 2 || s[1] != 3 {
		t.Errorf("series = %v", s)
	}

	tl.Reset()
	if tl.Len() != 0 {
		t.Errorf("expected empty timeline after reset, got %d", tl.Len())
	}
}

func TestTimelineStaysBounded(t *testing.T) {
	tl := NewTimeline(8)
	for i := 0; i < 100; i++ {
		tl.OnFrame(engine.Frame{Values: []int{1, 2}})
	}
	pts := tl.Points()
	if len(pts) > 9 {
		t.Fatalf("timeline grew past capacity plus the latest frame: %d", len(pts))
	}
	if pts[0].Step != 0 {
		t.Errorf("first step = %d, want 0", pts[0].Step)
	}
	for i := 1; i < len(pts); i++ {
		if pts[i].Step <= pts[i-1].Step {
			t.Fatalf("steps not increasing: %v", pts)
		}
	}
	if last := pts[len(pts)-1].Step; last != 99 {
		t.Errorf("last point should be the latest frame, got step %d", last)
	}
}

func TestTimelineTailIsMeasured(t *testing.T) {
	tl := NewTimeline(2)
	tl.OnFrame(engine.Frame{Values: []int{3, 2, 1}})
	tl.OnFrame(engine.Frame{Values: []int{2, 3, 1}})
	tl.OnFrame(engine.Frame{Values: []int{2, 1, 3}})
	tl.OnFrame(engine.Frame{Values: []int{1, 2, 3}, Stats: engine.Stats{Comparisons: 3, Swaps: 3}})

	pts := tl.Points()
	last := pts[len(pts)-1]
	if last.Step != 3 || last.Sortedness != 1 || last.Inversions != 0 || last.Swaps != 3 {
		t.Errorf("unexpected last point %+v", last)
	}
	if tl.Len() != len(pts) {
		t.Errorf("Len() = %d, want %d", tl.Len(), len(pts))
	}
}

func TestCollectorRecord(t *testing.T) {
	c := NewCollector()
	c.Record(run.Summary{
		Algorithm: engine.Bubble,
		Size:      5,
		Outcome:   run.Completed,
		Stats:     engine.Stats{Comparisons: 10, Swaps: 8},
		Steps:     14,
		Duration:  20 * time.Millisecond,
	})
	c.Record(run.Summary{
		Algorithm: engine.Bubble,
		Size:      7,
		Outcome:   run.Stopped,
		Stats:     engine.Stats{Comparisons: 2},
	})

	if got := testutil.ToFloat64(c.runs.WithLabelValues("bubble", "completed")); got != 1 {
		t.Errorf("completed runs = %v, want 1", got)
	}
	if got := testutil.ToFloat64(c.comparisons.WithLabelValues("bubble")); got != 12 {
		t.Errorf("comparisons = %v, want 12", got)
	}
	if got := testutil.ToFloat64(c.swaps.WithLabelValues("bubble")); got != 8 {
		t.Errorf("swaps = %v, want 8", got)
	}
	if got := testutil.ToFloat64(c.size); got != 7 {
		t.Errorf("size = %v, want 7", got)
	}
	if n := testutil.CollectAndCount(c.duration); n != 1 {
		t.Errorf("duration series = %d, want 1", n)
	}
}

func TestCollectorHandler(t *testing.T) {
	c := NewCollector()
	c.Record(run.Summary{Algorithm: engine.Quick, Outcome: run.Completed})

	rec := httptest.NewRecorder()
	c.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	if rec.Code != 200 {
		t.Fatalf("status = %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `sortviz_runs_total{algorithm="quick",outcome="completed"} 1`) {
		t.Errorf("metrics output missing run counter:\n%s", rec.Body.String())
	}
}
