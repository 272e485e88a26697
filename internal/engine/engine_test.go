package engine

import (
	"context"
	"errors"
	"slices"
	"strings"
	"testing"
	"time"

	"github.com/san-kum/sortviz/internal/sequence"
)

type recorder struct {
	counter   *Counter
	frames    []Frame
	stopAfter int
	onFrame   func(n int)
}

func (r *recorder) Render(values []int, colors []Color, caption string) {
	r.frames = append(r.frames, Frame{
		Values:  slices.Clone(values),
		Colors:  slices.Clone(colors),
		Caption: caption,
		Stats:   r.counter.Stats(),
	})
	if r.stopAfter > 0 && len(r.frames) >= r.stopAfter {
		r.counter.Stop()
	}
	if r.onFrame != nil {
		r.onFrame(len(r.frames))
	}
}

func (r *recorder) first(prefix string) (Frame, bool) {
	for _, f := range r.frames {
		if strings.HasPrefix(f.Caption, prefix) {
			return f, true
		}
	}
	return Frame{}, false
}

func sortWith(t *testing.T, alg Algorithm, seq []int) (*recorder, bool) {
	t.Helper()
	c := NewCounter()
	r := &recorder{counter: c}
	done, err := New(r, c).Run(context.Background(), alg, seq, 0)
	if err != nil {
		t.Fatalf("%s: %v", alg, err)
	}
	return r, done
}

func finalStats(r *recorder) Stats {
	return r.counter.Stats()
}

func TestBubbleScenario(t *testing.T) {
	seq := []int{5, 3, 4, 1, 2}
	r, done := sortWith(t, Bubble, seq)
	if !done {
		t.Fatal("expected completion")
	}
	if !slices.Equal(seq, []int{1, 2, 3, 4, 5}) {
		t.Fatalf("final sequence = %v", seq)
	}

	passes := []struct {
		prefix string
		values []int
		stats  Stats
	}{
		// counters include the comparison announced by the frame itself
		{"Bubble Sort - Pass 2,", []int{3, 4, 1, 2, 5}, Stats{Comparisons: 5, Swaps: 4}},
		{"Bubble Sort - Pass 3,", []int{3, 1, 2, 4, 5}, Stats{Comparisons: 8, Swaps: 6}},
		{"Bubble Sort - Pass 4,", []int{1, 2, 3, 4, 5}, Stats{Comparisons: 10, Swaps: 8}},
	}
	for _, p := range passes {
		f, ok := r.first(p.prefix)
		if !ok {
			t.Fatalf("no frame with caption %q", p.prefix)
		}
		if !slices.Equal(f.Values, p.values) {
			t.Errorf("%s values = %v, want %v", p.prefix, f.Values, p.values)
		}
		if f.Stats != p.stats {
			t.Errorf("%s stats = %+v, want %+v", p.prefix, f.Stats, p.stats)
		}
	}
	if _, ok := r.first("Bubble Sort - Pass 5,"); ok {
		t.Error("bubble sort should stop after a swapless pass")
	}
	if got := finalStats(r); got != (Stats{Comparisons: 10, Swaps: 8}) {
		t.Errorf("final stats = %+v", got)
	}
}

func TestSelectionScenario(t *testing.T) {
	seq := []int{4, 2, 1, 3}
	r, _ := sortWith(t, Selection, seq)

	if !slices.Equal(seq, []int{1, 2, 3, 4}) {
		t.Fatalf("final sequence = %v", seq)
	}
	if got := finalStats(r); got != (Stats{Comparisons: 6, Swaps: 2}) {
		t.Errorf("stats = %+v, want 6 comparisons and 2 swaps", got)
	}

	var swaps []string
	for _, f := range r.frames {
		if strings.HasPrefix(f.Caption, "Selection Sort - Swapped") {
			swaps = append(swaps, f.Caption)
		}
	}
	want := []string{"Selection Sort - Swapped 4 with 1", "Selection Sort - Swapped 4 with 3"}
	if !slices.Equal(swaps, want) {
		t.Errorf("swap captions = %q, want %q", swaps, want)
	}
}

func TestSmallInputs(t *testing.T) {
	tests := []struct {
		alg    Algorithm
		in     []int
		stats  Stats
		frames int
	}{
		{Quick, []int{3, 1, 2}, Stats{Comparisons: 2, Swaps: 2}, 4},
		{Insertion, []int{3, 1, 2}, Stats{Comparisons: 2, Swaps: 2}, 5},
		{Merge, []int{2, 1}, Stats{Comparisons: 1, Swaps: 0}, 4},
		{Bubble, []int{2, 1}, Stats{Comparisons: 1, Swaps: 1}, 3},
		{Selection, []int{1}, Stats{}, 1},
	}

	for _, tt := range tests {
		t.Run(tt.alg.Key(), func(t *testing.T) {
			seq := slices.Clone(tt.in)
			r, done := sortWith(t, tt.alg, seq)
			if !done {
				t.Fatal("expected completion")
			}
			if !slices.IsSorted(seq) {
				t.Errorf("not sorted: %v", seq)
			}
			if got := finalStats(r); got != tt.stats {
				t.Errorf("stats = %+v, want %+v", got, tt.stats)
			}
			if len(r.frames) != tt.frames {
				t.Errorf("rendered %d frames, want %d", len(r.frames), tt.frames)
			}
		})
	}
}

func TestAlreadySorted(t *testing.T) {
	const n = 25
	tests := []struct {
		alg   Algorithm
		swaps uint64
	}{
		{Bubble, 0},
		{Merge, 0},
		{Insertion, 0},
		{Selection, 0},
		// one placement swap per partition
		{Quick, n - 1},
	}

	for _, tt := range tests {
		t.Run(tt.alg.Key(), func(t *testing.T) {
			seq := sequence.Sorted(n)
			r, _ := sortWith(t, tt.alg, seq)
			if !slices.Equal(seq, sequence.Sorted(n)) {
				t.Fatalf("sorted input was reordered: %v", seq)
			}
			if got := finalStats(r).Swaps; got != tt.swaps {
				t.Errorf("swaps = %d, want %d", got, tt.swaps)
			}
		})
	}

	t.Run("bubble single pass", func(t *testing.T) {
		r, _ := sortWith(t, Bubble, sequence.Sorted(n))
		if _, ok := r.first("Bubble Sort - Pass 2,"); ok {
			t.Error("expected exactly one pass")
		}
		if got := finalStats(r).Comparisons; got != n-1 {
			t.Errorf("comparisons = %d, want %d", got, n-1)
		}
	})
}

func TestCompletionFrame(t *testing.T) {
	r, done := sortWith(t, Merge, []int{3, 2, 1})
	if !done {
		t.Fatal("expected completion")
	}
	last := r.frames[len(r.frames)-1]
	if last.Caption != "Merge Sort Complete!" {
		t.Errorf("last caption = %q", last.Caption)
	}
	for i, c := range last.Colors {
		if c != Sorted {
			t.Errorf("color[%d] = %s, want sorted", i, c)
		}
	}
}

func TestStopHaltsEveryAlgorithm(t *testing.T) {
	const stopAt = 7
	for _, alg := range Algorithms() {
		t.Run(alg.Key(), func(t *testing.T) {
			seq, err := sequence.NewSeeded(99).Generate(30)
			if err != nil {
				t.Fatal(err)
			}
			c := NewCounter()
			r := &recorder{counter: c, stopAfter: stopAt}

			done, err := New(r, c).Run(context.Background(), alg, seq, 0)
			if err != nil {
				t.Fatal(err)
			}
			if done {
				t.Fatal("run reported completion after stop")
			}
			if len(r.frames) != stopAt {
				t.Errorf("rendered %d frames after stop at %d", len(r.frames), stopAt)
			}
			if got, want := c.Stats(), r.frames[stopAt-1].Stats; got != want {
				t.Errorf("counters moved after stop: %+v -> %+v", want, got)
			}
			if !sequence.IsPermutation(seq) {
				t.Errorf("sequence is no longer a permutation: %v", seq)
			}
		})
	}
}

func TestContextCancelHaltsRun(t *testing.T) {
	for _, alg := range Algorithms() {
		t.Run(alg.Key(), func(t *testing.T) {
			ctx, cancel := context.WithCancel(context.Background())
			defer cancel()

			seq, _ := sequence.NewSeeded(5).Generate(20)
			c := NewCounter()
			r := &recorder{counter: c, onFrame: func(n int) {
				if n == 3 {
					cancel()
				}
			}}

			done, err := New(r, c).Run(ctx, alg, seq, 0)
			if err != nil {
				t.Fatal(err)
			}
			if done || len(r.frames) != 3 {
				t.Errorf("done=%v frames=%d, want false and 3", done, len(r.frames))
			}
			if !sequence.IsPermutation(seq) {
				t.Errorf("sequence is no longer a permutation: %v", seq)
			}
		})
	}
}

func TestPacingDelay(t *testing.T) {
	c := NewCounter()
	r := &recorder{counter: c}
	e := New(r, c)

	var calls int
	var got time.Duration
	e.SetSleep(func(_ context.Context, d time.Duration) {
		calls++
		got = d
	})

	if _, err := e.Run(context.Background(), Bubble, []int{3, 2, 1}, 2*time.Second); err != nil {
		t.Fatal(err)
	}
	if got != MaxDelay {
		t.Errorf("delay = %v, want clamp to %v", got, MaxDelay)
	}
	// every step frame is paced, the completion frame is not
	if calls != len(r.frames)-1 {
		t.Errorf("sleep called %d times for %d frames", calls, len(r.frames))
	}
}

func TestPauseWakesOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	start := time.Now()
	pause(ctx, MaxDelay)
	if time.Since(start) >= MaxDelay {
		t.Error("pause ignored a canceled context")
	}
}

func TestRunUnknownAlgorithm(t *testing.T) {
	c := NewCounter()
	_, err := New(&recorder{counter: c}, c).Run(context.Background(), Algorithm(42), []int{1}, 0)
	if !errors.Is(err, ErrUnknownAlgorithm) {
		t.Errorf("err = %v, want ErrUnknownAlgorithm", err)
	}
}

func TestParseAlgorithm(t *testing.T) {
	tests := []struct {
		in   string
		want Algorithm
	}{
		{"bubble", Bubble},
		{"Quick Sort", Quick},
		{"MERGE", Merge},
		{"insertion_sort", Insertion},
		{"selectionsort", Selection},
		{" quick-sort ", Quick},
	}
	for _, tt := range tests {
		got, err := ParseAlgorithm(tt.in)
		if err != nil {
			t.Errorf("ParseAlgorithm(%q): %v", tt.in, err)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseAlgorithm(%q) = %s, want %s", tt.in, got, tt.want)
		}
	}

	if _, err := ParseAlgorithm("bogo"); !errors.Is(err, ErrUnknownAlgorithm) {
		t.Errorf("ParseAlgorithm(bogo) err = %v", err)
	}
}

func TestAlgorithmNames(t *testing.T) {
	for _, a := range Algorithms() {
		back, err := ParseAlgorithm(a.String())
		if err != nil || back != a {
			t.Errorf("%s does not round-trip through its display name", a)
		}
		if a.Key() == "" {
			t.Errorf("%s has no key", a)
		}
	}
	if Algorithm(-1).Valid() || Algorithm(5).Valid() {
		t.Error("out-of-range algorithms reported valid")
	}
}
