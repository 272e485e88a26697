package run

import (
	"context"
	"errors"
	"slices"
	"sync"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/sortviz/internal/engine"
	"github.com/san-kum/sortviz/internal/sequence"
)

type fakeListener struct {
	mu       sync.Mutex
	statuses []string
	states   []bool
	stats    []engine.Stats
}

func (l *fakeListener) OnStatus(text string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.statuses = append(l.statuses, text)
}

func (l *fakeListener) OnStatsChanged(comparisons, swaps uint64) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.stats = append(l.stats, engine.Stats{Comparisons: comparisons, Swaps: swaps})
}

func (l *fakeListener) OnRunStateChanged(running bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.states = append(l.states, running)
}

func (l *fakeListener) Statuses() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return slices.Clone(l.statuses)
}

func (l *fakeListener) States() []bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return slices.Clone(l.states)
}

func (l *fakeListener) LastStats() engine.Stats {
	l.mu.Lock()
	defer l.mu.Unlock()
	if len(l.stats) == 0 {
		return engine.Stats{}
	}
	return l.stats[len(l.stats)-1]
}

type frameLog struct {
	mu     sync.Mutex
	frames []engine.Frame
}

func (f *frameLog) OnFrame(fr engine.Frame) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.frames = append(f.frames, fr)
}

func (f *frameLog) Frames() []engine.Frame {
	f.mu.Lock()
	defer f.mu.Unlock()
	return slices.Clone(f.frames)
}

// gate blocks every pacing delay until released or canceled.
type gate struct{ release chan struct{} }

func newGate() *gate { return &gate{release: make(chan struct{})} }

func (g *gate) sleep(ctx context.Context, _ time.Duration) {
	select {
	case <-g.release:
	case <-ctx.Done():
	}
}

func (g *gate) open() { close(g.release) }

func waitIdle(c *Controller) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	ExpectWithOffset(1, c.Wait(ctx)).To(Succeed())
}

var _ = Describe("Controller", func() {
	var (
		listener *fakeListener
		frames   *frameLog
		ctrl     *Controller
	)

	BeforeEach(func() {
		listener = &fakeListener{}
		frames = &frameLog{}
		ctrl = New(sequence.NewSeeded(42), nil, WithListener(listener), WithObserver(frames))
	})

	Describe("Generate", func() {
		It("rejects non-positive sizes", func() {
			_, err := ctrl.Generate(0)
			Expect(errors.Is(err, sequence.ErrInvalidSize)).To(BeTrue())
		})

		It("installs a permutation and zeroes the counters", func() {
			seq, err := ctrl.Generate(50)
			Expect(err).NotTo(HaveOccurred())
			Expect(seq).To(HaveLen(50))
			Expect(sequence.IsPermutation(seq)).To(BeTrue())
			Expect(ctrl.Snapshot()).To(Equal(seq))

			st := ctrl.State()
			Expect(st.Comparisons).To(BeZero())
			Expect(st.Swaps).To(BeZero())
			Expect(st.Size).To(Equal(50))
			Expect(listener.Statuses()).To(ContainElement("Generated new array with 50 elements"))
		})
	})

	Describe("Start", func() {
		It("fails without a sequence", func() {
			Expect(ctrl.Start(engine.Bubble, 0)).To(MatchError(ErrEmptySequence))
		})

		It("rejects unknown algorithms", func() {
			_, _ = ctrl.Generate(10)
			err := ctrl.Start(engine.Algorithm(9), 0)
			Expect(errors.Is(err, engine.ErrUnknownAlgorithm)).To(BeTrue())
		})

		It("sorts to completion on the worker", func() {
			_, err := ctrl.Generate(60)
			Expect(err).NotTo(HaveOccurred())

			Expect(ctrl.Start(engine.Quick, 0)).To(Succeed())
			waitIdle(ctrl)

			Expect(ctrl.Snapshot()).To(Equal(sequence.Sorted(60)))
			st := ctrl.State()
			Expect(st.Running).To(BeFalse())
			Expect(st.Algorithm).To(Equal(engine.Quick))
			Expect(st.Comparisons).To(BeNumerically(">", 0))
			Expect(listener.LastStats()).To(Equal(engine.Stats{Comparisons: st.Comparisons, Swaps: st.Swaps}))
			Expect(listener.States()).To(Equal([]bool{true, false}))
			Expect(listener.Statuses()).To(ContainElement("Quick Sort completed successfully!"))

			fs := frames.Frames()
			Expect(fs).NotTo(BeEmpty())
			Expect(fs[len(fs)-1].Caption).To(Equal("Quick Sort Complete!"))
		})

		It("reproduces the bubble sort counters for a loaded sequence", func() {
			Expect(ctrl.Load([]int{5, 3, 4, 1, 2})).To(Succeed())
			Expect(ctrl.Start(engine.Bubble, 0)).To(Succeed())
			waitIdle(ctrl)

			st := ctrl.State()
			Expect(ctrl.Snapshot()).To(Equal([]int{1, 2, 3, 4, 5}))
			Expect(st.Comparisons).To(Equal(uint64(10)))
			Expect(st.Swaps).To(Equal(uint64(8)))
		})

		It("keeps counters monotone across frames", func() {
			_, _ = ctrl.Generate(40)
			Expect(ctrl.Start(engine.Insertion, 0)).To(Succeed())
			waitIdle(ctrl)

			fs := frames.Frames()
			for i := 1; i < len(fs); i++ {
				Expect(fs[i].Stats.Comparisons).To(BeNumerically(">=", fs[i-1].Stats.Comparisons))
				Expect(fs[i].Stats.Swaps).To(BeNumerically(">=", fs[i-1].Stats.Swaps))
			}
		})
	})

	Describe("while a sort is active", func() {
		var g *gate

		BeforeEach(func() {
			g = newGate()
			ctrl = New(sequence.NewSeeded(7), nil,
				WithListener(listener), WithObserver(frames), WithSleep(g.sleep))
			_, err := ctrl.Generate(30)
			Expect(err).NotTo(HaveOccurred())
			Expect(ctrl.Start(engine.Merge, 9999)).To(Succeed())
			Eventually(func() int { return len(frames.Frames()) }).Should(BeNumerically(">=", 1))
		})

		AfterEach(func() {
			ctrl.Stop()
			waitIdle(ctrl)
		})

		It("refuses a second start", func() {
			Expect(ctrl.Start(engine.Bubble, 0)).To(MatchError(ErrAlreadyRunning))
		})

		It("refuses to reset or regenerate", func() {
			Expect(ctrl.ResetStats()).To(MatchError(ErrAlreadyRunning))
			_, err := ctrl.Generate(20)
			Expect(err).To(MatchError(ErrAlreadyRunning))
		})

		It("clamps the pacing delay", func() {
			Expect(ctrl.State().SpeedMs).To(Equal(MaxSpeedMs))
		})

		It("serves snapshots that are permutations", func() {
			Expect(sequence.IsPermutation(ctrl.Snapshot())).To(BeTrue())
		})

		It("stops at the next check point without further frames", func() {
			ctrl.Stop()
			waitIdle(ctrl)

			n := len(frames.Frames())
			Consistently(func() int { return len(frames.Frames()) }, 50*time.Millisecond).Should(Equal(n))

			st := ctrl.State()
			Expect(st.Running).To(BeFalse())
			Expect(sequence.IsPermutation(ctrl.Snapshot())).To(BeTrue())
			Expect(listener.Statuses()).To(ContainElement("Sorting stopped"))
			Expect(listener.States()).To(HaveExactElements(true, false, false))
		})

		It("allows a restart right after stop", func() {
			ctrl.Stop()
			Expect(ctrl.Start(engine.Selection, 0)).To(Succeed())
			Expect(ctrl.State().Algorithm).To(Equal(engine.Selection))
		})
	})

	Describe("ResetStats", func() {
		It("zeroes counters on an idle controller", func() {
			_, _ = ctrl.Generate(20)
			Expect(ctrl.Start(engine.Selection, 0)).To(Succeed())
			waitIdle(ctrl)
			Expect(ctrl.State().Comparisons).To(BeNumerically(">", 0))

			Expect(ctrl.ResetStats()).To(Succeed())
			st := ctrl.State()
			Expect(st.Comparisons).To(BeZero())
			Expect(st.Swaps).To(BeZero())
			Expect(listener.LastStats()).To(Equal(engine.Stats{}))
		})
	})

	Describe("ResetStats after Stop", func() {
		It("waits for the worker so the summary keeps its counts", func() {
			release := make(chan struct{})
			got := make(chan Summary, 1)
			ctrl = New(sequence.NewSeeded(5), nil, WithListener(listener),
				WithSleep(func(context.Context, time.Duration) { <-release }),
				WithRecorder(RecorderFunc(func(s Summary) { got <- s })))
			_, err := ctrl.Generate(20)
			Expect(err).NotTo(HaveOccurred())
			Expect(ctrl.Start(engine.Bubble, 50)).To(Succeed())
			Eventually(func() uint64 { return ctrl.State().Comparisons }).Should(BeNumerically(">", 0))

			ctrl.Stop()
			reset := make(chan error, 1)
			go func() { reset <- ctrl.ResetStats() }()
			Consistently(reset, 50*time.Millisecond).ShouldNot(Receive())

			close(release)
			Eventually(reset).Should(Receive(BeNil()))

			var s Summary
			Eventually(got).Should(Receive(&s))
			Expect(s.Outcome).To(Equal(Stopped))
			Expect(s.Stats.Comparisons).To(BeNumerically(">", 0))
			Expect(ctrl.State().Comparisons).To(BeZero())
		})
	})

	Describe("worker failures", func() {
		It("recovers a panic and returns to idle", func() {
			var calls int
			boom := engine.RendererFunc(func([]int, []engine.Color, string) {
				calls++
				if calls == 4 {
					panic("renderer exploded")
				}
			})

			var sums []Summary
			var mu sync.Mutex
			ctrl = New(sequence.NewSeeded(3), boom, WithListener(listener),
				WithRecorder(RecorderFunc(func(s Summary) {
					mu.Lock()
					defer mu.Unlock()
					sums = append(sums, s)
				})))

			_, err := ctrl.Generate(25)
			Expect(err).NotTo(HaveOccurred())
			Expect(ctrl.Start(engine.Bubble, 0)).To(Succeed())
			waitIdle(ctrl)

			Expect(ctrl.Running()).To(BeFalse())
			Expect(listener.Statuses()).To(ContainElement(HavePrefix("Error: Bubble Sort: panic: renderer exploded")))
			Expect(sequence.IsPermutation(ctrl.Snapshot())).To(BeTrue())

			recorded := func() []Summary {
				mu.Lock()
				defer mu.Unlock()
				return slices.Clone(sums)
			}
			got := recorded()
			Expect(got).To(HaveLen(1))
			Expect(got[0].Outcome).To(Equal(Failed))
			var se *SortError
			Expect(errors.As(got[0].Err, &se)).To(BeTrue())
			Expect(se.Algorithm).To(Equal(engine.Bubble))

			Expect(ctrl.Start(engine.Bubble, 0)).To(Succeed())
			waitIdle(ctrl)
			Expect(recorded()).To(HaveLen(2))
		})
	})

	Describe("recorders", func() {
		It("receive a summary for a completed run", func() {
			got := make(chan Summary, 1)
			ctrl = New(sequence.NewSeeded(11), nil, WithRecorder(RecorderFunc(func(s Summary) { got <- s })))
			_, _ = ctrl.Generate(15)
			Expect(ctrl.Start(engine.Merge, 0)).To(Succeed())

			var s Summary
			Eventually(got).Should(Receive(&s))
			Expect(s.Outcome).To(Equal(Completed))
			Expect(s.Algorithm).To(Equal(engine.Merge))
			Expect(s.Size).To(Equal(15))
			Expect(s.Steps).To(BeNumerically(">", 0))
			Expect(s.Stats.Swaps).To(BeZero())
		})
	})

	Describe("summary seeds", func() {
		It("carry the seed of each generated array and drop it once sorted", func() {
			got := make(chan Summary, 3)
			ctrl = New(sequence.NewSeeded(21), nil, WithRecorder(RecorderFunc(func(s Summary) { got <- s })))

			_, err := ctrl.Generate(12)
			Expect(err).NotTo(HaveOccurred())
			second, err := ctrl.Generate(12)
			Expect(err).NotTo(HaveOccurred())

			Expect(ctrl.Start(engine.Quick, 0)).To(Succeed())
			var s Summary
			Eventually(got).Should(Receive(&s))
			Expect(s.Seed).NotTo(BeZero())
			Expect(s.Seed).NotTo(Equal(int64(21)))
			Expect(sequence.Permutation(s.Seed, 12)).To(Equal(second))

			waitIdle(ctrl)
			Expect(ctrl.Start(engine.Quick, 0)).To(Succeed())
			Eventually(got).Should(Receive(&s))
			Expect(s.Seed).To(BeZero())
		})
	})

	Describe("Load", func() {
		It("rejects sequences that are not permutations", func() {
			Expect(ctrl.Load([]int{1, 1, 2})).To(MatchError(sequence.ErrNotPermutation))
			Expect(errors.Is(ctrl.Load(nil), sequence.ErrInvalidSize)).To(BeTrue())
		})
	})
})
