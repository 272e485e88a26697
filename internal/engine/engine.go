package engine

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"
)

// MaxDelay bounds the pacing delay and therefore the cancellation latency.
const MaxDelay = 500 * time.Millisecond

type Engine struct {
	renderer Renderer
	tracker  Tracker
	sleep    func(ctx context.Context, d time.Duration)
	logger   zerolog.Logger
}

func New(r Renderer, tr Tracker) *Engine {
	return &Engine{
		renderer: r,
		tracker:  tr,
		sleep:    pause,
		logger:   zerolog.Nop(),
	}
}

// SetLogger configures the logger for run lifecycle events.
func (e *Engine) SetLogger(l zerolog.Logger) { e.logger = l }

// SetSleep replaces the pacing function, mainly so tests can observe delays.
func (e *Engine) SetSleep(fn func(ctx context.Context, d time.Duration)) { e.sleep = fn }

// Run sorts seq in place with alg, pausing delay after each rendered step.
// It reports whether the algorithm ran to completion; false means the tracker
// stopped running or ctx was canceled first.
func (e *Engine) Run(ctx context.Context, alg Algorithm, seq []int, delay time.Duration) (bool, error) {
	if !alg.Valid() {
		return false, fmt.Errorf("%w: %d", ErrUnknownAlgorithm, int(alg))
	}
	if delay < 0 {
		delay = 0
	}
	if delay > MaxDelay {
		delay = MaxDelay
	}

	s := &stepper{
		ctx:   ctx,
		seq:   seq,
		tr:    e.tracker,
		r:     e.renderer,
		delay: delay,
		sleep: e.sleep,
	}

	e.logger.Debug().Str("algorithm", alg.Key()).Int("size", len(seq)).Dur("delay", delay).Msg("sort started")

	switch alg {
	case Bubble:
		s.bubble()
	case Quick:
		s.quick(0, len(seq)-1)
	case Merge:
		s.mergeSort(0, len(seq)-1)
	case Insertion:
		s.insertion()
	case Selection:
		s.selection()
	}

	if !s.alive() {
		e.logger.Debug().Str("algorithm", alg.Key()).Msg("sort interrupted")
		return false, nil
	}

	done := make([]Color, len(seq))
	for i := range done {
		done[i] = Sorted
	}
	e.renderer.Render(seq, done, alg.String()+" Complete!")
	e.logger.Debug().Str("algorithm", alg.Key()).Msg("sort complete")
	return true, nil
}

// stepper carries the per-run state shared by every algorithm.
type stepper struct {
	ctx   context.Context
	seq   []int
	tr    Tracker
	r     Renderer
	delay time.Duration
	sleep func(ctx context.Context, d time.Duration)
}

func (s *stepper) alive() bool { return s.ctx.Err() == nil && s.tr.Running() }

func (s *stepper) overlay() []Color { return make([]Color, len(s.seq)) }

// show renders one step, waits out the pacing delay and reports whether the
// run may continue.
func (s *stepper) show(colors []Color, format string, args ...any) bool {
	s.r.Render(s.seq, colors, fmt.Sprintf(format, args...))
	s.sleep(s.ctx, s.delay)
	return s.alive()
}

func (s *stepper) swap(i, j int) { s.seq[i], s.seq[j] = s.seq[j], s.seq[i] }

func paint(colors []Color, from, to int, c Color) {
	for k := from; k <= to && k < len(colors); k++ {
		if k >= 0 {
			colors[k] = c
		}
	}
}

func pause(ctx context.Context, d time.Duration) {
	if d <= 0 {
		return
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
	case <-ctx.Done():
	}
}
