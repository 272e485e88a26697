package run

import (
	"context"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/san-kum/sortviz/internal/engine"
	"github.com/san-kum/sortviz/internal/sequence"
)

// Controller owns the sequence and run state and runs at most one sort at a time
// on a background goroutine.
type Controller struct {
	mu        sync.Mutex
	seq       []int
	seed      int64 // seed of seq while it is still the generated array, else 0
	view      []int
	algorithm engine.Algorithm
	speedMs   int
	busy      bool
	cancel    context.CancelFunc
	done      chan struct{}

	counter *engine.Counter
	steps   int // worker only

	gen       *sequence.Generator
	renderer  engine.Renderer
	listener  Listener
	observers []engine.Observer
	recorders []Recorder
	sleep     func(ctx context.Context, d time.Duration)
	logger    zerolog.Logger
}

type Option func(*Controller)

func WithListener(l Listener) Option {
	return func(c *Controller) {
		if l != nil {
			c.listener = l
		}
	}
}

func WithObserver(o engine.Observer) Option {
	return func(c *Controller) { c.observers = append(c.observers, o) }
}

func WithRecorder(r Recorder) Option {
	return func(c *Controller) { c.recorders = append(c.recorders, r) }
}

func WithLogger(l zerolog.Logger) Option {
	return func(c *Controller) { c.logger = l }
}

// WithSleep replaces the pacing function used by the engine.
func WithSleep(fn func(ctx context.Context, d time.Duration)) Option {
	return func(c *Controller) { c.sleep = fn }
}

func New(gen *sequence.Generator, r engine.Renderer, opts ...Option) *Controller {
	c := &Controller{
		counter:  &engine.Counter{},
		gen:      gen,
		renderer: r,
		listener: nopListener{},
		speedMs:  DefaultSpeedMs,
		logger:   zerolog.Nop(),
	}
	if c.renderer == nil {
		c.renderer = engine.RendererFunc(func([]int, []engine.Color, string) {})
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// lockIdle returns with c.mu held once no worker is alive. A worker that was
// stopped but has not exited yet is waited for; a running one is an error.
func (c *Controller) lockIdle() error {
	c.mu.Lock()
	for c.busy {
		if c.counter.Running() {
			c.mu.Unlock()
			return ErrAlreadyRunning
		}
		done := c.done
		c.mu.Unlock()
		<-done
		c.mu.Lock()
	}
	return nil
}

// Generate replaces the sequence with a fresh permutation and zeroes the counters.
func (c *Controller) Generate(n int) ([]int, error) {
	if err := c.lockIdle(); err != nil {
		return nil, err
	}
	seq, err := c.gen.Generate(n)
	if err != nil {
		c.mu.Unlock()
		return nil, err
	}
	c.seq = seq
	c.seed = c.gen.Seed()
	c.view = nil
	c.counter.Reset()
	snapshot := slices.Clone(seq)
	c.mu.Unlock()

	c.logger.Info().Int("size", len(seq)).Msg("sequence generated")
	c.renderer.Render(slices.Clone(snapshot), make([]engine.Color, len(snapshot)), "Array Visualization")
	c.listener.OnStatsChanged(0, 0)
	c.listener.OnStatus(fmt.Sprintf("Generated new array with %d elements", len(seq)))
	return snapshot, nil
}

// Load installs seq as the current sequence, for scripted runs and replays.
func (c *Controller) Load(seq []int) error {
	if len(seq) == 0 {
		return fmt.Errorf("%w: got 0", sequence.ErrInvalidSize)
	}
	if !sequence.IsPermutation(seq) {
		return sequence.ErrNotPermutation
	}
	if err := c.lockIdle(); err != nil {
		return err
	}
	c.seq = slices.Clone(seq)
	c.seed = 0
	c.view = nil
	c.counter.Reset()
	c.mu.Unlock()

	c.renderer.Render(slices.Clone(seq), make([]engine.Color, len(seq)), "Array Visualization")
	c.listener.OnStatsChanged(0, 0)
	return nil
}

// Start launches alg on the background worker. speedMs is clamped to [0, MaxSpeedMs].
func (c *Controller) Start(alg engine.Algorithm, speedMs int) error {
	if !alg.Valid() {
		return fmt.Errorf("%w: %d", engine.ErrUnknownAlgorithm, int(alg))
	}
	if err := c.lockIdle(); err != nil {
		return err
	}
	if len(c.seq) == 0 {
		c.mu.Unlock()
		return ErrEmptySequence
	}

	speedMs = clampSpeed(speedMs)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	work := slices.Clone(c.seq)
	seed := c.seed

	c.algorithm, c.speedMs = alg, speedMs
	c.busy, c.cancel, c.done = true, cancel, done
	c.steps = 0
	c.counter.SetRunning(true)
	c.mu.Unlock()

	c.logger.Info().Str("algorithm", alg.Key()).Int("size", len(work)).Int("speed_ms", speedMs).Msg("sort started")
	c.listener.OnRunStateChanged(true)
	c.listener.OnStatus(fmt.Sprintf("Running %s...", alg))

	go c.work(ctx, alg, work, seed, speedMs, done)
	return nil
}

// Stop clears the running flag; the worker halts at its next check point.
func (c *Controller) Stop() {
	c.counter.SetRunning(false)
	c.mu.Lock()
	if c.cancel != nil {
		c.cancel()
	}
	c.mu.Unlock()

	c.logger.Info().Msg("sort stop requested")
	c.listener.OnRunStateChanged(false)
	c.listener.OnStatus("Sorting stopped")
}

// ResetStats zeroes the counters of an idle controller. A stopped worker is
// waited for so its summary keeps the counts it reached.
func (c *Controller) ResetStats() error {
	if err := c.lockIdle(); err != nil {
		return err
	}
	c.counter.Reset()
	c.mu.Unlock()

	c.listener.OnStatsChanged(0, 0)
	return nil
}

// Wait blocks until the current worker, if any, has exited.
func (c *Controller) Wait(ctx context.Context) error {
	c.mu.Lock()
	busy, done := c.busy, c.done
	c.mu.Unlock()
	if !busy {
		return nil
	}
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Snapshot returns a copy of the sequence as last rendered.
func (c *Controller) Snapshot() []int {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.busy && c.view != nil {
		return slices.Clone(c.view)
	}
	return slices.Clone(c.seq)
}

func (c *Controller) State() RunState {
	stats := c.counter.Stats()
	c.mu.Lock()
	defer c.mu.Unlock()
	return RunState{
		Running:     c.counter.Running(),
		Comparisons: stats.Comparisons,
		Swaps:       stats.Swaps,
		Algorithm:   c.algorithm,
		SpeedMs:     c.speedMs,
		Size:        len(c.seq),
	}
}

func (c *Controller) Running() bool { return c.counter.Running() }

func (c *Controller) work(ctx context.Context, alg engine.Algorithm, seq []int, seed int64, speedMs int, done chan struct{}) {
	started := time.Now()
	outcome := Stopped
	var runErr error

	defer func() {
		if r := recover(); r != nil {
			outcome = Failed
			runErr = &SortError{Algorithm: alg, Wrapped: fmt.Errorf("panic: %v", r)}
		}
		if runErr != nil {
			c.logger.Error().Err(runErr).Str("algorithm", alg.Key()).Msg("sort failed")
			c.listener.OnStatus("Error: " + runErr.Error())
		}
		c.finish(Summary{
			Algorithm: alg,
			Size:      len(seq),
			Seed:      seed,
			SpeedMs:   speedMs,
			Outcome:   outcome,
			Stats:     c.counter.Stats(),
			Steps:     c.steps,
			Started:   started,
			Duration:  time.Since(started),
			Err:       runErr,
		}, seq, done)
	}()

	eng := engine.New(engine.RendererFunc(c.render), c.counter)
	eng.SetLogger(c.logger)
	if c.sleep != nil {
		eng.SetSleep(c.sleep)
	}

	completed, err := eng.Run(ctx, alg, seq, time.Duration(speedMs)*time.Millisecond)
	switch {
	case err != nil:
		outcome = Failed
		runErr = &SortError{Algorithm: alg, Wrapped: err}
	case completed:
		outcome = Completed
		c.listener.OnStatus(fmt.Sprintf("%s completed successfully!", alg))
	}
}

func (c *Controller) finish(sum Summary, seq []int, done chan struct{}) {
	c.mu.Lock()
	if sequence.IsPermutation(seq) {
		c.seq = seq
		c.seed = 0
	} else {
		c.logger.Warn().Str("algorithm", sum.Algorithm.Key()).Msg("discarding corrupted sequence")
	}
	c.view = nil
	c.busy = false
	if c.cancel != nil {
		c.cancel()
		c.cancel = nil
	}
	c.counter.SetRunning(false)
	c.mu.Unlock()

	c.logger.Info().
		Str("algorithm", sum.Algorithm.Key()).
		Str("outcome", string(sum.Outcome)).
		Uint64("comparisons", sum.Stats.Comparisons).
		Uint64("swaps", sum.Stats.Swaps).
		Dur("duration", sum.Duration).
		Msg("sort finished")

	c.listener.OnRunStateChanged(false)
	for _, r := range c.recorders {
		r.Record(sum)
	}
	close(done)
}

// render fans one engine step out to the renderer, the listener and observers.
func (c *Controller) render(values []int, colors []engine.Color, caption string) {
	f := engine.Frame{
		Values:  slices.Clone(values),
		Colors:  slices.Clone(colors),
		Caption: caption,
		Stats:   c.counter.Stats(),
	}
	c.steps++

	c.mu.Lock()
	c.view = f.Values
	c.mu.Unlock()

	c.renderer.Render(f.Values, f.Colors, f.Caption)
	c.listener.OnStatsChanged(f.Stats.Comparisons, f.Stats.Swaps)
	for _, o := range c.observers {
		o.OnFrame(f)
	}
}

func clampSpeed(ms int) int {
	if ms < 0 {
		return 0
	}
	if ms > MaxSpeedMs {
		return MaxSpeedMs
	}
	return ms
}
