// Package automation runs sorts headlessly in batches: scripted scenarios,
// side-by-side comparisons and size sweeps.
package automation

import (
	"context"
	"fmt"
	"os"
	"slices"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/sortviz/internal/engine"
	"github.com/san-kum/sortviz/internal/metrics"
	"github.com/san-kum/sortviz/internal/run"
	"github.com/san-kum/sortviz/internal/sequence"
)

// Scenario defines a scripted sequence of runs
type Scenario struct {
	Name        string         `yaml:"name"`
	Description string         `yaml:"description"`
	Steps       []ScenarioStep `yaml:"steps"`
}

// ScenarioStep is a single run in a scenario. A zero seed is time based.
type ScenarioStep struct {
	Algorithm string `yaml:"algorithm"`
	Size      int    `yaml:"size"`
	SpeedMs   int    `yaml:"speed_ms"`
	Seed      int64  `yaml:"seed"`
}

// LoadScenario loads a scenario from a YAML file and checks every step.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var scenario Scenario
	if err := yaml.Unmarshal(data, &scenario); err != nil {
		return nil, err
	}
	if len(scenario.Steps) == 0 {
		return nil, fmt.Errorf("scenario %q has no steps", scenario.Name)
	}
	for i, step := range scenario.Steps {
		if _, err := engine.ParseAlgorithm(step.Algorithm); err != nil {
			return nil, fmt.Errorf("step %d: %w", i+1, err)
		}
	}
	return &scenario, nil
}

// Result is the outcome of one headless run.
type Result struct {
	Summary  run.Summary
	Timeline []metrics.Point
}

// Progress is told about each finished run.
type Progress func(i, total int, r Result)

// Runner executes runs one at a time on fresh controllers. Options are
// appended to every controller it builds, for recorders and loggers.
type Runner struct {
	Options  []run.Option
	Progress Progress
}

// Sort runs alg over seq and waits for it. Cancelling ctx stops the run; the
// stopped summary is still returned along with ctx's error.
func (r *Runner) Sort(ctx context.Context, alg engine.Algorithm, seq []int, speedMs int) (Result, error) {
	return r.execute(ctx, sequence.NewSeeded(1), func(c *run.Controller) error {
		return c.Load(seq)
	}, alg, speedMs)
}

// execute prepares a fresh controller over gen and runs alg on it.
func (r *Runner) execute(ctx context.Context, gen *sequence.Generator, prepare func(*run.Controller) error, alg engine.Algorithm, speedMs int) (Result, error) {
	var sum run.Summary
	timeline := metrics.NewTimeline(0)
	opts := append([]run.Option{
		run.WithObserver(timeline),
		run.WithRecorder(run.RecorderFunc(func(s run.Summary) { sum = s })),
	}, r.Options...)

	ctrl := run.New(gen, nil, opts...)
	if err := prepare(ctrl); err != nil {
		return Result{}, err
	}
	if err := ctrl.Start(alg, speedMs); err != nil {
		return Result{}, err
	}
	waitErr := ctrl.Wait(ctx)
	if waitErr != nil {
		ctrl.Stop()
		ctrl.Wait(context.Background())
	}
	res := Result{Summary: sum, Timeline: timeline.Points()}
	if sum.Err != nil && waitErr == nil {
		return res, sum.Err
	}
	return res, waitErr
}

// generate returns a prepare step that draws an n element array from the
// controller's generator, handing the array to inspect when it is not nil.
func generate(n int, inspect func([]int)) func(*run.Controller) error {
	return func(c *run.Controller) error {
		seq, err := c.Generate(n)
		if err == nil && inspect != nil {
			inspect(seq)
		}
		return err
	}
}

func (r *Runner) report(i, total int, res Result) {
	if r.Progress != nil {
		r.Progress(i, total, res)
	}
}

// RunScenario executes all steps in a scenario. A step's array comes from its
// seed, so the seed in each summary rebuilds it even when the step used 0.
func (r *Runner) RunScenario(ctx context.Context, scenario *Scenario) ([]Result, error) {
	results := make([]Result, 0, len(scenario.Steps))

	for i, step := range scenario.Steps {
		alg, err := engine.ParseAlgorithm(step.Algorithm)
		if err != nil {
			return results, fmt.Errorf("step %d: %w", i+1, err)
		}
		size := step.Size
		if size == 0 {
			size = sequence.DefaultSize
		}

		res, err := r.execute(ctx, sequence.NewSeeded(step.Seed), generate(size, nil), alg, step.SpeedMs)
		if err != nil {
			return results, fmt.Errorf("step %d run: %w", i+1, err)
		}
		results = append(results, res)
		r.report(i, len(scenario.Steps), res)
	}

	return results, nil
}

// Compare sorts the same permutation with every algorithm, one after another,
// without pacing. seq is left untouched.
func (r *Runner) Compare(ctx context.Context, seq []int) ([]Result, error) {
	algs := engine.Algorithms()
	results := make([]Result, 0, len(algs))
	for i, alg := range algs {
		res, err := r.Sort(ctx, alg, slices.Clone(seq), 0)
		if err != nil {
			return results, fmt.Errorf("%s: %w", alg, err)
		}
		results = append(results, res)
		r.report(i, len(algs), res)
	}
	return results, nil
}

// SizeSweep runs one algorithm over evenly spaced array sizes.
type SizeSweep struct {
	Algorithm engine.Algorithm
	MinSize   int
	MaxSize   int
	NumSteps  int
	Seed      int64
}

// SweepResult holds results from a size sweep
type SweepResult struct {
	Size        int
	Comparisons uint64
	Swaps       uint64
	Inversions  int
}

// RunSweep executes a size sweep. Every size uses a generator seeded with
// the sweep seed, so sweeps are reproducible when Seed is set.
func (r *Runner) RunSweep(ctx context.Context, sweep SizeSweep) ([]SweepResult, error) {
	if sweep.NumSteps < 2 {
		sweep.NumSteps = 2
	}
	lo := min(max(sweep.MinSize, sequence.MinSize), sequence.MaxSize)
	hi := min(max(sweep.MaxSize, lo), sequence.MaxSize)

	results := make([]SweepResult, 0, sweep.NumSteps)
	last := -1
	for i := 0; i < sweep.NumSteps; i++ {
		size := lo + i*(hi-lo)/(sweep.NumSteps-1)
		if size == last {
			continue
		}
		last = size

		var inv int
		countInput := func(seq []int) { inv = metrics.CountInversions(seq) }
		res, err := r.execute(ctx, sequence.NewSeeded(sweep.Seed), generate(size, countInput), sweep.Algorithm, 0)
		if err != nil {
			return results, fmt.Errorf("size %d: %w", size, err)
		}
		results = append(results, SweepResult{
			Size:        size,
			Comparisons: res.Summary.Stats.Comparisons,
			Swaps:       res.Summary.Stats.Swaps,
			Inversions:  inv,
		})
		r.report(i, sweep.NumSteps, res)
	}
	return results, nil
}
