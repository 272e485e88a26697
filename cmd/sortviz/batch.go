package main

import (
	"fmt"
	"io"
	"os"
	"os/signal"
	"text/tabwriter"
	"time"

	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"

	"github.com/san-kum/sortviz/internal/automation"
	"github.com/san-kum/sortviz/internal/engine"
	"github.com/san-kum/sortviz/internal/logging"
	"github.com/san-kum/sortviz/internal/run"
	"github.com/san-kum/sortviz/internal/storage"
	"github.com/san-kum/sortviz/internal/tui"
)

var (
	sweepFrom  int
	sweepTo    int
	sweepSteps int
)

func runScenario(cmd *cobra.Command, args []string) error {
	logger, err := logging.Console(os.Stderr, logLevel, tui.IsTerminal(os.Stderr))
	if err != nil {
		return err
	}
	scenario, err := automation.LoadScenario(args[0])
	if err != nil {
		return err
	}
	collector, shutdown := serveMetrics(logger)
	defer shutdown()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	var store *storage.Store
	if !noSave {
		store = storage.New(dataDir)
		if err := store.Init(); err != nil {
			return err
		}
	}

	runner := &automation.Runner{
		Options: []run.Option{run.WithLogger(logging.Component(logger, "scenario"))},
		Progress: func(i, total int, r automation.Result) {
			s := r.Summary
			fmt.Printf("[%d/%d] %-15s n=%-4d comparisons=%-6d swaps=%-6d %s\n",
				i+1, total, s.Algorithm, s.Size, s.Stats.Comparisons, s.Stats.Swaps, s.Outcome)
			if store == nil {
				return
			}
			id, err := store.Save(storage.FromSummary(s), r.Timeline)
			if err != nil {
				logger.Error().Err(err).Msg("save run")
				return
			}
			logger.Debug().Str("run_id", id).Msg("run saved")
		},
	}
	if collector != nil {
		runner.Options = append(runner.Options, run.WithRecorder(collector))
	}

	fmt.Printf("scenario %s: %s\n", scenario.Name, scenario.Description)
	_, err = runner.RunScenario(ctx, scenario)
	return err
}

func runSweep(cmd *cobra.Command, args []string) error {
	logger, err := logging.Console(os.Stderr, logLevel, tui.IsTerminal(os.Stderr))
	if err != nil {
		return err
	}
	alg := engine.Quick
	if len(args) > 0 {
		if alg, err = engine.ParseAlgorithm(args[0]); err != nil {
			return err
		}
	}
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	runner := &automation.Runner{Options: []run.Option{run.WithLogger(logging.Component(logger, "sweep"))}}
	results, err := runner.RunSweep(ctx, automation.SizeSweep{
		Algorithm: alg,
		MinSize:   sweepFrom,
		MaxSize:   sweepTo,
		NumSteps:  sweepSteps,
		Seed:      seed,
	})
	if err != nil {
		return err
	}
	return printSweep(os.Stdout, alg, seed, results)
}

func printSweep(w io.Writer, alg engine.Algorithm, seed int64, results []automation.SweepResult) error {
	fmt.Fprintf(w, "%s size sweep (seed %d)\n\n", alg, seed)
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "SIZE\tINVERSIONS\tCOMPARISONS\tSWAPS")
	comparisons := make([]float64, 0, len(results))
	for _, r := range results {
		fmt.Fprintf(tw, "%d\t%d\t%d\t%d\n", r.Size, r.Inversions, r.Comparisons, r.Swaps)
		comparisons = append(comparisons, float64(r.Comparisons))
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	if len(comparisons) < 2 {
		return nil
	}
	fmt.Fprintln(w)
	fmt.Fprintln(w, asciigraph.Plot(comparisons,
		asciigraph.Height(10),
		asciigraph.Precision(0),
		asciigraph.Caption("comparisons by size")))
	return nil
}
