package main

import (
	"fmt"
	"os"
	"os/signal"
	"text/tabwriter"
	"time"

	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"

	"github.com/san-kum/sortviz/internal/automation"
	"github.com/san-kum/sortviz/internal/logging"
	"github.com/san-kum/sortviz/internal/metrics"
	"github.com/san-kum/sortviz/internal/run"
	"github.com/san-kum/sortviz/internal/sequence"
	"github.com/san-kum/sortviz/internal/tui"
)

func runBench(cmd *cobra.Command, args []string) error {
	logger, err := logging.Console(os.Stderr, logLevel, tui.IsTerminal(os.Stderr))
	if err != nil {
		return err
	}
	collector, shutdown := serveMetrics(logger)
	defer shutdown()

	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	seq, err := sequence.NewSeeded(seed).Generate(size)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	runner := &automation.Runner{Options: []run.Option{run.WithLogger(logging.Component(logger, "bench"))}}
	if collector != nil {
		runner.Options = append(runner.Options, run.WithRecorder(collector))
	}
	results, err := runner.Compare(ctx, seq)
	if err != nil {
		return err
	}

	fmt.Printf("benchmarking %d elements (seed %d)\n\n", len(seq), seed)
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ALGORITHM\tCOMPARISONS\tSWAPS\tFRAMES\tTIME")
	for _, r := range results {
		s := r.Summary
		fmt.Fprintf(w, "%s\t%d\t%d\t%d\t%s\n",
			s.Algorithm, s.Stats.Comparisons, s.Stats.Swaps, s.Steps, s.Duration.Round(time.Microsecond))
	}
	if err := w.Flush(); err != nil {
		return err
	}

	series := make([][]float64, 0, len(results))
	colors := []asciigraph.AnsiColor{asciigraph.Blue, asciigraph.Orange, asciigraph.Green, asciigraph.Magenta, asciigraph.Red}
	for _, r := range results {
		if level := sortLevel(r.Timeline); len(level) > 1 {
			series = append(series, level)
		}
	}
	if len(series) == 0 {
		return nil
	}
	color := tui.IsTerminal(os.Stdout)
	plotOpts := []asciigraph.Option{
		asciigraph.Height(10),
		asciigraph.Width(60),
		asciigraph.LowerBound(0),
		asciigraph.UpperBound(1),
		asciigraph.Caption("sortedness over each run"),
	}
	if color {
		plotOpts = append(plotOpts, asciigraph.SeriesColors(colors[:len(series)]...))
	}
	fmt.Println()
	fmt.Println(asciigraph.PlotMany(series, plotOpts...))
	for i, r := range results {
		if color {
			fmt.Printf("  %s%s%s", colors[i%len(colors)], r.Summary.Algorithm, asciigraph.Default)
		} else {
			fmt.Printf("  %s", r.Summary.Algorithm)
		}
	}
	fmt.Println()
	return nil
}

func sortLevel(points []metrics.Point) []float64 {
	out := make([]float64, len(points))
	for i, p := range points {
		out[i] = p.Sortedness
	}
	return out
}
