package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/san-kum/sortviz/internal/export"
	"github.com/san-kum/sortviz/internal/logging"
	"github.com/san-kum/sortviz/internal/metrics"
	"github.com/san-kum/sortviz/internal/run"
	"github.com/san-kum/sortviz/internal/sequence"
	"github.com/san-kum/sortviz/internal/storage"
	"github.com/san-kum/sortviz/internal/tui"
	"github.com/san-kum/sortviz/internal/viz"
)

func runPlay(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd, args)
	if err != nil {
		return err
	}
	alg := cfg.AlgorithmValue()

	logger, err := logging.Console(os.Stderr, cfg.LogLevel, tui.IsTerminal(os.Stderr))
	if err != nil {
		return err
	}

	collector, shutdown := serveMetrics(logger)
	defer shutdown()

	renderer := tui.NewLiveRenderer(os.Stdout,
		tui.WithFrameRate(cfg.FPS),
		tui.WithPalette(viz.GetTheme(cfg.Theme).Palette()))
	timeline := metrics.NewTimeline(0)

	var summary run.Summary
	opts := []run.Option{
		run.WithListener(renderer),
		run.WithObserver(timeline),
		run.WithLogger(logging.Component(logger, "run")),
		run.WithRecorder(run.RecorderFunc(func(s run.Summary) { summary = s })),
	}

	var gifRec *export.GIFRecorder
	if gifPath != "" {
		gifRec = export.NewGIFRecorder(export.WithEvery(gifSampling(cfg.Size)))
		opts = append(opts, run.WithObserver(gifRec))
	}

	var saver *storage.Recorder
	if !noSave {
		saver = storage.NewRecorder(storage.New(cfg.DataDir),
			storage.WithTimeline(timeline),
			storage.WithRecorderLogger(logging.Component(logger, "storage")))
		opts = append(opts, run.WithRecorder(saver))
	}
	if collector != nil {
		opts = append(opts, run.WithRecorder(collector))
	}

	ctrl := run.New(sequence.NewSeeded(cfg.Seed), renderer, opts...)
	if _, err := ctrl.Generate(cfg.Size); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	drawCtx, stopDrawing := context.WithCancel(context.Background())
	defer stopDrawing()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return renderer.Run(drawCtx)
	})
	g.Go(func() error {
		defer stopDrawing()
		if err := ctrl.Start(alg, cfg.SpeedMs); err != nil {
			return err
		}
		if err := ctrl.Wait(gctx); err != nil {
			ctrl.Stop()
			return ctrl.Wait(context.Background())
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return err
	}

	fmt.Printf("\n%s %s: %d comparisons, %d swaps, %d frames in %s\n",
		summary.Algorithm, summary.Outcome, summary.Stats.Comparisons, summary.Stats.Swaps,
		summary.Steps, summary.Duration.Round(time.Millisecond))

	if gifRec != nil {
		if err := gifRec.Save(gifPath); err != nil {
			return fmt.Errorf("write gif: %w", err)
		}
		fmt.Printf("gif written to %s (%d frames)\n", gifPath, gifRec.Len())
	}
	if saver != nil && saver.LastID() != "" {
		fmt.Printf("saved run %s\n", saver.LastID())
	}
	if summary.Err != nil {
		return summary.Err
	}
	return nil
}

// gifSampling keeps animations of large arrays at a few hundred frames.
func gifSampling(n int) int {
	return max(1, n*n/4000)
}
