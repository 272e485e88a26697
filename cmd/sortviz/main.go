package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/san-kum/sortviz/internal/config"
	"github.com/san-kum/sortviz/internal/engine"
	"github.com/san-kum/sortviz/internal/logging"
	"github.com/san-kum/sortviz/internal/metrics"
	"github.com/san-kum/sortviz/internal/run"
	"github.com/san-kum/sortviz/internal/sequence"
	"github.com/san-kum/sortviz/internal/storage"
	"github.com/san-kum/sortviz/internal/viz"
)

var (
	dataDir     string
	logLevel    string
	metricsAddr string
	// Run settings
	size       int
	speedMs    int
	seed       int64
	theme      string
	frameRate  int
	configFile string
	preset     string
	// Play output
	gifPath string
	noSave  bool
	// Show output
	asJSON bool
)

// main registers the commands and runs the interactive app when no subcommand is given.
// It exits the process with status 1 if command execution returns an error.
func main() {
	rootCmd := &cobra.Command{
		Use:           "sortviz",
		Short:         "sorting algorithm visualizer",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          runTUI,
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", config.DefaultDataDir, "data directory")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", config.DefaultLogLevel, "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&metricsAddr, "metrics-addr", "", "serve Prometheus metrics on this address (empty disables)")
	addRunFlags(rootCmd)

	tuiCmd := &cobra.Command{
		Use:   "tui",
		Short: "interactive visualizer",
		Args:  cobra.NoArgs,
		RunE:  runTUI,
	}
	addRunFlags(tuiCmd)

	playCmd := &cobra.Command{
		Use:   "play [algorithm]",
		Short: "animate one sort in the terminal",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runPlay,
	}
	addRunFlags(playCmd)
	playCmd.Flags().IntVar(&frameRate, "fps", config.DefaultFPS, "frames per second")
	playCmd.Flags().StringVar(&gifPath, "gif", "", "record the animation to this GIF file")
	playCmd.Flags().BoolVar(&noSave, "no-save", false, "do not store the run")

	benchCmd := &cobra.Command{
		Use:   "bench",
		Short: "compare all algorithms on the same array",
		Args:  cobra.NoArgs,
		RunE:  runBench,
	}
	benchCmd.Flags().IntVar(&size, "size", sequence.DefaultSize, "array size")
	benchCmd.Flags().Int64Var(&seed, "seed", 0, "random seed (0 = time based)")

	scenarioCmd := &cobra.Command{
		Use:   "scenario <file>",
		Short: "run the steps of a YAML scenario headlessly",
		Args:  cobra.ExactArgs(1),
		RunE:  runScenario,
	}
	scenarioCmd.Flags().BoolVar(&noSave, "no-save", false, "do not store the runs")

	sweepCmd := &cobra.Command{
		Use:   "sweep [algorithm]",
		Short: "count operations across array sizes",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runSweep,
	}
	sweepCmd.Flags().IntVar(&sweepFrom, "from", sequence.MinSize, "smallest array size")
	sweepCmd.Flags().IntVar(&sweepTo, "to", sequence.MaxSize, "largest array size")
	sweepCmd.Flags().IntVar(&sweepSteps, "steps", 10, "number of sizes")
	sweepCmd.Flags().Int64Var(&seed, "seed", 0, "random seed (0 = time based)")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list stored runs",
		Args:  cobra.NoArgs,
		RunE:  listRuns,
	}

	showCmd := &cobra.Command{
		Use:   "show [run_id]",
		Short: "show a stored run (latest by default)",
		Args:  cobra.MaximumNArgs(1),
		RunE:  showRun,
	}
	showCmd.Flags().BoolVar(&asJSON, "json", false, "print the run and its timeline as JSON")

	svgCmd := &cobra.Command{
		Use:   "export-svg [run_id] [output]",
		Short: "plot a stored run's counters as SVG",
		Args:  cobra.ExactArgs(2),
		RunE:  exportSVG,
	}

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list presets",
		Args:  cobra.NoArgs,
		RunE:  listPresets,
	}

	algorithmsCmd := &cobra.Command{
		Use:   "algorithms",
		Short: "list algorithms",
		Args:  cobra.NoArgs,
		RunE:  listAlgorithms,
	}

	rootCmd.AddCommand(tuiCmd, playCmd, benchCmd, scenarioCmd, sweepCmd, listCmd, showCmd, svgCmd, presetsCmd, algorithmsCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func addRunFlags(cmd *cobra.Command) {
	cmd.Flags().IntVar(&size, "size", sequence.DefaultSize, "array size (10-200)")
	cmd.Flags().IntVar(&speedMs, "speed", run.DefaultSpeedMs, "delay per step in ms (0-500)")
	cmd.Flags().Int64Var(&seed, "seed", 0, "random seed (0 = time based)")
	cmd.Flags().StringVar(&theme, "theme", config.DefaultTheme, "color theme")
	cmd.Flags().StringVar(&configFile, "config", "", "config file path (yaml)")
	cmd.Flags().StringVar(&preset, "preset", "", "use preset configuration")
}

// resolveConfig layers defaults, the config file, a preset and explicitly set
// flags, in that order.
func resolveConfig(cmd *cobra.Command, args []string) (*config.Config, error) {
	cfg := config.DefaultConfig()
	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}
	if preset != "" {
		p := config.GetPreset(preset)
		if p == nil {
			return nil, fmt.Errorf("%w: unknown preset %q", config.ErrInvalidConfig, preset)
		}
		cfg.Algorithm, cfg.Size, cfg.SpeedMs = p.Algorithm, p.Size, p.SpeedMs
	}

	flags := cmd.Flags()
	if len(args) > 0 {
		cfg.Algorithm = args[0]
	}
	if flags.Changed("size") {
		cfg.Size = size
	}
	if flags.Changed("speed") {
		cfg.SpeedMs = speedMs
	}
	if flags.Changed("seed") {
		cfg.Seed = seed
	}
	if flags.Changed("theme") {
		cfg.Theme = theme
	}
	if flags.Changed("fps") {
		cfg.FPS = frameRate
	}
	if flags.Changed("data") || configFile == "" {
		cfg.DataDir = dataDir
	}
	if flags.Changed("log-level") || configFile == "" {
		cfg.LogLevel = logLevel
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if cfg.Seed == 0 {
		cfg.Seed = time.Now().UnixNano()
	}
	return cfg, nil
}

// serveMetrics starts the optional Prometheus endpoint and returns the
// collector to record into, or nil when disabled.
func serveMetrics(logger zerolog.Logger) (*metrics.Collector, func()) {
	if metricsAddr == "" {
		return nil, func() {}
	}
	collector := metrics.NewCollector()
	mux := http.NewServeMux()
	mux.Handle("/metrics", collector.Handler())
	srv := &http.Server{Addr: metricsAddr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error().Err(err).Str("addr", metricsAddr).Msg("metrics server")
		}
	}()
	logger.Info().Str("addr", metricsAddr).Msg("serving metrics")

	return collector, func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		srv.Shutdown(ctx)
	}
}

func runTUI(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd, nil)
	if err != nil {
		return err
	}

	logger, closer, err := logging.File(filepath.Join(cfg.DataDir, "sortviz.log"), cfg.LogLevel)
	if err != nil {
		return err
	}
	defer closer.Close()

	collector, shutdown := serveMetrics(logger)
	defer shutdown()

	bridge := viz.NewBridge()
	timeline := metrics.NewTimeline(0)
	store := storage.New(cfg.DataDir)
	opts := []run.Option{
		run.WithListener(bridge),
		run.WithObserver(timeline),
		run.WithLogger(logging.Component(logger, "run")),
		run.WithRecorder(storage.NewRecorder(store,
			storage.WithTimeline(timeline),
			storage.WithRecorderLogger(logging.Component(logger, "storage")))),
	}
	if collector != nil {
		opts = append(opts, run.WithRecorder(collector))
	}
	ctrl := run.New(sequence.NewSeeded(cfg.Seed), bridge, opts...)

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	err = viz.Run(ctx, ctrl, bridge, viz.Options{
		Algorithm: cfg.AlgorithmValue(),
		Size:      cfg.Size,
		SpeedMs:   cfg.SpeedMs,
		Theme:     cfg.Theme,
	})

	if ctrl.Running() {
		ctrl.Stop()
	}
	waitCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if werr := ctrl.Wait(waitCtx); werr != nil {
		logger.Warn().Err(werr).Msg("worker did not exit")
	}
	return err
}

func listAlgorithms(cmd *cobra.Command, args []string) error {
	return printAlgorithms(cmd.OutOrStdout())
}

func printAlgorithms(w io.Writer) error {
	for _, a := range engine.Algorithms() {
		if _, err := fmt.Fprintf(w, "%-10s %s\n", a.Key(), a); err != nil {
			return err
		}
	}
	return nil
}
