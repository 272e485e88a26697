package main

import (
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"

	"github.com/san-kum/sortviz/internal/config"
	"github.com/san-kum/sortviz/internal/export"
	"github.com/san-kum/sortviz/internal/metrics"
	"github.com/san-kum/sortviz/internal/storage"
)

func listRuns(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	runs, err := st.List()
	if err != nil {
		return err
	}

	if len(runs) == 0 {
		fmt.Println("no runs found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tALGORITHM\tSIZE\tSPEED\tOUTCOME\tCOMPARISONS\tSWAPS\tDURATION\tTIME")

	for _, r := range runs {
		fmt.Fprintf(w, "%s\t%s\t%d\t%dms\t%s\t%d\t%d\t%s\t%s\n",
			r.ID,
			r.Algorithm,
			r.Size,
			r.SpeedMs,
			r.Outcome,
			r.Comparisons,
			r.Swaps,
			r.Duration.Round(time.Millisecond),
			r.Timestamp.Format("2006-01-02 15:04:05"),
		)
	}

	return w.Flush()
}

func loadRun(st *storage.Store, args []string) (*storage.RunRecord, error) {
	if len(args) == 0 {
		return st.Latest()
	}
	return st.Load(args[0])
}

func showRun(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	rec, err := loadRun(st, args)
	if err != nil {
		return err
	}
	points, err := st.LoadSteps(rec.ID)
	if err != nil {
		return err
	}

	if asJSON {
		return storage.ExportJSON(os.Stdout, *rec, points)
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "run\t%s\n", rec.ID)
	fmt.Fprintf(w, "algorithm\t%s\n", rec.Algorithm)
	fmt.Fprintf(w, "size\t%d\n", rec.Size)
	fmt.Fprintf(w, "speed\t%dms\n", rec.SpeedMs)
	fmt.Fprintf(w, "seed\t%d\n", rec.Seed)
	fmt.Fprintf(w, "outcome\t%s\n", rec.Outcome)
	fmt.Fprintf(w, "comparisons\t%d\n", rec.Comparisons)
	fmt.Fprintf(w, "swaps\t%d\n", rec.Swaps)
	fmt.Fprintf(w, "frames\t%d\n", rec.Steps)
	fmt.Fprintf(w, "duration\t%s\n", rec.Duration.Round(time.Millisecond))
	if rec.Error != "" {
		fmt.Fprintf(w, "error\t%s\n", rec.Error)
	}
	if err := w.Flush(); err != nil {
		return err
	}

	if len(points) < 2 {
		return nil
	}
	pick := func(f func(metrics.Point) float64) []float64 {
		out := make([]float64, len(points))
		for i, p := range points {
			out[i] = f(p)
		}
		return out
	}
	fmt.Println()
	fmt.Println(asciigraph.Plot(pick(func(p metrics.Point) float64 { return p.Sortedness }),
		asciigraph.Height(8), asciigraph.Width(60),
		asciigraph.LowerBound(0), asciigraph.UpperBound(1),
		asciigraph.Caption("sortedness")))
	fmt.Println()
	fmt.Println(asciigraph.Plot(pick(func(p metrics.Point) float64 { return float64(p.Swaps) }),
		asciigraph.Height(8), asciigraph.Width(60),
		asciigraph.Caption("swaps")))
	return nil
}

func exportSVG(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	rec, err := st.Load(args[0])
	if err != nil {
		return err
	}
	points, err := st.LoadSteps(rec.ID)
	if err != nil {
		return err
	}
	if len(points) < 2 {
		return fmt.Errorf("run %s has too few samples to plot", rec.ID)
	}

	title := fmt.Sprintf("%s · %d elements · %s", rec.Algorithm, rec.Size, rec.Outcome)
	svg := export.TimelineToSVG(points, 800, 400, title)
	if err := os.WriteFile(args[1], []byte(svg), 0644); err != nil {
		return err
	}
	fmt.Printf("exported to %s\n", args[1])
	return nil
}

func listPresets(cmd *cobra.Command, args []string) error {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "PRESET\tALGORITHM\tSIZE\tSPEED")
	for _, name := range config.ListPresets() {
		p := config.GetPreset(name)
		fmt.Fprintf(w, "%s\t%s\t%d\t%dms\n", name, p.Algorithm, p.Size, p.SpeedMs)
	}
	return w.Flush()
}
