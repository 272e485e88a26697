package tui

import (
	"strings"

	"github.com/san-kum/sortviz/internal/engine"
)

var eighths = []rune{' ', '▁', '▂', '▃', '▄', '▅', '▆', '▇', '█'}

// Column is one drawn bar. When a sequence is wider than the chart, several
// elements share a column.
type Column struct {
	Value int
	Color engine.Color
}

// salience orders overlay colors for merged columns; the highest one wins.
var salience = [...]int{
	engine.Default:   0,
	engine.Sorted:    1,
	engine.Candidate: 2,
	engine.Pivot:     3,
	engine.Comparing: 4,
	engine.Swapped:   5,
}

func salient(c engine.Color) int {
	if int(c) < len(salience) {
		return salience[c]
	}
	return 0
}

// Columns maps values onto at most width columns, keeping the largest value and
// the most salient color of each bucket.
func Columns(values []int, colors []engine.Color, width int) []Column {
	n := len(values)
	if n == 0 || width <= 0 {
		return nil
	}
	if width > n {
		width = n
	}
	cols := make([]Column, width)
	for c := range cols {
		lo, hi := c*n/width, (c+1)*n/width
		col := Column{Color: engine.Default}
		for i := lo; i < hi; i++ {
			col.Value = max(col.Value, values[i])
			if i < len(colors) && salient(colors[i]) > salient(col.Color) {
				col.Color = colors[i]
			}
		}
		cols[c] = col
	}
	return cols
}

// Paint styles a run of glyphs that share one color.
type Paint func(c engine.Color, s string) string

// DrawBars renders columns as height rows of block glyphs, top row first.
// Consecutive cells with the same color are painted together.
func DrawBars(cols []Column, height int, paint Paint) []string {
	if height <= 0 {
		return nil
	}
	if paint == nil {
		paint = func(_ engine.Color, s string) string { return s }
	}
	maxV := 1
	for _, c := range cols {
		maxV = max(maxV, c.Value)
	}

	// bar heights in eighths of a row
	units := make([]int, len(cols))
	for i, c := range cols {
		units[i] = c.Value * height * 8 / maxV
	}

	rows := make([]string, height)
	var run strings.Builder
	for r := 0; r < height; r++ {
		floor := (height - 1 - r) * 8
		var line strings.Builder
		runColor := engine.Color(255)
		flush := func() {
			if run.Len() > 0 {
				line.WriteString(paint(runColor, run.String()))
				run.Reset()
			}
		}
		for i, c := range cols {
			fill := min(max(units[i]-floor, 0), 8)
			color := c.Color
			if fill == 0 {
				color = engine.Default
			}
			if color != runColor {
				flush()
				runColor = color
			}
			run.WriteRune(eighths[fill])
		}
		flush()
		rows[r] = line.String()
	}
	return rows
}

// Sparkline draws data as one row of block glyphs scaled to [lo, hi].
func Sparkline(data []float64, width int, lo, hi float64) string {
	if len(data) == 0 || width <= 0 {
		return ""
	}
	span := hi - lo
	if span <= 0 {
		span = 1
	}
	step := len(data) / width
	if step < 1 {
		step = 1
	}
	var sb strings.Builder
	for i := 0; i < width && i*step < len(data); i++ {
		idx := int((data[i*step]-lo)/span*7) + 1
		sb.WriteRune(eighths[min(max(idx, 1), 8)])
	}
	return sb.String()
}
