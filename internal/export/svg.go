package export

import (
	"fmt"
	"strings"

	"github.com/san-kum/sortviz/internal/engine"
	"github.com/san-kum/sortviz/internal/metrics"
)

type series struct {
	label  string
	stroke string
	values []float64
}

// TimelineToSVG plots comparisons and swaps (scaled to the larger of the two)
// and sortedness (0..1) against the frame index.
func TimelineToSVG(points []metrics.Point, width, height int, title string) string {
	if len(points) < 2 {
		return ""
	}

	cmp := make([]float64, len(points))
	swp := make([]float64, len(points))
	srt := make([]float64, len(points))
	steps := make([]float64, len(points))
	peak := 1.0
	for i, p := range points {
		cmp[i] = float64(p.Comparisons)
		swp[i] = float64(p.Swaps)
		srt[i] = p.Sortedness
		steps[i] = float64(p.Step)
		peak = max(peak, cmp[i], swp[i])
	}
	for i := range cmp {
		cmp[i] /= peak
		swp[i] /= peak
	}

	all := []series{
		{"comparisons", ColorHex[engine.Comparing], cmp},
		{"swaps", ColorHex[engine.Swapped], swp},
		{"sortedness", ColorHex[engine.Sorted], srt},
	}

	const pad = 30
	plotW := float64(width - 2*pad)
	plotH := float64(height - 2*pad)
	minX, maxX := steps[0], steps[len(steps)-1]
	rangeX := maxX - minX
	if rangeX == 0 {
		rangeX = 1
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="%s"/>
<rect x="%d" y="%d" width="%.0f" height="%.0f" fill="none" stroke="#444444"/>
`, width, height, width, height, background, pad, pad, plotW, plotH))

	if title != "" {
		sb.WriteString(fmt.Sprintf(`<text x="%d" y="%d" fill="#dddddd" font-family="monospace" font-size="14">%s</text>
`, pad, pad-10, escape(title)))
	}

	for n, s := range all {
		sb.WriteString(fmt.Sprintf(`<path fill="none" stroke="%s" stroke-width="1.5" d="M`, s.stroke))
		for i, v := range s.values {
			x := pad + (steps[i]-minX)/rangeX*plotW
			y := pad + plotH - v*plotH
			if i == 0 {
				sb.WriteString(fmt.Sprintf("%.1f,%.1f", x, y))
			} else {
				sb.WriteString(fmt.Sprintf(" L%.1f,%.1f", x, y))
			}
		}
		sb.WriteString("\"/>\n")

		sb.WriteString(fmt.Sprintf(`<text x="%d" y="%d" fill="%s" font-family="monospace" font-size="12">%s</text>
`, pad+n*120, height-pad/3, s.stroke, s.label))
	}

	sb.WriteString("</svg>")
	return sb.String()
}

var svgEscaper = strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;", `"`, "&quot;")

func escape(s string) string { return svgEscaper.Replace(s) }
