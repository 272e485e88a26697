package export

import (
	"fmt"
	"image/color"

	"github.com/san-kum/sortviz/internal/engine"
)

// ColorHex is the classic visualizer palette, indexed by engine.Color.
var ColorHex = [...]string{
	engine.Default:   "#3498db",
	engine.Comparing: "#f39c12",
	engine.Pivot:     "#e67e22",
	engine.Candidate: "#9b59b6",
	engine.Swapped:   "#e74c3c",
	engine.Sorted:    "#2ecc71",
}

const background = "#0a0a0a"

func Hex(c engine.Color) string {
	if int(c) < len(ColorHex) {
		return ColorHex[c]
	}
	return ColorHex[engine.Default]
}

func parseHex(s string) color.RGBA {
	var r, g, b uint8
	if _, err := fmt.Sscanf(s, "#%02x%02x%02x", &r, &g, &b); err != nil {
		return color.RGBA{A: 0xff}
	}
	return color.RGBA{R: r, G: g, B: b, A: 0xff}
}
