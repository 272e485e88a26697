package viz

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/san-kum/sortviz/internal/engine"
)

// Theme defines color scheme for the TUI
type Theme struct {
	Name   string
	Bars   [6]lipgloss.Color // indexed by engine.Color
	Title  lipgloss.Color
	Text   lipgloss.Color
	Muted  lipgloss.Color
	Border lipgloss.Color
	Error  lipgloss.Color
}

func (t Theme) Bar(c engine.Color) lipgloss.Color {
	if int(c) < len(t.Bars) {
		return t.Bars[c]
	}
	return t.Bars[engine.Default]
}

// Available themes
var (
	ThemeClassic = Theme{
		Name: "classic",
		Bars: [6]lipgloss.Color{
			engine.Default:   "#3498db",
			engine.Comparing: "#f39c12",
			engine.Pivot:     "#e67e22",
			engine.Candidate: "#9b59b6",
			engine.Swapped:   "#e74c3c",
			engine.Sorted:    "#2ecc71",
		},
		Title:  "#ecf0f1",
		Text:   "#ffffff",
		Muted:  "#7f8c8d",
		Border: "#34495e",
		Error:  "#e74c3c",
	}

	ThemeCyberpunk = Theme{
		Name: "cyberpunk",
		Bars: [6]lipgloss.Color{
			engine.Default:   "#00ffff",
			engine.Comparing: "#ffff00",
			engine.Pivot:     "#ff8800",
			engine.Candidate: "#ff00ff",
			engine.Swapped:   "#ff0000",
			engine.Sorted:    "#00ff00",
		},
		Title:  "#ff00ff",
		Text:   "#ffffff",
		Muted:  "#666666",
		Border: "#444466",
		Error:  "#ff0000",
	}

	ThemeRetroGreen = Theme{
		Name: "retro",
		Bars: [6]lipgloss.Color{
			engine.Default:   "#00aa00",
			engine.Comparing: "#ffff00",
			engine.Pivot:     "#ccff66",
			engine.Candidate: "#88ff88",
			engine.Swapped:   "#ffffff",
			engine.Sorted:    "#00ff00",
		},
		Title:  "#00ff00",
		Text:   "#00ff00",
		Muted:  "#005500",
		Border: "#003300",
		Error:  "#ff0000",
	}

	ThemeOcean = Theme{
		Name: "ocean",
		Bars: [6]lipgloss.Color{
			engine.Default:   "#0077be",
			engine.Comparing: "#ffd700",
			engine.Pivot:     "#ffcc00",
			engine.Candidate: "#00a8cc",
			engine.Swapped:   "#ff4444",
			engine.Sorted:    "#00ff88",
		},
		Title:  "#e0f0ff",
		Text:   "#e0f0ff",
		Muted:  "#4488aa",
		Border: "#224466",
		Error:  "#ff4444",
	}

	ThemeSunset = Theme{
		Name: "sunset",
		Bars: [6]lipgloss.Color{
			engine.Default:   "#ff6b6b",
			engine.Comparing: "#feca57",
			engine.Pivot:     "#ffc048",
			engine.Candidate: "#ff9ff3",
			engine.Swapped:   "#ff4757",
			engine.Sorted:    "#5fd068",
		},
		Title:  "#fff5f5",
		Text:   "#fff5f5",
		Muted:  "#8b6b8c",
		Border: "#4d3b4e",
		Error:  "#ff4757",
	}

	// All available themes
	Themes = []Theme{
		ThemeClassic,
		ThemeCyberpunk,
		ThemeRetroGreen,
		ThemeOcean,
		ThemeSunset,
	}
)

// GetTheme returns a theme by name, falling back to classic.
func GetTheme(name string) Theme {
	return Themes[themeIndex(name)]
}

func themeIndex(name string) int {
	for i, t := range Themes {
		if t.Name == name {
			return i
		}
	}
	return 0
}

// ThemeNames returns list of available theme names
func ThemeNames() []string {
	names := make([]string, len(Themes))
	for i, t := range Themes {
		names[i] = t.Name
	}
	return names
}

// Palette returns the theme's bar colors as hex strings, keyed by overlay color.
func (t Theme) Palette() map[engine.Color]string {
	out := make(map[engine.Color]string, len(t.Bars))
	for i, c := range t.Bars {
		out[engine.Color(i)] = string(c)
	}
	return out
}
