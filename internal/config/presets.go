package config

import "sort"

var Presets = map[string]*Config{
	"tiny": {
		Algorithm: "insertion", Size: 10, SpeedMs: 300,
	},
	"classic": {
		Algorithm: "bubble", Size: 50, SpeedMs: 100,
	},
	"divide": {
		Algorithm: "merge", Size: 100, SpeedMs: 20,
	},
	"partition": {
		Algorithm: "quick", Size: 100, SpeedMs: 20,
	},
	"stress": {
		Algorithm: "quick", Size: 200, SpeedMs: 1,
	},
	"instant": {
		Algorithm: "selection", Size: 200, SpeedMs: 0,
	},
}

// GetPreset returns a validated copy of the named preset layered over the
// defaults, or nil when no such preset exists.
func GetPreset(name string) *Config {
	p, ok := Presets[name]
	if !ok {
		return nil
	}
	cfg := DefaultConfig()
	cfg.Algorithm = p.Algorithm
	cfg.Size = p.Size
	cfg.SpeedMs = p.SpeedMs
	if p.Theme != "" {
		cfg.Theme = p.Theme
	}
	if err := cfg.Validate(); err != nil {
		return nil
	}
	return cfg
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
