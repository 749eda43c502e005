package config

import (
	"sort"
	"strings"
)

func preset(pattern string, w, h int, mod func(*Config)) *Config {
	cfg := DefaultConfig()
	cfg.Pattern = pattern
	cfg.Grid.Width, cfg.Grid.Height = w, h
	if mod != nil {
		mod(cfg)
	}
	return cfg
}

var Presets = map[string]map[string]*Config{
	"digits": {
		"classic": preset("digits", 80, 24, nil),
		"wide":    preset("digits", 120, 30, nil),
		"dense": preset("digits", 80, 24, func(c *Config) {
			c.Engine.PerturbationFraction = 0.15
			c.Engine.HistoryCapacity = 8
		}),
		"walled": preset("digits", 60, 20, func(c *Config) {
			c.Grid.Boundary = "clamped"
		}),
	},
	"oscillators": {
		"blinker": preset("blinker", 20, 10, nil),
		"pulsar": preset("pulsar", 30, 20, func(c *Config) {
			c.Display.Glyphs = "pathways"
		}),
		"beacon": preset("beacon", 16, 10, nil),
	},
	"spaceships": {
		"glider": preset("glider", 40, 20, nil),
		"lwss":   preset("lwss", 60, 16, nil),
	},
	"methuselahs": {
		"r-pentomino": preset("r-pentomino", 100, 40, func(c *Config) {
			c.Display.FPS = 30
		}),
		"acorn": preset("acorn", 120, 40, func(c *Config) {
			c.Display.FPS = 30
		}),
		"diehard": preset("diehard", 40, 20, nil),
	},
	"soup": {
		"random": preset("random", 80, 24, func(c *Config) {
			c.Display.Glyphs = "digits"
		}),
	},
}

// GetPreset returns a copy of the named preset, or nil.
func GetPreset(category, name string) *Config {
	group, ok := Presets[category]
	if !ok {
		return nil
	}
	cfg, ok := group[name]
	if !ok {
		return nil
	}
	out := *cfg
	return &out
}

// ParsePreset resolves "category/name".
func ParsePreset(ref string) *Config {
	category, name, ok := strings.Cut(ref, "/")
	if !ok {
		return nil
	}
	return GetPreset(category, name)
}

func ListPresets(category string) []string {
	group, ok := Presets[category]
	if !ok {
		return nil
	}
	names := make([]string, 0, len(group))
	for name := range group {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func ListCategories() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
