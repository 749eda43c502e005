package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/san-kum/asciilife/internal/automaton"
	"github.com/san-kum/asciilife/internal/patterns"
)

const (
	DefaultFPS     = 10
	DefaultPattern = patterns.SeedDigits
	DefaultGlyphs  = "blocks"
	DefaultTheme   = "cyberpunk"
	DefaultDataDir = ".asciilife"

	// CursorFromClock derives the starting digit cursor from the wall clock.
	CursorFromClock = -1
)

type Config struct {
	Grid        GridConfig    `yaml:"grid"`
	Engine      EngineConfig  `yaml:"engine"`
	Display     DisplayConfig `yaml:"display"`
	Pattern     string        `yaml:"pattern" validate:"required"`
	Seed        uint64        `yaml:"seed"`
	Cursor      int           `yaml:"cursor" validate:"gte=-1"`
	MaxGen      int           `yaml:"max_generations" validate:"gte=0"`
	DataDir     string        `yaml:"data_dir" validate:"required"`
	LogLevel    string        `yaml:"log_level" validate:"oneof=debug info warn error"`
	LogJSON     bool          `yaml:"log_json"`
	MetricsAddr string        `yaml:"metrics_addr"`
}

type GridConfig struct {
	Width    int    `yaml:"width" validate:"gt=0"`
	Height   int    `yaml:"height" validate:"gt=0"`
	Boundary string `yaml:"boundary" validate:"oneof=toroidal clamped"`
}

type EngineConfig struct {
	HistoryCapacity      int     `yaml:"history_capacity" validate:"gt=0"`
	PerturbationFraction float64 `yaml:"perturbation_fraction" validate:"gte=0,lte=1"`
	DigitPrecision       int     `yaml:"digit_precision" validate:"gt=0"`
}

type DisplayConfig struct {
	FPS    int    `yaml:"fps" validate:"gte=0,lte=120"`
	Glyphs string `yaml:"glyphs" validate:"oneof=blocks digits pathways"`
	Theme  string `yaml:"theme" validate:"oneof=cyberpunk retro minimal ocean sunset"`
}

func DefaultConfig() *Config {
	return &Config{
		Grid: GridConfig{
			Width:    automaton.DefaultWidth,
			Height:   automaton.DefaultHeight,
			Boundary: string(automaton.BoundaryToroidal),
		},
		Engine: EngineConfig{
			HistoryCapacity:      automaton.DefaultHistoryCapacity,
			PerturbationFraction: automaton.DefaultPerturbationFraction,
			DigitPrecision:       automaton.DefaultDigitPrecision,
		},
		Display: DisplayConfig{
			FPS:    DefaultFPS,
			Glyphs: DefaultGlyphs,
			Theme:  DefaultTheme,
		},
		Pattern:  DefaultPattern,
		Cursor:   CursorFromClock,
		DataDir:  DefaultDataDir,
		LogLevel: "info",
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

var validate = validator.New()

// Validate checks field ranges and that the pattern name is known.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			fe := verrs[0]
			return fmt.Errorf("invalid config: %s fails %q (got %v)", fe.Namespace(), fe.Tag(), fe.Value())
		}
		return err
	}
	if !knownPattern(c.Pattern) {
		return fmt.Errorf("invalid config: unknown pattern %q", c.Pattern)
	}
	return nil
}

// Automaton returns the engine parameters.
func (c *Config) Automaton() automaton.Config {
	return automaton.Config{
		Width:                c.Grid.Width,
		Height:               c.Grid.Height,
		Boundary:             automaton.Boundary(c.Grid.Boundary),
		HistoryCapacity:      c.Engine.HistoryCapacity,
		PerturbationFraction: c.Engine.PerturbationFraction,
		DigitPrecision:       c.Engine.DigitPrecision,
	}
}

func knownPattern(name string) bool {
	for _, n := range patterns.Names() {
		if n == name {
			return true
		}
	}
	return false
}
