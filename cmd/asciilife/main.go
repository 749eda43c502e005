package main

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/san-kum/asciilife/internal/automaton"
	"github.com/san-kum/asciilife/internal/config"
	"github.com/san-kum/asciilife/internal/digits"
	"github.com/san-kum/asciilife/internal/logging"
	"github.com/san-kum/asciilife/internal/patterns"
	"github.com/san-kum/asciilife/internal/render"
	"github.com/spf13/cobra"
)

var (
	dataDir    string
	configFile string
	preset     string
	logLevel   string
	logJSON    bool
	// Grid overrides
	pattern  string
	width    int
	height   int
	boundary string
	seed     uint64
	cursor   int
	glyphs   string
	// Run parameters
	frameRate   int
	maxGen      int
	metricsAddr string
	saveRun     bool
	steps       int
	artPath     string
	svgPath     string
	count       int
	theme       string
	// Sweep range
	sweepMin    float64
	sweepMax    float64
	sweepPoints int
	sweepGens   int
)

// main registers commands and flags and runs the demo when no subcommand is
// given. It exits with status 1 if the command returns an error.
func main() {
	rootCmd := &cobra.Command{
		Use:           "asciilife",
		Short:         "non-repeating ascii art from the game of life and the digits of pi",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          runDemo,
	}

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&dataDir, "data", config.DefaultDataDir, "data directory")
	pf.StringVar(&configFile, "config", "", "config file path (yaml)")
	pf.StringVar(&preset, "preset", "", "preset as category/name")
	pf.StringVar(&logLevel, "log-level", "", "log level (debug, info, warn, error)")
	pf.BoolVar(&logJSON, "log-json", false, "log as JSON")
	pf.StringVar(&pattern, "pattern", config.DefaultPattern, "seed pattern")
	pf.IntVar(&width, "width", automaton.DefaultWidth, "grid width")
	pf.IntVar(&height, "height", automaton.DefaultHeight, "grid height")
	pf.StringVar(&boundary, "boundary", string(automaton.BoundaryToroidal), "boundary (toroidal, clamped)")
	pf.Uint64Var(&seed, "seed", 0, "seed for the random pattern (0 uses the clock)")
	pf.IntVar(&cursor, "cursor", config.CursorFromClock, "starting digit position (-1 uses the clock)")
	pf.StringVar(&glyphs, "glyphs", config.DefaultGlyphs, "glyph mode (blocks, digits, pathways)")

	rootCmd.Flags().IntVar(&count, "count", 1, "number of pieces")

	demoCmd := &cobra.Command{
		Use:   "demo",
		Short: "generate one static piece",
		RunE:  runDemo,
	}
	demoCmd.Flags().IntVar(&count, "count", 1, "number of pieces, evolved concurrently")

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "animate the evolution in the terminal",
		RunE:  runAnimation,
	}
	runCmd.Flags().IntVar(&frameRate, "fps", config.DefaultFPS, "frames per second (0 for unpaced)")
	runCmd.Flags().IntVar(&maxGen, "max-gen", 0, "stop after this many generations (0 runs until Ctrl+C)")
	runCmd.Flags().StringVar(&metricsAddr, "metrics-addr", "", "serve Prometheus metrics on this address")
	runCmd.Flags().BoolVar(&saveRun, "save", false, "store the run in the data directory")

	liveCmd := &cobra.Command{
		Use:   "live",
		Short: "interactive view with stats panel",
		RunE:  runLive,
	}
	liveCmd.Flags().IntVar(&frameRate, "fps", config.DefaultFPS, "frames per second")
	liveCmd.Flags().StringVar(&theme, "theme", config.DefaultTheme, "color theme")

	saveCmd := &cobra.Command{
		Use:   "save",
		Short: "evolve and store a run",
		RunE:  saveRunCmd,
	}
	saveCmd.Flags().IntVar(&steps, "steps", 0, "generations to evolve (0 derives the count from the digits)")
	saveCmd.Flags().StringVar(&artPath, "art", "", "also write the final piece to this file or directory")
	saveCmd.Flags().StringVar(&svgPath, "svg", "", "also write the final grid as SVG to this file")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list runs",
		RunE:  listRuns,
	}

	showCmd := &cobra.Command{
		Use:   "show [run_id]",
		Short: "show the final piece and its analysis (latest run by default)",
		Args:  cobra.MaximumNArgs(1),
		RunE:  showRun,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot live cells over time",
		Args:  cobra.MaximumNArgs(1),
		RunE:  plotRun,
	}
	plotCmd.Flags().StringVar(&svgPath, "svg", "", "write the live cell series as SVG to this file")

	exportCmd := &cobra.Command{
		Use:   "export [run_id]",
		Short: "export run metadata and stats as JSON",
		Args:  cobra.ExactArgs(1),
		RunE:  exportRun,
	}

	presetsCmd := &cobra.Command{
		Use:   "presets [category]",
		Short: "list presets",
		Args:  cobra.MaximumNArgs(1),
		RunE:  listPresets,
	}

	patternsCmd := &cobra.Command{
		Use:   "patterns",
		Short: "list seed patterns",
		Run: func(cmd *cobra.Command, args []string) {
			for _, name := range patterns.Names() {
				desc := "seed from the digit sequence"
				if p, ok := patterns.Get(name); ok {
					desc = p.Description
				} else if name == patterns.SeedRandom {
					desc = "random soup"
				}
				fmt.Printf("  %-12s %s\n", name, desc)
			}
		},
	}

	scriptCmd := &cobra.Command{
		Use:   "script [scenario.yaml]",
		Short: "run a scripted sequence of runs",
		Args:  cobra.ExactArgs(1),
		RunE:  runScript,
	}

	sweepCmd := &cobra.Command{
		Use:   "sweep",
		Short: "compare perturbation fractions on the same seed",
		RunE:  runSweep,
	}
	sweepCmd.Flags().Float64Var(&sweepMin, "min", 0, "smallest perturbation fraction")
	sweepCmd.Flags().Float64Var(&sweepMax, "max", 0.2, "largest perturbation fraction")
	sweepCmd.Flags().IntVar(&sweepPoints, "points", 5, "number of fractions")
	sweepCmd.Flags().IntVar(&sweepGens, "steps", 200, "generations per point")

	rootCmd.AddCommand(demoCmd, runCmd, liveCmd, saveCmd, listCmd, showCmd, plotCmd, exportCmd, presetsCmd, patternsCmd, scriptCmd, sweepCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

// loadConfig layers defaults, preset, config file and explicit flags, in
// that order.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.DefaultConfig()

	if preset != "" {
		p := config.ParsePreset(preset)
		if p == nil {
			return nil, fmt.Errorf("unknown preset: %s (available categories: %v)", preset, config.ListCategories())
		}
		cfg = p
	}

	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
	}

	flags := cmd.Flags()
	if flags.Changed("data") || cfg.DataDir == "" {
		cfg.DataDir = dataDir
	}
	if flags.Changed("log-level") {
		cfg.LogLevel = logLevel
	}
	if flags.Changed("log-json") {
		cfg.LogJSON = logJSON
	}
	if flags.Changed("pattern") {
		cfg.Pattern = pattern
	}
	if flags.Changed("width") {
		cfg.Grid.Width = width
	}
	if flags.Changed("height") {
		cfg.Grid.Height = height
	}
	if flags.Changed("boundary") {
		cfg.Grid.Boundary = boundary
	}
	if flags.Changed("seed") {
		cfg.Seed = seed
	}
	if flags.Changed("cursor") {
		cfg.Cursor = cursor
	}
	if flags.Changed("glyphs") {
		cfg.Display.Glyphs = glyphs
	}
	if flags.Changed("theme") {
		cfg.Display.Theme = theme
	}
	if flags.Changed("fps") {
		cfg.Display.FPS = frameRate
	}
	if flags.Changed("max-gen") {
		cfg.MaxGen = maxGen
	}
	if flags.Changed("metrics-addr") {
		cfg.MetricsAddr = metricsAddr
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func newLogger(cfg *config.Config) (*slog.Logger, error) {
	return logging.New(logging.Config{Level: cfg.LogLevel, JSON: cfg.LogJSON})
}

// session is one seeded controller with the digits it reads.
type session struct {
	ctrl     *automaton.Controller
	src      *digits.Source
	reader   *digits.Reader
	cursor   int
	seed     uint64
	pattern  string
	renderer *render.Renderer
}

// newSession builds and seeds a controller. offset shifts the starting
// digit so ensemble members differ.
func newSession(cfg *config.Config, src *digits.Source, offset int) (*session, error) {
	if src == nil {
		var err error
		src, err = digits.New(cfg.Engine.DigitPrecision)
		if err != nil {
			return nil, err
		}
	}

	start := cfg.Cursor
	if start == config.CursorFromClock {
		start = int(time.Now().UnixNano() % int64(src.Len()))
	}
	start = (start + offset) % src.Len()

	s := cfg.Seed
	if s == 0 {
		s = uint64(time.Now().UnixNano())
	}
	s += uint64(offset)

	ctrl, err := automaton.NewController(cfg.Automaton(), automaton.WithDigitSource(src), automaton.WithCursor(start))
	if err != nil {
		return nil, err
	}

	sess := &session{ctrl: ctrl, src: src, cursor: start, seed: s, pattern: cfg.Pattern}
	sess.reader = src.NewReader(start)

	mode, err := render.ParseMode(cfg.Display.Glyphs)
	if err != nil {
		return nil, err
	}
	sess.renderer = render.NewRenderer(mode, sess.reader)

	if err := sess.reseed(); err != nil {
		return nil, err
	}
	return sess, nil
}

// reseed writes the configured pattern into the grid again. Digit seeding
// continues from where the reader stopped, so each reseed differs.
func (s *session) reseed() error {
	seeder, err := patterns.Seeder(s.pattern, s.reader, s.seed)
	if err != nil {
		return err
	}
	s.seed++
	return s.ctrl.Seed(seeder)
}

// demoSteps is 20 plus the product of the two digits at the start cursor,
// modulo 40.
func (s *session) demoSteps() int {
	return 20 + (s.src.DigitAt(s.cursor)*s.src.DigitAt(s.cursor+1))%40
}
