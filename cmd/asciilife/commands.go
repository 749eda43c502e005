package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"text/tabwriter"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/san-kum/asciilife/internal/analysis"
	"github.com/san-kum/asciilife/internal/automation"
	"github.com/san-kum/asciilife/internal/config"
	"github.com/san-kum/asciilife/internal/export"
	"github.com/san-kum/asciilife/internal/metrics"
	"github.com/san-kum/asciilife/internal/sim"
	"github.com/san-kum/asciilife/internal/storage"
	"github.com/san-kum/asciilife/internal/tui"
	"github.com/san-kum/asciilife/internal/viz"
)

func standardMetrics() []sim.Metric {
	std := metrics.Standard()
	out := make([]sim.Metric, len(std))
	for i, m := range std {
		out[i] = m
	}
	return out
}

func runDemo(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	logger, err := newLogger(cfg)
	if err != nil {
		return err
	}
	if count < 1 {
		return fmt.Errorf("count must be at least 1, got %d", count)
	}

	first, err := newSession(cfg, nil, 0)
	if err != nil {
		return err
	}
	n := first.demoSteps()

	sessions := make([]*session, count)
	sessions[0] = first
	newStepper := func(idx int) (sim.Stepper, error) {
		if idx == 0 {
			return first.ctrl, nil
		}
		s, err := newSession(cfg, first.src, idx*16)
		if err != nil {
			return nil, err
		}
		sessions[idx] = s
		return s.ctrl, nil
	}

	ens := sim.NewEnsemble(count, newStepper, standardMetrics, logger)
	results, err := ens.Run(cmd.Context(), sim.Config{MaxGenerations: n})
	if err != nil {
		return err
	}

	for i, res := range results {
		s := sessions[i]
		if count > 1 {
			fmt.Printf("\nPiece %d:\n%s\n", i+1, strings.Repeat("-", 50))
		}
		network := analysis.Analyze(s.ctrl.Grid())
		art := storage.Art{
			Text:      s.renderer.Render(res.Final),
			Generated: time.Now(),
			Steps:     res.Generations,
			Position:  s.cursor,
			Network:   &network,
		}
		if err := storage.WriteArt(os.Stdout, art); err != nil {
			return err
		}
	}
	return nil
}

func runAnimation(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	logger, err := newLogger(cfg)
	if err != nil {
		return err
	}
	sess, err := newSession(cfg, nil, 0)
	if err != nil {
		return err
	}

	sigCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx, cancel := context.WithCancel(sigCtx)
	defer cancel()

	live := tui.NewLiveRenderer(os.Stdout, sess.renderer, 0)
	runner := sim.New(sess.ctrl, logger)
	for _, m := range standardMetrics() {
		runner.AddMetric(m)
	}
	runner.AddObserver(live)

	var recorder *metrics.Recorder
	if cfg.MetricsAddr != "" {
		recorder = metrics.NewRecorder(nil)
		runner.AddObserver(recorder)
	}

	live.Start()
	defer live.Stop()

	var result *sim.Result
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		defer cancel()
		res, err := runner.Run(gctx, sim.Config{
			MaxGenerations: cfg.MaxGen,
			FPS:            cfg.Display.FPS,
			KeepStats:      saveRun,
		})
		result = res
		if errors.Is(err, context.Canceled) {
			return nil
		}
		return err
	})
	if recorder != nil {
		logger.Info("serving metrics", "addr", cfg.MetricsAddr)
		g.Go(func() error { return recorder.Serve(gctx, cfg.MetricsAddr) })
	}
	if err := g.Wait(); err != nil {
		return err
	}

	fmt.Printf("\nstopped after %d generations, %d perturbations\n", result.Generations, result.Perturbations)
	for name, val := range result.Metrics {
		fmt.Printf("  %s: %.4f\n", name, val)
	}

	if saveRun {
		runID, err := storeResult(cfg, sess, result)
		if err != nil {
			return err
		}
		fmt.Printf("run id: %s\n", runID)
	}
	return nil
}

func runLive(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	sess, err := newSession(cfg, nil, 0)
	if err != nil {
		return err
	}

	model := viz.NewModel(sess.ctrl, sess.renderer, sess.reseed, cfg.Display.FPS, viz.WithTheme(cfg.Display.Theme))
	final, err := tea.NewProgram(model, tea.WithAltScreen()).Run()
	if err != nil {
		return err
	}
	if m, ok := final.(viz.Model); ok && m.Err() != nil {
		return m.Err()
	}
	return nil
}

func saveRunCmd(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	logger, err := newLogger(cfg)
	if err != nil {
		return err
	}
	sess, err := newSession(cfg, nil, 0)
	if err != nil {
		return err
	}

	n := steps
	if n <= 0 {
		n = sess.demoSteps()
	}

	runner := sim.New(sess.ctrl, logger)
	for _, m := range standardMetrics() {
		runner.AddMetric(m)
	}

	fmt.Printf("evolving %s for %d generations...\n", cfg.Pattern, n)
	result, err := runner.Run(cmd.Context(), sim.Config{MaxGenerations: n, KeepStats: true})
	if err != nil {
		return err
	}

	runID, err := storeResult(cfg, sess, result)
	if err != nil {
		return err
	}
	fmt.Printf("completed in %v\n", result.Elapsed)
	fmt.Printf("run id: %s\n", runID)

	if artPath != "" {
		network := analysis.Analyze(sess.ctrl.Grid())
		path, err := storage.SaveArt(artPath, storage.Art{
			Text:      sess.renderer.Render(result.Final),
			Generated: time.Now(),
			Steps:     result.Generations,
			Position:  sess.cursor,
			Network:   &network,
		})
		if err != nil {
			return err
		}
		fmt.Printf("art: %s\n", path)
	}

	if svgPath != "" {
		svg := export.GridToSVG(result.Final.Cells, 8, "#00ff88")
		if err := os.WriteFile(svgPath, []byte(svg), 0644); err != nil {
			return err
		}
		fmt.Printf("svg: %s\n", svgPath)
	}
	return nil
}

func storeResult(cfg *config.Config, sess *session, result *sim.Result) (string, error) {
	st := storage.New(cfg.DataDir)
	if err := st.Init(); err != nil {
		return "", err
	}
	meta := storage.RunMetadata{
		Pattern:              cfg.Pattern,
		Width:                cfg.Grid.Width,
		Height:               cfg.Grid.Height,
		Boundary:             cfg.Grid.Boundary,
		HistoryCapacity:      cfg.Engine.HistoryCapacity,
		PerturbationFraction: cfg.Engine.PerturbationFraction,
		DigitPrecision:       cfg.Engine.DigitPrecision,
		StartCursor:          sess.cursor,
		Network:              analysis.Analyze(sess.ctrl.Grid()),
	}
	return st.Save(meta, result, sess.renderer.Render(result.Final))
}

// resolveRun returns args[0], or the latest run when no ID was given.
func resolveRun(st *storage.Store, args []string) (string, error) {
	if len(args) > 0 {
		return args[0], nil
	}
	return st.Latest()
}

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
	fmt.Fprintln(w, "ID\tPATTERN\tTIME\tGRID\tGENS\tPERTURB\tDENSITY")

	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%dx%d\t%d\t%d\t%.3f\n",
			run.ID,
			run.Pattern,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Width,
			run.Height,
			run.Generations,
			run.Perturbations,
			run.Network.Density,
		)
	}

	return w.Flush()
}

func showRun(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	runID, err := resolveRun(st, args)
	if err != nil {
		return err
	}
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}
	final, err := st.LoadFinal(runID)
	if err != nil {
		return err
	}

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("pattern: %s  grid: %dx%d %s\n", meta.Pattern, meta.Width, meta.Height, meta.Boundary)
	fmt.Printf("generations: %d  perturbations: %d\n\n", meta.Generations, meta.Perturbations)
	fmt.Println(final)

	n := meta.Network
	fmt.Println("network:")
	fmt.Printf("  active cells:    %d / %d\n", n.ActiveCells, n.TotalCells)
	fmt.Printf("  density:         %.4f\n", n.Density)
	fmt.Printf("  clusters:        %d (largest %d)\n", n.ClusterCount, n.LargestCluster)
	fmt.Printf("  fragmentation:   %.4f\n", n.Fragmentation)
	fmt.Printf("  entropy:         %.4f bits\n", n.Entropy)
	fmt.Printf("  %s\n", n.Interpretation())

	stats, err := st.LoadStats(runID)
	if err != nil || len(stats) < 4 {
		return nil
	}
	series := make([]float64, len(stats))
	for i, s := range stats {
		series[i] = float64(s.LiveCells)
	}
	if p := analysis.DominantPeriod(series); p > 0 {
		fmt.Printf("\ndominant period: %d generations\n", p)
	}
	if rm := analysis.GenerateReturnMap(series, 1); rm != nil {
		fmt.Println("\nreturn map (live cells, lag 1):")
		fmt.Println(analysis.ReturnMapToASCII(rm, 40, 16))
	}
	return nil
}

func plotRun(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	runID, err := resolveRun(st, args)
	if err != nil {
		return err
	}
	stats, err := st.LoadStats(runID)
	if err != nil {
		return err
	}
	if len(stats) == 0 {
		return fmt.Errorf("no data to plot")
	}

	live := make([]float64, len(stats))
	flips := make([]float64, len(stats))
	for i, s := range stats {
		live[i] = float64(s.LiveCells)
		flips[i] = float64(s.PerturbedCells)
	}

	fmt.Printf("run: %s\n", runID)
	fmt.Printf("samples: %d\n\n", len(stats))
	fmt.Println(asciigraph.Plot(live,
		asciigraph.Height(10),
		asciigraph.Width(80),
		asciigraph.Caption("live cells"),
	))
	fmt.Println()
	fmt.Println(asciigraph.Plot(flips,
		asciigraph.Height(6),
		asciigraph.Width(80),
		asciigraph.Caption("cells perturbed"),
	))

	if svgPath != "" {
		if err := os.WriteFile(svgPath, []byte(export.SeriesToSVG(live, 800, 300, "#00ffff")), 0644); err != nil {
			return err
		}
		fmt.Printf("\nsvg: %s\n", svgPath)
	}
	return nil
}

func exportRun(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	return st.ExportJSON(os.Stdout, args[0])
}

func listPresets(cmd *cobra.Command, args []string) error {
	categories := config.ListCategories()
	if len(args) > 0 {
		if config.ListPresets(args[0]) == nil {
			return fmt.Errorf("unknown preset category: %s (available: %v)", args[0], categories)
		}
		categories = args
	}
	for _, c := range categories {
		fmt.Printf("%s:\n", c)
		for _, name := range config.ListPresets(c) {
			p := config.GetPreset(c, name)
			fmt.Printf("  %s/%-12s %-12s %dx%d %s\n", c, name, p.Pattern, p.Grid.Width, p.Grid.Height, p.Grid.Boundary)
		}
	}
	return nil
}

func runScript(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	logger, err := newLogger(cfg)
	if err != nil {
		return err
	}
	scenario, err := automation.LoadScenario(args[0])
	if err != nil {
		return err
	}

	st := storage.New(cfg.DataDir)
	if err := st.Init(); err != nil {
		return err
	}

	fmt.Printf("scenario: %s (%d steps)\n", scenario.Name, len(scenario.Steps))
	results, err := automation.RunScenario(cmd.Context(), scenario, cfg, st, logger)
	for _, r := range results {
		fmt.Printf("  step %d: %-12s %dx%d  gens=%d  perturbations=%d  density=%.3f",
			r.Step, r.Config.Pattern, r.Config.Grid.Width, r.Config.Grid.Height,
			r.Result.Generations, r.Result.Perturbations, r.Network.Density)
		if r.RunID != "" {
			fmt.Printf("  saved as %s", r.RunID)
		}
		fmt.Println()
	}
	return err
}

func runSweep(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	logger, err := newLogger(cfg)
	if err != nil {
		return err
	}

	results, err := automation.RunSweep(cmd.Context(), &automation.FractionSweep{
		Base:        cfg,
		Min:         sweepMin,
		Max:         sweepMax,
		NumSteps:    sweepPoints,
		Generations: sweepGens,
	}, logger)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "FRACTION\tPERTURB\tFLIPPED\tSTABILITY\tMEAN POP\tDENSITY")
	for _, r := range results {
		fmt.Fprintf(w, "%.3f\t%d\t%.0f\t%.3f\t%.1f\t%.3f\n",
			r.Fraction, r.Perturbations, r.CellsFlipped, r.Stability, r.MeanPopulation, r.FinalDensity)
	}
	return w.Flush()
}
