package metrics

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/san-kum/asciilife/internal/automaton"
)

const namespace = "asciilife"

// Recorder exports frame values as Prometheus collectors. It is an
// observer: the runner calls OnFrame, the HTTP handler only reads.
type Recorder struct {
	registry       *prometheus.Registry
	generation     prometheus.Gauge
	liveCells      prometheus.Gauge
	digitCursor    prometheus.Gauge
	steps          prometheus.Counter
	perturbations  prometheus.Counter
	perturbedCells prometheus.Histogram
}

// NewRecorder registers its collectors on reg; a nil reg gets a fresh
// registry.
func NewRecorder(reg *prometheus.Registry) *Recorder {
	if reg == nil {
		reg = prometheus.NewRegistry()
	}
	f := promauto.With(reg)

	return &Recorder{
		registry: reg,
		generation: f.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "generation",
			Help:      "Current generation number.",
		}),
		liveCells: f.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "live_cells",
			Help:      "Live cells in the current grid.",
		}),
		digitCursor: f.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "digit_cursor",
			Help:      "Position of the digit cursor.",
		}),
		steps: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "steps_total",
			Help:      "Generations evolved.",
		}),
		perturbations: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "perturbations_total",
			Help:      "Stagnations answered with a perturbation.",
		}),
		perturbedCells: f.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "perturbed_cells",
			Help:      "Cells flipped per perturbation.",
			Buckets:   prometheus.ExponentialBuckets(1, 2, 10),
		}),
	}
}

func (r *Recorder) OnFrame(f automaton.Frame) {
	r.generation.Set(float64(f.Generation))
	r.liveCells.Set(float64(f.LiveCells))
	r.digitCursor.Set(float64(f.DigitCursor))
	r.steps.Inc()
	if f.Perturbed {
		r.perturbations.Inc()
		r.perturbedCells.Observe(float64(f.PerturbedCells))
	}
}

func (r *Recorder) Registry() *prometheus.Registry { return r.registry }

func (r *Recorder) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{})
}

// Serve exposes /metrics on addr until ctx is done.
func (r *Recorder) Serve(ctx context.Context, addr string) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", r.Handler())
	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	errCh := make(chan error, 1)
	go func() { errCh <- srv.ListenAndServe() }()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return err
		}
		if err := <-errCh; !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	}
}
