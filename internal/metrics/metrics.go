package metrics

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"pdfpress/internal/jobs"
)

// Metrics collects compression job statistics on a private registry
type Metrics struct {
	registry    *prometheus.Registry
	jobsTotal   *prometheus.CounterVec
	duration    prometheus.Histogram
	bytesSaved  prometheus.Counter
	jobsRunning prometheus.Gauge
}

// New creates and registers the job collectors
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		jobsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "pdfpress_jobs_total",
				Help: "Finished compression jobs by outcome",
			},
			[]string{"outcome"}, // succeeded, failed, cancelled
		),
		duration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "pdfpress_job_duration_seconds",
				Help:    "Wall time of compression jobs",
				Buckets: []float64{0.5, 1, 2, 5, 10, 30, 60, 120, 300},
			},
		),
		bytesSaved: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "pdfpress_bytes_saved_total",
				Help: "Bytes saved by successful compressions",
			},
		),
		jobsRunning: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "pdfpress_job_running",
				Help: "Compression job in flight (1=running, 0=idle)",
			},
		),
	}

	m.registry.MustRegister(m.jobsTotal, m.duration, m.bytesSaved, m.jobsRunning)
	return m
}

// Registry exposes the underlying registry
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// JobStarted marks a job as running
func (m *Metrics) JobStarted() {
	m.jobsRunning.Set(1)
}

// JobFinished records the outcome of a job
func (m *Metrics) JobFinished(snap jobs.Snapshot) {
	m.jobsRunning.Set(0)
	m.jobsTotal.WithLabelValues(string(snap.Status)).Inc()

	if !snap.StartedAt.IsZero() && !snap.FinishedAt.IsZero() {
		m.duration.Observe(snap.FinishedAt.Sub(snap.StartedAt).Seconds())
	}
	if snap.Result != nil && snap.Result.SavedBytes > 0 {
		m.bytesSaved.Add(float64(snap.Result.SavedBytes))
	}
}

// Handler serves the registry in the Prometheus text format
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Serve exposes /metrics on addr until ctx is cancelled
func (m *Metrics) Serve(ctx context.Context, addr string, logger *slog.Logger) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", m.Handler())

	server := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	logger.Info("Starting metrics server", "addr", addr)

	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("Metrics server error", "error", err)
		}
	}()

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Warn("Metrics server shutdown failed", "error", err)
		}
	}()
}
