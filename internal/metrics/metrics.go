package metrics

import (
	"context"
	"errors"
	"net/http"
	"time"

	"productcat/scraper/internal/domain"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	log "github.com/sirupsen/logrus"
)

// Metrics holds the collectors for one acquisition run
type Metrics struct {
	registry      *prometheus.Registry
	fetchOutcomes *prometheus.CounterVec
	fetchDuration prometheus.Histogram
	flushes       prometheus.Counter
	sampleSize    prometheus.Gauge
	labeled       *prometheus.CounterVec
}

func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		fetchOutcomes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "acquire",
			Name:      "fetch_outcomes_total",
			Help:      "Breadcrumb fetches by result status.",
		}, []string{"status"}),
		fetchDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "acquire",
			Name:      "fetch_duration_seconds",
			Help:      "Time spent navigating to a product page and waiting for the breadcrumb.",
			Buckets:   []float64{0.25, 0.5, 1, 2, 5, 10, 20, 40},
		}),
		flushes: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "acquire",
			Name:      "checkpoint_flushes_total",
			Help:      "Full rewrites of the labeled dataset.",
		}),
		sampleSize: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "acquire",
			Name:      "sample_size",
			Help:      "Number of candidates selected for the run.",
		}),
		labeled: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "acquire",
			Name:      "standardized_total",
			Help:      "Processed items by standardized category.",
		}, []string{"category"}),
	}

	m.registry.MustRegister(
		m.fetchOutcomes,
		m.fetchDuration,
		m.flushes,
		m.sampleSize,
		m.labeled,
		collectors.NewGoCollector(),
	)

	return m
}

func (m *Metrics) ObserveFetch(status domain.FetchStatus, elapsed time.Duration) {
	m.fetchOutcomes.WithLabelValues(status.String()).Inc()
	m.fetchDuration.Observe(elapsed.Seconds())
}

func (m *Metrics) ObserveCategory(category string) {
	m.labeled.WithLabelValues(category).Inc()
}

func (m *Metrics) ObserveFlush() {
	m.flushes.Inc()
}

func (m *Metrics) SetSampleSize(n int) {
	m.sampleSize.Set(float64(n))
}

func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Serve exposes /metrics on addr until ctx is done
func (m *Metrics) Serve(ctx context.Context, addr string) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{}))

	server := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		server.Shutdown(shutdownCtx)
	}()

	log.Infof("📈 Serving metrics on %s/metrics", addr)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
