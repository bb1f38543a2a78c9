package metrics

import (
	"net/http"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// PrometheusRecorder implements Recorder using Prometheus metrics.
type PrometheusRecorder struct {
	registry           *prom.Registry
	generationDuration *prom.HistogramVec
	generationOutcomes *prom.CounterVec
	debounceEvents     *prom.CounterVec
	liveSessions       prom.Gauge
}

// NewPrometheusRecorder constructs and registers the preview metrics.
func NewPrometheusRecorder(reg *prom.Registry) *PrometheusRecorder {
	if reg == nil {
		reg = prom.NewRegistry()
	}
	pr := &PrometheusRecorder{registry: reg}
	pr.generationDuration = prom.NewHistogramVec(prom.HistogramOpts{
		Namespace: "htmlpreview",
		Name:      "generation_duration_seconds",
		Help:      "Duration of generation runs",
		Buckets:   prom.DefBuckets,
	}, []string{"generator"})
	pr.generationOutcomes = prom.NewCounterVec(prom.CounterOpts{
		Namespace: "htmlpreview",
		Name:      "generation_outcomes_total",
		Help:      "Generation runs by generator and outcome",
	}, []string{"generator", "outcome"})
	pr.debounceEvents = prom.NewCounterVec(prom.CounterOpts{
		Namespace: "htmlpreview",
		Name:      "debounce_events_total",
		Help:      "Debouncer slot activity by event",
	}, []string{"event"})
	pr.liveSessions = prom.NewGauge(prom.GaugeOpts{
		Namespace: "htmlpreview",
		Name:      "live_sessions",
		Help:      "Number of live viewer sessions",
	})
	reg.MustRegister(pr.generationDuration, pr.generationOutcomes, pr.debounceEvents, pr.liveSessions)
	return pr
}

func (pr *PrometheusRecorder) RecordGeneration(generator, outcome string, d time.Duration) {
	pr.generationOutcomes.WithLabelValues(generator, outcome).Inc()
	pr.generationDuration.WithLabelValues(generator).Observe(d.Seconds())
}

func (pr *PrometheusRecorder) RecordDebounce(event string) {
	pr.debounceEvents.WithLabelValues(event).Inc()
}

func (pr *PrometheusRecorder) SetLiveSessions(n int) {
	pr.liveSessions.Set(float64(n))
}

// Handler exposes the recorder's registry for the /metrics endpoint.
func (pr *PrometheusRecorder) Handler() http.Handler {
	return promhttp.HandlerFor(pr.registry, promhttp.HandlerOpts{})
}
