package metrics

import (
	"net/http/httptest"
	"testing"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
)

func TestPrometheusRecorder_CountsActivity(t *testing.T) {
	reg := prom.NewRegistry()
	rec := NewPrometheusRecorder(reg)

	rec.RecordGeneration("html", "success", 120*time.Millisecond)
	rec.RecordGeneration("html", "failure", 10*time.Millisecond)
	rec.RecordDebounce(DebounceScheduled)
	rec.RecordDebounce(DebounceFired)
	rec.SetLiveSessions(1)

	require.Equal(t, float64(1),
		testutil.ToFloat64(rec.generationOutcomes.WithLabelValues("html", "success")))
	require.Equal(t, float64(1),
		testutil.ToFloat64(rec.generationOutcomes.WithLabelValues("html", "failure")))
	require.Equal(t, float64(1),
		testutil.ToFloat64(rec.debounceEvents.WithLabelValues(DebounceFired)))
	require.Equal(t, float64(1), testutil.ToFloat64(rec.liveSessions))
}

func TestPrometheusRecorder_Handler(t *testing.T) {
	rec := NewPrometheusRecorder(nil)
	rec.RecordGeneration("slides", "success", time.Second)

	req := httptest.NewRequest("GET", "/metrics", nil)
	w := httptest.NewRecorder()
	rec.Handler().ServeHTTP(w, req)

	require.Equal(t, 200, w.Code)
	require.Contains(t, w.Body.String(), "htmlpreview_generation_outcomes_total")
}

func TestNopRecorder(t *testing.T) {
	var r Recorder = NopRecorder{}
	r.RecordGeneration("html", "success", 0)
	r.RecordDebounce(DebounceScheduled)
	r.SetLiveSessions(0)
}
