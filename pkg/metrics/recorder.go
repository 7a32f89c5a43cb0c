// Package metrics exposes Prometheus instrumentation for the MCP tool surface.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "skinguide"

// Outcome labels for tool calls.
const (
	OutcomeOK           = "ok"
	OutcomeError        = "error"
	OutcomeAuthRequired = "auth_required"
)

// Recorder owns the service metrics and the registry they live on.
type Recorder struct {
	registry *prometheus.Registry

	toolCalls          *prometheus.CounterVec
	toolLatency        *prometheus.HistogramVec
	catalogDegradation prometheus.Counter
	analyzedLogs       prometheus.Histogram
}

// NewRecorder registers all metrics on a fresh registry.
func NewRecorder() *Recorder {
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	auto := promauto.With(registry)
	return &Recorder{
		registry: registry,
		toolCalls: auto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "mcp",
			Name:      "tool_calls_total",
			Help:      "Total number of MCP tool calls by tool and outcome",
		}, []string{"tool", "outcome"}),
		toolLatency: auto.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "mcp",
			Name:      "tool_call_duration_seconds",
			Help:      "MCP tool call latency",
			Buckets:   prometheus.DefBuckets,
		}, []string{"tool"}),
		catalogDegradation: auto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "personalization",
			Name:      "catalog_degraded_total",
			Help:      "Personalized routines returned without product recommendations because the catalog failed",
		}),
		analyzedLogs: auto.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "personalization",
			Name:      "analyzed_logs",
			Help:      "Number of skin logs analyzed per personalization request",
			Buckets:   []float64{0, 1, 3, 7, 10, 14},
		}),
	}
}

// ObserveToolCall records one tool invocation.
func (r *Recorder) ObserveToolCall(tool, outcome string, elapsed time.Duration) {
	if r == nil {
		return
	}
	r.toolCalls.WithLabelValues(tool, outcome).Inc()
	r.toolLatency.WithLabelValues(tool).Observe(elapsed.Seconds())
}

// CatalogDegraded counts a swallowed product catalog failure.
func (r *Recorder) CatalogDegraded() {
	if r == nil {
		return
	}
	r.catalogDegradation.Inc()
}

// ObserveAnalyzedLogs records the size of an analysis window.
func (r *Recorder) ObserveAnalyzedLogs(n int) {
	if r == nil {
		return
	}
	r.analyzedLogs.Observe(float64(n))
}

// Handler serves the registry in the Prometheus exposition format.
func (r *Recorder) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{})
}

// Gatherer exposes the registry for tests.
func (r *Recorder) Gatherer() prometheus.Gatherer {
	return r.registry
}
