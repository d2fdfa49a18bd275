package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Refresh cycle outcomes
const (
	ResultCommitted = "committed"
	ResultAborted   = "aborted"
	ResultStale     = "stale"
)

const (
	namespace = "healthcheck"
	subsystem = "dashboard"
)

type prometheusMetrics struct {
	registry        *prometheus.Registry
	refreshCycles   *prometheus.CounterVec
	refreshDuration prometheus.Histogram
	fetchFailures   prometheus.Counter
	unavailableApis prometheus.Gauge
	monitoredApis   prometheus.Gauge
}

// NewPrometheusMetrics creates the dashboard metrics on their own registry
func NewPrometheusMetrics() *prometheusMetrics {
	registry := prometheus.NewRegistry()
	auto := promauto.With(registry)

	return &prometheusMetrics{
		registry: registry,
		refreshCycles: auto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "refresh_cycles_total",
			Help:      "Number of refresh cycles, by outcome",
		}, []string{"result"}),
		refreshDuration: auto.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "refresh_duration_seconds",
			Help:      "Duration of the refresh cycles",
			Buckets:   prometheus.DefBuckets,
		}),
		fetchFailures: auto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "fetch_failures_total",
			Help:      "Number of failed per-API health fetches",
		}),
		unavailableApis: auto.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "unavailable_apis",
			Help:      "Number of unavailable APIs published by the last committed refresh",
		}),
		monitoredApis: auto.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "monitored_apis",
			Help:      "Number of APIs with the health-check service",
		}),
	}
}

// ObserveRefresh records the outcome and duration of a refresh cycle
func (pm *prometheusMetrics) ObserveRefresh(result string, duration time.Duration) {
	pm.refreshCycles.WithLabelValues(result).Inc()
	pm.refreshDuration.Observe(duration.Seconds())
}

// IncFetchFailures counts a failed per-API fetch
func (pm *prometheusMetrics) IncFetchFailures() {
	pm.fetchFailures.Inc()
}

// SetUnavailableApis -
func (pm *prometheusMetrics) SetUnavailableApis(value int) {
	pm.unavailableApis.Set(float64(value))
}

// SetMonitoredApis -
func (pm *prometheusMetrics) SetMonitoredApis(value int) {
	pm.monitoredApis.Set(float64(value))
}

// Handler returns the HTTP handler exposing the registry
func (pm *prometheusMetrics) Handler() http.Handler {
	return promhttp.HandlerFor(pm.registry, promhttp.HandlerOpts{})
}

// IsInterfaceNil returns true if the value under the interface is nil
func (pm *prometheusMetrics) IsInterfaceNil() bool {
	return pm == nil
}
