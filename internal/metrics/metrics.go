// Package metrics holds the Prometheus collectors for quote fetching and the
// threshold monitor.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Quote fetch results.
const (
	ResultSuccess  = "success"
	ResultFallback = "fallback"
)

var (
	// QuoteFetches counts provider calls made by the aggregator, by result.
	QuoteFetches = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "portfolio",
		Name:      "quote_fetch_total",
		Help:      "Quote provider calls by result (success or fallback).",
	}, []string{"result"})

	// QuoteFetchDuration observes the latency of individual provider calls.
	QuoteFetchDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "portfolio",
		Name:      "quote_fetch_duration_seconds",
		Help:      "Latency of quote provider calls.",
		Buckets:   prometheus.DefBuckets,
	})

	// MonitorCycles counts monitor cycles by outcome (ok or error).
	MonitorCycles = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "portfolio",
		Name:      "monitor_cycles_total",
		Help:      "Threshold monitor cycles by outcome.",
	}, []string{"outcome"})

	// AlertsRaised counts alerts raised by the monitor.
	AlertsRaised = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "portfolio",
		Name:      "alerts_raised_total",
		Help:      "Threshold alerts raised by the monitor.",
	})

	// NotifyFailures counts alerts that could not be delivered.
	NotifyFailures = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "portfolio",
		Name:      "alert_notify_failures_total",
		Help:      "Alerts whose delivery failed.",
	})
)

// Registry holds the collectors above. A dedicated registry keeps tests and
// the /metrics output free of global registration side effects.
var Registry = prometheus.NewRegistry()

func init() {
	Registry.MustRegister(
		QuoteFetches,
		QuoteFetchDuration,
		MonitorCycles,
		AlertsRaised,
		NotifyFailures,
		collectors.NewGoCollector(),
	)
}

// Handler serves the registry in the Prometheus text format.
func Handler() http.Handler {
	return promhttp.HandlerFor(Registry, promhttp.HandlerOpts{})
}
