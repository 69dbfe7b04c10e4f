// Package telemetry exposes the engine's Prometheus metrics. Everything
// registers on the default registry so `tokenscope serve` can publish it
// straight through promhttp.
package telemetry

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	providerRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "tokenscope_provider_requests_total",
		Help: "Provider fetches by provider name and outcome (ok, error).",
	}, []string{"provider", "outcome"})

	providerRetries = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "tokenscope_provider_retries_total",
		Help: "Retry attempts per provider.",
	}, []string{"provider"})

	providerDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "tokenscope_provider_request_seconds",
		Help:    "Provider fetch latency.",
		Buckets: prometheus.ExponentialBuckets(0.05, 2, 10),
	}, []string{"provider"})

	analyses = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "tokenscope_analyses_total",
		Help: "Completed analyses by outcome (ok, cached, invalid, panic).",
	}, []string{"outcome"})

	cacheEvents = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "tokenscope_cache_events_total",
		Help: "Result cache activity (hit, miss, eviction).",
	}, []string{"event"})
)

func ProviderRequest(provider, outcome string, seconds float64) {
	providerRequests.WithLabelValues(provider, outcome).Inc()
	providerDuration.WithLabelValues(provider).Observe(seconds)
}

func ProviderRetry(provider string) {
	providerRetries.WithLabelValues(provider).Inc()
}

func Analysis(outcome string) {
	analyses.WithLabelValues(outcome).Inc()
}

func CacheEvent(event string) {
	cacheEvents.WithLabelValues(event).Inc()
}

// Handler returns the /metrics HTTP handler.
func Handler() http.Handler {
	return promhttp.Handler()
}
