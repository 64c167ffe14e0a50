// Package metrics provides Prometheus instrumentation for the HangHive bot
// services. It exposes gauges for connection counts, counters for message
// classification and generation outcomes, and histograms for generation
// latency.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// ConnectionsTotal tracks the current number of active WebSocket connections.
	ConnectionsTotal = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "hang_connections_total",
		Help: "Current number of active WebSocket connections",
	})

	// MessagesTotal counts chat messages processed by the gateway, labeled by
	// outcome: "accepted" or "blocked".
	MessagesTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "hang_messages_total",
		Help: "Total number of chat messages processed",
	}, []string{"outcome"})

	// BlockedMessages counts automod rejections, labeled by severity.
	BlockedMessages = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "hang_blocked_messages_total",
		Help: "Total number of messages blocked by automod",
	}, []string{"severity"})

	// GenerationAttempts counts individual backend calls, including retries.
	GenerationAttempts = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "hang_generation_attempts_total",
		Help: "Total number of generation backend attempts",
	})

	// GenerationRetries counts backoff retries after rate-limit responses.
	GenerationRetries = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "hang_generation_retries_total",
		Help: "Total number of rate-limited generation retries",
	})

	// GenerationsTotal counts completed generation calls, labeled by result:
	// "ok", "rate_limited", "config", or "error".
	GenerationsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "hang_generations_total",
		Help: "Total number of completed generation calls",
	}, []string{"result"})

	// GenerationLatency records successful backend call latency in seconds.
	GenerationLatency = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "hang_generation_latency_seconds",
		Help:    "Generation backend latency in seconds",
		Buckets: []float64{.1, .25, .5, 1, 2, 5, 10, 20, 30},
	})

	// WarningsIssued counts ledger warnings, labeled by issuer: "automod" or
	// "moderator".
	WarningsIssued = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "hang_warnings_issued_total",
		Help: "Total number of user warnings issued",
	}, []string{"issuer"})
)

func init() {
	prometheus.MustRegister(
		ConnectionsTotal,
		MessagesTotal,
		BlockedMessages,
		GenerationAttempts,
		GenerationRetries,
		GenerationsTotal,
		GenerationLatency,
		WarningsIssued,
	)
}

// Handler returns the Prometheus metrics HTTP handler.
func Handler() http.Handler {
	return promhttp.Handler()
}
