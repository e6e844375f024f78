package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

func init() { register(chatRequestsTotal, chatLatencyMs) }

var (
	chatRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "chat_requests_total",
			Help: "Chat sends by outcome (ok/rejected/session_error/http_error/transport).",
		},
		[]string{"outcome"},
	)

	chatLatencyMs = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "chat_latency_ms",
			Help:    "Chat round-trip latency distribution in milliseconds.",
			Buckets: []float64{10, 25, 50, 100, 200, 400, 800, 1600, 3000, 5000, 10000},
		},
		[]string{"outcome"},
	)
)

func ObserveChat(outcome string, elapsed time.Duration) {
	o := norm(outcome)
	chatRequestsTotal.WithLabelValues(o).Inc()
	chatLatencyMs.WithLabelValues(o).Observe(float64(elapsed.Milliseconds()))
}

func IncChatRejected() { chatRequestsTotal.WithLabelValues("rejected").Inc() }
