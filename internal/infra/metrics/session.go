package metrics

import "github.com/prometheus/client_golang/prometheus"

func init() { register(sessionIssuanceTotal, sessionIssuanceShared) }

var (
	sessionIssuanceTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "session_issuance_total",
			Help: "Remote session issuance calls by result (ok/http_error/invalid/transport).",
		},
		[]string{"result"},
	)

	sessionIssuanceShared = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "session_issuance_shared_total",
			Help: "Callers that joined an in-flight issuance instead of starting one.",
		},
	)
)

func IncSessionIssuance(result string) {
	sessionIssuanceTotal.WithLabelValues(norm(result)).Inc()
}

func IncSessionShared() { sessionIssuanceShared.Inc() }
