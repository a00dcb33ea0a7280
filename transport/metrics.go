package transport

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	requestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "freeagent_client",
			Name:      "http_requests_total",
			Help:      "HTTP requests sent to the API, by method and status class.",
		},
		[]string{"method", "status"},
	)

	retriesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "freeagent_client",
			Name:      "http_retries_total",
			Help:      "Requests retried after a recoverable failure.",
		},
		[]string{"method"},
	)
)

// statusClass buckets status codes as "2xx", "4xx", ... and "error" for
// requests that never produced a response.
func statusClass(code int) string {
	if code <= 0 {
		return "error"
	}
	return strconv.Itoa(code/100) + "xx"
}
