// Package metrics holds the Prometheus instrumentation for outbound backend
// calls.
package metrics

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
)

// Client instruments requests made by the backend API client.
type Client struct {
	requests *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

// NewClient registers the API client collectors on the given registerer.
func NewClient(reg prometheus.Registerer) *Client {
	c := &Client{
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "receipt_service",
			Subsystem: "api_client",
			Name:      "requests_total",
			Help:      "Outbound backend requests by endpoint, method and status code.",
		}, []string{"endpoint", "method", "status"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "receipt_service",
			Subsystem: "api_client",
			Name:      "request_duration_seconds",
			Help:      "Outbound backend request latency.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"endpoint", "method"}),
	}
	if reg != nil {
		reg.MustRegister(c.requests, c.duration)
	}
	return c
}

// Observe records one completed request. A status of 0 means no response was
// received (network failure).
func (c *Client) Observe(endpoint, method string, status int, seconds float64) {
	if c == nil {
		return
	}
	c.requests.WithLabelValues(endpoint, method, strconv.Itoa(status)).Inc()
	c.duration.WithLabelValues(endpoint, method).Observe(seconds)
}
