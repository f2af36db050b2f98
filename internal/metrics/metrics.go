// Package metrics provides Prometheus collectors and HTTP middleware for
// monitoring the gateway and the external capabilities it calls.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// CapabilityBuckets covers external AI calls, from 50ms to 2 minutes.
var CapabilityBuckets = []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10, 30, 60, 120}

var (
	// HTTPRequestsTotal counts HTTP requests by route pattern, method and status class.
	HTTPRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "aigateway_http_requests_total",
			Help: "HTTP requests",
		},
		[]string{"route", "method", "status"},
	)

	// HTTPRequestDuration records HTTP request duration in seconds.
	HTTPRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "aigateway_http_request_duration_seconds",
			Help:    "HTTP request duration",
			Buckets: CapabilityBuckets,
		},
		[]string{"route", "method"},
	)

	// CapabilityCallsTotal counts adapter invocations by outcome.
	CapabilityCallsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "aigateway_capability_calls_total",
			Help: "External capability invocations",
		},
		[]string{"capability", "backend", "status"},
	)

	// CapabilityLatency records adapter latency in seconds.
	CapabilityLatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "aigateway_capability_latency_seconds",
			Help:    "External capability latency",
			Buckets: CapabilityBuckets,
		},
		[]string{"capability", "backend"},
	)
)

func init() {
	prometheus.MustRegister(
		HTTPRequestsTotal,
		HTTPRequestDuration,
		CapabilityCallsTotal,
		CapabilityLatency,
	)
}

// ObserveCall records one adapter invocation that started at start.
func ObserveCall(capability, backend string, start time.Time, err error) {
	status := "ok"
	if err != nil {
		status = "error"
	}
	CapabilityCallsTotal.WithLabelValues(capability, backend, status).Inc()
	CapabilityLatency.WithLabelValues(capability, backend).Observe(time.Since(start).Seconds())
}

// Middleware records request count and duration labelled with the matched
// ServeMux pattern, so label cardinality stays bounded.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		sw := &StatusWriter{ResponseWriter: w, Status: http.StatusOK}
		next.ServeHTTP(sw, r)

		route := r.Pattern
		if route == "" {
			route = "unmatched"
		}
		HTTPRequestsTotal.WithLabelValues(route, r.Method, strconv.Itoa(sw.Status/100)+"xx").Inc()
		HTTPRequestDuration.WithLabelValues(route, r.Method).Observe(time.Since(start).Seconds())
	})
}

// StatusWriter captures the status code written by a handler.
type StatusWriter struct {
	http.ResponseWriter
	Status  int
	written bool
}

// WriteHeader captures the status code and delegates to the underlying writer.
func (w *StatusWriter) WriteHeader(status int) {
	if !w.written {
		w.Status = status
		w.written = true
	}
	w.ResponseWriter.WriteHeader(status)
}

// Write marks the status as written and delegates.
func (w *StatusWriter) Write(b []byte) (int, error) {
	w.written = true
	return w.ResponseWriter.Write(b)
}

// Unwrap exposes the underlying writer to http.ResponseController.
func (w *StatusWriter) Unwrap() http.ResponseWriter {
	return w.ResponseWriter
}
