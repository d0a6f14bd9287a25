package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/rs/zerolog/hlog"
)

var (
	httpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "route", "status"},
	)

	httpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request latency in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)

	gateDecisionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "directory_gate_decisions_total",
			Help: "Access gate decisions by reason",
		},
		[]string{"reason"},
	)

	visitsRecordedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "directory_visits_recorded_total",
			Help: "Visit ingest attempts by result",
		},
		[]string{"result"},
	)
)

// Instrument must wrap the mux directly so r.Pattern is set once the
// handler returns.
func Instrument(next http.Handler) http.Handler {
	return hlog.AccessHandler(func(r *http.Request, status, _ int, duration time.Duration) {
		route := r.Pattern
		if route == "" {
			route = "unmatched"
		}
		httpRequestsTotal.WithLabelValues(r.Method, route, strconv.Itoa(status)).Inc()
		httpRequestDuration.WithLabelValues(r.Method, route).Observe(duration.Seconds())
	})(next)
}

func observeIngest(err error) {
	visitsRecordedTotal.WithLabelValues(ingestResult(err)).Inc()
}

func ingestResult(err error) string {
	if err == nil {
		return "ok"
	}
	switch errorStatus(err) {
	case http.StatusNotFound:
		return "not_found"
	case http.StatusBadRequest:
		return "invalid"
	default:
		return "error"
	}
}
