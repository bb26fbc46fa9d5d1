package middleware

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	httpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	httpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	activeConnections = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "http_active_connections",
			Help: "Number of active HTTP connections",
		},
	)

	leadsCreated = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "leads_created_total",
			Help: "Total number of leads persisted",
		},
		[]string{"qualified"},
	)

	intakeErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "lead_intake_errors_total",
			Help: "Total number of rejected or failed lead submissions",
		},
		[]string{"code"},
	)

	enrichmentOutcomes = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "lead_enrichment_outcomes_total",
			Help: "Enrichment attempts by source and result",
		},
		[]string{"source", "result"},
	)
)

func Metrics(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		activeConnections.Inc()
		defer activeConnections.Dec()

		ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}

		path := routePattern(r)
		httpRequestsTotal.WithLabelValues(r.Method, path, strconv.Itoa(status)).Inc()
		httpRequestDuration.WithLabelValues(r.Method, path).Observe(time.Since(start).Seconds())
	})
}

// routePattern keeps label cardinality bounded by using the matched chi
// route instead of the raw path.
func routePattern(r *http.Request) string {
	if rctx := chi.RouteContext(r.Context()); rctx != nil {
		if pattern := rctx.RoutePattern(); pattern != "" {
			return pattern
		}
	}
	return "unmatched"
}

func RecordLeadCreated(qualified bool) {
	leadsCreated.WithLabelValues(strconv.FormatBool(qualified)).Inc()
}

func RecordIntakeError(code string) {
	intakeErrors.WithLabelValues(code).Inc()
}

func RecordEnrichment(source string, success bool) {
	if source == "" {
		source = "none"
	}
	result := "failure"
	if success {
		result = "success"
	}
	enrichmentOutcomes.WithLabelValues(source, result).Inc()
}
