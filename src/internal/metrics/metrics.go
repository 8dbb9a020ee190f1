package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// Registry holds the service's collectors; it is what /metrics exposes.
	Registry = prometheus.NewRegistry()

	ledgerPostings = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "banking",
			Subsystem: "ledger",
			Name:      "postings_total",
			Help:      "Deposit and withdraw attempts by outcome.",
		},
		[]string{"kind", "result"},
	)

	accountTransitions = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "banking",
			Subsystem: "account",
			Name:      "transitions_total",
			Help:      "Account lifecycle actions by outcome.",
		},
		[]string{"action", "result"},
	)

	httpRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "banking",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests handled.",
		},
		[]string{"method", "route", "status"},
	)

	httpDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "banking",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "Duration of HTTP requests.",
			Buckets:   prometheus.ExponentialBuckets(0.005, 2, 10),
		},
		[]string{"method", "route"},
	)
)

func init() {
	Registry.MustRegister(ledgerPostings, accountTransitions, httpRequests, httpDuration)
	Registry.MustRegister(prometheus.NewGoCollector(), prometheus.NewProcessCollector(prometheus.ProcessCollectorOpts{}))
}

// Result labels an outcome: "ok" for nil, otherwise the supplied error kind.
func Result(kind string, err error) string {
	if err == nil {
		return "ok"
	}
	if kind == "" {
		return "error"
	}
	return kind
}

func RecordPosting(kind, result string) {
	ledgerPostings.WithLabelValues(kind, result).Inc()
}

func RecordTransition(action, result string) {
	accountTransitions.WithLabelValues(action, result).Inc()
}

func Handler() http.Handler {
	return promhttp.HandlerFor(Registry, promhttp.HandlerOpts{})
}

// InstrumentHTTP records request counts and latency keyed by the chi route pattern.
func InstrumentHTTP(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

		next.ServeHTTP(rec, r)

		route := r.URL.Path
		if rctx := chi.RouteContext(r.Context()); rctx != nil {
			if pattern := rctx.RoutePattern(); pattern != "" {
				route = pattern
			}
		}

		httpRequests.WithLabelValues(r.Method, route, strconv.Itoa(rec.status)).Inc()
		httpDuration.WithLabelValues(r.Method, route).Observe(time.Since(start).Seconds())
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}
