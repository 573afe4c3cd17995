package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "esquery"

// Endpoint labels. Every index shares one label per operation.
const (
	EndpointSearch             = "search"
	EndpointAggregate          = "aggregate"
	EndpointAggregateMany      = "aggregate_many"
	EndpointCompileQuery       = "compile_query"
	EndpointCompileAggregation = "compile_aggregation"
	EndpointHealth             = "health"
	EndpointMetrics            = "metrics"
	EndpointOther              = "other"
	EndpointUnmatched          = "unmatched"
)

var endpoints = map[string]string{
	"/indexes/{index}/search":         EndpointSearch,
	"/indexes/{index}/aggregate":      EndpointAggregate,
	"/indexes/{index}/aggregate/many": EndpointAggregateMany,
	"/compile/query":                  EndpointCompileQuery,
	"/compile/aggregation":            EndpointCompileAggregation,
	"/health":                         EndpointHealth,
	"/metrics":                        EndpointMetrics,
}

var (
	httpRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request duration in seconds by API endpoint",
			Buckets:   []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
		[]string{"method", "endpoint", "status"},
	)

	httpRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests by API endpoint",
		},
		[]string{"method", "endpoint", "status"},
	)
)

func init() {
	prometheus.MustRegister(httpRequestDuration)
	prometheus.MustRegister(httpRequestsTotal)
}

// Middleware records request duration and count per API endpoint.
func Middleware() func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			ww := chiMiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r)

			status := ww.Status()
			if status == 0 {
				status = http.StatusOK
			}

			pattern := ""
			if rctx := chi.RouteContext(r.Context()); rctx != nil {
				pattern = rctx.RoutePattern()
			}
			labels := []string{r.Method, Endpoint(pattern), strconv.Itoa(status)}

			httpRequestDuration.WithLabelValues(labels...).Observe(time.Since(start).Seconds())
			httpRequestsTotal.WithLabelValues(labels...).Inc()
		})
	}
}

// Endpoint maps a chi route pattern to its endpoint label.
func Endpoint(pattern string) string {
	if pattern == "" {
		return EndpointUnmatched
	}
	if e, ok := endpoints[pattern]; ok {
		return e
	}
	return EndpointOther
}
