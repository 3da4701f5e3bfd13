// Package metrics holds the Prometheus collectors for the proxy. All
// collectors register with the default registry at init time.
package metrics

import "github.com/prometheus/client_golang/prometheus"

// LatencyBuckets spans 50ms to 120s, the range of a buffered completion.
var LatencyBuckets = []float64{0.05, 0.1, 0.5, 1, 2, 5, 10, 30, 60, 120}

// Cache lookup results.
const (
	CacheHit  = "hit"
	CacheMiss = "miss"
)

// Token directions.
const (
	DirectionInput  = "input"
	DirectionOutput = "output"
)

var (
	// RequestsTotal counts HTTP requests by method, route and status class.
	RequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "aiproxy_requests_total",
			Help: "Total HTTP requests",
		},
		[]string{"method", "route", "status"},
	)

	RequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "aiproxy_request_duration_seconds",
			Help:    "HTTP request duration",
			Buckets: LatencyBuckets,
		},
		[]string{"method", "route"},
	)

	// ProviderRequestsTotal counts upstream exchanges. status is the HTTP
	// status code, or "error" when no response arrived.
	ProviderRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "aiproxy_provider_requests_total",
			Help: "Provider requests",
		},
		[]string{"provider", "status"},
	)

	ProviderLatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "aiproxy_provider_latency_seconds",
			Help:    "Provider latency",
			Buckets: LatencyBuckets,
		},
		[]string{"provider"},
	)

	// ProviderTokensTotal counts tokens reported by providers, by direction.
	ProviderTokensTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "aiproxy_provider_tokens_total",
			Help: "Token count",
		},
		[]string{"provider", "model", "direction"},
	)

	CacheLookupsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "aiproxy_cache_lookups_total",
			Help: "Response cache lookups",
		},
		[]string{"result"},
	)
)

func init() {
	prometheus.MustRegister(
		RequestsTotal,
		RequestDuration,
		ProviderRequestsTotal,
		ProviderLatency,
		ProviderTokensTotal,
		CacheLookupsTotal,
	)
}

// StatusClass buckets an HTTP status code as "2xx", "4xx" and so on.
func StatusClass(code int) string {
	switch {
	case code >= 500:
		return "5xx"
	case code >= 400:
		return "4xx"
	case code >= 300:
		return "3xx"
	case code >= 200:
		return "2xx"
	default:
		return "1xx"
	}
}

// RecordTokens adds reported token usage for a provider and model.
func RecordTokens(provider, model string, input, output int32) {
	if input > 0 {
		ProviderTokensTotal.WithLabelValues(provider, model, DirectionInput).Add(float64(input))
	}
	if output > 0 {
		ProviderTokensTotal.WithLabelValues(provider, model, DirectionOutput).Add(float64(output))
	}
}
