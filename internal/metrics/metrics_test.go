package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
)

func TestMetricsRegistered(t *testing.T) {
	RequestsTotal.WithLabelValues("GET", "/health", "2xx").Inc()
	RequestDuration.WithLabelValues("GET", "/health").Observe(0.01)
	ProviderRequestsTotal.WithLabelValues("openai", "200").Inc()
	ProviderLatency.WithLabelValues("openai").Observe(0.2)
	ProviderTokensTotal.WithLabelValues("openai", "gpt-4", DirectionInput).Add(1)
	CacheLookupsTotal.WithLabelValues(CacheHit).Inc()

	families, err := prometheus.DefaultGatherer.Gather()
	if err != nil {
		t.Fatalf("unexpected gather error: %v", err)
	}

	expected := map[string]bool{
		"aiproxy_requests_total":           false,
		"aiproxy_request_duration_seconds": false,
		"aiproxy_provider_requests_total":  false,
		"aiproxy_provider_latency_seconds": false,
		"aiproxy_provider_tokens_total":    false,
		"aiproxy_cache_lookups_total":      false,
	}
	for _, mf := range families {
		if _, ok := expected[mf.GetName()]; ok {
			expected[mf.GetName()] = true
		}
	}
	for name, found := range expected {
		if !found {
			t.Errorf("metric %q not found in default registry", name)
		}
	}
}

func TestStatusClass(t *testing.T) {
	tests := map[int]string{
		101: "1xx",
		200: "2xx",
		204: "2xx",
		302: "3xx",
		400: "4xx",
		404: "4xx",
		502: "5xx",
		503: "5xx",
	}
	for code, want := range tests {
		if got := StatusClass(code); got != want {
			t.Errorf("StatusClass(%d) = %q, want %q", code, got, want)
		}
	}
}

func TestRecordTokens(t *testing.T) {
	beforeIn := counterValue(t, ProviderTokensTotal, "claude", "claude-3", DirectionInput)
	beforeOut := counterValue(t, ProviderTokensTotal, "claude", "claude-3", DirectionOutput)

	RecordTokens("claude", "claude-3", 12, 30)
	RecordTokens("claude", "claude-3", 0, 0)

	if got := counterValue(t, ProviderTokensTotal, "claude", "claude-3", DirectionInput) - beforeIn; got != 12 {
		t.Errorf("input delta = %f, want 12", got)
	}
	if got := counterValue(t, ProviderTokensTotal, "claude", "claude-3", DirectionOutput) - beforeOut; got != 30 {
		t.Errorf("output delta = %f, want 30", got)
	}
}

// counterValue reads the current value of a CounterVec for the given labels.
func counterValue(t *testing.T, cv *prometheus.CounterVec, labels ...string) float64 {
	t.Helper()
	m := &dto.Metric{}
	c, err := cv.GetMetricWithLabelValues(labels...)
	if err != nil {
		t.Fatalf("getting counter metric: %v", err)
	}
	if err := c.(prometheus.Metric).Write(m); err != nil {
		t.Fatalf("writing counter metric: %v", err)
	}
	return m.GetCounter().GetValue()
}
