package metrics

import (
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

func TestCollector_RegistersAndExposesFamilies(t *testing.T) {
	c := NewCollector(prometheus.NewRegistry())

	c.RecordRequest("extraction", "200", "HIT", 50*time.Millisecond)
	c.RecordTokens("fast-model", 600)
	c.RecordHit("response")
	c.RecordMiss("response")
	c.RecordEviction("response")
	c.RecordProviderLatency("openai", "fast-model", 2*time.Second)
	c.RecordProviderError("openai", "transport")
	c.RecordCost("fast-model", 0.0125)
	c.RecordRateLimited()

	rec := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/metrics", nil)
	c.Handler().ServeHTTP(rec, req)

	body := rec.Body.String()
	for _, family := range []string{
		"cartonex_gateway_requests_total",
		"cartonex_gateway_request_duration_seconds",
		"cartonex_gateway_request_tokens",
		"cartonex_gateway_cache_hits_total",
		"cartonex_gateway_cache_misses_total",
		"cartonex_gateway_cache_evictions_total",
		"cartonex_gateway_provider_latency_seconds",
		"cartonex_gateway_provider_errors_total",
		"cartonex_gateway_cost_usd_total",
		"cartonex_gateway_rate_limited_total",
	} {
		if !strings.Contains(body, family) {
			t.Errorf("Expected metric family %s in /metrics output", family)
		}
	}
}

func TestCollector_NilRegistryGetsFreshOne(t *testing.T) {
	c := NewCollector(nil)
	if c.Registry() == nil {
		t.Fatal("Expected a registry")
	}
}
