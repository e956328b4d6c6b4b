package cache

import (
	"context"
	"strings"
	"testing"
	"time"

	"cartonex/gateway/pkg/proxy/types"
	"cartonex/gateway/pkg/routing"
	"cartonex/gateway/pkg/store"
)

func floatPtr(v float64) *float64 { return &v }
func intPtr(v int) *int           { return &v }

func testRequest(text string) *types.GenerateRequest {
	return &types.GenerateRequest{
		Contents: []types.Content{
			{Parts: []types.Part{{Text: text}}},
		},
	}
}

type countingMetrics struct {
	hits, misses, evictions int
}

func (m *countingMetrics) RecordHit(string)      { m.hits++ }
func (m *countingMetrics) RecordMiss(string)     { m.misses++ }
func (m *countingMetrics) RecordEviction(string) { m.evictions++ }

func newTestCache(t *testing.T) (*Cache, *countingMetrics) {
	t.Helper()

	backing := store.NewMemoryStore()
	t.Cleanup(func() { backing.Close() })

	m := &countingMetrics{}
	c, err := New(CacheConfig{
		Store:   store.NewNamespace(backing, "cache"),
		Metrics: m,
	})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	return c, m
}

func TestFingerprint_Deterministic(t *testing.T) {
	req := testRequest("Извлеки параметры заказа")

	first, err := Fingerprint(req, "fast-model")
	if err != nil {
		t.Fatalf("Fingerprint failed: %v", err)
	}
	second, err := Fingerprint(req, "fast-model")
	if err != nil {
		t.Fatalf("Fingerprint failed: %v", err)
	}
	if first != second {
		t.Errorf("Identical input produced different keys: %s vs %s", first, second)
	}
}

func TestFingerprint_FullWidthHex(t *testing.T) {
	key, err := Fingerprint(testRequest("msg"), "m")
	if err != nil {
		t.Fatalf("Fingerprint failed: %v", err)
	}
	if len(key) != 64 {
		t.Errorf("Expected 64 hex chars, got %d", len(key))
	}
	if strings.ToLower(key) != key {
		t.Error("Expected lowercase hex encoding")
	}
}

func TestFingerprint_FieldSensitivity(t *testing.T) {
	base := testRequest("same text")
	baseKey, err := Fingerprint(base, "model-a")
	if err != nil {
		t.Fatalf("Fingerprint failed: %v", err)
	}

	tests := []struct {
		name  string
		req   *types.GenerateRequest
		model string
	}{
		{"different text", testRequest("other text"), "model-a"},
		{"different model", testRequest("same text"), "model-b"},
		{
			"different temperature",
			&types.GenerateRequest{
				Contents:         base.Contents,
				GenerationConfig: &types.GenerationConfig{Temperature: floatPtr(0.2)},
			},
			"model-a",
		},
		{
			"different system instruction",
			&types.GenerateRequest{Contents: base.Contents, SystemInstruction: "extra"},
			"model-a",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			key, err := Fingerprint(tt.req, tt.model)
			if err != nil {
				t.Fatalf("Fingerprint failed: %v", err)
			}
			if key == baseKey {
				t.Error("Expected a different key for a different input")
			}
		})
	}
}

func TestIsCacheable(t *testing.T) {
	tests := []struct {
		name string
		req  *types.GenerateRequest
		task routing.TaskType
		want bool
	}{
		{"extraction without config", testRequest("t"), routing.TaskExtraction, true},
		{"price correction without config", testRequest("t"), routing.TaskPriceCorrection, true},
		{"cost estimation never cached", testRequest("t"), routing.TaskCostEstimation, false},
		{"default never cached", testRequest("t"), routing.TaskDefault, false},
		{
			"temperature above threshold",
			&types.GenerateRequest{
				Contents:         testRequest("t").Contents,
				GenerationConfig: &types.GenerationConfig{Temperature: floatPtr(0.8)},
			},
			routing.TaskExtraction,
			false,
		},
		{
			"temperature at threshold",
			&types.GenerateRequest{
				Contents:         testRequest("t").Contents,
				GenerationConfig: &types.GenerationConfig{Temperature: floatPtr(0.5)},
			},
			routing.TaskExtraction,
			true,
		},
		{
			"max tokens above threshold",
			&types.GenerateRequest{
				Contents:         testRequest("t").Contents,
				GenerationConfig: &types.GenerationConfig{MaxTokens: intPtr(3000)},
			},
			routing.TaskExtraction,
			false,
		},
		{
			"oversized content",
			testRequest(strings.Repeat("x", 11000)),
			routing.TaskExtraction,
			false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsCacheable(tt.req, tt.task); got != tt.want {
				t.Errorf("IsCacheable = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestCache_StoreAndLookup(t *testing.T) {
	c, m := newTestCache(t)
	ctx := context.Background()

	resp := types.NewTextResponse("cached output", 10, 5)
	if err := c.Store(ctx, "key1", routing.TaskExtraction, resp); err != nil {
		t.Fatalf("Store failed: %v", err)
	}

	got, hit, err := c.Lookup(ctx, "key1")
	if err != nil {
		t.Fatalf("Lookup failed: %v", err)
	}
	if !hit {
		t.Fatal("Expected a cache hit")
	}
	if got.Text() != "cached output" {
		t.Errorf("Expected cached output, got %q", got.Text())
	}
	if got.Usage.PromptTokenCount != 10 {
		t.Errorf("Expected prompt tokens 10, got %d", got.Usage.PromptTokenCount)
	}
	if m.hits != 1 {
		t.Errorf("Expected 1 recorded hit, got %d", m.hits)
	}
}

func TestCache_LookupMiss(t *testing.T) {
	c, m := newTestCache(t)

	_, hit, err := c.Lookup(context.Background(), "absent")
	if err != nil {
		t.Fatalf("Lookup failed: %v", err)
	}
	if hit {
		t.Error("Expected a miss for an absent key")
	}
	if m.misses != 1 {
		t.Errorf("Expected 1 recorded miss, got %d", m.misses)
	}
}

func TestCache_LazyExpiry(t *testing.T) {
	backing := store.NewMemoryStore()
	defer backing.Close()

	m := &countingMetrics{}
	c, err := New(CacheConfig{Store: store.NewNamespace(backing, "cache"), Metrics: m})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	ctx := context.Background()

	// Craft an entry whose defensive timestamp is already past even though
	// the store-native TTL is still live.
	entry := `{"response":{"candidates":[{"content":{"parts":[{"text":"stale"}]}}],"usage":{"promptTokenCount":1,"candidatesTokenCount":1}},"task":"extraction","createdAt":1,"expiresAt":2}`
	if err := backing.Set(ctx, "cache:stale-key", []byte(entry), time.Hour); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	_, hit, err := c.Lookup(ctx, "stale-key")
	if err != nil {
		t.Fatalf("Lookup failed: %v", err)
	}
	if hit {
		t.Error("Expected an expired entry to miss")
	}
	if m.evictions != 1 {
		t.Errorf("Expected 1 eviction, got %d", m.evictions)
	}

	// The lazy delete must have removed the raw entry.
	_, found, err := backing.Get(ctx, "cache:stale-key")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if found {
		t.Error("Expected expired entry to be deleted on read")
	}
}

func TestCache_StoreRejectsUncacheableClass(t *testing.T) {
	c, _ := newTestCache(t)

	err := c.Store(context.Background(), "k", routing.TaskDefault, types.NewTextResponse("x", 1, 1))
	if err == nil {
		t.Error("Expected error storing a default-class response")
	}
}

func TestTTLFor(t *testing.T) {
	if got := TTLFor(routing.TaskExtraction); got != ExtractionTTL {
		t.Errorf("Expected %s for extraction, got %s", ExtractionTTL, got)
	}
	if got := TTLFor(routing.TaskPriceCorrection); got != PriceCorrectionTTL {
		t.Errorf("Expected %s for price correction, got %s", PriceCorrectionTTL, got)
	}
	if got := TTLFor(routing.TaskCostEstimation); got != 0 {
		t.Errorf("Expected 0 for cost estimation, got %s", got)
	}
}
