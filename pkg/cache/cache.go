package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"cartonex/gateway/pkg/proxy/types"
	"cartonex/gateway/pkg/routing"
)

// TTL policy per task class. Extraction results are stable (same phrasing,
// same structured output) and live longer; price corrections are more
// context-sensitive.
const (
	ExtractionTTL      = 7200 * time.Second
	PriceCorrectionTTL = 1800 * time.Second
)

// kvStore is the slice of the shared store the cache needs.
// *store.Namespace satisfies it.
type kvStore interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}

// Metrics receives cache outcome counters.
// *metrics.CacheMetrics satisfies it.
type Metrics interface {
	RecordHit(cache string)
	RecordMiss(cache string)
	RecordEviction(cache string)
}

// metricsCacheName labels this cache in the hit/miss counters.
const metricsCacheName = "response"

// Entry is the stored representation of a cached response.
// ExpiresAt duplicates the store-native TTL as a defensive timestamp
// checked on read, so a backend with sloppy expiry cannot serve a stale
// entry.
type Entry struct {
	// Response is the public response body as produced on the miss path.
	Response json.RawMessage `json:"response"`

	// Task is the task class the entry was cached under.
	Task routing.TaskType `json:"task"`

	// CreatedAt and ExpiresAt are unix milliseconds.
	CreatedAt int64 `json:"createdAt"`
	ExpiresAt int64 `json:"expiresAt"`
}

// Cache is the content-addressed response cache.
type Cache struct {
	store   kvStore
	metrics Metrics
	logger  *slog.Logger
}

// CacheConfig configures the response cache.
type CacheConfig struct {
	// Store is the cache's namespaced view of the shared store.
	Store kvStore

	// Metrics receives hit/miss counters. Optional.
	Metrics Metrics

	// Logger receives cache diagnostics. Default: slog.Default().
	Logger *slog.Logger
}

// New creates a response cache.
func New(cfg CacheConfig) (*Cache, error) {
	if cfg.Store == nil {
		return nil, fmt.Errorf("store cannot be nil")
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	return &Cache{
		store:   cfg.Store,
		metrics: cfg.Metrics,
		logger:  cfg.Logger,
	}, nil
}

// TTLFor returns the cache lifetime for a task class, or zero for classes
// that are never cached.
func TTLFor(task routing.TaskType) time.Duration {
	switch task {
	case routing.TaskExtraction:
		return ExtractionTTL
	case routing.TaskPriceCorrection:
		return PriceCorrectionTTL
	default:
		return 0
	}
}

// Lookup fetches the cached response for a key. A stored entry past its
// defensive expiry timestamp is deleted and reported as a miss.
func (c *Cache) Lookup(ctx context.Context, key string) (*types.GenerateResponse, bool, error) {
	raw, found, err := c.store.Get(ctx, key)
	if err != nil {
		return nil, false, fmt.Errorf("cache read failed: %w", err)
	}
	if !found {
		c.recordMiss()
		return nil, false, nil
	}

	var entry Entry
	if err := json.Unmarshal(raw, &entry); err != nil {
		c.recordMiss()
		return nil, false, fmt.Errorf("cache entry corrupt: %w", err)
	}

	if entry.ExpiresAt > 0 && entry.ExpiresAt < time.Now().UnixMilli() {
		if err := c.store.Delete(ctx, key); err != nil {
			c.logger.Warn("failed to delete expired cache entry", "key", key, "error", err)
		}
		if c.metrics != nil {
			c.metrics.RecordEviction(metricsCacheName)
		}
		c.recordMiss()
		return nil, false, nil
	}

	var resp types.GenerateResponse
	if err := json.Unmarshal(entry.Response, &resp); err != nil {
		c.recordMiss()
		return nil, false, fmt.Errorf("cached response corrupt: %w", err)
	}

	if c.metrics != nil {
		c.metrics.RecordHit(metricsCacheName)
	}
	return &resp, true, nil
}

// Store writes a response under a key with the task class TTL.
// Callers check IsCacheable first; Store rejects classes without a TTL.
func (c *Cache) Store(ctx context.Context, key string, task routing.TaskType, resp *types.GenerateResponse) error {
	ttl := TTLFor(task)
	if ttl == 0 {
		return fmt.Errorf("task class %q is not cacheable", task)
	}

	payload, err := json.Marshal(resp)
	if err != nil {
		return fmt.Errorf("failed to serialize response: %w", err)
	}

	now := time.Now()
	entry := Entry{
		Response:  payload,
		Task:      task,
		CreatedAt: now.UnixMilli(),
		ExpiresAt: now.Add(ttl).UnixMilli(),
	}

	raw, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("failed to serialize cache entry: %w", err)
	}

	if err := c.store.Set(ctx, key, raw, ttl); err != nil {
		return fmt.Errorf("cache write failed: %w", err)
	}
	return nil
}

func (c *Cache) recordMiss() {
	if c.metrics != nil {
		c.metrics.RecordMiss(metricsCacheName)
	}
}
