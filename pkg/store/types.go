package store

import (
	"context"
	"time"
)

// Store is the interface for the shared key-value store backing the
// rate limiter, response cache, and usage ledger.
// Implementations must be safe for concurrent use.
//
// TTL semantics: a zero ttl on Set means the entry never expires.
// Get on an expired entry behaves as if the entry does not exist.
type Store interface {
	// Get retrieves the value for a key.
	// Returns (nil, false, nil) if the key does not exist or has expired.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores a value under a key with the given time-to-live.
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error

	// Incr atomically increments the integer value stored at key,
	// creating it at 1 if absent, and returns the new value.
	// Atomicity is best-effort for backends without native increments.
	Incr(ctx context.Context, key string) (int64, error)

	// Expire sets or resets the time-to-live of an existing key.
	// No-op if the key does not exist.
	Expire(ctx context.Context, key string, ttl time.Duration) error

	// Delete removes a key. No-op if the key does not exist.
	Delete(ctx context.Context, key string) error

	// Close releases any resources held by the store.
	Close() error
}

// Namespace wraps a Store so that each concern (rate limiting, caching,
// usage accounting) operates on a logically separate key space even when
// physically backed by the same engine.
type Namespace struct {
	store  Store
	prefix string
}

// NewNamespace creates a namespaced view of a store.
// Keys are prefixed with "<prefix>:".
func NewNamespace(s Store, prefix string) *Namespace {
	return &Namespace{store: s, prefix: prefix + ":"}
}

// Get retrieves a value from the namespace.
func (n *Namespace) Get(ctx context.Context, key string) ([]byte, bool, error) {
	return n.store.Get(ctx, n.prefix+key)
}

// Set stores a value in the namespace with a time-to-live.
func (n *Namespace) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	return n.store.Set(ctx, n.prefix+key, value, ttl)
}

// Incr increments a counter in the namespace.
func (n *Namespace) Incr(ctx context.Context, key string) (int64, error) {
	return n.store.Incr(ctx, n.prefix+key)
}

// Expire sets the time-to-live of a key in the namespace.
func (n *Namespace) Expire(ctx context.Context, key string, ttl time.Duration) error {
	return n.store.Expire(ctx, n.prefix+key, ttl)
}

// Delete removes a key from the namespace.
func (n *Namespace) Delete(ctx context.Context, key string) error {
	return n.store.Delete(ctx, n.prefix+key)
}
