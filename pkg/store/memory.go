package store

import (
	"context"
	"fmt"
	"strconv"
	"sync"
	"time"
)

// MemoryStore implements Store using in-memory storage.
// This is the default backend for development and tests. All data is lost
// when the process exits.
//
// MemoryStore is thread-safe and enforces TTLs both lazily on read and via
// a background cleanup goroutine.
type MemoryStore struct {
	// entries maps key to value + expiry.
	entries map[string]*memoryEntry

	// mu protects access to entries.
	mu sync.RWMutex

	// cleanupInterval is how often the cleanup loop runs.
	cleanupInterval time.Duration

	// done signals the cleanup goroutine to stop.
	done chan struct{}

	closeOnce sync.Once
}

type memoryEntry struct {
	value []byte

	// expiresAt is the zero time for entries without a TTL.
	expiresAt time.Time
}

func (e *memoryEntry) expired(now time.Time) bool {
	return !e.expiresAt.IsZero() && now.After(e.expiresAt)
}

// MemoryStoreConfig configures the memory store.
type MemoryStoreConfig struct {
	// CleanupInterval is how often to sweep expired entries.
	// Default: 1 minute.
	CleanupInterval time.Duration
}

// NewMemoryStore creates a new in-memory store with default settings.
func NewMemoryStore() *MemoryStore {
	return NewMemoryStoreWithConfig(MemoryStoreConfig{})
}

// NewMemoryStoreWithConfig creates a new in-memory store with custom configuration.
func NewMemoryStoreWithConfig(cfg MemoryStoreConfig) *MemoryStore {
	if cfg.CleanupInterval == 0 {
		cfg.CleanupInterval = time.Minute
	}

	s := &MemoryStore{
		entries:         make(map[string]*memoryEntry),
		cleanupInterval: cfg.CleanupInterval,
		done:            make(chan struct{}),
	}

	go s.cleanupLoop()

	return s
}

// Get retrieves the value for a key, honoring expiry.
func (s *MemoryStore) Get(ctx context.Context, key string) ([]byte, bool, error) {
	if key == "" {
		return nil, false, fmt.Errorf("key cannot be empty")
	}

	s.mu.RLock()
	entry, exists := s.entries[key]
	s.mu.RUnlock()

	if !exists {
		return nil, false, nil
	}

	if entry.expired(time.Now()) {
		// Lazy delete on read; the cleanup loop would catch it eventually.
		s.mu.Lock()
		delete(s.entries, key)
		s.mu.Unlock()
		return nil, false, nil
	}

	return entry.value, true, nil
}

// Set stores a value under a key with the given time-to-live.
func (s *MemoryStore) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if key == "" {
		return fmt.Errorf("key cannot be empty")
	}

	entry := &memoryEntry{value: value}
	if ttl > 0 {
		entry.expiresAt = time.Now().Add(ttl)
	}

	s.mu.Lock()
	s.entries[key] = entry
	s.mu.Unlock()

	return nil
}

// Incr atomically increments the counter stored at key.
func (s *MemoryStore) Incr(ctx context.Context, key string) (int64, error) {
	if key == "" {
		return 0, fmt.Errorf("key cannot be empty")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	entry, exists := s.entries[key]
	if !exists || entry.expired(now) {
		s.entries[key] = &memoryEntry{value: []byte("1")}
		return 1, nil
	}

	n, err := strconv.ParseInt(string(entry.value), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("value at %q is not an integer: %w", key, err)
	}

	n++
	entry.value = []byte(strconv.FormatInt(n, 10))
	return n, nil
}

// Expire sets the time-to-live of an existing key.
func (s *MemoryStore) Expire(ctx context.Context, key string, ttl time.Duration) error {
	if key == "" {
		return fmt.Errorf("key cannot be empty")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	entry, exists := s.entries[key]
	if !exists || entry.expired(time.Now()) {
		return nil
	}

	if ttl > 0 {
		entry.expiresAt = time.Now().Add(ttl)
	} else {
		entry.expiresAt = time.Time{}
	}
	return nil
}

// Delete removes a key.
func (s *MemoryStore) Delete(ctx context.Context, key string) error {
	if key == "" {
		return fmt.Errorf("key cannot be empty")
	}

	s.mu.Lock()
	delete(s.entries, key)
	s.mu.Unlock()
	return nil
}

// Close stops the cleanup goroutine.
func (s *MemoryStore) Close() error {
	s.closeOnce.Do(func() {
		close(s.done)
	})
	return nil
}

// Size returns the current number of stored entries, including ones that
// have expired but not yet been swept. Useful for monitoring and tests.
func (s *MemoryStore) Size() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

// cleanupLoop sweeps expired entries periodically.
func (s *MemoryStore) cleanupLoop() {
	ticker := time.NewTicker(s.cleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			now := time.Now()
			s.mu.Lock()
			for key, entry := range s.entries {
				if entry.expired(now) {
					delete(s.entries, key)
				}
			}
			s.mu.Unlock()
		case <-s.done:
			return
		}
	}
}
