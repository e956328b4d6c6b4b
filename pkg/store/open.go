package store

import (
	"context"
	"fmt"
)

// Backend names accepted in configuration.
const (
	BackendMemory = "memory"
	BackendRedis  = "redis"
	BackendSQLite = "sqlite"
)

// Options selects and configures a store backend.
type Options struct {
	// Backend is one of "memory", "redis", or "sqlite".
	Backend string

	// RedisURL is the connection URL for the redis backend.
	RedisURL string

	// SQLitePath is the database file path for the sqlite backend.
	SQLitePath string
}

// Open creates the store backend selected by opts.
func Open(ctx context.Context, opts Options) (Store, error) {
	switch opts.Backend {
	case BackendMemory, "":
		return NewMemoryStore(), nil
	case BackendRedis:
		return NewRedisStore(ctx, opts.RedisURL)
	case BackendSQLite:
		return NewSQLiteStore(opts.SQLitePath)
	default:
		return nil, fmt.Errorf("unknown store backend: %q", opts.Backend)
	}
}
