// Package ratelimit bounds request volume per caller IP with a fixed-window
// counter in the shared store.
package ratelimit

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"time"
)

// Defaults for the fixed window.
const (
	DefaultLimit  = 100
	DefaultWindow = 60 * time.Second
)

// counterStore is the slice of the shared store the limiter needs.
// *store.Namespace satisfies it.
type counterStore interface {
	Incr(ctx context.Context, key string) (int64, error)
	Expire(ctx context.Context, key string, ttl time.Duration) error
}

// Decision is the outcome of a rate-limit check.
type Decision struct {
	// Allowed reports whether the request may proceed.
	Allowed bool

	// Remaining is the number of requests left in the current window.
	Remaining int

	// RetryAfter is how long until the current window closes.
	// Only meaningful when Allowed is false.
	RetryAfter time.Duration
}

// Limiter is a fixed-window rate limiter keyed by caller IP.
//
// Windows are aligned to the wall clock: the key embeds the window's start
// second, and the first increment of each window arms a store-native TTL.
// A caller therefore gets a fresh allowance exactly once per window instead
// of a sliding allowance refreshed by its own traffic.
type Limiter struct {
	store  counterStore
	limit  int64
	window time.Duration
	logger *slog.Logger

	// now is injectable for tests.
	now func() time.Time
}

// LimiterConfig configures the rate limiter.
type LimiterConfig struct {
	// Store is the limiter's namespaced view of the shared store.
	Store counterStore

	// Limit is the request ceiling per window. Default: 100.
	Limit int

	// Window is the window length. Default: 60s.
	Window time.Duration

	// Logger receives limiter diagnostics. Default: slog.Default().
	Logger *slog.Logger
}

// New creates a rate limiter.
func New(cfg LimiterConfig) (*Limiter, error) {
	if cfg.Store == nil {
		return nil, fmt.Errorf("store cannot be nil")
	}
	if cfg.Limit == 0 {
		cfg.Limit = DefaultLimit
	}
	if cfg.Limit < 0 {
		return nil, fmt.Errorf("limit cannot be negative")
	}
	if cfg.Window == 0 {
		cfg.Window = DefaultWindow
	}
	if cfg.Window < 0 {
		return nil, fmt.Errorf("window cannot be negative")
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	return &Limiter{
		store:  cfg.Store,
		limit:  int64(cfg.Limit),
		window: cfg.Window,
		logger: cfg.Logger,
		now:    time.Now,
	}, nil
}

// Allow checks and consumes one request slot for the caller IP.
//
// A missing or unparseable IP cannot be attributed, so it is logged and
// allowed; identification is best-effort only. Store errors propagate to
// the caller, where the fail-open wrapper turns them into an allow.
func (l *Limiter) Allow(ctx context.Context, ip string) (Decision, error) {
	if ip == "" {
		l.logger.Warn("rate limit check skipped: no caller IP")
		return Decision{Allowed: true, Remaining: int(l.limit)}, nil
	}

	now := l.now()
	windowStart := now.Truncate(l.window)
	key := ip + ":" + strconv.FormatInt(windowStart.Unix(), 10)

	count, err := l.store.Incr(ctx, key)
	if err != nil {
		return Decision{}, fmt.Errorf("rate limit counter failed: %w", err)
	}

	if count == 1 {
		// First request of the window arms the expiry. The TTL covers the
		// window remainder plus slack so clock skew never orphans a key.
		ttl := l.window + time.Until(windowStart.Add(l.window))
		if ttl < l.window {
			ttl = l.window
		}
		if err := l.store.Expire(ctx, key, ttl); err != nil {
			l.logger.Warn("failed to arm rate limit window expiry", "key", key, "error", err)
		}
	}

	if count > l.limit {
		return Decision{
			Allowed:    false,
			Remaining:  0,
			RetryAfter: windowStart.Add(l.window).Sub(now),
		}, nil
	}

	remaining := l.limit - count
	return Decision{Allowed: true, Remaining: int(remaining)}, nil
}

// Limit returns the configured ceiling.
func (l *Limiter) Limit() int {
	return int(l.limit)
}

// Window returns the configured window length.
func (l *Limiter) Window() time.Duration {
	return l.window
}
