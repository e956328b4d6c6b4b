package config

import (
	"fmt"

	"cartonex/gateway/pkg/store"
)

// Validate checks the configuration for values the gateway cannot start
// without.
func (c *Config) Validate() error {
	if c.Auth.SharedSecret == "" {
		return fmt.Errorf("auth.shared_secret is required")
	}

	if c.Upstream.BaseURL == "" {
		return fmt.Errorf("upstream.base_url is required")
	}
	if c.Upstream.APIKey == "" {
		return fmt.Errorf("upstream.api_key is required")
	}
	if c.Upstream.FastModel == "" {
		return fmt.Errorf("upstream.fast_model is required")
	}
	if c.Upstream.CapableModel == "" {
		return fmt.Errorf("upstream.capable_model is required")
	}

	switch c.Store.Backend {
	case store.BackendMemory:
	case store.BackendRedis:
		if c.Store.RedisURL == "" {
			return fmt.Errorf("store.redis_url is required for the redis backend")
		}
	case store.BackendSQLite:
		if c.Store.SQLitePath == "" {
			return fmt.Errorf("store.sqlite_path is required for the sqlite backend")
		}
	default:
		return fmt.Errorf("store.backend must be memory, redis, or sqlite")
	}

	if c.RateLimit.Limit < 0 {
		return fmt.Errorf("rate_limit.limit cannot be negative")
	}
	if c.RateLimit.Window < 0 {
		return fmt.Errorf("rate_limit.window cannot be negative")
	}

	if c.Server.TLS.Enabled {
		if c.Server.TLS.CertFile == "" || c.Server.TLS.KeyFile == "" {
			return fmt.Errorf("server.tls.cert_file and key_file are required when TLS is enabled")
		}
	}

	return nil
}
