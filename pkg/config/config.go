// Package config loads, validates, and watches the gateway configuration.
package config

import (
	"time"

	securitytls "cartonex/gateway/pkg/security/tls"
	"cartonex/gateway/pkg/telemetry/tracing"
	"cartonex/gateway/pkg/usage"
)

// Config is the root gateway configuration.
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Auth      AuthConfig      `yaml:"auth"`
	Upstream  UpstreamConfig  `yaml:"upstream"`
	Store     StoreConfig     `yaml:"store"`
	RateLimit RateLimitConfig `yaml:"rate_limit"`
	Usage     UsageConfig     `yaml:"usage"`
	Logging   LoggingConfig   `yaml:"logging"`
	Metrics   MetricsConfig   `yaml:"metrics"`
	Tracing   tracing.Config  `yaml:"tracing"`
}

// ServerConfig configures the HTTP listener.
type ServerConfig struct {
	// ListenAddress is the host:port to bind, e.g. ":8080".
	ListenAddress string `yaml:"listen_address"`

	// ReadTimeout and WriteTimeout bound the listener's I/O.
	ReadTimeout  time.Duration `yaml:"read_timeout"`
	WriteTimeout time.Duration `yaml:"write_timeout"`

	// RequestTimeout bounds one request's full pipeline pass.
	RequestTimeout time.Duration `yaml:"request_timeout"`

	// ShutdownTimeout bounds graceful shutdown.
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`

	// TLS optionally enables HTTPS on the listener.
	TLS securitytls.Config `yaml:"tls"`

	// CORS configures cross-origin access for the chat UI.
	CORS CORSConfig `yaml:"cors"`
}

// CORSConfig configures cross-origin headers.
type CORSConfig struct {
	// AllowedOrigins lists permitted Origin values. "*" allows any.
	AllowedOrigins []string `yaml:"allowed_origins"`

	// AllowedMethods and AllowedHeaders fill the preflight response.
	AllowedMethods []string `yaml:"allowed_methods"`
	AllowedHeaders []string `yaml:"allowed_headers"`
}

// AuthConfig configures the shared-secret authenticator.
type AuthConfig struct {
	// SharedSecret is the single credential all callers present.
	SharedSecret string `yaml:"shared_secret"`
}

// UpstreamConfig configures the LLM provider client.
type UpstreamConfig struct {
	// Name identifies the provider in logs and metrics.
	Name string `yaml:"name"`

	// BaseURL is the provider's API root.
	BaseURL string `yaml:"base_url"`

	// APIKey is the upstream bearer token.
	APIKey string `yaml:"api_key"`

	// FastModel serves extraction, price-correction, and default traffic.
	FastModel string `yaml:"fast_model"`

	// CapableModel serves cost-estimation traffic.
	CapableModel string `yaml:"capable_model"`

	// Timeout bounds each upstream call.
	Timeout time.Duration `yaml:"timeout"`
}

// StoreConfig selects the shared key-value store backend.
type StoreConfig struct {
	// Backend is "memory", "redis", or "sqlite".
	Backend string `yaml:"backend"`

	// RedisURL is required for the redis backend.
	RedisURL string `yaml:"redis_url"`

	// SQLitePath is required for the sqlite backend.
	SQLitePath string `yaml:"sqlite_path"`
}

// RateLimitConfig configures the fixed-window limiter.
type RateLimitConfig struct {
	// Limit is the request ceiling per window.
	Limit int `yaml:"limit"`

	// Window is the window length.
	Window time.Duration `yaml:"window"`
}

// UsageConfig configures the usage recorder.
type UsageConfig struct {
	// RetentionSchedule is a cron expression for the sqlite sweep.
	// Empty disables the scheduler.
	RetentionSchedule string `yaml:"retention_schedule"`

	// Pricing maps model names to per-1K-token rates.
	Pricing map[string]usage.ModelPricing `yaml:"pricing"`
}

// LoggingConfig configures the structured logger.
type LoggingConfig struct {
	Level     string `yaml:"level"`
	Format    string `yaml:"format"`
	AddSource bool   `yaml:"add_source"`
}

// MetricsConfig configures the Prometheus endpoint.
type MetricsConfig struct {
	Enabled bool `yaml:"enabled"`
}
