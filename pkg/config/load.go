package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Load reads the configuration file, applies defaults and CARTONEX_*
// environment overrides, and validates the result.
//
// A .env file in the working directory is loaded first if present, so
// secrets can stay out of the YAML file.
func Load(path string) (*Config, error) {
	// Missing .env is fine; it's a convenience for local development.
	_ = godotenv.Load()

	cfg := &Config{}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	}

	applyDefaults(cfg)
	applyEnvOverrides(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// applyEnvOverrides lets the environment override file values. Secrets
// are expected to arrive this way in production.
func applyEnvOverrides(cfg *Config) {
	if val := os.Getenv("CARTONEX_LISTEN_ADDRESS"); val != "" {
		cfg.Server.ListenAddress = val
	}
	if val := os.Getenv("CARTONEX_REQUEST_TIMEOUT"); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			cfg.Server.RequestTimeout = d
		}
	}
	if val := os.Getenv("CARTONEX_SHARED_SECRET"); val != "" {
		cfg.Auth.SharedSecret = val
	}
	if val := os.Getenv("CARTONEX_UPSTREAM_BASE_URL"); val != "" {
		cfg.Upstream.BaseURL = val
	}
	if val := os.Getenv("CARTONEX_UPSTREAM_API_KEY"); val != "" {
		cfg.Upstream.APIKey = val
	}
	if val := os.Getenv("CARTONEX_UPSTREAM_FAST_MODEL"); val != "" {
		cfg.Upstream.FastModel = val
	}
	if val := os.Getenv("CARTONEX_UPSTREAM_CAPABLE_MODEL"); val != "" {
		cfg.Upstream.CapableModel = val
	}
	if val := os.Getenv("CARTONEX_STORE_BACKEND"); val != "" {
		cfg.Store.Backend = val
	}
	if val := os.Getenv("CARTONEX_REDIS_URL"); val != "" {
		cfg.Store.RedisURL = val
	}
	if val := os.Getenv("CARTONEX_SQLITE_PATH"); val != "" {
		cfg.Store.SQLitePath = val
	}
	if val := os.Getenv("CARTONEX_RATE_LIMIT"); val != "" {
		if n, err := strconv.Atoi(val); err == nil {
			cfg.RateLimit.Limit = n
		}
	}
	if val := os.Getenv("CARTONEX_RATE_WINDOW"); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			cfg.RateLimit.Window = d
		}
	}
	if val := os.Getenv("CARTONEX_LOG_LEVEL"); val != "" {
		cfg.Logging.Level = val
	}
	if val := os.Getenv("CARTONEX_LOG_FORMAT"); val != "" {
		cfg.Logging.Format = val
	}
}
