package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

const minimalYAML = `
auth:
  shared_secret: test-secret-0123456789
upstream:
  base_url: https://api.example.com/v1
  api_key: sk-test-key
  fast_model: fast-model
  capable_model: capable-model
`

func writeConfigFile(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}
	return path
}

func TestLoad_AppliesDefaults(t *testing.T) {
	cfg, err := Load(writeConfigFile(t, minimalYAML))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Server.ListenAddress != ":8080" {
		t.Errorf("Expected default listen address, got %s", cfg.Server.ListenAddress)
	}
	if cfg.Server.RequestTimeout != 60*time.Second {
		t.Errorf("Expected default request timeout 60s, got %s", cfg.Server.RequestTimeout)
	}
	if cfg.Store.Backend != "memory" {
		t.Errorf("Expected default memory backend, got %s", cfg.Store.Backend)
	}
	if cfg.RateLimit.Limit != 100 {
		t.Errorf("Expected default limit 100, got %d", cfg.RateLimit.Limit)
	}
	if cfg.RateLimit.Window != 60*time.Second {
		t.Errorf("Expected default window 60s, got %s", cfg.RateLimit.Window)
	}
	if cfg.Logging.Level != "info" || cfg.Logging.Format != "json" {
		t.Errorf("Expected default logging config, got %+v", cfg.Logging)
	}
}

func TestLoad_FileValues(t *testing.T) {
	cfg, err := Load(writeConfigFile(t, minimalYAML+`
server:
  listen_address: ":9090"
rate_limit:
  limit: 10
  window: 30s
store:
  backend: sqlite
  sqlite_path: /tmp/gateway.db
`))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Server.ListenAddress != ":9090" {
		t.Errorf("Expected :9090, got %s", cfg.Server.ListenAddress)
	}
	if cfg.RateLimit.Limit != 10 || cfg.RateLimit.Window != 30*time.Second {
		t.Errorf("Expected limit 10 window 30s, got %+v", cfg.RateLimit)
	}
	if cfg.Store.Backend != "sqlite" || cfg.Store.SQLitePath != "/tmp/gateway.db" {
		t.Errorf("Expected sqlite store config, got %+v", cfg.Store)
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("CARTONEX_SHARED_SECRET", "env-secret-0123456789")
	t.Setenv("CARTONEX_RATE_LIMIT", "5")
	t.Setenv("CARTONEX_LOG_LEVEL", "debug")

	cfg, err := Load(writeConfigFile(t, minimalYAML))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Auth.SharedSecret != "env-secret-0123456789" {
		t.Errorf("Expected env secret override, got %s", cfg.Auth.SharedSecret)
	}
	if cfg.RateLimit.Limit != 5 {
		t.Errorf("Expected env limit override 5, got %d", cfg.RateLimit.Limit)
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("Expected env level override, got %s", cfg.Logging.Level)
	}
}

func TestLoad_ValidationFailures(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{"missing secret", `
upstream:
  base_url: https://api.example.com/v1
  api_key: sk-test
  fast_model: a
  capable_model: b
`},
		{"missing upstream key", `
auth:
  shared_secret: test-secret-0123456789
upstream:
  base_url: https://api.example.com/v1
  fast_model: a
  capable_model: b
`},
		{"redis backend without url", minimalYAML + `
store:
  backend: redis
`},
		{"unknown backend", minimalYAML + `
store:
  backend: etcd
`},
		{"tls without certs", minimalYAML + `
server:
  tls:
    enabled: true
`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Load(writeConfigFile(t, tt.yaml)); err == nil {
				t.Error("Expected validation error")
			}
		})
	}
}

func TestLoad_MissingFile(t *testing.T) {
	if _, err := Load("/nonexistent/config.yaml"); err == nil {
		t.Error("Expected error for missing file")
	}
}
