// Package tls builds the listener's TLS configuration from certificate
// files.
package tls

import (
	"crypto/tls"
	"crypto/x509"
	"fmt"
	"time"
)

// Config describes the gateway's TLS listener settings.
type Config struct {
	// Enabled indicates whether the listener serves TLS.
	Enabled bool `yaml:"enabled"`

	// CertFile is the path to the PEM-encoded certificate file.
	CertFile string `yaml:"cert_file"`

	// KeyFile is the path to the PEM-encoded private key file.
	KeyFile string `yaml:"key_file"`

	// MinVersion is the minimum TLS version to accept, "1.2" or "1.3".
	// Default: "1.3".
	MinVersion string `yaml:"min_version"`
}

// Build converts the config to a crypto/tls.Config, loading and checking
// the certificate. Returns (nil, nil) when TLS is disabled.
func (c *Config) Build() (*tls.Config, error) {
	if !c.Enabled {
		return nil, nil
	}

	if c.CertFile == "" {
		return nil, fmt.Errorf("cert_file is required when TLS is enabled")
	}
	if c.KeyFile == "" {
		return nil, fmt.Errorf("key_file is required when TLS is enabled")
	}

	cert, err := tls.LoadX509KeyPair(c.CertFile, c.KeyFile)
	if err != nil {
		return nil, fmt.Errorf("failed to load certificate: %w", err)
	}

	if err := validateCertificate(&cert); err != nil {
		return nil, fmt.Errorf("certificate validation failed: %w", err)
	}

	return &tls.Config{
		Certificates: []tls.Certificate{cert},
		MinVersion:   c.minVersion(),
	}, nil
}

// minVersion maps the configured version string to a tls constant.
// TLS 1.0 and 1.1 are never accepted.
func (c *Config) minVersion() uint16 {
	if c.MinVersion == "1.2" {
		return tls.VersionTLS12
	}
	return tls.VersionTLS13
}

// validateCertificate rejects expired and not-yet-valid certificates at
// startup rather than at the first handshake.
func validateCertificate(cert *tls.Certificate) error {
	if len(cert.Certificate) == 0 {
		return fmt.Errorf("certificate chain is empty")
	}

	leaf, err := x509.ParseCertificate(cert.Certificate[0])
	if err != nil {
		return fmt.Errorf("failed to parse leaf certificate: %w", err)
	}

	now := time.Now()
	if now.Before(leaf.NotBefore) {
		return fmt.Errorf("certificate not valid until %s", leaf.NotBefore)
	}
	if now.After(leaf.NotAfter) {
		return fmt.Errorf("certificate expired at %s", leaf.NotAfter)
	}
	return nil
}
