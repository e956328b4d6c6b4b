// Package auth confirms caller identity against the gateway's single
// shared secret.
package auth

import (
	"crypto/sha256"
	"crypto/subtle"
	"fmt"
	"log/slog"
	"sync"
)

// AuthError represents a failed authentication check.
type AuthError struct {
	// Reason describes the failure for logs. Never contains the
	// presented credential.
	Reason string
}

// Error implements the error interface.
func (e *AuthError) Error() string {
	return fmt.Sprintf("authentication failed: %s", e.Reason)
}

// Authenticator compares caller credentials against a single configured
// shared secret. There is no per-caller key set: the client application
// embeds the secret, and the real protection boundary is the rate limiter
// and the edge network, not this check.
//
// The secret can be swapped at runtime by the config reloader.
type Authenticator struct {
	mu sync.RWMutex

	// secretDigest is the sha256 of the configured secret. Comparing
	// fixed-length digests keeps the comparison constant-time without
	// leaking the secret length.
	secretDigest [sha256.Size]byte

	logger *slog.Logger
}

// NewAuthenticator creates an authenticator for the shared secret.
func NewAuthenticator(secret string, logger *slog.Logger) (*Authenticator, error) {
	if secret == "" {
		return nil, fmt.Errorf("shared secret cannot be empty")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Authenticator{
		secretDigest: sha256.Sum256([]byte(secret)),
		logger:       logger,
	}, nil
}

// Authenticate checks a presented credential against the shared secret.
// Returns *AuthError on mismatch or missing credential.
func (a *Authenticator) Authenticate(credential string) error {
	if credential == "" {
		return &AuthError{Reason: "missing API key"}
	}

	presented := sha256.Sum256([]byte(credential))

	a.mu.RLock()
	expected := a.secretDigest
	a.mu.RUnlock()

	if subtle.ConstantTimeCompare(presented[:], expected[:]) != 1 {
		a.logger.Warn("authentication rejected", "api_key", Redact(credential))
		return &AuthError{Reason: "invalid API key"}
	}
	return nil
}

// SetSecret replaces the shared secret. Called by the config reloader.
func (a *Authenticator) SetSecret(secret string) error {
	if secret == "" {
		return fmt.Errorf("shared secret cannot be empty")
	}

	a.mu.Lock()
	a.secretDigest = sha256.Sum256([]byte(secret))
	a.mu.Unlock()

	a.logger.Info("shared secret rotated")
	return nil
}

// Redact truncates a credential for logging: the first four characters
// followed by an ellipsis, or "***" for shorter values.
func Redact(credential string) string {
	if len(credential) <= 4 {
		return "***"
	}
	return credential[:4] + "..."
}
