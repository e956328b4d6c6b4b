package providers

import "fmt"

// TransportError represents a network-level failure reaching the provider:
// DNS, connection, TLS, or timeout. The caller sees 503.
type TransportError struct {
	// Provider is the name of the provider that could not be reached
	Provider string

	// Cause is the underlying transport error
	Cause error
}

// Error implements the error interface.
func (e *TransportError) Error() string {
	return fmt.Sprintf("provider %q unreachable: %v", e.Provider, e.Cause)
}

// Unwrap returns the underlying error for error chain support.
func (e *TransportError) Unwrap() error {
	return e.Cause
}

// AuthError represents an authentication failure at the provider (HTTP 401).
// This usually means the upstream API key is invalid or revoked.
type AuthError struct {
	// Provider is the name of the provider that rejected authentication
	Provider string

	// Message is the error message from the provider
	Message string
}

// Error implements the error interface.
func (e *AuthError) Error() string {
	return fmt.Sprintf("provider %q authentication failed: %s", e.Provider, e.Message)
}

// InsufficientFundsError represents a billing failure at the provider
// (HTTP 402): the upstream account balance is exhausted.
type InsufficientFundsError struct {
	// Provider is the name of the provider reporting the billing failure
	Provider string

	// Message is the error message from the provider
	Message string
}

// Error implements the error interface.
func (e *InsufficientFundsError) Error() string {
	return fmt.Sprintf("provider %q reports insufficient funds: %s", e.Provider, e.Message)
}

// RateLimitError represents a rate limit exceeded error at the provider
// (HTTP 429).
type RateLimitError struct {
	// Provider is the name of the provider that rate limited the request
	Provider string

	// Message is the error message from the provider
	Message string
}

// Error implements the error interface.
func (e *RateLimitError) Error() string {
	return fmt.Sprintf("provider %q rate limit exceeded: %s", e.Provider, e.Message)
}

// UpstreamError represents any other non-2xx provider response, including
// 5xx internal errors. The original status code is surfaced to the caller.
type UpstreamError struct {
	// Provider is the name of the provider that returned the error
	Provider string

	// StatusCode is the HTTP status code returned by the provider
	StatusCode int

	// Message is the error message from the provider
	Message string
}

// Error implements the error interface.
func (e *UpstreamError) Error() string {
	return fmt.Sprintf("provider %q error (status %d): %s", e.Provider, e.StatusCode, e.Message)
}

// ParseError represents a response parsing failure: the provider returned
// a 2xx status with a body that is not the expected JSON shape.
type ParseError struct {
	// Provider is the name of the provider that returned the malformed response
	Provider string

	// Cause is the underlying parse error
	Cause error
}

// Error implements the error interface.
func (e *ParseError) Error() string {
	return fmt.Sprintf("provider %q response parse error: %v", e.Provider, e.Cause)
}

// Unwrap returns the underlying error for error chain support.
func (e *ParseError) Unwrap() error {
	return e.Cause
}
