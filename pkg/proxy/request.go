package proxy

import (
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"

	"cartonex/gateway/pkg/proxy/types"
)

const (
	// MaxRequestBodySize is the maximum allowed request body size (10MB).
	MaxRequestBodySize = 10 * 1024 * 1024

	// APIKeyHeader is the HTTP header carrying the caller credential.
	APIKeyHeader = "X-API-Key"

	// RequestIDHeader is the HTTP header for request ID propagation.
	RequestIDHeader = "X-Request-ID"

	// ForwardedForHeader carries the original client IP behind proxies.
	ForwardedForHeader = "X-Forwarded-For"
)

// ParseGenerateRequest parses an HTTP request body into a GenerateRequest.
// It enforces the body size limit, decodes the JSON, and runs the structural
// validation checks. Any failure is returned as a *ValidationError.
func ParseGenerateRequest(r *http.Request) (*types.GenerateRequest, error) {
	limitedReader := io.LimitReader(r.Body, MaxRequestBodySize)

	body, err := io.ReadAll(limitedReader)
	if err != nil {
		return nil, fmt.Errorf("failed to read request body: %w", err)
	}

	if len(body) >= MaxRequestBodySize {
		return nil, &ValidationError{
			Field:   "body",
			Message: fmt.Sprintf("request body exceeds maximum size of %d bytes", MaxRequestBodySize),
		}
	}

	var req types.GenerateRequest
	if err := json.Unmarshal(body, &req); err != nil {
		return nil, &ValidationError{
			Field:   "body",
			Message: fmt.Sprintf("invalid JSON: %v", err),
		}
	}

	if err := ValidateRequest(&req); err != nil {
		return nil, err
	}

	return &req, nil
}

// ExtractAPIKey extracts the caller credential from the X-API-Key header.
// Returns an empty string when the header is absent.
func ExtractAPIKey(r *http.Request) string {
	return strings.TrimSpace(r.Header.Get(APIKeyHeader))
}

// ExtractRequestID extracts the request ID from the X-Request-ID header.
// If the header is not present, it returns an empty string and the
// middleware will generate one.
func ExtractRequestID(r *http.Request) string {
	return r.Header.Get(RequestIDHeader)
}

// ClientIP resolves the caller IP for rate limiting. The first entry of
// X-Forwarded-For wins when present; otherwise the connection's remote
// address is used. Returns an empty string when neither is usable.
func ClientIP(r *http.Request) string {
	if fwd := r.Header.Get(ForwardedForHeader); fwd != "" {
		first := strings.TrimSpace(strings.SplitN(fwd, ",", 2)[0])
		if first != "" {
			return first
		}
	}

	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		// RemoteAddr without a port, e.g. in tests
		return strings.TrimSpace(r.RemoteAddr)
	}
	return host
}
