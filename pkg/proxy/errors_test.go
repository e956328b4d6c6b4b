package proxy

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"testing"

	"cartonex/gateway/pkg/providers"
	"cartonex/gateway/pkg/security/auth"
)

func TestHandleError_StatusMapping(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantCode int
	}{
		{
			name:     "validation error",
			err:      &ValidationError{Field: "contents", Message: "contents must be a non-empty array"},
			wantCode: http.StatusBadRequest,
		},
		{
			name:     "wrapped validation error",
			err:      fmt.Errorf("pipeline: %w", &ValidationError{Message: "bad"}),
			wantCode: http.StatusBadRequest,
		},
		{
			name:     "auth error",
			err:      &auth.AuthError{Reason: "invalid API key"},
			wantCode: http.StatusUnauthorized,
		},
		{
			name:     "transport error",
			err:      &providers.TransportError{Provider: "openai", Cause: errors.New("connection refused")},
			wantCode: http.StatusServiceUnavailable,
		},
		{
			name:     "upstream auth error",
			err:      &providers.AuthError{Provider: "openai", Message: "invalid key"},
			wantCode: http.StatusUnauthorized,
		},
		{
			name:     "insufficient funds",
			err:      &providers.InsufficientFundsError{Provider: "openai", Message: "balance exhausted"},
			wantCode: http.StatusPaymentRequired,
		},
		{
			name:     "provider rate limit",
			err:      &providers.RateLimitError{Provider: "openai", Message: "slow down"},
			wantCode: http.StatusTooManyRequests,
		},
		{
			name:     "parse error",
			err:      &providers.ParseError{Provider: "openai", Cause: errors.New("unexpected EOF")},
			wantCode: http.StatusInternalServerError,
		},
		{
			name:     "upstream error surfaces status",
			err:      &providers.UpstreamError{Provider: "openai", StatusCode: 502, Message: "bad gateway"},
			wantCode: http.StatusBadGateway,
		},
		{
			name:     "unknown error",
			err:      errors.New("something unexpected"),
			wantCode: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := HandleError(tt.err)
			if resp.Error.Code != tt.wantCode {
				t.Errorf("Expected code %d, got %d (message %q)", tt.wantCode, resp.Error.Code, resp.Error.Message)
			}
			if resp.Error.Message == "" {
				t.Error("Expected a non-empty message")
			}
		})
	}
}

func TestHandleError_TransportHidesCause(t *testing.T) {
	err := &providers.TransportError{
		Provider: "openai",
		Cause:    errors.New("dial tcp internal-host.corp:443: connection refused"),
	}

	resp := HandleError(err)
	if got := resp.Error.Message; got != `provider "openai" temporarily unavailable` {
		t.Errorf("Transport error message leaks details: %q", got)
	}
}

func TestBestEffort(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	got := BestEffort(logger, "cache_lookup", "fallback", func() (string, error) {
		return "value", nil
	})
	if got != "value" {
		t.Errorf("Expected value, got %q", got)
	}

	got = BestEffort(logger, "cache_lookup", "fallback", func() (string, error) {
		return "", errors.New("store down")
	})
	if got != "fallback" {
		t.Errorf("Expected fallback on error, got %q", got)
	}

	// BestEffortRun must swallow the error.
	BestEffortRun(logger, "usage_record", func() error {
		return errors.New("store down")
	})
}
