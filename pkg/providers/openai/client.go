package openai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"cartonex/gateway/pkg/providers"
)

const defaultTimeout = 60 * time.Second

// Client is an OpenAI-compatible chat-completions client.
// It performs a single call per request with no retry logic; retry policy
// belongs to the caller, not the gateway.
type Client struct {
	name       string
	baseURL    string
	apiKey     string
	httpClient *http.Client
	logger     *slog.Logger
}

// ClientConfig configures the upstream client.
type ClientConfig struct {
	// Name identifies the provider in logs and metrics. Default: "openai".
	Name string

	// BaseURL is the provider's API root, e.g. https://api.openai.com/v1.
	BaseURL string

	// APIKey is the upstream bearer token.
	APIKey string

	// Timeout bounds each upstream call. Default: 60s.
	Timeout time.Duration

	// Logger receives request-level diagnostics. Default: slog.Default().
	Logger *slog.Logger
}

// NewClient creates an upstream client from config.
func NewClient(cfg ClientConfig) (*Client, error) {
	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("base URL cannot be empty")
	}
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("API key cannot be empty")
	}
	if cfg.Name == "" {
		cfg.Name = "openai"
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = defaultTimeout
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}

	transport := &http.Transport{
		MaxIdleConns:        100,
		MaxIdleConnsPerHost: 10,
		IdleConnTimeout:     90 * time.Second,
		ForceAttemptHTTP2:   true,
	}

	return &Client{
		name:    cfg.Name,
		baseURL: strings.TrimSuffix(cfg.BaseURL, "/"),
		apiKey:  cfg.APIKey,
		httpClient: &http.Client{
			Transport: transport,
			Timeout:   cfg.Timeout,
		},
		logger: cfg.Logger,
	}, nil
}

// Name returns the provider identifier.
func (c *Client) Name() string {
	return c.name
}

// ChatCompletion performs a single chat-completion call.
func (c *Client) ChatCompletion(ctx context.Context, req *providers.ChatCompletionRequest) (*providers.ChatCompletionResponse, error) {
	payload, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal upstream request: %w", err)
	}

	url := c.baseURL + "/chat/completions"
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to build upstream request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)

	start := time.Now()
	httpResp, err := c.httpClient.Do(httpReq)
	if err != nil {
		c.logger.Warn("upstream call failed",
			"provider", c.name,
			"model", req.Model,
			"error", err,
		)
		return nil, &providers.TransportError{Provider: c.name, Cause: err}
	}
	defer httpResp.Body.Close()

	body, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return nil, &providers.TransportError{Provider: c.name, Cause: err}
	}

	c.logger.Debug("upstream call completed",
		"provider", c.name,
		"model", req.Model,
		"status", httpResp.StatusCode,
		"duration_ms", time.Since(start).Milliseconds(),
	)

	if httpResp.StatusCode != http.StatusOK {
		return nil, c.classifyError(httpResp.StatusCode, body)
	}

	var resp providers.ChatCompletionResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, &providers.ParseError{Provider: c.name, Cause: err}
	}
	if len(resp.Choices) == 0 {
		return nil, &providers.ParseError{Provider: c.name, Cause: fmt.Errorf("response contains no choices")}
	}

	return &resp, nil
}

// classifyError maps a non-200 upstream status to a typed error.
func (c *Client) classifyError(statusCode int, body []byte) error {
	message := upstreamMessage(body)

	switch statusCode {
	case http.StatusUnauthorized:
		return &providers.AuthError{Provider: c.name, Message: message}
	case http.StatusPaymentRequired:
		return &providers.InsufficientFundsError{Provider: c.name, Message: message}
	case http.StatusTooManyRequests:
		return &providers.RateLimitError{Provider: c.name, Message: message}
	default:
		return &providers.UpstreamError{Provider: c.name, StatusCode: statusCode, Message: message}
	}
}

// upstreamMessage extracts the provider's error message from an error body,
// falling back to a trimmed raw body when the shape is unexpected.
func upstreamMessage(body []byte) string {
	var parsed struct {
		Error struct {
			Message string `json:"message"`
		} `json:"error"`
	}
	if err := json.Unmarshal(body, &parsed); err == nil && parsed.Error.Message != "" {
		return parsed.Error.Message
	}

	raw := strings.TrimSpace(string(body))
	if len(raw) > 200 {
		raw = raw[:200]
	}
	if raw == "" {
		raw = "no error details provided"
	}
	return raw
}
