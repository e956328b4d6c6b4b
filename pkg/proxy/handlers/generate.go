package handlers

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"cartonex/gateway/pkg/cache"
	"cartonex/gateway/pkg/limits/ratelimit"
	"cartonex/gateway/pkg/providers"
	"cartonex/gateway/pkg/providers/openai"
	"cartonex/gateway/pkg/proxy"
	"cartonex/gateway/pkg/proxy/middleware"
	"cartonex/gateway/pkg/proxy/types"
	"cartonex/gateway/pkg/routing"
	"cartonex/gateway/pkg/security/auth"
	"cartonex/gateway/pkg/usage"
)

// Metrics receives pipeline outcome counters.
// *metrics.Collector satisfies it. Optional.
type Metrics interface {
	RecordRequest(task, status, cacheOutcome string, duration time.Duration)
	RecordTokens(model string, tokens int)
	RecordProviderLatency(provider, model string, duration time.Duration)
	RecordProviderError(provider, errorType string)
	RecordCost(model string, usd float64)
	RecordRateLimited()
}

// GenerateHandler serves the generate endpoint with the full pipeline.
//
// Validation, authentication, and the upstream call are fatal stages:
// their failures end the request. Rate limiting, cache, and usage
// recording are best-effort: a store outage degrades them to no-ops and
// the request proceeds.
type GenerateHandler struct {
	authenticator *auth.Authenticator
	limiter       *ratelimit.Limiter
	cache         *cache.Cache
	router        *routing.Router
	provider      providers.Provider
	recorder      *usage.Recorder
	pricer        *usage.Pricer
	metrics       Metrics
	logger        *slog.Logger
}

// GenerateHandlerConfig wires the pipeline stages.
type GenerateHandlerConfig struct {
	Authenticator *auth.Authenticator
	Limiter       *ratelimit.Limiter
	Cache         *cache.Cache
	Router        *routing.Router
	Provider      providers.Provider
	Recorder      *usage.Recorder

	// Pricer estimates per-call cost for the cost metric. Optional.
	Pricer *usage.Pricer

	// Metrics receives pipeline counters. Optional.
	Metrics Metrics

	// Logger receives pipeline diagnostics. Default: slog.Default().
	Logger *slog.Logger
}

// NewGenerateHandler creates the generate endpoint handler.
func NewGenerateHandler(cfg GenerateHandlerConfig) (*GenerateHandler, error) {
	if cfg.Authenticator == nil {
		return nil, fmt.Errorf("authenticator cannot be nil")
	}
	if cfg.Limiter == nil {
		return nil, fmt.Errorf("limiter cannot be nil")
	}
	if cfg.Cache == nil {
		return nil, fmt.Errorf("cache cannot be nil")
	}
	if cfg.Router == nil {
		return nil, fmt.Errorf("router cannot be nil")
	}
	if cfg.Provider == nil {
		return nil, fmt.Errorf("provider cannot be nil")
	}
	if cfg.Recorder == nil {
		return nil, fmt.Errorf("recorder cannot be nil")
	}
	if cfg.Pricer == nil {
		cfg.Pricer = usage.NewPricer(nil)
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	return &GenerateHandler{
		authenticator: cfg.Authenticator,
		limiter:       cfg.Limiter,
		cache:         cfg.Cache,
		router:        cfg.Router,
		provider:      cfg.Provider,
		recorder:      cfg.Recorder,
		pricer:        cfg.Pricer,
		metrics:       cfg.Metrics,
		logger:        cfg.Logger,
	}, nil
}

// ServeHTTP implements http.Handler.
func (h *GenerateHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := middleware.GetRequestID(ctx)
	startTime := time.Now()

	if r.Method != http.MethodPost {
		errResp := types.NewErrorResponse(http.StatusMethodNotAllowed,
			fmt.Sprintf("method %s not allowed, use POST", r.Method), nil)
		proxy.WriteErrorResponse(w, errResp)
		return
	}

	if err := proxy.ValidateContentType(r.Header.Get("Content-Type")); err != nil {
		h.fail(w, r, "", startTime, err)
		return
	}

	// Parse and structurally validate the body before touching any
	// credential or store: a malformed request never costs anything.
	req, err := proxy.ParseGenerateRequest(r)
	if err != nil {
		h.fail(w, r, "", startTime, err)
		return
	}

	// Credential shape first, then the constant-time comparison. An
	// absent key skips straight to the authenticator's 401.
	credential := proxy.ExtractAPIKey(r)
	if credential != "" {
		if err := proxy.ValidateCredentialFormat(credential); err != nil {
			h.fail(w, r, "", startTime, err)
			return
		}
	}
	if err := h.authenticator.Authenticate(credential); err != nil {
		h.fail(w, r, "", startTime, err)
		return
	}

	// Rate limiting fails open: a store outage must not block traffic.
	ip := proxy.ClientIP(r)
	decision := proxy.BestEffort(h.logger, "rate_limit", ratelimit.Decision{Allowed: true},
		func() (ratelimit.Decision, error) {
			return h.limiter.Allow(ctx, ip)
		})
	if !decision.Allowed {
		if h.metrics != nil {
			h.metrics.RecordRateLimited()
		}
		retryAfter := int(decision.RetryAfter.Seconds()) + 1
		w.Header().Set("Retry-After", strconv.Itoa(retryAfter))
		h.logger.Warn("request rate limited",
			"request_id", requestID,
			"ip", ip,
		)
		errResp := types.NewRateLimitErrorResponse(retryAfter)
		proxy.WriteErrorResponse(w, errResp)
		h.record("", strconv.Itoa(errResp.Error.Code), proxy.CacheMiss, startTime)
		return
	}

	route := h.router.Route(req.UserText())

	key := proxy.BestEffort(h.logger, "cache_key", "", func() (string, error) {
		return cache.Fingerprint(req, route.Model)
	})
	cacheable := key != "" && cache.IsCacheable(req, route.Task)

	if cacheable {
		resp, hit := h.lookupCache(r, key)
		if hit {
			proxy.SetCacheHeaders(w, true, key)
			proxy.WriteJSONResponse(w, http.StatusOK, resp)
			h.logger.Info("request served from cache",
				"request_id", requestID,
				"task", string(route.Task),
				"cache_key", key,
			)
			h.record(string(route.Task), "200", proxy.CacheHit, startTime)
			return
		}
	}

	chatReq := openai.BuildChatRequest(req, route.Model, route.SystemInstruction)

	providerStart := time.Now()
	chatResp, err := h.provider.ChatCompletion(ctx, chatReq)
	providerLatency := time.Since(providerStart)
	if h.metrics != nil {
		h.metrics.RecordProviderLatency(h.provider.Name(), route.Model, providerLatency)
	}
	if err != nil {
		if h.metrics != nil {
			h.metrics.RecordProviderError(h.provider.Name(), providerErrorType(err))
		}
		h.logger.Error("upstream call failed",
			"request_id", requestID,
			"provider", h.provider.Name(),
			"model", route.Model,
			"error", err,
			"provider_latency_ms", providerLatency.Milliseconds(),
		)
		errResp := proxy.HandleError(err)
		proxy.WriteErrorResponse(w, errResp)
		h.record(string(route.Task), strconv.Itoa(errResp.Error.Code), proxy.CacheMiss, startTime)
		return
	}

	resp := openai.TranslateResponse(chatResp)

	promptTokens := chatResp.Usage.PromptTokens
	completionTokens := chatResp.Usage.CompletionTokens
	proxy.BestEffortRun(h.logger, "usage_record", func() error {
		return h.recorder.Record(ctx, route.Model, route.Task, promptTokens, completionTokens)
	})
	if h.metrics != nil {
		h.metrics.RecordTokens(route.Model, promptTokens+completionTokens)
		h.metrics.RecordCost(route.Model, h.pricer.Cost(route.Model, promptTokens, completionTokens))
	}

	if cacheable {
		proxy.BestEffortRun(h.logger, "cache_store", func() error {
			return h.cache.Store(ctx, key, route.Task, resp)
		})
	}

	proxy.SetCacheHeaders(w, false, key)
	proxy.WriteJSONResponse(w, http.StatusOK, resp)

	h.logger.Info("request completed",
		"request_id", requestID,
		"task", string(route.Task),
		"model", route.Model,
		"prompt_tokens", promptTokens,
		"completion_tokens", completionTokens,
		"provider_latency_ms", providerLatency.Milliseconds(),
	)
	h.record(string(route.Task), "200", proxy.CacheMiss, startTime)
}

// lookupCache runs the best-effort cache read. A store failure or corrupt
// entry degrades to a miss.
func (h *GenerateHandler) lookupCache(r *http.Request, key string) (*types.GenerateResponse, bool) {
	type outcome struct {
		resp *types.GenerateResponse
		hit  bool
	}
	result := proxy.BestEffort(h.logger, "cache_lookup", outcome{},
		func() (outcome, error) {
			resp, hit, err := h.cache.Lookup(r.Context(), key)
			return outcome{resp: resp, hit: hit}, err
		})
	return result.resp, result.hit
}

// fail writes a classified error response and records the outcome.
func (h *GenerateHandler) fail(w http.ResponseWriter, r *http.Request, task string, startTime time.Time, err error) {
	requestID := middleware.GetRequestID(r.Context())
	errResp := proxy.HandleError(err)

	logLevel := slog.LevelWarn
	if errResp.Error.Code >= 500 {
		logLevel = slog.LevelError
	}
	h.logger.Log(r.Context(), logLevel, "request rejected",
		"request_id", requestID,
		"status", errResp.Error.Code,
		"error", err,
	)

	proxy.WriteErrorResponse(w, errResp)
	h.record(task, strconv.Itoa(errResp.Error.Code), proxy.CacheMiss, startTime)
}

func (h *GenerateHandler) record(task, status, cacheOutcome string, startTime time.Time) {
	if h.metrics == nil {
		return
	}
	if task == "" {
		task = "unclassified"
	}
	h.metrics.RecordRequest(task, status, cacheOutcome, time.Since(startTime))
}

// providerErrorType labels an upstream failure for the error counter.
func providerErrorType(err error) string {
	var transportErr *providers.TransportError
	if errors.As(err, &transportErr) {
		return "transport"
	}
	var authErr *providers.AuthError
	if errors.As(err, &authErr) {
		return "auth"
	}
	var fundsErr *providers.InsufficientFundsError
	if errors.As(err, &fundsErr) {
		return "insufficient_funds"
	}
	var rateLimitErr *providers.RateLimitError
	if errors.As(err, &rateLimitErr) {
		return "rate_limit"
	}
	var parseErr *providers.ParseError
	if errors.As(err, &parseErr) {
		return "parse"
	}
	var upstreamErr *providers.UpstreamError
	if errors.As(err, &upstreamErr) {
		return "upstream"
	}
	return "unknown"
}
