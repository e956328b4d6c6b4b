package cache

import (
	"encoding/json"

	"cartonex/gateway/pkg/proxy/types"
	"cartonex/gateway/pkg/routing"
)

// Eligibility thresholds. Only deterministic, cheap-to-recompute requests
// are cached: a high-temperature response would serve stale variety, and
// large bodies make poor cache keys.
const (
	// MaxCacheableTemperature is the highest caller temperature still
	// considered deterministic enough to cache.
	MaxCacheableTemperature = 0.5

	// MaxCacheableTokens is the highest max_tokens value still cached.
	MaxCacheableTokens = 2000

	// MaxCacheableContentSize bounds the serialized content length.
	MaxCacheableContentSize = 10000
)

// IsCacheable reports whether a request's response may be cached.
// Only extraction and price-correction tasks qualify, and only when the
// caller's sampling parameters and content size stay under the thresholds.
// Absent parameters count as eligible; explicit values are checked.
func IsCacheable(req *types.GenerateRequest, task routing.TaskType) bool {
	if task != routing.TaskExtraction && task != routing.TaskPriceCorrection {
		return false
	}

	if cfg := req.GenerationConfig; cfg != nil {
		if cfg.Temperature != nil && *cfg.Temperature > MaxCacheableTemperature {
			return false
		}
		if cfg.MaxTokens != nil && *cfg.MaxTokens > MaxCacheableTokens {
			return false
		}
	}

	serialized, err := json.Marshal(req.Contents)
	if err != nil {
		return false
	}
	return len(serialized) <= MaxCacheableContentSize
}
