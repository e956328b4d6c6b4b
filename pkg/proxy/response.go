package proxy

import (
	"encoding/json"
	"net/http"

	"cartonex/gateway/pkg/proxy/types"
)

const (
	// CacheStatusHeader reports whether the response was served from cache.
	CacheStatusHeader = "X-Cache"

	// CacheKeyHeader reports the fingerprint used for the cache lookup.
	CacheKeyHeader = "X-Cache-Key"

	// CacheHit and CacheMiss are the values of CacheStatusHeader.
	CacheHit  = "HIT"
	CacheMiss = "MISS"
)

// WriteJSONResponse writes a JSON body with the given status code.
// Encoding errors are ignored at this point; the status line has already
// been committed.
func WriteJSONResponse(w http.ResponseWriter, statusCode int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(body)
}

// WriteErrorResponse writes the uniform error body with its embedded
// status code.
func WriteErrorResponse(w http.ResponseWriter, errResp *types.ErrorResponse) {
	WriteJSONResponse(w, errResp.Error.Code, errResp)
}

// SetCacheHeaders stamps the cache outcome on a response.
func SetCacheHeaders(w http.ResponseWriter, hit bool, key string) {
	status := CacheMiss
	if hit {
		status = CacheHit
	}
	w.Header().Set(CacheStatusHeader, status)
	if key != "" {
		w.Header().Set(CacheKeyHeader, key)
	}
}
