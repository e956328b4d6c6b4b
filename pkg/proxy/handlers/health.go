package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"time"
)

// ServiceName identifies the gateway in probe responses.
const ServiceName = "cartonex-gateway"

// HealthHandler answers liveness probes. It always returns 200: the
// process being able to answer is the entire check. Store and upstream
// health belong to the readiness probe.
type HealthHandler struct {
	// Version is the build version reported in the body.
	Version string
}

// NewHealthHandler creates a liveness handler.
func NewHealthHandler(version string) *HealthHandler {
	return &HealthHandler{Version: version}
}

// ServeHTTP implements http.Handler.
func (h *HealthHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	response := map[string]any{
		"status":    "healthy",
		"timestamp": time.Now().Unix(),
		"service":   ServiceName,
		"version":   h.Version,
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(response)
}

// Prober is the readiness view of the shared store.
// store.Store satisfies it.
type Prober interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
}

// ReadyHandler answers readiness probes with a read round-trip against
// the shared store. The probe key never exists; only the error matters.
type ReadyHandler struct {
	store Prober
}

// NewReadyHandler creates a readiness handler over the shared store.
func NewReadyHandler(store Prober) *ReadyHandler {
	return &ReadyHandler{store: store}
}

// ServeHTTP implements http.Handler.
func (h *ReadyHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	status := "ready"
	statusCode := http.StatusOK
	var storeStatus string

	if _, _, err := h.store.Get(ctx, "readiness_probe"); err != nil {
		status = "not_ready"
		statusCode = http.StatusServiceUnavailable
		storeStatus = err.Error()
	} else {
		storeStatus = "ok"
	}

	response := map[string]any{
		"status":    status,
		"store":     storeStatus,
		"timestamp": time.Now().Unix(),
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(response)
}
