package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"cartonex/gateway/pkg/proxy/types"
)

// Timeout enforces a per-request deadline covering the entire pipeline,
// upstream call included. A request that outlives the deadline gets a
// 504 and its context is cancelled so the handler goroutine can unwind.
func Timeout(timeout time.Duration) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx, cancel := context.WithTimeout(r.Context(), timeout)
			defer cancel()

			done := make(chan struct{})
			panicChan := make(chan any, 1)

			go func() {
				// Re-raise panics on the caller's goroutine so the recovery
				// middleware sees them.
				defer func() {
					if p := recover(); p != nil {
						panicChan <- p
					}
					close(done)
				}()
				next.ServeHTTP(w, r.WithContext(ctx))
			}()

			select {
			case p := <-panicChan:
				panic(p)

			case <-done:
				// done and panicChan can become ready together; drain the
				// panic before declaring success.
				select {
				case p := <-panicChan:
					panic(p)
				default:
				}
				return

			case <-ctx.Done():
				if ctx.Err() == context.DeadlineExceeded {
					errResp := types.NewErrorResponse(http.StatusGatewayTimeout,
						"request timed out", nil)

					w.Header().Set("Content-Type", "application/json")
					w.WriteHeader(http.StatusGatewayTimeout)
					_ = json.NewEncoder(w).Encode(errResp)
				}
			}
		})
	}
}
