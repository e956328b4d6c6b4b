// Package middleware provides the HTTP middleware chain for the gateway:
// panic recovery, request ID propagation, structured request logging,
// CORS, and per-request timeouts.
//
// Middlewares compose outermost-first:
//
//	handler = middleware.Recovery(
//	    middleware.RequestID(
//	        middleware.Logging(
//	            middleware.Timeout(60*time.Second)(mux))))
package middleware
