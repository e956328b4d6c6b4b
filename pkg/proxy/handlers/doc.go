// Package handlers implements the gateway's HTTP endpoints.
//
// The generate handler runs the request pipeline: validation,
// authentication, rate limiting, cache lookup, model routing, the
// upstream call, usage recording, and the cache write-back. Health and
// readiness handlers serve the probes.
package handlers
