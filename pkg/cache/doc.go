// Package cache implements the content-addressed response cache: request
// fingerprinting, eligibility rules, and per-task-class TTLs.
package cache
