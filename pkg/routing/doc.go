// Package routing classifies request text into task types and selects the
// upstream model and system instruction for each.
package routing
