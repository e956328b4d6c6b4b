// Package providers defines the upstream chat-completion contract and the
// typed errors the gateway uses to classify provider failures.
package providers
