// Package openai implements the upstream client for OpenAI-compatible
// chat-completion APIs and the translation between the gateway's public
// wire format and the upstream's native one.
package openai
